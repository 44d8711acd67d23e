package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestConfigValidator_Required(t *testing.T) {
	cv := NewConfigValidator("junction")
	cv.Required("general.vehicle_anchor", "")

	if !cv.HasErrors() {
		t.Error("Expected error for empty required field")
	}

	cv2 := NewConfigValidator("junction")
	cv2.Required("general.vehicle_anchor", "A0")

	if cv2.HasErrors() {
		t.Error("Expected no error for non-empty required field")
	}
}

func TestConfigValidator_Forbidden(t *testing.T) {
	cv := NewConfigValidator("junction")
	cv.Forbidden("stages[2].minimum_type", "cpn", "LRT stages carry no compensation class")

	err := cv.Validate()
	if err == nil || !strings.Contains(err.Error(), "LRT stages carry no compensation class") {
		t.Errorf("Validate() = %v", err)
	}

	if NewConfigValidator("junction").Forbidden("x", "", "reason").HasErrors() {
		t.Error("empty value should pass")
	}
}

func TestConfigValidator_Unique(t *testing.T) {
	seen := map[string]string{}
	cv := NewConfigValidator("junction")
	cv.Unique("stages[0].stage", "B", seen).
		Unique("stages[1].stage", "C", seen).
		Unique("stages[2].stage", "B", seen)

	errs := cv.Errors()
	if len(errs) != 1 {
		t.Fatalf("Errors() = %v, want 1", errs)
	}
	if !strings.Contains(errs[0].Error(), "already used by stages[0].stage") {
		t.Errorf("error = %v", errs[0])
	}
}

func TestConfigValidator_PositiveAndNonNegative(t *testing.T) {
	cv := NewConfigValidator("junction")
	cv.Positive("sibling_priority", 0).NonNegative("waterfall_level", -1)

	if len(cv.Errors()) != 2 {
		t.Errorf("Errors() = %v, want 2", cv.Errors())
	}
}

func TestConfigValidator_OneOf(t *testing.T) {
	cv := NewConfigValidator("junction")
	cv.OneOf("kind", "tram", []string{"vehicle", "lrt", "lig"})
	if !cv.HasErrors() {
		t.Error("Expected error for value outside allowed set")
	}

	cv2 := NewConfigValidator("junction")
	cv2.OneOf("kind", "lrt", []string{"vehicle", "lrt", "lig"})
	if cv2.HasErrors() {
		t.Error("Expected no error for allowed value")
	}
}

func TestConfigValidator_CustomWraps(t *testing.T) {
	sentinel := errors.New("undeclared stage")
	cv := NewConfigValidator("junction")
	cv.Custom("terminals[0]", func() error { return sentinel })

	if !errors.Is(cv.Validate(), sentinel) {
		t.Errorf("Validate() should wrap the custom error, got %v", cv.Validate())
	}
}

func TestConfigValidator_When(t *testing.T) {
	cv := NewConfigValidator("junction")
	cv.When(false, func(v *ConfigValidator) { v.Required("x", "") })
	if cv.HasErrors() {
		t.Error("When(false) should not run validations")
	}

	cv.When(true, func(v *ConfigValidator) { v.Required("x", "") })
	if !cv.HasErrors() {
		t.Error("When(true) should run validations")
	}
}

func TestConfigValidator_ValidateJoinsAll(t *testing.T) {
	a, b := errors.New("first"), errors.New("second")
	cv := NewConfigValidator("junction").Add(a, nil, b)

	err := cv.Validate()
	if !errors.Is(err, a) || !errors.Is(err, b) {
		t.Errorf("Validate() = %v, want both errors joined", err)
	}
	if NewConfigValidator("junction").Validate() != nil {
		t.Error("empty validator should return nil")
	}
}

func TestDefaultOr(t *testing.T) {
	if got := DefaultOr("", "context"); got != "context" {
		t.Errorf("DefaultOr(\"\") = %q", got)
	}
	if got := DefaultOr("anchor", "context"); got != "anchor" {
		t.Errorf("DefaultOr(anchor) = %q", got)
	}
	if got := DefaultOr(0, 4); got != 4 {
		t.Errorf("DefaultOr(0) = %d", got)
	}
}

func TestClampInt(t *testing.T) {
	tests := []struct{ v, want int }{{-1, 0}, {5, 5}, {100, 64}}
	for _, tt := range tests {
		if got := ClampInt(tt.v, 0, 64); got != tt.want {
			t.Errorf("ClampInt(%d) = %d, want %d", tt.v, got, tt.want)
		}
	}
}

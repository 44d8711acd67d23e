package validation

import (
	"errors"
	"fmt"
)

// ConfigValidator provides a fluent interface for cross-record checks on a
// junction document. It collects all validation errors rather than failing
// on the first one.
type ConfigValidator struct {
	errors []error
	name   string // prefix for error messages
}

// NewConfigValidator creates a new validator whose messages start with name
func NewConfigValidator(name string) *ConfigValidator {
	return &ConfigValidator{
		name:   name,
		errors: make([]error, 0),
	}
}

func (cv *ConfigValidator) fail(field, format string, args ...any) {
	cv.errors = append(cv.errors, fmt.Errorf("%s.%s: %s", cv.name, field, fmt.Sprintf(format, args...)))
}

// Required validates that a string field is not empty.
func (cv *ConfigValidator) Required(field, value string) *ConfigValidator {
	if value == "" {
		cv.fail(field, "required field is empty")
	}
	return cv
}

// Forbidden validates that a string field is empty.
func (cv *ConfigValidator) Forbidden(field, value, reason string) *ConfigValidator {
	if value != "" {
		cv.fail(field, "value %q not allowed: %s", value, reason)
	}
	return cv
}

// Positive validates that an int field is positive (> 0).
func (cv *ConfigValidator) Positive(field string, value int) *ConfigValidator {
	if value <= 0 {
		cv.fail(field, "value %d must be positive", value)
	}
	return cv
}

// NonNegative validates that an int field is non-negative (>= 0).
func (cv *ConfigValidator) NonNegative(field string, value int) *ConfigValidator {
	if value < 0 {
		cv.fail(field, "value %d must be non-negative", value)
	}
	return cv
}

// OneOf validates that a string field is one of the allowed values.
func (cv *ConfigValidator) OneOf(field, value string, allowed []string) *ConfigValidator {
	for _, a := range allowed {
		if value == a {
			return cv
		}
	}
	cv.fail(field, "value %q must be one of %v", value, allowed)
	return cv
}

// Unique records value under field in seen and fails when another field
// already holds it.
func (cv *ConfigValidator) Unique(field, value string, seen map[string]string) *ConfigValidator {
	if prev, ok := seen[value]; ok {
		cv.fail(field, "value %q already used by %s", value, prev)
		return cv
	}
	seen[value] = field
	return cv
}

// Custom applies a custom validation function.
func (cv *ConfigValidator) Custom(field string, fn func() error) *ConfigValidator {
	if err := fn(); err != nil {
		cv.errors = append(cv.errors, fmt.Errorf("%s.%s: %w", cv.name, field, err))
	}
	return cv
}

// When conditionally applies validations if the condition is true.
func (cv *ConfigValidator) When(condition bool, validations func(*ConfigValidator)) *ConfigValidator {
	if condition {
		validations(cv)
	}
	return cv
}

// Add records errors produced elsewhere, such as struct tag checks.
func (cv *ConfigValidator) Add(errs ...error) *ConfigValidator {
	for _, err := range errs {
		if err != nil {
			cv.errors = append(cv.errors, err)
		}
	}
	return cv
}

// HasErrors returns true if any validation errors occurred.
func (cv *ConfigValidator) HasErrors() bool {
	return len(cv.errors) > 0
}

// Errors returns all validation errors.
func (cv *ConfigValidator) Errors() []error {
	return cv.errors
}

// Validate returns every failure joined into one error, or nil.
func (cv *ConfigValidator) Validate() error {
	if len(cv.errors) == 0 {
		return nil
	}
	return errors.Join(cv.errors...)
}

// DefaultOr returns the value if it's non-zero, otherwise returns the default.
func DefaultOr[T comparable](value, defaultValue T) T {
	var zero T
	if value == zero {
		return defaultValue
	}
	return value
}

// ClampInt clamps a value to the specified range [min, max].
func ClampInt(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// MaxIdentifierLength bounds stage and detector identifiers
	MaxIdentifierLength = 32

	stageIDPattern  = regexp.MustCompile(`^[A-Za-z0-9]+$`)
	detectorPattern = regexp.MustCompile(`^[A-Za-z0-9_.\-]+$`)
)

func init() {
	validate = validator.New()

	// Report fields by their YAML names so messages point into the file
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	_ = validate.RegisterValidation("stageid", func(fl validator.FieldLevel) bool {
		return ValidateStageID(fl.Field().String()) == nil
	})
	_ = validate.RegisterValidation("detector", func(fl validator.FieldLevel) bool {
		return detectorPattern.MatchString(fl.Field().String())
	})
}

// Struct validates a record using its struct tags and returns every
// failing field, each formatted with its path in the document.
func Struct(record any) []error {
	if record == nil {
		return []error{errors.New("record cannot be nil")}
	}
	err := validate.Struct(record)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return []error{err}
	}
	out := make([]error, 0, len(validationErrs))
	for _, e := range validationErrs {
		out = append(out, formatFieldError(e))
	}
	return out
}

// ValidateStageID checks a stage identifier
func ValidateStageID(id string) error {
	if id == "" {
		return errors.New("stage id cannot be empty")
	}
	if len(id) > MaxIdentifierLength {
		return fmt.Errorf("stage id '%s' exceeds maximum length of %d characters", id, MaxIdentifierLength)
	}
	if !stageIDPattern.MatchString(id) {
		return fmt.Errorf("stage id '%s' contains invalid characters (only letters and digits allowed)", id)
	}
	return nil
}

// formatFieldError converts a validator error to a user-friendly message
func formatFieldError(e validator.FieldError) error {
	field := e.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Errorf("%s: field is required", field)
	case "min":
		return fmt.Errorf("%s: must be at least %s", field, param)
	case "max":
		return fmt.Errorf("%s: must not exceed %s", field, param)
	case "gte":
		return fmt.Errorf("%s: must be %s or more", field, param)
	case "oneof":
		return fmt.Errorf("%s: value %q must be one of [%s]", field, e.Value(), param)
	case "stageid":
		return fmt.Errorf("%s: %q is not a valid stage id", field, e.Value())
	case "detector":
		return fmt.Errorf("%s: %q is not a valid detector name", field, e.Value())
	default:
		return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
	}
}

package templates

import (
	"errors"
	"fmt"
)

var (
	ErrEmptySlot     = errors.New("slot has no value")
	ErrMalformedSlot = errors.New("slot value contains placeholder syntax")
	ErrUnresolved    = errors.New("slot could not be resolved")
)

// SubstitutionError reports a slot that could not be filled. The row is
// excluded; the run continues.
type SubstitutionError struct {
	Template string
	Slot     Slot
	Cause    error
}

func (e *SubstitutionError) Error() string {
	return fmt.Sprintf("template %s: slot %s: %v", e.Template, e.Slot, e.Cause)
}

func (e *SubstitutionError) Unwrap() error {
	return e.Cause
}

// Unresolved builds a SubstitutionError for a slot whose value could not be
// derived from the topology.
func Unresolved(template string, slot Slot, format string, args ...any) error {
	return &SubstitutionError{
		Template: template,
		Slot:     slot,
		Cause:    fmt.Errorf("%w: %s", ErrUnresolved, fmt.Sprintf(format, args...)),
	}
}

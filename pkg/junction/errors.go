package junction

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfig matches every ConfigError
var ErrInvalidConfig = errors.New("invalid junction configuration")

// ConfigError lists every problem found in a junction document. It aborts
// the whole run before any row is generated.
type ConfigError struct {
	Source   string
	Problems []error
}

func (e *ConfigError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.Error()
	}
	return fmt.Sprintf("%s: %d problem(s):\n  %s", e.Source, len(e.Problems), strings.Join(msgs, "\n  "))
}

// Unwrap exposes the individual problems to errors.Is and errors.As
func (e *ConfigError) Unwrap() []error {
	return e.Problems
}

// Is matches ErrInvalidConfig
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// flatten expands joined errors so each problem is listed once
func flatten(err error) []error {
	if err == nil {
		return nil
	}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range j.Unwrap() {
			out = append(out, flatten(e)...)
		}
		return out
	}
	return []error{err}
}

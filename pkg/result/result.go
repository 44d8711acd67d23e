// Package result holds the rows produced by a compile run and orders them
// for export.
package result

import (
	"fmt"
	"slices"
	"time"

	"github.com/dd0wney/jnetc/pkg/templates"
)

// Diagnostic codes attached to rows
const (
	CodeNearestLRTTie     = "nearest-lrt-tie"
	CodeThreatLRT         = "threat-lrt"
	CodeConfiguredRest    = "configured-rest"
	CodeSuffixCorrected   = "suffix-corrected"
	CodeClearanceFixed    = "clearance-corrected"
	CodeAnchorStopFixed   = "anchor-stop-corrected"
	CodeDemandCorrected   = "demand-corrected"
	CodeStructureMismatch = "structure-mismatch"
	CodeSlotMismatch      = "slot-mismatch"
	CodeSplitLRT          = "split-nearest-lrt"
	CodeEGMissing         = "eg-missing"
	CodeForceUndeclared   = "force-move-undeclared"
	CodeUnknownToken      = "unknown-token"
	CodeRowPanic          = "row-panic"
)

// Diagnostic is a note attached to a row. Corrected diagnostics record an
// in-place fix made by the audit; the others are flags left for review.
type Diagnostic struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Corrected bool   `json:"corrected,omitempty"`
}

func (d Diagnostic) String() string {
	if d.Corrected {
		return fmt.Sprintf("[%s, corrected] %s", d.Code, d.Message)
	}
	return fmt.Sprintf("[%s] %s", d.Code, d.Message)
}

// Note builds an uncorrected diagnostic
func Note(code, format string, args ...any) Diagnostic {
	return Diagnostic{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Correction builds a diagnostic recording an in-place fix
func Correction(code, format string, args ...any) Diagnostic {
	return Diagnostic{Code: code, Message: fmt.Sprintf(format, args...), Corrected: true}
}

// ErrorKind names the row-scoped failure classes
type ErrorKind string

const (
	ClassificationFailed ErrorKind = "classification"
	SubstitutionFailed   ErrorKind = "substitution"
	InternalFailure      ErrorKind = "internal"
)

// RowError marks a row that carries no expression. It survives a JSON round
// trip; Cause does not.
type RowError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *RowError) Unwrap() error {
	return e.Cause
}

// NewRowError wraps a row failure
func NewRowError(kind ErrorKind, err error) *RowError {
	return &RowError{Kind: kind, Message: err.Error(), Cause: err}
}

// Row is one generated transition. Rows are not modified after the audit.
type Row struct {
	Ordinal     int               `json:"ordinal"`
	From        string            `json:"from"`
	To          string            `json:"to"`
	Template    templates.ID      `json:"template,omitempty"`
	Variant     templates.Variant `json:"variant,omitempty"`
	Expression  string            `json:"expression,omitempty"`
	Diagnostics []Diagnostic      `json:"diagnostics,omitempty"`
	Err         *RowError         `json:"error,omitempty"`
}

// OK reports whether the row carries an expression
func (r *Row) OK() bool {
	return r.Err == nil
}

// AddDiagnostics appends diagnostics in order
func (r *Row) AddDiagnostics(d ...Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d...)
}

// Summary counts rows by outcome
type Summary struct {
	Rows        int                  `json:"rows"`
	Errors      int                  `json:"errors"`
	Corrected   int                  `json:"corrected"`
	Flagged     int                  `json:"flagged"`
	ByTemplate  map[templates.ID]int `json:"by_template"`
	Diagnostics map[string]int       `json:"diagnostics"`
}

// Set is the ordered output of one compile run
type Set struct {
	RunID      string    `json:"run_id"`
	Junction   string    `json:"junction"`
	CompiledAt time.Time `json:"compiled_at"`
	Rows       []Row     `json:"rows"`
	Summary    Summary   `json:"summary"`
}

// Assemble orders rows by source ordinal and computes the summary. Rows
// completed out of order by parallel workers end up in the same order on
// every run.
func Assemble(runID, junction string, rows []Row) *Set {
	ordered := slices.Clone(rows)
	slices.SortStableFunc(ordered, func(a, b Row) int {
		return a.Ordinal - b.Ordinal
	})

	set := &Set{
		RunID:      runID,
		Junction:   junction,
		CompiledAt: time.Now().UTC(),
		Rows:       ordered,
	}
	set.Summary = summarize(ordered)
	return set
}

func summarize(rows []Row) Summary {
	s := Summary{
		Rows:        len(rows),
		ByTemplate:  make(map[templates.ID]int),
		Diagnostics: make(map[string]int),
	}
	for _, r := range rows {
		if r.Err != nil {
			s.Errors++
		}
		if r.Template != "" {
			s.ByTemplate[r.Template]++
		}
		corrected, flagged := false, false
		for _, d := range r.Diagnostics {
			s.Diagnostics[d.Code]++
			if d.Corrected {
				corrected = true
			} else {
				flagged = true
			}
		}
		if corrected {
			s.Corrected++
		}
		if flagged {
			s.Flagged++
		}
	}
	return s
}

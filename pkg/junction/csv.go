package junction

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Inter-stage table headers
const (
	HeaderFrom = "From Stage"
	HeaderTo   = "To Stage"
	HeaderRest = "Rest of Skeleton"
)

const utf8BOM = "\ufeff"

// ReadInterStages reads an inter-stage table. Each record's Row is the line
// it starts on, so the header is line 1. Rows missing either stage are
// skipped.
func ReadInterStages(r io.Reader) ([]TransitionRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("inter-stages table is empty")
		}
		return nil, fmt.Errorf("read inter-stages header: %w", err)
	}

	col := map[string]int{}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, utf8BOM))
		col[strings.ToLower(h)] = i
	}
	fromIdx, okFrom := col[strings.ToLower(HeaderFrom)]
	toIdx, okTo := col[strings.ToLower(HeaderTo)]
	restIdx, okRest := col[strings.ToLower(HeaderRest)]

	var problems []error
	if !okFrom {
		problems = append(problems, fmt.Errorf("inter-stages header lacks %q", HeaderFrom))
	}
	if !okTo {
		problems = append(problems, fmt.Errorf("inter-stages header lacks %q", HeaderTo))
	}
	if len(problems) > 0 {
		return nil, errors.Join(problems...)
	}

	cell := func(rec []string, i int) string {
		if i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}

	var out []TransitionRecord
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read inter-stages: %w", err)
		}
		line, _ := cr.FieldPos(0)

		from, to := cell(rec, fromIdx), cell(rec, toIdx)
		if from == "" || to == "" {
			continue
		}
		tr := TransitionRecord{From: from, To: to, Row: line}
		if okRest {
			if rest := cell(rec, restIdx); rest != "" {
				tr.RestOfSkeleton = &rest
			}
		}
		out = append(out, tr)
	}
	return out, nil
}

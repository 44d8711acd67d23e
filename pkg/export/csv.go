// Package export writes compiled logic rows as CSV and ships the file to a
// sink.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/dd0wney/jnetc/pkg/result"
)

// bom marks the output as UTF-8 for spreadsheet tools
const bom = "\ufeff"

// Header is the first record of every export
var Header = []string{"#", "From", "To", "Template", "JNET Logic Code"}

// OutputName is the artifact name for a junction's export
func OutputName(junction string) string {
	return junction + "_JNET_Logic_Output.csv"
}

// LogicCode is the value of the logic column for a row. Error rows carry
// the failure instead of an expression.
func LogicCode(r *result.Row) string {
	if r.Err != nil {
		return "ERROR: " + r.Err.Error()
	}
	return r.Expression
}

// WriteCSV writes the byte-order mark, the header and one record per row.
// Fields are quoted only when they contain a comma, quote or newline.
func WriteCSV(w io.Writer, set *result.Set) (retErr error) {
	if _, err := io.WriteString(w, bom); err != nil {
		return fmt.Errorf("failed to write byte-order mark: %w", err)
	}

	csvWriter := csv.NewWriter(w)
	defer func() {
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil && retErr == nil {
			retErr = fmt.Errorf("CSV writer flush error: %w", err)
		}
	}()

	if err := csvWriter.Write(Header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i := range set.Rows {
		r := &set.Rows[i]
		record := []string{
			strconv.Itoa(r.Ordinal),
			r.From,
			r.To,
			string(r.Template),
			LogicCode(r),
		}
		if err := csvWriter.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r.Ordinal, err)
		}
	}
	return nil
}

// Encode renders the set into memory
func Encode(set *result.Set) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, set); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV streams the table with CRLF line endings and minimal quoting.
func WriteCSV(w io.Writer, t Table) error {
	writer := csv.NewWriter(w)
	writer.UseCRLF = true

	if err := writer.Write(t.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range t.Rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

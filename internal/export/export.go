// Package export renders a user's transactions as a flat table and writes
// it as CSV, XLSX or PDF.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"spendwise/internal/core"
)

type Format string

const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"
	PDF  Format = "pdf"
)

var ErrUnknownFormat = errors.New("unknown export format")

// Header is the fixed first row of every export.
var Header = []string{"Date", "Title", "Category", "Amount", "Description"}

// Table is the export content independent of the output format.
type Table struct {
	Header []string
	Rows   [][]string
	// Amounts keeps the numeric value of each row for formats with typed cells.
	Amounts []core.Money
}

// BuildTable expects transactions already ordered newest first.
func BuildTable(txs []core.Transaction) Table {
	t := Table{
		Header:  Header,
		Rows:    make([][]string, 0, len(txs)),
		Amounts: make([]core.Money, 0, len(txs)),
	}
	for _, tx := range txs {
		t.Rows = append(t.Rows, []string{
			tx.Date.String(),
			tx.Title,
			tx.CategoryLabel(),
			tx.Amount.String(),
			tx.Description,
		})
		t.Amounts = append(t.Amounts, tx.Amount)
	}
	return t
}

// Values returns header and rows as one grid, as the Sheets API expects.
func (t Table) Values() [][]interface{} {
	out := make([][]interface{}, 0, len(t.Rows)+1)
	row := make([]interface{}, len(t.Header))
	for i, h := range t.Header {
		row[i] = h
	}
	out = append(out, row)
	for _, r := range t.Rows {
		row := make([]interface{}, len(r))
		for i, v := range r {
			row[i] = v
		}
		out = append(out, row)
	}
	return out
}

// ParseFormat maps the format query parameter. Empty means CSV.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return CSV, nil
	case CSV, XLSX, PDF:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

func (f Format) ContentType() string {
	switch f {
	case XLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case PDF:
		return "application/pdf"
	default:
		return "text/csv"
	}
}

// Filename is the fixed attachment name for the format.
func (f Format) Filename() string {
	return "expenses." + string(f)
}

// Write renders t in format f.
func Write(w io.Writer, f Format, t Table) error {
	switch f {
	case CSV:
		return WriteCSV(w, t)
	case XLSX:
		return WriteXLSX(w, t)
	case PDF:
		return WritePDF(w, t)
	}
	return ErrUnknownFormat
}

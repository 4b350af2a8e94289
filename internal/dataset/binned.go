package dataset

import (
	"encoding/csv"
	"fmt"
	"io"

	"credit-risk-lab/internal/domain"
)

// ReadTable reads any CSV with a header row into a table. Short rows are
// padded with empty cells so every row is aligned to the header.
func ReadTable(r io.Reader) (*domain.BinnedTable, error) {
	header, rows, err := readAll(r)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if len(row) < len(header) {
			padded := make([]string, len(header))
			copy(padded, row)
			rows[i] = padded
		} else if len(row) > len(header) {
			return nil, fmt.Errorf("read table: row %d has %d fields, header has %d", i, len(row), len(header))
		}
	}
	return &domain.BinnedTable{Columns: header, Rows: rows}, nil
}

// WriteTable writes a table as CSV with a header row.
func WriteTable(w io.Writer, table *domain.BinnedTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(table.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := cw.WriteAll(table.Rows); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return nil
}

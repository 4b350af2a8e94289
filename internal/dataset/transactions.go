// Package dataset reads and writes the tabular files consumed and produced
// by the feature and WoE pipelines.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"credit-risk-lab/internal/domain"
	"credit-risk-lab/internal/features"
	"credit-risk-lab/internal/woe"
)

// Transaction CSV column names.
const (
	ColTransactionID   = "TransactionId"
	ColCustomerID      = "CustomerId"
	ColAmount          = "Amount"
	ColStartTime       = "TransactionStartTime"
	ColProviderID      = "ProviderId"
	ColProductID       = "ProductId"
	ColProductCategory = "ProductCategory"
	ColChannelID       = "ChannelId"
)

var requiredTransactionColumns = []string{ColTransactionID, ColCustomerID, ColAmount, ColStartTime}

// timestampLayouts are tried in order.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
}

// ParseTimestamp parses a transaction start time. Layouts without a zone are
// read as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse timestamp %q", s)
}

// ReadTransactions reads a transaction CSV with a header row.
// An empty start time is kept as the zero time; an unparseable one fails
// with a features.MissingTimestampError.
func ReadTransactions(r io.Reader) ([]*domain.Transaction, error) {
	header, rows, err := readAll(r)
	if err != nil {
		return nil, err
	}

	idx := indexColumns(header)
	for _, c := range requiredTransactionColumns {
		if _, ok := idx[c]; !ok {
			return nil, &woe.SchemaError{Column: c}
		}
	}

	get := func(row []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	txs := make([]*domain.Transaction, 0, len(rows))
	for n, row := range rows {
		tx := &domain.Transaction{
			TransactionID:   get(row, ColTransactionID),
			CustomerID:      get(row, ColCustomerID),
			Amount:          get(row, ColAmount),
			ProviderID:      get(row, ColProviderID),
			ProductID:       get(row, ColProductID),
			ProductCategory: get(row, ColProductCategory),
			ChannelID:       get(row, ColChannelID),
		}
		if raw := get(row, ColStartTime); raw != "" {
			ts, err := ParseTimestamp(raw)
			if err != nil {
				return nil, &features.MissingTimestampError{Row: n, TransactionID: tx.TransactionID}
			}
			tx.Timestamp = ts
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// FeatureColumns is the header written by WriteFeatures.
var FeatureColumns = []string{
	ColTransactionID, ColCustomerID, ColProviderID, ColProductID, ColProductCategory, ColChannelID,
	ColAmount, ColStartTime,
	ColTransactionHour, ColTransactionDay, ColTransactionMonth, "Transaction_year",
	"Total_transaction_amount", ColAverageAmount, ColStdAmount, "Transaction_Count",
}

// WriteFeatures writes records as CSV. A nil std is written as an empty cell.
func WriteFeatures(w io.Writer, records []*domain.FeatureRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(FeatureColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		std := ""
		if r.StdTransactionAmount != nil {
			std = formatFloat(*r.StdTransactionAmount)
		}
		ts := ""
		if !r.Timestamp.IsZero() {
			ts = r.Timestamp.Format(time.RFC3339Nano)
		}
		row := []string{
			r.TransactionID, r.CustomerID, r.ProviderID, r.ProductID, r.ProductCategory, r.ChannelID,
			r.Amount, ts,
			strconv.Itoa(r.TransactionHour), strconv.Itoa(r.TransactionDay),
			strconv.Itoa(r.TransactionMonth), strconv.Itoa(r.TransactionYear),
			formatFloat(r.TotalTransactionAmount), formatFloat(r.AverageTransactionAmount),
			std, strconv.Itoa(r.TransactionCount),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write feature row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func readAll(r io.Reader) ([]string, [][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("read csv: empty input")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read csv header: %w", err)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv rows: %w", err)
	}
	return header, rows, nil
}

func indexColumns(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, c := range header {
		if _, dup := idx[c]; !dup {
			idx[c] = i
		}
	}
	return idx
}

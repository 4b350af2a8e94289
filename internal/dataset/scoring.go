package dataset

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"credit-risk-lab/internal/domain"
	"credit-risk-lab/internal/woe"
)

// Scoring CSV column names beyond the transaction columns.
const (
	ColTransactionHour  = "Transaction_Hour"
	ColTransactionDay   = "Transaction_Day"
	ColTransactionMonth = "Transaction_Month"
	ColAverageAmount    = "Average_transaction_amount"
	ColStdAmount        = "STD_Transaction_Amount"
)

var scoringColumns = []string{
	ColProviderID, ColProductID, ColProductCategory, ColChannelID, ColAmount,
	ColTransactionHour, ColTransactionDay, ColTransactionMonth,
	ColAverageAmount, ColStdAmount,
}

// ReadScoringRequests reads a labeled scoring CSV. Identifier cells may carry
// the source dataset prefix ("ProviderId_6"). An empty std cell reads as 0.
// The returned labels are aligned with the requests.
func ReadScoringRequests(r io.Reader, target string) ([]*domain.ScoringRequest, []int, error) {
	header, rows, err := readAll(r)
	if err != nil {
		return nil, nil, err
	}

	idx := indexColumns(header)
	for _, c := range append(scoringColumns, target) {
		if _, ok := idx[c]; !ok {
			return nil, nil, &woe.SchemaError{Column: c}
		}
	}

	reqs := make([]*domain.ScoringRequest, 0, len(rows))
	labels := make([]int, 0, len(rows))
	for n, row := range rows {
		p := rowParser{row: row, idx: idx}
		req := &domain.ScoringRequest{
			ProviderID:               p.id(ColProviderID),
			ProductID:                p.id(ColProductID),
			ProductCategory:          domain.ProductCategory(p.str(ColProductCategory)),
			ChannelID:                p.id(ColChannelID),
			Amount:                   p.float(ColAmount),
			TransactionHour:          p.integer(ColTransactionHour),
			TransactionDay:           p.integer(ColTransactionDay),
			TransactionMonth:         p.integer(ColTransactionMonth),
			AverageTransactionAmount: p.float(ColAverageAmount),
			STDTransactionAmount:     p.float(ColStdAmount),
		}
		label := p.integer(target)
		if p.err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", n, p.err)
		}
		if label != 0 && label != 1 {
			return nil, nil, fmt.Errorf("row %d: %s must be 0 or 1, got %d", n, target, label)
		}
		reqs = append(reqs, req)
		labels = append(labels, label)
	}
	return reqs, labels, nil
}

// rowParser keeps the first conversion error of a row.
type rowParser struct {
	row []string
	idx map[string]int
	err error
}

func (p *rowParser) str(col string) string {
	i := p.idx[col]
	if i >= len(p.row) {
		return ""
	}
	return strings.TrimSpace(p.row[i])
}

func (p *rowParser) float(col string) float64 {
	s := p.str(col)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%s: invalid number %q", col, s)
	}
	return f
}

func (p *rowParser) integer(col string) int {
	f := p.float(col)
	if f != float64(int(f)) && p.err == nil {
		p.err = fmt.Errorf("%s: not an integer: %v", col, f)
	}
	return int(f)
}

func (p *rowParser) id(col string) int {
	s := p.str(col)
	if i := strings.LastIndexByte(s, '_'); i >= 0 {
		s = s[i+1:]
	}
	n, err := strconv.Atoi(s)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%s: invalid identifier %q", col, p.str(col))
	}
	return n
}

package dataset

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credit-risk-lab/internal/domain"
	"credit-risk-lab/internal/woe"
)

const scoringCSV = `ProviderId,ProductId,ProductCategory,ChannelId,Amount,Transaction_Hour,Transaction_Day,Transaction_Month,Average_transaction_amount,STD_Transaction_Amount,RiskResult
ProviderId_6,ProductId_10,airtime,ChannelId_3,1000.0,2,15,11,923.5,120.25,0
4,6,financial_services,2,-20,0,1,12,-20,,1
`

func TestReadScoringRequests(t *testing.T) {
	reqs, labels, err := ReadScoringRequests(strings.NewReader(scoringCSV), domain.DefaultTargetColumn)
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, []int{0, 1}, labels)

	assert.Equal(t, &domain.ScoringRequest{
		ProviderID:               6,
		ProductID:                10,
		ProductCategory:          domain.ProductAirtime,
		ChannelID:                3,
		Amount:                   1000,
		TransactionHour:          2,
		TransactionDay:           15,
		TransactionMonth:         11,
		AverageTransactionAmount: 923.5,
		STDTransactionAmount:     120.25,
	}, reqs[0])

	assert.Equal(t, 4, reqs[1].ProviderID)
	assert.Equal(t, domain.ProductFinancialServices, reqs[1].ProductCategory)
	assert.Zero(t, reqs[1].STDTransactionAmount)
}

func TestReadScoringRequests_MissingTarget(t *testing.T) {
	_, _, err := ReadScoringRequests(strings.NewReader(scoringCSV), "FraudResult")

	var schemaErr *woe.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "FraudResult", schemaErr.Column)
}

func TestReadScoringRequests_BadValues(t *testing.T) {
	header := strings.SplitN(scoringCSV, "\n", 2)[0] + "\n"
	tests := []struct {
		name string
		row  string
		want string
	}{
		{"non numeric amount", "6,10,airtime,3,abc,2,15,11,1,1,0", "Amount"},
		{"fractional hour", "6,10,airtime,3,1,2.5,15,11,1,1,0", "Transaction_Hour"},
		{"bad identifier", "ProviderId_x,10,airtime,3,1,2,15,11,1,1,0", "ProviderId"},
		{"label out of range", "6,10,airtime,3,1,2,15,11,1,1,2", "RiskResult"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ReadScoringRequests(strings.NewReader(header+tt.row+"\n"), domain.DefaultTargetColumn)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "row 0")
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

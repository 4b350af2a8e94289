package dataset

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credit-risk-lab/internal/domain"
	"credit-risk-lab/internal/features"
	"credit-risk-lab/internal/woe"
)

const transactionsCSV = `TransactionId,BatchId,CustomerId,ProviderId,ProductId,ProductCategory,ChannelId,Amount,TransactionStartTime
TransactionId_1,B1,CustomerId_1,ProviderId_6,ProductId_10,airtime,ChannelId_3,1000.0,2018-11-15T02:18:49Z
TransactionId_2,B2,CustomerId_1,ProviderId_4,ProductId_6,financial_services,ChannelId_2,-20.0,2018-11-15T02:19:08Z
TransactionId_3,B3,CustomerId_2,ProviderId_6,ProductId_1,airtime,ChannelId_3,500,2024-03-15 14:30:00
`

func TestReadTransactions(t *testing.T) {
	txs, err := ReadTransactions(strings.NewReader(transactionsCSV))
	require.NoError(t, err)
	require.Len(t, txs, 3)

	assert.Equal(t, "TransactionId_1", txs[0].TransactionID)
	assert.Equal(t, "CustomerId_1", txs[0].CustomerID)
	assert.Equal(t, "1000.0", txs[0].Amount)
	assert.Equal(t, "airtime", txs[0].ProductCategory)
	assert.Equal(t, "ChannelId_3", txs[0].ChannelID)
	assert.Equal(t, time.Date(2018, 11, 15, 2, 18, 49, 0, time.UTC), txs[0].Timestamp)
	assert.Equal(t, time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC), txs[2].Timestamp)
}

func TestReadTransactions_MissingColumn(t *testing.T) {
	_, err := ReadTransactions(strings.NewReader("TransactionId,CustomerId,Amount\nt1,c1,1\n"))
	require.Error(t, err)

	var se *woe.SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, ColStartTime, se.Column)
}

func TestReadTransactions_Timestamps(t *testing.T) {
	in := "TransactionId,CustomerId,Amount,TransactionStartTime\nt1,c1,1,\nt2,c1,1,yesterday\n"

	_, err := ReadTransactions(strings.NewReader(in))
	require.Error(t, err)
	assert.True(t, errors.Is(err, features.ErrMissingTimestamp))

	var mte *features.MissingTimestampError
	require.True(t, errors.As(err, &mte))
	assert.Equal(t, 1, mte.Row)

	txs, err := ReadTransactions(strings.NewReader("TransactionId,CustomerId,Amount,TransactionStartTime\nt1,c1,1,\n"))
	require.NoError(t, err)
	assert.True(t, txs[0].Timestamp.IsZero())
}

func TestReadTransactions_Empty(t *testing.T) {
	_, err := ReadTransactions(strings.NewReader(""))
	assert.Error(t, err)
}

func TestWriteFeatures(t *testing.T) {
	std := 100.0
	records := []*domain.FeatureRecord{
		{
			Transaction:              domain.Transaction{TransactionID: "t1", CustomerID: "c1", Amount: "100", Timestamp: time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)},
			TransactionHour:          14,
			TransactionDay:           15,
			TransactionMonth:         3,
			TransactionYear:          2024,
			TotalTransactionAmount:   600,
			AverageTransactionAmount: 200,
			StdTransactionAmount:     &std,
			TransactionCount:         3,
		},
		{
			Transaction:              domain.Transaction{TransactionID: "t9", CustomerID: "c9", Amount: "5"},
			TotalTransactionAmount:   5,
			AverageTransactionAmount: 5,
			TransactionCount:         1,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteFeatures(&buf, records))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(FeatureColumns, ","), lines[0])
	assert.Equal(t, "t1,c1,,,,,100,2024-03-15T14:30:00Z,14,15,3,2024,600,200,100,3", lines[1])
	assert.Equal(t, "t9,c9,,,,,5,,0,0,0,0,5,5,,1", lines[2])
}

func TestWriteFeatures_SubSecondTimestamp(t *testing.T) {
	ts := time.Date(2024, 3, 15, 14, 30, 0, 123456789, time.UTC)
	records := []*domain.FeatureRecord{{
		Transaction:              domain.Transaction{TransactionID: "t1", CustomerID: "c1", Amount: "100", Timestamp: ts},
		TotalTransactionAmount:   100,
		AverageTransactionAmount: 100,
		TransactionCount:         1,
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteFeatures(&buf, records))
	assert.Contains(t, buf.String(), "2024-03-15T14:30:00.123456789Z")

	txs, err := ReadTransactions(&buf)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.True(t, ts.Equal(txs[0].Timestamp), "got %s", txs[0].Timestamp)
}

func TestReadWriteTable(t *testing.T) {
	in := "Amount,RiskResult\n\"[0,10)\",0\n\"[10,inf)\"\n"
	table, err := ReadTable(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []string{"Amount", "RiskResult"}, table.Columns)
	assert.Equal(t, []string{"[10,inf)", ""}, table.Rows[1])

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, table))
	assert.Equal(t, "Amount,RiskResult\n\"[0,10)\",0\n\"[10,inf)\",\n", buf.String())
}

func TestReadTable_TooManyFields(t *testing.T) {
	_, err := ReadTable(strings.NewReader("a,b\n1,2,3\n"))
	assert.Error(t, err)
}

func TestBuildProfile(t *testing.T) {
	table := &domain.BinnedTable{
		Columns: []string{"a", "b", "c"},
		Rows: [][]string{
			{"1", "", ""},
			{"1", "", ""},
			{"2", "x", ""},
			{"3", "", "y"},
		},
	}

	p := BuildProfile(table)
	assert.Equal(t, 4, p.Rows)
	assert.Equal(t, 3, p.Columns)
	assert.Equal(t, 1, p.DuplicateRows)

	require.Len(t, p.Missing, 2)
	assert.Equal(t, ColumnMissing{Column: "b", Missing: 3, Percent: 75}, p.Missing[0])
	assert.Equal(t, ColumnMissing{Column: "c", Missing: 3, Percent: 75}, p.Missing[1])
	assert.Equal(t, []string{"b", "c"}, p.MostMissing)
	assert.Equal(t, []string{"b", "c"}, p.OverHalfMissing)
}

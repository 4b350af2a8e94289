// Package scoring assembles model input vectors and maps classifier output to risk labels.
package scoring

import (
	"math"

	"credit-risk-lab/internal/domain"
)

// Continuous model inputs, in vector order.
const (
	FeatureProviderID       = "ProviderId"
	FeatureProductID        = "ProductId"
	FeatureChannelID        = "ChannelId"
	FeatureAmount           = "Amount"
	FeatureTransactionHour  = "Transaction_Hour"
	FeatureTransactionDay   = "Transaction_Day"
	FeatureAverageAmount    = "Average_transaction_amount"
	FeatureStdAmount        = "STD_Transaction_Amount"
	FeatureTransactionMonth = "Transaction_Month"
)

// categoryPrefix names the one-hot ProductCategory indicators.
const categoryPrefix = "ProductCategory_"

// oneHotCategories is the indicator order, alphabetical as produced at training time.
var oneHotCategories = []domain.ProductCategory{
	domain.ProductAirtime,
	domain.ProductDataBundles,
	domain.ProductFinancialServices,
	domain.ProductMovies,
	domain.ProductOther,
	domain.ProductTicket,
	domain.ProductTransport,
	domain.ProductTV,
	domain.ProductUtilityBill,
}

// FeatureNames is the exact model input order.
var FeatureNames = func() []string {
	names := []string{
		FeatureProviderID,
		FeatureProductID,
		FeatureChannelID,
		FeatureAmount,
		FeatureTransactionHour,
		FeatureTransactionDay,
		FeatureAverageAmount,
		FeatureStdAmount,
		FeatureTransactionMonth,
	}
	for _, c := range oneHotCategories {
		names = append(names, categoryPrefix+string(c))
	}
	return names
}()

// featureIndex maps a feature name to its vector position.
var featureIndex = func() map[string]int {
	idx := make(map[string]int, len(FeatureNames))
	for i, name := range FeatureNames {
		idx[name] = i
	}
	return idx
}()

// Validate checks the request fields the vector depends on.
func Validate(req *domain.ScoringRequest) error {
	if req == nil {
		return &ValidationError{Field: "request", Reason: "missing"}
	}
	if !req.ProductCategory.Valid() {
		return &ValidationError{Field: "ProductCategory", Reason: "unknown category " + string(req.ProductCategory)}
	}
	if req.TransactionHour < 0 || req.TransactionHour > 23 {
		return &ValidationError{Field: FeatureTransactionHour, Reason: "must be in [0, 23]"}
	}
	if req.TransactionDay < 1 || req.TransactionDay > 31 {
		return &ValidationError{Field: FeatureTransactionDay, Reason: "must be in [1, 31]"}
	}
	if req.TransactionMonth < 1 || req.TransactionMonth > 12 {
		return &ValidationError{Field: FeatureTransactionMonth, Reason: "must be in [1, 12]"}
	}

	amounts := []struct {
		field string
		v     float64
	}{
		{FeatureAmount, req.Amount},
		{FeatureAverageAmount, req.AverageTransactionAmount},
		{FeatureStdAmount, req.STDTransactionAmount},
	}
	for _, a := range amounts {
		if math.IsNaN(a.v) || math.IsInf(a.v, 0) {
			return &ValidationError{Field: a.field, Reason: "must be finite"}
		}
	}
	if req.STDTransactionAmount < 0 {
		return &ValidationError{Field: FeatureStdAmount, Reason: "must not be negative"}
	}
	return nil
}

// Vectorize validates req and builds the unscaled vector in FeatureNames order.
func Vectorize(req *domain.ScoringRequest) ([]float64, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}

	vec := make([]float64, len(FeatureNames))
	vec[0] = float64(req.ProviderID)
	vec[1] = float64(req.ProductID)
	vec[2] = float64(req.ChannelID)
	vec[3] = req.Amount
	vec[4] = float64(req.TransactionHour)
	vec[5] = float64(req.TransactionDay)
	vec[6] = req.AverageTransactionAmount
	vec[7] = req.STDTransactionAmount
	vec[8] = float64(req.TransactionMonth)
	vec[featureIndex[categoryPrefix+string(req.ProductCategory)]] = 1

	return vec, nil
}

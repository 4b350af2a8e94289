package domain

import "time"

// ProductCategory is the categorical product enumeration expected by the classifier.
type ProductCategory string

const (
	ProductFinancialServices ProductCategory = "financial_services"
	ProductAirtime           ProductCategory = "airtime"
	ProductUtilityBill       ProductCategory = "utility_bill"
	ProductDataBundles       ProductCategory = "data_bundles"
	ProductTV                ProductCategory = "tv"
	ProductTicket            ProductCategory = "ticket"
	ProductMovies            ProductCategory = "movies"
	ProductTransport         ProductCategory = "transport"
	ProductOther             ProductCategory = "other"
)

// ProductCategories lists every valid category in declaration order.
var ProductCategories = []ProductCategory{
	ProductFinancialServices,
	ProductAirtime,
	ProductUtilityBill,
	ProductDataBundles,
	ProductTV,
	ProductTicket,
	ProductMovies,
	ProductTransport,
	ProductOther,
}

// Valid reports whether c is one of ProductCategories.
func (c ProductCategory) Valid() bool {
	for _, v := range ProductCategories {
		if c == v {
			return true
		}
	}
	return false
}

// Risk labels returned by the scoring API.
const (
	LabelNoRisk  = "No Risk"
	LabelHasRisk = "Has Risk"
)

// ScoringRequest is the feature payload submitted for a risk prediction.
// Corresponds to scoring_requests table in PostgreSQL.
type ScoringRequest struct {
	ID                       int64           `json:"id,omitempty"`
	ProviderID               int             `json:"ProviderId"`
	ProductID                int             `json:"ProductId"`
	ProductCategory          ProductCategory `json:"ProductCategory"`
	ChannelID                int             `json:"ChannelId"`
	Amount                   float64         `json:"Amount"`
	TransactionHour          int             `json:"Transaction_Hour"`
	TransactionDay           int             `json:"Transaction_Day"`
	AverageTransactionAmount float64         `json:"Average_transaction_amount"`
	STDTransactionAmount     float64         `json:"STD_Transaction_Amount"`
	TransactionMonth         int             `json:"Transaction_Month"`
	PredictionID             string          `json:"prediction_id,omitempty"`
	PredictedClass           int             `json:"predicted_class"`
	CreatedAt                time.Time       `json:"created_at,omitempty"`
}

// Prediction is the classifier verdict for one ScoringRequest.
type Prediction struct {
	ID        string    `json:"id"`
	Class     int       `json:"class"`
	Label     string    `json:"prediction"`
	CreatedAt time.Time `json:"created_at"`
}

// LabelForClass maps a binary class to its API label.
func LabelForClass(class int) string {
	if class == 0 {
		return LabelNoRisk
	}
	return LabelHasRisk
}

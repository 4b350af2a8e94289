package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"credit-risk-lab/internal/domain"
	"credit-risk-lab/internal/scoring"
)

const maxBodySize = 64 << 10 // 64KB

// scoreRequest is the POST /features/ payload. Every field is required.
type scoreRequest struct {
	ProviderID               *int     `json:"ProviderId" binding:"required"`
	ProductID                *int     `json:"ProductId" binding:"required"`
	ProductCategory          *string  `json:"ProductCategory" binding:"required"`
	ChannelID                *int     `json:"ChannelId" binding:"required"`
	Amount                   *float64 `json:"Amount" binding:"required"`
	TransactionHour          *int     `json:"Transaction_Hour" binding:"required"`
	TransactionDay           *int     `json:"Transaction_Day" binding:"required"`
	AverageTransactionAmount *float64 `json:"Average_transaction_amount" binding:"required"`
	STDTransactionAmount     *float64 `json:"STD_Transaction_Amount" binding:"required"`
	TransactionMonth         *int     `json:"Transaction_Month" binding:"required"`
}

func (r *scoreRequest) toDomain() *domain.ScoringRequest {
	return &domain.ScoringRequest{
		ProviderID:               *r.ProviderID,
		ProductID:                *r.ProductID,
		ProductCategory:          domain.ProductCategory(*r.ProductCategory),
		ChannelID:                *r.ChannelID,
		Amount:                   *r.Amount,
		TransactionHour:          *r.TransactionHour,
		TransactionDay:           *r.TransactionDay,
		AverageTransactionAmount: *r.AverageTransactionAmount,
		STDTransactionAmount:     *r.STDTransactionAmount,
		TransactionMonth:         *r.TransactionMonth,
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// StatusResponse is the JSON response for /status endpoint.
type StatusResponse struct {
	Status      string    `json:"status"`
	Uptime      string    `json:"uptime"`
	StartedAt   time.Time `json:"started_at"`
	Predictions int64     `json:"predictions"`
	Rejected    int64     `json:"rejected"`
	Failures    int64     `json:"failures"`
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{
		Status:      "running",
		Uptime:      time.Since(s.started).Round(time.Second).String(),
		StartedAt:   s.started.UTC(),
		Predictions: s.predictions.Load(),
		Rejected:    s.rejected.Load(),
		Failures:    s.failures.Load(),
	})
}

func (s *Server) handleScore(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize)

	var body scoreRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		s.rejected.Add(1)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req := body.toDomain()
	pred, err := s.scorer.Score(c.Request.Context(), req)
	if err != nil {
		var verr *scoring.ValidationError
		if errors.As(err, &verr) {
			s.rejected.Add(1)
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Reason, "field": verr.Field})
			return
		}
		s.failures.Add(1)
		s.logger.Error("scoring failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "scoring failed"})
		return
	}

	s.predictions.Add(1)
	c.Header("X-Prediction-Id", pred.ID)
	c.JSON(http.StatusOK, gin.H{"prediction": pred.Label})
}

func (s *Server) handleList(c *gin.Context) {
	reqs, err := s.scorer.List(c.Request.Context())
	if err != nil {
		s.logger.Error("listing scoring requests failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	if reqs == nil {
		reqs = []*domain.ScoringRequest{}
	}
	c.JSON(http.StatusOK, reqs)
}

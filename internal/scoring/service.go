package scoring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"credit-risk-lab/internal/domain"
	"credit-risk-lab/internal/logging"
	"credit-risk-lab/internal/observability"
	"credit-risk-lab/internal/storage"
)

// Service scores requests with a Classifier and records them in a ScoringStore.
type Service struct {
	classifier Classifier
	scaler     *Scaler
	store      storage.ScoringStore
	logger     *slog.Logger
	metrics    *observability.Metrics
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithScaler standardizes vectors before they reach the classifier.
func WithScaler(s *Scaler) Option {
	return func(svc *Service) { svc.scaler = s }
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(svc *Service) {
		if l != nil {
			svc.logger = l
		}
	}
}

// WithMetrics records prediction counters and latency.
func WithMetrics(m *observability.Metrics) Option {
	return func(svc *Service) { svc.metrics = m }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(svc *Service) { svc.now = now }
}

// NewService creates a scoring service. store may be nil to skip persistence.
func NewService(classifier Classifier, store storage.ScoringStore, opts ...Option) *Service {
	svc := &Service{
		classifier: classifier,
		store:      store,
		logger:     logging.Discard(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// NewModelService wires a LinearModel together with its own scaler.
func NewModelService(model *LinearModel, store storage.ScoringStore, opts ...Option) *Service {
	return NewService(model, store, append([]Option{WithScaler(model.Scaler)}, opts...)...)
}

// Score validates req, predicts its risk class and stores it.
// On success req carries the assigned ID, PredictionID and PredictedClass.
func (s *Service) Score(ctx context.Context, req *domain.ScoringRequest) (*domain.Prediction, error) {
	start := time.Now()

	vec, err := Vectorize(req)
	if err != nil {
		s.metrics.RecordScoringError("validation")
		return nil, err
	}
	vec, err = s.scaler.Transform(vec)
	if err != nil {
		s.metrics.RecordScoringError("scaling")
		return nil, err
	}

	class, err := s.classifier.Predict(ctx, vec)
	if err != nil {
		s.metrics.RecordScoringError("classifier")
		return nil, fmt.Errorf("predict: %w", err)
	}
	if class != 0 && class != 1 {
		s.metrics.RecordScoringError("classifier")
		return nil, fmt.Errorf("predict: classifier returned class %d", class)
	}

	pred := &domain.Prediction{
		ID:        uuid.NewString(),
		Class:     class,
		Label:     domain.LabelForClass(class),
		CreatedAt: s.now().UTC(),
	}
	req.PredictionID = pred.ID
	req.PredictedClass = class
	req.CreatedAt = pred.CreatedAt

	if s.store != nil {
		if err := s.store.Insert(ctx, req); err != nil {
			s.metrics.RecordScoringError("storage")
			return nil, fmt.Errorf("store scoring request: %w", err)
		}
	}

	s.metrics.RecordPrediction(pred.Label, time.Since(start))
	s.logger.Info("request scored",
		"prediction_id", pred.ID,
		"category", req.ProductCategory,
		"label", pred.Label,
	)
	return pred, nil
}

// List returns all stored requests in insertion order.
func (s *Service) List(ctx context.Context) ([]*domain.ScoringRequest, error) {
	if s.store == nil {
		return nil, errors.New("scoring service has no store")
	}
	reqs, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list scoring requests: %w", err)
	}
	return reqs, nil
}

// Scores returns the predicted class and risk probability of every request, for use with
// evaluation.Evaluate. Requires a ProbabilityClassifier.
func (s *Service) Scores(ctx context.Context, reqs []*domain.ScoringRequest) (classes []int, probs []float64, err error) {
	pc, ok := s.classifier.(ProbabilityClassifier)
	if !ok {
		return nil, nil, errors.New("classifier does not expose probabilities")
	}

	classes = make([]int, len(reqs))
	probs = make([]float64, len(reqs))
	for i, req := range reqs {
		vec, err := Vectorize(req)
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", i, err)
		}
		if vec, err = s.scaler.Transform(vec); err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", i, err)
		}
		if probs[i], err = pc.Probability(ctx, vec); err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", i, err)
		}
		if classes[i], err = pc.Predict(ctx, vec); err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", i, err)
		}
	}
	return classes, probs, nil
}

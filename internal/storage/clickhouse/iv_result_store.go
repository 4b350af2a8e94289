package clickhouse

import (
	"context"
	"fmt"
	"time"

	"credit-risk-lab/internal/domain"
	"credit-risk-lab/internal/storage"
)

// IVResultStore implements storage.IVResultStore using ClickHouse.
// A report is spread over iv_features, iv_bins and iv_warnings. The iv_runs
// row is written last and marks the report as complete.
type IVResultStore struct {
	conn *Conn
}

// NewIVResultStore creates a new IVResultStore.
func NewIVResultStore(conn *Conn) *IVResultStore {
	return &IVResultStore{conn: conn}
}

// Compile-time interface check.
var _ storage.IVResultStore = (*IVResultStore)(nil)

// Insert stores a report. Returns ErrDuplicateKey if run_id exists.
func (s *IVResultStore) Insert(ctx context.Context, report *domain.IVReport) error {
	if report == nil || report.RunID == "" {
		return storage.ErrInvalidInput
	}

	exists, err := s.exists(ctx, report.RunID)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return storage.ErrDuplicateKey
	}

	if err := s.insertFeatures(ctx, report); err != nil {
		return err
	}
	if err := s.insertBins(ctx, report); err != nil {
		return err
	}
	if err := s.insertWarnings(ctx, report); err != nil {
		return err
	}

	err = s.conn.Exec(ctx, `
		INSERT INTO iv_runs (run_id, target, generated_at) VALUES (?, ?, ?)
	`, report.RunID, report.Target, report.GeneratedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert iv run: %w", err)
	}
	return nil
}

func (s *IVResultStore) insertFeatures(ctx context.Context, report *domain.IVReport) error {
	if len(report.Features) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO iv_features (run_id, variable_index, variable, iv)
	`)
	if err != nil {
		return fmt.Errorf("prepare features batch: %w", err)
	}
	for i, f := range report.Features {
		if err := batch.Append(report.RunID, uint32(i), f.Variable, f.IV); err != nil {
			return fmt.Errorf("append feature: %w", err)
		}
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("send features batch: %w", err)
	}
	return nil
}

func (s *IVResultStore) insertBins(ctx context.Context, report *domain.IVReport) error {
	total := 0
	for _, f := range report.Features {
		total += len(f.Bins)
	}
	if total == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO iv_bins (
			run_id, variable_index, bin_index, bin,
			all_count, good_count, bad_count,
			distr_good, distr_bad, woe, iv
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare bins batch: %w", err)
	}
	for i, f := range report.Features {
		for j, b := range f.Bins {
			err := batch.Append(
				report.RunID, uint32(i), uint32(j), b.Bin,
				uint64(b.All), uint64(b.Good), uint64(b.Bad),
				b.DistrGood, b.DistrBad, b.WoE, b.IV,
			)
			if err != nil {
				return fmt.Errorf("append bin: %w", err)
			}
		}
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("send bins batch: %w", err)
	}
	return nil
}

func (s *IVResultStore) insertWarnings(ctx context.Context, report *domain.IVReport) error {
	if len(report.Warnings) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO iv_warnings (run_id, warning_index, message)
	`)
	if err != nil {
		return fmt.Errorf("prepare warnings batch: %w", err)
	}
	for i, w := range report.Warnings {
		if err := batch.Append(report.RunID, uint32(i), w); err != nil {
			return fmt.Errorf("append warning: %w", err)
		}
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("send warnings batch: %w", err)
	}
	return nil
}

// GetByRun retrieves a report by run ID. Returns ErrNotFound if not exists.
func (s *IVResultStore) GetByRun(ctx context.Context, runID string) (*domain.IVReport, error) {
	exists, err := s.exists(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("check exists: %w", err)
	}
	if !exists {
		return nil, storage.ErrNotFound
	}

	report := &domain.IVReport{RunID: runID}
	var generatedAt time.Time
	err = s.conn.QueryRow(ctx, `
		SELECT target, generated_at FROM iv_runs WHERE run_id = ? LIMIT 1
	`, runID).Scan(&report.Target, &generatedAt)
	if err != nil {
		return nil, fmt.Errorf("query iv run: %w", err)
	}
	report.GeneratedAt = generatedAt

	if err := s.loadFeatures(ctx, report); err != nil {
		return nil, err
	}
	if err := s.loadBins(ctx, report); err != nil {
		return nil, err
	}
	if err := s.loadWarnings(ctx, report); err != nil {
		return nil, err
	}

	return report, nil
}

func (s *IVResultStore) loadFeatures(ctx context.Context, report *domain.IVReport) error {
	rows, err := s.conn.Query(ctx, `
		SELECT variable, iv FROM iv_features
		WHERE run_id = ?
		ORDER BY variable_index ASC
	`, report.RunID)
	if err != nil {
		return fmt.Errorf("query iv features: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var f domain.FeatureIV
		if err := rows.Scan(&f.Variable, &f.IV); err != nil {
			return fmt.Errorf("scan iv feature row: %w", err)
		}
		report.Features = append(report.Features, f)
		report.Summary = append(report.Summary, domain.IVSummaryRow{Variable: f.Variable, IV: f.IV})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate iv feature rows: %w", err)
	}
	return nil
}

func (s *IVResultStore) loadBins(ctx context.Context, report *domain.IVReport) error {
	rows, err := s.conn.Query(ctx, `
		SELECT variable_index, bin, all_count, good_count, bad_count, distr_good, distr_bad, woe, iv
		FROM iv_bins
		WHERE run_id = ?
		ORDER BY variable_index ASC, bin_index ASC
	`, report.RunID)
	if err != nil {
		return fmt.Errorf("query iv bins: %w", err)
	}
	defer rows.Close()

	return scanBins(rows, report)
}

func (s *IVResultStore) loadWarnings(ctx context.Context, report *domain.IVReport) error {
	rows, err := s.conn.Query(ctx, `
		SELECT message FROM iv_warnings
		WHERE run_id = ?
		ORDER BY warning_index ASC
	`, report.RunID)
	if err != nil {
		return fmt.Errorf("query iv warnings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var msg string
		if err := rows.Scan(&msg); err != nil {
			return fmt.Errorf("scan iv warning row: %w", err)
		}
		report.Warnings = append(report.Warnings, msg)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate iv warning rows: %w", err)
	}
	return nil
}

// exists checks if a completed report with the given run ID exists.
func (s *IVResultStore) exists(ctx context.Context, runID string) (bool, error) {
	var count uint64
	err := s.conn.QueryRow(ctx, `
		SELECT count(*) FROM iv_runs WHERE run_id = ?
	`, runID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// scanBins attaches bin rows to the report features by variable index.
func scanBins(rows chRows, report *domain.IVReport) error {
	for rows.Next() {
		var idx uint32
		var b domain.BinStat
		var all, good, bad uint64

		err := rows.Scan(&idx, &b.Bin, &all, &good, &bad, &b.DistrGood, &b.DistrBad, &b.WoE, &b.IV)
		if err != nil {
			return fmt.Errorf("scan iv bin row: %w", err)
		}
		if int(idx) >= len(report.Features) {
			return fmt.Errorf("iv bin references unknown variable index %d", idx)
		}

		b.All = int(all)
		b.Good = int(good)
		b.Bad = int(bad)
		report.Features[idx].Bins = append(report.Features[idx].Bins, b)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate iv bin rows: %w", err)
	}
	return nil
}

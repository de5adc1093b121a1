package corpus

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// Run records one generation: where the model was trained from, how it was
// configured and what it produced.
type Run struct {
	Id           int64     `json:"id"`
	Source       string    `json:"source"` // Document name or file path the model was trained on.
	WindowLength int       `json:"window_length"`
	Seed         *uint64   `json:"seed,omitempty"` // nil when sampling was not seeded.
	SeedText     string    `json:"seed_text"`
	TargetLength int       `json:"target_length"`
	Output       string    `json:"output"`
	CreatedAt    time.Time `json:"created_at"`
}

// RecordRun stores a generation run and returns its id. A zero CreatedAt is
// replaced with the current time.
func (s *Store) RecordRun(ctx context.Context, run Run) (int64, error) {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}
	var seed sql.NullInt64
	if run.Seed != nil {
		seed = sql.NullInt64{Int64: int64(*run.Seed), Valid: true}
	}

	res, err := s.stmtInsertRun.ExecContext(ctx, run.Source, run.WindowLength, seed, run.SeedText,
		run.TargetLength, run.Output, run.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("could not record run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	s.logger.DebugContext(ctx, "Run recorded",
		slog.Int64("run_id", id),
		slog.String("source", run.Source),
		slog.Int("window_length", run.WindowLength),
	)
	return id, nil
}

// ListRuns returns up to limit runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.stmtListRuns.QueryContext(ctx, limit)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var runs []Run
	for rows.Next() {
		var run Run
		var seed sql.NullInt64
		var createdAt string
		if err = rows.Scan(&run.Id, &run.Source, &run.WindowLength, &seed, &run.SeedText,
			&run.TargetLength, &run.Output, &createdAt); err != nil {
			return nil, err
		}
		if seed.Valid {
			v := uint64(seed.Int64)
			run.Seed = &v
		}
		run.CreatedAt = parseTime(createdAt)
		runs = append(runs, run)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

// PruneRuns deletes all but the newest keep runs and returns how many were removed.
func (s *Store) PruneRuns(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.stmtPruneRuns.ExecContext(ctx, keep)
	if err != nil {
		return 0, fmt.Errorf("could not prune runs: %w", err)
	}
	removed, _ := res.RowsAffected()

	s.logger.InfoContext(ctx, "History pruned",
		slog.Int("kept", keep),
		slog.Int64("runs_removed", removed),
	)
	return removed, nil
}

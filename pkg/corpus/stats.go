package corpus

import "context"

// Stats holds aggregated statistics for the whole store.
type Stats struct {
	Documents  int   `json:"documents"`
	TotalChars int64 `json:"total_chars"` // The sum of the character counts of all documents.
	Runs       int   `json:"runs"`
}

// GetStats returns a snapshot of statistics for the store.
func (s *Store) GetStats(ctx context.Context) (*Stats, error) {
	var stats Stats
	if err := s.stmtDocTotals.QueryRowContext(ctx).Scan(&stats.Documents, &stats.TotalChars); err != nil {
		return nil, err
	}
	if err := s.stmtRunCount.QueryRowContext(ctx).Scan(&stats.Runs); err != nil {
		return nil, err
	}
	return &stats, nil
}

package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// nextSequenceSQL bumps the shared counter and yields the value it held.
const nextSequenceSQL = `UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`

// sequence hands out one increasing number shared by every event table, so
// session, attempt and LLM rows interleave in a single order. The table is
// created and seeded by migrate.
type sequence struct {
	mu sync.Mutex
	db *sql.DB
}

// Next returns the next sequence number.
func (s *sequence) Next(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	if err := s.db.QueryRowContext(ctx, nextSequenceSQL).Scan(&n); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return n, nil
}

package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// insertEvent stamps a row with the next global sequence and the current
// time and inserts it into table.
func (r *eventRepo) insertEvent(ctx context.Context, table string, cols []string, vals []any) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert(table).
		Columns(append([]string{"sequence", "timestamp"}, cols...)...).
		Values(append([]any{seqNum, formatTime(time.Now())}, vals...)...).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return nil
}

// selectEvents builds a filtered query over table.
func selectEvents(table string, cols []string, opts QueryOpts, userColumn bool) (string, []any) {
	s := builder().Select(append([]string{"sequence", "timestamp"}, cols...)...).
		From(entsql.Table(table))
	return opts.apply(s, userColumn).Query()
}

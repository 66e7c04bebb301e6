package store

import (
	"context"
	"fmt"
)

const attemptTable = "attempt_events"

var attemptColumns = []string{
	"session_id", "user", "tier", "prompt", "answer", "response", "correct", "time_taken", "next_tier",
}

func (r *eventRepo) AppendAttemptEvent(ctx context.Context, data AttemptEventData) error {
	err := r.insertEvent(ctx, attemptTable, attemptColumns, []any{
		data.SessionID,
		data.User,
		data.Tier,
		data.Prompt,
		data.Answer,
		data.Response,
		boolInt(data.Correct),
		data.TimeTaken,
		data.NextTier,
	})
	if err != nil {
		return fmt.Errorf("save attempt event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryAttempts(ctx context.Context, opts QueryOpts) ([]AttemptEvent, error) {
	query, args := selectEvents(attemptTable, attemptColumns, opts, true)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []AttemptEvent
	for rows.Next() {
		var e AttemptEvent
		var ts string
		var correct int
		if err := rows.Scan(
			&e.Sequence, &ts,
			&e.SessionID, &e.User, &e.Tier, &e.Prompt, &e.Answer, &e.Response, &correct, &e.TimeTaken, &e.NextTier,
		); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		if e.Timestamp, err = parseTime(ts); err != nil {
			return nil, fmt.Errorf("parse attempt timestamp: %w", err)
		}
		e.Correct = correct != 0
		out = append(out, e)
	}
	return out, rows.Err()
}

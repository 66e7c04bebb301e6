package store

import (
	"context"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

const sessionTable = "session_events"

var sessionColumns = []string{
	"session_id", "action", "user", "strategy", "initial_tier", "final_tier",
	"recommended_tier", "questions", "correct", "duration_secs", "export_path",
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	if data.SessionID == "" {
		return errors.New("session event requires a session id")
	}
	if data.Action != ActionStart && data.Action != ActionEnd {
		return fmt.Errorf("unknown session action %q", data.Action)
	}

	err := r.insertEvent(ctx, sessionTable, sessionColumns, []any{
		data.SessionID,
		data.Action,
		data.User,
		data.Strategy,
		data.InitialTier,
		data.FinalTier,
		data.RecommendedTier,
		data.Questions,
		data.Correct,
		data.DurationSecs,
		data.ExportPath,
	})
	if err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) QuerySessions(ctx context.Context, opts QueryOpts) ([]SessionEvent, error) {
	s := builder().Select(append([]string{"sequence", "timestamp"}, sessionColumns...)...).
		From(entsql.Table(sessionTable)).
		Where(entsql.EQ("action", ActionEnd))
	query, args := opts.apply(s, true).Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionEvent
	for rows.Next() {
		var e SessionEvent
		var ts string
		if err := rows.Scan(
			&e.Sequence, &ts,
			&e.SessionID, &e.Action, &e.User, &e.Strategy, &e.InitialTier, &e.FinalTier,
			&e.RecommendedTier, &e.Questions, &e.Correct, &e.DurationSecs, &e.ExportPath,
		); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if e.Timestamp, err = parseTime(ts); err != nil {
			return nil, fmt.Errorf("parse session timestamp: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *eventRepo) LatestSession(ctx context.Context, user string) (*SessionEvent, error) {
	if user == "" {
		return nil, nil
	}
	sessions, err := r.QuerySessions(ctx, QueryOpts{User: user, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, nil
	}
	return &sessions[0], nil
}

package store

import (
	"context"
	"database/sql"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// QueryOpts configures event queries with filtering and pagination.
// Results are returned newest first.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
	User   string    // exact learner name ("" = all)
}

// Session actions.
const (
	ActionStart = "start"
	ActionEnd   = "end"
)

// SessionEventData captures a session lifecycle event. Totals are only
// meaningful on end events.
type SessionEventData struct {
	SessionID       string
	Action          string
	User            string
	Strategy        string
	InitialTier     string
	FinalTier       string
	RecommendedTier string
	Questions       int
	Correct         int
	DurationSecs    int
	ExportPath      string
}

// SessionEvent is a stored session event.
type SessionEvent struct {
	Sequence  int64
	Timestamp time.Time
	SessionEventData
}

// AttemptEventData captures a single answered puzzle.
type AttemptEventData struct {
	SessionID string
	User      string
	Tier      string
	Prompt    string
	Answer    float64
	Response  string
	Correct   bool
	TimeTaken float64
	NextTier  string
}

// AttemptEvent is a stored attempt.
type AttemptEvent struct {
	Sequence  int64
	Timestamp time.Time
	AttemptEventData
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request.
type LLMRequestEvent struct {
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendSessionEvent records a session start or end.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// AppendAttemptEvent records one answered puzzle.
	AppendAttemptEvent(ctx context.Context, data AttemptEventData) error

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryAttempts returns attempts matching opts, newest first.
	QueryAttempts(ctx context.Context, opts QueryOpts) ([]AttemptEvent, error)

	// QuerySessions returns completed sessions matching opts, newest first.
	QuerySessions(ctx context.Context, opts QueryOpts) ([]SessionEvent, error)

	// LatestSession returns the most recently completed session of user,
	// or nil if there is none.
	LatestSession(ctx context.Context, user string) (*SessionEvent, error)

	// QueryLLMRequests returns LLM request events matching opts, newest first.
	QueryLLMRequests(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)
}

// eventRepo implements EventRepo on database/sql with statements built by
// the ent SQL builder.
type eventRepo struct {
	db  *sql.DB
	seq *sequence
}

// apply adds the filters in opts to s.
func (o QueryOpts) apply(s *entsql.Selector, userColumn bool) *entsql.Selector {
	if o.After > 0 {
		s.Where(entsql.GT("sequence", o.After))
	}
	if o.Before > 0 {
		s.Where(entsql.LT("sequence", o.Before))
	}
	if !o.From.IsZero() {
		s.Where(entsql.GTE("timestamp", formatTime(o.From)))
	}
	if !o.To.IsZero() {
		s.Where(entsql.LTE("timestamp", formatTime(o.To)))
	}
	if userColumn && o.User != "" {
		s.Where(entsql.EQ("user", o.User))
	}
	s.OrderBy(entsql.Desc("sequence"))
	if o.Limit > 0 {
		s.Limit(o.Limit)
	}
	return s
}

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

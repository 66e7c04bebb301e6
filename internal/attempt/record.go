// Package attempt keeps the per-session log of answered puzzles and
// derives summaries from it.
package attempt

import (
	"math"
	"time"

	"github.com/abhisek/adaptiq/internal/difficulty"
)

// DefaultUser is used when a learner gives no name.
const DefaultUser = "Learner"

// Record is one answered puzzle.
type Record struct {
	Timestamp time.Time
	User      string
	Tier      difficulty.Tier
	Prompt    string
	Answer    float64
	Correct   bool
	TimeTaken float64
}

// Log is an append-only, insertion-ordered list of records owned by a
// single session.
type Log struct {
	user    string
	records []Record
}

// NewLog creates an empty log for user.
func NewLog(user string) *Log {
	if user == "" {
		user = DefaultUser
	}
	return &Log{user: user}
}

// User returns the learner the log belongs to.
func (l *Log) User() string { return l.user }

// Append adds r to the end of the log. The timestamp is normalized to UTC,
// a negative or NaN time taken is clamped to zero and an empty user is
// filled in.
func (l *Log) Append(r Record) {
	r.Timestamp = r.Timestamp.UTC()
	if math.IsNaN(r.TimeTaken) || r.TimeTaken < 0 {
		r.TimeTaken = 0
	}
	if r.User == "" {
		r.User = l.user
	}
	l.records = append(l.records, r)
}

// Snapshot returns a copy of all records in insertion order.
func (l *Log) Snapshot() []Record {
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of records.
func (l *Log) Len() int { return len(l.records) }

// Summary summarizes the current records.
func (l *Log) Summary() Summary { return Summarize(l.records) }

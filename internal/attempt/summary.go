package attempt

import "github.com/abhisek/adaptiq/internal/difficulty"

const (
	// TrendWindow is the number of recent records in the trend.
	TrendWindow = 5

	// RecommendWindow is the number of recent records used for the
	// recommendation.
	RecommendWindow = 3

	// TailSize is the number of records shown in "last attempts" tables.
	TailSize = 10
)

// TierStats aggregates the records answered at one tier.
type TierStats struct {
	Tier     difficulty.Tier
	Attempts int
	Correct  int
	Accuracy float64
	MeanTime float64
}

// Trend aggregates the most recent records.
type Trend struct {
	Count    int
	Accuracy float64
	MeanTime float64
}

// Summary is a read-only projection of a set of records.
type Summary struct {
	Total       int
	Correct     int
	Accuracy    float64
	MeanTime    float64
	ByTier      []TierStats
	Trend       Trend
	Recommended difficulty.Tier
}

// Empty reports whether the summary covers no records.
func (s Summary) Empty() bool { return s.Total == 0 }

// Summarize computes totals, per-tier stats in tier order, the recent
// trend and the recommended next tier. Accuracies are percentages.
func Summarize(records []Record) Summary {
	s := Summary{Recommended: Recommend(records)}
	if len(records) == 0 {
		return s
	}

	s.Total = len(records)
	s.Correct, s.MeanTime = tally(records)
	s.Accuracy = percent(s.Correct, s.Total)
	s.ByTier = ByTier(records)
	s.Trend = RecentTrend(records, TrendWindow)
	return s
}

// ByTier groups records by tier. Tiers without records are omitted.
func ByTier(records []Record) []TierStats {
	var out []TierStats
	for _, t := range difficulty.Tiers {
		var group []Record
		for _, r := range records {
			if r.Tier == t {
				group = append(group, r)
			}
		}
		if len(group) == 0 {
			continue
		}
		correct, mean := tally(group)
		out = append(out, TierStats{
			Tier:     t,
			Attempts: len(group),
			Correct:  correct,
			Accuracy: percent(correct, len(group)),
			MeanTime: mean,
		})
	}
	return out
}

// RecentTrend summarizes the last n records.
func RecentTrend(records []Record, n int) Trend {
	last := Tail(records, n)
	if len(last) == 0 {
		return Trend{}
	}
	correct, mean := tally(last)
	return Trend{Count: len(last), Accuracy: percent(correct, len(last)), MeanTime: mean}
}

// Recommend applies the difficulty rule to the last three records at the
// tier of the most recent one. With no records it recommends Medium.
func Recommend(records []Record) difficulty.Tier {
	last := Tail(records, RecommendWindow)
	if len(last) == 0 {
		return difficulty.Medium
	}
	correct, mean := tally(last)
	return difficulty.Rule(last[len(last)-1].Tier, correct, mean)
}

// Tail returns up to the last n records.
func Tail(records []Record, n int) []Record {
	if n <= 0 {
		return nil
	}
	if len(records) > n {
		records = records[len(records)-n:]
	}
	out := make([]Record, len(records))
	copy(out, records)
	return out
}

func tally(records []Record) (correct int, mean float64) {
	sum := 0.0
	for _, r := range records {
		if r.Correct {
			correct++
		}
		sum += r.TimeTaken
	}
	return correct, sum / float64(len(records))
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

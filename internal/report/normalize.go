package report

import (
	"math"
	"time"
)

// Event is one normalized answer interaction.
type Event struct {
	Question  any       `bson:"question" json:"question"`
	Answer    any       `bson:"answer" json:"answer"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// Normalize turns raw option logs into events, in input order, and returns
// the span between the earliest and latest event in seconds rounded to two
// decimals. Logs without a question or a value are skipped.
func Normalize(logs []OptionLog) ([]Event, float64) {
	events := make([]Event, 0, len(logs))
	for _, l := range logs {
		if !l.HasQuestion || !l.HasValue {
			continue
		}
		events = append(events, Event{
			Question:  l.Question,
			Answer:    l.Value,
			Timestamp: timeFromMillis(l.TimeMs),
		})
	}
	return events, totalTimeSeconds(events)
}

// Representable event times: years 1 through 9999 UTC.
var (
	minEventMillis = float64(time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli())
	maxEventMillis = float64(time.Date(9999, 12, 31, 23, 59, 59, 999000000, time.UTC).UnixMilli())
)

// timeFromMillis converts fractional epoch milliseconds to a UTC instant
// with microsecond precision. Times outside years 1-9999 fall back to the
// epoch, the same as a missing time.
func timeFromMillis(ms float64) time.Time {
	if ms < minEventMillis || ms > maxEventMillis {
		ms = 0
	}
	return time.UnixMicro(int64(math.Round(ms * 1000))).UTC()
}

func totalTimeSeconds(events []Event) float64 {
	if len(events) == 0 {
		return 0
	}
	lo, hi := events[0].Timestamp, events[0].Timestamp
	for _, e := range events[1:] {
		if e.Timestamp.Before(lo) {
			lo = e.Timestamp
		}
		if e.Timestamp.After(hi) {
			hi = e.Timestamp
		}
	}
	// Bounded timestamps keep the microsecond difference within int64;
	// time.Duration would overflow past ~292 years.
	span := float64(hi.UnixMicro()-lo.UnixMicro()) / 1e6
	return math.Round(span*100) / 100
}

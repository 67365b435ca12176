// Package schedule decides when the bot is allowed to post again.
//
// The interval between posts is randomized on every check so the posting
// cadence does not follow a fixed cron pattern.
package schedule

import (
	"math/rand"
	"time"
)

const (
	MinHours = 4.0
	MaxHours = 10.0
)

// TimeLayout matches the millisecond UTC form used for stored timestamps.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Source supplies uniform draws in [0, 1).
type Source interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// DefaultSource draws from the process-wide math/rand generator and is safe
// for concurrent use.
var DefaultSource Source = globalSource{}

// Threshold draws a fresh wait in hours, uniform in [MinHours, MaxHours).
func Threshold(src Source) float64 {
	return MinHours + src.Float64()*(MaxHours-MinHours)
}

// ShouldPost reports whether enough randomized time has passed since
// lastPostTime. An empty or unparseable lastPostTime counts as a first run.
func ShouldPost(lastPostTime string, now time.Time, src Source) bool {
	if lastPostTime == "" {
		return true
	}
	last, err := ParseTimestamp(lastPostTime)
	if err != nil {
		return true
	}
	return now.Sub(last).Hours() >= Threshold(src)
}

// ParseTimestamp accepts RFC 3339 with or without fractional seconds.
func ParseTimestamp(value string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, value)
}

// FormatTimestamp renders t the way it is persisted.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

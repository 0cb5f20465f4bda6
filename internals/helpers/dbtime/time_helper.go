// file: internals/helpers/dbtime/time_helper.go
package dbtime

import (
	"strings"
	"time"
)

// Clock is the single source of "now" for every domain timestamp.
// Timestamps are epoch milliseconds, never client supplied.
type Clock interface {
	NowMs() int64
}

type SystemClock struct{}

func (SystemClock) NowMs() int64 { return time.Now().UnixMilli() }

// ClockFunc adapts a plain function, mostly for tests and jobs.
type ClockFunc func() int64

func (f ClockFunc) NowMs() int64 { return f() }

const (
	MsPerMinute = int64(60 * 1000)
	MsPerHour   = 60 * MsPerMinute
	MsPerDay    = 24 * MsPerHour
)

// LoadHostelLocation: nama zona dari config, fallback UTC kalau tidak valid.
func LoadHostelLocation(name string) *time.Location {
	name = strings.TrimSpace(name)
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

func FromMs(ms int64, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.UnixMilli(ms).In(loc)
}

// DateKey formats ms as a local calendar date (YYYY-MM-DD).
func DateKey(ms int64, loc *time.Location) string {
	return FromMs(ms, loc).Format("2006-01-02")
}

// DayStartMs is local midnight of the day containing ms.
func DayStartMs(ms int64, loc *time.Location) int64 {
	t := FromMs(ms, loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).UnixMilli()
}

// MonthRangeMs returns [start, end) of a calendar month in loc.
func MonthRangeMs(year int, month time.Month, loc *time.Location) (int64, int64) {
	if loc == nil {
		loc = time.UTC
	}
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0)
	return start.UnixMilli(), end.UnixMilli()
}

// YearRangeMs returns [start, end) of a calendar year in loc.
func YearRangeMs(year int, loc *time.Location) (int64, int64) {
	if loc == nil {
		loc = time.UTC
	}
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	return start.UnixMilli(), start.AddDate(1, 0, 0).UnixMilli()
}

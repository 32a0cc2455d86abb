// Package timeutil provides utility functions and types for working with
// time-related operations.
package timeutil

import (
	"fmt"
	"math"
	"strings"
	"time"

	dps "github.com/markusmobius/go-dateparser"
)

const (
	secondsInAMinute = 60
	secondsInAnHour  = 3600
	microsPerSecond  = 1e6
)

// Resolution is the precision at which instants are captured and persisted.
const Resolution = time.Microsecond

// DefaultLayout is used to display absolute instants.
const DefaultLayout = "2006-01-02 15:04:05"

type Period string

const (
	PeriodAllTime   Period = "all-time"
	PeriodToday     Period = "today"
	PeriodYesterday Period = "yesterday"
	Period7Days     Period = "7days"
	Period14Days    Period = "14days"
	Period30Days    Period = "30days"
	Period90Days    Period = "90days"
	Period180Days   Period = "180days"
	Period365Days   Period = "365days"
)

var Range = map[Period]int{
	PeriodAllTime:   0,
	PeriodToday:     0,
	PeriodYesterday: -1,
	Period7Days:     -6,
	Period14Days:    -13,
	Period30Days:    -29,
	Period90Days:    -89,
	Period180Days:   -179,
	Period365Days:   -364,
}

var PeriodCollection = []Period{
	PeriodAllTime,
	PeriodToday,
	PeriodYesterday,
	Period7Days,
	Period14Days,
	Period30Days,
	Period90Days,
	Period180Days,
	Period365Days,
}

// Now returns the current instant truncated to Resolution. The monotonic
// clock reading is stripped so that values survive persistence unchanged.
func Now() time.Time {
	return time.Now().Truncate(Resolution)
}

// FormatDuration renders d as "{hours}h {minutes}m {seconds}s". Fractional
// seconds are truncated and hours do not wrap. Negative values render as zero.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	total := int64(d / time.Second)

	hours := total / secondsInAnHour
	minutes := (total % secondsInAnHour) / secondsInAMinute
	seconds := total % secondsInAMinute

	return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
}

// FormatInstant renders t in the given location using layout.
func FormatInstant(t time.Time, layout string, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}

	if layout == "" {
		layout = DefaultLayout
	}

	return t.In(loc).Format(layout)
}

// ToSeconds expresses t as seconds since the Unix epoch.
func ToSeconds(t time.Time) float64 {
	return float64(t.UnixMicro()) / microsPerSecond
}

// FromSeconds is the inverse of ToSeconds at microsecond resolution.
func FromSeconds(secs float64) time.Time {
	return time.UnixMicro(int64(math.Round(secs * microsPerSecond)))
}

// DurationToSeconds expresses d in seconds.
func DurationToSeconds(d time.Duration) float64 {
	return float64(d.Microseconds()) / microsPerSecond
}

// SecondsToDuration is the inverse of DurationToSeconds at microsecond
// resolution.
func SecondsToDuration(secs float64) time.Duration {
	return time.Duration(math.Round(secs*microsPerSecond)) * time.Microsecond
}

// RoundToStart resets the given time to the start of the day.
func RoundToStart(t time.Time) time.Time {
	return time.Date(
		t.Year(),
		t.Month(),
		t.Day(),
		0,
		0,
		0,
		0,
		t.Location(),
	)
}

// RoundToEnd resets the given time to the last nanosecond of the day.
func RoundToEnd(t time.Time) time.Time {
	return time.Date(
		t.Year(),
		t.Month(),
		t.Day(),
		23,
		59,
		59,
		int(time.Second-time.Nanosecond),
		t.Location(),
	)
}

// PeriodRange returns the start and end time of the specified period relative
// to now. The start of PeriodAllTime is the zero time.
func PeriodRange(period Period, now time.Time) (start, end time.Time) {
	start = RoundToStart(now)

	end = RoundToEnd(now)

	//nolint:exhaustive // other cases covered by default
	switch period {
	case PeriodToday:
		return
	case PeriodYesterday:
		start = now.AddDate(0, 0, Range[period])
		start = RoundToStart(start)
		end = RoundToEnd(start)

		return
	case PeriodAllTime:
		start = time.Time{}
		return
	default:
		start = now.AddDate(0, 0, Range[period])
		start = RoundToStart(start)
	}

	return
}

// ToKey converts a time value to a database key for Bolt.
func ToKey(t time.Time) []byte {
	return []byte(t.Format(time.RFC3339Nano))
}

// FromStr parses an absolute or relative date ("2 weeks ago", "yesterday
// 9am", "2026-10-01") relative to now. The result is truncated to
// Resolution.
func FromStr(s string, now time.Time) (time.Time, error) {
	cfg := &dps.Configuration{
		CurrentTime:     now,
		DefaultTimezone: now.Location(),
	}

	d, err := dps.Parse(cfg, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}

	return d.Time.Truncate(Resolution), nil
}

// Package clock does time-of-day arithmetic on the clock strings used by
// iqamah rules and adhan timings ("6:45 AM", "18:07").
package clock

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

var (
	twelveHour = regexp.MustCompile(`(?i)^(\d{1,2}):(\d{2})\s*(AM|PM)$`)
	twentyFour = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
)

// Result is the outcome of resolving a clock string. When Resolved is false,
// Value holds the input exactly as it was given.
type Result struct {
	Value    string
	Resolved bool
}

// Resolved wraps a successfully computed time.
func Resolved(value string) Result {
	return Result{Value: value, Resolved: true}
}

// Unresolved wraps an input that could not be interpreted.
func Unresolved(original string) Result {
	return Result{Value: original}
}

func (r Result) String() string { return r.Value }

// Parse returns the minutes since midnight for a 12-hour ("H:MM AM") or
// 24-hour ("HH:MM") clock string.
func Parse(s string) (int, bool) {
	s = strings.TrimSpace(s)

	if m := twelveHour.FindStringSubmatch(s); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour < 1 || hour > 12 || minute > 59 {
			return 0, false
		}
		hour %= 12
		if strings.EqualFold(m[3], "PM") {
			hour += 12
		}
		return hour*60 + minute, true
	}

	if m := twentyFour.FindStringSubmatch(s); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour > 23 || minute > 59 {
			return 0, false
		}
		return hour*60 + minute, true
	}

	return 0, false
}

// Format12 renders minutes since midnight as "H:MM AM|PM". Values outside a
// single day wrap around.
func Format12(minutes int) string {
	minutes = ((minutes % minutesPerDay) + minutesPerDay) % minutesPerDay
	hour, minute := minutes/60, minutes%60

	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	hour %= 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour, minute, period)
}

// Shift adds a signed minute offset to a clock string and returns the
// 12-hour result. Day rollover is not tracked.
func Shift(s string, minutes int) Result {
	base, ok := Parse(s)
	if !ok {
		return Unresolved(s)
	}
	return Resolved(Format12(base + minutes))
}

// AddOffset is Shift without the resolution flag: unrecognised input comes
// back unchanged.
func AddOffset(s string, minutes int) string {
	return Shift(s, minutes).Value
}

// To12 normalises any recognised clock string to 12-hour form.
func To12(s string) Result {
	return Shift(s, 0)
}

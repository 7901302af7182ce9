// Package timeutil provides utility functions and types for working with
// time-related operations.
package timeutil

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"
)

const minutesInAnHour = 60

const (
	HoursInADay   = 24
	MinutesInADay = HoursInADay * minutesInAnHour
)

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

// Round rounds a time value in seconds, minutes, or hours to the nearest integer.
func Round(t float64) int {
	return int(math.Round(t))
}

// MinsToHoursAndMins expresses a minutes value in hours and mins.
func MinsToHoursAndMins(val int) (hrs, mins int) {
	hrs = int(math.Floor(float64(val) / float64(minutesInAnHour)))
	mins = val % minutesInAnHour

	return
}

// DaysIn returns the number of days in the month for the specified time.
func DaysIn(t time.Time) int {
	m := t.Month()
	year := t.Year()

	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
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

// RoundToEnd resets the given time to the end of the day.
func RoundToEnd(t time.Time) time.Time {
	return time.Date(
		t.Year(),
		t.Month(),
		t.Day(),
		23,
		59,
		59,
		0,
		t.Location(),
	)
}

// ParseDuration converts a raw duration cell such as "01:38 h", "21:40 mins",
// or "36 s" to fractional hours. The boolean reports whether the text was
// recognized as a duration.
func ParseDuration(raw string) (float64, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return 0, false
	}

	switch {
	case strings.Contains(s, "h"):
		num, _, _ := strings.Cut(s, "h")

		num = strings.TrimSpace(num)
		if strings.Contains(num, ":") {
			hrs, mins, ok := splitClock(num)
			if !ok {
				return 0, false
			}

			return float64(hrs) + float64(mins)/minutesInAnHour, true
		}

		v, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0, false
		}

		return v, true
	case strings.Contains(s, "min"):
		num, _, _ := strings.Cut(s, "min")

		num = strings.TrimSpace(num)
		if strings.Contains(num, ":") {
			mins, secs, ok := splitClock(num)
			if !ok {
				return 0, false
			}

			return (float64(mins) + float64(secs)/minutesInAnHour) / minutesInAnHour, true
		}

		v, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0, false
		}

		return v / minutesInAnHour, true
	case strings.Contains(s, "s"):
		num, _, _ := strings.Cut(s, "s")

		v, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
		if err != nil {
			return 0, false
		}

		return v / (minutesInAnHour * minutesInAnHour), true
	}

	return 0, false
}

// ParseClock converts an "HH:MM" timestamp to minutes since midnight.
// Values outside the 24-hour range are accepted unchanged so that malformed
// source rows survive a round trip instead of being silently dropped.
func ParseClock(raw string) (int, bool) {
	hrs, mins, ok := splitClock(strings.TrimSpace(raw))
	if !ok {
		return 0, false
	}

	return hrs*minutesInAnHour + mins, true
}

// FormatHoursMinutes renders fractional hours as zero-padded "HH:MM",
// truncating to whole minutes.
func FormatHoursMinutes(hours float64) string {
	// tolerate float error at exact minute boundaries
	total := int(hours*minutesInAnHour + 1e-9)

	hrs, mins := MinsToHoursAndMins(total)

	return fmt.Sprintf("%02d:%02d", hrs, mins)
}

// FromStr parses a date string in one of the common report layouts,
// falling back to natural language parsing for anything else.
func FromStr(s string) (time.Time, error) {
	layouts := []string{
		time.DateOnly,
		"2 January 2006",
		"2 Jan 2006",
		"2006-01-02 03:04:05 PM",
	}

	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
	}

	dt, err := dateparser.Parse(nil, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse date %q: %w", s, err)
	}

	return dt.Time, nil
}

// splitClock splits a single "A:B" pair into its integer components.
func splitClock(s string) (a, b int, ok bool) {
	first, second, found := strings.Cut(s, ":")
	if !found || strings.Contains(second, ":") {
		return 0, 0, false
	}

	a, err := strconv.Atoi(strings.TrimSpace(first))
	if err != nil {
		return 0, 0, false
	}

	b, err = strconv.Atoi(strings.TrimSpace(second))
	if err != nil {
		return 0, 0, false
	}

	return a, b, true
}

package engine

import (
	"strings"
	"time"

	"github.com/svenhw/flapstats/internal/models"
)

// resolveDates maps every day label of a report to a calendar date.
// A report listing both December and January days straddles the year
// boundary: its December days belong to the year before the report's.
func resolveDates(
	rep *models.Report,
	days []day,
	rec *recorder,
) []time.Time {
	crossYear := spansYearBoundary(days)

	dates := make([]time.Time, len(days))

	for i := range days {
		label := days[i].src.Label

		t, ok := resolveLabel(label, rep.Year, crossYear)
		if !ok {
			rec.notef(label, "day label %q has no resolvable date", label)
			continue
		}

		dates[i] = t
	}

	return dates
}

// spansYearBoundary reports whether the day labels cover both December
// and January.
func spansYearBoundary(days []day) bool {
	var hasDec, hasJan bool

	for i := range days {
		label := days[i].src.Label

		if strings.Contains(label, "Dec") {
			hasDec = true
		}

		if strings.Contains(label, "Jan") {
			hasJan = true
		}
	}

	return hasDec && hasJan
}

// resolveLabel parses a "Www D Mon" label against the report year. The
// weekday token is ignored; the date must exist on the real calendar.
func resolveLabel(label string, year int, crossYear bool) (time.Time, bool) {
	if year == 0 {
		return time.Time{}, false
	}

	dayNum, month, ok := parseLabel(label)
	if !ok {
		return time.Time{}, false
	}

	if crossYear && month == time.December {
		year--
	}

	t := time.Date(year, month, dayNum, 0, 0, 0, 0, time.UTC)

	// reject dates that only exist through normalization, like Feb 29
	// outside a leap year
	if t.Day() != dayNum || t.Month() != month {
		return time.Time{}, false
	}

	return t, true
}

// parseLabel extracts the day number and month from a day label.
func parseLabel(label string) (dayNum int, month time.Month, ok bool) {
	fields := strings.Fields(label)
	if len(fields) < 3 {
		return 0, 0, false
	}

	for _, layout := range []string{"2 Jan", "2 January"} {
		t, err := time.Parse(layout, fields[1]+" "+fields[2])
		if err == nil {
			return t.Day(), t.Month(), true
		}
	}

	return 0, 0, false
}

// dateRange returns the span from the earliest to the latest resolved
// date, or nil when no day resolved.
func dateRange(dates []time.Time) *models.DateRange {
	var r *models.DateRange

	for _, t := range dates {
		if t.IsZero() {
			continue
		}

		if r == nil {
			r = &models.DateRange{Start: t, End: t}
			continue
		}

		if t.Before(r.Start) {
			r.Start = t
		}

		if t.After(r.End) {
			r.End = t
		}
	}

	return r
}

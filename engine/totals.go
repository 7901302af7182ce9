package engine

import (
	"github.com/svenhw/flapstats/internal/models"
	"github.com/svenhw/flapstats/internal/timeutil"
)

// applyDayTotals computes the day's reconstructed totals, stamps them on
// every one of its sessions, and grades them against the totals printed
// in the report. Printed totals are echoed untouched either way; a
// disagreement is recorded, never repaired.
func (e *Engine) applyDayTotals(
	d *day,
	sessions []models.Session,
	rec *recorder,
) {
	var (
		visits int
		hours  float64
	)

	for i := range sessions {
		if sessions[i].ExitTime != "" {
			visits++
		}

		if v, ok := timeutil.ParseDuration(sessions[i].Duration); ok {
			hours += v
		}
	}

	timeOutside := timeutil.FormatHoursMinutes(hours)

	for i := range sessions {
		sessions[i].CalculatedVisits = visits
		sessions[i].CalculatedTimeOutside = timeOutside
	}

	e.gradeDay(d, visits, rec)
}

// gradeDay compares the reconstructed visit count with the reported one.
func (e *Engine) gradeDay(d *day, visits int, rec *recorder) {
	reported := d.src.ReportedVisits
	if reported == nil {
		return
	}

	cfg := e.cfg.Validation

	diff := visits - *reported
	if diff < 0 {
		diff = -diff
	}

	switch {
	case diff > cfg.SignificantMismatch,
		*reported > 0 && visits > *reported*cfg.MaxVisitRatio:
		rec.mismatchf(
			d.src.Label,
			"reconstructed %d visits but the report states %d",
			visits,
			*reported,
		)
	case diff > cfg.MinorMismatch:
		rec.notef(
			d.src.Label,
			"minor visit count difference: reconstructed %d, report states %d",
			visits,
			*reported,
		)
	}
}

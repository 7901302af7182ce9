package engine

import (
	"math"

	"github.com/svenhw/flapstats/internal/timeutil"
)

// resolveOvernights walks adjacent day columns looking for one excursion
// recorded as two lone timestamps either side of midnight.
func (e *Engine) resolveOvernights(days []day, rec *recorder) {
	for i := 0; i < len(days)-1; i++ {
		e.pairOvernight(&days[i], &days[i+1], rec)
	}
}

// resolveBoundaryOvernights applies the same pairing between the last day
// of one report and the first day of the next, provided the two days are
// consecutive on the calendar.
func (e *Engine) resolveBoundaryOvernights(
	preps []*prepared,
	rec *recorder,
) {
	for i := 0; i < len(preps)-1; i++ {
		a, b := preps[i], preps[i+1]
		if len(a.days) == 0 || len(b.days) == 0 {
			continue
		}

		last := a.dates[len(a.dates)-1]
		first := b.dates[0]

		if last.IsZero() || first.IsZero() {
			continue
		}

		if !last.AddDate(0, 0, 1).Equal(first) {
			continue
		}

		e.pairOvernight(&a.days[len(a.days)-1], &b.days[0], rec)
	}
}

// pairOvernight locks today's trailing lone timestamp as an exit and
// tomorrow's leading one as an entry when both durations account for
// their side of midnight. The excursion deliberately stays split across
// the two days; pairing only fixes the direction of each half.
func (e *Engine) pairOvernight(today, tomorrow *day, rec *recorder) bool {
	tp := lastSingle(today.pairs)
	mp := firstSingle(tomorrow.pairs)

	if tp == nil || mp == nil || tp.forced || mp.forced {
		return false
	}

	tMins, ok := timeutil.ParseClock(tp.timestamp)
	if !ok {
		return false
	}

	mMins, ok := timeutil.ParseClock(mp.timestamp)
	if !ok {
		return false
	}

	cfg := e.cfg.Heuristics

	if tMins < cfg.LateEveningHour*60 || mMins >= cfg.EarlyMorningHour*60 {
		return false
	}

	tHours, ok := timeutil.ParseDuration(tp.duration)
	if !ok {
		return false
	}

	mHours, ok := timeutil.ParseDuration(mp.duration)
	if !ok {
		return false
	}

	untilMidnight := float64(timeutil.MinutesInADay-tMins) / 60
	sinceMidnight := float64(mMins) / 60

	if math.Abs(tHours-untilMidnight) >= cfg.ToleranceHours {
		return false
	}

	if math.Abs(mHours-sinceMidnight) >= cfg.ToleranceHours {
		return false
	}

	tp.otype = observationExit
	tp.forced = true
	mp.otype = observationEntry
	mp.forced = true

	rec.correctionf(
		today.src.Label,
		"overnight excursion: out at %s, back at %s on %s",
		tp.timestamp,
		mp.timestamp,
		tomorrow.src.Label,
	)

	return true
}

package engine

import (
	"math"

	"github.com/svenhw/flapstats/internal/timeutil"
)

// classifyDays resolves the direction of every lone timestamp that
// overnight pairing has not already locked in.
func (e *Engine) classifyDays(days []day, rec *recorder) {
	for i := range days {
		d := &days[i]

		for j := range d.pairs {
			p := &d.pairs[j]
			if p.kind != pairSingle || p.forced {
				continue
			}

			p.otype = e.classify(p.timestamp, p.duration, d.src.Label, rec)
		}
	}
}

// classify decides whether a lone timestamp marks an exit or an entry.
//
// Each observation is judged on its own evidence alone. The duration tells
// which side of the timestamp the excursion lies on: a duration that
// matches the time since midnight means the animal was out overnight and
// this is the return; one that matches the time until midnight means it
// left and stayed out past the end of the day. Short durations that match
// neither default by time of day, since a lone morning timestamp most
// often closes an unobserved overnight excursion while an evening one
// most often opens one.
func (e *Engine) classify(
	timestamp, duration, label string,
	rec *recorder,
) observation {
	mins, clockOK := timeutil.ParseClock(timestamp)
	hours, durOK := timeutil.ParseDuration(duration)

	// without duration evidence the observation stays an entry, which
	// keeps datasets stable across tool versions
	if !clockOK || !durOK {
		rec.notef(
			label,
			"lone timestamp %s has no usable duration evidence, keeping entry",
			timestamp,
		)

		return observationEntry
	}

	cfg := e.cfg.Heuristics

	morning := mins < cfg.MorningCutoffHour*60
	sinceMidnight := float64(mins) / 60
	untilMidnight := float64(timeutil.MinutesInADay-mins) / 60

	if hours < cfg.ShortSessionHours {
		if morning {
			if math.Abs(hours-sinceMidnight) < cfg.ToleranceHours {
				return observationEntry
			}

			return observationExit
		}

		if math.Abs(hours-untilMidnight) < cfg.ToleranceHours {
			return observationExit
		}

		return observationEntry
	}

	// long absences must anchor to midnight on one side; when neither
	// side matches, fall back by time of day
	var otype observation

	switch {
	case math.Abs(hours-sinceMidnight) < cfg.ToleranceHours:
		otype = observationEntry
	case math.Abs(hours-untilMidnight) < cfg.ToleranceHours:
		otype = observationExit
	case morning:
		otype = observationEntry
	default:
		otype = observationExit
	}

	rec.correctionf(
		label,
		"long duration %s at %s resolved as %s",
		duration,
		timestamp,
		otype,
	)

	return otype
}

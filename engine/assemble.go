package engine

import (
	"sort"

	"github.com/maruel/natural"

	"github.com/svenhw/flapstats/internal/models"
	"github.com/svenhw/flapstats/internal/timeutil"
)

// sortPrepared orders reports by the start of their resolved date range.
// Reports with no resolvable dates sort last, in natural filename order,
// so that a run over "week2.json, week10.json" still lines up sensibly.
func sortPrepared(preps []*prepared) {
	sort.SliceStable(preps, func(i, j int) bool {
		ri, rj := preps[i].res.Range, preps[j].res.Range

		switch {
		case ri != nil && rj != nil:
			return ri.Start.Before(rj.Start)
		case ri != nil:
			return true
		case rj != nil:
			return false
		default:
			return natural.Less(preps[i].rep.Filename, preps[j].rep.Filename)
		}
	})
}

// detectGaps notes coverage holes between consecutive reports larger
// than the configured number of days.
func (e *Engine) detectGaps(preps []*prepared, rec *recorder) {
	var prev *prepared

	for _, p := range preps {
		if p.res.Range == nil {
			continue
		}

		if prev != nil {
			gap := int(
				p.res.Range.Start.Sub(prev.res.Range.End).Hours(),
			) / timeutil.HoursInADay

			if gap > e.cfg.Validation.GapDays {
				rec.notef(
					"",
					"%d day gap in coverage between %s and %s",
					gap,
					prev.rep.Filename,
					p.rep.Filename,
				)
			}
		}

		prev = p
	}
}

// assembleTimeline merges per-report sessions into one chronological
// list. The sort is stable, so a day's sessions keep their sequence
// order; sessions without a resolved date trail the timeline in the
// order they were encountered.
func assembleTimeline(results []*models.Result) []models.Session {
	var dated, undated []models.Session

	for _, res := range results {
		for _, s := range res.Sessions {
			if s.Date.IsZero() {
				undated = append(undated, s)
				continue
			}

			dated = append(dated, s)
		}
	}

	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].Date.Before(dated[j].Date)
	})

	return append(dated, undated...)
}

// Package engine reconstructs typed flap sessions from the raw
// per-day observations found in weekly activity reports
package engine

import (
	"fmt"
	"time"

	"github.com/svenhw/flapstats/internal/config"
	"github.com/svenhw/flapstats/internal/models"
)

// Engine turns decoded reports into session timelines. All data problems
// surface as diagnostics on the result, never as errors: a malformed cell
// degrades one observation, not the run.
type Engine struct {
	cfg *config.Config
}

// New returns an Engine using the given settings, or the built-in
// defaults when cfg is nil.
func New(cfg *config.Config) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}

	return &Engine{cfg: cfg}
}

// prepared carries a report through the reconstruction stages. dates
// holds the resolved calendar date per day, zero when unresolvable.
type prepared struct {
	rep   *models.Report
	days  []day
	dates []time.Time
	res   *models.Result
	rec   *recorder
}

// Process reconstructs the sessions of a single report.
func (e *Engine) Process(rep *models.Report) *models.Result {
	p := e.prepare(rep)

	e.resolveOvernights(p.days, p.rec)
	e.reconstruct(p)

	return p.res
}

// ProcessBatch reconstructs a run of reports and assembles their sessions
// into one chronological timeline. Reports are ordered by their resolved
// date ranges; when two consecutive reports cover adjacent calendar days,
// overnight excursions are also paired across the boundary.
func (e *Engine) ProcessBatch(reps []*models.Report) *models.Batch {
	batch := &models.Batch{}
	batchRec := &recorder{diags: &batch.Diagnostics}

	preps := make([]*prepared, 0, len(reps))
	for _, rep := range reps {
		preps = append(preps, e.prepare(rep))
	}

	sortPrepared(preps)

	for _, p := range preps {
		e.resolveOvernights(p.days, p.rec)
	}

	e.resolveBoundaryOvernights(preps, batchRec)

	for _, p := range preps {
		e.reconstruct(p)
		batch.Results = append(batch.Results, p.res)
	}

	e.detectGaps(preps, batchRec)

	batch.Sessions = assembleTimeline(batch.Results)

	return batch
}

// prepare scans a report's cells into observation pairs and resolves its
// day labels to calendar dates.
func (e *Engine) prepare(rep *models.Report) *prepared {
	res := &models.Result{Report: rep}

	p := &prepared{
		rep: rep,
		res: res,
		rec: &recorder{file: rep.Filename, diags: &res.Diagnostics},
	}

	p.days = scanReport(rep, p.rec)
	p.dates = resolveDates(rep, p.days, p.rec)
	p.res.Range = dateRange(p.dates)

	return p
}

// reconstruct classifies the remaining lone timestamps, builds the
// report's sessions day by day, and stamps each day's totals.
func (e *Engine) reconstruct(p *prepared) {
	e.classifyDays(p.days, p.rec)

	if len(p.days) == 0 {
		p.rec.notef("", "report contains no day records")
		return
	}

	for i := range p.days {
		d := &p.days[i]

		if len(d.pairs) == 0 {
			p.rec.notef(d.src.Label, "no usable observations")
			continue
		}

		sessions := buildDaySessions(p.rep, d, p.dates[i])

		e.applyDayTotals(d, sessions, p.rec)

		p.res.Sessions = append(p.res.Sessions, sessions...)
	}
}

// buildDaySessions emits one session per observation pair, numbered in
// table order. A lone timestamp becomes a half session: the unobserved
// boundary stays empty rather than being guessed.
func buildDaySessions(
	rep *models.Report,
	d *day,
	date time.Time,
) []models.Session {
	sessions := make([]models.Session, 0, len(d.pairs))

	for i := range d.pairs {
		p := &d.pairs[i]

		s := models.Session{
			Filename:            rep.Filename,
			DateLabel:           d.src.Label,
			Date:                date,
			Sequence:            len(sessions) + 1,
			Duration:            p.duration,
			ReportedVisits:      d.src.ReportedVisits,
			ReportedTimeOutside: d.src.ReportedTimeOutside,
		}

		switch p.kind {
		case pairComplete:
			s.ExitTime = p.exit
			s.EntryTime = p.entry
		case pairSingle:
			if p.otype == observationExit {
				s.ExitTime = p.timestamp
			} else {
				s.EntryTime = p.timestamp
			}
		}

		sessions = append(sessions, s)
	}

	return sessions
}

// recorder appends diagnostics to the owning result or batch.
type recorder struct {
	file  string
	diags *[]models.Diagnostic
}

func (r *recorder) record(
	kind models.DiagnosticKind,
	day, format string,
	args ...any,
) {
	*r.diags = append(*r.diags, models.Diagnostic{
		Kind:     kind,
		Filename: r.file,
		Day:      day,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (r *recorder) notef(day, format string, args ...any) {
	r.record(models.DiagNote, day, format, args...)
}

func (r *recorder) correctionf(day, format string, args ...any) {
	r.record(models.DiagCorrection, day, format, args...)
}

func (r *recorder) mismatchf(day, format string, args ...any) {
	r.record(models.DiagMismatch, day, format, args...)
}

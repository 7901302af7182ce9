package engine

import (
	"regexp"
	"strings"

	"github.com/svenhw/flapstats/internal/models"
)

type pairKind int

const (
	// pairComplete is a printed exit-entry range: both boundaries of the
	// excursion were observed.
	pairComplete pairKind = iota
	// pairSingle is a lone timestamp: only one boundary was observed and
	// its direction has to be inferred.
	pairSingle
)

type observation int

const (
	observationExit observation = iota
	observationEntry
)

func (o observation) String() string {
	if o == observationExit {
		return "exit"
	}

	return "entry"
}

// pair is one time observation joined with its duration cell.
type pair struct {
	kind      pairKind
	exit      string
	entry     string
	timestamp string
	duration  string
	otype     observation
	// forced marks a type locked in by overnight pairing, which takes
	// precedence over per-timestamp classification.
	forced bool
}

// day is one report column with its scanned observation pairs.
type day struct {
	src   *models.Day
	pairs []pair
}

var loneTimestampPattern = regexp.MustCompile(`^\d{2}:\d{2}$`)

const rangeSeparator = " - "

// scanReport scans every day column of a report.
func scanReport(rep *models.Report, rec *recorder) []day {
	days := make([]day, len(rep.Days))

	for i := range rep.Days {
		days[i] = day{
			src:   &rep.Days[i],
			pairs: scanDay(&rep.Days[i], rec),
		}
	}

	return days
}

// scanDay separates a day's cells into time observations and duration
// cells, then joins each observation with the nearest following unused
// duration. Cells matching neither shape are dropped with a note.
func scanDay(d *models.Day, rec *recorder) []pair {
	type cell struct {
		pos  int
		text string
	}

	var times, durations []cell

	for i, raw := range d.Cells {
		text := strings.TrimSpace(raw)
		if text == "" {
			continue
		}

		// a unit letter marks a duration, even one that later fails to
		// parse; otherwise a colon or range separator marks a time
		switch {
		case strings.ContainsAny(strings.ToLower(text), "hms"):
			durations = append(durations, cell{pos: i, text: text})
		case strings.Contains(text, ":") || strings.Contains(text, rangeSeparator):
			times = append(times, cell{pos: i, text: text})
		default:
			rec.notef(d.Label, "unrecognized cell %q discarded", text)
		}
	}

	pairs := make([]pair, 0, len(times))
	used := make([]bool, len(durations))

	for _, tc := range times {
		p, ok := timeCellToPair(tc.text)
		if !ok {
			rec.notef(d.Label, "unrecognized time cell %q discarded", tc.text)
			continue
		}

		for di, dc := range durations {
			if used[di] || dc.pos < tc.pos {
				continue
			}

			p.duration = dc.text
			used[di] = true

			break
		}

		pairs = append(pairs, p)
	}

	return pairs
}

// timeCellToPair decides the shape of a single time cell. A range cell
// splits on " - " unvalidated; a lone cell must look like a clock reading.
func timeCellToPair(text string) (pair, bool) {
	if strings.Contains(text, rangeSeparator) {
		parts := strings.Split(text, rangeSeparator)
		if len(parts) != 2 {
			return pair{}, false
		}

		return pair{
			kind:  pairComplete,
			exit:  strings.TrimSpace(parts[0]),
			entry: strings.TrimSpace(parts[1]),
		}, true
	}

	if !loneTimestampPattern.MatchString(text) {
		return pair{}, false
	}

	return pair{
		kind:      pairSingle,
		timestamp: text,
	}, true
}

// lastSingle returns the trailing lone-timestamp pair of a day, if any.
func lastSingle(pairs []pair) *pair {
	for i := len(pairs) - 1; i >= 0; i-- {
		if pairs[i].kind == pairSingle {
			return &pairs[i]
		}
	}

	return nil
}

// firstSingle returns the leading lone-timestamp pair of a day, if any.
func firstSingle(pairs []pair) *pair {
	for i := range pairs {
		if pairs[i].kind == pairSingle {
			return &pairs[i]
		}
	}

	return nil
}

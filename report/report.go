// Package report prints operator-facing summaries of a processing run.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/svenhw/flapstats/internal/models"
	"github.com/svenhw/flapstats/internal/ui"
	"github.com/svenhw/flapstats/store"
)

// Summary prints what a processing run reconstructed: report count,
// session shapes, quality counters, and the headline verdict.
func Summary(w io.Writer, batch *models.Batch) {
	var complete, exitOnly, entryOnly int

	for i := range batch.Sessions {
		sess := &batch.Sessions[i]

		switch {
		case sess.Complete():
			complete++
		case sess.ExitOnly():
			exitOnly++
		default:
			entryOnly++
		}
	}

	var corrections, mismatches, notes int

	for _, d := range batch.AllDiagnostics() {
		switch d.Kind {
		case models.DiagCorrection:
			corrections++
		case models.DiagMismatch:
			mismatches++
		default:
			notes++
		}
	}

	fullDays, partialDays, score := qualityScore(batch)

	summary := []string{
		ui.Blue("Summary"),
		fmt.Sprintf(
			"Reports processed: %s",
			ui.Green(strconv.Itoa(len(batch.Results))),
		),
		fmt.Sprintf(
			"Sessions reconstructed: %s",
			ui.Green(strconv.Itoa(len(batch.Sessions))),
		),
		fmt.Sprintf(
			"Complete sessions (exit and entry): %s",
			ui.Green(strconv.Itoa(complete)),
		),
		fmt.Sprintf(
			"Overnight exits (exit only): %s",
			ui.Green(strconv.Itoa(exitOnly)),
		),
		fmt.Sprintf(
			"Overnight entries (entry only): %s",
			ui.Green(strconv.Itoa(entryOnly)),
		),
	}

	quality := []string{
		ui.Blue("Quality"),
		fmt.Sprintf(
			"State corrections applied: %s",
			ui.Yellow(strconv.Itoa(corrections)),
		),
		fmt.Sprintf(
			"Validation mismatches: %s",
			ui.Red(strconv.Itoa(mismatches)),
		),
		fmt.Sprintf("Notes: %s", ui.Cyan(strconv.Itoa(notes))),
		fmt.Sprintf(
			"Exit/entry balance: %s (optimal: 0)",
			ui.Green(strconv.Itoa(exitOnly-entryOnly)),
		),
		fmt.Sprintf(
			"Days with full coverage: %s",
			ui.Green(strconv.Itoa(fullDays)),
		),
		fmt.Sprintf(
			"Days with a single session: %s",
			ui.Yellow(strconv.Itoa(partialDays)),
		),
		fmt.Sprintf("Confidence score: %s", ui.Green(fmt.Sprintf("%.2f", score))),
	}

	fmt.Fprintln(w, strings.Join(summary, "\n"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Join(quality, "\n"))
	fmt.Fprintln(w)

	verdict := pterm.Success.Sprintfln("No significant issues detected")
	if mismatches > 0 {
		verdict = pterm.Warning.Sprintfln(
			"Review %d flagged days manually",
			mismatches,
		)
	}

	fmt.Fprint(w, verdict)
}

// qualityScore grades coverage: the share of dated days that recorded
// more than a single session.
func qualityScore(batch *models.Batch) (fullDays, partialDays int, score float64) {
	perDay := make(map[string]int)

	for i := range batch.Sessions {
		sess := &batch.Sessions[i]
		if sess.Date.IsZero() {
			continue
		}

		perDay[sess.Date.Format(time.DateOnly)]++
	}

	for _, n := range perDay {
		if n >= 2 {
			fullDays++
		} else {
			partialDays++
		}
	}

	if len(perDay) > 0 {
		score = float64(fullDays) / float64(len(perDay))
	}

	return fullDays, partialDays, score
}

// Diagnostics prints every diagnostic grouped by kind, most severe
// first.
func Diagnostics(w io.Writer, diags []models.Diagnostic) {
	byKind := make(map[models.DiagnosticKind][]models.Diagnostic)

	for _, d := range diags {
		byKind[d.Kind] = append(byKind[d.Kind], d)
	}

	printGroup(w, ui.Red, "Validation mismatches", byKind[models.DiagMismatch])
	printGroup(w, ui.Yellow, "State corrections", byKind[models.DiagCorrection])
	printGroup(w, ui.Cyan, "Notes", byKind[models.DiagNote])
}

func printGroup(
	w io.Writer,
	color func(a any) string,
	title string,
	diags []models.Diagnostic,
) {
	if len(diags) == 0 {
		return
	}

	fmt.Fprintln(w, color(fmt.Sprintf("\n%s (%d)", title, len(diags))))

	for _, d := range diags {
		if d.Filename != "" {
			fmt.Fprintf(w, "  %s: %s\n", d.Filename, d.String())
			continue
		}

		fmt.Fprintf(w, "  %s\n", d.String())
	}
}

// Merge prints the outcome of a dataset merge in the long-standing
// processing log format.
func Merge(w io.Writer, rec *store.RunRecord) {
	lines := []string{
		ui.Blue("Merge"),
		fmt.Sprintf(
			"New sessions processed: %s",
			ui.Green(strconv.Itoa(rec.Stats.Processed)),
		),
		fmt.Sprintf(
			"Duplicate sessions found: %s",
			ui.Yellow(strconv.Itoa(rec.Stats.Duplicates)),
		),
		fmt.Sprintf(
			"Unique new sessions added: %s",
			ui.Green(strconv.Itoa(rec.Stats.Added)),
		),
		fmt.Sprintf(
			"Total sessions in dataset: %s",
			ui.Green(strconv.Itoa(rec.Stats.Total)),
		),
	}

	if rec.Stats.Skipped > 0 {
		lines = append(lines, fmt.Sprintf(
			"Undated sessions skipped: %s",
			ui.Yellow(strconv.Itoa(rec.Stats.Skipped)),
		))
	}

	if rec.DatasetStart != "" {
		lines = append(lines, fmt.Sprintf(
			"Dataset date range: %s",
			ui.Green(rec.DatasetStart+" to "+rec.DatasetEnd),
		))
	}

	fmt.Fprintln(w, strings.Join(lines, "\n"))
}

// Runs prints the merge history, oldest first, showing how the dataset
// has grown over time.
func Runs(w io.Writer, recs []store.RunRecord) {
	if len(recs) == 0 {
		fmt.Fprintln(w, "No merges recorded yet")
		return
	}

	data := [][]string{
		{
			"#",
			"Time",
			"Processed",
			"Added",
			"Duplicates",
			"Rate",
			"Total",
			"Range",
		},
	}

	for i := range recs {
		rec := &recs[i]

		dateRange := ""
		if rec.DatasetStart != "" {
			dateRange = rec.DatasetStart + " to " + rec.DatasetEnd
		}

		data = append(data, []string{
			strconv.Itoa(i + 1),
			rec.Timestamp.Format(time.DateTime),
			strconv.Itoa(rec.Stats.Processed),
			strconv.Itoa(rec.Stats.Added),
			strconv.Itoa(rec.Stats.Duplicates),
			fmt.Sprintf("%.0f%%", rec.DuplicateRate*100),
			strconv.Itoa(rec.Stats.Total),
			dateRange,
		})
	}

	ui.PrintTable(data, w)
}

// Saved prints the files a run wrote.
func Saved(w io.Writer, paths []string) {
	for _, path := range paths {
		fmt.Fprintf(w, "Wrote %s\n", ui.Highlight(path))
	}
}

// Backups prints the available dataset backups, newest first.
func Backups(w io.Writer, names []string) {
	if len(names) == 0 {
		fmt.Fprintln(w, "No backups found")
		return
	}

	data := [][]string{{"#", "Backup"}}

	for i, name := range names {
		data = append(data, []string{strconv.Itoa(i + 1), name})
	}

	ui.PrintTable(data, w)
}

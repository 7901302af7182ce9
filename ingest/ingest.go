// Package ingest loads collaborator activity reports from disk and
// prepares them for reconstruction.
package ingest

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maruel/natural"
	"github.com/pterm/pterm"

	"github.com/svenhw/flapstats/internal/apperr"
	"github.com/svenhw/flapstats/internal/config"
	"github.com/svenhw/flapstats/internal/models"
	"github.com/svenhw/flapstats/internal/timeutil"
)

var (
	errReadReport = &apperr.Error{
		Message: "unable to read report %s",
	}
	errDecodeReport = &apperr.Error{
		Message: "unable to decode report %s",
	}
	errReadDir = &apperr.Error{
		Message: "unable to read report directory %s",
	}
	errNoReports = &apperr.Error{
		Message: "no readable reports found in %s",
	}
	errReportTooLarge = &apperr.Error{
		Message: "file is %d bytes, above the %d byte limit",
	}
	errReportTooSmall = &apperr.Error{
		Message: "file is %d bytes, below the %d byte minimum",
	}
)

// ReadFile decodes a single activity report. The report's filename and
// year are fixed here so that later stages never touch the filesystem.
func ReadFile(cfg *config.Config, path string) (*models.Report, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, errReadReport.Fmt(path).Wrap(err)
	}

	if err = checkSize(cfg, info.Size()); err != nil {
		return nil, errReadReport.Fmt(path).Wrap(err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errReadReport.Fmt(path).Wrap(err)
	}

	var rep models.Report

	if err = json.Unmarshal(b, &rep); err != nil {
		return nil, errDecodeReport.Fmt(path).Wrap(err)
	}

	rep.Filename = filepath.Base(path)

	if rep.Year == 0 {
		rep.Year = reportYear(rep.ReportDate)
	}

	return &rep, nil
}

// ReadDir loads every JSON report in a directory in natural filename
// order, so that report_2.json precedes report_10.json. Files outside
// the configured size bounds are skipped with a warning instead of
// failing the run.
func ReadDir(cfg *config.Config, dir string) ([]*models.Report, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errReadDir.Fmt(dir).Wrap(err)
	}

	names := make([]string, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() ||
			!strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}

		names = append(names, entry.Name())
	}

	sort.Slice(names, func(i, j int) bool {
		return natural.Less(names[i], names[j])
	})

	reports := make([]*models.Report, 0, len(names))

	for _, name := range names {
		rep, err := ReadFile(cfg, filepath.Join(dir, name))
		if err != nil {
			if !cfg.CLI.Quiet {
				pterm.Warning.Printfln("skipping %s: %v", name, err)
			}

			slog.Warn(err.Error())

			continue
		}

		reports = append(reports, rep)
	}

	if len(reports) == 0 {
		return nil, errNoReports.Fmt(dir)
	}

	return reports, nil
}

// ReadPaths resolves a mix of report files and directories into decoded
// reports, in argument order.
func ReadPaths(cfg *config.Config, paths []string) ([]*models.Report, error) {
	var reports []*models.Report

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, errReadReport.Fmt(path).Wrap(err)
		}

		if info.IsDir() {
			reps, err := ReadDir(cfg, path)
			if err != nil {
				return nil, err
			}

			reports = append(reports, reps...)

			continue
		}

		rep, err := ReadFile(cfg, path)
		if err != nil {
			return nil, err
		}

		reports = append(reports, rep)
	}

	return reports, nil
}

func checkSize(cfg *config.Config, size int64) error {
	p := cfg.Processing

	if size > p.MaxReportBytes {
		return errReportTooLarge.Fmt(size, p.MaxReportBytes)
	}

	if size < p.MinReportBytes {
		return errReportTooSmall.Fmt(size, p.MinReportBytes)
	}

	return nil
}

// reportYear derives the calendar year from the report's free-form date
// line. An unparseable date yields zero and leaves the day labels
// unresolved downstream.
func reportYear(s string) int {
	if strings.TrimSpace(s) == "" {
		return 0
	}

	t, err := timeutil.FromStr(s)
	if err != nil {
		return 0
	}

	return t.Year()
}

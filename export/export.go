// Package export serializes reconstructed session timelines into the
// flat CSV dataset and the nested JSON archive.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/svenhw/flapstats/internal/apperr"
	"github.com/svenhw/flapstats/internal/config"
	"github.com/svenhw/flapstats/internal/models"
	"github.com/svenhw/flapstats/internal/pathutil"
)

var errWriteDataset = &apperr.Error{
	Message: "unable to write dataset %s",
}

// Row is one flattened dataset record: a session joined with the header
// fields of the report it came from. Empty strings stand in for values
// the report never yielded, so a row survives a CSV round trip intact.
type Row struct {
	Filename              string `json:"filename"`
	ReportDate            string `json:"report_date"`
	ReportYear            int    `json:"report_year"`
	DateRange             string `json:"date_range"`
	PetName               string `json:"pet_name"`
	Age                   string `json:"age"`
	Weight                string `json:"weight"`
	DateLabel             string `json:"date_label"`
	Date                  string `json:"date"`
	Sequence              int    `json:"sequence"`
	ExitTime              string `json:"exit_time"`
	EntryTime             string `json:"entry_time"`
	Duration              string `json:"duration"`
	ReportedVisits        string `json:"reported_visits"`
	ReportedTimeOutside   string `json:"reported_time_outside"`
	CalculatedVisits      int    `json:"calculated_visits"`
	CalculatedTimeOutside string `json:"calculated_time_outside"`
	ExtractedAt           string `json:"extracted_at"`
}

// Archive is the nested JSON export: one document per report plus the
// batch-level diagnostics.
type Archive struct {
	ExtractedAt string              `json:"extracted_at"`
	Reports     []ReportDoc         `json:"reports"`
	Diagnostics []models.Diagnostic `json:"diagnostics,omitempty"`
}

// ReportDoc is one report's slice of the archive.
type ReportDoc struct {
	Info        ReportInfo          `json:"report_info"`
	Sessions    []Row               `json:"sessions"`
	Diagnostics []models.Diagnostic `json:"diagnostics,omitempty"`
}

// ReportInfo is the report header as printed by the collaborator.
type ReportInfo struct {
	Filename   string `json:"filename"`
	ReportDate string `json:"report_date"`
	ReportYear int    `json:"report_year"`
	DateRange  string `json:"date_range,omitempty"`
	PetName    string `json:"pet_name"`
	Age        string `json:"age"`
	Weight     string `json:"weight"`
}

var csvHeader = []string{
	"filename",
	"report_date",
	"report_year",
	"date_range",
	"pet_name",
	"age",
	"weight",
	"date_label",
	"date",
	"sequence",
	"exit_time",
	"entry_time",
	"duration",
	"reported_visits",
	"reported_time_outside",
	"calculated_visits",
	"calculated_time_outside",
	"extracted_at",
}

func (r *Row) record() []string {
	year := ""
	if r.ReportYear != 0 {
		year = strconv.Itoa(r.ReportYear)
	}

	return []string{
		r.Filename,
		r.ReportDate,
		year,
		r.DateRange,
		r.PetName,
		r.Age,
		r.Weight,
		r.DateLabel,
		r.Date,
		strconv.Itoa(r.Sequence),
		r.ExitTime,
		r.EntryTime,
		r.Duration,
		r.ReportedVisits,
		r.ReportedTimeOutside,
		strconv.Itoa(r.CalculatedVisits),
		r.CalculatedTimeOutside,
		r.ExtractedAt,
	}
}

func makeRow(s *models.Session, res *models.Result, stamp string) Row {
	row := Row{
		Filename:              s.Filename,
		DateLabel:             s.DateLabel,
		Sequence:              s.Sequence,
		ExitTime:              s.ExitTime,
		EntryTime:             s.EntryTime,
		Duration:              s.Duration,
		ReportedTimeOutside:   s.ReportedTimeOutside,
		CalculatedVisits:      s.CalculatedVisits,
		CalculatedTimeOutside: s.CalculatedTimeOutside,
		ExtractedAt:           stamp,
	}

	if !s.Date.IsZero() {
		row.Date = s.Date.Format(time.DateOnly)
	}

	if s.ReportedVisits != nil {
		row.ReportedVisits = strconv.Itoa(*s.ReportedVisits)
	}

	if res != nil {
		row.ReportDate = res.Report.ReportDate
		row.ReportYear = res.Report.Year
		row.PetName = res.Report.PetName
		row.Age = res.Report.Age
		row.Weight = res.Report.Weight

		if res.Range != nil {
			row.DateRange = res.Range.String()
		}
	}

	return row
}

// Flatten produces one dataset row per session, stamped with the current
// time. Rows come out in timeline order: dated sessions chronologically,
// date-less ones trailing.
func Flatten(batch *models.Batch) []Row {
	return FlattenAt(batch, time.Now())
}

// FlattenAt is Flatten with an explicit extraction timestamp.
func FlattenAt(batch *models.Batch, extractedAt time.Time) []Row {
	meta := make(map[string]*models.Result, len(batch.Results))

	for _, res := range batch.Results {
		meta[res.Report.Filename] = res
	}

	stamp := extractedAt.Format(time.RFC3339)

	rows := make([]Row, 0, len(batch.Sessions))

	for i := range batch.Sessions {
		s := &batch.Sessions[i]
		rows = append(rows, makeRow(s, meta[s.Filename], stamp))
	}

	return rows
}

// BuildArchive assembles the nested JSON view of a batch.
func BuildArchive(batch *models.Batch, extractedAt time.Time) Archive {
	stamp := extractedAt.Format(time.RFC3339)

	arc := Archive{
		ExtractedAt: stamp,
		Reports:     make([]ReportDoc, 0, len(batch.Results)),
		Diagnostics: batch.Diagnostics,
	}

	for _, res := range batch.Results {
		doc := ReportDoc{
			Info: ReportInfo{
				Filename:   res.Report.Filename,
				ReportDate: res.Report.ReportDate,
				ReportYear: res.Report.Year,
				PetName:    res.Report.PetName,
				Age:        res.Report.Age,
				Weight:     res.Report.Weight,
			},
			Sessions:    make([]Row, 0, len(res.Sessions)),
			Diagnostics: res.Diagnostics,
		}

		if res.Range != nil {
			doc.Info.DateRange = res.Range.String()
		}

		for i := range res.Sessions {
			doc.Sessions = append(
				doc.Sessions,
				makeRow(&res.Sessions[i], res, stamp),
			)
		}

		arc.Reports = append(arc.Reports, doc)
	}

	return arc
}

// WriteCSVTo writes the flat dataset, header first.
func WriteCSVTo(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for i := range rows {
		if err := cw.Write(rows[i].record()); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}

// WriteCSV writes the flat dataset to a file.
func WriteCSV(path string, rows []Row) error {
	f, err := os.Create(path)
	if err != nil {
		return errWriteDataset.Fmt(path).Wrap(err)
	}

	if err = WriteCSVTo(f, rows); err != nil {
		f.Close()

		return errWriteDataset.Fmt(path).Wrap(err)
	}

	return f.Close()
}

// WriteJSONTo writes the nested archive with stable indentation.
func WriteJSONTo(w io.Writer, arc Archive) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(arc)
}

// WriteJSON writes the nested archive to a file.
func WriteJSON(path string, arc Archive) error {
	f, err := os.Create(path)
	if err != nil {
		return errWriteDataset.Fmt(path).Wrap(err)
	}

	if err = WriteJSONTo(f, arc); err != nil {
		f.Close()

		return errWriteDataset.Fmt(path).Wrap(err)
	}

	return f.Close()
}

// Write serializes the batch according to the configured output path and
// format, returning the paths written. The path keeps its base name with
// the extension swapped per format, so one name serves both files, and
// both files carry the same extraction timestamp.
func Write(cfg *config.Config, batch *models.Batch) ([]string, error) {
	now := time.Now()

	base := pathutil.StripExtension(cfg.CLI.OutputPath)

	if base == "" {
		base = "flap_sessions_" + now.Format("20060102_150405")
	}

	format := cfg.CLI.Format
	if format == "" {
		format = "both"
	}

	var written []string

	if format == "csv" || format == "both" {
		path := base + ".csv"

		if err := WriteCSV(path, FlattenAt(batch, now)); err != nil {
			return written, err
		}

		written = append(written, path)
	}

	if format == "json" || format == "both" {
		path := base + ".json"

		if err := WriteJSON(path, BuildArchive(batch, now)); err != nil {
			return written, err
		}

		written = append(written, path)
	}

	return written, nil
}

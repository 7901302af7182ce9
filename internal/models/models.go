package models

import (
	"fmt"
	"time"
)

// Day is one column of a weekly report table: the raw cells for a single
// date, plus the day's totals as printed in the report footer.
type Day struct {
	Label               string   `json:"label"`
	Cells               []string `json:"cells"`
	ReportedVisits      *int     `json:"reported_visits"`
	ReportedTimeOutside string   `json:"reported_time_outside"`
}

// Report is one decoded weekly activity report.
type Report struct {
	Filename   string `json:"filename"`
	ReportDate string `json:"report_date"`
	Year       int    `json:"report_year"`
	PetName    string `json:"pet_name"`
	Age        string `json:"age"`
	Weight     string `json:"weight"`
	Days       []Day  `json:"days"`
}

// Session is one reconstructed flap excursion boundary record. A record
// holds both times only when the report printed a complete range; a lone
// observed timestamp yields an exit-only or entry-only record, never a
// guessed counterpart.
type Session struct {
	Filename  string    `json:"filename"`
	DateLabel string    `json:"date_label"`
	Date      time.Time `json:"date"`
	Sequence  int       `json:"sequence"`
	ExitTime  string    `json:"exit_time"`
	EntryTime string    `json:"entry_time"`
	Duration  string    `json:"duration"`

	ReportedVisits        *int   `json:"reported_visits"`
	ReportedTimeOutside   string `json:"reported_time_outside"`
	CalculatedVisits      int    `json:"calculated_visits"`
	CalculatedTimeOutside string `json:"calculated_time_outside"`
}

// Complete reports whether both boundaries of the excursion were observed.
func (s *Session) Complete() bool {
	return s.ExitTime != "" && s.EntryTime != ""
}

// ExitOnly reports whether only the departure was observed.
func (s *Session) ExitOnly() bool {
	return s.ExitTime != "" && s.EntryTime == ""
}

// EntryOnly reports whether only the return was observed.
func (s *Session) EntryOnly() bool {
	return s.ExitTime == "" && s.EntryTime != ""
}

type DiagnosticKind string

const (
	DiagCorrection DiagnosticKind = "correction"
	DiagMismatch   DiagnosticKind = "mismatch"
	DiagNote       DiagnosticKind = "note"
)

// Diagnostic is one annotation produced while reconstructing sessions.
// Diagnostics grade data quality; they never abort processing.
type Diagnostic struct {
	Kind     DiagnosticKind `json:"kind"`
	Filename string         `json:"filename,omitempty"`
	Day      string         `json:"day,omitempty"`
	Message  string         `json:"message"`
}

func (d Diagnostic) String() string {
	if d.Day != "" {
		return fmt.Sprintf("%s: %s", d.Day, d.Message)
	}

	return d.Message
}

// DateRange is the resolved calendar span of a report.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (r DateRange) String() string {
	return fmt.Sprintf(
		"%s to %s",
		r.Start.Format(time.DateOnly),
		r.End.Format(time.DateOnly),
	)
}

// Result is the outcome of reconstructing a single report.
type Result struct {
	Report      *Report      `json:"report"`
	Sessions    []Session    `json:"sessions"`
	Diagnostics []Diagnostic `json:"diagnostics"`
	Range       *DateRange   `json:"date_range,omitempty"`
}

// Batch is the outcome of reconstructing a run of reports: per-report
// results sorted chronologically plus one continuous session timeline.
type Batch struct {
	Results     []*Result    `json:"reports"`
	Sessions    []Session    `json:"-"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// AllDiagnostics returns batch-level diagnostics followed by each
// report's own, in batch order.
func (b *Batch) AllDiagnostics() []Diagnostic {
	out := make([]Diagnostic, 0, len(b.Diagnostics))
	out = append(out, b.Diagnostics...)

	for _, res := range b.Results {
		out = append(out, res.Diagnostics...)
	}

	return out
}

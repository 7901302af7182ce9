package engine_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/svenhw/flapstats/engine"
	"github.com/svenhw/flapstats/internal/models"
)

func intp(v int) *int {
	return &v
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func diagKinds(diags []models.Diagnostic) map[models.DiagnosticKind]int {
	counts := make(map[models.DiagnosticKind]int)

	for _, d := range diags {
		counts[d.Kind]++
	}

	return counts
}

func TestProcessWeekOfCompleteSessions(t *testing.T) {
	rep := &models.Report{
		Filename: "activity_2024-02-05.json",
		Year:     2024,
		Days: []models.Day{
			{
				Label: "Mon 5 Feb",
				Cells: []string{
					"06:01 - 07:39", "01:38 h",
					"08:46 - 10:35", "01:49 h",
					"16:00 - 16:25", "24:59 mins",
				},
				ReportedVisits:      intp(3),
				ReportedTimeOutside: "03:51",
			},
		},
	}

	res := engine.New(nil).Process(rep)

	want := []models.Session{
		{
			Filename:              "activity_2024-02-05.json",
			DateLabel:             "Mon 5 Feb",
			Date:                  date(2024, time.February, 5),
			Sequence:              1,
			ExitTime:              "06:01",
			EntryTime:             "07:39",
			Duration:              "01:38 h",
			ReportedVisits:        intp(3),
			ReportedTimeOutside:   "03:51",
			CalculatedVisits:      3,
			CalculatedTimeOutside: "03:51",
		},
		{
			Filename:              "activity_2024-02-05.json",
			DateLabel:             "Mon 5 Feb",
			Date:                  date(2024, time.February, 5),
			Sequence:              2,
			ExitTime:              "08:46",
			EntryTime:             "10:35",
			Duration:              "01:49 h",
			ReportedVisits:        intp(3),
			ReportedTimeOutside:   "03:51",
			CalculatedVisits:      3,
			CalculatedTimeOutside: "03:51",
		},
		{
			Filename:              "activity_2024-02-05.json",
			DateLabel:             "Mon 5 Feb",
			Date:                  date(2024, time.February, 5),
			Sequence:              3,
			ExitTime:              "16:00",
			EntryTime:             "16:25",
			Duration:              "24:59 mins",
			ReportedVisits:        intp(3),
			ReportedTimeOutside:   "03:51",
			CalculatedVisits:      3,
			CalculatedTimeOutside: "03:51",
		},
	}

	if diff := cmp.Diff(want, res.Sessions); diff != "" {
		t.Errorf("sessions mismatch (-want +got):\n%s", diff)
	}

	assert.Empty(t, res.Diagnostics)

	if assert.NotNil(t, res.Range) {
		assert.Equal(t, "2024-02-05 to 2024-02-05", res.Range.String())
	}
}

func TestProcessLoneTimestampDay(t *testing.T) {
	rep := &models.Report{
		Filename: "activity_2024-02-05.json",
		Year:     2024,
		Days: []models.Day{
			{
				Label: "Tue 6 Feb",
				Cells: []string{
					"04:45", "04:45 h",
					"13:00 - 14:15", "01:15 h",
					"18:00", "36 s",
				},
			},
		},
	}

	res := engine.New(nil).Process(rep)

	if !assert.Len(t, res.Sessions, 3) {
		return
	}

	morning := res.Sessions[0]
	assert.True(t, morning.EntryOnly())
	assert.Equal(t, "04:45", morning.EntryTime)
	assert.Equal(t, "", morning.ExitTime)

	midday := res.Sessions[1]
	assert.True(t, midday.Complete())

	evening := res.Sessions[2]
	assert.True(t, evening.EntryOnly())
	assert.Equal(t, "18:00", evening.EntryTime)

	// only the complete excursion counts as a visit, but every parsed
	// duration contributes to time outside
	for _, s := range res.Sessions {
		assert.Equal(t, 1, s.CalculatedVisits)
		assert.Equal(t, "06:00", s.CalculatedTimeOutside)
	}
}

func TestProcessOvernightPairing(t *testing.T) {
	rep := &models.Report{
		Filename: "activity_2024-02-05.json",
		Year:     2024,
		Days: []models.Day{
			{Label: "Fri 9 Feb", Cells: []string{"23:10", "00:50 h"}},
			{Label: "Sat 10 Feb", Cells: []string{"00:00", "00:00 h"}},
		},
	}

	res := engine.New(nil).Process(rep)

	if !assert.Len(t, res.Sessions, 2) {
		return
	}

	out := res.Sessions[0]
	assert.True(t, out.ExitOnly())
	assert.Equal(t, "23:10", out.ExitTime)
	assert.Equal(t, 1, out.CalculatedVisits)
	assert.Equal(t, "00:50", out.CalculatedTimeOutside)

	back := res.Sessions[1]
	assert.True(t, back.EntryOnly())
	assert.Equal(t, "00:00", back.EntryTime)
	assert.Equal(t, 0, back.CalculatedVisits)
	assert.Equal(t, "00:00", back.CalculatedTimeOutside)

	counts := diagKinds(res.Diagnostics)
	assert.Equal(t, 1, counts[models.DiagCorrection])
	assert.Contains(t, res.Diagnostics[0].Message, "23:10")
}

func TestProcessCrossYearResolution(t *testing.T) {
	rep := &models.Report{
		Filename: "activity_2025-01-01.json",
		Year:     2025,
		Days: []models.Day{
			{Label: "Mon 30 Dec", Cells: []string{"10:00 - 11:00", "01:00 h"}},
			{Label: "Tue 31 Dec", Cells: []string{"09:00 - 09:30", "30:00 mins"}},
			{Label: "Wed 1 Jan", Cells: []string{"08:00 - 08:45", "45:00 mins"}},
		},
	}

	res := engine.New(nil).Process(rep)

	if !assert.Len(t, res.Sessions, 3) {
		return
	}

	assert.Equal(t, date(2024, time.December, 30), res.Sessions[0].Date)
	assert.Equal(t, date(2024, time.December, 31), res.Sessions[1].Date)
	assert.Equal(t, date(2025, time.January, 1), res.Sessions[2].Date)

	if assert.NotNil(t, res.Range) {
		assert.Equal(t, "2024-12-30 to 2025-01-01", res.Range.String())
	}
}

func TestProcessDecemberOnlyStaysInReportYear(t *testing.T) {
	rep := &models.Report{
		Filename: "activity_2024-12-30.json",
		Year:     2024,
		Days: []models.Day{
			{Label: "Mon 30 Dec", Cells: []string{"10:00 - 11:00", "01:00 h"}},
			{Label: "Tue 31 Dec", Cells: []string{"09:00 - 09:30", "30:00 mins"}},
		},
	}

	res := engine.New(nil).Process(rep)

	if !assert.Len(t, res.Sessions, 2) {
		return
	}

	assert.Equal(t, date(2024, time.December, 30), res.Sessions[0].Date)
	assert.Equal(t, date(2024, time.December, 31), res.Sessions[1].Date)
}

func TestProcessUnresolvableLabels(t *testing.T) {
	cases := []struct {
		Name string
		Rep  *models.Report
	}{
		{
			Name: "garbled label",
			Rep: &models.Report{
				Filename: "activity.json",
				Year:     2024,
				Days: []models.Day{
					{Label: "Garbled", Cells: []string{"10:00 - 11:00", "01:00 h"}},
				},
			},
		},
		{
			Name: "unknown report year",
			Rep: &models.Report{
				Filename: "activity.json",
				Days: []models.Day{
					{Label: "Mon 5 Feb", Cells: []string{"10:00 - 11:00", "01:00 h"}},
				},
			},
		},
		{
			Name: "impossible calendar date",
			Rep: &models.Report{
				Filename: "activity.json",
				Year:     2023,
				Days: []models.Day{
					{Label: "Wed 29 Feb", Cells: []string{"10:00 - 11:00", "01:00 h"}},
				},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			res := engine.New(nil).Process(tc.Rep)

			// the day keeps its sessions even without a date
			if !assert.Len(t, res.Sessions, 1) {
				return
			}

			assert.True(t, res.Sessions[0].Date.IsZero())
			assert.Nil(t, res.Range)

			counts := diagKinds(res.Diagnostics)
			assert.Equal(t, 1, counts[models.DiagNote])
		})
	}
}

func TestProcessVisitGrading(t *testing.T) {
	complete := []string{"10:00 - 11:00", "01:00 h"}

	rep := &models.Report{
		Filename: "activity_2024-02-05.json",
		Year:     2024,
		Days: []models.Day{
			{
				// reconstructed 1 vs reported 9: far outside any threshold
				Label:          "Mon 5 Feb",
				Cells:          complete,
				ReportedVisits: intp(9),
			},
			{
				// reconstructed 3 vs reported 5: exactly two apart
				Label: "Tue 6 Feb",
				Cells: []string{
					"10:00 - 11:00", "01:00 h",
					"12:00 - 13:00", "01:00 h",
					"14:00 - 15:00", "01:00 h",
				},
				ReportedVisits: intp(5),
			},
			{
				// reconstructed 3 vs reported 1: small difference but past
				// the visit ratio, so still significant
				Label: "Wed 7 Feb",
				Cells: []string{
					"10:00 - 11:00", "01:00 h",
					"12:00 - 13:00", "01:00 h",
					"14:00 - 15:00", "01:00 h",
				},
				ReportedVisits: intp(1),
			},
			{
				// reconstructed 3 vs reported 2: within tolerance
				Label: "Thu 8 Feb",
				Cells: []string{
					"10:00 - 11:00", "01:00 h",
					"12:00 - 13:00", "01:00 h",
					"14:00 - 15:00", "01:00 h",
				},
				ReportedVisits: intp(2),
			},
		},
	}

	res := engine.New(nil).Process(rep)

	var mismatches, notes []models.Diagnostic

	for _, d := range res.Diagnostics {
		switch d.Kind {
		case models.DiagMismatch:
			mismatches = append(mismatches, d)
		case models.DiagNote:
			notes = append(notes, d)
		}
	}

	if assert.Len(t, mismatches, 2) {
		assert.Equal(t, "Mon 5 Feb", mismatches[0].Day)
		assert.Equal(t, "Wed 7 Feb", mismatches[1].Day)
	}

	if assert.Len(t, notes, 1) {
		assert.Equal(t, "Tue 6 Feb", notes[0].Day)
		assert.Contains(t, notes[0].Message, "minor")
	}

	// reported totals are echoed untouched even when they disagree
	assert.Equal(t, intp(9), res.Sessions[0].ReportedVisits)
	assert.Equal(t, 1, res.Sessions[0].CalculatedVisits)
}

func TestProcessDiscardsUnrecognizedCells(t *testing.T) {
	rep := &models.Report{
		Filename: "activity_2024-02-05.json",
		Year:     2024,
		Days: []models.Day{
			{Label: "Mon 5 Feb", Cells: []string{"--", "6:01", ""}},
		},
	}

	res := engine.New(nil).Process(rep)

	assert.Empty(t, res.Sessions)

	counts := diagKinds(res.Diagnostics)

	// one for "--", one for the malformed timestamp, one for the day
	// ending up empty
	assert.Equal(t, 3, counts[models.DiagNote])
}

func TestProcessMissingDurationEvidence(t *testing.T) {
	rep := &models.Report{
		Filename: "activity_2024-02-05.json",
		Year:     2024,
		Days: []models.Day{
			{Label: "Mon 5 Feb", Cells: []string{"21:15"}},
		},
	}

	res := engine.New(nil).Process(rep)

	if !assert.Len(t, res.Sessions, 1) {
		return
	}

	s := res.Sessions[0]
	assert.True(t, s.EntryOnly())
	assert.Equal(t, "21:15", s.EntryTime)
	assert.Equal(t, "", s.Duration)
	assert.Equal(t, 0, s.CalculatedVisits)
	assert.Equal(t, "00:00", s.CalculatedTimeOutside)

	counts := diagKinds(res.Diagnostics)
	assert.Equal(t, 1, counts[models.DiagNote])
}

func TestProcessEmptyReport(t *testing.T) {
	res := engine.New(nil).Process(&models.Report{Filename: "empty.json"})

	assert.Empty(t, res.Sessions)
	assert.Nil(t, res.Range)

	counts := diagKinds(res.Diagnostics)
	assert.Equal(t, 1, counts[models.DiagNote])
}

func TestProcessBatchOrdering(t *testing.T) {
	later := &models.Report{
		Filename: "b.json",
		Year:     2024,
		Days: []models.Day{
			{Label: "Mon 5 Feb", Cells: []string{"10:00 - 11:00", "01:00 h"}},
		},
	}

	earlier := &models.Report{
		Filename: "a.json",
		Year:     2024,
		Days: []models.Day{
			{Label: "Mon 1 Jan", Cells: []string{"09:00 - 10:00", "01:00 h"}},
		},
	}

	undatedTen := &models.Report{
		Filename: "z10.json",
		Days: []models.Day{
			{Label: "Mon 5 Feb", Cells: []string{"08:00 - 09:00", "01:00 h"}},
		},
	}

	undatedTwo := &models.Report{
		Filename: "z2.json",
		Days: []models.Day{
			{Label: "Tue 6 Feb", Cells: []string{"07:00 - 08:00", "01:00 h"}},
		},
	}

	batch := engine.New(nil).ProcessBatch(
		[]*models.Report{later, undatedTen, earlier, undatedTwo},
	)

	if !assert.Len(t, batch.Results, 4) {
		return
	}

	order := make([]string, 0, len(batch.Results))
	for _, res := range batch.Results {
		order = append(order, res.Report.Filename)
	}

	assert.Equal(t, []string{"a.json", "b.json", "z2.json", "z10.json"}, order)

	// timeline: dated sessions sorted, undated ones trailing
	if assert.Len(t, batch.Sessions, 4) {
		assert.Equal(t, date(2024, time.January, 1), batch.Sessions[0].Date)
		assert.Equal(t, date(2024, time.February, 5), batch.Sessions[1].Date)
		assert.True(t, batch.Sessions[2].Date.IsZero())
		assert.True(t, batch.Sessions[3].Date.IsZero())
	}

	// 35 days between the two dated reports
	counts := diagKinds(batch.Diagnostics)
	assert.Equal(t, 1, counts[models.DiagNote])
	assert.Contains(t, batch.Diagnostics[0].Message, "gap")
}

func TestProcessBatchBoundaryOvernight(t *testing.T) {
	first := &models.Report{
		Filename: "activity_2024-02-05.json",
		Year:     2024,
		Days: []models.Day{
			{Label: "Sun 11 Feb", Cells: []string{"23:00", "01:00 h"}},
		},
	}

	second := &models.Report{
		Filename: "activity_2024-02-12.json",
		Year:     2024,
		Days: []models.Day{
			{Label: "Mon 12 Feb", Cells: []string{"00:58", "00:58 h"}},
		},
	}

	batch := engine.New(nil).ProcessBatch([]*models.Report{first, second})

	if !assert.Len(t, batch.Sessions, 2) {
		return
	}

	assert.True(t, batch.Sessions[0].ExitOnly())
	assert.Equal(t, "23:00", batch.Sessions[0].ExitTime)
	assert.True(t, batch.Sessions[1].EntryOnly())
	assert.Equal(t, "00:58", batch.Sessions[1].EntryTime)

	counts := diagKinds(batch.Diagnostics)
	assert.Equal(t, 1, counts[models.DiagCorrection])
}

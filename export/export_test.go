package export_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/svenhw/flapstats/export"
	"github.com/svenhw/flapstats/internal/config"
	"github.com/svenhw/flapstats/internal/models"
	"github.com/svenhw/flapstats/internal/testutil"
)

type TestCase struct {
	Name       string
	GoldenFile string
	Snapshot   []byte `json:"-"`
}

func (t TestCase) Output() (out []byte, name string) {
	return t.Snapshot, t.GoldenFile
}

var stampTime = time.Date(2024, time.February, 1, 12, 0, 0, 0, time.UTC)

func intp(v int) *int {
	return &v
}

func fixtureBatch() *models.Batch {
	day := time.Date(2024, time.January, 22, 0, 0, 0, 0, time.UTC)

	rep := &models.Report{
		Filename:   "activity_report.json",
		ReportDate: "29 January 2024",
		Year:       2024,
		PetName:    "Pepper",
		Age:        "4 years",
		Weight:     "4.2 kg",
	}

	sessions := []models.Session{
		{
			Filename:              "activity_report.json",
			DateLabel:             "Mon 22 Jan",
			Date:                  day,
			Sequence:              1,
			ExitTime:              "06:01",
			EntryTime:             "07:39",
			Duration:              "01:38 h",
			ReportedVisits:        intp(4),
			ReportedTimeOutside:   "03:30",
			CalculatedVisits:      2,
			CalculatedTimeOutside: "03:27",
		},
		{
			Filename:              "activity_report.json",
			DateLabel:             "Mon 22 Jan",
			Date:                  day,
			Sequence:              2,
			ExitTime:              "14:02",
			EntryTime:             "15:51",
			Duration:              "01:49 h",
			ReportedVisits:        intp(4),
			ReportedTimeOutside:   "03:30",
			CalculatedVisits:      2,
			CalculatedTimeOutside: "03:27",
		},
	}

	res := &models.Result{
		Report:   rep,
		Sessions: sessions,
		Diagnostics: []models.Diagnostic{
			{
				Kind:     models.DiagNote,
				Filename: "activity_report.json",
				Day:      "Mon 22 Jan",
				Message:  "minor visit count difference: reconstructed 2, report states 4",
			},
		},
		Range: &models.DateRange{Start: day, End: day},
	}

	return &models.Batch{
		Results:  []*models.Result{res},
		Sessions: sessions,
	}
}

func TestWriteCSVGolden(t *testing.T) {
	var buf bytes.Buffer

	rows := export.FlattenAt(fixtureBatch(), stampTime)

	err := export.WriteCSVTo(&buf, rows)
	if err != nil {
		t.Fatal(err)
	}

	testutil.CompareGoldenFile(t, TestCase{
		Name:       "flat csv dataset",
		GoldenFile: "dataset",
		Snapshot:   buf.Bytes(),
	})
}

func TestWriteJSONGolden(t *testing.T) {
	var buf bytes.Buffer

	arc := export.BuildArchive(fixtureBatch(), stampTime)

	err := export.WriteJSONTo(&buf, arc)
	if err != nil {
		t.Fatal(err)
	}

	testutil.CompareGoldenFile(t, TestCase{
		Name:       "nested json archive",
		GoldenFile: "archive",
		Snapshot:   buf.Bytes(),
	})
}

func TestFlattenUndatedSession(t *testing.T) {
	batch := fixtureBatch()
	batch.Sessions = append(batch.Sessions, models.Session{
		Filename:  "unknown.json",
		DateLabel: "Garbled",
		Sequence:  1,
		EntryTime: "09:15",
	})

	rows := export.FlattenAt(batch, stampTime)

	if !assert.Len(t, rows, 3) {
		return
	}

	last := rows[2]

	// no resolved date and no matching report header: the cells stay
	// blank instead of inventing values
	assert.Equal(t, "unknown.json", last.Filename)
	assert.Equal(t, "", last.Date)
	assert.Equal(t, "", last.ReportedVisits)
	assert.Equal(t, "", last.PetName)
	assert.Equal(t, "", last.DateRange)
	assert.Equal(t, "09:15", last.EntryTime)
}

func TestWriteBothFormats(t *testing.T) {
	dir := t.TempDir()

	cfg := config.Default()
	cfg.CLI.OutputPath = filepath.Join(dir, "out.csv")
	cfg.CLI.Format = "both"

	written, err := export.Write(cfg, fixtureBatch())
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		filepath.Join(dir, "out.csv"),
		filepath.Join(dir, "out.json"),
	}

	assert.Equal(t, want, written)

	for _, path := range written {
		_, err = os.Stat(path)
		assert.NoError(t, err)
	}
}

func TestWriteSingleFormat(t *testing.T) {
	dir := t.TempDir()

	cfg := config.Default()
	cfg.CLI.OutputPath = filepath.Join(dir, "sessions")
	cfg.CLI.Format = "json"

	written, err := export.Write(cfg, fixtureBatch())
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, []string{filepath.Join(dir, "sessions.json")}, written)
}

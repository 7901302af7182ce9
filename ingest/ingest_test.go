package ingest_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/svenhw/flapstats/ingest"
	"github.com/svenhw/flapstats/internal/config"
)

const sampleReport = `{
  "report_date": "29 January 2024",
  "pet_name": "Pepper",
  "age": "4 years",
  "weight": "4.2 kg",
  "days": [
    {
      "label": "Mon 22 Jan",
      "cells": ["06:01 - 07:39", "01:38 h"],
      "reported_visits": 1,
      "reported_time_outside": "01:38"
    }
  ]
}`

// testConfig lowers the minimum size bound so the tiny fixtures here
// pass the screen meant for real-world uploads.
func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Processing.MinReportBytes = 1
	cfg.CLI.Quiet = true

	return cfg
}

func writeReport(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)

	err := os.WriteFile(path, []byte(content), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	return path
}

func TestReadFile(t *testing.T) {
	path := writeReport(t, t.TempDir(), "activity_report.json", sampleReport)

	rep, err := ingest.ReadFile(testConfig(), path)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "activity_report.json", rep.Filename)
	assert.Equal(t, 2024, rep.Year)
	assert.Equal(t, "Pepper", rep.PetName)
	assert.Equal(t, "4 years", rep.Age)
	assert.Equal(t, "4.2 kg", rep.Weight)

	if assert.Len(t, rep.Days, 1) {
		day := rep.Days[0]

		assert.Equal(t, "Mon 22 Jan", day.Label)
		assert.Equal(t, []string{"06:01 - 07:39", "01:38 h"}, day.Cells)
		assert.Equal(t, "01:38", day.ReportedTimeOutside)

		if assert.NotNil(t, day.ReportedVisits) {
			assert.Equal(t, 1, *day.ReportedVisits)
		}
	}
}

func TestReadFileYearDerivation(t *testing.T) {
	cases := []struct {
		Name   string
		Header string
		Want   int
	}{
		{
			Name:   "exact layout",
			Header: `"report_date": "29 January 2024"`,
			Want:   2024,
		},
		{
			Name:   "abbreviated layout",
			Header: `"report_date": "5 Feb 2024"`,
			Want:   2024,
		},
		{
			Name:   "free-form date",
			Header: `"report_date": "Monday, 29 January 2024"`,
			Want:   2024,
		},
		{
			Name:   "missing date",
			Header: `"report_date": ""`,
			Want:   0,
		},
		{
			Name:   "explicit year wins",
			Header: `"report_date": "29 January 2024", "report_year": 2023`,
			Want:   2023,
		},
	}

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			content := strings.Replace(
				sampleReport,
				`"report_date": "29 January 2024"`,
				tc.Header,
				1,
			)

			path := writeReport(t, t.TempDir(), "report.json", content)

			rep, err := ingest.ReadFile(testConfig(), path)
			if err != nil {
				t.Fatal(err)
			}

			assert.Equal(t, tc.Want, rep.Year)
		})
	}
}

func TestReadFileSizeLimits(t *testing.T) {
	dir := t.TempDir()

	t.Run("below minimum", func(t *testing.T) {
		path := writeReport(t, dir, "tiny.json", "{}")

		_, err := ingest.ReadFile(config.Default(), path)
		if assert.Error(t, err) {
			assert.Contains(t, err.Error(), "below the")
		}
	})

	t.Run("above maximum", func(t *testing.T) {
		cfg := testConfig()
		cfg.Processing.MaxReportBytes = 64

		path := writeReport(t, dir, "huge.json", sampleReport)

		_, err := ingest.ReadFile(cfg, path)
		if assert.Error(t, err) {
			assert.Contains(t, err.Error(), "above the")
		}
	})
}

func TestReadFileMalformed(t *testing.T) {
	path := writeReport(t, t.TempDir(), "broken.json", "{ this is not json")

	_, err := ingest.ReadFile(testConfig(), path)
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "unable to decode report")
	}
}

func TestReadDir(t *testing.T) {
	dir := t.TempDir()

	writeReport(t, dir, "week_10.json", sampleReport)
	writeReport(
		t,
		dir,
		"week_2.json",
		strings.Replace(sampleReport, "Pepper", "Maple", 1),
	)
	writeReport(t, dir, "notes.txt", "not a report")
	writeReport(t, dir, "broken.json", "{ nope")

	reports, err := ingest.ReadDir(testConfig(), dir)
	if err != nil {
		t.Fatal(err)
	}

	// broken.json is skipped, notes.txt is not a report, and natural
	// ordering puts week_2 before week_10
	if assert.Len(t, reports, 2) {
		assert.Equal(t, "week_2.json", reports[0].Filename)
		assert.Equal(t, "week_10.json", reports[1].Filename)
	}
}

func TestReadDirNoReports(t *testing.T) {
	_, err := ingest.ReadDir(testConfig(), t.TempDir())
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "no readable reports")
	}
}

func TestReadPaths(t *testing.T) {
	fileDir := t.TempDir()
	batchDir := t.TempDir()

	single := writeReport(t, fileDir, "single.json", sampleReport)
	writeReport(t, batchDir, "batch.json", sampleReport)

	reports, err := ingest.ReadPaths(
		testConfig(),
		[]string{single, batchDir},
	)
	if err != nil {
		t.Fatal(err)
	}

	if assert.Len(t, reports, 2) {
		assert.Equal(t, "single.json", reports[0].Filename)
		assert.Equal(t, "batch.json", reports[1].Filename)
	}
}

func TestReadPathsMissing(t *testing.T) {
	_, err := ingest.ReadPaths(
		testConfig(),
		[]string{filepath.Join(t.TempDir(), "absent.json")},
	)

	assert.Error(t, err)
}

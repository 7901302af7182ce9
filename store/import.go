package store

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strconv"

	"github.com/svenhw/flapstats/export"
	"github.com/svenhw/flapstats/internal/apperr"
)

var errImport = &apperr.Error{
	Message: "unable to import dataset %s",
}

// ImportCSV decodes a previously exported dataset so older data can be
// backfilled through the same merge path. Columns are matched by header
// name, and the legacy pipeline's names (date_str, session_number,
// daily_total_visits) are accepted alongside the current ones.
func ImportCSV(path string) ([]export.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errImport.Fmt(path).Wrap(err)
	}
	defer f.Close()

	r := csv.NewReader(f)

	header, err := r.Read()
	if err != nil {
		return nil, errImport.Fmt(path).Wrap(err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}

	var rows []export.Row

	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, errImport.Fmt(path).Wrap(err)
		}

		col := func(names ...string) string {
			for _, name := range names {
				if i, ok := idx[name]; ok && i < len(rec) {
					return rec[i]
				}
			}

			return ""
		}

		num := func(names ...string) int {
			n, _ := strconv.Atoi(col(names...))
			return n
		}

		rows = append(rows, export.Row{
			Filename:            col("filename"),
			ReportDate:          col("report_date"),
			ReportYear:          num("report_year"),
			DateRange:           col("date_range", "report_date_range"),
			PetName:             col("pet_name"),
			Age:                 col("age"),
			Weight:              col("weight"),
			DateLabel:           col("date_label", "date_str"),
			Date:                col("date", "date_full"),
			Sequence:            num("sequence", "session_number"),
			ExitTime:            col("exit_time"),
			EntryTime:           col("entry_time"),
			Duration:            col("duration"),
			ReportedVisits:      col("reported_visits", "daily_total_visits"),
			ReportedTimeOutside: col(
				"reported_time_outside",
				"daily_total_time_outside",
			),
			CalculatedVisits:      num("calculated_visits"),
			CalculatedTimeOutside: col("calculated_time_outside"),
			ExtractedAt:           col("extracted_at"),
		})
	}

	return rows, nil
}

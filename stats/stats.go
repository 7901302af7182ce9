// Package stats reports seasonal flap activity statistics
package stats

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/svenhw/flapstats/export"
	"github.com/svenhw/flapstats/internal/config"
	"github.com/svenhw/flapstats/internal/timeutil"
	"github.com/svenhw/flapstats/internal/ui"
	"github.com/svenhw/flapstats/store"
)

var (
	opts *config.Config
	db   *store.Client
)

const (
	barChartChar  = "▇"
	noSessionsMsg = "No sessions found for the specified time range"
)

const minutesInAnHour = 60

// Season is a UK meteorological season.
type Season string

const (
	Winter Season = "winter"
	Spring Season = "spring"
	Summer Season = "summer"
	Autumn Season = "autumn"
)

// Confidence grades how representative a season's averages are, based
// on how much of the season has data.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// SeasonSummary aggregates the sessions of one season of one year.
type SeasonSummary struct {
	Key               string     `json:"season"`
	Sessions          int        `json:"sessions"`
	MorningSessions   int        `json:"morning_sessions"`
	EveningSessions   int        `json:"evening_sessions"`
	DaysWithData      int        `json:"days_with_data"`
	ExpectedDays      int        `json:"expected_days"`
	Completeness      float64    `json:"completeness_pct"`
	AvgDailySessions  float64    `json:"avg_daily_sessions"`
	AvgDailyMinutes   float64    `json:"avg_daily_minutes_outside"`
	AvgSessionMinutes float64    `json:"avg_session_minutes"`
	Confidence        Confidence `json:"confidence"`
}

// SeasonOf returns the meteorological season a date falls in.
func SeasonOf(t time.Time) Season {
	switch t.Month() {
	case time.December, time.January, time.February:
		return Winter
	case time.March, time.April, time.May:
		return Spring
	case time.June, time.July, time.August:
		return Summer
	default:
		return Autumn
	}
}

// SeasonKey returns the season-year bucket of a date. Winter straddles
// the year boundary so its key carries both years: December 2024 and
// January 2025 land in the same "winter-2024-2025" bucket.
func SeasonKey(t time.Time) string {
	season := SeasonOf(t)

	if season == Winter {
		if t.Month() == time.December {
			return fmt.Sprintf("%s-%d-%d", season, t.Year(), t.Year()+1)
		}

		return fmt.Sprintf("%s-%d-%d", season, t.Year()-1, t.Year())
	}

	return fmt.Sprintf("%s-%d", season, t.Year())
}

// ExpectedDays returns the calendar length of a season. Winter's length
// depends on whether its February falls in a leap year, so the year
// February belongs to must be passed for winter.
func ExpectedDays(season Season, febYear int) int {
	switch season {
	case Spring, Summer:
		return 92
	case Autumn:
		return 91
	default:
		feb := time.Date(febYear, time.February, 1, 0, 0, 0, 0, time.UTC)

		// December and January always contribute 62 days
		return 62 + timeutil.DaysIn(feb)
	}
}

func confidence(completeness float64) Confidence {
	switch {
	case completeness >= 80:
		return ConfidenceHigh
	case completeness >= 50:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

type seasonData struct {
	season   Season
	febYear  int
	start    time.Time
	sessions int
	morning  int
	evening  int
	minutes  float64
	days     map[string]struct{}
}

func analytics() config.AnalyticsConfig {
	if opts != nil {
		return opts.Analytics
	}

	return config.Default().Analytics
}

func inWindow(mins, startHour, endHour int) bool {
	return mins >= startHour*minutesInAnHour && mins < endHour*minutesInAnHour
}

// sessionClock returns the boundary that places a session in the day:
// the exit when one was observed, otherwise the entry.
func sessionClock(row *export.Row) string {
	if row.ExitTime != "" {
		return row.ExitTime
	}

	return row.EntryTime
}

// Compute groups dataset rows into season-year summaries ordered
// chronologically. Rows without a resolvable date are skipped; rows
// without a parseable duration still count as sessions on their day.
func Compute(rows []export.Row) []SeasonSummary {
	bySeason := make(map[string]*seasonData)

	windows := analytics()

	for i := range rows {
		row := &rows[i]

		date, err := time.Parse(time.DateOnly, row.Date)
		if err != nil {
			continue
		}

		key := SeasonKey(date)

		data := bySeason[key]
		if data == nil {
			data = &seasonData{
				season: SeasonOf(date),
				start:  date,
				days:   make(map[string]struct{}),
			}

			if data.season == Winter {
				data.febYear = date.Year()
				if date.Month() == time.December {
					data.febYear++
				}
			}

			bySeason[key] = data
		}

		if date.Before(data.start) {
			data.start = date
		}

		if hours, ok := timeutil.ParseDuration(row.Duration); ok {
			data.minutes += hours * minutesInAnHour
		}

		if mins, ok := timeutil.ParseClock(sessionClock(row)); ok {
			switch {
			case inWindow(mins, windows.MorningStartHour, windows.MorningEndHour):
				data.morning++
			case inWindow(mins, windows.EveningStartHour, windows.EveningEndHour):
				data.evening++
			}
		}

		data.sessions++
		data.days[row.Date] = struct{}{}
	}

	summaries := make([]SeasonSummary, 0, len(bySeason))
	starts := make(map[string]time.Time, len(bySeason))

	for key, data := range bySeason {
		expected := ExpectedDays(data.season, data.febYear)
		days := len(data.days)

		completeness := float64(days) / float64(expected) * 100
		if completeness > 100 {
			completeness = 100
		}

		s := SeasonSummary{
			Key:             key,
			Sessions:        data.sessions,
			MorningSessions: data.morning,
			EveningSessions: data.evening,
			DaysWithData:    days,
			ExpectedDays:    expected,
			Completeness:    completeness,
			Confidence:      confidence(completeness),
		}

		if days > 0 {
			s.AvgDailySessions = float64(data.sessions) / float64(days)
			s.AvgDailyMinutes = data.minutes / float64(days)
		}

		if data.sessions > 0 {
			s.AvgSessionMinutes = data.minutes / float64(data.sessions)
		}

		summaries = append(summaries, s)
		starts[key] = data.start
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return starts[summaries[i].Key].Before(starts[summaries[j].Key])
	})

	return summaries
}

// Variation returns the spread in average daily time outside across the
// given seasons, in minutes, and whether it crosses the configured
// threshold. Fewer than two seasons with data yield no spread.
func Variation(summaries []SeasonSummary) (spread float64, significant bool) {
	var minAvg, maxAvg float64

	seen := 0

	for _, s := range summaries {
		if s.DaysWithData == 0 {
			continue
		}

		if seen == 0 || s.AvgDailyMinutes < minAvg {
			minAvg = s.AvgDailyMinutes
		}

		if seen == 0 || s.AvgDailyMinutes > maxAvg {
			maxAvg = s.AvgDailyMinutes
		}

		seen++
	}

	if seen < 2 {
		return 0, false
	}

	spread = maxAvg - minAvg

	threshold := analytics().SeasonalVariationHours * minutesInAnHour

	return spread, spread > threshold
}

func loadSummaries() ([]SeasonSummary, error) {
	rows, err := db.Sessions(opts.CLI.StartTime, opts.CLI.EndTime)
	if err != nil {
		return nil, err
	}

	return Compute(rows), nil
}

func colorConfidence(c Confidence) string {
	switch c {
	case ConfidenceHigh:
		return ui.Green(string(c))
	case ConfidenceMedium:
		return ui.Yellow(string(c))
	default:
		return ui.Red(string(c))
	}
}

func printSummaryTable(w io.Writer, summaries []SeasonSummary) {
	data := [][]string{
		{
			"Season",
			"Sessions",
			"Morning",
			"Evening",
			"Days",
			"Complete",
			"Sessions/day",
			"Outside/day",
			"Avg session",
			"Confidence",
		},
	}

	for _, s := range summaries {
		data = append(data, []string{
			s.Key,
			strconv.Itoa(s.Sessions),
			strconv.Itoa(s.MorningSessions),
			strconv.Itoa(s.EveningSessions),
			fmt.Sprintf("%d/%d", s.DaysWithData, s.ExpectedDays),
			fmt.Sprintf("%.0f%%", s.Completeness),
			fmt.Sprintf("%.1f", s.AvgDailySessions),
			timeutil.FormatHoursMinutes(s.AvgDailyMinutes / minutesInAnHour),
			fmt.Sprintf("%.0f mins", s.AvgSessionMinutes),
			colorConfidence(s.Confidence),
		})
	}

	ui.PrintTable(data, w)
}

func getBarChart(header string, bars pterm.Bars) string {
	chart, err := pterm.DefaultBarChart.WithHorizontalBarCharacter(barChartChar).
		WithHorizontal().
		WithShowValue().
		WithBars(bars).
		Srender()
	if err != nil {
		pterm.Error.Println(err)
		return ""
	}

	return ui.Blue(header) + chart
}

func getSessionsChart(summaries []SeasonSummary) string {
	var bars pterm.Bars

	for _, s := range summaries {
		bars = append(bars, pterm.Bar{
			Value: s.Sessions,
			Label: s.Key,
		})
	}

	return getBarChart("\nSessions per season", bars)
}

func getTimeOutsideChart(summaries []SeasonSummary) string {
	var bars pterm.Bars

	for _, s := range summaries {
		bars = append(bars, pterm.Bar{
			Value: timeutil.Round(s.AvgDailyMinutes),
			Label: s.Key,
		})
	}

	return getBarChart("\nMinutes outside per day", bars)
}

// JSON computes the seasonal summaries for the configured time period
// and marshals them.
func JSON() ([]byte, error) {
	summaries, err := loadSummaries()
	if err != nil {
		return nil, err
	}

	return json.Marshal(summaries)
}

// Show displays the seasonal statistics for the configured time period
// after making the necessary calculations.
func Show() error {
	summaries, err := loadSummaries()
	if err != nil {
		return err
	}

	if len(summaries) == 0 {
		pterm.Info.Println(noSessionsMsg)
		return nil
	}

	header := pterm.DefaultHeader.WithBackgroundStyle(pterm.NewStyle(pterm.BgYellow)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack)).
		Sprintfln("Seasonal flap activity")

	fmt.Fprint(config.Stdout, header)

	printSummaryTable(config.Stdout, summaries)

	charts := getSessionsChart(summaries) + getTimeOutsideChart(summaries)

	fmt.Fprintln(config.Stdout, strings.TrimSpace(charts))

	if spread, significant := Variation(summaries); spread > 0 {
		verdict := ui.Green("within the usual range")
		if significant {
			verdict = ui.Yellow("a notable seasonal shift")
		}

		fmt.Fprintf(
			config.Stdout,
			"Daily time outside varies %s between seasons: %s\n",
			ui.Highlight(timeutil.FormatHoursMinutes(spread/minutesInAnHour)),
			verdict,
		)
	}

	return nil
}

func Init(dbClient *store.Client, cfg *config.Config) {
	db = dbClient
	opts = cfg
}

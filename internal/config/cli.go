package config

import (
	"slices"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/svenhw/flapstats/internal/timeutil"
)

// Formats accepted by the --format flag.
var exportFormats = []string{"csv", "json", "both"}

// CLIOptions represents command-line configuration options.
type CLIOptions struct {
	Start     string
	End       string
	Period    string
	Output    string
	Format    string
	Tolerance float64
	Retention uint
	Merge     bool
	NoBackup  bool
	Quiet     bool
}

// WithCLIConfig returns an Option that loads configuration from CLI flags.
func WithCLIConfig(ctx *cli.Context) Option {
	return func(c *Config) error {
		opts := CLIOptions{
			Start:     ctx.String("start"),
			End:       ctx.String("end"),
			Period:    ctx.String("period"),
			Output:    ctx.String("output"),
			Format:    ctx.String("format"),
			Tolerance: ctx.Float64("tolerance"),
			Retention: ctx.Uint("retention"),
			Merge:     ctx.Bool("merge"),
			NoBackup:  ctx.Bool("no-backup"),
			Quiet:     ctx.Bool("quiet"),
		}

		return applyCLIOptions(c, opts)
	}
}

// applyCLIOptions applies CLI options to the config.
func applyCLIOptions(c *Config, opts CLIOptions) error {
	if opts.Tolerance > 0 {
		c.Heuristics.ToleranceHours = opts.Tolerance
	}

	if opts.Retention > 0 {
		c.Processing.BackupRetention = int(opts.Retention)
	}

	if opts.NoBackup {
		c.Processing.AutoBackup = false

		c.CLI.NoBackup = true
	}

	if opts.Format != "" {
		format := strings.ToLower(strings.TrimSpace(opts.Format))
		if !slices.Contains(exportFormats, format) {
			return errInvalidFormat.Fmt(opts.Format)
		}

		c.CLI.Format = format
	}

	c.CLI.OutputPath = opts.Output
	c.CLI.Merge = opts.Merge
	c.CLI.Quiet = opts.Quiet

	return applyCLITimeRange(c, opts)
}

// applyCLITimeRange resolves --period or --start/--end into a concrete
// time range. An empty range means all-time.
func applyCLITimeRange(c *Config, opts CLIOptions) error {
	period := timeutil.Period(strings.TrimSpace(opts.Period))

	if period != "" && !slices.Contains(timeutil.PeriodCollection, period) {
		return errInvalidPeriod
	}

	if period != "" {
		c.CLI.StartTime, c.CLI.EndTime = getTimeRange(period)

		return nil
	}

	if opts.Start != "" {
		startTime, err := timeutil.FromStr(opts.Start)
		if err != nil {
			return err
		}

		c.CLI.StartTime = timeutil.RoundToStart(startTime)
	}

	c.CLI.EndTime = timeutil.RoundToEnd(time.Now())

	if opts.End != "" {
		endTime, err := timeutil.FromStr(opts.End)
		if err != nil {
			return err
		}

		c.CLI.EndTime = timeutil.RoundToEnd(endTime)
	}

	if c.CLI.EndTime.Before(c.CLI.StartTime) {
		return errInvalidDateRange
	}

	return nil
}

// getTimeRange returns the start and end time for the specified period.
func getTimeRange(period timeutil.Period) (start, end time.Time) {
	now := time.Now()

	end = timeutil.RoundToEnd(now)

	switch period {
	case timeutil.PeriodAllTime:
		return time.Time{}, end
	case timeutil.PeriodToday:
		start = timeutil.RoundToStart(now)
	case timeutil.PeriodYesterday:
		yesterday := now.AddDate(0, 0, -1)
		start = timeutil.RoundToStart(yesterday)
		end = timeutil.RoundToEnd(yesterday)
	default:
		start = timeutil.RoundToStart(now.AddDate(0, 0, timeutil.Range[period]))
	}

	return
}

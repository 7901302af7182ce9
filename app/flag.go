package app

import "github.com/urfave/cli/v2"

var (
	startFlag = &cli.StringFlag{
		Name:  "start",
		Usage: "Only consider sessions dated on or after this date (e.g. '2024-01-22' or 'last monday')",
	}

	endFlag = &cli.StringFlag{
		Name:  "end",
		Usage: "Only consider sessions dated on or before this date",
	}

	periodFlag = &cli.StringFlag{
		Name:    "period",
		Aliases: []string{"p"},
		Usage:   "Shorthand for --start/--end. One of: all-time, today, yesterday, 7days, 14days, 30days, 90days, 180days, 365days",
	}

	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output path without extension. Defaults to flap_sessions_<timestamp> in the working directory",
	}

	formatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Export format: csv, json, or both (default: both)",
	}

	mergeFlag = &cli.BoolFlag{
		Name:  "merge",
		Usage: "Also merge the reconstructed sessions into the master dataset",
	}

	fromFlag = &cli.StringFlag{
		Name:  "from",
		Usage: "Merge an existing dataset export (CSV) instead of processing reports",
	}

	noBackupFlag = &cli.BoolFlag{
		Name:  "no-backup",
		Usage: "Skip the automatic dataset backup before merging",
	}

	toleranceFlag = &cli.Float64Flag{
		Name:  "tolerance",
		Usage: "Hours of slack when matching a duration against midnight (default: 0.5)",
	}

	retentionFlag = &cli.UintFlag{
		Name:  "retention",
		Usage: "Number of dataset backups to keep when pruning (default: 3)",
	}

	pruneFlag = &cli.BoolFlag{
		Name:  "prune",
		Usage: "Remove all but the newest backups",
	}

	yesFlag = &cli.BoolFlag{
		Name:    "yes",
		Aliases: []string{"y"},
		Usage:   "Skip confirmation prompts",
	}

	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "Print the results as JSON",
	}

	serveFlag = &cli.BoolFlag{
		Name:  "serve",
		Usage: "Serve the statistics over HTTP instead of printing them",
	}

	statsPortFlag = &cli.UintFlag{
		Name:  "port",
		Usage: "Specify the port for the statistics server",
		Value: 1111,
	}

	quietFlag = &cli.BoolFlag{
		Name:    "quiet",
		Aliases: []string{"q"},
		Usage:   "Only print errors",
	}

	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "Log debug information to the log file",
	}

	noColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable coloured output",
	}
)

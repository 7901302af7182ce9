package app

import (
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/svenhw/flapstats/internal/config"
)

// disableStyling disables all styling provided by pterm.
func disableStyling() {
	pterm.DisableColor()
	pterm.DisableStyling()
	pterm.Debug.Prefix.Text = ""
	pterm.Info.Prefix.Text = ""
	pterm.Success.Prefix.Text = ""
	pterm.Warning.Prefix.Text = ""
	pterm.Error.Prefix.Text = ""
	pterm.Fatal.Prefix.Text = ""
}

// Get retrieves the flapstats app instance.
func Get() *cli.App {
	flapstatsApp := &cli.App{
		Name: "flapstats",
		Authors: []*cli.Author{
			{
				Name:  "Sven Holmberg",
				Email: "sven@svenhw.dev",
			},
		},
		Usage: `
		Flapstats reconstructs cat flap excursions from weekly activity
		reports. It pairs exit and entry observations into typed sessions,
		flags ambiguous days, and maintains a deduplicated master dataset
		with seasonal statistics.`,
		UsageText:            "[COMMAND] [OPTIONS] [REPORT...]",
		Version:              config.Version,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name: "merge",
				Usage: `
				Merge reconstructed sessions into the master dataset. Accepts report
				files to process, or --from to backfill an existing CSV export`,
				Flags: []cli.Flag{
					fromFlag,
					noBackupFlag,
					toleranceFlag,
					quietFlag,
				},
				Action: mergeAction,
			},
			{
				Name:  "list",
				Usage: "Print a table of the stored sessions within a time period",
				Flags: []cli.Flag{
					startFlag,
					endFlag,
					periodFlag,
					jsonFlag,
				},
				Action: listAction,
			},
			{
				Name: "stats",
				Usage: `
				Report seasonal activity statistics. Defaults to the whole
				dataset`,
				Flags: []cli.Flag{
					startFlag,
					endFlag,
					periodFlag,
					jsonFlag,
					serveFlag,
					statsPortFlag,
				},
				Action: statsAction,
			},
			{
				Name:  "delete",
				Usage: "Delete the stored sessions within a time period",
				Flags: []cli.Flag{
					startFlag,
					endFlag,
					periodFlag,
					yesFlag,
				},
				Action: deleteAction,
			},
			{
				Name:  "backups",
				Usage: "List dataset backups, or prune the oldest ones",
				Flags: []cli.Flag{
					pruneFlag,
					retentionFlag,
					yesFlag,
				},
				Action: backupsAction,
			},
			{
				Name:   "runs",
				Usage:  "Show the merge history of the master dataset",
				Action: runsAction,
			},
			{
				Name:   "edit-config",
				Usage:  "Edit the configuration file",
				Action: editConfigAction,
			},
		},
		Flags: []cli.Flag{
			outputFlag,
			formatFlag,
			mergeFlag,
			noBackupFlag,
			toleranceFlag,
			quietFlag,
			debugFlag,
			noColorFlag,
		},
		Action: defaultAction,
		Before: beforeAction,
		After:  afterAction,
	}

	return flapstatsApp
}

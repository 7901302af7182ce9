package app

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"

	"github.com/svenhw/flapstats/export"
	"github.com/svenhw/flapstats/internal/config"
	"github.com/svenhw/flapstats/internal/ui"
)

const (
	noSessionsMsg = "No sessions found for the specified time range"
)

// printSessionsTable prints a session table to the command-line.
func printSessionsTable(w io.Writer, rows []export.Row) {
	tableBody := make([][]string, len(rows))

	for i := range rows {
		row := &rows[i]

		shape := ui.Green("complete")

		switch {
		case row.ExitTime == "":
			shape = ui.Cyan("entry only")
		case row.EntryTime == "":
			shape = ui.Red("exit only")
		}

		tableBody[i] = []string{
			fmt.Sprintf("%d", i+1),
			row.Date,
			row.DateLabel,
			row.ExitTime,
			row.EntryTime,
			row.Duration,
			shape,
		}
	}

	tableBody = append([][]string{
		{"#", "DATE", "DAY", "EXIT", "ENTRY", "DURATION", "SHAPE"},
	}, tableBody...)

	ui.PrintTable(tableBody, w)
}

// listSessions prints out a table of sessions.
func listSessions(rows []export.Row) error {
	if len(rows) == 0 {
		pterm.Info.Println(noSessionsMsg)
		return nil
	}

	printSessionsTable(config.Stdout, rows)

	return nil
}

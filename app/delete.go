package app

import (
	"bufio"
	"fmt"

	"github.com/pterm/pterm"

	"github.com/svenhw/flapstats/export"
	"github.com/svenhw/flapstats/internal/config"
	"github.com/svenhw/flapstats/store"
)

// delSessions deletes the given dataset rows. It requests for
// confirmation before proceeding with the operation unless assumeYes
// is set.
func delSessions(
	db *store.Client,
	rows []export.Row,
	assumeYes bool,
) error {
	if len(rows) == 0 {
		pterm.Info.Println(noSessionsMsg)
		return nil
	}

	printSessionsTable(config.Stdout, rows)

	if !assumeYes {
		warning := pterm.Warning.Sprint(
			"The above sessions will be deleted permanently. Press ENTER to proceed",
		)

		fmt.Fprint(config.Stdout, warning)

		reader := bufio.NewReader(config.Stdin)

		_, _ = reader.ReadString('\n')
	}

	return db.Delete(rows)
}

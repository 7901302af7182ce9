package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/huh"
	"github.com/davecgh/go-spew/spew"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/svenhw/flapstats/engine"
	"github.com/svenhw/flapstats/export"
	"github.com/svenhw/flapstats/ingest"
	"github.com/svenhw/flapstats/internal/config"
	"github.com/svenhw/flapstats/internal/models"
	"github.com/svenhw/flapstats/internal/osutil"
	"github.com/svenhw/flapstats/internal/pathutil"
	"github.com/svenhw/flapstats/report"
	"github.com/svenhw/flapstats/stats"
	"github.com/svenhw/flapstats/store"
)

const (
	envNoColor          = "NO_COLOR"
	envFlapstatsNoColor = "FLAPSTATS_NO_COLOR"
)

var errNothingToMerge = errors.New(
	"nothing to merge: pass report files or --from dataset.csv",
)

// firstNonEmptyString returns its first non-empty argument, or "" if all
// arguments are empty.
func firstNonEmptyString(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}

	return ""
}

func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handler := slog.NewJSONHandler(
		&lumberjack.Logger{
			Filename:   pathutil.LogFilePath(),
			MaxSize:    10, // megabytes
			MaxBackups: 3,
		},
		&slog.HandlerOptions{Level: level},
	)

	slog.SetDefault(slog.New(handler))
}

func getConfig(ctx *cli.Context) (*config.Config, error) {
	cfg, err := config.New(
		config.WithViperConfig(pathutil.ConfigFilePath()),
		config.WithCLIConfig(ctx),
	)
	if err != nil {
		return nil, err
	}

	slog.Debug(spew.Sdump(cfg))

	return cfg, nil
}

func openDataset() (*store.Client, error) {
	return store.NewClient(pathutil.DBFilePath())
}

// processBatch loads the given report files or directories and
// reconstructs their sessions.
func processBatch(
	cfg *config.Config,
	paths []string,
) (*models.Batch, error) {
	reports, err := ingest.ReadPaths(cfg, paths)
	if err != nil {
		return nil, err
	}

	return engine.New(cfg).ProcessBatch(reports), nil
}

// mergeRows merges dataset rows into the master dataset, backing the
// dataset up first unless disabled.
func mergeRows(cfg *config.Config, rows []export.Row) error {
	db, err := openDataset()
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Processing.AutoBackup {
		if _, err := db.Backup(pathutil.BackupsDirPath()); err != nil {
			return err
		}

		if _, err := store.Prune(
			pathutil.BackupsDirPath(),
			cfg.Processing.BackupRetention,
		); err != nil {
			return err
		}
	}

	rec, err := db.Merge(rows)
	if err != nil {
		return err
	}

	if !cfg.CLI.Quiet {
		report.Merge(config.Stdout, rec)
	}

	slog.Info("merged sessions into dataset")

	return nil
}

// defaultAction processes the report files passed on the command line,
// exports the reconstructed sessions, and prints the run summary.
func defaultAction(ctx *cli.Context) error {
	if ctx.Args().Len() == 0 {
		return cli.ShowAppHelp(ctx)
	}

	cfg, err := getConfig(ctx)
	if err != nil {
		return err
	}

	batch, err := processBatch(cfg, ctx.Args().Slice())
	if err != nil {
		return err
	}

	paths, err := export.Write(cfg, batch)
	if err != nil {
		return err
	}

	if !cfg.CLI.Quiet {
		report.Summary(config.Stdout, batch)
		report.Diagnostics(config.Stdout, batch.AllDiagnostics())
		report.Saved(config.Stdout, paths)
	}

	if cfg.CLI.Merge {
		return mergeRows(cfg, export.Flatten(batch))
	}

	return nil
}

// mergeAction merges freshly processed reports, or a previously
// exported dataset, into the master dataset.
func mergeAction(ctx *cli.Context) error {
	cfg, err := getConfig(ctx)
	if err != nil {
		return err
	}

	if from := ctx.String("from"); from != "" {
		rows, err := store.ImportCSV(from)
		if err != nil {
			return err
		}

		return mergeRows(cfg, rows)
	}

	if ctx.Args().Len() == 0 {
		return errNothingToMerge
	}

	batch, err := processBatch(cfg, ctx.Args().Slice())
	if err != nil {
		return err
	}

	return mergeRows(cfg, export.Flatten(batch))
}

// listAction prints a table of the stored sessions within a time
// period.
func listAction(ctx *cli.Context) error {
	cfg, err := getConfig(ctx)
	if err != nil {
		return err
	}

	db, err := openDataset()
	if err != nil {
		return err
	}
	defer db.Close()

	rows, err := db.Sessions(cfg.CLI.StartTime, cfg.CLI.EndTime)
	if err != nil {
		return err
	}

	if ctx.Bool("json") {
		b, err := json.Marshal(rows)
		if err != nil {
			return err
		}

		pterm.Println(string(b))

		return nil
	}

	return listSessions(rows)
}

// statsAction reports seasonal statistics for the stored sessions.
func statsAction(ctx *cli.Context) error {
	cfg, err := getConfig(ctx)
	if err != nil {
		return err
	}

	db, err := openDataset()
	if err != nil {
		return err
	}
	defer db.Close()

	stats.Init(db, cfg)

	if ctx.Bool("serve") {
		return stats.Server(db, ctx.Uint("port"))
	}

	if ctx.Bool("json") {
		b, err := stats.JSON()
		if err != nil {
			return err
		}

		pterm.Println(string(b))

		return nil
	}

	return stats.Show()
}

// deleteAction deletes the stored sessions within a time period after
// confirmation.
func deleteAction(ctx *cli.Context) error {
	cfg, err := getConfig(ctx)
	if err != nil {
		return err
	}

	db, err := openDataset()
	if err != nil {
		return err
	}
	defer db.Close()

	rows, err := db.Sessions(cfg.CLI.StartTime, cfg.CLI.EndTime)
	if err != nil {
		return err
	}

	return delSessions(db, rows, ctx.Bool("yes"))
}

// runsAction prints the merge history of the master dataset.
func runsAction(_ *cli.Context) error {
	db, err := openDataset()
	if err != nil {
		return err
	}
	defer db.Close()

	recs, err := db.Runs()
	if err != nil {
		return err
	}

	report.Runs(config.Stdout, recs)

	return nil
}

// backupsAction lists dataset backups, or prunes the oldest ones when
// --prune is set.
func backupsAction(ctx *cli.Context) error {
	cfg, err := getConfig(ctx)
	if err != nil {
		return err
	}

	backupsDir := pathutil.BackupsDirPath()

	names, err := store.ListBackups(backupsDir)
	if err != nil {
		return err
	}

	if !ctx.Bool("prune") {
		report.Backups(config.Stdout, names)
		return nil
	}

	keep := cfg.Processing.BackupRetention
	if len(names) <= keep {
		pterm.Info.Printfln(
			"nothing to prune: %d backups, keeping %d",
			len(names),
			keep,
		)

		return nil
	}

	if !ctx.Bool("yes") {
		var confirmed bool

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf(
						"Remove %d old backups, keeping the newest %d?",
						len(names)-keep,
						keep,
					)).
					Affirmative("Prune").
					Negative("Keep everything").
					Value(&confirmed),
			),
		)

		if err := form.Run(); err != nil {
			return fmt.Errorf("form interaction failed: %w", err)
		}

		if !confirmed {
			return nil
		}
	}

	removed, err := store.Prune(backupsDir, keep)
	if err != nil {
		return err
	}

	for _, name := range removed {
		pterm.Success.Printfln("removed backup %s", name)
	}

	return nil
}

// editConfigAction handles the edit-config command which opens the
// config file in the user's default text editor.
func editConfigAction(_ *cli.Context) error {
	defaultEditor := "nano"

	if runtime.GOOS == osutil.Windows {
		defaultEditor = "C:\\Windows\\system32\\notepad.exe"
	}

	editor := firstNonEmptyString(
		os.Getenv("VISUAL"),
		os.Getenv("EDITOR"),
		defaultEditor,
	)

	cmd := exec.Command(editor, pathutil.ConfigFilePath())

	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout

	return cmd.Run()
}

func beforeAction(ctx *cli.Context) error {
	if err := pathutil.Initialize(); err != nil {
		return err
	}

	initLogger(ctx.Bool("debug"))

	// Override the default help template
	cli.AppHelpTemplate = helpText()

	pterm.Error.MessageStyle = pterm.NewStyle(pterm.FgRed)
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "ERROR",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}

	// Disable colour output if NO_COLOR is set
	if _, exists := os.LookupEnv(envNoColor); exists {
		disableStyling()
	}

	// Disable colour output if FLAPSTATS_NO_COLOR is set
	if _, exists := os.LookupEnv(envFlapstatsNoColor); exists {
		disableStyling()
	}

	if ctx.Bool("no-color") {
		disableStyling()
	}

	slog.InfoContext(ctx.Context, "starting flapstats")

	return nil
}

func afterAction(ctx *cli.Context) error {
	slog.InfoContext(ctx.Context, "exiting flapstats")

	return nil
}

// Package pathutil manages application file paths and locations
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/xdg"
	"github.com/pterm/pterm"
)

// Paths holds all application path configurations.
type Paths struct {
	configDir      string
	configFileName string
	dbFileName     string
	logFileName    string
	backupsDirName string

	// Computed absolute paths
	configFilePath string
	dbFilePath     string
	logFilePath    string
	backupsDirPath string
}

var (
	paths *Paths
	once  sync.Once
)

// Initialize must be called once at program startup.
func Initialize() error {
	var initErr error

	once.Do(func() {
		paths = &Paths{
			configDir:      "flapstats",
			configFileName: "config.yml",
			dbFileName:     "flapstats.db",
			logFileName:    "flapstats.log",
			backupsDirName: "dataset_backups",
		}

		paths.applyEnvironmentOverrides()
		initErr = paths.computePaths()
	})

	return initErr
}

func ConfigFilePath() string {
	return paths.configFilePath
}

func DBFilePath() string {
	return paths.dbFilePath
}

func LogFilePath() string {
	return paths.logFilePath
}

func BackupsDirPath() string {
	return paths.backupsDirPath
}

func (p *Paths) applyEnvironmentOverrides() {
	appEnv := strings.TrimSpace(os.Getenv("FLAPSTATS_ENV"))
	if appEnv != "" {
		p.configFileName = fmt.Sprintf("config_%s.yml", appEnv)
		p.dbFileName = fmt.Sprintf("flapstats_%s.db", appEnv)
		p.logFileName = fmt.Sprintf("flapstats_%s.log", appEnv)
	}
}

func (p *Paths) computePaths() error {
	var err error

	relPath := filepath.Join(p.configDir, p.configFileName)

	p.configFilePath, err = xdg.ConfigFile(relPath)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	dataDir, err := xdg.DataFile(p.configDir)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	p.dbFilePath = filepath.Join(dataDir, p.dbFileName)

	p.logFilePath = filepath.Join(dataDir, "log", p.logFileName)

	p.backupsDirPath = filepath.Join(dataDir, p.backupsDirName)

	return nil
}

// StripExtension returns the input file name without its extension.
func StripExtension(fileName string) string {
	return fileName[:len(fileName)-len(filepath.Ext(fileName))]
}

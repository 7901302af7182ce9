// Package config is responsible for flapstats' settings: heuristic
// thresholds for session reconstruction, dataset validation limits, and
// processing behavior. Values come from the YAML config file and may be
// overridden per run on the command line.
package config

import (
	"io"
	"os"
	"time"
)

type (
	// Config holds all configuration settings.
	Config struct {
		Heuristics HeuristicsConfig `mapstructure:"heuristics"`
		Validation ValidationConfig `mapstructure:"validation"`
		Processing ProcessingConfig `mapstructure:"processing"`
		Analytics  AnalyticsConfig  `mapstructure:"analytics"`
		CLI        CLIConfig        `mapstructure:"-"`
	}

	// HeuristicsConfig holds the thresholds that drive single-timestamp
	// classification and overnight pairing.
	HeuristicsConfig struct {
		// MorningCutoffHour splits the day into morning and evening for
		// classification purposes.
		MorningCutoffHour int `mapstructure:"morning_cutoff_hour"`
		// ShortSessionHours separates ordinary excursions from
		// long absences that need midnight-anchored reasoning.
		ShortSessionHours float64 `mapstructure:"short_session_hours"`
		// ToleranceHours is the slack allowed when matching a duration
		// against the time since or until midnight.
		ToleranceHours float64 `mapstructure:"tolerance_hours"`
		// LateEveningHour and EarlyMorningHour bound the window in which
		// two lone timestamps on adjacent days can form one overnight
		// excursion.
		LateEveningHour  int `mapstructure:"late_evening_hour"`
		EarlyMorningHour int `mapstructure:"early_morning_hour"`
	}

	// ValidationConfig holds limits for grading reconstructed days
	// against the totals printed in the source report.
	ValidationConfig struct {
		SignificantMismatch int `mapstructure:"significant_mismatch"`
		MinorMismatch       int `mapstructure:"minor_mismatch"`
		MaxVisitRatio       int `mapstructure:"max_visit_ratio"`
		GapDays             int `mapstructure:"gap_days"`
	}

	// ProcessingConfig holds dataset maintenance settings.
	ProcessingConfig struct {
		BackupRetention int   `mapstructure:"backup_retention"`
		AutoBackup      bool  `mapstructure:"auto_backup"`
		MaxReportBytes  int64 `mapstructure:"max_report_bytes"`
		MinReportBytes  int64 `mapstructure:"min_report_bytes"`
	}

	// AnalyticsConfig holds settings for the seasonal statistics.
	AnalyticsConfig struct {
		MorningStartHour       int     `mapstructure:"morning_start_hour"`
		MorningEndHour         int     `mapstructure:"morning_end_hour"`
		EveningStartHour       int     `mapstructure:"evening_start_hour"`
		EveningEndHour         int     `mapstructure:"evening_end_hour"`
		SeasonalVariationHours float64 `mapstructure:"seasonal_variation_hours"`
	}

	// CLIConfig holds per-run values that only ever come from flags.
	CLIConfig struct {
		StartTime  time.Time
		EndTime    time.Time
		OutputPath string
		Format     string
		Merge      bool
		NoBackup   bool
		Quiet      bool
	}

	// Option is a function that modifies Config.
	Option func(*Config) error
)

const Version = "v0.3.1"

var (
	Stdin  io.Reader = os.Stdin
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

// New creates a new Config with default values and applies options.
func New(opts ...Option) (*Config, error) {
	cfg := &Config{}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, errConfigOption.Wrap(err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, errConfigValidation.Wrap(err)
	}

	return cfg, nil
}

// Default returns a Config carrying only the built-in defaults, without
// touching the filesystem.
func Default() *Config {
	return &Config{
		Heuristics: HeuristicsConfig{
			MorningCutoffHour: 12,
			ShortSessionHours: 12,
			ToleranceHours:    0.5,
			LateEveningHour:   20,
			EarlyMorningHour:  8,
		},
		Validation: ValidationConfig{
			SignificantMismatch: 2,
			MinorMismatch:       1,
			MaxVisitRatio:       2,
			GapDays:             14,
		},
		Processing: ProcessingConfig{
			BackupRetention: 3,
			AutoBackup:      true,
			MaxReportBytes:  10 << 20,
			MinReportBytes:  1 << 10,
		},
		Analytics: AnalyticsConfig{
			MorningStartHour:       5,
			MorningEndHour:         10,
			EveningStartHour:       17,
			EveningEndHour:         22,
			SeasonalVariationHours: 2,
		},
	}
}

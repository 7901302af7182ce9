package config

import (
	"errors"
	"os"

	"github.com/spf13/viper"
)

// viperKeys defines the mapping between config keys and their Viper counterparts.
const (
	keyMorningCutoffHour = "heuristics.morning_cutoff_hour"
	keyShortSessionHours = "heuristics.short_session_hours"
	keyToleranceHours    = "heuristics.tolerance_hours"
	keyLateEveningHour   = "heuristics.late_evening_hour"
	keyEarlyMorningHour  = "heuristics.early_morning_hour"

	keySignificantMismatch = "validation.significant_mismatch"
	keyMinorMismatch       = "validation.minor_mismatch"
	keyMaxVisitRatio       = "validation.max_visit_ratio"
	keyGapDays             = "validation.gap_days"

	keyBackupRetention = "processing.backup_retention"
	keyAutoBackup      = "processing.auto_backup"
	keyMaxReportBytes  = "processing.max_report_bytes"
	keyMinReportBytes  = "processing.min_report_bytes"

	keyMorningStartHour       = "analytics.morning_start_hour"
	keyMorningEndHour         = "analytics.morning_end_hour"
	keyEveningStartHour       = "analytics.evening_start_hour"
	keyEveningEndHour         = "analytics.evening_end_hour"
	keySeasonalVariationHours = "analytics.seasonal_variation_hours"
)

// WithViperConfig returns an Option that loads configuration from Viper.
func WithViperConfig(configPath string) Option {
	return func(c *Config) error {
		v := viper.New()

		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		setupViper(v)

		err := v.ReadInConfig()
		if err == nil {
			return loadViperConfig(v, c)
		}

		if !errors.Is(err, os.ErrNotExist) {
			return errReadConfig.Wrap(err)
		}

		if err := v.WriteConfig(); err != nil {
			return errWriteConfig.Wrap(err)
		}

		return loadViperConfig(v, c)
	}
}

// setupViper seeds Viper with the built-in defaults so that a fresh
// install writes a fully populated config file.
func setupViper(v *viper.Viper) {
	defaults := Default()

	v.SetDefault(keyMorningCutoffHour, defaults.Heuristics.MorningCutoffHour)
	v.SetDefault(keyShortSessionHours, defaults.Heuristics.ShortSessionHours)
	v.SetDefault(keyToleranceHours, defaults.Heuristics.ToleranceHours)
	v.SetDefault(keyLateEveningHour, defaults.Heuristics.LateEveningHour)
	v.SetDefault(keyEarlyMorningHour, defaults.Heuristics.EarlyMorningHour)

	v.SetDefault(keySignificantMismatch, defaults.Validation.SignificantMismatch)
	v.SetDefault(keyMinorMismatch, defaults.Validation.MinorMismatch)
	v.SetDefault(keyMaxVisitRatio, defaults.Validation.MaxVisitRatio)
	v.SetDefault(keyGapDays, defaults.Validation.GapDays)

	v.SetDefault(keyBackupRetention, defaults.Processing.BackupRetention)
	v.SetDefault(keyAutoBackup, defaults.Processing.AutoBackup)
	v.SetDefault(keyMaxReportBytes, defaults.Processing.MaxReportBytes)
	v.SetDefault(keyMinReportBytes, defaults.Processing.MinReportBytes)

	v.SetDefault(keyMorningStartHour, defaults.Analytics.MorningStartHour)
	v.SetDefault(keyMorningEndHour, defaults.Analytics.MorningEndHour)
	v.SetDefault(keyEveningStartHour, defaults.Analytics.EveningStartHour)
	v.SetDefault(keyEveningEndHour, defaults.Analytics.EveningEndHour)
	v.SetDefault(
		keySeasonalVariationHours,
		defaults.Analytics.SeasonalVariationHours,
	)
}

// loadViperConfig loads configuration from Viper into the Config struct.
func loadViperConfig(v *viper.Viper, c *Config) error {
	return v.Unmarshal(c)
}

package config

// Validate performs validation checks on the Config struct and its fields.
func (c *Config) Validate() error {
	if err := c.validateHeuristics(); err != nil {
		return err
	}

	if err := c.validateValidation(); err != nil {
		return err
	}

	if err := c.validateProcessing(); err != nil {
		return err
	}

	return c.validateAnalytics()
}

// validateHeuristics checks the classification thresholds for values that
// would make every observation unclassifiable.
func (c *Config) validateHeuristics() error {
	hours := map[string]int{
		"morning cutoff hour": c.Heuristics.MorningCutoffHour,
		"late evening hour":   c.Heuristics.LateEveningHour,
		"early morning hour":  c.Heuristics.EarlyMorningHour,
	}

	for name, v := range hours {
		if v < 0 || v > 24 {
			return errInvalidHour.Fmt(name, v)
		}
	}

	if c.Heuristics.ToleranceHours <= 0 {
		return errInvalidHours.Fmt("tolerance", c.Heuristics.ToleranceHours)
	}

	if c.Heuristics.ShortSessionHours <= 0 {
		return errInvalidHours.Fmt(
			"short session threshold",
			c.Heuristics.ShortSessionHours,
		)
	}

	return nil
}

// validateValidation checks the mismatch grading limits.
func (c *Config) validateValidation() error {
	thresholds := []struct {
		name string
		min  int
		got  int
	}{
		{"significant mismatch threshold", 1, c.Validation.SignificantMismatch},
		{"minor mismatch threshold", 0, c.Validation.MinorMismatch},
		{"max visit ratio", 1, c.Validation.MaxVisitRatio},
		{"gap days", 1, c.Validation.GapDays},
	}

	for _, th := range thresholds {
		if th.got < th.min {
			return errInvalidThreshold.Fmt(th.name, th.min, th.got)
		}
	}

	return nil
}

// validateProcessing checks dataset maintenance settings.
func (c *Config) validateProcessing() error {
	if c.Processing.BackupRetention < 1 {
		return errInvalidThreshold.Fmt(
			"backup retention",
			1,
			c.Processing.BackupRetention,
		)
	}

	if c.Processing.MinReportBytes >= c.Processing.MaxReportBytes {
		return errInvalidSizeLimits.Fmt(
			c.Processing.MinReportBytes,
			c.Processing.MaxReportBytes,
		)
	}

	return nil
}

// validateAnalytics checks the seasonal reporting windows.
func (c *Config) validateAnalytics() error {
	hours := map[string]int{
		"morning window start": c.Analytics.MorningStartHour,
		"morning window end":   c.Analytics.MorningEndHour,
		"evening window start": c.Analytics.EveningStartHour,
		"evening window end":   c.Analytics.EveningEndHour,
	}

	for name, v := range hours {
		if v < 0 || v > 24 {
			return errInvalidHour.Fmt(name, v)
		}
	}

	windows := []struct {
		name       string
		start, end int
	}{
		{"morning", c.Analytics.MorningStartHour, c.Analytics.MorningEndHour},
		{"evening", c.Analytics.EveningStartHour, c.Analytics.EveningEndHour},
	}

	for _, w := range windows {
		if w.start >= w.end {
			return errInvalidWindow.Fmt(w.name, w.start, w.end)
		}
	}

	if c.Analytics.SeasonalVariationHours <= 0 {
		return errInvalidHours.Fmt(
			"seasonal variation threshold",
			c.Analytics.SeasonalVariationHours,
		)
	}

	return nil
}

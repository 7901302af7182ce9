package config

import "github.com/svenhw/flapstats/internal/apperr"

var (
	errConfigOption = &apperr.Error{
		Message: "config option error",
	}

	errConfigValidation = &apperr.Error{
		Message: "config validation error",
	}

	errReadConfig = &apperr.Error{
		Message: "reading config file failed",
	}

	errWriteConfig = &apperr.Error{
		Message: "writing default config failed",
	}

	errInvalidPeriod = &apperr.Error{
		Message: "invalid period: must be one of: all-time, today, yesterday, 7days, 14days, 30days, 90days, 180days, 365days",
	}

	errInvalidDateRange = &apperr.Error{
		Message: "the end date must not be earlier than the start date",
	}

	errInvalidFormat = &apperr.Error{
		Message: "unknown export format: %s (must be csv, json, or both)",
	}

	errInvalidHour = &apperr.Error{
		Message: "%s must be an hour between 0 and 24, got %d",
	}

	errInvalidHours = &apperr.Error{
		Message: "%s must be greater than zero, got %v",
	}

	errInvalidThreshold = &apperr.Error{
		Message: "%s must be at least %d, got %d",
	}

	errInvalidSizeLimits = &apperr.Error{
		Message: "min report size (%d) must be smaller than max report size (%d)",
	}

	errInvalidWindow = &apperr.Error{
		Message: "%s window start (%d) must be before its end (%d)",
	}
)

package config

import "github.com/ayoisaiah/timesheet/internal/apperr"

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

	errDecodeConfig = &apperr.Error{
		Message: "decoding config file failed",
	}

	errInvalidRefresh = &apperr.Error{
		Message: "display.refresh_interval must be between %v and %v, got %v",
	}

	errEmptyTimeFormat = &apperr.Error{
		Message: "display.time_format cannot be empty",
	}

	errUnknownLogLevel = &apperr.Error{
		Message: "unknown log level %q (must be one of %s)",
	}

	errInvalidLogRotation = &apperr.Error{
		Message: "log.max_size_mb and log.max_backups cannot be negative",
	}
)

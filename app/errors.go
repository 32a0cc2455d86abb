package app

import "github.com/ayoisaiah/timesheet/internal/apperr"

var (
	errMissingArgs = &apperr.Error{
		Message: "%s: expected %d argument(s), got %d",
	}

	errInvalidPeriod = &apperr.Error{
		Message: "invalid period %q (must be one of %s)",
	}

	errInvalidDate = &apperr.Error{
		Message: "unable to understand --%s value %q",
	}

	errInvalidWindow = &apperr.Error{
		Message: "--since (%s) must not be after --until (%s)",
	}

	errAborted = &apperr.Error{
		Message: "operation cancelled",
	}

	errConfirmRequired = &apperr.Error{
		Message: "%s needs confirmation: pass --force when stdin is not a terminal",
	}
)

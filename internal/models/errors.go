package models

import "github.com/ayoisaiah/timesheet/internal/apperr"

var (
	ErrNotFound = &apperr.Error{
		Message: "project %q does not exist",
	}

	ErrAlreadyExists = &apperr.Error{
		Message: "a project named %q already exists",
	}

	ErrInvalidTransition = &apperr.Error{
		Message: "cannot %s project %q while it is %s",
	}

	ErrInvalidName = &apperr.Error{
		Message: "project name must not be empty",
	}

	ErrSessionClosed = &apperr.Error{
		Message: "session is closed: use its lap time instead",
	}

	ErrDataCorruption = &apperr.Error{
		Message: "stored data failed validation",
	}
)

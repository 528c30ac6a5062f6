package services

import "errors"

// Service errors
var (
	// ErrNotSettled is returned when a state is read before its cycle settled
	ErrNotSettled = errors.New("dashboard state has not settled")

	// ErrArchiveDisabled is returned when archiving is requested without an archiver
	ErrArchiveDisabled = errors.New("export archive is not configured")
)

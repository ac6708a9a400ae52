package services

import "errors"

// Error kinds surfaced by the progression core. Handlers map these to HTTP
// statuses; the core never logs-and-swallows them.
var (
	// ErrInvalidAmount rejects non-positive XP amounts before any state change.
	ErrInvalidAmount = errors.New("xp amount must be a positive integer")

	// ErrInvalidSource rejects XP grants without a source label.
	ErrInvalidSource = errors.New("source label must be non-empty")

	// ErrUnknownCategory rejects category keys outside the closed set.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrCatalogIntegrity means an achievement definition references a
	// category or field that does not exist. A data bug, not a user error.
	ErrCatalogIntegrity = errors.New("achievement catalog integrity error")

	// ErrPersistence wraps repository load/save failures. The engine applies
	// no retry policy of its own.
	ErrPersistence = errors.New("persistence error")
)

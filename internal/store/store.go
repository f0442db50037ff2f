// Package store keeps the set of open signals, mirrored to a JSON file
// so a restart resumes tracking where the previous process stopped.
package store

import (
	"errors"

	"fx-signal-bot/internal/types"
)

// ErrDuplicateSignal is returned by Open when the pair already has an
// open signal. Expected during normal operation, not exceptional.
var ErrDuplicateSignal = errors.New("signal already open for pair")

// ErrNotFound is returned by Close when no open signal exists for the
// pair. Callers that re-run the close path treat it as a no-op.
var ErrNotFound = errors.New("no open signal for pair")

// Store holds at most one open signal per pair.
type Store interface {
	// ListOpen returns all open signals in insertion order.
	ListOpen() []types.Signal
	IsOpen(pair string) bool
	Open(sig types.Signal) error
	Close(pair string) error
	Len() int
}

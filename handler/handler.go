// Package handler defines the start/feed/end callback protocol driven
// by a strategy at each matched position, and the Group composition
// rule for chaining several handlers together.
package handler

import (
	"github.com/arnodel/streamson/path"
	"github.com/arnodel/streamson/streamer"
	"github.com/arnodel/streamson/streamsonerr"
)

// MatchID identifies one matched value: strategies issue a fresh
// MatchID for every match, so a handler shared across several matcher
// registrations (or invoked for overlapping/nested matches under
// Trigger) can tell the calls apart.
type MatchID int

// Handler receives the lifecycle of a single matched value: one Start
// call when the value begins, zero or more Feed calls carrying the
// bytes as they're scanned, and one End call when the value closes.
//
// A Handler that returns non-nil bytes from any of the three calls is
// a converter for that call: its returned bytes replace what would
// otherwise flow downstream (see Group). A Handler that always
// returns nil merely observes.
type Handler interface {
	Start(p *path.Path, id MatchID, kind streamer.MatchedKind) ([]byte, error)
	Feed(chunk []byte, id MatchID) ([]byte, error)
	End(p *path.Path, id MatchID, kind streamer.MatchedKind) ([]byte, error)

	// IsConverter reports whether this handler ever transforms bytes
	// rather than merely observing them.
	IsConverter() bool
	// Buffering reports whether this handler needs the whole matched
	// value accumulated before it can act (as opposed to acting
	// incrementally on each Feed chunk).
	Buffering() bool
}

// Terminator is implemented by handlers that need to know when the
// stream ends with no further Feed/End coming for an in-progress
// match (e.g. to flush a buffer). It is optional: Group and the Trigger
// and All strategies type-assert for it and skip the call if absent;
// the Convert, Filter and Extract strategies never call it.
type Terminator interface {
	Terminate() error
}

// wrapHandlerErr normalizes a handler-returned error into HandlerError,
// leaving an already-typed HandlerError untouched.
func wrapHandlerErr(reason string, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := err.(*streamsonerr.HandlerError); ok {
		return he
	}
	return &streamsonerr.HandlerError{Reason: reason, Cause: err}
}

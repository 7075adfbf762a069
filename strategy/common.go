// Package strategy implements the five ways streamson drives matchers
// and handlers over a byte-fed document: Trigger (pure observation,
// nesting allowed), Filter (drop matched subtrees), Extract (emit only
// matched values), Convert (replace matched subtrees), and All (every
// position, no matcher needed).
package strategy

import (
	"github.com/arnodel/streamson/handler"
	"github.com/arnodel/streamson/matcher"
	"github.com/arnodel/streamson/streamer"
)

// FailurePolicy controls what a strategy does when a handler call
// returns an error: abort the whole strategy, or swallow the error
// and continue processing the rest of the document.
type FailurePolicy int

const (
	// AbortOnError is the default: the first handler error is
	// returned from Process and the strategy must not be used again.
	AbortOnError FailurePolicy = iota
	// IsolateAndContinue logs nothing itself but swallows the error,
	// letting the rest of the document continue to be processed and
	// other matches' handlers to run. The failing match keeps
	// receiving its later handler calls, except in Trigger, where a
	// match whose Start failed gets no Feed or End.
	IsolateAndContinue
)

// registration pairs a matcher with the handler it should drive.
type registration struct {
	matcher matcher.Matcher
	handler handler.Handler
}

// core holds the bookkeeping shared by every strategy: the streamer
// driving the token stream, the registered (matcher, handler) pairs,
// the failure policy, the running MatchID counter, and inputStart:
// the absolute byte offset of the start of the slice passed to the
// current Process call, needed to translate the streamer's global
// indices back into local offsets of that slice.
type core struct {
	stream     *streamer.Streamer
	regs       []registration
	policy     FailurePolicy
	nextID     handler.MatchID
	inputStart int
}

func newCore() core {
	return core{stream: streamer.New()}
}

func (c *core) addMatcher(m matcher.Matcher, h handler.Handler) int {
	c.regs = append(c.regs, registration{matcher: m, handler: h})
	return len(c.regs) - 1
}

func (c *core) local(globalIdx int) int { return globalIdx - c.inputStart }

func (c *core) allocID() handler.MatchID {
	id := c.nextID
	c.nextID++
	return id
}

// handleErr applies the failure policy to an error returned by a
// handler call. isolated is true if the policy absorbed the error and
// processing should continue.
func (c *core) handleErr(err error) (isolated bool, outErr error) {
	if err == nil {
		return false, nil
	}
	if c.policy == IsolateAndContinue {
		return true, nil
	}
	return false, err
}

// WithFailurePolicy-style setter shared by Trigger, Filter, Extract
// and Convert (All has no failure policy); each of them exposes its
// own WithFailurePolicy that delegates here so the method shows up in
// that type's godoc.
func (c *core) setPolicy(p FailurePolicy) { c.policy = p }

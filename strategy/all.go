package strategy

import (
	"github.com/arnodel/streamson/handler"
	"github.com/arnodel/streamson/streamer"
)

// All runs a single handler over every position in the document, no
// matcher required — useful for document-wide observers such as an
// indenter or a byte counter that need to see the whole stream rather
// than a matched subset of it. Like Trigger, it never transforms the
// input; unlike Trigger, there is exactly one handler and it is active
// from the first byte to the last rather than toggled by matches.
type All struct {
	stream     *streamer.Streamer
	handler    handler.Handler
	id         handler.MatchID
	started    bool
	inputStart int
}

// NewAll returns an All strategy driving h over the whole document.
func NewAll(h handler.Handler) *All {
	return &All{stream: streamer.New(), handler: h}
}

func (a *All) local(globalIdx int) int {
	return globalIdx - a.inputStart
}

// Process feeds input through the streamer, invoking the handler's
// Start on the very first token and Feed for every byte span after it.
// The handler's End is called by Terminate, not by Process.
func (a *All) Process(input []byte) error {
	a.stream.Feed(input)
	localPos := 0

	for {
		tok, err := a.stream.Read()
		if err != nil {
			return err
		}
		if tok.Type == streamer.Pending {
			if rest := input[localPos:]; len(rest) > 0 {
				if _, ferr := a.handler.Feed(rest, a.id); ferr != nil {
					return ferr
				}
			}
			a.inputStart += len(input)
			return nil
		}

		if !a.started {
			if _, err := a.handler.Start(a.stream.CurrentPath(), a.id, tok.Kind); err != nil {
				return err
			}
			a.started = true
		}

		to := a.local(tok.Index)
		if to > localPos {
			if _, err := a.handler.Feed(input[localPos:to], a.id); err != nil {
				return err
			}
		}
		localPos = to
	}
}

// Terminate finalizes the streamer, runs the handler's End for the
// document as a whole, and forwards Terminate if the handler supports it.
func (a *All) Terminate() error {
	if err := a.stream.Terminate(); err != nil {
		return err
	}
	if a.started {
		if _, err := a.handler.End(a.stream.CurrentPath(), a.id, streamer.KindNull); err != nil {
			return err
		}
	}
	if term, ok := a.handler.(handler.Terminator); ok {
		return term.Terminate()
	}
	return nil
}

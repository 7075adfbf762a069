package strategy

import (
	"github.com/arnodel/streamson/handler"
	"github.com/arnodel/streamson/matcher"
	"github.com/arnodel/streamson/streamer"
)

type triggerActive struct {
	id     handler.MatchID
	regIdx int
	depth  int
}

// Trigger drives handlers purely for observation: it produces no
// output of its own (Trigger never transforms bytes), and
// nested matches are allowed — if a matcher matches both an outer
// value and something inside it, both handler lifecycles run
// concurrently, disambiguated by MatchID.
type Trigger struct {
	core
	active []triggerActive
}

// NewTrigger returns an empty Trigger strategy.
func NewTrigger() *Trigger {
	return &Trigger{core: newCore()}
}

// AddMatcher registers h to run whenever m matches the current position.
func (t *Trigger) AddMatcher(m matcher.Matcher, h handler.Handler) {
	t.addMatcher(m, h)
}

// WithFailurePolicy sets the handler-failure policy and returns t.
func (t *Trigger) WithFailurePolicy(p FailurePolicy) *Trigger {
	t.setPolicy(p)
	return t
}

// Process feeds input through the streamer and runs every registered
// handler for each position it matches. Trigger never transforms the
// input, so unlike Convert/Filter/Extract, Process returns only an error.
func (t *Trigger) Process(input []byte) error {
	t.stream.Feed(input)
	localPos := 0

	for {
		tok, err := t.stream.Read()
		if err != nil {
			return err
		}
		if tok.Type == streamer.Pending {
			if err := t.feedActive(input[localPos:]); err != nil {
				return err
			}
			t.inputStart += len(input)
			return nil
		}

		to := t.local(tok.Index)
		if to > localPos {
			if err := t.feedActive(input[localPos:to]); err != nil {
				return err
			}
		}
		localPos = to

		switch tok.Type {
		case streamer.Start:
			cur := t.stream.CurrentPath()
			for i, r := range t.regs {
				if r.matcher.Match(cur, tok.Kind) {
					id := t.allocID()
					if _, err := r.handler.Start(cur, id, tok.Kind); err != nil {
						if isolated, outErr := t.handleErr(err); !isolated {
							return outErr
						}
						continue
					}
					t.active = append(t.active, triggerActive{id: id, regIdx: i, depth: cur.Depth()})
				}
			}
		case streamer.End:
			cur := t.stream.CurrentPath()
			depth := cur.Depth()
			for len(t.active) > 0 && t.active[len(t.active)-1].depth == depth {
				a := t.active[len(t.active)-1]
				t.active = t.active[:len(t.active)-1]
				if _, err := t.regs[a.regIdx].handler.End(cur, a.id, tok.Kind); err != nil {
					if _, outErr := t.handleErr(err); outErr != nil {
						return outErr
					}
				}
			}
		case streamer.Separator:
			// structural bytes carry no value content; nothing to do.
		}
	}
}

func (t *Trigger) feedActive(chunk []byte) error {
	if len(chunk) == 0 {
		return nil
	}
	for _, a := range t.active {
		if _, err := t.regs[a.regIdx].handler.Feed(chunk, a.id); err != nil {
			if _, outErr := t.handleErr(err); outErr != nil {
				return outErr
			}
		}
	}
	return nil
}

// Terminate must be called once no further input will be fed; it
// propagates to the streamer so a trailing open number is finalized,
// and forwards Terminate to every handler that implements it.
func (t *Trigger) Terminate() error {
	if err := t.stream.Terminate(); err != nil {
		return err
	}
	for _, r := range t.regs {
		if term, ok := r.handler.(handler.Terminator); ok {
			if err := term.Terminate(); err != nil {
				return err
			}
		}
	}
	return nil
}

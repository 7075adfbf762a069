package strategy

import (
	"github.com/arnodel/streamson/handler"
	"github.com/arnodel/streamson/matcher"
	"github.com/arnodel/streamson/path"
	"github.com/arnodel/streamson/streamer"
)

type filterFrame struct {
	childStarted  bool
	dropNextComma bool
}

type filterRemoved struct {
	path   *path.Path
	regIdx int
	id     handler.MatchID
}

// Filter drops matched subtrees from the output entirely, eliding the
// surrounding object key/colon and the comma that would otherwise be
// left dangling. A registered matcher may have no handler (Filter's
// handler is optional: pass nil to just drop bytes) or a handler that
// only observes what's being removed — handlers can never write
// filtered bytes back into the stream. Nested matching is disabled:
// once a value is being dropped, its contents are not tested against
// the matcher list.
type Filter struct {
	core
	frames  []*filterFrame
	removed *filterRemoved
	pend    []byte
	strip1  bool
}

// NewFilter returns an empty Filter strategy.
func NewFilter() *Filter {
	return &Filter{core: newCore()}
}

// AddMatcher registers a subtree to drop. h may be nil.
func (f *Filter) AddMatcher(m matcher.Matcher, h handler.Handler) {
	f.addMatcher(m, h)
}

// WithFailurePolicy sets the handler-failure policy and returns f.
func (f *Filter) WithFailurePolicy(p FailurePolicy) *Filter {
	f.setPolicy(p)
	return f
}

func (f *Filter) topFrame() *filterFrame {
	if len(f.frames) == 0 {
		return nil
	}
	return f.frames[len(f.frames)-1]
}

// Process feeds input through the streamer and returns the surviving
// output split into pieces. Concatenating every returned slice, across
// every Process/Terminate call, yields the filtered document.
func (f *Filter) Process(input []byte) ([][]byte, error) {
	f.stream.Feed(input)
	localPos := 0
	var out [][]byte

	flushPend := func() {
		if len(f.pend) > 0 {
			out = append(out, f.pend)
			f.pend = nil
		}
	}

	for {
		tok, err := f.stream.Read()
		if err != nil {
			return out, err
		}
		if tok.Type == streamer.Pending {
			span := input[localPos:]
			if f.removed != nil {
				if h := f.regs[f.removed.regIdx].handler; h != nil {
					if _, ferr := h.Feed(span, f.removed.id); ferr != nil {
						if _, outErr := f.handleErr(ferr); outErr != nil {
							return out, outErr
						}
					}
				}
			} else {
				if f.strip1 && len(span) > 0 && span[0] == ',' {
					span = span[1:]
					f.strip1 = false
				}
				f.pend = append(f.pend, span...)
			}
			// Inside a container, pend may still be the prefix of a
			// member that a later chunk shows to be dropped; keep it.
			if len(f.frames) == 0 {
				flushPend()
			}
			f.inputStart += len(input)
			return out, nil
		}

		to := f.local(tok.Index)
		span := input[localPos:to]
		if f.removed != nil {
			if h := f.regs[f.removed.regIdx].handler; h != nil {
				if _, ferr := h.Feed(span, f.removed.id); ferr != nil {
					if _, outErr := f.handleErr(ferr); outErr != nil {
						return out, outErr
					}
				}
			}
		} else {
			if f.strip1 && len(span) > 0 && span[0] == ',' {
				span = span[1:]
				f.strip1 = false
			}
			f.pend = append(f.pend, span...)
		}
		localPos = to

		switch tok.Type {
		case streamer.Start:
			if f.removed == nil {
				cur := f.stream.CurrentPath()
				matchedIdx := -1
				for i, r := range f.regs {
					if r.matcher.Match(cur, tok.Kind) {
						matchedIdx = i
						break
					}
				}
				if matchedIdx >= 0 {
					f.pend = nil // discard this value's own key/colon/comma prefix; any enclosing container's bytes were already flushed to out
					if top := f.topFrame(); top != nil && !top.childStarted {
						top.dropNextComma = true
					}
					id := f.allocID()
					if h := f.regs[matchedIdx].handler; h != nil {
						if _, serr := h.Start(cur, id, tok.Kind); serr != nil {
							if _, outErr := f.handleErr(serr); outErr != nil {
								return out, outErr
							}
						}
					}
					f.removed = &filterRemoved{path: cur.Clone(), regIdx: matchedIdx, id: id}
				} else {
					if top := f.topFrame(); top != nil {
						top.childStarted = true
					}
					flushPend()
					if tok.Kind == streamer.KindObject || tok.Kind == streamer.KindArray {
						// Emit the opening bracket straight to out, not
						// into pend: pend is what a later dropped first
						// child discards, and the bracket belongs to
						// this (kept) container, not to that child's
						// own key/colon/comma prefix.
						out = append(out, input[to:to+1])
						localPos = to + 1
						f.frames = append(f.frames, &filterFrame{})
					}
				}
			}
		case streamer.End:
			if f.removed != nil {
				cur := f.stream.CurrentPath()
				if cur.Equal(f.removed.path) {
					if h := f.regs[f.removed.regIdx].handler; h != nil {
						if _, eerr := h.End(cur, f.removed.id, tok.Kind); eerr != nil {
							if _, outErr := f.handleErr(eerr); outErr != nil {
								return out, outErr
							}
						}
					}
					f.removed = nil
				}
			} else {
				if tok.Kind == streamer.KindObject || tok.Kind == streamer.KindArray {
					f.frames = f.frames[:len(f.frames)-1]
				}
				flushPend()
			}
		case streamer.Separator:
			if f.removed == nil && tok.Char == ',' {
				if top := f.topFrame(); top != nil && top.dropNextComma {
					f.strip1 = true
					top.dropNextComma = false
				}
			}
		}
	}
}

// Terminate must be called once no further input will ever be fed.
func (f *Filter) Terminate() error {
	return f.stream.Terminate()
}

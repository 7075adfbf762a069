package strategy

import (
	"github.com/arnodel/streamson/handler"
	"github.com/arnodel/streamson/matcher"
	"github.com/arnodel/streamson/path"
	"github.com/arnodel/streamson/streamer"
)

// ExtractedValue is one matched value emitted by Extract. Path is
// populated only when the strategy was constructed with
// WithExportPath; otherwise it is nil.
type ExtractedValue struct {
	Path *path.Path
	Data []byte
}

type extractMatch struct {
	path   *path.Path
	regIdx int
	id     handler.MatchID
	data   []byte
}

// Extract emits only the matched values, back to back, discarding
// everything else. Nested matching is disabled — once a value
// matches, the outermost match wins and nothing inside it is tested
// again. An optional handler per matcher receives Start when a match
// begins and End when it closes; it is not fed the matched bytes, and
// what it returns does not change the recorded value. Extract hands
// back the matched bytes whether or not a handler is registered.
type Extract struct {
	core
	matched    *extractMatch
	exportPath bool
	before     []byte
	after      []byte
	sep        []byte
	seen       int
}

// NewExtract returns an empty Extract strategy.
func NewExtract() *Extract {
	return &Extract{core: newCore()}
}

// AddMatcher registers a value shape to extract. h may be nil.
func (e *Extract) AddMatcher(m matcher.Matcher, h handler.Handler) {
	e.addMatcher(m, h)
}

// WithFailurePolicy sets the handler-failure policy and returns e.
func (e *Extract) WithFailurePolicy(p FailurePolicy) *Extract {
	e.setPolicy(p)
	return e
}

// WithExportPath makes each ExtractedValue carry the path it was
// matched at, in addition to its bytes.
func (e *Extract) WithExportPath(on bool) *Extract {
	e.exportPath = on
	return e
}

// WithBookends wraps every extracted value's bytes between before and
// after, and places sep between consecutive extracted values. before
// and after apply to each value separately; nothing is added at the
// start or end of the output as a whole.
func (e *Extract) WithBookends(before, sep, after []byte) *Extract {
	e.before, e.sep, e.after = before, sep, after
	return e
}

// Process feeds input through the streamer and returns every value
// matched within it, back to back.
func (e *Extract) Process(input []byte) ([]ExtractedValue, error) {
	e.stream.Feed(input)
	localPos := 0
	var out []ExtractedValue

	for {
		tok, err := e.stream.Read()
		if err != nil {
			return out, err
		}
		if tok.Type == streamer.Pending {
			if e.matched != nil {
				e.matched.data = append(e.matched.data, input[localPos:]...)
			}
			e.inputStart += len(input)
			return out, nil
		}

		to := e.local(tok.Index)

		switch tok.Type {
		case streamer.Start:
			if e.matched == nil {
				cur := e.stream.CurrentPath()
				for i, r := range e.regs {
					if r.matcher.Match(cur, tok.Kind) {
						id := e.allocID()
						if h := r.handler; h != nil {
							if _, serr := h.Start(cur, id, tok.Kind); serr != nil {
								if _, outErr := e.handleErr(serr); outErr != nil {
									return out, outErr
								}
							}
						}
						e.matched = &extractMatch{path: cur.Clone(), regIdx: i, id: id}
						localPos = to
						break
					}
				}
			}
		case streamer.End:
			if e.matched != nil {
				cur := e.stream.CurrentPath()
				if cur.Equal(e.matched.path) {
					e.matched.data = append(e.matched.data, input[localPos:to]...)
					if h := e.regs[e.matched.regIdx].handler; h != nil {
						if _, eerr := h.End(cur, e.matched.id, tok.Kind); eerr != nil {
							if _, outErr := e.handleErr(eerr); outErr != nil {
								return out, outErr
							}
						}
					}
					out = append(out, e.wrap(cur, e.matched.data))
					e.matched = nil
				}
			}
		}

		if e.matched != nil {
			e.matched.data = append(e.matched.data, input[localPos:to]...)
		}
		localPos = to
	}
}

func (e *Extract) wrap(p *path.Path, data []byte) ExtractedValue {
	var wrapped []byte
	if e.seen > 0 && e.sep != nil {
		wrapped = append(wrapped, e.sep...)
	}
	wrapped = append(wrapped, e.before...)
	wrapped = append(wrapped, data...)
	wrapped = append(wrapped, e.after...)
	e.seen++
	ev := ExtractedValue{Data: wrapped}
	if e.exportPath {
		ev.Path = p.Clone()
	}
	return ev
}

// Terminate must be called once no further input will ever be fed.
func (e *Extract) Terminate() error {
	return e.stream.Terminate()
}

package handler

import (
	"github.com/arnodel/streamson/path"
	"github.com/arnodel/streamson/streamer"
)

// Group chains several handlers together and drives them according to
// the composition rule: a converter's output replaces the buffer that
// flows to the handlers after it; a non-converter only observes the
// buffer (via Feed) without altering what continues downstream. The
// aggregate IsConverter is true if any member is.
type Group struct {
	handlers []Handler
}

// NewGroup returns an empty Group.
func NewGroup() *Group { return &Group{} }

// Add appends h to the chain and returns the Group, for chained
// construction: handler.NewGroup().Add(a).Add(b).
func (g *Group) Add(h Handler) *Group {
	g.handlers = append(g.handlers, h)
	return g
}

// Members returns the chained handlers, in call order.
func (g *Group) Members() []Handler { return g.handlers }

func (g *Group) Start(p *path.Path, id MatchID, kind streamer.MatchedKind) ([]byte, error) {
	var result []byte
	haveResult := false
	for _, h := range g.handlers {
		if h.IsConverter() {
			prev := result
			prevHave := haveResult
			result, haveResult = nil, false

			out, err := h.Start(p, id, kind)
			if err != nil {
				return nil, wrapHandlerErr("start", err)
			}
			if out != nil {
				result, haveResult = out, true
			}
			if prevHave {
				fed, err := h.Feed(prev, id)
				if err != nil {
					return nil, wrapHandlerErr("start/feed", err)
				}
				if fed != nil {
					if haveResult {
						result = append(result, fed...)
					} else {
						result, haveResult = fed, true
					}
				}
			}
		} else {
			if _, err := h.Start(p, id, kind); err != nil {
				return nil, wrapHandlerErr("start", err)
			}
			if haveResult {
				if _, err := h.Feed(result, id); err != nil {
					return nil, wrapHandlerErr("start/feed", err)
				}
			}
		}
	}
	if !haveResult {
		return nil, nil
	}
	return result, nil
}

func (g *Group) Feed(data []byte, id MatchID) ([]byte, error) {
	result := data
	haveResult := data != nil
	for _, h := range g.handlers {
		if !haveResult {
			break
		}
		if h.IsConverter() {
			out, err := h.Feed(result, id)
			if err != nil {
				return nil, wrapHandlerErr("feed", err)
			}
			result, haveResult = out, out != nil
		} else {
			if _, err := h.Feed(result, id); err != nil {
				return nil, wrapHandlerErr("feed", err)
			}
		}
	}
	if !haveResult {
		return nil, nil
	}
	return result, nil
}

func (g *Group) End(p *path.Path, id MatchID, kind streamer.MatchedKind) ([]byte, error) {
	var result []byte
	haveResult := false
	for _, h := range g.handlers {
		if h.IsConverter() {
			if haveResult {
				fed, err := h.Feed(result, id)
				if err != nil {
					return nil, wrapHandlerErr("end/feed", err)
				}
				result, haveResult = fed, fed != nil
			}
			out, err := h.End(p, id, kind)
			if err != nil {
				return nil, wrapHandlerErr("end", err)
			}
			if out != nil {
				if haveResult {
					result = append(result, out...)
				} else {
					result, haveResult = out, true
				}
			}
		} else {
			if haveResult {
				if _, err := h.Feed(result, id); err != nil {
					return nil, wrapHandlerErr("end/feed", err)
				}
			}
			if _, err := h.End(p, id, kind); err != nil {
				return nil, wrapHandlerErr("end", err)
			}
		}
	}
	if !haveResult {
		return nil, nil
	}
	return result, nil
}

// IsConverter implements Handler: true if any member converts.
func (g *Group) IsConverter() bool {
	for _, h := range g.handlers {
		if h.IsConverter() {
			return true
		}
	}
	return false
}

// Buffering implements Handler: true if any member needs buffering.
func (g *Group) Buffering() bool {
	for _, h := range g.handlers {
		if h.Buffering() {
			return true
		}
	}
	return false
}

// Terminate forwards to every member that implements Terminator.
func (g *Group) Terminate() error {
	for _, h := range g.handlers {
		if t, ok := h.(Terminator); ok {
			if err := t.Terminate(); err != nil {
				return err
			}
		}
	}
	return nil
}

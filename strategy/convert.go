package strategy

import (
	"github.com/arnodel/streamson/handler"
	"github.com/arnodel/streamson/matcher"
	"github.com/arnodel/streamson/path"
	"github.com/arnodel/streamson/streamer"
)

type convertMatch struct {
	path   *path.Path
	regIdx int
	id     handler.MatchID
}

// Convert replaces matched subtrees with the output of their
// handlers. Nested matching is disabled: once a value matches, bytes
// inside it are fed only to that match's handler, never re-tested
// against the matcher list, and the first registered matcher that
// matches wins (registration order, not path depth) — matching the
// ground-truth behavior of the original implementation.
type Convert struct {
	core
	matched *convertMatch
}

// NewConvert returns an empty Convert strategy.
func NewConvert() *Convert {
	return &Convert{core: newCore()}
}

// AddMatcher registers h to replace any value m matches.
func (c *Convert) AddMatcher(m matcher.Matcher, h handler.Handler) {
	c.addMatcher(m, h)
}

// WithFailurePolicy sets the handler-failure policy and returns c.
func (c *Convert) WithFailurePolicy(p FailurePolicy) *Convert {
	c.setPolicy(p)
	return c
}

// Process feeds input through the streamer and returns the resulting
// output split into pieces — unmatched spans copied verbatim and
// matched spans replaced by their handler's returned bytes. Concatenating
// every returned slice, across every Process/Terminate call, yields the
// full converted document.
func (c *Convert) Process(input []byte) ([][]byte, error) {
	c.stream.Feed(input)
	localPos := 0
	var out [][]byte

	for {
		tok, err := c.stream.Read()
		if err != nil {
			return out, err
		}
		if tok.Type == streamer.Pending {
			rest := input[localPos:]
			if c.matched != nil {
				fed, ferr := c.regs[c.matched.regIdx].handler.Feed(rest, c.matched.id)
				if ferr != nil {
					if _, outErr := c.handleErr(ferr); outErr != nil {
						return out, outErr
					}
				} else if fed != nil {
					out = append(out, fed)
				}
			} else if len(rest) > 0 {
				out = append(out, rest)
			}
			c.inputStart += len(input)
			return out, nil
		}

		to := c.local(tok.Index)

		switch tok.Type {
		case streamer.Start:
			if c.matched == nil {
				cur := c.stream.CurrentPath()
				for i, r := range c.regs {
					if r.matcher.Match(cur, tok.Kind) {
						if to > localPos {
							out = append(out, input[localPos:to])
						}
						localPos = to

						id := c.allocID()
						startOut, serr := r.handler.Start(cur, id, tok.Kind)
						if serr != nil {
							if _, outErr := c.handleErr(serr); outErr != nil {
								return out, outErr
							}
						} else if startOut != nil {
							out = append(out, startOut)
						}
						c.matched = &convertMatch{path: cur.Clone(), regIdx: i, id: id}
						break
					}
				}
			}
		case streamer.End:
			if c.matched != nil {
				cur := c.stream.CurrentPath()
				if cur.Equal(c.matched.path) {
					if to > localPos {
						data := input[localPos:to]
						fed, ferr := c.regs[c.matched.regIdx].handler.Feed(data, c.matched.id)
						if ferr != nil {
							if _, outErr := c.handleErr(ferr); outErr != nil {
								return out, outErr
							}
						} else if fed != nil {
							out = append(out, fed)
						}
					}
					localPos = to

					endOut, eerr := c.regs[c.matched.regIdx].handler.End(cur, c.matched.id, tok.Kind)
					if eerr != nil {
						if _, outErr := c.handleErr(eerr); outErr != nil {
							return out, outErr
						}
					} else if endOut != nil {
						out = append(out, endOut)
					}
					c.matched = nil
				}
			}
		case streamer.Separator:
		}
	}
}

// Terminate must be called once no further input will ever be fed.
func (c *Convert) Terminate() error {
	return c.stream.Terminate()
}

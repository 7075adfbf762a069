// Package matcher implements the path/kind predicate algebra used to
// decide whether a strategy should act at the streamer's current
// position: Simple (textual glob-like patterns), Depth (nesting-range
// predicates), Regex (anchored regular expressions over the rendered
// path), All (matches everywhere), JSONPath (RFC 9535 expressions via
// a synthesized skeleton document), and the Not/And/Or combinators.
package matcher

import (
	"github.com/arnodel/streamson/path"
	"github.com/arnodel/streamson/streamer"
)

// Matcher decides whether the value currently starting at path p (of
// kind k) should be acted upon.
type Matcher interface {
	Match(p *path.Path, k streamer.MatchedKind) bool
}

// Func adapts a plain function to the Matcher interface.
type Func func(p *path.Path, k streamer.MatchedKind) bool

// Match implements Matcher.
func (f Func) Match(p *path.Path, k streamer.MatchedKind) bool { return f(p, k) }

package matcher

import (
	"github.com/arnodel/streamson/path"
	"github.com/arnodel/streamson/streamer"
)

// notMatcher negates an inner matcher.
type notMatcher struct{ inner Matcher }

// Not returns a matcher that matches wherever m does not.
func Not(m Matcher) Matcher { return notMatcher{inner: m} }

func (n notMatcher) Match(p *path.Path, k streamer.MatchedKind) bool {
	return !n.inner.Match(p, k)
}

// andMatcher matches only where every operand matches, short-circuiting.
type andMatcher struct{ operands []Matcher }

// And returns a matcher that matches only where all of ms match.
func And(ms ...Matcher) Matcher { return andMatcher{operands: ms} }

func (a andMatcher) Match(p *path.Path, k streamer.MatchedKind) bool {
	for _, m := range a.operands {
		if !m.Match(p, k) {
			return false
		}
	}
	return true
}

// orMatcher matches where any operand matches, short-circuiting.
type orMatcher struct{ operands []Matcher }

// Or returns a matcher that matches where any of ms matches.
func Or(ms ...Matcher) Matcher { return orMatcher{operands: ms} }

func (o orMatcher) Match(p *path.Path, k streamer.MatchedKind) bool {
	for _, m := range o.operands {
		if m.Match(p, k) {
			return true
		}
	}
	return false
}

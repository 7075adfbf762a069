package matcher

import (
	"github.com/arnodel/streamson/path"
	"github.com/arnodel/streamson/streamer"
)

// Depth matches purely on nesting depth, regardless of path shape:
// min..=max, with an open-ended max when Max is nil.
type Depth struct {
	Min int
	Max *int
}

// NewDepth returns a Depth matcher for the inclusive range [min, max].
// A nil max means unbounded.
func NewDepth(min int, max *int) *Depth {
	return &Depth{Min: min, Max: max}
}

// Match implements Matcher.
func (d *Depth) Match(p *path.Path, _ streamer.MatchedKind) bool {
	depth := p.Depth()
	if depth < d.Min {
		return false
	}
	if d.Max != nil && depth > *d.Max {
		return false
	}
	return true
}

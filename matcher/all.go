package matcher

import (
	"github.com/arnodel/streamson/path"
	"github.com/arnodel/streamson/streamer"
)

// All matches every position in the document, so a handler registered
// with it through a strategy's AddMatcher runs for every value. The
// All strategy (strategy.NewAll) takes no matcher and does not use it.
type All struct{}

// Match implements Matcher; it always returns true.
func (All) Match(*path.Path, streamer.MatchedKind) bool { return true }

//go:build streamsonregex

package matcher

import (
	"regexp"

	"github.com/arnodel/streamson/path"
	"github.com/arnodel/streamson/streamer"
)

// Regex matches the rendered form of the path (e.g. `{"users"}[3]{"name"}`)
// against an anchored regular expression. It is built behind the
// streamsonregex tag so that a caller who never needs it doesn't pay
// for stdlib regexp compilation or its binary size.
type Regex struct {
	re *regexp.Regexp
}

// NewRegex compiles expr and anchors it to match the whole rendered
// path (callers needn't write leading/trailing `^`/`$`).
func NewRegex(expr string) (*Regex, error) {
	re, err := regexp.Compile("^(?:" + expr + ")$")
	if err != nil {
		return nil, err
	}
	return &Regex{re: re}, nil
}

// Match implements Matcher.
func (m *Regex) Match(p *path.Path, _ streamer.MatchedKind) bool {
	return m.re.MatchString(p.String())
}

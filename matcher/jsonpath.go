// JSONPath wires github.com/theory/jsonpath, an RFC 9535 engine, into
// the matcher algebra. The streamer never materializes the document
// being scanned, so JSONPath.Match cannot run the query against real
// decoded values; instead it builds a minimal skeleton value that has
// exactly the current path's shape (nested maps/slices bottoming out
// in a sentinel leaf) and asks the compiled query to select against
// that skeleton. A selection that contains the sentinel leaf means the
// path shape satisfies the query's structural segments (names,
// indices, wildcards, slices, unions, recursive descent); the other
// positions of a skeleton slice hold nil and do not count. Value-predicate
// selectors (e.g. `[?(@.age>18)]`) cannot be evaluated this way, since
// the real scalar is never known to the matcher — they are tested
// against the skeleton, so their result does not reflect the
// document's values: callers who need value predicates belong in a
// Convert/Extract handler that inspects the emitted bytes instead.
package matcher

import (
	"github.com/theory/jsonpath"

	"github.com/arnodel/streamson/path"
	"github.com/arnodel/streamson/streamer"
)

// JSONPath matches paths whose shape satisfies a parsed RFC 9535 query.
type JSONPath struct {
	expr string
	p    *jsonpath.Path
}

// sentinel is the leaf value every skeleton bottoms out in.
type sentinel struct{}

// NewJSONPath parses expr (e.g. `$.users[*].name`) into a JSONPath matcher.
func NewJSONPath(expr string) (*JSONPath, error) {
	p, err := jsonpath.Parse(expr)
	if err != nil {
		return nil, err
	}
	return &JSONPath{expr: expr, p: p}, nil
}

// String returns the original query text.
func (m *JSONPath) String() string { return m.expr }

// Match implements Matcher.
func (m *JSONPath) Match(p *path.Path, _ streamer.MatchedKind) bool {
	for _, v := range m.p.Select(buildSkeleton(p, 0)) {
		if _, ok := v.(sentinel); ok {
			return true
		}
	}
	return false
}

func buildSkeleton(p *path.Path, depth int) any {
	if depth >= p.Depth() {
		return sentinel{}
	}
	e := p.At(depth)
	child := buildSkeleton(p, depth+1)
	if e.IsKey() {
		return map[string]any{string(e.KeyBytes()): child}
	}
	n := int(e.IndexValue())
	slice := make([]any, n+1)
	slice[n] = child
	return slice
}

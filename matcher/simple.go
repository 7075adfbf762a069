package matcher

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arnodel/streamson/path"
	"github.com/arnodel/streamson/streamer"
)

type segKind int

const (
	segKey       segKind = iota // {"literal"}
	segAnyKey                   // {}
	segIndexSet                 // [N] or [N1,N2-N3]
	segAnyIndex                 // []
	segAnyOne                   // ?
	segAnyRest                  // *  (must be the last segment)
)

type indexRange struct{ lo, hi uint64 }

type segment struct {
	kind    segKind
	literal []byte
	ranges  []indexRange
}

func (r indexRange) contains(i uint64) bool { return i >= r.lo && i <= r.hi }

// Simple is a textual path-matching pattern whose segments align one
// to one with the whole path (only a trailing * absorbs extra
// elements), e.g. `{"users"}[]{"name"}`, with wildcards:
//
//	{"key"}   an exact object key
//	{}        any single object key
//	[N]       exact array index, or a comma-separated list/range such
//	          as [1,4-6]
//	[]        any single array index
//	?         any single element, key or index
//	*         any run of zero or more trailing elements (must be last)
type Simple struct {
	pattern  string
	segments []segment
}

// NewSimple parses pattern into a Simple matcher.
func NewSimple(pattern string) (*Simple, error) {
	segs, err := parseSimple(pattern)
	if err != nil {
		return nil, err
	}
	return &Simple{pattern: pattern, segments: segs}, nil
}

// String returns the original pattern text.
func (m *Simple) String() string { return m.pattern }

// Match implements Matcher.
func (m *Simple) Match(p *path.Path, _ streamer.MatchedKind) bool {
	depth := p.Depth()
	si := 0
	for i := 0; i < depth; i++ {
		if si >= len(m.segments) {
			return false
		}
		seg := m.segments[si]
		if seg.kind == segAnyRest {
			return true
		}
		if !segMatches(seg, p.At(i)) {
			return false
		}
		si++
	}
	if si == len(m.segments) {
		return true
	}
	return si == len(m.segments)-1 && m.segments[si].kind == segAnyRest
}

func segMatches(seg segment, e path.Element) bool {
	switch seg.kind {
	case segKey:
		return e.IsKey() && string(e.KeyBytes()) == string(seg.literal)
	case segAnyKey:
		return e.IsKey()
	case segIndexSet:
		if !e.IsIndex() {
			return false
		}
		for _, r := range seg.ranges {
			if r.contains(e.IndexValue()) {
				return true
			}
		}
		return false
	case segAnyIndex:
		return e.IsIndex()
	case segAnyOne:
		return true
	default:
		return false
	}
}

func parseSimple(pattern string) ([]segment, error) {
	var segs []segment
	i := 0
	for i < len(pattern) {
		switch pattern[i] {
		case '{':
			j := i + 1
			if j < len(pattern) && pattern[j] == '}' {
				segs = append(segs, segment{kind: segAnyKey})
				i = j + 1
				continue
			}
			if j >= len(pattern) || pattern[j] != '"' {
				return nil, fmt.Errorf("matcher: simple: expected '\"' or '}' at byte %d in %q", j, pattern)
			}
			j++
			start := j
			for j < len(pattern) {
				if pattern[j] == '\\' && j+1 < len(pattern) {
					j += 2
					continue
				}
				if pattern[j] == '"' {
					break
				}
				j++
			}
			if j >= len(pattern) || j+1 >= len(pattern) || pattern[j] != '"' || pattern[j+1] != '}' {
				return nil, fmt.Errorf("matcher: simple: unterminated key segment at byte %d in %q", i, pattern)
			}
			segs = append(segs, segment{kind: segKey, literal: []byte(pattern[start:j])})
			i = j + 2
		case '[':
			j := i + 1
			for j < len(pattern) && pattern[j] != ']' {
				j++
			}
			if j >= len(pattern) {
				return nil, fmt.Errorf("matcher: simple: unterminated index segment at byte %d in %q", i, pattern)
			}
			inner := pattern[i+1 : j]
			if inner == "" {
				segs = append(segs, segment{kind: segAnyIndex})
			} else {
				ranges, err := parseIndexRanges(inner)
				if err != nil {
					return nil, fmt.Errorf("matcher: simple: %w in %q", err, pattern)
				}
				segs = append(segs, segment{kind: segIndexSet, ranges: ranges})
			}
			i = j + 1
		case '?':
			segs = append(segs, segment{kind: segAnyOne})
			i++
		case '*':
			segs = append(segs, segment{kind: segAnyRest})
			i++
			if i != len(pattern) {
				return nil, fmt.Errorf("matcher: simple: '*' must be the last segment in %q", pattern)
			}
		default:
			return nil, fmt.Errorf("matcher: simple: unexpected byte %q at %d in %q", pattern[i], i, pattern)
		}
	}
	return segs, nil
}

func parseIndexRanges(inner string) ([]indexRange, error) {
	var ranges []indexRange
	for _, part := range strings.Split(inner, ",") {
		if dash := strings.IndexByte(part, '-'); dash >= 0 {
			lo, err := strconv.ParseUint(part[:dash], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid range start %q: %w", part, err)
			}
			hi, err := strconv.ParseUint(part[dash+1:], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid range end %q: %w", part, err)
			}
			ranges = append(ranges, indexRange{lo: lo, hi: hi})
		} else {
			n, err := strconv.ParseUint(part, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid index %q: %w", part, err)
			}
			ranges = append(ranges, indexRange{lo: n, hi: n})
		}
	}
	return ranges, nil
}

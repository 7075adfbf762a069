// Package path implements the Streamson path grammar: a stack of
// elements describing where a streamer's cursor currently sits inside
// a JSON document.
//
// A path renders as a concatenation of elements, each either
// `{"key"}` (an object member, with the raw on-wire bytes between the
// quotes, escapes untouched) or `[idx]` (an array index). The empty
// path renders as the empty string and denotes the document root.
package path

import (
	"bytes"
	"fmt"
	"strconv"
)

// Kind discriminates the two element shapes a Path can hold.
type Kind int

const (
	// KindKey selects an object member by its raw on-wire key bytes.
	KindKey Kind = iota
	// KindIndex selects an array element by position.
	KindIndex
)

// Element is a single step of a Path: either a key or an index.
// The zero value is not meaningful; construct with Key or Index.
type Element struct {
	kind  Kind
	key   []byte
	index uint64
}

// Key returns an object-member path element. raw is the exact bytes
// that appeared between the quotes on the wire, escapes included.
func Key(raw []byte) Element {
	cp := make([]byte, len(raw))
	copy(cp, raw)
	return Element{kind: KindKey, key: cp}
}

// Index returns an array-element path element.
func Index(i uint64) Element {
	return Element{kind: KindIndex, index: i}
}

// IsKey reports whether e selects an object member.
func (e Element) IsKey() bool { return e.kind == KindKey }

// IsIndex reports whether e selects an array element.
func (e Element) IsIndex() bool { return e.kind == KindIndex }

// KeyBytes returns the raw key bytes. Panics if e is not a key element.
func (e Element) KeyBytes() []byte {
	if e.kind != KindKey {
		panic("path: KeyBytes on an index element")
	}
	return e.key
}

// IndexValue returns the array index. Panics if e is not an index element.
func (e Element) IndexValue() uint64 {
	if e.kind != KindIndex {
		panic("path: IndexValue on a key element")
	}
	return e.index
}

// Equal reports whether e and other select the same step.
func (e Element) Equal(other Element) bool {
	if e.kind != other.kind {
		return false
	}
	if e.kind == KindKey {
		return bytes.Equal(e.key, other.key)
	}
	return e.index == other.index
}

// String renders e in the on-wire grammar, e.g. `{"name"}` or `[3]`.
func (e Element) String() string {
	if e.kind == KindKey {
		return "{\"" + string(e.key) + "\"}"
	}
	return "[" + strconv.FormatUint(e.index, 10) + "]"
}

// Path is a stack of Elements describing the current cursor position.
// The zero value is the empty path (the document root).
type Path struct {
	elems []Element
}

// New returns an empty path.
func New() *Path { return &Path{} }

// Depth returns the number of elements currently on the path.
func (p *Path) Depth() int { return len(p.elems) }

// Push appends e as the new deepest element.
func (p *Path) Push(e Element) { p.elems = append(p.elems, e) }

// Pop removes and returns the deepest element. ok is false on an empty path.
func (p *Path) Pop() (e Element, ok bool) {
	n := len(p.elems)
	if n == 0 {
		return Element{}, false
	}
	e = p.elems[n-1]
	p.elems = p.elems[:n-1]
	return e, true
}

// Last returns the deepest element without removing it.
func (p *Path) Last() (Element, bool) {
	n := len(p.elems)
	if n == 0 {
		return Element{}, false
	}
	return p.elems[n-1], true
}

// At returns the element at depth i (0 is the outermost element).
func (p *Path) At(i int) Element { return p.elems[i] }

// Clone returns an independent copy of p, safe to retain across
// further mutation of p (used by strategies to snapshot a matched path).
func (p *Path) Clone() *Path {
	cp := make([]Element, len(p.elems))
	copy(cp, p.elems)
	return &Path{elems: cp}
}

// Equal reports whether p and other denote the same sequence of elements.
func (p *Path) Equal(other *Path) bool {
	if other == nil {
		return p.Depth() == 0
	}
	if len(p.elems) != len(other.elems) {
		return false
	}
	for i := range p.elems {
		if !p.elems[i].Equal(other.elems[i]) {
			return false
		}
	}
	return true
}

// String renders the full path in the on-wire grammar.
func (p *Path) String() string {
	var b bytes.Buffer
	for _, e := range p.elems {
		b.WriteString(e.String())
	}
	return b.String()
}

// Parse parses the rendered form of a path back into a Path. It is
// the exact inverse of String: Parse(p.String()) always yields a path
// Equal to p.
func Parse(s string) (*Path, error) {
	p := New()
	i := 0
	for i < len(s) {
		switch s[i] {
		case '{':
			if i+1 >= len(s) || s[i+1] != '"' {
				return nil, fmt.Errorf("path: malformed key element at byte %d", i)
			}
			j := i + 2
			var key []byte
			for j < len(s) {
				if s[j] == '\\' && j+1 < len(s) {
					key = append(key, s[j], s[j+1])
					j += 2
					continue
				}
				if s[j] == '"' {
					break
				}
				key = append(key, s[j])
				j++
			}
			if j+1 >= len(s) || s[j] != '"' || s[j+1] != '}' {
				return nil, fmt.Errorf("path: unterminated key element at byte %d", i)
			}
			p.Push(Key(key))
			i = j + 2
		case '[':
			j := i + 1
			for j < len(s) && s[j] != ']' {
				j++
			}
			if j >= len(s) {
				return nil, fmt.Errorf("path: unterminated index element at byte %d", i)
			}
			n, err := strconv.ParseUint(s[i+1:j], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("path: invalid index at byte %d: %w", i, err)
			}
			p.Push(Index(n))
			i = j + 1
		default:
			return nil, fmt.Errorf("path: unexpected byte %q at %d", s[i], i)
		}
	}
	return p, nil
}

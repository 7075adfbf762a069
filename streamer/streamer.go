// Package streamer implements the resumable, byte-fed JSON lexer at
// the core of streamson: a push-based state machine that accepts
// input in arbitrarily sized chunks (including single bytes) and
// yields a token at a time, carrying the live Path of the cursor and
// the absolute byte offset each token was produced at.
package streamer

import (
	"github.com/arnodel/streamson/internal/debug"
	"github.com/arnodel/streamson/path"
	"github.com/arnodel/streamson/streamsonerr"
)

// MatchedKind identifies the JSON value kind a Start/End token refers
// to, determined from the first non-whitespace byte of the value.
type MatchedKind int

const (
	KindObject MatchedKind = iota
	KindArray
	KindString
	KindNumber
	KindBoolean
	KindNull
)

func (k MatchedKind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindNull:
		return "null"
	default:
		return "unknown"
	}
}

// TokenType discriminates the shapes an Output can take.
type TokenType int

const (
	// Start marks the first non-whitespace byte of a value.
	Start TokenType = iota
	// End marks the byte index just past the last byte of a value.
	End
	// Separator marks a structural ':' or ',' byte.
	Separator
	// Pending reports that the fed bytes ran out mid-token; Feed more
	// and call Read again.
	Pending
	// Idle reports that a root value has just closed and another one
	// starts immediately after it, with no error: the seam between two
	// concatenated documents fed back to back. The next Read begins the
	// new document's own Start token.
	Idle
)

// Output is one token produced by Read.
type Output struct {
	Type TokenType
	// Index is the absolute byte offset (counted from the first byte
	// ever fed) at which this token occurs.
	Index int
	// Kind is valid for Start and End tokens.
	Kind MatchedKind
	// Char is the structural byte (':' or ',') for a Separator token.
	Char byte
}

type objState int

const (
	objExpectKeyOrEnd objState = iota
	objExpectColon
	objExpectValue
	objExpectCommaOrEnd
)

type arrState int

const (
	arrExpectValueOrEnd arrState = iota
	arrExpectCommaOrEnd
)

type frameKind int

const (
	frameObject frameKind = iota
	frameArray
)

type frame struct {
	kind  frameKind
	obj   objState
	arr   arrState
	count int
}

type leaf struct {
	kind   MatchedKind
	isKey  bool
	escape bool
	data   []byte // accumulated only when isKey

	litWant string
	litPos  int
}

// Streamer is a resumable JSON lexer. The zero value is not usable;
// construct with New.
type Streamer struct {
	buf  []byte
	base int // absolute index corresponding to buf[0]
	pos  int // scan cursor within buf

	path *path.Path
	// popPending defers popping the Path element that belonged to the
	// value just closed, so that CurrentPath() still reflects it for
	// the duration of the call that returned the End token.
	popPending bool

	stack []*frame
	leaf  *leaf

	rootStarted bool
	rootDone    bool
	terminated  bool
}

// New returns an empty Streamer positioned at the start of a document.
func New() *Streamer {
	return &Streamer{path: path.New()}
}

// Feed appends more input bytes to be scanned by subsequent Read calls.
func (s *Streamer) Feed(data []byte) {
	if len(data) == 0 {
		return
	}
	s.buf = append(s.buf, data...)
}

// CurrentPath returns the path active at the cursor's current
// position. Immediately after Read returns an End token, CurrentPath
// still includes the element that value occupied; it is popped at the
// start of the next Read call.
func (s *Streamer) CurrentPath() *path.Path { return s.path }

func (s *Streamer) absolute(localPos int) int { return s.base + localPos }

func (s *Streamer) pushFrame(k frameKind) {
	s.stack = append(s.stack, &frame{kind: k})
}

func (s *Streamer) topFrame() *frame {
	if len(s.stack) == 0 {
		return nil
	}
	return s.stack[len(s.stack)-1]
}

func (s *Streamer) popFrame() {
	s.stack = s.stack[:len(s.stack)-1]
}

// compact drops bytes already fully consumed so buf doesn't grow
// unboundedly across a long session.
func (s *Streamer) compact() {
	if s.pos == 0 {
		return
	}
	s.base += s.pos
	s.buf = append(s.buf[:0], s.buf[s.pos:]...)
	s.pos = 0
}

func classify(b byte) (MatchedKind, bool) {
	switch {
	case b == '"':
		return KindString, true
	case b == '{':
		return KindObject, true
	case b == '[':
		return KindArray, true
	case b == 't' || b == 'f':
		return KindBoolean, true
	case b == 'n':
		return KindNull, true
	case b == '-' || (b >= '0' && b <= '9'):
		return KindNumber, true
	default:
		return 0, false
	}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func isNumberByte(b byte) bool {
	switch b {
	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9', '-', '+', '.', 'e', 'E':
		return true
	}
	return false
}

// Read scans forward and returns the next token, or a Pending token
// if the fed bytes ran out mid-token. Call Feed to supply more bytes
// and call Read again; Read never blocks.
func (s *Streamer) Read() (Output, error) {
	if s.popPending {
		s.path.Pop()
		s.popPending = false
	}

	for {
		if s.leaf != nil {
			done, err := s.continueLeaf()
			if err != nil {
				return Output{}, err
			}
			if !done {
				s.compact()
				return Output{Type: Pending}, nil
			}
			if s.leaf.isKey {
				key := s.leaf.data
				s.leaf = nil
				s.path.Push(path.Key(key))
				f := s.topFrame()
				f.obj = objExpectColon
				continue
			}
			kind := s.leaf.kind
			endIdx := s.absolute(s.pos)
			s.leaf = nil
			s.popPending = true
			debug.Printf("streamer: End %s at %d, path=%s", kind, endIdx, s.path)
			if f := s.topFrame(); f != nil {
				if f.kind == frameObject {
					f.obj = objExpectCommaOrEnd
				} else {
					f.arr = arrExpectCommaOrEnd
				}
			} else {
				s.rootDone = true
			}
			return Output{Type: End, Index: endIdx, Kind: kind}, nil
		}

		for s.pos < len(s.buf) && isSpace(s.buf[s.pos]) {
			s.pos++
		}
		if s.pos >= len(s.buf) {
			s.compact()
			return Output{Type: Pending}, nil
		}
		b := s.buf[s.pos]

		top := s.topFrame()
		if top == nil {
			if s.rootDone {
				if _, ok := classify(b); ok {
					// Another value follows right after the one that just
					// closed: treat this as the seam between two concatenated
					// documents, not an error, and let the next Read start it.
					s.rootDone = false
					s.rootStarted = false
					return Output{Type: Idle, Index: s.absolute(s.pos)}, nil
				}
				return Output{}, &streamsonerr.InputError{
					Index: s.absolute(s.pos), Byte: b,
					Msg: "unexpected trailing byte after root value",
				}
			}
			kind, ok := classify(b)
			if !ok {
				return Output{}, &streamsonerr.InputError{
					Index: s.absolute(s.pos), Byte: b, Msg: "unexpected byte at start of value",
				}
			}
			start := s.absolute(s.pos)
			s.rootStarted = true
			s.beginValue(kind, b)
			debug.Printf("streamer: Start %s at %d", kind, start)
			return Output{Type: Start, Index: start, Kind: kind}, nil
		}

		switch top.kind {
		case frameObject:
			switch top.obj {
			case objExpectKeyOrEnd:
				if b == '}' {
					s.pos++
					idx := s.absolute(s.pos)
					s.popFrame()
					s.popPending = true
					s.afterContainerClose()
					return Output{Type: End, Index: idx, Kind: KindObject}, nil
				}
				if b == '"' {
					s.pos++
					s.leaf = &leaf{kind: KindString, isKey: true}
					continue
				}
				if b == ',' && top.count > 0 {
					s.pos++
					return Output{Type: Separator, Index: s.absolute(s.pos - 1), Char: ','}, nil
				}
				return Output{}, &streamsonerr.InputError{Index: s.absolute(s.pos), Byte: b, Msg: "expected object key or '}'"}
			case objExpectColon:
				if b == ':' {
					s.pos++
					top.obj = objExpectValue
					return Output{Type: Separator, Index: s.absolute(s.pos - 1), Char: ':'}, nil
				}
				return Output{}, &streamsonerr.InputError{Index: s.absolute(s.pos), Byte: b, Msg: "expected ':'"}
			case objExpectValue:
				kind, ok := classify(b)
				if !ok {
					return Output{}, &streamsonerr.InputError{Index: s.absolute(s.pos), Byte: b, Msg: "unexpected byte at start of value"}
				}
				start := s.absolute(s.pos)
				top.count++
				s.beginValue(kind, b)
				return Output{Type: Start, Index: start, Kind: kind}, nil
			case objExpectCommaOrEnd:
				if b == '}' {
					s.pos++
					idx := s.absolute(s.pos)
					s.popFrame()
					s.popPending = true
					s.afterContainerClose()
					return Output{Type: End, Index: idx, Kind: KindObject}, nil
				}
				if b == ',' {
					s.pos++
					top.obj = objExpectKeyOrEnd
					return Output{Type: Separator, Index: s.absolute(s.pos - 1), Char: ','}, nil
				}
				return Output{}, &streamsonerr.InputError{Index: s.absolute(s.pos), Byte: b, Msg: "expected ',' or '}'"}
			}
		case frameArray:
			switch top.arr {
			case arrExpectValueOrEnd:
				if b == ']' {
					s.pos++
					idx := s.absolute(s.pos)
					s.popFrame()
					s.popPending = true
					s.afterContainerClose()
					return Output{Type: End, Index: idx, Kind: KindArray}, nil
				}
				kind, ok := classify(b)
				if !ok {
					return Output{}, &streamsonerr.InputError{Index: s.absolute(s.pos), Byte: b, Msg: "unexpected byte at start of value"}
				}
				start := s.absolute(s.pos)
				s.path.Push(path.Index(uint64(top.count)))
				top.count++
				s.beginValue(kind, b)
				return Output{Type: Start, Index: start, Kind: kind}, nil
			case arrExpectCommaOrEnd:
				if b == ']' {
					s.pos++
					idx := s.absolute(s.pos)
					s.popFrame()
					s.popPending = true
					s.afterContainerClose()
					return Output{Type: End, Index: idx, Kind: KindArray}, nil
				}
				if b == ',' {
					s.pos++
					top.arr = arrExpectValueOrEnd
					return Output{Type: Separator, Index: s.absolute(s.pos - 1), Char: ','}, nil
				}
				return Output{}, &streamsonerr.InputError{Index: s.absolute(s.pos), Byte: b, Msg: "expected ',' or ']'"}
			}
		}
	}
}

// afterContainerClose updates the parent frame's expectation once a
// nested object/array has just closed (mirrors the bookkeeping done
// when a scalar leaf closes).
func (s *Streamer) afterContainerClose() {
	f := s.topFrame()
	if f == nil {
		s.rootDone = true
		return
	}
	if f.kind == frameObject {
		f.obj = objExpectCommaOrEnd
	} else {
		f.arr = arrExpectCommaOrEnd
	}
}

func (s *Streamer) beginValue(kind MatchedKind, first byte) {
	switch kind {
	case KindString:
		s.pos++
		s.leaf = &leaf{kind: KindString}
	case KindObject:
		s.pos++
		s.pushFrame(frameObject)
	case KindArray:
		s.pos++
		s.pushFrame(frameArray)
	case KindBoolean:
		s.pos++
		want := "true"
		if first == 'f' {
			want = "false"
		}
		s.leaf = &leaf{kind: KindBoolean, litWant: want, litPos: 1}
	case KindNull:
		s.pos++
		s.leaf = &leaf{kind: KindNull, litWant: "null", litPos: 1}
	case KindNumber:
		s.pos++
		s.leaf = &leaf{kind: KindNumber}
	}
}

// continueLeaf advances the in-progress scalar/key leaf as far as the
// buffered bytes allow. done is true once the leaf's closing
// condition was observed.
func (s *Streamer) continueLeaf() (done bool, err error) {
	l := s.leaf
	switch l.kind {
	case KindString:
		for s.pos < len(s.buf) {
			b := s.buf[s.pos]
			s.pos++
			if l.escape {
				l.escape = false
				if l.isKey {
					l.data = append(l.data, b)
				}
				continue
			}
			if b == '\\' {
				l.escape = true
				if l.isKey {
					l.data = append(l.data, b)
				}
				continue
			}
			if b == '"' {
				return true, nil
			}
			if b < 0x20 {
				return false, &streamsonerr.InputError{Index: s.absolute(s.pos - 1), Byte: b, Msg: "control byte in string"}
			}
			if l.isKey {
				l.data = append(l.data, b)
			}
		}
		return false, nil
	case KindNumber:
		for s.pos < len(s.buf) {
			if isNumberByte(s.buf[s.pos]) {
				s.pos++
				continue
			}
			return true, nil
		}
		if s.terminated {
			return true, nil
		}
		return false, nil
	case KindBoolean, KindNull:
		for l.litPos < len(l.litWant) {
			if s.pos >= len(s.buf) {
				return false, nil
			}
			if s.buf[s.pos] != l.litWant[l.litPos] {
				return false, &streamsonerr.InputError{Index: s.absolute(s.pos), Byte: s.buf[s.pos], Msg: "malformed literal"}
			}
			s.pos++
			l.litPos++
		}
		return true, nil
	}
	return true, nil
}

// Terminate signals that no more input will ever be fed. A number
// left open at end of input is a valid, complete value (numbers have
// no closing delimiter); any other open leaf or container makes the
// stream Incomplete.
func (s *Streamer) Terminate() error {
	s.terminated = true
	if s.leaf != nil && s.leaf.kind == KindNumber {
		return nil
	}
	if s.leaf != nil || len(s.stack) != 0 || !s.rootStarted {
		return &streamsonerr.IncompleteError{Index: s.absolute(s.pos)}
	}
	return nil
}

// Done reports whether the streamer has produced a complete root
// value and consumed only trailing whitespace since.
func (s *Streamer) Done() bool { return s.rootDone }

package strategy

import (
	"bytes"
	"testing"

	"github.com/arnodel/streamson/handler"
	"github.com/arnodel/streamson/matcher"
	"github.com/arnodel/streamson/path"
	"github.com/arnodel/streamson/streamer"
)

// redactHandler replaces whatever it matches with a fixed literal,
// discarding the original bytes entirely.
type redactHandler struct {
	literal []byte
}

func (r *redactHandler) Start(_ *path.Path, _ handler.MatchID, _ streamer.MatchedKind) ([]byte, error) {
	return r.literal, nil
}
func (r *redactHandler) Feed(_ []byte, _ handler.MatchID) ([]byte, error) { return nil, nil }
func (r *redactHandler) End(_ *path.Path, _ handler.MatchID, _ streamer.MatchedKind) ([]byte, error) {
	return nil, nil
}
func (r *redactHandler) IsConverter() bool { return true }
func (r *redactHandler) Buffering() bool   { return false }

func TestConvertReplacesMatchedValue(t *testing.T) {
	m, err := matcher.NewSimple(`{"name"}`)
	if err != nil {
		t.Fatalf("NewSimple: %v", err)
	}
	conv := NewConvert()
	conv.AddMatcher(m, &redactHandler{literal: []byte(`"REDACTED"`)})

	input := []byte(`{"name": "alice", "age": 30}`)
	pieces, err := conv.Process(input)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if err := conv.Terminate(); err != nil {
		t.Fatalf("Terminate: %v", err)
	}

	got := string(bytes.Join(pieces, nil))
	want := `{"name": "REDACTED", "age": 30}`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestConvertFirstRegisteredMatcherWins(t *testing.T) {
	outer, err := matcher.NewSimple(`{}`)
	if err != nil {
		t.Fatalf("NewSimple: %v", err)
	}
	inner, err := matcher.NewSimple(`{"a"}`)
	if err != nil {
		t.Fatalf("NewSimple: %v", err)
	}
	conv := NewConvert()
	conv.AddMatcher(outer, &redactHandler{literal: []byte(`"OUTER"`)})
	conv.AddMatcher(inner, &redactHandler{literal: []byte(`"INNER"`)})

	input := []byte(`{"a": {"b": 1}}`)
	pieces, err := conv.Process(input)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if err := conv.Terminate(); err != nil {
		t.Fatalf("Terminate: %v", err)
	}

	got := string(bytes.Join(pieces, nil))
	// Both the bare-key wildcard "{}" and the literal {"a"} match the
	// value at {"a"}; "{}" was registered first, so its handler
	// replaces the value — first-registered-matcher-wins.
	want := `{"a": "OUTER"}`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

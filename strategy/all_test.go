package strategy

import (
	"testing"

	"github.com/arnodel/streamson/handler"
	"github.com/arnodel/streamson/path"
	"github.com/arnodel/streamson/streamer"
)

// countingHandler counts how many times each lifecycle method fires
// and records every byte it was fed, without transforming anything.
type countingHandler struct {
	starts, ends int
	fed          []byte
}

func (c *countingHandler) Start(_ *path.Path, _ handler.MatchID, _ streamer.MatchedKind) ([]byte, error) {
	c.starts++
	return nil, nil
}
func (c *countingHandler) Feed(chunk []byte, _ handler.MatchID) ([]byte, error) {
	c.fed = append(c.fed, chunk...)
	return nil, nil
}
func (c *countingHandler) End(_ *path.Path, _ handler.MatchID, _ streamer.MatchedKind) ([]byte, error) {
	c.ends++
	return nil, nil
}
func (c *countingHandler) IsConverter() bool { return false }
func (c *countingHandler) Buffering() bool   { return false }

func TestAllRunsHandlerOverWholeDocument(t *testing.T) {
	ch := &countingHandler{}
	a := NewAll(ch)

	input := []byte(`{"a": [1, 2, {"b": true}], "c": null}`)
	if err := a.Process(input); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if err := a.Terminate(); err != nil {
		t.Fatalf("Terminate: %v", err)
	}

	if ch.starts != 1 {
		t.Fatalf("expected exactly 1 Start call, got %d", ch.starts)
	}
	if ch.ends != 1 {
		t.Fatalf("expected exactly 1 End call, got %d", ch.ends)
	}
	if string(ch.fed) != string(input) {
		t.Fatalf("expected every byte fed verbatim, got %q", ch.fed)
	}
}

func TestAllChunkedFeedIsEquivalent(t *testing.T) {
	ch := &countingHandler{}
	a := NewAll(ch)

	input := []byte(`[1, 2, 3]`)
	for i := 0; i < len(input); i++ {
		if err := a.Process(input[i : i+1]); err != nil {
			t.Fatalf("Process at byte %d: %v", i, err)
		}
	}
	if err := a.Terminate(); err != nil {
		t.Fatalf("Terminate: %v", err)
	}
	if string(ch.fed) != string(input) {
		t.Fatalf("got %q, want %q", ch.fed, input)
	}
}

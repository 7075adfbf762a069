package strategy

import (
	"bytes"
	"testing"

	"github.com/arnodel/streamson/matcher"
)

func joinPieces(pieces [][]byte) string {
	return string(bytes.Join(pieces, nil))
}

func TestFilterDropsFirstKey(t *testing.T) {
	m, err := matcher.NewSimple(`{"a"}`)
	if err != nil {
		t.Fatalf("NewSimple: %v", err)
	}
	f := NewFilter()
	f.AddMatcher(m, nil)

	input := []byte(`{"a": 1, "b": 2}`)
	pieces, err := f.Process(input)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if err := f.Terminate(); err != nil {
		t.Fatalf("Terminate: %v", err)
	}

	got := joinPieces(pieces)
	want := `{ "b": 2}`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFilterDropsMiddleKey(t *testing.T) {
	m, err := matcher.NewSimple(`{"b"}`)
	if err != nil {
		t.Fatalf("NewSimple: %v", err)
	}
	f := NewFilter()
	f.AddMatcher(m, nil)

	input := []byte(`{"a": 1, "b": 2, "c": 3}`)
	pieces, err := f.Process(input)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if err := f.Terminate(); err != nil {
		t.Fatalf("Terminate: %v", err)
	}

	got := joinPieces(pieces)
	want := `{"a": 1, "c": 3}`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFilterDropsLastKey(t *testing.T) {
	m, err := matcher.NewSimple(`{"b"}`)
	if err != nil {
		t.Fatalf("NewSimple: %v", err)
	}
	f := NewFilter()
	f.AddMatcher(m, nil)

	input := []byte(`{"a": 1, "b": 2}`)
	pieces, err := f.Process(input)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if err := f.Terminate(); err != nil {
		t.Fatalf("Terminate: %v", err)
	}

	got := joinPieces(pieces)
	want := `{"a": 1}`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFilterDropsArrayElement(t *testing.T) {
	m, err := matcher.NewSimple(`[1]`)
	if err != nil {
		t.Fatalf("NewSimple: %v", err)
	}
	f := NewFilter()
	f.AddMatcher(m, nil)

	input := []byte(`[1, 2, 3]`)
	pieces, err := f.Process(input)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if err := f.Terminate(); err != nil {
		t.Fatalf("Terminate: %v", err)
	}

	got := joinPieces(pieces)
	want := `[1, 3]`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

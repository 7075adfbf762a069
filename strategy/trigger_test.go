package strategy

import (
	"testing"

	"github.com/arnodel/streamson/handler"
	"github.com/arnodel/streamson/matcher"
)

func TestTriggerObservesWithoutTransforming(t *testing.T) {
	m, err := matcher.NewSimple(`{"name"}`)
	if err != nil {
		t.Fatalf("NewSimple: %v", err)
	}
	buf := handler.NewBuffer()
	tr := NewTrigger()
	tr.AddMatcher(m, buf)

	input := []byte(`{"name": "alice", "age": 30}`)
	if err := tr.Process(input); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if err := tr.Terminate(); err != nil {
		t.Fatalf("Terminate: %v", err)
	}

	p, data, ok := buf.Pop()
	if !ok {
		t.Fatal("expected one buffered match")
	}
	if string(data) != `"alice"` {
		t.Fatalf("got data %q", data)
	}
	if p.String() != `{"name"}` {
		t.Fatalf("got path %q", p.String())
	}
	if _, _, ok := buf.Pop(); ok {
		t.Fatal("expected only one match")
	}
}

func TestTriggerNestedMatchesAllowed(t *testing.T) {
	m, err := matcher.NewSimple(`{}*`)
	if err != nil {
		t.Fatalf("NewSimple: %v", err)
	}
	buf := handler.NewBuffer()
	tr := NewTrigger()
	tr.AddMatcher(m, buf)

	input := []byte(`{"a": {"b": 1}}`)
	if err := tr.Process(input); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if err := tr.Terminate(); err != nil {
		t.Fatalf("Terminate: %v", err)
	}

	var got []string
	for {
		p, data, ok := buf.Pop()
		if !ok {
			break
		}
		got = append(got, p.String()+"="+string(data))
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 nested matches (outer object and inner), got %v", got)
	}
}

func TestTriggerChunkedInputIsEquivalent(t *testing.T) {
	m, err := matcher.NewSimple(`{"x"}`)
	if err != nil {
		t.Fatalf("NewSimple: %v", err)
	}
	buf := handler.NewBuffer()
	tr := NewTrigger()
	tr.AddMatcher(m, buf)

	input := []byte(`{"x": 12345}`)
	for i := 0; i < len(input); i++ {
		if err := tr.Process(input[i : i+1]); err != nil {
			t.Fatalf("Process at byte %d: %v", i, err)
		}
	}
	if err := tr.Terminate(); err != nil {
		t.Fatalf("Terminate: %v", err)
	}
	_, data, ok := buf.Pop()
	if !ok {
		t.Fatal("expected a match")
	}
	if string(data) != "12345" {
		t.Fatalf("got %q", data)
	}
}

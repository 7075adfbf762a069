package streamer

import "testing"

func drain(t *testing.T, s *Streamer) []Output {
	t.Helper()
	var out []Output
	for {
		tok, err := s.Read()
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		if tok.Type == Pending {
			return out
		}
		out = append(out, tok)
	}
}

func TestFlatObject(t *testing.T) {
	s := New()
	s.Feed([]byte(`{"a": 1, "b": true}`))
	toks := drain(t, s)

	want := []TokenType{Start, Separator, Start, End, Separator, Separator, Start, End, End}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Fatalf("token %d: got %v want %v (%+v)", i, toks[i].Type, tt, toks[i])
		}
	}
	if toks[0].Kind != KindObject {
		t.Fatalf("expected outer Start kind Object, got %v", toks[0].Kind)
	}
}

func TestNestedArrayPath(t *testing.T) {
	s := New()
	s.Feed([]byte(`{"users": [{"name": "a"}, {"name": "b"}]}`))

	var pathAtEnds []string
	for {
		tok, err := s.Read()
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		if tok.Type == Pending {
			break
		}
		if tok.Type == End && tok.Kind == KindString {
			pathAtEnds = append(pathAtEnds, s.CurrentPath().String())
		}
	}
	want := []string{`{"users"}[0]{"name"}`, `{"users"}[1]{"name"}`}
	if len(pathAtEnds) != len(want) {
		t.Fatalf("got %v, want %v", pathAtEnds, want)
	}
	for i := range want {
		if pathAtEnds[i] != want[i] {
			t.Fatalf("path %d: got %q want %q", i, pathAtEnds[i], want[i])
		}
	}
}

func TestChunkingInvariance(t *testing.T) {
	doc := []byte(`{"a": [1, 2, {"b": "hello \"world\""}], "c": null, "d": -12.5e3}`)

	full := New()
	full.Feed(doc)
	wantToks := drain(t, full)

	for split := 1; split < len(doc); split++ {
		s := New()
		s.Feed(doc[:split])
		toks := drain(t, s)
		s.Feed(doc[split:])
		toks = append(toks, drain(t, s)...)

		if len(toks) != len(wantToks) {
			t.Fatalf("split %d: got %d tokens, want %d", split, len(toks), len(wantToks))
		}
		for i := range wantToks {
			if toks[i].Type != wantToks[i].Type || toks[i].Index != wantToks[i].Index || toks[i].Kind != wantToks[i].Kind {
				t.Fatalf("split %d: token %d mismatch: got %+v want %+v", split, i, toks[i], wantToks[i])
			}
		}
	}
}

func TestNumberAtEOFNeedsTerminate(t *testing.T) {
	s := New()
	s.Feed([]byte(`42`))
	tok, err := s.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if tok.Type != Start {
		t.Fatalf("expected Start, got %v", tok.Type)
	}
	tok, err = s.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if tok.Type != Pending {
		t.Fatalf("expected Pending before Terminate, got %v", tok.Type)
	}
	if err := s.Terminate(); err != nil {
		t.Fatalf("Terminate: %v", err)
	}
	tok, err = s.Read()
	if err != nil {
		t.Fatalf("Read after Terminate: %v", err)
	}
	if tok.Type != End || tok.Kind != KindNumber {
		t.Fatalf("expected End(number), got %+v", tok)
	}
}

func TestIncompleteOnTerminate(t *testing.T) {
	s := New()
	s.Feed([]byte(`{"a": "unterm`))
	for {
		tok, err := s.Read()
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		if tok.Type == Pending {
			break
		}
	}
	if err := s.Terminate(); err == nil {
		t.Fatal("expected IncompleteError")
	}
}

func TestConcatenatedDocuments(t *testing.T) {
	s := New()
	s.Feed([]byte(`1 "b"`))

	tok, err := s.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if tok.Type != Start || tok.Kind != KindNumber {
		t.Fatalf("expected Start(number), got %+v", tok)
	}
	tok, err = s.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if tok.Type != End || tok.Kind != KindNumber {
		t.Fatalf("expected End(number), got %+v", tok)
	}
	if !s.Done() {
		t.Fatal("expected Done after the first value")
	}

	tok, err = s.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if tok.Type != Idle {
		t.Fatalf("expected Idle at the seam between documents, got %+v", tok)
	}

	tok, err = s.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if tok.Type != Start || tok.Kind != KindString {
		t.Fatalf("expected Start(string) for the second document, got %+v", tok)
	}
	tok, err = s.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if tok.Type != End || tok.Kind != KindString {
		t.Fatalf("expected End(string) for the second document, got %+v", tok)
	}
}

func TestUnbalancedBracket(t *testing.T) {
	s := New()
	s.Feed([]byte(`{"a": 1]`))
	var sawErr bool
	for i := 0; i < 10; i++ {
		tok, err := s.Read()
		if err != nil {
			sawErr = true
			break
		}
		if tok.Type == Pending {
			break
		}
	}
	if !sawErr {
		t.Fatal("expected an input error for mismatched closing bracket")
	}
}

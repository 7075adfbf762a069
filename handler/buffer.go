package handler

import (
	"sync"

	"github.com/arnodel/streamson/path"
	"github.com/arnodel/streamson/streamer"
)

type bufferedMatch struct {
	path *path.Path
	data []byte
}

// Buffer is the reference buffering, non-converting handler: it
// accumulates every byte fed for a match and, once the match ends,
// queues the complete (path, data) pair for retrieval via Pop. It
// exists to exercise and test the buffering contract a real handler
// (e.g. a CSV writer or a file sink) would implement; it performs no
// transformation of its own, so other handlers chained after it in a
// Group see the untouched stream.
type Buffer struct {
	mu    sync.Mutex
	open  map[MatchID]*bufferedMatch
	queue []bufferedMatch
}

// NewBuffer returns an empty Buffer handler.
func NewBuffer() *Buffer { return &Buffer{open: map[MatchID]*bufferedMatch{}} }

func (b *Buffer) Start(p *path.Path, id MatchID, _ streamer.MatchedKind) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.open[id] = &bufferedMatch{path: p.Clone()}
	return nil, nil
}

func (b *Buffer) Feed(chunk []byte, id MatchID) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if m := b.open[id]; m != nil {
		m.data = append(m.data, chunk...)
	}
	return nil, nil
}

func (b *Buffer) End(_ *path.Path, id MatchID, _ streamer.MatchedKind) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if m := b.open[id]; m != nil {
		b.queue = append(b.queue, *m)
		delete(b.open, id)
	}
	return nil, nil
}

// IsConverter implements Handler: Buffer never transforms the stream.
func (b *Buffer) IsConverter() bool { return false }

// Buffering implements Handler: Buffer is the canonical buffering handler.
func (b *Buffer) Buffering() bool { return true }

// Pop removes and returns the oldest completed match, FIFO. ok is
// false if no completed match is queued.
func (b *Buffer) Pop() (p *path.Path, data []byte, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.queue) == 0 {
		return nil, nil, false
	}
	m := b.queue[0]
	b.queue = b.queue[1:]
	return m.path, m.data, true
}

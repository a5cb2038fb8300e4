package memory

import (
	"sync"

	"plesir/internal/domain"
)

// Transcript is an append-only, strictly chronological record of
// conversation turns. Storage is unbounded; callers read a bounded
// recent window for prompt assembly. Safe for concurrent use.
type Transcript struct {
	mu    sync.RWMutex
	turns []domain.Turn
}

// New returns an empty transcript.
func New() *Transcript { return &Transcript{} }

// Append adds a turn to the end of the transcript.
func (t *Transcript) Append(turn domain.Turn) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.turns = append(t.turns, turn)
}

// Recent returns the last n turns in chronological order (oldest first
// within the window), or all turns when fewer than n exist. The returned
// slice is a copy and never aliases internal storage.
func (t *Transcript) Recent(n int) []domain.Turn {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if n <= 0 {
		return nil
	}
	start := len(t.turns) - n
	if start < 0 {
		start = 0
	}
	out := make([]domain.Turn, len(t.turns)-start)
	copy(out, t.turns[start:])
	return out
}

// Len reports the number of stored turns.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.turns)
}

// Clear discards all stored turns.
func (t *Transcript) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.turns = nil
}

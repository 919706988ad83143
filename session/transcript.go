package session

import (
	"sync"

	"github.com/room4-2/tablemate/messages"
)

// Transcript accumulates the turns of one conversation, bounded by a maximum
// turn count. When full, the oldest turn is dropped.
type Transcript struct {
	turns    []messages.Turn
	maxTurns int
	mu       sync.Mutex
}

// NewTranscript creates a transcript holding at most maxTurns turns
func NewTranscript(maxTurns int) *Transcript {
	if maxTurns <= 0 {
		maxTurns = 100
	}
	return &Transcript{
		turns:    make([]messages.Turn, 0),
		maxTurns: maxTurns,
	}
}

// MaxTurns returns the maximum transcript length
func (t *Transcript) MaxTurns() int {
	return t.maxTurns
}

// Append adds a turn to the transcript, evicting the oldest when full
func (t *Transcript) Append(turn messages.Turn) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.turns) >= t.maxTurns {
		t.turns = t.turns[1:]
	}
	t.turns = append(t.turns, turn)
}

// Turns returns a copy of the recorded turns in order
func (t *Transcript) Turns() []messages.Turn {
	t.mu.Lock()
	defer t.mu.Unlock()

	turns := make([]messages.Turn, len(t.turns))
	copy(turns, t.turns)
	return turns
}

// Clear empties the transcript
func (t *Transcript) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.turns = make([]messages.Turn, 0)
}

// Len returns the number of recorded turns
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.turns)
}

// IsEmpty returns true if no turns are recorded
func (t *Transcript) IsEmpty() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.turns) == 0
}

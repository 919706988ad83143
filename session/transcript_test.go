package session_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/room4-2/tablemate/messages"
	"github.com/room4-2/tablemate/session"
)

func TestTranscriptAppendAndRead(t *testing.T) {
	tr := session.NewTranscript(10)
	assert.True(t, tr.IsEmpty())

	tr.Append(messages.Turn{User: "hello", Assistant: "What kind of food would you like?", State: "ask_preference"})
	tr.Append(messages.Turn{User: "spanish food", Assistant: "What price range are you looking for?", State: "ask_preference"})

	turns := tr.Turns()
	require.Len(t, turns, 2)
	assert.Equal(t, "hello", turns[0].User)
	assert.Equal(t, "spanish food", turns[1].User)
	assert.False(t, tr.IsEmpty())
	assert.Equal(t, 2, tr.Len())
}

func TestTranscriptEvictsOldestWhenFull(t *testing.T) {
	tr := session.NewTranscript(3)
	for i := 0; i < 5; i++ {
		tr.Append(messages.Turn{User: fmt.Sprintf("turn %d", i)})
	}

	turns := tr.Turns()
	require.Len(t, turns, 3)
	assert.Equal(t, "turn 2", turns[0].User)
	assert.Equal(t, "turn 4", turns[2].User)
}

func TestTranscriptTurnsReturnsCopy(t *testing.T) {
	tr := session.NewTranscript(10)
	tr.Append(messages.Turn{User: "hello"})

	turns := tr.Turns()
	turns[0].User = "mutated"
	assert.Equal(t, "hello", tr.Turns()[0].User)
}

func TestTranscriptClear(t *testing.T) {
	tr := session.NewTranscript(10)
	tr.Append(messages.Turn{User: "hello"})
	tr.Clear()
	assert.True(t, tr.IsEmpty())
	assert.Empty(t, tr.Turns())
}

func TestTranscriptDefaultCap(t *testing.T) {
	tr := session.NewTranscript(0)
	assert.Equal(t, 100, tr.MaxTurns())
}

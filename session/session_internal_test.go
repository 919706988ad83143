package session

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/room4-2/tablemate/messages"
)

func newBareSession() *ClientSession {
	ctx, cancel := context.WithCancel(context.Background())
	return &ClientSession{
		ID:         "test-session",
		Transcript: NewTranscript(10),
		writeChan:  make(chan any, writeBufferSize),
		CloseChan:  make(chan struct{}),
		ctx:        ctx,
		cancel:     cancel,
	}
}

func TestQueueMessageAfterClose(t *testing.T) {
	cs := newBareSession()
	require.NoError(t, cs.Close())
	assert.True(t, cs.IsClosed())

	// Must be a no-op, not a send on a closed channel
	cs.queueMessage(messages.NewStatusMessage(cs.ID, "pong", ""))
}

func TestQueueMessageConcurrentWithClose(t *testing.T) {
	for i := 0; i < 100; i++ {
		cs := newBareSession()

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				cs.queueMessage(fmt.Sprintf("message %d", j))
			}
		}()
		go func() {
			defer wg.Done()
			cs.Close()
		}()
		wg.Wait()

		assert.True(t, cs.IsClosed())
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	cs := newBareSession()
	require.NoError(t, cs.Close())
	require.NoError(t, cs.Close())
}

package session

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/room4-2/tablemate/dialog"
	"github.com/room4-2/tablemate/messages"
	"github.com/room4-2/tablemate/order"
	"github.com/room4-2/tablemate/textclass"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
)

const (
	writeBufferSize = 256
	writeTimeout    = 10 * time.Second

	// grace period so the write pump can flush the goodbye before the
	// connection goes away
	closeGrace = 250 * time.Millisecond
)

// ClientSession represents a single user's conversation over one
// WebSocket connection. The classifier and machine are shared across
// sessions; the order and state belong to this conversation alone.
type ClientSession struct {
	ID           string
	ClientConn   *websocket.Conn
	Classifier   textclass.Classifier
	Machine      *dialog.Machine
	Order        *order.Order
	State        dialog.State
	Transcript   *Transcript
	CreatedAt    time.Time
	LastActivity time.Time

	// OnTurn, when set, is called after every completed turn with the
	// session id, the new state name and the transcript length.
	OnTurn func(sessionID, state string, turns int)

	newOrder     func() *order.Order
	allowRestart bool

	// Use channels for non-blocking writes
	writeChan chan any

	mu        sync.RWMutex
	closed    bool
	CloseChan chan struct{}
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewClientSession creates a session for one conversation. The newOrder
// factory produces a fresh preference store, used at creation and again
// whenever the user restarts.
func NewClientSession(id string, clientConn *websocket.Conn, classifier textclass.Classifier,
	machine *dialog.Machine, newOrder func() *order.Order, allowRestart bool, maxTranscriptTurns int) (*ClientSession, error) {
	ctx, cancel := context.WithCancel(context.Background())

	clientConn.SetReadLimit(64 * 1024) // 64KB max message
	clientConn.EnableWriteCompression(true)
	clientConn.SetCompressionLevel(6)

	session := &ClientSession{
		ID:           id,
		ClientConn:   clientConn,
		Classifier:   classifier,
		Machine:      machine,
		Order:        newOrder(),
		State:        dialog.StateStart,
		Transcript:   NewTranscript(maxTranscriptTurns),
		CreatedAt:    time.Now(),
		LastActivity: time.Now(),
		newOrder:     newOrder,
		allowRestart: allowRestart,
		writeChan:    make(chan any, writeBufferSize),
		CloseChan:    make(chan struct{}),
		ctx:          ctx,
		cancel:       cancel,
	}

	return session, nil
}

// Start begins the bidirectional message handling
func (cs *ClientSession) Start() {
	go cs.writePump()
	cs.queueMessage(messages.NewStatusMessage(cs.ID, "connected", "Session established"))
	cs.queueMessage(messages.NewReplyMessage(cs.ID, dialog.WelcomeMessage, cs.State.String(), false))
	go cs.handleClientMessages()
}

// writePump handles all outgoing messages in a single goroutine
func (cs *ClientSession) writePump() {
	defer func() {
		// Send close message before exiting
		cs.ClientConn.SetWriteDeadline(time.Now().Add(writeTimeout))
		cs.ClientConn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		)
	}()

	for {
		select {
		case <-cs.CloseChan:
			return
		case msg, ok := <-cs.writeChan:
			if !ok {
				// Channel closed, exit gracefully
				return
			}

			if err := cs.writeMessage(msg); err != nil {
				return
			}

			n := len(cs.writeChan)
			for i := 0; i < n; i++ {
				select {
				case msg, ok := <-cs.writeChan:
					if !ok {
						return
					}
					if err := cs.writeMessage(msg); err != nil {
						return
					}
				default:
					// No more messages, continue outer loop
				}
			}
		}
	}
}

func (cs *ClientSession) writeMessage(msg any) error {
	data, err := sonic.Marshal(msg)
	if err != nil {
		log.Printf("❌ [%s] Failed to encode message: %v", cs.ID[:8], err)
		return nil
	}
	cs.ClientConn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return cs.ClientConn.WriteMessage(websocket.TextMessage, data)
}

// queueMessage adds a message to the write queue (non-blocking). The send
// happens under the lock so Close cannot close the channel between the
// closed check and the send.
func (cs *ClientSession) queueMessage(msg any) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.closed {
		return
	}
	select {
	case cs.writeChan <- msg:
		cs.LastActivity = time.Now()
	default:
		// Queue full, drop message (shouldn't happen with proper sizing)
	}
}

// Close terminates the session and cleans up resources
func (cs *ClientSession) Close() error {
	cs.mu.Lock()
	if cs.closed {
		cs.mu.Unlock()
		return nil
	}
	cs.closed = true
	cs.mu.Unlock()

	cs.cancel()

	// Close the write channel first to stop writePump
	close(cs.writeChan)

	// Signal close (for other goroutines waiting on this)
	close(cs.CloseChan)

	if cs.Transcript != nil {
		cs.Transcript.Clear()
	}

	// Close client connection - don't write close message as writePump is stopped
	if cs.ClientConn != nil {
		cs.ClientConn.Close()
	}

	return nil
}

func (cs *ClientSession) handleClientMessages() {
	defer cs.Close()

	for {
		select {
		case <-cs.CloseChan:
			return
		default:
			_, message, err := cs.ClientConn.ReadMessage()
			if err != nil {
				return
			}

			cs.mu.Lock()
			cs.LastActivity = time.Now()
			cs.mu.Unlock()

			var clientMsg messages.ClientMessage
			if err := sonic.Unmarshal(message, &clientMsg); err != nil {
				cs.queueMessage(messages.NewErrorMessage(cs.ID, messages.ErrCodeInvalidMessage, "Invalid message format"))
				continue
			}

			cs.processClientMessage(&clientMsg)
		}
	}
}

func (cs *ClientSession) processClientMessage(msg *messages.ClientMessage) {
	switch msg.Type {
	case "utterance":
		var payload messages.UtterancePayload
		if err := sonic.Unmarshal(msg.Payload, &payload); err != nil {
			cs.queueMessage(messages.NewErrorMessage(cs.ID, messages.ErrCodeInvalidMessage, "Invalid utterance payload"))
			return
		}
		cs.processUtterance(payload.Text)

	case "control":
		var payload messages.ControlPayload
		if err := sonic.Unmarshal(msg.Payload, &payload); err != nil {
			cs.queueMessage(messages.NewErrorMessage(cs.ID, messages.ErrCodeInvalidMessage, "Invalid control payload"))
			return
		}
		cs.handleControlMessage(&payload)

	default:
		cs.queueMessage(messages.NewErrorMessage(cs.ID, messages.ErrCodeInvalidMessage, "Unknown message type: "+msg.Type))
	}
}

// processUtterance runs one dialog turn: classify, transition, reply.
func (cs *ClientSession) processUtterance(text string) {
	utterance := strings.ToLower(strings.TrimSpace(text))
	if utterance == "" {
		cs.queueMessage(messages.NewErrorMessage(cs.ID, messages.ErrCodeInvalidMessage, "Empty utterance"))
		return
	}

	intent := cs.Classifier.Classify(utterance)
	log.Printf("📥 [%s] %q classified as %s", cs.ID[:8], utterance, intent)

	if cs.allowRestart && intent == textclass.IntentRestart {
		cs.restartConversation("Your order has been cleared. Let's start over. " + dialog.WelcomeMessage)
		return
	}

	response, next := cs.Machine.ProcessTurn(utterance, intent, cs.Order, cs.State)
	cs.State = next
	cs.Transcript.Append(messages.Turn{User: utterance, Assistant: response, State: next.String()})

	if cs.OnTurn != nil {
		cs.OnTurn(cs.ID, next.String(), cs.Transcript.Len())
	}

	done := next.Terminal()
	cs.queueMessage(messages.NewReplyMessage(cs.ID, response, next.String(), done))

	if done {
		log.Printf("✅ [%s] Conversation finished", cs.ID[:8])
		go func() {
			time.Sleep(closeGrace)
			cs.Close()
		}()
	}
}

func (cs *ClientSession) handleControlMessage(payload *messages.ControlPayload) {
	switch payload.Action {
	case "ping":
		cs.queueMessage(messages.NewStatusMessage(cs.ID, "pong", ""))
	case "restart":
		if !cs.allowRestart {
			cs.queueMessage(messages.NewErrorMessage(cs.ID, messages.ErrCodeInvalidMessage, "Restart is disabled"))
			return
		}
		cs.restartConversation("Conversation restarted. " + dialog.WelcomeMessage)
	case "history":
		cs.queueMessage(messages.NewHistoryMessage(cs.ID, cs.Transcript.Turns()))
	default:
		cs.queueMessage(messages.NewErrorMessage(cs.ID, messages.ErrCodeInvalidMessage, "Unknown control action: "+payload.Action))
	}
}

// restartConversation discards the order and transcript and returns to the
// initial state.
func (cs *ClientSession) restartConversation(reply string) {
	cs.Order = cs.newOrder()
	cs.State = dialog.StateStart
	cs.Transcript.Clear()

	log.Printf("🔄 [%s] Conversation restarted", cs.ID[:8])
	cs.queueMessage(messages.NewStatusMessage(cs.ID, "restarted", ""))
	cs.queueMessage(messages.NewReplyMessage(cs.ID, reply, cs.State.String(), false))
}

// IsClosed returns whether the session is closed
func (cs *ClientSession) IsClosed() bool {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.closed
}

package messages

// Error codes
const (
	ErrCodeInvalidMessage = "INVALID_MESSAGE"
	ErrCodeSessionFailed  = "SESSION_FAILED"
	ErrCodeRateLimited    = "RATE_LIMITED"
)

// Message types
const (
	TypeReply   = "reply"
	TypeStatus  = "status"
	TypeError   = "error"
	TypeHistory = "history"
)

// ServerMessage represents a message sent to the frontend client
type ServerMessage struct {
	Type      string      `json:"type"` // "reply", "status", "error", "history"
	SessionID string      `json:"sessionId,omitempty"`
	Payload   interface{} `json:"payload"`
}

// ReplyPayload contains the assistant response for one turn
type ReplyPayload struct {
	Text  string `json:"text"`
	State string `json:"state"`
	Done  bool   `json:"done"` // conversation reached its terminal state
}

// StatusPayload contains status updates
type StatusPayload struct {
	Status  string `json:"status"` // "connected", "restarted", "pong"
	Message string `json:"message,omitempty"`
}

// ErrorPayload contains error information
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Turn is one user/assistant exchange in a transcript
type Turn struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
	State     string `json:"state"`
}

// HistoryPayload contains the conversation transcript so far
type HistoryPayload struct {
	Turns []Turn `json:"turns"`
}

// NewReplyMessage creates a turn response message
func NewReplyMessage(sessionID, text, state string, done bool) *ServerMessage {
	return &ServerMessage{
		Type:      TypeReply,
		SessionID: sessionID,
		Payload: ReplyPayload{
			Text:  text,
			State: state,
			Done:  done,
		},
	}
}

// NewStatusMessage creates a status message
func NewStatusMessage(sessionID, status, message string) *ServerMessage {
	return &ServerMessage{
		Type:      TypeStatus,
		SessionID: sessionID,
		Payload: StatusPayload{
			Status:  status,
			Message: message,
		},
	}
}

// NewErrorMessage creates an error message
func NewErrorMessage(sessionID, code, message string) *ServerMessage {
	return &ServerMessage{
		Type:      TypeError,
		SessionID: sessionID,
		Payload: ErrorPayload{
			Code:    code,
			Message: message,
		},
	}
}

// NewHistoryMessage creates a transcript message
func NewHistoryMessage(sessionID string, turns []Turn) *ServerMessage {
	return &ServerMessage{
		Type:      TypeHistory,
		SessionID: sessionID,
		Payload: HistoryPayload{
			Turns: turns,
		},
	}
}

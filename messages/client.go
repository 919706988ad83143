package messages

import "encoding/json"

// ClientMessage represents a message from the frontend client
type ClientMessage struct {
	Type    string          `json:"type"` // "utterance", "control"
	Payload json.RawMessage `json:"payload"`
}

// UtterancePayload contains one user turn
type UtterancePayload struct {
	Text string `json:"text"`
}

// ControlPayload contains control commands
type ControlPayload struct {
	Action string `json:"action"` // "ping", "restart", "history"
}

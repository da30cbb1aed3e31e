package websocket

import (
	"encoding/json"
	"time"

	"trainvoc-updates/internal/domain"
)

type MessageType string

const (
	TypeUpdateNotes   MessageType = "update_notes"
	TypeStatusRequest MessageType = "status_request"
	TypeStatus        MessageType = "status"
	TypeError         MessageType = "error"
	TypePing          MessageType = "ping"
	TypePong          MessageType = "pong"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// UpdateNotesPayload announces that a new version's notes are available.
type UpdateNotesPayload struct {
	Notes *domain.UpdateNotes `json:"notes"`
}

type StatusPayload struct {
	Status *domain.UpdateStatus `json:"status"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	var payloadBytes json.RawMessage
	if payload != nil {
		bytes, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		payloadBytes = bytes
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now(),
		Payload:   payloadBytes,
	}, nil
}

func (m *Message) UnmarshalPayload(v interface{}) error {
	if m.Payload == nil {
		return nil
	}
	return json.Unmarshal(m.Payload, v)
}

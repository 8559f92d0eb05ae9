package socket

import (
	"bytes"
	"encoding/json"
)

// Events the Hub emits itself.
const (
	EventConnect    = "connect"
	EventDisconnect = "disconnect"
)

// A Message is the JSON object exchanged over a connection.
type Message struct {
	From  string `json:"from,omitempty"`
	To    string `json:"to,omitempty"`
	Event string `json:"event,omitempty"`
	Body  any    `json:"body"`
}

// An EventHandler handles a Message received from the connection connID.
type EventHandler func(msg Message, connID string)

// An EmitOpt addresses a Message passed to Emit.
type EmitOpt func(*Message)

// To sends the Message only to the connection id.
func To(id string) EmitOpt {
	return func(m *Message) {
		m.To = id
	}
}

// From marks the Message as sent by the connection id.
func From(id string) EmitOpt {
	return func(m *Message) {
		m.From = id
	}
}

// hasBody reports whether the body of m is worth sending.
func (m Message) hasBody() bool {
	switch b := m.Body.(type) {
	case nil:
		return false
	case string:
		return b != ""
	case json.RawMessage:
		trimmed := bytes.TrimSpace(b)
		return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
	default:
		return true
	}
}

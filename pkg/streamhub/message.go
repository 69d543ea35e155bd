package streamhub

import (
	"github.com/PrisDen/Trednece-engine/pkg/executor"
	"github.com/PrisDen/Trednece-engine/pkg/types"
)

// MessageType discriminates the two event shapes a subscriber receives:
// a log event for every ExecutionLog emitted, and a status event on
// entering running and on reaching any terminal status.
type MessageType string

const (
	MessageTypeLog    MessageType = "log"
	MessageTypeStatus MessageType = "status"
)

// Message is one event published to a run's subscribers. Only the field
// matching Type is populated.
type Message struct {
	Type   MessageType             `json:"type"`
	Log    *executor.ExecutionLog `json:"log,omitempty"`
	Status types.RunStatus         `json:"status,omitempty"`
	Error  string                  `json:"error,omitempty"`
}

// LogMessage builds a log-typed Message.
func LogMessage(log executor.ExecutionLog) Message {
	return Message{Type: MessageTypeLog, Log: &log}
}

// StatusMessage builds a status-typed Message, optionally carrying an
// error string for a failed terminal status.
func StatusMessage(status types.RunStatus, errMsg string) Message {
	return Message{Type: MessageTypeStatus, Status: status, Error: errMsg}
}

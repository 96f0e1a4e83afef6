package chat

import "time"

// EventType names a session mutation pushed to subscribers.
type EventType string

const (
	EventThreadCreated    EventType = "thread.created"
	EventThreadActivated  EventType = "thread.activated"
	EventThreadDeleted    EventType = "thread.deleted"
	EventThreadUpdated    EventType = "thread.updated"
	EventMessageAppended  EventType = "message.appended"
	EventMessageDelta     EventType = "message.delta"
	EventMessageCompleted EventType = "message.completed"
	EventLoadingChanged   EventType = "loading.changed"
	EventModeChanged      EventType = "mode.changed"
	EventHistoryLoaded    EventType = "history.loaded"
)

// Event describes one observable change of the session.
type Event struct {
	Type     EventType `json:"type"`
	ThreadID string    `json:"threadId,omitempty"`
	Title    string    `json:"title,omitempty"`
	Message  *Message  `json:"message,omitempty"`
	Delta    string    `json:"delta,omitempty"`
	Loading  *bool     `json:"loading,omitempty"`
	Mode     Mode      `json:"mode,omitempty"`
	At       time.Time `json:"at"`
}

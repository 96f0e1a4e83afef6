package chat

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultTitle labels a thread that has no user text yet.
	DefaultTitle = "New Chat"
	// CreatedLabel is the display marker of a freshly created thread.
	CreatedLabel = "Just now"

	titleLimit = 30
	ellipsis   = "..."
)

// Thread is one conversation in the chat history.
type Thread struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"createdAt"`
	Messages  []Message `json:"messages"`
}

// NewThread creates an empty thread titled from the optional prompt.
func NewThread(initialPrompt string) Thread {
	return Thread{
		ID:        uuid.NewString(),
		Title:     DeriveTitle(initialPrompt),
		Date:      CreatedLabel,
		CreatedAt: time.Now().UTC(),
		Messages:  make([]Message, 0, 16),
	}
}

// DeriveTitle shortens text into a thread title. Text longer than 30 runes
// keeps its first 29 runes followed by "...".
func DeriveTitle(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return DefaultTitle
	}
	runes := []rune(trimmed)
	if len(runes) <= titleLimit {
		return trimmed
	}
	return strings.TrimRight(string(runes[:titleLimit-1]), " \t\n") + ellipsis
}

// FirstUserText returns the content of the earliest user message.
func (t Thread) FirstUserText() (string, bool) {
	for _, msg := range t.Messages {
		if msg.Role == RoleUser && strings.TrimSpace(msg.Content) != "" {
			return msg.Content, true
		}
	}
	return "", false
}

// RefreshTitle recomputes the title from the first user message. Threads
// without user text keep their current title.
func (t *Thread) RefreshTitle() {
	if text, ok := t.FirstUserText(); ok {
		t.Title = DeriveTitle(text)
	}
}

// IndexOf returns the position of the message with the given id, or -1.
func (t Thread) IndexOf(messageID string) int {
	for i := range t.Messages {
		if t.Messages[i].ID == messageID {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the thread.
func (t Thread) Clone() Thread {
	t.Messages = CloneMessages(t.Messages)
	return t
}

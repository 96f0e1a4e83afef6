package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// HistoryKey is the storage key of the serialized thread collection.
const HistoryKey = "chat-history"

var ErrMalformedHistory = errors.New("malformed chat history")

// legacyAssistantRole is how older clients tagged assistant turns.
const legacyAssistantRole Role = "ai"

// EncodeHistory serializes threads most-recent-first. Assistant messages that
// have not finished streaming are left out.
func EncodeHistory(threads []Thread) ([]byte, error) {
	out := make([]Thread, 0, len(threads))
	for _, thread := range threads {
		kept := make([]Message, 0, len(thread.Messages))
		for _, msg := range thread.Messages {
			if !msg.Complete() {
				continue
			}
			kept = append(kept, msg)
		}
		thread.Messages = kept
		out = append(out, thread)
	}
	return json.Marshal(out)
}

// DecodeHistory parses a stored thread collection and repairs what it can.
// Threads without an id and messages with an unknown role are dropped.
func DecodeHistory(data []byte) ([]Thread, error) {
	var raw []Thread
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedHistory, err)
	}

	threads := make([]Thread, 0, len(raw))
	for _, thread := range raw {
		if strings.TrimSpace(thread.ID) == "" {
			continue
		}
		messages := make([]Message, 0, len(thread.Messages))
		for _, msg := range thread.Messages {
			fixed, ok := normalizeMessage(msg)
			if !ok {
				continue
			}
			messages = append(messages, fixed)
		}
		thread.Messages = messages
		if thread.Title == "" {
			thread.Title = DefaultTitle
		}
		threads = append(threads, thread)
	}
	return threads, nil
}

func normalizeMessage(msg Message) (Message, bool) {
	if msg.Role == legacyAssistantRole {
		msg.Role = RoleAssistant
	}
	switch msg.Role {
	case RoleUser:
		msg.FullContent = ""
		msg.State = ""
	case RoleAssistant:
		if msg.FullContent == "" {
			msg.FullContent = msg.Content
		}
		if msg.FullContent == "" {
			return Message{}, false
		}
		msg.Content = msg.FullContent
		msg.State = StateComplete
	default:
		return Message{}, false
	}
	return msg, msg.Validate() == nil
}

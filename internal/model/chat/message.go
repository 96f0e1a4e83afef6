package chat

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zhouzirui/z-stylist/backend/internal/model/catalog"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// StreamState tracks an assistant message while its content is revealed.
type StreamState string

const (
	StatePending   StreamState = "pending"
	StateStreaming StreamState = "streaming"
	StateComplete  StreamState = "complete"
)

var (
	ErrUnknownRole       = errors.New("unknown message role")
	ErrUserFullContent   = errors.New("user message must not carry fullContent")
	ErrEmptyFullContent  = errors.New("assistant message requires fullContent")
	ErrContentNotPrefix  = errors.New("assistant content is not a prefix of fullContent")
	ErrUnexpectedStreams = errors.New("user message must not stream")
)

// Message is a single turn inside a thread.
type Message struct {
	ID          string            `json:"id"`
	Role        Role              `json:"role"`
	Content     string            `json:"content"`
	FullContent string            `json:"fullContent,omitempty"`
	Attachment  string            `json:"imageUrl,omitempty"`
	Products    []catalog.Product `json:"products,omitempty"`
	Chips       []string          `json:"chips,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
	State       StreamState       `json:"state,omitempty"`
}

// Kind is the variant view of a message.
type Kind struct {
	Role          Role
	Streams       bool
	HasAttachment bool
	HasProducts   bool
	HasChips      bool
}

// NewUserMessage builds a user turn. attachment may be empty.
func NewUserMessage(content, attachment string) Message {
	return Message{
		ID:         uuid.NewString(),
		Role:       RoleUser,
		Content:    content,
		Attachment: attachment,
		Timestamp:  time.Now().UTC(),
	}
}

// NewAssistantShell builds an assistant message with nothing revealed yet.
func NewAssistantShell(fullContent string, products []catalog.Product, chips []string) Message {
	return Message{
		ID:          uuid.NewString(),
		Role:        RoleAssistant,
		FullContent: fullContent,
		Products:    products,
		Chips:       chips,
		Timestamp:   time.Now().UTC(),
		State:       StatePending,
	}
}

// NewAssistantMessage builds an assistant message that is already complete.
func NewAssistantMessage(content string, products []catalog.Product, chips []string) Message {
	msg := NewAssistantShell(content, products, chips)
	msg.Content = content
	msg.State = StateComplete
	return msg
}

// Kind reports which optional parts the message carries.
func (m Message) Kind() Kind {
	return Kind{
		Role:          m.Role,
		Streams:       m.Role == RoleAssistant && m.State != StateComplete,
		HasAttachment: m.Attachment != "",
		HasProducts:   len(m.Products) > 0,
		HasChips:      len(m.Chips) > 0,
	}
}

// Complete reports whether the visible content has converged.
func (m Message) Complete() bool {
	if m.Role != RoleAssistant {
		return true
	}
	return m.State == StateComplete && m.Content == m.FullContent
}

// Validate checks the role-specific invariants.
func (m Message) Validate() error {
	switch m.Role {
	case RoleUser:
		if m.FullContent != "" {
			return ErrUserFullContent
		}
		if m.State != "" {
			return ErrUnexpectedStreams
		}
	case RoleAssistant:
		if m.FullContent == "" {
			return ErrEmptyFullContent
		}
		if !strings.HasPrefix(m.FullContent, m.Content) {
			return ErrContentNotPrefix
		}
	default:
		return ErrUnknownRole
	}
	return nil
}

// Clone returns a copy that shares no slices with m.
func (m Message) Clone() Message {
	if m.Products != nil {
		m.Products = append([]catalog.Product(nil), m.Products...)
	}
	if m.Chips != nil {
		m.Chips = append([]string(nil), m.Chips...)
	}
	return m
}

// CloneMessages copies a message slice.
func CloneMessages(in []Message) []Message {
	out := make([]Message, len(in))
	for i, m := range in {
		out[i] = m.Clone()
	}
	return out
}

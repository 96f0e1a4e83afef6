package chat

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestDeriveTitleTruncatesLongText(t *testing.T) {
	got := DeriveTitle("Find me a summer outfit for under 5000")
	if got != "Find me a summer outfit for u..." {
		t.Fatalf("unexpected title: %q", got)
	}
}

func TestDeriveTitleShortAndEmpty(t *testing.T) {
	if got := DeriveTitle("  lawn suits  "); got != "lawn suits" {
		t.Fatalf("unexpected short title: %q", got)
	}
	if got := DeriveTitle("   "); got != DefaultTitle {
		t.Fatalf("expected default title, got %q", got)
	}
	exact := "abcdefghijklmnopqrstuvwxyz1234"
	if got := DeriveTitle(exact); got != exact {
		t.Fatalf("30 rune text must not be cut, got %q", got)
	}
}

func TestDeriveTitleCountsRunes(t *testing.T) {
	text := strings.Repeat("é", 40)
	got := []rune(DeriveTitle(text))
	if len(got) != 32 {
		t.Fatalf("expected 29 runes plus ellipsis, got %d", len(got))
	}
}

func TestRefreshTitleUsesFirstUserMessage(t *testing.T) {
	thread := NewThread("")
	thread.Messages = append(thread.Messages,
		NewAssistantMessage("welcome", nil, nil),
		NewUserMessage("first question", ""),
		NewUserMessage("second question", ""),
	)
	thread.RefreshTitle()
	if thread.Title != "first question" {
		t.Fatalf("unexpected title: %q", thread.Title)
	}
}

func TestMessageValidate(t *testing.T) {
	user := NewUserMessage("hi", "")
	if err := user.Validate(); err != nil {
		t.Fatalf("user message invalid: %v", err)
	}
	user.FullContent = "oops"
	if !errors.Is(user.Validate(), ErrUserFullContent) {
		t.Fatal("expected ErrUserFullContent")
	}

	shell := NewAssistantShell("hello there", nil, nil)
	if err := shell.Validate(); err != nil {
		t.Fatalf("shell invalid: %v", err)
	}
	if shell.Complete() {
		t.Fatal("shell must not be complete")
	}
	shell.Content = "nope"
	if !errors.Is(shell.Validate(), ErrContentNotPrefix) {
		t.Fatal("expected ErrContentNotPrefix")
	}
}

func TestParseMode(t *testing.T) {
	mode, err := ParseMode("wedding")
	if err != nil || mode != ModeWedding {
		t.Fatalf("ParseMode wedding: %v %v", mode, err)
	}
	if _, err := ParseMode("party"); !errors.Is(err, ErrUnknownMode) {
		t.Fatalf("expected ErrUnknownMode, got %v", err)
	}
}

func TestEncodeHistorySkipsStreamingMessages(t *testing.T) {
	thread := NewThread("")
	thread.Messages = append(thread.Messages,
		NewUserMessage("hello", ""),
		NewAssistantShell("partial reply", nil, nil),
	)

	data, err := EncodeHistory([]Thread{thread})
	if err != nil {
		t.Fatalf("EncodeHistory err: %v", err)
	}
	decoded, err := DecodeHistory(data)
	if err != nil {
		t.Fatalf("DecodeHistory err: %v", err)
	}
	if len(decoded[0].Messages) != 1 {
		t.Fatalf("expected only the user message, got %d", len(decoded[0].Messages))
	}
}

func TestDecodeHistoryRepairsLegacyShapes(t *testing.T) {
	raw := []map[string]any{
		{"id": "", "title": "dropped"},
		{
			"id":    "t1",
			"title": "",
			"messages": []map[string]any{
				{"id": "m1", "role": "user", "content": "lawn", "fullContent": "x"},
				{"id": "m2", "role": "ai", "content": "For summer, lawn suits are perfect!"},
				{"id": "m3", "role": "system", "content": "ignored"},
			},
		},
	}
	data, _ := json.Marshal(raw)

	threads, err := DecodeHistory(data)
	if err != nil {
		t.Fatalf("DecodeHistory err: %v", err)
	}
	if len(threads) != 1 {
		t.Fatalf("expected 1 thread, got %d", len(threads))
	}
	msgs := threads[0].Messages
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].FullContent != "" {
		t.Fatal("user fullContent must be cleared")
	}
	if msgs[1].Role != RoleAssistant || !msgs[1].Complete() {
		t.Fatalf("legacy assistant not normalized: %+v", msgs[1])
	}
	if threads[0].Title != DefaultTitle {
		t.Fatalf("expected default title, got %q", threads[0].Title)
	}
}

func TestDecodeHistoryMalformed(t *testing.T) {
	if _, err := DecodeHistory([]byte("{not json")); !errors.Is(err, ErrMalformedHistory) {
		t.Fatalf("expected ErrMalformedHistory, got %v", err)
	}
}

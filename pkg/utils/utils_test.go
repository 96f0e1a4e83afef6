package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSendSSEEventFraming(t *testing.T) {
	rec := httptest.NewRecorder()
	SetupSSEHeaders(rec)
	if err := SendSSEEvent(rec, rec, "message.delta", map[string]string{"delta": "hi"}); err != nil {
		t.Fatalf("SendSSEEvent: %v", err)
	}

	if got := rec.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Fatalf("unexpected content type %q", got)
	}
	want := "event: message.delta\ndata: {\"delta\":\"hi\"}\n\n"
	if rec.Body.String() != want {
		t.Fatalf("unexpected frame %q", rec.Body.String())
	}
	if !rec.Flushed {
		t.Fatal("expected flush")
	}
}

func TestDecodeJSONLimit(t *testing.T) {
	var dst struct {
		Text string `json:"text"`
	}
	body := `{"text":"` + strings.Repeat("a", 64) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	if err := DecodeJSON(httptest.NewRecorder(), req, 16, &dst); err == nil {
		t.Fatal("expected oversized body to fail")
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"text":"ok"}`))
	if err := DecodeJSON(httptest.NewRecorder(), req, 1024, &dst); err != nil || dst.Text != "ok" {
		t.Fatalf("unexpected decode result %q, %v", dst.Text, err)
	}
}

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, http.StatusNotFound, "thread not found")
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), "thread not found") {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}

func TestRespondJSONLogsEncodeFailure(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	rec := httptest.NewRecorder()
	RespondJSON(rec, http.StatusOK, map[string]any{"bad": make(chan int)})

	entries := logs.FilterMessage("failed to encode response").All()
	if len(entries) != 1 {
		t.Fatalf("expected one encode failure log, got %d", len(entries))
	}
}

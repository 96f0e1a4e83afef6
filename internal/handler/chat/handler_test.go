package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/z-stylist/backend/internal/model/catalog"
	"github.com/zhouzirui/z-stylist/backend/internal/model/chat"
	chatservice "github.com/zhouzirui/z-stylist/backend/internal/service/chat"
	"github.com/zhouzirui/z-stylist/backend/internal/service/reply"
	"github.com/zhouzirui/z-stylist/backend/internal/storage"
)

func setupRouter(t *testing.T) (*chi.Mux, *chatservice.Service) {
	t.Helper()
	chatSvc := chatservice.NewService(
		storage.NewMemoryStore(),
		reply.NewMock(catalog.NewMemoryStore(catalog.Seed())),
		chatservice.WithTiming(chatservice.Timing{ReplyDelay: time.Millisecond, ImageDelay: time.Millisecond, ScanDelay: time.Millisecond}),
	)
	chatSvc.Initialize(context.Background())
	t.Cleanup(chatSvc.Close)

	r := chi.NewRouter()
	New(chatSvc).RegisterRoutes(r)
	return r, chatSvc
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestStateReturnsActiveThread(t *testing.T) {
	r, _ := setupRouter(t)
	resp := doJSON(r, http.MethodGet, "/chat/state", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var snap chatservice.Snapshot
	if err := json.Unmarshal(resp.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if snap.CurrentChatID == "" || len(snap.ChatHistory) != 1 {
		t.Fatalf("unexpected state: %+v", snap)
	}
}

func TestSendMessageAccepted(t *testing.T) {
	r, svc := setupRouter(t)
	resp := doJSON(r, http.MethodPost, "/chat/messages", map[string]string{"text": "summer lawn"})
	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.Code)
	}
	svc.Wait()

	msgs := svc.State().Messages
	if len(msgs) != 2 || msgs[0].Content != "summer lawn" || !msgs[1].Complete() {
		t.Fatalf("unexpected messages: %+v", msgs)
	}
}

func TestSendMessageRejectsBlankText(t *testing.T) {
	r, _ := setupRouter(t)
	if resp := doJSON(r, http.MethodPost, "/chat/messages", map[string]string{"text": "   "}); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if resp := doJSON(r, http.MethodPost, "/chat/images", map[string]string{}); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing image, got %d", resp.Code)
	}
}

func TestStartThreadWithoutBody(t *testing.T) {
	r, svc := setupRouter(t)
	resp := doJSON(r, http.MethodPost, "/chat/threads", nil)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	var thread chat.Thread
	json.Unmarshal(resp.Body.Bytes(), &thread)
	if svc.State().CurrentChatID != thread.ID || thread.Title != chat.DefaultTitle {
		t.Fatalf("unexpected thread %+v", thread)
	}
}

func TestUnknownThreadReturnsNotFound(t *testing.T) {
	r, svc := setupRouter(t)
	before := svc.State()

	for _, tc := range []struct{ method, path string }{
		{http.MethodPut, "/chat/threads/missing/active"},
		{http.MethodDelete, "/chat/threads/missing"},
		{http.MethodGet, "/chat/threads/missing"},
	} {
		if resp := doJSON(r, tc.method, tc.path, nil); resp.Code != http.StatusNotFound {
			t.Fatalf("%s %s: expected 404, got %d", tc.method, tc.path, resp.Code)
		}
	}
	if svc.State().CurrentChatID != before.CurrentChatID {
		t.Fatal("unknown thread requests must not change the selection")
	}
}

func TestDeleteActiveThread(t *testing.T) {
	r, svc := setupRouter(t)
	active := svc.State().CurrentChatID

	resp := doJSON(r, http.MethodDelete, "/chat/threads/"+active, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if snap := svc.State(); snap.CurrentChatID != "" || len(snap.ChatHistory) != 0 {
		t.Fatalf("unexpected state after delete: %+v", snap)
	}
}

func TestSetMode(t *testing.T) {
	r, svc := setupRouter(t)
	if resp := doJSON(r, http.MethodPut, "/chat/mode", map[string]string{"mode": "eid"}); resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if svc.Mode() != chat.ModeEid {
		t.Fatalf("expected Eid, got %s", svc.Mode())
	}
	if resp := doJSON(r, http.MethodPut, "/chat/mode", map[string]string{"mode": "Party"}); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestScanAccepted(t *testing.T) {
	r, svc := setupRouter(t)
	if resp := doJSON(r, http.MethodPost, "/chat/scan", nil); resp.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.Code)
	}
	svc.Wait()
	if msgs := svc.State().Messages; len(msgs) != 1 || msgs[0].Role != chat.RoleAssistant {
		t.Fatalf("unexpected messages after scan: %+v", msgs)
	}
}

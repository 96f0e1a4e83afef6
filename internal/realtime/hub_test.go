package realtime

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/zhouzirui/z-stylist/backend/internal/model/chat"
)

func recvEvent(t *testing.T, ch <-chan chat.Event, timeout time.Duration) chat.Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for event")
	}
	return chat.Event{}
}

func TestHubDeliversInOrder(t *testing.T) {
	hub := NewHub(zap.NewNop(), 4)
	client := hub.Subscribe()
	defer hub.Unsubscribe(client)

	hub.Publish(chat.Event{Type: chat.EventThreadCreated, ThreadID: "a"})
	hub.Publish(chat.Event{Type: chat.EventMessageAppended, ThreadID: "a"})

	if got := recvEvent(t, client.Outbound, time.Second); got.Type != chat.EventThreadCreated {
		t.Fatalf("first event: got %s", got.Type)
	}
	if got := recvEvent(t, client.Outbound, time.Second); got.Type != chat.EventMessageAppended {
		t.Fatalf("second event: got %s", got.Type)
	}
}

func TestHubDropsWhenBufferFull(t *testing.T) {
	hub := NewHub(zap.NewNop(), 1)
	client := hub.Subscribe()
	defer hub.Unsubscribe(client)

	done := make(chan struct{})
	go func() {
		hub.Publish(chat.Event{Type: chat.EventMessageDelta, Delta: "a"})
		hub.Publish(chat.Event{Type: chat.EventMessageDelta, Delta: "b"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full client")
	}
	if got := recvEvent(t, client.Outbound, time.Second); got.Delta != "a" {
		t.Fatalf("expected the buffered event, got %q", got.Delta)
	}
}

func TestHubUnsubscribeClosesClient(t *testing.T) {
	hub := NewHub(nil, 0)
	client := hub.Subscribe()
	hub.Unsubscribe(client)
	hub.Unsubscribe(client)

	if hub.Len() != 0 {
		t.Fatalf("expected no clients, got %d", hub.Len())
	}
	select {
	case _, ok := <-client.Outbound:
		if ok {
			t.Fatal("outbound should be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("outbound was not closed")
	}
	<-client.Done()

	hub.Publish(chat.Event{Type: chat.EventModeChanged})
}

package realtime

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zhouzirui/z-stylist/backend/internal/model/chat"
)

const defaultBuffer = 64

// Client is one subscriber of the session event feed.
type Client struct {
	ID       uuid.UUID
	Outbound chan chat.Event
	done     chan struct{}
	once     sync.Once
}

// Done is closed once the client has been removed from the hub.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Hub fans session events out to every connected client. Publish never
// blocks: a client whose buffer is full misses the event.
type Hub struct {
	mu      sync.RWMutex
	logger  *zap.Logger
	clients map[*Client]struct{}
	buffer  int
}

// NewHub builds an empty hub. buffer <= 0 uses the default size.
func NewHub(logger *zap.Logger, buffer int) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Hub{
		logger:  logger.Named("realtime"),
		clients: make(map[*Client]struct{}),
		buffer:  buffer,
	}
}

// Subscribe registers a new client.
func (h *Hub) Subscribe() *Client {
	client := &Client{
		ID:       uuid.New(),
		Outbound: make(chan chat.Event, h.buffer),
		done:     make(chan struct{}),
	}

	h.mu.Lock()
	h.clients[client] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.Debug("client subscribed", zap.String("client", client.ID.String()), zap.Int("clients", count))
	return client
}

// Unsubscribe removes the client and closes its channels. Calling it twice
// is safe.
func (h *Hub) Unsubscribe(client *Client) {
	client.once.Do(func() {
		h.mu.Lock()
		delete(h.clients, client)
		close(client.done)
		close(client.Outbound)
		h.mu.Unlock()
		h.logger.Debug("client unsubscribed", zap.String("client", client.ID.String()))
	})
}

// Publish implements the session Publisher.
func (h *Hub) Publish(event chat.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.Outbound <- event:
		default:
			h.logger.Warn("dropping event; outbound buffer full",
				zap.String("client", c.ID.String()),
				zap.String("event", string(event.Type)))
		}
	}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

package stream

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zhouzirui/z-stylist/backend/internal/realtime"
	chatService "github.com/zhouzirui/z-stylist/backend/internal/service/chat"
	"github.com/zhouzirui/z-stylist/backend/pkg/utils"
)

const heartbeatInterval = 15 * time.Second

// Handler 通过 Server-Sent Events 推送会话事件
type Handler struct {
	chatSvc *chatService.Service
	hub     *realtime.Hub
	logger  *zap.Logger
}

// New creates a new stream handler
func New(chatSvc *chatService.Service, hub *realtime.Hub, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{chatSvc: chatSvc, hub: hub, logger: logger.Named("sse")}
}

// RegisterRoutes 注册事件流路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/chat/events", h.handleEvents)
}

// handleEvents sends a "state" snapshot first and then every session event
// until the client goes away.
func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	client := h.hub.Subscribe()
	defer h.hub.Unsubscribe(client)

	utils.SetupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	h.chatSvc.Initialize(r.Context())
	if err := utils.SendSSEEvent(w, flusher, "state", h.chatSvc.State()); err != nil {
		h.logger.Debug("failed to send initial state", zap.Error(err))
		return
	}
	h.logger.Debug("stream opened", zap.String("client", client.ID.String()))

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			h.logger.Debug("stream closed", zap.String("client", client.ID.String()))
			return
		case <-heartbeat.C:
			if err := utils.SendSSEComment(w, flusher, "ping"); err != nil {
				return
			}
		case event, ok := <-client.Outbound:
			if !ok {
				return
			}
			if err := utils.SendSSEEvent(w, flusher, string(event.Type), event); err != nil {
				h.logger.Debug("failed to send event", zap.Error(err))
				return
			}
		}
	}
}

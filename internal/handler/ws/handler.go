package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/zhouzirui/z-stylist/backend/internal/model/chat"
	"github.com/zhouzirui/z-stylist/backend/internal/realtime"
	chatservice "github.com/zhouzirui/z-stylist/backend/internal/service/chat"
)

const (
	readTimeout  = 60 * time.Second
	writeTimeout = 10 * time.Second
	pingInterval = 30 * time.Second
	maxFrameSize = 10 << 20
)

// Handler WebSocket会话处理器：推送事件并接收客户端命令
type Handler struct {
	chatSvc  *chatservice.Service
	hub      *realtime.Hub
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// New 创建WebSocket处理器
func New(chatSvc *chatservice.Service, hub *realtime.Hub, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		chatSvc: chatSvc,
		hub:     hub,
		logger:  logger.Named("ws"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes 注册WebSocket路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws", h.handleWebSocket)
}

type inboundMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

type commandData struct {
	Text     string `json:"text"`
	Image    string `json:"image"`
	Prompt   string `json:"prompt"`
	ThreadID string `json:"threadId"`
	Mode     string `json:"mode"`
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxFrameSize)

	client := h.hub.Subscribe()
	defer h.hub.Unsubscribe(client)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Only writeLoop writes to conn; replies go through this channel.
	replies := make(chan outgoingMessage, 16)
	go h.writeLoop(ctx, cancel, conn, client, replies)

	h.chatSvc.Initialize(ctx)
	h.reply(ctx, replies, outgoingMessage{Type: "state", Data: h.chatSvc.State()})
	h.logger.Debug("connection opened", zap.String("client", client.ID.String()))

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				h.logger.Warn("read error", zap.Error(err))
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(readTimeout))

		out := h.handleCommand(ctx, &msg)
		if !h.reply(ctx, replies, out) {
			return
		}
	}
}

// handleCommand runs one client command and returns the frame to answer with.
func (h *Handler) handleCommand(ctx context.Context, msg *inboundMessage) outgoingMessage {
	var data commandData
	if len(msg.Data) > 0 {
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return errorMessage("invalid data payload")
		}
	}

	switch msg.Type {
	case "state":
	case "send":
		if !h.chatSvc.SendMessage(ctx, data.Text) {
			return errorMessage("text is required")
		}
	case "image":
		if !h.chatSvc.SendImageMessage(ctx, data.Image) {
			return errorMessage("image is required")
		}
	case "scan":
		h.chatSvc.ScanBarcode(ctx)
	case "new":
		h.chatSvc.StartNewChat(ctx, data.Prompt)
	case "load":
		if !h.chatSvc.LoadChat(data.ThreadID) {
			return errorMessage("thread not found")
		}
	case "delete":
		if !h.chatSvc.DeleteChat(ctx, data.ThreadID) {
			return errorMessage("thread not found")
		}
	case "mode":
		mode, err := chat.ParseMode(data.Mode)
		if err != nil {
			return errorMessage(err.Error())
		}
		h.chatSvc.SetMode(mode)
	default:
		return errorMessage("unsupported message type: " + msg.Type)
	}
	return outgoingMessage{Type: "state", Data: h.chatSvc.State()}
}

func (h *Handler) reply(ctx context.Context, replies chan<- outgoingMessage, msg outgoingMessage) bool {
	msg.Timestamp = time.Now().UnixMilli()
	select {
	case replies <- msg:
		return true
	case <-ctx.Done():
		return false
	}
}

func (h *Handler) writeLoop(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, client *realtime.Client, replies <-chan outgoingMessage) {
	defer cancel()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	write := func(msg outgoingMessage) bool {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(msg); err != nil {
			h.logger.Debug("write failed", zap.Error(err))
			return false
		}
		return true
	}

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-replies:
			if !write(msg) {
				return
			}
		case event, ok := <-client.Outbound:
			if !ok {
				return
			}
			if !write(outgoingMessage{Type: "event", Data: event, Timestamp: event.At.UnixMilli()}) {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}

func errorMessage(message string) outgoingMessage {
	return outgoingMessage{Type: "error", Data: map[string]string{"message": message}}
}

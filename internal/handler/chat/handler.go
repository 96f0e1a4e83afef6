package chat

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/z-stylist/backend/internal/model/chat"
	chatService "github.com/zhouzirui/z-stylist/backend/internal/service/chat"
	"github.com/zhouzirui/z-stylist/backend/pkg/utils"
)

const (
	maxTextBody  = 64 << 10
	maxImageBody = 10 << 20
)

// Handler 聊天会话的HTTP处理器
type Handler struct {
	chatSvc *chatService.Service
}

// New 创建聊天处理器
func New(chatSvc *chatService.Service) *Handler {
	return &Handler{chatSvc: chatSvc}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/chat/state", h.handleState)
	r.Get("/chat/threads", h.handleListThreads)
	r.Post("/chat/threads", h.handleStartThread)
	r.Get("/chat/threads/{threadID}", h.handleGetThread)
	r.Put("/chat/threads/{threadID}/active", h.handleLoadThread)
	r.Delete("/chat/threads/{threadID}", h.handleDeleteThread)
	r.Post("/chat/messages", h.handleSendMessage)
	r.Post("/chat/images", h.handleSendImage)
	r.Post("/chat/scan", h.handleScan)
	r.Put("/chat/mode", h.handleSetMode)
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	h.chatSvc.Initialize(r.Context())
	utils.RespondJSON(w, http.StatusOK, h.chatSvc.State())
}

func (h *Handler) handleListThreads(w http.ResponseWriter, r *http.Request) {
	h.chatSvc.Initialize(r.Context())
	utils.RespondJSON(w, http.StatusOK, h.chatSvc.State().ChatHistory)
}

// handleStartThread 新建会话，prompt 可选
func (h *Handler) handleStartThread(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Prompt string `json:"prompt"`
	}
	if err := utils.DecodeJSON(w, r, maxTextBody, &payload); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	thread := h.chatSvc.StartNewChat(r.Context(), payload.Prompt)
	utils.RespondJSON(w, http.StatusCreated, thread)
}

func (h *Handler) handleGetThread(w http.ResponseWriter, r *http.Request) {
	h.chatSvc.Initialize(r.Context())
	thread, ok := h.chatSvc.Thread(chi.URLParam(r, "threadID"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "thread not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, thread)
}

func (h *Handler) handleLoadThread(w http.ResponseWriter, r *http.Request) {
	if !h.chatSvc.LoadChat(chi.URLParam(r, "threadID")) {
		utils.RespondError(w, http.StatusNotFound, "thread not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, h.chatSvc.State())
}

func (h *Handler) handleDeleteThread(w http.ResponseWriter, r *http.Request) {
	if !h.chatSvc.DeleteChat(r.Context(), chi.URLParam(r, "threadID")) {
		utils.RespondError(w, http.StatusNotFound, "thread not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, h.chatSvc.State())
}

// handleSendMessage 追加用户消息，助手回复通过事件流推送
func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}
	if err := utils.DecodeJSON(w, r, maxTextBody, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(payload.Text) == "" {
		utils.RespondError(w, http.StatusBadRequest, "text is required")
		return
	}

	h.chatSvc.SendMessage(r.Context(), payload.Text)
	utils.RespondJSON(w, http.StatusAccepted, h.chatSvc.State())
}

func (h *Handler) handleSendImage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Image string `json:"image"`
	}
	if err := utils.DecodeJSON(w, r, maxImageBody, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(payload.Image) == "" {
		utils.RespondError(w, http.StatusBadRequest, "image is required")
		return
	}

	h.chatSvc.SendImageMessage(r.Context(), payload.Image)
	utils.RespondJSON(w, http.StatusAccepted, h.chatSvc.State())
}

func (h *Handler) handleScan(w http.ResponseWriter, r *http.Request) {
	h.chatSvc.ScanBarcode(r.Context())
	utils.RespondJSON(w, http.StatusAccepted, h.chatSvc.State())
}

func (h *Handler) handleSetMode(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Mode string `json:"mode"`
	}
	if err := utils.DecodeJSON(w, r, maxTextBody, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	mode, err := chat.ParseMode(payload.Mode)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.chatSvc.SetMode(mode)
	utils.RespondJSON(w, http.StatusOK, map[string]chat.Mode{"mode": h.chatSvc.Mode()})
}

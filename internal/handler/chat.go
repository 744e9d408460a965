package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"estate/internal/model"
	"estate/internal/service"
)

// ChatHandler serves the assistant widget
type ChatHandler struct {
	chatService *service.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// StartSession handles POST /api/v1/chat/sessions
func (h *ChatHandler) StartSession(c *gin.Context) {
	c.JSON(http.StatusCreated, h.chatService.StartSession())
}

// History handles GET /api/v1/chat/sessions/:id/messages
func (h *ChatHandler) History(c *gin.Context) {
	messages, err := h.chatService.History(c.Param("id"))
	if err != nil {
		respondError(c, "Failed to load messages", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session_id": c.Param("id"), "messages": messages})
}

// Send handles POST /api/v1/chat/sessions/:id/messages
func (h *ChatHandler) Send(c *gin.Context) {
	var req model.ChatSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	reply, err := h.chatService.Send(c.Request.Context(), c.Param("id"), req.Message)
	if err != nil {
		respondError(c, "Chat failed", err)
		return
	}
	c.JSON(http.StatusOK, reply)
}

// Stream handles POST /api/v1/chat/sessions/:id/stream. The client sees a
// typing indicator, then the reply, then the contact form for agent requests.
func (h *ChatHandler) Stream(c *gin.Context) {
	var req model.ChatSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	sessionID := c.Param("id")
	if strings.TrimSpace(req.Message) == "" {
		respondError(c, "Chat failed", service.ErrEmptyMessage)
		return
	}
	if _, err := h.chatService.History(sessionID); err != nil {
		respondError(c, "Chat failed", err)
		return
	}

	flusher, ok := startSSE(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	sendSSE(c, "typing", map[string]any{"session_id": sessionID})
	flusher.Flush()

	reply, err := h.chatService.Send(ctx, sessionID, req.Message)
	if err != nil {
		sendSSE(c, "error", map[string]any{"error": err.Error()})
		flusher.Flush()
		return
	}
	sendSSE(c, "message", reply)
	flusher.Flush()

	if task := h.chatService.FollowUp(ctx, reply); task != nil {
		action, err := task.Wait()
		if err != nil {
			return
		}
		sendSSE(c, "contact_form", action)
		flusher.Flush()
	}

	sendSSE(c, "done", nil)
	flusher.Flush()
}

// QuickActions handles GET /api/v1/chat/quick-actions
func (h *ChatHandler) QuickActions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"actions": h.chatService.QuickActions()})
}

package handlers

import (
	"net/http"

	"jetset/models"
	"jetset/services/assistant"
	"jetset/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChatHandler exposes the assistant over HTTP.
type ChatHandler struct {
	Assistant assistant.AssistantService
}

func NewChatHandler(svc assistant.AssistantService) *ChatHandler {
	return &ChatHandler{Assistant: svc}
}

// HandleChat runs one dialogue turn: free text in, rendered reply out. The
// user identity comes from the session token, never from the body.
func (h *ChatHandler) HandleChat(c *gin.Context) {
	logger := utils.GetLogger()

	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid chat request", err.Error())
		return
	}

	userID, exists := c.Get("userID")
	if !exists {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", "no session identity")
		return
	}
	req.UserID = userID.(string)

	resp, err := h.Assistant.ProcessMessage(c.Request.Context(), req)
	if err != nil {
		logger.Error("chat turn failed", zap.String("userID", req.UserID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Chat unavailable", "please try again")
		return
	}
	c.JSON(http.StatusOK, resp)
}

package handlers

import (
	"errors"
	"net/http"

	"cineride/middleware"
	"cineride/models"
	"cineride/services/dialogue"
	"cineride/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChatHandler exposes the dialogue orchestrator over HTTP.
type ChatHandler struct {
	Orchestrator *dialogue.Orchestrator
}

func NewChatHandler(orchestrator *dialogue.Orchestrator) *ChatHandler {
	return &ChatHandler{Orchestrator: orchestrator}
}

// HandleChat processes one dialogue turn for the authenticated user.
func (h *ChatHandler) HandleChat(c *gin.Context) {
	logger := utils.GetLogger()

	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Invalid chat request", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	resp, err := h.Orchestrator.HandleTurn(c.Request.Context(), userID, req.Text)
	if err != nil {
		if errors.Is(err, dialogue.ErrUnauthenticated) {
			utils.JSONError(c, http.StatusUnauthorized, "Authentication required", "missing user identity")
			return
		}
		logger.Error("Chat turn failed", zap.String("userID", userID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Chat unavailable", "unexpected error")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// HandleReset clears the user's dialogue session and stored transcript.
func (h *ChatHandler) HandleReset(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		utils.JSONError(c, http.StatusUnauthorized, "Authentication required", "missing user identity")
		return
	}

	h.Orchestrator.Store.Remove(userID)
	c.JSON(http.StatusOK, gin.H{"message": "reset ok"})
}

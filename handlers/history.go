package handlers

import (
	"net/http"
	"strconv"

	"cineride/services/history"
	"cineride/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HistoryHandler serves stored dialogue transcripts.
type HistoryHandler struct {
	Service *history.Service
}

func NewHistoryHandler(service *history.Service) *HistoryHandler {
	return &HistoryHandler{Service: service}
}

// GetHistory returns the most recent turns for a member, oldest first.
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	logger := utils.GetLogger()

	memberCode := c.Param("memberCode")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	turns, err := h.Service.Recent(c.Request.Context(), memberCode, limit)
	if err != nil {
		logger.Error("Failed to load transcript", zap.String("memberCode", memberCode), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "History unavailable", "could not load transcript")
		return
	}
	if len(turns) == 0 {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, turns)
}

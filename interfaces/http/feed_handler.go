package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"feedhub/usecase"
)

// IFeedHandler defines the interface for feed HTTP handlers
type IFeedHandler interface {
	GetFeed(ctx *gin.Context)
}

type FeedHandler struct {
	feedUseCase usecase.IFeedUseCase
}

// NewFeedHandler creates a new feed handler instance
func NewFeedHandler(feedUseCase usecase.IFeedUseCase) IFeedHandler {
	return &FeedHandler{feedUseCase: feedUseCase}
}

// GetFeed handles GET /api/feed?channels=c1,c2&limit=50&force=true
// Empty channels means the whole subscription set.
func (h *FeedHandler) GetFeed(ctx *gin.Context) {
	var channelIDs []string
	if raw := ctx.Query("channels"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				channelIDs = append(channelIDs, id)
			}
		}
	}

	var limit int64
	if raw := ctx.Query("limit"); raw != "" {
		if val, err := strconv.ParseInt(raw, 10, 64); err == nil {
			limit = val
		}
	}
	force := ctx.Query("force") == "true"

	videos, err := h.feedUseCase.LoadFeed(ctx.Request.Context(), channelIDs, limit, force)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to load feed",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": videos})
}

package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"feedhub/domain/dto"
	"feedhub/usecase"
)

// ISearchHandler defines the interface for search HTTP handlers
type ISearchHandler interface {
	SearchChannels(ctx *gin.Context)
	SearchVideos(ctx *gin.Context)
	FollowSelected(ctx *gin.Context)
}

type SearchHandler struct {
	searchUseCase usecase.ISearchUseCase
}

// NewSearchHandler creates a new search handler instance
func NewSearchHandler(searchUseCase usecase.ISearchUseCase) ISearchHandler {
	return &SearchHandler{searchUseCase: searchUseCase}
}

// SearchChannels handles GET /api/search/channels
func (h *SearchHandler) SearchChannels(ctx *gin.Context) {
	req := &dto.ChannelSearchRequest{
		Query:      ctx.Query("q"),
		PageToken:  pageTokenParam(ctx),
		Order:      ctx.Query("order"),
		RegionCode: ctx.Query("region_code"),
		SafeSearch: ctx.Query("safe_search"),
		MaxResults: maxResultsParam(ctx),
	}
	if req.Query == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter q is required"})
		return
	}

	page, err := h.searchUseCase.SearchChannels(ctx.Request.Context(), req)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to search channels",
			"message": err.Error(),
		})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": page})
}

// SearchVideos handles GET /api/search/videos
func (h *SearchHandler) SearchVideos(ctx *gin.Context) {
	req := &dto.VideoSearchRequest{
		Query:      ctx.Query("q"),
		ChannelID:  ctx.Query("channel_id"),
		PageToken:  pageTokenParam(ctx),
		Order:      ctx.Query("order"),
		MaxResults: maxResultsParam(ctx),
	}
	if req.Query == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter q is required"})
		return
	}

	page, err := h.searchUseCase.SearchVideos(ctx.Request.Context(), req)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to search videos",
			"message": err.Error(),
		})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": page})
}

// FollowSelected handles POST /api/search/channels/follow
func (h *SearchHandler) FollowSelected(ctx *gin.Context) {
	var req struct {
		ChannelIDs []string `json:"channel_ids" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "channel_ids is required"})
		return
	}

	followed, err := h.searchUseCase.FollowSelected(ctx.Request.Context(), req.ChannelIDs)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to follow channels",
			"message": err.Error(),
		})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
		"requested": len(req.ChannelIDs),
		"followed":  followed,
	}})
}

func pageTokenParam(ctx *gin.Context) string {
	token := ctx.Query("page_token")
	if token == "" {
		token = ctx.Query("pageToken")
	}
	return token
}

func maxResultsParam(ctx *gin.Context) int64 {
	raw := ctx.Query("max_results")
	if raw == "" {
		raw = ctx.Query("maxResults")
	}
	if raw == "" {
		return 0
	}
	val, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return val
}

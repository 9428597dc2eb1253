package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"feedhub/usecase"
)

// ISubscriptionHandler defines the interface for subscription HTTP handlers
type ISubscriptionHandler interface {
	GetSubscriptions(ctx *gin.Context)
	Subscribe(ctx *gin.Context)
	Unsubscribe(ctx *gin.Context)
}

type SubscriptionHandler struct {
	subscriptionUseCase usecase.ISubscriptionUseCase
}

// NewSubscriptionHandler creates a new subscription handler instance
func NewSubscriptionHandler(subscriptionUseCase usecase.ISubscriptionUseCase) ISubscriptionHandler {
	return &SubscriptionHandler{subscriptionUseCase: subscriptionUseCase}
}

// GetSubscriptions handles GET /api/subscriptions?page_token=...
func (h *SubscriptionHandler) GetSubscriptions(ctx *gin.Context) {
	pageToken := ctx.Query("page_token")
	if pageToken == "" {
		pageToken = ctx.Query("pageToken")
	}

	page, err := h.subscriptionUseCase.Subscriptions(ctx.Request.Context(), pageToken)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to get subscriptions",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": page})
}

// Subscribe handles POST /api/subscriptions
func (h *SubscriptionHandler) Subscribe(ctx *gin.Context) {
	var req struct {
		ChannelID string `json:"channel_id" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "channel_id is required"})
		return
	}

	if err := h.subscriptionUseCase.Subscribe(ctx.Request.Context(), req.ChannelID); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to subscribe",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// Unsubscribe handles DELETE /api/subscriptions/:subscriptionId
func (h *SubscriptionHandler) Unsubscribe(ctx *gin.Context) {
	subscriptionID := ctx.Param("subscriptionId")
	if subscriptionID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Subscription ID is required"})
		return
	}

	if err := h.subscriptionUseCase.Unsubscribe(ctx.Request.Context(), subscriptionID); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to unsubscribe",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

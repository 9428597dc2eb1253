package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"feedhub/usecase"
)

// IPlaylistHandler defines the interface for playlist HTTP handlers
type IPlaylistHandler interface {
	GetPlaylists(ctx *gin.Context)
	GetPlaylistVideos(ctx *gin.Context)
	CreatePlaylist(ctx *gin.Context)
	DeletePlaylist(ctx *gin.Context)
	AddVideo(ctx *gin.Context)
	RemoveVideo(ctx *gin.Context)
	GetMembership(ctx *gin.Context)
	ToggleSave(ctx *gin.Context)
}

type PlaylistHandler struct {
	playlistUseCase usecase.IPlaylistUseCase
}

// NewPlaylistHandler creates a new playlist handler instance
func NewPlaylistHandler(playlistUseCase usecase.IPlaylistUseCase) IPlaylistHandler {
	return &PlaylistHandler{playlistUseCase: playlistUseCase}
}

// GetPlaylists handles GET /api/playlists
func (h *PlaylistHandler) GetPlaylists(ctx *gin.Context) {
	playlists, err := h.playlistUseCase.Playlists(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to get playlists",
			"message": err.Error(),
		})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": playlists})
}

// GetPlaylistVideos handles GET /api/playlists/:playlistId/videos
func (h *PlaylistHandler) GetPlaylistVideos(ctx *gin.Context) {
	playlistID := ctx.Param("playlistId")
	if playlistID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Playlist ID is required"})
		return
	}

	videos, err := h.playlistUseCase.PlaylistVideos(ctx.Request.Context(), playlistID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to get playlist videos",
			"message": err.Error(),
		})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": videos})
}

// CreatePlaylist handles POST /api/playlists
func (h *PlaylistHandler) CreatePlaylist(ctx *gin.Context) {
	var req struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		Privacy     string `json:"privacy"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	playlist, err := h.playlistUseCase.CreatePlaylist(ctx.Request.Context(), req.Title, req.Description, req.Privacy)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to create playlist",
			"message": err.Error(),
		})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"success": true, "data": playlist})
}

// DeletePlaylist handles DELETE /api/playlists/:playlistId
func (h *PlaylistHandler) DeletePlaylist(ctx *gin.Context) {
	playlistID := ctx.Param("playlistId")
	if playlistID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Playlist ID is required"})
		return
	}

	if err := h.playlistUseCase.DeletePlaylist(ctx.Request.Context(), playlistID); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to delete playlist",
			"message": err.Error(),
		})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// AddVideo handles POST /api/playlists/:playlistId/videos
func (h *PlaylistHandler) AddVideo(ctx *gin.Context) {
	playlistID := ctx.Param("playlistId")
	var req struct {
		VideoID string `json:"video_id" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "video_id is required"})
		return
	}

	if err := h.playlistUseCase.AddToPlaylist(ctx.Request.Context(), playlistID, req.VideoID); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to add video to playlist",
			"message": err.Error(),
		})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// RemoveVideo handles DELETE /api/playlists/:playlistId/videos/:videoId
func (h *PlaylistHandler) RemoveVideo(ctx *gin.Context) {
	playlistID := ctx.Param("playlistId")
	videoID := ctx.Param("videoId")

	if err := h.playlistUseCase.RemoveFromPlaylist(ctx.Request.Context(), playlistID, videoID); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to remove video from playlist",
			"message": err.Error(),
		})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// GetMembership handles GET /api/videos/:videoId/playlists?refresh=true
// Without refresh it answers from the last refreshed state.
func (h *PlaylistHandler) GetMembership(ctx *gin.Context) {
	videoID := ctx.Param("videoId")
	if videoID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Video ID is required"})
		return
	}

	var titles []string
	if ctx.Query("refresh") == "true" {
		refreshed, err := h.playlistUseCase.Refresh(ctx.Request.Context(), videoID)
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Failed to refresh membership",
				"message": err.Error(),
			})
			return
		}
		titles = refreshed
	} else {
		titles = h.playlistUseCase.Membership(videoID)
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
		"video_id":  videoID,
		"playlists": titles,
		"saved":     h.playlistUseCase.IsSaved(videoID),
	}})
}

// ToggleSave handles POST /api/videos/:videoId/save
func (h *PlaylistHandler) ToggleSave(ctx *gin.Context) {
	videoID := ctx.Param("videoId")
	if videoID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Video ID is required"})
		return
	}
	var req struct {
		PlaylistID string `json:"playlist_id"`
	}
	_ = ctx.ShouldBindJSON(&req) // body optional

	saved, err := h.playlistUseCase.ToggleSave(ctx.Request.Context(), videoID, req.PlaylistID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to toggle save",
			"message": err.Error(),
			"data":    gin.H{"saved": saved},
		})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"saved": saved}})
}

package http

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/youtube/v3"

	"feedhub/infrastructure/configuration"
)

// IAuthHandler defines the interface for OAuth authentication handlers
type IAuthHandler interface {
	GetAuthURL(ctx *gin.Context)
	HandleCallback(ctx *gin.Context)
	Status(ctx *gin.Context)
	Logout(ctx *gin.Context)
}

// AuthHandler implements the Google OAuth2 flow and persists the obtained
// token through the file-backed token store. A restart picks the token up
// again via the configuration loader.
type AuthHandler struct {
	oauth2Config *oauth2.Config
	tokens       *configuration.TokenStore
}

// NewAuthHandler creates a new auth handler instance
func NewAuthHandler(tokens *configuration.TokenStore) (IAuthHandler, error) {
	config, err := configuration.GetYouTubeConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to get YouTube config: %w", err)
	}

	scopes := config.Scopes
	if len(scopes) == 0 {
		scopes = []string{youtube.YoutubeScope, youtube.YoutubeForceSslScope}
	}

	oauth2Config := &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		RedirectURL:  config.RedirectURL,
		Scopes:       scopes,
		Endpoint:     google.Endpoint,
	}

	return &AuthHandler{oauth2Config: oauth2Config, tokens: tokens}, nil
}

// GetAuthURL handles GET /auth/youtube
func (h *AuthHandler) GetAuthURL(ctx *gin.Context) {
	state := generateRandomState()
	ctx.SetCookie("oauth_state", state, 600, "/", "", false, true)

	authURL := h.oauth2Config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"auth_url": authURL}})
}

// HandleCallback handles GET /auth/youtube/callback
func (h *AuthHandler) HandleCallback(ctx *gin.Context) {
	if errorParam := ctx.Query("error"); errorParam != "" {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":       fmt.Sprintf("OAuth error: %s", errorParam),
			"description": ctx.Query("error_description"),
		})
		return
	}

	state := ctx.Query("state")
	stored, err := ctx.Cookie("oauth_state")
	if state == "" || err != nil || state != stored {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":  "State parameter missing or mismatched",
			"action": "Visit /auth/youtube to start over",
		})
		return
	}

	code := ctx.Query("code")
	if code == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Authorization code not found"})
		return
	}

	token, err := h.oauth2Config.Exchange(context.Background(), code)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to exchange code for token",
			"message": err.Error(),
		})
		return
	}

	ctx.SetCookie("oauth_state", "", -1, "/", "", false, true)

	if err := h.tokens.Save(token); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to persist token",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"token_type": token.TokenType,
			"expiry":     token.Expiry,
		},
		"message": "Authentication successful. Restart the service to pick up the new credential.",
	})
}

// Status handles GET /api/auth/status
func (h *AuthHandler) Status(ctx *gin.Context) {
	token, err := h.tokens.Load()
	if err != nil || token.RefreshToken == "" {
		ctx.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"authenticated": false}})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
		"authenticated": true,
		"expiry":        token.Expiry,
	}})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(ctx *gin.Context) {
	if err := h.tokens.Delete(); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to remove stored token",
			"message": err.Error(),
		})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

func generateRandomState() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "state-fallback"
	}
	return base64.URLEncoding.EncodeToString(b)
}

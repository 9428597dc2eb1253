package configuration

import (
	"encoding/json"
	"fmt"
	"os"
)

// YouTubeConfig is the credential set the API client is constructed with.
// OAuth tokens take precedence; an API key alone yields a read-only client.
type YouTubeConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	AccessToken  string
	RefreshToken string
	APIKey       string
	Scopes       []string
}

// GetYouTubeConfig assembles credentials from config.json with environment
// fallback, and finally from token.json written by the OAuth callback.
func GetYouTubeConfig() (*YouTubeConfig, error) {
	port := C.App.Port
	if port == 0 {
		port = 10001
	}
	defaultRedirect := fmt.Sprintf("http://localhost:%d/auth/youtube/callback", port)

	config := &YouTubeConfig{
		ClientID:     getConfigValue(C.YouTube.ClientID, "YOUTUBE_CLIENT_ID", ""),
		ClientSecret: getConfigValue(C.YouTube.ClientSecret, "YOUTUBE_CLIENT_SECRET", ""),
		RedirectURL:  getConfigValue(C.YouTube.RedirectURI, "YOUTUBE_REDIRECT_URL", defaultRedirect),
		AccessToken:  getEnv("YOUTUBE_ACCESS_TOKEN", ""),
		RefreshToken: getEnv("YOUTUBE_REFRESH_TOKEN", ""),
		APIKey:       getConfigValue(C.YouTube.APIKey, "YOUTUBE_API_KEY", ""),
		Scopes:       C.YouTube.Scopes,
	}

	if config.AccessToken == "" || config.RefreshToken == "" {
		if data, err := os.ReadFile("token.json"); err == nil {
			var tokenFile struct {
				AccessToken  string `json:"access_token"`
				RefreshToken string `json:"refresh_token"`
			}
			if jsonErr := json.Unmarshal(data, &tokenFile); jsonErr == nil {
				if config.AccessToken == "" {
					config.AccessToken = tokenFile.AccessToken
				}
				if config.RefreshToken == "" {
					config.RefreshToken = tokenFile.RefreshToken
				}
			}
		}
	}

	return config, nil
}

func getConfigValue(fromConfig, envKey, fallback string) string {
	if fromConfig != "" {
		return fromConfig
	}
	return getEnv(envKey, fallback)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

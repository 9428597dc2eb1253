package youtube

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"feedhub/domain/repository"
	"feedhub/infrastructure/logger"
)

// ErrNoCredentials is returned before any network call when the client
// lacks the credential an operation needs: user-scoped calls in
// API-key-only mode, and every call on a client built with no tokens and
// no key at all.
var ErrNoCredentials = errors.New("operation requires credentials")

// batchSize is the remote API's cap on ids per channels/videos list call.
const batchSize = 50

// Config represents YouTube API configuration
type Config struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	RedirectURL  string `json:"redirect_url"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	APIKey       string `json:"api_key"`
}

// TTL groups the cache lifetimes for the client's read paths.
type TTL struct {
	List   time.Duration
	Detail time.Duration
}

// Client talks to the YouTube Data API. Every read goes through the
// request cache keyed by (endpoint, params, credential); every write goes
// straight to the network.
type Client struct {
	service *youtube.Service
	cache   repository.IRequestCache
	limiter *rate.Limiter
	ttl     TTL

	// credential keys the cache by identity. The refresh token is stable
	// per signed-in user; API-key mode uses the key itself.
	credential string

	mu          sync.Mutex
	oauthConfig *oauth2.Config
	token       *oauth2.Token
	ctx         context.Context
}

// NewYouTubeClient creates a new YouTube API client. Without OAuth
// credentials it falls back to API-key-only mode: reads work, writes
// return ErrNoCredentials. With neither tokens nor a key the client is
// built credential-less and every call fails fast with ErrNoCredentials.
func NewYouTubeClient(ctx context.Context, config *Config, reqCache repository.IRequestCache, limiter *rate.Limiter, ttl TTL) (*Client, error) {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}

	if config.AccessToken == "" && config.RefreshToken == "" && config.APIKey == "" {
		return &Client{
			cache:   reqCache,
			limiter: limiter,
			ttl:     ttl,
			ctx:     ctx,
		}, nil
	}

	if (config.AccessToken == "" || config.RefreshToken == "") && config.APIKey != "" {
		service, err := youtube.NewService(ctx, option.WithAPIKey(config.APIKey))
		if err != nil {
			return nil, fmt.Errorf("failed to create YouTube service with API key: %w", err)
		}
		return &Client{
			service:    service,
			cache:      reqCache,
			limiter:    limiter,
			ttl:        ttl,
			credential: "key:" + config.APIKey,
			ctx:        ctx,
		}, nil
	}

	oauth2Config := &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		RedirectURL:  config.RedirectURL,
		Scopes: []string{
			youtube.YoutubeScope,
			youtube.YoutubeForceSslScope,
		},
		Endpoint: google.Endpoint,
	}

	token := &oauth2.Token{
		AccessToken:  config.AccessToken,
		RefreshToken: config.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(-1 * time.Minute), // Force refresh on first use
	}

	httpClient := oauth2Config.Client(ctx, token)
	service, err := youtube.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	return &Client{
		service:     service,
		cache:       reqCache,
		limiter:     limiter,
		ttl:         ttl,
		credential:  "user:" + config.RefreshToken,
		oauthConfig: oauth2Config,
		token:       token,
		ctx:         ctx,
	}, nil
}

// CredentialFingerprint identifies the signed-in credential; it keys every
// cache entry the client writes.
func (c *Client) CredentialFingerprint() string {
	return c.credential
}

// authenticated reports whether the client can perform user-scoped calls.
func (c *Client) authenticated() bool {
	return c.oauthConfig != nil && c.token != nil
}

// refreshTokenIfNeeded refreshes the access token when it is close to
// expiry and rebuilds the service with the fresh token.
func (c *Client) refreshTokenIfNeeded() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.authenticated() {
		return nil
	}
	if !c.token.Expiry.IsZero() && time.Until(c.token.Expiry) >= 5*time.Minute {
		return nil
	}

	newToken, err := c.oauthConfig.TokenSource(c.ctx, c.token).Token()
	if err != nil {
		return fmt.Errorf("failed to refresh token: %w", err)
	}
	c.token = newToken
	httpClient := c.oauthConfig.Client(c.ctx, newToken)
	service, err := youtube.NewService(c.ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return fmt.Errorf("failed to recreate YouTube service with refreshed token: %w", err)
	}
	c.service = service
	logger.GetLogger().WithField("expiry", newToken.Expiry).Info("YouTube token refreshed")
	return nil
}

// requireAuth refreshes the token for a user-scoped call, or fails with
// ErrNoCredentials in API-key mode.
func (c *Client) requireAuth() error {
	if !c.authenticated() {
		return ErrNoCredentials
	}
	return c.refreshTokenIfNeeded()
}

// thumbnailURL picks the best available thumbnail, preferring medium.
func thumbnailURL(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	switch {
	case t.Medium != nil:
		return t.Medium.Url
	case t.High != nil:
		return t.High.Url
	case t.Default != nil:
		return t.Default.Url
	}
	return ""
}

func parseTime(value string) time.Time {
	t, _ := time.Parse(time.RFC3339, value)
	return t
}

// chunkIDs splits ids into batches of at most size.
func chunkIDs(ids []string, size int) [][]string {
	var out [][]string
	for len(ids) > size {
		out = append(out, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		out = append(out, ids)
	}
	return out
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"feedhub/infrastructure/cache"
	youtubeclient "feedhub/infrastructure/clients/youtube"
	"feedhub/infrastructure/configuration"
	"feedhub/infrastructure/logger"
	"feedhub/infrastructure/persistence"
	httpHandler "feedhub/interfaces/http"
	"feedhub/server"
	"feedhub/usecase"
)

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// Load env from files (non-destructive; OS env still has precedence)
	configuration.LoadEnvFromFile("config.env", ".env")

	cfg := configuration.C

	// Durable cache layer. Missing redis means memory-only caching, not a
	// startup failure.
	var durable cache.Layer
	if cfg.RedisClient.Host != "" {
		addr := fmt.Sprintf("%s:%s", cfg.RedisClient.Host, cfg.RedisClient.Port)
		redisClient, err := cache.NewRedisClient(ctx, addr, cfg.RedisClient.Username, cfg.RedisClient.Password)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Redis not available - request cache runs memory-only")
		} else {
			defer redisClient.Close()
			durable = cache.NewRedisLayer(redisClient)
			logger.GetLogger().Info("Redis client initialized successfully")
		}
	}
	requestCache := cache.NewRequestCache(durable)

	ledger, err := persistence.NewLedgerStore(cfg.Ledger.Path)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Ledger db not available - playlist ledger runs memory-only")
		ledger, _ = persistence.NewLedgerStore("")
	}
	defer ledger.Close()

	youtubeConfig, err := configuration.GetYouTubeConfig()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to load YouTube configuration")
		os.Exit(1)
	}
	logger.GetLogger().WithFields(map[string]interface{}{
		"hasRefreshToken": youtubeConfig.RefreshToken != "",
		"hasAPIKey":       youtubeConfig.APIKey != "",
		"clientIDSet":     youtubeConfig.ClientID != "",
	}).Info("Loaded YouTube configuration state")

	var limiter *rate.Limiter
	if cfg.App.RateLimitPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.App.RateLimitPerSecond), 1)
	}

	ttl := youtubeclient.TTL{
		List:   ttlOrDefault(cfg.Cache.ListTTLSeconds, 10*time.Minute),
		Detail: ttlOrDefault(cfg.Cache.DetailTTLSeconds, 5*time.Minute),
	}
	feedTTL := ttlOrDefault(cfg.Cache.FeedTTLSeconds, 10*time.Minute)

	youtubeClient, err := youtubeclient.NewYouTubeClient(ctx, &youtubeclient.Config{
		ClientID:     youtubeConfig.ClientID,
		ClientSecret: youtubeConfig.ClientSecret,
		RedirectURL:  youtubeConfig.RedirectURL,
		AccessToken:  youtubeConfig.AccessToken,
		RefreshToken: youtubeConfig.RefreshToken,
		APIKey:       youtubeConfig.APIKey,
	}, requestCache, limiter, ttl)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to initialize YouTube client")
		os.Exit(1)
	}

	subscriptionUC := usecase.NewSubscriptionUseCase(youtubeClient)
	feedUC := usecase.NewFeedUseCase(youtubeClient, subscriptionUC, requestCache, feedTTL)
	playlistUC := usecase.NewPlaylistUseCase(youtubeClient, ledger, cfg.YouTube.SavedPlaylistName)
	searchUC := usecase.NewSearchUseCase(youtubeClient)

	tokenStore := configuration.NewTokenStore(configuration.DefaultTokenPath)
	authHandler, err := httpHandler.NewAuthHandler(tokenStore)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Failed to initialize auth handler - OAuth routes disabled")
		authHandler = nil
	}

	router := server.InitiateRouter(
		httpHandler.NewFeedHandler(feedUC),
		httpHandler.NewSubscriptionHandler(subscriptionUC),
		httpHandler.NewPlaylistHandler(playlistUC),
		httpHandler.NewSearchHandler(searchUC),
		authHandler,
		httpHandler.NewHealthHandler(),
	)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}
	logger.GetLogger().WithField("port", cfg.App.Port).Info("Starting application")
	g.Go(func() error {
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = httpServer.Shutdown(shutdownCtx)

	// Let in-flight feed refreshes finish writing the cache.
	feedUC.Wait()

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}

func ttlOrDefault(seconds int, fallback time.Duration) time.Duration {
	if seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return fallback
}

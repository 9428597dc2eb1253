package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"feedhub/domain/dto"
	"feedhub/domain/model"
	"feedhub/domain/repository"
	"feedhub/infrastructure/cache"
	"feedhub/infrastructure/logger"
)

// defaultFeedLimit caps the uploads fetched per channel when the caller
// does not.
const defaultFeedLimit = 50

// feedFanout bounds concurrent per-channel fetches during recomputation.
const feedFanout = 8

// IFeedUseCase defines the aggregated-feed operations
type IFeedUseCase interface {
	// LoadFeed returns the newest videos across the channel set, sorted by
	// publish time descending. limit bounds the uploads fetched per
	// channel, not the merged feed. An empty channel set means "all
	// subscriptions". force skips the cached copy.
	LoadFeed(ctx context.Context, channelIDs []string, limit int64, force bool) ([]model.ProcessedVideo, error)
	// Wait drains in-flight background refreshes. Called on shutdown.
	Wait()
}

type FeedUseCase struct {
	youtubeRepo repository.IYouTube
	subs        ISubscriptionUseCase
	feedCache   repository.IRequestCache
	feedTTL     time.Duration

	group singleflight.Group
	wg    sync.WaitGroup
}

// NewFeedUseCase creates a new feed use case instance
func NewFeedUseCase(youtubeRepo repository.IYouTube, subs ISubscriptionUseCase, feedCache repository.IRequestCache, feedTTL time.Duration) IFeedUseCase {
	return &FeedUseCase{
		youtubeRepo: youtubeRepo,
		subs:        subs,
		feedCache:   feedCache,
		feedTTL:     feedTTL,
	}
}

func (u *FeedUseCase) LoadFeed(ctx context.Context, channelIDs []string, limit int64, force bool) ([]model.ProcessedVideo, error) {
	if limit <= 0 {
		limit = defaultFeedLimit
	}

	if len(channelIDs) == 0 {
		all, err := u.subs.AllSubscriptionChannelIDs(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve subscription channels: %w", err)
		}
		channelIDs = all
	}
	channels := normalizeChannelSet(channelIDs)
	if len(channels) == 0 {
		return nil, nil
	}
	key := feedKey(channels, limit, u.youtubeRepo.CredentialFingerprint())

	if !force {
		if raw, ok := u.feedCache.Get(ctx, key); ok {
			var videos []model.ProcessedVideo
			// An empty cached feed is not worth serving stale; recompute
			// synchronously instead of pinning emptiness for the TTL.
			if err := json.Unmarshal(raw, &videos); err == nil && len(videos) > 0 {
				u.refreshInBackground(key, channels, limit)
				return videos, nil
			}
		}
	}

	result, err, _ := u.group.Do(key, func() (interface{}, error) {
		return u.computeAndStore(ctx, key, channels, limit)
	})
	if err != nil {
		return nil, err
	}
	return result.([]model.ProcessedVideo), nil
}

func (u *FeedUseCase) Wait() {
	u.wg.Wait()
}

// refreshInBackground kicks one supervised recomputation for the key.
// Overlapping stale hits of the same channel set join the same flight, so a
// slow refresh can never clobber a newer result.
func (u *FeedUseCase) refreshInBackground(key string, channels []string, limit int64) {
	u.wg.Add(1)
	go func() {
		defer u.wg.Done()
		_, err, _ := u.group.Do(key, func() (interface{}, error) {
			return u.computeAndStore(context.Background(), key, channels, limit)
		})
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("background feed refresh failed")
		}
	}()
}

func (u *FeedUseCase) computeAndStore(ctx context.Context, key string, channels []string, limit int64) ([]model.ProcessedVideo, error) {
	videos, err := u.compute(ctx, channels, limit)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(videos); err == nil {
		u.feedCache.Set(ctx, key, raw, u.feedTTL)
	}
	return videos, nil
}

// compute fans out over the channel set, joins list items with batched
// details, and sorts. channels must already be normalized: the per-channel
// slots keep pre-sort order deterministic regardless of input order.
func (u *FeedUseCase) compute(ctx context.Context, channels []string, limit int64) ([]model.ProcessedVideo, error) {
	slots := make([][]dto.VideoListItem, len(channels))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(feedFanout)
	for i, channelID := range channels {
		g.Go(func() error {
			items, err := u.channelUploads(gctx, channelID, limit)
			if err != nil {
				// One broken channel must not take the whole feed down.
				logger.GetLogger().
					WithField("channel_id", channelID).
					WithField("error", err).
					Warn("skipping channel in feed")
				return nil
			}
			slots[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var items []dto.VideoListItem
	for _, slot := range slots {
		items = append(items, slot...)
	}

	seen := make(map[string]bool, len(items))
	videoIDs := make([]string, 0, len(items))
	for _, item := range items {
		id := item.VideoID()
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		videoIDs = append(videoIDs, id)
	}

	details, err := u.youtubeRepo.VideoDetailsBatch(ctx, videoIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load video details: %w", err)
	}
	detailByID := make(map[string]dto.VideoDetail, len(details))
	for _, d := range details {
		detailByID[d.ID] = d
	}

	videos := make([]model.ProcessedVideo, 0, len(videoIDs))
	emitted := make(map[string]bool, len(videoIDs))
	for _, item := range items {
		id := item.VideoID()
		if id == "" || emitted[id] {
			continue
		}
		emitted[id] = true
		videos = append(videos, joinVideo(id, item, detailByID[id]))
	}

	sort.Slice(videos, func(i, j int) bool {
		if !videos[i].PublishedAt.Equal(videos[j].PublishedAt) {
			return videos[i].PublishedAt.After(videos[j].PublishedAt)
		}
		return videos[i].ID < videos[j].ID
	})
	return videos, nil
}

func (u *FeedUseCase) channelUploads(ctx context.Context, channelID string, limit int64) ([]dto.VideoListItem, error) {
	uploadsID, err := u.youtubeRepo.UploadsPlaylistID(ctx, channelID)
	if err != nil {
		return nil, err
	}
	page, err := u.youtubeRepo.PlaylistItemsPage(ctx, uploadsID, "", limit)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// joinVideo merges a list record with its detail record, preferring list
// fields and filling gaps from the detail. Duration and statistics exist
// only on the detail; a missing detail leaves them zero.
func joinVideo(id string, item dto.VideoListItem, detail dto.VideoDetail) model.ProcessedVideo {
	v := model.ProcessedVideo{
		ID:           id,
		Title:        item.Title,
		Description:  item.Description,
		Thumbnail:    item.Thumbnail,
		ChannelTitle: item.ChannelTitle,
		ChannelID:    item.ChannelID,
		PublishedAt:  item.PublishedAt,
		Duration:     detail.Duration,
		ViewCount:    detail.ViewCount,
		LikeCount:    detail.LikeCount,
		CommentCount: detail.CommentCount,
	}
	if v.Title == "" {
		v.Title = detail.Title
	}
	if v.Description == "" {
		v.Description = detail.Description
	}
	if v.Thumbnail == "" {
		v.Thumbnail = detail.Thumbnail
	}
	if v.ChannelTitle == "" {
		v.ChannelTitle = detail.ChannelTitle
	}
	if v.ChannelID == "" {
		v.ChannelID = detail.ChannelID
	}
	if v.PublishedAt.IsZero() {
		v.PublishedAt = detail.PublishedAt
	}
	return v
}

// normalizeChannelSet de-duplicates and sorts, so shuffled inputs of the
// same set share one cache key and one deterministic computation.
func normalizeChannelSet(channelIDs []string) []string {
	seen := make(map[string]bool, len(channelIDs))
	out := make([]string, 0, len(channelIDs))
	for _, id := range channelIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func feedKey(channels []string, limit int64, credential string) string {
	params := url.Values{
		"channels": channels,
		"limit":    []string{strconv.FormatInt(limit, 10)},
	}
	return cache.Key("feeds-computed", params, credential)
}

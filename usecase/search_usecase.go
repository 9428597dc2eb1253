package usecase

import (
	"context"
	"fmt"

	"feedhub/domain/dto"
	"feedhub/domain/model"
	"feedhub/domain/repository"
	"feedhub/infrastructure/logger"
)

// ISearchUseCase defines the discovery operations
type ISearchUseCase interface {
	// SearchChannels runs a channel search and enriches every hit with
	// subscriber and video counts, which client-side filters need.
	SearchChannels(ctx context.Context, req *dto.ChannelSearchRequest) (*dto.ChannelDetailsPage, error)
	SearchVideos(ctx context.Context, req *dto.VideoSearchRequest) (*dto.VideoSearchPage, error)
	// FollowSelected subscribes to each channel, logging and skipping
	// per-channel failures. Returns how many subscriptions succeeded.
	FollowSelected(ctx context.Context, channelIDs []string) (int, error)
}

type SearchUseCase struct {
	youtubeRepo repository.IYouTube
}

// NewSearchUseCase creates a new search use case instance
func NewSearchUseCase(youtubeRepo repository.IYouTube) ISearchUseCase {
	return &SearchUseCase{youtubeRepo: youtubeRepo}
}

func (u *SearchUseCase) SearchChannels(ctx context.Context, req *dto.ChannelSearchRequest) (*dto.ChannelDetailsPage, error) {
	if req == nil || req.Query == "" {
		return nil, fmt.Errorf("search query is required")
	}
	hits, err := u.youtubeRepo.SearchChannels(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to search channels: %w", err)
	}

	channelIDs := make([]string, 0, len(hits.Items))
	for _, hit := range hits.Items {
		channelIDs = append(channelIDs, hit.ChannelID)
	}
	details, err := u.youtubeRepo.ChannelDetailsBatch(ctx, channelIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to enrich channel results: %w", err)
	}
	detailByID := make(map[string]model.ChannelDetails, len(details))
	for _, d := range details {
		detailByID[d.ID] = d
	}

	page := &dto.ChannelDetailsPage{
		Items:         make([]model.ChannelDetails, 0, len(hits.Items)),
		NextPageToken: hits.NextPageToken,
		PageInfo:      hits.PageInfo,
	}
	for _, hit := range hits.Items {
		d, ok := detailByID[hit.ChannelID]
		if !ok {
			d = model.ChannelDetails{
				ID:          hit.ChannelID,
				Title:       hit.Title,
				Description: hit.Description,
				Thumbnail:   hit.Thumbnail,
			}
		}
		page.Items = append(page.Items, d)
	}
	return page, nil
}

func (u *SearchUseCase) SearchVideos(ctx context.Context, req *dto.VideoSearchRequest) (*dto.VideoSearchPage, error) {
	if req == nil || req.Query == "" {
		return nil, fmt.Errorf("search query is required")
	}
	page, err := u.youtubeRepo.SearchVideos(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to search videos: %w", err)
	}
	return page, nil
}

func (u *SearchUseCase) FollowSelected(ctx context.Context, channelIDs []string) (int, error) {
	if len(channelIDs) == 0 {
		return 0, nil
	}
	followed := 0
	for _, channelID := range channelIDs {
		if channelID == "" {
			continue
		}
		if err := u.youtubeRepo.Subscribe(ctx, channelID); err != nil {
			logger.GetLogger().
				WithField("channel_id", channelID).
				WithField("error", err).
				Warn("skipping channel in bulk follow")
			continue
		}
		followed++
	}
	return followed, nil
}

package usecase

import (
	"context"
	"fmt"

	"feedhub/domain/dto"
	"feedhub/domain/model"
	"feedhub/domain/repository"
)

// ISubscriptionUseCase defines the subscription operations
type ISubscriptionUseCase interface {
	// Subscriptions returns one page for the UI; the caller passes the
	// nextPageToken back to advance.
	Subscriptions(ctx context.Context, pageToken string) (*dto.SubscriptionPage, error)
	// AllSubscriptionChannelIDs drains every page and de-duplicates by
	// channel id; this is what the feed aggregator consumes.
	AllSubscriptionChannelIDs(ctx context.Context) ([]string, error)
	Subscribe(ctx context.Context, channelID string) error
	Unsubscribe(ctx context.Context, subscriptionID string) error
}

type SubscriptionUseCase struct {
	youtubeRepo repository.IYouTube
}

// NewSubscriptionUseCase creates a new subscription use case instance
func NewSubscriptionUseCase(youtubeRepo repository.IYouTube) ISubscriptionUseCase {
	return &SubscriptionUseCase{youtubeRepo: youtubeRepo}
}

func (u *SubscriptionUseCase) Subscriptions(ctx context.Context, pageToken string) (*dto.SubscriptionPage, error) {
	page, err := u.youtubeRepo.SubscriptionsPage(ctx, pageToken)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscriptions page: %w", err)
	}
	return page, nil
}

func (u *SubscriptionUseCase) AllSubscriptionChannelIDs(ctx context.Context) ([]string, error) {
	subs, err := walkPages(ctx, func(ctx context.Context, pageToken string) ([]model.Subscription, string, error) {
		page, err := u.youtubeRepo.SubscriptionsPage(ctx, pageToken)
		if err != nil {
			return nil, "", err
		}
		return page.Items, page.NextPageToken, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk subscriptions: %w", err)
	}

	seen := make(map[string]bool, len(subs))
	channelIDs := make([]string, 0, len(subs))
	for _, sub := range subs {
		if sub.ChannelID == "" || seen[sub.ChannelID] {
			continue
		}
		seen[sub.ChannelID] = true
		channelIDs = append(channelIDs, sub.ChannelID)
	}
	return channelIDs, nil
}

func (u *SubscriptionUseCase) Subscribe(ctx context.Context, channelID string) error {
	if channelID == "" {
		return fmt.Errorf("channel ID is required")
	}
	return u.youtubeRepo.Subscribe(ctx, channelID)
}

func (u *SubscriptionUseCase) Unsubscribe(ctx context.Context, subscriptionID string) error {
	if subscriptionID == "" {
		return fmt.Errorf("subscription ID is required")
	}
	return u.youtubeRepo.Unsubscribe(ctx, subscriptionID)
}

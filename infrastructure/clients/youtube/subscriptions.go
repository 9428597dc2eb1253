package youtube

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"google.golang.org/api/youtube/v3"

	"feedhub/domain/dto"
	"feedhub/domain/model"
)

// SubscriptionsPage retrieves one page of the authenticated user's
// subscriptions, ordered alphabetically.
func (c *Client) SubscriptionsPage(ctx context.Context, pageToken string) (*dto.SubscriptionPage, error) {
	if err := c.requireAuth(); err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	params := subscriptionsParams{
		Part:       "snippet",
		Mine:       true,
		Order:      "alphabetical",
		MaxResults: batchSize,
		PageToken:  pageToken,
	}
	return cachedCall(ctx, c, "subscriptions", paramValues(params), c.ttl.List, func(ctx context.Context) (*dto.SubscriptionPage, error) {
		call := c.service.Subscriptions.List([]string{"snippet"}).
			Mine(true).
			Order("alphabetical").
			MaxResults(batchSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		response, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list subscriptions: %w", err)
		}

		page := &dto.SubscriptionPage{
			Items:         make([]model.Subscription, 0, len(response.Items)),
			NextPageToken: response.NextPageToken,
		}
		if response.PageInfo != nil {
			page.PageInfo = dto.PageInfo{
				TotalResults:   response.PageInfo.TotalResults,
				ResultsPerPage: response.PageInfo.ResultsPerPage,
			}
		}
		for _, item := range response.Items {
			if item.Snippet == nil || item.Snippet.ResourceId == nil {
				continue
			}
			page.Items = append(page.Items, model.Subscription{
				ID:          item.Id,
				ChannelID:   item.Snippet.ResourceId.ChannelId,
				Title:       item.Snippet.Title,
				Description: item.Snippet.Description,
				Thumbnail:   thumbnailURL(item.Snippet.Thumbnails),
				PublishedAt: parseTime(item.Snippet.PublishedAt),
			})
		}
		return page, nil
	})
}

// Subscribe subscribes the authenticated user to the channel.
func (c *Client) Subscribe(ctx context.Context, channelID string) error {
	if err := c.requireAuth(); err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	sub := &youtube.Subscription{
		Snippet: &youtube.SubscriptionSnippet{
			ResourceId: &youtube.ResourceId{
				Kind:      "youtube#channel",
				ChannelId: channelID,
			},
		},
	}
	if _, err := c.service.Subscriptions.Insert([]string{"snippet"}, sub).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to subscribe to channel %s: %w", channelID, err)
	}
	return nil
}

// Unsubscribe removes the subscription by its subscription id (not the
// channel id).
func (c *Client) Unsubscribe(ctx context.Context, subscriptionID string) error {
	if err := c.requireAuth(); err != nil {
		return fmt.Errorf("failed to unsubscribe: %w", err)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	if err := c.service.Subscriptions.Delete(subscriptionID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete subscription %s: %w", subscriptionID, err)
	}
	return nil
}

// ChannelDetailsBatch fetches statistics for up to hundreds of channels,
// batched into 50-id calls issued concurrently. Result order follows the
// input order of the batches.
func (c *Client) ChannelDetailsBatch(ctx context.Context, channelIDs []string) ([]model.ChannelDetails, error) {
	if len(channelIDs) == 0 {
		return nil, nil
	}

	chunks := chunkIDs(channelIDs, batchSize)
	results := make([][]model.ChannelDetails, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		g.Go(func() error {
			params := channelsParams{Part: "snippet,statistics,contentDetails", ID: chunk}
			details, err := cachedCall(gctx, c, "channels", paramValues(params), c.ttl.Detail, func(ctx context.Context) ([]model.ChannelDetails, error) {
				return c.fetchChannelDetails(ctx, chunk)
			})
			if err != nil {
				return err
			}
			results[i] = details
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]model.ChannelDetails, 0, len(channelIDs))
	for _, details := range results {
		out = append(out, details...)
	}
	return out, nil
}

func (c *Client) fetchChannelDetails(ctx context.Context, channelIDs []string) ([]model.ChannelDetails, error) {
	response, err := c.service.Channels.List([]string{"snippet", "statistics", "contentDetails"}).
		Id(channelIDs...).
		MaxResults(batchSize).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get channel details: %w", err)
	}

	details := make([]model.ChannelDetails, 0, len(response.Items))
	for _, channel := range response.Items {
		d := model.ChannelDetails{ID: channel.Id}
		if channel.Snippet != nil {
			d.Title = channel.Snippet.Title
			d.Description = channel.Snippet.Description
			d.Thumbnail = thumbnailURL(channel.Snippet.Thumbnails)
		}
		if channel.Statistics != nil {
			d.SubscriberCount = int64(channel.Statistics.SubscriberCount)
			d.VideoCount = int64(channel.Statistics.VideoCount)
		}
		details = append(details, d)
	}
	return details, nil
}

// UploadsPlaylistID resolves the channel's uploads playlist id.
func (c *Client) UploadsPlaylistID(ctx context.Context, channelID string) (string, error) {
	params := channelsParams{Part: "contentDetails", ID: []string{channelID}}
	return cachedCall(ctx, c, "channels/uploads", paramValues(params), c.ttl.Detail, func(ctx context.Context) (string, error) {
		response, err := c.service.Channels.List([]string{"contentDetails"}).
			Id(channelID).
			Context(ctx).
			Do()
		if err != nil {
			return "", fmt.Errorf("failed to get channel %s: %w", channelID, err)
		}
		if len(response.Items) == 0 || response.Items[0].ContentDetails == nil ||
			response.Items[0].ContentDetails.RelatedPlaylists == nil {
			return "", fmt.Errorf("channel %s has no uploads playlist", channelID)
		}
		return response.Items[0].ContentDetails.RelatedPlaylists.Uploads, nil
	})
}

package youtube

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"feedhub/domain/dto"
)

// PlaylistItemsPage retrieves one page of a playlist's items as lightweight
// list records. Statistics come separately from VideoDetailsBatch.
func (c *Client) PlaylistItemsPage(ctx context.Context, playlistID, pageToken string, maxResults int64) (*dto.PlaylistItemPage, error) {
	if maxResults <= 0 || maxResults > batchSize {
		maxResults = batchSize
	}

	params := playlistItemsParams{
		Part:       "snippet,contentDetails",
		PlaylistID: playlistID,
		MaxResults: maxResults,
		PageToken:  pageToken,
	}
	return cachedCall(ctx, c, "playlistItems", paramValues(params), c.ttl.List, func(ctx context.Context) (*dto.PlaylistItemPage, error) {
		call := c.service.PlaylistItems.List([]string{"snippet", "contentDetails"}).
			PlaylistId(playlistID).
			MaxResults(maxResults).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		response, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list items of playlist %s: %w", playlistID, err)
		}

		page := &dto.PlaylistItemPage{
			Items:         make([]dto.VideoListItem, 0, len(response.Items)),
			NextPageToken: response.NextPageToken,
		}
		if response.PageInfo != nil {
			page.PageInfo = dto.PageInfo{
				TotalResults:   response.PageInfo.TotalResults,
				ResultsPerPage: response.PageInfo.ResultsPerPage,
			}
		}
		for _, item := range response.Items {
			record := dto.VideoListItem{ItemID: item.Id}
			if item.ContentDetails != nil {
				record.ContentVideoID = item.ContentDetails.VideoId
			}
			if item.Snippet != nil {
				record.Title = item.Snippet.Title
				record.Description = item.Snippet.Description
				record.Thumbnail = thumbnailURL(item.Snippet.Thumbnails)
				record.ChannelTitle = item.Snippet.ChannelTitle
				record.ChannelID = item.Snippet.ChannelId
				record.PublishedAt = parseTime(item.Snippet.PublishedAt)
				if item.Snippet.ResourceId != nil {
					record.ResourceVideoID = item.Snippet.ResourceId.VideoId
				}
				// Uploads playlists report the uploader's channel under
				// videoOwnerChannelId; prefer it when present.
				if item.Snippet.VideoOwnerChannelId != "" {
					record.ChannelID = item.Snippet.VideoOwnerChannelId
					record.ChannelTitle = item.Snippet.VideoOwnerChannelTitle
				}
			}
			page.Items = append(page.Items, record)
		}
		return page, nil
	})
}

// VideoDetailsBatch fetches duration and statistics for the given videos,
// batched into 50-id calls issued concurrently.
func (c *Client) VideoDetailsBatch(ctx context.Context, videoIDs []string) ([]dto.VideoDetail, error) {
	if len(videoIDs) == 0 {
		return nil, nil
	}

	chunks := chunkIDs(videoIDs, batchSize)
	results := make([][]dto.VideoDetail, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		g.Go(func() error {
			params := videosParams{Part: "snippet,contentDetails,statistics", ID: chunk}
			details, err := cachedCall(gctx, c, "videos", paramValues(params), c.ttl.Detail, func(ctx context.Context) ([]dto.VideoDetail, error) {
				return c.fetchVideoDetails(ctx, chunk)
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

	out := make([]dto.VideoDetail, 0, len(videoIDs))
	for _, details := range results {
		out = append(out, details...)
	}
	return out, nil
}

func (c *Client) fetchVideoDetails(ctx context.Context, videoIDs []string) ([]dto.VideoDetail, error) {
	response, err := c.service.Videos.List([]string{"snippet", "contentDetails", "statistics"}).
		Id(videoIDs...).
		MaxResults(batchSize).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get video details: %w", err)
	}

	details := make([]dto.VideoDetail, 0, len(response.Items))
	for _, video := range response.Items {
		d := dto.VideoDetail{ID: video.Id}
		if video.Snippet != nil {
			d.Title = video.Snippet.Title
			d.Description = video.Snippet.Description
			d.Thumbnail = thumbnailURL(video.Snippet.Thumbnails)
			d.ChannelTitle = video.Snippet.ChannelTitle
			d.ChannelID = video.Snippet.ChannelId
			d.PublishedAt = parseTime(video.Snippet.PublishedAt)
		}
		if video.ContentDetails != nil {
			d.Duration = video.ContentDetails.Duration
		}
		if video.Statistics != nil {
			d.ViewCount = int64(video.Statistics.ViewCount)
			d.LikeCount = int64(video.Statistics.LikeCount)
			d.CommentCount = int64(video.Statistics.CommentCount)
		}
		details = append(details, d)
	}
	return details, nil
}

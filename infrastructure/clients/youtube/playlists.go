package youtube

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/youtube/v3"

	"feedhub/domain/dto"
	"feedhub/domain/model"
)

// MyPlaylistsPage retrieves one page of the authenticated user's playlists.
func (c *Client) MyPlaylistsPage(ctx context.Context, pageToken string) (*dto.PlaylistPage, error) {
	if err := c.requireAuth(); err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}

	params := playlistsParams{
		Part:       "snippet,contentDetails",
		Mine:       true,
		MaxResults: batchSize,
		PageToken:  pageToken,
	}
	return cachedCall(ctx, c, "playlists", paramValues(params), c.ttl.List, func(ctx context.Context) (*dto.PlaylistPage, error) {
		return c.fetchMyPlaylists(ctx, pageToken)
	})
}

func (c *Client) fetchMyPlaylists(ctx context.Context, pageToken string) (*dto.PlaylistPage, error) {
	call := c.service.Playlists.List([]string{"snippet", "contentDetails"}).
		Mine(true).
		MaxResults(batchSize).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	response, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}

	page := &dto.PlaylistPage{
		Items:         make([]model.Playlist, 0, len(response.Items)),
		NextPageToken: response.NextPageToken,
	}
	if response.PageInfo != nil {
		page.PageInfo = dto.PageInfo{
			TotalResults:   response.PageInfo.TotalResults,
			ResultsPerPage: response.PageInfo.ResultsPerPage,
		}
	}
	for _, item := range response.Items {
		p := model.Playlist{ID: item.Id}
		if item.Snippet != nil {
			p.Title = item.Snippet.Title
		}
		if item.ContentDetails != nil {
			p.ItemCount = item.ContentDetails.ItemCount
		}
		page.Items = append(page.Items, p)
	}
	return page, nil
}

// PlaylistItemsByVideo finds every playlist of the user that contains the
// video. It bypasses the request cache on purpose: membership refresh must
// observe current server state, not a snapshot.
func (c *Client) PlaylistItemsByVideo(ctx context.Context, videoID string) ([]dto.PlaylistItemRef, error) {
	if err := c.requireAuth(); err != nil {
		return nil, fmt.Errorf("failed to look up playlist items: %w", err)
	}

	var playlists []model.Playlist
	pageToken := ""
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		page, err := c.fetchMyPlaylists(ctx, pageToken)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, page.Items...)
		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	results := make([][]dto.PlaylistItemRef, len(playlists))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, playlist := range playlists {
		g.Go(func() error {
			if err := c.limiter.Wait(gctx); err != nil {
				return err
			}
			response, err := c.service.PlaylistItems.List([]string{"id", "snippet"}).
				PlaylistId(playlist.ID).
				VideoId(videoID).
				MaxResults(batchSize).
				Context(gctx).
				Do()
			if err != nil {
				// A 404 here means the video is simply not in this playlist.
				var apiErr *googleapi.Error
				if errors.As(err, &apiErr) && apiErr.Code == 404 {
					return nil
				}
				return fmt.Errorf("failed to check playlist %s: %w", playlist.ID, err)
			}
			refs := make([]dto.PlaylistItemRef, 0, len(response.Items))
			for _, item := range response.Items {
				refs = append(refs, dto.PlaylistItemRef{
					ItemID:     item.Id,
					PlaylistID: playlist.ID,
					VideoID:    videoID,
				})
			}
			results[i] = refs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []dto.PlaylistItemRef
	for _, refs := range results {
		out = append(out, refs...)
	}
	return out, nil
}

// CreatePlaylist creates a playlist owned by the authenticated user.
func (c *Client) CreatePlaylist(ctx context.Context, title, description, privacy string) (*model.Playlist, error) {
	if err := c.requireAuth(); err != nil {
		return nil, fmt.Errorf("failed to create playlist: %w", err)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	if privacy == "" {
		privacy = "private"
	}

	playlist := &youtube.Playlist{
		Snippet: &youtube.PlaylistSnippet{
			Title:       title,
			Description: description,
		},
		Status: &youtube.PlaylistStatus{PrivacyStatus: privacy},
	}
	response, err := c.service.Playlists.Insert([]string{"snippet", "status"}, playlist).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create playlist %q: %w", title, err)
	}

	created := &model.Playlist{ID: response.Id, Title: title}
	if response.Snippet != nil {
		created.Title = response.Snippet.Title
	}
	return created, nil
}

// DeletePlaylist deletes the playlist.
func (c *Client) DeletePlaylist(ctx context.Context, playlistID string) error {
	if err := c.requireAuth(); err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	if err := c.service.Playlists.Delete(playlistID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete playlist %s: %w", playlistID, err)
	}
	return nil
}

// InsertPlaylistItem adds the video to the playlist and returns the new
// playlist item id, which is required to remove the video later.
func (c *Client) InsertPlaylistItem(ctx context.Context, playlistID, videoID string) (string, error) {
	if err := c.requireAuth(); err != nil {
		return "", fmt.Errorf("failed to add to playlist: %w", err)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	item := &youtube.PlaylistItem{
		Snippet: &youtube.PlaylistItemSnippet{
			PlaylistId: playlistID,
			ResourceId: &youtube.ResourceId{
				Kind:    "youtube#video",
				VideoId: videoID,
			},
		},
	}
	response, err := c.service.PlaylistItems.Insert([]string{"snippet"}, item).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to add video %s to playlist %s: %w", videoID, playlistID, err)
	}
	return response.Id, nil
}

// DeletePlaylistItem removes a playlist item by its item id.
func (c *Client) DeletePlaylistItem(ctx context.Context, itemID string) error {
	if err := c.requireAuth(); err != nil {
		return fmt.Errorf("failed to remove from playlist: %w", err)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	if err := c.service.PlaylistItems.Delete(itemID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete playlist item %s: %w", itemID, err)
	}
	return nil
}

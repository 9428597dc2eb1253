package youtube

import (
	"context"
	"fmt"

	"feedhub/domain/dto"
	"feedhub/domain/model"
)

// SearchChannels runs a channel search. Results carry snippet fields only;
// subscriber and video counts come from a follow-up ChannelDetailsBatch.
func (c *Client) SearchChannels(ctx context.Context, req *dto.ChannelSearchRequest) (*dto.ChannelSearchPage, error) {
	maxResults := req.MaxResults
	if maxResults <= 0 || maxResults > batchSize {
		maxResults = 25
	}

	params := searchParams{
		Part:       "snippet",
		Type:       "channel",
		Q:          req.Query,
		Order:      req.Order,
		RegionCode: req.RegionCode,
		SafeSearch: req.SafeSearch,
		MaxResults: maxResults,
		PageToken:  req.PageToken,
	}
	return cachedCall(ctx, c, "search/channels", paramValues(params), c.ttl.List, func(ctx context.Context) (*dto.ChannelSearchPage, error) {
		call := c.service.Search.List([]string{"snippet"}).
			Type("channel").
			Q(req.Query).
			MaxResults(maxResults).
			Context(ctx)
		if req.Order != "" {
			call = call.Order(req.Order)
		}
		if req.RegionCode != "" {
			call = call.RegionCode(req.RegionCode)
		}
		if req.SafeSearch != "" {
			call = call.SafeSearch(req.SafeSearch)
		}
		if req.PageToken != "" {
			call = call.PageToken(req.PageToken)
		}

		response, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to search channels: %w", err)
		}

		page := &dto.ChannelSearchPage{
			Items:         make([]dto.ChannelSearchResult, 0, len(response.Items)),
			NextPageToken: response.NextPageToken,
		}
		if response.PageInfo != nil {
			page.PageInfo = dto.PageInfo{
				TotalResults:   response.PageInfo.TotalResults,
				ResultsPerPage: response.PageInfo.ResultsPerPage,
			}
		}
		for _, item := range response.Items {
			if item.Id == nil || item.Id.ChannelId == "" || item.Snippet == nil {
				continue
			}
			page.Items = append(page.Items, dto.ChannelSearchResult{
				ChannelID:   item.Id.ChannelId,
				Title:       item.Snippet.Title,
				Description: item.Snippet.Description,
				Thumbnail:   thumbnailURL(item.Snippet.Thumbnails),
			})
		}
		return page, nil
	})
}

// SearchVideos runs a video search and joins each hit with its batched
// detail record, so results arrive with duration and statistics attached.
func (c *Client) SearchVideos(ctx context.Context, req *dto.VideoSearchRequest) (*dto.VideoSearchPage, error) {
	maxResults := req.MaxResults
	if maxResults <= 0 || maxResults > batchSize {
		maxResults = 25
	}

	params := searchParams{
		Part:       "snippet",
		Type:       "video",
		Q:          req.Query,
		ChannelID:  req.ChannelID,
		Order:      req.Order,
		MaxResults: maxResults,
		PageToken:  req.PageToken,
	}
	hits, err := cachedCall(ctx, c, "search/videos", paramValues(params), c.ttl.List, func(ctx context.Context) (*dto.VideoSearchPage, error) {
		call := c.service.Search.List([]string{"snippet"}).
			Type("video").
			Q(req.Query).
			MaxResults(maxResults).
			Context(ctx)
		if req.ChannelID != "" {
			call = call.ChannelId(req.ChannelID)
		}
		if req.Order != "" {
			call = call.Order(req.Order)
		}
		if req.PageToken != "" {
			call = call.PageToken(req.PageToken)
		}

		response, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to search videos: %w", err)
		}

		page := &dto.VideoSearchPage{
			Items:         make([]model.ProcessedVideo, 0, len(response.Items)),
			NextPageToken: response.NextPageToken,
		}
		if response.PageInfo != nil {
			page.PageInfo = dto.PageInfo{
				TotalResults:   response.PageInfo.TotalResults,
				ResultsPerPage: response.PageInfo.ResultsPerPage,
			}
		}
		for _, item := range response.Items {
			if item.Id == nil || item.Id.VideoId == "" {
				continue
			}
			v := model.ProcessedVideo{ID: item.Id.VideoId}
			if item.Snippet != nil {
				v.Title = item.Snippet.Title
				v.Description = item.Snippet.Description
				v.Thumbnail = thumbnailURL(item.Snippet.Thumbnails)
				v.ChannelTitle = item.Snippet.ChannelTitle
				v.ChannelID = item.Snippet.ChannelId
				v.PublishedAt = parseTime(item.Snippet.PublishedAt)
			}
			page.Items = append(page.Items, v)
		}
		return page, nil
	})
	if err != nil {
		return nil, err
	}

	videoIDs := make([]string, 0, len(hits.Items))
	for _, v := range hits.Items {
		videoIDs = append(videoIDs, v.ID)
	}
	details, err := c.VideoDetailsBatch(ctx, videoIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]dto.VideoDetail, len(details))
	for _, d := range details {
		byID[d.ID] = d
	}
	for i, v := range hits.Items {
		d, ok := byID[v.ID]
		if !ok {
			continue
		}
		hits.Items[i].Duration = d.Duration
		hits.Items[i].ViewCount = d.ViewCount
		hits.Items[i].LikeCount = d.LikeCount
		hits.Items[i].CommentCount = d.CommentCount
	}
	return hits, nil
}

package dto

import (
	"time"

	"feedhub/domain/model"
)

// PageInfo mirrors the remote API's page metadata.
type PageInfo struct {
	TotalResults   int64 `json:"total_results"`
	ResultsPerPage int64 `json:"results_per_page"`
}

// SubscriptionPage is one page of the user's subscriptions.
type SubscriptionPage struct {
	Items         []model.Subscription `json:"items"`
	NextPageToken string               `json:"next_page_token,omitempty"`
	PageInfo      PageInfo             `json:"page_info"`
}

// VideoListItem is the lightweight projection a list endpoint (channel
// uploads or playlist items) returns. Statistics and duration are never
// present here; they come from a detail lookup.
type VideoListItem struct {
	// ItemID is the playlist-item id, needed to delete the membership later.
	ItemID string `json:"item_id"`
	// ContentVideoID is contentDetails.videoId when the endpoint carries it.
	ContentVideoID string `json:"content_video_id,omitempty"`
	// ResourceVideoID is snippet.resourceId.videoId, the last fallback.
	ResourceVideoID string    `json:"resource_video_id,omitempty"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Thumbnail       string    `json:"thumbnail"`
	ChannelTitle    string    `json:"channel_title"`
	ChannelID       string    `json:"channel_id"`
	PublishedAt     time.Time `json:"published_at"`
}

// VideoID resolves the item's video id through the fallback chain
// contentDetails.videoId -> item id -> snippet.resourceId.videoId.
// An empty result means the record is unusable and must be dropped.
func (v VideoListItem) VideoID() string {
	if v.ContentVideoID != "" {
		return v.ContentVideoID
	}
	if v.ItemID != "" {
		return v.ItemID
	}
	return v.ResourceVideoID
}

// PlaylistItemPage is one page of a playlist's items.
type PlaylistItemPage struct {
	Items         []VideoListItem `json:"items"`
	NextPageToken string          `json:"next_page_token,omitempty"`
	PageInfo      PageInfo        `json:"page_info"`
}

// VideoDetail is the statistics-bearing record from a batched /videos lookup.
type VideoDetail struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Thumbnail    string    `json:"thumbnail"`
	ChannelTitle string    `json:"channel_title"`
	ChannelID    string    `json:"channel_id"`
	PublishedAt  time.Time `json:"published_at"`
	Duration     string    `json:"duration"`
	ViewCount    int64     `json:"view_count"`
	LikeCount    int64     `json:"like_count"`
	CommentCount int64     `json:"comment_count"`
}

// PlaylistPage is one page of the user's playlists.
type PlaylistPage struct {
	Items         []model.Playlist `json:"items"`
	NextPageToken string           `json:"next_page_token,omitempty"`
	PageInfo      PageInfo         `json:"page_info"`
}

// PlaylistItemRef links a video to the playlist containing it. Returned by
// the playlistItems-by-video lookup that backs membership refresh.
type PlaylistItemRef struct {
	ItemID     string `json:"item_id"`
	PlaylistID string `json:"playlist_id"`
	VideoID    string `json:"video_id"`
}

// ChannelSearchRequest carries the channel search form.
type ChannelSearchRequest struct {
	Query      string `json:"query"`
	PageToken  string `json:"page_token,omitempty"`
	Order      string `json:"order,omitempty"`
	RegionCode string `json:"region_code,omitempty"`
	SafeSearch string `json:"safe_search,omitempty"`
	MaxResults int64  `json:"max_results,omitempty"`
}

// ChannelSearchResult is one hit of a channel search.
type ChannelSearchResult struct {
	ChannelID   string `json:"channel_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
}

// ChannelDetailsPage is a channel search page enriched with statistics
// from a batched channel lookup.
type ChannelDetailsPage struct {
	Items         []model.ChannelDetails `json:"items"`
	NextPageToken string                 `json:"next_page_token,omitempty"`
	PageInfo      PageInfo               `json:"page_info"`
}

// ChannelSearchPage is one page of channel search results.
type ChannelSearchPage struct {
	Items         []ChannelSearchResult `json:"items"`
	NextPageToken string                `json:"next_page_token,omitempty"`
	PageInfo      PageInfo              `json:"page_info"`
}

// VideoSearchRequest carries the video search form.
type VideoSearchRequest struct {
	Query      string `json:"query"`
	ChannelID  string `json:"channel_id,omitempty"`
	PageToken  string `json:"page_token,omitempty"`
	Order      string `json:"order,omitempty"`
	MaxResults int64  `json:"max_results,omitempty"`
}

// VideoSearchPage is one page of video search results, already joined with
// batched details.
type VideoSearchPage struct {
	Items         []model.ProcessedVideo `json:"items"`
	NextPageToken string                 `json:"next_page_token,omitempty"`
	PageInfo      PageInfo               `json:"page_info"`
}

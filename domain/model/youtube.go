package model

import "time"

// Subscription is one entry of the authenticated user's subscription list.
// ChannelID comes from the subscription's resource id, not the subscription id.
type Subscription struct {
	ID          string    `json:"id"`
	ChannelID   string    `json:"channel_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Thumbnail   string    `json:"thumbnail"`
	PublishedAt time.Time `json:"published_at"`
}

// Channel is the minimal projection used for selection lists.
type Channel struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ChannelDetails carries the statistics fetched in batches from /channels.
type ChannelDetails struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Thumbnail       string `json:"thumbnail"`
	SubscriberCount int64  `json:"subscriber_count"`
	VideoCount      int64  `json:"video_count"`
}

// ProcessedVideo is the denormalized record the feed renders. It is produced
// only by joining a list item with a batched detail lookup; statistics and
// duration never come from list endpoints.
type ProcessedVideo struct {
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

// Playlist represents one of the user's playlists.
type Playlist struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	ItemCount int64  `json:"item_count"`
}

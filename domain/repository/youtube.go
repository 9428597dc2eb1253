package repository

import (
	"context"

	"feedhub/domain/dto"
	"feedhub/domain/model"
)

// IYouTube is the typed surface of the remote video platform API. Read
// methods are served through the request cache by the implementation; write
// methods always go to the network.
type IYouTube interface {
	// CredentialFingerprint identifies the signed-in credential. Derived
	// cache keys mix it in so two identities never share cached data.
	CredentialFingerprint() string

	// Subscription reads/writes
	SubscriptionsPage(ctx context.Context, pageToken string) (*dto.SubscriptionPage, error)
	Subscribe(ctx context.Context, channelID string) error
	Unsubscribe(ctx context.Context, subscriptionID string) error

	// Channel reads
	ChannelDetailsBatch(ctx context.Context, channelIDs []string) ([]model.ChannelDetails, error)
	UploadsPlaylistID(ctx context.Context, channelID string) (string, error)

	// Video reads
	PlaylistItemsPage(ctx context.Context, playlistID, pageToken string, maxResults int64) (*dto.PlaylistItemPage, error)
	VideoDetailsBatch(ctx context.Context, videoIDs []string) ([]dto.VideoDetail, error)

	// Playlist reads/writes
	MyPlaylistsPage(ctx context.Context, pageToken string) (*dto.PlaylistPage, error)
	// PlaylistItemsByVideo deliberately bypasses the request cache: it backs
	// membership refresh, which must observe current server state.
	PlaylistItemsByVideo(ctx context.Context, videoID string) ([]dto.PlaylistItemRef, error)
	CreatePlaylist(ctx context.Context, title, description, privacy string) (*model.Playlist, error)
	DeletePlaylist(ctx context.Context, playlistID string) error
	InsertPlaylistItem(ctx context.Context, playlistID, videoID string) (string, error)
	DeletePlaylistItem(ctx context.Context, itemID string) error

	// Search reads
	SearchChannels(ctx context.Context, req *dto.ChannelSearchRequest) (*dto.ChannelSearchPage, error)
	SearchVideos(ctx context.Context, req *dto.VideoSearchRequest) (*dto.VideoSearchPage, error)
}

package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"feedhub/domain/dto"
	"feedhub/domain/model"
)

// fakeYouTube is a scriptable in-memory stand-in for repository.IYouTube.
// Pages are keyed by "<id>|<pageToken>"; unset write errors succeed.
type fakeYouTube struct {
	mu         sync.Mutex
	calls      map[string]int
	credential string

	subsPages      map[string]*dto.SubscriptionPage
	uploads        map[string]string
	uploadsErr     map[string]error
	itemPages      map[string]*dto.PlaylistItemPage
	itemPagesErr   map[string]error
	details        map[string]dto.VideoDetail
	detailsErr     error
	playlistPages  map[string]*dto.PlaylistPage
	byVideo        map[string][]dto.PlaylistItemRef
	byVideoErr     error
	insertErr      error
	deleteItemErr  error
	subscribeErr   map[string]error
	channelDetails map[string]model.ChannelDetails
	channelPages   map[string]*dto.ChannelSearchPage
	videoPages     map[string]*dto.VideoSearchPage

	subscribed   []string
	unsubscribed []string
	inserted     []dto.PlaylistItemRef
	deletedItems []string
	created      []string
	nextItemID   int
}

func newFakeYouTube() *fakeYouTube {
	return &fakeYouTube{
		credential:     "user:test",
		calls:          map[string]int{},
		subsPages:      map[string]*dto.SubscriptionPage{},
		uploads:        map[string]string{},
		uploadsErr:     map[string]error{},
		itemPages:      map[string]*dto.PlaylistItemPage{},
		itemPagesErr:   map[string]error{},
		details:        map[string]dto.VideoDetail{},
		playlistPages:  map[string]*dto.PlaylistPage{},
		byVideo:        map[string][]dto.PlaylistItemRef{},
		subscribeErr:   map[string]error{},
		channelDetails: map[string]model.ChannelDetails{},
		channelPages:   map[string]*dto.ChannelSearchPage{},
		videoPages:     map[string]*dto.VideoSearchPage{},
	}
}

func (f *fakeYouTube) count(op string) {
	f.mu.Lock()
	f.calls[op]++
	f.mu.Unlock()
}

func (f *fakeYouTube) callCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeYouTube) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

func (f *fakeYouTube) CredentialFingerprint() string {
	return f.credential
}

func (f *fakeYouTube) SubscriptionsPage(_ context.Context, pageToken string) (*dto.SubscriptionPage, error) {
	f.count("subscriptions")
	page, ok := f.subsPages[pageToken]
	if !ok {
		return &dto.SubscriptionPage{}, nil
	}
	return page, nil
}

func (f *fakeYouTube) Subscribe(_ context.Context, channelID string) error {
	f.count("subscribe")
	if err := f.subscribeErr[channelID]; err != nil {
		return err
	}
	f.mu.Lock()
	f.subscribed = append(f.subscribed, channelID)
	f.mu.Unlock()
	return nil
}

func (f *fakeYouTube) Unsubscribe(_ context.Context, subscriptionID string) error {
	f.count("unsubscribe")
	f.mu.Lock()
	f.unsubscribed = append(f.unsubscribed, subscriptionID)
	f.mu.Unlock()
	return nil
}

func (f *fakeYouTube) ChannelDetailsBatch(_ context.Context, channelIDs []string) ([]model.ChannelDetails, error) {
	f.count("channelDetails")
	out := make([]model.ChannelDetails, 0, len(channelIDs))
	for _, id := range channelIDs {
		if d, ok := f.channelDetails[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeYouTube) UploadsPlaylistID(_ context.Context, channelID string) (string, error) {
	f.count("uploadsPlaylistID")
	if err := f.uploadsErr[channelID]; err != nil {
		return "", err
	}
	id, ok := f.uploads[channelID]
	if !ok {
		return "", fmt.Errorf("unknown channel %s", channelID)
	}
	return id, nil
}

func (f *fakeYouTube) PlaylistItemsPage(_ context.Context, playlistID, pageToken string, _ int64) (*dto.PlaylistItemPage, error) {
	f.count("playlistItems")
	key := playlistID + "|" + pageToken
	if err := f.itemPagesErr[key]; err != nil {
		return nil, err
	}
	page, ok := f.itemPages[key]
	if !ok {
		return &dto.PlaylistItemPage{}, nil
	}
	return page, nil
}

func (f *fakeYouTube) VideoDetailsBatch(_ context.Context, videoIDs []string) ([]dto.VideoDetail, error) {
	f.count("videoDetails")
	if f.detailsErr != nil {
		return nil, f.detailsErr
	}
	out := make([]dto.VideoDetail, 0, len(videoIDs))
	for _, id := range videoIDs {
		if d, ok := f.details[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeYouTube) MyPlaylistsPage(_ context.Context, pageToken string) (*dto.PlaylistPage, error) {
	f.count("playlists")
	page, ok := f.playlistPages[pageToken]
	if !ok {
		return &dto.PlaylistPage{}, nil
	}
	return page, nil
}

func (f *fakeYouTube) PlaylistItemsByVideo(_ context.Context, videoID string) ([]dto.PlaylistItemRef, error) {
	f.count("playlistItemsByVideo")
	if f.byVideoErr != nil {
		return nil, f.byVideoErr
	}
	return f.byVideo[videoID], nil
}

func (f *fakeYouTube) CreatePlaylist(_ context.Context, title, _, _ string) (*model.Playlist, error) {
	f.count("createPlaylist")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, title)
	return &model.Playlist{ID: "pl-" + title, Title: title}, nil
}

func (f *fakeYouTube) DeletePlaylist(_ context.Context, playlistID string) error {
	f.count("deletePlaylist")
	return nil
}

func (f *fakeYouTube) InsertPlaylistItem(_ context.Context, playlistID, videoID string) (string, error) {
	f.count("insertItem")
	if f.insertErr != nil {
		return "", f.insertErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextItemID++
	itemID := fmt.Sprintf("item-%d", f.nextItemID)
	ref := dto.PlaylistItemRef{ItemID: itemID, PlaylistID: playlistID, VideoID: videoID}
	f.inserted = append(f.inserted, ref)
	f.byVideo[videoID] = append(f.byVideo[videoID], ref)
	return itemID, nil
}

func (f *fakeYouTube) DeletePlaylistItem(_ context.Context, itemID string) error {
	f.count("deleteItem")
	if f.deleteItemErr != nil {
		return f.deleteItemErr
	}
	f.mu.Lock()
	f.deletedItems = append(f.deletedItems, itemID)
	for videoID, refs := range f.byVideo {
		kept := refs[:0]
		for _, ref := range refs {
			if ref.ItemID != itemID {
				kept = append(kept, ref)
			}
		}
		f.byVideo[videoID] = kept
	}
	f.mu.Unlock()
	return nil
}

func (f *fakeYouTube) SearchChannels(_ context.Context, req *dto.ChannelSearchRequest) (*dto.ChannelSearchPage, error) {
	f.count("searchChannels")
	page, ok := f.channelPages[req.Query]
	if !ok {
		return &dto.ChannelSearchPage{}, nil
	}
	return page, nil
}

func (f *fakeYouTube) SearchVideos(_ context.Context, req *dto.VideoSearchRequest) (*dto.VideoSearchPage, error) {
	f.count("searchVideos")
	page, ok := f.videoPages[req.Query]
	if !ok {
		return &dto.VideoSearchPage{}, nil
	}
	return page, nil
}

// memCache is a minimal IRequestCache for feed tests; no expiry.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[key]
	return raw, ok
}

func (m *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedhub/domain/dto"
	"feedhub/domain/model"
	"feedhub/domain/repository"
	"feedhub/infrastructure/persistence"
)

const savedName = "Saved videos"

func newTestLedger(t *testing.T) repository.IPlaylistLedger {
	t.Helper()
	ledger, err := persistence.NewLedgerStore("")
	require.NoError(t, err)
	return ledger
}

func playlistFixture() *fakeYouTube {
	f := newFakeYouTube()
	f.playlistPages[""] = &dto.PlaylistPage{Items: []model.Playlist{
		{ID: "pl-watch", Title: "Watch later", ItemCount: 2},
		{ID: "pl-saved", Title: savedName, ItemCount: 1},
	}}
	return f
}

func TestAddToPlaylistIdempotent(t *testing.T) {
	ctx := context.Background()
	f := playlistFixture()
	u := NewPlaylistUseCase(f, newTestLedger(t), savedName)

	require.NoError(t, u.AddToPlaylist(ctx, "pl-watch", "v1"))
	require.NoError(t, u.AddToPlaylist(ctx, "pl-watch", "v1"))
	assert.Equal(t, 1, f.callCount("insertItem"), "second add must be a local no-op")
}

func TestRemoveFromPlaylistUsesLedgerItemID(t *testing.T) {
	ctx := context.Background()
	f := playlistFixture()
	u := NewPlaylistUseCase(f, newTestLedger(t), savedName)

	require.NoError(t, u.AddToPlaylist(ctx, "pl-watch", "v1"))
	require.NoError(t, u.RemoveFromPlaylist(ctx, "pl-watch", "v1"))
	require.Len(t, f.deletedItems, 1)
	assert.Equal(t, f.inserted[0].ItemID, f.deletedItems[0])

	// record cleared, so the video can be added again
	require.NoError(t, u.AddToPlaylist(ctx, "pl-watch", "v1"))
	assert.Equal(t, 2, f.callCount("insertItem"))
}

func TestRemoveFromPlaylistFallsBackToScan(t *testing.T) {
	ctx := context.Background()
	f := playlistFixture()
	f.itemPages["pl-watch|"] = &dto.PlaylistItemPage{Items: []dto.VideoListItem{
		{ItemID: "remote-item", ContentVideoID: "v1"},
	}}
	u := NewPlaylistUseCase(f, newTestLedger(t), savedName)

	// no ledger record: the item was added from another client
	require.NoError(t, u.RemoveFromPlaylist(ctx, "pl-watch", "v1"))
	assert.Equal(t, []string{"remote-item"}, f.deletedItems)
}

func TestRefreshReconcilesLedger(t *testing.T) {
	ctx := context.Background()
	f := playlistFixture()
	ledger := newTestLedger(t)
	u := NewPlaylistUseCase(f, ledger, savedName)

	// ledger believes the video is in both playlists; server says only one
	ledger.MarkAdded("pl-watch", "v1", "item-w")
	ledger.MarkAdded("pl-saved", "v1", "stale-item")
	f.byVideo["v1"] = []dto.PlaylistItemRef{
		{ItemID: "item-w", PlaylistID: "pl-watch", VideoID: "v1"},
	}

	titles, err := u.Refresh(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Watch later"}, titles)
	assert.Equal(t, titles, u.Membership("v1"))

	assert.True(t, ledger.Added("pl-watch", "v1"))
	assert.False(t, ledger.Added("pl-saved", "v1"), "server-side removal must clear the ledger")
}

func TestToggleSaveRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := playlistFixture()
	ledger := newTestLedger(t)
	u := NewPlaylistUseCase(f, ledger, savedName)

	saved, err := u.ToggleSave(ctx, "v1", "")
	require.NoError(t, err)
	assert.True(t, saved)
	assert.True(t, u.IsSaved("v1"))
	require.Len(t, f.inserted, 1)
	assert.Equal(t, "pl-saved", f.inserted[0].PlaylistID)
	assert.Zero(t, f.callCount("createPlaylist"), "existing saved playlist must be reused")
	assert.Equal(t, []string{savedName}, u.Membership("v1"))

	saved, err = u.ToggleSave(ctx, "v1", "")
	require.NoError(t, err)
	assert.False(t, saved)
	assert.False(t, u.IsSaved("v1"))
	assert.Equal(t, []string{f.inserted[0].ItemID}, f.deletedItems)
}

func TestToggleSaveCreatesMissingPlaylist(t *testing.T) {
	ctx := context.Background()
	f := newFakeYouTube() // user has no playlists at all
	u := NewPlaylistUseCase(f, newTestLedger(t), savedName)

	saved, err := u.ToggleSave(ctx, "v1", "")
	require.NoError(t, err)
	assert.True(t, saved)
	assert.Equal(t, []string{savedName}, f.created)
	require.Len(t, f.inserted, 1)
	assert.Equal(t, "pl-"+savedName, f.inserted[0].PlaylistID)
}

func TestToggleSaveRevertsOnRemoteFailure(t *testing.T) {
	ctx := context.Background()
	f := playlistFixture()
	f.insertErr = errors.New("quota exceeded")
	u := NewPlaylistUseCase(f, newTestLedger(t), savedName)

	saved, err := u.ToggleSave(ctx, "v1", "")
	require.Error(t, err)
	assert.False(t, saved)
	assert.False(t, u.IsSaved("v1"), "optimistic flag must be reverted")
}

func TestDeletePlaylistDropsLedgerRecords(t *testing.T) {
	ctx := context.Background()
	f := playlistFixture()
	ledger := newTestLedger(t)
	u := NewPlaylistUseCase(f, ledger, savedName)

	_, err := u.Playlists(ctx)
	require.NoError(t, err)
	require.NoError(t, u.AddToPlaylist(ctx, "pl-watch", "v1"))

	require.NoError(t, u.DeletePlaylist(ctx, "pl-watch"))
	assert.False(t, ledger.Added("pl-watch", "v1"))
	_, ok := ledger.PlaylistIDByName("Watch later")
	assert.False(t, ok)
}

func TestPlaylistVideosJoinsDetails(t *testing.T) {
	ctx := context.Background()
	f := playlistFixture()
	f.itemPages["pl-watch|"] = &dto.PlaylistItemPage{
		Items: []dto.VideoListItem{
			{ItemID: "i1", ContentVideoID: "v1", Title: "first"},
		},
		NextPageToken: "p2",
	}
	f.itemPages["pl-watch|p2"] = &dto.PlaylistItemPage{Items: []dto.VideoListItem{
		{ItemID: "i2", ContentVideoID: "v2", Title: "second"},
	}}
	f.details["v1"] = dto.VideoDetail{ID: "v1", Duration: "PT2M", ViewCount: 5}
	f.details["v2"] = dto.VideoDetail{ID: "v2", Duration: "PT9M", ViewCount: 7}

	u := NewPlaylistUseCase(f, newTestLedger(t), savedName)
	videos, err := u.PlaylistVideos(ctx, "pl-watch")
	require.NoError(t, err)
	require.Len(t, videos, 2)
	assert.Equal(t, "PT2M", videos[0].Duration)
	assert.Equal(t, int64(7), videos[1].ViewCount)
}

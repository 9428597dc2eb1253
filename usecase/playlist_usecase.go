package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"feedhub/domain/dto"
	"feedhub/domain/model"
	"feedhub/domain/repository"
	"feedhub/infrastructure/logger"
)

// IPlaylistUseCase defines the playlist and membership operations
type IPlaylistUseCase interface {
	Playlists(ctx context.Context) ([]model.Playlist, error)
	PlaylistVideos(ctx context.Context, playlistID string) ([]model.ProcessedVideo, error)
	CreatePlaylist(ctx context.Context, title, description, privacy string) (*model.Playlist, error)
	DeletePlaylist(ctx context.Context, playlistID string) error

	AddToPlaylist(ctx context.Context, playlistID, videoID string) error
	RemoveFromPlaylist(ctx context.Context, playlistID, videoID string) error

	// Refresh re-reads which playlists contain the video from the server,
	// reconciles the ledger, and returns the playlist titles.
	Refresh(ctx context.Context, videoID string) ([]string, error)
	// Membership returns the last refreshed titles without touching the
	// network.
	Membership(videoID string) []string

	// ToggleSave flips the saved state of the video, backed by the
	// well-known saved playlist (or an explicit playlist id). Returns the
	// new state.
	ToggleSave(ctx context.Context, videoID, playlistID string) (bool, error)
	IsSaved(videoID string) bool
}

type PlaylistUseCase struct {
	youtubeRepo repository.IYouTube
	ledger      repository.IPlaylistLedger
	savedName   string

	mu         sync.RWMutex
	membership map[string][]string // videoID -> playlist titles
	titleByID  map[string]string
}

// NewPlaylistUseCase creates a new playlist use case instance. savedName is
// the title of the playlist backing the save toggle.
func NewPlaylistUseCase(youtubeRepo repository.IYouTube, ledger repository.IPlaylistLedger, savedName string) IPlaylistUseCase {
	return &PlaylistUseCase{
		youtubeRepo: youtubeRepo,
		ledger:      ledger,
		savedName:   savedName,
		membership:  make(map[string][]string),
		titleByID:   make(map[string]string),
	}
}

func (u *PlaylistUseCase) Playlists(ctx context.Context) ([]model.Playlist, error) {
	playlists, err := walkPages(ctx, func(ctx context.Context, pageToken string) ([]model.Playlist, string, error) {
		page, err := u.youtubeRepo.MyPlaylistsPage(ctx, pageToken)
		if err != nil {
			return nil, "", err
		}
		return page.Items, page.NextPageToken, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk playlists: %w", err)
	}

	u.mu.Lock()
	for _, p := range playlists {
		u.titleByID[p.ID] = p.Title
	}
	u.mu.Unlock()
	for _, p := range playlists {
		u.ledger.SavePlaylistIDByName(p.Title, p.ID)
	}
	return playlists, nil
}

func (u *PlaylistUseCase) PlaylistVideos(ctx context.Context, playlistID string) ([]model.ProcessedVideo, error) {
	items, err := walkPages(ctx, func(ctx context.Context, pageToken string) ([]dto.VideoListItem, string, error) {
		page, err := u.youtubeRepo.PlaylistItemsPage(ctx, playlistID, pageToken, 0)
		if err != nil {
			return nil, "", err
		}
		return page.Items, page.NextPageToken, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk playlist %s: %w", playlistID, err)
	}

	videoIDs := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		id := item.VideoID()
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		videoIDs = append(videoIDs, id)
	}
	details, err := u.youtubeRepo.VideoDetailsBatch(ctx, videoIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load video details: %w", err)
	}
	detailByID := make(map[string]dto.VideoDetail, len(details))
	for _, d := range details {
		detailByID[d.ID] = d
	}

	videos := make([]model.ProcessedVideo, 0, len(videoIDs))
	emitted := make(map[string]bool, len(videoIDs))
	for _, item := range items {
		id := item.VideoID()
		if id == "" || emitted[id] {
			continue
		}
		emitted[id] = true
		videos = append(videos, joinVideo(id, item, detailByID[id]))
	}
	return videos, nil
}

func (u *PlaylistUseCase) CreatePlaylist(ctx context.Context, title, description, privacy string) (*model.Playlist, error) {
	if title == "" {
		return nil, fmt.Errorf("playlist title is required")
	}
	created, err := u.youtubeRepo.CreatePlaylist(ctx, title, description, privacy)
	if err != nil {
		return nil, err
	}
	u.mu.Lock()
	u.titleByID[created.ID] = created.Title
	u.mu.Unlock()
	u.ledger.SavePlaylistIDByName(created.Title, created.ID)
	return created, nil
}

func (u *PlaylistUseCase) DeletePlaylist(ctx context.Context, playlistID string) error {
	if err := u.youtubeRepo.DeletePlaylist(ctx, playlistID); err != nil {
		return err
	}
	u.mu.Lock()
	title := u.titleByID[playlistID]
	delete(u.titleByID, playlistID)
	u.mu.Unlock()
	u.ledger.DropPlaylist(playlistID, title)
	return nil
}

// AddToPlaylist is idempotent: a video the ledger already places in the
// playlist is not sent to the server again.
func (u *PlaylistUseCase) AddToPlaylist(ctx context.Context, playlistID, videoID string) error {
	if playlistID == "" || videoID == "" {
		return fmt.Errorf("playlist ID and video ID are required")
	}
	if u.ledger.Added(playlistID, videoID) {
		return nil
	}
	itemID, err := u.youtubeRepo.InsertPlaylistItem(ctx, playlistID, videoID)
	if err != nil {
		return fmt.Errorf("failed to add video %s to playlist %s: %w", videoID, playlistID, err)
	}
	u.ledger.MarkAdded(playlistID, videoID, itemID)
	return nil
}

func (u *PlaylistUseCase) RemoveFromPlaylist(ctx context.Context, playlistID, videoID string) error {
	if playlistID == "" || videoID == "" {
		return fmt.Errorf("playlist ID and video ID are required")
	}
	itemID, ok := u.ledger.ItemID(playlistID, videoID)
	if !ok {
		// Ledger has no record (added from another client); scan the
		// playlist for the item.
		found, err := u.findItemID(ctx, playlistID, videoID)
		if err != nil {
			return err
		}
		if found == "" {
			u.ledger.MarkAdded(playlistID, videoID, "")
			return nil
		}
		itemID = found
	}
	if err := u.youtubeRepo.DeletePlaylistItem(ctx, itemID); err != nil {
		return fmt.Errorf("failed to remove video %s from playlist %s: %w", videoID, playlistID, err)
	}
	u.ledger.MarkAdded(playlistID, videoID, "")
	return nil
}

func (u *PlaylistUseCase) findItemID(ctx context.Context, playlistID, videoID string) (string, error) {
	items, err := walkPages(ctx, func(ctx context.Context, pageToken string) ([]dto.VideoListItem, string, error) {
		page, err := u.youtubeRepo.PlaylistItemsPage(ctx, playlistID, pageToken, 0)
		if err != nil {
			return nil, "", err
		}
		return page.Items, page.NextPageToken, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to scan playlist %s: %w", playlistID, err)
	}
	for _, item := range items {
		if item.VideoID() == videoID {
			return item.ItemID, nil
		}
	}
	return "", nil
}

func (u *PlaylistUseCase) Refresh(ctx context.Context, videoID string) ([]string, error) {
	refs, err := u.youtubeRepo.PlaylistItemsByVideo(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh membership of %s: %w", videoID, err)
	}

	current := make(map[string]bool, len(refs))
	for _, ref := range refs {
		current[ref.PlaylistID] = true
		u.ledger.MarkAdded(ref.PlaylistID, videoID, ref.ItemID)
	}
	// A ledger entry for a playlist that no longer contains the video means
	// another client removed it; clear so a later re-add is not skipped.
	for _, playlistID := range u.ledger.AddedPlaylists(videoID) {
		if !current[playlistID] {
			u.ledger.MarkAdded(playlistID, videoID, "")
		}
	}
	if savedID, ok := u.ledger.PlaylistIDByName(u.savedName); ok {
		u.ledger.SetSaved(videoID, current[savedID])
	}

	titles := u.resolveTitles(ctx, refs)
	u.mu.Lock()
	u.membership[videoID] = titles
	u.mu.Unlock()
	return titles, nil
}

func (u *PlaylistUseCase) resolveTitles(ctx context.Context, refs []dto.PlaylistItemRef) []string {
	needWalk := false
	u.mu.RLock()
	for _, ref := range refs {
		if _, ok := u.titleByID[ref.PlaylistID]; !ok {
			needWalk = true
			break
		}
	}
	u.mu.RUnlock()
	if needWalk {
		if _, err := u.Playlists(ctx); err != nil {
			logger.GetLogger().WithField("error", err).Warn("failed to refresh playlist titles")
		}
	}

	u.mu.RLock()
	defer u.mu.RUnlock()
	seen := make(map[string]bool, len(refs))
	titles := make([]string, 0, len(refs))
	for _, ref := range refs {
		title, ok := u.titleByID[ref.PlaylistID]
		if !ok || seen[title] {
			continue
		}
		seen[title] = true
		titles = append(titles, title)
	}
	sort.Strings(titles)
	return titles
}

func (u *PlaylistUseCase) Membership(videoID string) []string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return append([]string(nil), u.membership[videoID]...)
}

func (u *PlaylistUseCase) IsSaved(videoID string) bool {
	return u.ledger.Saved(videoID)
}

// ToggleSave flips the local saved flag first and reverts it if the remote
// write fails, so the UI state never silently diverges from the server.
func (u *PlaylistUseCase) ToggleSave(ctx context.Context, videoID, playlistID string) (bool, error) {
	if videoID == "" {
		return false, fmt.Errorf("video ID is required")
	}
	wasSaved := u.ledger.Saved(videoID)
	saving := !wasSaved
	u.ledger.SetSaved(videoID, saving)

	revert := func(err error) (bool, error) {
		u.ledger.SetSaved(videoID, wasSaved)
		return wasSaved, err
	}

	if saving {
		targetID := playlistID
		if targetID == "" {
			id, err := u.ensureSavedPlaylist(ctx)
			if err != nil {
				return revert(err)
			}
			targetID = id
		}
		if !u.ledger.Added(targetID, videoID) {
			itemID, err := u.youtubeRepo.InsertPlaylistItem(ctx, targetID, videoID)
			if err != nil {
				return revert(fmt.Errorf("failed to save video %s: %w", videoID, err))
			}
			u.ledger.MarkAdded(targetID, videoID, itemID)
		}
	} else {
		targetID := playlistID
		if targetID == "" {
			id, ok := u.ledger.PlaylistIDByName(u.savedName)
			if !ok {
				resolved, err := u.lookupPlaylistByTitle(ctx, u.savedName)
				if err != nil {
					return revert(err)
				}
				id = resolved
			}
			targetID = id
		}
		if targetID != "" {
			if err := u.removeSaved(ctx, targetID, videoID); err != nil {
				return revert(err)
			}
		}
	}

	if _, err := u.Refresh(ctx, videoID); err != nil {
		logger.GetLogger().WithField("video_id", videoID).WithField("error", err).Warn("membership refresh after toggle failed")
	}
	return saving, nil
}

func (u *PlaylistUseCase) removeSaved(ctx context.Context, playlistID, videoID string) error {
	itemID, ok := u.ledger.ItemID(playlistID, videoID)
	if !ok {
		found, err := u.findItemID(ctx, playlistID, videoID)
		if err != nil {
			return err
		}
		if found == "" {
			return nil
		}
		itemID = found
	}
	if err := u.youtubeRepo.DeletePlaylistItem(ctx, itemID); err != nil {
		return fmt.Errorf("failed to unsave video %s: %w", videoID, err)
	}
	u.ledger.MarkAdded(playlistID, videoID, "")
	return nil
}

// ensureSavedPlaylist resolves the saved playlist id, walking the user's
// playlists and finally creating the playlist when it does not exist yet.
func (u *PlaylistUseCase) ensureSavedPlaylist(ctx context.Context) (string, error) {
	if id, ok := u.ledger.PlaylistIDByName(u.savedName); ok {
		return id, nil
	}
	if id, err := u.lookupPlaylistByTitle(ctx, u.savedName); err != nil {
		return "", err
	} else if id != "" {
		return id, nil
	}
	created, err := u.youtubeRepo.CreatePlaylist(ctx, u.savedName, "Videos saved from the feed", "private")
	if err != nil {
		return "", fmt.Errorf("failed to create %q playlist: %w", u.savedName, err)
	}
	u.mu.Lock()
	u.titleByID[created.ID] = created.Title
	u.mu.Unlock()
	u.ledger.SavePlaylistIDByName(created.Title, created.ID)
	return created.ID, nil
}

func (u *PlaylistUseCase) lookupPlaylistByTitle(ctx context.Context, title string) (string, error) {
	playlists, err := u.Playlists(ctx)
	if err != nil {
		return "", err
	}
	for _, p := range playlists {
		if p.Title == title {
			return p.ID, nil
		}
	}
	return "", nil
}

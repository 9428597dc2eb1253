package repository

// IPlaylistLedger is the durable local record of confirmed playlist writes.
// It exists to avoid duplicate remote adds and to keep the list-item ids
// needed for removal. Implementations swallow their own storage errors and
// degrade to memory-only, mirroring the request cache's durable layer. It
// is never reconciled proactively; the membership tracker reconciles it
// during refresh.
type IPlaylistLedger interface {
	// Added reports whether the video was already confirmed added to the playlist.
	Added(playlistID, videoID string) bool
	// MarkAdded records a confirmed add together with the remote list-item
	// id. An empty itemID clears the record, allowing a legitimate re-add.
	MarkAdded(playlistID, videoID, itemID string)
	// ItemID returns the remote list-item id recorded for a video, if any.
	ItemID(playlistID, videoID string) (string, bool)
	// ClearAdded forgets every add record of the playlist.
	ClearAdded(playlistID string)
	// AddedPlaylists lists the playlist ids with an add record for the video.
	AddedPlaylists(videoID string) []string

	// PlaylistIDByName resolves a previously recorded playlist title.
	PlaylistIDByName(name string) (string, bool)
	// SavePlaylistIDByName records a title -> playlist id resolution.
	SavePlaylistIDByName(name, playlistID string)
	// DropPlaylist removes every record referencing the playlist.
	DropPlaylist(playlistID, name string)

	// Saved reports the local optimistic "saved" flag for a video.
	Saved(videoID string) bool
	// SetSaved flips the local saved flag.
	SetSaved(videoID string, saved bool)
	// SavedVideos lists all locally saved video ids.
	SavedVideos() []string
}

package persistence

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"feedhub/infrastructure/logger"
)

// Bucket names
var (
	bucketAdded = []byte("added") // playlistID/videoID -> playlistItemID
	bucketNames = []byte("names") // playlist title -> playlistID
	bucketSaved = []byte("saved") // videoID -> "1"

	allLedgerBuckets = [][]byte{bucketAdded, bucketNames, bucketSaved}
)

// LedgerStore records playlist membership observed from the API so that
// toggle state survives restarts. All state is mirrored in memory; BoltDB
// is the durable backing and may be absent, in which case the ledger is
// memory-only for the life of the process.
type LedgerStore struct {
	db *bolt.DB
	mu sync.RWMutex

	added map[string]map[string]string // playlistID -> videoID -> itemID
	names map[string]string            // playlist title -> playlistID
	saved map[string]bool              // videoID -> saved
}

// NewLedgerStore opens (or creates) the ledger database at path and loads
// its contents into memory. An empty path yields a memory-only ledger.
func NewLedgerStore(path string) (*LedgerStore, error) {
	s := &LedgerStore{
		added: make(map[string]map[string]string),
		names: make(map[string]string),
		saved: make(map[string]bool),
	}
	if path == "" {
		return s, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create ledger dir: %w", err)
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allLedgerBuckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	s.db = db
	if err := s.load(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *LedgerStore) load() error {
	return s.db.View(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketAdded).ForEach(func(k, v []byte) error {
			playlistID, videoID, ok := splitKey(string(k))
			if !ok {
				return nil
			}
			if s.added[playlistID] == nil {
				s.added[playlistID] = make(map[string]string)
			}
			s.added[playlistID][videoID] = string(v)
			return nil
		}); err != nil {
			return err
		}
		if err := tx.Bucket(bucketNames).ForEach(func(k, v []byte) error {
			s.names[string(k)] = string(v)
			return nil
		}); err != nil {
			return err
		}
		return tx.Bucket(bucketSaved).ForEach(func(k, _ []byte) error {
			s.saved[string(k)] = true
			return nil
		})
	})
}

// Close releases the underlying database, if any.
func (s *LedgerStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func joinKey(playlistID, videoID string) string {
	return playlistID + "/" + videoID
}

func splitKey(k string) (playlistID, videoID string, ok bool) {
	for i := 0; i < len(k); i++ {
		if k[i] == '/' {
			return k[:i], k[i+1:], true
		}
	}
	return "", "", false
}

// persist runs fn against the database, logging and ignoring failures so a
// bad disk never breaks in-memory bookkeeping.
func (s *LedgerStore) persist(fn func(tx *bolt.Tx) error) {
	if s.db == nil {
		return
	}
	if err := s.db.Update(fn); err != nil {
		logger.GetLogger().WithField("error", err).Warn("ledger write failed")
	}
}

// Added reports whether the video is recorded as a member of the playlist.
func (s *LedgerStore) Added(playlistID, videoID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.added[playlistID][videoID]
	return ok
}

// MarkAdded records (or clears, when itemID is empty) the playlist item.
func (s *LedgerStore) MarkAdded(playlistID, videoID, itemID string) {
	s.mu.Lock()
	if itemID == "" {
		delete(s.added[playlistID], videoID)
	} else {
		if s.added[playlistID] == nil {
			s.added[playlistID] = make(map[string]string)
		}
		s.added[playlistID][videoID] = itemID
	}
	s.mu.Unlock()

	key := []byte(joinKey(playlistID, videoID))
	s.persist(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketAdded)
		if itemID == "" {
			return b.Delete(key)
		}
		return b.Put(key, []byte(itemID))
	})
}

// ItemID returns the playlist item id recorded for (playlistID, videoID).
func (s *LedgerStore) ItemID(playlistID, videoID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.added[playlistID][videoID]
	return id, ok
}

// ClearAdded forgets every membership recorded for the playlist.
func (s *LedgerStore) ClearAdded(playlistID string) {
	s.mu.Lock()
	videos := s.added[playlistID]
	delete(s.added, playlistID)
	s.mu.Unlock()

	s.persist(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketAdded)
		for videoID := range videos {
			if err := b.Delete([]byte(joinKey(playlistID, videoID))); err != nil {
				return err
			}
		}
		return nil
	})
}

// AddedPlaylists lists the playlists the video is recorded in.
func (s *LedgerStore) AddedPlaylists(videoID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for playlistID, videos := range s.added {
		if _, ok := videos[videoID]; ok {
			out = append(out, playlistID)
		}
	}
	return out
}

// PlaylistIDByName returns the cached playlist id for a title.
func (s *LedgerStore) PlaylistIDByName(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.names[name]
	return id, ok
}

// SavePlaylistIDByName caches the title-to-id mapping.
func (s *LedgerStore) SavePlaylistIDByName(name, playlistID string) {
	s.mu.Lock()
	s.names[name] = playlistID
	s.mu.Unlock()

	s.persist(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketNames).Put([]byte(name), []byte(playlistID))
	})
}

// DropPlaylist removes everything recorded about a deleted playlist.
func (s *LedgerStore) DropPlaylist(playlistID, name string) {
	s.ClearAdded(playlistID)

	s.mu.Lock()
	if name != "" && s.names[name] == playlistID {
		delete(s.names, name)
	}
	s.mu.Unlock()

	if name != "" {
		s.persist(func(tx *bolt.Tx) error {
			return tx.Bucket(bucketNames).Delete([]byte(name))
		})
	}
}

// Saved reports the recorded saved flag for the video.
func (s *LedgerStore) Saved(videoID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saved[videoID]
}

// SetSaved records or clears the saved flag for the video.
func (s *LedgerStore) SetSaved(videoID string, saved bool) {
	s.mu.Lock()
	if saved {
		s.saved[videoID] = true
	} else {
		delete(s.saved, videoID)
	}
	s.mu.Unlock()

	s.persist(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSaved)
		if saved {
			return b.Put([]byte(videoID), []byte("1"))
		}
		return b.Delete([]byte(videoID))
	})
}

// SavedVideos lists every video currently flagged as saved.
func (s *LedgerStore) SavedVideos() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.saved))
	for videoID := range s.saved {
		out = append(out, videoID)
	}
	return out
}

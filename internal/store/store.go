package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/keroda/watchdeck/internal/domain"
)

// Bucket names
var (
	bucketDetails = []byte("details")
	bucketSeasons = []byte("seasons")
)

// CatalogStore caches catalog metadata (title detail and season
// episode lists) in BoltDB so reopening the app does not refetch
// unchanged payloads. Hot keys are promoted to a memory map.
//
// This store holds read-only catalog data; the library state cache is
// a separate in-memory concern and is never persisted here.
type CatalogStore struct {
	db *bolt.DB
	mu sync.RWMutex // protects memory cache

	cache map[string][]byte
}

// NewCatalogStore opens (or creates) the store under cacheDir. An
// empty cacheDir selects memory-only mode with no persistence.
func NewCatalogStore(cacheDir string) (*CatalogStore, error) {
	if cacheDir == "" {
		return &CatalogStore{cache: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(cacheDir, "catalog.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketDetails, bucketSeasons} {
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

	return &CatalogStore{db: db, cache: make(map[string][]byte)}, nil
}

func (s *CatalogStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *CatalogStore) get(bucket []byte, key string, dest interface{}) bool {
	cacheKey := string(bucket) + ":" + key

	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *CatalogStore) set(bucket []byte, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		return b.Put([]byte(key), data)
	})
}

func (s *CatalogStore) delete(bucket []byte, key string) {
	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	delete(s.cache, cacheKey)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b != nil {
			b.Delete([]byte(key))
		}
		return nil
	})
}

func (s *CatalogStore) deletePrefix(bucket []byte, prefix string) {
	s.mu.Lock()
	cachePrefix := string(bucket) + ":" + prefix
	for k := range s.cache {
		if strings.HasPrefix(k, cachePrefix) {
			delete(s.cache, k)
		}
	}
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		c := b.Cursor()
		prefixBytes := []byte(prefix)
		for k, _ := c.Seek(prefixBytes); k != nil && strings.HasPrefix(string(k), prefix); k, _ = c.Next() {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// === Title detail (key: {media}:{id}) ===

func detailKey(media domain.MediaType, id int) string {
	return fmt.Sprintf("%s:%d", media, id)
}

func (s *CatalogStore) GetDetail(media domain.MediaType, id int) (*domain.CatalogItem, bool) {
	var item domain.CatalogItem
	if !s.get(bucketDetails, detailKey(media, id), &item) {
		return nil, false
	}
	return &item, true
}

func (s *CatalogStore) SaveDetail(item *domain.CatalogItem) error {
	return s.set(bucketDetails, detailKey(item.MediaType, item.ID), item)
}

// === Season episodes (key: tv:{showID}:season:{n}) ===

func seasonKey(showID, season int) string {
	return fmt.Sprintf("tv:%d:season:%d", showID, season)
}

func (s *CatalogStore) GetSeasonEpisodes(showID, season int) ([]domain.EpisodeInfo, bool) {
	var episodes []domain.EpisodeInfo
	ok := s.get(bucketSeasons, seasonKey(showID, season), &episodes)
	return episodes, ok
}

func (s *CatalogStore) SaveSeasonEpisodes(showID, season int, episodes []domain.EpisodeInfo) error {
	return s.set(bucketSeasons, seasonKey(showID, season), episodes)
}

// === Invalidation ===

// InvalidateShow wipes a show's detail and every cached season.
func (s *CatalogStore) InvalidateShow(showID int) {
	s.delete(bucketDetails, detailKey(domain.MediaTypeTV, showID))
	s.deletePrefix(bucketSeasons, fmt.Sprintf("tv:%d:", showID))
}

// InvalidateAll wipes the entire catalog cache.
func (s *CatalogStore) InvalidateAll() {
	s.mu.Lock()
	s.cache = make(map[string][]byte)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketDetails, bucketSeasons} {
			b := tx.Bucket(bucket)
			if b == nil {
				continue
			}
			c := b.Cursor()
			for k, _ := c.First(); k != nil; k, _ = c.Next() {
				if err := b.Delete(k); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

package repositories

import (
	"encoding/json"
	"fmt"

	"github.com/michida/michida/internal/models"
)

// recentKey is the KV key holding the serialized cache.
const recentKey = "recently_viewed"

// RecentLimit bounds the recently-played cache.
const RecentLimit = 8

// RecentStore keeps the recently-played list in a [KV] store as one JSON
// document: at most [RecentLimit] entries, most-recently-played first,
// deduplicated by post id.
type RecentStore struct {
	kv KV
}

// NewRecentStore creates a RecentStore over kv.
func NewRecentStore(kv KV) *RecentStore {
	return &RecentStore{kv: kv}
}

// List returns the cached entries, most recent first. A missing or
// unparseable document reads as empty.
func (s *RecentStore) List() ([]models.RecentTrack, error) {
	raw, ok, err := s.kv.Get(recentKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var entries []models.RecentTrack
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, nil
	}
	return entries, nil
}

// Record moves track to the front, dropping any earlier entry for the same
// post and truncating to [RecentLimit].
func (s *RecentStore) Record(track models.RecentTrack) error {
	entries, err := s.List()
	if err != nil {
		return err
	}

	updated := make([]models.RecentTrack, 0, len(entries)+1)
	updated = append(updated, track)
	for _, e := range entries {
		if e.PostID != track.PostID {
			updated = append(updated, e)
		}
	}
	if len(updated) > RecentLimit {
		updated = updated[:RecentLimit]
	}

	return s.save(updated)
}

// Remove drops the entry for postID, if present.
func (s *RecentStore) Remove(postID int64) error {
	entries, err := s.List()
	if err != nil {
		return err
	}

	updated := entries[:0]
	for _, e := range entries {
		if e.PostID != postID {
			updated = append(updated, e)
		}
	}

	return s.save(updated)
}

// Clear empties the cache.
func (s *RecentStore) Clear() error {
	return s.kv.Remove(recentKey)
}

func (s *RecentStore) save(entries []models.RecentTrack) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode recent list: %w", err)
	}
	return s.kv.Set(recentKey, string(data))
}

package engine

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/ramckay/voiceloom/internal/model"
)

// Store holds analysis sessions between the Analyze call and later
// dismiss/merge operations. The engine keeps no state beyond this; callers
// own persistence.
type Store interface {
	Get(analysisID string) (*model.Analysis, bool)
	Put(a *model.Analysis)
	Delete(analysisID string)
}

// MemoryStore is an in-memory TTL'd session store
type MemoryStore struct {
	cache *gocache.Cache
}

// NewMemoryStore creates a memory store; sessions expire after ttl
func NewMemoryStore(ttl, cleanupInterval time.Duration) *MemoryStore {
	return &MemoryStore{
		cache: gocache.New(ttl, cleanupInterval),
	}
}

// Get retrieves an analysis session
func (s *MemoryStore) Get(analysisID string) (*model.Analysis, bool) {
	if v, found := s.cache.Get(analysisID); found {
		return v.(*model.Analysis), true
	}
	return nil, false
}

// Put stores an analysis session under its id with the default TTL
func (s *MemoryStore) Put(a *model.Analysis) {
	s.cache.SetDefault(a.ID, a)
}

// Delete removes an analysis session
func (s *MemoryStore) Delete(analysisID string) {
	s.cache.Delete(analysisID)
}

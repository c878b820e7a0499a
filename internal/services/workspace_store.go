package services

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/smarttransit/schedule-admin/internal/metrics"
)

// Workspace is the server-side state of one staff session
type Workspace struct {
	Form    *FormSession
	Listing *ListingView
}

// WorkspaceStore keeps workspaces in memory, keyed by session id.
// An entry expires after ttl without access.
type WorkspaceStore struct {
	mu      sync.Mutex
	cache   *cache.Cache
	metrics *metrics.Collector
}

// NewWorkspaceStore creates a store whose janitor runs every cleanupInterval
func NewWorkspaceStore(ttl, cleanupInterval time.Duration, collector *metrics.Collector) *WorkspaceStore {
	c := cache.New(ttl, cleanupInterval)
	c.OnEvicted(func(string, interface{}) {
		collector.WorkspaceClosed()
	})

	return &WorkspaceStore{
		cache:   c,
		metrics: collector,
	}
}

// Get returns the session's workspace, creating it on first use, and extends its lifetime
func (s *WorkspaceStore) Get(sessionID string) *Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.cache.Get(sessionID); ok {
		ws := v.(*Workspace)
		s.cache.SetDefault(sessionID, ws)
		return ws
	}

	// an expired entry the janitor has not collected yet still counts as active
	s.cache.Delete(sessionID)

	ws := &Workspace{
		Form:    NewFormSession(),
		Listing: NewListingView(),
	}
	s.cache.SetDefault(sessionID, ws)
	s.metrics.WorkspaceOpened()
	return ws
}

// Drop discards the session's workspace
func (s *WorkspaceStore) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Delete(sessionID)
}

// Count returns the number of live workspaces, expired ones included until collected
func (s *WorkspaceStore) Count() int {
	return s.cache.ItemCount()
}

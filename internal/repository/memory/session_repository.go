package memory

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"semsim-be/pkg/store"
)

// SessionRepository is the registry of in-flight and finished processing
// sessions. go-cache gives it the whole TTL story: entries expire after the
// configured session TTL, a janitor goroutine purges them on the sweep
// interval, and Get refuses already expired entries even between sweeps.
// Eviction is purely age based; an in-progress session past its TTL is gone
// for pollers even if its pipeline is still running.
type SessionRepository struct {
	cache *cache.Cache
}

// NewSessionRepository builds a store that expires sessions after ttl and
// sweeps expired ones every sweepInterval.
func NewSessionRepository(ttl, sweepInterval time.Duration) *SessionRepository {
	return &SessionRepository{
		cache: cache.New(ttl, sweepInterval),
	}
}

// Create allocates a fresh session in StatusProcessing and returns it.
func (r *SessionRepository) Create() *store.Session {
	session := store.NewSession(uuid.NewString())
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
	return session
}

// Get returns the session, or false if the id was never issued or its entry
// has passed the TTL.
func (r *SessionRepository) Get(sessionID string) (*store.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Session), true
	}
	return nil, false
}

// Delete evicts a session. Deleting an unknown id is a no-op.
func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}

// Count reports the number of live (not yet expired) sessions.
func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}

package memory

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"semsim-be/pkg/store"
)

func TestCreateAndGet(t *testing.T) {
	repo := NewSessionRepository(time.Minute, time.Minute)

	session := repo.Create()
	require.NotEmpty(t, session.ID)
	assert.Equal(t, store.StatusProcessing, session.Status())

	got, found := repo.Get(session.ID)
	require.True(t, found)
	assert.Same(t, session, got)
}

func TestGetUnknownID(t *testing.T) {
	repo := NewSessionRepository(time.Minute, time.Minute)

	_, found := repo.Get("never-issued")

	assert.False(t, found)
}

func TestConcurrentCreatesYieldDistinctSessions(t *testing.T) {
	repo := NewSessionRepository(time.Minute, time.Minute)

	const n = 100
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- repo.Create().ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate session id %s", id)
		seen[id] = true

		_, found := repo.Get(id)
		assert.True(t, found, "session %s not retrievable", id)
	}
	assert.Len(t, seen, n)
}

func TestSessionExpiresAfterTTL(t *testing.T) {
	repo := NewSessionRepository(20*time.Millisecond, time.Minute)

	session := repo.Create()
	_, found := repo.Get(session.ID)
	require.True(t, found)

	time.Sleep(40 * time.Millisecond)

	// Expired entries are refused on read even before the janitor runs.
	_, found = repo.Get(session.ID)
	assert.False(t, found)
}

func TestExpiryIgnoresStatus(t *testing.T) {
	repo := NewSessionRepository(20*time.Millisecond, time.Minute)

	session := repo.Create()
	// Still processing; eviction is age based only.
	assert.Equal(t, store.StatusProcessing, session.Status())

	time.Sleep(40 * time.Millisecond)

	_, found := repo.Get(session.ID)
	assert.False(t, found)
}

func TestDeleteIsIdempotent(t *testing.T) {
	repo := NewSessionRepository(time.Minute, time.Minute)

	session := repo.Create()
	repo.Delete(session.ID)
	repo.Delete(session.ID)

	_, found := repo.Get(session.ID)
	assert.False(t, found)
}

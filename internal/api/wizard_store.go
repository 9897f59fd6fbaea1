package api

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/ecobuild-core/internal/wizard"
)

// wizardEntry is one server-side wizard session. mu serialises every
// operation on wiz; it is released while the scoring collaborator runs.
type wizardEntry struct {
	mu      sync.Mutex
	wiz     *wizard.Wizard
	ownerID string // empty for an anonymous wizard

	lastUsed time.Time // guarded by wizardStore.mu
}

// wizardStore keeps wizard sessions in memory and expires idle ones.
type wizardStore struct {
	mu      sync.Mutex
	entries map[string]*wizardEntry
	ttl     time.Duration
	now     func() time.Time
}

func newWizardStore(ttl time.Duration) *wizardStore {
	return &wizardStore{
		entries: make(map[string]*wizardEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// create registers wiz and returns its session ID.
func (s *wizardStore) create(ownerID string, wiz *wizard.Wizard) (string, *wizardEntry) {
	id := "wiz-" + uuid.NewString()
	entry := &wizardEntry{wiz: wiz, ownerID: ownerID}

	s.mu.Lock()
	entry.lastUsed = s.now()
	s.entries[id] = entry
	s.mu.Unlock()

	return id, entry
}

// get returns a live session visible to userID and marks it used. A wizard
// created by a signed-in user is invisible to everyone else.
func (s *wizardStore) get(id, userID string) (*wizardEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if now.Sub(entry.lastUsed) > s.ttl {
		delete(s.entries, id)
		return nil, false
	}
	if entry.ownerID != "" && entry.ownerID != userID {
		return nil, false
	}
	entry.lastUsed = now
	return entry, true
}

// remove deletes a session.
func (s *wizardStore) remove(id string) {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
}

// sweep removes sessions idle for longer than the TTL and returns how many
// were removed.
func (s *wizardStore) sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, entry := range s.entries {
		if now.Sub(entry.lastUsed) > s.ttl {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// count returns the number of stored sessions, expired or not.
func (s *wizardStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

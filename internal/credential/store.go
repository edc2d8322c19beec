package credential

import (
	"sort"
	"sync"
	"time"

	"agentflow/internal/auth"
	"agentflow/pkg/logging"

	"github.com/google/uuid"
)

// StoredCredential is the display view of a credential. Config is always
// masked; callers wanting the raw configuration must go through FullConfig.
type StoredCredential struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Scheme    auth.Scheme `json:"scheme"`
	Config    auth.Config `json:"config"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

type entry struct {
	masked StoredCredential
	raw    auth.Config
}

// Store holds named authentication configurations in memory for the
// lifetime of the process. It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry

	now func() time.Time
}

// NewStore creates an empty credential store.
func NewStore() *Store {
	return &Store{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Save persists a credential under id, retaining the raw config for
// signing. If id is empty a new one is generated. Saving an existing id
// replaces its config and bumps UpdatedAt while keeping CreatedAt.
func (s *Store) Save(id, name string, cfg auth.Config) StoredCredential {
	if id == "" {
		id = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	createdAt := now
	if existing, ok := s.entries[id]; ok {
		createdAt = existing.masked.CreatedAt
	}

	e := &entry{
		masked: StoredCredential{
			ID:        id,
			Name:      name,
			Scheme:    cfg.Scheme(),
			Config:    MaskConfig(cfg),
			CreatedAt: createdAt,
			UpdatedAt: now,
		},
		raw: cfg,
	}
	s.entries[id] = e

	logging.Debug("CredentialStore", "Saved credential id=%s name=%s scheme=%s", id, name, cfg.Scheme())
	return e.masked
}

// Get returns the masked view of a credential.
func (s *Store) Get(id string) (StoredCredential, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok {
		return StoredCredential{}, false
	}
	return e.masked, true
}

// List returns the masked views of all credentials, ordered by name.
func (s *Store) List() []StoredCredential {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]StoredCredential, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.masked)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// FullConfig returns the raw, usable configuration for signing. The result
// contains live secrets and must not be logged or exposed to clients.
func (s *Store) FullConfig(id string) (auth.Config, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	return e.raw, true
}

// Delete removes a credential and reports whether it existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.entries[id]
	if ok {
		delete(s.entries, id)
		logging.Debug("CredentialStore", "Deleted credential id=%s", id)
	}
	return ok
}

// Count returns the number of stored credentials.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

package repository

import (
	"context"
	"sync"
	"time"

	"github.com/spec-kit/chat-service/internal/domain"
)

// PendingRegistrationStore holds unverified registrations keyed by temp id.
type PendingRegistrationStore interface {
	Save(ctx context.Context, reg domain.PendingRegistration) error
	Get(ctx context.Context, tempID string) (*domain.PendingRegistration, error)
	Delete(ctx context.Context, tempID string) error
	FindByEmail(ctx context.Context, email string) ([]domain.PendingRegistration, error)
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// MemoryPendingStore keeps pending registrations in process memory. Entries
// are never evicted on their own; DeleteExpired must be called to reclaim them.
type MemoryPendingStore struct {
	mu      sync.RWMutex
	entries map[string]domain.PendingRegistration
}

// NewMemoryPendingStore returns an empty store.
func NewMemoryPendingStore() *MemoryPendingStore {
	return &MemoryPendingStore{entries: make(map[string]domain.PendingRegistration)}
}

func (s *MemoryPendingStore) Save(_ context.Context, reg domain.PendingRegistration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[reg.TempID] = reg
	return nil
}

func (s *MemoryPendingStore) Get(_ context.Context, tempID string) (*domain.PendingRegistration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reg, ok := s.entries[tempID]
	if !ok {
		return nil, ErrNotFound
	}
	return &reg, nil
}

// Delete is a no-op for unknown ids.
func (s *MemoryPendingStore) Delete(_ context.Context, tempID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, tempID)
	return nil
}

func (s *MemoryPendingStore) FindByEmail(_ context.Context, email string) ([]domain.PendingRegistration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.PendingRegistration
	for _, reg := range s.entries {
		if reg.Email == email {
			out = append(out, reg)
		}
	}
	return out, nil
}

func (s *MemoryPendingStore) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, reg := range s.entries {
		if reg.ExpiredAt(now) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of stored entries, expired ones included.
func (s *MemoryPendingStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

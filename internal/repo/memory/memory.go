package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hamed0406/geocheck/internal/domain"
	"github.com/hamed0406/geocheck/internal/repo"
)

// Store is the in-process attempt list. Attempts are kept in insertion
// order internally and served newest first.
type Store struct {
	mu       sync.RWMutex
	attempts []domain.CheckAttempt
	byID     map[string]int
}

func New() *Store {
	return &Store{
		attempts: make([]domain.CheckAttempt, 0, 128),
		byID:     make(map[string]int),
	}
}

func (m *Store) Prepend(ctx context.Context, a domain.CheckAttempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.byID[a.ID]; dup {
		return fmt.Errorf("attempt %s already stored", a.ID)
	}
	m.byID[a.ID] = len(m.attempts)
	m.attempts = append(m.attempts, a)
	return nil
}

func (m *Store) Update(ctx context.Context, id string, fn func(*domain.CheckAttempt) error) (domain.CheckAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.byID[id]
	if !ok {
		return domain.CheckAttempt{}, fmt.Errorf("attempt %s: %w", id, repo.ErrNotFound)
	}
	cp := m.attempts[i]
	if err := fn(&cp); err != nil {
		return m.attempts[i], err
	}
	m.attempts[i] = cp
	return cp, nil
}

func (m *Store) Get(ctx context.Context, id string) (domain.CheckAttempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i, ok := m.byID[id]
	if !ok {
		return domain.CheckAttempt{}, fmt.Errorf("attempt %s: %w", id, repo.ErrNotFound)
	}
	return m.attempts[i], nil
}

func (m *Store) List(ctx context.Context) ([]domain.CheckAttempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.CheckAttempt, 0, len(m.attempts))
	for i := len(m.attempts) - 1; i >= 0; i-- {
		out = append(out, m.attempts[i])
	}
	return out, nil
}

// Alerts is the in-process AlertStore.
type Alerts struct {
	mu sync.RWMutex
	m  map[string]repo.AlertRecord
}

func NewAlerts() *Alerts {
	return &Alerts{m: make(map[string]repo.AlertRecord)}
}

func (a *Alerts) Get(ctx context.Context, key string) (*repo.AlertRecord, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	r, ok := a.m[key]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (a *Alerts) Set(ctx context.Context, key string, live bool, sentAt time.Time) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	r := a.m[key]
	r.Key = key
	r.LastLive = live
	if !sentAt.IsZero() {
		ts := sentAt
		r.LastSentAt = &ts
	}
	a.m[key] = r
	return nil
}

package repository

import (
	"context"
	"sync"
	"time"

	"freightdesk/backend/internal/mfa/domain"
)

// MemoryRepository is an in-process Repository for development and tests.
type MemoryRepository struct {
	mu    sync.Mutex
	codes map[string][]*domain.VerificationCode // phone -> codes in creation order
}

// NewMemoryRepository returns an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{codes: make(map[string][]*domain.VerificationCode)}
}

func (m *MemoryRepository) ReplaceActive(ctx context.Context, c *domain.VerificationCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, old := range m.codes[c.Phone] {
		if !old.Consumed {
			old.Superseded = true
		}
	}
	cp := *c
	m.codes[c.Phone] = append(m.codes[c.Phone], &cp)
	return nil
}

func (m *MemoryRepository) Attempt(ctx context.Context, phone, codeHash string, maxAttempts int, now time.Time) (domain.AttemptResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.codes[phone]
	for i := len(list) - 1; i >= 0; i-- {
		if list[i].Live(now) {
			return domain.Apply(list[i], codeHash, maxAttempts, now), nil
		}
	}
	return domain.AttemptNoActiveCode, nil
}

func (m *MemoryRepository) GetLatest(ctx context.Context, phone string) (*domain.VerificationCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.codes[phone]
	if len(list) == 0 {
		return nil, nil
	}
	cp := *list[len(list)-1]
	return &cp, nil
}

func (m *MemoryRepository) DeleteByPhone(ctx context.Context, phone string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.codes, phone)
	return nil
}

func (m *MemoryRepository) CountCreatedSince(ctx context.Context, phone string, since time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.codes[phone] {
		if !c.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (m *MemoryRepository) DeleteStale(ctx context.Context, before, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed int64
	for phone, list := range m.codes {
		kept := list[:0]
		for _, c := range list {
			if c.CreatedAt.Before(before) && !c.Live(now) {
				removed++
				continue
			}
			kept = append(kept, c)
		}
		if len(kept) == 0 {
			delete(m.codes, phone)
			continue
		}
		m.codes[phone] = kept
	}
	return removed, nil
}

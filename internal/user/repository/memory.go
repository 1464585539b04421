package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"freightdesk/backend/internal/user/domain"
)

// ErrDuplicatePhone is returned by MemoryRepository.Create when the phone is taken.
var ErrDuplicatePhone = errors.New("user with phone already exists")

// MemoryRepository is an in-process user Repository for development and tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

// NewMemoryRepository returns an empty in-memory user repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]*domain.User)}
}

func (m *MemoryRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *MemoryRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Phone == phone {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MemoryRepository) Create(ctx context.Context, u *domain.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Phone == u.Phone {
			return ErrDuplicatePhone
		}
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *MemoryRepository) SetPhoneVerified(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[userID]; ok && !u.PhoneVerified {
		u.PhoneVerified = true
		u.UpdatedAt = time.Now().UTC()
	}
	return nil
}

func (m *MemoryRepository) SetStatus(ctx context.Context, userID string, status domain.UserStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[userID]; ok {
		u.Status = status
		u.UpdatedAt = time.Now().UTC()
	}
	return nil
}

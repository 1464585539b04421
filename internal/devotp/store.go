// Package devotp keeps the plain verification code per phone so it can be read back
// through the dev endpoints. Only wired when OTP_RETURN_TO_CLIENT is enabled outside production.
package devotp

import (
	"context"
	"sync"
	"time"
)

// Store holds the latest plain code per phone for dev-only retrieval.
type Store interface {
	// Put stores code for phone until expiresAt, replacing any earlier code.
	Put(ctx context.Context, phone, code string, expiresAt time.Time)
	// Get returns the code for phone if present and not expired.
	Get(ctx context.Context, phone string) (code string, ok bool)
	// Delete drops the code for phone.
	Delete(ctx context.Context, phone string)
}

type entry struct {
	code      string
	expiresAt time.Time
}

// MemoryStore keeps codes in a map. Expired entries are dropped on read and swept on every Put.
type MemoryStore struct {
	mu    sync.Mutex
	codes map[string]entry
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{codes: make(map[string]entry), now: time.Now}
}

func (s *MemoryStore) Put(_ context.Context, phone, code string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for p, e := range s.codes {
		if !e.expiresAt.After(now) {
			delete(s.codes, p)
		}
	}
	s.codes[phone] = entry{code: code, expiresAt: expiresAt}
}

func (s *MemoryStore) Get(_ context.Context, phone string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.codes[phone]
	if !ok {
		return "", false
	}
	if !e.expiresAt.After(s.now()) {
		delete(s.codes, phone)
		return "", false
	}
	return e.code, true
}

func (s *MemoryStore) Delete(_ context.Context, phone string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, phone)
}

// Len reports the number of codes held, expired ones included until swept.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.codes)
}

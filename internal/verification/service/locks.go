package service

import "sync"

// phoneLocks serializes work per phone within this process. Entries are dropped once unused.
type phoneLocks struct {
	mu    sync.Mutex
	locks map[string]*phoneLock
}

type phoneLock struct {
	sync.Mutex
	refs int
}

func newPhoneLocks() *phoneLocks {
	return &phoneLocks{locks: make(map[string]*phoneLock)}
}

// lock blocks until phone is free and returns the matching unlock.
func (p *phoneLocks) lock(phone string) func() {
	p.mu.Lock()
	l, ok := p.locks[phone]
	if !ok {
		l = &phoneLock{}
		p.locks[phone] = l
	}
	l.refs++
	p.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		p.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(p.locks, phone)
		}
		p.mu.Unlock()
	}
}

func (p *phoneLocks) len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.locks)
}

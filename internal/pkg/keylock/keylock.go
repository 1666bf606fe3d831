package keylock

import "sync"

// UserLock serializes operations per user id. Cart mutations and checkout for
// the same user must not interleave, while unrelated users stay independent.
// Entries are never evicted; the map is bounded by the number of active users.
type UserLock struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewUserLock() *UserLock {
	return &UserLock{locks: make(map[uint]*sync.Mutex)}
}

func (l *UserLock) Lock(userID uint) {
	l.mu.Lock()
	m, ok := l.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[userID] = m
	}
	l.mu.Unlock()
	m.Lock()
}

func (l *UserLock) Unlock(userID uint) {
	l.mu.Lock()
	m := l.locks[userID]
	l.mu.Unlock()
	if m != nil {
		m.Unlock()
	}
}

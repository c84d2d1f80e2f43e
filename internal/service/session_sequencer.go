package service

import "sync"

// SessionSequencer runs work for the same session one at a time. Different sessions do not
// block each other.
type SessionSequencer struct {
	mu    sync.Mutex
	locks map[uint]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewSessionSequencer() *SessionSequencer {
	return &SessionSequencer{locks: make(map[uint]*sessionLock)}
}

// Do blocks until fn has run with exclusive access to sessionId.
func (s *SessionSequencer) Do(sessionId uint, fn func()) {
	lock := s.acquire(sessionId)
	lock.mu.Lock()
	defer func() {
		lock.mu.Unlock()
		s.release(sessionId, lock)
	}()

	fn()
}

func (s *SessionSequencer) acquire(sessionId uint) *sessionLock {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[sessionId]
	if !ok {
		lock = &sessionLock{}
		s.locks[sessionId] = lock
	}
	lock.refs++
	return lock
}

func (s *SessionSequencer) release(sessionId uint, lock *sessionLock) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock.refs--
	if lock.refs == 0 {
		delete(s.locks, sessionId)
	}
}

// Active reports how many sessions currently hold or wait for a slot.
func (s *SessionSequencer) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.locks)
}

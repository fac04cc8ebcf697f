package store

import "sync"

// locker hands out one mutex per slug so save and delete on the same note
// never interleave within this process. Cross-process writers still race;
// the filesystem's rename atomicity is the only guarantee there.
type locker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newLocker() *locker {
	return &locker{locks: make(map[string]*sync.Mutex)}
}

func (l *locker) lock(slug string) func() {
	l.mu.Lock()
	m, ok := l.locks[slug]
	if !ok {
		m = &sync.Mutex{}
		l.locks[slug] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

package memory

import "sync"

// laneLock hands out one mutex per session id. The global mutex only guards
// the lane map; the per-lane mutex is locked outside it so other sessions
// are never blocked. Lanes are dropped once nobody holds or waits on them.
type laneLock struct {
	mu    sync.Mutex
	lanes map[string]*lane
}

// refs counts holders plus waiters
type lane struct {
	mu   sync.Mutex
	refs int
}

func newLaneLock() *laneLock {
	return &laneLock{lanes: make(map[string]*lane)}
}

func (l *laneLock) acquire(key string) {
	l.mu.Lock()
	ln, ok := l.lanes[key]
	if !ok {
		ln = &lane{}
		l.lanes[key] = ln
	}
	ln.refs++
	l.mu.Unlock()

	ln.mu.Lock()
}

func (l *laneLock) release(key string) {
	l.mu.Lock()
	ln, ok := l.lanes[key]
	if !ok {
		l.mu.Unlock()
		return
	}
	ln.refs--
	if ln.refs == 0 {
		delete(l.lanes, key)
	}
	l.mu.Unlock()

	ln.mu.Unlock()
}

func (l *laneLock) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.lanes)
}

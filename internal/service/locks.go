package service

import "sync"

// eventLocks hands out one mutex per event. An entry lives only while a caller holds
// or waits for it, so the map stays as small as the number of events being written.
type eventLocks struct {
	mu    sync.Mutex
	locks map[string]*eventLock
}

type eventLock struct {
	sync.Mutex
	refs int
}

// lock blocks until the event's mutex is held and returns the function releasing it.
func (l *eventLocks) lock(eventID string) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*eventLock)
	}
	el, ok := l.locks[eventID]
	if !ok {
		el = &eventLock{}
		l.locks[eventID] = el
	}
	el.refs++
	l.mu.Unlock()

	el.Lock()
	return func() {
		el.Unlock()

		l.mu.Lock()
		el.refs--
		if el.refs == 0 {
			delete(l.locks, eventID)
		}
		l.mu.Unlock()
	}
}

// held returns the number of events with a holder or waiter.
func (l *eventLocks) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

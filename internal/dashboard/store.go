package dashboard

import "sync"

// Store holds the controller's published state and notifies subscribers on
// every transition. State is replaced wholesale under the lock, never
// field-mutated, so readers always observe one complete value.
type Store struct {
	mu     sync.Mutex
	state  State
	subs   map[uint64]func(State)
	nextID uint64
	closed bool
}

func newStore() *Store {
	return &Store{state: Pending(), subs: make(map[uint64]func(State))}
}

// Current returns the last published state.
func (s *Store) Current() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to receive the current state immediately and every
// subsequent transition until the returned cancel func is called or the
// store is closed. Callbacks run on the publishing goroutine and must not
// block.
func (s *Store) Subscribe(fn func(State)) (func(), error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed()
	}
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	cur := s.state
	s.mu.Unlock()

	fn(cur)
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}, nil
}

// publish commits st and notifies subscribers synchronously. Publishes
// after Close are dropped.
func (s *Store) publish(st State) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.state = st
	fns := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(st)
	}
}

// Close drops all subscribers and freezes the state.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.subs = nil
	s.mu.Unlock()
}

func (s *Store) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

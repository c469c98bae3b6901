package state

import (
	"sync"
)

// Listener receives the state produced by each dispatched action.
type Listener func(State)

// Store serializes state transitions. Listeners see every snapshot in the
// order the actions were applied, even when Dispatch is called from several
// goroutines or from inside a listener: snapshots are queued and delivered
// by whichever Dispatch call is already draining the queue, so a call may
// return before its own snapshot has reached the listeners.
type Store struct {
	mu        sync.Mutex
	state     State
	listeners map[int]Listener
	order     []int
	next      int

	queue    []State
	draining bool
}

// NewStore returns a store seeded with Initial().
func NewStore() *Store {
	return NewStoreWith(Initial())
}

func NewStoreWith(s State) *Store {
	s.Notifications.recomputeBadge()
	return &Store{state: s.clone(), listeners: map[int]Listener{}}
}

// Dispatch applies a and notifies subscribers with the new snapshot.
func (st *Store) Dispatch(a Action) {
	st.mu.Lock()
	next := st.state.clone()
	a.apply(&next)
	next.Notifications.recomputeBadge()
	st.state = next
	st.queue = append(st.queue, next)

	if st.draining {
		st.mu.Unlock()
		return
	}
	st.draining = true
	defer func() {
		st.draining = false
		st.mu.Unlock()
	}()

	for len(st.queue) > 0 {
		snap := st.queue[0]
		st.queue = st.queue[1:]
		ls := make([]Listener, 0, len(st.order))
		for _, id := range st.order {
			ls = append(ls, st.listeners[id])
		}

		st.mu.Unlock()
		for _, l := range ls {
			l(snap.clone())
		}
		st.mu.Lock()
	}
}

// GetState returns a snapshot that callers may modify freely.
func (st *Store) GetState() State {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state.clone()
}

// Subscribe registers l and returns a function that removes it.
func (st *Store) Subscribe(l Listener) (unsubscribe func()) {
	st.mu.Lock()
	defer st.mu.Unlock()

	id := st.next
	st.next++
	st.listeners[id] = l
	st.order = append(st.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			st.mu.Lock()
			defer st.mu.Unlock()
			delete(st.listeners, id)
			for i, v := range st.order {
				if v == id {
					st.order = append(st.order[:i], st.order[i+1:]...)
					break
				}
			}
		})
	}
}

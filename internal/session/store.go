package session

import (
	"container/list"
	"sync"
	"time"
)

type key struct {
	contributor int64
	flow        Flow
}

// Store keeps sessions keyed by (contributor, flow) with idle-TTL and
// size-based eviction. Put overwrites any stale session for the same key,
// so re-entering a dialogue silently discards the unfinished one. The lock
// is only held for map operations, never across store I/O.
type Store struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[key]*list.Element
	lru     *list.List
}

type entry struct {
	key       key
	session   Session
	expiresAt time.Time
}

// NewStore creates a session store with the given capacity and idle TTL.
func NewStore(maxSize int, ttl time.Duration) *Store {
	return &Store{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[key]*list.Element),
		lru:     list.New(),
	}
}

// Get retrieves the active session for (contributor, flow). An expired
// session is removed and reported as absent.
func (s *Store) Get(contributor int64, flow Flow) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, exists := s.items[key{contributor, flow}]
	if !exists {
		return Session{}, false
	}

	e := elem.Value.(*entry)
	if time.Now().After(e.expiresAt) {
		s.removeElement(elem)
		return Session{}, false
	}

	s.lru.MoveToFront(elem)
	return e.session, true
}

// Put stores a session, overwriting any previous one for the same key and
// resetting its idle deadline.
func (s *Store) Put(sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key{sess.Contributor, sess.Flow}
	e := &entry{
		key:       k,
		session:   sess,
		expiresAt: time.Now().Add(s.ttl),
	}

	if elem, exists := s.items[k]; exists {
		elem.Value = e
		s.lru.MoveToFront(elem)
		return
	}

	elem := s.lru.PushFront(e)
	s.items[k] = elem

	if s.lru.Len() > s.maxSize {
		if oldest := s.lru.Back(); oldest != nil {
			s.removeElement(oldest)
		}
	}
}

// Delete removes the session for (contributor, flow). Absent keys are a
// no-op, which keeps cancellation idempotent.
func (s *Store) Delete(contributor int64, flow Flow) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, exists := s.items[key{contributor, flow}]; exists {
		s.removeElement(elem)
	}
}

// DeleteAll removes every flow's session for the contributor.
func (s *Store) DeleteAll(contributor int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, flow := range []Flow{FlowExpense, FlowCategoryAdd, FlowCategoryDelete} {
		if elem, exists := s.items[key{contributor, flow}]; exists {
			s.removeElement(elem)
		}
	}
}

func (s *Store) removeElement(elem *list.Element) {
	e := elem.Value.(*entry)
	delete(s.items, e.key)
	s.lru.Remove(elem)
}

// EvictExpired removes all sessions past their idle deadline and returns
// how many were dropped. The janitor loop calls this periodically; Get also
// expires lazily, so eviction is a bound on memory, not correctness.
func (s *Store) EvictExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	var toRemove []*list.Element

	for elem := s.lru.Front(); elem != nil; elem = elem.Next() {
		if now.After(elem.Value.(*entry).expiresAt) {
			toRemove = append(toRemove, elem)
		}
	}

	for _, elem := range toRemove {
		s.removeElement(elem)
	}

	return len(toRemove)
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

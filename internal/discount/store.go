package discount

import (
	"sync"
	"time"
)

// Store keeps the discount catalog in memory. Entries preserve insertion
// order, which is also the tie-break order during evaluation. All methods
// are safe for concurrent use; snapshots returned to callers are copies, so
// later catalog writes never race with an in-flight evaluation.
type Store struct {
	mu    sync.RWMutex
	rules []Rule
}

// NewStore returns an empty catalog.
func NewStore() *Store {
	return &Store{}
}

// Create validates the rule, assigns the next id and appends it to the
// catalog. Any id already present on the rule is discarded.
func (s *Store) Create(r Rule) (Rule, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r = r.withID(s.nextID())
	s.rules = append(s.rules, r)
	return r, nil
}

// Get returns the rule with the given id.
func (s *Store) Get(id int64) (Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.rules {
		if r.ID() == id {
			return r, nil
		}
	}
	return nil, ErrNotFound
}

// List returns a copy of the full catalog in insertion order.
func (s *Store) List() []Rule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Active returns a copy of the catalog filtered to rules that have not
// expired at the given instant.
func (s *Store) Active(now time.Time) []Rule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Rule, 0, len(s.rules))
	for _, r := range s.rules {
		if !Expired(r, now) {
			out = append(out, r)
		}
	}
	return out
}

// Update validates the replacement rule and swaps it in under the existing
// id, keeping the entry's catalog position.
func (s *Store) Update(id int64, r Rule) (Rule, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.rules {
		if existing.ID() == id {
			r = r.withID(id)
			s.rules[i] = r
			return r, nil
		}
	}
	return nil, ErrNotFound
}

// Delete removes the rule with the given id.
func (s *Store) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.rules {
		if r.ID() == id {
			s.rules = append(s.rules[:i], s.rules[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// nextID is one past the highest id currently in the catalog. Callers must
// hold the write lock.
func (s *Store) nextID() int64 {
	var max int64
	for _, r := range s.rules {
		if r.ID() > max {
			max = r.ID()
		}
	}
	return max + 1
}

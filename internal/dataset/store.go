package dataset

import (
	"sync"

	"github.com/BerylCAtieno/persona-studio/internal/filter"
	"github.com/BerylCAtieno/persona-studio/internal/models"
)

// Ticket orders remote mutations. A ticket is taken when a generate or
// delete request is issued and presented again when its response arrives.
type Ticket uint64

// Store holds a session's working set and the filtered view derived from it.
// All mutation is wholesale; readers never observe a partial update.
type Store struct {
	mu       sync.RWMutex
	working  []models.PersonaRecord
	criteria filter.Criteria

	view      []models.PersonaRecord
	viewValid bool

	issued Ticket
}

func New() *Store {
	return &Store{working: []models.PersonaRecord{}}
}

// Replace sets the working set to a copy of records and invalidates the view.
func (s *Store) Replace(records []models.PersonaRecord) {
	cp := models.CloneAll(records)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceLocked(cp)
}

// Clear empties the working set and the view.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceLocked([]models.PersonaRecord{})
}

func (s *Store) replaceLocked(records []models.PersonaRecord) {
	s.working = records
	s.view = nil
	s.viewValid = false
}

// Current returns a copy of the working set.
func (s *Store) Current() []models.PersonaRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneAll(s.working)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.working)
}

// SetCriteria replaces the filter criteria and invalidates the view. The
// store keeps its own copy of c.
func (s *Store) SetCriteria(c filter.Criteria) {
	c = c.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = c
	s.view = nil
	s.viewValid = false
}

func (s *Store) Criteria() filter.Criteria {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.criteria.Clone()
}

// Filtered returns a copy of the filtered view, recomputing it from the
// working set and criteria if a mutation invalidated it.
func (s *Store) Filtered() []models.PersonaRecord {
	s.mu.RLock()
	if s.viewValid {
		out := models.CloneAll(s.view)
		s.mu.RUnlock()
		return out
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.viewValid {
		s.view = filter.Apply(s.working, s.criteria)
		s.viewValid = true
	}
	return models.CloneAll(s.view)
}

// Begin issues a ticket for a remote mutation that is about to start.
func (s *Store) Begin() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// Commit replaces the working set with records only if t is the most
// recently issued ticket. It reports whether the records were applied.
func (s *Store) Commit(t Ticket, records []models.PersonaRecord) bool {
	cp := models.CloneAll(records)
	s.mu.Lock()
	defer s.mu.Unlock()
	if t != s.issued {
		return false
	}
	s.replaceLocked(cp)
	return true
}

// CommitClear clears the working set only if t is the most recently issued
// ticket.
func (s *Store) CommitClear(t Ticket) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t != s.issued {
		return false
	}
	s.replaceLocked([]models.PersonaRecord{})
	return true
}

// Package cache tracks job postings already seen by the monitor so a posting
// is processed at most once within and across fetch cycles. It is a
// memoization guard, not a durable store; durability belongs to persistence.
package cache

import (
	"sync"
	"time"

	"github.com/dike950121/upwork-radar/internal/job"
)

// Stats is a snapshot of the cache state.
type Stats struct {
	Size      int
	LastFetch time.Time
}

// Seen is an in-memory map from external job id to the last-seen job.
// Unbounded for the process lifetime; the only eviction is an explicit Clear.
type Seen struct {
	mu        sync.RWMutex
	jobs      map[string]*job.Job
	lastFetch time.Time
}

func New() *Seen {
	return &Seen{jobs: make(map[string]*job.Job)}
}

func (s *Seen) Has(externalID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.jobs[externalID]
	return ok
}

func (s *Seen) Record(externalID string, j *job.Job) {
	if externalID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[externalID] = j
}

func (s *Seen) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = make(map[string]*job.Job)
}

// MarkFetch records the completion time of a fetch cycle for Stats.
func (s *Seen) MarkFetch(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastFetch = t
}

func (s *Seen) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{Size: len(s.jobs), LastFetch: s.lastFetch}
}

package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dike950121/upwork-radar/internal/job"
	"github.com/dike950121/upwork-radar/internal/profile"
)

// Memory is an in-process Store used by tests and store-less runs.
type Memory struct {
	mu       sync.RWMutex
	jobs     map[string]*job.Job
	profiles map[string]*profile.Profile
	order    []string
}

func NewMemory() *Memory {
	return &Memory{
		jobs:     make(map[string]*job.Job),
		profiles: make(map[string]*profile.Profile),
	}
}

func (m *Memory) CreateJob(_ context.Context, j *job.Job) error {
	if j == nil || j.ExternalID == "" {
		return fmt.Errorf("job with external id is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.jobs[j.ExternalID]; ok {
		return fmt.Errorf("job %s already exists", j.ExternalID)
	}

	stored := *j
	m.jobs[j.ExternalID] = &stored
	m.order = append(m.order, j.ExternalID)
	return nil
}

func (m *Memory) JobByExternalID(_ context.Context, externalID string) (*job.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored, ok := m.jobs[externalID]
	if !ok {
		return nil, fmt.Errorf("job %s: %w", externalID, ErrNotFound)
	}

	copied := *stored
	return &copied, nil
}

func (m *Memory) UpdateJob(_ context.Context, externalID string, patch JobPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.jobs[externalID]
	if !ok {
		return fmt.Errorf("job %s: %w", externalID, ErrNotFound)
	}

	now := time.Now().UTC()
	if patch.Score != nil {
		stored.SetScore(*patch.Score)
	}
	if patch.Category != nil {
		stored.Category = *patch.Category
	}
	if patch.Applied != nil {
		stored.Applied = *patch.Applied
		if *patch.Applied {
			stored.AppliedAt = &now
		} else {
			stored.AppliedAt = nil
		}
	}
	if patch.Saved != nil {
		stored.Saved = *patch.Saved
		if *patch.Saved {
			stored.SavedAt = &now
		} else {
			stored.SavedAt = nil
		}
	}
	return nil
}

func (m *Memory) Jobs(_ context.Context, filters JobFilters) (*job.Jobs, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	jobs := &job.Jobs{}
	for _, id := range m.order {
		stored := m.jobs[id]
		if filters.Category != "" && stored.Category != filters.Category {
			continue
		}
		if stored.Score < filters.MinScore {
			continue
		}
		if filters.Applied != nil && stored.Applied != *filters.Applied {
			continue
		}
		copied := *stored
		jobs.Items = append(jobs.Items, &copied)
		if filters.Limit > 0 && jobs.Len() >= filters.Limit {
			break
		}
	}
	return jobs, nil
}

func (m *Memory) Profiles(_ context.Context) (*profile.Profiles, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.profiles))
	for name := range m.profiles {
		names = append(names, name)
	}
	sort.Strings(names)

	profiles := &profile.Profiles{}
	for _, name := range names {
		copied := *m.profiles[name]
		profiles.Items = append(profiles.Items, &copied)
	}
	return profiles, nil
}

func (m *Memory) CreateProfile(_ context.Context, p *profile.Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.profiles[p.Name]; ok {
		return fmt.Errorf("profile %q already exists", p.Name)
	}

	stored := *p
	m.profiles[p.Name] = &stored
	return nil
}

func (m *Memory) DeleteProfile(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.profiles[name]; !ok {
		return fmt.Errorf("profile %q: %w", name, ErrNotFound)
	}
	delete(m.profiles, name)
	return nil
}

func (m *Memory) Close() {}

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/dike950121/upwork-radar/internal/job"
	"github.com/dike950121/upwork-radar/internal/profile"
)

func TestMemoryJobRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	created := &job.Job{
		ExternalID: "job-1",
		Title:      "Go developer",
		Skills:     []string{"Go", "PostgreSQL"},
		Budget:     &job.Budget{Type: job.BudgetHourly, Min: 40, Max: 70},
		Score:      7.5,
		Category:   "backend",
	}
	if err := m.CreateJob(ctx, created); err != nil {
		t.Fatalf("creating job: %v", err)
	}

	loaded, err := m.JobByExternalID(ctx, "job-1")
	if err != nil {
		t.Fatalf("loading job: %v", err)
	}
	if loaded.Title != created.Title || loaded.Score != created.Score || loaded.Category != created.Category {
		t.Fatalf("loaded job differs: %+v", loaded)
	}
	if len(loaded.Skills) != 2 {
		t.Fatalf("expected 2 skills, got %v", loaded.Skills)
	}

	// Mutating the loaded copy must not leak into the store.
	loaded.Title = "changed"
	reloaded, _ := m.JobByExternalID(ctx, "job-1")
	if reloaded.Title != created.Title {
		t.Fatal("loaded job is not a copy")
	}
}

func TestMemoryCreateJobRejectsDuplicatesAndEmptyID(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if err := m.CreateJob(ctx, &job.Job{}); err == nil {
		t.Fatal("expected an error for a job without external id")
	}

	j := &job.Job{ExternalID: "job-1"}
	if err := m.CreateJob(ctx, j); err != nil {
		t.Fatalf("creating job: %v", err)
	}
	if err := m.CreateJob(ctx, j); err == nil {
		t.Fatal("expected an error for a duplicate job")
	}
}

func TestMemoryJobByExternalIDNotFound(t *testing.T) {
	m := NewMemory()

	_, err := m.JobByExternalID(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryUpdateJobPatch(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if err := m.CreateJob(ctx, &job.Job{ExternalID: "job-1"}); err != nil {
		t.Fatalf("creating job: %v", err)
	}

	score := 8.2
	category := "backend"
	applied := true
	patch := JobPatch{Score: &score, Category: &category, Applied: &applied}
	if err := m.UpdateJob(ctx, "job-1", patch); err != nil {
		t.Fatalf("updating job: %v", err)
	}

	loaded, _ := m.JobByExternalID(ctx, "job-1")
	if loaded.Score != 8.2 || loaded.Category != "backend" || !loaded.Applied {
		t.Fatalf("patch not applied: %+v", loaded)
	}
	if loaded.AppliedAt == nil {
		t.Fatal("expected applied timestamp to be set")
	}

	applied = false
	if err := m.UpdateJob(ctx, "job-1", JobPatch{Applied: &applied}); err != nil {
		t.Fatalf("updating job: %v", err)
	}
	loaded, _ = m.JobByExternalID(ctx, "job-1")
	if loaded.Applied || loaded.AppliedAt != nil {
		t.Fatalf("expected applied state cleared: %+v", loaded)
	}

	if err := m.UpdateJob(ctx, "missing", patch); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryJobsFilters(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	applied := true
	seed := []*job.Job{
		{ExternalID: "a", Category: "backend", Score: 9},
		{ExternalID: "b", Category: "frontend", Score: 6},
		{ExternalID: "c", Category: "backend", Score: 3},
	}
	for _, j := range seed {
		if err := m.CreateJob(ctx, j); err != nil {
			t.Fatalf("creating job %s: %v", j.ExternalID, err)
		}
	}
	if err := m.UpdateJob(ctx, "a", JobPatch{Applied: &applied}); err != nil {
		t.Fatalf("updating job: %v", err)
	}

	byCategory, _ := m.Jobs(ctx, JobFilters{Category: "backend"})
	if byCategory.Len() != 2 {
		t.Fatalf("category filter: expected 2 jobs, got %d", byCategory.Len())
	}

	byScore, _ := m.Jobs(ctx, JobFilters{MinScore: 5})
	if byScore.Len() != 2 {
		t.Fatalf("score filter: expected 2 jobs, got %d", byScore.Len())
	}

	notApplied := false
	byApplied, _ := m.Jobs(ctx, JobFilters{Applied: &notApplied})
	if byApplied.Len() != 2 {
		t.Fatalf("applied filter: expected 2 jobs, got %d", byApplied.Len())
	}

	limited, _ := m.Jobs(ctx, JobFilters{Limit: 1})
	if limited.Len() != 1 {
		t.Fatalf("limit filter: expected 1 job, got %d", limited.Len())
	}
}

func TestMemoryProfiles(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if err := m.CreateProfile(ctx, &profile.Profile{Name: "backend dev"}); err == nil {
		t.Fatal("expected a validation error for a profile without skills")
	}

	p := &profile.Profile{Name: "backend dev", Skills: []string{"Go"}}
	if err := m.CreateProfile(ctx, p); err != nil {
		t.Fatalf("creating profile: %v", err)
	}
	if err := m.CreateProfile(ctx, p); err == nil {
		t.Fatal("expected an error for a duplicate profile")
	}

	profiles, err := m.Profiles(ctx)
	if err != nil {
		t.Fatalf("listing profiles: %v", err)
	}
	if profiles.Len() != 1 || profiles.Items[0].Name != "backend dev" {
		t.Fatalf("unexpected profiles: %+v", profiles.Items)
	}

	if err := m.DeleteProfile(ctx, "backend dev"); err != nil {
		t.Fatalf("deleting profile: %v", err)
	}
	if err := m.DeleteProfile(ctx, "backend dev"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// Package store is the persistence collaborator boundary. The core depends
// only on the CRUD-shaped Store interface; whether it is backed by Postgres
// or the in-memory implementation is irrelevant to callers.
package store

import (
	"context"
	"errors"

	"github.com/dike950121/upwork-radar/internal/job"
	"github.com/dike950121/upwork-radar/internal/profile"
)

// ErrNotFound is returned when a job or profile does not exist.
var ErrNotFound = errors.New("not found")

// JobPatch carries the mutable fields of a stored job. Nil fields are left
// untouched.
type JobPatch struct {
	Score    *float64
	Category *string
	Applied  *bool
	Saved    *bool
}

// JobFilters narrows Jobs queries. Zero values mean "no constraint".
type JobFilters struct {
	Category string
	MinScore float64
	Applied  *bool
	Limit    int
}

type Store interface {
	CreateJob(ctx context.Context, j *job.Job) error
	JobByExternalID(ctx context.Context, externalID string) (*job.Job, error)
	UpdateJob(ctx context.Context, externalID string, patch JobPatch) error
	Jobs(ctx context.Context, filters JobFilters) (*job.Jobs, error)

	Profiles(ctx context.Context) (*profile.Profiles, error)
	CreateProfile(ctx context.Context, p *profile.Profile) error
	DeleteProfile(ctx context.Context, name string) error

	Close()
}

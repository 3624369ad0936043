package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dike950121/upwork-radar/internal/job"
	"github.com/dike950121/upwork-radar/internal/profile"
)

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
	external_id      TEXT PRIMARY KEY,
	title            TEXT NOT NULL DEFAULT '',
	description      TEXT NOT NULL DEFAULT '',
	url              TEXT NOT NULL DEFAULT '',
	budget_type      TEXT NOT NULL DEFAULT 'unknown',
	budget_min       DOUBLE PRECISION NOT NULL DEFAULT 0,
	budget_max       DOUBLE PRECISION NOT NULL DEFAULT 0,
	skills           TEXT[] NOT NULL DEFAULT '{}',
	category         TEXT NOT NULL DEFAULT '',
	score            DOUBLE PRECISION NOT NULL DEFAULT 0,
	location         TEXT NOT NULL DEFAULT '',
	client_info      TEXT NOT NULL DEFAULT '',
	experience_level TEXT NOT NULL DEFAULT '',
	applied          BOOLEAN NOT NULL DEFAULT FALSE,
	applied_at       TIMESTAMPTZ,
	saved            BOOLEAN NOT NULL DEFAULT FALSE,
	saved_at         TIMESTAMPTZ,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS profiles (
	name        TEXT PRIMARY KEY,
	description TEXT NOT NULL DEFAULT '',
	skills      TEXT[] NOT NULL DEFAULT '{}',
	years       INT NOT NULL DEFAULT 0,
	level       TEXT NOT NULL DEFAULT '',
	specialties TEXT[] NOT NULL DEFAULT '{}',
	hourly_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
	categories  TEXT[] NOT NULL DEFAULT '{}',
	portfolio   TEXT NOT NULL DEFAULT ''
);
`

// Postgres implements Store on a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to databaseURL, verifies connectivity and ensures the
// schema exists.
func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

func (p *Postgres) CreateJob(ctx context.Context, j *job.Job) error {
	if j == nil || j.ExternalID == "" {
		return fmt.Errorf("job with external id is required")
	}

	budget := j.Budget
	if budget == nil {
		budget = &job.Budget{Type: job.BudgetUnknown}
	}

	_, err := p.pool.Exec(ctx,
		`INSERT INTO jobs (external_id, title, description, url, budget_type, budget_min, budget_max,
		                   skills, category, score, location, client_info, experience_level,
		                   applied, applied_at, saved, saved_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		j.ExternalID, j.Title, j.Description, j.URL, budget.Type, budget.Min, budget.Max,
		j.Skills, j.Category, j.Score, j.Location, j.ClientInfo, j.ExperienceLevel,
		j.Applied, j.AppliedAt, j.Saved, j.SavedAt, j.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert job %s: %w", j.ExternalID, err)
	}
	return nil
}

const jobColumns = `external_id, title, description, url, budget_type, budget_min, budget_max,
	skills, category, score, location, client_info, experience_level,
	applied, applied_at, saved, saved_at, created_at`

func (p *Postgres) JobByExternalID(ctx context.Context, externalID string) (*job.Job, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE external_id = $1`, externalID)

	j, err := scanJob(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("job %s: %w", externalID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select job %s: %w", externalID, err)
	}
	return j, nil
}

func (p *Postgres) UpdateJob(ctx context.Context, externalID string, patch JobPatch) error {
	assignments := make([]string, 0, 4)
	args := make([]any, 0, 5)

	now := time.Now().UTC()
	if patch.Score != nil {
		args = append(args, job.ClampScore(*patch.Score))
		assignments = append(assignments, fmt.Sprintf("score = $%d", len(args)))
	}
	if patch.Category != nil {
		args = append(args, *patch.Category)
		assignments = append(assignments, fmt.Sprintf("category = $%d", len(args)))
	}
	if patch.Applied != nil {
		args = append(args, *patch.Applied)
		assignments = append(assignments, fmt.Sprintf("applied = $%d", len(args)))
		if *patch.Applied {
			args = append(args, now)
			assignments = append(assignments, fmt.Sprintf("applied_at = $%d", len(args)))
		} else {
			assignments = append(assignments, "applied_at = NULL")
		}
	}
	if patch.Saved != nil {
		args = append(args, *patch.Saved)
		assignments = append(assignments, fmt.Sprintf("saved = $%d", len(args)))
		if *patch.Saved {
			args = append(args, now)
			assignments = append(assignments, fmt.Sprintf("saved_at = $%d", len(args)))
		} else {
			assignments = append(assignments, "saved_at = NULL")
		}
	}

	if len(assignments) == 0 {
		return nil
	}

	args = append(args, externalID)
	query := fmt.Sprintf("UPDATE jobs SET %s WHERE external_id = $%d",
		strings.Join(assignments, ", "), len(args))

	tag, err := p.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update job %s: %w", externalID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("job %s: %w", externalID, ErrNotFound)
	}
	return nil
}

func (p *Postgres) Jobs(ctx context.Context, filters JobFilters) (*job.Jobs, error) {
	conditions := []string{"TRUE"}
	args := make([]any, 0, 3)

	if filters.Category != "" {
		args = append(args, filters.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if filters.MinScore > 0 {
		args = append(args, filters.MinScore)
		conditions = append(conditions, fmt.Sprintf("score >= $%d", len(args)))
	}
	if filters.Applied != nil {
		args = append(args, *filters.Applied)
		conditions = append(conditions, fmt.Sprintf("applied = $%d", len(args)))
	}

	query := `SELECT ` + jobColumns + ` FROM jobs WHERE ` + strings.Join(conditions, " AND ") +
		` ORDER BY created_at DESC`
	if filters.Limit > 0 {
		args = append(args, filters.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	jobs := &job.Jobs{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs.Items = append(jobs.Items, j)
	}
	return jobs, rows.Err()
}

func (p *Postgres) Profiles(ctx context.Context) (*profile.Profiles, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT name, description, skills, years, level, specialties, hourly_rate, categories, portfolio
		 FROM profiles ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}
	defer rows.Close()

	profiles := &profile.Profiles{}
	for rows.Next() {
		var item profile.Profile
		if err := rows.Scan(
			&item.Name, &item.Description, &item.Skills,
			&item.Experience.Years, &item.Experience.Level, &item.Experience.Specialties,
			&item.HourlyRate, &item.Categories, &item.Portfolio,
		); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles.Items = append(profiles.Items, &item)
	}
	return profiles, rows.Err()
}

func (p *Postgres) CreateProfile(ctx context.Context, prof *profile.Profile) error {
	if err := prof.Validate(); err != nil {
		return err
	}

	_, err := p.pool.Exec(ctx,
		`INSERT INTO profiles (name, description, skills, years, level, specialties, hourly_rate, categories, portfolio)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		prof.Name, prof.Description, prof.Skills,
		prof.Experience.Years, prof.Experience.Level, prof.Experience.Specialties,
		prof.HourlyRate, prof.Categories, prof.Portfolio,
	)
	if err != nil {
		return fmt.Errorf("insert profile %q: %w", prof.Name, err)
	}
	return nil
}

func (p *Postgres) DeleteProfile(ctx context.Context, name string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM profiles WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("delete profile %q: %w", name, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("profile %q: %w", name, ErrNotFound)
	}
	return nil
}

func (p *Postgres) Close() {
	p.pool.Close()
}

func scanJob(row pgx.Row) (*job.Job, error) {
	var j job.Job
	budget := &job.Budget{}
	if err := row.Scan(
		&j.ExternalID, &j.Title, &j.Description, &j.URL,
		&budget.Type, &budget.Min, &budget.Max,
		&j.Skills, &j.Category, &j.Score, &j.Location, &j.ClientInfo, &j.ExperienceLevel,
		&j.Applied, &j.AppliedAt, &j.Saved, &j.SavedAt, &j.CreatedAt,
	); err != nil {
		return nil, err
	}
	j.Budget = budget
	return &j, nil
}

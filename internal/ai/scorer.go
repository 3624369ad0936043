package ai

import (
	"context"

	"github.com/dike950121/upwork-radar/internal/job"
	"github.com/dike950121/upwork-radar/internal/matching"
	"github.com/dike950121/upwork-radar/internal/profile"
)

// Analysis is the structured result of a free-form job analysis.
type Analysis struct {
	Summary         string   `json:"summary,omitempty"`
	Category        string   `json:"category,omitempty"`
	RequiredSkills  []string `json:"required_skills,omitempty"`
	ExperienceLevel string   `json:"experience_level,omitempty"`
	BudgetOpinion   string   `json:"budget_opinion,omitempty"`
	RedFlags        []string `json:"red_flags,omitempty"`
	Raw             string   `json:"-"`
}

// Scorer is the remote scoring adapter boundary. Implementations degrade
// gracefully: recoverable failures (missing credentials, transport errors,
// malformed responses, out-of-range scores) produce neutral defaults, not
// errors. Only unrecoverable programming errors escape.
type Scorer interface {
	ScoreJob(ctx context.Context, j *job.Job) (float64, error)
	CategorizeJob(ctx context.Context, j *job.Job) (string, error)
	AnalyzeJob(ctx context.Context, j *job.Job) (*Analysis, error)
	MatchProfiles(ctx context.Context, j *job.Job, profiles *profile.Profiles) (*matching.Result, error)
}

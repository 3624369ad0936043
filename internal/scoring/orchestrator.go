package scoring

import (
	"context"
	"fmt"
	"strings"

	"github.com/dike950121/upwork-radar/internal/ai"
	"github.com/dike950121/upwork-radar/internal/job"
	"github.com/dike950121/upwork-radar/internal/matching"
	"github.com/dike950121/upwork-radar/internal/profile"
	"github.com/dike950121/upwork-radar/internal/util"

	"go.uber.org/zap"
)

// Remote and heuristic scores are blended with a fixed ratio. Clamping
// happens after blending, then the result is rounded to one decimal.
const (
	remoteWeight    = 0.7
	heuristicWeight = 0.3
)

// Orchestrator blends remote and heuristic scoring and provides the
// categorize/analyze/match operations with local fallbacks. A nil Scorer
// means remote scoring is unavailable and only the local paths run.
type Orchestrator struct {
	scorer ai.Scorer
	logger *zap.Logger
}

func NewOrchestrator(scorer ai.Scorer, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{scorer: scorer, logger: logger}
}

// ScoreJob returns the blended score when the remote adapter responds, the
// heuristic score alone otherwise. Always in [0,10].
func (o *Orchestrator) ScoreJob(ctx context.Context, j *job.Job) float64 {
	heuristic := Heuristic(j)
	if o.scorer == nil {
		return heuristic
	}

	remote, err := o.scorer.ScoreJob(ctx, j)
	if err != nil {
		o.logger.Warn("remote scoring failed, using heuristic score",
			zap.String("external_id", j.ExternalID),
			zap.Error(err),
		)
		return heuristic
	}

	blended := remoteWeight*remote + heuristicWeight*heuristic
	return job.RoundScore(job.ClampScore(blended))
}

// CategorizeJob prefers the remote category, accepting non-standard labels
// verbatim after normalization. The rule-based categorizer covers remote
// failures and neutral "other" responses.
func (o *Orchestrator) CategorizeJob(ctx context.Context, j *job.Job) string {
	if o.scorer == nil {
		return Categorize(j)
	}

	category, err := o.scorer.CategorizeJob(ctx, j)
	if err != nil {
		o.logger.Warn("remote categorization failed, using rule-based category",
			zap.String("external_id", j.ExternalID),
			zap.Error(err),
		)
		return Categorize(j)
	}

	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" || category == CategoryOther {
		return Categorize(j)
	}
	return category
}

// AnalyzeJob returns the remote analysis when available, otherwise a manual
// extraction of the job's own fields.
func (o *Orchestrator) AnalyzeJob(ctx context.Context, j *job.Job) *ai.Analysis {
	if o.scorer != nil {
		analysis, err := o.scorer.AnalyzeJob(ctx, j)
		if err == nil && analysis != nil {
			return analysis
		}
		if err != nil {
			o.logger.Warn("remote analysis failed, extracting fields manually",
				zap.String("external_id", j.ExternalID),
				zap.Error(err),
			)
		}
	}
	return manualAnalysis(j)
}

// MatchProfiles asks the remote adapter for a reasoned match first and falls
// back to the local weighted matcher.
func (o *Orchestrator) MatchProfiles(ctx context.Context, j *job.Job, profiles *profile.Profiles) *matching.Result {
	if o.scorer != nil {
		result, err := o.scorer.MatchProfiles(ctx, j, profiles)
		if err == nil && result != nil && result.Profile != nil {
			return result
		}
		if err != nil {
			o.logger.Warn("remote matching failed, using local matcher",
				zap.String("external_id", j.ExternalID),
				zap.Error(err),
			)
		}
	}
	return matching.BestMatch(j, profiles)
}

// Breakdown exposes the heuristic sub-scores for explainability.
func (o *Orchestrator) Breakdown(j *job.Job) Breakdown {
	return HeuristicBreakdown(j)
}

func manualAnalysis(j *job.Job) *ai.Analysis {
	budget := "budget not specified"
	if j.Budget.Known() {
		budget = fmt.Sprintf("%s %.0f-%.0f", j.Budget.Type, j.Budget.Min, j.Budget.Max)
	}

	return &ai.Analysis{
		Summary:         util.TruncateForLog(j.Description, 280),
		Category:        Categorize(j),
		RequiredSkills:  j.Skills,
		ExperienceLevel: j.ExperienceLevel,
		BudgetOpinion:   budget,
	}
}

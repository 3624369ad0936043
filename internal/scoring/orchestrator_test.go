package scoring

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/dike950121/upwork-radar/internal/ai"
	"github.com/dike950121/upwork-radar/internal/job"
	"github.com/dike950121/upwork-radar/internal/matching"
	"github.com/dike950121/upwork-radar/internal/profile"
)

// stubScorer is a canned remote adapter for orchestrator tests.
type stubScorer struct {
	score    float64
	scoreErr error

	category    string
	categoryErr error

	analysis    *ai.Analysis
	analysisErr error

	match    *matching.Result
	matchErr error
}

func (s *stubScorer) ScoreJob(context.Context, *job.Job) (float64, error) {
	return s.score, s.scoreErr
}

func (s *stubScorer) CategorizeJob(context.Context, *job.Job) (string, error) {
	return s.category, s.categoryErr
}

func (s *stubScorer) AnalyzeJob(context.Context, *job.Job) (*ai.Analysis, error) {
	return s.analysis, s.analysisErr
}

func (s *stubScorer) MatchProfiles(context.Context, *job.Job, *profile.Profiles) (*matching.Result, error) {
	return s.match, s.matchErr
}

func TestScoreJobBlendsRemoteAndHeuristic(t *testing.T) {
	// An empty job has a known heuristic score of 4.7.
	j := &job.Job{}
	if h := Heuristic(j); math.Abs(h-4.7) > 1e-9 {
		t.Fatalf("fixture heuristic changed: expected 4.7, got %v", h)
	}

	o := NewOrchestrator(&stubScorer{score: 8.0}, nil)

	// 0.7*8.0 + 0.3*4.7 = 7.01 rounds to 7.0.
	if got := o.ScoreJob(context.Background(), j); got != 7.0 {
		t.Fatalf("expected blended score 7.0, got %v", got)
	}
}

func TestScoreJobWithoutScorerIsHeuristicOnly(t *testing.T) {
	j := &job.Job{Skills: []string{"React"}, ExperienceLevel: "expert"}

	o := NewOrchestrator(nil, nil)
	if got, expected := o.ScoreJob(context.Background(), j), Heuristic(j); got != expected {
		t.Fatalf("expected heuristic score %v, got %v", expected, got)
	}
}

func TestScoreJobFallsBackOnRemoteError(t *testing.T) {
	j := &job.Job{Skills: []string{"React"}}

	o := NewOrchestrator(&stubScorer{scoreErr: errors.New("boom")}, nil)
	if got, expected := o.ScoreJob(context.Background(), j), Heuristic(j); got != expected {
		t.Fatalf("expected heuristic score %v, got %v", expected, got)
	}
}

func TestScoreJobClampsBlend(t *testing.T) {
	j := &job.Job{}

	o := NewOrchestrator(&stubScorer{score: 1000}, nil)
	if got := o.ScoreJob(context.Background(), j); got != 10 {
		t.Fatalf("expected clamp to 10, got %v", got)
	}
}

func TestCategorizeJobAcceptsRemoteVerbatim(t *testing.T) {
	j := &job.Job{Skills: []string{"Swift"}}

	o := NewOrchestrator(&stubScorer{category: " DevOps "}, nil)
	if got := o.CategorizeJob(context.Background(), j); got != "devops" {
		t.Fatalf("expected normalized remote category, got %q", got)
	}
}

func TestCategorizeJobFallsBackOnOther(t *testing.T) {
	j := &job.Job{Skills: []string{"Swift"}}

	for _, remote := range []string{"", CategoryOther} {
		o := NewOrchestrator(&stubScorer{category: remote}, nil)
		if got := o.CategorizeJob(context.Background(), j); got != CategoryMobile {
			t.Fatalf("remote %q: expected rule-based %q, got %q", remote, CategoryMobile, got)
		}
	}
}

func TestCategorizeJobFallsBackOnError(t *testing.T) {
	j := &job.Job{Skills: []string{"Vue"}}

	o := NewOrchestrator(&stubScorer{categoryErr: errors.New("boom")}, nil)
	if got := o.CategorizeJob(context.Background(), j); got != CategoryFrontend {
		t.Fatalf("expected rule-based %q, got %q", CategoryFrontend, got)
	}
}

func TestAnalyzeJobPrefersRemote(t *testing.T) {
	remote := &ai.Analysis{Summary: "from the adapter"}

	o := NewOrchestrator(&stubScorer{analysis: remote}, nil)
	if got := o.AnalyzeJob(context.Background(), &job.Job{}); got != remote {
		t.Fatalf("expected the remote analysis, got %+v", got)
	}
}

func TestAnalyzeJobManualFallback(t *testing.T) {
	j := &job.Job{
		Description:     "Build a small API",
		Skills:          []string{"Go"},
		ExperienceLevel: "expert",
	}

	o := NewOrchestrator(&stubScorer{analysisErr: errors.New("boom")}, nil)
	analysis := o.AnalyzeJob(context.Background(), j)
	if analysis == nil {
		t.Fatal("expected a manual analysis, got nil")
	}
	if analysis.Category != CategoryBackend {
		t.Fatalf("expected manual category %q, got %q", CategoryBackend, analysis.Category)
	}
	if analysis.Summary != j.Description {
		t.Fatalf("expected the description as summary, got %q", analysis.Summary)
	}
}

func TestMatchProfilesLocalFallback(t *testing.T) {
	j := &job.Job{Skills: []string{"Go"}}
	profiles := &profile.Profiles{Items: []*profile.Profile{
		{Name: "backend dev", Skills: []string{"Go", "PostgreSQL"}},
	}}

	o := NewOrchestrator(&stubScorer{matchErr: errors.New("boom")}, nil)
	result := o.MatchProfiles(context.Background(), j, profiles)
	if result == nil || result.Profile == nil {
		t.Fatalf("expected a local match, got %+v", result)
	}
	if result.Profile.Name != "backend dev" {
		t.Fatalf("expected profile 'backend dev', got %q", result.Profile.Name)
	}
}

func TestMatchProfilesPrefersRemote(t *testing.T) {
	picked := &profile.Profile{Name: "mobile dev"}
	remote := &matching.Result{Profile: picked, Score: 9.1, Reasoning: "strong overlap"}
	profiles := &profile.Profiles{Items: []*profile.Profile{picked}}

	o := NewOrchestrator(&stubScorer{match: remote}, nil)
	if got := o.MatchProfiles(context.Background(), &job.Job{}, profiles); got != remote {
		t.Fatalf("expected the remote result, got %+v", got)
	}
}

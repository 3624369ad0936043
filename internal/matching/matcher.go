// Package matching computes compatibility scores between stored freelancer
// profiles and a job, surfacing the best-fit candidate.
package matching

import (
	"math"
	"strings"

	"github.com/dike950121/upwork-radar/internal/job"
	"github.com/dike950121/upwork-radar/internal/profile"
)

// Factor weights, fixed. Skills dominate, category is a light nudge.
const (
	weightSkills     = 0.4
	weightExperience = 0.3
	weightRate       = 0.2
	weightCategory   = 0.1
)

const neutralScore = 5.0

// Result is the outcome of matching one job against a set of profiles.
// Profile is nil when no profiles were supplied.
type Result struct {
	Profile   *profile.Profile `json:"profile,omitempty"`
	Score     float64          `json:"score"`
	Reasoning string           `json:"reasoning,omitempty"`
}

// Factors exposes the sub-scores behind one profile's match score.
type Factors struct {
	Skills     float64 `json:"skills"`
	Experience float64 `json:"experience"`
	Rate       float64 `json:"rate"`
	Category   float64 `json:"category"`
	Final      float64 `json:"final"`
}

// BestMatch returns the highest-scoring profile for the job. Ties are broken
// by first occurrence in the input ordering (strict > against the running
// best). Empty input yields {nil, 0}.
func BestMatch(j *job.Job, profiles *profile.Profiles) *Result {
	best := &Result{}
	if j == nil || profiles == nil {
		return best
	}

	for _, p := range profiles.Items {
		score := Score(j, p).Final
		if score > best.Score {
			best.Profile = p
			best.Score = score
		}
	}
	return best
}

// Score computes the weighted match factors for a single profile.
func Score(j *job.Job, p *profile.Profile) Factors {
	f := Factors{
		Skills:     skillMatch(j.Skills, p.Skills),
		Experience: experienceMatch(j.ExperienceLevel, p.Experience.Level),
		Rate:       rateMatch(j.Budget, p.HourlyRate),
		Category:   categoryMatch(j.Category, p.Categories),
	}

	f.Final = math.Min(10,
		f.Skills*weightSkills+
			f.Experience*weightExperience+
			f.Rate*weightRate+
			f.Category*weightCategory)

	return f
}

// skillMatch scores the case-insensitive overlap of required and offered
// skills against the number of required skills.
func skillMatch(required, offered []string) float64 {
	if len(required) == 0 || len(offered) == 0 {
		return 0
	}

	have := make(map[string]bool, len(offered))
	for _, skill := range offered {
		have[strings.ToLower(strings.TrimSpace(skill))] = true
	}

	matched := 0
	for _, skill := range required {
		if have[strings.ToLower(strings.TrimSpace(skill))] {
			matched++
		}
	}

	return float64(matched) / float64(len(required)) * 10
}

func experienceMatch(jobLevel, profileLevel string) float64 {
	diff := math.Abs(float64(experienceOrdinal(profileLevel) - experienceOrdinal(jobLevel)))
	return math.Max(0, 10-3*diff)
}

// experienceOrdinal maps a level label onto the entry/intermediate/expert
// ladder. Unknown labels land in the middle.
func experienceOrdinal(level string) int {
	lower := strings.ToLower(level)
	switch {
	case strings.Contains(lower, "expert"), strings.Contains(lower, "senior"):
		return 3
	case strings.Contains(lower, "intermediate"), strings.Contains(lower, "mid"):
		return 2
	case strings.Contains(lower, "entry"), strings.Contains(lower, "junior"):
		return 1
	default:
		return 2
	}
}

// rateMatch compares the profile hourly rate against the job's effective
// budget range. Distance outside the range costs one point per ten units.
func rateMatch(budget *job.Budget, rate float64) float64 {
	if !budget.Known() || rate <= 0 {
		return neutralScore
	}

	low := budget.Min
	high := budget.Max
	if high == 0 {
		high = 2 * rate
	}

	switch {
	case rate >= low && rate <= high:
		return 10
	case rate < low:
		return math.Max(0, 10-(low-rate)/10)
	default:
		return math.Max(0, 10-(rate-high)/10)
	}
}

func categoryMatch(category string, categories []string) float64 {
	if strings.TrimSpace(category) == "" || len(categories) == 0 {
		return neutralScore
	}

	target := strings.ToLower(strings.TrimSpace(category))
	for _, c := range categories {
		if strings.ToLower(strings.TrimSpace(c)) == target {
			return 10
		}
	}
	return 0
}

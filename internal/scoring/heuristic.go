package scoring

import (
	"strings"

	"github.com/dike950121/upwork-radar/internal/job"
)

// Factor weights. They sum to 1.0; the weighted sum is renormalized by the
// weights actually applied so a skipped factor cannot drag the score down.
const (
	weightBudget      = 0.25
	weightSkills      = 0.20
	weightExperience  = 0.15
	weightLocation    = 0.10
	weightDescription = 0.15
	weightClientInfo  = 0.15
)

const neutralScore = 5.0

// Breakdown carries the per-factor sub-scores behind a heuristic score.
type Breakdown struct {
	Budget      float64 `json:"budget"`
	Skills      float64 `json:"skills"`
	Experience  float64 `json:"experience"`
	Location    float64 `json:"location"`
	Description float64 `json:"description"`
	ClientInfo  float64 `json:"client_info"`
	Final       float64 `json:"final"`
}

// tier is a single match-first rule in an ordered lookup table.
type tier struct {
	threshold float64
	score     float64
}

var hourlyTiers = []tier{
	{50, 10},
	{30, 8},
	{20, 6},
	{10, 4},
}

var fixedTiers = []tier{
	{5000, 10},
	{2000, 8},
	{1000, 6},
	{500, 4},
}

const budgetFloorScore = 2

var highDemandSkills = []string{
	"react", "next.js", "nextjs", "vue", "typescript", "node.js", "nodejs",
	"go", "golang", "rust", "python", "swift", "kotlin", "flutter",
	"react native", "aws", "gcp", "azure", "kubernetes", "docker",
	"terraform", "machine learning", "tensorflow", "pytorch", "llm",
	"openai", "ai",
}

var mediumDemandSkills = []string{
	"javascript", "html", "css", "php", "laravel", "wordpress", "mysql",
	"postgresql", "mongodb", "redis", "graphql", "rest", "django", "ruby",
	"java", "c#", ".net", "angular", "sass", "tailwind",
}

// experienceTiers is ordered so more specific keywords win first.
var experienceTiers = []struct {
	keyword string
	score   float64
}{
	{"expert", 10},
	{"senior", 9},
	{"intermediate", 7},
	{"mid", 7},
	{"entry", 5},
	{"junior", 5},
	{"beginner", 3},
}

// locationTiers is a match-first substring table.
var locationTiers = []struct {
	keyword string
	score   float64
}{
	{"united states", 10},
	{"usa", 10},
	{"canada", 9},
	{"united kingdom", 8},
	{"uk", 8},
	{"australia", 8},
	{"germany", 7},
	{"netherlands", 7},
	{"france", 6},
	{"spain", 6},
	{"poland", 6},
	{"ukraine", 5},
	{"brazil", 5},
	{"india", 4},
	{"pakistan", 3},
	{"bangladesh", 3},
}

var qualityKeywords = []string{"detailed", "requirements", "specification", "milestone", "long-term", "long term"}

var negativeKeywords = []string{"urgent", "asap", "cheap", "lowest", "quick fix"}

// Heuristic computes the deterministic relevance score for a job. Pure, no
// I/O, never fails.
func Heuristic(j *job.Job) float64 {
	return HeuristicBreakdown(j).Final
}

// HeuristicBreakdown computes the heuristic score and exposes the per-factor
// sub-scores.
func HeuristicBreakdown(j *job.Job) Breakdown {
	b := Breakdown{
		Budget:      scoreBudget(j.Budget),
		Skills:      scoreSkills(j.Skills),
		Experience:  scoreExperience(j.ExperienceLevel),
		Location:    scoreLocation(j.Location),
		Description: scoreDescription(j.Description),
		ClientInfo:  scoreClientInfo(j.ClientInfo),
	}

	weighted := b.Budget*weightBudget +
		b.Skills*weightSkills +
		b.Experience*weightExperience +
		b.Location*weightLocation +
		b.Description*weightDescription +
		b.ClientInfo*weightClientInfo

	applied := weightBudget + weightSkills + weightExperience +
		weightLocation + weightDescription + weightClientInfo

	b.Final = job.ClampScore(weighted / applied)
	return b
}

func scoreBudget(b *job.Budget) float64 {
	if !b.Known() {
		return neutralScore
	}

	amount := b.Min
	if amount == 0 {
		amount = b.Max
	}

	tiers := fixedTiers
	if b.Type == job.BudgetHourly {
		tiers = hourlyTiers
	}

	for _, t := range tiers {
		if amount >= t.threshold {
			return t.score
		}
	}
	return budgetFloorScore
}

func scoreSkills(skills []string) float64 {
	if len(skills) == 0 {
		return neutralScore
	}

	total := 0.0
	for _, skill := range skills {
		total += scoreSkill(skill)
	}
	return total / float64(len(skills))
}

func scoreSkill(skill string) float64 {
	lower := strings.ToLower(strings.TrimSpace(skill))
	for _, known := range highDemandSkills {
		if lower == known {
			return 10
		}
	}
	for _, known := range mediumDemandSkills {
		if lower == known {
			return 7
		}
	}
	return 5
}

func scoreExperience(level string) float64 {
	lower := strings.ToLower(level)
	for _, t := range experienceTiers {
		if strings.Contains(lower, t.keyword) {
			return t.score
		}
	}
	return neutralScore
}

func scoreLocation(location string) float64 {
	lower := strings.ToLower(location)
	if strings.TrimSpace(lower) == "" {
		return neutralScore
	}
	for _, t := range locationTiers {
		if strings.Contains(lower, t.keyword) {
			return t.score
		}
	}
	return neutralScore
}

func scoreDescription(description string) float64 {
	score := neutralScore

	switch length := len(description); {
	case length > 500:
		score += 2
	case length > 200:
		score++
	case length < 50:
		score -= 2
	}

	lower := strings.ToLower(description)
	for _, keyword := range qualityKeywords {
		score += 0.5 * float64(strings.Count(lower, keyword))
	}
	for _, keyword := range negativeKeywords {
		score -= 0.5 * float64(strings.Count(lower, keyword))
	}

	return job.ClampScore(score)
}

func scoreClientInfo(info string) float64 {
	if strings.TrimSpace(info) == "" {
		return neutralScore
	}

	score := neutralScore
	lower := strings.ToLower(info)

	if strings.Contains(lower, "payment verified") || strings.Contains(lower, "verified") {
		score += 2
	}
	if strings.Contains(lower, "top rated") || strings.Contains(lower, "plus") || strings.Contains(lower, "enterprise") {
		score++
	}
	if strings.Contains(lower, "new") {
		score--
	}
	if strings.Contains(lower, "0%") {
		score -= 2
	}
	if strings.Contains(lower, "no feedback") {
		score--
	}

	return job.ClampScore(score)
}

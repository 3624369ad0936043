package job

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"
)

// Budget kinds reported by the marketplace.
const (
	BudgetFixed   = "fixed"
	BudgetHourly  = "hourly"
	BudgetUnknown = "unknown"
)

// Experience levels used across scoring and matching.
const (
	ExperienceEntry        = "entry"
	ExperienceIntermediate = "intermediate"
	ExperienceExpert       = "expert"
)

const (
	JobExternalIDField = "ExternalID"
	JobCategoryField   = "Category"
)

// Budget describes the posted compensation for a job. Min/Max are zero when
// the marketplace did not report them.
type Budget struct {
	Type string  `json:"type,omitempty"`
	Min  float64 `json:"min,omitempty"`
	Max  float64 `json:"max,omitempty"`
}

// Known reports whether the budget carries any usable amount.
func (b *Budget) Known() bool {
	if b == nil {
		return false
	}
	return b.Type != "" && b.Type != BudgetUnknown && (b.Min > 0 || b.Max > 0)
}

type Job struct {
	ExternalID      string     `json:"external_id,omitempty" mapstructure:"external_id"`
	Title           string     `json:"title,omitempty"`
	Description     string     `json:"description,omitempty"`
	URL             string     `json:"url,omitempty"`
	Budget          *Budget    `json:"budget,omitempty"`
	Skills          []string   `json:"skills,omitempty"`
	Category        string     `json:"category,omitempty"`
	Score           float64    `json:"score,omitempty"`
	Location        string     `json:"location,omitempty"`
	ClientInfo      string     `json:"client_info,omitempty" mapstructure:"client_info"`
	ExperienceLevel string     `json:"experience_level,omitempty" mapstructure:"experience_level"`
	Applied         bool       `json:"applied,omitempty"`
	AppliedAt       *time.Time `json:"applied_at,omitempty" mapstructure:"applied_at"`
	Saved           bool       `json:"saved,omitempty"`
	SavedAt         *time.Time `json:"saved_at,omitempty" mapstructure:"saved_at"`
	CreatedAt       time.Time  `json:"created_at,omitempty" mapstructure:"created_at"`
}

// SetScore stores the score clamped to [0,10].
func (j *Job) SetScore(score float64) {
	j.Score = ClampScore(score)
}

// ClampScore bounds a score to the [0,10] range.
func ClampScore(score float64) float64 {
	return math.Min(10, math.Max(0, score))
}

// RoundScore rounds a score to one decimal place.
func RoundScore(score float64) float64 {
	return math.Round(score*10) / 10
}

func (j *Job) GetStringField(name string) string {
	switch name {
	case JobExternalIDField:
		return j.ExternalID
	case JobCategoryField:
		return j.Category
	default:
		return ""
	}
}

type Jobs struct {
	Items []*Job
}

func (j *Jobs) Len() int {
	return len(j.Items)
}

func (j *Jobs) FindByExternalID(id string) *Job {
	for _, item := range j.Items {
		if item.ExternalID == id {
			return item
		}
	}
	return nil
}

// Exclude removes jobs whose field matches any of the targets and returns the
// removed external ids.
func (j *Jobs) Exclude(name string, targets []string) []string {
	var excluded []string
	for _, target := range targets {
		for idx, item := range j.Items {
			if item.GetStringField(name) == target {
				j.RemoveByIndex(idx)
				excluded = append(excluded, item.ExternalID)
				break
			}
		}
	}
	return excluded
}

// RemoveByIndex removes a job from the list by index. Does not preserve order.
func (j *Jobs) RemoveByIndex(idx int) {
	j.Items[idx] = j.Items[len(j.Items)-1]
	j.Items = j.Items[:len(j.Items)-1]
}

// ReportByCategory groups brief job summaries by category.
func (j *Jobs) ReportByCategory() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, item := range j.Items {
		key := item.Category
		if key == "" {
			key = "uncategorized"
		}
		report[key] = append(report[key], map[string]string{
			"title":    item.Title,
			"url":      item.URL,
			"score":    fmt.Sprintf("%.1f", item.Score),
			"budget":   fmt.Sprintf("%s %.0f-%.0f", budgetType(item.Budget), budgetMin(item.Budget), budgetMax(item.Budget)),
			"location": item.Location,
		})
	}
	return report
}

func budgetType(b *Budget) string {
	if b == nil {
		return BudgetUnknown
	}
	return b.Type
}

func budgetMin(b *Budget) float64 {
	if b == nil {
		return 0
	}
	return b.Min
}

func budgetMax(b *Budget) float64 {
	if b == nil {
		return 0
	}
	return b.Max
}

func (j *Jobs) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "jobs_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(j); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// FromFile loads a jobs dump produced by DumpToTmpFile or hand-written input.
func FromFile(path string) (*Jobs, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var jobs Jobs
	if err := json.NewDecoder(file).Decode(&jobs); err != nil {
		return nil, fmt.Errorf("decoding jobs file %q: %w", path, err)
	}
	return &jobs, nil
}

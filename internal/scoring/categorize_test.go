package scoring

import (
	"testing"

	"github.com/dike950121/upwork-radar/internal/job"
)

func TestCategorizeRules(t *testing.T) {
	cases := []struct {
		name     string
		job      *job.Job
		expected string
	}{
		{
			name:     "us only from description",
			job:      &job.Job{Title: "React developer", Description: "US only candidates please"},
			expected: CategoryUSOnly,
		},
		{
			name:     "us only from location",
			job:      &job.Job{Title: "React developer", Location: "United States only"},
			expected: CategoryUSOnly,
		},
		{
			name:     "ai beats mobile",
			job:      &job.Job{Skills: []string{"Flutter", "TensorFlow"}},
			expected: CategoryFullStackAI,
		},
		{
			name:     "mobile",
			job:      &job.Job{Title: "iOS app", Skills: []string{"Swift"}},
			expected: CategoryMobile,
		},
		{
			name:     "full stack needs both sides",
			job:      &job.Job{Skills: []string{"React", "PostgreSQL"}},
			expected: CategoryFullStack,
		},
		{
			name:     "frontend alone",
			job:      &job.Job{Skills: []string{"Vue", "CSS"}},
			expected: CategoryFrontend,
		},
		{
			name:     "backend alone",
			job:      &job.Job{Title: "Go microservice", Skills: []string{"Golang"}},
			expected: CategoryBackend,
		},
		{
			name:     "nothing matches",
			job:      &job.Job{Title: "Voice over artist", Description: "Record a podcast intro"},
			expected: CategoryOther,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Categorize(tc.job); got != tc.expected {
				t.Fatalf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestCategorizeShortTokensNeedExactWords(t *testing.T) {
	// "goal" must not trip the "go" keyword, "maintain" must not trip "ai".
	j := &job.Job{Title: "Copywriter", Description: "The goal is to maintain our blog"}
	if got := Categorize(j); got != CategoryOther {
		t.Fatalf("expected %q, got %q", CategoryOther, got)
	}
}

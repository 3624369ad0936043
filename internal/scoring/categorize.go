package scoring

import (
	"strings"

	"github.com/dike950121/upwork-radar/internal/job"
)

// The closed category set produced by the rule-based categorizer. The remote
// adapter may emit labels outside this set; those are accepted verbatim.
const (
	CategoryMobile      = "mobile"
	CategoryFullStack   = "full-stack"
	CategoryFullStackAI = "full-stack-ai"
	CategoryFrontend    = "frontend"
	CategoryBackend     = "backend"
	CategoryUSOnly      = "us-only"
	CategoryOther       = "other"
)

// signals holds phrase substrings and exact word tokens for one category.
type signals struct {
	phrases []string
	words   []string
}

var aiSignals = signals{
	phrases: []string{"machine learning", "deep learning", "computer vision", "data science", "artificial intelligence"},
	words:   []string{"ai", "ml", "tensorflow", "pytorch", "llm", "openai", "gpt", "nlp"},
}

var mobileSignals = signals{
	phrases: []string{"react native"},
	words:   []string{"ios", "android", "flutter", "swift", "kotlin", "mobile"},
}

var frontendSignals = signals{
	phrases: []string{"front-end", "ui/ux", "next.js"},
	words:   []string{"react", "vue", "angular", "frontend", "css", "html", "tailwind"},
}

var backendSignals = signals{
	phrases: []string{"back-end", "node.js"},
	words: []string{
		"backend", "api", "django", "go", "golang", "python", "postgresql",
		"mysql", "database", "server", "rust", "java", "php", "laravel",
	},
}

var usOnlyPhrases = []string{
	"us only", "usa only", "u.s. only", "united states only", "us-based only",
}

// Categorize derives a category from skills, title and description using
// match-first keyword rules. It always returns a member of the closed set.
func Categorize(j *job.Job) string {
	text := strings.ToLower(strings.Join(j.Skills, " , ") + " " + j.Title + " " + j.Description)
	words := tokenize(text)

	switch {
	case containsAny(text, usOnlyPhrases) || containsAny(strings.ToLower(j.Location), usOnlyPhrases):
		return CategoryUSOnly
	case matches(text, words, aiSignals):
		return CategoryFullStackAI
	case matches(text, words, mobileSignals):
		return CategoryMobile
	case matches(text, words, frontendSignals) && matches(text, words, backendSignals):
		return CategoryFullStack
	case matches(text, words, frontendSignals):
		return CategoryFrontend
	case matches(text, words, backendSignals):
		return CategoryBackend
	default:
		return CategoryOther
	}
}

func matches(text string, words map[string]bool, s signals) bool {
	if containsAny(text, s.phrases) {
		return true
	}
	for _, word := range s.words {
		if words[word] {
			return true
		}
	}
	return false
}

// tokenize splits lowercased text into a word set, trimming punctuation that
// commonly wraps skill names.
func tokenize(text string) map[string]bool {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == ',' || r == ';' || r == '(' || r == ')' || r == '\n' || r == '\t'
	})

	words := make(map[string]bool, len(fields))
	for _, field := range fields {
		words[strings.Trim(field, ".:!?/")] = true
	}
	return words
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}

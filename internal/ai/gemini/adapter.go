package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/dike950121/upwork-radar/internal/ai"
	"github.com/dike950121/upwork-radar/internal/job"
	"github.com/dike950121/upwork-radar/internal/matching"
	"github.com/dike950121/upwork-radar/internal/profile"
	"github.com/dike950121/upwork-radar/internal/util"

	"go.uber.org/zap"
)

//go:embed prompts/score.md
var scorePrompt string

//go:embed prompts/categorize.md
var categorizePrompt string

//go:embed prompts/analyze.md
var analyzePrompt string

//go:embed prompts/match.md
var matchPrompt string

const systemInstruction = "You are a precise assistant for a freelance job monitoring tool. " +
	"Follow the response format instructions exactly."

const (
	neutralScore    = 5.0
	defaultCategory = "other"

	defaultMaxLogLength = 200
)

var floatRe = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
	Model() string
}

// Adapter implements ai.Scorer on top of the Gemini generator. Recoverable
// failures never surface as errors: every operation has a neutral default so
// the orchestrator always receives a usable result.
type Adapter struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewAdapter(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Adapter {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// ScoreJob asks Gemini for a 0-10 score. Transport failures, unparseable
// responses and out-of-range values all degrade to the neutral 5.0.
func (a *Adapter) ScoreJob(ctx context.Context, j *job.Job) (float64, error) {
	if j == nil {
		return 0, fmt.Errorf("job is required")
	}

	raw, err := a.generate(ctx, scorePrompt, j, nil)
	if err != nil {
		a.warnFallback("score", j.ExternalID, err)
		return neutralScore, nil
	}

	score, ok := parseScore(raw)
	if !ok {
		a.warnFallback("score", j.ExternalID, fmt.Errorf("no score in range [0,10] in response %q", util.TruncateForLog(raw, a.maxLogLen)))
		return neutralScore, nil
	}

	return score, nil
}

// CategorizeJob asks Gemini for a category label, accepted verbatim after
// lowercasing. Failures degrade to "other".
func (a *Adapter) CategorizeJob(ctx context.Context, j *job.Job) (string, error) {
	if j == nil {
		return "", fmt.Errorf("job is required")
	}

	raw, err := a.generate(ctx, categorizePrompt, j, nil)
	if err != nil {
		a.warnFallback("categorize", j.ExternalID, err)
		return defaultCategory, nil
	}

	category := parseCategory(raw)
	if category == "" {
		return defaultCategory, nil
	}
	return category, nil
}

// AnalyzeJob asks Gemini for a structured analysis. Failures degrade to a
// best-effort analysis echoing the job's own fields.
func (a *Adapter) AnalyzeJob(ctx context.Context, j *job.Job) (*ai.Analysis, error) {
	if j == nil {
		return nil, fmt.Errorf("job is required")
	}

	raw, err := a.generate(ctx, analyzePrompt, j, nil)
	if err != nil {
		a.warnFallback("analyze", j.ExternalID, err)
		return echoAnalysis(j), nil
	}

	payload := extractJSONObject(raw)
	if payload == "" {
		a.warnFallback("analyze", j.ExternalID, fmt.Errorf("no JSON object in response"))
		return echoAnalysis(j), nil
	}

	var analysis ai.Analysis
	if err := json.Unmarshal([]byte(payload), &analysis); err != nil {
		a.warnFallback("analyze", j.ExternalID, fmt.Errorf("parse analysis: %w", err))
		return echoAnalysis(j), nil
	}

	analysis.Raw = raw
	if strings.TrimSpace(analysis.Category) != "" {
		analysis.Category = strings.ToLower(strings.TrimSpace(analysis.Category))
	}
	return &analysis, nil
}

// MatchProfiles asks Gemini to pick the best profile. Failures and unknown
// profile names degrade to a nil match so the caller can fall back to the
// local matcher.
func (a *Adapter) MatchProfiles(ctx context.Context, j *job.Job, profiles *profile.Profiles) (*matching.Result, error) {
	if j == nil {
		return nil, fmt.Errorf("job is required")
	}
	if profiles == nil || profiles.Len() == 0 {
		return &matching.Result{}, nil
	}

	raw, err := a.generate(ctx, matchPrompt, j, profiles)
	if err != nil {
		a.warnFallback("match", j.ExternalID, err)
		return nil, nil
	}

	payload := extractJSONObject(raw)
	if payload == "" {
		a.warnFallback("match", j.ExternalID, fmt.Errorf("no JSON object in response"))
		return nil, nil
	}

	var parsed struct {
		ProfileName string  `json:"profile_name"`
		Score       float64 `json:"score"`
		Reasoning   string  `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		a.warnFallback("match", j.ExternalID, fmt.Errorf("parse match: %w", err))
		return nil, nil
	}

	matched := profiles.FindByName(strings.TrimSpace(parsed.ProfileName))
	if matched == nil {
		return nil, nil
	}

	return &matching.Result{
		Profile:   matched,
		Score:     job.ClampScore(parsed.Score),
		Reasoning: strings.TrimSpace(parsed.Reasoning),
	}, nil
}

func (a *Adapter) generate(ctx context.Context, template string, j *job.Job, profiles *profile.Profiles) (string, error) {
	jobJSON, err := json.MarshalIndent(j, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal job payload: %w", err)
	}

	prompt := strings.ReplaceAll(template, "{{JOB_JSON}}", string(jobJSON))

	if profiles != nil {
		profilesJSON, err := json.MarshalIndent(profiles.Items, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal profiles payload: %w", err)
		}
		prompt = strings.ReplaceAll(prompt, "{{PROFILES_JSON}}", string(profilesJSON))
	}

	a.logger.Debug("gemini generate content request",
		zap.String("external_id", j.ExternalID),
		zap.String("model", a.generator.Model()),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", util.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateContent(ctx, systemInstruction, prompt)
	if err != nil {
		return "", err
	}

	a.logger.Debug("gemini generate content response",
		zap.String("external_id", j.ExternalID),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", util.TruncateForLog(raw, a.maxLogLen)),
	)

	return raw, nil
}

func (a *Adapter) warnFallback(operation, externalID string, err error) {
	a.logger.Warn("gemini call degraded to default",
		zap.String("operation", operation),
		zap.String("external_id", externalID),
		zap.Error(err),
	)
}

// parseScore extracts the first floating point number from the response and
// rejects values outside [0,10]. The accepted value is rounded to one
// decimal place.
func parseScore(raw string) (float64, bool) {
	match := floatRe.FindString(raw)
	if match == "" {
		return 0, false
	}

	value, err := strconv.ParseFloat(match, 64)
	if err != nil || value < 0 || value > 10 {
		return 0, false
	}

	return job.RoundScore(value), true
}

// parseCategory takes the first non-empty line of the response as the label,
// ignoring markdown code fences.
func parseCategory(raw string) string {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "```") {
			continue
		}
		line = strings.TrimSpace(strings.Trim(line, "`\"'."))
		if line != "" {
			return strings.ToLower(line)
		}
	}
	return ""
}

// extractJSONObject returns the first balanced brace-delimited object in the
// text, skipping braces inside JSON strings.
func extractJSONObject(raw string) string {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return raw[start : i+1]
			}
		}
	}
	return ""
}

func echoAnalysis(j *job.Job) *ai.Analysis {
	return &ai.Analysis{
		Summary:         util.TruncateForLog(j.Description, 280),
		Category:        defaultCategory,
		RequiredSkills:  j.Skills,
		ExperienceLevel: j.ExperienceLevel,
		BudgetOpinion:   "budget not assessed",
	}
}

// Package ai produces CV drafts, improvement tips and compatibility estimates
// from a job posting and a seeker profile. It is independent of ranking.
package ai

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/honeycarbs/startsmart/internal/domain"
	"github.com/honeycarbs/startsmart/pkg/logging"
)

//go:embed prompts/cv.md
var cvPrompt string

//go:embed prompts/tips.md
var tipsPrompt string

//go:embed prompts/match.md
var matchPrompt string

const (
	notProvided         = "Not provided"
	fallbackSuggestion  = "AI analysis failed. Please try again later."
	maxDescriptionRunes = 6000
)

// ErrUnavailable is returned when no generator is configured
var ErrUnavailable = errors.New("ai: text generation is not configured")

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Job is the subset of a posting the prompts use
type Job struct {
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	Country     string   `json:"country"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// MatchEstimate is the model's compatibility estimate
type MatchEstimate struct {
	Match      int    `json:"match"`
	Suggestion string `json:"suggestion"`
}

// Assistant builds prompts and calls the generator
type Assistant struct {
	generator contentGenerator
	logger    *logging.Logger
}

// NewAssistant creates an Assistant; a nil generator makes every call fail with ErrUnavailable
func NewAssistant(generator contentGenerator, logger *logging.Logger) *Assistant {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Assistant{generator: generator, logger: logger}
}

// CV drafts a CV tailored to job
func (a *Assistant) CV(ctx context.Context, job Job, profile domain.Profile) (string, error) {
	if err := validateJob(job); err != nil {
		return "", err
	}
	return a.generate(ctx, "cv", render(cvPrompt, job, profile))
}

// Tips suggests how the seeker can improve their chances for job
func (a *Assistant) Tips(ctx context.Context, job Job, profile domain.Profile) (string, error) {
	if err := validateJob(job); err != nil {
		return "", err
	}
	return a.generate(ctx, "tips", render(tipsPrompt, job, profile))
}

// Match estimates profile/job compatibility. Unparseable model output yields
// a zero estimate with a fallback suggestion rather than an error.
func (a *Assistant) Match(ctx context.Context, job Job, profile domain.Profile) (MatchEstimate, error) {
	if err := validateJob(job); err != nil {
		return MatchEstimate{}, err
	}

	raw, err := a.generate(ctx, "match", render(matchPrompt, job, profile))
	if err != nil {
		return MatchEstimate{}, err
	}

	est, err := parseMatch(raw)
	if err != nil {
		a.logger.Warn("unparseable match response", "err", err, "response_length", len(raw))
		return MatchEstimate{Match: 0, Suggestion: fallbackSuggestion}, nil
	}
	return est, nil
}

func (a *Assistant) generate(ctx context.Context, kind, prompt string) (string, error) {
	if a == nil || a.generator == nil {
		return "", ErrUnavailable
	}

	a.logger.Debug("ai generate request", "kind", kind, "prompt_length", len(prompt))
	out, err := a.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("ai %s: %w", kind, err)
	}
	return strings.TrimSpace(out), nil
}

func validateJob(job Job) error {
	if strings.TrimSpace(job.Title) == "" && strings.TrimSpace(job.Description) == "" {
		return fmt.Errorf("%w: job title or description is required", domain.ErrInvalidInput)
	}
	return nil
}

func render(template string, job Job, profile domain.Profile) string {
	location := job.Location
	if job.Country != "" {
		location = strings.TrimSpace(strings.Trim(location+", "+strings.ToUpper(job.Country), ", "))
	}

	r := strings.NewReplacer(
		"{{TITLE}}", orNotProvided(job.Title),
		"{{COMPANY}}", orNotProvided(job.Company),
		"{{LOCATION}}", orNotProvided(location),
		"{{DESCRIPTION}}", orNotProvided(descriptionText(job.Description)),
		"{{TAGS}}", orNotProvided(strings.Join(job.Tags, ", ")),
		"{{BIO}}", orNotProvided(profile.Bio),
		"{{SKILLS}}", orNotProvided(strings.Join(profile.Skills, ", ")),
		"{{EXPERIENCE}}", orNotProvided(profile.Experience),
		"{{EDUCATION}}", orNotProvided(profile.Education),
	)
	return r.Replace(template)
}

// descriptionText converts HTML descriptions to markdown and bounds their size
func descriptionText(desc string) string {
	desc = strings.TrimSpace(desc)
	if strings.Contains(desc, "<") && strings.Contains(desc, ">") {
		if md, err := htmltomarkdown.ConvertString(desc); err == nil {
			desc = strings.TrimSpace(md)
		}
	}
	if r := []rune(desc); len(r) > maxDescriptionRunes {
		desc = string(r[:maxDescriptionRunes]) + "…"
	}
	return desc
}

func orNotProvided(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return notProvided
	}
	return s
}

func parseMatch(raw string) (MatchEstimate, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return MatchEstimate{}, fmt.Errorf("parse match response: %w", err)
	}

	score, ok := coerceFloat(data["match"])
	if !ok {
		return MatchEstimate{}, errors.New("parse match response: missing match value")
	}

	suggestion, _ := data["suggestion"].(string)
	return MatchEstimate{
		Match:      clampPercent(score),
		Suggestion: strings.TrimSpace(suggestion),
	}, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	if start, end := strings.Index(raw, "{"), strings.LastIndex(raw, "}"); start != -1 && end > start {
		raw = raw[start : end+1]
	}
	return strings.TrimSpace(raw)
}

func coerceFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, !math.IsNaN(val)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(val), "%"), 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func clampPercent(f float64) int {
	switch {
	case f < 0:
		return 0
	case f > 100:
		return 100
	default:
		return int(math.Round(f))
	}
}

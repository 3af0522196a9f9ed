package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"careeros-backend/config"
	"careeros-backend/internal/domain"
	"careeros-backend/pkg/logger"
)

// maxRawInputLen bounds the pasted text forwarded to extraction. Anything
// longer is truncated; pasted postings are noisy and the tail rarely matters.
const maxRawInputLen = 15000

// ClaudeProvider implements the three pipeline capabilities (extraction,
// analysis, artifact generation) on top of Anthropic's Claude.
type ClaudeProvider struct {
	client anthropic.Client
	cfg    *config.Config
}

var (
	_ domain.TextExtractor        = (*ClaudeProvider)(nil)
	_ domain.IntelligenceAnalyzer = (*ClaudeProvider)(nil)
	_ domain.ArtifactGenerator    = (*ClaudeProvider)(nil)
)

// NewClaudeProvider creates a new Claude provider instance
func NewClaudeProvider(cfg *config.Config) *ClaudeProvider {
	client := anthropic.NewClient(
		option.WithAPIKey(cfg.AnthropicAPIKey),
	)
	return &ClaudeProvider{client: client, cfg: cfg}
}

// complete sends a single-turn prompt and returns the text of the reply.
func (p *ClaudeProvider) complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()

	response, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(p.cfg.LLMModel),
		MaxTokens:   int64(p.cfg.LLMMaxTokens),
		Temperature: anthropic.Float(p.cfg.LLMTemperature),
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: prompt},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	})
	if err != nil {
		return "", fmt.Errorf("claude request failed: %w", err)
	}
	if len(response.Content) == 0 {
		return "", fmt.Errorf("empty response from claude")
	}

	text := response.Content[0].AsText().Text
	if text == "" {
		return "", fmt.Errorf("no text content in claude response")
	}

	logger.Log.Debug("claude call completed",
		"model", p.cfg.LLMModel,
		"prompt_chars", len(prompt),
		"response_chars", len(text),
		"duration", time.Since(start).String(),
	)
	return text, nil
}

// Extract turns pasted free text into structured job fields. Extraction is
// best-effort: missing fields fall back to defaults the user can edit.
func (p *ClaudeProvider) Extract(ctx context.Context, rawInput string) (*domain.ParsedJob, error) {
	if len(rawInput) > maxRawInputLen {
		rawInput = rawInput[:maxRawInputLen]
	}

	responseText, err := p.complete(ctx, buildExtractionPrompt(rawInput))
	if err != nil {
		return nil, err
	}

	return parseExtractionResponse(responseText, rawInput)
}

// Analyze derives the strategic intelligence record from a job description.
func (p *ClaudeProvider) Analyze(ctx context.Context, jobDescription string) (*domain.Intelligence, error) {
	responseText, err := p.complete(ctx, buildAnalysisPrompt(jobDescription))
	if err != nil {
		return nil, err
	}

	return parseAnalysisResponse(responseText)
}

// GenerateCoverLetter produces the tailored cover letter text.
func (p *ClaudeProvider) GenerateCoverLetter(ctx context.Context, job *domain.Job, profile *domain.Profile, intel *domain.Intelligence) (string, error) {
	text, err := p.complete(ctx, buildCoverLetterPrompt(job, profile, intel))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// GeneratePRD produces the strategic PRD in Markdown.
func (p *ClaudeProvider) GeneratePRD(ctx context.Context, job *domain.Job, profile *domain.Profile, intel *domain.Intelligence) (string, error) {
	text, err := p.complete(ctx, buildPRDPrompt(job, profile, intel))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// stripFences removes a surrounding markdown code block, which models emit
// even when told to return bare JSON.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
	}
	return strings.TrimSpace(text)
}

// clampMaturityStage forces a model-reported stage into the valid 1-7 band.
func clampMaturityStage(stage int) int {
	if stage < domain.MaturityMin {
		return domain.MaturityMin
	}
	if stage > domain.MaturityMax {
		return domain.MaturityMax
	}
	return stage
}

// parseExtractionResponse decodes the extraction reply. Extraction is
// best-effort, so missing fields get placeholder defaults the caller can
// edit before Ingest.
func parseExtractionResponse(responseText, rawInput string) (*domain.ParsedJob, error) {
	var parsed domain.ParsedJob
	if err := json.Unmarshal([]byte(stripFences(responseText)), &parsed); err != nil {
		return nil, fmt.Errorf("parse extraction response: %w", err)
	}

	if parsed.CompanyName == "" {
		parsed.CompanyName = "Unknown"
	}
	if parsed.JobTitle == "" {
		parsed.JobTitle = "Product Role"
	}
	if parsed.JobDescription == "" {
		parsed.JobDescription = rawInput
	}
	if parsed.ApplicationLink != nil && *parsed.ApplicationLink == "" {
		parsed.ApplicationLink = nil
	}
	return &parsed, nil
}

// parseAnalysisResponse decodes the analysis reply. Unlike extraction, all
// five fields are required; a partial record is an error, not a default.
func parseAnalysisResponse(responseText string) (*domain.Intelligence, error) {
	var intel domain.Intelligence
	if err := json.Unmarshal([]byte(stripFences(responseText)), &intel); err != nil {
		return nil, fmt.Errorf("parse analysis response: %w", err)
	}

	if intel.CoreProductFocus == "" || intel.StrategicOpportunityGap == "" ||
		intel.CompetitivePositioning == "" || intel.HiddenTransformationOpportunity == "" {
		return nil, fmt.Errorf("analysis response missing required fields")
	}

	intel.MaturityStage = clampMaturityStage(intel.MaturityStage)
	return &intel, nil
}

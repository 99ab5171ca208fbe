package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/civita-labs/flipwatch-core/internal/core/domain"
	"github.com/civita-labs/flipwatch-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.Enricher = (*OpenAIEnricher)(nil)

const defaultModel = "gpt-4o-mini"

// systemPrompt pins the output contract. The model must answer with a
// single JSON object and nothing else; everything downstream depends on
// that shape.
const systemPrompt = `You are an analyst of Finnish municipal politics. You read one municipal decision or agenda item and produce a structured impact assessment.

Respond with a single JSON object and nothing else. No markdown, no commentary. The object has exactly these fields:

{
  "economic_impact": {"estimated_cost_eur": 0, "funding_source": "", "budget_alignment": ""},
  "strategic_driver": "",
  "winners": [],
  "losers": [],
  "controversy_hotspots": [{"issue": "", "tension_level": 0, "reasoning": ""}],
  "ideological_vector": {"economic": 0, "values": 0, "environmental": 0, "regional": 0, "international": 0, "security": 0},
  "friction_index": 0,
  "mentioned_actors": [],
  "summary": "",
  "attachment_notes": ""
}

Rules:
- every ideological_vector component is a number in [-1, 1]
- tension_level and friction_index are integers in [0, 100]
- mentioned_actors lists person and party names exactly as they appear in the text
- winners and losers name concrete groups, not abstractions
- summary is 2-3 sentences in English`

// OpenAIEnricher produces impact profiles via the OpenAI chat completions API.
type OpenAIEnricher struct {
	client openai.Client
	model  string
}

// NewOpenAIEnricher creates an enricher. Model defaults to gpt-4o-mini
// when empty.
func NewOpenAIEnricher(apiKey, model string) *OpenAIEnricher {
	if model == "" {
		model = defaultModel
	}
	return &OpenAIEnricher{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

// Model returns the model name being used.
func (e *OpenAIEnricher) Model() string {
	return e.model
}

// Enrich sends the decision text to the model and parses the returned
// profile. Unparseable output gets one repair attempt; after that the
// error wraps domain.ErrEnrichmentParse and the caller leaves the item
// unstored so a later run retries it.
func (e *OpenAIEnricher) Enrich(ctx context.Context, item *domain.DecisionItem) (*domain.ImpactProfile, error) {
	response, err := e.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(e.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(buildPrompt(item)),
		},
		Temperature: openai.Float(0.1),
		MaxTokens:   openai.Int(2000),
	})
	if err != nil {
		return nil, fmt.Errorf("openai request failed: %w", err)
	}

	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices in response", domain.ErrEnrichmentParse)
	}

	profile, err := parseProfile(response.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	profile.Validate()
	profile.EnrichedAt = time.Now().UTC()
	profile.Model = e.model
	return profile, nil
}

func buildPrompt(item *domain.DecisionItem) string {
	var sb strings.Builder
	sb.WriteString("Municipality: ")
	sb.WriteString(string(item.Municipality))
	sb.WriteString("\nTitle: ")
	sb.WriteString(item.Title)
	if item.DecisionDate != nil {
		sb.WriteString("\nDate: ")
		sb.WriteString(item.DecisionDate.Format("2006-01-02"))
	}
	sb.WriteString("\n\nDecision text:\n")
	sb.WriteString(item.RawText)
	return sb.String()
}

// parseProfile decodes model output into a profile. First attempt is the
// fence-stripped content as-is; if that fails, one repair pass cuts the
// content down to the outermost braces and tries again.
func parseProfile(content string) (*domain.ImpactProfile, error) {
	candidate := stripFences(content)

	var profile domain.ImpactProfile
	if err := json.Unmarshal([]byte(candidate), &profile); err == nil {
		return &profile, nil
	}

	repaired, ok := extractObject(candidate)
	if !ok {
		return nil, fmt.Errorf("%w: no JSON object in model output", domain.ErrEnrichmentParse)
	}

	profile = domain.ImpactProfile{}
	if err := json.Unmarshal([]byte(repaired), &profile); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEnrichmentParse, err)
	}
	return &profile, nil
}

// stripFences removes a surrounding markdown code fence if present.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// extractObject returns the substring from the first '{' to the last '}'.
// Recovers output where the model wrapped the JSON in prose.
func extractObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

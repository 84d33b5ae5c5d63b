package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"go.uber.org/zap"

	"github.com/planwise/planwise/internal/models"
)

const (
	// DefaultOpenAIModel is the default model to use
	DefaultOpenAIModel = "gpt-4o-mini"
	// DefaultOpenAIBaseURL is the default OpenAI API base URL
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	// DefaultTimeout is the default timeout for API calls
	DefaultTimeout = 30 * time.Second

	// MaxItemsInPrompt caps how many work items are listed in the prompt
	MaxItemsInPrompt = 25

	// ErrNoChoicesInResponse is returned when the API response has no choices
	ErrNoChoicesInResponse = "no choices in response"
)

// OpenAIProvider implements the AgendaSuggester interface using OpenAI's API
type OpenAIProvider struct {
	client    openai.Client
	model     string
	logger    *zap.Logger
	debugMode bool
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(apiKey string, model string) *OpenAIProvider {
	return NewOpenAIProviderWithLogger(apiKey, DefaultOpenAIBaseURL, model, nil, false)
}

// NewOpenAIProviderWithLogger creates a new OpenAI provider with logger support
func NewOpenAIProviderWithLogger(apiKey string, baseURL string, model string, logger *zap.Logger, debugMode bool) *OpenAIProvider {
	if model == "" {
		model = DefaultOpenAIModel
	}
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}

	httpClient := &http.Client{
		Timeout: DefaultTimeout,
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithHTTPClient(httpClient),
	)

	return &OpenAIProvider{
		client:    client,
		model:     model,
		logger:    logger,
		debugMode: debugMode,
	}
}

// SuggestAgenda produces a daily agenda summary for the given work items
func (p *OpenAIProvider) SuggestAgenda(ctx context.Context, items []models.WorkItem, date time.Time) (*models.Agenda, error) {
	content, err := p.buildAndSendAgendaRequest(ctx, items, date)
	if err != nil {
		return nil, err
	}

	summary, entries, err := parseAndValidateAgendaResponse(content, items)
	if err != nil {
		return nil, err
	}

	return &models.Agenda{
		ID:        uuid.New(),
		Date:      date,
		Summary:   summary,
		Entries:   entries,
		Source:    models.AgendaSourceAI,
		CreatedAt: time.Now(),
	}, nil
}

// buildAndSendAgendaRequest builds the prompt, sends the request, and returns
// the response content or an error.
func (p *OpenAIProvider) buildAndSendAgendaRequest(ctx context.Context, items []models.WorkItem, date time.Time) (string, error) {
	prompt := buildAgendaPrompt(items, date)
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage("You are a planning assistant that summarizes a user's pending work items into a short daily agenda. Respond with valid JSON only."),
		openai.UserMessage(prompt),
	}
	req := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(p.model),
		Messages: messages,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	}

	requestID := ExtractRequestID(ctx)
	userIDStr := ExtractUserID(ctx)

	if p.logger != nil && p.debugMode {
		p.logger.Debug("llm_api_request",
			zap.String("operation", "suggest_agenda"),
			zap.String("model", p.model),
			zap.Int("item_count", len(items)),
			zap.Int("prompt_length", len(prompt)),
			zap.String("prompt_preview", SanitizePrompt(prompt, true)),
			zap.String("user_id", userIDStr),
			zap.String("request_id", requestID),
		)
	}

	start := time.Now()
	resp, err := p.client.Chat.Completions.New(ctx, req)
	latency := time.Since(start)
	if err != nil {
		if p.logger != nil && p.debugMode {
			p.logger.Debug("llm_api_error",
				zap.String("operation", "suggest_agenda"),
				zap.String("model", p.model),
				zap.Error(err),
				zap.String("user_id", userIDStr),
				zap.String("request_id", requestID),
				zap.Int64("latency_ms", latency.Milliseconds()),
			)
		}
		if apiErr := ExtractAPIError(err); apiErr != nil {
			return "", fmt.Errorf("failed to suggest agenda: %w", apiErr)
		}
		return "", fmt.Errorf("failed to suggest agenda: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New(ErrNoChoicesInResponse)
	}

	content := resp.Choices[0].Message.Content
	if p.logger != nil && p.debugMode {
		p.logger.Debug("llm_api_response",
			zap.String("operation", "suggest_agenda"),
			zap.String("model", p.model),
			zap.Int("response_length", len(content)),
			zap.String("response_preview", SanitizeResponse(content, true)),
			zap.String("user_id", userIDStr),
			zap.String("request_id", requestID),
			zap.Int64("latency_ms", latency.Milliseconds()),
		)
	}

	return content, nil
}

// parseAndValidateAgendaResponse parses the model output, tolerating prose
// around the JSON object, and maps entries back onto known work items.
func parseAndValidateAgendaResponse(content string, items []models.WorkItem) (string, []models.AgendaEntry, error) {
	var parsed struct {
		Summary string `json:"summary"`
		Entries []struct {
			WorkItemID string `json:"work_item_id"`
			Quadrant   string `json:"quadrant"`
		} `json:"entries"`
	}

	raw := content
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		if len(raw) > 0 && raw[0] != '{' {
			start := bytes.Index([]byte(raw), []byte("{"))
			end := bytes.LastIndex([]byte(raw), []byte("}"))
			if start != -1 && end != -1 && end > start {
				raw = raw[start : end+1]
			}
		}
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			return "", nil, fmt.Errorf("failed to parse agenda response: %w", err)
		}
	}

	if parsed.Summary == "" {
		return "", nil, fmt.Errorf("agenda response missing summary")
	}

	byID := make(map[uuid.UUID]*models.WorkItem, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}

	entries := make([]models.AgendaEntry, 0, len(parsed.Entries))
	for _, e := range parsed.Entries {
		id, err := uuid.Parse(e.WorkItemID)
		if err != nil {
			continue
		}
		item, ok := byID[id]
		if !ok {
			// The model referenced an item we never sent; drop it
			continue
		}

		quadrant := models.AgendaQuadrant(e.Quadrant)
		switch quadrant {
		case models.QuadrantUrgentImportant, models.QuadrantNotUrgentImportant,
			models.QuadrantUrgentMinor, models.QuadrantNotUrgentMinor:
		default:
			quadrant = models.QuadrantNotUrgentMinor
		}

		entries = append(entries, models.AgendaEntry{
			WorkItemID: id,
			Title:      item.Title,
			Quadrant:   quadrant,
		})
	}

	return parsed.Summary, entries, nil
}

// buildAgendaPrompt builds the prompt for agenda suggestion
func buildAgendaPrompt(items []models.WorkItem, date time.Time) string {
	prompt := fmt.Sprintf(`Summarize the following pending work items into a short daily agenda for %s.

Classify each item into one quadrant:
- "urgent_important": needs attention on this day and carries real consequences
- "not_urgent_important": matters but can be scheduled deliberately
- "urgent_minor": time-sensitive but low stakes
- "not_urgent_minor": neither time-sensitive nor high stakes

Pending work items:`, date.Format("Monday, January 2"))

	count := len(items)
	if count > MaxItemsInPrompt {
		count = MaxItemsInPrompt
	}
	for _, item := range items[:count] {
		prompt += fmt.Sprintf("\n- id=%s priority=%s title=%q", item.ID, item.Priority, item.Title)
		if item.DueAt != nil {
			prompt += fmt.Sprintf(" due=%s", item.DueAt.Format(time.RFC3339))
		}
	}

	prompt += `

Respond with a JSON object in this format:
{
  "summary": "one or two sentences describing the shape of the day",
  "entries": [
    {"work_item_id": "<id>", "quadrant": "urgent_important"}
  ]
}

Include every listed item exactly once in entries. Return only valid JSON.`

	return prompt
}

// RegisterOpenAI registers the OpenAI provider with the registry
func RegisterOpenAI(registry *ProviderRegistry) {
	registry.Register("openai", func(config map[string]string) (AgendaSuggester, error) {
		apiKey, ok := config["api_key"]
		if !ok || apiKey == "" {
			return nil, fmt.Errorf("openai api_key is required")
		}

		return NewOpenAIProviderWithLogger(apiKey, config["base_url"], config["model"], nil, false), nil
	})
}

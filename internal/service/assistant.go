package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"estate/internal/config"
	"estate/internal/model"
	"estate/internal/utils"
)

// Assistant is the optional generative text integration. Callers always keep
// the rule engine as the fallback, so a disabled or failing assistant never
// surfaces to users.
type Assistant interface {
	Enabled() bool
	Reply(ctx context.Context, history []model.ChatMessage, message string) (string, error)
	ExtractQuery(ctx context.Context, query string) (*model.ParsedQuery, error)
}

var errAssistantDisabled = errors.New("assistant is not enabled")

// DisabledAssistant is used when no API key is configured
type DisabledAssistant struct{}

func (DisabledAssistant) Enabled() bool { return false }

func (DisabledAssistant) Reply(context.Context, []model.ChatMessage, string) (string, error) {
	return "", errAssistantDisabled
}

func (DisabledAssistant) ExtractQuery(context.Context, string) (*model.ParsedQuery, error) {
	return nil, errAssistantDisabled
}

// OpenAIAssistant talks to any OpenAI-compatible chat completion endpoint
type OpenAIAssistant struct {
	client  *openai.Client
	cfg     config.OpenAIConfig
	timeout time.Duration
	logger  *slog.Logger
}

// NewAssistant returns an OpenAIAssistant when a key is configured and a
// DisabledAssistant otherwise
func NewAssistant(cfg config.OpenAIConfig, logger *slog.Logger) Assistant {
	if !cfg.Enabled || cfg.APIKey == "" {
		logger.Info("generative assistant disabled, using rule engine only")
		return DisabledAssistant{}
	}
	return NewOpenAIAssistant(cfg, logger)
}

// NewOpenAIAssistant creates a client for cfg.APIBase
func NewOpenAIAssistant(cfg config.OpenAIConfig, logger *slog.Logger) *OpenAIAssistant {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.APIBase != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.APIBase, "/")
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	logger.Info("generative assistant enabled", "base_url", clientCfg.BaseURL, "model", cfg.ChatModel)
	return &OpenAIAssistant{
		client:  openai.NewClientWithConfig(clientCfg),
		cfg:     cfg,
		timeout: timeout,
		logger:  logger,
	}
}

func (a *OpenAIAssistant) Enabled() bool { return true }

const chatSystemPrompt = `You are a friendly real estate assistant for a property listing website.
Help with property searches, mortgage calculations, market insights, investment advice and connecting users with agents.
Keep answers under 80 words. Never invent specific listings or prices that the user did not mention.`

// Reply generates a chat answer from the transcript so far
func (a *OpenAIAssistant) Reply(ctx context.Context, history []model.ChatMessage, message string) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: chatSystemPrompt},
	}
	for _, m := range history {
		role := openai.ChatMessageRoleUser
		if m.Role == model.RoleBot {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: message})

	content, err := a.complete(ctx, openai.ChatCompletionRequest{
		Model:       a.cfg.ChatModel,
		Messages:    messages,
		Temperature: float32(a.cfg.Temperature),
		MaxTokens:   a.cfg.MaxTokens,
	})
	if err != nil {
		return "", err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return "", fmt.Errorf("empty reply from assistant")
	}
	return content, nil
}

const extractSystemPrompt = `You are a real estate search assistant. Parse the user's query into structured filters.

Extract the following if present:
- price_ceiling: maximum price in USD (number). "500k" = 500000, "1.2m" = 1200000
- bedrooms: number of bedrooms (integer)
- bathrooms: number of bathrooms (integer)
- location: one of "downtown", "suburb", "university", "school", "park", "lake", "mountain"
- features: any of "garage", "pool", "garden", "modern", "new", "investment", "family"
- property_type: "house" or "apartment" (condos count as apartment)

Respond ONLY with a JSON object. Omit fields that are not mentioned.

Query: "3 bedroom house with garage under $500k near downtown"
Response: {"price_ceiling": 500000, "bedrooms": 3, "location": "downtown", "features": ["garage"], "property_type": "house"}`

// aiQuery is the raw extraction payload before validation
type aiQuery struct {
	PriceCeiling *float64 `json:"price_ceiling,omitempty"`
	Bedrooms     *int     `json:"bedrooms,omitempty"`
	Bathrooms    *int     `json:"bathrooms,omitempty"`
	Location     *string  `json:"location,omitempty"`
	Features     []string `json:"features,omitempty"`
	PropertyType *string  `json:"property_type,omitempty"`
}

// ExtractQuery asks the model for filters and validates them against the same
// vocabulary the rule parser uses
func (a *OpenAIAssistant) ExtractQuery(ctx context.Context, query string) (*model.ParsedQuery, error) {
	content, err := a.complete(ctx, openai.ChatCompletionRequest{
		Model: a.cfg.ChatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: extractSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: query},
		},
		Temperature:    0.1,
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	})
	if err != nil {
		return nil, err
	}

	var raw aiQuery
	if err := utils.ParseAIJSON(content, &raw); err != nil {
		a.logger.Warn("failed to parse assistant extraction", "content", content)
		return nil, fmt.Errorf("failed to parse assistant response: %w", err)
	}
	return validateAIQuery(&raw)
}

func (a *OpenAIAssistant) complete(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in chat completion response")
	}
	return resp.Choices[0].Message.Content, nil
}

// validateAIQuery drops anything outside the parser's vocabulary
func validateAIQuery(raw *aiQuery) (*model.ParsedQuery, error) {
	q := &model.ParsedQuery{Features: []string{}}

	if raw.PriceCeiling != nil {
		if *raw.PriceCeiling < 0 {
			return nil, fmt.Errorf("price_ceiling must not be negative, got %v", *raw.PriceCeiling)
		}
		if ceiling := int64(*raw.PriceCeiling); ceiling > 0 {
			q.PriceCeiling = &ceiling
		}
	}
	// zero counts mean "not mentioned", as in the rule parser
	if raw.Bedrooms != nil {
		if *raw.Bedrooms < 0 || *raw.Bedrooms > 20 {
			return nil, fmt.Errorf("bedrooms out of range: %d", *raw.Bedrooms)
		}
		if *raw.Bedrooms > 0 {
			q.Bedrooms = raw.Bedrooms
		}
	}
	if raw.Bathrooms != nil {
		if *raw.Bathrooms < 0 || *raw.Bathrooms > 20 {
			return nil, fmt.Errorf("bathrooms out of range: %d", *raw.Bathrooms)
		}
		if *raw.Bathrooms > 0 {
			q.Bathrooms = raw.Bathrooms
		}
	}
	if raw.Location != nil {
		loc := strings.ToLower(strings.TrimSpace(*raw.Location))
		if slices.Contains(LocationKeywords, loc) {
			q.Location = &loc
		}
	}
	for _, keyword := range FeatureKeywords {
		for _, f := range raw.Features {
			if strings.EqualFold(strings.TrimSpace(f), keyword) && !q.HasFeature(keyword) {
				q.Features = append(q.Features, keyword)
			}
		}
	}
	if raw.PropertyType != nil {
		switch strings.ToLower(strings.TrimSpace(*raw.PropertyType)) {
		case "house", "home":
			t := model.PropertyTypeHouse
			q.PropertyType = &t
		case "apartment", "condo":
			t := model.PropertyTypeApartment
			q.PropertyType = &t
		}
	}
	return q, nil
}

package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/lewisedginton/course_materials_chatbot/pkg/logger"
)

const defaultMaxTokens = 800

// Config configures the Anthropic-backed client.
type Config struct {
	APIKey     string
	Model      string
	MaxTokens  int64
	MaxRetries int
	Logger     logger.Logger
}

// AnthropicClient implements Client against the Anthropic Messages API.
// Temperature is pinned to zero so retrieval-grounded answers stay stable.
type AnthropicClient struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	log       logger.Logger
}

// NewAnthropicClient creates a new Anthropic model client.
func NewAnthropicClient(cfg Config) (*AnthropicClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if cfg.Model == "" {
		cfg.Model = string(anthropic.ModelClaudeSonnet4_5_20250929)
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.MaxRetries > 0 {
		opts = append(opts, option.WithMaxRetries(cfg.MaxRetries))
	}

	return &AnthropicClient{
		client:    anthropic.NewClient(opts...),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		log:       cfg.Logger.WithFields(logger.StringField("component", "anthropic_client")),
	}, nil
}

// Generate sends the conversation to the model and parses the outcome into
// either a final answer or a tool request.
func (c *AnthropicClient) Generate(ctx context.Context, req Request) (*ModelResponse, error) {
	messages, err := transformTurns(req.Turns)
	if err != nil {
		return nil, fmt.Errorf("failed to transform conversation: %w", err)
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   c.maxTokens,
		Messages:    messages,
		Temperature: anthropic.Float(0),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if len(req.Tools) > 0 {
		params.Tools = transformTools(req.Tools)
	}

	c.log.Debug("Sending request to model",
		logger.IntField("turns", len(req.Turns)),
		logger.IntField("tools", len(req.Tools)))

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("model call failed: %w", err)
	}

	response, err := parseMessage(message)
	if err != nil {
		return nil, fmt.Errorf("failed to parse model response: %w", err)
	}

	c.log.Debug("Received model response",
		logger.IntField("tool_calls", len(response.ToolCalls)),
		logger.BoolField("final", response.Kind == KindFinalAnswer))
	return response, nil
}

// parseMessage converts an Anthropic message into a tagged ModelResponse.
func parseMessage(message *anthropic.Message) (*ModelResponse, error) {
	if message == nil {
		return nil, fmt.Errorf("message is nil")
	}

	response := &ModelResponse{Kind: KindFinalAnswer}
	var texts []string

	for _, block := range message.Content {
		switch variant := block.AsAny().(type) {
		case anthropic.TextBlock:
			texts = append(texts, variant.Text)
		case anthropic.ToolUseBlock:
			args, err := json.Marshal(variant.Input)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal tool input for %s: %w", variant.Name, err)
			}
			response.ToolCalls = append(response.ToolCalls, ToolCall{
				ID:   variant.ID,
				Name: variant.Name,
				Args: args,
			})
		}
	}
	response.Text = strings.Join(texts, "\n")

	if message.StopReason == anthropic.StopReasonToolUse || len(response.ToolCalls) > 0 {
		if len(response.ToolCalls) == 0 {
			return nil, fmt.Errorf("model stopped for tool use but requested no tools")
		}
		response.Kind = KindToolRequest
	}
	return response, nil
}

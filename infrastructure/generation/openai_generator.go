// Package generation provides the OpenAI-backed implementation of the
// content generator port.
package generation

import (
	"context"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"inquiry-backend/application/ports"
	pkgerrors "inquiry-backend/pkg/errors"
)

const systemPrompt = "You are a rigorous dialectical reasoner. Always respond with exactly the JSON shape the prompt asks for, and nothing else."

// OpenAIGenerator implements ports.ContentGenerator against the OpenAI chat
// completion API
type OpenAIGenerator struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewOpenAIGenerator creates a generator bound to the given API key and model
func NewOpenAIGenerator(apiKey, model string, logger *zap.Logger) *OpenAIGenerator {
	return &OpenAIGenerator{
		client: openai.NewClient(apiKey),
		model:  model,
		logger: logger,
	}
}

// Generate sends one prompt and returns the raw text of the first choice.
// Parsing of the reply is the caller's concern; this layer only handles
// transport.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string, params ports.GenerationParams) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: params.Temperature,
		MaxTokens:   params.MaxTokens,
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		g.logger.Error("OpenAI request failed", zap.String("model", g.model), zap.Error(err))
		return "", pkgerrors.NewExternalError("openai", err)
	}

	if len(resp.Choices) == 0 {
		return "", pkgerrors.NewExternalError("openai", nil).WithDetails(map[string]interface{}{
			"reason": "no choices returned",
		})
	}

	g.logger.Debug("Received generator response",
		zap.String("model", g.model),
		zap.String("finishReason", string(resp.Choices[0].FinishReason)),
	)

	return resp.Choices[0].Message.Content, nil
}

package openai

import (
	"context"
	"fmt"

	"ventia-server/internal/chat/processor"
	"ventia-server/internal/observability"

	"github.com/openai/openai-go"
	openaiOption "github.com/openai/openai-go/option"
)

// Client streams chat completions from the OpenAI API.
type Client struct {
	apiKey string
	model  string
	logger *observability.Logger
}

func New(apiKey string, model string, logger *observability.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		model:  model,
		logger: logger,
	}
}

// StreamCompletion sends the conversation to OpenAI and streams the reply.
// The completion channel receives exactly one result once the stream ends.
func (c *Client) StreamCompletion(ctx context.Context, systemPrompt string,
	messages []processor.ChatMessage) (<-chan string, <-chan processor.Completion) {
	tokens := make(chan string)
	completion := make(chan processor.Completion, 1)

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)+1),
	}
	params.Messages = append(params.Messages, openai.SystemMessage(systemPrompt))
	for _, m := range messages {
		if m.Role == "assistant" {
			params.Messages = append(params.Messages, openai.AssistantMessage(m.Content))
			continue
		}
		params.Messages = append(params.Messages, openai.UserMessage(m.Content))
	}

	go func() {
		defer close(tokens)
		defer close(completion)

		client := openai.NewClient(openaiOption.WithAPIKey(c.apiKey))
		stream := client.Chat.Completions.NewStreaming(ctx, params)
		defer stream.Close()

		acc := openai.ChatCompletionAccumulator{}
		for stream.Next() {
			chunk := stream.Current()
			acc.AddChunk(chunk)

			if len(chunk.Choices) == 0 {
				continue
			}
			delta := chunk.Choices[0].Delta.Content
			if delta == "" {
				continue
			}

			select {
			case tokens <- delta:
			case <-ctx.Done():
				completion <- processor.Completion{Err: ctx.Err()}
				return
			}
		}

		if err := stream.Err(); err != nil {
			c.logger.Error(ctx, "failed to stream OpenAI response", err)
			completion <- processor.Completion{Err: fmt.Errorf("failed to get OpenAI response: %w", err)}
			return
		}

		var full string
		if len(acc.Choices) > 0 {
			full = acc.Choices[0].Message.Content
		}
		completion <- processor.Completion{Text: full}
	}()

	return tokens, completion
}

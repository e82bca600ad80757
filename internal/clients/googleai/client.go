package googleai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ventia-server/internal/chat/processor"
	"ventia-server/internal/observability"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// Client streams chat completions from the Gemini API.
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

// StreamCompletion sends the conversation to Gemini and streams the reply.
// The token channel carries text chunks as they arrive. The completion
// channel receives exactly one result once the stream ends, either the full
// assembled reply or the error that cut it short.
func (c *Client) StreamCompletion(ctx context.Context, systemPrompt string,
	messages []processor.ChatMessage) (<-chan string, <-chan processor.Completion) {
	tokens := make(chan string)
	completion := make(chan processor.Completion, 1)

	go func() {
		defer close(tokens)
		defer close(completion)

		client, err := genai.NewClient(ctx, option.WithAPIKey(c.apiKey))
		if err != nil {
			c.logger.Error(ctx, "failed to create Gemini client", err)
			completion <- processor.Completion{Err: fmt.Errorf("failed to create Gemini client: %w", err)}
			return
		}
		defer client.Close()

		model := client.GenerativeModel(c.model)
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(systemPrompt)},
		}

		var history []*genai.Content
		for _, m := range messages[:len(messages)-1] {
			role := "user"
			if m.Role == "assistant" {
				role = "model" // Gemini SDK expects "model"
			}
			history = append(history, &genai.Content{
				Role:  role,
				Parts: []genai.Part{genai.Text(m.Content)},
			})
		}
		prompt := genai.Text(messages[len(messages)-1].Content)

		chat := model.StartChat()
		chat.History = history
		iter := chat.SendMessageStream(ctx, prompt)

		var full strings.Builder
		for {
			resp, err := iter.Next()
			if errors.Is(err, iterator.Done) {
				completion <- processor.Completion{Text: full.String()}
				return
			}
			if err != nil {
				c.logger.Error(ctx, "failed to get next Gemini response", err)
				completion <- processor.Completion{Err: fmt.Errorf("failed to get Gemini response: %w", err)}
				return
			}

			for _, candidate := range resp.Candidates {
				if candidate.Content == nil {
					continue
				}
				for _, part := range candidate.Content.Parts {
					text, ok := part.(genai.Text)
					if !ok {
						continue
					}
					select {
					case tokens <- string(text):
						full.WriteString(string(text))
					case <-ctx.Done():
						completion <- processor.Completion{Err: ctx.Err()}
						return
					}
				}
			}
		}
	}()

	return tokens, completion
}

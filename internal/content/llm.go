package content

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

const fillSystemPrompt = "You are a knowledge management expert creating interconnected notes for a Markdown vault."

// LLMFiller generates bodies with an OpenAI-compatible chat model. Failures
// are returned to the caller, which recovers with FallbackBody; this type
// never degrades silently.
type LLMFiller struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewLLMFiller creates a filler backed by the given client and model.
// timeout bounds each request; 0 disables the per-call deadline.
func NewLLMFiller(client *openai.Client, model string, timeout time.Duration) *LLMFiller {
	return &LLMFiller{client: client, model: model, timeout: timeout}
}

// Fill implements Filler.
func (f *LLMFiller) Fill(ctx context.Context, title string, linked []string, isHub bool) (string, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	resp, err := f.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: f.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: fillSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fillPrompt(title, linked, isHub)},
		},
		Temperature: 0.7,
		MaxTokens:   1000,
	})
	if err != nil {
		return "", fmt.Errorf("content: chat completion for %q: %w", title, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("content: empty completion for %q", title)
	}

	body := resp.Choices[0].Message.Content
	// Models occasionally omit the links section; the vault writer appends
	// any missing neighbour links, so nothing needs repairing here.
	return body, nil
}

func fillPrompt(title string, linked []string, isHub bool) string {
	related := strings.Join(linked, ", ")
	kind := "concept"
	if isHub {
		kind = "hub"
	}
	return fmt.Sprintf(`Create a comprehensive Markdown note about %q.

Note type: %s
Related notes: %s

Include:
1. A clear introduction explaining the topic
2. Key concepts and definitions
3. Important details and context
4. Examples or applications if relevant
5. A "Related Notes" section with links to: %s

Format as clean markdown. Use [[double brackets]] for internal links and link
only to the related notes listed above.`, title, kind, related, related)
}

package topics

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const topicSystemPrompt = "You are a knowledge base architect. Return only valid JSON arrays."

// LLMExpander asks an OpenAI-compatible model to name the sub-topics. The
// model only proposes names; uniqueness and filename-safety are still
// enforced here before the titles reach the graph builder. On API failure it
// falls back to the template vocabulary so a degraded model never aborts a
// run.
type LLMExpander struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

// NewLLMExpander creates an expander backed by the given client and model.
func NewLLMExpander(client *openai.Client, model string, logger *slog.Logger) *LLMExpander {
	return &LLMExpander{client: client, model: model, logger: logger}
}

// Expand implements Expander.
func (e *LLMExpander) Expand(ctx context.Context, mainTopic string, count int) ([]string, error) {
	proposed, err := e.propose(ctx, mainTopic, count)
	if err != nil {
		e.logger.Warn("llm topic naming failed, using template vocabulary",
			slog.String("topic", mainTopic),
			slog.String("error", err.Error()))
		return TemplateExpander{}.Expand(ctx, mainTopic, count)
	}

	titles := make([]string, 0, count)
	titles = append(titles, mainTopic)
	for _, t := range proposed {
		if t != mainTopic {
			titles = append(titles, t)
		}
	}
	return ensureViable(titles, count)
}

func (e *LLMExpander) propose(ctx context.Context, mainTopic string, count int) ([]string, error) {
	prompt := fmt.Sprintf(`Generate %d interconnected topics related to %q for a knowledge base.

Return a JSON array of topic names (strings only, no other text).
Topics should be:
- Diverse and interesting
- Naturally interconnected
- Suitable for a knowledge graph
- Clear and specific

Example format: ["Topic 1", "Topic 2", "Topic 3"]`, count, mainTopic)

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: topicSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.8,
	})
	if err != nil {
		return nil, fmt.Errorf("topics: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("topics: empty completion response")
	}
	return parseTopicArray(resp.Choices[0].Message.Content)
}

// parseTopicArray extracts a JSON string array from a model reply, tolerating
// Markdown code fences around the payload.
func parseTopicArray(reply string) ([]string, error) {
	s := strings.TrimSpace(reply)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.Index(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}
	var topics []string
	if err := json.Unmarshal([]byte(s), &topics); err != nil {
		return nil, fmt.Errorf("topics: parse model reply: %w", err)
	}
	return topics, nil
}

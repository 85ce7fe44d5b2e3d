package anthropic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	apiURL     = "https://api.anthropic.com/v1/messages"
	apiVersion = "2023-06-01"
	model      = "claude-3-haiku-20240307"
	maxTokens  = 1024

	analysisSystemPrompt = `You are an experienced dairy farm advisor. You will receive a summary of
a cattle farm's statistics: herd size, health classification, milk
production, expenses and income. Analyze the numbers and reply with a short,
practical assessment: what is going well, what needs attention, and two or
three concrete suggestions. Plain text only, no markdown.`

	chatSystemPrompt = `You are a friendly assistant for a dairy farmer using a herd management
app. Answer questions about cattle care, milk production, feeding, common
illnesses and farm economics. Keep replies short and practical. If a
question is outside farming, politely steer back to the farm.`
)

// Client defines the AI text operations used by the advisor.
type Client interface {
	Analyze(ctx context.Context, statsText string) (string, error)
	Chat(ctx context.Context, history []Message, input string) (string, error)
}

// Message is one turn of a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicClient struct {
	httpClient *resty.Client
}

// NewClient creates a configured Anthropic client.
func NewClient(apiKey string) Client {
	client := resty.New().
		SetHeader("x-api-key", apiKey).
		SetHeader("anthropic-version", apiVersion).
		SetHeader("content-type", "application/json").
		SetTimeout(15 * time.Second)

	return &anthropicClient{httpClient: client}
}

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []Message `json:"messages"`
}

// messageResponse is deliberately loose about the response shape: besides
// the documented content blocks it also tries a handful of top-level text
// fields some proxy deployments return.
type messageResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
	Analysis    string `json:"analysis"`
	Suggestions string `json:"suggestions"`
	Text        string `json:"text"`
}

// Analyze sends the farm statistics as a single structured prompt and
// returns the advisor's text verbatim.
func (c *anthropicClient) Analyze(ctx context.Context, statsText string) (string, error) {
	messages := []Message{{Role: "user", Content: statsText}}
	return c.complete(ctx, analysisSystemPrompt, messages)
}

// Chat continues a conversation. history carries the prior turns (already
// bounded by the caller); input is the new user message.
func (c *anthropicClient) Chat(ctx context.Context, history []Message, input string) (string, error) {
	messages := append(append([]Message{}, history...), Message{Role: "user", Content: input})
	return c.complete(ctx, chatSystemPrompt, messages)
}

func (c *anthropicClient) complete(ctx context.Context, system string, messages []Message) (string, error) {
	reqBody := messageRequest{
		Model:     model,
		MaxTokens: maxTokens,
		System:    system,
		Messages:  messages,
	}

	var respBody messageResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(reqBody).
		SetResult(&respBody).
		Post(apiURL)

	if err != nil {
		return "", fmt.Errorf("anthropic api call: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("anthropic api error: %s", resp.String())
	}

	text := extractText(respBody)
	if text == "" {
		return "", fmt.Errorf("empty response from ai")
	}
	return text, nil
}

// extractText tries the known response fields in order until one yields a
// non-empty string.
func extractText(resp messageResponse) string {
	if len(resp.Content) > 0 {
		var b strings.Builder
		for _, block := range resp.Content {
			b.WriteString(block.Text)
		}
		if s := strings.TrimSpace(b.String()); s != "" {
			return s
		}
	}
	for _, candidate := range []string{resp.Analysis, resp.Suggestions, resp.Text} {
		if s := strings.TrimSpace(candidate); s != "" {
			return s
		}
	}
	return ""
}

package insights

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"marketinsights/internal/config"
	"marketinsights/internal/logger"
)

const systemPrompt = "You are an ICT trading mentor. Use ICT concepts (liquidity, displacement, PD arrays, OTE, FVG/OB, killzones) to craft concise, actionable plans."

// maxImages caps how many vision attachments are forwarded per request.
const maxImages = 5

type Request struct {
	Symbol  string
	Horizon string
	Notes   string
	Images  []string // data URLs, image/* only
}

// Client proxies narrative market analysis to an OpenAI-compatible chat
// completions API. Without an API key it stays in demo mode and answers
// locally instead of calling out.
type Client struct {
	client  *openai.Client
	model   string
	enabled bool
	cfg     *config.Config
	logger  *logger.Logger
}

func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	c := &Client{
		model:   cfg.OpenAI.Model,
		enabled: cfg.OpenAI.APIKey != "",
		cfg:     cfg,
		logger:  log,
	}
	if c.enabled {
		c.client = openai.NewClient(cfg.OpenAI.APIKey)
	}
	return c
}

func (c *Client) Enabled() bool {
	return c.enabled
}

// Summarize produces a narrative view for a symbol. Upstream failures are
// returned with a safe summary; the API key never appears in errors or logs.
func (c *Client) Summarize(ctx context.Context, req *Request) (string, error) {
	prompt := buildPrompt(req)

	if !c.enabled {
		extra := ""
		if len(req.Images) > 0 {
			extra = "\n\n[Note] Vision inputs not processed in demo mode."
		}
		return "[Demo] " + prompt + "\n\nNote: Set OPENAI_API_KEY to enable live GPT insights." + extra, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.OpenAITimeout())
	defer cancel()

	parts := []openai.ChatMessagePart{
		{Type: openai.ChatMessagePartTypeText, Text: prompt},
	}
	count := 0
	for _, u := range req.Images {
		if !strings.HasPrefix(u, "data:image") {
			continue
		}
		parts = append(parts, openai.ChatMessagePart{
			Type:     openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{URL: u},
		})
		count++
		if count >= maxImages {
			break
		}
	}

	c.logger.Info("requesting insights", "symbol", req.Symbol, "horizon", req.Horizon, "images", count)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, MultiContent: parts},
		},
		Temperature: 0.4,
	})
	if err != nil {
		return "", fmt.Errorf("openai API call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func buildPrompt(req *Request) string {
	horizon := req.Horizon
	if horizon == "" {
		horizon = "daily"
	}
	return strings.TrimSpace(fmt.Sprintf(
		"Provide a %s view for %s with risks and potential trade setups. %s",
		horizon, req.Symbol, req.Notes))
}

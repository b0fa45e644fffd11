package ai

import (
	"context"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/ajayverse/devpulse/internal/models"
)

const (
	openRouterBaseURL      = "https://openrouter.ai/api/v1/"
	defaultOpenRouterModel = "meta-llama/llama-3.3-70b-instruct:free"
)

// OpenRouterProvider talks to OpenRouter's OpenAI-compatible endpoint.
type OpenRouterProvider struct {
	client     openai.Client
	model      string
	configured bool
}

// NewOpenRouter creates the provider; an empty key leaves it
// unconfigured so the gateway skips it.
func NewOpenRouter(apiKey, model string) *OpenRouterProvider {
	if model == "" {
		model = defaultOpenRouterModel
	}
	p := &OpenRouterProvider{model: model, configured: apiKey != ""}
	if p.configured {
		p.client = openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithBaseURL(openRouterBaseURL),
			// OpenRouter requires attribution headers.
			option.WithHeader("HTTP-Referer", "https://github.com/ajayverse/devpulse"),
			option.WithHeader("X-Title", "devpulse"),
		)
	}
	return p
}

func (p *OpenRouterProvider) Name() string { return "openrouter" }

func (p *OpenRouterProvider) Configured() bool { return p.configured }

func (p *OpenRouterProvider) Complete(ctx context.Context, prompt string, task models.TaskType, maxTokens int) (string, error) {
	return chatComplete(ctx, p.client, p.model, prompt, task, maxTokens)
}

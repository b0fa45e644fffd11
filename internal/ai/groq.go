package ai

import (
	"context"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/ajayverse/devpulse/internal/models"
)

const (
	groqBaseURL      = "https://api.groq.com/openai/v1/"
	defaultGroqModel = "llama-3.3-70b-versatile"
)

// GroqProvider talks to Groq's OpenAI-compatible endpoint.
type GroqProvider struct {
	client     openai.Client
	model      string
	configured bool
}

// NewGroq creates the provider; an empty key leaves it unconfigured
// so the gateway skips it.
func NewGroq(apiKey, model string) *GroqProvider {
	if model == "" {
		model = defaultGroqModel
	}
	p := &GroqProvider{model: model, configured: apiKey != ""}
	if p.configured {
		p.client = openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithBaseURL(groqBaseURL),
		)
	}
	return p
}

func (p *GroqProvider) Name() string { return "groq" }

func (p *GroqProvider) Configured() bool { return p.configured }

func (p *GroqProvider) Complete(ctx context.Context, prompt string, task models.TaskType, maxTokens int) (string, error) {
	return chatComplete(ctx, p.client, p.model, prompt, task, maxTokens)
}

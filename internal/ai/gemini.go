package ai

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/ajayverse/devpulse/internal/models"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiProvider talks to the Gemini API.
type GeminiProvider struct {
	apiKey string
	model  string
}

// NewGemini creates the provider; an empty key leaves it unconfigured
// so the gateway skips it.
func NewGemini(apiKey, model string) *GeminiProvider {
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiProvider{apiKey: apiKey, model: model}
}

func (p *GeminiProvider) Name() string { return "gemini" }

func (p *GeminiProvider) Configured() bool { return p.apiKey != "" }

func (p *GeminiProvider) Complete(ctx context.Context, prompt string, task models.TaskType, maxTokens int) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  p.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("initializing gemini client: %w", err)
	}

	if task == models.TaskSummarization {
		prompt = "Summarize this DevOps/SRE content in 2-3 clear, concise sentences:\n\n" + prompt
	}
	if len(prompt) > 4000 {
		prompt = prompt[:4000]
	}
	if maxTokens <= 0 || maxTokens > 300 {
		maxTokens = 300
	}

	result, err := client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), &genai.GenerateContentConfig{
		MaxOutputTokens: int32(maxTokens),
		Temperature:     genai.Ptr[float32](0.4),
		TopP:            genai.Ptr[float32](0.8),
	})
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}
	if len(result.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := result.Candidates[0]
	if candidate.Content == nil {
		return "", fmt.Errorf("candidate content is nil, finish reason: %s", candidate.FinishReason)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no text parts in candidate")
	}
	return sb.String(), nil
}

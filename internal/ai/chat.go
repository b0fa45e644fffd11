package ai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v2"

	"github.com/ajayverse/devpulse/internal/models"
)

const (
	summarizeSystemPrompt = "You are a technical content summarizer for DevOps professionals. Provide a concise, clear summary in 2-3 sentences maximum."
	generateSystemPrompt  = "You are a DevOps expert. Explain technical concepts clearly and concisely."

	maxChatTokens   = 200
	maxPromptChars  = 2000
	summarizePrefix = "Summarize this DevOps/SRE content concisely:\n\n"
	chatTemperature = 0.3
)

// chatComplete issues one chat completion against an OpenAI-compatible
// endpoint. Groq and OpenRouter share this call shape.
func chatComplete(ctx context.Context, client openai.Client, model, prompt string, task models.TaskType, maxTokens int) (string, error) {
	systemPrompt := generateSystemPrompt
	userPrompt := prompt
	if task == models.TaskSummarization {
		systemPrompt = summarizeSystemPrompt
		userPrompt = summarizePrefix + prompt
	}
	if len(userPrompt) > maxPromptChars {
		userPrompt = userPrompt[:maxPromptChars]
	}
	if maxTokens <= 0 || maxTokens > maxChatTokens {
		maxTokens = maxChatTokens
	}

	response, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: openai.String(systemPrompt),
					},
				},
			},
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(userPrompt),
					},
				},
			},
		},
		Temperature: openai.Float(chatTemperature),
		MaxTokens:   openai.Int(int64(maxTokens)),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return response.Choices[0].Message.Content, nil
}

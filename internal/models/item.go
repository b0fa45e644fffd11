package models

import (
	"context"
	"time"
)

// FeedItem is one candidate piece of content pulled from a syndication feed.
// Items are transient: they live for a single fetch cycle.
type FeedItem struct {
	Title     string     `json:"title"`
	Link      string     `json:"link"`
	Summary   string     `json:"summary"`
	Source    string     `json:"source"`
	Published *time.Time `json:"published,omitempty"`
	Score     int        `json:"-"`
}

// Valid reports whether the item qualifies for ranking at all.
func (it FeedItem) Valid() bool {
	return it.Title != "" && it.Link != ""
}

// Text returns the searchable text of the item.
func (it FeedItem) Text() string {
	return it.Title + " " + it.Summary
}

// TaskType selects the prompt shape used by text providers.
type TaskType string

const (
	TaskSummarization TaskType = "summarization"
	TaskGeneration    TaskType = "generation"
)

// TextProvider is a single external text-completion capability.
// Implementations return ("", nil) only when the provider is not
// configured; a configured provider that produces nothing returns an error.
type TextProvider interface {
	Complete(ctx context.Context, prompt string, task TaskType, maxTokens int) (string, error)
	Name() string
	Configured() bool
}

// GrowthPlanIdea is an externally produced post idea, consumed read-only
// from the weekly growth plan file.
type GrowthPlanIdea struct {
	Title            string           `json:"title"`
	Hook             string           `json:"hook"`
	CTA              string           `json:"cta"`
	Hashtags         []string         `json:"hashtags"`
	Category         string           `json:"category"`
	ContentFramework ContentFramework `json:"content_framework"`
}

type ContentFramework struct {
	Structure []string `json:"structure"`
	Tone      string   `json:"tone"`
}

// GrowthPlan is the top-level shape of the weekly plan file.
type GrowthPlan struct {
	GeneratedAt string           `json:"generated_at"`
	PostIdeas   []GrowthPlanIdea `json:"post_ideas"`
}

package ai

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ajayverse/devpulse/internal/models"
)

const (
	providerTimeout = 15 * time.Second

	minAcceptableLen = 10
	maxAcceptableLen = 4000
)

// placeholderMarkers trip the spam/placeholder heuristic; provider
// output containing any of them is rejected.
var placeholderMarkers = []string{
	"as an ai",
	"as a language model",
	"i cannot",
	"i can't assist",
	"i'm sorry",
	"i am unable",
	"lorem ipsum",
	"[insert",
	"[your",
	"your text here",
	"placeholder",
}

// Gateway tries each configured text provider in priority order and
// returns the first acceptable result. It is best-effort only:
// callers must have a local fallback for when it returns nothing.
type Gateway struct {
	providers []models.TextProvider
	logger    *logrus.Logger
}

// NewGateway builds a gateway over the given providers. Order is
// priority order.
func NewGateway(logger *logrus.Logger, providers ...models.TextProvider) *Gateway {
	return &Gateway{providers: providers, logger: logger}
}

// Complete asks providers in order for a completion. Providers
// without credentials are skipped without counting as failures. The
// second return is false when every provider failed or none are
// configured.
func (g *Gateway) Complete(ctx context.Context, prompt string, task models.TaskType, maxTokens int) (string, bool) {
	for _, p := range g.providers {
		if !p.Configured() {
			continue
		}

		callCtx, cancel := context.WithTimeout(ctx, providerTimeout)
		text, err := p.Complete(callCtx, prompt, task, maxTokens)
		cancel()

		if err != nil {
			g.logger.WithField("provider", p.Name()).WithError(err).Debug("Provider call failed")
			continue
		}
		text = strings.TrimSpace(text)
		if !acceptable(text) {
			g.logger.WithField("provider", p.Name()).Debug("Provider output rejected by heuristics")
			continue
		}

		g.logger.WithField("provider", p.Name()).Debug("Provider call succeeded")
		return text, true
	}
	return "", false
}

func acceptable(text string) bool {
	if len(text) < minAcceptableLen || len(text) > maxAcceptableLen {
		return false
	}
	lower := strings.ToLower(text)
	for _, marker := range placeholderMarkers {
		if strings.Contains(lower, marker) {
			return false
		}
	}
	return true
}

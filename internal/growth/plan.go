package growth

import (
	"encoding/json"
	"math/rand"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ajayverse/devpulse/internal/models"
)

// Options controls plan selection.
type Options struct {
	Enabled  bool
	PlanFile string

	// Chance is the probability [0,1] that a run draws from the plan
	// instead of feed content, keeping the output mix varied.
	Chance float64
}

// Selector picks post ideas from the weekly growth plan file, which is
// produced out of band and consumed read-only.
type Selector struct {
	opts   Options
	rng    *rand.Rand
	logger *logrus.Logger
}

func NewSelector(opts Options, rng *rand.Rand, logger *logrus.Logger) *Selector {
	return &Selector{opts: opts, rng: rng, logger: logger}
}

// Pick returns a growth plan idea for this run, or nil when the plan is
// disabled, not selected by the probability gate, missing, or empty.
// A nil result tells the caller to fall back to feed content.
func (s *Selector) Pick() *models.GrowthPlanIdea {
	if !s.opts.Enabled {
		return nil
	}
	if s.rng.Float64() > s.opts.Chance {
		s.logger.WithField("probability", s.opts.Chance).Info("Skipping growth plan this run")
		return nil
	}

	plan, err := s.load()
	if err != nil {
		s.logger.WithError(err).Warn("Failed to load growth plan")
		return nil
	}
	if plan == nil || len(plan.PostIdeas) == 0 {
		return nil
	}

	idea := plan.PostIdeas[s.rng.Intn(len(plan.PostIdeas))]
	s.logger.WithField("title", idea.Title).Info("Using growth plan idea")
	return &idea
}

func (s *Selector) load() (*models.GrowthPlan, error) {
	data, err := os.ReadFile(s.opts.PlanFile)
	if os.IsNotExist(err) {
		s.logger.WithField("file", s.opts.PlanFile).Info("No growth plan file found")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var plan models.GrowthPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, err
	}
	s.logger.WithField("ideas", len(plan.PostIdeas)).Info("Loaded growth plan")
	return &plan, nil
}

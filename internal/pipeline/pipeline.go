package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ajayverse/devpulse/internal/models"
	"github.com/ajayverse/devpulse/internal/state"
)

// growthPlanSource labels posts built from the weekly plan in state
// and metrics, where feed posts carry the feed host instead.
const growthPlanSource = "growth_plan"

// Fetcher pulls candidate items from the configured feeds.
type Fetcher interface {
	FetchAll(ctx context.Context, feedURLs []string) []models.FeedItem
}

// Ranker filters and orders candidates against the posting history.
type Ranker interface {
	Rank(items []models.FeedItem, st *state.PostedState, now time.Time) []models.FeedItem
}

// Composer builds the post text.
type Composer interface {
	ChooseFormat(items []models.FeedItem) models.PostFormat
	Compose(ctx context.Context, items []models.FeedItem, format models.PostFormat) (string, models.PostFormat, error)
	ComposeFromIdea(ctx context.Context, idea *models.GrowthPlanIdea) (string, error)
}

// Publisher posts to LinkedIn. A failed publish reports ok=false and
// never an error value, matching the client contract.
type Publisher interface {
	CreatePost(ctx context.Context, text string) (string, bool)
}

// GrowthSource supplies an optional externally planned post idea.
type GrowthSource interface {
	Pick() *models.GrowthPlanIdea
}

// Notifier announces run outcomes.
type Notifier interface {
	Success(ctx context.Context, postID, format, title string)
	Failure(ctx context.Context, reason string)
}

// Options are the orchestration knobs the runner needs beyond its
// collaborators.
type Options struct {
	FeedURLs          []string
	FingerprintTokens int
	DuplicateWindow   time.Duration
	TrackMetrics      bool
}

// Runner executes one complete content cycle: load state, check the
// governor, pick content, compose, publish, persist, notify. State is
// read once at the start and written once after the attempt.
type Runner struct {
	opts     Options
	store    *state.Store
	governor *state.Governor
	fetcher  Fetcher
	ranker   Ranker
	composer Composer
	pub      Publisher
	growth   GrowthSource
	notifier Notifier
	logger   *logrus.Logger

	now func() time.Time
}

func NewRunner(
	opts Options,
	store *state.Store,
	governor *state.Governor,
	fetcher Fetcher,
	ranker Ranker,
	composer Composer,
	pub Publisher,
	growth GrowthSource,
	notifier Notifier,
	logger *logrus.Logger,
) *Runner {
	return &Runner{
		opts:     opts,
		store:    store,
		governor: governor,
		fetcher:  fetcher,
		ranker:   ranker,
		composer: composer,
		pub:      pub,
		growth:   growth,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Result summarizes one cycle.
type Result struct {
	Published bool
	Skipped   bool
	Reason    string
	PostID    string
	Format    string
	Title     string
	PostText  string
}

// Run performs one cycle. Only configuration problems surface as
// errors; a denied, empty, or failed cycle is reported in the Result.
func (r *Runner) Run(ctx context.Context) Result {
	now := r.now().UTC()
	st := r.store.LoadState()
	metrics := r.store.LoadMetrics()

	if allowed, reason := r.governor.MayPostNow(st, metrics, now); !allowed {
		r.logger.WithField("reason", reason).Info("Posting not allowed right now")
		return Result{Skipped: true, Reason: reason}
	}

	text, format, title, link, source, ok := r.pickContent(ctx, st, now)
	if !ok {
		r.logger.Info("No content available this cycle")
		return Result{Skipped: true, Reason: "no candidate content"}
	}

	postID, published := r.pub.CreatePost(ctx, text)
	fingerprint := state.Fingerprint(title, r.opts.FingerprintTokens)

	if published {
		r.governor.RecordSuccess(st, metrics, link, fingerprint, postID, format, source, now)
	} else {
		r.governor.RecordFailure(st, metrics, "publish failed", now)
	}
	st.PruneTopics(r.opts.DuplicateWindow, now)
	r.persist(st, metrics)

	if published {
		r.logger.WithFields(logrus.Fields{
			"post_id": postID,
			"format":  format,
		}).Info("Cycle complete")
		r.notifier.Success(ctx, postID, format, title)
		return Result{Published: true, PostID: postID, Format: format, Title: title, PostText: text}
	}

	r.notifier.Failure(ctx, "publish failed: "+title)
	return Result{Reason: "publish failed", Format: format, Title: title}
}

// pickContent prefers a growth plan idea, then falls back to ranked
// feed items.
func (r *Runner) pickContent(ctx context.Context, st *state.PostedState, now time.Time) (text, format, title, link, source string, ok bool) {
	if r.growth != nil {
		if idea := r.growth.Pick(); idea != nil {
			composed, err := r.composer.ComposeFromIdea(ctx, idea)
			if err == nil {
				return composed, growthPlanSource, idea.Title, "", growthPlanSource, true
			}
			r.logger.WithError(err).Warn("Growth plan post failed, falling back to feeds")
		}
	}

	items := r.fetcher.FetchAll(ctx, r.opts.FeedURLs)
	if len(items) == 0 {
		return "", "", "", "", "", false
	}

	ranked := r.ranker.Rank(items, st, now)
	if len(ranked) == 0 {
		return "", "", "", "", "", false
	}

	chosen := r.composer.ChooseFormat(ranked)
	composed, used, err := r.composer.Compose(ctx, ranked, chosen)
	if err != nil {
		r.logger.WithError(err).Warn("Compose failed")
		return "", "", "", "", "", false
	}

	top := ranked[0]
	return composed, used.String(), top.Title, top.Link, top.Source, true
}

func (r *Runner) persist(st *state.PostedState, metrics *state.Metrics) {
	if err := r.store.SaveState(st); err != nil {
		r.logger.WithError(err).Error("Failed to save state")
	}
	if !r.opts.TrackMetrics {
		return
	}
	if err := r.store.SaveMetrics(metrics); err != nil {
		r.logger.WithError(err).Error("Failed to save metrics")
	}
}

// Describe renders a one-line human summary of a result for logs and
// the CLI.
func (res Result) Describe() string {
	switch {
	case res.Published:
		return fmt.Sprintf("published %s post %s (%s)", res.Format, res.PostID, res.Title)
	case res.Skipped:
		return "skipped: " + res.Reason
	default:
		return "failed: " + res.Reason
	}
}

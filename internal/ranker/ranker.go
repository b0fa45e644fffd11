package ranker

import (
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ajayverse/devpulse/internal/models"
	"github.com/ajayverse/devpulse/internal/state"
)

const shortlistSize = 30

// engineeringDomains is a small allow-list of hosts that reliably
// publish substantive engineering content; a match earns a bonus
// point.
var engineeringDomains = []string{
	"kubernetes.io",
	"cncf.io",
	"aws.amazon.com",
	"azure.microsoft.com",
	"cloud.google.com",
	"hashicorp.com",
	"gitlab.com",
	"github.blog",
	"martinfowler.com",
	"cloudflare.com",
	"grafana.com",
	"prometheus.io",
	"docker.com",
}

// Options holds the filter and scoring parameters.
type Options struct {
	KeywordsInclude   []string
	KeywordsExclude   []string
	MinAge            time.Duration
	MaxAge            time.Duration
	DuplicateWindow   time.Duration
	FingerprintTokens int
	MaxItems          int
}

// Ranker filters and orders feed items against the posting history.
type Ranker struct {
	opts   Options
	logger *logrus.Logger
	rng    *rand.Rand
}

// New creates a ranker. The random source only breaks score ties, so
// a fixed seed in tests makes ordering deterministic.
func New(opts Options, logger *logrus.Logger) *Ranker {
	if opts.MaxItems <= 0 {
		opts.MaxItems = 6
	}
	return &Ranker{
		opts:   opts,
		logger: logger,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Rank produces the ordered candidate list. If novelty filtering
// leaves nothing, it re-ranks ignoring the posting history and
// returns the single best item so a run never comes up empty-handed.
func (r *Ranker) Rank(items []models.FeedItem, st *state.PostedState, now time.Time) []models.FeedItem {
	ranked := r.rank(items, st, now, true)
	if len(ranked) > 0 {
		return ranked
	}

	r.logger.Info("No novel candidates, re-ranking without history")
	ranked = r.rank(items, st, now, false)
	if len(ranked) > 1 {
		ranked = ranked[:1]
	}
	return ranked
}

func (r *Ranker) rank(items []models.FeedItem, st *state.PostedState, now time.Time, novelty bool) []models.FeedItem {
	var candidates []models.FeedItem
	for _, item := range items {
		if !item.Valid() {
			continue
		}
		if novelty && r.alreadyCovered(item, st, now) {
			continue
		}
		if r.excluded(item) {
			continue
		}
		if !r.withinAgeWindow(item, now) {
			continue
		}
		item.Score = r.score(item)
		candidates = append(candidates, item)
	}

	sortByScore(candidates)
	if len(candidates) > shortlistSize {
		candidates = candidates[:shortlistSize]
	}

	// Shuffle then re-sort so ties land in a different order each
	// run while higher scores still win.
	r.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	sortByScore(candidates)

	if len(candidates) > r.opts.MaxItems {
		candidates = candidates[:r.opts.MaxItems]
	}
	return candidates
}

func (r *Ranker) alreadyCovered(item models.FeedItem, st *state.PostedState, now time.Time) bool {
	if st == nil {
		return false
	}
	if st.HasLink(item.Link) {
		return true
	}
	fp := state.Fingerprint(item.Title, r.opts.FingerprintTokens)
	return fp != "" && st.HasTopic(fp, r.opts.DuplicateWindow, now)
}

func (r *Ranker) excluded(item models.FeedItem) bool {
	text := strings.ToLower(item.Text())
	for _, kw := range r.opts.KeywordsExclude {
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func (r *Ranker) withinAgeWindow(item models.FeedItem, now time.Time) bool {
	if item.Published == nil {
		return true
	}
	age := now.Sub(*item.Published)
	if age < r.opts.MinAge {
		return false
	}
	if r.opts.MaxAge > 0 && age > r.opts.MaxAge {
		return false
	}
	return true
}

func (r *Ranker) score(item models.FeedItem) int {
	text := strings.ToLower(item.Text())
	score := 0
	for _, kw := range r.opts.KeywordsInclude {
		if kw != "" && strings.Contains(text, kw) {
			score += 3
		}
	}
	if len(item.Summary) >= 120 {
		score += 2
		if len(item.Summary) >= 300 {
			score++
		}
	}
	for _, domain := range engineeringDomains {
		if item.Source == domain || strings.HasSuffix(item.Source, "."+domain) {
			score++
			break
		}
	}
	return score
}

func sortByScore(items []models.FeedItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
}

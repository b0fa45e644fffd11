package pipeline

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajayverse/devpulse/internal/models"
	"github.com/ajayverse/devpulse/internal/state"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func testStore(t *testing.T) *state.Store {
	t.Helper()
	dir := t.TempDir()
	return state.NewStore(filepath.Join(dir, "state.json"), filepath.Join(dir, "metrics.json"), testLogger())
}

type fakeFetcher struct {
	items  []models.FeedItem
	called bool
}

func (f *fakeFetcher) FetchAll(_ context.Context, _ []string) []models.FeedItem {
	f.called = true
	return f.items
}

type fakeRanker struct{}

func (fakeRanker) Rank(items []models.FeedItem, _ *state.PostedState, _ time.Time) []models.FeedItem {
	return items
}

type fakeComposer struct {
	text    string
	ideaErr error
}

func (fakeComposer) ChooseFormat(_ []models.FeedItem) models.PostFormat {
	return models.FormatDigest
}

func (f fakeComposer) Compose(_ context.Context, _ []models.FeedItem, format models.PostFormat) (string, models.PostFormat, error) {
	return f.text, format, nil
}

func (f fakeComposer) ComposeFromIdea(_ context.Context, idea *models.GrowthPlanIdea) (string, error) {
	if f.ideaErr != nil {
		return "", f.ideaErr
	}
	return "idea post: " + idea.Title, nil
}

type fakePublisher struct {
	id    string
	ok    bool
	texts []string
}

func (p *fakePublisher) CreatePost(_ context.Context, text string) (string, bool) {
	p.texts = append(p.texts, text)
	return p.id, p.ok
}

type fakeGrowth struct {
	idea *models.GrowthPlanIdea
}

func (g fakeGrowth) Pick() *models.GrowthPlanIdea { return g.idea }

type fakeNotifier struct {
	successes []string
	failures  []string
}

func (n *fakeNotifier) Success(_ context.Context, postID, _, _ string) {
	n.successes = append(n.successes, postID)
}

func (n *fakeNotifier) Failure(_ context.Context, reason string) {
	n.failures = append(n.failures, reason)
}

func newTestRunner(t *testing.T, store *state.Store, fetcher Fetcher, comp Composer, pub Publisher, growth GrowthSource, notifier Notifier) *Runner {
	t.Helper()
	return NewRunner(
		Options{
			FeedURLs:          []string{"https://example.com/feed"},
			FingerprintTokens: 6,
			DuplicateWindow:   7 * 24 * time.Hour,
			TrackMetrics:      true,
		},
		store,
		&state.Governor{MaxPostsPerDay: 3, MinInterval: 4 * time.Hour, ErrorCooldown: 30 * time.Minute},
		fetcher,
		fakeRanker{},
		comp,
		pub,
		growth,
		notifier,
		testLogger(),
	)
}

func feedItems() []models.FeedItem {
	now := time.Now().Add(-2 * time.Hour)
	return []models.FeedItem{
		{Title: "Kubernetes 1.31 released", Link: "https://example.com/k8s", Source: "kubernetes.io", Published: &now},
	}
}

func TestRunPublishesFromFeeds(t *testing.T) {
	store := testStore(t)
	pub := &fakePublisher{id: "urn:li:share:1", ok: true}
	notifier := &fakeNotifier{}
	r := newTestRunner(t, store, &fakeFetcher{items: feedItems()}, fakeComposer{text: "post body"}, pub, fakeGrowth{}, notifier)

	res := r.Run(context.Background())

	require.True(t, res.Published)
	assert.Equal(t, "urn:li:share:1", res.PostID)
	assert.Equal(t, "digest", res.Format)
	assert.Equal(t, []string{"post body"}, pub.texts)
	assert.Equal(t, []string{"urn:li:share:1"}, notifier.successes)

	st := store.LoadState()
	assert.True(t, st.HasLink("https://example.com/k8s"))
	assert.Equal(t, "urn:li:share:1", st.LastPostID)
	m := store.LoadMetrics()
	assert.Equal(t, 1, m.TotalPosts)
	assert.Equal(t, 1, m.PostsToday)
	assert.Equal(t, 1, m.SourcesUsed["kubernetes.io"])
}

func TestRunPrefersGrowthPlanIdea(t *testing.T) {
	store := testStore(t)
	fetcher := &fakeFetcher{items: feedItems()}
	pub := &fakePublisher{id: "urn:li:share:2", ok: true}
	idea := &models.GrowthPlanIdea{Title: "Platform Engineering ROI"}
	r := newTestRunner(t, store, fetcher, fakeComposer{text: "feed post"}, pub, fakeGrowth{idea: idea}, &fakeNotifier{})

	res := r.Run(context.Background())

	require.True(t, res.Published)
	assert.Equal(t, "growth_plan", res.Format)
	assert.Equal(t, "idea post: Platform Engineering ROI", pub.texts[0])
	assert.False(t, fetcher.called, "feeds should not be fetched when the plan supplies content")

	st := store.LoadState()
	assert.Empty(t, st.PostedLinks)
	assert.True(t, st.HasTopic(state.Fingerprint("Platform Engineering ROI", 6), 7*24*time.Hour, time.Now().UTC()))
}

func TestRunFallsBackToFeedsWhenIdeaFails(t *testing.T) {
	store := testStore(t)
	pub := &fakePublisher{id: "urn:li:share:3", ok: true}
	idea := &models.GrowthPlanIdea{Title: "Broken idea"}
	comp := fakeComposer{text: "feed post", ideaErr: assert.AnError}
	r := newTestRunner(t, store, &fakeFetcher{items: feedItems()}, comp, pub, fakeGrowth{idea: idea}, &fakeNotifier{})

	res := r.Run(context.Background())
	require.True(t, res.Published)
	assert.Equal(t, "feed post", pub.texts[0])
}

func TestRunDeniedByGovernor(t *testing.T) {
	store := testStore(t)
	st := state.NewPostedState()
	now := time.Now().UTC()
	st.AddPost("https://example.com/old", "fp", "id", "digest", now)
	require.NoError(t, store.SaveState(st))

	pub := &fakePublisher{id: "x", ok: true}
	r := newTestRunner(t, store, &fakeFetcher{items: feedItems()}, fakeComposer{text: "body"}, pub, fakeGrowth{}, &fakeNotifier{})

	res := r.Run(context.Background())
	assert.True(t, res.Skipped)
	assert.Equal(t, state.ReasonTooSoon, res.Reason)
	assert.Empty(t, pub.texts)
}

func TestRunNoCandidates(t *testing.T) {
	store := testStore(t)
	pub := &fakePublisher{id: "x", ok: true}
	r := newTestRunner(t, store, &fakeFetcher{}, fakeComposer{text: "body"}, pub, fakeGrowth{}, &fakeNotifier{})

	res := r.Run(context.Background())
	assert.True(t, res.Skipped)
	assert.Equal(t, "no candidate content", res.Reason)

	// A no-op cycle must not start an error cooldown.
	st := store.LoadState()
	assert.Nil(t, st.LastErrorAt)
}

func TestRunPublishFailureRecordsError(t *testing.T) {
	store := testStore(t)
	pub := &fakePublisher{ok: false}
	notifier := &fakeNotifier{}
	r := newTestRunner(t, store, &fakeFetcher{items: feedItems()}, fakeComposer{text: "body"}, pub, fakeGrowth{}, notifier)

	res := r.Run(context.Background())

	assert.False(t, res.Published)
	assert.False(t, res.Skipped)
	require.Len(t, notifier.failures, 1)

	st := store.LoadState()
	require.NotNil(t, st.LastErrorAt)
	assert.False(t, st.HasLink("https://example.com/k8s"))
	m := store.LoadMetrics()
	assert.Equal(t, 0, m.TotalPosts)
	require.Len(t, m.Errors, 1)
}

func TestResultDescribe(t *testing.T) {
	assert.Contains(t, Result{Published: true, Format: "digest", PostID: "id", Title: "t"}.Describe(), "published")
	assert.Contains(t, Result{Skipped: true, Reason: "daily limit reached"}.Describe(), "skipped")
	assert.Contains(t, Result{Reason: "publish failed"}.Describe(), "failed")
}

package ranker

import (
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

func testOptions() Options {
	return Options{
		KeywordsInclude:   []string{"kubernetes", "devops", "terraform", "security"},
		KeywordsExclude:   []string{"sponsored", "webinar"},
		MaxAge:            72 * time.Hour,
		DuplicateWindow:   7 * 24 * time.Hour,
		FingerprintTokens: 6,
		MaxItems:          6,
	}
}

func ts(ago time.Duration) *time.Time {
	t := time.Now().Add(-ago)
	return &t
}

func TestRankScoresKeywordMatch(t *testing.T) {
	r := New(testOptions(), testLogger())
	items := []models.FeedItem{{
		Title:     "Kubernetes 1.30 released",
		Link:      "https://example.com/L1",
		Summary:   "The release brings a number of improvements across the board for cluster operators and platform teams everywhere.",
		Source:    "kubernetes.io",
		Published: ts(2 * time.Hour),
	}}

	out := r.Rank(items, state.NewPostedState(), time.Now())
	require.Len(t, out, 1)
	assert.Equal(t, "https://example.com/L1", out[0].Link)
	// "kubernetes" keyword (+3) and engineering domain (+1).
	assert.GreaterOrEqual(t, out[0].Score, 4)
}

func TestRankExcludesPostedLinks(t *testing.T) {
	r := New(testOptions(), testLogger())
	st := state.NewPostedState()
	st.AddPost("https://example.com/L1", "", "id", "digest", time.Now())

	items := []models.FeedItem{
		{Title: "Kubernetes 1.30 released", Link: "https://example.com/L1", Summary: "devops release notes", Source: "kubernetes.io", Published: ts(time.Hour)},
		{Title: "Terraform tips for teams", Link: "https://example.com/L2", Summary: "terraform workflow tips", Source: "hashicorp.com", Published: ts(time.Hour)},
	}

	out := r.Rank(items, st, time.Now())
	require.Len(t, out, 1)
	assert.Equal(t, "https://example.com/L2", out[0].Link)
}

func TestRankFallsBackWithoutNovelty(t *testing.T) {
	r := New(testOptions(), testLogger())
	st := state.NewPostedState()
	st.AddPost("https://example.com/L1", "", "id", "digest", time.Now())

	items := []models.FeedItem{{
		Title:     "Kubernetes 1.30 released",
		Link:      "https://example.com/L1",
		Summary:   "devops release notes",
		Source:    "kubernetes.io",
		Published: ts(time.Hour),
	}}

	out := r.Rank(items, st, time.Now())
	require.Len(t, out, 1)
	assert.Equal(t, "https://example.com/L1", out[0].Link)
}

func TestRankExcludesTopicFingerprintInWindow(t *testing.T) {
	opts := testOptions()
	r := New(opts, testLogger())
	st := state.NewPostedState()

	fp := state.Fingerprint("Kubernetes 1.30 released today", opts.FingerprintTokens)
	st.TopicHashes[fp] = time.Now().Add(-24 * time.Hour)

	items := []models.FeedItem{
		// Same first tokens, different link: fuzzy dedup applies.
		{Title: "Kubernetes 1.30 released today with fixes", Link: "https://other.com/mirror", Summary: "kubernetes news", Source: "other.com", Published: ts(time.Hour)},
		{Title: "Terraform security scanning", Link: "https://example.com/L2", Summary: "terraform security", Source: "hashicorp.com", Published: ts(time.Hour)},
	}

	out := r.Rank(items, st, time.Now())
	require.Len(t, out, 1)
	assert.Equal(t, "https://example.com/L2", out[0].Link)
}

func TestRankExcludeKeywordsAndAgeWindow(t *testing.T) {
	r := New(testOptions(), testLogger())

	items := []models.FeedItem{
		{Title: "Sponsored: best devops tools", Link: "https://example.com/ad", Summary: "sponsored content", Source: "example.com", Published: ts(time.Hour)},
		{Title: "Old kubernetes story", Link: "https://example.com/old", Summary: "kubernetes archive", Source: "example.com", Published: ts(100 * time.Hour)},
		{Title: "Undated devops guide", Link: "https://example.com/undated", Summary: "devops practices guide"},
	}

	out := r.Rank(items, state.NewPostedState(), time.Now())
	require.Len(t, out, 1)
	assert.Equal(t, "https://example.com/undated", out[0].Link, "items without a timestamp are not age-filtered")
}

func TestRankSummaryLengthBonuses(t *testing.T) {
	r := New(testOptions(), testLogger())

	short := models.FeedItem{Title: "A devops note", Summary: "short"}
	medium := models.FeedItem{Title: "A devops note", Summary: string(make([]byte, 150))}
	long := models.FeedItem{Title: "A devops note", Summary: string(make([]byte, 350))}

	assert.Equal(t, r.score(short)+2, r.score(medium))
	assert.Equal(t, r.score(short)+3, r.score(long))
}

func TestRankCapsOutputAndPreservesScoreOrder(t *testing.T) {
	r := New(testOptions(), testLogger())

	var items []models.FeedItem
	for i := 0; i < 40; i++ {
		item := models.FeedItem{
			Title:     "Plain story",
			Link:      "https://example.com/" + string(rune('a'+i%26)) + string(rune('a'+i/26)),
			Summary:   "a modest summary of the story for ranking",
			Source:    "example.com",
			Published: ts(time.Hour),
		}
		if i == 7 {
			item.Title = "Kubernetes devops terraform security deep dive"
		}
		items = append(items, item)
	}

	out := r.Rank(items, state.NewPostedState(), time.Now())
	require.Len(t, out, 6)
	assert.Contains(t, out[0].Title, "Kubernetes", "highest scored item must stay first after tie shuffling")
	for i := 1; i < len(out); i++ {
		assert.GreaterOrEqual(t, out[i-1].Score, out[i].Score)
	}
}

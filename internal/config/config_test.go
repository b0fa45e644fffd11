package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load(nil)

	assert.False(t, cfg.DryRun)
	assert.Equal(t, 8, cfg.MaxItems)
	assert.Equal(t, 3, cfg.MaxPostsPerDay)
	assert.Equal(t, 4*time.Hour, cfg.MinPostInterval)
	assert.Equal(t, 30*time.Minute, cfg.ErrorCooldown)
	assert.Equal(t, 7*24*time.Hour, cfg.DuplicateWindow)
	assert.Equal(t, 1300, cfg.MaxPostChars)
	assert.Equal(t, "posted_links.json", cfg.StateFile)
	assert.Equal(t, DefaultFeedURLs, cfg.FeedURLs)
	assert.Contains(t, cfg.KeywordsInclude, "kubernetes")
	assert.Contains(t, cfg.KeywordsExclude, "sponsored")
}

func TestLoadClampsOutOfRangeValues(t *testing.T) {
	t.Setenv("MAX_ITEMS", "200")
	t.Setenv("MAX_POSTS_PER_DAY", "0")
	t.Setenv("COOLDOWN_ON_ERROR_MINUTES", "1")
	t.Setenv("GROWTH_PLAN_PROBABILITY", "3.5")

	cfg := Load(nil)

	assert.Equal(t, 20, cfg.MaxItems)
	assert.Equal(t, 1, cfg.MaxPostsPerDay)
	assert.Equal(t, 5*time.Minute, cfg.ErrorCooldown)
	assert.Equal(t, 1.0, cfg.GrowthPlanChance)
}

func TestLoadFallsBackOnGarbage(t *testing.T) {
	t.Setenv("MAX_ITEMS", "plenty")
	t.Setenv("DRY_RUN", "sure")
	t.Setenv("GROWTH_PLAN_PROBABILITY", "high")

	cfg := Load(nil)

	assert.Equal(t, 8, cfg.MaxItems)
	assert.False(t, cfg.DryRun)
	assert.Equal(t, 0.4, cfg.GrowthPlanChance)
}

func TestLoadFeedOverrides(t *testing.T) {
	t.Setenv("NEWS_SOURCES", "https://a.example/feed, https://b.example/rss")
	t.Setenv("EXTRA_NEWS_SOURCES", "https://c.example/atom")

	cfg := Load(nil)

	assert.Equal(t, []string{
		"https://a.example/feed",
		"https://b.example/rss",
		"https://c.example/atom",
	}, cfg.FeedURLs)
}

func TestLoadAgeWindowOrdering(t *testing.T) {
	t.Setenv("MIN_ARTICLE_AGE_HOURS", "48")
	t.Setenv("MAX_ARTICLE_AGE_HOURS", "12")

	cfg := Load(nil)

	assert.GreaterOrEqual(t, cfg.MaxArticleAge, cfg.MinArticleAge)
}

func TestValidate(t *testing.T) {
	t.Setenv("LINKEDIN_ACCESS_TOKEN", "")

	cfg := Load(nil)
	require.ErrorIs(t, cfg.Validate(), ErrMissingCredential)

	t.Setenv("DRY_RUN", "true")
	cfg = Load(nil)
	assert.NoError(t, cfg.Validate())
	assert.True(t, cfg.RateLimitsBypassed())
}

package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config is the immutable application configuration, built once at
// startup and passed into each component. Invalid environment values
// fall back to the defaults below instead of failing the run; only a
// missing LinkedIn credential in live mode is a fatal error.
type Config struct {
	// Run mode
	DryRun           bool
	BypassRateLimits bool

	// Credentials
	LinkedInAccessToken string
	LinkedInAuthorURN   string
	LinkedInMemberID    string
	GroqAPIKey          string
	GeminiAPIKey        string
	OpenRouterAPIKey    string

	// Notifications
	SlackWebhookURL   string
	DiscordWebhookURL string
	TelegramBotToken  string
	TelegramChatID    int64
	NotifyOnSuccess   bool
	NotifyOnFailure   bool

	// Feeds
	FeedURLs        []string
	FeedTimeout     time.Duration
	MaxFeedRetries  int
	MaxItemsPerFeed int
	MaxItems        int

	// Filtering
	KeywordsInclude []string
	KeywordsExclude []string
	MinArticleAge   time.Duration
	MaxArticleAge   time.Duration

	// Rate limiting
	MaxPostsPerDay    int
	MinPostInterval   time.Duration
	ErrorCooldown     time.Duration
	DuplicateWindow   time.Duration
	FingerprintTokens int

	// Engagement caps
	MaxCommentsPerRun    int
	MaxConnectionsPerRun int
	MaxLikesPerRun       int
	MaxRepliesPerRun     int
	ConnectionTargets    []string
	ConnectionNote       string

	// Feature toggles
	EnableAIEnhance   bool
	EnableAutoReply   bool
	EnableConnections bool
	EnableLikes       bool
	TrackMetrics      bool
	UseGrowthPlan     bool
	GrowthPlanChance  float64

	// Content
	MaxPostChars     int
	PostFormats      []string
	ForceFormat      string
	MaxHashtags      int
	IncludeSubscribe bool
	NewsletterURL    string
	PlaybookURL      string

	// Files
	StateFile      string
	MetricsFile    string
	GrowthPlanFile string
}

// ErrMissingCredential is returned by Validate when a live run lacks
// the LinkedIn access token.
var ErrMissingCredential = errors.New("LINKEDIN_ACCESS_TOKEN is required for live runs")

// DefaultFeedURLs is the curated DevOps source list, extendable via
// EXTRA_NEWS_SOURCES or replaceable via NEWS_SOURCES.
var DefaultFeedURLs = []string{
	"https://kubernetes.io/feed.xml",
	"https://www.cncf.io/feed/",
	"https://aws.amazon.com/blogs/devops/feed/",
	"https://azure.microsoft.com/en-us/blog/feed/",
	"https://www.hashicorp.com/blog/feed.xml",
	"https://about.gitlab.com/atom.xml",
	"https://martinfowler.com/feed.atom",
	"https://www.docker.com/blog/feed/",
	"https://github.blog/feed/",
	"https://blog.cloudflare.com/rss/",
	"https://www.infoq.com/rss/rss.xml",
	"https://devclass.com/feed/",
	"https://thenewstack.io/feed/",
	"https://grafana.com/blog/index.xml",
	"https://prometheus.io/blog/index.xml",
}

const defaultKeywordsInclude = "devops,devsecops,sre,kubernetes,cloud,platform,terraform,helm,gitops,cicd," +
	"observability,incident,reliability,aws,gcp,azure,docker,containers,monitoring,security," +
	"vulnerability,iam,rbac,policy,compliance,shift-left,sast,dast,sbom,supply-chain"

const defaultKeywordsExclude = "sponsored,advertisement,marketing,webinar,press release"

// Load builds the configuration from the process environment. A local
// .env file is applied first when present.
func Load(logger *logrus.Logger) *Config {
	loadEnvFiles(logger)

	cfg := &Config{
		DryRun:           getBool("DRY_RUN", false),
		BypassRateLimits: getBool("BYPASS_RATE_LIMITS", false),

		LinkedInAccessToken: os.Getenv("LINKEDIN_ACCESS_TOKEN"),
		LinkedInAuthorURN:   os.Getenv("LINKEDIN_AUTHOR_URN"),
		LinkedInMemberID:    os.Getenv("LINKEDIN_MEMBER_ID"),
		GroqAPIKey:          os.Getenv("GROQ_API_KEY"),
		GeminiAPIKey:        os.Getenv("GEMINI_API_KEY"),
		OpenRouterAPIKey:    os.Getenv("OPENROUTER_API_KEY"),

		SlackWebhookURL:   os.Getenv("SLACK_WEBHOOK_URL"),
		DiscordWebhookURL: os.Getenv("DISCORD_WEBHOOK_URL"),
		TelegramBotToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:    getInt64("TELEGRAM_CHAT_ID", 0),
		NotifyOnSuccess:   getBool("NOTIFY_ON_SUCCESS", false),
		NotifyOnFailure:   getBool("NOTIFY_ON_FAILURE", true),

		FeedURLs:        feedURLs(),
		FeedTimeout:     time.Duration(getIntClamped("FEED_TIMEOUT_SECONDS", 15, 1, 120)) * time.Second,
		MaxFeedRetries:  getIntClamped("MAX_FEED_RETRIES", 2, 0, 5),
		MaxItemsPerFeed: getIntClamped("MAX_FEED_LIMIT", 30, 1, 100),
		MaxItems:        getIntClamped("MAX_ITEMS", 8, 1, 20),

		KeywordsInclude: keywordList("KEYWORDS_INCLUDE", defaultKeywordsInclude),
		KeywordsExclude: keywordList("KEYWORDS_EXCLUDE", defaultKeywordsExclude),
		MinArticleAge:   time.Duration(getIntClamped("MIN_ARTICLE_AGE_HOURS", 0, 0, 168)) * time.Hour,
		MaxArticleAge:   time.Duration(getIntClamped("MAX_ARTICLE_AGE_HOURS", 72, 1, 720)) * time.Hour,

		MaxPostsPerDay:    getIntClamped("MAX_POSTS_PER_DAY", 3, 1, 24),
		MinPostInterval:   time.Duration(getIntClamped("MIN_POST_INTERVAL_HOURS", 4, 0, 48)) * time.Hour,
		ErrorCooldown:     time.Duration(getIntClamped("COOLDOWN_ON_ERROR_MINUTES", 30, 5, 1440)) * time.Minute,
		DuplicateWindow:   time.Duration(getIntClamped("DUPLICATE_WINDOW_DAYS", 7, 1, 90)) * 24 * time.Hour,
		FingerprintTokens: getIntClamped("TOPIC_FINGERPRINT_TOKENS", 6, 2, 12),

		MaxCommentsPerRun:    getIntClamped("MAX_COMMENTS_PER_RUN", 15, 0, 50),
		MaxConnectionsPerRun: getIntClamped("MAX_CONNECTIONS_PER_RUN", 10, 0, 30),
		MaxLikesPerRun:       getIntClamped("MAX_LIKES_PER_RUN", 25, 0, 100),
		MaxRepliesPerRun:     getIntClamped("MAX_REPLIES_PER_RUN", 10, 0, 30),
		ConnectionTargets:    splitList(os.Getenv("CONNECTION_TARGETS")),
		ConnectionNote: getString("CONNECTION_NOTE",
			"Hi! I share practical DevOps and platform engineering content. Would love to connect."),

		EnableAIEnhance:   getBool("ENABLE_AI_ENHANCE", true),
		EnableAutoReply:   getBool("ENABLE_AUTO_REPLY_COMMENTS", true),
		EnableConnections: getBool("ENABLE_HR_CONNECTIONS", false),
		EnableLikes:       getBool("ENABLE_STRATEGIC_LIKES", false),
		TrackMetrics:      getBool("TRACK_METRICS", true),
		UseGrowthPlan:     getBool("USE_GROWTH_PLAN", true),
		GrowthPlanChance:  getFloatClamped("GROWTH_PLAN_PROBABILITY", 0.4, 0, 1),

		MaxPostChars:     getIntClamped("MAX_POST_CHARS", 1300, 280, 3000),
		PostFormats:      keywordList("POST_FORMATS", "digest,deep_dive,quick_tip,case_study,hot_take,lessons"),
		ForceFormat:      getString("FORCE_FORMAT", "auto"),
		MaxHashtags:      getIntClamped("MAX_HASHTAGS", 5, 1, 20),
		IncludeSubscribe: getBool("INCLUDE_SUBSCRIPTION", true),
		NewsletterURL:    getString("NEWSLETTER_URL", ""),
		PlaybookURL:      getString("PLAYBOOK_URL", ""),

		StateFile:      getString("STATE_FILE", "posted_links.json"),
		MetricsFile:    getString("METRICS_FILE", "metrics.json"),
		GrowthPlanFile: getString("GROWTH_PLAN_FILE", "weekly_growth_plan.json"),
	}

	if cfg.MaxArticleAge < cfg.MinArticleAge {
		cfg.MaxArticleAge = cfg.MinArticleAge
	}

	return cfg
}

// Validate checks the settings that cannot be defaulted away.
func (c *Config) Validate() error {
	if !c.DryRun && c.LinkedInAccessToken == "" {
		return ErrMissingCredential
	}
	return nil
}

// RateLimitsBypassed reports whether the governor should wave this run
// through. Dry runs never publish, so they always bypass.
func (c *Config) RateLimitsBypassed() bool {
	return c.DryRun || c.BypassRateLimits
}

func loadEnvFiles(logger *logrus.Logger) {
	for _, file := range []string{".env", ".env.local"} {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Overload(file); err != nil && logger != nil {
			logger.WithError(err).Warnf("Failed to load %s", file)
		}
	}
}

func feedURLs() []string {
	urls := append([]string(nil), DefaultFeedURLs...)
	if v := os.Getenv("NEWS_SOURCES"); v != "" {
		urls = splitList(v)
	}
	urls = append(urls, splitList(os.Getenv("EXTRA_NEWS_SOURCES"))...)
	return urls
}

func keywordList(key, fallback string) []string {
	v := os.Getenv(key)
	if v == "" {
		v = fallback
	}
	parts := splitList(v)
	for i, p := range parts {
		parts[i] = strings.ToLower(p)
	}
	return parts
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(strings.ToLower(v)); err == nil {
			return parsed
		}
	}
	return fallback
}

func getInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

// getIntClamped parses an int and clamps it into [min, max]; anything
// unparsable yields the fallback.
func getIntClamped(key string, fallback, min, max int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	if parsed < min {
		return min
	}
	if parsed > max {
		return max
	}
	return parsed
}

func getFloatClamped(key string, fallback, min, max float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return fallback
	}
	if parsed < min {
		return min
	}
	if parsed > max {
		return max
	}
	return parsed
}

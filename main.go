package main

import (
	"context"
	"fmt"
	"math/rand"
	"os/signal"
	"syscall"
	"time"

	"github.com/ajayverse/devpulse/internal/ai"
	"github.com/ajayverse/devpulse/internal/composer"
	"github.com/ajayverse/devpulse/internal/config"
	"github.com/ajayverse/devpulse/internal/feeds"
	"github.com/ajayverse/devpulse/internal/growth"
	"github.com/ajayverse/devpulse/internal/linkedin"
	"github.com/ajayverse/devpulse/internal/logging"
	"github.com/ajayverse/devpulse/internal/models"
	"github.com/ajayverse/devpulse/internal/notify"
	"github.com/ajayverse/devpulse/internal/pipeline"
	"github.com/ajayverse/devpulse/internal/ranker"
	"github.com/ajayverse/devpulse/internal/state"
)

func main() {
	logger := logging.New()
	cfg := config.Load(logger)
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("Configuration error: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.DryRun {
		logger.Info("Running in DRY RUN mode, nothing will be published")
	}

	store := state.NewStore(cfg.StateFile, cfg.MetricsFile, logger)
	governor := &state.Governor{
		Bypass:         cfg.RateLimitsBypassed(),
		MaxPostsPerDay: cfg.MaxPostsPerDay,
		MinInterval:    cfg.MinPostInterval,
		ErrorCooldown:  cfg.ErrorCooldown,
	}

	gateway := ai.NewGateway(logger,
		ai.NewGroq(cfg.GroqAPIKey, ""),
		ai.NewGemini(cfg.GeminiAPIKey, ""),
		ai.NewOpenRouter(cfg.OpenRouterAPIKey, ""),
	)

	fetcher := feeds.NewFetcher(cfg.FeedTimeout, cfg.MaxFeedRetries, cfg.MaxItemsPerFeed, logger)

	rnk := ranker.New(ranker.Options{
		KeywordsInclude:   cfg.KeywordsInclude,
		KeywordsExclude:   cfg.KeywordsExclude,
		MinAge:            cfg.MinArticleAge,
		MaxAge:            cfg.MaxArticleAge,
		DuplicateWindow:   cfg.DuplicateWindow,
		FingerprintTokens: cfg.FingerprintTokens,
		MaxItems:          cfg.MaxItems,
	}, logger)

	comp := composer.New(composer.Options{
		MaxPostChars:     cfg.MaxPostChars,
		MaxHashtags:      cfg.MaxHashtags,
		Formats:          models.ParseFormats(cfg.PostFormats),
		ForceFormat:      cfg.ForceFormat,
		EnableAI:         cfg.EnableAIEnhance,
		IncludeSubscribe: cfg.IncludeSubscribe,
		NewsletterURL:    cfg.NewsletterURL,
		PlaybookURL:      cfg.PlaybookURL,
	}, gateway, logger)

	var clientOpts []linkedin.Option
	if urn := firstNonEmpty(cfg.LinkedInAuthorURN, cfg.LinkedInMemberID); urn != "" {
		clientOpts = append(clientOpts, linkedin.WithAuthorURN(urn))
	}
	client := linkedin.NewClient(cfg.LinkedInAccessToken, cfg.DryRun, logger, clientOpts...)

	planner := growth.NewSelector(growth.Options{
		Enabled:  cfg.UseGrowthPlan,
		PlanFile: cfg.GrowthPlanFile,
		Chance:   cfg.GrowthPlanChance,
	}, rand.New(rand.NewSource(time.Now().UnixNano())), logger)

	notifier := notify.New(notify.Options{
		SlackWebhookURL:   cfg.SlackWebhookURL,
		DiscordWebhookURL: cfg.DiscordWebhookURL,
		TelegramChatID:    cfg.TelegramChatID,
		OnSuccess:         cfg.NotifyOnSuccess,
		OnFailure:         cfg.NotifyOnFailure,
	}, cfg.TelegramBotToken, logger)

	runner := pipeline.NewRunner(pipeline.Options{
		FeedURLs:          cfg.FeedURLs,
		FingerprintTokens: cfg.FingerprintTokens,
		DuplicateWindow:   cfg.DuplicateWindow,
		TrackMetrics:      cfg.TrackMetrics,
	}, store, governor, fetcher, rnk, comp, client, planner, notifier, logger)

	result := runner.Run(ctx)
	fmt.Println(result.Describe())

	engager := pipeline.NewEngager(pipeline.EngageOptions{
		AutoReply:         cfg.EnableAutoReply,
		Likes:             cfg.EnableLikes,
		Connections:       cfg.EnableConnections,
		MaxReplies:        cfg.MaxRepliesPerRun,
		MaxLikes:          cfg.MaxLikesPerRun,
		MaxConnections:    cfg.MaxConnectionsPerRun,
		ConnectionTargets: cfg.ConnectionTargets,
		ConnectionNote:    cfg.ConnectionNote,
	}, store, client, gateway, logger)
	engager.Engage(ctx)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

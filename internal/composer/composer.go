package composer

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ajayverse/devpulse/internal/models"
)

// Gateway is the text-completion capability the composer leans on for
// summaries and value lines. It is best-effort: the composer has a
// deterministic fallback for every call.
type Gateway interface {
	Complete(ctx context.Context, prompt string, task models.TaskType, maxTokens int) (string, bool)
}

// Options configures post synthesis.
type Options struct {
	MaxPostChars     int
	MaxHashtags      int
	Formats          []models.PostFormat
	ForceFormat      string
	EnableAI         bool
	IncludeSubscribe bool
	NewsletterURL    string
	PlaybookURL      string
}

// Composer turns ranked feed items (or an external idea) into one
// finished post. It owns the recently-used footer questions so runs in
// the same process do not repeat themselves.
type Composer struct {
	opts   Options
	gw     Gateway
	rng    *rand.Rand
	logger *logrus.Logger

	usedFooters []string
}

// New creates a composer.
func New(opts Options, gw Gateway, logger *logrus.Logger) *Composer {
	if opts.MaxPostChars <= 0 {
		opts.MaxPostChars = 1300
	}
	if opts.MaxHashtags <= 0 {
		opts.MaxHashtags = 5
	}
	if len(opts.Formats) == 0 {
		opts.Formats = models.DefaultFormats
	}
	return &Composer{
		opts:   opts,
		gw:     gw,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		logger: logger,
	}
}

// ChooseFormat picks the post format for this run. FORCE_FORMAT wins
// when it names a configured format; otherwise single-item candidate
// lists lean toward the single-topic formats.
func (c *Composer) ChooseFormat(items []models.FeedItem) models.PostFormat {
	if c.opts.ForceFormat != "" && c.opts.ForceFormat != "auto" {
		return models.PostFormat(c.opts.ForceFormat)
	}

	pool := c.opts.Formats
	if len(items) <= 1 {
		var single []models.PostFormat
		for _, f := range pool {
			if f != models.FormatDigest && f != models.FormatThread {
				single = append(single, f)
			}
		}
		if len(single) > 0 {
			pool = single
		}
	}
	return pool[c.rng.Intn(len(pool))]
}

// Compose builds a post in the requested format and validates it. On
// validation failure it degrades: requested format, then digest, then
// a minimal quick tip which always passes. The returned format is the
// one that actually produced the post.
func (c *Composer) Compose(ctx context.Context, items []models.FeedItem, format models.PostFormat) (string, models.PostFormat, error) {
	if len(items) == 0 {
		return "", "", fmt.Errorf("no candidate items")
	}

	post := c.build(ctx, items, format)
	if err := Validate(post, c.opts.MaxPostChars); err == nil {
		return post, format, nil
	} else {
		c.logger.WithFields(logrus.Fields{
			"format": format.String(),
			"reason": err.Error(),
		}).Warn("Post failed validation, falling back")
	}

	if format != models.FormatDigest {
		post = c.build(ctx, items, models.FormatDigest)
		if err := Validate(post, c.opts.MaxPostChars); err == nil {
			return post, models.FormatDigest, nil
		}
	}

	post = c.buildMinimalTip()
	if err := Validate(post, c.opts.MaxPostChars); err != nil {
		return "", "", fmt.Errorf("minimal fallback post invalid: %w", err)
	}
	return post, models.FormatQuickTip, nil
}

func (c *Composer) build(ctx context.Context, items []models.FeedItem, format models.PostFormat) string {
	switch format {
	case models.FormatDeepDive:
		return c.buildDeepDive(ctx, items[0])
	case models.FormatQuickTip:
		return c.buildQuickTip(items[0])
	case models.FormatCaseStudy:
		return c.buildCaseStudy(ctx, items[0])
	case models.FormatHotTake:
		return c.buildHotTake(ctx, items[0])
	case models.FormatLessons:
		return c.buildLessons(items[0])
	case models.FormatThread:
		return c.buildThread(ctx, items)
	case models.FormatQuote:
		return c.buildQuote(items[0])
	case models.FormatNewsFlash:
		return c.buildNewsFlash(ctx, items[0])
	default:
		return c.buildDigest(ctx, items)
	}
}

func (c *Composer) pick(options []string) string {
	return options[c.rng.Intn(len(options))]
}

func (c *Composer) hook(format models.PostFormat) string {
	if hooks, ok := formatHooks[format]; ok {
		return c.pick(hooks)
	}
	return c.pick(formatHooks[models.FormatDigest])
}

func (c *Composer) cta(format models.PostFormat) string {
	if ctas, ok := formatCTAs[format]; ok {
		return c.pick(ctas)
	}
	return c.pick(genericCTAs)
}

// footerQuestion returns a question not used recently in this
// process. Once every option has been used the history resets.
func (c *Composer) footerQuestion(topic string) string {
	bucket := detectContext(topic)
	candidates := footerQuestionFallbacks
	if bucket != "default" {
		candidates = contextInsights[bucket].CTAs
	}

	var fresh []string
	for _, q := range candidates {
		if !contains(c.usedFooters, q) {
			fresh = append(fresh, q)
		}
	}
	if len(fresh) == 0 {
		c.usedFooters = nil
		fresh = candidates
	}
	q := c.pick(fresh)
	c.usedFooters = append(c.usedFooters, q)
	return q
}

func (c *Composer) subscriptionBlock() string {
	if !c.opts.IncludeSubscribe || c.opts.NewsletterURL == "" {
		return ""
	}
	block := c.pick(subscriptionMessages) + "\n👉 Subscribe: " + c.opts.NewsletterURL
	if c.opts.PlaybookURL != "" {
		block += "\n📖 Grab the DevOps LinkedIn Playbook: " + c.opts.PlaybookURL
	}
	return block
}

// footer assembles subscription CTA, hashtags, and closing question.
func (c *Composer) footer(format models.PostFormat, topic string) []string {
	lines := []string{""}
	if sub := c.subscriptionBlock(); sub != "" {
		lines = append(lines, sub, "")
	}
	lines = append(lines,
		c.hashtagLine(topic, c.opts.MaxHashtags),
		"",
		"❓ "+c.footerQuestion(topic),
	)
	return lines
}

// summarize produces a short context line for an item, preferring the
// gateway and degrading to the trimmed feed summary.
func (c *Composer) summarize(ctx context.Context, item models.FeedItem) string {
	if c.opts.EnableAI && c.gw != nil {
		if text, ok := c.gw.Complete(ctx, item.Text(), models.TaskSummarization, 120); ok {
			return clip(stripInlineHashtags(StripFirstPerson(text)), 300, false)
		}
	}
	return clip(item.Summary, 220, false)
}

// valueLine produces a one-line impact statement for an item. The
// keyword-bucket fallback keeps output quality stable without network
// access.
func (c *Composer) valueLine(ctx context.Context, title, snippet string) string {
	if c.opts.EnableAI && c.gw != nil {
		prompt := fmt.Sprintf(
			"Write a unique, actionable impact line (max 15 words) for this DevOps/SRE topic. Do NOT use the phrase 'Why it matters'.\nTopic: %s\nContext: %s\nExample: 'Reduces deployment risk and improves recovery time.'\nYour answer:",
			title, clip(snippet, 500, false),
		)
		if text, ok := c.gw.Complete(ctx, prompt, models.TaskGeneration, 50); ok {
			text = strings.Trim(strings.ReplaceAll(text, "\n", " "), `"' `)
			text = strings.TrimPrefix(text, "Why it matters:")
			text = StripFirstPerson(stripInlineHashtags(text))
			if len(text) > 8 {
				return clip(text, 120, false)
			}
		}
	}
	return c.fallbackValueLine(title + " " + snippet)
}

func (c *Composer) fallbackValueLine(text string) string {
	t := strings.ToLower(text)
	switch {
	case containsAny(t, "incident", "outage", "mttr", "pager", "on-call"):
		return c.pick([]string{
			"Reduces incident risk and improves MTTR.",
			"Minimizes downtime and accelerates recovery.",
			"Boosts reliability and on-call confidence.",
		})
	case containsAny(t, "kubernetes", "cluster", "container", "helm", "gitops"):
		return c.pick([]string{
			"Helps you run clusters more reliably and efficiently.",
			"Streamlines container operations for better uptime.",
			"Empowers scalable, resilient infrastructure.",
		})
	case containsAny(t, "cicd", "pipeline", "deployment", "release"):
		return c.pick([]string{
			"Improves delivery speed without sacrificing safety.",
			"Enables faster, safer deployments.",
			"Accelerates release cycles and reduces risk.",
		})
	case containsAny(t, "observability", "monitoring", "tracing", "metrics", "logs"):
		return c.pick([]string{
			"Improves visibility, debugging speed, and reliability.",
			"Makes troubleshooting faster and more effective.",
			"Enhances system transparency and incident response.",
		})
	case containsAny(t, "aws", "gcp", "azure", "cloud"):
		return c.pick([]string{
			"Optimizes cloud reliability and cost.",
			"Drives better cloud performance and savings.",
			"Strengthens multi-cloud resilience and efficiency.",
		})
	case containsAny(t, "security", "vulnerability", "cve", "sast", "dast"):
		return c.pick([]string{
			"Strengthens security posture and reduces risk.",
			"Mitigates vulnerabilities before they impact production.",
			"Elevates your defense against emerging threats.",
		})
	case containsAny(t, "terraform", "iac", "infrastructure", "automation"):
		return c.pick([]string{
			"Improves infrastructure reliability and consistency.",
			"Automates operations for fewer manual errors.",
			"Prevents configuration drift and boosts stability.",
		})
	default:
		return c.pick([]string{
			"Practical signal for building reliable systems.",
			"Empowers teams to deliver with confidence.",
			"Drives operational excellence and learning.",
		})
	}
}

func containsAny(haystack string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

package feeds

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/failsafe-go/failsafe-go"
	"github.com/mmcdole/gofeed"
	"github.com/sirupsen/logrus"

	"github.com/ajayverse/devpulse/internal/httpx"
	"github.com/ajayverse/devpulse/internal/models"
)

const (
	maxTitleLen   = 500
	maxSummaryLen = 2000

	userAgent = "devpulse/1.0 (+https://github.com/ajayverse/devpulse)"

	// defaultCourtesyDelay spaces out consecutive requests to the same
	// host.
	defaultCourtesyDelay = 300 * time.Millisecond

	// maxTotalItems bounds one batch regardless of how many feeds are
	// configured.
	maxTotalItems = 200
)

var (
	tagPattern     = regexp.MustCompile(`<[^>]*>`)
	spacePattern   = regexp.MustCompile(`\s+`)
	controlPattern = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]`)
)

// Fetcher pulls and normalizes RSS/Atom feeds from the configured
// source list.
type Fetcher struct {
	parser        *gofeed.Parser
	client        *http.Client
	executor      failsafe.Executor[*http.Response]
	maxPerFeed    int
	courtesyDelay time.Duration
	logger        *logrus.Logger
}

// NewFetcher creates a fetcher with per-feed timeout and bounded
// retries.
func NewFetcher(timeout time.Duration, maxRetries, maxPerFeed int, logger *logrus.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if maxPerFeed <= 0 {
		maxPerFeed = 30
	}
	return &Fetcher{
		parser: gofeed.NewParser(),
		client: &http.Client{Timeout: timeout},
		executor: httpx.NewExecutor(httpx.ExecutorConfig{
			MaxRetries:  maxRetries,
			BaseDelay:   time.Second,
			MaxDelay:    10 * time.Second,
			ShouldRetry: httpx.ShouldRetry,
		}),
		maxPerFeed:    maxPerFeed,
		courtesyDelay: defaultCourtesyDelay,
		logger:        logger,
	}
}

// SetExecutor overrides the retry executor.
func (f *Fetcher) SetExecutor(executor failsafe.Executor[*http.Response]) {
	if executor != nil {
		f.executor = executor
	}
}

// SetCourtesyDelay overrides the per-host spacing between requests.
// Zero disables it.
func (f *Fetcher) SetCourtesyDelay(d time.Duration) {
	f.courtesyDelay = d
}

// FetchAll fetches every feed URL and returns the combined normalized
// items. A failing feed is logged and skipped; links are unique within
// the returned batch.
func (f *Fetcher) FetchAll(ctx context.Context, feedURLs []string) []models.FeedItem {
	var items []models.FeedItem
	seenLinks := map[string]bool{}
	seenFeeds := map[string]bool{}
	lastHit := map[string]time.Time{}

	for _, raw := range feedURLs {
		if len(items) >= maxTotalItems {
			f.logger.WithField("total", len(items)).Info("Batch item cap reached, skipping remaining feeds")
			break
		}

		feedURL, host, err := validateFeedURL(raw)
		if err != nil {
			f.logger.WithField("url", raw).WithError(err).Warn("Skipping invalid feed URL")
			continue
		}
		if seenFeeds[feedURL] {
			continue
		}
		seenFeeds[feedURL] = true

		if f.courtesyDelay > 0 {
			if wait := f.courtesyDelay - time.Since(lastHit[host]); wait > 0 && !lastHit[host].IsZero() {
				select {
				case <-ctx.Done():
					return items
				case <-time.After(wait):
				}
			}
			lastHit[host] = time.Now()
		}

		feed, err := f.fetchOne(ctx, feedURL)
		if err != nil {
			f.logger.WithField("feed", host).WithError(err).Warn("Feed fetch failed")
			continue
		}

		count := 0
		for _, entry := range feed.Items {
			if count >= f.maxPerFeed || len(items) >= maxTotalItems {
				break
			}
			item, ok := normalizeEntry(entry, host)
			if !ok || seenLinks[item.Link] {
				continue
			}
			seenLinks[item.Link] = true
			items = append(items, item)
			count++
		}

		f.logger.WithFields(logrus.Fields{
			"feed":  host,
			"items": count,
		}).Debug("Fetched feed")
	}

	f.logger.WithField("total", len(items)).Info("Feed ingestion complete")
	return items
}

// fetchOne pulls a single feed through the shared retry executor. A
// retryable status closes its body inside the attempt so the next try
// starts clean.
func (f *Fetcher) fetchOne(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	resp, err := httpx.Execute(ctx, f.executor, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml")

		resp, err := f.client.Do(req)
		if err != nil {
			return nil, err
		}
		if httpx.ShouldRetry(resp, nil) {
			resp.Body.Close()
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return f.parser.Parse(resp.Body)
}

func validateFeedURL(raw string) (feedURL, host string, err error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", "", err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", "", fmt.Errorf("missing host")
	}
	return u.String(), u.Hostname(), nil
}

func normalizeEntry(entry *gofeed.Item, source string) (models.FeedItem, bool) {
	item := models.FeedItem{
		Title:   sanitize(entry.Title, maxTitleLen),
		Link:    canonicalLink(entry.Link),
		Summary: sanitize(firstNonEmpty(entry.Description, entry.Content), maxSummaryLen),
		Source:  source,
	}
	if entry.PublishedParsed != nil {
		item.Published = entry.PublishedParsed
	} else if entry.UpdatedParsed != nil {
		item.Published = entry.UpdatedParsed
	}
	return item, item.Valid()
}

func canonicalLink(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ""
	}
	u.Fragment = ""
	return u.String()
}

// sanitize strips markup and control characters, collapses whitespace,
// and caps the length at a word boundary where possible.
func sanitize(text string, maxLen int) string {
	text = tagPattern.ReplaceAllString(text, " ")
	text = controlPattern.ReplaceAllString(text, "")
	text = spacePattern.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)
	if len(text) <= maxLen {
		return text
	}
	boundary := maxLen
	for boundary > 0 && !utf8.RuneStart(text[boundary]) {
		boundary--
	}
	cut := text[:boundary]
	if idx := strings.LastIndex(cut, " "); idx > maxLen/2 {
		cut = cut[:idx]
	}
	return strings.TrimSpace(cut)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// telegramSender is the slice of the bot API the notifier needs,
// satisfied by *tgbotapi.BotAPI.
type telegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Options selects which channels receive notifications and on which
// outcomes. Empty destinations are skipped.
type Options struct {
	SlackWebhookURL   string
	DiscordWebhookURL string
	TelegramChatID    int64

	OnSuccess bool
	OnFailure bool
}

// Notifier fans run outcomes out to the configured channels. Delivery
// is fire and forget: failures are logged and never affect the run
// result.
type Notifier struct {
	opts     Options
	client   *http.Client
	telegram telegramSender
	logger   *logrus.Logger
}

type Option func(*Notifier)

func WithHTTPClient(client *http.Client) Option {
	return func(n *Notifier) {
		if client != nil {
			n.client = client
		}
	}
}

func withTelegramSender(sender telegramSender) Option {
	return func(n *Notifier) {
		n.telegram = sender
	}
}

// New creates a notifier. An invalid Telegram token disables the
// Telegram channel instead of failing the run.
func New(opts Options, telegramToken string, logger *logrus.Logger, extra ...Option) *Notifier {
	n := &Notifier{
		opts:   opts,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
	for _, opt := range extra {
		opt(n)
	}

	if n.telegram == nil && telegramToken != "" && opts.TelegramChatID != 0 {
		bot, err := tgbotapi.NewBotAPI(telegramToken)
		if err != nil {
			logger.WithError(err).Warn("Telegram notifications disabled")
		} else {
			n.telegram = bot
		}
	}
	return n
}

// Success announces a published post.
func (n *Notifier) Success(ctx context.Context, postID, format, title string) {
	if !n.opts.OnSuccess {
		return
	}
	msg := fmt.Sprintf("✅ Published LinkedIn post (%s): %s\nPost ID: %s", format, title, postID)
	n.broadcast(ctx, msg)
}

// Failure announces a failed or skipped run.
func (n *Notifier) Failure(ctx context.Context, reason string) {
	if !n.opts.OnFailure {
		return
	}
	n.broadcast(ctx, "⚠️ LinkedIn posting run failed: "+reason)
}

func (n *Notifier) broadcast(ctx context.Context, message string) {
	if n.opts.SlackWebhookURL != "" {
		if err := n.postWebhook(ctx, n.opts.SlackWebhookURL, map[string]string{"text": message}); err != nil {
			n.logger.WithError(err).Warn("Slack notification failed")
		}
	}
	if n.opts.DiscordWebhookURL != "" {
		if err := n.postWebhook(ctx, n.opts.DiscordWebhookURL, map[string]string{"content": message}); err != nil {
			n.logger.WithError(err).Warn("Discord notification failed")
		}
	}
	if n.telegram != nil && n.opts.TelegramChatID != 0 {
		if _, err := n.telegram.Send(tgbotapi.NewMessage(n.opts.TelegramChatID, message)); err != nil {
			n.logger.WithError(err).Warn("Telegram notification failed")
		}
	}
}

func (n *Notifier) postWebhook(ctx context.Context, webhookURL string, payload map[string]string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 512))

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

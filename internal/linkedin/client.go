package linkedin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ajayverse/devpulse/internal/httpx"
)

const (
	defaultBaseURL = "https://api.linkedin.com/v2"
	apiVersion     = "202401"

	maxRetryAfterWait = 60 * time.Second
)

// APIError is a non-2xx response from the LinkedIn API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("linkedin returned status %d: %s", e.StatusCode, e.Body)
}

// Client talks to the LinkedIn REST API. In dry-run mode no network
// call is ever made; write operations log their payload and return a
// sentinel identifier.
type Client struct {
	baseURL      string
	accessToken  string
	authorURN    string
	dryRun       bool
	client       *http.Client
	httpExecutor failsafe.Executor[*http.Response]
	logger       *logrus.Logger
}

type Option func(*Client)

// NewClient creates a LinkedIn client.
func NewClient(accessToken string, dryRun bool, logger *logrus.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:      defaultBaseURL,
		accessToken:  accessToken,
		dryRun:       dryRun,
		client:       &http.Client{Timeout: 15 * time.Second},
		httpExecutor: httpx.NewExecutor(httpx.DefaultExecutorConfig()),
		logger:       logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.client = httpClient
		}
	}
}

func WithHTTPExecutor(executor failsafe.Executor[*http.Response]) Option {
	return func(c *Client) {
		if executor != nil {
			c.httpExecutor = executor
		}
	}
}

// WithAuthorURN pins the author identity, skipping token detection.
func WithAuthorURN(urn string) Option {
	return func(c *Client) {
		c.authorURN = NormalizeAuthorURN(urn)
	}
}

// NormalizeAuthorURN coerces any author identifier into a usable URN.
// Numeric identifiers become member URNs, anything else (such as an
// OpenID sub) becomes a person URN.
func NormalizeAuthorURN(value string) string {
	v := strings.Trim(strings.TrimSpace(value), `"'`)
	if v == "" {
		return ""
	}
	if strings.HasPrefix(v, "urn:li:member:") || strings.HasPrefix(v, "urn:li:person:") {
		return v
	}
	if isDigits(v) {
		return "urn:li:member:" + v
	}
	return "urn:li:person:" + v
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// AuthorURN resolves the acting identity: a pinned override wins,
// otherwise the token's own identity is detected via /me and then
// /userinfo. In dry-run mode a fixed placeholder is returned.
func (c *Client) AuthorURN(ctx context.Context) (string, error) {
	if c.authorURN != "" {
		return c.authorURN, nil
	}
	if c.dryRun {
		return "urn:li:person:dry-run", nil
	}

	var me struct {
		ID string `json:"id"`
	}
	if err := c.getJSON(ctx, "/me?projection=(id)", &me); err == nil && me.ID != "" {
		c.authorURN = NormalizeAuthorURN(me.ID)
		return c.authorURN, nil
	}

	var info struct {
		Sub string `json:"sub"`
	}
	if err := c.getJSON(ctx, "/userinfo", &info); err != nil {
		return "", fmt.Errorf("resolving author identity: %w", err)
	}
	if info.Sub == "" {
		return "", fmt.Errorf("token identity has no member id or sub")
	}
	c.authorURN = NormalizeAuthorURN(info.Sub)
	return c.authorURN, nil
}

// CreatePost publishes a text post and returns its identifier. Errors
// never escape: a failed publish returns ("", false) after bounded
// retries. Dry-run returns a sentinel id without any network call.
func (c *Client) CreatePost(ctx context.Context, text string) (string, bool) {
	if c.dryRun {
		id := "urn:li:share:dry-run-" + uuid.NewString()
		c.logger.WithField("post_id", id).Info("[DRY RUN] Would publish post")
		fmt.Printf("\n===== [DRY RUN] LinkedIn Post Content =====\n\n%s\n\n===== [END OF POST] =====\n\n", text)
		return id, true
	}

	author, err := c.AuthorURN(ctx)
	if err != nil {
		c.logger.WithError(err).Error("Cannot publish without author identity")
		return "", false
	}

	payload := map[string]any{
		"author":         author,
		"lifecycleState": "PUBLISHED",
		"specificContent": map[string]any{
			"com.linkedin.ugc.ShareContent": map[string]any{
				"shareCommentary":    map[string]string{"text": text},
				"shareMediaCategory": "NONE",
			},
		},
		"visibility": map[string]string{
			"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
		},
	}

	var created struct {
		ID string `json:"id"`
	}
	restliID, err := c.postJSON(ctx, "/ugcPosts", payload, &created)
	if err != nil {
		c.logger.WithError(err).Error("Publish failed")
		return "", false
	}

	id := created.ID
	if id == "" {
		id = restliID
	}
	c.logger.WithField("post_id", id).Info("Post published")
	return id, true
}

// Post is one of the author's recent shares.
type Post struct {
	ID string `json:"id"`
}

// ListOwnPosts returns the author's recent posts.
func (c *Client) ListOwnPosts(ctx context.Context, limit int) ([]Post, error) {
	if c.dryRun {
		return nil, nil
	}
	author, err := c.AuthorURN(ctx)
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/ugcPosts?q=authors&authors=List(%s)&count=%d", url.QueryEscape(author), limit)
	var out struct {
		Elements []Post `json:"elements"`
	}
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Elements, nil
}

// Comment is one comment on a post.
type Comment struct {
	URN     string `json:"$URN"`
	Actor   string `json:"actor"`
	Message struct {
		Text string `json:"text"`
	} `json:"message"`
}

// ListComments returns the comments on one of the author's posts.
func (c *Client) ListComments(ctx context.Context, postURN string) ([]Comment, error) {
	if c.dryRun {
		return nil, nil
	}
	path := "/socialActions/" + url.PathEscape(postURN) + "/comments"
	var out struct {
		Elements []Comment `json:"elements"`
	}
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Elements, nil
}

// CreateComment comments on a post. A non-empty parentCommentURN makes
// it a reply to that comment.
func (c *Client) CreateComment(ctx context.Context, postURN, parentCommentURN, text string) error {
	if c.dryRun {
		c.logger.WithField("post", postURN).Info("[DRY RUN] Would comment")
		return nil
	}
	author, err := c.AuthorURN(ctx)
	if err != nil {
		return err
	}

	payload := map[string]any{
		"actor":   author,
		"message": map[string]string{"text": text},
	}
	if parentCommentURN != "" {
		payload["parentComment"] = parentCommentURN
	}

	path := "/socialActions/" + url.PathEscape(postURN) + "/comments"
	_, err = c.postJSON(ctx, path, payload, nil)
	return err
}

// Like reacts to a post.
func (c *Client) Like(ctx context.Context, postURN string) error {
	if c.dryRun {
		c.logger.WithField("post", postURN).Info("[DRY RUN] Would like post")
		return nil
	}
	author, err := c.AuthorURN(ctx)
	if err != nil {
		return err
	}

	path := "/socialActions/" + url.PathEscape(postURN) + "/likes"
	_, err = c.postJSON(ctx, path, map[string]any{"actor": author}, nil)
	return err
}

// CreateConnectionRequest invites a profile to connect, with an
// optional note.
func (c *Client) CreateConnectionRequest(ctx context.Context, profileID, message string) error {
	if c.dryRun {
		c.logger.WithField("profile", profileID).Info("[DRY RUN] Would send connection request")
		return nil
	}

	payload := map[string]any{
		"invitee": map[string]any{
			"com.linkedin.voyager.growth.invitation.InviteeProfile": map[string]string{
				"profileId": profileID,
			},
		},
	}
	if message != "" {
		payload["message"] = message
	}
	_, err := c.postJSON(ctx, "/people/invitations", payload, nil)
	return err
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// postJSON issues a POST and returns the x-restli-id header, which
// carries the created entity id for some endpoints.
func (c *Client) postJSON(ctx context.Context, path string, payload, out any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", apiError(resp)
	}
	restliID := resp.Header.Get("x-restli-id")
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			return restliID, fmt.Errorf("decoding response: %w", err)
		}
	}
	return restliID, nil
}

// do runs one request through the retry executor. Between attempts a
// 429 or 503 response's Retry-After header is honored, capped at one
// minute.
func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var wait time.Duration
	return httpx.Execute(ctx, c.httpExecutor, func() (*http.Response, error) {
		if wait > 0 {
			if err := httpx.Sleep(ctx, wait); err != nil {
				return nil, err
			}
			wait = 0
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Restli-Protocol-Version", "2.0.0")
		req.Header.Set("LinkedIn-Version", apiVersion)

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		if httpx.ShouldRetry(resp, nil) {
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable {
				wait = httpx.RetryAfter(resp, maxRetryAfterWait)
			}
			// Close the body between attempts, but keep a buffered
			// copy so the last failing response still carries it.
			data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			resp.Body.Close()
			resp.Body = io.NopCloser(bytes.NewReader(data))
		}
		return resp, nil
	})
}

func apiError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
}

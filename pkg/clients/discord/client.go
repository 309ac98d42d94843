// Package discord implements the two webhook operations the publisher needs:
// creating a forum thread for an article and posting an announcement message
// that links to it. The client performs exactly one network call per
// operation; it never retries internally.
package discord

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

	"github.com/Saffen/thelionsroar/pkg/clients"
)

// APIError is returned when Discord answers with an error status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("discord webhook returned status %d: %s", e.StatusCode, e.Body)
}

// Config carries the construction-time settings for the client.
type Config struct {
	// ForumWebhookURL targets the forum channel; posting there with a
	// thread_name creates a new thread.
	ForumWebhookURL string

	// AnnounceWebhookURL targets the announcements channel.
	AnnounceWebhookURL string

	// Username and AvatarURL optionally override the webhook identity.
	Username  string
	AvatarURL string
}

// Client talks to Discord webhooks.
type Client struct {
	cfg          Config
	client       *http.Client
	httpExecutor failsafe.Executor[*http.Response]
}

// Option customizes the client.
type Option func(*Client)

// NewClient creates a Discord webhook client.
func NewClient(cfg Config, opts ...Option) *Client {
	c := &Client{
		cfg: cfg,
		client: &http.Client{
			Timeout:   25 * time.Second,
			Transport: clients.DefaultTransport(),
		},
		httpExecutor: clients.NewHTTPExecutor(clients.DefaultHTTPExecutorConfig()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.client = httpClient
		}
	}
}

// WithHTTPExecutorConfig replaces the call timeout settings.
func WithHTTPExecutorConfig(cfg clients.HTTPExecutorConfig) Option {
	return func(c *Client) {
		c.httpExecutor = clients.NewHTTPExecutor(cfg)
	}
}

// ThreadRequest describes the forum thread to create for an article.
type ThreadRequest struct {
	ThreadName  string
	Title       string
	AuthorLine  string
	PublishTime string
	Teaser      string
	ArticleURL  string
	ImageURL    string
}

// ThreadResponse carries the provider-assigned identifiers for a created
// thread. For forum webhooks Discord returns the starter message as `id`
// and the created thread as `channel_id`.
type ThreadResponse struct {
	ThreadID         string
	StarterMessageID string
}

// MessageRequest describes the announcement referencing a thread.
type MessageRequest struct {
	Title      string
	ArticleURL string
	ThreadID   string
}

// MessageResponse carries the posted announcement's message id.
type MessageResponse struct {
	MessageID string
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type embedImage struct {
	URL string `json:"url"`
}

type embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Fields      []embedField `json:"fields,omitempty"`
	Image       *embedImage  `json:"image,omitempty"`
}

type webhookPayload struct {
	ThreadName      string         `json:"thread_name,omitempty"`
	Content         string         `json:"content"`
	Embeds          []embed        `json:"embeds,omitempty"`
	AllowedMentions map[string]any `json:"allowed_mentions"`
	Username        string         `json:"username,omitempty"`
	AvatarURL       string         `json:"avatar_url,omitempty"`
}

// noMentions suppresses all pings; announcements must never @ anyone.
func noMentions() map[string]any {
	return map[string]any{"parse": []string{}}
}

// CreateThread posts to the forum webhook, creating a thread whose starter
// message holds the article embed.
func (c *Client) CreateThread(ctx context.Context, req ThreadRequest) (*ThreadResponse, error) {
	var fields []embedField
	if req.AuthorLine != "" {
		fields = append(fields, embedField{Name: "By", Value: req.AuthorLine, Inline: true})
	}
	if req.PublishTime != "" {
		fields = append(fields, embedField{Name: "Published", Value: req.PublishTime, Inline: true})
	}

	var descParts []string
	if teaser := strings.TrimSpace(req.Teaser); teaser != "" {
		descParts = append(descParts, teaser)
	}
	if req.ArticleURL != "" {
		descParts = append(descParts, fmt.Sprintf("[Read on the site](%s)", req.ArticleURL))
	}

	e := embed{
		Title:       req.Title,
		Description: strings.Join(descParts, "\n\n"),
		Fields:      fields,
	}
	if req.ImageURL != "" {
		e.Image = &embedImage{URL: req.ImageURL}
	}

	payload := webhookPayload{
		ThreadName:      req.ThreadName,
		Content:         "", // the embed does the job
		Embeds:          []embed{e},
		AllowedMentions: noMentions(),
	}

	resp, err := c.post(ctx, c.cfg.ForumWebhookURL, payload, "")
	if err != nil {
		return nil, err
	}

	return &ThreadResponse{
		ThreadID:         strings.TrimSpace(resp.ChannelID),
		StarterMessageID: strings.TrimSpace(resp.ID),
	}, nil
}

// PostMessage posts the announcement referencing the article's thread. The
// `<#id>` mention renders as a clickable thread link without a guild id.
func (c *Client) PostMessage(ctx context.Context, req MessageRequest) (*MessageResponse, error) {
	threadMention := "(thread unavailable)"
	if req.ThreadID != "" {
		threadMention = fmt.Sprintf("<#%s>", req.ThreadID)
	}

	lines := []string{fmt.Sprintf("**%s**", req.Title)}
	if req.ArticleURL != "" {
		lines = append(lines, req.ArticleURL)
	}
	lines = append(lines, "Discuss: "+threadMention)

	payload := webhookPayload{
		Content:         strings.Join(lines, "\n"),
		AllowedMentions: noMentions(),
	}

	resp, err := c.post(ctx, c.cfg.AnnounceWebhookURL, payload, "")
	if err != nil {
		return nil, err
	}

	return &MessageResponse{MessageID: strings.TrimSpace(resp.ID)}, nil
}

// webhookResponse is the subset of Discord's message object we care about.
type webhookResponse struct {
	ID        string `json:"id"`
	ChannelID string `json:"channel_id"`
}

func (c *Client) post(ctx context.Context, webhookURL string, payload webhookPayload, threadID string) (*webhookResponse, error) {
	postURL, err := buildPostURL(webhookURL, threadID)
	if err != nil {
		return nil, err
	}

	if c.cfg.Username != "" {
		payload.Username = c.cfg.Username
	}
	if c.cfg.AvatarURL != "" {
		payload.AvatarURL = c.cfg.AvatarURL
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	resp, err := clients.ExecuteHTTP(ctx, c.httpExecutor, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, postURL, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "LionsRoarPublisher/0.1 (+https://thelionsroar.eu)")
		return c.client.Do(req)
	})
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read webhook response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	var parsed webhookResponse
	if len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, &parsed); err != nil {
			return nil, fmt.Errorf("decode webhook response: %w", err)
		}
	}
	return &parsed, nil
}

// buildPostURL appends wait=true (so Discord returns the created message)
// and, when set, the thread_id target.
func buildPostURL(webhookURL, threadID string) (string, error) {
	u, err := url.Parse(webhookURL)
	if err != nil {
		return "", fmt.Errorf("invalid webhook url: %w", err)
	}
	q := u.Query()
	q.Set("wait", "true")
	if strings.TrimSpace(threadID) != "" {
		q.Set("thread_id", strings.TrimSpace(threadID))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

package config

import (
	"fmt"
	"strings"
)

// Settings carries the full publisher configuration. It is built once at
// startup and handed to the dispatcher and webhook client at construction
// time instead of having them read the environment themselves.
type Settings struct {
	// SiteBaseURL is the public site root used to build article and asset URLs.
	SiteBaseURL string

	// ForumWebhookURL posts into the Discord forum channel (thread creation).
	ForumWebhookURL string

	// AnnounceWebhookURL posts into the Discord announcements channel.
	AnnounceWebhookURL string

	// Username and AvatarURL optionally override the webhook identity.
	Username  string
	AvatarURL string

	// ContentDir is the content root scanned for markdown files.
	ContentDir string

	// StatePath is the ledger file recording completed Discord actions.
	StatePath string

	// Timezone interprets naive frontmatter timestamps.
	Timezone string

	// Limit caps the number of publishable articles processed per run.
	Limit int

	// Workers bounds the dispatcher worker pool. 1 means sequential.
	Workers int
}

// FromEnv builds Settings from the process environment.
func FromEnv() Settings {
	return Settings{
		SiteBaseURL:        strings.TrimSpace(GetEnv("SITE_BASE_URL", "")),
		ForumWebhookURL:    strings.TrimSpace(GetEnv("DISCORD_FORUM_WEBHOOK_URL", "")),
		AnnounceWebhookURL: strings.TrimSpace(GetEnv("DISCORD_ANNOUNCE_WEBHOOK_URL", "")),
		Username:           strings.TrimSpace(GetEnv("DISCORD_USERNAME", "")),
		AvatarURL:          strings.TrimSpace(GetEnv("DISCORD_AVATAR_URL", "")),
		ContentDir:         GetEnv("CONTENT_DIR", "content"),
		StatePath:          GetEnv("STATE_PATH", "state/published.json"),
		Timezone:           GetEnv("PUBLISH_TZ", "Europe/Copenhagen"),
		Limit:              GetEnvInt("ANNOUNCE_LIMIT", 20),
		Workers:            GetEnvInt("ANNOUNCE_WORKERS", 1),
	}
}

// ValidateForAnnounce reports the configuration errors that must abort an
// apply run before any item is processed. Dry runs do not need webhooks.
func (s Settings) ValidateForAnnounce() error {
	if s.ForumWebhookURL == "" {
		return fmt.Errorf("DISCORD_FORUM_WEBHOOK_URL is not set")
	}
	if s.AnnounceWebhookURL == "" {
		return fmt.Errorf("DISCORD_ANNOUNCE_WEBHOOK_URL is not set")
	}
	return nil
}

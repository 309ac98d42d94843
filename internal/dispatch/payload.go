package dispatch

import (
	"strings"
	"time"

	"github.com/Saffen/thelionsroar/internal/content"
	"github.com/Saffen/thelionsroar/internal/schedule"
	"github.com/Saffen/thelionsroar/pkg/clients/discord"
)

// Discord caps thread names at 100 characters.
const maxThreadNameLen = 100

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func displayTitle(item content.Item) string {
	if item.Title != "" {
		return item.Title
	}
	return "(Untitled)"
}

func displaySection(item content.Item) string {
	if item.Section != "" {
		return item.Section
	}
	return "news"
}

// articleURL builds the canonical URL when a site base is configured,
// otherwise an empty string.
func articleURL(item content.Item, siteBaseURL string) string {
	if siteBaseURL == "" {
		return ""
	}
	return content.ArticleURL(siteBaseURL, displaySection(item), content.Year(item.Path), content.Slug(item.Path))
}

// articleRef is the announcement fallback when no site base is configured:
// a relative reference is still better than nothing.
func articleRef(item content.Item, siteBaseURL string) string {
	if url := articleURL(item, siteBaseURL); url != "" {
		return url
	}
	return displaySection(item) + "/" + content.Year(item.Path) + "/" + content.Slug(item.Path) + "/"
}

func imageURL(item content.Item, siteBaseURL string) string {
	if item.Image == nil {
		return ""
	}
	return content.AssetURL(siteBaseURL, item.Image.Src)
}

func buildThreadRequest(item content.Item, siteBaseURL string, loc *time.Location) discord.ThreadRequest {
	title := displayTitle(item)
	return discord.ThreadRequest{
		ThreadName:  truncateRunes(title, maxThreadNameLen),
		Title:       title,
		AuthorLine:  strings.Join(item.Authors, ", "),
		PublishTime: schedule.FormatPublishTime(item.PublishAt, loc),
		Teaser:      item.Teaser,
		ArticleURL:  articleURL(item, siteBaseURL),
		ImageURL:    imageURL(item, siteBaseURL),
	}
}

func buildMessageRequest(item content.Item, siteBaseURL, threadID string) discord.MessageRequest {
	return discord.MessageRequest{
		Title:      displayTitle(item),
		ArticleURL: articleRef(item, siteBaseURL),
		ThreadID:   threadID,
	}
}

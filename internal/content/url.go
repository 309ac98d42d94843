package content

import (
	"path/filepath"
	"strings"
)

// Slug derives the article slug from its file name.
func Slug(path string) string {
	name := filepath.Base(path)
	if strings.HasSuffix(strings.ToLower(name), ".md") {
		return name[:len(name)-3]
	}
	return name
}

// Year finds the first four-digit path segment, which is how the content
// tree encodes the publication year (content/news/2025/slug.md).
func Year(path string) string {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if len(part) == 4 && isDigits(part) {
			return part
		}
	}
	return "unknown"
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// ArticleURL builds the canonical public URL for an article.
func ArticleURL(siteBaseURL, section, year, slug string) string {
	base := strings.TrimRight(siteBaseURL, "/")
	return base + "/" + section + "/" + year + "/" + slug + "/"
}

// AssetURL normalizes an asset reference to an absolute URL. Absolute inputs
// pass through; site-relative ones are joined to the site base. Without a
// site base a relative asset cannot be resolved and the result is empty.
func AssetURL(siteBaseURL, src string) string {
	src = strings.TrimSpace(src)
	if src == "" {
		return ""
	}
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return src
	}
	if siteBaseURL == "" {
		return ""
	}
	base := strings.TrimRight(siteBaseURL, "/")
	if strings.HasPrefix(src, "/") {
		return base + src
	}
	return base + "/" + src
}

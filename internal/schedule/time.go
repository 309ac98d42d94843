// Package schedule parses and formats the timestamps found in content
// frontmatter. Editors write stamps in a handful of layouts, usually without
// an offset; naive stamps are interpreted in the site's configured timezone.
package schedule

import (
	"strings"
	"time"
)

// Layouts without an offset are localized to the provided location.
var naiveLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Layouts that carry their own offset keep it.
var absoluteLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04Z07:00",
}

// Parse interprets a frontmatter timestamp. The second return value is false
// when the input is empty or matches no accepted layout.
func Parse(value string, loc *time.Location) (time.Time, bool) {
	s := strings.TrimSpace(value)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range absoluteLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatPublishTime renders a frontmatter timestamp for display, e.g. in a
// Discord embed. Unparseable values pass through verbatim so the operator
// still sees what the frontmatter said.
func FormatPublishTime(value string, loc *time.Location) string {
	t, ok := Parse(value, loc)
	if !ok {
		return strings.TrimSpace(value)
	}
	return t.Format("2006-01-02 15:04 MST")
}

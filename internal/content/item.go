// Package content loads article metadata from markdown frontmatter. It is
// the input side of the pipeline: the decision engine and the dispatcher only
// ever see the Item records produced here.
package content

// Status is the editorial lifecycle state declared in frontmatter.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusReview    Status = "review"
	StatusScheduled Status = "scheduled"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// Known reports whether the status is part of the editorial lifecycle.
// Unknown statuses are carried verbatim, not corrected.
func (s Status) Known() bool {
	switch s {
	case StatusDraft, StatusReview, StatusScheduled, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// Image describes the article's lead image as declared in frontmatter.
type Image struct {
	Src    string
	Credit string
	Source string
	Kind   string
}

// Item is one article's metadata, immutable for the duration of a run.
type Item struct {
	ID      string
	Title   string
	Section string
	Authors []string
	Tags    []string
	Status  Status

	// PublishAt is the raw frontmatter value; empty means absent. The
	// decision engine parses it so that "present but unparseable" and
	// "absent" are handled in one place.
	PublishAt string

	AnnounceEnabled bool
	Teaser          string
	Image           *Image

	// Path is where the item was loaded from, for diagnostics and for the
	// article URL derivation (slug and year come from the path).
	Path string
}

// FileResult pairs a scanned file with its parsed item or the error that
// excluded it from the run.
type FileResult struct {
	Path string
	Item Item
	Err  error
}

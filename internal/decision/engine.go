// Package decision turns article metadata and the current time into
// build/publish/announce decisions. Decide is a pure function: no I/O, no
// mutation, deterministic for identical inputs.
package decision

import (
	"fmt"
	"time"

	"github.com/Saffen/thelionsroar/internal/content"
	"github.com/Saffen/thelionsroar/internal/schedule"
)

// Decision is the outcome for a single item. Reasons are operator-facing
// diagnostics only; nothing downstream parses them.
type Decision struct {
	Status         content.Status `json:"status"`
	ShouldBuild    bool           `json:"should_build"`
	ShouldPublish  bool           `json:"should_publish"`
	ShouldAnnounce bool           `json:"should_announce_discord"`
	Reasons        []string       `json:"reasons"`
}

// Decide evaluates one item at the given instant. Naive publish_at stamps are
// interpreted in loc; stamps carrying their own offset keep it. The
// publishable boundary is inclusive: an item publishes at exactly publish_at.
func Decide(item content.Item, now time.Time, loc *time.Location) Decision {
	var reasons []string

	status := item.Status
	if !status.Known() {
		reasons = append(reasons, fmt.Sprintf("Unknown status '%s' (allowed: draft, review, scheduled, published, archived).", status))
	}

	shouldBuild := status == content.StatusDraft || status == content.StatusReview ||
		status == content.StatusScheduled || status == content.StatusPublished
	if status == content.StatusArchived {
		shouldBuild = false
		reasons = append(reasons, "Archived content is not built.")
	}

	shouldPublish := false
	switch status {
	case content.StatusPublished:
		shouldPublish = true
	case content.StatusScheduled:
		publishAt, ok := schedule.Parse(item.PublishAt, loc)
		switch {
		case item.PublishAt == "":
			reasons = append(reasons, "Status is scheduled but publish_at is missing, will not publish.")
		case !ok:
			reasons = append(reasons, "Status is scheduled but publish_at is unparseable, will not publish.")
		default:
			shouldPublish = !now.Before(publishAt)
			if !shouldPublish {
				reasons = append(reasons, "Not time yet (now < publish_at).")
			}
		}
	default:
		reasons = append(reasons, fmt.Sprintf("Status is '%s', will not publish.", status))
	}

	shouldAnnounce := shouldPublish && item.AnnounceEnabled

	// Soft warnings: visibility only, never correctness-affecting.
	if item.Title == "" {
		reasons = append(reasons, "Missing title.")
	}
	if item.Section == "" {
		reasons = append(reasons, "Missing section.")
	}
	if len(item.Authors) == 0 {
		reasons = append(reasons, "Missing authors list.")
	}
	if item.Image != nil && item.Image.Src != "" && item.Image.Kind == "" {
		reasons = append(reasons, "Image has src but missing image_type.")
	}
	if len(item.Tags) == 0 {
		reasons = append(reasons, "No tags set (can be ok).")
	}

	return Decision{
		Status:         status,
		ShouldBuild:    shouldBuild,
		ShouldPublish:  shouldPublish,
		ShouldAnnounce: shouldAnnounce,
		Reasons:        reasons,
	}
}

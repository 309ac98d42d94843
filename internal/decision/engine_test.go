package decision

import (
	"strings"
	"testing"
	"time"

	"github.com/Saffen/thelionsroar/internal/content"
)

func mustLoc(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("load location %s: %v", name, err)
	}
	return loc
}

func TestDecidePublishedAlwaysPublishes(t *testing.T) {
	t.Parallel()

	item := content.Item{
		ID:        "a1",
		Title:     "T",
		Section:   "news",
		Authors:   []string{"A"},
		Tags:      []string{"x"},
		Status:    content.StatusPublished,
		PublishAt: "2099-01-01 00:00",
	}
	d := Decide(item, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), time.UTC)
	if !d.ShouldPublish || !d.ShouldBuild {
		t.Fatalf("published item must build and publish: %+v", d)
	}
}

func TestDecideScheduledBoundaryInclusive(t *testing.T) {
	t.Parallel()

	item := content.Item{
		ID:              "a1",
		Title:           "T",
		Section:         "news",
		Authors:         []string{"A"},
		Tags:            []string{"x"},
		Status:          content.StatusScheduled,
		PublishAt:       "2025-01-10T12:00:00Z",
		AnnounceEnabled: true,
	}

	before := Decide(item, time.Date(2025, 1, 10, 11, 59, 59, 0, time.UTC), time.UTC)
	if before.ShouldPublish {
		t.Fatalf("one second early must not publish")
	}
	if before.ShouldAnnounce {
		t.Fatalf("announce requires publish")
	}

	at := Decide(item, time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC), time.UTC)
	if !at.ShouldPublish {
		t.Fatalf("exact publish_at instant must publish")
	}
	if !at.ShouldAnnounce {
		t.Fatalf("expected announce at publish instant with announce enabled")
	}
}

func TestDecideScheduledMissingPublishAt(t *testing.T) {
	t.Parallel()

	item := content.Item{ID: "a1", Status: content.StatusScheduled}
	d := Decide(item, time.Now(), time.UTC)
	if d.ShouldPublish {
		t.Fatalf("scheduled without publish_at must not publish")
	}
	found := false
	for _, r := range d.Reasons {
		if strings.Contains(r, "publish_at is missing") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected missing publish_at reason, got %v", d.Reasons)
	}
}

func TestDecideScheduledUnparseablePublishAt(t *testing.T) {
	t.Parallel()

	item := content.Item{ID: "a1", Status: content.StatusScheduled, PublishAt: "next tuesday"}
	d := Decide(item, time.Now(), time.UTC)
	if d.ShouldPublish {
		t.Fatalf("scheduled with unparseable publish_at must not publish")
	}
	found := false
	for _, r := range d.Reasons {
		if strings.Contains(r, "publish_at is unparseable") {
			found = true
		}
		if strings.Contains(r, "publish_at is missing") {
			t.Fatalf("present-but-unparseable stamp reported as missing: %v", d.Reasons)
		}
	}
	if !found {
		t.Fatalf("expected unparseable publish_at reason, got %v", d.Reasons)
	}
}

func TestDecideNaivePublishAtUsesConfiguredZone(t *testing.T) {
	t.Parallel()

	cph := mustLoc(t, "Europe/Copenhagen")
	item := content.Item{
		ID:        "a1",
		Status:    content.StatusScheduled,
		PublishAt: "2025-01-10 12:00", // CET, = 11:00 UTC
	}

	if d := Decide(item, time.Date(2025, 1, 10, 10, 59, 0, 0, time.UTC), cph); d.ShouldPublish {
		t.Fatalf("10:59 UTC is before noon CET")
	}
	if d := Decide(item, time.Date(2025, 1, 10, 11, 0, 0, 0, time.UTC), cph); !d.ShouldPublish {
		t.Fatalf("11:00 UTC equals noon CET, must publish")
	}
}

func TestDecideArchivedNeverBuilds(t *testing.T) {
	t.Parallel()

	item := content.Item{
		ID:              "a2",
		Status:          content.StatusArchived,
		PublishAt:       "2000-01-01 00:00",
		AnnounceEnabled: true,
	}
	d := Decide(item, time.Now(), time.UTC)
	if d.ShouldBuild || d.ShouldPublish || d.ShouldAnnounce {
		t.Fatalf("archived item must not build, publish, or announce: %+v", d)
	}
}

func TestDecideUnknownStatusKeptVerbatim(t *testing.T) {
	t.Parallel()

	item := content.Item{ID: "a3", Status: content.Status("limbo")}
	d := Decide(item, time.Now(), time.UTC)
	if d.Status != "limbo" {
		t.Fatalf("unknown status must not be corrected, got %q", d.Status)
	}
	if d.ShouldBuild || d.ShouldPublish {
		t.Fatalf("unknown status must not build or publish")
	}
	if len(d.Reasons) == 0 || !strings.Contains(d.Reasons[0], "Unknown status") {
		t.Fatalf("expected unknown status reason first, got %v", d.Reasons)
	}
}

func TestDecideSoftWarningsDoNotChangeDecisions(t *testing.T) {
	t.Parallel()

	item := content.Item{
		ID:     "a4",
		Status: content.StatusPublished,
		Image:  &content.Image{Src: "/assets/x.jpg"},
	}
	d := Decide(item, time.Now(), time.UTC)
	if !d.ShouldPublish {
		t.Fatalf("soft warnings must not block publishing")
	}
	wantSubstrings := []string{"Missing title", "Missing section", "Missing authors", "missing image_type", "No tags"}
	for _, want := range wantSubstrings {
		found := false
		for _, r := range d.Reasons {
			if strings.Contains(r, want) {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected reason containing %q, got %v", want, d.Reasons)
		}
	}
}

func TestDecideAnnounceImpliesPublish(t *testing.T) {
	t.Parallel()

	statuses := []content.Status{
		content.StatusDraft, content.StatusReview, content.StatusScheduled,
		content.StatusPublished, content.StatusArchived, content.Status("weird"),
	}
	stamps := []string{"", "2000-01-01 00:00", "2099-01-01 00:00", "garbage"}
	for _, st := range statuses {
		for _, stamp := range stamps {
			for _, announce := range []bool{true, false} {
				item := content.Item{ID: "x", Status: st, PublishAt: stamp, AnnounceEnabled: announce}
				d := Decide(item, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), time.UTC)
				if d.ShouldAnnounce && !d.ShouldPublish {
					t.Fatalf("announce without publish for %+v", item)
				}
				if d.ShouldPublish && d.Status != content.StatusPublished && d.Status != content.StatusScheduled {
					t.Fatalf("publish from status %q", d.Status)
				}
			}
		}
	}
}

package content

import (
	"os"
	"path/filepath"
	"testing"
)

func writeArticle(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

const sampleArticle = `---
id: roar-2025-001
title: The new gym opens
section: news
authors:
  - Jane Doe
  - John Smith
tags: [school, sports]
status: Scheduled
publish_at: 2025-01-10 12:00
teaser: The gym finally opens its doors.
discord_announce: yes
image:
  src: /assets/gym.jpg
  credit: Jane Doe
  source: school archive
  image_type: photo
---

Body text here.
`

func TestLoadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeArticle(t, dir, "2025/gym-opens.md", sampleArticle)

	item, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if item.ID != "roar-2025-001" {
		t.Fatalf("unexpected id: %q", item.ID)
	}
	if item.Status != StatusScheduled {
		t.Fatalf("expected status normalized to lowercase, got %q", item.Status)
	}
	if len(item.Authors) != 2 || item.Authors[0] != "Jane Doe" {
		t.Fatalf("unexpected authors: %v", item.Authors)
	}
	if !item.AnnounceEnabled {
		t.Fatalf("expected discord_announce: yes to be truthy")
	}
	if item.Image == nil || item.Image.Kind != "photo" {
		t.Fatalf("unexpected image: %+v", item.Image)
	}
	if item.PublishAt != "2025-01-10 12:00" {
		t.Fatalf("unexpected publish_at: %q", item.PublishAt)
	}
}

func TestLoadFileScalarAuthorAndDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeArticle(t, dir, "note.md", "---\nid: n1\ntitle: Note\nauthors: Solo Writer\n---\nbody\n")

	item, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if item.Status != StatusDraft {
		t.Fatalf("expected missing status to default to draft, got %q", item.Status)
	}
	if len(item.Authors) != 1 || item.Authors[0] != "Solo Writer" {
		t.Fatalf("unexpected authors: %v", item.Authors)
	}
	if item.AnnounceEnabled {
		t.Fatalf("expected announce disabled by default")
	}
}

func TestLoadFileMissingFrontmatter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeArticle(t, dir, "plain.md", "No frontmatter here.\n")

	if _, err := LoadFile(path); err == nil {
		t.Fatalf("expected error for missing frontmatter")
	}
}

func TestSplitFrontmatterUnterminated(t *testing.T) {
	t.Parallel()

	_, body, ok := SplitFrontmatter("---\ntitle: x\nno closing delim\n")
	if ok {
		t.Fatalf("expected unterminated block to be rejected")
	}
	if body == "" {
		t.Fatalf("expected original text back as body")
	}
}

func TestTruthySpellings(t *testing.T) {
	t.Parallel()

	cases := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"yes", true},
		{"Y", true},
		{"on", true},
		{"1", true},
		{"no", false},
		{"0", false},
		{"maybe", false},
	}
	for _, c := range cases {
		dir := t.TempDir()
		path := writeArticle(t, dir, "a.md", "---\nid: a\ndiscord_announce: \""+c.value+"\"\n---\n")
		item, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile(%q): %v", c.value, err)
		}
		if item.AnnounceEnabled != c.want {
			t.Fatalf("discord_announce %q: expected %v", c.value, c.want)
		}
	}
}

package content

import (
	"path/filepath"
	"testing"
)

func TestListMarkdownFilesSkipsHiddenDirs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeArticle(t, dir, "news/2025/a.md", sampleArticle)
	writeArticle(t, dir, "news/2025/notes.txt", "not markdown")
	writeArticle(t, dir, "_templates/t.md", sampleArticle)
	writeArticle(t, dir, ".obsidian/workspace.md", sampleArticle)
	writeArticle(t, dir, "news/.trash/old.md", sampleArticle)

	files, err := ListMarkdownFiles(dir)
	if err != nil {
		t.Fatalf("ListMarkdownFiles: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("expected exactly one file, got %v", files)
	}
	if filepath.Base(files[0]) != "a.md" {
		t.Fatalf("unexpected file: %s", files[0])
	}
}

func TestLoadTreeReportsBadFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeArticle(t, dir, "good.md", sampleArticle)
	writeArticle(t, dir, "bad.md", "no frontmatter\n")

	results, err := LoadTree(dir)
	if err != nil {
		t.Fatalf("LoadTree: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected two results, got %d", len(results))
	}
	var okCount, errCount int
	for _, r := range results {
		if r.Err != nil {
			errCount++
		} else {
			okCount++
		}
	}
	if okCount != 1 || errCount != 1 {
		t.Fatalf("expected one ok and one failure, got ok=%d err=%d", okCount, errCount)
	}
}

func TestLoadTreeMissingRoot(t *testing.T) {
	t.Parallel()

	if _, err := LoadTree(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatalf("expected error for missing root")
	}
}

package content

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// ListMarkdownFiles walks root recursively and returns every *.md file.
// Directories whose name starts with "_" or "." are skipped entirely: those
// hold templates, references, and editor state (content/_templates,
// content/.obsidian, content/.trash) that must never reach the pipeline.
func ListMarkdownFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(strings.ToLower(name), ".md") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// LoadTree loads every markdown file under root. Files that cannot be parsed
// are reported in their FileResult, never dropped silently, and never abort
// the batch.
func LoadTree(root string) ([]FileResult, error) {
	files, err := ListMarkdownFiles(root)
	if err != nil {
		return nil, err
	}
	results := make([]FileResult, 0, len(files))
	for _, path := range files {
		item, err := LoadFile(path)
		results = append(results, FileResult{Path: path, Item: item, Err: err})
	}
	return results, nil
}

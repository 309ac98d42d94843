package content

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const frontmatterDelim = "---"

// frontmatter mirrors the YAML block at the top of an article file. Field
// types are deliberately loose: editors write `authors: Jane` as often as a
// proper list, and `discord_announce: yes` as often as a boolean.
type frontmatter struct {
	ID              string     `yaml:"id"`
	Title           string     `yaml:"title"`
	Section         string     `yaml:"section"`
	Authors         stringList `yaml:"authors"`
	Tags            stringList `yaml:"tags"`
	Status          string     `yaml:"status"`
	PublishAt       string     `yaml:"publish_at"`
	Teaser          string     `yaml:"teaser"`
	DiscordAnnounce truthy     `yaml:"discord_announce"`
	Image           *imageMeta `yaml:"image"`
}

type imageMeta struct {
	Src    string `yaml:"src"`
	Credit string `yaml:"credit"`
	Source string `yaml:"source"`
	Kind   string `yaml:"image_type"`
}

// stringList accepts either a YAML sequence or a single scalar.
type stringList []string

func (l *stringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*l = cleanStrings(items)
		return nil
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*l = cleanStrings([]string{s})
		return nil
	default:
		return fmt.Errorf("expected scalar or sequence, got yaml kind %d", node.Kind)
	}
}

func cleanStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// truthy accepts booleans plus the usual frontmatter spellings of "on".
type truthy bool

func (b *truthy) UnmarshalYAML(node *yaml.Node) error {
	var v bool
	if err := node.Decode(&v); err == nil {
		*b = truthy(v)
		return nil
	}
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		*b = true
	default:
		*b = false
	}
	return nil
}

// SplitFrontmatter separates the leading YAML block from the article body.
// The block starts with a `---` line and ends at the next one. Files without
// a valid block return ok=false with the input untouched as body.
func SplitFrontmatter(text string) (block, body string, ok bool) {
	lines := strings.Split(text, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != frontmatterDelim {
		return "", text, false
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == frontmatterDelim {
			block = strings.TrimSpace(strings.Join(lines[1:i], "\n"))
			body = strings.TrimLeft(strings.Join(lines[i+1:], "\n"), "\n")
			return block, body, true
		}
	}
	return "", text, false
}

// LoadFile reads one markdown file and builds its Item.
func LoadFile(path string) (Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Item{}, fmt.Errorf("read failed: %w", err)
	}

	block, _, ok := SplitFrontmatter(string(data))
	if !ok || block == "" {
		return Item{}, fmt.Errorf("missing or invalid frontmatter")
	}

	var fm frontmatter
	if err := yaml.Unmarshal([]byte(block), &fm); err != nil {
		return Item{}, fmt.Errorf("failed to parse YAML frontmatter: %w", err)
	}

	status := strings.ToLower(strings.TrimSpace(fm.Status))
	if status == "" {
		status = string(StatusDraft)
	}

	item := Item{
		ID:              strings.TrimSpace(fm.ID),
		Title:           strings.TrimSpace(fm.Title),
		Section:         strings.TrimSpace(fm.Section),
		Authors:         fm.Authors,
		Tags:            fm.Tags,
		Status:          Status(status),
		PublishAt:       strings.TrimSpace(fm.PublishAt),
		AnnounceEnabled: bool(fm.DiscordAnnounce),
		Teaser:          strings.TrimSpace(fm.Teaser),
		Path:            path,
	}
	if fm.Image != nil {
		item.Image = &Image{
			Src:    strings.TrimSpace(fm.Image.Src),
			Credit: strings.TrimSpace(fm.Image.Credit),
			Source: strings.TrimSpace(fm.Image.Source),
			Kind:   strings.ToLower(strings.TrimSpace(fm.Image.Kind)),
		}
	}
	return item, nil
}

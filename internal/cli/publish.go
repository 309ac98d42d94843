package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/Saffen/thelionsroar/internal/content"
	"github.com/Saffen/thelionsroar/internal/decision"
)

func newPublishCmd() *cobra.Command {
	var (
		tzName string
		nowRaw string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "publish <path>",
		Short: "Evaluate publish decisions for a file or a content tree",
		Long: "Evaluate the frontmatter of one markdown file (single mode) or every markdown\n" +
			"file under a directory (bulk mode, skipping editor folders starting with '_'\n" +
			"or '.') and report what would be built, published, and announced.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			now, loc, err := resolveClock(tzName, nowRaw)
			if err != nil {
				return &ExitError{Code: 2, Err: err}
			}

			target := args[0]
			info, err := os.Stat(target)
			if err != nil {
				return exitf(2, "cannot access %s: %v", target, err)
			}

			out := cmd.OutOrStdout()
			if info.IsDir() {
				return runPublishBulk(out, target, now, loc, asJSON)
			}
			return runPublishSingle(out, target, now, loc, asJSON)
		},
	}

	cmd.Flags().StringVar(&tzName, "tz", "Europe/Copenhagen", "timezone for naive datetimes")
	cmd.Flags().StringVar(&nowRaw, "now", "", `override "now" (e.g. "2025-12-31 20:00")`)
	cmd.Flags().BoolVar(&asJSON, "json", false, "output machine-readable JSON")

	return cmd
}

// frontmatterSummary is the JSON rendering of an item, mirroring the
// frontmatter field names so downstream tooling sees the authored shape.
type frontmatterSummary struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	Section         string        `json:"section"`
	Authors         []string      `json:"authors"`
	PublishAt       string        `json:"publish_at"`
	Status          string        `json:"status"`
	Tags            []string      `json:"tags"`
	DiscordAnnounce bool          `json:"discord_announce"`
	Teaser          string        `json:"teaser,omitempty"`
	Image           *imageSummary `json:"image,omitempty"`
}

type imageSummary struct {
	Src       string `json:"src"`
	Credit    string `json:"credit,omitempty"`
	Source    string `json:"source,omitempty"`
	ImageType string `json:"image_type,omitempty"`
}

func summarize(item content.Item) *frontmatterSummary {
	fm := &frontmatterSummary{
		ID:              item.ID,
		Title:           item.Title,
		Section:         item.Section,
		Authors:         item.Authors,
		PublishAt:       item.PublishAt,
		Status:          string(item.Status),
		Tags:            item.Tags,
		DiscordAnnounce: item.AnnounceEnabled,
		Teaser:          item.Teaser,
	}
	if item.Image != nil {
		fm.Image = &imageSummary{
			Src:       item.Image.Src,
			Credit:    item.Image.Credit,
			Source:    item.Image.Source,
			ImageType: item.Image.Kind,
		}
	}
	return fm
}

type publishResult struct {
	Path        string              `json:"path"`
	OK          bool                `json:"ok"`
	Error       string              `json:"error,omitempty"`
	Frontmatter *frontmatterSummary `json:"frontmatter"`
	Decisions   *decision.Decision  `json:"decisions"`

	item content.Item
}

func runPublishSingle(w io.Writer, path string, now time.Time, loc *time.Location, asJSON bool) error {
	item, err := content.LoadFile(path)
	if err != nil {
		if asJSON {
			printJSON(w, map[string]any{"path": path, "ok": false, "error": err.Error()})
		} else {
			fmt.Fprintf(w, "No valid frontmatter found: %v\n", err)
		}
		return &ExitError{Code: 1}
	}

	d := decision.Decide(item, now, loc)

	if asJSON {
		printJSON(w, map[string]any{
			"path":        path,
			"now":         now.Format(time.RFC3339),
			"frontmatter": summarize(item),
			"decisions":   d,
		})
		return nil
	}

	fm := summarize(item)
	fmt.Fprintln(w, "== Frontmatter summary ==")
	fmt.Fprintf(w, "id:          %s\n", fm.ID)
	fmt.Fprintf(w, "title:       %s\n", fm.Title)
	fmt.Fprintf(w, "section:     %s\n", fm.Section)
	fmt.Fprintf(w, "authors:     %v\n", fm.Authors)
	fmt.Fprintf(w, "publish_at:  %s\n", fm.PublishAt)
	fmt.Fprintf(w, "status:      %s\n", fm.Status)
	fmt.Fprintf(w, "tags:        %v\n", fm.Tags)
	if fm.Image != nil {
		fmt.Fprintln(w, "image:")
		fmt.Fprintf(w, "  src:        %s\n", fm.Image.Src)
		fmt.Fprintf(w, "  credit:     %s\n", fm.Image.Credit)
		fmt.Fprintf(w, "  source:     %s\n", fm.Image.Source)
		fmt.Fprintf(w, "  image_type: %s\n", fm.Image.ImageType)
	}
	fmt.Fprintf(w, "discord_announce: %t\n", fm.DiscordAnnounce)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "== Decisions ==")
	fmt.Fprintf(w, "now:                     %s\n", now.Format(time.RFC3339))
	fmt.Fprintf(w, "should_build:            %t\n", d.ShouldBuild)
	fmt.Fprintf(w, "should_publish:          %t\n", d.ShouldPublish)
	fmt.Fprintf(w, "should_announce_discord: %t\n", d.ShouldAnnounce)

	if len(d.Reasons) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "== Notes / reasons ==")
		for _, r := range d.Reasons {
			fmt.Fprintf(w, "- %s\n", r)
		}
	}

	return nil
}

func runPublishBulk(w io.Writer, root string, now time.Time, loc *time.Location, asJSON bool) error {
	files, err := content.LoadTree(root)
	if err != nil {
		return exitf(2, "scan failed: %v", err)
	}

	if len(files) == 0 {
		if asJSON {
			printJSON(w, []any{})
		} else {
			fmt.Fprintln(w, "No .md files found.")
		}
		return nil
	}

	results := make([]publishResult, 0, len(files))
	for _, f := range files {
		r := publishResult{Path: relPath(f.Path, root), item: f.Item}
		if f.Err != nil {
			r.Error = f.Err.Error()
		} else {
			r.OK = true
			d := decision.Decide(f.Item, now, loc)
			r.Frontmatter = summarize(f.Item)
			r.Decisions = &d
		}
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })

	if asJSON {
		printJSON(w, results)
		for _, r := range results {
			if !r.OK {
				return &ExitError{Code: 1}
			}
		}
		return nil
	}

	var publishNow, scheduledLater, draftsReview, published, archived, problems []publishResult
	for _, r := range results {
		switch {
		case !r.OK:
			problems = append(problems, r)
		case r.Decisions.Status == content.StatusArchived:
			archived = append(archived, r)
		case r.Decisions.Status == content.StatusPublished:
			published = append(published, r)
		case r.Decisions.Status == content.StatusScheduled:
			if r.Decisions.ShouldPublish {
				publishNow = append(publishNow, r)
			} else {
				scheduledLater = append(scheduledLater, r)
			}
		case r.Decisions.Status == content.StatusDraft || r.Decisions.Status == content.StatusReview:
			draftsReview = append(draftsReview, r)
		default:
			problems = append(problems, r)
		}
	}

	showGroup := func(title string, items []publishResult) {
		fmt.Fprintf(w, "\n== %s (%d) ==\n", title, len(items))
		for _, it := range items {
			fmt.Fprintf(w, "- %s\n", it.Path)
			if it.item.ID != "" || it.item.Title != "" {
				fmt.Fprintf(w, "  id: %s\n", it.item.ID)
				fmt.Fprintf(w, "  title: %s\n", it.item.Title)
			}
		}
	}

	showGroup("PUBLISH NOW", publishNow)
	showGroup("SCHEDULED LATER", scheduledLater)
	showGroup("DRAFT/REVIEW", draftsReview)
	showGroup("PUBLISHED", published)
	showGroup("ARCHIVED", archived)

	if len(problems) > 0 {
		fmt.Fprintf(w, "\n== PROBLEMS (%d) ==\n", len(problems))
		for _, it := range problems {
			fmt.Fprintf(w, "- %s\n", it.Path)
			if it.Error != "" {
				fmt.Fprintf(w, "  error: %s\n", it.Error)
			}
		}
		return &ExitError{Code: 1}
	}

	return nil
}

func relPath(path, base string) string {
	if rel, err := filepath.Rel(base, path); err == nil {
		return rel
	}
	return path
}

func printJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

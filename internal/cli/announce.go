package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Saffen/thelionsroar/internal/content"
	"github.com/Saffen/thelionsroar/internal/decision"
	"github.com/Saffen/thelionsroar/internal/dispatch"
	"github.com/Saffen/thelionsroar/internal/ledger"
	"github.com/Saffen/thelionsroar/pkg/clients/discord"
	"github.com/Saffen/thelionsroar/pkg/config"
	"github.com/Saffen/thelionsroar/pkg/logging"
	"github.com/Saffen/thelionsroar/pkg/monitoring"
	"github.com/Saffen/thelionsroar/pkg/version"
)

func newAnnounceCmd() *cobra.Command {
	var (
		statePath string
		apply     bool
		limit     int
		workers   int
		tzName    string
		nowRaw    string
	)

	cmd := &cobra.Command{
		Use:   "announce [content-dir]",
		Short: "Create forum threads and announcement posts for publishable articles",
		Long: "Scan the content tree, pick articles whose decisions say they should be\n" +
			"announced, and perform the missing Discord actions. Completed actions are\n" +
			"recorded in the state file and never repeated. Default is a dry run; pass\n" +
			"--apply to post and write state.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.NewLoggerWithComponent("announce")
			config.LoadEnv(logger)
			settings := config.FromEnv()

			if statePath != "" {
				settings.StatePath = statePath
			}
			if cmd.Flags().Changed("limit") {
				settings.Limit = limit
			}
			if cmd.Flags().Changed("workers") {
				settings.Workers = workers
			}
			if tzName == "" {
				tzName = settings.Timezone
			}

			contentDir := settings.ContentDir
			if len(args) == 1 {
				contentDir = args[0]
			}

			now, loc, err := resolveClock(tzName, nowRaw)
			if err != nil {
				return &ExitError{Code: 2, Err: err}
			}

			if apply {
				if err := settings.ValidateForAnnounce(); err != nil {
					return &ExitError{Code: 2, Err: err}
				}
			}

			files, err := content.LoadTree(contentDir)
			if err != nil {
				return exitf(2, "scan failed: %v", err)
			}

			candidates := selectCandidates(files, now, loc, settings.Limit)

			out := cmd.OutOrStdout()
			if len(candidates) == 0 {
				fmt.Fprintln(out, "No publishable articles found.")
				return nil
			}

			led := ledger.Load(settings.StatePath)

			client := discord.NewClient(discord.Config{
				ForumWebhookURL:    settings.ForumWebhookURL,
				AnnounceWebhookURL: settings.AnnounceWebhookURL,
				Username:           settings.Username,
				AvatarURL:          settings.AvatarURL,
			})

			metrics := monitoring.NewMetricsCollector("lionsroar", version.Version, version.GitCommit)

			d := dispatch.New(client, led, logger, dispatch.Options{
				SiteBaseURL: settings.SiteBaseURL,
				StatePath:   settings.StatePath,
				Location:    loc,
				Workers:     settings.Workers,
				Metrics:     metrics.CreateDispatchMetrics(),
			})

			if !apply {
				report := d.DryRun(candidates)
				if !report.HasPendingWork() {
					fmt.Fprintln(out, "Nothing to do. Forum threads and announcements already recorded in state.")
					return nil
				}
				printPending(out, report)
				fmt.Fprintln(out, "Dry-run only. Re-run with --apply to post and write ids to state.")
				return &ExitError{Code: 10}
			}

			if pending := d.Pending(candidates); len(pending) == 0 {
				fmt.Fprintln(out, "Nothing to do. Forum threads and announcements already recorded in state.")
				return nil
			}

			report := d.Run(cmd.Context(), candidates)
			printPending(out, report)

			fmt.Fprintf(out, "\nUpdated state: %s\n", settings.StatePath)
			fmt.Fprintf(out, "Forum threads created: %d\n", report.ThreadsCreated)
			fmt.Fprintf(out, "Announcements posted: %d\n", report.AnnouncementsPosted)
			for _, f := range report.Failures {
				fmt.Fprintf(out, "FAILED %s (%s): %s\n", f.ID, f.Action, f.Err)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&statePath, "state", "", "state file path (default: state/published.json)")
	cmd.Flags().BoolVar(&apply, "apply", false, "actually post to Discord and write state (default is dry-run)")
	cmd.Flags().IntVar(&limit, "limit", 20, "max number of articles to process per run")
	cmd.Flags().IntVar(&workers, "workers", 1, "bounded worker pool size, 1 means sequential")
	cmd.Flags().StringVar(&tzName, "tz", "", "timezone for naive datetimes (default: PUBLISH_TZ)")
	cmd.Flags().StringVar(&nowRaw, "now", "", `override "now" for decision evaluation`)

	return cmd
}

// selectCandidates runs the decision engine over the scan results and keeps
// the announceable items. Items without an id cannot be tracked in state and
// are skipped.
func selectCandidates(files []content.FileResult, now time.Time, loc *time.Location, limit int) []dispatch.Candidate {
	var candidates []dispatch.Candidate
	for _, f := range files {
		if f.Err != nil || f.Item.ID == "" {
			continue
		}
		d := decision.Decide(f.Item, now, loc)
		if !d.ShouldAnnounce {
			continue
		}
		candidates = append(candidates, dispatch.Candidate{Item: f.Item, Decision: d})
	}
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

func printPending(w io.Writer, report *dispatch.Report) {
	if len(report.Pending) == 0 {
		return
	}
	fmt.Fprintln(w, "Pending Discord actions:")
	for _, p := range report.Pending {
		var flags []string
		if p.NeedThread {
			flags = append(flags, "forum")
		}
		if p.NeedCrosspost {
			flags = append(flags, "announce")
		}
		fmt.Fprintf(w, "- %s (id: %s) -> %s\n", p.Path, p.ID, strings.Join(flags, ", "))
	}
	fmt.Fprintln(w)
}

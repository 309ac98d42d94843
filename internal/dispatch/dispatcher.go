// Package dispatch executes the two chained Discord actions for every
// announceable article: create a forum thread, then post an announcement
// referencing it. The ledger guarantees each action runs at most once per
// article across any number of runs; progress is persisted after every
// successful action so a crash loses at most the in-flight call.
package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Saffen/thelionsroar/internal/content"
	"github.com/Saffen/thelionsroar/internal/decision"
	"github.com/Saffen/thelionsroar/internal/ledger"
	"github.com/Saffen/thelionsroar/pkg/clients/discord"
	"github.com/Saffen/thelionsroar/pkg/logging"
	"github.com/Saffen/thelionsroar/pkg/monitoring"
)

// WebhookSender is the boundary to the notification provider. One call per
// operation, bounded timeout, no internal retries.
type WebhookSender interface {
	CreateThread(ctx context.Context, req discord.ThreadRequest) (*discord.ThreadResponse, error)
	PostMessage(ctx context.Context, req discord.MessageRequest) (*discord.MessageResponse, error)
}

// Candidate pairs an article with its evaluated decision. The dispatcher
// only ever receives candidates whose decision says to announce.
type Candidate struct {
	Item     content.Item
	Decision decision.Decision
}

// PendingActions describes what is still missing for one article.
type PendingActions struct {
	ID            string `json:"id"`
	Path          string `json:"path"`
	NeedThread    bool   `json:"need_thread"`
	NeedCrosspost bool   `json:"need_crosspost"`
}

// Failure records a per-item problem. Failures never abort the batch.
type Failure struct {
	ID     string `json:"id"`
	Action string `json:"action"`
	Err    string `json:"error"`
}

// Report summarizes one dispatcher run.
type Report struct {
	RunID               string           `json:"run_id"`
	DryRun              bool             `json:"dry_run"`
	ThreadsCreated      int              `json:"threads_created"`
	AnnouncementsPosted int              `json:"announcements_posted"`
	AlreadyComplete     int              `json:"already_complete"`
	Pending             []PendingActions `json:"pending"`
	Failures            []Failure        `json:"failures"`
}

// HasPendingWork reports whether any article still needs an action.
func (r *Report) HasPendingWork() bool {
	return len(r.Pending) > 0
}

// Options configures a Dispatcher.
type Options struct {
	// SiteBaseURL builds article and asset URLs; empty disables them.
	SiteBaseURL string

	// StatePath is where the ledger is persisted after every action.
	StatePath string

	// Location interprets naive publish_at stamps for display.
	Location *time.Location

	// Workers bounds the worker pool. Values below 2 mean sequential
	// processing in input order.
	Workers int

	// Now overrides the clock in tests.
	Now func() time.Time

	// Metrics is optional; a nil value disables instrumentation.
	Metrics *monitoring.DispatchMetrics
}

// Dispatcher drives pending webhook actions against the ledger.
type Dispatcher struct {
	sender WebhookSender
	ledger *ledger.Ledger
	logger logging.Logger
	opts   Options

	// mu serializes every ledger read-modify-write and save. Items may be
	// processed in parallel but ledger writes must not interleave.
	mu sync.Mutex
}

// New creates a Dispatcher.
func New(sender WebhookSender, led *ledger.Ledger, logger logging.Logger, opts Options) *Dispatcher {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Dispatcher{sender: sender, ledger: led, logger: logger, opts: opts}
}

// Pending computes the outstanding actions for the given candidates without
// invoking the webhook client or mutating the ledger. This is the dry-run
// path: safe to call before committing to side effects.
func (d *Dispatcher) Pending(candidates []Candidate) []PendingActions {
	var pending []PendingActions
	for _, c := range candidates {
		needThread, needCrosspost := d.needs(c.Item.ID)
		if !needThread && !needCrosspost {
			continue
		}
		pending = append(pending, PendingActions{
			ID:            c.Item.ID,
			Path:          c.Item.Path,
			NeedThread:    needThread,
			NeedCrosspost: needCrosspost,
		})
	}
	return pending
}

// DryRun builds the report for a run that applies nothing.
func (d *Dispatcher) DryRun(candidates []Candidate) *Report {
	report := &Report{RunID: uuid.NewString(), DryRun: true}
	report.Pending = d.Pending(candidates)
	report.AlreadyComplete = len(candidates) - len(report.Pending)
	return report
}

// Run executes all pending actions for the candidates. Items are
// independent: one item's failure never aborts the batch. Within an item the
// thread action strictly precedes the crosspost action.
func (d *Dispatcher) Run(ctx context.Context, candidates []Candidate) *Report {
	report := &Report{RunID: uuid.NewString()}
	log := d.logger.WithField("run_id", report.RunID)
	started := time.Now()

	var reportMu sync.Mutex

	process := func(c Candidate) {
		outcome := d.processItem(ctx, c)

		reportMu.Lock()
		defer reportMu.Unlock()
		report.ThreadsCreated += outcome.threadsCreated
		report.AnnouncementsPosted += outcome.announcementsPosted
		if outcome.alreadyComplete {
			report.AlreadyComplete++
		}
		report.Failures = append(report.Failures, outcome.failures...)
		if outcome.pending != nil {
			report.Pending = append(report.Pending, *outcome.pending)
		}
	}

	if d.opts.Workers > 1 {
		var g errgroup.Group
		g.SetLimit(d.opts.Workers)
		for _, c := range candidates {
			c := c
			g.Go(func() error {
				process(c)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for _, c := range candidates {
			process(c)
		}
	}

	d.opts.Metrics.ObserveRun("apply", time.Since(started).Seconds())

	log.WithFields(logging.Fields{
		"threads_created":      report.ThreadsCreated,
		"announcements_posted": report.AnnouncementsPosted,
		"failures":             len(report.Failures),
	}).Info("Announce run finished")

	return report
}

type itemOutcome struct {
	threadsCreated      int
	announcementsPosted int
	alreadyComplete     bool
	failures            []Failure
	pending             *PendingActions
}

func (d *Dispatcher) processItem(ctx context.Context, c Candidate) itemOutcome {
	var out itemOutcome
	item := c.Item
	log := d.logger.WithFields(logging.Fields{"id": item.ID, "path": item.Path})

	needThread, needCrosspost, threadID := d.ensure(item)
	if !needThread && !needCrosspost {
		out.alreadyComplete = true
		return out
	}

	if needThread {
		req := buildThreadRequest(item, d.opts.SiteBaseURL, d.opts.Location)
		resp, err := d.sender.CreateThread(ctx, req)
		if err != nil {
			log.WithError(err).Error("Forum thread creation failed")
			d.opts.Metrics.IncWebhookFailure("thread")
			out.failures = append(out.failures, Failure{ID: item.ID, Action: "thread", Err: err.Error()})
			out.pending = &PendingActions{ID: item.ID, Path: item.Path, NeedThread: true, NeedCrosspost: needCrosspost}
			return out
		}
		if resp.ThreadID == "" || resp.StarterMessageID == "" {
			log.Error("Forum response missing identifiers, not recording")
			d.opts.Metrics.IncWebhookFailure("thread")
			out.failures = append(out.failures, Failure{ID: item.ID, Action: "thread", Err: "response missing thread or starter message id"})
			out.pending = &PendingActions{ID: item.ID, Path: item.Path, NeedThread: true, NeedCrosspost: needCrosspost}
			return out
		}

		d.recordThread(item.ID, resp)
		d.opts.Metrics.IncThreadCreated()
		out.threadsCreated++
		threadID = resp.ThreadID
		log.WithField("thread_id", threadID).Info("Forum thread created")
	}

	if needCrosspost {
		req := buildMessageRequest(item, d.opts.SiteBaseURL, threadID)
		resp, err := d.sender.PostMessage(ctx, req)
		if err != nil {
			log.WithError(err).Error("Announcement post failed")
			d.opts.Metrics.IncWebhookFailure("crosspost")
			out.failures = append(out.failures, Failure{ID: item.ID, Action: "crosspost", Err: err.Error()})
			out.pending = &PendingActions{ID: item.ID, Path: item.Path, NeedCrosspost: true}
			return out
		}
		if resp.MessageID == "" {
			log.Error("Announce response missing message id, not recording")
			d.opts.Metrics.IncWebhookFailure("crosspost")
			out.failures = append(out.failures, Failure{ID: item.ID, Action: "crosspost", Err: "response missing message id"})
			out.pending = &PendingActions{ID: item.ID, Path: item.Path, NeedCrosspost: true}
			return out
		}

		d.recordCrosspost(item.ID, resp)
		d.opts.Metrics.IncAnnouncementPosted()
		out.announcementsPosted++
		log.WithField("message_id", resp.MessageID).Info("Announcement posted")
	}

	return out
}

// needs reads the ledger without mutating it.
func (d *Dispatcher) needs(id string) (needThread, needCrosspost bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	entry := d.ledger.Entry(id)
	if entry == nil {
		return true, true
	}
	return entry.Discord.Forum == nil, entry.Discord.Announce == nil
}

// ensure creates the ledger entry on first sighting and reports the pending
// actions plus the already-known thread id, if any.
func (d *Dispatcher) ensure(item content.Item) (needThread, needCrosspost bool, threadID string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	entry := d.ledger.Ensure(item.ID, ledger.Snapshot{
		Path:      item.Path,
		Title:     item.Title,
		Section:   item.Section,
		PublishAt: item.PublishAt,
	}, d.opts.Now())

	needThread = entry.Discord.Forum == nil
	needCrosspost = entry.Discord.Announce == nil
	if entry.Discord.Forum != nil {
		threadID = entry.Discord.Forum.ThreadID
	}
	return needThread, needCrosspost, threadID
}

// recordThread writes the forum action record and persists the ledger
// immediately. A save failure is logged but does not abort the run: the
// record stays in memory and a later save in the same run will carry it.
// Losing the write entirely means the thread may be created again on the
// next run; that at-least-once tradeoff is accepted.
func (d *Dispatcher) recordThread(id string, resp *discord.ThreadResponse) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := ledger.Timestamp(d.opts.Now())
	entry := d.ledger.Entry(id)
	entry.Discord.Forum = &ledger.ForumRecord{
		ThreadID:         resp.ThreadID,
		StarterMessageID: resp.StarterMessageID,
		PostedAt:         now,
	}
	entry.LastAction = &ledger.LastAction{Action: "forum_post", At: now}
	if err := d.ledger.Save(d.opts.StatePath); err != nil {
		d.logger.WithError(err).WithField("id", id).Error("Failed to persist state after forum post")
	}
}

func (d *Dispatcher) recordCrosspost(id string, resp *discord.MessageResponse) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := ledger.Timestamp(d.opts.Now())
	entry := d.ledger.Entry(id)
	entry.Discord.Announce = &ledger.AnnounceRecord{
		MessageID: resp.MessageID,
		PostedAt:  now,
	}
	entry.LastAction = &ledger.LastAction{Action: "announce_post", At: now}
	if err := d.ledger.Save(d.opts.StatePath); err != nil {
		d.logger.WithError(err).WithField("id", id).Error("Failed to persist state after announcement")
	}
}

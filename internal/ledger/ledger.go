// Package ledger persists which Discord actions have already been performed
// for each article. A recorded action is never repeated; the ledger is the
// only thing standing between a re-run and duplicate announcements.
package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ForumRecord is written after a forum thread was successfully created.
type ForumRecord struct {
	ThreadID         string `json:"thread_id"`
	StarterMessageID string `json:"starter_message_id"`
	PostedAt         string `json:"posted_at"`
}

// AnnounceRecord is written after the announcement message was posted.
type AnnounceRecord struct {
	MessageID string `json:"message_id"`
	PostedAt  string `json:"posted_at"`
}

// DiscordActions tracks the two chained side effects per article. A nil
// record means pending or never attempted; the two are indistinguishable on
// purpose, both are retried on the next run.
type DiscordActions struct {
	Forum    *ForumRecord    `json:"forum"`
	Announce *AnnounceRecord `json:"announce"`
}

// LastAction records the most recent write for operator forensics.
type LastAction struct {
	Action string `json:"action"`
	At     string `json:"at"`
}

// Entry is the per-article ledger record. The snapshot fields are set once
// on first sighting and never overwritten; action records only accumulate.
type Entry struct {
	Path       string         `json:"path"`
	Title      string         `json:"title"`
	Section    string         `json:"section"`
	PublishAt  string         `json:"publish_at"`
	RecordedAt string         `json:"recorded_at"`
	Discord    DiscordActions `json:"discord"`
	LastAction *LastAction    `json:"discord_last_action,omitempty"`
}

// Snapshot carries the denormalized article fields recorded on first sighting.
type Snapshot struct {
	Path      string
	Title     string
	Section   string
	PublishAt string
}

// Ledger maps article ids to their entries.
type Ledger struct {
	entries map[string]*Entry
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{entries: make(map[string]*Entry)}
}

// Load reads the ledger file. A missing or unreadable file yields an empty
// ledger, never an error: losing the state re-sends notifications, halting
// the pipeline loses publishes. Entries in older or foreign shapes are
// normalized without discarding fields that are already present.
func Load(path string) *Ledger {
	l := New()

	data, err := os.ReadFile(path)
	if err != nil {
		return l
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return l
	}

	for id, msg := range raw {
		entry := decodeEntry(msg)
		if entry == nil {
			continue
		}
		l.entries[id] = entry
	}
	return l
}

// decodeEntry upgrades any previously observed entry shape to the canonical
// one. Older ledgers stored `"discord": null` as a placeholder; others may
// carry a foreign discord value entirely.
func decodeEntry(msg json.RawMessage) *Entry {
	var entry Entry
	if err := json.Unmarshal(msg, &entry); err == nil {
		return &entry
	}

	// The strict decode failed, most likely on the discord sub-structure.
	// Salvage the base fields and reset the actions to "nothing recorded".
	var loose struct {
		Path       string `json:"path"`
		Title      string `json:"title"`
		Section    string `json:"section"`
		PublishAt  string `json:"publish_at"`
		RecordedAt string `json:"recorded_at"`
	}
	if err := json.Unmarshal(msg, &loose); err != nil {
		return nil
	}
	return &Entry{
		Path:       loose.Path,
		Title:      loose.Title,
		Section:    loose.Section,
		PublishAt:  loose.PublishAt,
		RecordedAt: loose.RecordedAt,
	}
}

// Entry returns the record for id, or nil when the id has never been seen.
func (l *Ledger) Entry(id string) *Entry {
	return l.entries[id]
}

// Len returns the number of recorded articles.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Ensure returns the entry for id, creating it on first sighting. Snapshot
// fields are only filled where empty; existing values are never overwritten.
func (l *Ledger) Ensure(id string, snap Snapshot, now time.Time) *Entry {
	entry, ok := l.entries[id]
	if !ok {
		entry = &Entry{
			Path:       snap.Path,
			Title:      snap.Title,
			Section:    snap.Section,
			PublishAt:  snap.PublishAt,
			RecordedAt: Timestamp(now),
		}
		l.entries[id] = entry
		return entry
	}

	if entry.Path == "" {
		entry.Path = snap.Path
	}
	if entry.Title == "" {
		entry.Title = snap.Title
	}
	if entry.Section == "" {
		entry.Section = snap.Section
	}
	if entry.PublishAt == "" {
		entry.PublishAt = snap.PublishAt
	}
	if entry.RecordedAt == "" {
		entry.RecordedAt = Timestamp(now)
	}
	return entry
}

// Save writes the ledger atomically: marshal to a temp file in the target
// directory, then rename over the destination. A reader never observes a
// half-written file.
func (l *Ledger) Save(path string) error {
	data, err := json.MarshalIndent(l.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal ledger: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close state file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

// Timestamp renders a ledger timestamp: UTC, second precision, Z suffix.
func Timestamp(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format("2006-01-02T15:04:05Z")
}

package schedule

import (
	"testing"
	"time"
)

func TestParseNaiveLocalized(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation("Europe/Copenhagen")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	got, ok := Parse("2025-01-10 12:00", loc)
	if !ok {
		t.Fatalf("expected parse to succeed")
	}
	if got.Location() != loc {
		t.Fatalf("expected naive stamp in configured zone, got %v", got.Location())
	}
	if got.Hour() != 12 || got.Minute() != 0 {
		t.Fatalf("unexpected wall clock: %v", got)
	}
}

func TestParseKeepsExplicitOffset(t *testing.T) {
	t.Parallel()

	loc, _ := time.LoadLocation("Europe/Copenhagen")
	got, ok := Parse("2025-01-10T12:00:00Z", loc)
	if !ok {
		t.Fatalf("expected parse to succeed")
	}
	if !got.Equal(time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected UTC instant preserved, got %v", got)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	t.Parallel()

	cases := []string{"", "   ", "not a date", "2025-13-40 99:99"}
	for _, c := range cases {
		if _, ok := Parse(c, time.UTC); ok {
			t.Fatalf("expected %q to fail", c)
		}
	}
}

func TestParseDateOnly(t *testing.T) {
	t.Parallel()

	got, ok := Parse("2025-06-01", time.UTC)
	if !ok {
		t.Fatalf("expected parse to succeed")
	}
	if got.Hour() != 0 {
		t.Fatalf("expected midnight, got %v", got)
	}
}

func TestFormatPublishTime(t *testing.T) {
	t.Parallel()

	if got := FormatPublishTime("2025-01-10T12:00:00Z", time.UTC); got != "2025-01-10 12:00 UTC" {
		t.Fatalf("unexpected format: %q", got)
	}
	if got := FormatPublishTime("someday soon ", time.UTC); got != "someday soon" {
		t.Fatalf("expected passthrough, got %q", got)
	}
}

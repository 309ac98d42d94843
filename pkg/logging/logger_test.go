package logging

import "testing"

func TestNewLoggerWithComponent(t *testing.T) {
	l := NewLoggerWithComponent("announce")
	entry := l.WithField("k", "v")
	if entry == nil {
		t.Fatalf("expected non-nil entry")
	}
}

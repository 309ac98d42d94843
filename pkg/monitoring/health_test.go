package monitoring

import (
	"path/filepath"
	"testing"
)

func TestHealthChecker_Basic(t *testing.T) {
	hc := NewHealthChecker("svc", "v1")
	hc.AddCheck("ok", func() CheckResult { return CheckResult{Status: "healthy"} })
	status := hc.CheckHealth()
	if status.Status != "healthy" {
		t.Fatalf("expected healthy")
	}
}

func TestHealthChecker_UnhealthyWins(t *testing.T) {
	hc := NewHealthChecker("svc", "v1")
	hc.AddCheck("ok", func() CheckResult { return CheckResult{Status: "healthy"} })
	hc.AddCheck("bad", func() CheckResult { return CheckResult{Status: "unhealthy"} })
	if status := hc.CheckHealth(); status.Status != "unhealthy" {
		t.Fatalf("expected unhealthy, got %q", status.Status)
	}
}

func TestConfigurationHealthCheck(t *testing.T) {
	res := ConfigurationHealthCheck(map[string]string{"SITE_BASE_URL": "https://example.org"})()
	if res.Status != "healthy" {
		t.Fatalf("expected healthy, got %q", res.Status)
	}

	res = ConfigurationHealthCheck(map[string]string{"DISCORD_WEBHOOK_URL": ""})()
	if res.Status != "unhealthy" {
		t.Fatalf("expected unhealthy for missing config, got %q", res.Status)
	}
}

func TestStateDirHealthCheck(t *testing.T) {
	res := StateDirHealthCheck(filepath.Join(t.TempDir(), "state", "published.json"))()
	if res.Status != "healthy" {
		t.Fatalf("expected healthy, got %q: %s", res.Status, res.Message)
	}
}

func TestContentDirHealthCheck_Missing(t *testing.T) {
	res := ContentDirHealthCheck(filepath.Join(t.TempDir(), "nope"))()
	if res.Status != "degraded" {
		t.Fatalf("expected degraded for missing content dir, got %q", res.Status)
	}
}

package clients

import (
	"context"
	"net/http"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/timeout"
)

// HTTPExecutorConfig configures the outbound HTTP executor. No retry
// policy: every webhook action gets exactly one attempt per run, and
// retrying means re-running the batch.
type HTTPExecutorConfig struct {
	// Timeout bounds a single call end to end. A timed-out call is
	// indistinguishable from a provider failure to the caller.
	Timeout time.Duration
}

// DefaultHTTPExecutorConfig returns the default single-attempt settings.
func DefaultHTTPExecutorConfig() HTTPExecutorConfig {
	return HTTPExecutorConfig{Timeout: 25 * time.Second}
}

// NewHTTPExecutor creates a failsafe executor enforcing the call timeout.
func NewHTTPExecutor(cfg HTTPExecutorConfig) failsafe.Executor[*http.Response] {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultHTTPExecutorConfig().Timeout
	}
	return failsafe.With(timeout.New[*http.Response](cfg.Timeout))
}

// ExecuteHTTP runs one HTTP call through the executor.
func ExecuteHTTP(ctx context.Context, executor failsafe.Executor[*http.Response], fn func() (*http.Response, error)) (*http.Response, error) {
	return executor.WithContext(ctx).Get(fn)
}

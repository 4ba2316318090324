package scoring

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/sciencedex/scorecard-audit/internal/domain/model"
)

// RateLimitedProbe wraps a Probe with a token-bucket rate limit so the
// audit pipeline does not overwhelm an external scoring service when
// probes fan out concurrently.
type RateLimitedProbe struct {
	inner   Probe
	limiter *rate.Limiter
}

// NewRateLimitedProbe wraps inner with a limit of callsPerSecond and the
// given burst. A burst below one is raised to one.
func NewRateLimitedProbe(inner Probe, callsPerSecond float64, burst int) *RateLimitedProbe {
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedProbe{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(callsPerSecond), burst),
	}
}

// Score waits for rate-limit clearance, then delegates to the wrapped probe.
func (p *RateLimitedProbe) Score(ctx context.Context, stmt model.Statement, opts Options) (float64, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("rate limit wait: %w", err)
	}
	return p.inner.Score(ctx, stmt, opts)
}

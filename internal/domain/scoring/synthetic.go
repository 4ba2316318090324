package scoring

import (
	"context"
	"hash/fnv"
	"math"
	"time"

	"github.com/sciencedex/scorecard-audit/internal/domain/model"
)

// Default synthetic probe configuration constants.
const (
	defaultMinLatency = 2 * time.Millisecond
	defaultMaxLatency = 8 * time.Millisecond
	defaultSeed       = 42
)

// SyntheticProbe simulates an external scoring service for demos and
// tests. It starts from each statement's recorded position and can inject
// configurable bias signals that the audit pipeline is expected to detect.
// Noise is derived from a hash of the statement id and the call options,
// so concurrent calls are deterministic without shared mutable state.
type SyntheticProbe struct {
	seed uint64

	// Bias knobs, all disabled by default.
	orderingBias       float64              // score drift per sequence position
	priorInfluence     float64              // pull toward the mean of prior statements
	partyLean          map[model.Party]float64 // fixed per-party offset
	batchBias          float64              // drift proportional to batch size
	contextSensitivity float64              // shift applied to anonymized copies

	// Simulated service latency range.
	minLatency time.Duration
	maxLatency time.Duration
}

// NewSyntheticProbe creates a synthetic probe with configuration options.
func NewSyntheticProbe(opts ...SyntheticOption) *SyntheticProbe {
	p := &SyntheticProbe{
		seed:       defaultSeed,
		partyLean:  map[model.Party]float64{},
		minLatency: defaultMinLatency,
		maxLatency: defaultMaxLatency,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Score computes the simulated score, honoring ctx during the latency wait.
func (p *SyntheticProbe) Score(ctx context.Context, stmt model.Statement, opts Options) (float64, error) {
	if p.maxLatency > 0 {
		latency := p.minLatency
		if span := p.maxLatency - p.minLatency; span > 0 {
			latency += time.Duration(p.noise(stmt.ID, 0) * float64(span))
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(latency):
		}
	}

	score := stmt.Position

	if p.orderingBias != 0 && !opts.Isolated && opts.TotalInSequence > 1 {
		// Later positions in a pass drift by a fixed amount per slot.
		score += p.orderingBias * float64(opts.SequencePosition)
	}

	if p.priorInfluence != 0 && len(opts.PriorStatements) > 0 {
		var priorSum float64
		for _, prior := range opts.PriorStatements {
			priorSum += prior.Position
		}
		priorMean := priorSum / float64(len(opts.PriorStatements))
		score += p.priorInfluence * (priorMean - stmt.Position) / MaxScore * 10
	}

	if lean, ok := p.partyLean[stmt.Party.Normalize()]; ok && !opts.Anonymized {
		score += lean
	}

	if p.batchBias != 0 && opts.BatchSize > 1 {
		score += p.batchBias * math.Log2(float64(opts.BatchSize))
	}

	if p.contextSensitivity != 0 && opts.Anonymized {
		score += p.contextSensitivity
	}

	return clamp(score), nil
}

// noise returns a deterministic value in [0,1) derived from the key.
func (p *SyntheticProbe) noise(key string, salt uint64) float64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	v := h.Sum64() ^ p.seed ^ salt
	// xorshift mix before mapping to the unit interval
	v ^= v << 13
	v ^= v >> 7
	v ^= v << 17
	return float64(v%1_000_000) / 1_000_000
}

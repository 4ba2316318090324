package scoring

import (
	"time"

	"github.com/sciencedex/scorecard-audit/internal/domain/model"
)

// SyntheticOption applies a configuration option to the SyntheticProbe.
type SyntheticOption func(*SyntheticProbe)

// WithSeed sets the deterministic noise seed.
func WithSeed(seed uint64) SyntheticOption {
	return func(p *SyntheticProbe) {
		p.seed = seed
	}
}

// WithLatencyRange sets the simulated service latency range. A zero max
// disables the latency wait entirely.
func WithLatencyRange(minLatency, maxLatency time.Duration) SyntheticOption {
	return func(p *SyntheticProbe) {
		if maxLatency >= minLatency {
			p.minLatency = minLatency
			p.maxLatency = maxLatency
		}
	}
}

// WithOrderingBias injects score drift proportional to sequence position.
func WithOrderingBias(perSlot float64) SyntheticOption {
	return func(p *SyntheticProbe) {
		p.orderingBias = perSlot
	}
}

// WithPriorInfluence injects a pull toward the mean of prior statements.
func WithPriorInfluence(strength float64) SyntheticOption {
	return func(p *SyntheticProbe) {
		p.priorInfluence = strength
	}
}

// WithPartyLean injects a fixed per-party score offset, suppressed when a
// call requests anonymized scoring.
func WithPartyLean(lean map[model.Party]float64) SyntheticOption {
	return func(p *SyntheticProbe) {
		p.partyLean = make(map[model.Party]float64, len(lean))
		for party, offset := range lean {
			p.partyLean[party] = offset
		}
	}
}

// WithBatchBias injects drift that grows with batch size.
func WithBatchBias(strength float64) SyntheticOption {
	return func(p *SyntheticProbe) {
		p.batchBias = strength
	}
}

// WithContextSensitivity shifts scores of anonymized copies.
func WithContextSensitivity(shift float64) SyntheticOption {
	return func(p *SyntheticProbe) {
		p.contextSensitivity = shift
	}
}

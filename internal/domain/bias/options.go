package bias

import (
	"github.com/sciencedex/scorecard-audit/pkg/logger"
)

// Default analytics parameters.
const (
	defaultSimilarityThreshold   = 0.7
	defaultMinSourceSampleSize   = 3
	defaultMinTemporalSampleSize = 10
	defaultMinCandidateSamples   = 5

	// significantDifference is the point spread that flags a topic as
	// partisan regardless of the Welch verdict.
	significantDifference = 10.0

	// semanticVarianceThreshold bounds tolerated score variance inside a
	// cluster of near-identical statements.
	semanticVarianceThreshold = 150.0
)

// Config holds the analytics thresholds and sample-size floors.
type Config struct {
	SemanticSimilarityThreshold float64
	MinSourceSampleSize         int
	MinTemporalSampleSize       int
	MinCandidateSamples         int
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		SemanticSimilarityThreshold: defaultSimilarityThreshold,
		MinSourceSampleSize:         defaultMinSourceSampleSize,
		MinTemporalSampleSize:       defaultMinTemporalSampleSize,
		MinCandidateSamples:         defaultMinCandidateSamples,
	}
}

// Validate rejects out-of-range analytics parameters.
func (c Config) Validate() error {
	if c.SemanticSimilarityThreshold <= 0 || c.SemanticSimilarityThreshold > 1 {
		return ErrInvalidConfig
	}
	if c.MinSourceSampleSize < 1 || c.MinTemporalSampleSize < 1 || c.MinCandidateSamples < 1 {
		return ErrInvalidConfig
	}
	return nil
}

// Option applies a configuration option to the Analytics runner.
type Option func(*Analytics)

// WithConfig replaces the analytics parameters wholesale.
func WithConfig(cfg Config) Option {
	return func(a *Analytics) {
		a.cfg = cfg
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(a *Analytics) {
		if l != nil {
			a.logger = l
		}
	}
}

package independence

import (
	"github.com/sciencedex/scorecard-audit/pkg/logger"
)

// Default probe thresholds and run parameters.
const (
	defaultOrderVariance           = 5.0
	defaultPriorStatementInfluence = 3.0
	defaultContextualBias          = 8.0
	defaultBatchProcessingVariance = 4.0
	defaultTemporalSequenceBias    = 6.0
	defaultOrderingIterations      = 10
	defaultConcurrency             = 8
	defaultSeed                    = 1

	// Prior-influence context construction parameters.
	positiveContextFloor = 80.0
	negativeContextCeil  = 30.0
	contextSampleSize    = 3
	mixedContextSize     = 2

	// Contextual probe: number of alternate-attribution copies per statement.
	alternateContextCount = 3
)

// defaultBatchSizes are the batch partitions exercised by the batch probe.
func defaultBatchSizes() []int { return []int{5, 10, 25, 50} }

// Config holds the probe thresholds. Every threshold bounds the maximum
// deviation a probe tolerates before failing.
type Config struct {
	OrderVariance           float64
	PriorStatementInfluence float64
	ContextualBias          float64
	BatchProcessingVariance float64
	TemporalSequenceBias    float64
	OrderingIterations      int
	BatchSizes              []int
	Concurrency             int
}

// DefaultConfig returns the documented default thresholds.
func DefaultConfig() Config {
	return Config{
		OrderVariance:           defaultOrderVariance,
		PriorStatementInfluence: defaultPriorStatementInfluence,
		ContextualBias:          defaultContextualBias,
		BatchProcessingVariance: defaultBatchProcessingVariance,
		TemporalSequenceBias:    defaultTemporalSequenceBias,
		OrderingIterations:      defaultOrderingIterations,
		BatchSizes:              defaultBatchSizes(),
		Concurrency:             defaultConcurrency,
	}
}

// Validate rejects non-positive thresholds and run parameters.
func (c Config) Validate() error {
	if c.OrderVariance <= 0 || c.PriorStatementInfluence <= 0 || c.ContextualBias <= 0 ||
		c.BatchProcessingVariance <= 0 || c.TemporalSequenceBias <= 0 {
		return ErrInvalidThreshold
	}
	if c.OrderingIterations < 1 || c.Concurrency < 1 || len(c.BatchSizes) == 0 {
		return ErrInvalidThreshold
	}
	for _, size := range c.BatchSizes {
		if size < 1 {
			return ErrInvalidThreshold
		}
	}
	return nil
}

// Option applies a configuration option to the Validator.
type Option func(*Validator)

// WithConfig replaces the probe thresholds wholesale.
func WithConfig(cfg Config) Option {
	return func(v *Validator) {
		v.cfg = cfg
	}
}

// WithConcurrency bounds the number of in-flight scoring calls.
func WithConcurrency(n int) Option {
	return func(v *Validator) {
		if n > 0 {
			v.cfg.Concurrency = n
		}
	}
}

// WithSeed fixes the permutation seed for reproducible runs.
func WithSeed(seed int64) Option {
	return func(v *Validator) {
		v.seed = seed
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(v *Validator) {
		if l != nil {
			v.logger = l
		}
	}
}

// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with documented defaults.
// - Layered loading (defaults, file, env) lives in Load.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"github.com/sciencedex/scorecard-audit/internal/domain/bias"
	"github.com/sciencedex/scorecard-audit/internal/domain/independence"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9085".
	Addr string `koanf:"addr"`

	// Independence probe thresholds. Each bounds the maximum deviation the
	// corresponding probe tolerates before failing.
	OrderVariance           float64 `koanf:"order_variance"`
	PriorStatementInfluence float64 `koanf:"prior_statement_influence"`
	ContextualBias          float64 `koanf:"contextual_bias"`
	BatchProcessingVariance float64 `koanf:"batch_processing_variance"`
	TemporalSequenceBias    float64 `koanf:"temporal_sequence_bias"`

	// OrderingIterations sets how many shuffled passes the ordering probe runs.
	OrderingIterations int `koanf:"ordering_iterations"`

	// BatchSizes are the partition sizes exercised by the batch probe.
	BatchSizes []int `koanf:"batch_sizes"`

	// Bias analytics parameters.
	SemanticSimilarityThreshold float64 `koanf:"semantic_similarity_threshold"`
	MinSourceSampleSize         int     `koanf:"min_source_sample_size"`
	MinTemporalSampleSize       int     `koanf:"min_temporal_sample_size"`

	// ScoringConcurrency bounds in-flight calls to the scoring probe.
	ScoringConcurrency int `koanf:"scoring_concurrency"`

	// ScoringRateLimit caps scoring calls per second; 0 disables limiting.
	ScoringRateLimit float64 `koanf:"scoring_rate_limit"`

	// WorkerCount sets the number of audit workers.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the in-memory audit job queue.
	QueueSize int `koanf:"queue_size"`

	// ReportRetention caps how many finished reports the store keeps.
	ReportRetention int `koanf:"report_retention"`

	// AuditTimeoutMS bounds the wall-clock duration of one audit run.
	AuditTimeoutMS int `koanf:"audit_timeout_ms"`
}

// New creates a Config with the documented defaults.
func New() *Config {
	return &Config{
		LogLevel:                    "info",
		Addr:                        ":9085",
		OrderVariance:               5.0,
		PriorStatementInfluence:     3.0,
		ContextualBias:              8.0,
		BatchProcessingVariance:     4.0,
		TemporalSequenceBias:        6.0,
		OrderingIterations:          10,
		BatchSizes:                  []int{5, 10, 25, 50},
		SemanticSimilarityThreshold: 0.7,
		MinSourceSampleSize:         3,
		MinTemporalSampleSize:       10,
		ScoringConcurrency:          8,
		ScoringRateLimit:            0,
		WorkerCount:                 4,
		QueueSize:                   256,
		ReportRetention:             512,
		AuditTimeoutMS:              120_000,
	}
}

// IndependenceConfig maps the loaded thresholds onto the validator config.
func (c *Config) IndependenceConfig() independence.Config {
	cfg := independence.DefaultConfig()
	cfg.OrderVariance = c.OrderVariance
	cfg.PriorStatementInfluence = c.PriorStatementInfluence
	cfg.ContextualBias = c.ContextualBias
	cfg.BatchProcessingVariance = c.BatchProcessingVariance
	cfg.TemporalSequenceBias = c.TemporalSequenceBias
	cfg.OrderingIterations = c.OrderingIterations
	if len(c.BatchSizes) > 0 {
		cfg.BatchSizes = c.BatchSizes
	}
	cfg.Concurrency = c.ScoringConcurrency
	return cfg
}

// BiasConfig maps the loaded parameters onto the analytics config.
func (c *Config) BiasConfig() bias.Config {
	cfg := bias.DefaultConfig()
	cfg.SemanticSimilarityThreshold = c.SemanticSimilarityThreshold
	cfg.MinSourceSampleSize = c.MinSourceSampleSize
	cfg.MinTemporalSampleSize = c.MinTemporalSampleSize
	return cfg
}

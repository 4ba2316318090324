// Package worker runs queued audit jobs through the pipeline and records
// their outcomes.
package worker

import (
	"github.com/sciencedex/scorecard-audit/pkg/logger"
)

// Option applies a configuration option to the AuditWorker.
type Option func(*AuditWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *AuditWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(logger logger.Logger) Option {
	return func(w *AuditWorker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

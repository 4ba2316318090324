// Package repository defines the audit run store interface and errors.
package repository

import "time"

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithRetention caps how many runs the store keeps.
func WithRetention(n int) Option {
	return func(s *MemStore) {
		if n > 0 {
			s.retention = n
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *MemStore) {
		if now != nil {
			s.now = now
		}
	}
}

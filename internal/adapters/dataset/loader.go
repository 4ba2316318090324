// Package dataset loads statement corpora from JSON files, with a TTL
// cache so repeated audits over the same file do not re-read and
// re-parse it.
package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/sciencedex/scorecard-audit/internal/domain/model"
	"github.com/sciencedex/scorecard-audit/pkg/logger"
)

// Default cache configuration constants.
const (
	defaultTTL             = 5 * time.Minute
	defaultCleanupInterval = 10 * time.Minute
)

// File is the on-disk corpus format: statements plus optional candidate
// metadata and pre-computed category inputs.
type File struct {
	Statements []model.Statement `json:"statements"`
	Candidates []model.Candidate `json:"candidates,omitempty"`

	ControlPanelScore             *float64 `json:"control_panel_score,omitempty"`
	CrossValidationBiasLikelihood *float64 `json:"cross_validation_bias_likelihood,omitempty"`
}

// Loader reads and caches corpus files.
type Loader struct {
	cache  *gocache.Cache
	ttl    time.Duration
	logger logger.Logger
}

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithTTL sets how long a parsed file stays cached.
func WithTTL(ttl time.Duration) Option {
	return func(l *Loader) {
		if ttl > 0 {
			l.ttl = ttl
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(lg logger.Logger) Option {
	return func(l *Loader) {
		if lg != nil {
			l.logger = lg
		}
	}
}

// NewLoader creates a corpus loader with configuration options.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{ttl: defaultTTL}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = logger.Named("dataset")
	}
	l.cache = gocache.New(l.ttl, defaultCleanupInterval)
	return l
}

// Load returns the parsed corpus at path, from cache when fresh.
func (l *Loader) Load(ctx context.Context, path string) (*File, error) {
	if cached, ok := l.cache.Get(path); ok {
		l.logger.Debug(ctx, "corpus served from cache", logger.String("path", path))
		return cached.(*File), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus %s: %w", path, err)
	}

	var f File
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCorpus, err)
	}
	if err := validate(&f); err != nil {
		return nil, err
	}

	l.cache.SetDefault(path, &f)
	l.logger.Info(ctx, "corpus loaded",
		logger.String("path", path),
		logger.Int("statements", len(f.Statements)),
	)
	return &f, nil
}

// validate rejects corpora the pipeline cannot audit.
func validate(f *File) error {
	if len(f.Statements) == 0 {
		return fmt.Errorf("%w: no statements", ErrMalformedCorpus)
	}
	seen := make(map[string]struct{}, len(f.Statements))
	for _, stmt := range f.Statements {
		if stmt.ID == "" {
			return fmt.Errorf("%w: statement missing id", ErrMalformedCorpus)
		}
		if _, dup := seen[stmt.ID]; dup {
			return fmt.Errorf("%w: duplicate statement id %s", ErrMalformedCorpus, stmt.ID)
		}
		seen[stmt.ID] = struct{}{}
		if stmt.Position < 0 || stmt.Position > 100 {
			return fmt.Errorf("%w: statement %s position out of [0,100]", ErrMalformedCorpus, stmt.ID)
		}
	}
	return nil
}

// Request converts the corpus into an audit request.
func (f *File) Request() model.AuditRequest {
	return model.AuditRequest{
		Statements:                    f.Statements,
		ControlPanelScore:             f.ControlPanelScore,
		CrossValidationBiasLikelihood: f.CrossValidationBiasLikelihood,
	}
}

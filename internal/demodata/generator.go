// Package demodata generates synthetic statement corpora for demos and
// end-to-end tests. Generation is seeded and fully deterministic so the
// same parameters always produce the same corpus.
package demodata

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/sciencedex/scorecard-audit/internal/domain/model"
)

// Default generation parameters.
const (
	defaultStatementCount = 60
	defaultSeed           = 7
	defaultBaseScore      = 70.0
	defaultScoreSpread    = 18.0
)

var topics = []string{
	"climate", "vaccines", "evolution", "energy", "space", "nutrition",
}

var sources = []string{
	"City Herald", "National Wire", "Science Desk", "Evening Tribune",
	"Partisan Review", "Regional Post",
}

var candidates = []model.Candidate{
	{Name: "Alex Rivera", Party: model.PartyDemocratic, State: "CA", Office: "Senate"},
	{Name: "Jordan Blake", Party: model.PartyRepublican, State: "TX", Office: "Senate"},
	{Name: "Sam Whitfield", Party: model.PartyDemocratic, State: "NY", Office: "House"},
	{Name: "Casey Morgan", Party: model.PartyRepublican, State: "FL", Office: "House"},
	{Name: "Robin Ashford", Party: model.PartyIndependent, State: "VT", Office: "Senate"},
}

var quoteTemplates = []string{
	"The evidence on %s is clear and we should act on it",
	"Recent findings about %s deserve a careful public review",
	"I remain unconvinced by the current research on %s",
	"Our policy on %s must follow the established science",
	"The debate around %s has been distorted by special interests",
}

// Generator produces synthetic corpora.
type Generator struct {
	count       int
	seed        int64
	baseScore   float64
	scoreSpread float64
	partyGap    float64 // score offset added to one party, to plant bias
	start       time.Time
}

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithCount sets how many statements to generate.
func WithCount(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.count = n
		}
	}
}

// WithSeed fixes the generation seed.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// WithPartyGap plants a score gap between the two major parties so the
// party-bias probe has something to find.
func WithPartyGap(gap float64) Option {
	return func(g *Generator) {
		g.partyGap = gap
	}
}

// WithScoreSpread sets the random spread around the base score.
func WithScoreSpread(spread float64) Option {
	return func(g *Generator) {
		if spread >= 0 {
			g.scoreSpread = spread
		}
	}
}

// New creates a Generator with configuration options.
func New(opts ...Option) *Generator {
	g := &Generator{
		count:       defaultStatementCount,
		seed:        defaultSeed,
		baseScore:   defaultBaseScore,
		scoreSpread: defaultScoreSpread,
		start:       time.Date(2023, time.January, 15, 12, 0, 0, 0, time.UTC),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Statements generates the corpus.
func (g *Generator) Statements() []model.Statement {
	rng := rand.New(rand.NewSource(g.seed)) //nolint:gosec // demo data needs reproducibility, not entropy

	statements := make([]model.Statement, g.count)
	for i := range statements {
		cand := candidates[rng.Intn(len(candidates))]
		topic := topics[rng.Intn(len(topics))]

		score := g.baseScore + (rng.Float64()*2-1)*g.scoreSpread
		if g.partyGap != 0 && cand.Party == model.PartyRepublican {
			score -= g.partyGap
		}
		if score < 0 {
			score = 0
		}
		if score > 100 {
			score = 100
		}

		statements[i] = model.Statement{
			ID:        fmt.Sprintf("stmt-%04d", i+1),
			Quote:     fmt.Sprintf(quoteTemplates[rng.Intn(len(quoteTemplates))], topic),
			Topic:     topic,
			Candidate: cand.Name,
			Party:     cand.Party,
			Source:    sources[rng.Intn(len(sources))],
			Date:      g.start.AddDate(0, i/10, rng.Intn(20)),
			Context:   "campaign appearance",
			Position:  score,
		}
	}
	return statements
}

// Candidates returns the fixed candidate roster used by the generator.
func (g *Generator) Candidates() []model.Candidate {
	out := make([]model.Candidate, len(candidates))
	copy(out, candidates)
	return out
}

// Package model contains domain models passed between layers.
package model

import "time"

// Party is the political affiliation attached to a statement or candidate.
type Party string

// Recognized party values. Statements without an explicit party are
// bucketed as Independent by the analytics layer.
const (
	PartyDemocratic  Party = "Democratic"
	PartyRepublican  Party = "Republican"
	PartyIndependent Party = "Independent"
)

// Normalize maps an unset or unknown party to Independent.
func (p Party) Normalize() Party {
	switch p {
	case PartyDemocratic, PartyRepublican, PartyIndependent:
		return p
	default:
		return PartyIndependent
	}
}

// Statement is a single public statement with its externally produced
// science-alignment score. Probes treat statements as immutable input;
// derived copies (anonymized, re-contextualized) are fresh values.
type Statement struct {
	ID        string    `json:"id"`                 // unique key
	Quote     string    `json:"quote"`              // statement text
	Topic     string    `json:"topic"`              // category key, e.g. "climate"
	Candidate string    `json:"candidate"`          // speaker name, used for grouping only
	Party     Party     `json:"party,omitempty"`    // Democratic | Republican | Independent
	Source    string    `json:"source,omitempty"`   // where the statement was reported
	Date      time.Time `json:"date,omitempty"`     // when the statement was made
	Context   string    `json:"context,omitempty"`  // surrounding context, if recorded
	Position  float64   `json:"position"`           // recorded alignment score, 0-100
}

// Anonymized returns a copy with identity fields replaced by placeholder
// tokens. Quote and Position are preserved so content-only scoring is
// unaffected.
func (s Statement) Anonymized() Statement {
	out := s
	out.Candidate = "SPEAKER"
	out.Party = PartyIndependent
	out.Source = "SOURCE"
	out.Context = "CONTEXT"
	out.Date = time.Time{}
	return out
}

// WithContextFrom returns a copy carrying the identity fields of other
// while keeping this statement's content and recorded position.
func (s Statement) WithContextFrom(other Statement) Statement {
	out := s
	out.Candidate = other.Candidate
	out.Party = other.Party
	out.Source = other.Source
	out.Context = other.Context
	out.Date = other.Date
	return out
}

// Candidate identifies a scored political candidate. Used only to
// parameterize cross-candidate substitution tests.
type Candidate struct {
	Name   string `json:"name"`
	Party  Party  `json:"party,omitempty"`
	State  string `json:"state,omitempty"`
	Office string `json:"office,omitempty"`
}

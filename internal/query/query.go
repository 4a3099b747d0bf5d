// Package query defines the query-agent contract: turning a free-text
// question ("all females over 20") into a structured set of filters the
// manager can apply to the roster.
//
// WHY AN INTERFACE?
// ─────────────────
// Parsing natural language is the one part of this system with wildly
// different possible implementations — a keyword matcher, a local LLM,
// a hosted API. The manager depends only on this contract, so swapping
// the strategy is a one-line change in main.go and tests can inject a
// canned parser. Same Dependency Inversion story as storage.Storage.
package query

import (
	"context"
	"errors"
)

// ErrUnparseable is the domain error kind for query text the agent
// could not turn into at least one filter. The contract is strict: an
// agent must return this (wrapped is fine), never an empty Filters with
// a nil error. Callers detect it with errors.Is.
var ErrUnparseable = errors.New("query could not be parsed")

// Filters is the structured query produced from natural-language text.
// The zero value of a field means "filter absent"; IsZero reports
// whether no filter was extracted at all. The json tags double as the
// wire format the LLM agent asks the model to emit.
type Filters struct {
	AgeMin   int    `json:"age_min,omitempty"`
	AgeMax   int    `json:"age_max,omitempty"`
	Gender   string `json:"gender,omitempty"`
	Major    string `json:"major,omitempty"`
	NamePart string `json:"name_part,omitempty"`
}

// IsZero reports whether no filter field is set.
func (f Filters) IsZero() bool {
	return f == Filters{}
}

// Agent is the query-parsing capability contract.
type Agent interface {
	// ParseQuery converts free text into Filters. It must return an
	// error wrapping ErrUnparseable when the text yields no usable
	// filter — a silent empty result is a contract violation.
	ParseQuery(ctx context.Context, text string) (Filters, error)
}

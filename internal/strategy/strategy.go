// Package strategy holds the per-layout parsers that turn an opened source
// document into ballot parties. Each election names its strategy in the
// configuration; the shared extraction and normalization steps live in the
// extract and normalize packages.
package strategy

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/jackzampolin/wahlzettel/internal/ballot"
	"github.com/jackzampolin/wahlzettel/internal/config"
	"github.com/jackzampolin/wahlzettel/internal/source"
)

// Sentinel errors for the strategy package.
var (
	// ErrStrategyAlreadyRegistered is returned when registering a duplicate strategy.
	ErrStrategyAlreadyRegistered = errors.New("strategy already registered")

	// ErrUnknownStrategy is returned when an election names a strategy that
	// is not registered.
	ErrUnknownStrategy = errors.New("unknown strategy")

	// ErrNoDocument is returned when a strategy is run without the source
	// it reads.
	ErrNoDocument = errors.New("no source document")
)

// SourceKind is the kind of input a strategy reads.
type SourceKind int

const (
	// SourceDocument is a PDF, a set of PDFs or an OCR text file.
	SourceDocument SourceKind = iota
	// SourceHTML is an HTML ballot export.
	SourceHTML
	// SourceNone means the data lives in the configuration.
	SourceNone
)

func (k SourceKind) String() string {
	switch k {
	case SourceHTML:
		return "html"
	case SourceNone:
		return "none"
	default:
		return "document"
	}
}

// Input is everything a strategy gets to work with.
type Input struct {
	Doc      *source.Document
	HTML     *goquery.Document
	Election config.Election
	Table    ballot.PartyTable
}

// Result is the outcome of one strategy run.
type Result struct {
	// Parties holds every configured list plus any extra list found in the
	// source, in list order.
	Parties []ballot.Party
	// Duplicates counts (list, position) pairs seen more than once.
	Duplicates int
	// Stopped is set when a stop marker ended extraction early.
	Stopped bool
	// Notes are diagnostics worth showing the operator.
	Notes []string
}

// Strategy parses one document layout.
type Strategy interface {
	Name() string
	Source() SourceKind
	Parse(ctx context.Context, in Input) (*Result, error)
}

// Registry manages the available strategies.
type Registry struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
	order      []string // Maintains registration order
}

// NewRegistry creates an empty strategy registry.
func NewRegistry() *Registry {
	return &Registry{
		strategies: make(map[string]Strategy),
		order:      make([]string, 0),
	}
}

// DefaultRegistry returns a registry holding every built-in strategy.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, s := range []Strategy{
		Amtsblatt{},
		Composite{},
		TwoLine{},
		Table{},
		Numbered{},
		VoteIT{},
		Literal{},
	} {
		if err := r.Register(s); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds a strategy to the registry.
// Returns an error if a strategy with the same name is already registered.
func (r *Registry) Register(s Strategy) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := s.Name()
	if _, exists := r.strategies[name]; exists {
		return fmt.Errorf("%w: %s", ErrStrategyAlreadyRegistered, name)
	}

	r.strategies[name] = s
	r.order = append(r.order, name)
	return nil
}

// Get returns a strategy by name.
func (r *Registry) Get(name string) (Strategy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.strategies[name]
	return s, ok
}

// Lookup is Get with an ErrUnknownStrategy error for missing names.
func (r *Registry) Lookup(name string) (Strategy, error) {
	s, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
	return s, nil
}

// Names returns all strategy names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

package grammar

import (
	"fmt"

	verr "github.com/nihei9/clr/error"
	spec "github.com/nihei9/clr/spec/grammar"
)

// Grammar is a validated context-free grammar. A Grammar is immutable, and its FIRST sets are
// computed when it is built.
type Grammar struct {
	name          string
	terminals     []Symbol
	nonTerminals  []Symbol
	termSet       map[Symbol]struct{}
	nonTermSet    map[Symbol]struct{}
	startSymbol   Symbol
	productionSet *productionSet
	firstSet      *firstSet
	firstLimit    int
	augmented     bool
	diagnostics   verr.SpecErrors
}

func (g *Grammar) Name() string {
	return g.name
}

func (g *Grammar) StartSymbol() Symbol {
	return g.startSymbol
}

// Terminals returns the terminals in declaration order. An augmented grammar has `$` at the end.
func (g *Grammar) Terminals() []Symbol {
	syms := make([]Symbol, len(g.terminals))
	copy(syms, g.terminals)
	return syms
}

// NonTerminals returns the non-terminals in declaration order. An augmented grammar has
// the augmented start symbol at the end.
func (g *Grammar) NonTerminals() []Symbol {
	syms := make([]Symbol, len(g.nonTerminals))
	copy(syms, g.nonTerminals)
	return syms
}

func (g *Grammar) IsTerminal(sym Symbol) bool {
	_, ok := g.termSet[sym]
	return ok
}

func (g *Grammar) IsNonTerminal(sym Symbol) bool {
	_, ok := g.nonTermSet[sym]
	return ok
}

// ProductionsFor returns the productions whose LHS is head in declaration order.
func (g *Grammar) ProductionsFor(head Symbol) []*Production {
	prods, _ := g.productionSet.findByLHS(head)
	return prods
}

// Productions returns all productions in declaration order.
func (g *Grammar) Productions() []*Production {
	return g.productionSet.getAllProductions()
}

func (g *Grammar) IsAugmented() bool {
	return g.augmented
}

// Diagnostics returns the productions dropped while building the grammar.
func (g *Grammar) Diagnostics() verr.SpecErrors {
	return g.diagnostics
}

// Augmented returns the augmented grammar of g. The augmented grammar has a fresh start symbol S'
// with the single production `S' → S`, and its terminals contain `$`. g itself is left untouched.
func (g *Grammar) Augmented() (*Grammar, error) {
	if g.augmented {
		return g, nil
	}

	start := g.startSymbol + "'"
	for g.IsTerminal(start) || g.IsNonTerminal(start) {
		start += "'"
	}

	ps := newProductionSet()
	{
		p, err := newProduction(start, []Symbol{g.startSymbol})
		if err != nil {
			return nil, err
		}
		ps.append(p, true)
	}
	for _, prod := range g.productionSet.getAllProductions() {
		p, err := newProduction(prod.lhs, prod.rhs)
		if err != nil {
			return nil, err
		}
		ps.append(p, false)
	}

	terms := append(g.Terminals(), SymbolEOF)
	nonTerms := append(g.NonTerminals(), start)
	aug := &Grammar{
		name:          g.name,
		terminals:     terms,
		nonTerminals:  nonTerms,
		termSet:       toSymbolMap(terms),
		nonTermSet:    toSymbolMap(nonTerms),
		startSymbol:   start,
		productionSet: ps,
		firstLimit:    g.firstLimit,
		augmented:     true,
		diagnostics:   g.diagnostics,
	}

	// FIRST(S') settles one pass after FIRST(S).
	limit := aug.firstLimit
	if limit > 0 {
		limit++
	}
	var err error
	aug.firstSet, err = genFirstSet(aug, limit)
	if err != nil {
		return nil, err
	}

	return aug, nil
}

func toSymbolMap(syms []Symbol) map[Symbol]struct{} {
	m := make(map[Symbol]struct{}, len(syms))
	for _, sym := range syms {
		m[sym] = struct{}{}
	}
	return m
}

type grammarConfig struct {
	firstLimit int
}

type GrammarOption func(config *grammarConfig)

// FirstIterationLimit bounds the number of passes computing FIRST sets may take. Exceeding the limit
// makes building a grammar fail with ErrNonTerminatingGrammar. By default, the limit is the number
// of passes any grammar of the same size needs at most.
func FirstIterationLimit(limit int) GrammarOption {
	return func(config *grammarConfig) {
		config.firstLimit = limit
	}
}

type GrammarBuilder struct {
	Definition *spec.Definition
	SourceName string

	errs verr.SpecErrors
}

func (b *GrammarBuilder) Build(opts ...GrammarOption) (*Grammar, error) {
	config := &grammarConfig{}
	for _, opt := range opts {
		opt(config)
	}

	def := b.Definition
	if def == nil {
		return nil, fmt.Errorf("a grammar definition must be specified")
	}

	b.errs = nil
	terms, termSet := b.genSymbols(def.Terminals, semErrDuplicateTerminal)
	nonTerms, nonTermSet := b.genSymbols(def.NonTerminals, semErrDuplicateNonTerm)
	for _, sym := range terms {
		if _, ok := nonTermSet[sym]; ok {
			b.addError(semErrDuplicateName, sym.String(), 0)
		}
	}

	start := Symbol(def.StartSymbol)
	if start.isNil() {
		b.addError(semErrNoStartSym, "", 0)
	} else if _, ok := nonTermSet[start]; !ok {
		b.addError(semErrStartNotNonTerminal, start.String(), 0)
	}

	ps, dropped := b.genProductionSet(def.Productions, termSet, nonTermSet)
	if len(b.errs) > 0 {
		return nil, b.errs
	}

	for _, d := range dropped {
		tracer().Infof("dropped a production: %v", d)
	}

	g := &Grammar{
		name:          def.Name,
		terminals:     terms,
		nonTerminals:  nonTerms,
		termSet:       termSet,
		nonTermSet:    nonTermSet,
		startSymbol:   start,
		productionSet: ps,
		firstLimit:    config.firstLimit,
		diagnostics:   dropped,
	}

	var err error
	g.firstSet, err = genFirstSet(g, g.firstLimit)
	if err != nil {
		return nil, err
	}

	return g, nil
}

func (b *GrammarBuilder) addError(cause error, detail string, prod int) {
	b.errs = append(b.errs, b.newSpecError(cause, detail, prod))
}

func (b *GrammarBuilder) newSpecError(cause error, detail string, prod int) *verr.SpecError {
	return &verr.SpecError{
		Cause:      cause,
		Detail:     detail,
		SourceName: b.SourceName,
		Production: prod,
	}
}

func (b *GrammarBuilder) genSymbols(texts []string, errDup error) ([]Symbol, map[Symbol]struct{}) {
	syms := []Symbol{}
	set := map[Symbol]struct{}{}
	for _, text := range texts {
		sym := Symbol(text)
		if sym.isNil() {
			b.addError(semErrEmptyName, "", 0)
			continue
		}
		if sym.isReserved() {
			b.addError(semErrReservedSym, text, 0)
			continue
		}
		if _, ok := set[sym]; ok {
			b.addError(errDup, text, 0)
			continue
		}
		set[sym] = struct{}{}
		syms = append(syms, sym)
	}
	return syms, set
}

// genProductionSet registers productions in declaration order. A production whose LHS isn't
// a declared non-terminal and a production identical to a preceding one are dropped and
// returned as diagnostics. Other problems are fatal and recorded in b.errs.
func (b *GrammarBuilder) genProductionSet(defs []*spec.ProductionDefinition, termSet, nonTermSet map[Symbol]struct{}) (*productionSet, verr.SpecErrors) {
	ps := newProductionSet()
	var dropped verr.SpecErrors
	for i, def := range defs {
		pos := i + 1
		if def == nil {
			b.addError(semErrNilProduction, "", pos)
			continue
		}

		lhs := Symbol(def.Symbol)
		if _, ok := nonTermSet[lhs]; !ok {
			dropped = append(dropped, b.newSpecError(semErrLHSNotNonTerminal, def.Symbol, pos))
			continue
		}

		rhs := toSymbols(def.Produces)
		valid := true
		for _, sym := range rhs {
			if sym == SymbolEpsilon {
				if len(rhs) > 1 {
					b.addError(semErrMisplacedEpsilon, fmt.Sprintf("%v -> %v", lhs, joinSymbols(rhs, " ")), pos)
					valid = false
					break
				}
				continue
			}
			_, isTerm := termSet[sym]
			_, isNonTerm := nonTermSet[sym]
			if !isTerm && !isNonTerm {
				b.addError(semErrUndefinedSym, sym.String(), pos)
				valid = false
			}
		}
		if !valid {
			continue
		}

		prod, err := newProduction(lhs, rhs)
		if err != nil {
			b.addError(err, "", pos)
			continue
		}
		if !ps.append(prod, false) {
			dropped = append(dropped, b.newSpecError(semErrDuplicateProduction, prod.String(), pos))
		}
	}
	return ps, dropped
}

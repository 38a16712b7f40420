package grammar

import (
	"fmt"

	"github.com/emirpasic/gods/stacks/arraystack"
)

// KernelMatch selects how the table builder decides that a kernel belongs to an existing state.
type KernelMatch int

const (
	// KernelMatchSubset reuses a state when every item of a new kernel is in the state's kernel.
	KernelMatchSubset KernelMatch = iota

	// KernelMatchExact reuses a state only when both kernels contain the same items.
	KernelMatchExact
)

func (m KernelMatch) String() string {
	switch m {
	case KernelMatchExact:
		return "exact"
	default:
		return "subset"
	}
}

// ParseKernelMatch returns the KernelMatch named s. An empty string means the default.
func ParseKernelMatch(s string) (KernelMatch, error) {
	switch s {
	case "", "subset":
		return KernelMatchSubset, nil
	case "exact":
		return KernelMatchExact, nil
	}
	return KernelMatchSubset, fmt.Errorf("unknown kernel matching: %v", s)
}

type TableBuilderOption func(b *TableBuilder)

func WithKernelMatch(m KernelMatch) TableBuilderOption {
	return func(b *TableBuilder) {
		b.kernelMatch = m
	}
}

// TableBuilder builds the canonical LR(1) automaton of a grammar and its parsing table.
// A TableBuilder owns the counter naming states, so a builder isn't safe for concurrent use.
type TableBuilder struct {
	gram        *Grammar
	kernelMatch KernelMatch

	nextNum   stateNum
	states    []*State
	initial   *State
	goToCache map[string]map[Symbol]*State
	built     bool
}

// NewTableBuilder makes a builder for the augmented grammar of gram.
func NewTableBuilder(gram *Grammar, opts ...TableBuilderOption) (*TableBuilder, error) {
	aug, err := gram.Augmented()
	if err != nil {
		return nil, err
	}

	b := &TableBuilder{
		gram: aug,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.Reset()

	return b, nil
}

// Grammar returns the augmented grammar the builder works on.
func (b *TableBuilder) Grammar() *Grammar {
	return b.gram
}

// Reset discards all states and restarts state naming from I0.
func (b *TableBuilder) Reset() {
	b.nextNum = stateNumInitial
	b.states = nil
	b.initial = nil
	b.goToCache = map[string]map[Symbol]*State{}
	b.built = false
}

func (b *TableBuilder) newState(kernel []*Item) (*State, error) {
	s, err := newState(b.nextNum, kernel, b.gram)
	if err != nil {
		return nil, err
	}
	b.nextNum = b.nextNum.next()
	b.states = append(b.states, s)

	tracer().Debugf("%v: %v kernel items, %v items", s.name, len(s.kernel), len(s.items))

	return s, nil
}

func (b *TableBuilder) findState(kernel []*Item) *State {
	for _, s := range b.states {
		switch b.kernelMatch {
		case KernelMatchExact:
			if s.hasExactKernel(kernel) {
				return s
			}
		default:
			if s.IsOfSameKernel(kernel) {
				return s
			}
		}
	}
	return nil
}

// Goto returns the state reached from state by sym, creating it when no state has the same kernel.
// It returns nil when state has no transition by sym. Results are memoized per state and symbol.
func (b *TableBuilder) Goto(state *State, sym Symbol) (*State, error) {
	if !b.gram.IsTerminal(sym) && !b.gram.IsNonTerminal(sym) && sym != SymbolEpsilon {
		return nil, fmt.Errorf("%w: %v is neither a terminal nor a non-terminal", ErrInvalidGrammar, sym)
	}

	cache, ok := b.goToCache[state.name]
	if !ok {
		cache = map[Symbol]*State{}
		b.goToCache[state.name] = cache
	}
	if next, ok := cache[sym]; ok {
		return next, nil
	}

	var kernel []*Item
	for _, item := range state.items {
		if item.dottedSymbol != sym {
			continue
		}
		k, err := item.advance()
		if err != nil {
			return nil, err
		}
		kernel = append(kernel, k)
	}
	if len(kernel) == 0 {
		cache[sym] = nil
		return nil, nil
	}

	next := b.findState(kernel)
	if next == nil {
		var err error
		next, err = b.newState(kernel)
		if err != nil {
			return nil, err
		}
	}
	cache[sym] = next

	return next, nil
}

// BuildAutomaton explores all states reachable from the initial state and returns them in
// the order in which they were created. Calling it again returns the same states.
func (b *TableBuilder) BuildAutomaton() ([]*State, error) {
	if b.built {
		return b.states, nil
	}

	var kernel []*Item
	for _, prod := range b.gram.ProductionsFor(b.gram.startSymbol) {
		item, err := newItem(prod, 0, newSymbolSet(SymbolEOF))
		if err != nil {
			return nil, err
		}
		kernel = append(kernel, item)
	}
	initial, err := b.newState(kernel)
	if err != nil {
		return nil, err
	}
	b.initial = initial

	syms := append(b.gram.NonTerminals(), b.gram.Terminals()...)
	unchecked := arraystack.New()
	unchecked.Push(initial)
	for !unchecked.Empty() {
		v, _ := unchecked.Pop()
		state := v.(*State)
		if state.processed {
			continue
		}
		for _, sym := range syms {
			next, err := b.Goto(state, sym)
			if err != nil {
				return nil, err
			}
			if next != nil && !next.processed {
				unchecked.Push(next)
			}
		}
		state.processed = true
	}
	b.built = true

	tracer().Infof("built an LR(1) automaton with %v states (%v kernel matching)", len(b.states), b.kernelMatch)

	return b.states, nil
}

// Build builds the automaton when it isn't built yet and derives ACTION and GOTO tables from it.
// A reduce/reduce conflict aborts the construction with a *ReduceReduceConflict error.
func (b *TableBuilder) Build() (*ParsingTable, error) {
	states, err := b.BuildAutomaton()
	if err != nil {
		return nil, err
	}

	tab := newParsingTable(b.gram, states, b.initial)
	for _, state := range states {
		for _, item := range state.ReducingItems() {
			for _, a := range item.lookAhead.symbols() {
				err := tab.writeReduceAction(state, a, item)
				if err != nil {
					return nil, err
				}
			}
		}

		for _, sym := range b.gram.terminals {
			next, err := b.Goto(state, sym)
			if err != nil {
				return nil, err
			}
			if next == nil {
				continue
			}
			tab.writeShiftAction(state, sym, next)
			tab.writeGoTo(state, sym, next)
		}

		for _, sym := range b.gram.nonTerminals {
			next, err := b.Goto(state, sym)
			if err != nil {
				return nil, err
			}
			if next == nil {
				continue
			}
			tab.writeGoTo(state, sym, next)
		}
	}

	return tab, nil
}

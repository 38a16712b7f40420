package grammar

import "fmt"

type firstEntry struct {
	symbols *symbolSet
	empty   bool
}

func newFirstEntry() *firstEntry {
	return &firstEntry{
		symbols: newSymbolSet(),
		empty:   false,
	}
}

func (e *firstEntry) add(sym Symbol) bool {
	return e.symbols.add(sym)
}

func (e *firstEntry) addEmpty() bool {
	if !e.empty {
		e.empty = true
		return true
	}
	return false
}

func (e *firstEntry) mergeExceptEmpty(target *firstEntry) bool {
	if target == nil {
		return false
	}
	return e.symbols.union(target.symbols)
}

type firstSet struct {
	set map[Symbol]*firstEntry
}

func newFirstSet(nonTerms []Symbol) *firstSet {
	fst := &firstSet{
		set: map[Symbol]*firstEntry{},
	}
	for _, sym := range nonTerms {
		fst.set[sym] = newFirstEntry()
	}
	return fst
}

func (fst *firstSet) findBySymbol(sym Symbol) *firstEntry {
	return fst.set[sym]
}

// maxFirstPasses returns the number of passes after which FIRST sets of any grammar of the given
// size have converged. A pass that changes something adds at least one terminal or ε to an entry.
func maxFirstPasses(nonTermCount, termCount int) int {
	return nonTermCount*(termCount+1) + 1
}

// genFirstSet computes FIRST sets of all non-terminals by fixpoint iteration. When limit is positive
// and the sets are still changing after limit passes, it fails with ErrNonTerminatingGrammar.
func genFirstSet(g *Grammar, limit int) (*firstSet, error) {
	if limit <= 0 {
		limit = maxFirstPasses(len(g.nonTerminals), len(g.terminals))
	}

	fst := newFirstSet(g.nonTerminals)
	for pass := 1; ; pass++ {
		if pass > limit {
			return nil, fmt.Errorf("%w: FIRST sets didn't converge within %v passes", ErrNonTerminatingGrammar, limit)
		}

		more := false
		for _, prod := range g.productionSet.getAllProductions() {
			e := fst.findBySymbol(prod.lhs)
			if e == nil {
				return nil, fmt.Errorf("an entry of FIRST was not found; symbol: %s", prod.lhs)
			}
			changed, err := genProdFirstEntry(g, fst, e, prod)
			if err != nil {
				return nil, err
			}
			if changed {
				more = true
			}
		}
		if !more {
			tracer().Debugf("FIRST sets converged after %v passes", pass)
			return fst, nil
		}
	}
}

func genProdFirstEntry(g *Grammar, fst *firstSet, acc *firstEntry, prod *Production) (bool, error) {
	if prod.IsEpsilon() {
		return acc.addEmpty(), nil
	}

	changed := false
	for _, sym := range prod.rhs {
		if g.IsTerminal(sym) {
			if acc.add(sym) {
				changed = true
			}
			return changed, nil
		}

		e := fst.findBySymbol(sym)
		if e == nil {
			return false, fmt.Errorf("%w: an entry of FIRST was not found; symbol: %s", ErrInvalidGrammar, sym)
		}
		if acc.mergeExceptEmpty(e) {
			changed = true
		}
		if !e.empty {
			return changed, nil
		}
	}
	if acc.addEmpty() {
		changed = true
	}
	return changed, nil
}

// FirstOf returns the FIRST set of a sequence of symbols in lexical order. The set contains ε
// only when the whole sequence can derive the empty string, so FirstOf of an empty sequence is {ε}.
func (g *Grammar) FirstOf(word []Symbol) ([]Symbol, error) {
	s, err := g.firstOf(word)
	if err != nil {
		return nil, err
	}
	return s.symbols(), nil
}

func (g *Grammar) firstOf(word []Symbol) (*symbolSet, error) {
	set := newSymbolSet()
	for _, sym := range word {
		if sym == SymbolEpsilon {
			continue
		}
		if g.IsTerminal(sym) {
			set.add(sym)
			return set, nil
		}
		if !g.IsNonTerminal(sym) {
			return nil, fmt.Errorf("%w: %v is neither a terminal nor a non-terminal", ErrInvalidGrammar, sym)
		}

		e := g.firstSet.findBySymbol(sym)
		set.union(e.symbols)
		if !e.empty {
			return set, nil
		}
	}
	set.add(SymbolEpsilon)
	return set, nil
}

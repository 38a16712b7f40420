package grammar

import (
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
)

// Symbol is a terminal or non-terminal symbol. Symbols are opaque strings.
type Symbol string

const (
	// SymbolEpsilon is the only symbol of the body of a production deriving the empty string.
	SymbolEpsilon = Symbol("ε")

	// SymbolEOF is the end-of-input marker. Only an augmented grammar contains it.
	SymbolEOF = Symbol("$")

	symbolNil = Symbol("")
)

func (s Symbol) String() string {
	return string(s)
}

func (s Symbol) isNil() bool {
	return s == symbolNil
}

func (s Symbol) isReserved() bool {
	return s == SymbolEpsilon || s == SymbolEOF
}

func symbolComparator(a, b interface{}) int {
	return utils.StringComparator(string(a.(Symbol)), string(b.(Symbol)))
}

// symbolSet is an ordered set of symbols. Iteration yields symbols in lexical order, so two equal
// sets always print and hash the same way.
type symbolSet struct {
	set *treeset.Set
}

func newSymbolSet(syms ...Symbol) *symbolSet {
	s := &symbolSet{
		set: treeset.NewWith(symbolComparator),
	}
	for _, sym := range syms {
		s.set.Add(sym)
	}
	return s
}

func (s *symbolSet) add(sym Symbol) bool {
	if s.set.Contains(sym) {
		return false
	}
	s.set.Add(sym)
	return true
}

func (s *symbolSet) remove(sym Symbol) {
	s.set.Remove(sym)
}

func (s *symbolSet) contains(sym Symbol) bool {
	return s.set.Contains(sym)
}

// union adds all symbols of t to s and reports whether s changed.
func (s *symbolSet) union(t *symbolSet) bool {
	if t == nil {
		return false
	}
	changed := false
	for _, sym := range t.symbols() {
		if s.add(sym) {
			changed = true
		}
	}
	return changed
}

func (s *symbolSet) size() int {
	return s.set.Size()
}

func (s *symbolSet) symbols() []Symbol {
	vs := s.set.Values()
	syms := make([]Symbol, len(vs))
	for i, v := range vs {
		syms[i] = v.(Symbol)
	}
	return syms
}

func (s *symbolSet) equals(t *symbolSet) bool {
	if s.size() != t.size() {
		return false
	}
	for _, sym := range s.symbols() {
		if !t.contains(sym) {
			return false
		}
	}
	return true
}

// String returns the symbols separated by ` | `, e.g. `c | d`.
func (s *symbolSet) String() string {
	return joinSymbols(s.symbols(), " | ")
}

func joinSymbols(syms []Symbol, sep string) string {
	texts := make([]string, len(syms))
	for i, sym := range syms {
		texts[i] = sym.String()
	}
	return strings.Join(texts, sep)
}

func toSymbols(texts []string) []Symbol {
	syms := make([]Symbol, len(texts))
	for i, text := range texts {
		syms[i] = Symbol(text)
	}
	return syms
}

func toTexts(syms []Symbol) []string {
	texts := make([]string, len(syms))
	for i, sym := range syms {
		texts[i] = sym.String()
	}
	return texts
}

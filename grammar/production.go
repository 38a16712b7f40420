package grammar

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	spec "github.com/nihei9/clr/spec/grammar"
)

type productionID [32]byte

func (id productionID) String() string {
	return hex.EncodeToString(id[:])
}

func genProductionID(lhs Symbol, rhs []Symbol) productionID {
	seq := []byte(lhs)
	for _, sym := range rhs {
		seq = append(seq, 0)
		seq = append(seq, []byte(sym)...)
	}
	return productionID(sha256.Sum256(seq))
}

type productionNum = spec.ProductionNum

const (
	productionNumNil   = spec.ProductionNumNil
	productionNumStart = spec.ProductionNumStart
	productionNumMin   = spec.ProductionNumMin
)

// Production is a rewrite rule `LHS → RHS`. The RHS of an epsilon production is `[ε]`.
type Production struct {
	id     productionID
	num    productionNum
	lhs    Symbol
	rhs    []Symbol
	rhsLen int
}

// newProduction makes a production. An empty RHS is normalized to `[ε]`.
func newProduction(lhs Symbol, rhs []Symbol) (*Production, error) {
	if lhs.isNil() {
		return nil, fmt.Errorf("LHS must be a non-nil symbol; LHS: %v, RHS: %v", lhs, rhs)
	}
	for _, sym := range rhs {
		if sym.isNil() {
			return nil, fmt.Errorf("a symbol of RHS must be a non-nil symbol; LHS: %v, RHS: %v", lhs, rhs)
		}
		if sym == SymbolEpsilon && len(rhs) > 1 {
			return nil, fmt.Errorf("ε must be the only symbol of RHS; LHS: %v, RHS: %v", lhs, rhs)
		}
	}
	if len(rhs) == 0 {
		rhs = []Symbol{SymbolEpsilon}
	}

	return &Production{
		id:     genProductionID(lhs, rhs),
		lhs:    lhs,
		rhs:    rhs,
		rhsLen: len(rhs),
	}, nil
}

func (p *Production) equals(q *Production) bool {
	return q.id == p.id
}

// IsEpsilon reports whether p derives the empty string.
func (p *Production) IsEpsilon() bool {
	return p.rhsLen == 1 && p.rhs[0] == SymbolEpsilon
}

// Len returns the number of symbols a reduction by p pops. It is 0 for an epsilon production.
func (p *Production) Len() int {
	if p.IsEpsilon() {
		return 0
	}
	return p.rhsLen
}

func (p *Production) LHS() Symbol {
	return p.lhs
}

func (p *Production) RHS() []Symbol {
	rhs := make([]Symbol, p.rhsLen)
	copy(rhs, p.rhs)
	return rhs
}

func (p *Production) Num() int {
	return p.num.Int()
}

func (p *Production) String() string {
	return fmt.Sprintf("%v -> %v", p.lhs, joinSymbols(p.rhs, " "))
}

type productionSet struct {
	lhs2Prods map[Symbol][]*Production
	id2Prod   map[productionID]*Production
	prods     []*Production
	num       productionNum
}

func newProductionSet() *productionSet {
	return &productionSet{
		lhs2Prods: map[Symbol][]*Production{},
		id2Prod:   map[productionID]*Production{},
		num:       productionNumMin,
	}
}

// append registers prod and numbers it. It returns false when the same production already exists.
func (ps *productionSet) append(prod *Production, start bool) bool {
	if _, ok := ps.id2Prod[prod.id]; ok {
		return false
	}

	if start {
		prod.num = productionNumStart
	} else {
		prod.num = ps.num
		ps.num++
	}

	ps.lhs2Prods[prod.lhs] = append(ps.lhs2Prods[prod.lhs], prod)
	ps.id2Prod[prod.id] = prod
	ps.prods = append(ps.prods, prod)

	return true
}

func (ps *productionSet) findByLHS(lhs Symbol) ([]*Production, bool) {
	if lhs.isNil() {
		return nil, false
	}

	prods, ok := ps.lhs2Prods[lhs]
	return prods, ok
}

// getAllProductions returns the productions in the order in which they were appended.
func (ps *productionSet) getAllProductions() []*Production {
	return ps.prods
}

package driver

import (
	"strings"

	spec "github.com/nihei9/clr/spec/grammar"
)

type grammarImpl struct {
	g *spec.CompiledGrammar
}

func NewGrammar(g *spec.CompiledGrammar) *grammarImpl {
	return &grammarImpl{
		g: g,
	}
}

func (g *grammarImpl) InitialState() string {
	return g.g.ParsingTable.InitialState
}

func (g *grammarImpl) Action(state string, terminal string) (spec.ActionType, string, int) {
	act, ok := g.g.ParsingTable.Action[state][terminal]
	if !ok || act == nil {
		return spec.ActionTypeError, "", 0
	}
	return act.Type, act.State, act.Production
}

func (g *grammarImpl) GoTo(state string, lhs string) (string, bool) {
	next, ok := g.g.ParsingTable.GoTo[state][lhs]
	return next, ok
}

func (g *grammarImpl) AlternativeSymbolCount(prod int) int {
	return g.production(prod).Len()
}

func (g *grammarImpl) LHS(prod int) string {
	return g.production(prod).LHS
}

func (g *grammarImpl) Production(prod int) string {
	p := g.production(prod)
	return p.LHS + " -> " + strings.Join(p.RHS, " ")
}

func (g *grammarImpl) EOF() string {
	return g.g.ParsingTable.EOFSymbol
}

func (g *grammarImpl) production(prod int) *spec.Production {
	prods := g.g.ParsingTable.Productions
	if prod <= 0 || prod >= len(prods) || prods[prod] == nil {
		return &spec.Production{}
	}
	return prods[prod]
}

package grammar

import (
	"testing"

	spec "github.com/nihei9/clr/spec/grammar"
)

// testDefinition describes a grammar compactly. Each production is written as its LHS followed
// by its RHS, e.g. []string{"C", "c", "C"}.
type testDefinition struct {
	terms    []string
	nonTerms []string
	start    string
	prods    [][]string
}

func (d *testDefinition) definition() *spec.Definition {
	def := &spec.Definition{
		Name:         "test",
		Terminals:    d.terms,
		NonTerminals: d.nonTerms,
		StartSymbol:  d.start,
	}
	for _, p := range d.prods {
		def.Productions = append(def.Productions, &spec.ProductionDefinition{
			Symbol:   p[0],
			Produces: p[1:],
		})
	}
	return def
}

func genGrammar(t *testing.T, d *testDefinition, opts ...GrammarOption) *Grammar {
	t.Helper()

	b := GrammarBuilder{
		Definition: d.definition(),
	}
	g, err := b.Build(opts...)
	if err != nil {
		t.Fatalf("failed to build a grammar: %v", err)
	}
	return g
}

func genTable(t *testing.T, d *testDefinition, opts ...TableBuilderOption) (*TableBuilder, *ParsingTable) {
	t.Helper()

	b, err := NewTableBuilder(genGrammar(t, d), opts...)
	if err != nil {
		t.Fatalf("failed to create a table builder: %v", err)
	}
	tab, err := b.Build()
	if err != nil {
		t.Fatalf("failed to build a parsing table: %v", err)
	}
	return b, tab
}

// S → C C
// C → c C
// C → d
var calibrationDef = &testDefinition{
	terms:    []string{"c", "d"},
	nonTerms: []string{"S", "C"},
	start:    "S",
	prods: [][]string{
		{"S", "C", "C"},
		{"C", "c", "C"},
		{"C", "d"},
	},
}

var exprDef = &testDefinition{
	terms:    []string{"+", "*", "(", ")", "id"},
	nonTerms: []string{"E", "T", "F"},
	start:    "E",
	prods: [][]string{
		{"E", "E", "+", "T"},
		{"E", "T"},
		{"T", "T", "*", "F"},
		{"T", "F"},
		{"F", "(", "E", ")"},
		{"F", "id"},
	},
}

// S → A B c
// A → a | ε
// B → b | ε
var nullableDef = &testDefinition{
	terms:    []string{"a", "b", "c"},
	nonTerms: []string{"S", "A", "B"},
	start:    "S",
	prods: [][]string{
		{"S", "A", "B", "c"},
		{"A", "a"},
		{"A", "ε"},
		{"B", "b"},
		{"B"},
	},
}

func symbols(texts ...string) []Symbol {
	return toSymbols(texts)
}

func itemTexts(items []*Item) []string {
	var texts []string
	for _, item := range items {
		texts = append(texts, item.String())
	}
	return texts
}

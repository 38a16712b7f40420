package main

import (
	spec "github.com/nihei9/clr/spec/grammar"
)

// exampleDefinition returns the grammar
//
//	S → C C
//	C → c C | d
//
// whose canonical LR(1) automaton has ten states.
func exampleDefinition() *spec.Definition {
	return &spec.Definition{
		Name:         "example",
		Terminals:    []string{"c", "d"},
		NonTerminals: []string{"S", "C"},
		StartSymbol:  "S",
		Productions: []*spec.ProductionDefinition{
			{Symbol: "S", Produces: []string{"C", "C"}},
			{Symbol: "C", Produces: []string{"c", "C"}},
			{Symbol: "C", Produces: []string{"d"}},
		},
	}
}

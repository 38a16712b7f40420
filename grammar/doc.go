/*
Package grammar validates context-free grammars and builds canonical LR(1) parsing tables from them.

A Grammar is built from a definition by GrammarBuilder. A TableBuilder explores the LR(1) automaton
of the augmented grammar and derives ACTION and GOTO tables from it. Compile packs the tables into
the portable form the driver package consumes.

Reduce/reduce conflicts abort table construction with a *ReduceReduceConflict error.
Shift/reduce conflicts are resolved in favor of the reduction; they are recorded in the
ParsingTable and traced.
*/
package grammar

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'clr.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("clr.grammar")
}

package driver

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nihei9/clr/grammar"
	spec "github.com/nihei9/clr/spec/grammar"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"golang.org/x/sync/errgroup"
)

// S → C C
// C → c C | d
var calibrationDef = &spec.Definition{
	Name:         "calibration",
	Terminals:    []string{"c", "d"},
	NonTerminals: []string{"S", "C"},
	StartSymbol:  "S",
	Productions: []*spec.ProductionDefinition{
		{Symbol: "S", Produces: []string{"C", "C"}},
		{Symbol: "C", Produces: []string{"c", "C"}},
		{Symbol: "C", Produces: []string{"d"}},
	},
}

// S → A b
// A → ε | a
var epsilonDef = &spec.Definition{
	Name:         "epsilon",
	Terminals:    []string{"a", "b"},
	NonTerminals: []string{"S", "A"},
	StartSymbol:  "S",
	Productions: []*spec.ProductionDefinition{
		{Symbol: "S", Produces: []string{"A", "b"}},
		{Symbol: "A", Produces: []string{"ε"}},
		{Symbol: "A", Produces: []string{"a"}},
	},
}

func compile(t *testing.T, def *spec.Definition) *spec.CompiledGrammar {
	t.Helper()

	b := grammar.GrammarBuilder{
		Definition: def,
	}
	g, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	cg, _, err := grammar.Compile(g)
	if err != nil {
		t.Fatal(err)
	}
	return cg
}

func TestParser_Parse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "clr.driver")
	defer teardown()

	tests := []struct {
		caption string
		def     *spec.Definition
		input   []string
		accept  bool
	}{
		{
			caption: "the shortest sentence",
			def:     calibrationDef,
			input:   []string{"d", "d"},
			accept:  true,
		},
		{
			caption: "both C derive c d",
			def:     calibrationDef,
			input:   []string{"c", "d", "c", "d"},
			accept:  true,
		},
		{
			caption: "only the first C derives c d",
			def:     calibrationDef,
			input:   []string{"c", "d", "d"},
			accept:  true,
		},
		{
			caption: "a long run of c",
			def:     calibrationDef,
			input:   []string{"c", "c", "c", "d", "c", "c", "d"},
			accept:  true,
		},
		{
			caption: "a single C",
			def:     calibrationDef,
			input:   []string{"d"},
			accept:  false,
		},
		{
			caption: "a C without d",
			def:     calibrationDef,
			input:   []string{"c"},
			accept:  false,
		},
		{
			caption: "three C",
			def:     calibrationDef,
			input:   []string{"d", "d", "d"},
			accept:  false,
		},
		{
			caption: "empty input",
			def:     calibrationDef,
			input:   nil,
			accept:  false,
		},
		{
			caption: "an unknown symbol",
			def:     calibrationDef,
			input:   []string{"x", "d"},
			accept:  false,
		},
		{
			caption: "symbols following an end-of-input symbol within the input",
			def:     calibrationDef,
			input:   []string{"d", "d", "$", "d"},
			accept:  false,
		},
		{
			caption: "unknown symbols following an end-of-input symbol within the input",
			def:     calibrationDef,
			input:   []string{"d", "d", "$", "zzz", "c"},
			accept:  false,
		},
		{
			caption: "an end-of-input symbol at the end of the input",
			def:     calibrationDef,
			input:   []string{"d", "d", "$"},
			accept:  false,
		},
		{
			caption: "an epsilon production reduced first",
			def:     epsilonDef,
			input:   []string{"b"},
			accept:  true,
		},
		{
			caption: "a non-empty alternative of a nullable nonterminal",
			def:     epsilonDef,
			input:   []string{"a", "b"},
			accept:  true,
		},
		{
			caption: "a nullable nonterminal without its follower",
			def:     epsilonDef,
			input:   []string{"a"},
			accept:  false,
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v %v", i, tt.caption), func(t *testing.T) {
			gram := NewGrammar(compile(t, tt.def))
			r, err := Parse(gram, tt.input)
			if err != nil {
				t.Fatal(err)
			}
			if r.Accepted != tt.accept {
				t.Fatalf("unexpected verdict; want: %v, got: %v", tt.accept, r.Accepted)
			}
			if len(r.Trace) == 0 {
				t.Fatal("a trace must be recorded regardless of the verdict")
			}

			last := r.Trace[len(r.Trace)-1].Action.Type
			if tt.accept && last != spec.ActionTypeAccept {
				t.Errorf("an accepted trace must end with an accept action: %v", last)
			}
			if !tt.accept && last == spec.ActionTypeAccept {
				t.Errorf("a rejected trace must not end with an accept action")
			}

			testStackDepth(t, gram, r.Trace)
		})
	}
}

// testStackDepth checks that a shift pushes one entry and a reduction by A → β changes the depth by 1 - |β|.
func testStackDepth(t *testing.T, gram Grammar, trace []*Step) {
	t.Helper()

	for i, s := range trace {
		if len(s.StackStates) != len(s.StackSymbols)+1 {
			t.Fatalf("step #%v: stack symbols and states are out of step: %v", i, s)
		}
		if s.RemainingInput[len(s.RemainingInput)-1] != gram.EOF() {
			t.Fatalf("step #%v: remaining input must end with the end-of-input symbol: %v", i, s.RemainingInput)
		}
		if i == len(trace)-1 {
			break
		}

		next := trace[i+1]
		delta := len(next.StackStates) - len(s.StackStates)
		switch s.Action.Type {
		case spec.ActionTypeShift:
			if delta != 1 {
				t.Errorf("step #%v: a shift action must push one entry: %v", i, delta)
			}
			if next.TopOfStack != s.RemainingInput[0] {
				t.Errorf("step #%v: a shift action must push the look-ahead: %v", i, next.TopOfStack)
			}
			if len(next.RemainingInput) != len(s.RemainingInput)-1 {
				t.Errorf("step #%v: a shift action must consume one symbol", i)
			}
		case spec.ActionTypeReduce:
			want := 1 - gram.AlternativeSymbolCount(s.Action.Production)
			if delta != want {
				t.Errorf("step #%v: reducing %v must change the depth by %v: %v", i, s.Action.ProductionText, want, delta)
			}
			if next.TopOfStack != gram.LHS(s.Action.Production) {
				t.Errorf("step #%v: a reduction must push its LHS: %v", i, next.TopOfStack)
			}
			if diff := cmp.Diff(s.RemainingInput, next.RemainingInput); diff != "" {
				t.Errorf("step #%v: a reduction must not consume input (-want +got):\n%s", i, diff)
			}
		default:
			t.Fatalf("step #%v: only the last step may be %v", i, s.Action.Type)
		}
	}
}

func TestParser_Trace(t *testing.T) {
	cg := compile(t, calibrationDef)
	gram := NewGrammar(cg)
	r, err := Parse(gram, []string{"d", "d"})
	if err != nil {
		t.Fatal(err)
	}

	ptab := cg.ParsingTable
	i0 := ptab.InitialState
	d1 := ptab.Action[i0]["d"].State
	c1 := ptab.GoTo[i0]["C"]
	d2 := ptab.Action[c1]["d"].State
	c2 := ptab.GoTo[c1]["C"]
	s := ptab.GoTo[i0]["S"]

	expected := []*Step{
		{
			StackSymbols:   []string{},
			StackStates:    []string{i0},
			TopOfStack:     "",
			RemainingInput: []string{"d", "d", "$"},
			Action:         &StepAction{Type: spec.ActionTypeShift, State: d1},
		},
		{
			StackSymbols:   []string{"d"},
			StackStates:    []string{i0, d1},
			TopOfStack:     "d",
			RemainingInput: []string{"d", "$"},
			Action:         &StepAction{Type: spec.ActionTypeReduce, Production: 4, ProductionText: "C -> d"},
		},
		{
			StackSymbols:   []string{"C"},
			StackStates:    []string{i0, c1},
			TopOfStack:     "C",
			RemainingInput: []string{"d", "$"},
			Action:         &StepAction{Type: spec.ActionTypeShift, State: d2},
		},
		{
			StackSymbols:   []string{"C", "d"},
			StackStates:    []string{i0, c1, d2},
			TopOfStack:     "d",
			RemainingInput: []string{"$"},
			Action:         &StepAction{Type: spec.ActionTypeReduce, Production: 4, ProductionText: "C -> d"},
		},
		{
			StackSymbols:   []string{"C", "C"},
			StackStates:    []string{i0, c1, c2},
			TopOfStack:     "C",
			RemainingInput: []string{"$"},
			Action:         &StepAction{Type: spec.ActionTypeReduce, Production: 2, ProductionText: "S -> C C"},
		},
		{
			StackSymbols:   []string{"S"},
			StackStates:    []string{i0, s},
			TopOfStack:     "S",
			RemainingInput: []string{"$"},
			Action:         &StepAction{Type: spec.ActionTypeAccept, Production: 1, ProductionText: "S' -> S"},
		},
	}
	if diff := cmp.Diff(expected, r.Trace); diff != "" {
		t.Fatalf("unexpected trace (-want +got):\n%s", diff)
	}
}

func TestParser_Concurrent(t *testing.T) {
	gram := NewGrammar(compile(t, calibrationDef))

	inputs := [][]string{
		{"d", "d"},
		{"c", "d", "c", "d"},
		{"d"},
		{"c", "c", "d", "d"},
		{"d", "c"},
	}
	expected := []bool{true, true, false, true, false}

	for n := 0; n < 8; n++ {
		results := make([]*Result, len(inputs))
		var g errgroup.Group
		for i, input := range inputs {
			i, input := i, input
			g.Go(func() error {
				r, err := Parse(gram, input)
				if err != nil {
					return err
				}
				results[i] = r
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			t.Fatal(err)
		}
		for i, r := range results {
			if r.Accepted != expected[i] {
				t.Errorf("%v: unexpected verdict: %v", inputs[i], r.Accepted)
			}
		}
	}
}

// loopingGrammar reduces by an epsilon production forever, which no generated table does.
type loopingGrammar struct{}

func (loopingGrammar) InitialState() string { return "I0" }

func (loopingGrammar) Action(state string, terminal string) (spec.ActionType, string, int) {
	return spec.ActionTypeReduce, "", 2
}

func (loopingGrammar) GoTo(state string, lhs string) (string, bool) { return "I0", true }
func (loopingGrammar) AlternativeSymbolCount(prod int) int          { return 0 }
func (loopingGrammar) LHS(prod int) string                          { return "A" }
func (loopingGrammar) Production(prod int) string                   { return "A -> ε" }
func (loopingGrammar) EOF() string                                  { return "$" }

func TestParser_MaxSteps(t *testing.T) {
	_, err := Parse(loopingGrammar{}, []string{"a"}, MaxSteps(100))
	if err == nil {
		t.Fatal("a parser must stop at the step limit")
	}

	_, err = NewParser(loopingGrammar{}, nil, MaxSteps(0))
	if err == nil {
		t.Fatal("a non-positive step limit must be rejected")
	}

	gram := NewGrammar(compile(t, calibrationDef))
	r, err := Parse(gram, []string{"c", "d", "d"}, MaxSteps(100))
	if err != nil {
		t.Fatal(err)
	}
	if !r.Accepted {
		t.Errorf("a generous limit must not change the verdict")
	}
	_, err = Parse(gram, []string{"c", "d", "d"}, MaxSteps(3))
	if err == nil {
		t.Errorf("a parser must stop at the step limit")
	}
}

func TestParser_Reuse(t *testing.T) {
	gram := NewGrammar(compile(t, calibrationDef))
	p, err := NewParser(gram, []string{"d", "d"})
	if err != nil {
		t.Fatal(err)
	}
	r1, err := p.Parse()
	if err != nil {
		t.Fatal(err)
	}
	r2, err := p.Parse()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(r1, r2); diff != "" {
		t.Errorf("parsing the same input twice must yield the same result (-want +got):\n%s", diff)
	}
}

func TestPrintTrace(t *testing.T) {
	gram := NewGrammar(compile(t, calibrationDef))
	r, err := Parse(gram, []string{"c", "d", "d"})
	if err != nil {
		t.Fatal(err)
	}

	var b bytes.Buffer
	PrintTrace(&b, r.Trace)
	out := b.String()
	for _, s := range []string{"PARSING STACK", "TOP OF STACK", "INPUT BUFFER", "ACTION", "c d d $", "reduce C -> c C", "reduce S -> C C", "accept"} {
		if !strings.Contains(out, s) {
			t.Errorf("the output must contain %#v:\n%v", s, out)
		}
	}
	// A header, a separator and one row per step at least.
	if lines := strings.Count(out, "\n"); lines < len(r.Trace)+2 {
		t.Errorf("unexpected number of lines: %v\n%v", lines, out)
	}
}

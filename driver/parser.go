package driver

import (
	"fmt"

	spec "github.com/nihei9/clr/spec/grammar"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'clr.driver'.
func tracer() tracing.Trace {
	return tracing.Select("clr.driver")
}

// Grammar is the view of a parsing table the parser needs. Implementations must be safe for
// concurrent reads because any number of parsers may share one.
type Grammar interface {
	// InitialState returns the state a parser starts with.
	InitialState() string

	// Action returns ACTION[state][terminal]: the action type, the destination state of a shift
	// action, and the production number of a reduce action.
	Action(state string, terminal string) (spec.ActionType, string, int)

	// GoTo returns GOTO[state][lhs].
	GoTo(state string, lhs string) (string, bool)

	// AlternativeSymbolCount returns the number of symbols a reduction by a production pops.
	AlternativeSymbolCount(prod int) int

	// LHS returns the LHS of a production.
	LHS(prod int) string

	// Production returns a production in a readable form.
	Production(prod int) string

	// EOF returns the end-of-input symbol.
	EOF() string
}

type ParserOption func(p *Parser) error

// MaxSteps bounds the number of steps a parser may take. Exceeding the limit is an error,
// which happens only with a corrupted parsing table. The default is unlimited.
func MaxSteps(n int) ParserOption {
	return func(p *Parser) error {
		if n <= 0 {
			return fmt.Errorf("the step limit must be positive: %v", n)
		}
		p.maxSteps = n
		return nil
	}
}

type stackEntry struct {
	sym   string
	state string
}

// Result is the outcome of a parse. A rejection isn't an error; Trace shows where it happened.
type Result struct {
	Accepted bool
	Trace    []*Step
}

type Parser struct {
	gram     Grammar
	input    []string
	pos      int
	stack    []*stackEntry
	trace    []*Step
	maxSteps int
}

// NewParser makes a parser reading input. Each element of input is a terminal symbol.
func NewParser(gram Grammar, input []string, opts ...ParserOption) (*Parser, error) {
	p := &Parser{
		gram:  gram,
		input: input,
	}

	for _, opt := range opts {
		err := opt(p)
		if err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Parse runs a parser over input and returns its result.
func Parse(gram Grammar, input []string, opts ...ParserOption) (*Result, error) {
	p, err := NewParser(gram, input, opts...)
	if err != nil {
		return nil, err
	}
	return p.Parse()
}

func (p *Parser) Parse() (*Result, error) {
	p.pos = 0
	p.stack = nil
	p.trace = nil
	p.push("", p.gram.InitialState())

ACTION_LOOP:
	for {
		if p.maxSteps > 0 && len(p.trace) >= p.maxSteps {
			return nil, fmt.Errorf("the parser didn't stop within %v steps", p.maxSteps)
		}

		tok, ok := p.lookahead()
		ty, nextState, prodNum := spec.ActionTypeError, "", 0
		if ok {
			ty, nextState, prodNum = p.gram.Action(p.top().state, tok)
		}
		step := p.record(ty, nextState, prodNum)

		switch ty {
		case spec.ActionTypeShift:
			p.push(tok, nextState)
			p.pos++
		case spec.ActionTypeReduce:
			n := p.gram.AlternativeSymbolCount(prodNum)
			if n > len(p.stack)-1 {
				return nil, fmt.Errorf("a reduction pops more symbols than the stack has; production: %v", p.gram.Production(prodNum))
			}
			p.pop(n)

			lhs := p.gram.LHS(prodNum)
			next, ok := p.gram.GoTo(p.top().state, lhs)
			if !ok {
				tracer().Infof("no GOTO entry; state: %v, symbol: %v", p.top().state, lhs)
				break ACTION_LOOP
			}
			p.push(lhs, next)
		case spec.ActionTypeAccept:
			tracer().Debugf("accepted after %v steps", len(p.trace))
			return &Result{
				Accepted: true,
				Trace:    p.trace,
			}, nil
		case spec.ActionTypeError:
			tracer().Debugf("rejected: %v", step)
			break ACTION_LOOP
		default:
			return nil, fmt.Errorf("unknown action type: %v", ty)
		}
	}

	return &Result{
		Accepted: false,
		Trace:    p.trace,
	}, nil
}

// lookahead returns the next input symbol, or the end-of-input symbol once the input is consumed.
// The end-of-input symbol occurring within the input is not a valid symbol.
func (p *Parser) lookahead() (string, bool) {
	if p.pos < len(p.input) {
		tok := p.input[p.pos]
		if tok == p.gram.EOF() {
			tracer().Infof("the end-of-input symbol occurred within the input; position: %v", p.pos)
			return tok, false
		}
		return tok, true
	}
	return p.gram.EOF(), true
}

func (p *Parser) record(ty spec.ActionType, nextState string, prodNum int) *Step {
	syms := make([]string, 0, len(p.stack)-1)
	states := make([]string, 0, len(p.stack))
	for i, e := range p.stack {
		if i > 0 {
			syms = append(syms, e.sym)
		}
		states = append(states, e.state)
	}

	var remaining []string
	if p.pos < len(p.input) {
		remaining = append(remaining, p.input[p.pos:]...)
	}
	remaining = append(remaining, p.gram.EOF())

	act := &StepAction{
		Type: ty,
	}
	switch ty {
	case spec.ActionTypeShift:
		act.State = nextState
	case spec.ActionTypeReduce, spec.ActionTypeAccept:
		act.Production = prodNum
		act.ProductionText = p.gram.Production(prodNum)
	}

	step := &Step{
		StackSymbols:   syms,
		StackStates:    states,
		TopOfStack:     p.top().sym,
		RemainingInput: remaining,
		Action:         act,
	}
	p.trace = append(p.trace, step)

	tracer().Debugf("%v", step)

	return step
}

func (p *Parser) push(sym, state string) {
	p.stack = append(p.stack, &stackEntry{
		sym:   sym,
		state: state,
	})
}

func (p *Parser) pop(n int) {
	p.stack = p.stack[:len(p.stack)-n]
}

func (p *Parser) top() *stackEntry {
	return p.stack[len(p.stack)-1]
}

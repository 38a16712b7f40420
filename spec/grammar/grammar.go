package grammar

import "strconv"

type CompiledGrammar struct {
	Name         string        `json:"name"`
	ParsingTable *ParsingTable `json:"parsing_table"`
}

// ActionType represents a kind of an entry of an ACTION table.
type ActionType string

const (
	ActionTypeShift  = ActionType("shift")
	ActionTypeReduce = ActionType("reduce")
	ActionTypeAccept = ActionType("accept")

	// ActionTypeError is never stored in a table. The driver reports it for an absent entry.
	ActionTypeError = ActionType("error")
)

type Action struct {
	Type ActionType `json:"type"`

	// State is the destination state of a shift action.
	State string `json:"state,omitempty"`

	// Production is the number of the production a reduce action reduces by.
	Production int `json:"production,omitempty"`
}

// ProductionNum represents a number of a production. Productions are numbered in the order
// in which they are declared starting from ProductionNumMin. ProductionNumStart is reserved
// for the production of the augmented start symbol.
type ProductionNum int

const (
	ProductionNumNil   = ProductionNum(0)
	ProductionNumStart = ProductionNum(1)
	ProductionNumMin   = ProductionNum(2)
)

func (n ProductionNum) Int() int {
	return int(n)
}

func (n ProductionNum) String() string {
	return strconv.Itoa(int(n))
}

type Production struct {
	Number int      `json:"number"`
	LHS    string   `json:"lhs"`
	RHS    []string `json:"rhs"`

	// Epsilon is true when the production derives the empty string. The RHS of such
	// a production contributes no symbols to the parse stack.
	Epsilon bool `json:"epsilon,omitempty"`
}

// Len returns the number of stack entries a reduction by the production pops.
func (p *Production) Len() int {
	if p.Epsilon {
		return 0
	}
	return len(p.RHS)
}

type ParsingTable struct {
	// States lists the state names in the order in which they were created.
	States       []string `json:"states"`
	InitialState string   `json:"initial_state"`

	// Terminals contains the end-of-input symbol, and NonTerminals contains the augmented start symbol.
	Terminals    []string `json:"terminals"`
	NonTerminals []string `json:"non_terminals"`
	StartSymbol  string   `json:"start_symbol"`
	EOFSymbol    string   `json:"eof_symbol"`

	// Productions is indexed by production numbers. The element at index 0 is always nil.
	Productions []*Production `json:"productions"`

	// Action[state][terminal] and GoTo[state][non-terminal]. An absent entry means an error.
	Action map[string]map[string]*Action `json:"action"`
	GoTo   map[string]map[string]string  `json:"goto"`

	// Fingerprint is a digest of the tables that doesn't depend on state names.
	Fingerprint string `json:"fingerprint"`
}

package grammar

import (
	"fmt"
	"strconv"

	"github.com/cnf/structhash"
	spec "github.com/nihei9/clr/spec/grammar"
)

type ActionType = spec.ActionType

const (
	ActionTypeShift  = spec.ActionTypeShift
	ActionTypeReduce = spec.ActionTypeReduce
	ActionTypeAccept = spec.ActionTypeAccept
	ActionTypeError  = spec.ActionTypeError
)

// Action is an entry of an ACTION table. State is the destination of a shift action, and Item is
// the reducing item of a reduce or an accept action.
type Action struct {
	Type  ActionType
	State *State
	Item  *Item
}

func (a *Action) String() string {
	switch a.Type {
	case ActionTypeShift:
		return fmt.Sprintf("shift %v", a.State.name)
	case ActionTypeReduce:
		return fmt.Sprintf("reduce %v", a.Item.prod)
	case ActionTypeAccept:
		return "accept"
	}
	return string(ActionTypeError)
}

type ConflictKind string

const (
	ConflictKindShiftReduce  = ConflictKind("SHIFT_REDUCE")
	ConflictKindReduceReduce = ConflictKind("REDUCE_REDUCE")
)

type Conflict interface {
	Kind() ConflictKind
}

// ShiftReduceConflict records a cell where both a shift and a reduction were possible.
// The reduction is always adopted.
type ShiftReduceConflict struct {
	State     string
	Symbol    Symbol
	NextState string
	Item      *Item
}

func (c *ShiftReduceConflict) Kind() ConflictKind {
	return ConflictKindShiftReduce
}

func (c *ShiftReduceConflict) String() string {
	return fmt.Sprintf("shift/reduce conflict in %v on %v (shift %v, reduce %v): reduce adopted", c.State, c.Symbol, c.NextState, c.Item.prod)
}

// ReduceReduceConflict is a cell where two different productions could be reduced.
// Such a grammar has no CLR(1) parsing table.
type ReduceReduceConflict struct {
	State     string
	LookAhead Symbol
	Item1     *Item
	Item2     *Item
}

func (c *ReduceReduceConflict) Kind() ConflictKind {
	return ConflictKindReduceReduce
}

func (c *ReduceReduceConflict) Error() string {
	return fmt.Sprintf("reduce/reduce conflict in %v on %v: [%v] and [%v]", c.State, c.LookAhead, c.Item1, c.Item2)
}

var (
	_ Conflict = &ShiftReduceConflict{}
	_ Conflict = &ReduceReduceConflict{}
)

// ParsingTable holds ACTION and GOTO tables of a canonical LR(1) automaton. A ParsingTable is
// immutable once built, and any number of goroutines may read it.
type ParsingTable struct {
	gram        *Grammar
	states      []*State
	initial     *State
	action      map[string]map[Symbol]*Action
	goTo        map[string]map[Symbol]*State
	srConflicts []*ShiftReduceConflict
}

func newParsingTable(gram *Grammar, states []*State, initial *State) *ParsingTable {
	tab := &ParsingTable{
		gram:    gram,
		states:  states,
		initial: initial,
		action:  map[string]map[Symbol]*Action{},
		goTo:    map[string]map[Symbol]*State{},
	}
	for _, s := range states {
		tab.action[s.name] = map[Symbol]*Action{}
		tab.goTo[s.name] = map[Symbol]*State{}
	}
	return tab
}

// Grammar returns the augmented grammar the table was built from.
func (t *ParsingTable) Grammar() *Grammar {
	return t.gram
}

// States returns the states in the order in which they were created.
func (t *ParsingTable) States() []*State {
	return t.states
}

func (t *ParsingTable) InitialState() *State {
	return t.initial
}

// Action returns ACTION[state][sym]. It returns nil for an error entry.
func (t *ParsingTable) Action(state string, sym Symbol) *Action {
	return t.action[state][sym]
}

// GoTo returns the destination of the transition from state by sym, or nil.
func (t *ParsingTable) GoTo(state string, sym Symbol) *State {
	return t.goTo[state][sym]
}

func (t *ParsingTable) ShiftReduceConflicts() []*ShiftReduceConflict {
	return t.srConflicts
}

func (t *ParsingTable) readAction(state string, sym Symbol) *Action {
	return t.action[state][sym]
}

// writeReduceAction writes a reduce action, or an accept action when the item reduces the augmented
// start symbol on `$`. Reducing the same production twice is harmless, while reducing a different
// production in the same cell is a reduce/reduce conflict.
func (t *ParsingTable) writeReduceAction(state *State, sym Symbol, item *Item) error {
	if act := t.readAction(state.name, sym); act != nil {
		if act.Item.prod.equals(item.prod) {
			// The cell keeps the first item; both reduce the same production.
			tracer().Debugf("duplicate reduction suppressed; state: %v, symbol: %v, production: %v", state.name, sym, item.prod)
			return nil
		}
		return &ReduceReduceConflict{
			State:     state.name,
			LookAhead: sym,
			Item1:     act.Item,
			Item2:     item,
		}
	}

	if sym == SymbolEOF && item.prod.lhs == t.gram.startSymbol {
		t.action[state.name][sym] = &Action{
			Type: ActionTypeAccept,
			Item: item,
		}
		return nil
	}
	t.action[state.name][sym] = &Action{
		Type: ActionTypeReduce,
		Item: item,
	}
	return nil
}

// writeShiftAction writes a shift action. When the cell already holds a reduction, the reduction
// stays and the conflict is recorded.
func (t *ParsingTable) writeShiftAction(state *State, sym Symbol, next *State) {
	if act := t.readAction(state.name, sym); act != nil {
		c := &ShiftReduceConflict{
			State:     state.name,
			Symbol:    sym,
			NextState: next.name,
			Item:      act.Item,
		}
		t.srConflicts = append(t.srConflicts, c)
		tracer().Infof("%v", c)
		return
	}
	t.action[state.name][sym] = &Action{
		Type:  ActionTypeShift,
		State: next,
	}
}

func (t *ParsingTable) writeGoTo(state *State, sym Symbol, next *State) {
	t.goTo[state.name][sym] = next
}

type fingerprintRow struct {
	Actions []string
	GoTos   []string
}

type fingerprint struct {
	Rows []fingerprintRow
}

// Fingerprint returns a digest of ACTION and GOTO tables that doesn't depend on state names.
// States are renumbered in breadth-first order from the initial state, following transitions in
// the symbol order of the grammar, so two tables with the same topology have the same fingerprint.
func (t *ParsingTable) Fingerprint() (string, error) {
	syms := append(t.gram.Terminals(), t.gram.NonTerminals()...)

	canon := map[string]int{}
	queue := []*State{t.initial}
	canon[t.initial.name] = 0
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for _, sym := range syms {
			next := t.goTo[s.name][sym]
			if next == nil {
				continue
			}
			if _, ok := canon[next.name]; ok {
				continue
			}
			canon[next.name] = len(canon)
			queue = append(queue, next)
		}
	}

	rows := make([]fingerprintRow, len(canon))
	for _, s := range t.states {
		n, ok := canon[s.name]
		if !ok {
			return "", fmt.Errorf("state %v is unreachable from the initial state", s.name)
		}
		row := fingerprintRow{}
		for _, sym := range t.gram.terminals {
			act := t.action[s.name][sym]
			if act == nil {
				continue
			}
			var e string
			switch act.Type {
			case ActionTypeShift:
				e = strconv.Itoa(canon[act.State.name])
			default:
				e = act.Item.prod.num.String()
			}
			row.Actions = append(row.Actions, fmt.Sprintf("%v:%v:%v", sym, act.Type, e))
		}
		for _, sym := range syms {
			next := t.goTo[s.name][sym]
			if next == nil {
				continue
			}
			row.GoTos = append(row.GoTos, fmt.Sprintf("%v:%v", sym, canon[next.name]))
		}
		rows[n] = row
	}

	return structhash.Hash(fingerprint{Rows: rows}, 1)
}

package grammar

type Terminal struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

type NonTerminal struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

type Item struct {
	Production int      `json:"production"`
	Dot        int      `json:"dot"`
	LookAhead  []string `json:"look_ahead"`
}

type Transition struct {
	Symbol string `json:"symbol"`
	State  string `json:"state"`
}

type Reduce struct {
	LookAhead  []string `json:"look_ahead"`
	Production int      `json:"production"`
}

// SRConflict is a shift/reduce conflict. Such a conflict is always resolved in favor of the reduction.
type SRConflict struct {
	Symbol            string `json:"symbol"`
	State             string `json:"state"`
	Production        int    `json:"production"`
	AdoptedProduction int    `json:"adopted_production"`
}

type State struct {
	Name       string        `json:"name"`
	Number     int           `json:"number"`
	Kernel     []*Item       `json:"kernel"`
	Closure    []*Item       `json:"closure"`
	Accept     bool          `json:"accept"`
	Shift      []*Transition `json:"shift"`
	Reduce     []*Reduce     `json:"reduce"`
	GoTo       []*Transition `json:"goto"`
	SRConflict []*SRConflict `json:"sr_conflict"`
}

type Report struct {
	Terminals    []*Terminal    `json:"terminals"`
	NonTerminals []*NonTerminal `json:"non_terminals"`
	Productions  []*Production  `json:"productions"`
	States       []*State       `json:"states"`
	Dropped      []string       `json:"dropped"`
}

package grammar

import (
	spec "github.com/nihei9/clr/spec/grammar"
)

type compileConfig struct {
	isReportingEnabled bool
	kernelMatch        KernelMatch
}

type CompileOption func(config *compileConfig)

func EnableReporting() CompileOption {
	return func(config *compileConfig) {
		config.isReportingEnabled = true
	}
}

func KernelMatching(m KernelMatch) CompileOption {
	return func(config *compileConfig) {
		config.kernelMatch = m
	}
}

// Compile builds the parsing table of gram and packs it into a portable compiled grammar.
// The report is nil unless EnableReporting is passed.
func Compile(gram *Grammar, opts ...CompileOption) (*spec.CompiledGrammar, *spec.Report, error) {
	config := &compileConfig{}
	for _, opt := range opts {
		opt(config)
	}

	b, err := NewTableBuilder(gram, WithKernelMatch(config.kernelMatch))
	if err != nil {
		return nil, nil, err
	}
	tab, err := b.Build()
	if err != nil {
		return nil, nil, err
	}

	ptab, err := genSpecParsingTable(tab)
	if err != nil {
		return nil, nil, err
	}

	var report *spec.Report
	if config.isReportingEnabled {
		report = genReport(tab)
	}

	return &spec.CompiledGrammar{
		Name:         gram.name,
		ParsingTable: ptab,
	}, report, nil
}

func genSpecProductions(g *Grammar) []*spec.Production {
	var maxNum productionNum
	for _, p := range g.productionSet.getAllProductions() {
		if p.num > maxNum {
			maxNum = p.num
		}
	}
	prods := make([]*spec.Production, maxNum.Int()+1)
	for _, p := range g.productionSet.getAllProductions() {
		prods[p.num] = &spec.Production{
			Number:  p.num.Int(),
			LHS:     p.lhs.String(),
			RHS:     toTexts(p.rhs),
			Epsilon: p.IsEpsilon(),
		}
	}
	return prods
}

func genSpecParsingTable(tab *ParsingTable) (*spec.ParsingTable, error) {
	g := tab.gram

	fp, err := tab.Fingerprint()
	if err != nil {
		return nil, err
	}

	states := make([]string, len(tab.states))
	action := map[string]map[string]*spec.Action{}
	goTo := map[string]map[string]string{}
	for i, s := range tab.states {
		states[i] = s.name

		acts := map[string]*spec.Action{}
		for _, sym := range g.terminals {
			act := tab.Action(s.name, sym)
			if act == nil {
				continue
			}
			e := &spec.Action{
				Type: act.Type,
			}
			switch act.Type {
			case ActionTypeShift:
				e.State = act.State.name
			default:
				e.Production = act.Item.prod.num.Int()
			}
			acts[sym.String()] = e
		}
		action[s.name] = acts

		gotos := map[string]string{}
		for _, sym := range g.nonTerminals {
			next := tab.GoTo(s.name, sym)
			if next == nil {
				continue
			}
			gotos[sym.String()] = next.name
		}
		goTo[s.name] = gotos
	}

	return &spec.ParsingTable{
		States:       states,
		InitialState: tab.initial.name,
		Terminals:    toTexts(g.terminals),
		NonTerminals: toTexts(g.nonTerminals),
		StartSymbol:  g.startSymbol.String(),
		EOFSymbol:    SymbolEOF.String(),
		Productions:  genSpecProductions(g),
		Action:       action,
		GoTo:         goTo,
		Fingerprint:  fp,
	}, nil
}

func genReportItems(items []*Item) []*spec.Item {
	ris := make([]*spec.Item, len(items))
	for i, item := range items {
		ris[i] = &spec.Item{
			Production: item.prod.num.Int(),
			Dot:        item.dot,
			LookAhead:  toTexts(item.lookAhead.symbols()),
		}
	}
	return ris
}

func genReport(tab *ParsingTable) *spec.Report {
	g := tab.gram

	var terms []*spec.Terminal
	for i, sym := range g.terminals {
		terms = append(terms, &spec.Terminal{
			Number: i,
			Name:   sym.String(),
		})
	}

	var nonTerms []*spec.NonTerminal
	for i, sym := range g.nonTerminals {
		nonTerms = append(nonTerms, &spec.NonTerminal{
			Number: i,
			Name:   sym.String(),
		})
	}

	srConflicts := map[string][]*spec.SRConflict{}
	for _, c := range tab.srConflicts {
		srConflicts[c.State] = append(srConflicts[c.State], &spec.SRConflict{
			Symbol:            c.Symbol.String(),
			State:             c.NextState,
			Production:        c.Item.prod.num.Int(),
			AdoptedProduction: c.Item.prod.num.Int(),
		})
	}

	var states []*spec.State
	for _, s := range tab.states {
		rs := &spec.State{
			Name:       s.name,
			Number:     s.num.Int(),
			Kernel:     genReportItems(s.kernel),
			Closure:    genReportItems(s.items),
			SRConflict: srConflicts[s.name],
		}

		var reduceOrder []int
		reduces := map[int]*spec.Reduce{}
		for _, sym := range g.terminals {
			act := tab.Action(s.name, sym)
			if act == nil {
				continue
			}
			switch act.Type {
			case ActionTypeShift:
				rs.Shift = append(rs.Shift, &spec.Transition{
					Symbol: sym.String(),
					State:  act.State.name,
				})
			case ActionTypeAccept:
				rs.Accept = true
			case ActionTypeReduce:
				num := act.Item.prod.num.Int()
				r, ok := reduces[num]
				if !ok {
					r = &spec.Reduce{
						Production: num,
					}
					reduces[num] = r
					reduceOrder = append(reduceOrder, num)
				}
				r.LookAhead = append(r.LookAhead, sym.String())
			}
		}
		for _, num := range reduceOrder {
			rs.Reduce = append(rs.Reduce, reduces[num])
		}

		for _, sym := range g.nonTerminals {
			next := tab.GoTo(s.name, sym)
			if next == nil {
				continue
			}
			rs.GoTo = append(rs.GoTo, &spec.Transition{
				Symbol: sym.String(),
				State:  next.name,
			})
		}

		states = append(states, rs)
	}

	var dropped []string
	for _, d := range g.diagnostics {
		dropped = append(dropped, d.Error())
	}

	return &spec.Report{
		Terminals:    terms,
		NonTerminals: nonTerms,
		Productions:  genSpecProductions(g),
		States:       states,
		Dropped:      dropped,
	}
}

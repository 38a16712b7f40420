package grammar

import (
	"fmt"
	"strconv"
)

type stateNum int

const stateNumInitial = stateNum(0)

func (n stateNum) Int() int {
	return int(n)
}

// Name returns a state name like `I0`.
func (n stateNum) Name() string {
	return "I" + strconv.Itoa(int(n))
}

func (n stateNum) next() stateNum {
	return stateNum(n + 1)
}

// State is a state of an LR(1) automaton: a kernel and the closure of the kernel.
type State struct {
	num       stateNum
	name      string
	kernel    []*Item
	items     []*Item
	processed bool
}

func newState(num stateNum, kernel []*Item, g *Grammar) (*State, error) {
	if len(kernel) == 0 {
		return nil, fmt.Errorf("a kernel need at least one item")
	}

	items, err := genClosure(kernel, g)
	if err != nil {
		return nil, err
	}

	return &State{
		num:    num,
		name:   num.Name(),
		kernel: kernel,
		items:  items,
	}, nil
}

// genClosure expands kernel into its closure. The item list grows while it is iterated, and an item
// is added only when no item with the same production, dot, and look-ahead set is present.
func genClosure(kernel []*Item, g *Grammar) ([]*Item, error) {
	items := []*Item{}
	knownItems := map[itemID]struct{}{}
	for _, item := range kernel {
		if _, known := knownItems[item.id]; known {
			continue
		}
		items = append(items, item)
		knownItems[item.id] = struct{}{}
	}

	for i := 0; i < len(items); i++ {
		item := items[i]
		if item.reducible || !g.IsNonTerminal(item.dottedSymbol) {
			continue
		}

		first, err := g.firstOf(item.prod.rhs[item.dot+1:])
		if err != nil {
			return nil, err
		}
		if first.contains(SymbolEpsilon) {
			first.remove(SymbolEpsilon)
			first.union(item.lookAhead)
		}

		for _, prod := range g.ProductionsFor(item.dottedSymbol) {
			ci, err := newItem(prod, 0, first)
			if err != nil {
				return nil, err
			}
			if _, known := knownItems[ci.id]; known {
				continue
			}
			items = append(items, ci)
			knownItems[ci.id] = struct{}{}
		}
	}

	return items, nil
}

func (s *State) Name() string {
	return s.name
}

func (s *State) Num() int {
	return s.num.Int()
}

func (s *State) Kernel() []*Item {
	return s.kernel
}

// Items returns the closure of the kernel. The kernel items come first.
func (s *State) Items() []*Item {
	return s.items
}

// ReducingItems returns the items whose dot is at the end of the RHS.
func (s *State) ReducingItems() []*Item {
	var items []*Item
	for _, item := range s.items {
		if item.reducible {
			items = append(items, item)
		}
	}
	return items
}

// IsOfSameKernel reports whether every item of candidate is in the kernel of s.
// It doesn't check the reverse inclusion.
func (s *State) IsOfSameKernel(candidate []*Item) bool {
	for _, c := range candidate {
		found := false
		for _, item := range s.kernel {
			if item.equals(c) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// hasExactKernel reports whether the kernel of s and candidate contain the same items.
func (s *State) hasExactKernel(candidate []*Item) bool {
	if !s.IsOfSameKernel(candidate) {
		return false
	}
	for _, item := range s.kernel {
		found := false
		for _, c := range candidate {
			if item.equals(c) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (s *State) String() string {
	return s.name
}

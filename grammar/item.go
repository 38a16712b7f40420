package grammar

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"strings"
)

type itemID [32]byte

// Item is an LR(1) item. Two items are the same item only when their productions, dot positions,
// and look-ahead sets are all equal.
type Item struct {
	id   itemID
	prod *Production

	// C → c C, c | d
	//
	// Dot | Dotted Symbol | Item
	// ----+---------------+------------------
	// 0   | c             | C → . c C, c | d
	// 1   | C             | C → c . C, c | d
	// 2   | Nil           | C → c C ., c | d
	dot          int
	dottedSymbol Symbol
	lookAhead    *symbolSet

	// When reducible is true, the dot is at the end of the RHS or the production is an epsilon production.
	reducible bool
}

func newItem(prod *Production, dot int, lookAhead *symbolSet) (*Item, error) {
	if prod == nil {
		return nil, fmt.Errorf("production must be non-nil")
	}
	if dot < 0 || dot > prod.rhsLen {
		return nil, fmt.Errorf("dot must be between 0 and %v", prod.rhsLen)
	}
	if lookAhead == nil {
		lookAhead = newSymbolSet()
	}

	var id itemID
	{
		b := []byte{}
		b = append(b, prod.id[:]...)
		bDot := make([]byte, 8)
		binary.LittleEndian.PutUint64(bDot, uint64(dot))
		b = append(b, bDot...)
		for _, sym := range lookAhead.symbols() {
			b = append(b, []byte(sym)...)
			b = append(b, 0)
		}
		id = sha256.Sum256(b)
	}

	dottedSymbol := symbolNil
	if dot < prod.rhsLen {
		dottedSymbol = prod.rhs[dot]
	}

	return &Item{
		id:           id,
		prod:         prod,
		dot:          dot,
		dottedSymbol: dottedSymbol,
		lookAhead:    lookAhead,
		reducible:    dot == prod.rhsLen || prod.IsEpsilon(),
	}, nil
}

// advance returns the item whose dot is moved one symbol to the right.
func (item *Item) advance() (*Item, error) {
	return newItem(item.prod, item.dot+1, item.lookAhead)
}

func (item *Item) equals(other *Item) bool {
	return item.id == other.id
}

func (item *Item) Production() *Production {
	return item.prod
}

func (item *Item) Dot() int {
	return item.dot
}

func (item *Item) LookAhead() []Symbol {
	return item.lookAhead.symbols()
}

func (item *Item) IsReducing() bool {
	return item.reducible
}

// String returns a string like `C -> c . C, c | d`.
func (item *Item) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v ->", item.prod.lhs)
	for i, sym := range item.prod.rhs {
		if i == item.dot {
			fmt.Fprintf(&b, " .")
		}
		fmt.Fprintf(&b, " %v", sym)
	}
	if item.dot >= item.prod.rhsLen {
		fmt.Fprintf(&b, " .")
	}
	fmt.Fprintf(&b, ", %v", item.lookAhead)
	return b.String()
}

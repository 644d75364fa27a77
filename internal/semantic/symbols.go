package semantic

import (
	"fmt"

	"qasmc/internal/errors"
)

type SymbolKind int

const (
	SymbolGate SymbolKind = iota
	SymbolSubroutine
	SymbolConstVar
	SymbolRegister
	SymbolVar
	SymbolAlias
	SymbolBuiltin
	SymbolQubit
	SymbolParameter
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolGate:
		return "gate"
	case SymbolSubroutine:
		return "subroutine"
	case SymbolConstVar:
		return "constant"
	case SymbolRegister:
		return "register"
	case SymbolVar:
		return "variable"
	case SymbolAlias:
		return "alias"
	case SymbolBuiltin:
		return "builtin"
	case SymbolQubit:
		return "qubit"
	case SymbolParameter:
		return "parameter"
	default:
		return fmt.Sprintf("SymbolKind(%d)", int(k))
	}
}

// visibleAcrossBoundary reports whether a global of this kind can be seen
// from inside a gate or subroutine body.
func (k SymbolKind) visibleAcrossBoundary() bool {
	switch k {
	case SymbolConstVar, SymbolGate, SymbolSubroutine, SymbolBuiltin:
		return true
	default:
		return false
	}
}

type RefKind int

const (
	RefNone RefKind = iota
	RefID
	RefOpaque
)

// IRRef points from a symbol into the IR: nothing, an integer id
// (register, gate, subroutine, variable, argument index) or opaque text.
type IRRef struct {
	Kind RefKind
	ID   int
	Text string
}

func NoRef() IRRef { return IRRef{Kind: RefNone} }

func IDRef(id int) IRRef { return IRRef{Kind: RefID, ID: id} }

func OpaqueRef(text string) IRRef { return IRRef{Kind: RefOpaque, Text: text} }

// AsID returns the id of an RefID reference.
func (r IRRef) AsID() (int, bool) {
	return r.ID, r.Kind == RefID
}

func (r IRRef) String() string {
	switch r.Kind {
	case RefID:
		return fmt.Sprintf("#%d", r.ID)
	case RefOpaque:
		return fmt.Sprintf("%q", r.Text)
	default:
		return "none"
	}
}

type Symbol struct {
	Name     string
	Kind     SymbolKind
	Ref      IRRef
	Aliases  []string
	Position errors.Position
}

type SymbolTable struct {
	symbols map[string]*Symbol
	order   []string
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		symbols: make(map[string]*Symbol),
	}
}

func (st *SymbolTable) Define(symbol *Symbol) {
	if _, exists := st.symbols[symbol.Name]; !exists {
		st.order = append(st.order, symbol.Name)
	}
	st.symbols[symbol.Name] = symbol
}

func (st *SymbolTable) LookupLocal(name string) *Symbol {
	if symbol, exists := st.symbols[name]; exists {
		return symbol
	}
	return nil
}

// Names returns the defined names in definition order.
func (st *SymbolTable) Names() []string {
	return st.order
}

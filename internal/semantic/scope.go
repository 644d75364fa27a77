package semantic

import (
	"qasmc/internal/errors"
)

type ScopeKind int

const (
	ScopeGlobal ScopeKind = iota
	ScopeGateOrSubroutine
	ScopeBlock
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeGlobal:
		return "global"
	case ScopeGateOrSubroutine:
		return "gate/subroutine"
	case ScopeBlock:
		return "block"
	default:
		return "unknown"
	}
}

type Scope struct {
	Kind    ScopeKind
	Symbols *SymbolTable
}

// ScopeManager is the stack of lexical scopes. The bottom entry is the
// global scope and cannot be popped.
type ScopeManager struct {
	scopes []*Scope
}

func NewScopeManager() *ScopeManager {
	sm := &ScopeManager{}
	sm.EnterScope(ScopeGlobal)
	return sm
}

func (sm *ScopeManager) EnterScope(kind ScopeKind) {
	sm.scopes = append(sm.scopes, &Scope{Kind: kind, Symbols: NewSymbolTable()})
}

func (sm *ScopeManager) ExitScope() error {
	if len(sm.scopes) == 0 {
		return errors.InvalidScopeTransition("no active scope to exit")
	}
	if sm.scopes[len(sm.scopes)-1].Kind == ScopeGlobal {
		return errors.InvalidScopeTransition("cannot exit the global scope")
	}
	sm.scopes = sm.scopes[:len(sm.scopes)-1]
	return nil
}

func (sm *ScopeManager) CurrentScopeKind() ScopeKind {
	if len(sm.scopes) == 0 {
		return ScopeGlobal
	}
	return sm.scopes[len(sm.scopes)-1].Kind
}

func (sm *ScopeManager) Depth() int {
	return len(sm.scopes)
}

// AddSymbol defines symbol and one entry per alias in the innermost scope.
// Alias entries copy the canonical symbol except for the name. Nothing is
// defined when any of the names is taken.
func (sm *ScopeManager) AddSymbol(symbol Symbol) error {
	if len(sm.scopes) == 0 {
		return errors.InvalidScopeTransition("no active scope")
	}
	table := sm.scopes[len(sm.scopes)-1].Symbols

	seen := map[string]bool{symbol.Name: true}
	if table.LookupLocal(symbol.Name) != nil {
		return errors.DuplicateDefinition("symbol", symbol.Name, symbol.Position)
	}
	for _, alias := range symbol.Aliases {
		if seen[alias] || table.LookupLocal(alias) != nil {
			return errors.DuplicateDefinition("symbol", alias, symbol.Position)
		}
		seen[alias] = true
	}

	canonical := symbol
	canonical.Aliases = append([]string(nil), symbol.Aliases...)
	table.Define(&canonical)
	for _, alias := range symbol.Aliases {
		entry := canonical
		entry.Name = alias
		entry.Aliases = nil
		table.Define(&entry)
	}
	return nil
}

// LookupSymbol searches innermost to outermost. Once a gate or subroutine
// scope has been passed, global symbols are only visible when they are
// constants, gates, subroutines or builtins.
func (sm *ScopeManager) LookupSymbol(name string) (*Symbol, bool) {
	crossed := false
	for i := len(sm.scopes) - 1; i >= 0; i-- {
		scope := sm.scopes[i]
		if symbol := scope.Symbols.LookupLocal(name); symbol != nil {
			if scope.Kind == ScopeGlobal && crossed && !symbol.Kind.visibleAcrossBoundary() {
				return nil, false
			}
			return symbol, true
		}
		if scope.Kind == ScopeGateOrSubroutine {
			crossed = true
		}
	}
	return nil, false
}

// LookupHidden finds a global symbol that LookupSymbol refuses to return
// because of the gate/subroutine boundary. Used to explain misses.
func (sm *ScopeManager) LookupHidden(name string) (*Symbol, bool) {
	if _, ok := sm.LookupSymbol(name); ok || len(sm.scopes) == 0 {
		return nil, false
	}
	symbol := sm.scopes[0].Symbols.LookupLocal(name)
	return symbol, symbol != nil
}

// VisibleNames lists every name LookupSymbol would resolve from the current scope.
func (sm *ScopeManager) VisibleNames() []string {
	var names []string
	seen := make(map[string]bool)
	for _, scope := range sm.scopes {
		for _, name := range scope.Symbols.Names() {
			if seen[name] {
				continue
			}
			if _, ok := sm.LookupSymbol(name); ok {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

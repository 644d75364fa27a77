package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qasmc/internal/errors"
)

func TestGlobalScopeCannotBeExited(t *testing.T) {
	sm := NewScopeManager()
	assert.Equal(t, 1, sm.Depth())
	assert.Equal(t, ScopeGlobal, sm.CurrentScopeKind())

	err := sm.ExitScope()
	require.Error(t, err)
	assert.Equal(t, errors.ErrorInvalidScopeTransition, errors.Code(err))
	assert.Equal(t, 1, sm.Depth())
}

func TestExitWithNoScope(t *testing.T) {
	sm := &ScopeManager{}
	err := sm.ExitScope()
	require.Error(t, err)
	assert.Equal(t, errors.ErrorInvalidScopeTransition, errors.Code(err))
}

func TestEnterExit(t *testing.T) {
	sm := NewScopeManager()
	sm.EnterScope(ScopeGateOrSubroutine)
	sm.EnterScope(ScopeBlock)
	assert.Equal(t, 3, sm.Depth())
	assert.Equal(t, ScopeBlock, sm.CurrentScopeKind())

	require.NoError(t, sm.ExitScope())
	assert.Equal(t, ScopeGateOrSubroutine, sm.CurrentScopeKind())
	require.NoError(t, sm.ExitScope())
	assert.Equal(t, ScopeGlobal, sm.CurrentScopeKind())
}

func TestAddSymbolDuplicate(t *testing.T) {
	sm := NewScopeManager()
	require.NoError(t, sm.AddSymbol(Symbol{Name: "q", Kind: SymbolRegister, Ref: IDRef(0)}))

	err := sm.AddSymbol(Symbol{Name: "q", Kind: SymbolVar})
	require.Error(t, err)
	assert.Equal(t, errors.ErrorDuplicateDefinition, errors.Code(err))

	// shadowing in a nested scope is allowed
	sm.EnterScope(ScopeBlock)
	require.NoError(t, sm.AddSymbol(Symbol{Name: "q", Kind: SymbolVar}))
	symbol, ok := sm.LookupSymbol("q")
	require.True(t, ok)
	assert.Equal(t, SymbolVar, symbol.Kind)
}

func TestAliasesShareReference(t *testing.T) {
	sm := NewScopeManager()
	require.NoError(t, sm.AddSymbol(Symbol{
		Name:    "cx",
		Kind:    SymbolGate,
		Ref:     IDRef(7),
		Aliases: []string{"CX", "cnot"},
	}))

	canonical, ok := sm.LookupSymbol("cx")
	require.True(t, ok)
	assert.Equal(t, []string{"CX", "cnot"}, canonical.Aliases)

	for _, alias := range []string{"CX", "cnot"} {
		symbol, ok := sm.LookupSymbol(alias)
		require.True(t, ok, alias)
		assert.Equal(t, alias, symbol.Name)
		assert.Equal(t, canonical.Ref, symbol.Ref)
		assert.Equal(t, canonical.Kind, symbol.Kind)
		assert.Empty(t, symbol.Aliases)
	}
}

func TestAddSymbolIsAtomic(t *testing.T) {
	sm := NewScopeManager()
	require.NoError(t, sm.AddSymbol(Symbol{Name: "taken", Kind: SymbolVar}))

	err := sm.AddSymbol(Symbol{Name: "fresh", Kind: SymbolGate, Aliases: []string{"other", "taken"}})
	require.Error(t, err)

	_, ok := sm.LookupSymbol("fresh")
	assert.False(t, ok)
	_, ok = sm.LookupSymbol("other")
	assert.False(t, ok)

	err = sm.AddSymbol(Symbol{Name: "g", Kind: SymbolGate, Aliases: []string{"a", "a"}})
	require.Error(t, err)
	_, ok = sm.LookupSymbol("g")
	assert.False(t, ok)
}

func TestBoundaryVisibility(t *testing.T) {
	sm := NewScopeManager()
	globals := []Symbol{
		{Name: "v", Kind: SymbolVar},
		{Name: "q", Kind: SymbolRegister, Ref: IDRef(0)},
		{Name: "n", Kind: SymbolConstVar, Ref: IDRef(1)},
		{Name: "h", Kind: SymbolGate, Ref: IDRef(0)},
		{Name: "f", Kind: SymbolSubroutine, Ref: IDRef(0)},
		{Name: "pi", Kind: SymbolBuiltin, Ref: OpaqueRef("3.14")},
	}
	for _, s := range globals {
		require.NoError(t, sm.AddSymbol(s))
	}

	// a block at global level sees everything
	sm.EnterScope(ScopeBlock)
	for _, s := range globals {
		_, ok := sm.LookupSymbol(s.Name)
		assert.True(t, ok, s.Name)
	}
	require.NoError(t, sm.ExitScope())

	sm.EnterScope(ScopeGateOrSubroutine)
	require.NoError(t, sm.AddSymbol(Symbol{Name: "a", Kind: SymbolQubit, Ref: IDRef(0)}))
	sm.EnterScope(ScopeBlock)

	for _, name := range []string{"n", "h", "f", "pi", "a"} {
		_, ok := sm.LookupSymbol(name)
		assert.True(t, ok, name)
	}
	for _, name := range []string{"v", "q"} {
		_, ok := sm.LookupSymbol(name)
		assert.False(t, ok, name)

		hidden, ok := sm.LookupHidden(name)
		require.True(t, ok, name)
		assert.Equal(t, name, hidden.Name)
	}

	_, ok := sm.LookupSymbol("missing")
	assert.False(t, ok)
	_, ok = sm.LookupHidden("missing")
	assert.False(t, ok)

	names := sm.VisibleNames()
	assert.Contains(t, names, "a")
	assert.Contains(t, names, "h")
	assert.NotContains(t, names, "v")
}

func TestShadowingInsideGate(t *testing.T) {
	sm := NewScopeManager()
	require.NoError(t, sm.AddSymbol(Symbol{Name: "a", Kind: SymbolRegister, Ref: IDRef(3)}))

	sm.EnterScope(ScopeGateOrSubroutine)
	require.NoError(t, sm.AddSymbol(Symbol{Name: "a", Kind: SymbolQubit, Ref: IDRef(0)}))

	symbol, ok := sm.LookupSymbol("a")
	require.True(t, ok)
	assert.Equal(t, SymbolQubit, symbol.Kind)
	assert.Equal(t, IDRef(0), symbol.Ref)
}

func TestIRRef(t *testing.T) {
	id, ok := IDRef(4).AsID()
	assert.True(t, ok)
	assert.Equal(t, 4, id)

	_, ok = OpaqueRef("x").AsID()
	assert.False(t, ok)
	_, ok = NoRef().AsID()
	assert.False(t, ok)

	assert.Equal(t, "#4", IDRef(4).String())
	assert.Equal(t, `"x"`, OpaqueRef("x").String())
	assert.Equal(t, "none", NoRef().String())
}

func TestKindStrings(t *testing.T) {
	assert.Equal(t, "gate", SymbolGate.String())
	assert.Equal(t, "constant", SymbolConstVar.String())
	assert.Equal(t, "block", ScopeBlock.String())
}

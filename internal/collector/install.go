package collector

import (
	"qasmc/internal/builtins"
	"qasmc/internal/gatelib"
	"qasmc/internal/ir"
	"qasmc/internal/semantic"
)

// InstallBuiltins defines the builtin constants in the global scope.
func (c *Context) InstallBuiltins() error {
	for _, constant := range builtins.Constants {
		err := c.Scopes.AddSymbol(semantic.Symbol{
			Name: constant.Name,
			Kind: semantic.SymbolBuiltin,
			Ref:  semantic.OpaqueRef(constant.Value),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// InstallLibrary adds every library gate as an atomic gate, reachable by its
// canonical name and each alias.
func (c *Context) InstallLibrary(lib *gatelib.Library) error {
	for _, g := range lib.Gates {
		def := &ir.GateDef{
			Name:      g.Name,
			Aliases:   g.Aliases,
			Arity:     g.Qubits,
			Semantics: ir.Atomic{Matrix: g.Matrix},
		}
		id, err := c.Store.AddGate(def)
		if err != nil {
			return err
		}
		err = c.Scopes.AddSymbol(semantic.Symbol{
			Name:    g.Name,
			Kind:    semantic.SymbolGate,
			Ref:     semantic.IDRef(int(id)),
			Aliases: g.Aliases,
		})
		if err != nil {
			return err
		}
	}
	log.Debugf("installed %d library gate(s)", len(lib.Gates))
	return nil
}

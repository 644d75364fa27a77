package collector

import (
	"qasmc/grammar"
	"qasmc/internal/builtins"
	"qasmc/internal/errors"
	"qasmc/internal/ir"
	"qasmc/internal/semantic"
)

// CollectHeaders creates the IR entries of every gate and subroutine
// definition with empty bodies, so calls may precede definitions.
func CollectHeaders(ctx *Context, prog *grammar.Program) error {
	for _, stmt := range prog.Statements {
		var err error
		switch {
		case stmt.Gate != nil:
			err = ctx.collectGateHeader(stmt)
		case stmt.Def != nil:
			err = ctx.collectSubroutineHeader(stmt)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Context) collectGateHeader(stmt *grammar.Statement) error {
	g := stmt.Gate
	def, dup := ir.NewGateDef(g.Name, g.Qubits, g.Params)
	if def == nil {
		return errors.DuplicateDefinition("argument", dup, position(stmt.Pos))
	}
	def.Semantics = ir.Composite{Body: c.Store.NewBody()}

	id, err := c.Store.AddGate(def)
	if err != nil {
		return locate(err, stmt.Pos)
	}
	log.Debugf("gate %s: %d qubit(s), %d parameter(s)", g.Name, len(def.Qubits), len(def.Params))

	return locate(c.Scopes.AddSymbol(semantic.Symbol{
		Name:     g.Name,
		Kind:     semantic.SymbolGate,
		Ref:      semantic.IDRef(int(id)),
		Position: position(stmt.Pos),
	}), stmt.Pos)
}

func (c *Context) collectSubroutineHeader(stmt *grammar.Statement) error {
	d := stmt.Def
	def := &ir.SubroutineDef{
		Name: d.Name,
		Body: c.Store.NewBody(),
	}
	if d.Return != nil {
		def.ReturnType = d.Return.String()
	}

	for _, param := range d.Params {
		typ, qubit := parameterType(param)
		if !qubit && param.Scalar != nil && !builtins.IsScalarType(param.Scalar.Name) {
			return errors.UnknownSymbol("type", param.Scalar.Name, position(param.Pos), nil)
		}
		if !def.AddParam(param.Name, typ, qubit) {
			return errors.DuplicateDefinition("parameter", param.Name, position(param.Pos))
		}
	}

	id, err := c.Store.AddSubroutine(def)
	if err != nil {
		return locate(err, stmt.Pos)
	}
	log.Debugf("subroutine %s: %d parameter(s)", d.Name, len(def.Params))

	return locate(c.Scopes.AddSymbol(semantic.Symbol{
		Name:     d.Name,
		Kind:     semantic.SymbolSubroutine,
		Ref:      semantic.IDRef(int(id)),
		Position: position(stmt.Pos),
	}), stmt.Pos)
}

// parameterType returns the type text of a subroutine parameter and whether
// it is qubit-typed.
func parameterType(p *grammar.DefParameter) (string, bool) {
	switch {
	case p.Qubit != nil:
		if p.Qubit.Size == nil {
			return builtins.QubitType, true
		}
		return p.Qubit.String(), true
	case p.Array != nil:
		return p.Array.String(), false
	default:
		return p.Scalar.String(), false
	}
}

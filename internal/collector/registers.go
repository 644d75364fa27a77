package collector

import (
	"fmt"

	"qasmc/grammar"
	"qasmc/internal/errors"
	"qasmc/internal/ir"
	"qasmc/internal/semantic"
)

// CollectRegisters declares every global register. Global constants and
// inputs are declared here as well since register sizes refer to them.
func CollectRegisters(ctx *Context, prog *grammar.Program) error {
	declareGlobal := func(def ir.VariableDef) (ir.VariableID, error) {
		return ctx.Store.DeclareVariable(ir.GlobalBlock, def)
	}

	for _, stmt := range prog.Statements {
		switch {
		case stmt.Const != nil:
			c := stmt.Const
			if err := ctx.declareConst(c.Name, c.Type.String(), c.Value, stmt.Pos, declareGlobal); err != nil {
				return err
			}
		case stmt.Input != nil:
			in := stmt.Input
			if err := ctx.declareConst(in.Name, in.Type.String(), nil, stmt.Pos, declareGlobal); err != nil {
				return err
			}
		default:
			decl, ok := stmt.RegisterDecl()
			if !ok {
				continue
			}
			if err := ctx.collectRegister(decl); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Context) collectRegister(decl grammar.RegisterDecl) error {
	def := ir.RegisterDef{Name: decl.Name, Type: ir.Int}
	if decl.Qubit {
		def.Type = ir.Qubit
	}
	if err := c.resolveRegisterSize(decl.Size, &def); err != nil {
		return err
	}

	id, err := c.Store.AddRegister(def)
	if err != nil {
		return locate(err, decl.Pos)
	}
	log.Debugf("register %s: %s[%s] %s", def.Name, def.Type, def.SizeExpr, def.Kind)

	return locate(c.Scopes.AddSymbol(semantic.Symbol{
		Name:     decl.Name,
		Kind:     semantic.SymbolRegister,
		Ref:      semantic.IDRef(int(id)),
		Position: position(decl.Pos),
	}), decl.Pos)
}

// resolveRegisterSize fills the size fields of def. A literal or a constant
// with a known value gives a nonparametric register, a constant without one
// (an input) gives a parametric register.
func (c *Context) resolveRegisterSize(size *grammar.Expr, def *ir.RegisterDef) error {
	if size == nil {
		def.Kind = ir.Nonparametric
		def.Size = 1
		def.SizeExpr = "1"
		return nil
	}

	def.SizeExpr = size.String()
	if n, ok := size.IntLiteral(); ok {
		def.Kind = ir.Nonparametric
		def.Size = n
		return checkRegisterSize(def, size)
	}

	name, ok := size.Ident()
	if !ok {
		return errors.UnresolvedConstant(def.SizeExpr, position(size.Pos))
	}
	symbol, ok := c.Scopes.LookupSymbol(name)
	if !ok || symbol.Kind != semantic.SymbolConstVar {
		return errors.UnresolvedConstant(def.SizeExpr, position(size.Pos))
	}

	v, ok := c.constVariable(symbol)
	if !ok || v.Value == nil {
		def.Kind = ir.Parametric
		return nil
	}
	def.Kind = ir.Nonparametric
	def.Size = *v.Value
	return checkRegisterSize(def, size)
}

func checkRegisterSize(def *ir.RegisterDef, size *grammar.Expr) error {
	if def.Size < 1 {
		return errors.UnsupportedConstruct(
			fmt.Sprintf("register '%s' of size %d", def.Name, def.Size), position(size.Pos))
	}
	return nil
}

package collector

import (
	"github.com/alecthomas/participle/v2/lexer"

	"qasmc/grammar"
	"qasmc/internal/ir"
	"qasmc/internal/semantic"
)

// foldInt resolves e when it is a decimal literal or directly names a
// constant whose value is known. Nothing else is evaluated.
func (c *Context) foldInt(e *grammar.Expr) (int, bool) {
	if n, ok := e.IntLiteral(); ok {
		return n, true
	}
	name, ok := e.Ident()
	if !ok {
		return 0, false
	}
	symbol, ok := c.Scopes.LookupSymbol(name)
	if !ok || symbol.Kind != semantic.SymbolConstVar {
		return 0, false
	}
	v, ok := c.constVariable(symbol)
	if !ok || v.Value == nil {
		return 0, false
	}
	return *v.Value, true
}

func (c *Context) constVariable(symbol *semantic.Symbol) (*ir.VariableDef, bool) {
	id, ok := symbol.Ref.AsID()
	if !ok {
		return nil, false
	}
	v, err := c.Store.Variable(ir.VariableID(id))
	if err != nil {
		return nil, false
	}
	return v, true
}

// declareConst records a constant through declare and adds its ConstVar
// symbol. A nil value declares an input parameter.
func (c *Context) declareConst(name string, typ string, value *grammar.Expr, pos lexer.Position,
	declare func(ir.VariableDef) (ir.VariableID, error)) error {
	def := ir.VariableDef{Name: name, Type: typ, Const: true}
	if value != nil {
		def.Initializer = value.String()
		if n, ok := c.foldInt(value); ok {
			def.Value = &n
		}
	}

	id, err := declare(def)
	if err != nil {
		return locate(err, pos)
	}
	if def.Value != nil {
		log.Debugf("constant %s = %d", name, *def.Value)
	} else {
		log.Debugf("constant %s has no compile-time value", name)
	}

	return locate(c.Scopes.AddSymbol(semantic.Symbol{
		Name:     name,
		Kind:     semantic.SymbolConstVar,
		Ref:      semantic.IDRef(int(id)),
		Position: position(pos),
	}), pos)
}

// Package collector builds the IR from a parsed program in three ordered
// passes: registers, gate and subroutine headers, then bodies and the
// top-level program.
package collector

import (
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/tliron/commonlog"

	"qasmc/grammar"
	"qasmc/internal/errors"
	"qasmc/internal/ir"
	"qasmc/internal/semantic"
)

var log = commonlog.GetLogger("qasmc.collector")

// Context is shared by every pass.
type Context struct {
	Store  *ir.Store
	Scopes *semantic.ScopeManager
}

func NewContext() *Context {
	return &Context{
		Store:  ir.NewStore(),
		Scopes: semantic.NewScopeManager(),
	}
}

// Collect runs the three passes in order and stops at the first error.
func Collect(ctx *Context, prog *grammar.Program) error {
	if err := CollectRegisters(ctx, prog); err != nil {
		return err
	}
	if err := CollectHeaders(ctx, prog); err != nil {
		return err
	}
	return CollectBodies(ctx, prog)
}

func position(p lexer.Position) errors.Position {
	return errors.Position{Filename: p.Filename, Line: p.Line, Column: p.Column}
}

// locate attaches pos to errors raised by the store or scope manager, which
// have no source location of their own.
func locate(err error, pos lexer.Position) error {
	if err == nil {
		return nil
	}
	if ce, ok := errors.AsCompilerError(err); ok {
		return ce.At(position(pos))
	}
	return err
}

// unknown builds the error for a failed lookup, distinguishing globals hidden
// by a gate or subroutine boundary from names that do not exist.
func (c *Context) unknown(kind, name string, pos lexer.Position) error {
	if _, hidden := c.Scopes.LookupHidden(name); hidden {
		return errors.NotVisible(name, position(pos))
	}
	return errors.UnknownSymbol(kind, name, position(pos), c.Scopes.VisibleNames())
}

// Unused returns a warning for each composite gate and subroutine that is
// declared but never applied.
func Unused(ctx *Context) []errors.CompilerError {
	var warnings []errors.CompilerError
	for _, g := range ctx.Store.Gates() {
		if g.Used || !g.IsComposite() {
			continue
		}
		warnings = append(warnings, errors.UnusedDefinition("gate", g.Name, ctx.declaredAt(g.Name)))
	}
	for _, sub := range ctx.Store.Subroutines() {
		if sub.Used {
			continue
		}
		warnings = append(warnings, errors.UnusedDefinition("subroutine", sub.Name, ctx.declaredAt(sub.Name)))
	}
	return warnings
}

func (c *Context) declaredAt(name string) errors.Position {
	if symbol, ok := c.Scopes.LookupSymbol(name); ok {
		return symbol.Position
	}
	return errors.Position{}
}

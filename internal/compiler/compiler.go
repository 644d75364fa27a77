// Package compiler drives the pipeline: parse, collect the IR, then print it
// for a target.
package compiler

import (
	stderrors "errors"

	"github.com/alecthomas/participle/v2"
	"github.com/tliron/commonlog"

	"qasmc/grammar"
	"qasmc/internal/collector"
	"qasmc/internal/errors"
	"qasmc/internal/gatelib"
	"qasmc/internal/printer"
)

var log = commonlog.GetLogger("qasmc.compiler")

// Result is what a successful Check leaves behind.
type Result struct {
	Context  *collector.Context
	Warnings []errors.CompilerError
}

// Parse parses source and turns syntax errors into located compiler errors.
func Parse(filename, source string) (*grammar.Program, error) {
	prog, err := grammar.ParseString(filename, source)
	if err != nil {
		return nil, syntaxError(err)
	}
	return prog, nil
}

func syntaxError(err error) error {
	var perr participle.Error
	if !stderrors.As(err, &perr) {
		return err
	}
	pos := perr.Position()
	return errors.SyntaxError(perr.Message(), errors.Position{
		Filename: pos.Filename,
		Line:     pos.Line,
		Column:   pos.Column,
	})
}

// Build creates a fresh store and scope stack, installs the builtin
// constants and the gates of lib, then runs the collector passes.
func Build(prog *grammar.Program, lib *gatelib.Library) (*collector.Context, error) {
	if lib == nil {
		lib = gatelib.Default()
	}
	ctx := collector.NewContext()
	if err := ctx.InstallBuiltins(); err != nil {
		return nil, err
	}
	if err := ctx.InstallLibrary(lib); err != nil {
		return nil, err
	}
	if err := collector.Collect(ctx, prog); err != nil {
		return nil, err
	}
	log.Debugf("collected %d register(s), %d gate(s), %d subroutine(s)",
		len(ctx.Store.Registers()), len(ctx.Store.Gates()), len(ctx.Store.Subroutines()))
	return ctx, nil
}

// Check parses and builds source without printing. Warnings are only
// reported for programs that build.
func Check(filename, source string, lib *gatelib.Library) (*Result, error) {
	prog, err := Parse(filename, source)
	if err != nil {
		return nil, err
	}
	ctx, err := Build(prog, lib)
	if err != nil {
		return nil, err
	}
	return &Result{Context: ctx, Warnings: collector.Unused(ctx)}, nil
}

// Compile runs the whole pipeline. Nothing is returned unless every stage
// succeeds.
func Compile(filename, source, target string, lib *gatelib.Library) (string, error) {
	p, err := printer.ForTarget(target)
	if err != nil {
		return "", err
	}
	log.Infof("compiling %s for %s", filename, p.Name())

	result, err := Check(filename, source, lib)
	if err != nil {
		return "", err
	}
	out, err := p.Print(result.Context.Store)
	if err != nil {
		return "", err
	}
	log.Debugf("%s output: %d byte(s)", p.Name(), len(out))
	return out, nil
}

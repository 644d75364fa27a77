package collector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qasmc/grammar"
	"qasmc/internal/collector"
	"qasmc/internal/errors"
	"qasmc/internal/gatelib"
	"qasmc/internal/ir"
)

func collect(t *testing.T, source string) (*collector.Context, error) {
	t.Helper()
	prog, err := grammar.ParseString("test.qasm", source)
	require.NoError(t, err)

	ctx := collector.NewContext()
	require.NoError(t, ctx.InstallBuiltins())
	require.NoError(t, ctx.InstallLibrary(gatelib.Default()))
	return ctx, collector.Collect(ctx, prog)
}

func mustCollect(t *testing.T, source string) *collector.Context {
	t.Helper()
	ctx, err := collect(t, source)
	require.NoError(t, err)
	return ctx
}

func program(t *testing.T, ctx *collector.Context) []ir.Stmt {
	t.Helper()
	block, err := ctx.Store.Block(ir.GlobalBlock)
	require.NoError(t, err)
	return block.Stmts
}

func gateID(t *testing.T, ctx *collector.Context, name string) ir.GateID {
	t.Helper()
	g, err := ctx.Store.GateByName(name)
	require.NoError(t, err)
	return g.ID
}

func TestRegisters(t *testing.T) {
	ctx := mustCollect(t, `
		const int n = 3;
		input int m;
		qubit[2] q;
		bit c;
		qubit[n] r;
		qubit[m] p;
		qreg legacy[4];
	`)

	regs := ctx.Store.Registers()
	require.Len(t, regs, 5)

	assert.Equal(t, "q", regs[0].Name)
	assert.Equal(t, ir.Qubit, regs[0].Type)
	assert.Equal(t, ir.Nonparametric, regs[0].Kind)
	assert.Equal(t, 2, regs[0].Size)

	assert.Equal(t, ir.Int, regs[1].Type)
	assert.Equal(t, 1, regs[1].Size)
	assert.Equal(t, "1", regs[1].SizeExpr)

	assert.Equal(t, ir.Nonparametric, regs[2].Kind)
	assert.Equal(t, 3, regs[2].Size)
	assert.Equal(t, "n", regs[2].SizeExpr)

	assert.Equal(t, ir.Parametric, regs[3].Kind)
	assert.Equal(t, "m", regs[3].SizeExpr)

	assert.Equal(t, "legacy", regs[4].Name)
	assert.Equal(t, 4, regs[4].Size)

	assert.Equal(t, 2+3+4, ctx.Store.QubitCount())

	vars := ctx.Store.GlobalVariables()
	require.Len(t, vars, 2)
	require.NotNil(t, vars[0].Value)
	assert.Equal(t, 3, *vars[0].Value)
	assert.Nil(t, vars[1].Value)
}

func TestRegisterErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		code   string
	}{
		{"expression size", "const int n = 2; qubit[n+1] q;", errors.ErrorUnresolvedConstant},
		{"unknown size", "qubit[k] q;", errors.ErrorUnresolvedConstant},
		{"duplicate register", "qubit[1] q; bit[1] q;", errors.ErrorDuplicateDefinition},
		{"register shadows gate", "qubit[1] h;", errors.ErrorDuplicateDefinition},
		{"negative size", "qubit[-2] q; qubit[3] r;", errors.ErrorUnsupportedConstruct},
		{"zero size", "qubit[0] q;", errors.ErrorUnsupportedConstruct},
		{"negative constant size", "const int n = -2; qubit[n] q;", errors.ErrorUnsupportedConstruct},
		{"negative legacy size", "qreg q[-1];", errors.ErrorUnsupportedConstruct},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := collect(t, tt.source)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.Code(err))
		})
	}
}

func TestGateDefinitionAfterUse(t *testing.T) {
	ctx := mustCollect(t, `
		qubit[2] q;
		bell q[0], q[1];
		gate bell a, b { h a; cx a, b; }
	`)

	bell, err := ctx.Store.GateByName("bell")
	require.NoError(t, err)
	assert.True(t, bell.Used)
	assert.Equal(t, []string{"a", "b"}, bell.Qubits)

	composite, ok := bell.Semantics.(ir.Composite)
	require.True(t, ok)
	body, err := ctx.Store.Body(composite.Body)
	require.NoError(t, err)
	require.Len(t, body.Stmts, 2)
	assert.Equal(t, ir.GatePlacement{Gate: gateID(t, ctx, "h"), Inputs: []int{0}}, body.Stmts[0])
	assert.Equal(t, ir.GatePlacement{Gate: gateID(t, ctx, "cx"), Inputs: []int{0, 1}}, body.Stmts[1])

	stmts := program(t, ctx)
	require.Len(t, stmts, 1)
	app, ok := stmts[0].(ir.GateApplication)
	require.True(t, ok)
	assert.Equal(t, bell.ID, app.Gate)
	assert.Equal(t, []ir.RegisterRef{{Register: 0, Index: "0"}, {Register: 0, Index: "1"}}, app.Operands)

	h, _ := ctx.Store.GateByName("h")
	assert.True(t, h.Used)
}

func TestAliasResolvesToCanonicalGate(t *testing.T) {
	ctx := mustCollect(t, "qubit[2] q; cnot q[0], q[1];")

	stmts := program(t, ctx)
	require.Len(t, stmts, 1)
	app := stmts[0].(ir.GateApplication)
	assert.Equal(t, gateID(t, ctx, "cx"), app.Gate)
}

func TestGateParameters(t *testing.T) {
	ctx := mustCollect(t, `
		qubit[1] q;
		gate spin(theta) a { rz(theta) a; rx(pi/2) a; }
		spin(0.5) q[0];
	`)

	spin, err := ctx.Store.GateByName("spin")
	require.NoError(t, err)
	body, err := ctx.Store.Body(spin.Semantics.(ir.Composite).Body)
	require.NoError(t, err)
	require.Len(t, body.Stmts, 2)
	assert.Equal(t, []string{"theta"}, body.Stmts[0].(ir.GatePlacement).Params)
	assert.Equal(t, []string{"pi/2"}, body.Stmts[1].(ir.GatePlacement).Params)

	app := program(t, ctx)[0].(ir.GateApplication)
	assert.Equal(t, []string{"0.5"}, app.Params)
}

func TestBoundaryVisibility(t *testing.T) {
	t.Run("register hidden inside gate", func(t *testing.T) {
		_, err := collect(t, "qubit[1] q; gate g a { h q; }")
		require.Error(t, err)
		assert.Equal(t, errors.ErrorUnknownSymbol, errors.Code(err))
		assert.Contains(t, err.Error(), "not visible")
	})

	t.Run("constant visible inside gate", func(t *testing.T) {
		ctx := mustCollect(t, `
			const int n = 2;
			qubit[1] q;
			gate g a { for int i in [0:n] { x a; } }
			g q[0];
		`)
		g, _ := ctx.Store.GateByName("g")
		body, err := ctx.Store.Body(g.Semantics.(ir.Composite).Body)
		require.NoError(t, err)
		require.Len(t, body.Stmts, 1)
		repeat, ok := body.Stmts[0].(ir.RepeatBlock)
		require.True(t, ok)
		assert.Equal(t, 3, repeat.Count)

		inner, err := ctx.Store.Body(repeat.Body)
		require.NoError(t, err)
		assert.Len(t, inner.Stmts, 1)
		assert.Len(t, inner.Variables, 1)
	})

	t.Run("loop variable does not leak", func(t *testing.T) {
		_, err := collect(t, "qubit[1] q; for int i in [0:1] { x q[0]; } int k = i;")
		require.NoError(t, err)
		_, err = collect(t, "qubit[1] q; for int i in [0:1] { x q[0]; } x i;")
		require.Error(t, err)
		assert.Equal(t, errors.ErrorUnknownSymbol, errors.Code(err))
	})
}

func TestRepeatCounts(t *testing.T) {
	tests := []struct {
		domain string
		count  int
	}{
		{"[0:2]", 3},
		{"[0:2:5]", 3},
		{"[3:1]", 0},
		{"[4:-1:1]", 4},
		{"{1, 5, 9}", 3},
	}
	for _, tt := range tests {
		t.Run(tt.domain, func(t *testing.T) {
			ctx := mustCollect(t, "qubit[1] q; gate g a { for int i in "+tt.domain+" { x a; } } g q[0];")
			g, _ := ctx.Store.GateByName("g")
			body, err := ctx.Store.Body(g.Semantics.(ir.Composite).Body)
			require.NoError(t, err)
			assert.Equal(t, tt.count, body.Stmts[0].(ir.RepeatBlock).Count)
		})
	}
}

func TestRepeatErrors(t *testing.T) {
	_, err := collect(t, "input int m; gate g a { for int i in [0:m] { x a; } }")
	require.Error(t, err)
	assert.Equal(t, errors.ErrorUnresolvedConstant, errors.Code(err))

	_, err = collect(t, "gate g a { for int i in [0:0:3] { x a; } }")
	require.Error(t, err)
	assert.Equal(t, errors.ErrorUnsupportedConstruct, errors.Code(err))

	_, err = collect(t, "qubit[1] q; for int i in [0:0:3] { x q[0]; }")
	require.Error(t, err)
	assert.Equal(t, errors.ErrorUnsupportedConstruct, errors.Code(err))
	ce, ok := errors.AsCompilerError(err)
	require.True(t, ok)
	assert.Equal(t, 1, ce.Position.Line)

	_, err = collect(t, "const int z = 0; qubit[1] q; for int i in [0:z:3] { x q[0]; }")
	require.Error(t, err)
	assert.Equal(t, errors.ErrorUnsupportedConstruct, errors.Code(err))
}

func TestLoopBoundsFoldInEnclosingScope(t *testing.T) {
	ctx := mustCollect(t, `
		const int n = 2;
		input int m;
		qubit[2] q;
		for i in [0:1] {
			const int n = 5;
			for j in [0:n] { x q[0]; }
		}
		for k in [1:2:n] { x q[1]; }
		for l in [0:m] { x q[1]; }
	`)

	stmts := program(t, ctx)
	require.Len(t, stmts, 3)

	outer := stmts[0].(ir.LoopApplication)
	assert.Equal(t, &ir.Bounds{Start: 0, End: 1, Step: 1}, outer.Domain.(ir.Interval).Bounds)

	block, err := ctx.Store.Block(outer.Body)
	require.NoError(t, err)
	require.Len(t, block.Stmts, 1)
	inner := block.Stmts[0].(ir.LoopApplication)
	assert.Equal(t, "n", inner.Domain.(ir.Interval).End)
	assert.Equal(t, &ir.Bounds{Start: 0, End: 5, Step: 1}, inner.Domain.(ir.Interval).Bounds)

	stepped := stmts[1].(ir.LoopApplication).Domain.(ir.Interval)
	assert.Equal(t, &ir.Bounds{Start: 1, End: 2, Step: 2}, stepped.Bounds)

	assert.Nil(t, stmts[2].(ir.LoopApplication).Domain.(ir.Interval).Bounds)
}

func TestTopLevelLoop(t *testing.T) {
	ctx := mustCollect(t, `
		qubit[2] q;
		for int i in [0:2] { x q[1]; }
		for j in {1, 3} h q[0];
	`)

	stmts := program(t, ctx)
	require.Len(t, stmts, 2)

	loop, ok := stmts[0].(ir.LoopApplication)
	require.True(t, ok)
	assert.Equal(t, "int", loop.Type)
	assert.Equal(t, "i", loop.Variable)
	assert.Equal(t, ir.Interval{Start: "0", End: "2", Bounds: &ir.Bounds{Start: 0, End: 2, Step: 1}}, loop.Domain)

	block, err := ctx.Store.Block(loop.Body)
	require.NoError(t, err)
	require.Len(t, block.Stmts, 1)
	assert.Equal(t, []ir.RegisterRef{{Register: 0, Index: "1"}}, block.Stmts[0].(ir.GateApplication).Operands)
	require.Len(t, block.Variables, 1)
	v, err := ctx.Store.Variable(block.Variables[0])
	require.NoError(t, err)
	assert.Equal(t, "i", v.Name)

	set := stmts[1].(ir.LoopApplication)
	assert.Equal(t, ir.Collection{Values: []string{"1", "3"}}, set.Domain)
}

func TestConditional(t *testing.T) {
	ctx := mustCollect(t, `
		qubit[1] q;
		bit[1] c;
		if (c == 1) { x q[0]; } else { h q[0]; }
	`)

	stmts := program(t, ctx)
	require.Len(t, stmts, 1)
	cond, ok := stmts[0].(ir.ConditionalApplication)
	require.True(t, ok)
	assert.Equal(t, "c==1", cond.Condition)
	assert.True(t, cond.HasElse)

	then, err := ctx.Store.Block(cond.Then)
	require.NoError(t, err)
	assert.Len(t, then.Stmts, 1)
	otherwise, err := ctx.Store.Block(cond.Else)
	require.NoError(t, err)
	assert.Len(t, otherwise.Stmts, 1)
}

func TestSubroutine(t *testing.T) {
	ctx := mustCollect(t, `
		qubit[1] q;
		def flip(qubit t, int times) -> int { x t; return times; }
		flip(2) q[0];
	`)

	sub, err := ctx.Store.SubroutineByName("flip")
	require.NoError(t, err)
	assert.True(t, sub.Used)
	assert.Equal(t, "int", sub.ReturnType)
	assert.Equal(t, 1, sub.NumQubits())
	assert.Equal(t, 1, sub.NumParams())

	body, err := ctx.Store.Body(sub.Body)
	require.NoError(t, err)
	require.Len(t, body.Stmts, 1)
	assert.Equal(t, []int{0}, body.Stmts[0].(ir.GatePlacement).Inputs)

	app, ok := program(t, ctx)[0].(ir.SubroutineApplication)
	require.True(t, ok)
	assert.Equal(t, sub.ID, app.Subroutine)
	assert.Equal(t, []string{"2"}, app.Args)
	assert.Equal(t, []ir.RegisterRef{{Register: 0, Index: "0"}}, app.Operands)

	assert.Empty(t, collector.Unused(ctx))
}

func TestMeasurement(t *testing.T) {
	ctx := mustCollect(t, `
		qubit[2] q;
		bit[2] c;
		c[0] = measure q[0];
		measure q[1] -> c[1];
	`)

	stmts := program(t, ctx)
	require.Len(t, stmts, 2)
	measure := gateID(t, ctx, "measure")
	for _, stmt := range stmts {
		assert.Equal(t, measure, stmt.(ir.GateApplication).Gate)
	}

	_, err := collect(t, "qubit[1] q; measure q[0] -> d[0];")
	require.Error(t, err)
	assert.Equal(t, errors.ErrorUnknownSymbol, errors.Code(err))
}

func TestCallErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		code   string
	}{
		{"unknown gate", "qubit[1] q; hadamard q[0];", errors.ErrorUnknownSymbol},
		{"unknown register", "h r[0];", errors.ErrorUnknownSymbol},
		{"operand count", "qubit[2] q; cx q[0];", errors.ErrorArityMismatch},
		{"parameter count", "qubit[1] q; gate g(a) b { x b; } g q[0];", errors.ErrorArityMismatch},
		{"subroutine arguments", "qubit[1] q; def f(qubit t, int k) { x t; } f q[0];", errors.ErrorArityMismatch},
		{"register as gate", "qubit[1] q; q q[0];", errors.ErrorUnknownSymbol},
		{"hardware qubit", "h $0;", errors.ErrorUnsupportedConstruct},
		{"indexed argument", "gate g a { x a[0]; }", errors.ErrorUnsupportedConstruct},
		{"nested gate", "gate g a { gate k b { x b; } }", errors.ErrorUnsupportedConstruct},
		{"if inside gate", "gate g a { if (1) x a; }", errors.ErrorUnsupportedConstruct},
		{"subroutine inside gate", "def f(qubit t) { x t; } gate g a { f a; }", errors.ErrorUnsupportedConstruct},
		{"register inside loop", "for int i in [0:1] { qubit[1] q; }", errors.ErrorUnsupportedConstruct},
		{"top-level return", "return;", errors.ErrorUnsupportedConstruct},
		{"duplicate gate argument", "gate g a, a { x a; }", errors.ErrorDuplicateDefinition},
		{"gate shadows library", "gate h a { x a; }", errors.ErrorDuplicateDefinition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := collect(t, tt.source)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.Code(err))

			ce, ok := errors.AsCompilerError(err)
			require.True(t, ok)
			assert.True(t, ce.Position.IsValid(), "error should carry a position: %v", err)
		})
	}
}

func TestUnknownGateSuggestion(t *testing.T) {
	_, err := collect(t, "qubit[1] q; toffolli q[0];")
	require.Error(t, err)
	ce, ok := errors.AsCompilerError(err)
	require.True(t, ok)
	require.NotEmpty(t, ce.Suggestions)
	assert.Contains(t, ce.Suggestions[0].Message, "toffoli")
}

func TestUnused(t *testing.T) {
	ctx := mustCollect(t, `
		gate g a { x a; }
		def f(qubit t) { x t; }
	`)

	warnings := collector.Unused(ctx)
	require.Len(t, warnings, 2)
	for _, w := range warnings {
		assert.Equal(t, errors.Warning, w.Level)
		assert.Equal(t, errors.WarningUnusedDefinition, w.Code)
		assert.True(t, w.Position.IsValid())
	}
	assert.Contains(t, warnings[0].Message, "'g'")
	assert.Contains(t, warnings[1].Message, "'f'")
}

func TestLocalDeclarations(t *testing.T) {
	ctx := mustCollect(t, `
		qubit[1] q;
		for int i in [0:1] {
			const int k = 2;
			int total = k;
			x q[0];
		}
	`)

	loop := program(t, ctx)[0].(ir.LoopApplication)
	block, err := ctx.Store.Block(loop.Body)
	require.NoError(t, err)
	require.Len(t, block.Variables, 3)

	k, err := ctx.Store.Variable(block.Variables[1])
	require.NoError(t, err)
	assert.True(t, k.Const)
	require.NotNil(t, k.Value)
	assert.Equal(t, 2, *k.Value)

	total, err := ctx.Store.Variable(block.Variables[2])
	require.NoError(t, err)
	assert.Equal(t, "k", total.Initializer)
}

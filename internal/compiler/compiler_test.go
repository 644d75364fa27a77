package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qasmc/internal/compiler"
	"qasmc/internal/errors"
	"qasmc/internal/gatelib"
)

const bell = `OPENQASM 3.0;
qubit[2] q;
bit[2] c;
h q[0];
cx q[0], q[1];
c[0] = measure q[0];
measure q[1] -> c[1];
`

func TestCompileStim(t *testing.T) {
	out, err := compiler.Compile("bell.qasm", bell, "stim", nil)
	require.NoError(t, err)
	assert.Equal(t, "# Stim circuit from OpenQASM IR (n_qubits=2)\nH 0\nCNOT 0 1\nM 0\nM 1\n", out)
}

func TestCompileAutoQPara(t *testing.T) {
	out, err := compiler.Compile("bell.qasm", bell, "autoq-para", nil)
	require.NoError(t, err)
	assert.Contains(t, out, "ParametricProgram(\n")
	assert.Contains(t, out, "TransducerApplication(.transducer_id = 3),")
}

func TestCompileRepeatScenario(t *testing.T) {
	source := "qubit[2] q;\nfor int i in [0:2] { x q[1]; }\n"
	out, err := compiler.Compile("loop.qasm", source, "stim", nil)
	require.NoError(t, err)
	assert.Equal(t, "# Stim circuit from OpenQASM IR (n_qubits=2)\nREPEAT 3 {\n    X 1\n}\n", out)
}

func TestCompileUnknownTarget(t *testing.T) {
	out, err := compiler.Compile("bell.qasm", bell, "qasm2", nil)
	require.Error(t, err)
	assert.Empty(t, out)
}

func TestSyntaxErrorIsLocated(t *testing.T) {
	_, err := compiler.Compile("broken.qasm", "qubit[2] q;\nh q[0]\ncx q[0], q[1];\n", "stim", nil)
	require.Error(t, err)

	ce, ok := errors.AsCompilerError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrorSyntax, ce.Code)
	assert.Equal(t, "broken.qasm", ce.Position.Filename)
	assert.Contains(t, []int{2, 3}, ce.Position.Line)
}

func TestSemanticErrorIsLocated(t *testing.T) {
	_, err := compiler.Compile("unknown.qasm", "qubit[1] q;\n\nhadamard q[0];\n", "stim", nil)
	require.Error(t, err)

	ce, ok := errors.AsCompilerError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrorUnknownSymbol, ce.Code)
	assert.Equal(t, 3, ce.Position.Line)
	assert.Equal(t, 1, ce.Position.Column)
}

func TestCustomLibrary(t *testing.T) {
	lib, err := gatelib.Parse([]byte(`{"gates": [{"names": ["h", "had"], "matrix": "H", "qubits": 1}]}`), gatelib.FormatJSON)
	require.NoError(t, err)

	out, err := compiler.Compile("custom.qasm", "qubit[1] q; had q[0];", "stim", lib)
	require.NoError(t, err)
	assert.Equal(t, "# Stim circuit from OpenQASM IR (n_qubits=1)\nH 0\n", out)

	_, err = compiler.Compile("custom.qasm", "qubit[2] q; cx q[0], q[1];", "stim", lib)
	require.Error(t, err)
	assert.Equal(t, errors.ErrorUnknownSymbol, errors.Code(err))
}

func TestCheckReportsWarnings(t *testing.T) {
	result, err := compiler.Check("warn.qasm", "qubit[1] q;\ngate g a { x a; }\nh q[0];\n", nil)
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, errors.WarningUnusedDefinition, result.Warnings[0].Code)
	assert.Equal(t, 2, result.Warnings[0].Position.Line)
}

func TestBuildIsFresh(t *testing.T) {
	prog, err := compiler.Parse("a.qasm", "qubit[1] q; h q[0];")
	require.NoError(t, err)

	first, err := compiler.Build(prog, nil)
	require.NoError(t, err)
	second, err := compiler.Build(prog, nil)
	require.NoError(t, err)

	assert.NotSame(t, first.Store, second.Store)
	assert.Len(t, second.Store.Registers(), 1)
}

package gatelib

import (
	"os"
	"path/filepath"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qasmc/internal/errors"
)

func TestDefaultLibrary(t *testing.T) {
	lib := Default()

	for _, name := range []string{"h", "x", "y", "z", "s", "sdg", "t", "tdg", "cx", "cz", "ccx", "swap", "rx", "ry", "rz", "id", "measure", "reset"} {
		_, ok := lib.Lookup(name)
		assert.True(t, ok, name)
	}

	cx, ok := lib.Lookup("cnot")
	require.True(t, ok)
	assert.Equal(t, "cx", cx.Name)
	assert.Equal(t, []string{"CX", "cnot"}, cx.Aliases)
	assert.Equal(t, 2, cx.Qubits)
	assert.Equal(t, "[[1,0,0,0],[0,1,0,0],[0,0,0,1],[0,0,1,0]]", cx.Matrix)

	ccx, ok := lib.Lookup("toffoli")
	require.True(t, ok)
	assert.Equal(t, 3, ccx.Qubits)
	assert.Equal(t, `"toffoli"`, ccx.Matrix)

	_, ok = lib.Lookup("u3")
	assert.False(t, ok)
}

func TestLoadJSON(t *testing.T) {
	lib, err := Load("testdata/mini.json")
	require.NoError(t, err)
	require.Len(t, lib.Gates, 2)

	h := lib.Gates[0]
	assert.Equal(t, "h", h.Name)
	assert.Empty(t, h.Aliases)
	assert.Equal(t, 0, h.Qubits)
	assert.Equal(t, "[[1,1],[1,-1]]", h.Matrix)

	assert.Equal(t, []string{"not"}, lib.Gates[1].Aliases)
}

func TestLoadYAML(t *testing.T) {
	lib, err := Load("testdata/mini.yaml")
	require.NoError(t, err)
	require.Len(t, lib.Gates, 2)

	assert.Equal(t, "h", lib.Gates[0].Name)
	assert.Equal(t, []string{"H"}, lib.Gates[0].Aliases)
	assert.Equal(t, "[[1,1],[1,-1]]", lib.Gates[0].Matrix)

	cx := lib.Gates[1]
	assert.Equal(t, 2, cx.Qubits)
	assert.Equal(t, `{"kind":"permutation","order":[0,1,3,2]}`, cx.Matrix)
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFor("gates.yaml"))
	assert.Equal(t, FormatYAML, FormatFor("GATES.YML"))
	assert.Equal(t, FormatJSON, FormatFor("gates.json"))
	assert.Equal(t, FormatJSON, FormatFor("gates"))
}

func TestMalformedLibraries(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
	}{
		{"not json", `{"gates": [`, FormatJSON},
		{"missing gates", `{"other": []}`, FormatJSON},
		{"no names", `{"gates": [{"names": [], "matrix": 1}]}`, FormatJSON},
		{"empty name", `{"gates": [{"names": ["h", ""], "matrix": 1}]}`, FormatJSON},
		{"no matrix", `{"gates": [{"names": ["h"]}]}`, FormatJSON},
		{"null matrix", `{"gates": [{"names": ["h"], "matrix": null}]}`, FormatJSON},
		{"negative arity", `{"gates": [{"names": ["h"], "qubits": -1, "matrix": 1}]}`, FormatJSON},
		{"yaml missing gates", "other: 1\n", FormatYAML},
		{"yaml no matrix", "gates:\n  - names: [h]\n", FormatYAML},
		{"yaml broken", "gates: [\n", FormatYAML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.format)
			require.Error(t, err)
			assert.Equal(t, errors.ErrorGateLibrary, errors.Code(err))
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading gate library")
	assert.True(t, os.IsNotExist(pkgerrors.Cause(err)))
}

func TestEmptyLibrary(t *testing.T) {
	lib, err := Parse([]byte(`{"gates": []}`), FormatJSON)
	require.NoError(t, err)
	assert.Empty(t, lib.Gates)
}

package gatelib

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/tliron/commonlog"
	"gopkg.in/yaml.v3"

	"qasmc/internal/errors"
)

//go:embed stdgates.json
var stdgates []byte

var log = commonlog.GetLogger("qasmc.gatelib")

type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatFor picks YAML for .yaml/.yml files and JSON otherwise.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Gate is one atomic gate. The first declared name is canonical.
type Gate struct {
	Name    string
	Aliases []string
	// Matrix is the compact JSON text of the matrix payload, kept opaque.
	Matrix string
	// Qubits is the declared arity, 0 when the library does not say.
	Qubits int
}

type Library struct {
	Gates []Gate
}

func (l *Library) Lookup(name string) (Gate, bool) {
	for _, g := range l.Gates {
		if g.Name == name {
			return g, true
		}
		for _, alias := range g.Aliases {
			if alias == name {
				return g, true
			}
		}
	}
	return Gate{}, false
}

type jsonDocument struct {
	Gates []struct {
		Names  []string        `json:"names"`
		Matrix json.RawMessage `json:"matrix"`
		Qubits int             `json:"qubits"`
	} `json:"gates"`
}

type yamlDocument struct {
	Gates []struct {
		Names  []string `yaml:"names"`
		Matrix any      `yaml:"matrix"`
		Qubits int      `yaml:"qubits"`
	} `yaml:"gates"`
}

// Default returns the embedded standard gate library.
func Default() *Library {
	lib, err := Parse(stdgates, FormatJSON)
	if err != nil {
		panic(fmt.Sprintf("embedded gate library: %v", err))
	}
	return lib
}

func Load(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "reading gate library %s", path)
	}
	lib, err := Parse(data, FormatFor(path))
	if err != nil {
		return nil, err
	}
	log.Debugf("loaded %d gates from %s", len(lib.Gates), path)
	return lib, nil
}

func Parse(data []byte, format Format) (*Library, error) {
	switch format {
	case FormatYAML:
		return parseYAML(data)
	default:
		return parseJSON(data)
	}
}

func parseJSON(data []byte) (*Library, error) {
	var doc jsonDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.GateLibraryError(fmt.Sprintf("malformed gate library: %v", err))
	}
	if doc.Gates == nil {
		return nil, errors.GateLibraryError("gate library has no 'gates' array")
	}

	lib := &Library{}
	for i, entry := range doc.Gates {
		var compact bytes.Buffer
		if len(entry.Matrix) == 0 || string(entry.Matrix) == "null" || json.Compact(&compact, entry.Matrix) != nil {
			return nil, errors.GateLibraryError(fmt.Sprintf("gate entry %d has no matrix", i))
		}
		gate, err := newGate(i, entry.Names, compact.String(), entry.Qubits)
		if err != nil {
			return nil, err
		}
		lib.Gates = append(lib.Gates, gate)
	}
	return lib, nil
}

func parseYAML(data []byte) (*Library, error) {
	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.GateLibraryError(fmt.Sprintf("malformed gate library: %v", err))
	}
	if doc.Gates == nil {
		return nil, errors.GateLibraryError("gate library has no 'gates' list")
	}

	lib := &Library{}
	for i, entry := range doc.Gates {
		if entry.Matrix == nil {
			return nil, errors.GateLibraryError(fmt.Sprintf("gate entry %d has no matrix", i))
		}
		matrix, err := json.Marshal(entry.Matrix)
		if err != nil {
			return nil, errors.GateLibraryError(fmt.Sprintf("gate entry %d: matrix is not representable as JSON: %v", i, err))
		}
		gate, err := newGate(i, entry.Names, string(matrix), entry.Qubits)
		if err != nil {
			return nil, err
		}
		lib.Gates = append(lib.Gates, gate)
	}
	return lib, nil
}

func newGate(index int, names []string, matrix string, qubits int) (Gate, error) {
	if len(names) == 0 {
		return Gate{}, errors.GateLibraryError(fmt.Sprintf("gate entry %d has no names", index))
	}
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			return Gate{}, errors.GateLibraryError(fmt.Sprintf("gate entry %d has an empty name", index))
		}
	}
	if qubits < 0 {
		return Gate{}, errors.GateLibraryError(fmt.Sprintf("gate '%s' has negative arity", names[0]))
	}
	return Gate{
		Name:    names[0],
		Aliases: append([]string(nil), names[1:]...),
		Matrix:  matrix,
		Qubits:  qubits,
	}, nil
}

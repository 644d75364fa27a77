// Package printer lowers a collected IR store to target text.
package printer

import (
	"fmt"
	"sort"
	"strings"

	pkgerrors "github.com/pkg/errors"

	"qasmc/internal/ir"
)

// Printer renders a whole store. Output is built in memory, so a failed
// Print never leaves partial text behind.
type Printer interface {
	Name() string
	Extension() string
	Description() string
	Print(store *ir.Store) (string, error)
}

var targets = map[string]func() Printer{
	"stim":       func() Printer { return NewStim() },
	"autoq-para": func() Printer { return NewAutoQPara() },
}

// ForTarget returns a fresh printer for the named target.
func ForTarget(name string) (Printer, error) {
	factory, ok := targets[name]
	if !ok {
		return nil, pkgerrors.Errorf("unknown target '%s' (available: %s)", name, strings.Join(Targets(), ", "))
	}
	return factory(), nil
}

// Targets lists the supported target names in sorted order.
func Targets() []string {
	names := make([]string, 0, len(targets))
	for name := range targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// writer is the indentation helper shared by the backends.
type writer struct {
	indent int
	width  int
	output strings.Builder
}

func (w *writer) writeIndent() {
	w.output.WriteString(strings.Repeat(" ", w.indent*w.width))
}

func (w *writer) writeLine(format string, args ...interface{}) {
	w.writeIndent()
	w.output.WriteString(fmt.Sprintf(format, args...))
	w.output.WriteString("\n")
}

func (w *writer) String() string {
	return w.output.String()
}

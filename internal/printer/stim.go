package printer

import (
	"fmt"
	"strconv"
	"strings"

	"qasmc/internal/errors"
	"qasmc/internal/ir"
)

const stimTarget = "stim"

// stimGates maps canonical gate names to Stim instructions.
var stimGates = map[string]string{
	"h":       "H",
	"x":       "X",
	"y":       "Y",
	"z":       "Z",
	"s":       "S",
	"sdg":     "S_DAG",
	"t":       "T",
	"tdg":     "T_DAG",
	"cx":      "CNOT",
	"cz":      "CZ",
	"measure": "M",
}

// Stim flattens qubit registers into one index space and unrolls nothing:
// interval loops become REPEAT blocks.
type Stim struct {
	store *ir.Store
	base  map[ir.RegisterID]int
	w     writer
}

func NewStim() *Stim {
	return &Stim{}
}

func (s *Stim) Name() string        { return stimTarget }
func (s *Stim) Extension() string   { return ".stim" }
func (s *Stim) Description() string { return "Stim stabilizer circuit" }

func (s *Stim) Print(store *ir.Store) (string, error) {
	s.store = store
	s.base = make(map[ir.RegisterID]int)
	s.w = writer{width: 4}

	n := 0
	for _, reg := range store.Registers() {
		if reg.Type != ir.Qubit {
			continue
		}
		if reg.Kind == ir.Parametric {
			return "", errors.TargetUnsupportedFeature(stimTarget,
				fmt.Sprintf("parametric register '%s[%s]'", reg.Name, reg.SizeExpr))
		}
		s.base[reg.ID] = n
		n += reg.Size
	}

	s.w.writeLine("# Stim circuit from OpenQASM IR (n_qubits=%d)", store.QubitCount())
	if err := s.block(ir.GlobalBlock); err != nil {
		return "", err
	}
	return s.w.String(), nil
}

func (s *Stim) block(id ir.BlockID) error {
	block, err := s.store.Block(id)
	if err != nil {
		return err
	}
	for _, stmt := range block.Stmts {
		switch st := stmt.(type) {
		case ir.GateApplication:
			err = s.gate(st)
		case ir.LoopApplication:
			err = s.loop(st)
		case ir.SubroutineApplication:
			err = errors.TargetUnsupportedFeature(stimTarget, "subroutine calls")
		case ir.ConditionalApplication:
			err = errors.TargetUnsupportedFeature(stimTarget, "conditionals")
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Stim) gate(app ir.GateApplication) error {
	g, err := s.store.Gate(app.Gate)
	if err != nil {
		return err
	}
	if g.IsComposite() {
		return errors.TargetUnsupportedFeature(stimTarget, fmt.Sprintf("composite gate '%s'", g.Name))
	}

	qubits := make([]int, len(app.Operands))
	for i, ref := range app.Operands {
		if qubits[i], err = s.qubit(ref); err != nil {
			return err
		}
	}

	if instr, ok := stimGates[g.Name]; ok {
		s.w.writeLine("%s %s", instr, joinInts(qubits))
		return nil
	}
	if g.Name == "ccx" {
		return s.toffoli(qubits)
	}
	return errors.TargetUnsupportedFeature(stimTarget, fmt.Sprintf("gate '%s'", g.Name))
}

// toffoli emits the standard Clifford+T style decomposition of ccx.
func (s *Stim) toffoli(qubits []int) error {
	if len(qubits) != 3 {
		return errors.ArityMismatch("ccx", "operand", 3, len(qubits), errors.Position{})
	}
	c1, c2, t := qubits[0], qubits[1], qubits[2]
	s.w.writeLine("H %d", t)
	s.w.writeLine("CNOT %d %d", c1, t)
	s.w.writeLine("CNOT %d %d", c2, t)
	s.w.writeLine("T %d", t)
	s.w.writeLine("CNOT %d %d", c2, t)
	s.w.writeLine("T_DAG %d", t)
	s.w.writeLine("CNOT %d %d", c1, t)
	s.w.writeLine("H %d", t)
	return nil
}

// qubit maps a register element to its flat index. Only literal indices
// are resolved; an unindexed reference must name a single-qubit register.
func (s *Stim) qubit(ref ir.RegisterRef) (int, error) {
	reg, err := s.store.Register(ref.Register)
	if err != nil {
		return 0, err
	}
	if reg.Type != ir.Qubit {
		return 0, errors.TargetUnsupportedFeature(stimTarget,
			fmt.Sprintf("classical register '%s' as a gate operand", reg.Name))
	}
	base := s.base[reg.ID]

	if ref.Index == "" {
		if reg.Size != 1 {
			return 0, errors.TargetUnsupportedFeature(stimTarget,
				fmt.Sprintf("whole-register operand '%s'", reg.Name))
		}
		return base, nil
	}

	index, err := strconv.Atoi(ref.Index)
	if err != nil {
		return 0, errors.TargetUnsupportedFeature(stimTarget,
			fmt.Sprintf("non-literal qubit index '%s[%s]'", reg.Name, ref.Index))
	}
	if index < 0 || index >= reg.Size {
		return 0, errors.IndexOutOfRange(reg.Name, index, reg.Size)
	}
	return base + index, nil
}

func (s *Stim) loop(loop ir.LoopApplication) error {
	interval, ok := loop.Domain.(ir.Interval)
	if !ok {
		return errors.TargetUnsupportedFeature(stimTarget, fmt.Sprintf("loop domain '%s'", loop.Domain))
	}

	bounds := interval.Bounds
	if bounds == nil {
		return errors.UnresolvedConstant(interval.String(), errors.Position{})
	}
	count, err := ir.IterationCount(bounds.Start, bounds.End, bounds.Step)
	if err != nil {
		return errors.UnsupportedConstruct("loop with a zero step", errors.Position{})
	}
	if count == 0 {
		return nil
	}

	s.w.writeLine("REPEAT %d {", count)
	s.w.indent++
	if err := s.block(loop.Body); err != nil {
		return err
	}
	s.w.indent--
	s.w.writeLine("}")
	return nil
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}

package ir

import (
	"fmt"
	"strings"
)

// Printer provides pretty-printing for IR
type Printer struct {
	store  *Store
	indent int
	output strings.Builder
}

// NewPrinter creates a new IR printer
func NewPrinter(store *Store) *Printer {
	return &Printer{store: store}
}

// Print returns a human-readable dump of the store, used for debugging the
// collector passes.
func Print(store *Store) string {
	p := NewPrinter(store)
	p.printStore()
	return p.output.String()
}

// Helper methods

func (p *Printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.output.WriteString("  ")
	}
}

func (p *Printer) writeLine(format string, args ...interface{}) {
	p.writeIndent()
	p.output.WriteString(fmt.Sprintf(format, args...))
	p.output.WriteString("\n")
}

func (p *Printer) printStore() {
	s := p.store

	p.writeLine("REGISTERS:")
	p.indent++
	for _, r := range s.Registers() {
		p.writeLine("reg[%d] %-8s : %s[%s] %s", r.ID, r.Name, r.Type, r.SizeExpr, r.Kind)
	}
	p.indent--

	if vars := s.GlobalVariables(); len(vars) > 0 {
		p.writeLine("VARIABLES:")
		p.indent++
		for _, v := range vars {
			p.writeLine("%s", variableString(v))
		}
		p.indent--
	}

	p.writeLine("GATES:")
	p.indent++
	for _, g := range s.Gates() {
		p.printGate(g)
	}
	p.indent--

	if len(s.Subroutines()) > 0 {
		p.writeLine("SUBROUTINES:")
		p.indent++
		for _, sub := range s.Subroutines() {
			p.printSubroutine(sub)
		}
		p.indent--
	}

	p.writeLine("PROGRAM:")
	p.indent++
	p.printBlock(GlobalBlock)
	p.indent--
}

func variableString(v *VariableDef) string {
	prefix := ""
	if v.Const {
		prefix = "const "
	}
	line := fmt.Sprintf("var[%d] %s%s %s", v.ID, prefix, v.Type, v.Name)
	if v.Initializer != "" {
		line += " = " + v.Initializer
	}
	if v.Value != nil {
		line += fmt.Sprintf(" (%d)", *v.Value)
	}
	return line
}

func usedMark(used bool) string {
	if used {
		return " used"
	}
	return ""
}

func (p *Printer) printGate(g *GateDef) {
	signature := g.Name
	if len(g.Params) > 0 {
		signature += "(" + strings.Join(g.Params, ", ") + ")"
	}
	if len(g.Qubits) > 0 {
		signature += " " + strings.Join(g.Qubits, ", ")
	}
	if len(g.Aliases) > 0 {
		signature += " aka " + strings.Join(g.Aliases, ", ")
	}

	switch sem := g.Semantics.(type) {
	case Atomic:
		p.writeLine("gate[%d] %s atomic%s", g.ID, signature, usedMark(g.Used))
	case Composite:
		p.writeLine("gate[%d] %s composite%s", g.ID, signature, usedMark(g.Used))
		p.indent++
		p.printBody(sem.Body)
		p.indent--
	default:
		p.writeLine("gate[%d] %s%s", g.ID, signature, usedMark(g.Used))
	}
}

func (p *Printer) printSubroutine(sub *SubroutineDef) {
	params := make([]string, len(sub.Params))
	for i, param := range sub.Params {
		params[i] = param.Type + " " + param.Name
	}
	ret := ""
	if sub.ReturnType != "" {
		ret = " -> " + sub.ReturnType
	}
	p.writeLine("def[%d] %s(%s)%s%s", sub.ID, sub.Name, strings.Join(params, ", "), ret, usedMark(sub.Used))
	p.indent++
	p.printBody(sub.Body)
	p.indent--
}

func (p *Printer) gateName(id GateID) string {
	if g, err := p.store.Gate(id); err == nil {
		return g.Name
	}
	return fmt.Sprintf("gate#%d", id)
}

func (p *Printer) printBody(id BodyID) {
	body, err := p.store.Body(id)
	if err != nil {
		p.writeLine("<%v>", err)
		return
	}
	for _, stmt := range body.Stmts {
		switch st := stmt.(type) {
		case GatePlacement:
			inputs := make([]string, len(st.Inputs))
			for i, in := range st.Inputs {
				inputs[i] = fmt.Sprintf("%d", in)
			}
			p.writeLine("%s%s %s", p.gateName(st.Gate), paramList(st.Params), strings.Join(inputs, " "))
		case RepeatBlock:
			p.writeLine("repeat %d", st.Count)
			p.indent++
			p.printBody(st.Body)
			p.indent--
		}
	}
}

func paramList(params []string) string {
	if len(params) == 0 {
		return ""
	}
	return "(" + strings.Join(params, ", ") + ")"
}

func (p *Printer) refString(ref RegisterRef) string {
	name := fmt.Sprintf("reg#%d", ref.Register)
	if r, err := p.store.Register(ref.Register); err == nil {
		name = r.Name
	}
	if ref.Index == "" {
		return name
	}
	return name + "[" + ref.Index + "]"
}

func (p *Printer) refList(refs []RegisterRef) string {
	parts := make([]string, len(refs))
	for i, ref := range refs {
		parts[i] = p.refString(ref)
	}
	return strings.Join(parts, ", ")
}

func (p *Printer) printBlock(id BlockID) {
	block, err := p.store.Block(id)
	if err != nil {
		p.writeLine("<%v>", err)
		return
	}
	for _, v := range block.Variables {
		if def, err := p.store.Variable(v); err == nil && id != GlobalBlock {
			p.writeLine("%s", variableString(def))
		}
	}
	for _, stmt := range block.Stmts {
		switch st := stmt.(type) {
		case GateApplication:
			p.writeLine("%s%s %s", p.gateName(st.Gate), paramList(st.Params), p.refList(st.Operands))
		case SubroutineApplication:
			name := fmt.Sprintf("def#%d", st.Subroutine)
			if sub, err := p.store.Subroutine(st.Subroutine); err == nil {
				name = sub.Name
			}
			p.writeLine("call %s%s %s", name, paramList(st.Args), p.refList(st.Operands))
		case LoopApplication:
			p.writeLine("for %s %s in %s", st.Type, st.Variable, st.Domain)
			p.indent++
			p.printBlock(st.Body)
			p.indent--
		case ConditionalApplication:
			p.writeLine("if (%s)", st.Condition)
			p.indent++
			p.printBlock(st.Then)
			p.indent--
			if st.HasElse {
				p.writeLine("else")
				p.indent++
				p.printBlock(st.Else)
				p.indent--
			}
		}
	}
}

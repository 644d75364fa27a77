package printer

import (
	"fmt"
	"strconv"
	"strings"

	"qasmc/internal/errors"
	"qasmc/internal/ir"
)

const autoQParaTarget = "autoq-para"

// AutoQPara dumps the IR as a ParametricProgram record. Only used gates and
// subroutines are emitted; gates are renumbered densely in table order.
type AutoQPara struct {
	store *ir.Store
	local map[ir.GateID]int
	w     writer
}

func NewAutoQPara() *AutoQPara {
	return &AutoQPara{}
}

func (p *AutoQPara) Name() string        { return autoQParaTarget }
func (p *AutoQPara) Extension() string   { return ".aqp" }
func (p *AutoQPara) Description() string { return "AutoQ-Para parametric program" }

func (p *AutoQPara) Print(store *ir.Store) (string, error) {
	p.store = store
	p.local = make(map[ir.GateID]int)
	p.w = writer{width: 2}

	for _, g := range store.Gates() {
		if g.Used {
			p.local[g.ID] = len(p.local)
		}
	}

	p.w.writeLine("ParametricProgram(")
	p.w.indent++

	p.registers()
	p.variables(".global_variables", store.GlobalVariables())
	if err := p.gates(); err != nil {
		return "", err
	}
	if err := p.subroutines(); err != nil {
		return "", err
	}

	block, err := store.Block(ir.GlobalBlock)
	if err != nil {
		return "", err
	}
	p.w.writeLine(".transducer_defs = {")
	p.w.indent++
	if err := p.transducers(block.Stmts); err != nil {
		return "", err
	}
	p.w.indent--
	p.w.writeLine("},")

	p.w.writeLine(".program = {")
	p.w.indent++
	for i := range block.Stmts {
		p.w.writeLine("TransducerApplication(.transducer_id = %d),", i)
	}
	p.w.indent--
	p.w.writeLine("}")

	p.w.indent--
	p.w.writeLine(")")
	return p.w.String(), nil
}

func (p *AutoQPara) registers() {
	p.w.writeLine(".registers = {")
	p.w.indent++
	for _, reg := range p.store.Registers() {
		size := reg.SizeExpr
		if reg.Kind == ir.Nonparametric {
			size = strconv.Itoa(reg.Size)
		}
		p.w.writeLine("Register(.kind = %s, .type = %s, .size = %s, .name = %q),", reg.Kind, reg.Type, size, reg.Name)
	}
	p.w.indent--
	p.w.writeLine("},")
}

func (p *AutoQPara) variables(field string, vars []*ir.VariableDef) {
	p.w.writeLine("%s = {", field)
	p.w.indent++
	for _, v := range vars {
		line := fmt.Sprintf("Variable(.name = %q, .type = %q, .is_const = %t, .initializer = %q",
			v.Name, v.Type, v.Const, v.Initializer)
		if v.Value != nil {
			line += fmt.Sprintf(", .value = %d", *v.Value)
		}
		p.w.writeLine("%s),", line)
	}
	p.w.indent--
	p.w.writeLine("},")
}

func (p *AutoQPara) gates() error {
	p.w.writeLine(".gates = {")
	p.w.indent++
	for _, g := range p.store.Gates() {
		if !g.Used {
			continue
		}
		p.w.writeLine("Gate(")
		p.w.indent++
		p.w.writeLine(".id = %d,", p.local[g.ID])
		p.w.writeLine(".name = %q,", g.Name)
		p.w.writeLine(".num_qubits = %d,", g.NumQubits())
		p.w.writeLine(".num_params = %d,", len(g.Params))
		switch sem := g.Semantics.(type) {
		case ir.Atomic:
			p.w.writeLine("Matrix(%s)", sem.Matrix)
		case ir.Composite:
			if err := p.composition(sem.Body); err != nil {
				return err
			}
		}
		p.w.indent--
		p.w.writeLine("),")
	}
	p.w.indent--
	p.w.writeLine("},")
	return nil
}

func (p *AutoQPara) subroutines() error {
	p.w.writeLine(".subroutines = {")
	p.w.indent++
	for _, sub := range p.store.Subroutines() {
		if !sub.Used {
			continue
		}
		p.w.writeLine("Subroutine(")
		p.w.indent++
		p.w.writeLine(".name = %q,", sub.Name)
		p.w.writeLine(".num_params = %d,", len(sub.Params))
		p.w.writeLine(".return_type = %q,", sub.ReturnType)
		p.w.writeLine(".params = {")
		p.w.indent++
		for _, param := range sub.Params {
			p.w.writeLine("Parameter(.name = %q, .type = %q),", param.Name, param.Type)
		}
		p.w.indent--
		p.w.writeLine("},")
		if err := p.composition(sub.Body); err != nil {
			return err
		}
		p.w.indent--
		p.w.writeLine("),")
	}
	p.w.indent--
	p.w.writeLine("},")
	return nil
}

func (p *AutoQPara) composition(id ir.BodyID) error {
	p.w.writeLine("Composition({")
	p.w.indent++
	if err := p.gateStmts(id); err != nil {
		return err
	}
	p.w.indent--
	p.w.writeLine("})")
	return nil
}

func (p *AutoQPara) gateStmts(id ir.BodyID) error {
	body, err := p.store.Body(id)
	if err != nil {
		return err
	}
	for _, stmt := range body.Stmts {
		switch st := stmt.(type) {
		case ir.GatePlacement:
			g, local, err := p.gateRef(st.Gate)
			if err != nil {
				return err
			}
			inputs := make([]string, len(st.Inputs))
			for i, in := range st.Inputs {
				inputs[i] = strconv.Itoa(in)
			}
			p.w.writeLine("GatePlacement(.gate = %q, .gate_id = %d%s, .inputs = {%s}),",
				g.Name, local, paramsField(st.Params), strings.Join(inputs, ", "))
		case ir.RepeatBlock:
			p.w.writeLine("RepeatBlock(.count = %d, .body = [", st.Count)
			p.w.indent++
			if err := p.gateStmts(st.Body); err != nil {
				return err
			}
			p.w.indent--
			p.w.writeLine("]),")
		}
	}
	return nil
}

func (p *AutoQPara) gateRef(id ir.GateID) (*ir.GateDef, int, error) {
	g, err := p.store.Gate(id)
	if err != nil {
		return nil, 0, err
	}
	local, ok := p.local[id]
	if !ok {
		return nil, 0, errors.UnknownSymbol("gate", g.Name, errors.Position{}, nil)
	}
	return g, local, nil
}

func paramsField(params []string) string {
	if len(params) == 0 {
		return ""
	}
	return ", .params = {" + quoteAll(params) + "}"
}

func quoteAll(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = strconv.Quote(v)
	}
	return strings.Join(quoted, ", ")
}

// Transducers

func (p *AutoQPara) transducers(stmts []ir.Stmt) error {
	for _, stmt := range stmts {
		var err error
		switch st := stmt.(type) {
		case ir.GateApplication:
			err = p.singleGate(st)
		case ir.SubroutineApplication:
			err = p.subroutineCall(st)
		case ir.LoopApplication:
			err = p.fromLoop(st)
		case ir.ConditionalApplication:
			err = errors.TargetUnsupportedFeature(autoQParaTarget, "conditionals")
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *AutoQPara) singleGate(app ir.GateApplication) error {
	_, local, err := p.gateRef(app.Gate)
	if err != nil {
		return err
	}
	p.w.writeLine("SingleGate(")
	p.w.indent++
	p.w.writeLine(".gate_id = %d,", local)
	if len(app.Params) > 0 {
		p.w.writeLine(".params = {%s},", quoteAll(app.Params))
	}
	p.inputs(app.Operands)
	p.w.indent--
	p.w.writeLine("),")
	return nil
}

func (p *AutoQPara) subroutineCall(app ir.SubroutineApplication) error {
	sub, err := p.store.Subroutine(app.Subroutine)
	if err != nil {
		return err
	}
	p.w.writeLine("SubroutineCall(")
	p.w.indent++
	p.w.writeLine(".subroutine = %q,", sub.Name)
	if len(app.Args) > 0 {
		p.w.writeLine(".args = {%s},", quoteAll(app.Args))
	}
	p.inputs(app.Operands)
	p.w.indent--
	p.w.writeLine("),")
	return nil
}

func (p *AutoQPara) inputs(refs []ir.RegisterRef) {
	p.w.writeLine(".inputs = {")
	p.w.indent++
	for _, ref := range refs {
		qubit := ref.Index
		if qubit == "" {
			qubit = "all"
		}
		p.w.writeLine("RegisterRef(.reg_id = %d, .qubit_id = %s),", ref.Register, qubit)
	}
	p.w.indent--
	p.w.writeLine("}")
}

func (p *AutoQPara) fromLoop(loop ir.LoopApplication) error {
	block, err := p.store.Block(loop.Body)
	if err != nil {
		return err
	}
	vars := make([]*ir.VariableDef, 0, len(block.Variables))
	for _, id := range block.Variables {
		v, err := p.store.Variable(id)
		if err != nil {
			return err
		}
		vars = append(vars, v)
	}

	p.w.writeLine("FromLoop(")
	p.w.indent++
	p.variables(".variables", vars)
	p.w.writeLine(".body = {")
	p.w.indent++
	if err := p.transducers(block.Stmts); err != nil {
		return err
	}
	p.w.indent--
	p.w.writeLine("},")
	p.w.writeLine(".variable = %q,", loop.Variable)

	switch d := loop.Domain.(type) {
	case ir.Interval:
		p.w.writeLine(".form = \"interval\",")
		p.w.writeLine(".start = %s,", d.Start)
		p.w.writeLine(".end = %s,", d.End)
		p.w.writeLine(".step = %s", d.StepOrDefault())
	case ir.Collection:
		p.w.writeLine(".form = \"collection\",")
		p.w.writeLine(".values = {%s}", strings.Join(d.Values, ", "))
	case ir.Expression:
		p.w.writeLine(".form = \"expression\",")
		p.w.writeLine(".expr = %q", d.Text)
	}
	p.w.indent--
	p.w.writeLine("),")
	return nil
}

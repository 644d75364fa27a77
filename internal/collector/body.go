package collector

import (
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"

	"qasmc/grammar"
	"qasmc/internal/errors"
	"qasmc/internal/ir"
	"qasmc/internal/semantic"
)

// insertion is where the next statement goes: a program block at top level,
// a gate-body sequence inside a definition.
type insertion struct {
	block        ir.BlockID
	body         ir.BodyID
	inDefinition bool
	inSubroutine bool
}

type bodyCollector struct {
	ctx    *Context
	points []insertion
}

// CollectBodies fills gate and subroutine bodies and builds the top-level
// program in a single walk.
func CollectBodies(ctx *Context, prog *grammar.Program) error {
	b := &bodyCollector{
		ctx:    ctx,
		points: []insertion{{block: ir.GlobalBlock}},
	}
	return b.statements(prog.Statements)
}

func (b *bodyCollector) top() insertion {
	return b.points[len(b.points)-1]
}

func (b *bodyCollector) push(p insertion) {
	b.points = append(b.points, p)
}

func (b *bodyCollector) pop() {
	b.points = b.points[:len(b.points)-1]
}

func (b *bodyCollector) atGlobalScope() bool {
	return b.ctx.Scopes.CurrentScopeKind() == semantic.ScopeGlobal
}

func (b *bodyCollector) statements(stmts []*grammar.Statement) error {
	for _, stmt := range stmts {
		if err := b.statement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (b *bodyCollector) statement(stmt *grammar.Statement) error {
	switch {
	case stmt.Include != nil:
		return nil
	case stmt.Const != nil:
		if b.atGlobalScope() {
			return nil
		}
		c := stmt.Const
		return b.ctx.declareConst(c.Name, c.Type.String(), c.Value, stmt.Pos, b.declareLocal)
	case stmt.Input != nil:
		if b.atGlobalScope() {
			return nil
		}
		return errors.UnsupportedConstruct("input declaration outside the global scope", position(stmt.Pos))
	case stmt.Register != nil || stmt.LegacyRegister != nil:
		if b.atGlobalScope() {
			return nil
		}
		return errors.UnsupportedConstruct("register declaration outside the global scope", position(stmt.Pos))
	case stmt.Gate != nil:
		if !b.atGlobalScope() {
			return errors.UnsupportedConstruct("nested gate definition", position(stmt.Pos))
		}
		return b.gateDefinition(stmt.Gate)
	case stmt.Def != nil:
		if !b.atGlobalScope() {
			return errors.UnsupportedConstruct("nested subroutine definition", position(stmt.Pos))
		}
		return b.subroutineDefinition(stmt.Def)
	case stmt.For != nil:
		if b.top().inDefinition {
			return b.repeatBlock(stmt.For)
		}
		return b.loopApplication(stmt.For)
	case stmt.If != nil:
		if b.top().inDefinition {
			return errors.UnsupportedConstruct("if statement inside a gate or subroutine body", position(stmt.Pos))
		}
		return b.conditional(stmt.If)
	case stmt.Return != nil:
		if b.top().inSubroutine {
			return nil
		}
		return errors.UnsupportedConstruct("return outside a subroutine", position(stmt.Pos))
	case stmt.Measure != nil:
		m := stmt.Measure
		if m.Target != nil {
			if err := b.checkMeasureTarget(m.Target); err != nil {
				return err
			}
		}
		return b.call("measure", nil, []*grammar.Operand{m.Operand}, stmt.Pos)
	case stmt.MeasureAssign != nil:
		m := stmt.MeasureAssign
		if err := b.checkMeasureTarget(m.Target); err != nil {
			return err
		}
		return b.call("measure", nil, []*grammar.Operand{m.Operand}, stmt.Pos)
	case stmt.Classical != nil:
		return b.variable(stmt.Classical, stmt.Pos)
	case stmt.GateCall != nil:
		g := stmt.GateCall
		return b.call(g.Name, g.Params, g.Operands, stmt.Pos)
	}
	return errors.UnsupportedConstruct("statement", position(stmt.Pos))
}

// declareLocal stores a variable in the current block or body.
func (b *bodyCollector) declareLocal(def ir.VariableDef) (ir.VariableID, error) {
	top := b.top()
	if top.inDefinition {
		return b.ctx.Store.DeclareBodyVariable(top.body, def)
	}
	return b.ctx.Store.DeclareVariable(top.block, def)
}

func (b *bodyCollector) variable(decl *grammar.ClassicalStatement, pos lexer.Position) error {
	def := ir.VariableDef{Name: decl.Name, Type: decl.Type.String()}
	if decl.Value != nil {
		def.Initializer = decl.Value.String()
	}
	id, err := b.declareLocal(def)
	if err != nil {
		return locate(err, pos)
	}
	return locate(b.ctx.Scopes.AddSymbol(semantic.Symbol{
		Name:     decl.Name,
		Kind:     semantic.SymbolVar,
		Ref:      semantic.IDRef(int(id)),
		Position: position(pos),
	}), pos)
}

func (b *bodyCollector) checkMeasureTarget(target *grammar.IndexedIdent) error {
	if _, ok := b.ctx.Scopes.LookupSymbol(target.Name); !ok {
		return b.ctx.unknown("measurement target", target.Name, target.Pos)
	}
	return nil
}

// Definitions

func (b *bodyCollector) enterDefinition(body ir.BodyID, subroutine bool) {
	b.ctx.Scopes.EnterScope(semantic.ScopeGateOrSubroutine)
	b.push(insertion{body: body, inDefinition: true, inSubroutine: subroutine})
}

func (b *bodyCollector) exitDefinition() error {
	b.pop()
	return b.ctx.Scopes.ExitScope()
}

func (b *bodyCollector) addLocal(name string, kind semantic.SymbolKind, index int, pos lexer.Position) error {
	return locate(b.ctx.Scopes.AddSymbol(semantic.Symbol{
		Name:     name,
		Kind:     kind,
		Ref:      semantic.IDRef(index),
		Position: position(pos),
	}), pos)
}

func (b *bodyCollector) gateDefinition(g *grammar.GateStatement) error {
	def, err := b.ctx.Store.GateByName(g.Name)
	if err != nil {
		return locate(err, g.Pos)
	}
	composite, ok := def.Semantics.(ir.Composite)
	if !ok {
		return errors.DuplicateDefinition("gate", g.Name, position(g.Pos))
	}

	b.enterDefinition(composite.Body, false)
	for i, q := range def.Qubits {
		if err := b.addLocal(q, semantic.SymbolQubit, i, g.Pos); err != nil {
			return err
		}
	}
	for i, p := range def.Params {
		if err := b.addLocal(p, semantic.SymbolParameter, i, g.Pos); err != nil {
			return err
		}
	}
	if err := b.statements(g.Body); err != nil {
		return err
	}
	return b.exitDefinition()
}

func (b *bodyCollector) subroutineDefinition(d *grammar.DefStatement) error {
	def, err := b.ctx.Store.SubroutineByName(d.Name)
	if err != nil {
		return locate(err, d.Pos)
	}

	b.enterDefinition(def.Body, true)
	for _, p := range def.Params {
		kind := semantic.SymbolParameter
		if p.Qubit {
			kind = semantic.SymbolQubit
		}
		if err := b.addLocal(p.Name, kind, p.Index, d.Pos); err != nil {
			return err
		}
	}
	if err := b.statements(d.Body); err != nil {
		return err
	}
	return b.exitDefinition()
}

// Calls

func (b *bodyCollector) call(name string, params []*grammar.Expr, operands []*grammar.Operand, pos lexer.Position) error {
	symbol, ok := b.ctx.Scopes.LookupSymbol(name)
	if !ok {
		return b.ctx.unknown("gate", name, pos)
	}
	id, _ := symbol.Ref.AsID()

	switch symbol.Kind {
	case semantic.SymbolGate:
		gate, err := b.ctx.Store.Gate(ir.GateID(id))
		if err != nil {
			return locate(err, pos)
		}
		if n := gate.NumQubits(); n > 0 && n != len(operands) {
			return errors.ArityMismatch(gate.Name, "operand", n, len(operands), position(pos))
		}
		if gate.IsComposite() && len(gate.Params) != len(params) {
			return errors.ArityMismatch(gate.Name, "parameter", len(gate.Params), len(params), position(pos))
		}
		if err := b.ctx.Store.MarkGateUsed(gate.ID); err != nil {
			return locate(err, pos)
		}
		return b.gateCall(gate.ID, texts(params), operands, pos)

	case semantic.SymbolSubroutine:
		sub, err := b.ctx.Store.Subroutine(ir.SubroutineID(id))
		if err != nil {
			return locate(err, pos)
		}
		if b.top().inDefinition {
			return errors.UnsupportedConstruct("subroutine call inside a gate or subroutine body", position(pos))
		}
		if sub.NumQubits() != len(operands) {
			return errors.ArityMismatch(sub.Name, "operand", sub.NumQubits(), len(operands), position(pos))
		}
		if sub.NumParams() != len(params) {
			return errors.ArityMismatch(sub.Name, "argument", sub.NumParams(), len(params), position(pos))
		}
		if err := b.ctx.Store.MarkSubroutineUsed(sub.ID); err != nil {
			return locate(err, pos)
		}
		refs, err := b.registerRefs(operands)
		if err != nil {
			return err
		}
		return locate(b.ctx.Store.AppendStmt(b.top().block, ir.SubroutineApplication{
			Subroutine: sub.ID,
			Args:       texts(params),
			Operands:   refs,
		}), pos)
	}

	return errors.WrongKind(name, symbol.Kind.String(), "gate or subroutine", position(pos))
}

func (b *bodyCollector) gateCall(gate ir.GateID, params []string, operands []*grammar.Operand, pos lexer.Position) error {
	top := b.top()
	if top.inDefinition {
		inputs, err := b.argumentIndices(operands)
		if err != nil {
			return err
		}
		return locate(b.ctx.Store.AppendGateStmt(top.body, ir.GatePlacement{
			Gate:   gate,
			Params: params,
			Inputs: inputs,
		}), pos)
	}

	refs, err := b.registerRefs(operands)
	if err != nil {
		return err
	}
	return locate(b.ctx.Store.AppendStmt(top.block, ir.GateApplication{
		Gate:     gate,
		Params:   params,
		Operands: refs,
	}), pos)
}

// argumentIndices resolves operands inside a definition to the indices of
// the enclosing definition's qubit arguments.
func (b *bodyCollector) argumentIndices(operands []*grammar.Operand) ([]int, error) {
	inputs := make([]int, 0, len(operands))
	for _, op := range operands {
		if op.Hardware != nil {
			return nil, errors.UnsupportedConstruct(fmt.Sprintf("hardware qubit operand '%s'", *op.Hardware), position(op.Pos))
		}
		if op.Target.Index != nil {
			return nil, errors.UnsupportedConstruct(
				fmt.Sprintf("indexed qubit argument '%s' inside a definition", op.Target), position(op.Pos))
		}
		symbol, ok := b.ctx.Scopes.LookupSymbol(op.Target.Name)
		if !ok {
			return nil, b.ctx.unknown("qubit", op.Target.Name, op.Pos)
		}
		if symbol.Kind != semantic.SymbolQubit {
			return nil, errors.WrongKind(op.Target.Name, symbol.Kind.String(), "qubit argument", position(op.Pos))
		}
		index, _ := symbol.Ref.AsID()
		inputs = append(inputs, index)
	}
	return inputs, nil
}

// registerRefs resolves top-level operands to registers, keeping the index text.
func (b *bodyCollector) registerRefs(operands []*grammar.Operand) ([]ir.RegisterRef, error) {
	refs := make([]ir.RegisterRef, 0, len(operands))
	for _, op := range operands {
		if op.Hardware != nil {
			return nil, errors.UnsupportedConstruct(fmt.Sprintf("hardware qubit operand '%s'", *op.Hardware), position(op.Pos))
		}
		symbol, ok := b.ctx.Scopes.LookupSymbol(op.Target.Name)
		if !ok {
			return nil, b.ctx.unknown("register", op.Target.Name, op.Pos)
		}
		if symbol.Kind != semantic.SymbolRegister {
			return nil, errors.WrongKind(op.Target.Name, symbol.Kind.String(), "register", position(op.Pos))
		}
		id, _ := symbol.Ref.AsID()
		ref := ir.RegisterRef{Register: ir.RegisterID(id)}
		if op.Target.Index != nil {
			ref.Index = op.Target.Index.String()
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func texts(exprs []*grammar.Expr) []string {
	if len(exprs) == 0 {
		return nil
	}
	out := make([]string, len(exprs))
	for i, e := range exprs {
		out[i] = e.String()
	}
	return out
}

// Control flow

func loopType(f *grammar.ForStatement) string {
	if f.Type == nil {
		return "int"
	}
	return f.Type.String()
}

// repeatBlock lowers a loop inside a definition. The iteration count must be
// known now since no target repeats symbolically inside a gate body.
func (b *bodyCollector) repeatBlock(f *grammar.ForStatement) error {
	count, err := b.repeatCount(f)
	if err != nil {
		return err
	}
	log.Debugf("repeat block over %s: %d iteration(s)", f.Variable, count)

	top := b.top()
	body := b.ctx.Store.NewBody()
	if err := b.ctx.Store.AppendGateStmt(top.body, ir.RepeatBlock{Count: count, Body: body}); err != nil {
		return locate(err, f.Pos)
	}

	b.ctx.Scopes.EnterScope(semantic.ScopeBlock)
	b.push(insertion{body: body, inDefinition: true, inSubroutine: top.inSubroutine})
	id, err := b.ctx.Store.DeclareBodyVariable(body, ir.VariableDef{Name: f.Variable, Type: loopType(f)})
	if err != nil {
		return locate(err, f.Pos)
	}
	if err := b.addLocal(f.Variable, semantic.SymbolVar, int(id), f.Pos); err != nil {
		return err
	}
	if err := b.statements(f.Body.List()); err != nil {
		return err
	}
	b.pop()
	return b.ctx.Scopes.ExitScope()
}

func (b *bodyCollector) repeatCount(f *grammar.ForStatement) (int, error) {
	switch {
	case f.Range != nil:
		start, ok := b.ctx.foldInt(f.Range.Start())
		if !ok {
			return 0, errors.UnresolvedConstant(f.Range.Start().String(), position(f.Range.Start().Pos))
		}
		end, ok := b.ctx.foldInt(f.Range.End())
		if !ok {
			return 0, errors.UnresolvedConstant(f.Range.End().String(), position(f.Range.End().Pos))
		}
		step := 1
		if s := f.Range.Step(); s != nil {
			if step, ok = b.ctx.foldInt(s); !ok {
				return 0, errors.UnresolvedConstant(s.String(), position(s.Pos))
			}
		}
		count, err := ir.IterationCount(start, end, step)
		if err != nil {
			return 0, errors.UnsupportedConstruct("loop with a zero step", position(f.Range.Pos))
		}
		return count, nil
	case f.Set != nil:
		return len(f.Set.Values), nil
	default:
		return 0, errors.UnresolvedConstant(f.Collection.String(), position(f.Collection.Pos))
	}
}

// loopDomain builds the domain of a top-level loop. Interval bounds are
// folded here, before the loop variable is in scope, so that targets needing
// concrete counts see the constants visible at the loop.
func (b *bodyCollector) loopDomain(f *grammar.ForStatement) (ir.LoopDomain, error) {
	switch {
	case f.Range != nil:
		interval := ir.Interval{
			Start: f.Range.Start().String(),
			End:   f.Range.End().String(),
		}
		step := f.Range.Step()
		if step != nil {
			interval.Step = step.String()
		}

		start, startOK := b.ctx.foldInt(f.Range.Start())
		end, endOK := b.ctx.foldInt(f.Range.End())
		bounds := &ir.Bounds{Start: start, End: end, Step: 1}
		stepOK := true
		if step != nil {
			bounds.Step, stepOK = b.ctx.foldInt(step)
		}
		if stepOK && bounds.Step == 0 {
			return nil, errors.UnsupportedConstruct("loop with a zero step", position(f.Range.Pos))
		}
		if startOK && endOK && stepOK {
			interval.Bounds = bounds
		}
		return interval, nil
	case f.Set != nil:
		return ir.Collection{Values: texts(f.Set.Values)}, nil
	default:
		return ir.Expression{Text: f.Collection.String()}, nil
	}
}

// loopApplication keeps a top-level loop symbolic. The loop variable is a
// variable of the loop's own block.
func (b *bodyCollector) loopApplication(f *grammar.ForStatement) error {
	domain, err := b.loopDomain(f)
	if err != nil {
		return err
	}
	block := b.ctx.Store.NewBlock()
	loop := ir.LoopApplication{
		Type:     loopType(f),
		Variable: f.Variable,
		Domain:   domain,
		Body:     block,
	}
	if err := b.ctx.Store.AppendStmt(b.top().block, loop); err != nil {
		return locate(err, f.Pos)
	}
	log.Debugf("loop over %s in %s", f.Variable, loop.Domain)

	b.ctx.Scopes.EnterScope(semantic.ScopeBlock)
	b.push(insertion{block: block})
	id, err := b.ctx.Store.DeclareVariable(block, ir.VariableDef{Name: f.Variable, Type: loop.Type})
	if err != nil {
		return locate(err, f.Pos)
	}
	if err := b.addLocal(f.Variable, semantic.SymbolVar, int(id), f.Pos); err != nil {
		return err
	}
	if err := b.statements(f.Body.List()); err != nil {
		return err
	}
	b.pop()
	return b.ctx.Scopes.ExitScope()
}

func (b *bodyCollector) conditional(stmt *grammar.IfStatement) error {
	cond := ir.ConditionalApplication{
		Condition: stmt.Condition.String(),
		Then:      b.ctx.Store.NewBlock(),
		HasElse:   stmt.Else != nil,
	}
	if cond.HasElse {
		cond.Else = b.ctx.Store.NewBlock()
	}
	if err := b.ctx.Store.AppendStmt(b.top().block, cond); err != nil {
		return locate(err, stmt.Pos)
	}

	if err := b.branch(cond.Then, stmt.Then); err != nil {
		return err
	}
	if cond.HasElse {
		return b.branch(cond.Else, stmt.Else)
	}
	return nil
}

func (b *bodyCollector) branch(block ir.BlockID, scope *grammar.Scope) error {
	b.ctx.Scopes.EnterScope(semantic.ScopeBlock)
	b.push(insertion{block: block})
	if err := b.statements(scope.List()); err != nil {
		return err
	}
	b.pop()
	return b.ctx.Scopes.ExitScope()
}

package ir

import (
	"fmt"
	"strings"
)

// IR for lowered OpenQASM programs.
// Every cross-reference between entities is an integer handle into the Store.

type RegisterID int
type GateID int
type SubroutineID int
type VariableID int
type BlockID int
type BodyID int

// GlobalBlock is the top-level program block.
const GlobalBlock BlockID = 0

type ElementType int

const (
	Qubit ElementType = iota
	Int
)

func (t ElementType) String() string {
	if t == Qubit {
		return "Qubit"
	}
	return "Int"
}

type Parametricity int

const (
	Nonparametric Parametricity = iota
	Parametric
)

func (p Parametricity) String() string {
	if p == Parametric {
		return "PARAMETRIC"
	}
	return "NONPARAMETRIC"
}

// RegisterDef is a qubit or bit register. Size is only meaningful when Kind
// is Nonparametric; SizeExpr always holds the declared size text.
type RegisterDef struct {
	ID       RegisterID
	Name     string
	Type     ElementType
	Kind     Parametricity
	SizeExpr string
	Size     int
}

// GateSemantics is either Atomic or Composite.
type GateSemantics interface {
	isGateSemantics()
}

// Atomic gates carry an opaque matrix supplied by the gate library.
type Atomic struct {
	Matrix string
}

// Composite gates are defined by a body of placements and repeat blocks.
type Composite struct {
	Body BodyID
}

func (Atomic) isGateSemantics()    {}
func (Composite) isGateSemantics() {}

type GateDef struct {
	ID         GateID
	Name       string
	Aliases    []string
	Qubits     []string
	QubitIndex map[string]int
	Params     []string
	ParamIndex map[string]int
	// Arity is the declared qubit count of a library gate, 0 when unknown.
	Arity     int
	Used      bool
	Semantics GateSemantics
}

// NumQubits is the number of qubit arguments the gate takes, or 0 when it is not known.
func (g *GateDef) NumQubits() int {
	if len(g.Qubits) > 0 {
		return len(g.Qubits)
	}
	return g.Arity
}

func (g *GateDef) IsComposite() bool {
	_, ok := g.Semantics.(Composite)
	return ok
}

// NewGateDef builds a gate header with dense argument and parameter indices.
// Repeated names are reported as the second return value.
func NewGateDef(name string, qubits, params []string) (*GateDef, string) {
	g := &GateDef{
		Name:       name,
		QubitIndex: make(map[string]int),
		ParamIndex: make(map[string]int),
	}
	for _, q := range qubits {
		if _, dup := g.QubitIndex[q]; dup {
			return nil, q
		}
		g.QubitIndex[q] = len(g.Qubits)
		g.Qubits = append(g.Qubits, q)
	}
	for _, p := range params {
		_, dupParam := g.ParamIndex[p]
		_, dupQubit := g.QubitIndex[p]
		if dupParam || dupQubit {
			return nil, p
		}
		g.ParamIndex[p] = len(g.Params)
		g.Params = append(g.Params, p)
	}
	return g, ""
}

type SubroutineParam struct {
	Name string
	// Type is a scalar type name, "qubit", "qubit[n]" or array type text.
	Type  string
	Qubit bool
	// Index is the dense position among qubit or classical parameters.
	Index int
}

type SubroutineDef struct {
	ID         SubroutineID
	Name       string
	Params     []SubroutineParam
	QubitIndex map[string]int
	ParamIndex map[string]int
	ReturnType string
	Body       BodyID
	Used       bool
}

func (s *SubroutineDef) NumQubits() int { return len(s.QubitIndex) }

func (s *SubroutineDef) NumParams() int { return len(s.ParamIndex) }

// AddParam appends a parameter, indexing it among qubits or classical parameters.
// It reports false when the name is already taken.
func (s *SubroutineDef) AddParam(name, typ string, qubit bool) bool {
	if s.QubitIndex == nil {
		s.QubitIndex = make(map[string]int)
		s.ParamIndex = make(map[string]int)
	}
	_, inQubits := s.QubitIndex[name]
	_, inParams := s.ParamIndex[name]
	if inQubits || inParams {
		return false
	}
	p := SubroutineParam{Name: name, Type: typ, Qubit: qubit}
	if qubit {
		p.Index = len(s.QubitIndex)
		s.QubitIndex[name] = p.Index
	} else {
		p.Index = len(s.ParamIndex)
		s.ParamIndex[name] = p.Index
	}
	s.Params = append(s.Params, p)
	return true
}

type VariableDef struct {
	ID          VariableID
	Name        string
	Type        string
	Const       bool
	Initializer string
	Value       *int
}

// RegisterRef addresses a register element. An empty Index means the whole register.
type RegisterRef struct {
	Register RegisterID
	Index    string
}

// Stmt is a top-level program statement.
type Stmt interface {
	isStmt()
}

type GateApplication struct {
	Gate     GateID
	Params   []string
	Operands []RegisterRef
}

type SubroutineApplication struct {
	Subroutine SubroutineID
	Args       []string
	Operands   []RegisterRef
}

type LoopApplication struct {
	Type     string
	Variable string
	Domain   LoopDomain
	Body     BlockID
}

// ConditionalApplication is representable but rejected by every printer.
type ConditionalApplication struct {
	Condition string
	Then      BlockID
	Else      BlockID
	HasElse   bool
}

func (GateApplication) isStmt()        {}
func (SubroutineApplication) isStmt()  {}
func (LoopApplication) isStmt()        {}
func (ConditionalApplication) isStmt() {}

// GateStmt is a statement inside a composite gate or subroutine body.
type GateStmt interface {
	isGateStmt()
}

// GatePlacement applies a gate to argument indices of the enclosing definition.
type GatePlacement struct {
	Gate   GateID
	Params []string
	Inputs []int
}

// RepeatBlock repeats a nested body a count known at compile time.
type RepeatBlock struct {
	Count int
	Body  BodyID
}

func (GatePlacement) isGateStmt() {}
func (RepeatBlock) isGateStmt()   {}

// LoopDomain is Interval, Collection or Expression.
type LoopDomain interface {
	isLoopDomain()
	String() string
}

// Interval is start:step:end, inclusive. An empty Step means 1. Bounds is
// set when every bound folded to an integer in the loop's enclosing scope.
type Interval struct {
	Start  string
	End    string
	Step   string
	Bounds *Bounds
}

// Bounds are the folded values of an Interval.
type Bounds struct {
	Start int
	End   int
	Step  int
}

type Collection struct {
	Values []string
}

// Expression is an opaque domain such as a previously declared array.
type Expression struct {
	Text string
}

func (Interval) isLoopDomain()   {}
func (Collection) isLoopDomain() {}
func (Expression) isLoopDomain() {}

// StepOrDefault returns the step text, "1" when omitted.
func (i Interval) StepOrDefault() string {
	if i.Step == "" {
		return "1"
	}
	return i.Step
}

func (i Interval) String() string {
	if i.Step == "" {
		return fmt.Sprintf("[%s:%s]", i.Start, i.End)
	}
	return fmt.Sprintf("[%s:%s:%s]", i.Start, i.Step, i.End)
}

func (c Collection) String() string {
	return "{" + strings.Join(c.Values, ", ") + "}"
}

func (e Expression) String() string {
	return e.Text
}

type Block struct {
	Stmts     []Stmt
	Variables []VariableID
}

type Body struct {
	Stmts     []GateStmt
	Variables []VariableID
}

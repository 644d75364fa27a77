package ir

import (
	"fmt"

	"qasmc/internal/errors"
)

type callable struct {
	gate bool
	id   int
}

// Store owns every IR entity. Gates and subroutines share one namespace,
// including gate aliases.
type Store struct {
	registers      []*RegisterDef
	registerByName map[string]RegisterID

	gates       []*GateDef
	subroutines []*SubroutineDef
	callables   map[string]callable

	variables []*VariableDef
	blocks    []*Block
	bodies    []*Body
}

// NewStore returns an empty store holding only the global block.
func NewStore() *Store {
	s := &Store{
		registerByName: make(map[string]RegisterID),
		callables:      make(map[string]callable),
	}
	s.NewBlock()
	return s
}

// Registers

func (s *Store) AddRegister(def RegisterDef) (RegisterID, error) {
	if _, exists := s.registerByName[def.Name]; exists {
		return 0, errors.DuplicateDefinition("register", def.Name, errors.Position{})
	}
	def.ID = RegisterID(len(s.registers))
	s.registers = append(s.registers, &def)
	s.registerByName[def.Name] = def.ID
	return def.ID, nil
}

func (s *Store) Register(id RegisterID) (*RegisterDef, error) {
	if id < 0 || int(id) >= len(s.registers) {
		return nil, errors.UnknownSymbol("register", fmt.Sprintf("#%d", id), errors.Position{}, nil)
	}
	return s.registers[id], nil
}

func (s *Store) RegisterByName(name string) (*RegisterDef, error) {
	id, ok := s.registerByName[name]
	if !ok {
		return nil, errors.UnknownSymbol("register", name, errors.Position{}, s.registerNames())
	}
	return s.registers[id], nil
}

// Registers returns all registers in declaration order.
func (s *Store) Registers() []*RegisterDef {
	return s.registers
}

func (s *Store) registerNames() []string {
	names := make([]string, 0, len(s.registers))
	for _, r := range s.registers {
		names = append(names, r.Name)
	}
	return names
}

// Gates and subroutines

func (s *Store) claimNames(kind string, names []string, c callable) error {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if _, exists := s.callables[name]; exists || seen[name] {
			return errors.DuplicateDefinition(kind, name, errors.Position{})
		}
		seen[name] = true
	}
	for _, name := range names {
		s.callables[name] = c
	}
	return nil
}

// AddGate stores def under the next id. The canonical name and every alias
// must be unused by any gate or subroutine.
func (s *Store) AddGate(def *GateDef) (GateID, error) {
	id := GateID(len(s.gates))
	names := append([]string{def.Name}, def.Aliases...)
	if err := s.claimNames("gate", names, callable{gate: true, id: int(id)}); err != nil {
		return 0, err
	}
	def.ID = id
	if def.QubitIndex == nil {
		def.QubitIndex = make(map[string]int)
	}
	if def.ParamIndex == nil {
		def.ParamIndex = make(map[string]int)
	}
	s.gates = append(s.gates, def)
	return id, nil
}

func (s *Store) Gate(id GateID) (*GateDef, error) {
	if id < 0 || int(id) >= len(s.gates) {
		return nil, errors.UnknownSymbol("gate", fmt.Sprintf("#%d", id), errors.Position{}, nil)
	}
	return s.gates[id], nil
}

// GateByName resolves a canonical name or alias.
func (s *Store) GateByName(name string) (*GateDef, error) {
	c, ok := s.callables[name]
	if !ok || !c.gate {
		return nil, errors.UnknownSymbol("gate", name, errors.Position{}, s.callableNames())
	}
	return s.gates[c.id], nil
}

func (s *Store) Gates() []*GateDef {
	return s.gates
}

func (s *Store) MarkGateUsed(id GateID) error {
	g, err := s.Gate(id)
	if err != nil {
		return err
	}
	g.Used = true
	return nil
}

func (s *Store) MarkGateUsedByName(name string) error {
	g, err := s.GateByName(name)
	if err != nil {
		return err
	}
	g.Used = true
	return nil
}

func (s *Store) AddSubroutine(def *SubroutineDef) (SubroutineID, error) {
	id := SubroutineID(len(s.subroutines))
	if err := s.claimNames("subroutine", []string{def.Name}, callable{id: int(id)}); err != nil {
		return 0, err
	}
	def.ID = id
	if def.QubitIndex == nil {
		def.QubitIndex = make(map[string]int)
	}
	if def.ParamIndex == nil {
		def.ParamIndex = make(map[string]int)
	}
	s.subroutines = append(s.subroutines, def)
	return id, nil
}

func (s *Store) Subroutine(id SubroutineID) (*SubroutineDef, error) {
	if id < 0 || int(id) >= len(s.subroutines) {
		return nil, errors.UnknownSymbol("subroutine", fmt.Sprintf("#%d", id), errors.Position{}, nil)
	}
	return s.subroutines[id], nil
}

func (s *Store) SubroutineByName(name string) (*SubroutineDef, error) {
	c, ok := s.callables[name]
	if !ok || c.gate {
		return nil, errors.UnknownSymbol("subroutine", name, errors.Position{}, s.callableNames())
	}
	return s.subroutines[c.id], nil
}

func (s *Store) Subroutines() []*SubroutineDef {
	return s.subroutines
}

func (s *Store) MarkSubroutineUsed(id SubroutineID) error {
	sub, err := s.Subroutine(id)
	if err != nil {
		return err
	}
	sub.Used = true
	return nil
}

func (s *Store) MarkSubroutineUsedByName(name string) error {
	sub, err := s.SubroutineByName(name)
	if err != nil {
		return err
	}
	sub.Used = true
	return nil
}

func (s *Store) callableNames() []string {
	names := make([]string, 0, len(s.callables))
	for name := range s.callables {
		names = append(names, name)
	}
	return names
}

// Variables, blocks and bodies

func (s *Store) addVariable(def VariableDef) VariableID {
	def.ID = VariableID(len(s.variables))
	s.variables = append(s.variables, &def)
	return def.ID
}

func (s *Store) Variable(id VariableID) (*VariableDef, error) {
	if id < 0 || int(id) >= len(s.variables) {
		return nil, errors.UnknownSymbol("variable", fmt.Sprintf("#%d", id), errors.Position{}, nil)
	}
	return s.variables[id], nil
}

func (s *Store) NewBlock() BlockID {
	s.blocks = append(s.blocks, &Block{})
	return BlockID(len(s.blocks) - 1)
}

func (s *Store) NewBody() BodyID {
	s.bodies = append(s.bodies, &Body{})
	return BodyID(len(s.bodies) - 1)
}

func (s *Store) Block(id BlockID) (*Block, error) {
	if id < 0 || int(id) >= len(s.blocks) {
		return nil, errors.UnknownSymbol("block", fmt.Sprintf("#%d", id), errors.Position{}, nil)
	}
	return s.blocks[id], nil
}

func (s *Store) Body(id BodyID) (*Body, error) {
	if id < 0 || int(id) >= len(s.bodies) {
		return nil, errors.UnknownSymbol("body", fmt.Sprintf("#%d", id), errors.Position{}, nil)
	}
	return s.bodies[id], nil
}

func (s *Store) AppendStmt(id BlockID, stmt Stmt) error {
	b, err := s.Block(id)
	if err != nil {
		return err
	}
	b.Stmts = append(b.Stmts, stmt)
	return nil
}

func (s *Store) AppendGateStmt(id BodyID, stmt GateStmt) error {
	b, err := s.Body(id)
	if err != nil {
		return err
	}
	b.Stmts = append(b.Stmts, stmt)
	return nil
}

// DeclareVariable stores def and records it as local to the block.
func (s *Store) DeclareVariable(id BlockID, def VariableDef) (VariableID, error) {
	b, err := s.Block(id)
	if err != nil {
		return 0, err
	}
	v := s.addVariable(def)
	b.Variables = append(b.Variables, v)
	return v, nil
}

func (s *Store) DeclareBodyVariable(id BodyID, def VariableDef) (VariableID, error) {
	b, err := s.Body(id)
	if err != nil {
		return 0, err
	}
	v := s.addVariable(def)
	b.Variables = append(b.Variables, v)
	return v, nil
}

// GlobalVariables returns the variables declared in the global block.
func (s *Store) GlobalVariables() []*VariableDef {
	vars := make([]*VariableDef, 0, len(s.blocks[GlobalBlock].Variables))
	for _, id := range s.blocks[GlobalBlock].Variables {
		vars = append(vars, s.variables[id])
	}
	return vars
}

// QubitCount sums the sizes of the nonparametric qubit registers.
func (s *Store) QubitCount() int {
	total := 0
	for _, r := range s.registers {
		if r.Type == Qubit && r.Kind == Nonparametric {
			total += r.Size
		}
	}
	return total
}

package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

type Program struct {
	Pos        lexer.Position
	Version    *Version     `@@?`
	Statements []*Statement `@@*`
}

type Version struct {
	Pos    lexer.Position
	Number string `"OPENQASM" @(Float | Integer) ";"`
}

type Statement struct {
	Pos lexer.Position

	Include        *IncludeStatement        `  @@`
	Const          *ConstStatement          `| @@`
	Input          *InputStatement          `| @@`
	Register       *RegisterStatement       `| @@`
	LegacyRegister *LegacyRegisterStatement `| @@`
	Gate           *GateStatement           `| @@`
	Def            *DefStatement            `| @@`
	For            *ForStatement            `| @@`
	If             *IfStatement             `| @@`
	Return         *ReturnStatement         `| @@`
	Measure        *MeasureStatement        `| @@`
	MeasureAssign  *MeasureAssignStatement  `| @@`
	Classical      *ClassicalStatement      `| @@`
	GateCall       *GateCallStatement       `| @@`
}

type IncludeStatement struct {
	Path string `"include" @String ";"`
}

// ConstStatement is `const int n = 4;`.
type ConstStatement struct {
	Pos   lexer.Position
	Type  *ScalarType `"const" @@`
	Name  string      `@Ident "="`
	Value *Expr       `@@ ";"`
}

// InputStatement declares an externally supplied parameter: `input int n;`.
type InputStatement struct {
	Pos  lexer.Position
	Type *ScalarType `"input" @@`
	Name string      `@Ident ";"`
}

// RegisterStatement covers `qubit[n] q;` and `bit[n] c;`.
type RegisterStatement struct {
	Pos     lexer.Position
	Keyword string `@("qubit" | "bit")`
	Size    *Expr  `( "[" @@ "]" )?`
	Name    string `@Ident`
	Init    *Expr  `( "=" @@ )? ";"`
}

// LegacyRegisterStatement covers the OpenQASM 2 forms `qreg q[n];` and `creg c[n];`.
type LegacyRegisterStatement struct {
	Pos     lexer.Position
	Keyword string `@("qreg" | "creg")`
	Name    string `@Ident`
	Size    *Expr  `( "[" @@ "]" )? ";"`
}

type GateStatement struct {
	Pos    lexer.Position
	Name   string       `"gate" @Ident`
	Params []string     `( "(" ( @Ident ( "," @Ident )* )? ")" )?`
	Qubits []string     `@Ident ( "," @Ident )*`
	Body   []*Statement `"{" @@* "}"`
}

type DefStatement struct {
	Pos    lexer.Position
	Name   string          `"def" @Ident "("`
	Params []*DefParameter `( @@ ( "," @@ )* )? ")"`
	Return *ScalarType     `( "->" @@ )?`
	Body   []*Statement    `"{" @@* "}"`
}

type DefParameter struct {
	Pos    lexer.Position
	Qubit  *QubitType  `(  @@`
	Array  *ArrayType  ` | @@`
	Scalar *ScalarType ` | @@ )`
	Name   string      `@Ident`
}

type QubitType struct {
	Keyword string `@"qubit"`
	Size    *Expr  `( "[" @@ "]" )?`
}

type ArrayType struct {
	Tokens  []lexer.Token
	Access  string      `@("readonly" | "mutable")?`
	Element *ScalarType `"array" "[" @@`
	Dims    []*Expr     `( "," @@ )+ "]"`
}

type ScalarType struct {
	Tokens []lexer.Token
	Name   string `@("int" | "uint" | "float" | "angle" | "bool" | "bit" | "complex")`
	Width  *Expr  `( "[" @@ "]" )?`
}

type ForStatement struct {
	Pos        lexer.Position
	Type       *ScalarType      `"for" @@?`
	Variable   string           `@Ident "in"`
	Range      *RangeExpression `(  @@`
	Set        *SetExpression   ` | @@`
	Collection *Expr            ` | @@ )`
	Body       *Scope           `@@`
}

// RangeExpression is `[start:end]` or `[start:step:end]`.
type RangeExpression struct {
	Pos   lexer.Position
	Parts []*Expr `"[" @@ ":" @@ ( ":" @@ )? "]"`
}

type SetExpression struct {
	Pos    lexer.Position
	Values []*Expr `"{" @@ ( "," @@ )* "}"`
}

type IfStatement struct {
	Pos       lexer.Position
	Condition *Expr  `"if" "(" @@ ")"`
	Then      *Scope `@@`
	Else      *Scope `( "else" @@ )?`
}

type Scope struct {
	Open       string       `(  @"{"`
	Statements []*Statement `   @@* "}"`
	Single     *Statement   ` | @@ )`
}

type ReturnStatement struct {
	Pos     lexer.Position
	Keyword string `@"return"`
	Value   *Expr  `@@? ";"`
}

// MeasureStatement is `measure q[0];` or `measure q[0] -> c[0];`.
type MeasureStatement struct {
	Pos     lexer.Position
	Keyword string        `@"measure"`
	Operand *Operand      `@@`
	Target  *IndexedIdent `( "->" @@ )? ";"`
}

// MeasureAssignStatement is `c[0] = measure q[0];`.
type MeasureAssignStatement struct {
	Pos     lexer.Position
	Target  *IndexedIdent `@@ "="`
	Operand *Operand      `"measure" @@ ";"`
}

type ClassicalStatement struct {
	Pos   lexer.Position
	Type  *ScalarType `@@`
	Name  string      `@Ident`
	Value *Expr       `( "=" @@ )? ";"`
}

type GateCallStatement struct {
	Pos      lexer.Position
	Name     string     `@Ident`
	Params   []*Expr    `( "(" ( @@ ( "," @@ )* )? ")" )?`
	Operands []*Operand `( @@ ( "," @@ )* )? ";"`
}

type Operand struct {
	Pos      lexer.Position
	Hardware *string       `  @HardwareQubit`
	Target   *IndexedIdent `| @@`
}

type IndexedIdent struct {
	Pos   lexer.Position
	Name  string `@Ident`
	Index *Expr  `( "[" @@ "]" )?`
}

type Expr struct {
	Pos    lexer.Position
	Tokens []lexer.Token
	Left   *UnaryExpr `@@`
	Ops    []*BinOp   `@@*`
}

type BinOp struct {
	Operator string     `@("**" | "==" | "!=" | "<=" | ">=" | "&&" | "||" | "+" | "-" | "*" | "/" | "%" | "<" | ">" | "&" | "|" | "^")`
	Right    *UnaryExpr `@@`
}

type UnaryExpr struct {
	Operator string       `@("-" | "!" | "~")?`
	Value    *PrimaryExpr `@@`
}

type PrimaryExpr struct {
	Float   *string       `  @Float`
	Integer *string       `| @Integer`
	Call    *CallExpr     `| @@`
	Ident   *IndexedIdent `| @@`
	Parens  *Expr         `| "(" @@ ")"`
}

type CallExpr struct {
	Name string  `@Ident "("`
	Args []*Expr `( @@ ( "," @@ )* )? ")"`
}

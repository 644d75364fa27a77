package grammar

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

var (
	symbols = QasmLexer.Symbols()

	elided = map[lexer.TokenType]bool{
		symbols["Whitespace"]:   true,
		symbols["Comment"]:      true,
		symbols["BlockComment"]: true,
	}

	words = map[lexer.TokenType]bool{
		symbols["Ident"]:         true,
		symbols["Integer"]:       true,
		symbols["Float"]:         true,
		symbols["HardwareQubit"]: true,
	}
)

// tokenText joins token values without whitespace. A single space is kept
// between two adjacent word tokens so `readonly array` does not collapse.
func tokenText(tokens []lexer.Token) string {
	var b strings.Builder
	prevWord := false
	for _, tok := range tokens {
		if elided[tok.Type] || tok.EOF() {
			continue
		}
		word := words[tok.Type]
		if word && prevWord {
			b.WriteByte(' ')
		}
		b.WriteString(tok.Value)
		prevWord = word
	}
	return b.String()
}

// String returns the unevaluated source text of the expression.
func (e *Expr) String() string {
	if e == nil {
		return ""
	}
	return tokenText(e.Tokens)
}

// IntLiteral reports the value of an expression that is a bare decimal
// literal, optionally negated.
func (e *Expr) IntLiteral() (int, bool) {
	if e == nil || len(e.Ops) > 0 || e.Left == nil {
		return 0, false
	}
	if e.Left.Operator != "" && e.Left.Operator != "-" {
		return 0, false
	}
	if e.Left.Value == nil || e.Left.Value.Integer == nil {
		return 0, false
	}
	n, err := strconv.Atoi(*e.Left.Value.Integer)
	if err != nil {
		return 0, false
	}
	if e.Left.Operator == "-" {
		n = -n
	}
	return n, true
}

// Ident reports the name of an expression that is a bare identifier.
func (e *Expr) Ident() (string, bool) {
	if e == nil || len(e.Ops) > 0 || e.Left == nil || e.Left.Operator != "" {
		return "", false
	}
	v := e.Left.Value
	if v == nil || v.Ident == nil || v.Ident.Index != nil {
		return "", false
	}
	return v.Ident.Name, true
}

func (t *ScalarType) String() string {
	if t == nil {
		return ""
	}
	if len(t.Tokens) > 0 {
		return tokenText(t.Tokens)
	}
	if t.Width != nil {
		return t.Name + "[" + t.Width.String() + "]"
	}
	return t.Name
}

func (a *ArrayType) String() string {
	if a == nil {
		return ""
	}
	if len(a.Tokens) > 0 {
		return tokenText(a.Tokens)
	}
	var b strings.Builder
	if a.Access != "" {
		b.WriteString(a.Access + " ")
	}
	b.WriteString("array[" + a.Element.String())
	for _, d := range a.Dims {
		b.WriteString("," + d.String())
	}
	b.WriteString("]")
	return b.String()
}

func (q *QubitType) String() string {
	if q.Size != nil {
		return "qubit[" + q.Size.String() + "]"
	}
	return "qubit"
}

func (i *IndexedIdent) String() string {
	if i.Index != nil {
		return i.Name + "[" + i.Index.String() + "]"
	}
	return i.Name
}

func (o *Operand) String() string {
	if o.Hardware != nil {
		return *o.Hardware
	}
	return o.Target.String()
}

// List returns the statements of a braced or single-statement body.
func (s *Scope) List() []*Statement {
	if s == nil {
		return nil
	}
	if s.Single != nil {
		return []*Statement{s.Single}
	}
	return s.Statements
}

func (r *RangeExpression) Start() *Expr { return r.Parts[0] }

func (r *RangeExpression) End() *Expr { return r.Parts[len(r.Parts)-1] }

// Step is nil for the two-part form.
func (r *RangeExpression) Step() *Expr {
	if len(r.Parts) == 3 {
		return r.Parts[1]
	}
	return nil
}

func (r *RangeExpression) String() string {
	parts := make([]string, len(r.Parts))
	for i, p := range r.Parts {
		parts[i] = p.String()
	}
	return "[" + strings.Join(parts, ":") + "]"
}

func (s *SetExpression) String() string {
	values := make([]string, len(s.Values))
	for i, v := range s.Values {
		values[i] = v.String()
	}
	return "{" + strings.Join(values, ",") + "}"
}

// RegisterDecl is the common view over the register declaration forms.
type RegisterDecl struct {
	Pos   lexer.Position
	Name  string
	Size  *Expr
	Qubit bool
}

// RegisterDecl returns the register declared by the statement, if any.
func (s *Statement) RegisterDecl() (RegisterDecl, bool) {
	switch {
	case s.Register != nil:
		r := s.Register
		return RegisterDecl{Pos: s.Pos, Name: r.Name, Size: r.Size, Qubit: r.Keyword == "qubit"}, true
	case s.LegacyRegister != nil:
		r := s.LegacyRegister
		return RegisterDecl{Pos: s.Pos, Name: r.Name, Size: r.Size, Qubit: r.Keyword == "qreg"}, true
	}
	return RegisterDecl{}, false
}

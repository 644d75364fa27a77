package grammar

import (
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	pkgerrors "github.com/pkg/errors"
)

var parser = participle.MustBuild[Program](
	participle.Lexer(QasmLexer),
	participle.Elide("Whitespace", "Comment", "BlockComment"),
	participle.UseLookahead(16),
)

// ParseString parses OpenQASM source. Syntax errors are returned as participle.Error
// so callers can recover the failing position.
func ParseString(filename, source string) (*Program, error) {
	return parser.ParseString(filename, source)
}

func ParseFile(path string) (*Program, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to read file")
	}
	return ParseString(path, string(source))
}

// Tokenize lexes source without parsing it. Whitespace and comments are
// kept; the trailing EOF token is dropped.
func Tokenize(filename, source string) ([]lexer.Token, error) {
	lex, err := QasmLexer.Lex(filename, strings.NewReader(source))
	if err != nil {
		return nil, err
	}
	tokens, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, err
	}
	if n := len(tokens); n > 0 && tokens[n-1].EOF() {
		tokens = tokens[:n-1]
	}
	return tokens, nil
}

// TokenType returns the lexer symbol of a named rule, e.g. "Ident".
func TokenType(name string) lexer.TokenType {
	return symbols[name]
}

package lsp

import (
	"sort"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"qasmc/grammar"
	"qasmc/internal/builtins"
)

// SemanticToken represents a single LSP semantic token entry
// Line and StartChar are 0-based positions
// TokenType is an index into SemanticTokenTypes
// TokenModifiers is a bitmask based on SemanticTokenModifiers
type SemanticToken struct {
	Line           uint32
	StartChar      uint32
	Length         uint32
	TokenType      int
	TokenModifiers int
}

var keywords = map[string]bool{
	"OPENQASM": true, "include": true, "gate": true, "def": true,
	"for": true, "in": true, "if": true, "else": true, "return": true,
	"measure": true, "const": true, "input": true, "qreg": true, "creg": true,
	"readonly": true, "mutable": true, "array": true,
}

var (
	identType       = grammar.TokenType("Ident")
	integerType     = grammar.TokenType("Integer")
	floatType       = grammar.TokenType("Float")
	hardwareType    = grammar.TokenType("HardwareQubit")
	stringType      = grammar.TokenType("String")
	operatorType    = grammar.TokenType("Operator")
	punctuationType = grammar.TokenType("Punctuation")
	commentType     = grammar.TokenType("Comment")
	blockType       = grammar.TokenType("BlockComment")
	whitespaceType  = grammar.TokenType("Whitespace")
)

// collectSemanticTokens classifies source lexically. Names after `gate` or
// `def` are declarations; an identifier starting a statement and followed by
// an operand or parameter list is a call.
func collectSemanticTokens(source string) []SemanticToken {
	all, err := grammar.Tokenize("", source)
	if err != nil {
		return nil
	}

	var significant []lexer.Token
	var tokens []SemanticToken
	for _, tok := range all {
		switch tok.Type {
		case whitespaceType:
		case commentType, blockType:
			if !strings.Contains(tok.Value, "\n") {
				tokens = append(tokens, makeToken(tok, "comment", 0))
			}
		default:
			significant = append(significant, tok)
		}
	}

	for i, tok := range significant {
		var prev, next *lexer.Token
		if i > 0 {
			prev = &significant[i-1]
		}
		if i+1 < len(significant) {
			next = &significant[i+1]
		}
		if kind, modifiers, ok := classify(tok, prev, next); ok {
			tokens = append(tokens, makeToken(tok, kind, modifiers))
		}
	}

	sortTokens(tokens)
	return tokens
}

func classify(tok lexer.Token, prev, next *lexer.Token) (string, int, bool) {
	switch tok.Type {
	case integerType, floatType:
		return "number", 0, true
	case stringType:
		return "string", 0, true
	case hardwareType:
		return "variable", 0, true
	case operatorType:
		return "operator", 0, true
	case identType:
	default:
		return "", 0, false
	}

	switch {
	case keywords[tok.Value]:
		return "keyword", 0, true
	case builtins.IsScalarType(tok.Value) || tok.Value == builtins.QubitType:
		return "type", 0, true
	case isBuiltinConstant(tok.Value):
		return "variable", modifierMask("readonly", "static"), true
	case prev != nil && (prev.Value == "gate" || prev.Value == "def"):
		return "function", modifierMask("declaration", "definition"), true
	case startsStatement(prev) && next != nil &&
		(next.Type == identType || next.Type == hardwareType || next.Value == "("):
		return "function", 0, true
	default:
		return "variable", 0, true
	}
}

func startsStatement(prev *lexer.Token) bool {
	if prev == nil {
		return true
	}
	return prev.Type == punctuationType && (prev.Value == ";" || prev.Value == "{" || prev.Value == "}")
}

func isBuiltinConstant(name string) bool {
	for _, c := range builtins.Constants {
		if c.Name == name {
			return true
		}
	}
	return false
}

func makeToken(tok lexer.Token, kind string, modifiers int) SemanticToken {
	return SemanticToken{
		Line:           uint32(tok.Pos.Line - 1),
		StartChar:      uint32(tok.Pos.Column - 1),
		Length:         uint32(len(tok.Value)),
		TokenType:      tokenTypeIndex(kind),
		TokenModifiers: modifiers,
	}
}

func tokenTypeIndex(kind string) int {
	for i, t := range SemanticTokenTypes {
		if t == kind {
			return i
		}
	}
	return 0
}

func modifierMask(names ...string) int {
	mask := 0
	for _, name := range names {
		for i, m := range SemanticTokenModifiers {
			if m == name {
				mask |= 1 << i
			}
		}
	}
	return mask
}

// encodeSemanticTokens packs tokens into the relative five-integer form of
// the protocol: line delta, start delta (relative only on the same line),
// length, type index, modifier mask.
func encodeSemanticTokens(tokens []SemanticToken) []uint32 {
	data := make([]uint32, 0, len(tokens)*5)
	var line, start uint32
	for _, tok := range tokens {
		deltaStart := tok.StartChar
		if tok.Line == line {
			deltaStart -= start
		}
		data = append(data, tok.Line-line, deltaStart, tok.Length, uint32(tok.TokenType), uint32(tok.TokenModifiers))
		line, start = tok.Line, tok.StartChar
	}
	return data
}

// sortTokens orders tokens by position; comments were collected first.
func sortTokens(tokens []SemanticToken) {
	sort.SliceStable(tokens, func(i, j int) bool {
		if tokens[i].Line != tokens[j].Line {
			return tokens[i].Line < tokens[j].Line
		}
		return tokens[i].StartChar < tokens[j].StartChar
	})
}

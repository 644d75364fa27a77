package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

var QasmLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		// Comments
		{"Comment", `//[^\n]*`, nil},
		{"BlockComment", `/\*([^*]|\*+[^*/])*\*+/`, nil},

		{"String", `"[^"]*"`, nil},

		// Numeric literals (floats before integers)
		{"Float", `[0-9]+\.[0-9]*([eE][-+]?[0-9]+)?|[0-9]+[eE][-+]?[0-9]+|\.[0-9]+`, nil},
		{"Integer", `[0-9]+`, nil},

		// Physical qubits ($0, $1, ...)
		{"HardwareQubit", `\$[0-9]+`, nil},

		// Keywords and Identifiers
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},

		// Operators
		{"Operator", `(->|\*\*|==|!=|<=|>=|&&|\|\||[-+*/%<>=!@~^&|])`, nil},

		// Punctuation (must come after operators)
		{"Punctuation", `[{}\[\]();:,.]`, nil},

		// Whitespace
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})

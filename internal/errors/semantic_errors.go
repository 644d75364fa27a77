package errors

import (
	"fmt"
	"sort"
	"strings"
)

// SemanticErrorBuilder provides a fluent interface for creating errors with suggestions
type SemanticErrorBuilder struct {
	err CompilerError
}

// NewSemanticError creates a new error builder
func NewSemanticError(code, message string, pos Position) *SemanticErrorBuilder {
	return &SemanticErrorBuilder{
		err: CompilerError{
			Level:    Error,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

// NewSemanticWarning creates a new warning builder
func NewSemanticWarning(code, message string, pos Position) *SemanticErrorBuilder {
	return &SemanticErrorBuilder{
		err: CompilerError{
			Level:    Warning,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

// WithLength sets the length of the error span
func (b *SemanticErrorBuilder) WithLength(length int) *SemanticErrorBuilder {
	b.err.Length = length
	return b
}

// WithSuggestion adds a suggestion to the error
func (b *SemanticErrorBuilder) WithSuggestion(message string) *SemanticErrorBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{Message: message})
	return b
}

// WithNote adds a note to the error
func (b *SemanticErrorBuilder) WithNote(note string) *SemanticErrorBuilder {
	b.err.Notes = append(b.err.Notes, note)
	return b
}

// WithHelp adds help text to the error
func (b *SemanticErrorBuilder) WithHelp(help string) *SemanticErrorBuilder {
	b.err.HelpText = help
	return b
}

// Build returns the completed compiler error
func (b *SemanticErrorBuilder) Build() CompilerError {
	return b.err
}

// DuplicateDefinition reports a second declaration of name. kind is the
// entity being declared ("register", "gate", "symbol", ...).
func DuplicateDefinition(kind, name string, pos Position) CompilerError {
	return NewSemanticError(ErrorDuplicateDefinition, fmt.Sprintf("%s '%s' is already defined", kind, name), pos).
		WithLength(len(name)).
		WithNote("gate, subroutine and alias names share one namespace").
		Build()
}

// UnknownSymbol reports a name that does not resolve. candidates are the
// names visible at the failing site; close matches become suggestions.
func UnknownSymbol(kind, name string, pos Position, candidates []string) CompilerError {
	builder := NewSemanticError(ErrorUnknownSymbol, fmt.Sprintf("unknown %s '%s'", kind, name), pos).
		WithLength(len(name))

	similar := findSimilarNames(name, candidates)
	switch len(similar) {
	case 0:
	case 1:
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean '%s'?", similar[0]))
	default:
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean one of: '%s'?", strings.Join(similar, "', '")))
	}
	return builder.Build()
}

// NotVisible reports a global that exists but cannot be seen from a gate or subroutine body.
func NotVisible(name string, pos Position) CompilerError {
	return NewSemanticError(ErrorUnknownSymbol, fmt.Sprintf("'%s' is not visible inside a gate or subroutine body", name), pos).
		WithLength(len(name)).
		WithSuggestion("pass it as a parameter or declare it as a const").
		Build()
}

// WrongKind reports a name that resolved to a symbol of another kind.
func WrongKind(name, found, expected string, pos Position) CompilerError {
	return NewSemanticError(ErrorUnknownSymbol, fmt.Sprintf("'%s' is a %s, expected a %s", name, found, expected), pos).
		WithLength(len(name)).
		Build()
}

func UnresolvedConstant(text string, pos Position) CompilerError {
	return NewSemanticError(ErrorUnresolvedConstant, fmt.Sprintf("cannot resolve '%s' to a constant", text), pos).
		WithLength(len(text)).
		WithHelp("use a decimal literal, a const with a literal initializer or an input parameter").
		Build()
}

func UnsupportedConstruct(what string, pos Position) CompilerError {
	return NewSemanticError(ErrorUnsupportedConstruct, fmt.Sprintf("%s is not supported", what), pos).Build()
}

func InvalidScopeTransition(message string) CompilerError {
	return NewSemanticError(ErrorInvalidScopeTransition, message, Position{}).Build()
}

func TargetUnsupportedFeature(target, feature string) CompilerError {
	return NewSemanticError(ErrorTargetUnsupportedFeature, fmt.Sprintf("%s target does not support %s", target, feature), Position{}).
		Build()
}

// ArityMismatch reports a call with the wrong number of operands, parameters or arguments.
func ArityMismatch(name, what string, expected, found int, pos Position) CompilerError {
	return NewSemanticError(ErrorArityMismatch,
		fmt.Sprintf("'%s' expects %d %s(s), found %d", name, expected, what, found), pos).
		WithLength(len(name)).
		Build()
}

func IndexOutOfRange(register string, index, size int) CompilerError {
	return NewSemanticError(ErrorIndexOutOfRange,
		fmt.Sprintf("index %d is out of range for register '%s' of size %d", index, register, size), Position{}).
		Build()
}

func SyntaxError(message string, pos Position) CompilerError {
	return NewSemanticError(ErrorSyntax, message, pos).Build()
}

func GateLibraryError(message string) CompilerError {
	return NewSemanticError(ErrorGateLibrary, message, Position{}).Build()
}

func UnusedDefinition(kind, name string, pos Position) CompilerError {
	return NewSemanticWarning(WarningUnusedDefinition, fmt.Sprintf("%s '%s' is never used", kind, name), pos).
		WithLength(len(name)).
		Build()
}

func findSimilarNames(target string, candidates []string) []string {
	var similar []string
	for _, candidate := range candidates {
		if candidate != target && len(candidate) > 1 && levenshteinDistance(target, candidate) <= 2 {
			similar = append(similar, candidate)
		}
	}
	sort.Strings(similar)
	return similar
}

// levenshteinDistance is the edit distance between a and b, computed over two rows.
func levenshteinDistance(a, b string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

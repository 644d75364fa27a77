package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorLevel represents the severity of an error
type ErrorLevel string

const (
	Error   ErrorLevel = "error"
	Warning ErrorLevel = "warning"
	Note    ErrorLevel = "note"
	Help    ErrorLevel = "help"
)

// Position is a 1-based source location. A zero Line means the error has no
// source location (printer failures, gate library errors).
type Position struct {
	Filename string
	Line     int
	Column   int
}

func (p Position) IsValid() bool {
	return p.Line > 0
}

func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// CompilerError represents a structured error with suggestions and context
type CompilerError struct {
	Level       ErrorLevel
	Code        string       // Error code like E0001
	Message     string       // Primary error message
	Position    Position     // Location in source
	Length      int          // Length of the problematic region
	Suggestions []Suggestion // Suggested fixes
	Notes       []string     // Additional context notes
	HelpText    string       // Help text for the error
}

func (e CompilerError) Error() string {
	if e.Position.IsValid() {
		return fmt.Sprintf("%s: %s[%s]: %s", e.Position, e.Level, e.Code, e.Message)
	}
	return fmt.Sprintf("%s[%s]: %s", e.Level, e.Code, e.Message)
}

// At returns a copy of the error located at pos, unless it already has a location.
func (e CompilerError) At(pos Position) CompilerError {
	if !e.Position.IsValid() {
		e.Position = pos
	}
	return e
}

// Suggestion represents a suggested fix
type Suggestion struct {
	Message string
}

// AsCompilerError unwraps err to a CompilerError.
func AsCompilerError(err error) (CompilerError, bool) {
	var ce CompilerError
	if stderrors.As(err, &ce) {
		return ce, true
	}
	return CompilerError{}, false
}

// Code returns the error code carried by err, or "" for foreign errors.
func Code(err error) string {
	if ce, ok := AsCompilerError(err); ok {
		return ce.Code
	}
	return ""
}

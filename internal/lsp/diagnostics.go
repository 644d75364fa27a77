package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"qasmc/internal/compiler"
	"qasmc/internal/errors"
	"qasmc/internal/gatelib"
)

const diagnosticSource = "qasmc"

// Diagnose runs the pipeline up to IR construction and reports the first
// error, or the warnings of a program that builds.
func Diagnose(filename, source string, lib *gatelib.Library) []protocol.Diagnostic {
	result, err := compiler.Check(filename, source, lib)
	if err != nil {
		ce, ok := errors.AsCompilerError(err)
		if !ok {
			ce = errors.CompilerError{Level: errors.Error, Message: err.Error()}
		}
		return []protocol.Diagnostic{ConvertCompilerError(ce)}
	}

	diagnostics := []protocol.Diagnostic{}
	for _, w := range result.Warnings {
		diagnostics = append(diagnostics, ConvertCompilerError(w))
	}
	return diagnostics
}

// ConvertCompilerError transforms a compiler error into an LSP diagnostic.
// Errors without a source location are pinned to the start of the document.
func ConvertCompilerError(ce errors.CompilerError) protocol.Diagnostic {
	line, column := 0, 0
	if ce.Position.IsValid() {
		line = ce.Position.Line - 1 // Convert to 0-based indexing
		column = ce.Position.Column - 1
	}
	length := ce.Length
	if length <= 0 {
		length = 1
	}

	diagnostic := protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: uint32(line), Character: uint32(column)},
			End:   protocol.Position{Line: uint32(line), Character: uint32(column + length)},
		},
		Severity: ptrSeverity(severity(ce.Level)),
		Source:   ptrString(diagnosticSource),
		Message:  ce.Message,
	}
	if ce.Code != "" {
		diagnostic.Code = &protocol.IntegerOrString{Value: ce.Code}
	}
	return diagnostic
}

func severity(level errors.ErrorLevel) protocol.DiagnosticSeverity {
	switch level {
	case errors.Warning:
		return protocol.DiagnosticSeverityWarning
	case errors.Note:
		return protocol.DiagnosticSeverityInformation
	case errors.Help:
		return protocol.DiagnosticSeverityHint
	default:
		return protocol.DiagnosticSeverityError
	}
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func ptrString(s string) *string {
	return &s
}

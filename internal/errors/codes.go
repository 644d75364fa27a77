package errors

// Error codes for the qasmc compiler
// These codes are used in error messages and by the language server
// to provide consistent error identification across the toolchain.
//
// Error code ranges:
// E0001-E0099: IR construction and lowering errors
// E0100-E0199: Parser errors
// E0300-E0399: Gate library errors
// W0001-W0099: Warning codes

const (
	// E0001: Register, gate, subroutine, alias or scoped symbol declared twice
	ErrorDuplicateDefinition = "E0001"

	// E0002: Name or id that does not resolve
	ErrorUnknownSymbol = "E0002"

	// E0003: Register size or loop bound that cannot be folded
	ErrorUnresolvedConstant = "E0003"

	// E0004: Valid syntax with no lowering
	ErrorUnsupportedConstruct = "E0004"

	// E0005: Exiting the global scope or an empty scope stack
	ErrorInvalidScopeTransition = "E0005"

	// E0006: IR shape the selected backend cannot express
	ErrorTargetUnsupportedFeature = "E0006"

	// E0007: Operand or argument count differs from the callee's declaration
	ErrorArityMismatch = "E0007"

	// E0008: Literal qubit index outside its register
	ErrorIndexOutOfRange = "E0008"

	// Parser errors (reserved range: E0100-E0199)

	// E0100: Source text does not match the grammar
	ErrorSyntax = "E0100"

	// Gate library errors (reserved range: E0300-E0399)

	// E0300: Gate library file is malformed or unreadable
	ErrorGateLibrary = "E0300"

	// Warning codes

	// W0001: Gate or subroutine declared but never applied
	WarningUnusedDefinition = "W0001"
)

// GetErrorDescription returns a human-readable description of the error code
func GetErrorDescription(code string) string {
	switch code {
	case ErrorDuplicateDefinition:
		return "Name is already defined"
	case ErrorUnknownSymbol:
		return "Name does not resolve to a visible declaration"
	case ErrorUnresolvedConstant:
		return "Expression is neither a decimal literal nor a named constant"
	case ErrorUnsupportedConstruct:
		return "Construct is syntactically valid but cannot be lowered"
	case ErrorInvalidScopeTransition:
		return "Scope stack was popped past the global scope"
	case ErrorTargetUnsupportedFeature:
		return "Target format cannot represent this construct"
	case ErrorArityMismatch:
		return "Number of operands does not match the declaration"
	case ErrorIndexOutOfRange:
		return "Qubit index is outside the register"
	case ErrorSyntax:
		return "Source does not parse"
	case ErrorGateLibrary:
		return "Gate library could not be loaded"
	case WarningUnusedDefinition:
		return "Definition is never used"
	default:
		return "Unknown error code"
	}
}

package builtins

// ScalarType represents the classical scalar types of the source language
type ScalarType string

const (
	Int     ScalarType = "int"
	Uint    ScalarType = "uint"
	Float   ScalarType = "float"
	Angle   ScalarType = "angle"
	Bool    ScalarType = "bool"
	Bit     ScalarType = "bit"
	Complex ScalarType = "complex"
)

// QubitType is the type tag recorded for qubit-typed subroutine parameters.
const QubitType = "qubit"

// ScalarTypes contains all valid scalar type names
var ScalarTypes = map[string]bool{
	string(Int):     true,
	string(Uint):    true,
	string(Float):   true,
	string(Angle):   true,
	string(Bool):    true,
	string(Bit):     true,
	string(Complex): true,
}

// IsScalarType checks if a type name is a scalar type
func IsScalarType(typeName string) bool {
	return ScalarTypes[typeName]
}

// IsIntegerType checks if a type can size a register or bound a loop
func IsIntegerType(typeName string) bool {
	switch ScalarType(typeName) {
	case Int, Uint:
		return true
	default:
		return false
	}
}

// Constant is a builtin named value. Its value is opaque text.
type Constant struct {
	Name  string
	Value string
}

// Constants are visible everywhere, including gate and subroutine bodies.
var Constants = []Constant{
	{Name: "pi", Value: "3.141592653589793"},
	{Name: "tau", Value: "6.283185307179586"},
	{Name: "euler", Value: "2.718281828459045"},
}

// Package api includes constants and interfaces used by both end-users and internal implementations.
package api

// ValueType is the abstract type of a value as seen by the compiler's machine-independent layers. The value of each
// constant is the single character the host uses in type signatures.
//
// Architectures map each ValueType to the PlatformKind that stores it via Architecture.PlatformKind.
type ValueType = byte

const (
	// ValueTypeBoolean is a boolean stored as an integer which is either 0 or 1.
	ValueTypeBoolean ValueType = 'Z'
	// ValueTypeByte is a signed 8-bit integer.
	ValueTypeByte ValueType = 'B'
	// ValueTypeShort is a signed 16-bit integer.
	ValueTypeShort ValueType = 'S'
	// ValueTypeChar is an unsigned 16-bit integer.
	ValueTypeChar ValueType = 'C'
	// ValueTypeInt is a signed 32-bit integer.
	ValueTypeInt ValueType = 'I'
	// ValueTypeLong is a signed 64-bit integer.
	ValueTypeLong ValueType = 'J'
	// ValueTypeFloat is a 32-bit IEEE 754 floating point number.
	ValueTypeFloat ValueType = 'F'
	// ValueTypeDouble is a 64-bit IEEE 754 floating point number.
	ValueTypeDouble ValueType = 'D'
	// ValueTypeObject is a reference to a heap object.
	ValueTypeObject ValueType = 'A'
	// ValueTypeVoid is the result type of a function which returns nothing. No architecture stores it.
	ValueTypeVoid ValueType = 'V'
	// ValueTypeIllegal marks a value which has no valid type. No architecture stores it.
	ValueTypeIllegal ValueType = '-'
)

// ValueTypes lists every ValueType, in declaration order.
var ValueTypes = []ValueType{
	ValueTypeBoolean, ValueTypeByte, ValueTypeShort, ValueTypeChar, ValueTypeInt, ValueTypeLong,
	ValueTypeFloat, ValueTypeDouble, ValueTypeObject, ValueTypeVoid, ValueTypeIllegal,
}

// ValueTypeName returns the type name of the given ValueType as a string.
//
// Note: This returns "unknown", if an undefined ValueType value is passed.
func ValueTypeName(t ValueType) string {
	switch t {
	case ValueTypeBoolean:
		return "boolean"
	case ValueTypeByte:
		return "byte"
	case ValueTypeShort:
		return "short"
	case ValueTypeChar:
		return "char"
	case ValueTypeInt:
		return "int"
	case ValueTypeLong:
		return "long"
	case ValueTypeFloat:
		return "float"
	case ValueTypeDouble:
		return "double"
	case ValueTypeObject:
		return "object"
	case ValueTypeVoid:
		return "void"
	case ValueTypeIllegal:
		return "illegal"
	}
	return "unknown"
}

// ValueTypeIsNumericInteger returns true for the integer types whose values are held in general purpose registers.
func ValueTypeIsNumericInteger(t ValueType) bool {
	switch t {
	case ValueTypeBoolean, ValueTypeByte, ValueTypeShort, ValueTypeChar, ValueTypeInt, ValueTypeLong:
		return true
	}
	return false
}

// ValueTypeIsFloatingPoint returns true for ValueTypeFloat and ValueTypeDouble.
func ValueTypeIsFloatingPoint(t ValueType) bool {
	return t == ValueTypeFloat || t == ValueTypeDouble
}

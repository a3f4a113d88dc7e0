package api

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValueTypeName(t *testing.T) {
	tests := []struct {
		name     string
		input    ValueType
		expected string
	}{
		{name: "boolean", input: ValueTypeBoolean, expected: "boolean"},
		{name: "byte", input: ValueTypeByte, expected: "byte"},
		{name: "short", input: ValueTypeShort, expected: "short"},
		{name: "char", input: ValueTypeChar, expected: "char"},
		{name: "int", input: ValueTypeInt, expected: "int"},
		{name: "long", input: ValueTypeLong, expected: "long"},
		{name: "float", input: ValueTypeFloat, expected: "float"},
		{name: "double", input: ValueTypeDouble, expected: "double"},
		{name: "object", input: ValueTypeObject, expected: "object"},
		{name: "void", input: ValueTypeVoid, expected: "void"},
		{name: "illegal", input: ValueTypeIllegal, expected: "illegal"},
		{name: "unknown", input: 100, expected: "unknown"},
	}

	for _, tt := range tests {
		tc := tt

		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, ValueTypeName(tc.input))
		})
	}
}

func TestValueTypeClasses(t *testing.T) {
	for _, vt := range ValueTypes {
		integer, float := ValueTypeIsNumericInteger(vt), ValueTypeIsFloatingPoint(vt)
		require.False(t, integer && float, ValueTypeName(vt))
		switch vt {
		case ValueTypeObject, ValueTypeVoid, ValueTypeIllegal:
			require.False(t, integer || float, ValueTypeName(vt))
		default:
			require.True(t, integer || float, ValueTypeName(vt))
		}
	}
}

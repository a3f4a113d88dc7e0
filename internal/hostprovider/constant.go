package hostprovider

import (
	"fmt"
	"math"

	"github.com/tetratelabs/cibackend/api"
)

// ConstantReflection validates raw constant values against the range of their type.
type ConstantReflection struct {
	metaAccess api.MetaAccessProvider
}

// NewConstantReflection returns a ConstantReflection accepting the types metaAccess lays out.
func NewConstantReflection(metaAccess api.MetaAccessProvider) *ConstantReflection {
	return &ConstantReflection{metaAccess: metaAccess}
}

// Constant implements api.ConstantReflectionProvider.
func (c *ConstantReflection) Constant(t api.ValueType, bits int64) (api.Constant, error) {
	if _, err := c.metaAccess.ArrayIndexScale(t); err != nil {
		return api.Constant{}, err
	}

	var lo, hi int64
	switch t {
	case api.ValueTypeBoolean:
		lo, hi = 0, 1
	case api.ValueTypeByte:
		lo, hi = math.MinInt8, math.MaxInt8
	case api.ValueTypeShort:
		lo, hi = math.MinInt16, math.MaxInt16
	case api.ValueTypeChar:
		lo, hi = 0, math.MaxUint16
	case api.ValueTypeInt:
		lo, hi = math.MinInt32, math.MaxInt32
	case api.ValueTypeFloat:
		lo, hi = 0, math.MaxUint32
	case api.ValueTypeObject:
		// Only the null reference is a compile-time constant.
		lo, hi = 0, 0
	default:
		lo, hi = math.MinInt64, math.MaxInt64
	}
	if bits < lo || bits > hi {
		return api.Constant{}, fmt.Errorf("%d is not a valid %s constant", bits, api.ValueTypeName(t))
	}
	return api.Constant{Type: t, Bits: bits}, nil
}

// DefaultValue implements api.ConstantReflectionProvider.
func (c *ConstantReflection) DefaultValue(t api.ValueType) (api.Constant, error) {
	return c.Constant(t, 0)
}

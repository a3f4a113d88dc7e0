package hostconfig

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xyproto/env/v2"

	"github.com/tetratelabs/cibackend/api"
)

// Lookup returns the override of the variable name, or false if it is not overridden.
type Lookup func(name string) (string, bool)

// WithEnvironment returns a ConfigSource which reads the environment variable VariableName(prefix, name) in place of
// the entry name of base, when set and not empty. Only flags, constants and properties can be overridden.
//
// The environment is read when WithEnvironment is called: later changes are not seen by the returned source.
func WithEnvironment(base api.ConfigSource, prefix string) api.ConfigSource {
	env.Load()
	vars := map[string]string{}
	for _, name := range env.Keys() {
		if strings.HasPrefix(name, prefix) && env.Has(name) {
			vars[name] = env.Str(name)
		}
	}
	return WithOverrides(base, prefix, func(name string) (string, bool) {
		value, ok := vars[name]
		return value, ok
	})
}

// WithOverrides is like WithEnvironment, but reads variables from lookup.
func WithOverrides(base api.ConfigSource, prefix string, lookup Lookup) api.ConfigSource {
	return &overlay{base: base, prefix: prefix, lookup: lookup}
}

// VariableName returns the variable overriding the entry name: prefix followed by name, upper-cased, with each
// character outside [A-Z0-9] replaced by '_'. For example, "VM_Version::CPU_SSE2" with prefix "CIB_" is
// "CIB_VM_VERSION__CPU_SSE2".
func VariableName(prefix, name string) string {
	return prefix + strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		default:
			return '_'
		}
	}, name)
}

type overlay struct {
	base   api.ConfigSource
	prefix string
	lookup Lookup
}

func (o *overlay) override(name string) (string, string, bool) {
	variable := VariableName(o.prefix, name)
	value, ok := o.lookup(variable)
	return variable, value, ok
}

// BooleanFlag implements api.ConfigSource.
func (o *overlay) BooleanFlag(name string) (bool, error) {
	variable, value, ok := o.override(name)
	if !ok {
		return o.base.BooleanFlag(name)
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", variable, err)
	}
	return b, nil
}

// IntegerFlag implements api.ConfigSource.
func (o *overlay) IntegerFlag(name string) (int32, error) {
	variable, value, ok := o.override(name)
	if !ok {
		return o.base.IntegerFlag(name)
	}
	i, err := strconv.ParseInt(value, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", variable, err)
	}
	return int32(i), nil
}

// LongConstant implements api.ConfigSource.
func (o *overlay) LongConstant(name string) (int64, error) {
	variable, value, ok := o.override(name)
	if !ok {
		return o.base.LongConstant(name)
	}
	i, err := strconv.ParseInt(value, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", variable, err)
	}
	return i, nil
}

// FieldValue implements api.ConfigSource.
func (o *overlay) FieldValue(path, typeName string) (uint64, error) {
	return o.base.FieldValue(path, typeName)
}

// SavedProperty implements api.ConfigSource.
func (o *overlay) SavedProperty(name string) (string, error) {
	if _, value, ok := o.override(name); ok {
		return value, nil
	}
	return o.base.SavedProperty(name)
}

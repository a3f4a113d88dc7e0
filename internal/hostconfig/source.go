// Package hostconfig provides api.ConfigSource implementations: in-memory values, Starlark files, environment overrides
// and the running CPU.
package hostconfig

import (
	"fmt"

	"github.com/tetratelabs/cibackend/api"
)

// Field is the value of a VM field together with its C type.
type Field struct {
	Type  string
	Value uint64
}

// Values is the content of a ConfigSource.
type Values struct {
	Booleans   map[string]bool
	Integers   map[string]int32
	Constants  map[string]int64
	Fields     map[string]Field
	Properties map[string]string
}

// Clone returns a deep copy of v.
func (v Values) Clone() Values {
	return Values{
		Booleans:   cloneMap(v.Booleans),
		Integers:   cloneMap(v.Integers),
		Constants:  cloneMap(v.Constants),
		Fields:     cloneMap(v.Fields),
		Properties: cloneMap(v.Properties),
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	ret := make(map[K]V, len(m))
	for k, v := range m {
		ret[k] = v
	}
	return ret
}

// NewSource returns a ConfigSource reading a copy of v. Later changes to v are not visible.
func NewSource(v Values) api.ConfigSource {
	return &source{v: v.Clone()}
}

type source struct {
	v Values
}

func notFound(kind, name string) error {
	return fmt.Errorf("%w: %s %q", api.ErrConfigNotFound, kind, name)
}

// BooleanFlag implements api.ConfigSource.
func (s *source) BooleanFlag(name string) (bool, error) {
	if v, ok := s.v.Booleans[name]; ok {
		return v, nil
	}
	return false, notFound("boolean flag", name)
}

// IntegerFlag implements api.ConfigSource.
func (s *source) IntegerFlag(name string) (int32, error) {
	if v, ok := s.v.Integers[name]; ok {
		return v, nil
	}
	return 0, notFound("integer flag", name)
}

// LongConstant implements api.ConfigSource.
func (s *source) LongConstant(name string) (int64, error) {
	if v, ok := s.v.Constants[name]; ok {
		return v, nil
	}
	return 0, notFound("constant", name)
}

// FieldValue implements api.ConfigSource.
func (s *source) FieldValue(path, typeName string) (uint64, error) {
	f, ok := s.v.Fields[path]
	if !ok {
		return 0, notFound("field", path)
	}
	if f.Type != typeName {
		return 0, fmt.Errorf("%w: field %q has type %s, not %s", api.ErrConfigNotFound, path, f.Type, typeName)
	}
	return f.Value, nil
}

// SavedProperty implements api.ConfigSource.
func (s *source) SavedProperty(name string) (string, error) {
	if v, ok := s.v.Properties[name]; ok {
		return v, nil
	}
	return "", notFound("property", name)
}

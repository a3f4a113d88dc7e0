package hostconfig

import (
	"fmt"
	"math"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/tetratelabs/cibackend/api"
)

// LoadStarlark executes a Starlark file and returns the ConfigSource it describes. src is passed to
// starlark.ExecFileOptions, so it may be nil to read filename. The file defines any of these globals:
//
//   - flags: name to bool or int, e.g. {"UseSSE": 2, "UseCompressedOops": False}
//   - constants: name to int, e.g. {"VM_Version::CPU_SSE2": bit(7)}
//   - fields: path to (type, int), e.g. {"Abstract_VM_Version::_features": ("uint64_t", bit(7))}
//   - properties: name to string, e.g. {"os.name": "Linux"}
//
// The predeclared function bit(n) returns 1 << n.
func LoadStarlark(filename string, src interface{}) (api.ConfigSource, error) {
	v, err := loadStarlarkValues(filename, src)
	if err != nil {
		return nil, err
	}
	return &source{v: v}, nil
}

func loadStarlarkValues(filename string, src interface{}) (Values, error) {
	thread := starlark.Thread{Name: filename}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{"bit": starlark.NewBuiltin("bit", bit)}

	globals, err := starlark.ExecFileOptions(&opts, &thread, filename, src, pred)
	if err != nil {
		return Values{}, fmt.Errorf("failed to execute %s: %w", filename, err)
	}

	v := Values{
		Booleans:   map[string]bool{},
		Integers:   map[string]int32{},
		Constants:  map[string]int64{},
		Fields:     map[string]Field{},
		Properties: map[string]string{},
	}
	err = forEachItem(globals, "flags", func(name string, value starlark.Value) error {
		switch value := value.(type) {
		case starlark.Bool:
			v.Booleans[name] = bool(value)
		case starlark.Int:
			i, ok := value.Int64()
			if !ok || i < math.MinInt32 || i > math.MaxInt32 {
				return fmt.Errorf("%s out of int32 range", value)
			}
			v.Integers[name] = int32(i)
		default:
			return fmt.Errorf("want bool or int, got %s", value.Type())
		}
		return nil
	})
	if err == nil {
		err = forEachItem(globals, "constants", func(name string, value starlark.Value) (err error) {
			v.Constants[name], err = toInt64(value)
			return
		})
	}
	if err == nil {
		err = forEachItem(globals, "fields", func(name string, value starlark.Value) error {
			t, ok := value.(starlark.Tuple)
			if !ok || t.Len() != 2 {
				return fmt.Errorf("want (type, value), got %s", value)
			}
			typeName, ok := starlark.AsString(t[0])
			if !ok {
				return fmt.Errorf("want string type name, got %s", t[0].Type())
			}
			i, err := toInt64(t[1])
			if err != nil {
				return err
			}
			v.Fields[name] = Field{Type: typeName, Value: uint64(i)}
			return nil
		})
	}
	if err == nil {
		err = forEachItem(globals, "properties", func(name string, value starlark.Value) error {
			s, ok := starlark.AsString(value)
			if !ok {
				return fmt.Errorf("want string, got %s", value.Type())
			}
			v.Properties[name] = s
			return nil
		})
	}
	if err != nil {
		return Values{}, fmt.Errorf("%s: %w", filename, err)
	}
	return v, nil
}

// forEachItem calls fn with each entry of the dict global. A missing global is empty.
func forEachItem(globals starlark.StringDict, global string, fn func(name string, value starlark.Value) error) error {
	g, ok := globals[global]
	if !ok {
		return nil
	}
	dict, ok := g.(*starlark.Dict)
	if !ok {
		return fmt.Errorf("%s: want dict, got %s", global, g.Type())
	}
	for _, item := range dict.Items() {
		name, ok := starlark.AsString(item[0])
		if !ok {
			return fmt.Errorf("%s: want string key, got %s", global, item[0].Type())
		}
		if err := fn(name, item[1]); err != nil {
			return fmt.Errorf("%s[%q]: %w", global, name, err)
		}
	}
	return nil
}

// toInt64 accepts any Starlark int which fits 64 bits, reinterpreting values above math.MaxInt64 as two's complement.
func toInt64(value starlark.Value) (int64, error) {
	i, ok := value.(starlark.Int)
	if !ok {
		return 0, fmt.Errorf("want int, got %s", value.Type())
	}
	if v, ok := i.Int64(); ok {
		return v, nil
	}
	if v, ok := i.Uint64(); ok {
		return int64(v), nil
	}
	return 0, fmt.Errorf("%s out of 64-bit range", i)
}

func bit(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var n int
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &n); err != nil {
		return nil, err
	}
	if n < 0 || n > 63 {
		return nil, fmt.Errorf("%s: bit %d out of range [0, 63]", fn.Name(), n)
	}
	return starlark.MakeUint64(1 << uint(n)), nil
}

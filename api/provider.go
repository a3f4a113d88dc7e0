package api

import "fmt"

// MetaAccessProvider gives the compiler access to the layout of runtime metadata.
type MetaAccessProvider interface {
	// ArrayIndexScale returns the distance in bytes between two consecutive elements of an array of the type.
	ArrayIndexScale(t ValueType) (int, error)
}

// InstalledCode is machine code owned by a CodeCacheProvider. It is immutable.
type InstalledCode struct {
	name string
	id   int
	code []byte
}

// NewInstalledCode returns an InstalledCode holding a copy of code.
func NewInstalledCode(name string, id int, code []byte) *InstalledCode {
	return &InstalledCode{name: name, id: id, code: append([]byte(nil), code...)}
}

// Name returns the name the code was installed under.
func (c *InstalledCode) Name() string {
	return c.name
}

// ID returns the identifier the code cache assigned to this code.
func (c *InstalledCode) ID() int {
	return c.id
}

// Code returns a copy of the machine code.
func (c *InstalledCode) Code() []byte {
	return append([]byte(nil), c.code...)
}

// Size returns the length of the machine code in bytes.
func (c *InstalledCode) Size() int {
	return len(c.code)
}

// String implements fmt.Stringer.
func (c *InstalledCode) String() string {
	return fmt.Sprintf("%s#%d(%d bytes)", c.name, c.id, len(c.code))
}

// CodeCacheProvider owns the machine code produced for a target.
type CodeCacheProvider interface {
	// Target returns the target the code is produced for.
	Target() *TargetDescription

	// RegisterConfig returns the register configuration the code is produced with.
	RegisterConfig() RegisterConfig

	// InstallCode copies code into the cache under a unique name.
	InstallCode(name string, code []byte) (*InstalledCode, error)

	// Lookup returns the code installed under the name.
	Lookup(name string) (*InstalledCode, bool)
}

// Constant is a compile-time constant of a ValueType. Bits holds the value sign extended to 64 bits for integers, and
// the IEEE 754 bits for floating point types.
type Constant struct {
	Type ValueType
	Bits int64
}

// String implements fmt.Stringer.
func (c Constant) String() string {
	return fmt.Sprintf("%s[%d]", ValueTypeName(c.Type), c.Bits)
}

// ConstantReflectionProvider converts raw values into typed compile-time constants.
type ConstantReflectionProvider interface {
	// Constant returns the constant of the type whose representation is bits, or an error if bits is not a valid value
	// of the type.
	Constant(t ValueType, bits int64) (Constant, error)

	// DefaultValue returns the zero value of the type.
	DefaultValue(t ValueType) (Constant, error)
}

// Frame is one activation on a stack.
type Frame struct {
	Function string
	File     string
	Line     int
}

// StackIntrospection walks the activations of the current thread.
type StackIntrospection interface {
	// IterateFrames calls visit with each frame, innermost first, until visit returns false.
	IterateFrames(skip int, visit func(Frame) bool)
}

// ProviderFactory constructs the providers of a Backend. Each method may be slow, and may have side effects on host
// state that later constructors rely on, so they are always called in the order declared here.
//
// Errors are returned to the caller of the backend assembly unchanged.
type ProviderFactory interface {
	NewMetaAccess(target *TargetDescription) (MetaAccessProvider, error)
	NewCodeCache(target *TargetDescription, regConfig RegisterConfig) (CodeCacheProvider, error)
	NewConstantReflection(metaAccess MetaAccessProvider) (ConstantReflectionProvider, error)
	NewStackIntrospection() (StackIntrospection, error)
}

// Backend is the set of providers a compiler needs for one target. It is immutable; each backend exclusively owns
// its providers.
//
// Note: This is an interface for decoupling, not third-party implementations.
type Backend interface {
	fmt.Stringer

	MetaAccess() MetaAccessProvider
	CodeCache() CodeCacheProvider
	ConstantReflection() ConstantReflectionProvider
	StackIntrospection() StackIntrospection

	// Target returns the target description the providers were built for.
	Target() *TargetDescription

	// RegisterConfig returns the register configuration the code cache was built with.
	RegisterConfig() RegisterConfig
}

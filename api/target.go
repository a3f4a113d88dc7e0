package api

import "fmt"

// TargetDescription is an Architecture plus the ABI facts a compiler needs for it. It is immutable.
type TargetDescription struct {
	arch                   Architecture
	isMP                   bool
	stackAlignment         int
	implicitNullCheckLimit int
	inlineObjects          bool
}

// NewTargetDescription returns a TargetDescription. stackAlignment must be a positive power of two.
func NewTargetDescription(arch Architecture, isMP bool, stackAlignment, implicitNullCheckLimit int, inlineObjects bool) *TargetDescription {
	if stackAlignment <= 0 || stackAlignment&(stackAlignment-1) != 0 {
		panic(fmt.Sprintf("BUG: invalid stack alignment %d", stackAlignment))
	}
	return &TargetDescription{
		arch:                   arch,
		isMP:                   isMP,
		stackAlignment:         stackAlignment,
		implicitNullCheckLimit: implicitNullCheckLimit,
		inlineObjects:          inlineObjects,
	}
}

// Arch returns the architecture of the target.
func (t *TargetDescription) Arch() Architecture {
	return t.arch
}

// IsMP returns true if the target is a multiprocessor system.
func (t *TargetDescription) IsMP() bool {
	return t.isMP
}

// WordSize returns the size of a machine word in bytes.
func (t *TargetDescription) WordSize() int {
	return t.arch.WordSize()
}

// WordKind returns the kind of a machine word.
func (t *TargetDescription) WordKind() PlatformKind {
	return t.arch.WordKind()
}

// StackAlignment returns the alignment in bytes required of every stack frame.
func (t *TargetDescription) StackAlignment() int {
	return t.stackAlignment
}

// ImplicitNullCheckLimit returns the offset below which a memory access through a null reference is guaranteed to
// fault, so an explicit null check may be elided.
func (t *TargetDescription) ImplicitNullCheckLimit() int {
	return t.implicitNullCheckLimit
}

// InlineObjects returns true if object references may be embedded in code as constants.
func (t *TargetDescription) InlineObjects() bool {
	return t.inlineObjects
}

// AlignStack rounds size up to the stack alignment.
func (t *TargetDescription) AlignStack(size int) int {
	return (size + t.stackAlignment - 1) &^ (t.stackAlignment - 1)
}

// String implements fmt.Stringer.
func (t *TargetDescription) String() string {
	return fmt.Sprintf("%s(mp=%t, stackAlignment=%d, implicitNullCheckLimit=%d, inlineObjects=%t)",
		t.arch.Name(), t.isMP, t.stackAlignment, t.implicitNullCheckLimit, t.inlineObjects)
}

package i386

import (
	"encoding/binary"
	"fmt"

	"github.com/tetratelabs/cibackend/api"
)

// Architecture is the i386 api.Architecture for one host feature set.
type Architecture struct {
	features FeatureSet
	flags    FlagSet
	// largestXMM is the widest kind an XMM register holds given features.
	largestXMM Kind
}

var _ api.Architecture = (*Architecture)(nil)

// categoryOfClass is indexed by KindClass. KindClassNone has no category.
var categoryOfClass = [numKindClasses]api.RegisterCategory{
	KindClassInteger: CategoryCPU,
	KindClassXMM:     CategoryXMM,
	KindClassMask:    CategoryMask,
}

// New returns an Architecture for the features and flags. This fails with an error wrapping api.ErrMissingBaseline if
// features lacks a BaselineFeatures member.
func New(features FeatureSet, flags FlagSet) (*Architecture, error) {
	if err := checkBaseline(features); err != nil {
		return nil, err
	}
	largestXMM := KindV128Qword
	switch {
	case features.Has(AVX512F):
		largestXMM = KindV512Qword
	case features.Has(AVX):
		largestXMM = KindV256Qword
	}
	return &Architecture{features: features, flags: flags, largestXMM: largestXMM}, nil
}

// Features returns the CPU features of the target.
func (a *Architecture) Features() FeatureSet {
	return a.features
}

// Flags returns the code generation flags of the target.
func (a *Architecture) Flags() FlagSet {
	return a.flags
}

// HasFeature returns true if the target supports f.
func (a *Architecture) HasFeature(f CPUFeature) bool {
	return a.features.Has(f)
}

// HasFlag returns true if f is enabled.
func (a *Architecture) HasFlag(f Flag) bool {
	return a.flags.Has(f)
}

// Name implements api.Architecture.
func (a *Architecture) Name() string {
	return "I386"
}

// ByteOrder implements api.Architecture.
func (a *Architecture) ByteOrder() binary.ByteOrder {
	return linkArch.ByteOrder
}

// WordKind implements api.Architecture.
func (a *Architecture) WordKind() api.PlatformKind {
	return KindDword
}

// WordSize implements api.Architecture.
func (a *Architecture) WordSize() int {
	return linkArch.PtrSize
}

// ReturnAddressSize implements api.Architecture.
func (a *Architecture) ReturnAddressSize() int {
	return linkArch.RegSize
}

// UnalignedMemoryAccess implements api.Architecture.
func (a *Architecture) UnalignedMemoryAccess() bool {
	return true
}

// ImplicitMemoryBarriers implements api.Architecture.
//
// x86 only reorders a store with a later load, so every other ordering comes for free.
func (a *Architecture) ImplicitMemoryBarriers() int {
	return api.MemoryBarrierLoadLoad | api.MemoryBarrierLoadStore | api.MemoryBarrierStoreStore
}

// RequiredBarriers implements api.Architecture.
func (a *Architecture) RequiredBarriers(barriers int) int {
	return barriers &^ a.ImplicitMemoryBarriers()
}

// MachineCodeCallDisplacementOffset implements api.Architecture.
//
// The displacement of a CALL rel32 follows its one byte opcode.
func (a *Architecture) MachineCodeCallDisplacementOffset() int {
	return 1
}

// AllRegisters implements api.Architecture.
func (a *Architecture) AllRegisters() api.RegisterArray {
	return allRegisters
}

// AvailableValueRegisters implements api.Architecture.
func (a *Architecture) AvailableValueRegisters() api.RegisterArray {
	return valueRegistersSSE
}

// CanStoreValue implements api.Architecture.
func (a *Architecture) CanStoreValue(category api.RegisterCategory, kind api.PlatformKind) (bool, error) {
	k, ok := kind.(Kind)
	if !ok || !k.Valid() {
		return false, fmt.Errorf("%w: %v is not an i386 kind", api.ErrUnsupportedMapping, kind)
	}
	class := k.Class()
	if class == KindClassNone {
		return false, fmt.Errorf("%w: no i386 register holds %s", api.ErrUnsupportedMapping, k)
	}
	return categoryOfClass[class] == category, nil
}

// LargestStorableKind implements api.Architecture.
func (a *Architecture) LargestStorableKind(category api.RegisterCategory) (api.PlatformKind, bool) {
	switch category {
	case CategoryCPU:
		return KindDword, true
	case CategoryXMM:
		return a.largestXMM, true
	case CategoryMask:
		return KindMask32, true
	default:
		return nil, false
	}
}

// PlatformKind implements api.Architecture.
func (a *Architecture) PlatformKind(t api.ValueType) (api.PlatformKind, bool) {
	k, ok := PlatformKindFor(t)
	if !ok {
		return nil, false
	}
	return k, true
}

// String implements fmt.Stringer.
func (a *Architecture) String() string {
	return fmt.Sprintf("I386%s", a.features)
}

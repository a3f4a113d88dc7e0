package api

import (
	"encoding/binary"
	"fmt"
)

// PlatformKind is a value representation of a target, e.g. a 32-bit integer or a vector of four floats.
//
// Note: This is an interface for decoupling. Each architecture implements it with a closed enumeration.
type PlatformKind interface {
	fmt.Stringer

	// SizeInBytes returns the number of bytes a value of this kind occupies.
	SizeInBytes() int

	// VectorLength returns the number of elements of a vector kind, or 1 for a scalar kind.
	VectorLength() int

	// TypeChar returns a one character tag of this kind, used when formatting diagnostics.
	TypeChar() byte
}

// Memory barrier kinds, combined as a bit mask.
const (
	// MemoryBarrierLoadLoad orders loads before the barrier with loads after it.
	MemoryBarrierLoadLoad = 1 << iota
	// MemoryBarrierLoadStore orders loads before the barrier with stores after it.
	MemoryBarrierLoadStore
	// MemoryBarrierStoreLoad orders stores before the barrier with loads after it.
	MemoryBarrierStoreLoad
	// MemoryBarrierStoreStore orders stores before the barrier with stores after it.
	MemoryBarrierStoreStore
)

// Architecture describes what a target CPU can do and where values live on it.
//
// Implementations are immutable after construction and safe for concurrent use.
type Architecture interface {
	// Name returns the name of the architecture, e.g. "I386".
	Name() string

	// ByteOrder returns the byte order of memory accesses.
	ByteOrder() binary.ByteOrder

	// WordKind returns the kind of a machine word.
	WordKind() PlatformKind

	// WordSize returns the size of a machine word in bytes.
	WordSize() int

	// ReturnAddressSize returns the number of bytes a call pushes for its return address.
	ReturnAddressSize() int

	// UnalignedMemoryAccess returns true if the CPU supports unaligned memory accesses.
	UnalignedMemoryAccess() bool

	// ImplicitMemoryBarriers returns the barrier kinds the memory model provides without an instruction.
	ImplicitMemoryBarriers() int

	// RequiredBarriers returns the subset of barriers which needs an explicit instruction.
	RequiredBarriers(barriers int) int

	// MachineCodeCallDisplacementOffset returns the offset of the displacement within a call instruction.
	MachineCodeCallDisplacementOffset() int

	// AllRegisters returns every register, including the ones which never hold values, in register number order.
	AllRegisters() RegisterArray

	// AvailableValueRegisters returns the registers eligible to hold program values, in register number order.
	AvailableValueRegisters() RegisterArray

	// CanStoreValue returns true if a register of the category can hold a value of the kind.
	//
	// This returns an error wrapping ErrUnsupportedMapping if the kind does not belong to this architecture or is not
	// held by any register category.
	CanStoreValue(category RegisterCategory, kind PlatformKind) (bool, error)

	// LargestStorableKind returns the widest kind a register of the category can hold, or false if the category holds
	// no values.
	LargestStorableKind(category RegisterCategory) (PlatformKind, bool)

	// PlatformKind returns the kind used to store a value of the type, or false if the architecture does not represent
	// the type.
	PlatformKind(t ValueType) (PlatformKind, bool)
}

package api

import (
	"fmt"
	"strings"
)

// CallingConventionType selects the calling convention of a call site or method entry.
type CallingConventionType byte

const (
	// CallingConventionJavaCall is used by compiled code calling compiled code.
	CallingConventionJavaCall CallingConventionType = iota
	// CallingConventionJavaCallee is CallingConventionJavaCall seen from the called method.
	CallingConventionJavaCallee
	// CallingConventionNativeCall is used by compiled code calling the platform C ABI.
	CallingConventionNativeCall
)

// String implements fmt.Stringer.
func (c CallingConventionType) String() string {
	switch c {
	case CallingConventionJavaCall:
		return "JavaCall"
	case CallingConventionJavaCallee:
		return "JavaCallee"
	case CallingConventionNativeCall:
		return "NativeCall"
	default:
		return fmt.Sprintf("CallingConventionType(%d)", c)
	}
}

// ValueLocationKind is the kind of a ValueLocation.
type ValueLocationKind byte

const (
	// ValueLocationKindReg represents a value passed in a register.
	ValueLocationKindReg ValueLocationKind = iota
	// ValueLocationKindStack represents a value passed in the stack.
	ValueLocationKindStack
)

// String implements fmt.Stringer.
func (k ValueLocationKind) String() string {
	switch k {
	case ValueLocationKindReg:
		return "reg"
	case ValueLocationKindStack:
		return "stack"
	default:
		panic("BUG")
	}
}

// ValueLocation is where an argument or a return value lives.
type ValueLocation struct {
	// Index is the index of the argument, or 0 for the return value.
	Index int
	// Kind is the kind of the location.
	Kind ValueLocationKind
	// Reg is valid if Kind == ValueLocationKindReg.
	Reg Register
	// Offset is valid if Kind == ValueLocationKindStack. It is the offset from the first outgoing argument slot.
	Offset int
	// InCallerFrame is true if the stack slot belongs to the frame of the caller.
	InCallerFrame bool
	// PlatformKind is the kind the value is stored as.
	PlatformKind PlatformKind
}

// String implements fmt.Stringer.
func (l ValueLocation) String() string {
	if l.Kind == ValueLocationKindReg {
		return fmt.Sprintf("%s:%s", l.Reg.Name(), l.PlatformKind)
	}
	return fmt.Sprintf("stack:%d:%s", l.Offset, l.PlatformKind)
}

// CallingConvention is the resolved location of every argument and of the return value of one signature.
type CallingConvention struct {
	// Args holds one location per parameter, in order.
	Args []ValueLocation
	// Return is the location of the result. Valid only if HasReturn.
	Return ValueLocation
	// HasReturn is false for a void result.
	HasReturn bool
	// StackSize is the number of bytes of stack the arguments occupy.
	StackSize int
}

// String implements fmt.Stringer.
func (c *CallingConvention) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	ret := "void"
	if c.HasReturn {
		ret = c.Return.String()
	}
	return fmt.Sprintf("CallingConvention[%s -> %s, stack=%d]", strings.Join(args, ", "), ret, c.StackSize)
}

// RegisterConfig describes how compiled code uses the registers of a target: which ones the register allocator may
// use, which ones a call clobbers and how values cross calls.
type RegisterConfig interface {
	// FrameRegister returns the register holding the frame pointer used to address stack slots.
	FrameRegister() Register

	// ReturnRegister returns the register used to return a value of the type, or false for void.
	ReturnRegister(t ValueType) (Register, bool)

	// AllocatableRegisters returns the registers the register allocator may use, in register number order.
	AllocatableRegisters() RegisterArray

	// CallerSaveRegisters returns the registers a call may clobber, in register number order.
	CallerSaveRegisters() RegisterArray

	// CalleeSaveRegisters returns the allocatable registers a call preserves, in register number order.
	CalleeSaveRegisters() RegisterArray

	// AreAllAllocatableRegistersCallerSaved returns true if a call clobbers every allocatable register.
	AreAllAllocatableRegistersCallerSaved() bool

	// CallingConventionRegisters returns the registers used to pass arguments of the category.
	CallingConventionRegisters(cc CallingConventionType, category RegisterCategory) RegisterArray

	// CallingConvention returns the location of each parameter and of the return value of a signature.
	CallingConvention(cc CallingConventionType, ret ValueType, params []ValueType) (*CallingConvention, error)
}

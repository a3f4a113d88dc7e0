package i386

import (
	"fmt"

	"github.com/tetratelabs/cibackend/api"
)

// RegisterConfig is the i386 api.RegisterConfig.
//
// Compiled code addresses its frame through esp. Java calls pass the first two integer-like arguments in ecx and edx
// and the first two floating point arguments in xmm0 and xmm1. Native calls pass every argument on the stack.
type RegisterConfig struct {
	target            *api.TargetDescription
	useCompressedOops bool
	windowsOS         bool

	allocatable, callerSave, calleeSave api.RegisterArray
}

var _ api.RegisterConfig = (*RegisterConfig)(nil)

var (
	javaIntArgs   = api.NewRegisterArray(ECX, EDX)
	javaFloatArgs = api.NewRegisterArray(XMM0, XMM1)
	noRegisters   = api.NewRegisterArray()
)

// HeapBaseRegister holds the base of the compressed object heap when compressed references are in use.
var HeapBaseRegister = EDI

// NewRegisterConfig returns the RegisterConfig of the target.
//
//   - useCompressedOops reserves HeapBaseRegister.
//   - windowsOS makes xmm6 and xmm7 callee-saved.
func NewRegisterConfig(target *api.TargetDescription, useCompressedOops, windowsOS bool) *RegisterConfig {
	reserved := api.NewRegisterSet(ESP)
	if useCompressedOops {
		reserved = reserved.Add(HeapBaseRegister)
	}
	var calleeSaved api.RegisterSet
	if windowsOS {
		calleeSaved = api.NewRegisterSet(XMM6, XMM7)
	}

	allocatable := target.Arch().AvailableValueRegisters().Filter(func(r api.Register) bool {
		return !reserved.Has(r)
	})
	return &RegisterConfig{
		target:            target,
		useCompressedOops: useCompressedOops,
		windowsOS:         windowsOS,
		allocatable:       allocatable,
		callerSave: allocatable.Filter(func(r api.Register) bool {
			return !calleeSaved.Has(r)
		}),
		calleeSave: allocatable.Filter(calleeSaved.Has),
	}
}

// FrameRegister implements api.RegisterConfig.
func (c *RegisterConfig) FrameRegister() api.Register {
	return ESP
}

// ReturnRegister implements api.RegisterConfig.
//
// A long is returned in the eax:edx pair, so eax is reported for it.
func (c *RegisterConfig) ReturnRegister(t api.ValueType) (api.Register, bool) {
	switch {
	case api.ValueTypeIsNumericInteger(t), t == api.ValueTypeObject:
		return EAX, true
	case api.ValueTypeIsFloatingPoint(t):
		return XMM0, true
	default:
		return api.RegisterNone, false
	}
}

// AllocatableRegisters implements api.RegisterConfig.
func (c *RegisterConfig) AllocatableRegisters() api.RegisterArray {
	return c.allocatable
}

// CallerSaveRegisters implements api.RegisterConfig.
func (c *RegisterConfig) CallerSaveRegisters() api.RegisterArray {
	return c.callerSave
}

// CalleeSaveRegisters implements api.RegisterConfig.
func (c *RegisterConfig) CalleeSaveRegisters() api.RegisterArray {
	return c.calleeSave
}

// AreAllAllocatableRegistersCallerSaved implements api.RegisterConfig.
func (c *RegisterConfig) AreAllAllocatableRegistersCallerSaved() bool {
	return c.calleeSave.Len() == 0
}

// CallingConventionRegisters implements api.RegisterConfig.
func (c *RegisterConfig) CallingConventionRegisters(cc api.CallingConventionType, category api.RegisterCategory) api.RegisterArray {
	if cc == api.CallingConventionNativeCall {
		return noRegisters
	}
	switch category {
	case CategoryCPU:
		return javaIntArgs
	case CategoryXMM:
		return javaFloatArgs
	default:
		return noRegisters
	}
}

// CallingConvention implements api.RegisterConfig.
func (c *RegisterConfig) CallingConvention(cc api.CallingConventionType, ret api.ValueType, params []api.ValueType) (*api.CallingConvention, error) {
	ints := c.CallingConventionRegisters(cc, CategoryCPU)
	floats := c.CallingConventionRegisters(cc, CategoryXMM)
	wordSize := c.target.WordSize()

	ccv := &api.CallingConvention{Args: make([]api.ValueLocation, len(params))}
	var stackOffset, intParamIndex, floatParamIndex int
	for i, t := range params {
		kind, ok := PlatformKindFor(t)
		if !ok {
			return nil, fmt.Errorf("%w: parameter %d of type %s", api.ErrUnsupportedMapping, i, api.ValueTypeName(t))
		}
		arg := &ccv.Args[i]
		arg.Index = i
		arg.PlatformKind = kind

		var regs api.RegisterArray
		var next *int
		switch kind.Class() {
		case KindClassInteger:
			regs, next = ints, &intParamIndex
		case KindClassXMM:
			regs, next = floats, &floatParamIndex
		}
		if next != nil && *next < regs.Len() {
			arg.Kind = api.ValueLocationKindReg
			arg.Reg = regs.Get(*next)
			*next++
			continue
		}

		slotSize := wordSize // Every slot is at least one word.
		if size := kind.SizeInBytes(); size > slotSize {
			slotSize = size
		}
		arg.Kind = api.ValueLocationKindStack
		arg.Offset = stackOffset
		arg.InCallerFrame = cc == api.CallingConventionJavaCallee
		stackOffset += slotSize
	}
	ccv.StackSize = stackOffset

	if ret != api.ValueTypeVoid {
		kind, ok := PlatformKindFor(ret)
		if !ok {
			return nil, fmt.Errorf("%w: return type %s", api.ErrUnsupportedMapping, api.ValueTypeName(ret))
		}
		reg, _ := c.ReturnRegister(ret)
		ccv.HasReturn = true
		ccv.Return = api.ValueLocation{Kind: api.ValueLocationKindReg, Reg: reg, PlatformKind: kind}
	}
	return ccv, nil
}

// String implements fmt.Stringer.
func (c *RegisterConfig) String() string {
	return fmt.Sprintf("Allocatable: %s\nCallerSave: %s\nCalleeSave: %s",
		c.allocatable, c.callerSave, c.calleeSave)
}

package i386

import "github.com/tetratelabs/cibackend/api"

var (
	// CategoryCPU is the category of the general purpose registers.
	CategoryCPU = api.NewRegisterCategory("CPU", true)
	// CategoryXMM is the category of the SSE registers.
	CategoryXMM = api.NewRegisterCategory("XMM", false)
	// CategoryMask is the category of the AVX-512 opmask registers. None of them is addressable in this model.
	CategoryMask = api.NewRegisterCategory("MASK", false)
)

// General purpose registers. The names are those the disassembler prints.
var (
	EAX = api.NewRegister(0, 0, "rax", CategoryCPU)
	ECX = api.NewRegister(1, 1, "rcx", CategoryCPU)
	EDX = api.NewRegister(2, 2, "rdx", CategoryCPU)
	EBX = api.NewRegister(3, 3, "rbx", CategoryCPU)
	ESP = api.NewRegister(4, 4, "rsp", CategoryCPU)
	EBP = api.NewRegister(5, 5, "rbp", CategoryCPU)
	ESI = api.NewRegister(6, 6, "rsi", CategoryCPU)
	EDI = api.NewRegister(7, 7, "rdi", CategoryCPU)
)

// XMM registers.
var (
	XMM0 = api.NewRegister(8, 0, "xmm0", CategoryXMM)
	XMM1 = api.NewRegister(9, 1, "xmm1", CategoryXMM)
	XMM2 = api.NewRegister(10, 2, "xmm2", CategoryXMM)
	XMM3 = api.NewRegister(11, 3, "xmm3", CategoryXMM)
	XMM4 = api.NewRegister(12, 4, "xmm4", CategoryXMM)
	XMM5 = api.NewRegister(13, 5, "xmm5", CategoryXMM)
	XMM6 = api.NewRegister(14, 6, "xmm6", CategoryXMM)
	XMM7 = api.NewRegister(15, 7, "xmm7", CategoryXMM)
)

// RIP is used to construct an instruction-relative address. It never holds a value.
var RIP = api.NewRegister(16, -1, "rip", api.CategorySpecial)

var (
	cpuRegisters = api.NewRegisterArray(EAX, ECX, EDX, EBX, ESP, EBP, ESI, EDI)

	xmmRegistersSSE = api.NewRegisterArray(XMM0, XMM1, XMM2, XMM3, XMM4, XMM5, XMM6, XMM7)

	valueRegistersSSE = api.NewRegisterArray(append(cpuRegisters.Slice(), xmmRegistersSSE.Slice()...)...)

	allRegisters = api.NewRegisterArray(append(valueRegistersSSE.Slice(), RIP)...)
)

// ValueRegisters returns every register which can hold a program value, in register number order.
func ValueRegisters() api.RegisterArray {
	return valueRegistersSSE
}

// AllRegisters returns ValueRegisters followed by RIP.
func AllRegisters() api.RegisterArray {
	return allRegisters
}

// Categories returns the register categories of i386 which hold values.
func Categories() []api.RegisterCategory {
	return []api.RegisterCategory{CategoryCPU, CategoryXMM, CategoryMask}
}

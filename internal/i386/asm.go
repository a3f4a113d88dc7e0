package i386

import (
	"github.com/tetratelabs/cibackend/api"
	"github.com/twitchyliquid64/golang-asm/obj"
	"github.com/twitchyliquid64/golang-asm/obj/x86"
	"github.com/twitchyliquid64/golang-asm/sys"
)

// AssemblerArch is the architecture name golang-asm builders take for i386.
const AssemblerArch = "386"

// linkArch holds the layout facts golang-asm uses when it assembles i386 code.
var linkArch = sys.Arch386

// asmRegisters maps the value registers to golang-asm register numbers.
var asmRegisters = map[api.Register]int16{
	EAX: x86.REG_AX, ECX: x86.REG_CX, EDX: x86.REG_DX, EBX: x86.REG_BX,
	ESP: x86.REG_SP, EBP: x86.REG_BP, ESI: x86.REG_SI, EDI: x86.REG_DI,
	XMM0: x86.REG_X0, XMM1: x86.REG_X1, XMM2: x86.REG_X2, XMM3: x86.REG_X3,
	XMM4: x86.REG_X4, XMM5: x86.REG_X5, XMM6: x86.REG_X6, XMM7: x86.REG_X7,
}

// AssemblerArch returns the architecture name golang-asm builders take.
func (a *Architecture) AssemblerArch() string {
	return AssemblerArch
}

// AssemblerRegister returns the golang-asm register number of r, or false if r has none, e.g. RIP.
func (a *Architecture) AssemblerRegister(r api.Register) (int16, bool) {
	reg, ok := asmRegisters[r]
	return reg, ok
}

// AssemblerRegisterName returns the Go assembler spelling of r, e.g. "AX" for EAX, or "" if r has none.
func AssemblerRegisterName(r api.Register) string {
	reg, ok := asmRegisters[r]
	if !ok {
		return ""
	}
	return obj.Rconv(int(reg))
}

package codecache

import (
	"fmt"

	asm "github.com/twitchyliquid64/golang-asm"
	"github.com/twitchyliquid64/golang-asm/obj"
	"github.com/twitchyliquid64/golang-asm/obj/x86"

	"github.com/tetratelabs/cibackend/api"
)

// Assembler is implemented by an api.Architecture whose code golang-asm can assemble.
type Assembler interface {
	// AssemblerArch returns the architecture name asm.NewBuilder takes, e.g. "386".
	AssemblerArch() string

	// AssemblerRegister returns the golang-asm register number of r.
	AssemblerRegister(r api.Register) (int16, bool)
}

// InstallReturnStub assembles and installs, under name, a function which returns the zero value of t.
//
// This fails with an error wrapping api.ErrUnsupportedMapping if the target architecture does not implement Assembler,
// or t is not returned in a single register.
func (c *Cache) InstallReturnStub(name string, t api.ValueType) (*api.InstalledCode, error) {
	code, err := c.assembleReturnStub(t)
	if err != nil {
		return nil, err
	}
	return c.InstallCode(name, code)
}

func (c *Cache) assembleReturnStub(t api.ValueType) ([]byte, error) {
	arch := c.target.Arch()
	a, ok := arch.(Assembler)
	if !ok {
		return nil, fmt.Errorf("%w: no assembler for %s", api.ErrUnsupportedMapping, arch.Name())
	}

	b, err := asm.NewBuilder(a.AssemblerArch(), 8)
	if err != nil {
		return nil, fmt.Errorf("failed to create a new assembly builder: %w", err)
	}

	if reg, ok := c.regConfig.ReturnRegister(t); ok {
		float := api.ValueTypeIsFloatingPoint(t)
		kind, ok := arch.PlatformKind(t)
		if !ok || !float && kind.SizeInBytes() > arch.WordSize() {
			return nil, fmt.Errorf("%w: %s is not returned in one register", api.ErrUnsupportedMapping, api.ValueTypeName(t))
		}
		asmReg, ok := a.AssemblerRegister(reg)
		if !ok {
			return nil, fmt.Errorf("%w: %s has no assembler register", api.ErrUnsupportedMapping, reg)
		}

		zero := b.NewProg()
		zero.As = x86.AXORL
		if float {
			zero.As = x86.AXORPS
		}
		zero.From.Type = obj.TYPE_REG
		zero.From.Reg = asmReg
		zero.To.Type = obj.TYPE_REG
		zero.To.Reg = asmReg
		b.AddInstruction(zero)
	}

	ret := b.NewProg()
	ret.As = obj.ARET
	b.AddInstruction(ret)
	return b.Assemble(), nil
}

package api

import (
	"fmt"
	"strings"
)

// RegisterCategory is a named partition of the register file, e.g. the general purpose registers.
//
// Categories are comparable values: two categories are the same category iff they compare equal with ==.
type RegisterCategory struct {
	name                string
	mayContainReference bool
}

// NewRegisterCategory returns a RegisterCategory. mayContainReference is true when registers of this category can hold
// object references that compiled code refers to directly.
func NewRegisterCategory(name string, mayContainReference bool) RegisterCategory {
	return RegisterCategory{name: name, mayContainReference: mayContainReference}
}

// CategorySpecial is the category of registers which never hold program values, such as the instruction pointer.
var CategorySpecial = NewRegisterCategory("SPECIAL", false)

// Name returns the name of this category.
func (c RegisterCategory) Name() string {
	return c.name
}

// MayContainReference returns true if registers of this category may hold object references.
func (c RegisterCategory) MayContainReference() bool {
	return c.mayContainReference
}

// String implements fmt.Stringer.
func (c RegisterCategory) String() string {
	return c.name
}

// Register is a physical register of an architecture. Registers are created once when the architecture is defined and
// are compared by value everywhere else.
type Register struct {
	number   int
	encoding int
	name     string
	category RegisterCategory
}

// NewRegister returns a Register.
//
//   - number is unique among the registers of one architecture.
//   - encoding is the value the instruction encoder uses for this register, -1 if it has none.
func NewRegister(number, encoding int, name string, category RegisterCategory) Register {
	return Register{number: number, encoding: encoding, name: name, category: category}
}

// RegisterNone is the invalid register, returned where a register lookup has no answer.
var RegisterNone = Register{number: -1, encoding: -1, name: "noreg", category: CategorySpecial}

// Number returns the identifier of this register, unique within its architecture.
func (r Register) Number() int {
	return r.number
}

// Encoding returns the value used to encode this register in machine instructions.
func (r Register) Encoding() int {
	return r.encoding
}

// Name returns the display name of this register, e.g. "rax".
func (r Register) Name() string {
	return r.name
}

// Category returns the category this register belongs to.
func (r Register) Category() RegisterCategory {
	return r.category
}

// Valid returns false for RegisterNone.
func (r Register) Valid() bool {
	return r.number >= 0
}

// String implements fmt.Stringer.
func (r Register) String() string {
	return r.name
}

// RegisterArray is an immutable, ordered list of registers.
type RegisterArray struct {
	regs []Register
}

// NewRegisterArray returns a RegisterArray holding a copy of regs.
func NewRegisterArray(regs ...Register) RegisterArray {
	return RegisterArray{regs: append([]Register(nil), regs...)}
}

// Len returns the number of registers.
func (a RegisterArray) Len() int {
	return len(a.regs)
}

// Get returns the i-th register. This panics if i is out of range.
func (a RegisterArray) Get(i int) Register {
	return a.regs[i]
}

// Contains returns true if r is in this array.
func (a RegisterArray) Contains(r Register) bool {
	for _, reg := range a.regs {
		if reg == r {
			return true
		}
	}
	return false
}

// Slice returns a copy of the registers in order.
func (a RegisterArray) Slice() []Register {
	return append([]Register(nil), a.regs...)
}

// Filter returns the registers for which keep returns true, in order.
func (a RegisterArray) Filter(keep func(Register) bool) RegisterArray {
	var ret []Register
	for _, r := range a.regs {
		if keep(r) {
			ret = append(ret, r)
		}
	}
	return RegisterArray{regs: ret}
}

// Range calls f for each register in order, until f returns false.
func (a RegisterArray) Range(f func(Register) bool) {
	for _, r := range a.regs {
		if !f(r) {
			return
		}
	}
}

// String implements fmt.Stringer.
func (a RegisterArray) String() string {
	names := make([]string, len(a.regs))
	for i, r := range a.regs {
		names[i] = r.name
	}
	return fmt.Sprintf("[%s]", strings.Join(names, ", "))
}

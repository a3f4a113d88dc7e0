package api

import "strings"

// RegisterSet is a set of registers keyed by Register.Number. Registers numbered 64 or above are not representable
// and are ignored.
type RegisterSet uint64

// NewRegisterSet returns a new RegisterSet with the given registers.
func NewRegisterSet(regs ...Register) RegisterSet {
	var ret RegisterSet
	for _, r := range regs {
		ret = ret.Add(r)
	}
	return ret
}

// Add returns a copy of this set which also contains r.
func (rs RegisterSet) Add(r Register) RegisterSet {
	if r.number < 0 || r.number >= 64 {
		return rs
	}
	return rs | 1<<uint(r.number)
}

// Has returns true if r is in this set.
func (rs RegisterSet) Has(r Register) bool {
	if r.number < 0 || r.number >= 64 {
		return false
	}
	return rs&(1<<uint(r.number)) != 0
}

// Len returns the number of registers in this set.
func (rs RegisterSet) Len() (n int) {
	for ; rs != 0; rs &= rs - 1 {
		n++
	}
	return
}

// Format returns the names of the registers of this set which appear in regs, comma separated.
func (rs RegisterSet) Format(regs RegisterArray) string {
	var ret []string
	for _, r := range regs.regs {
		if rs.Has(r) {
			ret = append(ret, r.name)
		}
	}
	return strings.Join(ret, ", ")
}

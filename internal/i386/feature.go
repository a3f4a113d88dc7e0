package i386

import (
	"fmt"
	"strings"
)

// CPUFeature is a CPU capability the host reports, mirroring the bits of the cpuid instruction.
type CPUFeature byte

const (
	CX8 CPUFeature = iota
	CMOV
	FXSR
	HT
	MMX
	AMD_3DNOW_PREFETCH
	SSE
	SSE2
	SSE3
	SSSE3
	SSE4A
	SSE4_1
	SSE4_2
	POPCNT
	LZCNT
	TSC
	TSCINV
	AVX
	AVX2
	AES
	ERMS
	CLMUL
	BMI1
	BMI2
	RTM
	ADX
	AVX512F
	AVX512DQ
	AVX512PF
	AVX512ER
	AVX512CD
	AVX512BW
	AVX512VL
	SHA
	FMA

	// NumCPUFeatures is the number of CPUFeature values.
	NumCPUFeatures
)

// BaselineFeatures is the set of features every i386 target modeled here has.
const BaselineFeatures = FeatureSet(1 << SSE2)

var cpuFeatureNames = [NumCPUFeatures]string{
	CX8:                "CX8",
	CMOV:               "CMOV",
	FXSR:               "FXSR",
	HT:                 "HT",
	MMX:                "MMX",
	AMD_3DNOW_PREFETCH: "AMD_3DNOW_PREFETCH",
	SSE:                "SSE",
	SSE2:               "SSE2",
	SSE3:               "SSE3",
	SSSE3:              "SSSE3",
	SSE4A:              "SSE4A",
	SSE4_1:             "SSE4_1",
	SSE4_2:             "SSE4_2",
	POPCNT:             "POPCNT",
	LZCNT:              "LZCNT",
	TSC:                "TSC",
	TSCINV:             "TSCINV",
	AVX:                "AVX",
	AVX2:               "AVX2",
	AES:                "AES",
	ERMS:               "ERMS",
	CLMUL:              "CLMUL",
	BMI1:               "BMI1",
	BMI2:               "BMI2",
	RTM:                "RTM",
	ADX:                "ADX",
	AVX512F:            "AVX512F",
	AVX512DQ:           "AVX512DQ",
	AVX512PF:           "AVX512PF",
	AVX512ER:           "AVX512ER",
	AVX512CD:           "AVX512CD",
	AVX512BW:           "AVX512BW",
	AVX512VL:           "AVX512VL",
	SHA:                "SHA",
	FMA:                "FMA",
}

// String implements fmt.Stringer.
func (f CPUFeature) String() string {
	if f < NumCPUFeatures {
		return cpuFeatureNames[f]
	}
	return fmt.Sprintf("CPUFeature(%d)", byte(f))
}

// FeatureSet is a set of CPUFeature values, packed one bit per feature.
type FeatureSet uint64

// NewFeatureSet returns a FeatureSet holding the given features.
func NewFeatureSet(features ...CPUFeature) FeatureSet {
	var ret FeatureSet
	for _, f := range features {
		ret = ret.With(f)
	}
	return ret
}

// With returns a copy of this set which also contains f.
func (s FeatureSet) With(f CPUFeature) FeatureSet {
	if f >= NumCPUFeatures {
		panic(fmt.Sprintf("BUG: invalid CPU feature %d", f))
	}
	return s | 1<<f
}

// Has returns true if f is in this set.
func (s FeatureSet) Has(f CPUFeature) bool {
	return f < NumCPUFeatures && s&(1<<f) != 0
}

// ContainsAll returns true if every feature of other is in this set.
func (s FeatureSet) ContainsAll(other FeatureSet) bool {
	return s&other == other
}

// Len returns the number of features in this set.
func (s FeatureSet) Len() (n int) {
	for ; s != 0; s &= s - 1 {
		n++
	}
	return
}

// List returns the features of this set in declaration order.
func (s FeatureSet) List() []CPUFeature {
	var ret []CPUFeature
	for f := CPUFeature(0); f < NumCPUFeatures; f++ {
		if s.Has(f) {
			ret = append(ret, f)
		}
	}
	return ret
}

// String implements fmt.Stringer.
func (s FeatureSet) String() string {
	list := s.List()
	names := make([]string, len(list))
	for i, f := range list {
		names[i] = f.String()
	}
	return "[" + strings.Join(names, ", ") + "]"
}

// Flag controls a code emission choice.
type Flag byte

const (
	// UseCountLeadingZerosInstruction emits LZCNT instead of a BSR based sequence.
	UseCountLeadingZerosInstruction Flag = iota
	// UseCountTrailingZerosInstruction emits TZCNT instead of a BSF based sequence.
	UseCountTrailingZerosInstruction

	// NumFlags is the number of Flag values.
	NumFlags
)

// String implements fmt.Stringer.
func (f Flag) String() string {
	switch f {
	case UseCountLeadingZerosInstruction:
		return "UseCountLeadingZerosInstruction"
	case UseCountTrailingZerosInstruction:
		return "UseCountTrailingZerosInstruction"
	default:
		return fmt.Sprintf("Flag(%d)", byte(f))
	}
}

// FlagSet is a set of Flag values, packed one bit per flag.
type FlagSet uint8

// NewFlagSet returns a FlagSet holding the given flags.
func NewFlagSet(flags ...Flag) FlagSet {
	var ret FlagSet
	for _, f := range flags {
		if f >= NumFlags {
			panic(fmt.Sprintf("BUG: invalid flag %d", f))
		}
		ret |= 1 << f
	}
	return ret
}

// Has returns true if f is in this set.
func (s FlagSet) Has(f Flag) bool {
	return f < NumFlags && s&(1<<f) != 0
}

// List returns the flags of this set in declaration order.
func (s FlagSet) List() []Flag {
	var ret []Flag
	for f := Flag(0); f < NumFlags; f++ {
		if s.Has(f) {
			ret = append(ret, f)
		}
	}
	return ret
}

// String implements fmt.Stringer.
func (s FlagSet) String() string {
	list := s.List()
	names := make([]string, len(list))
	for i, f := range list {
		names[i] = f.String()
	}
	return "[" + strings.Join(names, ", ") + "]"
}

package i386

import (
	"fmt"

	"github.com/tetratelabs/cibackend/api"
)

// Kind is a value representation on i386. It implements api.PlatformKind.
type Kind byte

const (
	KindIllegal Kind = iota

	// scalar
	KindByte
	KindWord
	KindDword
	KindQword
	KindSingle
	KindDouble

	// SSE2
	KindV32Byte
	KindV32Word
	KindV64Byte
	KindV64Word
	KindV64Dword
	KindV128Byte
	KindV128Word
	KindV128Dword
	KindV128Qword
	KindV128Single
	KindV128Double

	// AVX
	KindV256Byte
	KindV256Word
	KindV256Dword
	KindV256Qword
	KindV256Single
	KindV256Double

	// AVX512
	KindV512Byte
	KindV512Word
	KindV512Dword
	KindV512Qword
	KindV512Single
	KindV512Double

	KindMask8
	KindMask16
	KindMask32

	kindEnd
)

// KindClass groups kinds by the register category which holds them.
type KindClass byte

const (
	// KindClassNone is the class of kinds no register category holds.
	KindClassNone KindClass = iota
	// KindClassInteger is the class of integers held in general purpose registers.
	KindClassInteger
	// KindClassXMM is the class of floating point scalars and vectors held in XMM registers.
	KindClassXMM
	// KindClassMask is the class of predicate masks.
	KindClassMask

	numKindClasses
)

// String implements fmt.Stringer.
func (c KindClass) String() string {
	switch c {
	case KindClassNone:
		return "none"
	case KindClassInteger:
		return "integer"
	case KindClassXMM:
		return "xmm"
	case KindClassMask:
		return "mask"
	default:
		return fmt.Sprintf("KindClass(%d)", c)
	}
}

type kindInfo struct {
	name   string
	size   int
	scalar Kind
	class  KindClass
	tag    byte
}

// kinds is indexed by Kind. A zero scalar means the kind is its own scalar.
var kinds = [kindEnd]kindInfo{
	KindIllegal: {name: "ILLEGAL", tag: '-'},

	KindByte:   {name: "BYTE", size: 1, class: KindClassInteger, tag: 'b'},
	KindWord:   {name: "WORD", size: 2, class: KindClassInteger, tag: 'w'},
	KindDword:  {name: "DWORD", size: 4, class: KindClassInteger, tag: 'd'},
	KindQword:  {name: "QWORD", size: 8, class: KindClassNone, tag: 'q'},
	KindSingle: {name: "SINGLE", size: 4, class: KindClassXMM, tag: 'S'},
	KindDouble: {name: "DOUBLE", size: 8, class: KindClassXMM, tag: 'D'},

	KindV32Byte:     {name: "V32_BYTE", size: 4, scalar: KindByte, class: KindClassXMM, tag: 'v'},
	KindV32Word:     {name: "V32_WORD", size: 4, scalar: KindWord, class: KindClassXMM, tag: 'v'},
	KindV64Byte:     {name: "V64_BYTE", size: 8, scalar: KindByte, class: KindClassXMM, tag: 'v'},
	KindV64Word:     {name: "V64_WORD", size: 8, scalar: KindWord, class: KindClassXMM, tag: 'v'},
	KindV64Dword:    {name: "V64_DWORD", size: 8, scalar: KindDword, class: KindClassXMM, tag: 'v'},
	KindV128Byte:    {name: "V128_BYTE", size: 16, scalar: KindByte, class: KindClassXMM, tag: 'x'},
	KindV128Word:    {name: "V128_WORD", size: 16, scalar: KindWord, class: KindClassXMM, tag: 'x'},
	KindV128Dword:   {name: "V128_DWORD", size: 16, scalar: KindDword, class: KindClassXMM, tag: 'x'},
	KindV128Qword:   {name: "V128_QWORD", size: 16, scalar: KindQword, class: KindClassXMM, tag: 'x'},
	KindV128Single:  {name: "V128_SINGLE", size: 16, scalar: KindSingle, class: KindClassXMM, tag: 'x'},
	KindV128Double:  {name: "V128_DOUBLE", size: 16, scalar: KindDouble, class: KindClassXMM, tag: 'x'},
	KindV256Byte:    {name: "V256_BYTE", size: 32, scalar: KindByte, class: KindClassXMM, tag: 'y'},
	KindV256Word:    {name: "V256_WORD", size: 32, scalar: KindWord, class: KindClassXMM, tag: 'y'},
	KindV256Dword:   {name: "V256_DWORD", size: 32, scalar: KindDword, class: KindClassXMM, tag: 'y'},
	KindV256Qword:   {name: "V256_QWORD", size: 32, scalar: KindQword, class: KindClassXMM, tag: 'y'},
	KindV256Single:  {name: "V256_SINGLE", size: 32, scalar: KindSingle, class: KindClassXMM, tag: 'y'},
	KindV256Double:  {name: "V256_DOUBLE", size: 32, scalar: KindDouble, class: KindClassXMM, tag: 'y'},
	KindV512Byte:    {name: "V512_BYTE", size: 64, scalar: KindByte, class: KindClassXMM, tag: 'z'},
	KindV512Word:    {name: "V512_WORD", size: 64, scalar: KindWord, class: KindClassXMM, tag: 'z'},
	KindV512Dword:   {name: "V512_DWORD", size: 64, scalar: KindDword, class: KindClassXMM, tag: 'z'},
	KindV512Qword:   {name: "V512_QWORD", size: 64, scalar: KindQword, class: KindClassXMM, tag: 'z'},
	KindV512Single:  {name: "V512_SINGLE", size: 64, scalar: KindSingle, class: KindClassXMM, tag: 'z'},
	KindV512Double:  {name: "V512_DOUBLE", size: 64, scalar: KindDouble, class: KindClassXMM, tag: 'z'},

	KindMask8:  {name: "MASK8", size: 1, class: KindClassMask, tag: 'k'},
	KindMask16: {name: "MASK16", size: 2, class: KindClassMask, tag: 'k'},
	KindMask32: {name: "MASK32", size: 4, class: KindClassMask, tag: 'k'},
}

func init() {
	for k := KindByte; k < kindEnd; k++ {
		if s := k.Scalar(); kinds[k].size%kinds[s].size != 0 {
			panic(fmt.Sprintf("BUG: size of %s is not a multiple of %s", k, s))
		}
	}
}

// Kinds returns every valid Kind in declaration order.
func Kinds() []Kind {
	ret := make([]Kind, 0, kindEnd-KindByte)
	for k := KindByte; k < kindEnd; k++ {
		ret = append(ret, k)
	}
	return ret
}

// Valid returns false for KindIllegal and values outside the catalog.
func (k Kind) Valid() bool {
	return k > KindIllegal && k < kindEnd
}

func (k Kind) info() *kindInfo {
	if k >= kindEnd {
		return &kinds[KindIllegal]
	}
	return &kinds[k]
}

// SizeInBytes implements api.PlatformKind.
func (k Kind) SizeInBytes() int {
	return k.info().size
}

// Scalar returns the element kind of a vector kind, or k itself for a scalar kind.
func (k Kind) Scalar() Kind {
	if s := k.info().scalar; s != KindIllegal {
		return s
	}
	return k
}

// VectorLength implements api.PlatformKind.
func (k Kind) VectorLength() int {
	s := k.Scalar()
	if s == k {
		return 1
	}
	return k.SizeInBytes() / s.SizeInBytes()
}

// TypeChar implements api.PlatformKind.
func (k Kind) TypeChar() byte {
	return k.info().tag
}

// Class returns the class of this kind.
func (k Kind) Class() KindClass {
	return k.info().class
}

// IsInteger returns true if this kind is held in general purpose registers.
func (k Kind) IsInteger() bool {
	return k.Class() == KindClassInteger
}

// IsXMM returns true if this kind is held in XMM registers.
func (k Kind) IsXMM() bool {
	return k.Class() == KindClassXMM
}

// IsMask returns true if this kind is held in mask registers.
func (k Kind) IsMask() bool {
	return k.Class() == KindClassMask
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if k >= kindEnd {
		return fmt.Sprintf("Kind(%d)", byte(k))
	}
	return kinds[k].name
}

var _ api.PlatformKind = KindByte

// valueTypeKinds maps api.ValueType to the Kind storing it. KindIllegal means unsupported.
var valueTypeKinds = map[api.ValueType]Kind{
	api.ValueTypeBoolean: KindByte,
	api.ValueTypeByte:    KindByte,
	api.ValueTypeShort:   KindWord,
	api.ValueTypeChar:    KindWord,
	api.ValueTypeInt:     KindDword,
	api.ValueTypeObject:  KindDword,
	api.ValueTypeLong:    KindQword,
	api.ValueTypeFloat:   KindSingle,
	api.ValueTypeDouble:  KindDouble,
}

// PlatformKindFor returns the Kind used to store a value of the type, or false for types i386 does not represent
// natively, such as api.ValueTypeVoid.
func PlatformKindFor(t api.ValueType) (Kind, bool) {
	k, ok := valueTypeKinds[t]
	return k, ok
}

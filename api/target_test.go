package api

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

type testKind int

func (k testKind) String() string    { return "k" }
func (k testKind) SizeInBytes() int  { return int(k) }
func (k testKind) VectorLength() int { return 1 }
func (k testKind) TypeChar() byte    { return 'k' }

// testArch is the minimum Architecture for target tests.
type testArch struct{ Architecture }

func (testArch) Name() string                { return "TEST" }
func (testArch) ByteOrder() binary.ByteOrder { return binary.LittleEndian }
func (testArch) WordKind() PlatformKind      { return testKind(8) }
func (testArch) WordSize() int               { return 8 }

func TestTargetDescription(t *testing.T) {
	target := NewTargetDescription(testArch{}, true, 16, 4096, true)
	require.Equal(t, testArch{}, target.Arch())
	require.True(t, target.IsMP())
	require.Equal(t, 8, target.WordSize())
	require.Equal(t, PlatformKind(testKind(8)), target.WordKind())
	require.Equal(t, 16, target.StackAlignment())
	require.Equal(t, 4096, target.ImplicitNullCheckLimit())
	require.True(t, target.InlineObjects())
	require.Equal(t, "TEST(mp=true, stackAlignment=16, implicitNullCheckLimit=4096, inlineObjects=true)", target.String())

	for _, tc := range []struct{ size, aligned int }{{0, 0}, {1, 16}, {16, 16}, {17, 32}} {
		require.Equal(t, tc.aligned, target.AlignStack(tc.size))
	}
}

func TestNewTargetDescription_InvalidAlignment(t *testing.T) {
	for _, alignment := range []int{0, -16, 12} {
		require.Panics(t, func() { NewTargetDescription(testArch{}, true, alignment, 4096, true) })
	}
}

func TestInstalledCode(t *testing.T) {
	code := []byte{0xc3}
	c := NewInstalledCode("ret", 3, code)
	code[0] = 0

	require.Equal(t, "ret", c.Name())
	require.Equal(t, 3, c.ID())
	require.Equal(t, []byte{0xc3}, c.Code())
	require.Equal(t, 1, c.Size())
	require.Equal(t, "ret#3(1 bytes)", c.String())

	c.Code()[0] = 0
	require.Equal(t, []byte{0xc3}, c.Code())
}

func TestCallingConvention_String(t *testing.T) {
	cc := &CallingConvention{
		Args: []ValueLocation{
			{Kind: ValueLocationKindReg, Reg: testR1, PlatformKind: testKind(4)},
			{Index: 1, Kind: ValueLocationKindStack, Offset: 8, PlatformKind: testKind(4)},
		},
		StackSize: 4,
	}
	require.Equal(t, "CallingConvention[r1:k, stack:8:k -> void, stack=4]", cc.String())
	require.Equal(t, "JavaCallee", CallingConventionJavaCallee.String())
	require.Equal(t, "CallingConventionType(7)", CallingConventionType(7).String())
	require.Equal(t, "reg", ValueLocationKindReg.String())
	require.Equal(t, "stack", ValueLocationKindStack.String())
}

func TestConstant_String(t *testing.T) {
	require.Equal(t, "int[42]", Constant{Type: ValueTypeInt, Bits: 42}.String())
}

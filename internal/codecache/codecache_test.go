package codecache

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tetratelabs/cibackend/api"
	"github.com/tetratelabs/cibackend/internal/i386"
)

func newTestCache(t *testing.T) *Cache {
	arch, err := i386.New(i386.BaselineFeatures, 0)
	require.NoError(t, err)
	target := api.NewTargetDescription(arch, true, 16, 4096, true)
	return New(target, i386.NewRegisterConfig(target, false, false))
}

func TestCache_InstallCode(t *testing.T) {
	c := newTestCache(t)
	code := []byte{0xc3}

	installed, err := c.InstallCode("ret", code)
	require.NoError(t, err)
	require.Equal(t, "ret", installed.Name())
	require.Equal(t, 1, installed.ID())
	require.Equal(t, code, installed.Code())

	// The cache keeps its own copy.
	code[0] = 0x90
	require.Equal(t, []byte{0xc3}, installed.Code())

	got, ok := c.Lookup("ret")
	require.True(t, ok)
	require.Equal(t, installed, got)

	_, ok = c.Lookup("nope")
	require.False(t, ok)

	_, err = c.InstallCode("ret", []byte{0xc3})
	require.EqualError(t, err, `code "ret" is already installed`)

	_, err = c.InstallCode("empty", nil)
	require.EqualError(t, err, `code "empty" is empty`)

	require.Equal(t, 1, c.Len())
}

func TestCache_InstallCode_Concurrent(t *testing.T) {
	c := newTestCache(t)

	const goroutines = 16
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		i := i
		go func() {
			defer wg.Done()
			_, err := c.InstallCode(fmt.Sprintf("code%d", i), []byte{0xc3})
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Equal(t, goroutines, c.Len())
	ids := map[int]bool{}
	for i := 0; i < goroutines; i++ {
		installed, ok := c.Lookup(fmt.Sprintf("code%d", i))
		require.True(t, ok)
		ids[installed.ID()] = true
	}
	require.Equal(t, goroutines, len(ids))
}

func TestCache_InstallReturnStub(t *testing.T) {
	tests := []struct {
		t    api.ValueType
		code []byte
	}{
		{t: api.ValueTypeVoid, code: []byte{0xc3}},                     // RET
		{t: api.ValueTypeInt, code: []byte{0x31, 0xc0, 0xc3}},          // XORL AX, AX; RET
		{t: api.ValueTypeObject, code: []byte{0x31, 0xc0, 0xc3}},       // XORL AX, AX; RET
		{t: api.ValueTypeDouble, code: []byte{0x0f, 0x57, 0xc0, 0xc3}}, // XORPS X0, X0; RET
		{t: api.ValueTypeFloat, code: []byte{0x0f, 0x57, 0xc0, 0xc3}},  // XORPS X0, X0; RET
	}

	c := newTestCache(t)
	for _, tc := range tests {
		tc := tc
		t.Run(api.ValueTypeName(tc.t), func(t *testing.T) {
			installed, err := c.InstallReturnStub(api.ValueTypeName(tc.t), tc.t)
			require.NoError(t, err)
			require.Equal(t, tc.code, installed.Code())
		})
	}
}

func TestCache_InstallReturnStub_Unsupported(t *testing.T) {
	c := newTestCache(t)
	_, err := c.InstallReturnStub("long", api.ValueTypeLong)
	require.True(t, errors.Is(err, api.ErrUnsupportedMapping))

	_, ok := c.Lookup("long")
	require.False(t, ok)
}

// plainArch is an api.Architecture without an assembler.
type plainArch struct{ api.Architecture }

func TestCache_InstallReturnStub_NoAssembler(t *testing.T) {
	c := newTestCache(t)
	c.target = api.NewTargetDescription(plainArch{c.target.Arch()}, true, 16, 4096, true)

	_, err := c.InstallReturnStub("int", api.ValueTypeInt)
	require.True(t, errors.Is(err, api.ErrUnsupportedMapping))
	require.Contains(t, err.Error(), "no assembler for I386")
}

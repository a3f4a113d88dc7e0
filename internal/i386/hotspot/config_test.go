package hotspot_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tetratelabs/cibackend/api"
	"github.com/tetratelabs/cibackend/internal/hostconfig"
	"github.com/tetratelabs/cibackend/internal/i386"
	"github.com/tetratelabs/cibackend/internal/i386/hotspot"
)

func TestFeatureConstant(t *testing.T) {
	require.Equal(t, "VM_Version::CPU_SSE2", hotspot.FeatureConstant(i386.SSE2))
	require.Equal(t, "VM_Version::CPU_SSE4_1", hotspot.FeatureConstant(i386.SSE4_1))
	require.Equal(t, "VM_Version::CPU_3DNOW_PREFETCH", hotspot.FeatureConstant(i386.AMD_3DNOW_PREFETCH))
}

func TestReadVMConfig(t *testing.T) {
	v := hostconfig.HotSpotValues(i386.NewFeatureSet(i386.SSE, i386.SSE2, i386.BMI1), "linux")
	v.Booleans[hotspot.FlagUseCompressedOops] = true

	c, err := hotspot.ReadVMConfig(hostconfig.NewSource(v))
	require.NoError(t, err)
	require.False(t, c.WindowsOS)
	require.True(t, c.UseCompressedOops)
	require.Equal(t, int32(2), c.UseSSE)
	require.Equal(t, [i386.NumFlags]bool{false, true}, c.FlagValues)
	require.Equal(t, uint64(1<<6|1<<7|1<<22), c.Features)
	require.Equal(t, int(i386.NumCPUFeatures), len(c.FeatureBits))

	target, err := c.NewTarget()
	require.NoError(t, err)
	require.True(t, target.IsMP())
	require.Equal(t, 16, target.StackAlignment())
	require.Equal(t, 4096, target.ImplicitNullCheckLimit())
	require.True(t, target.InlineObjects())
	require.Equal(t, 4, target.WordSize())

	arch := target.Arch().(*i386.Architecture)
	require.Equal(t, i386.NewFeatureSet(i386.SSE, i386.SSE2, i386.BMI1), arch.Features())
	require.Equal(t, i386.NewFlagSet(i386.UseCountTrailingZerosInstruction), arch.Flags())

	rc := c.NewRegisterConfig(target)
	require.False(t, rc.AllocatableRegisters().Contains(i386.EDI))
	require.True(t, rc.AreAllAllocatableRegistersCallerSaved())
}

func TestReadVMConfig_Windows(t *testing.T) {
	v := hostconfig.HotSpotValues(i386.NewFeatureSet(i386.SSE2), "windows")
	c, err := hotspot.ReadVMConfig(hostconfig.NewSource(v))
	require.NoError(t, err)
	require.True(t, c.WindowsOS)

	target, err := c.NewTarget()
	require.NoError(t, err)
	require.Equal(t, []api.Register{i386.XMM6, i386.XMM7}, c.NewRegisterConfig(target).CalleeSaveRegisters().Slice())
}

func TestReadVMConfig_MissingOSName(t *testing.T) {
	v := hostconfig.HotSpotValues(i386.NewFeatureSet(i386.SSE2), "windows")
	delete(v.Properties, hotspot.OSNameProperty)
	c, err := hotspot.ReadVMConfig(hostconfig.NewSource(v))
	require.NoError(t, err)
	require.False(t, c.WindowsOS)
}

func TestReadVMConfig_Alias(t *testing.T) {
	v := hostconfig.HotSpotValues(i386.NewFeatureSet(i386.SSE2), "linux")
	v.Constants["VM_Version::CPU_3DNOW"] = 1 << 40
	v.Fields[hotspot.FeaturesField] = hostconfig.Field{Type: hotspot.FeaturesFieldType, Value: 1<<7 | 1<<40}

	c, err := hotspot.ReadVMConfig(hostconfig.NewSource(v))
	require.NoError(t, err)
	require.Equal(t, int(i386.NumCPUFeatures)+1, len(c.FeatureBits))

	target, err := c.NewTarget()
	require.NoError(t, err)
	require.True(t, target.Arch().(*i386.Architecture).HasFeature(i386.AMD_3DNOW_PREFETCH))
}

func TestReadVMConfig_NotFound(t *testing.T) {
	tests := []struct {
		name   string
		remove func(v *hostconfig.Values)
		expErr string
	}{
		{
			name:   "flag",
			remove: func(v *hostconfig.Values) { delete(v.Booleans, "UseCountTrailingZerosInstruction") },
			expErr: "flag UseCountTrailingZerosInstruction",
		},
		{
			name:   "compressed oops",
			remove: func(v *hostconfig.Values) { delete(v.Booleans, hotspot.FlagUseCompressedOops) },
			expErr: "flag UseCompressedOops",
		},
		{
			name:   "UseSSE",
			remove: func(v *hostconfig.Values) { delete(v.Integers, hotspot.FlagUseSSE) },
			expErr: "flag UseSSE",
		},
		{
			name:   "features",
			remove: func(v *hostconfig.Values) { delete(v.Fields, hotspot.FeaturesField) },
			expErr: "field Abstract_VM_Version::_features",
		},
		{
			name: "features type",
			remove: func(v *hostconfig.Values) {
				v.Fields[hotspot.FeaturesField] = hostconfig.Field{Type: "int", Value: 1 << 7}
			},
			expErr: "has type int, not uint64_t",
		},
		{
			name:   "constant",
			remove: func(v *hostconfig.Values) { delete(v.Constants, "VM_Version::CPU_FMA") },
			expErr: "constant VM_Version::CPU_FMA",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			v := hostconfig.HotSpotValues(i386.NewFeatureSet(i386.SSE2), "linux")
			tc.remove(&v)
			_, err := hotspot.ReadVMConfig(hostconfig.NewSource(v))
			require.True(t, errors.Is(err, api.ErrConfigNotFound))
			require.Contains(t, err.Error(), tc.expErr)
		})
	}
}

func TestVMConfig_NewTarget_MissingBaseline(t *testing.T) {
	t.Run("feature", func(t *testing.T) {
		v := hostconfig.HotSpotValues(i386.NewFeatureSet(i386.SSE2), "linux")
		v.Fields[hotspot.FeaturesField] = hostconfig.Field{Type: hotspot.FeaturesFieldType, Value: 1 << 6}
		c, err := hotspot.ReadVMConfig(hostconfig.NewSource(v))
		require.NoError(t, err)
		_, err = c.NewTarget()
		require.True(t, errors.Is(err, api.ErrMissingBaseline))
	})
	t.Run("UseSSE", func(t *testing.T) {
		v := hostconfig.HotSpotValues(i386.NewFeatureSet(i386.SSE2), "linux")
		v.Integers[hotspot.FlagUseSSE] = 1
		c, err := hotspot.ReadVMConfig(hostconfig.NewSource(v))
		require.NoError(t, err)
		_, err = c.NewTarget()
		require.True(t, errors.Is(err, api.ErrMissingBaseline))
		require.Contains(t, err.Error(), "UseSSE=1")
	})
}

func TestFactory(t *testing.T) {
	f := hotspot.Factory{}
	require.Equal(t, "I386", f.Name())

	cfg, err := f.Snapshot(hostconfig.NewSource(hostconfig.HotSpotValues(i386.NewFeatureSet(i386.SSE2), "linux")))
	require.NoError(t, err)
	require.IsType(t, &hotspot.VMConfig{}, cfg)

	_, err = f.Snapshot(hostconfig.NewSource(hostconfig.Values{}))
	require.True(t, errors.Is(err, api.ErrConfigNotFound))
}

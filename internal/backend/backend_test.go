package backend_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tetratelabs/cibackend/api"
	"github.com/tetratelabs/cibackend/internal/backend"
	"github.com/tetratelabs/cibackend/internal/hostconfig"
	"github.com/tetratelabs/cibackend/internal/hostprovider"
	"github.com/tetratelabs/cibackend/internal/i386"
	"github.com/tetratelabs/cibackend/internal/i386/hotspot"
	"github.com/tetratelabs/cibackend/internal/inittimer"
)

// recordingFactory wraps hostprovider.Factory, recording each call and failing the one named by fail.
type recordingFactory struct {
	calls []string
	fail  string
	err   error

	metaAccess         api.MetaAccessProvider
	codeCache          api.CodeCacheProvider
	constantReflection api.ConstantReflectionProvider
	stackIntrospection api.StackIntrospection
}

func (f *recordingFactory) call(name string) error {
	f.calls = append(f.calls, name)
	if name == f.fail {
		return f.err
	}
	return nil
}

func (f *recordingFactory) NewMetaAccess(target *api.TargetDescription) (api.MetaAccessProvider, error) {
	if err := f.call("MetaAccess"); err != nil {
		return nil, err
	}
	m, err := hostprovider.Factory{}.NewMetaAccess(target)
	f.metaAccess = m
	return m, err
}

func (f *recordingFactory) NewCodeCache(target *api.TargetDescription, regConfig api.RegisterConfig) (api.CodeCacheProvider, error) {
	if err := f.call("CodeCache"); err != nil {
		return nil, err
	}
	c, err := hostprovider.Factory{}.NewCodeCache(target, regConfig)
	f.codeCache = c
	return c, err
}

func (f *recordingFactory) NewConstantReflection(metaAccess api.MetaAccessProvider) (api.ConstantReflectionProvider, error) {
	if err := f.call("ConstantReflection"); err != nil {
		return nil, err
	}
	c, err := hostprovider.Factory{}.NewConstantReflection(metaAccess)
	f.constantReflection = c
	return c, err
}

func (f *recordingFactory) NewStackIntrospection() (api.StackIntrospection, error) {
	if err := f.call("StackIntrospection"); err != nil {
		return nil, err
	}
	s, err := hostprovider.Factory{}.NewStackIntrospection()
	f.stackIntrospection = s
	return s, err
}

func hostValues(features ...i386.CPUFeature) hostconfig.Values {
	return hostconfig.HotSpotValues(i386.NewFeatureSet(features...), "linux")
}

func TestAssemble_Baseline(t *testing.T) {
	providers := &recordingFactory{}
	b, err := backend.Assemble(hostconfig.NewSource(hostValues(i386.SSE2)), hotspot.Factory{}, providers, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"MetaAccess", "CodeCache", "ConstantReflection", "StackIntrospection"}, providers.calls)
	require.Equal(t, "Backend[I386]", b.String())

	arch := b.Target().Arch().(*i386.Architecture)
	require.Equal(t, i386.BaselineFeatures, arch.Features())
	k, ok := arch.LargestStorableKind(i386.CategoryXMM)
	require.True(t, ok)
	require.Equal(t, api.PlatformKind(i386.KindV128Qword), k)

	require.NotNil(t, b.MetaAccess())
	require.NotNil(t, b.ConstantReflection())
	require.NotNil(t, b.StackIntrospection())
	require.Equal(t, b.Target(), b.CodeCache().Target())
	require.Equal(t, b.RegisterConfig(), b.CodeCache().RegisterConfig())
}

func TestAssemble_WideVectors(t *testing.T) {
	b, err := backend.Assemble(hostconfig.NewSource(hostValues(i386.SSE2, i386.AVX)), hotspot.Factory{}, hostprovider.Factory{}, nil)
	require.NoError(t, err)

	arch := b.Target().Arch().(*i386.Architecture)
	require.Equal(t, i386.NewFeatureSet(i386.SSE2, i386.AVX), arch.Features())
	k, ok := arch.LargestStorableKind(i386.CategoryXMM)
	require.True(t, ok)
	require.Equal(t, api.PlatformKind(i386.KindV256Qword), k)
}

func TestAssemble_ConfigNotFound(t *testing.T) {
	v := hostValues(i386.SSE2)
	delete(v.Constants, "VM_Version::CPU_AVX")
	providers := &recordingFactory{}

	b, err := backend.Assemble(hostconfig.NewSource(v), hotspot.Factory{}, providers, nil)
	require.True(t, errors.Is(err, api.ErrConfigNotFound))
	require.Contains(t, err.Error(), "failed to read I386 configuration: constant VM_Version::CPU_AVX")
	require.Nil(t, b)
	require.Empty(t, providers.calls)
}

func TestAssemble_MissingBaseline(t *testing.T) {
	v := hostValues(i386.SSE2)
	v.Fields[hotspot.FeaturesField] = hostconfig.Field{Type: hotspot.FeaturesFieldType, Value: 0}
	providers := &recordingFactory{}

	b, err := backend.Assemble(hostconfig.NewSource(v), hotspot.Factory{}, providers, nil)
	require.True(t, errors.Is(err, api.ErrMissingBaseline))
	require.Nil(t, b)
	require.Empty(t, providers.calls)
}

func TestAssemble_ProviderError(t *testing.T) {
	for _, tc := range []struct {
		fail  string
		calls []string
	}{
		{fail: "MetaAccess", calls: []string{"MetaAccess"}},
		{fail: "CodeCache", calls: []string{"MetaAccess", "CodeCache"}},
		{fail: "ConstantReflection", calls: []string{"MetaAccess", "CodeCache", "ConstantReflection"}},
		{fail: "StackIntrospection", calls: []string{"MetaAccess", "CodeCache", "ConstantReflection", "StackIntrospection"}},
	} {
		tc := tc
		t.Run(tc.fail, func(t *testing.T) {
			expected := errors.New("provider failed")
			providers := &recordingFactory{fail: tc.fail, err: expected}

			b, err := backend.Assemble(hostconfig.NewSource(hostValues(i386.SSE2)), hotspot.Factory{}, providers, nil)
			require.Equal(t, expected, err)
			require.Nil(t, b)
			require.Equal(t, tc.calls, providers.calls)
		})
	}
}

func TestAssemble_Independent(t *testing.T) {
	v := hostValues(i386.SSE2, i386.POPCNT)
	b1, err := backend.Assemble(hostconfig.NewSource(v), hotspot.Factory{}, hostprovider.Factory{}, nil)
	require.NoError(t, err)
	b2, err := backend.Assemble(hostconfig.NewSource(v), hotspot.Factory{}, hostprovider.Factory{}, nil)
	require.NoError(t, err)

	a1 := b1.Target().Arch().(*i386.Architecture)
	a2 := b2.Target().Arch().(*i386.Architecture)
	require.Equal(t, a1.Features(), a2.Features())
	require.Equal(t, *a1, *a2)
	require.NotSame(t, a1, a2)
	require.NotSame(t, b1.Target(), b2.Target())
	require.NotSame(t, b1.CodeCache(), b2.CodeCache())

	_, err = b1.CodeCache().InstallCode("stub", []byte{0xc3})
	require.NoError(t, err)
	_, ok := b2.CodeCache().Lookup("stub")
	require.False(t, ok)
}

func TestAssemble_Timer(t *testing.T) {
	var buf bytes.Buffer
	_, err := backend.Assemble(hostconfig.NewSource(hostValues(i386.SSE2)), hotspot.Factory{}, hostprovider.Factory{}, inittimer.New(&buf))
	require.NoError(t, err)

	var steps []string
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if trimmed := strings.TrimSpace(line); strings.HasPrefix(trimmed, "START: ") {
			steps = append(steps, strings.TrimPrefix(trimmed, "START: "))
		}
	}
	require.Equal(t, []string{
		"create providers",
		"create MetaAccess provider",
		"create RegisterConfig",
		"create CodeCache provider",
		"create ConstantReflection provider",
		"create StackIntrospection provider",
		"instantiate backend",
	}, steps)
}

func TestAssemble_ComposesProviders(t *testing.T) {
	var buf bytes.Buffer
	providers := &recordingFactory{}
	b, err := backend.Assemble(hostconfig.NewSource(hostValues(i386.SSE2)), hotspot.Factory{}, providers, inittimer.New(&buf))
	require.NoError(t, err)

	require.Equal(t, providers.metaAccess, b.MetaAccess())
	require.Equal(t, providers.codeCache, b.CodeCache())
	require.Equal(t, providers.constantReflection, b.ConstantReflection())
	require.Equal(t, providers.stackIntrospection, b.StackIntrospection())
	require.Equal(t, b.RegisterConfig(), b.CodeCache().RegisterConfig())

	out := buf.String()
	require.True(t, strings.Index(out, "FINISH: create providers") < strings.Index(out, "START: instantiate backend"))
	require.Contains(t, out, "FINISH: instantiate backend [")
}

package hostconfig

import (
	"runtime"
	"strings"

	"golang.org/x/sys/cpu"

	"github.com/tetratelabs/cibackend/api"
	"github.com/tetratelabs/cibackend/internal/i386"
	"github.com/tetratelabs/cibackend/internal/i386/hotspot"
)

// FeatureBitLayout returns the bit HotSpot assigns to f in hotspot.FeaturesField.
func FeatureBitLayout(f i386.CPUFeature) uint64 {
	return 1 << uint64(f)
}

// Native returns a ConfigSource describing the running CPU the way a HotSpot VM on it would.
func Native() api.ConfigSource {
	return NewSource(HotSpotValues(detectFeatures(), runtime.GOOS))
}

// detectFeatures reads the features of the running CPU. Features older than SSE2 are implied by it.
func detectFeatures() i386.FeatureSet {
	x := &cpu.X86
	var fs i386.FeatureSet
	for _, d := range []struct {
		has     bool
		feature []i386.CPUFeature
	}{
		{x.HasSSE2, []i386.CPUFeature{i386.CX8, i386.CMOV, i386.FXSR, i386.MMX, i386.TSC, i386.SSE, i386.SSE2}},
		{x.HasSSE3, []i386.CPUFeature{i386.SSE3}},
		{x.HasSSSE3, []i386.CPUFeature{i386.SSSE3}},
		{x.HasSSE41, []i386.CPUFeature{i386.SSE4_1}},
		{x.HasSSE42, []i386.CPUFeature{i386.SSE4_2}},
		{x.HasPOPCNT, []i386.CPUFeature{i386.POPCNT}},
		{x.HasAVX, []i386.CPUFeature{i386.AVX}},
		{x.HasAVX2, []i386.CPUFeature{i386.AVX2}},
		{x.HasAES, []i386.CPUFeature{i386.AES}},
		{x.HasERMS, []i386.CPUFeature{i386.ERMS}},
		{x.HasPCLMULQDQ, []i386.CPUFeature{i386.CLMUL}},
		{x.HasBMI1, []i386.CPUFeature{i386.BMI1}},
		{x.HasBMI2, []i386.CPUFeature{i386.BMI2}},
		{x.HasADX, []i386.CPUFeature{i386.ADX}},
		{x.HasFMA, []i386.CPUFeature{i386.FMA}},
		{x.HasAVX512F, []i386.CPUFeature{i386.AVX512F}},
		{x.HasAVX512DQ, []i386.CPUFeature{i386.AVX512DQ}},
		{x.HasAVX512PF, []i386.CPUFeature{i386.AVX512PF}},
		{x.HasAVX512ER, []i386.CPUFeature{i386.AVX512ER}},
		{x.HasAVX512CD, []i386.CPUFeature{i386.AVX512CD}},
		{x.HasAVX512BW, []i386.CPUFeature{i386.AVX512BW}},
		{x.HasAVX512VL, []i386.CPUFeature{i386.AVX512VL}},
	} {
		if d.has {
			fs |= i386.NewFeatureSet(d.feature...)
		}
	}
	return impliedFeatures(fs)
}

// impliedFeatures adds to fs the features x/sys/cpu does not report but which every CPU with fs has: LZCNT ships on
// every CPU with BMI2. SSE4A, HT, RTM, SHA, TSCINV and AMD_3DNOW_PREFETCH are never reported.
func impliedFeatures(fs i386.FeatureSet) i386.FeatureSet {
	if fs.Has(i386.BMI2) {
		fs |= i386.NewFeatureSet(i386.LZCNT)
	}
	return fs
}

// HotSpotValues returns the Values a HotSpot VM exposes on a CPU with the features, running on goos. Constants follow
// FeatureBitLayout.
func HotSpotValues(features i386.FeatureSet, goos string) Values {
	var mask uint64
	constants := make(map[string]int64, i386.NumCPUFeatures)
	for f := i386.CPUFeature(0); f < i386.NumCPUFeatures; f++ {
		bit := FeatureBitLayout(f)
		constants[hotspot.FeatureConstant(f)] = int64(bit)
		if features.Has(f) {
			mask |= bit
		}
	}

	var useSSE int32
	switch {
	case features.Has(i386.SSE4_1):
		useSSE = 4
	case features.Has(i386.SSE3):
		useSSE = 3
	case features.Has(i386.SSE2):
		useSSE = 2
	case features.Has(i386.SSE):
		useSSE = 1
	}

	return Values{
		Booleans: map[string]bool{
			i386.UseCountLeadingZerosInstruction.String():  features.Has(i386.LZCNT),
			i386.UseCountTrailingZerosInstruction.String(): features.Has(i386.BMI1),
			hotspot.FlagUseCompressedOops:                  false,
		},
		Integers:  map[string]int32{hotspot.FlagUseSSE: useSSE},
		Constants: constants,
		Fields: map[string]Field{
			hotspot.FeaturesField: {Type: hotspot.FeaturesFieldType, Value: mask},
		},
		Properties: map[string]string{hotspot.OSNameProperty: osName(goos)},
	}
}

// osName returns the value of the os.name property on goos.
func osName(goos string) string {
	switch goos {
	case "windows":
		return "Windows"
	case "darwin":
		return "Mac OS X"
	case "linux":
		return "Linux"
	case "freebsd":
		return "FreeBSD"
	default:
		if goos == "" {
			return ""
		}
		return strings.ToUpper(goos[:1]) + goos[1:]
	}
}

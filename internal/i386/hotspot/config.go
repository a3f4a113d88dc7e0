// Package hotspot reads the i386 configuration a HotSpot virtual machine exposes and turns it into a target.
package hotspot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tetratelabs/cibackend/api"
	"github.com/tetratelabs/cibackend/internal/backend"
	"github.com/tetratelabs/cibackend/internal/i386"
)

const (
	// FeaturesField is the VM field holding the detected CPU feature mask.
	FeaturesField = "Abstract_VM_Version::_features"
	// FeaturesFieldType is the C type of FeaturesField.
	FeaturesFieldType = "uint64_t"

	// OSNameProperty is the system property naming the host operating system.
	OSNameProperty = "os.name"

	FlagUseCompressedOops = "UseCompressedOops"
	FlagUseSSE            = "UseSSE"
)

// Target parameters common to every i386 HotSpot host.
const (
	StackAlignment         = 16
	ImplicitNullCheckLimit = 4096
	InlineObjects          = true
)

// minUseSSE is the SSE level matching i386.BaselineFeatures.
const minUseSSE = 2

// FeatureConstant returns the name of the VM constant holding the bit of f, e.g. "VM_Version::CPU_SSE2".
func FeatureConstant(f i386.CPUFeature) string {
	name := f.String()
	if f == i386.AMD_3DNOW_PREFETCH {
		name = "3DNOW_PREFETCH"
	}
	return "VM_Version::CPU_" + name
}

// featureAliases lists legacy constant names a VM may also define. Unlike FeatureConstant, these are optional.
var featureAliases = []struct {
	feature i386.CPUFeature
	name    string
}{
	{feature: i386.AMD_3DNOW_PREFETCH, name: "VM_Version::CPU_3DNOW"},
}

// VMConfig is a snapshot of the i386 configuration of a VM.
type VMConfig struct {
	WindowsOS         bool
	UseCompressedOops bool
	UseSSE            int32
	// FlagValues holds the value of each i386.Flag.
	FlagValues [i386.NumFlags]bool
	// Features is the raw value of FeaturesField.
	Features uint64
	// FeatureBits is the bit of each feature, including aliases.
	FeatureBits []i386.FeatureBit
}

// ReadVMConfig reads a VMConfig from source. Any missing entry fails with an error wrapping api.ErrConfigNotFound.
func ReadVMConfig(source api.ConfigSource) (*VMConfig, error) {
	c := &VMConfig{}

	osName, err := source.SavedProperty(OSNameProperty)
	switch {
	case err == nil:
		c.WindowsOS = strings.HasPrefix(osName, "Windows")
	case !errors.Is(err, api.ErrConfigNotFound):
		return nil, err
	}

	for f := i386.Flag(0); f < i386.NumFlags; f++ {
		if c.FlagValues[f], err = source.BooleanFlag(f.String()); err != nil {
			return nil, fmt.Errorf("flag %s: %w", f, err)
		}
	}
	if c.UseCompressedOops, err = source.BooleanFlag(FlagUseCompressedOops); err != nil {
		return nil, fmt.Errorf("flag %s: %w", FlagUseCompressedOops, err)
	}
	if c.UseSSE, err = source.IntegerFlag(FlagUseSSE); err != nil {
		return nil, fmt.Errorf("flag %s: %w", FlagUseSSE, err)
	}
	if c.Features, err = source.FieldValue(FeaturesField, FeaturesFieldType); err != nil {
		return nil, fmt.Errorf("field %s: %w", FeaturesField, err)
	}

	c.FeatureBits = make([]i386.FeatureBit, 0, int(i386.NumCPUFeatures)+len(featureAliases))
	for f := i386.CPUFeature(0); f < i386.NumCPUFeatures; f++ {
		name := FeatureConstant(f)
		bit, err := source.LongConstant(name)
		if err != nil {
			return nil, fmt.Errorf("constant %s: %w", name, err)
		}
		c.FeatureBits = append(c.FeatureBits, i386.FeatureBit{Feature: f, Bit: uint64(bit)})
	}
	for _, alias := range featureAliases {
		bit, err := source.LongConstant(alias.name)
		switch {
		case err == nil:
			c.FeatureBits = append(c.FeatureBits, i386.FeatureBit{Feature: alias.feature, Bit: uint64(bit)})
		case !errors.Is(err, api.ErrConfigNotFound):
			return nil, fmt.Errorf("constant %s: %w", alias.name, err)
		}
	}
	return c, nil
}

// NewTarget implements backend.ArchConfig.
func (c *VMConfig) NewTarget() (*api.TargetDescription, error) {
	if c.UseSSE < minUseSSE {
		return nil, fmt.Errorf("%w: %s=%d, minimum config for i386 requires %d", api.ErrMissingBaseline, FlagUseSSE, c.UseSSE, minUseSSE)
	}
	features, err := i386.DecodeFeatures(c.Features, c.FeatureBits)
	if err != nil {
		return nil, err
	}
	arch, err := i386.New(features, i386.DecodeFlags(c.FlagValues))
	if err != nil {
		return nil, err
	}
	return api.NewTargetDescription(arch, true, StackAlignment, ImplicitNullCheckLimit, InlineObjects), nil
}

// NewRegisterConfig implements backend.ArchConfig.
func (c *VMConfig) NewRegisterConfig(target *api.TargetDescription) api.RegisterConfig {
	return i386.NewRegisterConfig(target, c.UseCompressedOops, c.WindowsOS)
}

// Factory is the backend.ArchFactory of i386 HotSpot hosts.
type Factory struct{}

var _ backend.ArchFactory = Factory{}

// Name implements backend.ArchFactory.
func (Factory) Name() string {
	return "I386"
}

// Snapshot implements backend.ArchFactory.
func (Factory) Snapshot(source api.ConfigSource) (backend.ArchConfig, error) {
	c, err := ReadVMConfig(source)
	if err != nil {
		return nil, err
	}
	return c, nil
}

package i386

import (
	"fmt"

	"github.com/tetratelabs/cibackend/api"
)

// FeatureBit associates a CPUFeature with the bit the host reports it under. A feature may appear in several entries
// when the host reports it under legacy names.
type FeatureBit struct {
	Feature CPUFeature
	Bit     uint64
}

// DecodeFeatures returns the features whose bit is set in mask. This fails with an error wrapping
// api.ErrMissingBaseline if the result lacks a BaselineFeatures member.
func DecodeFeatures(mask uint64, bits []FeatureBit) (FeatureSet, error) {
	var features FeatureSet
	for _, b := range bits {
		if mask&b.Bit != 0 {
			features = features.With(b.Feature)
		}
	}
	if err := checkBaseline(features); err != nil {
		return 0, err
	}
	return features, nil
}

// DecodeFlags returns the flags whose value is true.
func DecodeFlags(values [NumFlags]bool) FlagSet {
	var flags FlagSet
	for f, enabled := range values {
		if enabled {
			flags |= NewFlagSet(Flag(f))
		}
	}
	return flags
}

func checkBaseline(features FeatureSet) error {
	if !features.ContainsAll(BaselineFeatures) {
		return fmt.Errorf("%w: minimum config for i386 requires %s", api.ErrMissingBaseline, BaselineFeatures&^features)
	}
	return nil
}

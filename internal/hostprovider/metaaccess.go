package hostprovider

import (
	"fmt"

	"github.com/tetratelabs/cibackend/api"
)

// MetaAccess lays out arrays with elements of the size of their platform kind.
type MetaAccess struct {
	target *api.TargetDescription
}

// NewMetaAccess returns the MetaAccess of the target.
func NewMetaAccess(target *api.TargetDescription) *MetaAccess {
	return &MetaAccess{target: target}
}

// ArrayIndexScale implements api.MetaAccessProvider.
func (m *MetaAccess) ArrayIndexScale(t api.ValueType) (int, error) {
	kind, ok := m.target.Arch().PlatformKind(t)
	if !ok {
		return 0, fmt.Errorf("%w: no array of %s", api.ErrUnsupportedMapping, api.ValueTypeName(t))
	}
	return kind.SizeInBytes(), nil
}

// Package hostprovider implements the default providers of a backend, backed by the running process.
package hostprovider

import (
	"github.com/tetratelabs/cibackend/api"
	"github.com/tetratelabs/cibackend/internal/codecache"
)

// Factory is the default api.ProviderFactory.
type Factory struct{}

var _ api.ProviderFactory = Factory{}

// NewMetaAccess implements api.ProviderFactory.
func (Factory) NewMetaAccess(target *api.TargetDescription) (api.MetaAccessProvider, error) {
	return NewMetaAccess(target), nil
}

// NewCodeCache implements api.ProviderFactory.
func (Factory) NewCodeCache(target *api.TargetDescription, regConfig api.RegisterConfig) (api.CodeCacheProvider, error) {
	return codecache.New(target, regConfig), nil
}

// NewConstantReflection implements api.ProviderFactory.
func (Factory) NewConstantReflection(metaAccess api.MetaAccessProvider) (api.ConstantReflectionProvider, error) {
	return NewConstantReflection(metaAccess), nil
}

// NewStackIntrospection implements api.ProviderFactory.
func (Factory) NewStackIntrospection() (api.StackIntrospection, error) {
	return NewStackIntrospection(), nil
}

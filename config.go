package cibackend

import (
	"io"

	"github.com/tetratelabs/cibackend/api"
	"github.com/tetratelabs/cibackend/internal/backend"
	"github.com/tetratelabs/cibackend/internal/hostprovider"
	"github.com/tetratelabs/cibackend/internal/i386/hotspot"
)

// BackendConfig controls how NewBackend assembles a backend, with the default implementation as NewBackendConfig.
//
// BackendConfig is immutable: each With* method returns a copy with one setting changed.
type BackendConfig struct {
	arch      backend.ArchFactory
	providers api.ProviderFactory
	initTimer io.Writer
}

// defaultConfig holds the defaults of NewBackendConfig.
var defaultConfig = &BackendConfig{
	arch:      hotspot.Factory{},
	providers: hostprovider.Factory{},
}

// NewBackendConfig returns a BackendConfig for i386 HotSpot hosts which uses the default providers and does not trace
// initialization.
func NewBackendConfig() *BackendConfig {
	return defaultConfig.clone()
}

// clone ensures all fields are copied even if nil.
func (c *BackendConfig) clone() *BackendConfig {
	ret := *c
	return &ret
}

// WithArchitecture sets the architecture whose host configuration is read. Defaults to i386 on HotSpot if nil.
func (c *BackendConfig) WithArchitecture(arch backend.ArchFactory) *BackendConfig {
	if arch == nil {
		arch = defaultConfig.arch
	}
	ret := c.clone()
	ret.arch = arch
	return ret
}

// WithProviderFactory sets the factory of the backend providers. Defaults to providers backed by the running process if
// nil.
//
// Note: The factory methods are always called in the order api.ProviderFactory declares them.
func (c *BackendConfig) WithProviderFactory(providers api.ProviderFactory) *BackendConfig {
	if providers == nil {
		providers = defaultConfig.providers
	}
	ret := c.clone()
	ret.providers = providers
	return ret
}

// WithInitTimer writes the duration of each assembly step to w. Defaults to nil, which disables it.
//
// For example, this writes:
//
//	START: create providers
//	  START: create MetaAccess provider
//	  FINISH: create MetaAccess provider [0 ms]
//	...
func (c *BackendConfig) WithInitTimer(w io.Writer) *BackendConfig {
	ret := c.clone()
	ret.initTimer = w
	return ret
}

// Package cibackend assembles the compiler backend of a virtual machine host: the description of its CPU and the
// providers compiled code is produced with.
//
// For example, this assembles a backend for the configuration in a Starlark file:
//
//	source, err := cibackend.LoadConfig("host.star")
//	if err != nil {
//		return err
//	}
//	b, err := cibackend.NewBackend(source, cibackend.NewBackendConfig())
package cibackend

import (
	"github.com/tetratelabs/cibackend/api"
	"github.com/tetratelabs/cibackend/internal/backend"
	"github.com/tetratelabs/cibackend/internal/hostconfig"
	"github.com/tetratelabs/cibackend/internal/inittimer"
)

// NewBackend reads source and assembles a new api.Backend with config. Every call returns an independent backend.
//
// The error wraps api.ErrConfigNotFound if source lacks an entry, or api.ErrMissingBaseline if the host CPU lacks a
// required feature. Either way, no provider has been constructed. Errors of the provider factory are returned as is.
func NewBackend(source api.ConfigSource, config *BackendConfig) (api.Backend, error) {
	if config == nil {
		config = defaultConfig
	}
	return backend.Assemble(source, config.arch, config.providers, inittimer.New(config.initTimer))
}

// LoadConfig returns the host configuration defined by a Starlark file.
//
// The file defines dicts named flags, constants, fields and properties, and may call bit(n) for 1 << n:
//
//	flags = {"UseSSE": 2, "UseCompressedOops": False}
//	constants = {"VM_Version::CPU_SSE2": bit(7)}
//	fields = {"Abstract_VM_Version::_features": ("uint64_t", bit(7))}
//	properties = {"os.name": "Linux"}
func LoadConfig(filename string) (api.ConfigSource, error) {
	return hostconfig.LoadStarlark(filename, nil)
}

// NativeConfig returns the host configuration of the running CPU.
func NativeConfig() api.ConfigSource {
	return hostconfig.Native()
}

// WithEnvironment returns source with entries overridden by environment variables. The variable of an entry is prefix
// followed by its name upper-cased, with other characters than letters and digits replaced by '_'. For example, with
// the prefix "CIB_", CIB_USESSE=4 overrides the flag "UseSSE". The environment is read once, by this call.
func WithEnvironment(source api.ConfigSource, prefix string) api.ConfigSource {
	return hostconfig.WithEnvironment(source, prefix)
}

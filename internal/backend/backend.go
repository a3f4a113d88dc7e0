// Package backend assembles the providers of a compiler backend for one architecture.
package backend

import (
	"fmt"

	"github.com/tetratelabs/cibackend/api"
	"github.com/tetratelabs/cibackend/internal/inittimer"
)

// ArchFactory reads the host configuration an architecture depends on.
type ArchFactory interface {
	// Name returns the name of the architecture, e.g. "I386".
	Name() string

	// Snapshot reads every configuration entry the architecture needs from source. Nothing is read from source
	// afterwards.
	Snapshot(source api.ConfigSource) (ArchConfig, error)
}

// ArchConfig is an immutable snapshot of the host configuration, taken by ArchFactory.Snapshot.
type ArchConfig interface {
	// NewTarget decodes the snapshot into a TargetDescription. This fails with an error wrapping
	// api.ErrMissingBaseline if the host lacks a required CPU feature.
	NewTarget() (*api.TargetDescription, error)

	// NewRegisterConfig returns the register configuration of the target.
	NewRegisterConfig(target *api.TargetDescription) api.RegisterConfig
}

// Assemble builds a Backend: the target is decoded from source first, then the providers are constructed in the order
// of api.ProviderFactory. Each step is reported to timer, which may be nil.
//
// Configuration errors abort before any provider is constructed. Provider errors are returned unchanged.
func Assemble(source api.ConfigSource, arch ArchFactory, providers api.ProviderFactory, timer *inittimer.Timer) (api.Backend, error) {
	cfg, err := arch.Snapshot(source)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s configuration: %w", arch.Name(), err)
	}
	target, err := cfg.NewTarget()
	if err != nil {
		return nil, err
	}

	var (
		metaAccess         api.MetaAccessProvider
		regConfig          api.RegisterConfig
		codeCache          api.CodeCacheProvider
		constantReflection api.ConstantReflectionProvider
		stackIntrospection api.StackIntrospection
	)
	err = timer.Time("create providers", func() error {
		if err := timer.Time("create MetaAccess provider", func() (err error) {
			metaAccess, err = providers.NewMetaAccess(target)
			return
		}); err != nil {
			return err
		}
		if err := timer.Time("create RegisterConfig", func() error {
			regConfig = cfg.NewRegisterConfig(target)
			return nil
		}); err != nil {
			return err
		}
		if err := timer.Time("create CodeCache provider", func() (err error) {
			codeCache, err = providers.NewCodeCache(target, regConfig)
			return
		}); err != nil {
			return err
		}
		if err := timer.Time("create ConstantReflection provider", func() (err error) {
			constantReflection, err = providers.NewConstantReflection(metaAccess)
			return
		}); err != nil {
			return err
		}
		return timer.Time("create StackIntrospection provider", func() (err error) {
			stackIntrospection, err = providers.NewStackIntrospection()
			return
		})
	})
	if err != nil {
		return nil, err
	}

	var b *backend
	if err = timer.Time("instantiate backend", func() error {
		b = &backend{
			target:             target,
			regConfig:          regConfig,
			metaAccess:         metaAccess,
			codeCache:          codeCache,
			constantReflection: constantReflection,
			stackIntrospection: stackIntrospection,
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return b, nil
}

// backend implements api.Backend.
type backend struct {
	target             *api.TargetDescription
	regConfig          api.RegisterConfig
	metaAccess         api.MetaAccessProvider
	codeCache          api.CodeCacheProvider
	constantReflection api.ConstantReflectionProvider
	stackIntrospection api.StackIntrospection
}

// MetaAccess implements api.Backend.
func (b *backend) MetaAccess() api.MetaAccessProvider {
	return b.metaAccess
}

// CodeCache implements api.Backend.
func (b *backend) CodeCache() api.CodeCacheProvider {
	return b.codeCache
}

// ConstantReflection implements api.Backend.
func (b *backend) ConstantReflection() api.ConstantReflectionProvider {
	return b.constantReflection
}

// StackIntrospection implements api.Backend.
func (b *backend) StackIntrospection() api.StackIntrospection {
	return b.stackIntrospection
}

// Target implements api.Backend.
func (b *backend) Target() *api.TargetDescription {
	return b.target
}

// RegisterConfig implements api.Backend.
func (b *backend) RegisterConfig() api.RegisterConfig {
	return b.regConfig
}

// String implements fmt.Stringer.
func (b *backend) String() string {
	return fmt.Sprintf("Backend[%s]", b.target.Arch().Name())
}

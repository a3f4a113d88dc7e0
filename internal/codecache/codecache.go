// Package codecache implements api.CodeCacheProvider with an in-memory table of installed code.
package codecache

import (
	"fmt"
	"sync"

	"github.com/tetratelabs/cibackend/api"
)

// Cache is an api.CodeCacheProvider which keeps installed code in memory. It is safe for concurrent use.
type Cache struct {
	target    *api.TargetDescription
	regConfig api.RegisterConfig

	mux    sync.RWMutex
	nextID int
	code   map[string]*api.InstalledCode
}

var _ api.CodeCacheProvider = (*Cache)(nil)

// New returns an empty Cache for the target.
func New(target *api.TargetDescription, regConfig api.RegisterConfig) *Cache {
	return &Cache{target: target, regConfig: regConfig, code: map[string]*api.InstalledCode{}}
}

// Target implements api.CodeCacheProvider.
func (c *Cache) Target() *api.TargetDescription {
	return c.target
}

// RegisterConfig implements api.CodeCacheProvider.
func (c *Cache) RegisterConfig() api.RegisterConfig {
	return c.regConfig
}

// InstallCode implements api.CodeCacheProvider.
func (c *Cache) InstallCode(name string, code []byte) (*api.InstalledCode, error) {
	if len(code) == 0 {
		return nil, fmt.Errorf("code %q is empty", name)
	}

	c.mux.Lock()
	defer c.mux.Unlock()

	if _, ok := c.code[name]; ok {
		return nil, fmt.Errorf("code %q is already installed", name)
	}
	c.nextID++
	installed := api.NewInstalledCode(name, c.nextID, code)
	c.code[name] = installed
	return installed, nil
}

// Lookup implements api.CodeCacheProvider.
func (c *Cache) Lookup(name string) (*api.InstalledCode, bool) {
	c.mux.RLock()
	defer c.mux.RUnlock()

	installed, ok := c.code[name]
	return installed, ok
}

// Len returns the number of installed code blobs.
func (c *Cache) Len() int {
	c.mux.RLock()
	defer c.mux.RUnlock()
	return len(c.code)
}

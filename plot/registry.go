package plot

import (
	"fmt"
	"sort"
	"sync"
)

// DriverFactory creates an unopened driver for `cfg`.
type DriverFactory func(cfg Config) Driver

var (
	registryMu sync.RWMutex
	factories  = make(map[string]DriverFactory)
)

// Register makes a device type available to Context.Open.
// It is typically called from the init function of a backend
// package, following the database/sql driver pattern:
//
//	import _ "github.com/benoitkugler/okplot/plotraster" // registers "png", "jpg", ...
//
// Register panics if factory is nil or if `name` is already registered.
func Register(name string, factory DriverFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic("plot: Register factory is nil")
	}
	if _, dup := factories[name]; dup {
		panic("plot: Register called twice for device " + name)
	}
	factories[name] = factory
}

// Unregister removes a device type. It is mainly useful in tests.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(factories, name)
}

// Devices returns the sorted names of the registered device types.
func Devices() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewDriver creates, without opening it, the driver registered for `cfg.Type`.
func NewDriver(cfg Config) (Driver, error) {
	registryMu.RLock()
	factory, ok := factories[cfg.Type]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("plot: unknown device type %q (forgotten import?)", cfg.Type)
	}
	return factory(cfg), nil
}

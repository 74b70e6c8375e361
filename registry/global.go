package registry

import (
	"sync"

	"github.com/stefwlc/ezctest/guard"
)

// defaultRegistry serves init-time self-registration from user packages.
var defaultRegistry = New()

// defaultMu protects the defaultRegistry variable itself.
var defaultMu sync.RWMutex

// Default returns the process-wide registry.
func Default() *Registry {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultRegistry
}

// SetDefault swaps the process-wide registry, returning the previous one so
// tests can restore it.
func SetDefault(r *Registry) *Registry {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	prev := defaultRegistry
	defaultRegistry = r
	return prev
}

// MustRegister registers with the default registry and panics on error. It
// exists for init-time registration, where there is no caller to hand the
// error to.
func MustRegister(suite, name string, fn guard.TestFunc) {
	if err := Default().Register(suite, name, fn); err != nil {
		panic(err)
	}
}

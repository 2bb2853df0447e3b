package fieldset

import (
	"reflect"
	"sync"
)

// Describer is implemented by record types that declare their own fields.
// Describe is called on the zero value.
type Describer[R any] interface {
	Describe() []FieldSpec[R]
}

var (
	registry   = make(map[reflect.Type]any)
	registryMu sync.RWMutex
)

// Use returns the cached registry of R or builds it from R's Describe.
// Registries are cached by type.
func Use[R Describer[R]]() (*Registry[R], error) {
	typ := reflect.TypeFor[R]()

	// Fast path: read-lock cache check
	registryMu.RLock()
	if cached, ok := registry[typ]; ok {
		registryMu.RUnlock()
		return cached.(*Registry[R]), nil
	}
	registryMu.RUnlock()

	// Built without the lock: Describe may resolve nested records through Use.
	var zero R
	reg, err := Define(zero.Describe()...)
	if err != nil {
		return nil, err
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	// Double-check pattern
	if cached, ok := registry[typ]; ok {
		return cached.(*Registry[R]), nil
	}
	registry[typ] = reg
	return reg, nil
}

// MustUse is like Use but panics on error.
func MustUse[R Describer[R]]() *Registry[R] {
	reg, err := Use[R]()
	if err != nil {
		panic(err)
	}
	return reg
}

// Reset clears the registry cache.
// This is primarily useful for test isolation.
func Reset() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[reflect.Type]any)
}

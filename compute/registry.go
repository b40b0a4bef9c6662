package compute

import (
	"fmt"
	"sort"
	"sync"
)

// Factory creates a backend on demand.
type Factory func() (Backend, error)

var (
	mu       sync.RWMutex
	backends = map[string]Factory{}
)

// Register makes a backend available under name. Backends register
// themselves from init functions.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	backends[name] = f
}

// Names lists the registered backends in sorted order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(backends))
	for k := range backends {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Open instantiates the named backend.
func Open(name string) (Backend, error) {
	mu.RLock()
	f, ok := backends[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrNoBackend, name, Names())
	}
	return f()
}

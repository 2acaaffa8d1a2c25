package provider

import (
	"fmt"
	"sort"

	"github.com/Chapsvision-dev/rsbctl/internal/backup"
)

// Key is the dispatch key of a provider.
type Key struct {
	Workload   backup.WorkloadType
	Management backup.ManagementType
}

func (k Key) String() string {
	return string(k.Workload) + "/" + string(k.Management)
}

// Factory creates a provider bound to a remote client.
type Factory func(backup.Client) Provider

// UnsupportedCombinationError is returned when no provider is registered for a pair.
type UnsupportedCombinationError struct {
	Workload   backup.WorkloadType
	Management backup.ManagementType
}

func (e *UnsupportedCombinationError) Error() string {
	return fmt.Sprintf("no backup provider for workload type %q with backup management type %q",
		e.Workload, e.Management)
}

// Registry maps dispatch keys to factories. It is filled during package
// init and read-only afterwards, so concurrent Resolve calls are safe.
type Registry struct {
	factories map[Key]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: map[Key]Factory{}}
}

// Register binds a (workload, management) pair to its factory.
// A pair may only be registered once.
func (r *Registry) Register(k Key, f Factory) {
	if f == nil {
		panic("provider: nil factory for " + k.String())
	}
	if _, dup := r.factories[k]; dup {
		panic("provider: duplicate registration for " + k.String())
	}
	r.factories[k] = f
}

// Resolve returns the provider registered for the exact pair.
// No remote call is made.
func (r *Registry) Resolve(w backup.WorkloadType, m backup.ManagementType, c backup.Client) (Provider, error) {
	f, ok := r.factories[Key{Workload: w, Management: m}]
	if !ok {
		return nil, &UnsupportedCombinationError{Workload: w, Management: m}
	}
	return f(c), nil
}

// Keys lists registered pairs in a stable order.
func (r *Registry) Keys() []Key {
	keys := make([]Key, 0, len(r.factories))
	for k := range r.factories {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}

var registry = NewRegistry()

// Register adds a provider to the default registry. Call it from init().
func Register(w backup.WorkloadType, m backup.ManagementType, f Factory) {
	registry.Register(Key{Workload: w, Management: m}, f)
}

// Resolve looks up the default registry.
func Resolve(w backup.WorkloadType, m backup.ManagementType, c backup.Client) (Provider, error) {
	return registry.Resolve(w, m, c)
}

// Keys lists the pairs in the default registry.
func Keys() []Key {
	return registry.Keys()
}

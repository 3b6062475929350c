package provider

import (
	"fmt"

	"github.com/mxvel/topupmart/internal/domain/model"
)

// Registry resolves a provider kind to its adapter. Dispatch happens here,
// at the boundary, so the checkout flow never branches on vendor names.
type Registry struct {
	adapters map[model.ProviderKind]Adapter
}

// NewRegistry builds a registry from the given adapters.
func NewRegistry(adapters ...Adapter) *Registry {
	m := make(map[model.ProviderKind]Adapter, len(adapters))
	for _, a := range adapters {
		m[a.Kind()] = a
	}
	return &Registry{adapters: m}
}

// ForKind returns the adapter registered for kind.
func (r *Registry) ForKind(kind model.ProviderKind) (Adapter, error) {
	a, ok := r.adapters[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, kind)
	}
	return a, nil
}

// Kinds lists the registered provider kinds.
func (r *Registry) Kinds() []model.ProviderKind {
	kinds := make([]model.ProviderKind, 0, len(r.adapters))
	for k := range r.adapters {
		kinds = append(kinds, k)
	}
	return kinds
}

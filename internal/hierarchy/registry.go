package hierarchy

import (
	"fmt"
	"sort"

	"github.com/san-kum/cosmosim/internal/space"
)

// KindEntry is everything registered for one structure kind.
type KindEntry struct {
	Configurator Configurator
	Parent       ParentConfigurator
	// Children lists the definitions of the kind's own children. Nil for
	// leaf kinds.
	Children func(parent *space.Node) []ChildDefinition
}

type Registry struct {
	entries map[space.Kind]KindEntry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[space.Kind]KindEntry)}
}

func (r *Registry) Register(kind space.Kind, e KindEntry) {
	r.entries[kind] = e
}

func (r *Registry) Has(kind space.Kind) bool {
	_, ok := r.entries[kind]
	return ok
}

func (r *Registry) Configurator(kind space.Kind) (Configurator, error) {
	e, ok := r.entries[kind]
	if !ok || e.Configurator == nil {
		return nil, fmt.Errorf("unknown structure kind: %s", kind)
	}
	return e.Configurator, nil
}

func (r *Registry) ParentConfigurator(kind space.Kind) (ParentConfigurator, error) {
	e, ok := r.entries[kind]
	if !ok || e.Parent == nil {
		return nil, fmt.Errorf("no parent structure for kind: %s", kind)
	}
	return e.Parent, nil
}

// Definitions returns the child definitions for parent's kind.
func (r *Registry) Definitions(parent *space.Node) []ChildDefinition {
	e, ok := r.entries[parent.Kind]
	if !ok || e.Children == nil {
		return nil
	}
	return e.Children(parent)
}

func (r *Registry) Kinds() []space.Kind {
	kinds := make([]space.Kind, 0, len(r.entries))
	for k := range r.entries {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Package reconcile computes the union of server maps found across client
// configuration files. It detects conflicting definitions of the same
// server name, resolves them deterministically, and produces the merged
// registry the writer propagates back to every file.
package reconcile

import (
	"encoding/json"
	"sort"

	"github.com/agentstation/mcpsync/pkg/document"
	mcperrors "github.com/agentstation/mcpsync/pkg/errors"
)

// Entry is one merged server definition together with its provenance.
type Entry struct {
	// Name is the server name, unique within the registry.
	Name string

	// Definition is the canonical raw JSON definition for this server.
	Definition json.RawMessage

	// Origins lists every file in which this name appeared, in processing
	// order. Files carrying a losing conflict variant are included; the
	// first origin is the one that determined the definition.
	Origins []string
}

// Registry is the merged server set, rebuilt on every run. Entries keep
// first-seen insertion order so repeated runs over unchanged inputs
// produce identical output.
type Registry struct {
	order   []string
	entries map[string]*Entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

// add records a definition for an unseen name.
func (r *Registry) add(name string, def json.RawMessage, origin string) {
	r.order = append(r.order, name)
	r.entries[name] = &Entry{
		Name:       name,
		Definition: def,
		Origins:    []string{origin},
	}
}

// Get returns the entry for name.
func (r *Registry) Get(name string) (*Entry, bool) {
	e, ok := r.entries[name]
	return e, ok
}

// Has reports whether name is present.
func (r *Registry) Has(name string) bool {
	_, ok := r.entries[name]
	return ok
}

// Names returns server names in first-seen order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Sorted returns server names in lexical order, for display.
func (r *Registry) Sorted() []string {
	out := r.Names()
	sort.Strings(out)
	return out
}

// Len returns the number of servers in the registry.
func (r *Registry) Len() int {
	return len(r.order)
}

// ServerMap renders the registry as an ordered server map for write-back.
func (r *Registry) ServerMap() *document.ServerMap {
	m := document.NewServerMap()
	for _, name := range r.order {
		m.Set(name, r.entries[name].Definition)
	}
	return m
}

// Remove returns a new registry excluding the given names. Every name not
// present is collected into a single *errors.UnknownServersError so a
// caller removing a batch learns about all misses in one pass; on error no
// registry is returned and nothing downstream runs.
func (r *Registry) Remove(names ...string) (*Registry, error) {
	var unknown []string
	drop := make(map[string]bool, len(names))
	for _, name := range names {
		if !r.Has(name) {
			unknown = append(unknown, name)
			continue
		}
		drop[name] = true
	}
	if len(unknown) > 0 {
		return nil, mcperrors.NewUnknownServersError(unknown)
	}

	out := NewRegistry()
	for _, name := range r.order {
		if drop[name] {
			continue
		}
		e := r.entries[name]
		origins := make([]string, len(e.Origins))
		copy(origins, e.Origins)
		out.order = append(out.order, name)
		out.entries[name] = &Entry{Name: e.Name, Definition: e.Definition, Origins: origins}
	}
	return out, nil
}

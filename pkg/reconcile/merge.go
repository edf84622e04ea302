package reconcile

import (
	"encoding/json"

	"github.com/agentstation/mcpsync/pkg/document"
	"github.com/agentstation/mcpsync/pkg/logging"
)

// Source is one loaded server map, tagged with the file it came from.
type Source struct {
	// Path identifies the file for provenance and conflict reporting.
	Path string

	// ServersKey is the JSON key the map was read from.
	ServersKey string

	// Servers is the ordered server map extracted from the document.
	Servers *document.ServerMap
}

// Variant is one competing definition of a conflicted server name.
type Variant struct {
	Path       string
	Definition json.RawMessage
}

// Conflict records a server name defined differently in two or more files.
// The winner is the definition from the earliest file in processing order;
// it is what the writer propagates everywhere. Losers are reported so the
// caller can inspect and hand-edit if the automatic choice is wrong.
type Conflict struct {
	Name   string
	Winner Variant
	Losers []Variant
}

// Merge walks sources strictly in the order given and computes the union
// of their server maps. Identical duplicate definitions extend provenance;
// structurally different definitions of the same name register a conflict
// resolved first-seen-wins. The caller-supplied order is the tie-break
// authority, which keeps results stable across runs.
func Merge(sources []Source) (*Registry, []Conflict) {
	registry := NewRegistry()

	var conflicts []Conflict
	conflictIndex := make(map[string]int)

	for _, src := range sources {
		if src.Servers == nil {
			continue
		}
		for _, name := range src.Servers.Names() {
			def, _ := src.Servers.Get(name)

			entry, seen := registry.Get(name)
			if !seen {
				registry.add(name, def, src.Path)
				continue
			}

			entry.Origins = append(entry.Origins, src.Path)

			if document.EqualDefinitions(entry.Definition, def) {
				continue
			}

			logging.Warn().
				Str("server", name).
				Str("winner", entry.Origins[0]).
				Str("loser", src.Path).
				Msg("Conflicting server definition, keeping first-seen")

			loser := Variant{Path: src.Path, Definition: def}
			if i, ok := conflictIndex[name]; ok {
				conflicts[i].Losers = append(conflicts[i].Losers, loser)
				continue
			}
			conflictIndex[name] = len(conflicts)
			conflicts = append(conflicts, Conflict{
				Name:   name,
				Winner: Variant{Path: entry.Origins[0], Definition: entry.Definition},
				Losers: []Variant{loser},
			})
		}
	}

	return registry, conflicts
}

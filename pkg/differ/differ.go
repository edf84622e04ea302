package differ

import (
	"github.com/agentstation/mcpsync/pkg/document"
)

// Diff computes the changes needed to take a file's current server map to
// the desired one. Added and removed names come out in the desired and
// current maps' own orders respectively, which keeps output deterministic.
func Diff(current, desired *document.ServerMap) *Changeset {
	cs := &Changeset{}

	for _, name := range desired.Names() {
		newDef, _ := desired.Get(name)
		oldDef, ok := current.Get(name)
		if !ok {
			cs.Added = append(cs.Added, name)
			continue
		}
		if !document.EqualDefinitions(oldDef, newDef) {
			cs.Changed = append(cs.Changed, Change{Name: name, Old: oldDef, New: newDef})
		}
	}

	for _, name := range current.Names() {
		if _, ok := desired.Get(name); !ok {
			cs.Removed = append(cs.Removed, name)
		}
	}

	return cs
}

// Package differ compares a file's current server map against the merged
// registry and reports what an apply would change. Dry runs surface these
// changesets instead of writing.
package differ

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Change represents one server whose definition would be rewritten.
type Change struct {
	Name string
	Old  json.RawMessage
	New  json.RawMessage
}

// Changeset represents all server-map changes an apply would make to one
// file.
type Changeset struct {
	Added   []string // names the file gains
	Removed []string // names the file loses
	Changed []Change // names whose definition differs
}

// IsEmpty reports whether applying would leave the file's server map
// untouched.
func (c *Changeset) IsEmpty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Changed) == 0
}

// Total returns the number of individual changes.
func (c *Changeset) Total() int {
	return len(c.Added) + len(c.Removed) + len(c.Changed)
}

// String returns a human-readable one-line summary of the changeset.
func (c *Changeset) String() string {
	if c.IsEmpty() {
		return "no changes"
	}

	var parts []string
	if len(c.Added) > 0 {
		parts = append(parts, fmt.Sprintf("%d added (%s)", len(c.Added), strings.Join(c.Added, ", ")))
	}
	if len(c.Changed) > 0 {
		names := make([]string, len(c.Changed))
		for i, ch := range c.Changed {
			names[i] = ch.Name
		}
		parts = append(parts, fmt.Sprintf("%d changed (%s)", len(c.Changed), strings.Join(names, ", ")))
	}
	if len(c.Removed) > 0 {
		parts = append(parts, fmt.Sprintf("%d removed (%s)", len(c.Removed), strings.Join(c.Removed, ", ")))
	}
	return strings.Join(parts, "; ")
}

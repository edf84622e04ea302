// Package registry holds the static table of client applications whose
// configuration files embed an MCP server map. The table is plain data
// passed into the engine at construction time, so tests can substitute a
// synthetic registry without touching the real filesystem layout.
package registry

import (
	"os"

	mcperrors "github.com/agentstation/mcpsync/pkg/errors"
)

// DefaultServersKey is the JSON key most clients store their server map
// under. Apps that deviate declare their own key in the table.
const DefaultServersKey = "mcpServers"

// App describes one registered client application.
type App struct {
	// ID is the stable identifier used on the command line.
	ID string

	// Name is the human-readable application name.
	Name string

	// Path is the absolute path of the app's configuration file on this
	// platform.
	Path string

	// ServersKey is the top-level JSON key holding the app's server map.
	ServersKey string
}

// AppStatus is an App plus an existence check, for informational listings.
type AppStatus struct {
	App

	// Exists reflects a filesystem check at call time.
	Exists bool
}

// Registry is an ordered, immutable collection of registered apps.
// Declaration order is load-bearing: it determines the file processing
// order and therefore the conflict tie-break order.
type Registry struct {
	apps []App
}

// New creates a registry from an explicit app table.
func New(apps ...App) *Registry {
	out := make([]App, len(apps))
	copy(out, apps)
	for i := range out {
		if out[i].ServersKey == "" {
			out[i].ServersKey = DefaultServersKey
		}
	}
	return &Registry{apps: out}
}

// Resolve returns the registered app for id.
func (r *Registry) Resolve(id string) (App, error) {
	for _, app := range r.apps {
		if app.ID == id {
			return app, nil
		}
	}
	return App{}, mcperrors.NewNotFoundError("app", id)
}

// Apps returns every registered app in declaration order, each with a
// point-in-time existence check. The check never mutates anything.
func (r *Registry) Apps() []AppStatus {
	out := make([]AppStatus, 0, len(r.apps))
	for _, app := range r.apps {
		info, err := os.Stat(app.Path)
		exists := err == nil && !info.IsDir()
		out = append(out, AppStatus{App: app, Exists: exists})
	}
	return out
}

// List returns every registered app in declaration order.
func (r *Registry) List() []App {
	out := make([]App, len(r.apps))
	copy(out, r.apps)
	return out
}

// Len returns the number of registered apps.
func (r *Registry) Len() int {
	return len(r.apps)
}

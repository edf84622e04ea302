// Package mcpsync unifies MCP server definitions across the configuration
// files of client applications. It discovers each application's config
// file, merges every server map into one registry with deterministic
// conflict resolution, and writes the union back with backups and atomic
// replacement.
package mcpsync

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/agentstation/mcpsync/pkg/logging"
	"github.com/agentstation/mcpsync/pkg/reconcile"
	"github.com/agentstation/mcpsync/pkg/registry"
	"github.com/agentstation/mcpsync/pkg/writer"
)

// Syncer reconciles MCP server definitions across configuration files
type Syncer interface {
	// Discover returns the target files this syncer operates on, in the
	// order that decides conflict tie-breaks.
	Discover() []writer.Target

	// Sync merges every target's server map and propagates the union back
	// to all targets. With dryRun the result carries the pending changes
	// and nothing is written.
	Sync(ctx context.Context, dryRun bool) (*Result, error)

	// ListServers merges without writing and returns the registry plus any
	// conflicts found.
	ListServers(ctx context.Context) (*reconcile.Registry, []reconcile.Conflict, error)

	// RemoveServers deletes the named servers from every target. Unknown
	// names fail the whole batch before any file is touched.
	RemoveServers(ctx context.Context, names []string, dryRun bool) (*Result, error)
}

// syncer is the internal implementation of the Syncer interface
type syncer struct {
	config *config
}

// New creates a new Syncer instance with the given options
func New(opts ...Option) (Syncer, error) {
	s := &syncer{
		config: &config{},
	}

	for _, opt := range opts {
		if err := opt(s.config); err != nil {
			return nil, fmt.Errorf("applying options: %w", err)
		}
	}

	if s.config.registry == nil {
		s.config.registry = registry.Default()
	}

	// Fail on unknown app IDs now, before any run can mutate files.
	for _, id := range s.config.appIDs {
		if _, err := s.config.registry.Resolve(id); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// logger returns the configured logger, falling back to the package
// default.
func (s *syncer) logger() *zerolog.Logger {
	if s.config.logger != nil {
		return s.config.logger
	}
	return logging.Default()
}

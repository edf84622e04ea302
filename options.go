package mcpsync

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/mcpsync/pkg/registry"
)

// Option is a function that configures a Syncer instance
type Option func(*config) error

// config holds the resolved configuration of a Syncer.
type config struct {
	registry    *registry.Registry
	configFiles []string
	appIDs      []string
	noBackup    bool
	logger      *zerolog.Logger
}

// WithRegistry replaces the built-in application table. Useful for tests
// and for callers managing their own set of client applications.
func WithRegistry(reg *registry.Registry) Option {
	return func(c *config) error {
		c.registry = reg
		return nil
	}
}

// WithConfigFiles syncs an explicit list of files instead of the registry's
// applications. The given order is preserved and decides conflict
// tie-breaks. Explicit files use the default "mcpServers" key.
func WithConfigFiles(paths ...string) Option {
	return func(c *config) error {
		c.configFiles = append(c.configFiles, paths...)
		return nil
	}
}

// WithApps restricts syncing to the named registry applications. Unknown
// IDs are rejected when the Syncer is constructed.
func WithApps(ids ...string) Option {
	return func(c *config) error {
		c.appIDs = append(c.appIDs, ids...)
		return nil
	}
}

// WithoutBackup disables the pre-write snapshots.
func WithoutBackup() Option {
	return func(c *config) error {
		c.noBackup = true
		return nil
	}
}

// WithLogger routes the engine's log events to the given logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = &logger
		return nil
	}
}

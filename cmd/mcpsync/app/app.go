// Package app provides the application container and dependency management
// for the mcpsync CLI. It centralizes configuration, logging, and engine
// construction so commands stay thin.
package app

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/mcpsync"
	"github.com/agentstation/mcpsync/pkg/registry"
)

// App represents the mcpsync application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Application registry shared by the engine and the apps command
	registry *registry.Registry

	// Syncer instance (lazy-initialized, singleton)
	mu     sync.RWMutex
	syncer mcpsync.Syncer
}

// New creates a new App instance with the given version information.
func New(version, commit, date string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.registry == nil {
		app.registry = registry.Default()
	}

	return app, nil
}

// Version returns the version string.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Registry returns the application registry.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Syncer returns the engine instance, creating it lazily if needed.
// Thread-safe; only one instance is created.
func (a *App) Syncer() (mcpsync.Syncer, error) {
	a.mu.RLock()
	if a.syncer != nil {
		s := a.syncer
		a.mu.RUnlock()
		return s, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.syncer != nil {
		return a.syncer, nil
	}

	s, err := mcpsync.New(a.buildSyncerOptions()...)
	if err != nil {
		return nil, err
	}

	a.syncer = s
	return s, nil
}

// buildSyncerOptions constructs engine options from the app configuration.
func (a *App) buildSyncerOptions() []mcpsync.Option {
	opts := []mcpsync.Option{
		mcpsync.WithLogger(*a.logger),
		mcpsync.WithRegistry(a.registry),
	}

	if len(a.config.ConfigFiles) > 0 {
		opts = append(opts, mcpsync.WithConfigFiles(a.config.ConfigFiles...))
	}
	if len(a.config.Apps) > 0 {
		opts = append(opts, mcpsync.WithApps(a.config.Apps...))
	}
	if a.config.NoBackup {
		opts = append(opts, mcpsync.WithoutBackup())
	}

	return opts
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithRegistry sets a custom application registry.
func WithRegistry(reg *registry.Registry) Option {
	return func(a *App) error {
		a.registry = reg
		return nil
	}
}

// WithSyncer sets a custom engine instance (useful for testing).
func WithSyncer(s mcpsync.Syncer) Option {
	return func(a *App) error {
		a.syncer = s
		return nil
	}
}

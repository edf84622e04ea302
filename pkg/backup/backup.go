// Package backup snapshots configuration files before the writer mutates
// them. Snapshots are sibling files named <original>.backup.<timestamp>,
// created at most once per file per run and never deleted by the engine.
package backup

import (
	"errors"
	"os"

	"github.com/agentstation/utc"

	mcperrors "github.com/agentstation/mcpsync/pkg/errors"
	"github.com/agentstation/mcpsync/pkg/logging"
)

// TimestampFormat is the ISO-8601 basic, filename-safe layout used in
// backup suffixes.
const TimestampFormat = "20060102T150405Z"

// Manager creates and tracks snapshots for a single run.
type Manager struct {
	// now is swappable for tests.
	now func() utc.Time

	created map[string]string // original path -> backup path
}

// NewManager returns a manager stamping snapshots with the current UTC
// time.
func NewManager() *Manager {
	return &Manager{
		now:     utc.Now,
		created: make(map[string]string),
	}
}

// NewManagerAt returns a manager using a fixed clock, for tests.
func NewManagerAt(now func() utc.Time) *Manager {
	return &Manager{
		now:     now,
		created: make(map[string]string),
	}
}

// Snapshot copies the current bytes of path to a timestamped sibling and
// returns the backup path. A file that does not exist needs no protection
// and yields an empty path. Repeated calls for the same path within one
// run return the first snapshot instead of creating another.
func (m *Manager) Snapshot(path string) (string, error) {
	if backupPath, ok := m.created[path]; ok {
		return backupPath, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", mcperrors.NewBackupError(path, err)
	}

	backupPath := path + ".backup." + m.now().Format(TimestampFormat)
	if err := os.WriteFile(backupPath, data, 0o644); err != nil {
		return "", mcperrors.NewBackupError(path, err)
	}

	m.created[path] = backupPath

	logging.Debug().
		Str("path", path).
		Str("backup", backupPath).
		Msg("Created backup")

	return backupPath, nil
}

// Created returns the backup path recorded for path in this run, if any.
func (m *Manager) Created(path string) (string, bool) {
	backupPath, ok := m.created[path]
	return backupPath, ok
}

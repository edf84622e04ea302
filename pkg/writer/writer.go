// Package writer rewrites the server-map key of each target configuration
// file with the merged registry, preserving every other key. Real writes
// are backup-protected and atomic; dry runs compute the same per-file
// changesets without touching disk.
package writer

import (
	"os"
	"path/filepath"

	"github.com/agentstation/mcpsync/pkg/backup"
	"github.com/agentstation/mcpsync/pkg/differ"
	"github.com/agentstation/mcpsync/pkg/document"
	mcperrors "github.com/agentstation/mcpsync/pkg/errors"
	"github.com/agentstation/mcpsync/pkg/logging"
)

// Target is one file to rewrite and the key its server map lives under.
type Target struct {
	Path       string
	ServersKey string
}

// Status is the per-file result of an apply.
type Status string

const (
	// StatusWritten means the file was rewritten on disk.
	StatusWritten Status = "written"

	// StatusWouldWrite means a dry run detected pending changes.
	StatusWouldWrite Status = "would-write"

	// StatusUnchanged means the file already matches the registry.
	StatusUnchanged Status = "unchanged"

	// StatusFailed means the file could not be processed; Err says why.
	StatusFailed Status = "failed"
)

// Outcome reports what happened (or would happen) to one target file.
type Outcome struct {
	Path       string
	Status     Status
	BackupPath string
	Changes    *differ.Changeset
	Err        error
}

// Options control an apply pass.
type Options struct {
	// DryRun computes changesets without mutating anything.
	DryRun bool

	// NoBackup skips the pre-write snapshot.
	NoBackup bool
}

// Writer applies a merged server map to target files.
type Writer struct {
	backups *backup.Manager
}

// New creates a writer using the given backup manager. Sharing one manager
// across calls within a run preserves the one-backup-per-file guarantee.
func New(backups *backup.Manager) *Writer {
	return &Writer{backups: backups}
}

// Apply processes every target independently: a failure on one file is
// recorded in its outcome and never stops the others.
func (w *Writer) Apply(targets []Target, servers *document.ServerMap, opts Options) []Outcome {
	outcomes := make([]Outcome, 0, len(targets))
	for _, target := range targets {
		outcomes = append(outcomes, w.applyOne(target, servers, opts))
	}
	return outcomes
}

// applyOne rewrites a single file. The file is reloaded here so keys other
// than the server-map key are carried over from the current on-disk state.
func (w *Writer) applyOne(target Target, servers *document.ServerMap, opts Options) Outcome {
	outcome := Outcome{Path: target.Path}

	doc, err := document.Load(target.Path)
	if err != nil {
		outcome.Status = StatusFailed
		outcome.Err = err
		return outcome
	}

	current, err := doc.ServerMap(target.ServersKey)
	if err != nil {
		outcome.Status = StatusFailed
		outcome.Err = err
		return outcome
	}

	outcome.Changes = differ.Diff(current, servers)
	if outcome.Changes.IsEmpty() {
		// Covers both an up-to-date file and a missing file with an
		// empty registry; neither warrants touching disk.
		outcome.Status = StatusUnchanged
		return outcome
	}

	if opts.DryRun {
		outcome.Status = StatusWouldWrite
		return outcome
	}

	if !opts.NoBackup && doc.Exists() {
		backupPath, err := w.backups.Snapshot(target.Path)
		if err != nil {
			// Never mutate a file whose snapshot failed.
			outcome.Status = StatusFailed
			outcome.Err = err
			return outcome
		}
		outcome.BackupPath = backupPath
	}

	doc.SetServerMap(target.ServersKey, servers)
	data, err := doc.Encode()
	if err != nil {
		outcome.Status = StatusFailed
		outcome.Err = mcperrors.NewWriteError(target.Path, err)
		return outcome
	}

	if err := writeAtomic(target.Path, data); err != nil {
		outcome.Status = StatusFailed
		outcome.Err = err
		return outcome
	}

	logging.Info().
		Str("path", target.Path).
		Str("changes", outcome.Changes.String()).
		Msg("Wrote unified config")

	outcome.Status = StatusWritten
	return outcome
}

// writeAtomic writes data to a temporary file in the target's directory
// and renames it over the target, so a crash mid-write never leaves a
// truncated file behind.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return mcperrors.NewWriteError(path, err)
	}

	tmp, err := os.CreateTemp(dir, ".mcpsync-*.tmp")
	if err != nil {
		return mcperrors.NewWriteError(path, err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return mcperrors.NewWriteError(path, err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return mcperrors.NewWriteError(path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return mcperrors.NewWriteError(path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return mcperrors.NewWriteError(path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return mcperrors.NewWriteError(path, err)
	}
	return nil
}

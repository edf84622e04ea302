package mcpsync

import (
	"context"

	"github.com/agentstation/mcpsync/pkg/backup"
	"github.com/agentstation/mcpsync/pkg/document"
	mcperrors "github.com/agentstation/mcpsync/pkg/errors"
	"github.com/agentstation/mcpsync/pkg/reconcile"
	"github.com/agentstation/mcpsync/pkg/registry"
	"github.com/agentstation/mcpsync/pkg/writer"
)

// Code summarizes a run for callers that map results to exit codes.
type Code int

const (
	// OK means every file was processed and no conflicts were found.
	OK Code = iota

	// OKWithConflicts means every file was processed but some server names
	// had diverging definitions, resolved first-seen-wins.
	OKWithConflicts

	// PartialFailure means some files failed while others were processed.
	PartialFailure

	// HardFailure means no file could be processed at all.
	HardFailure
)

// String returns the human-readable form of the code.
func (c Code) String() string {
	switch c {
	case OK:
		return "ok"
	case OKWithConflicts:
		return "ok (conflicts)"
	case PartialFailure:
		return "partial failure"
	case HardFailure:
		return "hard failure"
	default:
		return "unknown"
	}
}

// Result reports everything a run produced: the merged registry, the
// conflicts encountered while merging, and one outcome per target file.
type Result struct {
	// Registry is the merged server set the run propagated (or, in a dry
	// run, would propagate).
	Registry *reconcile.Registry

	// Conflicts lists every server name whose definitions diverged across
	// files, with the winning and losing variants.
	Conflicts []reconcile.Conflict

	// Outcomes has one entry per discovered target, in discovery order.
	Outcomes []writer.Outcome
}

// FailedFiles returns the outcomes of targets that could not be processed.
func (r *Result) FailedFiles() []writer.Outcome {
	var failed []writer.Outcome
	for _, out := range r.Outcomes {
		if out.Status == writer.StatusFailed {
			failed = append(failed, out)
		}
	}
	return failed
}

// Code classifies the run. A run with zero targets, or where every target
// failed, is a hard failure; a mix of failures and successes is partial.
func (r *Result) Code() Code {
	if len(r.Outcomes) == 0 {
		return HardFailure
	}
	failed := len(r.FailedFiles())
	switch {
	case failed == len(r.Outcomes):
		return HardFailure
	case failed > 0:
		return PartialFailure
	case len(r.Conflicts) > 0:
		return OKWithConflicts
	default:
		return OK
	}
}

// Discover returns the target files in processing order: the explicit file
// list when one was configured, otherwise the configured apps, otherwise
// every registered app. Order is load-bearing; conflicts resolve in favor
// of the earliest target.
func (s *syncer) Discover() []writer.Target {
	if len(s.config.configFiles) > 0 {
		targets := make([]writer.Target, 0, len(s.config.configFiles))
		for _, path := range s.config.configFiles {
			targets = append(targets, writer.Target{
				Path:       path,
				ServersKey: registry.DefaultServersKey,
			})
		}
		return targets
	}

	apps := s.config.registry.List()
	if len(s.config.appIDs) > 0 {
		selected := make([]registry.App, 0, len(s.config.appIDs))
		for _, id := range s.config.appIDs {
			// Validated in New; Resolve cannot fail here.
			app, _ := s.config.registry.Resolve(id)
			selected = append(selected, app)
		}
		apps = selected
	}

	targets := make([]writer.Target, 0, len(apps))
	for _, app := range apps {
		targets = append(targets, writer.Target{
			Path:       app.Path,
			ServersKey: app.ServersKey,
		})
	}
	return targets
}

// load reads every target and splits the results into mergeable sources
// and failed outcomes. A file that fails to parse is reported and excluded
// from both the merge and the write-back; the run continues.
func (s *syncer) load(ctx context.Context, targets []writer.Target) ([]reconcile.Source, map[string]writer.Outcome, error) {
	sources := make([]reconcile.Source, 0, len(targets))
	failures := make(map[string]writer.Outcome)

	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		doc, err := document.Load(target.Path)
		if err == nil {
			var servers *document.ServerMap
			servers, err = doc.ServerMap(target.ServersKey)
			if err == nil {
				sources = append(sources, reconcile.Source{
					Path:       target.Path,
					ServersKey: target.ServersKey,
					Servers:    servers,
				})
				continue
			}
		}

		s.logger().Warn().
			Str("path", target.Path).
			Err(err).
			Msg("Skipping unreadable config file")
		failures[target.Path] = writer.Outcome{
			Path:   target.Path,
			Status: writer.StatusFailed,
			Err:    err,
		}
	}

	return sources, failures, nil
}

// apply propagates the registry to every target that loaded cleanly and
// assembles outcomes in discovery order, folding the load failures back in.
func (s *syncer) apply(targets []writer.Target, failures map[string]writer.Outcome, reg *reconcile.Registry, dryRun bool) []writer.Outcome {
	writable := make([]writer.Target, 0, len(targets))
	for _, target := range targets {
		if _, failed := failures[target.Path]; !failed {
			writable = append(writable, target)
		}
	}

	w := writer.New(backup.NewManager())
	applied := w.Apply(writable, reg.ServerMap(), writer.Options{
		DryRun:   dryRun,
		NoBackup: s.config.noBackup,
	})

	outcomes := make([]writer.Outcome, 0, len(targets))
	next := 0
	for _, target := range targets {
		if failure, ok := failures[target.Path]; ok {
			outcomes = append(outcomes, failure)
			continue
		}
		outcomes = append(outcomes, applied[next])
		next++
	}
	return outcomes
}

// Sync merges all targets and writes the union back to each of them.
func (s *syncer) Sync(ctx context.Context, dryRun bool) (*Result, error) {
	targets := s.Discover()
	if len(targets) == 0 {
		return nil, mcperrors.ErrNothingToSync
	}

	sources, failures, err := s.load(ctx, targets)
	if err != nil {
		return nil, err
	}

	reg, conflicts := reconcile.Merge(sources)
	s.logger().Info().
		Int("servers", reg.Len()).
		Int("conflicts", len(conflicts)).
		Int("files", len(sources)).
		Bool("dry_run", dryRun).
		Msg("Merged server definitions")

	return &Result{
		Registry:  reg,
		Conflicts: conflicts,
		Outcomes:  s.apply(targets, failures, reg, dryRun),
	}, nil
}

// ListServers merges all targets without writing anything back.
func (s *syncer) ListServers(ctx context.Context) (*reconcile.Registry, []reconcile.Conflict, error) {
	targets := s.Discover()
	if len(targets) == 0 {
		return nil, nil, mcperrors.ErrNothingToSync
	}

	sources, _, err := s.load(ctx, targets)
	if err != nil {
		return nil, nil, err
	}

	reg, conflicts := reconcile.Merge(sources)
	return reg, conflicts, nil
}

// RemoveServers deletes the named servers from the merged set and writes
// the reduced set back to every target. The whole batch is validated
// against the merged registry first; any unknown name aborts the run
// before a single file is touched.
func (s *syncer) RemoveServers(ctx context.Context, names []string, dryRun bool) (*Result, error) {
	if len(names) == 0 {
		return nil, mcperrors.NewValidationError("names", nil, "no server names given")
	}

	targets := s.Discover()
	if len(targets) == 0 {
		return nil, mcperrors.ErrNothingToSync
	}

	sources, failures, err := s.load(ctx, targets)
	if err != nil {
		return nil, err
	}

	merged, conflicts := reconcile.Merge(sources)
	reduced, err := merged.Remove(names...)
	if err != nil {
		return nil, err
	}

	s.logger().Info().
		Strs("servers", names).
		Bool("dry_run", dryRun).
		Msg("Removing server definitions")

	return &Result{
		Registry:  reduced,
		Conflicts: conflicts,
		Outcomes:  s.apply(targets, failures, reduced, dryRun),
	}, nil
}

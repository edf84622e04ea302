package app

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/mcpsync"
	"github.com/agentstation/mcpsync/internal/cmd/output"
	"github.com/agentstation/mcpsync/pkg/reconcile"
	"github.com/agentstation/mcpsync/pkg/writer"
)

// NewSyncCommand creates the sync command.
func (a *App) NewSyncCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Merge server definitions and write the union to every config",
		Long: `Sync reads the server map of every target config file, merges them
into one set (first file wins when definitions of the same name differ),
and writes the merged set back to each file.

Every modified file gets a timestamped sibling backup first, and the
replacement is atomic.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			syncer, err := a.Syncer()
			if err != nil {
				return err
			}

			result, err := syncer.Sync(cmd.Context(), dryRun)
			if err != nil {
				return err
			}

			if err := a.renderResult(cmd, result); err != nil {
				return err
			}
			return exitForResult(result)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report pending changes without writing")
	a.addTargetFlags(cmd)

	return cmd
}

// NewListCommand creates the list command.
func (a *App) NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the merged server definitions across all configs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			syncer, err := a.Syncer()
			if err != nil {
				return err
			}

			reg, conflicts, err := syncer.ListServers(cmd.Context())
			if err != nil {
				return err
			}

			format := output.DetectFormat(a.config.Format)
			if format == output.FormatTable || format == output.FormatWide {
				formatter := output.NewFormatter(format)
				if err := formatter.Format(cmd.OutOrStdout(), output.Servers(reg, format == output.FormatWide)); err != nil {
					return err
				}
				if len(conflicts) > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "\n%d conflicting definitions (first file wins):\n", len(conflicts))
					return formatter.Format(cmd.OutOrStdout(), output.Conflicts(conflicts))
				}
				return nil
			}

			report := struct {
				Servers   []serverReport   `json:"servers"`
				Conflicts []conflictReport `json:"conflicts,omitempty"`
			}{
				Servers:   serverReports(reg),
				Conflicts: conflictReports(conflicts),
			}
			return output.NewFormatter(format).Format(cmd.OutOrStdout(), report)
		},
	}

	a.addTargetFlags(cmd)

	return cmd
}

// NewRemoveCommand creates the remove command.
func (a *App) NewRemoveCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "remove NAME...",
		Short: "Remove named servers from every config",
		Long: `Remove deletes the named server definitions from every target config
file. The whole batch is validated against the merged server set first;
if any name is unknown, nothing is removed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			syncer, err := a.Syncer()
			if err != nil {
				return err
			}

			result, err := syncer.RemoveServers(cmd.Context(), args, dryRun)
			if err != nil {
				return err
			}

			if err := a.renderResult(cmd, result); err != nil {
				return err
			}
			return exitForResult(result)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report pending changes without writing")
	a.addTargetFlags(cmd)

	return cmd
}

// NewAppsCommand creates the apps command.
func (a *App) NewAppsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "apps",
		Short: "List the known client applications and their config files",
		RunE: func(cmd *cobra.Command, _ []string) error {
			statuses := a.registry.Apps()

			format := output.DetectFormat(a.config.Format)
			if format == output.FormatTable || format == output.FormatWide {
				return output.NewFormatter(format).Format(cmd.OutOrStdout(), output.Apps(statuses))
			}
			return output.NewFormatter(format).Format(cmd.OutOrStdout(), statuses)
		},
	}
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mcpsync %s (commit %s, built %s)\n", a.version, a.commit, a.date)
		},
	}
}

// addTargetFlags adds the flags that narrow which files a command
// operates on. They feed the lazily-built engine via the app config.
func (a *App) addTargetFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&a.config.ConfigFiles, "config-files", a.config.ConfigFiles, "explicit config files to sync (overrides --apps)")
	cmd.Flags().StringSliceVar(&a.config.Apps, "apps", a.config.Apps, "restrict to these registered app IDs")
	cmd.Flags().BoolVar(&a.config.NoBackup, "no-backup", a.config.NoBackup, "skip pre-write backups")
}

// renderResult prints a run result in the configured format.
func (a *App) renderResult(cmd *cobra.Command, result *mcpsync.Result) error {
	for _, conflict := range result.Conflicts {
		a.logger.Warn().
			Str("server", conflict.Name).
			Str("kept_from", conflict.Winner.Path).
			Int("variants", len(conflict.Losers)+1).
			Msg("Conflicting definitions, first file wins")
	}

	format := output.DetectFormat(a.config.Format)
	if format == output.FormatTable || format == output.FormatWide {
		return output.NewFormatter(format).Format(cmd.OutOrStdout(), outcomesData(result.Outcomes))
	}

	report := struct {
		Status    string           `json:"status"`
		Servers   []serverReport   `json:"servers"`
		Conflicts []conflictReport `json:"conflicts,omitempty"`
		Files     []fileReport     `json:"files"`
	}{
		Status:    result.Code().String(),
		Servers:   serverReports(result.Registry),
		Conflicts: conflictReports(result.Conflicts),
		Files:     fileReports(result.Outcomes),
	}
	return output.NewFormatter(format).Format(cmd.OutOrStdout(), report)
}

// exitForResult maps a run result to the process exit code contract:
// 0 for success (conflicts included), 1 for hard failure, 2 for partial.
func exitForResult(result *mcpsync.Result) error {
	switch result.Code() {
	case mcpsync.PartialFailure:
		return &ExitError{
			Code: 2,
			Err:  fmt.Errorf("%d of %d files failed", len(result.FailedFiles()), len(result.Outcomes)),
		}
	case mcpsync.HardFailure:
		return &ExitError{
			Code: 1,
			Err:  fmt.Errorf("no config file could be processed"),
		}
	default:
		return nil
	}
}

type serverReport struct {
	Name       string          `json:"name"`
	Definition json.RawMessage `json:"definition"`
	Origins    []string        `json:"origins"`
}

type conflictReport struct {
	Name      string   `json:"name"`
	KeptFrom  string   `json:"kept_from"`
	DiffersIn []string `json:"differs_in"`
}

type fileReport struct {
	Path    string `json:"path"`
	Status  string `json:"status"`
	Backup  string `json:"backup,omitempty"`
	Changes string `json:"changes,omitempty"`
	Error   string `json:"error,omitempty"`
}

func serverReports(reg *reconcile.Registry) []serverReport {
	reports := make([]serverReport, 0, reg.Len())
	for _, name := range reg.Sorted() {
		entry, _ := reg.Get(name)
		reports = append(reports, serverReport{
			Name:       entry.Name,
			Definition: entry.Definition,
			Origins:    entry.Origins,
		})
	}
	return reports
}

func conflictReports(conflicts []reconcile.Conflict) []conflictReport {
	reports := make([]conflictReport, 0, len(conflicts))
	for _, conflict := range conflicts {
		report := conflictReport{
			Name:     conflict.Name,
			KeptFrom: conflict.Winner.Path,
		}
		for _, loser := range conflict.Losers {
			report.DiffersIn = append(report.DiffersIn, loser.Path)
		}
		reports = append(reports, report)
	}
	return reports
}

func fileReports(outcomes []writer.Outcome) []fileReport {
	reports := make([]fileReport, 0, len(outcomes))
	for _, out := range outcomes {
		report := fileReport{
			Path:   out.Path,
			Status: string(out.Status),
			Backup: out.BackupPath,
		}
		if out.Changes != nil {
			report.Changes = out.Changes.String()
		}
		if out.Err != nil {
			report.Error = out.Err.Error()
		}
		reports = append(reports, report)
	}
	return reports
}

// outcomesData renders outcomes as a table.
func outcomesData(outcomes []writer.Outcome) output.Data {
	data := output.Data{Headers: []string{"File", "Status", "Changes", "Backup"}}
	for _, out := range outcomes {
		changes := ""
		if out.Changes != nil {
			changes = out.Changes.String()
		}
		if out.Err != nil {
			changes = out.Err.Error()
		}
		data.Rows = append(data.Rows, []string{out.Path, string(out.Status), changes, out.BackupPath})
	}
	return data
}

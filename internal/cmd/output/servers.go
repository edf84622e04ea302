package output

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/agentstation/mcpsync/pkg/reconcile"
	"github.com/agentstation/mcpsync/pkg/registry"
)

// serverDetails is the subset of an MCP server definition the table views
// display. Unknown fields pass through the engine untouched; they are only
// ignored here.
type serverDetails struct {
	Command string            `json:"command"`
	Args    []string          `json:"args"`
	Env     map[string]string `json:"env"`
	URL     string            `json:"url"`
	Type    string            `json:"type"`
}

// Servers renders the merged registry as a table, lexically sorted. Wide
// adds the args and env columns.
func Servers(reg *reconcile.Registry, wide bool) Data {
	data := Data{Headers: []string{"Name", "Command", "Origins"}}
	if wide {
		data.Headers = []string{"Name", "Command", "Args", "Env", "Origins"}
	}

	for _, name := range reg.Sorted() {
		entry, _ := reg.Get(name)

		var details serverDetails
		// Definitions the clients accept but we cannot decode still get a
		// row; the detail columns just stay blank.
		_ = json.Unmarshal(entry.Definition, &details)

		command := details.Command
		if command == "" {
			command = details.URL
		}

		row := []string{name, command, strings.Join(entry.Origins, ", ")}
		if wide {
			row = []string{
				name,
				command,
				strings.Join(details.Args, " "),
				envSummary(details.Env),
				strings.Join(entry.Origins, ", "),
			}
		}
		data.Rows = append(data.Rows, row)
	}
	return data
}

// Conflicts renders one row per losing variant so every divergence is
// visible next to the definition that won.
func Conflicts(conflicts []reconcile.Conflict) Data {
	data := Data{Headers: []string{"Name", "Kept From", "Differs In"}}
	for _, conflict := range conflicts {
		for _, loser := range conflict.Losers {
			data.Rows = append(data.Rows, []string{
				conflict.Name,
				conflict.Winner.Path,
				loser.Path,
			})
		}
	}
	return data
}

// Apps renders the application registry with a config-file existence
// check.
func Apps(statuses []registry.AppStatus) Data {
	data := Data{Headers: []string{"ID", "Name", "Config Path", "Found"}}
	for _, status := range statuses {
		found := "no"
		if status.Exists {
			found = "yes"
		}
		data.Rows = append(data.Rows, []string{status.ID, status.Name, status.Path, found})
	}
	return data
}

// envSummary lists env variable names only. Values routinely hold tokens
// and must never reach the terminal.
func envSummary(env map[string]string) string {
	if len(env) == 0 {
		return ""
	}
	names := make([]string, 0, len(env))
	for name := range env {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

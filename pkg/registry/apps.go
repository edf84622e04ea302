package registry

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default returns the built-in table of known MCP client applications with
// their platform-specific configuration paths.
//
// Path conventions per platform come from xdg, which maps ConfigHome to
// ~/.config on Linux and ~/Library/Application Support on macOS; apps that
// ignore platform conventions (dotfiles in $HOME) are joined against the
// home directory directly.
func Default() *Registry {
	home := homeDir()

	return New(
		App{
			ID:   "claude-desktop",
			Name: "Claude Desktop",
			Path: filepath.Join(xdg.ConfigHome, "Claude", "claude_desktop_config.json"),
		},
		App{
			ID:   "claude-code",
			Name: "Claude Code",
			Path: filepath.Join(home, ".claude.json"),
		},
		App{
			ID:   "cursor",
			Name: "Cursor",
			Path: filepath.Join(home, ".cursor", "mcp.json"),
		},
		App{
			ID:   "cline",
			Name: "Cline",
			Path: filepath.Join(xdg.ConfigHome, "Code", "User", "globalStorage",
				"saoudrizwan.claude-dev", "settings", "cline_mcp_settings.json"),
		},
		App{
			ID:   "windsurf",
			Name: "Windsurf",
			Path: filepath.Join(home, ".codeium", "windsurf", "mcp_config.json"),
		},
		App{
			ID:   "amazon-q",
			Name: "Amazon Q",
			Path: filepath.Join(home, ".aws", "amazonq", "mcp.json"),
		},
		App{
			ID:         "vscode",
			Name:       "VS Code",
			Path:       filepath.Join(xdg.ConfigHome, "Code", "User", "mcp.json"),
			ServersKey: "servers",
		},
	)
}

// homeDir returns the user home directory, falling back to xdg.Home when
// the environment is stripped.
func homeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return xdg.Home
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Colors holds color values for every output style.
// Values can be xterm-256 codes (0-255) or hex colors (#rrggbb).
type Colors struct {
	Title      string   `toml:"title"`
	Header     string   `toml:"header"`
	Running    string   `toml:"running"`
	Stopped    string   `toml:"stopped"`
	Waiting    string   `toml:"waiting"`
	Permission string   `toml:"permission"`
	Lead       string   `toml:"lead"`
	Error      string   `toml:"error"`
	Warning    string   `toml:"warning"`
	Help       string   `toml:"help"`
	Border     string   `toml:"border"`
	Dim        string   `toml:"dim"`
	Members    []string `toml:"members"` // cycled through when attributing followed output
}

// Paths holds the directories teamctl reads and writes. Empty values are
// resolved at startup (see TeamsDir).
type Paths struct {
	TeamsDir  string `toml:"teams_dir"`
	AgentsDir string `toml:"agents_dir"`
	StateDir  string `toml:"state_dir"`
}

// Tmux holds settings for the tmux-backed agent sessions.
type Tmux struct {
	SessionPrefix string `toml:"session_prefix"`
	Launcher      string `toml:"launcher"`
	HistoryLimit  int    `toml:"history_limit"`
}

// Monitor holds defaults for the monitor command.
type Monitor struct {
	Lines        int      `toml:"lines"`
	PollInterval Duration `toml:"poll_interval"`
	Buffer       int      `toml:"buffer"`
}

type Log struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Config is the top-level configuration.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Tmux    Tmux    `toml:"tmux"`
	Monitor Monitor `toml:"monitor"`
	Log     Log     `toml:"log"`
	Colors  Colors  `toml:"colors"`
}

// Duration is a time.Duration written as a string such as "3s" in the file.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns a Config populated with the built-in defaults.
func Default() Config {
	return Config{
		Tmux: Tmux{
			SessionPrefix: "agent-",
			Launcher:      "claude",
			HistoryLimit:  10000,
		},
		Monitor: Monitor{
			Lines:        50,
			PollInterval: Duration{3 * time.Second},
			Buffer:       64,
		},
		Log: Log{
			Level: "warn",
		},
		Colors: Colors{
			Title:      "#cba6f7", // Mauve
			Header:     "#89b4fa", // Blue
			Running:    "#a6e3a1", // Green
			Stopped:    "#7f849c", // Overlay 1
			Waiting:    "#f9e2af", // Yellow
			Permission: "#fab387", // Peach
			Lead:       "#74c7ec", // Sapphire
			Error:      "#f38ba8", // Red
			Warning:    "#fab387", // Peach
			Help:       "#7f849c", // Overlay 1
			Border:     "#585b70", // Surface 2
			Dim:        "#6c7086", // Overlay 0
			Members: []string{
				"#89b4fa", // Blue
				"#a6e3a1", // Green
				"#f5c2e7", // Pink
				"#f9e2af", // Yellow
				"#94e2d5", // Teal
				"#b4befe", // Lavender
				"#fab387", // Peach
				"#eba0ac", // Maroon
			},
		},
	}
}

// Dir returns the teamctl config directory, respecting XDG_CONFIG_HOME.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "teamctl")
}

// Path returns the config file path.
func Path() string {
	return filepath.Join(Dir(), "teamctl.conf")
}

// Load reads the config file at path and returns a Config. Omitted fields
// keep their default values. If the file does not exist, defaults are
// returned with no error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

const defaultFileContent = `# teamctl configuration
# Uncomment and modify values to customize. All values are optional.
# Colors can be hex (#rrggbb) or xterm-256 codes (0-255).

[paths]
# teams_dir  = ""   # default: $TEAMS_DIR, $REPO_ROOT/teams, <git root>/teams, ./teams
# agents_dir = ""   # default: <teams_dir>/../agents
# state_dir  = ""   # default: ~/.config/teamctl/state

[tmux]
# session_prefix = "agent-"
# launcher       = "claude"   # command run in new agent sessions
# history_limit  = 10000

[monitor]
# lines         = 50     # lines shown per member without --follow
# poll_interval = "3s"   # how often stopped members are re-checked
# buffer        = 64     # lines queued between readers and the terminal

[log]
# level = "warn"   # debug, info, warn, error
# file  = ""       # write JSON logs here instead of stderr

[colors]
# title      = "#cba6f7"  # Mauve
# header     = "#89b4fa"  # Blue
# running    = "#a6e3a1"  # Green
# stopped    = "#7f849c"  # Overlay 1
# waiting    = "#f9e2af"  # Yellow
# permission = "#fab387"  # Peach
# lead       = "#74c7ec"  # Sapphire
# error      = "#f38ba8"  # Red
# warning    = "#fab387"  # Peach
# help       = "#7f849c"  # Overlay 1
# border     = "#585b70"  # Surface 2
# dim        = "#6c7086"  # Overlay 0
# members    = ["#89b4fa", "#a6e3a1", "#f5c2e7", "#f9e2af", "#94e2d5", "#b4befe", "#fab387", "#eba0ac"]
`

// WriteDefault writes the default config file with all values commented out.
// It no-ops if the file already exists. Parent directories are created as needed.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil // file already exists
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, []byte(defaultFileContent), 0o644)
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Colors holds color values for every UI style.
// Values can be xterm-256 codes (0-255) or hex colors (#rrggbb).
type Colors struct {
	Title        string `toml:"title"`
	Header       string `toml:"header"`
	SelectedBG   string `toml:"selected_bg"`
	SelectedFG   string `toml:"selected_fg"`
	UserMessage  string `toml:"user_message"`
	AgentMessage string `toml:"agent_message"`
	PendingSend  string `toml:"pending_send"`
	Installed    string `toml:"installed"`
	Pending      string `toml:"pending"`
	Failed       string `toml:"failed"`
	Notification string `toml:"notification"`
	Success      string `toml:"success"`
	Help         string `toml:"help"`
	Border       string `toml:"border"`
	Separator    string `toml:"separator"`
	FormTitle    string `toml:"form_title"`
	FormActive   string `toml:"form_active"`
	FormDim      string `toml:"form_dim"`
	Error        string `toml:"error"`
	Logo         string `toml:"logo"`
	Team         string `toml:"team"`
}

// Monitor holds team-monitor connection and cadence settings. Durations are
// strings in Go duration syntax ("3s", "500ms").
type Monitor struct {
	APIBaseURL     string `toml:"api_base_url"`
	PollInterval   string `toml:"poll_interval"`
	RequestTimeout string `toml:"request_timeout"`
}

// PollDuration parses the poll interval, falling back to the default on bad
// or missing input.
func (m Monitor) PollDuration() time.Duration {
	if d, err := time.ParseDuration(m.PollInterval); err == nil && d > 0 {
		return d
	}
	return 3 * time.Second
}

// TimeoutDuration parses the request timeout with the same fallback rule.
func (m Monitor) TimeoutDuration() time.Duration {
	if d, err := time.ParseDuration(m.RequestTimeout); err == nil && d > 0 {
		return d
	}
	return 10 * time.Second
}

// Config is the top-level configuration.
type Config struct {
	Colors  Colors  `toml:"colors"`
	Monitor Monitor `toml:"monitor"`
}

// Default returns a Config populated with the current hardcoded defaults.
func Default() Config {
	return Config{
		Colors: Colors{
			Title:        "#cba6f7", // Mauve
			Header:       "#89b4fa", // Blue
			SelectedBG:   "#313244", // Surface 0
			SelectedFG:   "#cdd6f4", // Text
			UserMessage:  "#cdd6f4", // Text
			AgentMessage: "#89b4fa", // Blue
			PendingSend:  "#7f849c", // Overlay 1
			Installed:    "#a6e3a1", // Green
			Pending:      "#f9e2af", // Yellow
			Failed:       "#f38ba8", // Red
			Notification: "#a6adc8", // Subtext 0
			Success:      "#a6e3a1", // Green
			Help:         "#7f849c", // Overlay 1
			Border:       "#585b70", // Surface 2
			Separator:    "#585b70", // Surface 2
			FormTitle:    "#cba6f7", // Mauve
			FormActive:   "#cba6f7", // Mauve
			FormDim:      "#7f849c", // Overlay 1
			Error:        "#f38ba8", // Red
			Logo:         "#cba6f7", // Mauve
			Team:         "#74c7ec", // Sapphire
		},
		Monitor: Monitor{
			APIBaseURL:     "http://127.0.0.1:8420/api",
			PollInterval:   "3s",
			RequestTimeout: "10s",
		},
	}
}

// Path returns the config file path, respecting XDG_CONFIG_HOME.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "agentdeck", "agentdeck.conf")
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
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

const defaultFileContent = `# agentdeck configuration
# Uncomment and modify values to customize. All values are optional.
# Colors can be hex (#rrggbb) or xterm-256 codes (0-255).
# Defaults use the Catppuccin Mocha palette.

[monitor]
# api_base_url    = "http://127.0.0.1:8420/api"
# poll_interval   = "3s"
# request_timeout = "10s"

[colors]
# title         = "#cba6f7"  # Mauve
# header        = "#89b4fa"  # Blue
# selected_bg   = "#313244"  # Surface 0
# selected_fg   = "#cdd6f4"  # Text
# user_message  = "#cdd6f4"  # Text
# agent_message = "#89b4fa"  # Blue
# pending_send  = "#7f849c"  # Overlay 1
# installed     = "#a6e3a1"  # Green
# pending       = "#f9e2af"  # Yellow
# failed        = "#f38ba8"  # Red
# notification  = "#a6adc8"  # Subtext 0
# success       = "#a6e3a1"  # Green
# help          = "#7f849c"  # Overlay 1
# border        = "#585b70"  # Surface 2
# separator     = "#585b70"  # Surface 2
# form_title    = "#cba6f7"  # Mauve
# form_active   = "#cba6f7"  # Mauve
# form_dim      = "#7f849c"  # Overlay 1
# error         = "#f38ba8"  # Red
# logo          = "#cba6f7"  # Mauve
# team          = "#74c7ec"  # Sapphire
`

// WriteDefault writes the default config file with all values commented out.
// It no-ops if the file already exists. Parent directories are created as
// needed.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil // file already exists
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, []byte(defaultFileContent), 0o644)
}

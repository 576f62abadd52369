package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// BasicAuthConfig holds HTTP Basic Auth credentials for the subscription
// server.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Input is the schedule export to convert: a local CSV path or an
	// http(s) URL.
	Input string `yaml:"input" json:"input"`

	// Output is the path the generated .ics document is written to in
	// one-shot and watch modes.
	Output string `yaml:"output" json:"output"`

	// CalendarName is the display name stamped on the generated calendar.
	CalendarName string `yaml:"calendar_name" json:"calendar_name"`

	// DataOffset is the row index where the student identity line and the
	// course rows begin in the export.
	DataOffset int `yaml:"data_offset" json:"data_offset"`

	// MinRowFields is the minimum ordered field count of a course row.
	MinRowFields int `yaml:"min_row_fields" json:"min_row_fields"`

	// RefreshCron is a cron-style schedule (e.g. "0 * * * *") used by
	// watch mode to re-run the conversion.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// Listen is the HTTP listen address for the subscription server.
	// Empty disables serving.
	Listen string `yaml:"listen" json:"listen"`

	// CacheDir is where URL inputs cache their bodies and HTTP validators.
	CacheDir string `yaml:"cache_dir" json:"cache_dir"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// BasicAuth, if non-nil, protects all server endpoints except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Input:        "courses.csv",
		Output:       "courses.ics",
		CalendarName: "Course Schedule",
		DataOffset:   3,
		MinRowFields: 14,
		RefreshCron:  "0 * * * *",
		Listen:       "",
		CacheDir:     "./var/export-cache",
		LogLevel:     "info",
	}
}

// Normalize fills missing/zero values with defaults so partially-filled
// configs still behave correctly.
func (c *Config) Normalize() {
	if c.Output == "" {
		c.Output = "courses.ics"
	}
	if c.CalendarName == "" {
		c.CalendarName = "Course Schedule"
	}
	if c.DataOffset <= 0 {
		c.DataOffset = 3
	}
	if c.MinRowFields <= 0 {
		c.MinRowFields = 14
	}
	if c.RefreshCron == "" {
		c.RefreshCron = "0 * * * *"
	}
	if c.CacheDir == "" {
		c.CacheDir = "./var/export-cache"
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		c.LogLevel = "info"
	}
}

// Load loads configuration from the given YAML path. If the file does not
// exist, a default config is written there (0600) and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the configuration to path atomically (temp file + rename)
// with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".coursecal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultOutputFile is the calendar filename used when -out is not given.
const DefaultOutputFile = "inacap_horario.ics"

// Config is the top-level application configuration. Values merge in
// order: defaults, YAML file, CLI flags (flags win).
type Config struct {
	// Weeks is how many consecutive weekly snapshots to capture,
	// starting from the current week.
	Weeks int `yaml:"weeks"`

	// Out is the calendar output path. When running under GitHub
	// Actions with the default filename it is redirected under public/
	// so the Pages workflow can publish it.
	Out string `yaml:"out"`

	// Headless runs Chromium without a visible window.
	Headless bool `yaml:"headless"`

	// Dump saves the first week's schedule section to
	// horario_dump.html for debugging.
	Dump bool `yaml:"dump"`

	// Push mirrors the deduplicated events into Google Calendar.
	Push bool `yaml:"push"`

	// CalendarID is the target Google calendar ("primary" means the
	// account's main calendar).
	CalendarID string `yaml:"calendar_id"`

	// CalendarName is the X-WR-CALNAME of the generated document.
	CalendarName string `yaml:"calendar_name"`

	// Cron, when non-empty, switches to daemon mode: the pipeline runs
	// on this schedule (e.g. "0 6 * * *") and the output directory is
	// served over HTTP.
	Cron string `yaml:"cron"`

	// Listen is the HTTP listen address used in daemon mode.
	Listen string `yaml:"listen"`

	// CredentialsFile is the Google OAuth client secret (desktop type).
	CredentialsFile string `yaml:"credentials_file"`

	// TokenFile stores the OAuth user token between runs.
	TokenFile string `yaml:"token_file"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Weeks:           2,
		Out:             DefaultOutputFile,
		Headless:        true,
		CalendarID:      "primary",
		CalendarName:    "Horario INACAP",
		Listen:          "127.0.0.1:8080",
		CredentialsFile: "credentials.json",
		TokenFile:       "token.json",
	}
}

// Normalize fills in missing/zero values so partially-filled config files
// still behave correctly.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.Weeks <= 0 {
		c.Weeks = def.Weeks
	}
	if c.Out == "" {
		c.Out = def.Out
	}
	if c.CalendarID == "" {
		c.CalendarID = def.CalendarID
	}
	if c.CalendarName == "" {
		c.CalendarName = def.CalendarName
	}
	if c.Listen == "" {
		c.Listen = def.Listen
	}
	if c.CredentialsFile == "" {
		c.CredentialsFile = def.CredentialsFile
	}
	if c.TokenFile == "" {
		c.TokenFile = def.TokenFile
	}
}

// OutputPath resolves the effective output path. Under GitHub Actions the
// default filename is redirected into public/ for publishing; an explicit
// -out is left untouched.
func (c *Config) OutputPath() string {
	if os.Getenv("GITHUB_ACTIONS") == "true" && c.Out == DefaultOutputFile {
		return filepath.Join("public", DefaultOutputFile)
	}
	return c.Out
}

// Load loads configuration from the given YAML path. An empty path means
// "no config file" and returns defaults. A missing file is created with
// defaults and 0600 permissions, mirroring a first run.
func Load(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
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

// Save writes the configuration atomically (temp file + rename) with
// 0600 permissions, creating the parent directory if needed.
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

	tmp, err := os.CreateTemp(dir, ".sigacal-config-*.tmp")
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

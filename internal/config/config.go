// Package config loads and validates the readlater configuration file.
//
// The file is YAML, checked against an embedded CUE schema before use so a
// typo fails loudly at startup instead of surfacing as a confusing runtime
// error. A missing file is created with commented defaults on first run.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
	"gopkg.in/yaml.v3"

	"github.com/colmreid/readlater/internal/calendar"
)

//go:embed schema.cue
var schemaCUE string

// DefaultSyncCron runs the reconciliation pass every 30 minutes.
const DefaultSyncCron = "*/30 * * * *"

// CalendarConfig points at the remote calendar service.
type CalendarConfig struct {
	// BaseURL is the root of the calendar service API.
	BaseURL string `yaml:"base_url"`

	// CalendarID names the calendar events are written to.
	CalendarID string `yaml:"calendar_id"`

	// Token is the bearer credential. Prefer TokenEnv so the credential
	// stays out of the file.
	Token string `yaml:"token,omitempty"`

	// TokenEnv names an environment variable holding the token.
	TokenEnv string `yaml:"token_env,omitempty"`
}

// Config is the top-level application configuration.
type Config struct {
	// Database is the path to the SQLite event database.
	Database string `yaml:"database"`

	// Timezone is the IANA timezone used for the summary's calendar day
	// (e.g. "Europe/Dublin"). Empty means system local.
	Timezone string `yaml:"timezone,omitempty"`

	// SyncCron is the cron schedule for the watch command's periodic sync.
	SyncCron string `yaml:"sync_cron,omitempty"`

	Calendar CalendarConfig `yaml:"calendar"`
}

// defaultConfig is written on first run.
const defaultConfig = `# readlater configuration
database: readlater.db

# IANA timezone for the summary's "today"; empty means system local.
# timezone: Europe/Dublin

# How often the watch command reconciles with the calendar.
sync_cron: "*/30 * * * *"

calendar:
  base_url: https://calendar.example.com/api
  calendar_id: primary
  # Export the token instead of writing it here.
  token_env: READLATER_TOKEN
`

// Load reads, validates, and decodes the config file at path.
//
// If the file does not exist it is created with defaults (0600, credential
// material may end up in it) and those defaults are returned.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := writeDefault(path); err != nil {
			return nil, err
		}
		data = []byte(defaultConfig)
	} else if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := validate(path, data); err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.SyncCron == "" {
		cfg.SyncCron = DefaultSyncCron
	}
	return &cfg, nil
}

// validate unifies the YAML document with the embedded CUE schema.
func validate(path string, data []byte) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE).LookupPath(cue.ParsePath("#Config"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("config schema: %w", err)
	}

	file, err := cueyaml.Extract(path, data)
	if err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	value := ctx.BuildFile(file)
	if err := value.Err(); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if err := schema.Unify(value).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid config %s: %w", path, err)
	}
	return nil
}

func writeDefault(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(defaultConfig), 0o600); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	return nil
}

// Account resolves the calendar credential. The token comes from the
// inline field or, preferably, from the environment variable it names.
func (c *Config) Account() (calendar.Account, error) {
	token := c.Calendar.Token
	if token == "" && c.Calendar.TokenEnv != "" {
		token = os.Getenv(c.Calendar.TokenEnv)
	}
	if token == "" {
		return calendar.Account{}, fmt.Errorf("no calendar token: set calendar.token or export %s", envName(c.Calendar.TokenEnv))
	}
	return calendar.Account{CalendarID: c.Calendar.CalendarID, Token: token}, nil
}

func envName(name string) string {
	if name == "" {
		return "a token_env variable"
	}
	return name
}

// Location resolves the configured timezone, defaulting to system local.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

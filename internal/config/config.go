package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config is the root configuration for tjb, stored in ~/.tjb/config.json.
// The file supports single-line // comments for documentation purposes.
type Config struct {
	Store   StoreConfig   `json:"store"`
	Notion  NotionConfig  `json:"notion"`
	Journal JournalConfig `json:"journal"`
	Retry   RetryConfig   `json:"retry"`
	Server  ServerConfig  `json:"server"`
	Log     LogConfig     `json:"log"`
}

// StoreConfig selects where journal entries are written.
type StoreConfig struct {
	// Backend is one of file, sqlite, postgres or notion.
	Backend string `json:"backend"`
	// DSN is the SQLite path or Postgres connection string.
	DSN string `json:"dsn"`
	// WAL enables SQLite write-ahead logging.
	WAL bool `json:"wal"`
	// Sync is the SQLite synchronous pragma (OFF, NORMAL, FULL, EXTRA).
	Sync string `json:"sync"`
}

// NotionConfig points at the Notion database used as document store.
type NotionConfig struct {
	Token      string `json:"token"`
	DatabaseID string `json:"database_id"`
	BaseURL    string `json:"base_url"`
}

// JournalConfig holds scoring and conversation settings.
type JournalConfig struct {
	// Timezone is the IANA zone that decides the calendar day. Empty = local.
	Timezone    string   `json:"timezone"`
	CacheTTL    Duration `json:"cache_ttl"`
	SessionTTL  Duration `json:"session_ttl"`
	PhrasesFile string   `json:"phrases_file"`
	// QuestionsFile replaces the built-in question bank.
	QuestionsFile string `json:"questions_file"`
}

// RetryConfig bounds retries of failed writes.
type RetryConfig struct {
	Attempts     int      `json:"attempts"`
	InitialDelay Duration `json:"initial_delay"`
	MaxDelay     Duration `json:"max_delay"`
}

// ServerConfig configures `tjb serve`.
type ServerConfig struct {
	Addr           string   `json:"addr"`
	JWTSecret      string   `json:"jwt_secret"`
	AllowedOrigins []string `json:"allowed_origins"`
}

// LogConfig configures diagnostics on stderr.
type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// Duration is a time.Duration written as a string such as "5m" in JSON.
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"5m\": %w", err)
	}
	if s == "" {
		*d = 0
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendNotion   = "notion"

	DefaultAddr       = "127.0.0.1:8080"
	DefaultCacheTTL   = 5 * time.Minute
	DefaultSessionTTL = 10 * time.Minute
)

// Environment variables that override secrets from the file.
const (
	EnvNotionToken = "TJB_NOTION_TOKEN"
	EnvJWTSecret   = "TJB_JWT_SECRET"
	EnvStoreDSN    = "TJB_STORE_DSN"
)

// defaultConfig returns a Config pre-filled with sensible defaults.
func defaultConfig() Config {
	return Config{
		Store: StoreConfig{Backend: BackendFile, WAL: true, Sync: "NORMAL"},
		Journal: JournalConfig{
			CacheTTL:   Duration(DefaultCacheTTL),
			SessionTTL: Duration(DefaultSessionTTL),
		},
		Retry: RetryConfig{
			Attempts:     3,
			InitialDelay: Duration(500 * time.Millisecond),
			MaxDelay:     Duration(5 * time.Second),
		},
		Server: ServerConfig{Addr: DefaultAddr},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing,
// allowing human-readable documentation inside the file.
const configTemplate = `// tjb configuration – ~/.tjb/config.json
//
// All settings are optional; the built-in defaults below keep everything in
// local JSON files under ~/.tjb. Secrets can also come from the environment:
// TJB_NOTION_TOKEN, TJB_JWT_SECRET and TJB_STORE_DSN.
{
  // ── Journal store ────────────────────────────────────────────────────────
  "store": {
    // Where entries are written: "file", "sqlite", "postgres" or "notion".
    "backend": "file",

    // SQLite path (e.g. "~/.tjb/journal.db") or Postgres connection string.
    "dsn": "",

    // SQLite only: write-ahead logging and the synchronous pragma.
    "wal": true,
    "sync": "NORMAL"
  },

  // ── Notion document store (backend "notion") ────────────────────────────
  "notion": {
    // Internal integration token. Prefer TJB_NOTION_TOKEN.
    "token": "",
    "database_id": "",
    // Empty means https://api.notion.com/v1.
    "base_url": ""
  },

  // ── Journal ──────────────────────────────────────────────────────────────
  "journal": {
    // IANA timezone that decides which calendar day an answer belongs to.
    // Leave empty to use the system timezone.
    "timezone": "",

    // How long a day's entries are cached for the score.
    "cache_ttl": "5m",

    // How long an asked question waits for its answer.
    "session_ttl": "10m",

    // Optional replacements for the built-in phrase table and question bank.
    "phrases_file": "",
    "questions_file": ""
  },

  // ── Retries of failed writes ─────────────────────────────────────────────
  "retry": {
    "attempts": 3,
    "initial_delay": "500ms",
    "max_delay": "5s"
  },

  // ── HTTP server (tjb serve) ──────────────────────────────────────────────
  "server": {
    "addr": "127.0.0.1:8080",
    // HS256 secret for bearer tokens on /api. Empty disables auth.
    "jwt_secret": ""
    // Browser origins allowed by CORS, e.g.
    // "allowed_origins": ["http://localhost:3000"]
  },

  "log": {
    // debug, info, warn or error; "text" or "json".
    "level": "info",
    "format": "text"
  }
}
`

// FilePath returns the path to config.json under base.
func FilePath(base string) string {
	return filepath.Join(base, "config.json")
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads <base>/config.json, creating it with annotated defaults on first
// run, then applies environment overrides.
func Load(base string) (Config, error) {
	path := FilePath(base)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		cfg := defaultConfig()
		applyEnv(&cfg)
		return cfg, nil
	}
	if err != nil {
		return defaultConfig(), fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return defaultConfig(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}
	applyEnv(&cfg)
	return cfg, nil
}

// Parse decodes a commented config file and fills zero values with defaults.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := json.Unmarshal(stripLineComments(data), &cfg); err != nil {
		return defaultConfig(), err
	}
	fillDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return defaultConfig(), err
	}
	return cfg, nil
}

// fillDefaults replaces zero-value fields with built-in defaults so callers
// always get a usable Config even if the file is only partially filled in.
func fillDefaults(cfg *Config) {
	def := defaultConfig()
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = def.Store.Backend
	}
	if cfg.Store.Sync == "" {
		cfg.Store.Sync = def.Store.Sync
	}
	if cfg.Journal.CacheTTL <= 0 {
		cfg.Journal.CacheTTL = def.Journal.CacheTTL
	}
	if cfg.Journal.SessionTTL <= 0 {
		cfg.Journal.SessionTTL = def.Journal.SessionTTL
	}
	if cfg.Retry.Attempts <= 0 {
		cfg.Retry.Attempts = def.Retry.Attempts
	}
	if cfg.Retry.InitialDelay <= 0 {
		cfg.Retry.InitialDelay = def.Retry.InitialDelay
	}
	if cfg.Retry.MaxDelay <= 0 {
		cfg.Retry.MaxDelay = def.Retry.MaxDelay
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = def.Server.Addr
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = def.Log.Format
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvNotionToken); v != "" {
		cfg.Notion.Token = v
	}
	if v := os.Getenv(EnvJWTSecret); v != "" {
		cfg.Server.JWTSecret = v
	}
	if v := os.Getenv(EnvStoreDSN); v != "" {
		cfg.Store.DSN = v
	}
}

// Validate checks values that have no sensible fallback.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendFile, BackendSQLite, BackendPostgres, BackendNotion:
	default:
		return fmt.Errorf("unknown store backend %q (want file, sqlite, postgres or notion)", c.Store.Backend)
	}
	if c.Journal.Timezone != "" {
		if _, err := time.LoadLocation(c.Journal.Timezone); err != nil {
			return fmt.Errorf("invalid journal timezone %q: %w", c.Journal.Timezone, err)
		}
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (want text or json)", c.Log.Format)
	}
	return nil
}

// Location returns the journal timezone, or time.Local when unset.
func (c Config) Location() *time.Location {
	if c.Journal.Timezone == "" {
		return time.Local
	}
	if loc, err := time.LoadLocation(c.Journal.Timezone); err == nil {
		return loc
	}
	return time.Local
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}

// Package config loads layered settings: built-in defaults, then
// config.yaml in the config directory, then POKEDEX_* environment variables,
// then command-line flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"
)

const (
	EnvPrefix    = "POKEDEX"
	fileName     = "config"
	fileType     = "yaml"
	dirOverride  = "POKEDEX_CONFIG_DIR"
	defaultDir   = ".pokedex"
	sessionFile  = "session.sqlite"
	logFileName  = "pokedex.log"
	defaultAPI   = "http://localhost:8080"
	defaultColl  = "pokemon"
	defaultTypes = "types"
)

// Keys.
const (
	KeyAPIURL         = "api_url"
	KeyCollection     = "collection"
	KeyTypesPath      = "types_path"
	KeyPageSize       = "page_size"
	KeySearchDebounce = "search_debounce"
	KeyRequestTimeout = "request_timeout"
	KeyRateLimit      = "rate_limit"
	KeyLogLevel       = "log_level"
	KeyLogFile        = "log_file"
	KeySessionFile    = "session_file"
	KeyMetricsAddr    = "metrics_addr"
)

type Config struct {
	APIURL     string
	Collection string
	TypesPath  string

	PageSize       int
	SearchDebounce time.Duration
	RequestTimeout time.Duration
	// RateLimit is outbound requests per second; 0 disables limiting.
	RateLimit float64

	LogLevel    string
	LogFile     string
	SessionFile string
	// MetricsAddr serves /metrics when set (e.g. "127.0.0.1:9464").
	MetricsAddr string

	// Dir is the directory config.yaml was looked up in.
	Dir string
	// File is the config file actually read, if any.
	File string
}

// Dir returns the config directory. POKEDEX_CONFIG_DIR overrides the default
// ~/.pokedex (tests use it to stay out of the home directory).
func Dir() (string, error) {
	if v := strings.TrimSpace(os.Getenv(dirOverride)); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, defaultDir), nil
}

// Path is config.yaml inside dir.
func Path(dir string) string {
	return filepath.Join(dir, fileName+"."+fileType)
}

// New returns a viper instance with defaults, the config file location, and
// environment binding set up for dir. Flags are bound separately with
// BindFlags.
func New(dir string) *viper.Viper {
	v := viper.New()
	v.SetConfigName(fileName)
	v.SetConfigType(fileType)
	v.AddConfigPath(dir)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyAPIURL, defaultAPI)
	v.SetDefault(KeyCollection, defaultColl)
	v.SetDefault(KeyTypesPath, defaultTypes)
	v.SetDefault(KeyPageSize, 20)
	v.SetDefault(KeySearchDebounce, "500ms")
	v.SetDefault(KeyRequestTimeout, "10s")
	v.SetDefault(KeyRateLimit, 10.0)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFile, filepath.Join(dir, logFileName))
	v.SetDefault(KeySessionFile, filepath.Join(dir, sessionFile))
	v.SetDefault(KeyMetricsAddr, "")
	return v
}

// BindFlags lets flags that were set on the command line win over file and
// environment. keys maps config keys to flag names; unknown flags are skipped.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) error {
	for key, name := range keys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag --%s: %w", name, err)
		}
	}
	return nil
}

// Load reads the config file (a missing file is fine) and returns the
// effective settings.
func Load(v *viper.Viper, dir string) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		APIURL:         strings.TrimSpace(v.GetString(KeyAPIURL)),
		Collection:     strings.Trim(v.GetString(KeyCollection), "/ "),
		TypesPath:      strings.Trim(v.GetString(KeyTypesPath), "/ "),
		PageSize:       v.GetInt(KeyPageSize),
		SearchDebounce: v.GetDuration(KeySearchDebounce),
		RequestTimeout: v.GetDuration(KeyRequestTimeout),
		RateLimit:      v.GetFloat64(KeyRateLimit),
		LogLevel:       v.GetString(KeyLogLevel),
		LogFile:        v.GetString(KeyLogFile),
		SessionFile:    v.GetString(KeySessionFile),
		MetricsAddr:    strings.TrimSpace(v.GetString(KeyMetricsAddr)),
		Dir:            dir,
		File:           v.ConfigFileUsed(),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := ValidateAPIURL(c.APIURL); err != nil {
		return err
	}
	if c.Collection == "" {
		return errors.New("config: collection must not be empty")
	}
	if c.PageSize < 1 {
		return fmt.Errorf("config: page_size must be positive, got %d", c.PageSize)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("config: rate_limit must not be negative, got %g", c.RateLimit)
	}
	return nil
}

// ValidateAPIURL accepts absolute http(s) URLs.
func ValidateAPIURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("config: api_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: api_url must be an http(s) URL, got %q", raw)
	}
	return nil
}

// Settings returns the effective values keyed like the config file.
func (c *Config) Settings() map[string]any {
	return map[string]any{
		KeyAPIURL:         c.APIURL,
		KeyCollection:     c.Collection,
		KeyTypesPath:      c.TypesPath,
		KeyPageSize:       c.PageSize,
		KeySearchDebounce: c.SearchDebounce.String(),
		KeyRequestTimeout: c.RequestTimeout.String(),
		KeyRateLimit:      c.RateLimit,
		KeyLogLevel:       c.LogLevel,
		KeyLogFile:        c.LogFile,
		KeySessionFile:    c.SessionFile,
		KeyMetricsAddr:    c.MetricsAddr,
	}
}

// SetAPIURL writes api_url into dir's config file, keeping every other key
// that is already there. The file is replaced atomically.
func SetAPIURL(dir, apiURL string) (string, error) {
	if err := ValidateAPIURL(apiURL); err != nil {
		return "", err
	}
	path := Path(dir)
	doc := map[string]any{}
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &doc); err != nil {
			return "", fmt.Errorf("parse %s: %w", path, err)
		}
		if doc == nil {
			doc = map[string]any{}
		}
	case !errors.Is(err, os.ErrNotExist):
		return "", err
	}
	doc[KeyAPIURL] = apiURL

	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := atomic.WriteFile(path, bytes.NewReader(out)); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

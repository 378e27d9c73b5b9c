// internal/config/config.go
//
// Runtime configuration for the server and the terminal client.
//
// Sources, lowest precedence first:
//   1. Built-in defaults (Default).
//   2. An optional HCL file, by default $XDG_CONFIG_HOME/wordle/config.hcl.
//   3. Environment variables (a .env file is loaded by main via godotenv).
//   4. Command-line flags, applied by main.
//
// Example file:
//
//	server {
//	  addr        = ":8080"
//	  session_ttl = "30m"
//	}
//	providers {
//	  mode = "offline"
//	}
//	cache {
//	  enabled = false
//	}

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/wordplay/wordle/internal/words"
)

// Provider modes.
const (
	ModeRemote  = "remote"
	ModeOffline = "offline"
)

// DevSessionSecret is the built-in token signing secret. It is only fit for
// local development.
const DevSessionSecret = "dev_secret_change_me"

// relPath is the config and cache location under the XDG base directories.
const relPath = "wordle"

// Config is the fully resolved configuration.
type Config struct {
	Addr          string
	ClientOrigin  string
	SessionSecret string
	SessionTTL    time.Duration
	LogLevel      string

	Mode            string
	RandomWordURL   string
	DictionaryURL   string
	ProviderTimeout time.Duration
	WordsFile       string

	CacheEnabled bool
	CachePath    string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:            ":5175",
		ClientOrigin:    "http://localhost:5175",
		SessionSecret:   DevSessionSecret,
		SessionTTL:      2 * time.Hour,
		LogLevel:        "info",
		Mode:            ModeRemote,
		RandomWordURL:   words.DefaultRandomWordURL,
		DictionaryURL:   words.DefaultDictionaryURL,
		ProviderTimeout: words.DefaultTimeout,
		CacheEnabled:    true,
		CachePath:       filepath.Join(xdg.CacheHome, relPath, "dictionary.db"),
	}
}

// DefaultPath returns the first existing config.hcl in the XDG config
// directories, or "" when there is none.
func DefaultPath() string {
	p, err := xdg.SearchConfigFile(filepath.Join(relPath, "config.hcl"))
	if err != nil {
		return ""
	}
	return p
}

// Load resolves defaults, the HCL file at path and the environment.
// An empty path means DefaultPath; a missing default file is not an error,
// a missing explicit file is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate checks values that have no sensible fallback.
func (c Config) Validate() error {
	var errs []error
	if c.Mode != ModeRemote && c.Mode != ModeOffline {
		errs = append(errs, fmt.Errorf("providers.mode: want %q or %q, got %q", ModeRemote, ModeOffline, c.Mode))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("server.session_ttl must be positive, got %s", c.SessionTTL))
	}
	if c.ProviderTimeout <= 0 {
		errs = append(errs, fmt.Errorf("providers.timeout must be positive, got %s", c.ProviderTimeout))
	}
	if c.SessionSecret == "" {
		errs = append(errs, errors.New("server.session_secret must not be empty"))
	}
	if c.CacheEnabled && c.CachePath == "" {
		errs = append(errs, errors.New("cache.path must be set when the cache is enabled"))
	}
	return errors.Join(errs...)
}

// InsecureSecret reports whether the built-in development secret is used
// for a client origin other than localhost.
func (c Config) InsecureSecret() bool {
	if c.SessionSecret != DevSessionSecret {
		return false
	}
	u, err := url.Parse(c.ClientOrigin)
	if err != nil {
		return true
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1", "::1":
		return false
	}
	return true
}

// ------------------------------- HCL file ----------------------------------

type fileConfig struct {
	Server    *serverBlock    `hcl:"server,block"`
	Providers *providersBlock `hcl:"providers,block"`
	Cache     *cacheBlock     `hcl:"cache,block"`
}

type serverBlock struct {
	Addr          *string `hcl:"addr,optional"`
	ClientOrigin  *string `hcl:"client_origin,optional"`
	SessionSecret *string `hcl:"session_secret,optional"`
	SessionTTL    *string `hcl:"session_ttl,optional"`
	LogLevel      *string `hcl:"log_level,optional"`
}

type providersBlock struct {
	Mode          *string `hcl:"mode,optional"`
	RandomWordURL *string `hcl:"random_word_url,optional"`
	DictionaryURL *string `hcl:"dictionary_url,optional"`
	Timeout       *string `hcl:"timeout,optional"`
	WordsFile     *string `hcl:"words_file,optional"`
}

type cacheBlock struct {
	Enabled *bool   `hcl:"enabled,optional"`
	Path    *string `hcl:"path,optional"`
}

func (c *Config) applyFile(path string) error {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var fc fileConfig
	if diags := gohcl.DecodeBody(file.Body, nil, &fc); diags.HasErrors() {
		return fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	if s := fc.Server; s != nil {
		setString(&c.Addr, s.Addr)
		setString(&c.ClientOrigin, s.ClientOrigin)
		setString(&c.SessionSecret, s.SessionSecret)
		setString(&c.LogLevel, s.LogLevel)
		if err := setDuration(&c.SessionTTL, s.SessionTTL, "server.session_ttl"); err != nil {
			return err
		}
	}
	if p := fc.Providers; p != nil {
		setString(&c.Mode, p.Mode)
		setString(&c.RandomWordURL, p.RandomWordURL)
		setString(&c.DictionaryURL, p.DictionaryURL)
		setString(&c.WordsFile, p.WordsFile)
		if err := setDuration(&c.ProviderTimeout, p.Timeout, "providers.timeout"); err != nil {
			return err
		}
	}
	if k := fc.Cache; k != nil {
		if k.Enabled != nil {
			c.CacheEnabled = *k.Enabled
		}
		setString(&c.CachePath, k.Path)
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *string, name string) error {
	if v == nil {
		return nil
	}
	d, err := time.ParseDuration(*v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = d
	return nil
}

// ------------------------------ environment --------------------------------

func (c *Config) applyEnv(getenv func(string) string) error {
	env := func(k string, dst *string) {
		if v := getenv(k); v != "" {
			*dst = v
		}
	}

	if port := getenv("PORT"); port != "" {
		c.Addr = ":" + port
	}
	env("ADDR", &c.Addr)
	env("CLIENT_ORIGIN", &c.ClientOrigin)
	env("SESSION_SECRET", &c.SessionSecret)
	env("LOG_LEVEL", &c.LogLevel)
	env("PROVIDERS_MODE", &c.Mode)
	env("RANDOM_WORD_URL", &c.RandomWordURL)
	env("DICTIONARY_URL", &c.DictionaryURL)
	env("WORDS_FILE", &c.WordsFile)
	env("DICT_CACHE_PATH", &c.CachePath)

	for k, dst := range map[string]*time.Duration{
		"SESSION_TTL":      &c.SessionTTL,
		"PROVIDER_TIMEOUT": &c.ProviderTimeout,
	} {
		if v := getenv(k); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
			*dst = d
		}
	}
	if v := getenv("DICT_CACHE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("DICT_CACHE: %w", err)
		}
		c.CacheEnabled = b
	}
	return nil
}

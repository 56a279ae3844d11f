// config.go -- layered configuration for the x25f tools
//
// (c) 2026 Sudhi Herle <sudhi@herle.net>
//
// Licensing Terms: GPLv2
//
// If you need a commercial license for this work, please contact
// the author.
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

// Package config assembles the settings of the x25f tools from, in
// increasing order of precedence: built-in defaults, an optional YAML
// file and X25F_* environment variables. Command line flags are
// applied by the tools themselves.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v2"
)

// EnvPrefix is prepended to every environment variable name
const EnvPrefix = "X25F_"

// Config is the merged configuration
type Config struct {
	LogLevel  string `yaml:"log_level"  env:"LOG_LEVEL"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT"`

	Scrypt Scrypt `yaml:"scrypt" envPrefix:"SCRYPT_"`
	Shares Shares `yaml:"shares" envPrefix:"SHARE_"`
}

// Scrypt holds the parameters for newly protected private keys
type Scrypt struct {
	N int `yaml:"n" env:"N"`
	R int `yaml:"r" env:"R"`
	P int `yaml:"p" env:"P"`
}

// Shares holds the default threshold split parameters
type Shares struct {
	Threshold int `yaml:"threshold" env:"THRESHOLD"`
	Count     int `yaml:"count"     env:"COUNT"`
}

var (
	ErrInvalidLogConfig    = errors.New("config: invalid logging settings")
	ErrInvalidScryptConfig = errors.New("config: invalid scrypt parameters")
	ErrInvalidShareConfig  = errors.New("config: invalid share parameters")
)

// Defaults returns the built-in configuration
func Defaults() *Config {
	return &Config{
		LogLevel:  "warn",
		LogFormat: "console",
		Scrypt: Scrypt{
			N: 1 << 14,
			R: 8,
			P: 1,
		},
		Shares: Shares{
			Threshold: 3,
			Count:     5,
		},
	}
}

// Load builds the configuration. 'fn' names the YAML file; when empty
// $X25F_CONFIG is used and then $XDG_CONFIG_HOME/x25f/config.yaml, if
// it exists. An explicitly named file must exist.
func Load(fn string) (*Config, error) {
	return newBuilder().
		withDefaults().
		withFile(fn).
		withEnv().
		build()
}

// DefaultFile returns the config file consulted when none is named.
func DefaultFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "x25f", "config.yaml")
}

// Validate checks the merged configuration
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("%w: log level %q", ErrInvalidLogConfig, c.LogLevel)
	}

	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalidLogConfig, c.LogFormat)
	}

	s := c.Scrypt
	switch {
	case s.N < 2 || s.N > 1<<20 || s.N&(s.N-1) != 0:
		return fmt.Errorf("%w: N=%d must be a power of 2 in [2, 2^20]", ErrInvalidScryptConfig, s.N)
	case s.R < 1 || s.P < 1 || uint64(s.R)*uint64(s.P) >= 1<<30:
		return fmt.Errorf("%w: r=%d p=%d", ErrInvalidScryptConfig, s.R, s.P)
	}

	h := c.Shares
	switch {
	case h.Threshold < 2:
		return fmt.Errorf("%w: threshold %d < 2", ErrInvalidShareConfig, h.Threshold)
	case h.Count < h.Threshold:
		return fmt.Errorf("%w: count %d < threshold %d", ErrInvalidShareConfig, h.Count, h.Threshold)
	case h.Count > 255:
		return fmt.Errorf("%w: count %d > 255", ErrInvalidShareConfig, h.Count)
	}
	return nil
}

type builder struct {
	configs []*Config
	err     error
}

func newBuilder() *builder {
	return &builder{
		configs: make([]*Config, 0, 3),
	}
}

// later configs override non-zero fields of earlier ones
func (b *builder) build() (*Config, error) {
	if b.err != nil {
		return nil, b.err
	}

	cfg := new(Config)
	for _, c := range b.configs {
		if err := mergo.Merge(cfg, c, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("config: merge: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (b *builder) withDefaults() *builder {
	b.configs = append(b.configs, Defaults())
	return b
}

func (b *builder) withFile(fn string) *builder {
	must := true
	if fn == "" {
		fn = os.Getenv(EnvPrefix + "CONFIG")
	}
	if fn == "" {
		fn, must = DefaultFile(), false
	}
	if fn == "" {
		return b
	}

	cfg, err := parseYAML(fn)
	switch {
	case err == nil:
		b.configs = append(b.configs, cfg)
	case !must && errors.Is(err, fs.ErrNotExist):
	default:
		b.err = errors.Join(b.err, err)
	}
	return b
}

func (b *builder) withEnv() *builder {
	cfg := &Config{}
	if err := parseEnv(cfg); err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, cfg)
	return b
}

func parseYAML(fn string) (*Config, error) {
	data, err := os.ReadFile(fn)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	var cfg Config
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", fn, err)
	}
	return &cfg, nil
}

func parseEnv(cfg *Config) error {
	opt := env.Options{
		Prefix: EnvPrefix,
	}
	if err := env.ParseWithOptions(cfg, opt); err != nil {
		return fmt.Errorf("config: environment: %w", err)
	}
	return nil
}

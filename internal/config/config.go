// Package config loads indostem settings from defaults, an optional YAML
// file, INDOSTEM_ environment variables, and bound command line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/arissetyawan/indostemmer/internal/logging"
	"github.com/arissetyawan/indostemmer/internal/stemcache"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// EnvPrefix prefixes environment overrides: INDOSTEM_LOG_LEVEL sets log.level.
const EnvPrefix = "INDOSTEM"

// Config is the complete runtime configuration.
type Config struct {
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Stem     StemConfig     `mapstructure:"stem" yaml:"stem"`
	Cache    CacheConfig    `mapstructure:"cache" yaml:"cache"`
	Pipeline PipelineConfig `mapstructure:"pipeline" yaml:"pipeline"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
}

// LogConfig selects the log level and handler format.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// StemConfig mirrors morph.Options.
type StemConfig struct {
	StripBarePrefix bool `mapstructure:"strip_bare_prefix" yaml:"strip_bare_prefix"`
}

// CacheConfig sizes the stem cache. An empty Path keeps it in memory only.
type CacheConfig struct {
	Size int    `mapstructure:"size" yaml:"size"`
	Path string `mapstructure:"path" yaml:"path"`
}

// PipelineConfig bounds concurrent file processing.
type PipelineConfig struct {
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// Defaults.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	DefaultWorkers   = 4
	DefaultAddr      = ":8080"
)

// New returns a viper instance with defaults and environment binding set.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("stem.strip_bare_prefix", false)
	v.SetDefault("cache.size", stemcache.DefaultSize)
	v.SetDefault("cache.path", "")
	v.SetDefault("pipeline.workers", DefaultWorkers)
	v.SetDefault("server.addr", DefaultAddr)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads file, or indostem.yaml from the working or home directory when
// file is empty, and returns the validated configuration. A missing default
// file is not an error; a missing explicit file is.
func Load(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("indostem")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if !slices.Contains(logging.Levels, strings.ToLower(c.Log.Level)) {
		return fmt.Errorf("%w: log.level %q (want one of %s)", ErrInvalid, c.Log.Level, strings.Join(logging.Levels, ", "))
	}
	if !slices.Contains(logging.Formats, strings.ToLower(c.Log.Format)) {
		return fmt.Errorf("%w: log.format %q (want one of %s)", ErrInvalid, c.Log.Format, strings.Join(logging.Formats, ", "))
	}
	if c.Cache.Size < 0 {
		return fmt.Errorf("%w: cache.size %d is negative", ErrInvalid, c.Cache.Size)
	}
	if c.Pipeline.Workers < 0 {
		return fmt.Errorf("%w: pipeline.workers %d is negative", ErrInvalid, c.Pipeline.Workers)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server.addr is empty", ErrInvalid)
	}
	return nil
}

// Logging converts the log section for logging.New.
func (c Config) Logging() logging.Config {
	return logging.Config{Level: c.Log.Level, Format: c.Log.Format}
}

// StemCache converts the cache section for stemcache.New.
func (c Config) StemCache() stemcache.Config {
	return stemcache.Config{Size: c.Cache.Size, Path: c.Cache.Path}
}

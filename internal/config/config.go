// Package config loads bestofjs settings.
//
// Settings are resolved in order, later sources overriding earlier ones:
//  1. built-in defaults
//  2. a TOML file (--config, or bestofjs.toml in the working directory)
//  3. a .env file in the working directory
//  4. BESTOFJS_* environment variables
//
// Command-line flags are applied on top by the CLI.
package config

import (
	stderrors "errors"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/bestofjs/pkg/cache"
	"github.com/matzehuels/bestofjs/pkg/errors"
	"github.com/matzehuels/bestofjs/pkg/httputil"
	"github.com/matzehuels/bestofjs/pkg/source"
)

// DefaultFile is read when no config path is given and it exists.
const DefaultFile = "bestofjs.toml"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config holds all settings.
type Config struct {
	DataURL  string   `toml:"data_url"`
	Timeout  Duration `toml:"timeout"`
	Cache    string   `toml:"cache"`
	CacheDir string   `toml:"cache_dir"`
	CacheTTL Duration `toml:"cache_ttl"`
	LogLevel string   `toml:"log_level"`

	Redis  Redis  `toml:"redis"`
	Server Server `toml:"server"`
}

// Redis configures the Redis cache backend.
type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// Server configures "bestofjs serve".
type Server struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as "10s" or "1h".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		DataURL:  source.DefaultURL,
		Timeout:  Duration{httputil.DefaultTimeout},
		Cache:    CacheFile,
		CacheTTL: Duration{cache.TTLDataset},
		LogLevel: "info",
		Server:   Server{Addr: ":8080"},
	}
}

// Load resolves the configuration. An explicit path must exist; with an
// empty path, DefaultFile is used when present.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if err := cfg.loadFile(path); err != nil {
		if explicit || !stderrors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	if err := godotenv.Load(); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read .env")
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return err
		}
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// ApplyEnv overrides settings from BESTOFJS_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(name); ok && v != "" {
			*dst = v
		}
	}
	dur := func(name string, dst *Duration) error {
		v, ok := lookup(name)
		if !ok || v == "" {
			return nil
		}
		if err := dst.UnmarshalText([]byte(v)); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", name)
		}
		return nil
	}

	str("BESTOFJS_DATA_URL", &c.DataURL)
	str("BESTOFJS_CACHE", &c.Cache)
	str("BESTOFJS_CACHE_DIR", &c.CacheDir)
	str("BESTOFJS_REDIS_ADDR", &c.Redis.Addr)
	str("BESTOFJS_REDIS_PASSWORD", &c.Redis.Password)
	str("BESTOFJS_ADDR", &c.Server.Addr)
	str("BESTOFJS_LOG_LEVEL", &c.LogLevel)
	if err := dur("BESTOFJS_TIMEOUT", &c.Timeout); err != nil {
		return err
	}
	return dur("BESTOFJS_CACHE_TTL", &c.CacheTTL)
}

// Validate checks the settings.
func (c *Config) Validate() error {
	u, err := url.Parse(c.DataURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "data_url must be an http(s) URL, got %q", c.DataURL)
	}
	if c.Timeout.Duration <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "timeout must be positive, got %s", c.Timeout)
	}
	if c.CacheTTL.Duration <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache_ttl must be positive, got %s", c.CacheTTL)
	}
	switch c.Cache {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Redis.Addr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache %q requires redis.addr", CacheRedis)
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (want file, redis or none)", c.Cache)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown log_level %q", c.LogLevel)
	}
	return nil
}

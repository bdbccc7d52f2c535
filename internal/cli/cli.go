package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bestofjs/internal/config"
	"github.com/matzehuels/bestofjs/pkg/buildinfo"
	"github.com/matzehuels/bestofjs/pkg/cache"
	"github.com/matzehuels/bestofjs/pkg/dataset"
	"github.com/matzehuels/bestofjs/pkg/observability"
	"github.com/matzehuels/bestofjs/pkg/search"
	"github.com/matzehuels/bestofjs/pkg/source"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "bestofjs"

	// redisPrefix scopes every key this tool writes to a shared Redis.
	redisPrefix = appName + ":"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	noCache    bool
	refresh    bool
	verbose    bool

	cfg *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. Debug level also routes the
// library hooks (cache, HTTP, dataset, query) to the logger.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	c.verbose = level == log.DebugLevel
	if c.verbose {
		observability.NewLogHooks(c.Logger).Register()
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Search the Best of JS catalog of JavaScript projects",
		Long:         `bestofjs queries the Best of JS dataset of JavaScript projects and tags: filter and sort projects, find trending ones, browse tags, or serve the same searches over a JSON HTTP API.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default ./"+config.DefaultFile+" if present)")
	flags.BoolVar(&c.noCache, "no-cache", false, "disable the response cache")
	flags.BoolVar(&c.refresh, "refresh", false, "fetch the dataset even if a cached copy exists")

	root.AddCommand(c.projectsCommand())
	root.AddCommand(c.hotCommand())
	root.AddCommand(c.projectCommand())
	root.AddCommand(c.tagsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.versionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// config loads the configuration once per invocation. Unless --verbose is
// set, the configured log level replaces the default.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if !c.verbose {
		c.Logger.SetLevel(parseLevel(cfg.LogLevel))
	}
	c.cfg = cfg
	return cfg, nil
}

// =============================================================================
// Session Factory
// =============================================================================

// session bundles the dataset provider and the search client built on it.
type session struct {
	provider *dataset.Provider
	search   *search.Client
	logger   *log.Logger
}

// openSession wires config, cache, source, provider and search client.
// Callers must Close the session.
func (c *CLI) openSession(ctx context.Context) (*session, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	logger := loggerFromContext(ctx)

	cc, err := c.newCache(ctx, cfg)
	if err != nil {
		return nil, err
	}
	src := source.NewClient(
		source.WithURL(cfg.DataURL),
		source.WithTimeout(cfg.Timeout.Duration),
		source.WithCache(cc, cfg.CacheTTL.Duration),
		source.WithLogger(logger),
	)
	provider := dataset.NewProvider(src,
		dataset.WithLogger(logger),
		dataset.WithRefresh(c.refresh),
	)
	return &session{
		provider: provider,
		search:   search.NewClient(provider, search.WithLogger(logger)),
		logger:   logger,
	}, nil
}

// load builds the snapshot behind a spinner so that the search calls that
// follow run against memory.
func (s *session) load(ctx context.Context) (*dataset.Snapshot, error) {
	spin := newSpinnerWithContext(ctx, "Loading dataset...")
	spin.Start()
	prog := newProgress(s.logger)

	snap, err := s.provider.Get(ctx)
	spin.Stop()
	if err != nil {
		return nil, err
	}
	prog.done("Loaded dataset")
	s.logger.Debug("snapshot", "projects", len(snap.Projects), "tags", snap.Tags.Len(), "source", snap.Source)
	return snap, nil
}

// Close releases the provider and its cache.
func (s *session) Close() error {
	return s.provider.Close()
}

// newCache returns the configured response cache. Redis keys are scoped
// with the app prefix; an unreachable Redis falls back to no caching.
func (c *CLI) newCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	logger := loggerFromContext(ctx)

	switch cfg.Cache {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		rc, err := newRedisCache(ctx, cfg)
		if err != nil {
			logger.Warn("redis unavailable, caching disabled", "addr", cfg.Redis.Addr, "err", err)
			return cache.NewNullCache(), nil
		}
		return cache.NewScoped(rc, redisPrefix), nil
	}

	dir, err := fileCacheDir(cfg)
	if err != nil {
		logger.Warn("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

func newRedisCache(ctx context.Context, cfg *config.Config) (*cache.RedisCache, error) {
	return cache.NewRedisCache(ctx, cache.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/bestofjs/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// fileCacheDir prefers the configured cache_dir over the XDG default.
func fileCacheDir(cfg *config.Config) (string, error) {
	if cfg.CacheDir != "" {
		return cfg.CacheDir, nil
	}
	return cacheDir()
}

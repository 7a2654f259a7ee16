package commands

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"railcodes/lib/cache"
	"railcodes/lib/configutil"
	"railcodes/lib/fetch"
	"railcodes/lib/scraper"
	"railcodes/lib/scrapers/linedata"
	"railcodes/lib/scrapers/otherassets"

	"dario.cat/mergo"
	"github.com/spf13/cobra"
)

const DefaultConfigFile = "railcodes.json5"

type CacheConfig struct {
	// "file", "sqlite" or "libsql"
	Backend   string `json:"backend"`
	Path      string `json:"path"`
	URL       string `json:"url"`
	AuthToken string `json:"auth_token"`
}

type Config struct {
	BaseURL        string      `json:"base_url"`
	UserAgent      string      `json:"user_agent"`
	TimeoutSeconds int         `json:"timeout_seconds"`
	Bypass         bool        `json:"bypass"`
	DumpDir        string      `json:"dump_dir"`
	DataDir        string      `json:"data_dir"`
	Cache          CacheConfig `json:"cache"`
	PauseSeconds   int         `json:"pause_seconds"`
	Strict         bool        `json:"strict"`
}

func defaultConfig() Config {
	return Config{
		BaseURL:        fetch.DefaultBaseURL,
		TimeoutSeconds: int(fetch.DefaultTimeout / time.Second),
		DataDir:        "data",
		Cache:          CacheConfig{Backend: "file"},
		PauseSeconds:   2,
	}
}

// reads the config file, then the environment, then the command line
// flags, each overriding what came before.
func loadConfig(cmd *cobra.Command) (Config, error) {
	cfg := defaultConfig()

	fromFile, err := configutil.ReadConfig[Config](configFile)
	if err == nil {
		err = mergo.Merge(&cfg, fromFile, mergo.WithOverride)
		if err != nil {
			return Config{}, err
		}
	} else if !errors.Is(err, os.ErrNotExist) || cmd.Flags().Changed("config") {
		return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
	}

	err = configutil.LoadEnv(".env")
	if err != nil {
		return Config{}, err
	}
	configutil.EnvString(&cfg.BaseURL, "RAILCODES_BASE_URL")
	configutil.EnvString(&cfg.UserAgent, "RAILCODES_USER_AGENT")
	configutil.EnvString(&cfg.DataDir, "RAILCODES_DATA_DIR")
	configutil.EnvString(&cfg.Cache.AuthToken, "RAILCODES_CACHE_AUTH_TOKEN")

	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if strict {
		cfg.Strict = true
	}
	return cfg, nil
}

func (c Config) openStore(ctx context.Context) (cache.Store, func() error, error) {
	noop := func() error { return nil }

	switch c.Cache.Backend {
	case "", "file":
		root := c.Cache.Path
		if root == "" {
			root = c.DataDir
		}
		return cache.NewFileStore(root), noop, nil
	case "sqlite":
		path := c.Cache.Path
		if path == "" {
			path = filepath.Join(c.DataDir, "railcodes.db")
		}
		err := os.MkdirAll(filepath.Dir(path), 0777)
		if err != nil {
			return nil, nil, err
		}
		store, err := cache.OpenSQL(ctx, "sqlite", path)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case "libsql":
		dsn, err := url.Parse(c.Cache.URL)
		if err != nil {
			return nil, nil, err
		}
		if c.Cache.AuthToken != "" {
			query := dsn.Query()
			query.Set("authToken", c.Cache.AuthToken)
			dsn.RawQuery = query.Encode()
		}
		store, err := cache.OpenSQL(ctx, "libsql", dsn.String())
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
}

// everything a command needs to collect: the registry of collectors sharing
// one fetch client and one cache.
type session struct {
	Config   Config
	Fetcher  *fetch.Client
	Store    cache.Store
	Registry *scraper.Registry
	close    func() error
}

func (s session) Close() error {
	return s.close()
}

func openSession(cmd *cobra.Command) (session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return session{}, err
	}

	client, err := fetch.NewClient(fetch.ClientOptions{
		BaseURL:   cfg.BaseURL,
		UserAgent: cfg.UserAgent,
		Timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
		Bypass:    cfg.Bypass,
		DumpDir:   cfg.DumpDir,
	})
	if err != nil {
		return session{}, err
	}
	store, closeStore, err := cfg.openStore(cmd.Context())
	if err != nil {
		return session{}, err
	}

	env := scraper.Env{
		Fetcher: client,
		Store:   store,
		Options: scraper.Options{
			Update:               update,
			ConfirmationRequired: !yes,
			Confirm:              confirm(cmd.InOrStdin(), cmd.ErrOrStderr()),
			Strict:               cfg.Strict,
			Verbose:              verbose,
		},
	}
	reg := scraper.NewRegistry()
	linedata.Register(reg, env)
	otherassets.Register(reg, env)

	return session{
		Config:   cfg,
		Fetcher:  client,
		Store:    store,
		Registry: reg,
		close:    closeStore,
	}, nil
}

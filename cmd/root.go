package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/recruitpipe/recruitpipe/internal/completion"
	"github.com/recruitpipe/recruitpipe/internal/extraction"
	"github.com/recruitpipe/recruitpipe/internal/hrapi"
	"github.com/recruitpipe/recruitpipe/internal/logger"
	"github.com/recruitpipe/recruitpipe/internal/match"
	"github.com/recruitpipe/recruitpipe/internal/scoring"
	"github.com/recruitpipe/recruitpipe/internal/secrets"
	"github.com/recruitpipe/recruitpipe/internal/store"
)

const (
	app = "recruitpipe"

	defaultStoreBackend = "sqlite"
	defaultSQLitePath   = "recruitpipe.db"
	defaultCacheDir     = "cache"
)

type Config struct {
	Store *StoreConfig `mapstructure:"store"`
	LLM   *LLMConfig   `mapstructure:"llm"`
	Cache *CacheConfig `mapstructure:"cache"`
	Match *MatchConfig `mapstructure:"match"`
}

type StoreConfig struct {
	// Backend selects where candidates and jobs live: sqlite or hrapi.
	Backend    string       `mapstructure:"backend"`
	SQLitePath string       `mapstructure:"sqlite-path"`
	HRAPI      *HRAPIConfig `mapstructure:"hrapi"`
}

type HRAPIConfig struct {
	URL       string `mapstructure:"url"`
	TokenFile string `mapstructure:"token-file"`
}

type LLMConfig struct {
	Provider          string        `mapstructure:"provider"`
	MaxRetries        int           `mapstructure:"max-retries"`
	RequestsPerMinute int           `mapstructure:"requests-per-minute"`
	MaxLogLength      int           `mapstructure:"max-log-length"`
	Gemini            *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

type CacheConfig struct {
	Dir string `mapstructure:"dir"`
}

type MatchConfig struct {
	BatchSize  int              `mapstructure:"batch-size"`
	MinScore   float64          `mapstructure:"min-score"`
	Top        int              `mapstructure:"top"`
	Categories []string         `mapstructure:"categories"`
	Weights    *scoring.Weights `mapstructure:"weights"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "recruitpipe is a cli for scoring candidates against job postings with LLM-assisted extraction",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("llm.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("store.hrapi.token-file", "HR_API_TOKEN_FILE"); err != nil {
		log.Fatalf("binding HR_API_TOKEN_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is recruitpipe.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Local .env files are a convenience for development setups.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			log.Fatal(err)
		}
		return
	}

	viper.AddConfigPath(".")
	viper.SetConfigName(app + ".yaml")

	// Every setting has a default, so a missing config file is fine.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config == nil {
		config = &Config{}
	}

	if config.Store == nil {
		config.Store = &StoreConfig{}
	}
	if config.Store.Backend == "" {
		config.Store.Backend = defaultStoreBackend
	}
	if config.Store.SQLitePath == "" {
		config.Store.SQLitePath = defaultSQLitePath
	}
	if config.LLM == nil {
		config.LLM = &LLMConfig{}
	}
	if config.LLM.Gemini == nil {
		config.LLM.Gemini = &GeminiConfig{}
	}
	if config.Cache == nil {
		config.Cache = &CacheConfig{}
	}
	if config.Cache.Dir == "" {
		config.Cache.Dir = defaultCacheDir
	}
	if config.Match == nil {
		config.Match = &MatchConfig{}
	}

	return config, nil
}

func newLogger() *zap.Logger {
	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	return l
}

// openSource builds the configured candidate/job backend. The returned
// closer is a no-op for backends without resources to release.
func openSource(log *zap.Logger, cfg *Config) (store.Source, func() error, error) {
	switch strings.ToLower(cfg.Store.Backend) {
	case "sqlite":
		s, err := store.OpenSQLite(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case "hrapi":
		if cfg.Store.HRAPI == nil || cfg.Store.HRAPI.URL == "" {
			return nil, nil, fmt.Errorf("store.hrapi.url is required for the hrapi backend")
		}
		token, err := secrets.Load(secrets.Source{
			Name: "hr api token",
			File: cfg.Store.HRAPI.TokenFile,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("%w (set store.hrapi.token-file or HR_API_TOKEN_FILE)", err)
		}
		return hrapi.New(log, cfg.Store.HRAPI.URL, token), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported store backend: %s", cfg.Store.Backend)
	}
}

// newExtractor wires the completion service behind the LLM extractor.
func newExtractor(ctx context.Context, log *zap.Logger, cfg *Config) (*extraction.Extractor, *completion.Service, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.LLM.Provider))
	if provider != "" && provider != "gemini" {
		return nil, nil, fmt.Errorf("unsupported llm provider: %s", cfg.LLM.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.LLM.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w (set llm.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	upstream, err := completion.NewGeminiUpstream(ctx, apiKey, cfg.LLM.Gemini.Model)
	if err != nil {
		return nil, nil, err
	}

	cache, err := completion.OpenDiskCache(cfg.Cache.Dir, log)
	if err != nil {
		return nil, nil, err
	}

	svcLogger := logger.WithFields(log, logger.ModelFields("gemini", upstream.Model())...)
	service := completion.NewService(upstream, cache, svcLogger, completion.ServiceConfig{
		MaxRetries:        cfg.LLM.MaxRetries,
		RequestsPerMinute: cfg.LLM.RequestsPerMinute,
	})

	return extraction.New(service, log, cfg.LLM.MaxLogLength), service, nil
}

func newMatchOrchestrator(log *zap.Logger, cfg *Config, source store.Source, extractor match.Extractor, recorder match.Recorder) (*match.Orchestrator, error) {
	cache, err := match.NewCache(cfg.Cache.Dir, log)
	if err != nil {
		return nil, err
	}

	scoringCfg := scoring.DefaultConfig()
	if cfg.Match.Weights != nil {
		scoringCfg.Weights = *cfg.Match.Weights
	}

	return match.NewOrchestrator(match.Deps{
		Source:    source,
		Extractor: extractor,
		Engine:    scoring.NewEngine(scoringCfg),
		Cache:     cache,
		Recorder:  recorder,
		Logger:    log,
	}, match.Config{BatchSize: cfg.Match.BatchSize}), nil
}

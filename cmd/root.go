package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/horoscope/internal/ads"
	"github.com/abhisek/horoscope/internal/compat"
	"github.com/abhisek/horoscope/internal/config"
	"github.com/abhisek/horoscope/internal/logging"
	"github.com/abhisek/horoscope/internal/store"
	"github.com/abhisek/horoscope/internal/submission"
	"github.com/abhisek/horoscope/internal/transport"
)

var rootCmd = &cobra.Command{
	Use:   "horoscope",
	Short: "Ask an astrologer, check a match",
	Long:  "Horoscope — terminal app for sending questions to astrologers and checking zodiac compatibility.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

// Execute runs the root command until it returns or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides HOROSCOPE_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (overrides HOROSCOPE_CONFIG env var)")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(datasetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then HOROSCOPE_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// loadConfig reads --config, else HOROSCOPE_CONFIG, else the XDG default.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultPath()
	}
	return config.Load(path)
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	return logging.New(cfg.Log.Level, cfg.Log.File)
}

// loadMatcher loads the built-in dataset plus the configured override.
func loadMatcher(cfg config.Config) (*compat.Matcher, error) {
	var (
		ds  *compat.Dataset
		err error
	)
	if p := cfg.Dataset.OverridePath; p != "" {
		ds, err = compat.LoadWithOverrideFile(p)
	} else {
		ds, err = compat.Default()
	}
	if err != nil {
		return nil, fmt.Errorf("load compatibility dataset: %w", err)
	}
	return compat.NewMatcher(ds), nil
}

// newAdProvider returns ads.Disabled when no ad server is configured.
func newAdProvider(cfg config.Config, presenter ads.Presenter, logger *zap.Logger) submission.AdProvider {
	if cfg.Ads.BaseURL == "" {
		return ads.Disabled{}
	}
	return ads.NewClient(cfg.Ads.BaseURL, presenter, nil, logger.Named("ads"))
}

func newTransport(cfg config.Config, logger *zap.Logger) *transport.Client {
	return transport.New(cfg.API.Timeout,
		transport.WithAPIKey(cfg.API.APIKey),
		transport.WithUserAgent("horoscope/"+version),
		transport.WithLogger(logger.Named("transport")),
	)
}

func workflowConfig(cfg config.Config) submission.Config {
	return submission.Config{
		Endpoint: submission.Endpoint{
			Method: cfg.API.Method,
			URL:    cfg.API.URL,
			Params: cfg.API.Values(),
		},
		AdUnitID:  cfg.Ads.QuestionUnit,
		AdTimeout: cfg.Ads.Timeout,
	}
}

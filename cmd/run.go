package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/horoscope/internal/ads"
	"github.com/abhisek/horoscope/internal/app"
)

// runApp loads config, opens the store, builds dependencies, and launches
// the TUI.
func runApp(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	matcher, err := loadMatcher(cfg)
	if err != nil {
		return err
	}

	presenter := ads.NewChannelPresenter()
	opts := app.Options{
		Config:    cfg,
		Matcher:   matcher,
		Ads:       newAdProvider(cfg, presenter, logger),
		Presenter: presenter,
		Transport: newTransport(cfg, logger),
		Logger:    logger,
	}

	// The app works without a database; history is then unavailable.
	st, err := openStore(cmd)
	if err != nil {
		fmt.Fprintln(os.Stderr, "History unavailable:", err)
		logger.Warn("store unavailable", zap.Error(err))
	} else {
		defer st.Close()
		opts.EventRepo = st.EventRepo()
	}

	_, adsOff := opts.Ads.(ads.Disabled)
	logger.Info("starting tui",
		zap.String("version", version),
		zap.Bool("ads", !adsOff),
		zap.String("dataset", matcher.Dataset().Version()))
	return app.Run(opts)
}

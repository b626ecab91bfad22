package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/horoscope/internal/ads"
	"github.com/abhisek/horoscope/internal/config"
	"github.com/abhisek/horoscope/internal/submission"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Send a question to an astrologer without the TUI",
	Long: `Send a question to an astrologer. An interstitial ad is printed first
when an ad server is configured; the question is sent either way.`,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringP("astrologer", "a", "", "Astrologer name (default: first in roster)")
	askCmd.Flags().StringP("email", "e", "", "Reply email address")
	askCmd.Flags().Duration("ad-hold", 3*time.Second, "How long a printed ad stays before sending")
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	name, _ := cmd.Flags().GetString("astrologer")
	astrologer, err := findAstrologer(cfg.Astrologers, name)
	if err != nil {
		return err
	}

	draft := submission.NewDraft(astrologer.Name)
	if len(args) > 0 {
		draft.SetMessage(strings.Join(args, " "))
	}
	if cmd.Flags().Changed("email") {
		email, _ := cmd.Flags().GetString("email")
		draft.SetEmail(email)
	}

	hold, _ := cmd.Flags().GetDuration("ad-hold")
	presenter := ads.WriterPresenter{W: cmd.OutOrStdout(), Hold: hold}
	opts := []submission.Option{submission.WithLogger(logger.Named("submission"))}

	st, err := openStore(cmd)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Not recording this submission:", err)
	} else {
		defer st.Close()
		opts = append(opts, submission.WithRecorder(st.EventRepo()))
	}

	wf := submission.New(newAdProvider(cfg, presenter, logger), newTransport(cfg, logger), workflowConfig(cfg), opts...)
	outcome := wf.Start(cmd.Context(), draft)
	logger.Info("ask finished", zap.String("astrologer", astrologer.Name), zap.Stringer("outcome", outcome))

	if outcome != submission.OutcomeAccepted {
		return errors.New("question not sent; try again")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Question sent. %s will answer by email.\n", astrologer.Name)
	return nil
}

// findAstrologer matches name case-insensitively; empty picks the first.
func findAstrologer(roster []config.Astrologer, name string) (config.Astrologer, error) {
	if len(roster) == 0 {
		return config.Astrologer{}, errors.New("no astrologers configured")
	}
	if name == "" {
		return roster[0], nil
	}
	names := make([]string, 0, len(roster))
	for _, a := range roster {
		if strings.EqualFold(a.Name, name) {
			return a, nil
		}
		names = append(names, a.Name)
	}
	return config.Astrologer{}, fmt.Errorf("unknown astrologer %q (have: %s)", name, strings.Join(names, ", "))
}

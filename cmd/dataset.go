package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/horoscope/internal/compat"
	"github.com/abhisek/horoscope/internal/llm"
	"github.com/abhisek/horoscope/internal/narrate"
	"github.com/abhisek/horoscope/internal/zodiac"
)

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Inspect and author the compatibility dataset",
}

var datasetCheckCmd = &cobra.Command{
	Use:   "check [override.yaml]",
	Short: "Validate the built-in dataset, or an override on top of it",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			ds  *compat.Dataset
			err error
		)
		if len(args) == 1 {
			ds, err = compat.LoadWithOverrideFile(args[0])
		} else {
			ds, err = compat.Default()
		}
		if err != nil {
			return err
		}
		fmt.Printf("dataset %s: %d pairs, %d categories, OK\n",
			ds.Version(), ds.Size(), len(compat.Categories()))
		return nil
	},
}

var datasetNarrateCmd = &cobra.Command{
	Use:   "narrate",
	Short: "Draft pair narratives with the configured LLM into an override file",
	Long: `Ask the configured LLM for a summary and relationship text for each
sign pair and write them as a dataset override. Point dataset.overridePath
(or HOROSCOPE_DATASET) at the file to use it.

The provider is chosen from HOROSCOPE_LLM_PROVIDER and its key, or the
first of GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY,
OPENROUTER_API_KEY that is set.`,
	RunE: runNarrate,
}

func init() {
	datasetNarrateCmd.Flags().StringP("out", "o", "", "Override file to write (required)")
	datasetNarrateCmd.Flags().StringSlice("pairs", nil, "Pair keys to narrate, e.g. aries-leo (default: all 66)")
	datasetNarrateCmd.Flags().Int("concurrency", narrate.DefaultConfig().Concurrency, "Concurrent LLM calls")
	_ = datasetNarrateCmd.MarkFlagRequired("out")

	datasetCmd.AddCommand(datasetCheckCmd)
	datasetCmd.AddCommand(datasetNarrateCmd)
}

func runNarrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out, _ := cmd.Flags().GetString("out")
	keys, _ := cmd.Flags().GetStringSlice("pairs")
	concurrency, _ := cmd.Flags().GetInt("concurrency")

	pairs := zodiac.Pairs()
	if len(keys) > 0 {
		pairs = pairs[:0:0]
		for _, k := range keys {
			p, err := zodiac.ParsePairKey(strings.TrimSpace(k))
			if err != nil {
				return err
			}
			pairs = append(pairs, p)
		}
	}

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

	llmCfg, err := llm.ResolveConfig()
	if err != nil {
		return err
	}

	var recorder llm.EventRecorder
	st, err := openStore(cmd)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Not recording LLM calls:", err)
	} else {
		defer st.Close()
		recorder = st.EventRepo()
	}

	provider, err := llm.NewProvider(ctx, llmCfg, recorder, logger.Named("llm"))
	if err != nil {
		return fmt.Errorf("LLM provider: %w", err)
	}
	fmt.Printf("Narrating %d pairs with %s...\n", len(pairs), provider.ModelID())

	ncfg := narrate.DefaultConfig()
	ncfg.Concurrency = concurrency
	g := narrate.New(provider, matcher, ncfg, logger.Named("narrate"))

	res, err := g.Run(ctx, pairs, func(done, total int) {
		fmt.Printf("\r  %d/%d", done, total)
	})
	fmt.Println()
	if err != nil {
		return err
	}

	for _, f := range res.Failed {
		fmt.Fprintf(os.Stderr, "  failed %s\n", f.Error())
	}
	if len(res.File.Narratives) == 0 {
		return fmt.Errorf("no narratives generated")
	}
	if err := narrate.WriteOverrideFile(out, res.File); err != nil {
		return fmt.Errorf("write override: %w", err)
	}

	logger.Info("override written", zap.String("path", out), zap.Int("pairs", len(res.File.Narratives)))
	fmt.Printf("Wrote %d narratives to %s (%d failed)\n", len(res.File.Narratives), out, len(res.Failed))
	return nil
}

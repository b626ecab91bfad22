package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/horoscope/internal/compat"
	"github.com/abhisek/horoscope/internal/i18n"
	"github.com/abhisek/horoscope/internal/selection"
	"github.com/abhisek/horoscope/internal/zodiac"
)

var matchCmd = &cobra.Command{
	Use:   "match <sign> <sign>",
	Short: "Show how two zodiac signs match",
	Args:  cobra.ExactArgs(selection.PairSize),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		matcher, err := loadMatcher(cfg)
		if err != nil {
			return err
		}

		picked := selection.New(cfg.Selection.Policy())
		for _, arg := range args {
			sign, err := zodiac.Parse(arg)
			if err != nil {
				return err
			}
			if err := picked.Add(sign); err != nil {
				return err
			}
		}
		a, b, ok := picked.Pair()
		if !ok {
			return fmt.Errorf("need %d signs", selection.PairSize)
		}

		matches, err := matcher.ScoreFor(a, b)
		if err != nil {
			return err
		}
		narrative, err := matcher.NarrativeFor(a, b)
		if err != nil {
			return err
		}
		printMatch(cmd.OutOrStdout(), a, b, matches, narrative)
		return nil
	},
}

const barWidth = 20

func printMatch(w io.Writer, a, b zodiac.Sign, matches []compat.Match, n compat.Narrative) {
	fmt.Fprintf(w, "%s %s × %s %s\n\n", a.Symbol(), a, b.Symbol(), b)
	fmt.Fprintln(w, n.Summary)
	fmt.Fprintln(w)
	fmt.Fprintln(w, i18n.T("Relationship"))
	fmt.Fprintln(w, strings.Repeat("─", 40))
	fmt.Fprintln(w, n.Relationship)
	fmt.Fprintln(w)

	for _, m := range matches {
		filled := m.Score * barWidth / 100
		fmt.Fprintf(w, "%s %-14s %s%s %3d%%\n",
			m.Category.Icon(), i18n.T(m.Category.Label()),
			strings.Repeat("█", filled), strings.Repeat("░", barWidth-filled), m.Score)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, i18n.T("Overall", map[string]string{"score": fmt.Sprint(compat.Overall(matches))}))
}

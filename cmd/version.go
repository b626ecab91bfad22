package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/horoscope/internal/compat"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the app and compatibility dataset versions",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		m, err := loadMatcher(cfg)
		if err != nil {
			return err
		}
		printVersion(cmd.OutOrStdout(), m.Dataset(), cfg.Dataset.OverridePath)
		return nil
	},
}

func printVersion(w io.Writer, ds *compat.Dataset, override string) {
	fmt.Fprintln(w, "horoscope", version)
	fmt.Fprintf(w, "dataset   %s (%d pairs)\n", ds.Version(), ds.Size())
	if override != "" {
		fmt.Fprintln(w, "override ", override)
	}
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/horoscope/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent question submissions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QuerySubmissionEvents(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if len(events) == 0 {
			fmt.Println("No submissions recorded yet.")
			return nil
		}

		fmt.Printf("%-5s  %-19s  %-12s  %-11s  %-12s  %-7s  %s\n",
			"Seq", "Timestamp", "Astrologer", "Ad", "Outcome", "Ms", "Error")
		fmt.Println(strings.Repeat("─", 90))
		for _, e := range events {
			errMsg := e.ErrorMessage
			if errMsg == "" && e.AdError != "" {
				errMsg = "ad: " + e.AdError
			}
			fmt.Printf("%-5d  %-19s  %-12s  %-11s  %-12s  %-7d  %s\n",
				e.Sequence,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				truncate(e.Astrologer, 12),
				e.AdResult,
				e.Outcome,
				e.LatencyMs,
				errMsg,
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of submissions to show")
}

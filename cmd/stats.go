package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd.Context())
		if err != nil {
			return err
		}
		defer d.Close()

		ctx := cmd.Context()
		stats, err := d.Store.EventRepo().LevelStats(ctx)
		if err != nil {
			return fmt.Errorf("query stats: %w", err)
		}
		if len(stats) == 0 {
			fmt.Println("No rounds won yet.")
			return nil
		}

		fmt.Printf("%-6s  %6s  %8s  %10s  %8s\n", "Level", "Won", "Errors", "Time", "Err/rnd")
		fmt.Println(strings.Repeat("─", 48))
		var won, errs, secs int
		for _, st := range stats {
			fmt.Printf("%-6d  %6d  %8d  %10s  %8.1f\n",
				st.LevelID, st.RoundsWon, st.TotalErrors, formatSeconds(st.TotalSeconds),
				float64(st.TotalErrors)/float64(max(st.RoundsWon, 1)))
			won += st.RoundsWon
			errs += st.TotalErrors
			secs += st.TotalSeconds
		}
		fmt.Println(strings.Repeat("─", 48))
		fmt.Printf("%-6s  %6d  %8d  %10s\n", "TOTAL", won, errs, formatSeconds(secs))

		fmt.Printf("\nAlphabet runs completed: %d\n", d.Progress.AlefbetCompletions(ctx))
		return nil
	},
}

func formatSeconds(s int) string {
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

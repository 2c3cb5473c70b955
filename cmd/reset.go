package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/ivrit/internal/game"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Inspect or reset saved progress",
}

var progressShowCmd = &cobra.Command{
	Use:   "show <level>",
	Short: "Show completed, archived and graded rounds of a level",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		levelID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid level %q: %w", args[0], err)
		}
		d, err := openDeps(cmd.Context())
		if err != nil {
			return err
		}
		defer d.Close()

		p, err := d.Progress.Level(cmd.Context(), levelID)
		if err != nil {
			return err
		}
		fmt.Printf("Completed: %v\n", p.Completed.Sorted())
		fmt.Printf("Archived:  %v\n", p.Archived.Sorted())
		for _, r := range p.Done().Sorted() {
			fmt.Printf("  round %-3d  %d errors  %s\n", r, p.BestErrors[r], game.Grade(p.BestErrors[r]))
		}
		return nil
	},
}

var progressResetCmd = &cobra.Command{
	Use:   "reset [level [round]]",
	Short: "Reset one round, one level, or everything except the locale",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := make([]int, len(args))
		for i, a := range args {
			n, err := strconv.Atoi(a)
			if err != nil {
				return fmt.Errorf("invalid number %q: %w", a, err)
			}
			ids[i] = n
		}

		d, err := openDeps(cmd.Context())
		if err != nil {
			return err
		}
		defer d.Close()

		ctx := cmd.Context()
		switch len(ids) {
		case 2:
			if err := d.Progress.ResetRound(ctx, ids[0], ids[1]); err != nil {
				return err
			}
			fmt.Printf("Round %d of level %d reset.\n", ids[1], ids[0])
		case 1:
			if err := d.Progress.ResetLevel(ctx, ids[0]); err != nil {
				return err
			}
			fmt.Printf("Level %d reset.\n", ids[0])
		default:
			if err := d.Progress.ResetAllExceptLocale(ctx); err != nil {
				return err
			}
			fmt.Println("All progress reset. Run `ivrit progress undo` to restore it.")
		}
		return nil
	},
}

var progressUndoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Restore progress saved before the last full reset",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd.Context())
		if err != nil {
			return err
		}
		defer d.Close()

		ok, err := d.Progress.RestoreLatest(cmd.Context())
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Nothing to restore.")
			return nil
		}
		fmt.Println("Progress restored.")
		return nil
	},
}

// roundGlyphs draws one character per round status.
func roundGlyphs(rounds []game.RoundStatus) string {
	var b strings.Builder
	for _, r := range rounds {
		b.WriteString(r.Glyph())
	}
	return b.String()
}

func init() {
	progressCmd.AddCommand(progressShowCmd)
	progressCmd.AddCommand(progressResetCmd)
	progressCmd.AddCommand(progressUndoCmd)
}

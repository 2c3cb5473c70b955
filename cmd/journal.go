package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Review completed sentences",
}

var journalListCmd = &cobra.Command{
	Use:   "list <level>",
	Short: "List completed, non-archived sentences of a level",
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

		entries, err := d.Journal.Entries(cmd.Context(), levelID)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("Journal is empty.")
			return nil
		}
		for _, e := range entries {
			fmt.Printf("%3d  %s\n", e.Round, e.Sentence.Text)
			if e.Sentence.Translation != "" {
				fmt.Printf("     %s\n", e.Sentence.Translation)
			}
		}
		return nil
	},
}

// journalEditCmd builds the forget and archive subcommands, which share
// argument parsing.
func journalEditCmd(use, short, done string, apply func(d *deps, cmd *cobra.Command, levelID, round int) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <level> <round>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			levelID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid level %q: %w", args[0], err)
			}
			round, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid round %q: %w", args[1], err)
			}
			d, err := openDeps(cmd.Context())
			if err != nil {
				return err
			}
			defer d.Close()

			if err := apply(d, cmd, levelID, round); err != nil {
				return err
			}
			fmt.Printf("Round %d of level %d %s.\n", round, levelID, done)
			return nil
		},
	}
}

func init() {
	journalCmd.AddCommand(journalListCmd)
	journalCmd.AddCommand(journalEditCmd("forget", "Return a sentence to play", "returned to play",
		func(d *deps, cmd *cobra.Command, levelID, round int) error {
			return d.Journal.Forget(cmd.Context(), levelID, round)
		}))
	journalCmd.AddCommand(journalEditCmd("archive", "Hide a sentence from the journal", "archived",
		func(d *deps, cmd *cobra.Command, levelID, round int) error {
			return d.Journal.Archive(cmd.Context(), levelID, round)
		}))
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var dictCmd = &cobra.Command{
	Use:   "dict [query]",
	Short: "Search the words unlocked in completed matching rounds",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd.Context())
		if err != nil {
			return err
		}
		defer d.Close()

		entries, err := d.Dictionary.Search(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No words found.")
			return nil
		}
		for _, e := range entries {
			fmt.Printf("%-24s  %s\n", e.Hebrew, e.Translation)
		}
		fmt.Printf("\n%d words\n", len(entries))
		return nil
	},
}

package cmd

import (
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Open a level straight away",
	RunE: func(cmd *cobra.Command, args []string) error {
		levelID, _ := cmd.Flags().GetInt("level")
		return runApp(cmd, levelID)
	},
}

func init() {
	playCmd.Flags().IntP("level", "l", 1, "Level to open")
}

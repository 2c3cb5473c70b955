package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/ivrit/internal/config"
	"github.com/abhisek/ivrit/internal/logging"
	"github.com/abhisek/ivrit/internal/store"
)

var (
	appConfig *config.Config
	closeLog  = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "ivrit",
	Short: "Hebrew card puzzles in your terminal",
	Long:  "ivrit — assemble Hebrew sentences from cards, level by level, with a journal and a dictionary of the words you have met.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, 0)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default $XDG_CONFIG_HOME/ivrit/ivrit.yaml)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides IVRIT_DB env var)")
	rootCmd.PersistentFlags().String("levels", "", "Directory holding level_N.json files")
	rootCmd.PersistentFlags().String("log-file", "", "Log destination, - for stderr")
	rootCmd.PersistentFlags().Uint64("seed", 0, "Fix the shuffle seed (0 = random)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(journalCmd)
	rootCmd.AddCommand(dictCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves configuration, applies flag overrides and installs the
// logger.
func loadConfig(cmd *cobra.Command) error {
	file, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(config.Options{File: file})
	if err != nil {
		return err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	if d, _ := cmd.Flags().GetString("levels"); d != "" {
		cfg.LevelsDir = d
	}
	if f, _ := cmd.Flags().GetString("log-file"); f != "" {
		cfg.Log.File = f
	}
	if s, _ := cmd.Flags().GetUint64("seed"); s != 0 {
		cfg.Seed = s
	}

	_, closer, err := logging.Setup(cfg.Log)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	appConfig, closeLog = cfg, closer
	return nil
}

// resolveDBPath returns the database path using --db flag or IVRIT_DB
// (both folded into the config), then the default XDG path.
func resolveDBPath() (string, error) {
	if appConfig != nil && appConfig.DBPath != "" {
		return appConfig.DBPath, store.EnsureDir(appConfig.DBPath)
	}
	return store.DefaultDBPath()
}

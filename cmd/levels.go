package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/abhisek/ivrit/internal/drafting"
	"github.com/abhisek/ivrit/internal/level"
	"github.com/abhisek/ivrit/internal/llm"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "Browse and draft level files",
}

var levelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List levels with their unlock state and progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd.Context())
		if err != nil {
			return err
		}
		defer d.Close()

		statuses := d.Controller.Map(cmd.Context())
		if len(statuses) == 0 {
			fmt.Printf("No levels found in %s\n", appConfig.LevelsDir)
			return nil
		}

		fmt.Printf("%-6s  %-8s  %-10s  %s\n", "Level", "State", "Progress", "Rounds")
		fmt.Println(strings.Repeat("─", 72))
		for _, ls := range statuses {
			state := "locked"
			switch {
			case ls.Completed:
				state = "done"
			case ls.Unlocked:
				state = "open"
			}
			fmt.Printf("%-6d  %-8s  %4d/%-5d  %s\n",
				ls.LevelID, state, ls.Done, len(ls.Rounds), roundGlyphs(ls.Rounds))
		}
		return nil
	},
}

var levelsShowCmd = &cobra.Command{
	Use:   "show <level>",
	Short: "Show the sentences of a level",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		levelID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid level %q: %w", args[0], err)
		}
		repo := level.NewRepository(afero.NewOsFs(), appConfig.LevelsDir)
		sentences, err := repo.Load(cmd.Context(), levelID)
		if err != nil {
			return err
		}

		fmt.Printf("%-5s  %-22s  %s\n", "Round", "Task", "Text")
		fmt.Println(strings.Repeat("─", 80))
		for i, s := range sentences {
			text := strings.ReplaceAll(s.Text, "\n", " / ")
			if utf8.RuneCountInString(text) > 48 {
				text = string([]rune(text)[:45]) + "..."
			}
			fmt.Printf("%-5d  %-22s  %s\n", i, s.TaskType, text)
		}
		fmt.Printf("\n%d rounds\n", len(sentences))
		return nil
	},
}

var levelsDraftCmd = &cobra.Command{
	Use:   "draft <topic>",
	Short: "Draft a new level file with the configured LLM provider",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		levelID, _ := cmd.Flags().GetInt("level")
		tasks, _ := cmd.Flags().GetStringSlice("tasks")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		overwrite, _ := cmd.Flags().GetBool("overwrite")

		d, err := openDeps(cmd.Context())
		if err != nil {
			return err
		}
		defer d.Close()

		ctx := cmd.Context()
		provider, err := newProvider(ctx, d)
		if err != nil {
			return fmt.Errorf("LLM provider: %w", err)
		}

		var taskTypes []level.TaskType
		for _, t := range tasks {
			tt := level.ParseTaskType(t)
			if tt == level.TaskUnknown {
				return fmt.Errorf("unknown task type %q", t)
			}
			taskTypes = append(taskTypes, tt)
		}

		fs := afero.NewOsFs()
		drafter := drafting.New(provider, d.Levels, fs, appConfig.LevelsDir, drafting.DefaultConfig())
		draft, err := drafter.Draft(ctx, drafting.Request{
			Topic:     strings.Join(args, " "),
			Count:     count,
			TaskTypes: taskTypes,
			Locale:    d.Progress.Locale(ctx),
			LevelID:   levelID,
		})
		if err != nil {
			return err
		}

		for _, reason := range draft.Dropped {
			fmt.Println("dropped:", reason)
		}
		fmt.Printf("Level %d: %d sentences\n", draft.LevelID, len(draft.File.Sentences))
		if dryRun {
			for i, s := range draft.File.Sentences {
				fmt.Printf("  %2d  %-22s  %s\n", i, s.TaskType, s.Text)
			}
			return nil
		}

		path, err := drafter.Write(draft, overwrite)
		if errors.Is(err, drafting.ErrLevelExists) {
			return fmt.Errorf("%w (use --overwrite)", err)
		}
		if err != nil {
			return err
		}
		fmt.Println("Wrote", path)
		return nil
	},
}

// newProvider builds the LLM provider from the environment with the config
// file's overrides applied.
func newProvider(ctx context.Context, d *deps) (llm.Provider, error) {
	cfg, err := llm.ResolveConfig()
	if err != nil && appConfig.LLM.Provider == "" {
		return nil, err
	}
	if err != nil {
		cfg = llm.DefaultConfig()
	}
	cfg = cfg.Override(appConfig.LLM.Provider, appConfig.LLM.Model, appConfig.LLM.Timeout)
	return llm.NewProvider(ctx, cfg, d.Store.EventRepo())
}

func init() {
	levelsDraftCmd.Flags().IntP("count", "n", 10, "Number of sentences to request")
	levelsDraftCmd.Flags().Int("level", 0, "Level id to write (default: next free id)")
	levelsDraftCmd.Flags().StringSlice("tasks", nil, "Task types to request (default: all)")
	levelsDraftCmd.Flags().Bool("dry-run", false, "Print the draft without writing it")
	levelsDraftCmd.Flags().Bool("overwrite", false, "Replace an existing level file")

	levelsCmd.AddCommand(levelsListCmd)
	levelsCmd.AddCommand(levelsShowCmd)
	levelsCmd.AddCommand(levelsDraftCmd)
}

package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/abhisek/ivrit/internal/level"
	"github.com/abhisek/ivrit/internal/screens/services"
	"github.com/abhisek/ivrit/internal/task"
)

var previewCmd = &cobra.Command{
	Use:   "preview <level> [round]",
	Short: "Print the assembled board of a round (no database)",
	Long: `Assemble one round (or every round) of a level and print its slots and card pool.

This is a stateless developer tool — no database, no progress, no events.
Useful for checking that a level file's target cards line up with its text.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runPreview,
}

func runPreview(cmd *cobra.Command, args []string) error {
	levelID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid level %q: %w", args[0], err)
	}
	repo := level.NewRepository(afero.NewOsFs(), appConfig.LevelsDir)
	sentences, err := repo.Load(cmd.Context(), levelID)
	if err != nil {
		return err
	}

	rounds := make([]int, 0, len(sentences))
	if len(args) == 2 {
		r, err := strconv.Atoi(args[1])
		if err != nil || r < 0 || r >= len(sentences) {
			return fmt.Errorf("round %q: want 0..%d", args[1], len(sentences)-1)
		}
		rounds = append(rounds, r)
	} else {
		for i := range sentences {
			rounds = append(rounds, i)
		}
	}

	rng := services.NewRand(appConfig.Seed)
	var unplayable int
	for _, r := range rounds {
		s := sentences[r]
		var pairs []level.Pair
		if s.TaskType == level.TaskConjugation {
			pairs = task.ShufflePairs(s, rng)
		}
		layout := task.Assemble(s, s.TaskType, pairs, rng)

		fmt.Printf("── Round %d · %s ──\n", r, s.TaskType.DisplayName())
		if len(layout.Slots) == 0 {
			unplayable++
			fmt.Print("(unplayable: no slots)\n\n")
			continue
		}
		fmt.Println(renderSlots(layout.Slots))
		fmt.Println("Pool:", renderPool(layout.Pool))
		fmt.Printf("Blanks: %d  Targets: %d\n\n", layout.Blanks(), len(layout.Targets))
	}

	if unplayable > 0 {
		fmt.Printf("── %d of %d rounds unplayable ──\n", unplayable, len(rounds))
	}
	return nil
}

// renderSlots draws blanks as [word] when filled and [___] otherwise. Row
// groups start on a new line.
func renderSlots(slots []task.Slot) string {
	var b strings.Builder
	row := slots[0].Row
	for _, s := range slots {
		if s.Row != row {
			b.WriteString("\n")
			row = s.Row
		}
		switch {
		case !s.Blank:
			b.WriteString(s.Text)
		case s.Filled != nil:
			fmt.Fprintf(&b, "[%s]", s.Filled.Text)
		default:
			fmt.Fprintf(&b, "[%s]", task.BlankMarker)
		}
	}
	return b.String()
}

func renderPool(pool []task.AvailableCard) string {
	texts := make([]string, 0, len(pool))
	for _, c := range pool {
		texts = append(texts, c.Card.Text)
	}
	return strings.Join(texts, " · ")
}

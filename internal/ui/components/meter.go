package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/ivrit/internal/ui/theme"
)

// Meter draws done of total as a row of segments followed by "done/total".
// Up to width segments are drawn; longer totals are scaled down.
func Meter(done, total, width int) string {
	if total <= 0 {
		return ""
	}
	done = min(max(done, 0), total)
	segs := min(total, max(width, 1))
	filled := done * segs / total
	if done > 0 && filled == 0 {
		filled = 1
	}

	on := lipgloss.NewStyle().Foreground(theme.Secondary).Render(strings.Repeat("▰", filled))
	off := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("▱", segs-filled))
	count := lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf(" %d/%d", done, total))
	return on + off + count
}

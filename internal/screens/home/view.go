package home

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/ivrit/internal/ui/components"
	"github.com/abhisek/ivrit/internal/ui/theme"
)

// MascotVariant picks the mood of the home screen mascot.
type MascotVariant int

const (
	MascotIdle MascotVariant = iota
	// MascotCelebrating is shown once every level is finished.
	MascotCelebrating
	// MascotAlert is shown when the levels directory is empty.
	MascotAlert
)

// The mascot is a scroll with a face; the celebrating one holds a ribbon.
var mascots = map[MascotVariant]struct {
	art string
	fg  color.Color
}{
	MascotIdle: {fg: theme.Primary, art: "" +
		" ╭──────╮\n" +
		"(│ •  • │)\n" +
		" │  ‿   │\n" +
		"(│ שלום │)\n" +
		" ╰──────╯"},
	MascotCelebrating: {fg: theme.Gold, art: "" +
		" ╭──────╮\n" +
		"(│ ★  ★ │)\n" +
		" │  ◡   │\n" +
		"(│ יפה! │)\n" +
		" ╰──┬┬──╯\n" +
		"    ╰╯"},
	MascotAlert: {fg: theme.Accent, art: "" +
		" ╭──────╮\n" +
		"(│ •  • │) ?\n" +
		" │  ○   │\n" +
		"(│  ... │)\n" +
		" ╰──────╯"},
}

func renderMascot(v MascotVariant) string {
	m, ok := mascots[v]
	if !ok {
		m = mascots[MascotIdle]
	}
	return lipgloss.NewStyle().Foreground(m.fg).Render(m.art)
}

const (
	banner        = "ע · ב · ר · י · ת"
	bannerLatin   = "I V R I T"
	buttonWidth   = 22
	meterSegments = 20
)

func centered(s string, cw int) string {
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(s)
}

func renderBanner(cw int, compact bool) string {
	title := lipgloss.NewStyle().Foreground(theme.Gold).Bold(true)
	if compact {
		return centered(title.Render(bannerLatin), cw)
	}
	sub := lipgloss.NewStyle().Foreground(theme.TextDim)
	return centered(title.Render(banner)+"\n"+sub.Render(bannerLatin+" · learn Hebrew word by word"), cw)
}

// renderStats shows level and round meters, or a single line when compact.
func renderStats(st Stats, cw int, compact bool) string {
	label := lipgloss.NewStyle().Foreground(theme.Sky).Bold(true)
	var body string
	if compact {
		body = fmt.Sprintf("★%d/%d  ●%d/%d  א%d",
			st.LevelsDone, st.Levels, st.RoundsDone, st.Rounds, st.Alefbet)
	} else {
		body = strings.Join([]string{
			label.Render("LEVELS ") + components.Meter(st.LevelsDone, st.Levels, meterSegments),
			label.Render("ROUNDS ") + components.Meter(st.RoundsDone, st.Rounds, meterSegments),
			label.Render("ALEF-BET ") + fmt.Sprintf("finished %d×", st.Alefbet),
		}, "\n")
	}
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Sky).
		Width(cw-2).
		Padding(0, 1).
		Align(lipgloss.Center).
		Render(body)
}

// statusLine is the short progress summary shown in the header.
func statusLine(st Stats) string {
	if st.Levels == 0 {
		return ""
	}
	return fmt.Sprintf("★ %d/%d", st.LevelsDone, st.Levels)
}

// renderMenu draws bordered buttons, or plain lines when short on rows.
func renderMenu(m components.Menu, cw int, plain bool) string {
	var rows []string
	for i, label := range m.Labels() {
		sel := i == m.Selected
		switch {
		case !plain:
			rows = append(rows, components.Button(label, sel, buttonWidth))
		case sel:
			rows = append(rows, lipgloss.NewStyle().
				Bold(true).
				Foreground(theme.BgDark).
				Background(theme.Gold).
				Render(" ▸ "+label+" "))
		default:
			rows = append(rows, "   "+label)
		}
	}
	out := centered(strings.Join(rows, "\n"), cw)
	if hint := m.Current().Hint; hint != "" && !plain {
		out += "\n" + centered(lipgloss.NewStyle().Foreground(theme.TextDim).Render(hint), cw)
	}
	return out
}

func renderNoLevels(cw int) string {
	return centered(lipgloss.NewStyle().Foreground(theme.Accent).
		Render("⚠ No levels found (see ivrit levels --help)"), cw)
}

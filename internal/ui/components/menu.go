package components

import (
	tea "charm.land/bubbletea/v2"
)

// MenuItem is one entry. Hint is a line describing the entry, shown while
// it is selected.
type MenuItem struct {
	Label  string
	Hint   string
	Action func() tea.Cmd
}

// Menu tracks the selected entry; owners draw it. Up/down wrap around and
// digits 1-9 jump to an entry.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu selects the first item.
func NewMenu(items []MenuItem) Menu {
	return Menu{Items: items}
}

// Current is the selected item.
func (m Menu) Current() MenuItem {
	if m.Selected < 0 || m.Selected >= len(m.Items) {
		return MenuItem{}
	}
	return m.Items[m.Selected]
}

// Labels lists the item labels in order.
func (m Menu) Labels() []string {
	out := make([]string, len(m.Items))
	for i, it := range m.Items {
		out[i] = it.Label
	}
	return out
}

// Update moves the selection or runs the selected action on enter.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}
	n := len(m.Items)
	switch s := key.String(); s {
	case "up", "k":
		m.Selected = (m.Selected - 1 + n) % n
	case "down", "j":
		m.Selected = (m.Selected + 1) % n
	case "enter":
		if a := m.Current().Action; a != nil {
			return m, a()
		}
	default:
		if len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			if i := int(s[0] - '1'); i < n {
				m.Selected = i
			}
		}
	}
	return m, nil
}

package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/egotutor/internal/ui/theme"
)

// Menu is a vertical pick list with a cursor. It only moves the cursor;
// the owning screen decides what selecting an item means.
type Menu struct {
	Items    []string
	Selected int
}

// NewMenu creates a menu with the cursor on the first item.
func NewMenu(items ...string) Menu {
	return Menu{Items: items}
}

// Update handles cursor movement. The cursor stops at either end.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Items)-1 {
			m.Selected++
		}
	}

	return m, nil
}

// View renders the items with a marker on the cursor line.
func (m Menu) View() string {
	lines := make([]string, 0, len(m.Items))
	for i, label := range m.Items {
		if i == m.Selected {
			lines = append(lines, theme.Selected.Render("  ▸ "+label))
		} else {
			lines = append(lines, theme.Unselected.Render("    "+label))
		}
	}
	return strings.Join(lines, "\n")
}

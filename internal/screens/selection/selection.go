package selection

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/egotutor/internal/profile"
	"github.com/abhisek/egotutor/internal/screen"
	"github.com/abhisek/egotutor/internal/tutor"
	"github.com/abhisek/egotutor/internal/ui/layout"
	"github.com/abhisek/egotutor/internal/ui/theme"
)

// StartMsg asks the app to open the classroom for a learner.
type StartMsg struct {
	ProfileID string
}

// HistoryMsg asks the app to open the lesson history for a learner.
type HistoryMsg struct {
	ProfileID string
}

// NewProfileMsg asks the app to start the onboarding wizard.
type NewProfileMsg struct{}

// DeleteMsg asks the app to remove a learner and their lessons.
type DeleteMsg struct {
	ProfileID string
}

// SelectionScreen lists learner profiles as cards. It is the landing
// screen whenever at least one profile exists.
type SelectionScreen struct {
	profiles      []profile.Profile
	selected      int
	confirmDelete bool
}

var _ screen.Screen = (*SelectionScreen)(nil)
var _ screen.KeyHintProvider = (*SelectionScreen)(nil)

// New creates a SelectionScreen over the given profiles.
func New(profiles []profile.Profile) *SelectionScreen {
	return &SelectionScreen{profiles: profiles}
}

func (s *SelectionScreen) Init() tea.Cmd {
	return nil
}

func (s *SelectionScreen) Title() string {
	return "Who's learning today?"
}

func (s *SelectionScreen) KeyHints() []layout.KeyHint {
	if s.confirmDelete {
		return []layout.KeyHint{
			{Key: "Y", Description: "Delete"},
			{Key: "N", Description: "Keep"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Start learning"},
		{Key: "H", Description: "History"},
		{Key: "N", Description: "New learner"},
		{Key: "D", Description: "Delete"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *SelectionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	if s.confirmDelete {
		switch kmsg.String() {
		case "y", "Y":
			s.confirmDelete = false
			id := s.profiles[s.selected].ID
			return s, func() tea.Msg { return DeleteMsg{ProfileID: id} }
		case "n", "N", "esc":
			s.confirmDelete = false
		}
		return s, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.profiles)-1 {
			s.selected++
		}
	case "enter":
		if len(s.profiles) > 0 {
			id := s.profiles[s.selected].ID
			return s, func() tea.Msg { return StartMsg{ProfileID: id} }
		}
	case "h", "H":
		if len(s.profiles) > 0 {
			id := s.profiles[s.selected].ID
			return s, func() tea.Msg { return HistoryMsg{ProfileID: id} }
		}
	case "n", "N":
		return s, func() tea.Msg { return NewProfileMsg{} }
	case "d", "D":
		if len(s.profiles) > 0 {
			s.confirmDelete = true
		}
	}

	return s, nil
}

func (s *SelectionScreen) View(width, height int) string {
	var sections []string

	sections = append(sections, theme.Title.Render("Pick a learner"))
	sections = append(sections, "")

	for i, p := range s.profiles {
		sections = append(sections, s.renderCard(p, i == s.selected))
	}

	if s.confirmDelete {
		sections = append(sections, "")
		warn := lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render(
			fmt.Sprintf("Delete %s and all their lessons? (y/n)", s.profiles[s.selected].Name))
		sections = append(sections, warn)
	}

	content := strings.Join(sections, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (s *SelectionScreen) renderCard(p profile.Profile, selected bool) string {
	icon := "🐶"
	if p.Gender == profile.GenderGirl {
		icon = "🐱"
	}

	name := fmt.Sprintf("%s %s", icon, p.Name)
	if age, ok := ageFromDOB(p.DOB, time.Now()); ok {
		name = fmt.Sprintf("%s %s, %d", icon, p.Name, age)
	}

	meta := fmt.Sprintf("%d lessons", len(p.Lessons))
	if len(p.Lessons) == 1 {
		meta = "1 lesson"
	}

	lines := []string{
		theme.Selected.Render(name),
		theme.Hint.Render("learns with " + tutor.DisplayName(p.Gender)),
		theme.Hint.Render(strings.Join(p.Interests, " · ")),
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(meta),
	}

	card := theme.Card
	if selected {
		card = card.BorderForeground(theme.Primary)
	}
	return card.Width(44).Render(strings.Join(lines, "\n"))
}

// ageFromDOB computes whole years since a yyyy-mm-dd birth date.
func ageFromDOB(dob string, now time.Time) (int, bool) {
	t, err := time.Parse("2006-01-02", dob)
	if err != nil {
		return 0, false
	}
	years := now.Year() - t.Year()
	// Compare month and day rather than day-of-year, which shifts by one
	// across leap years for birthdays after February.
	if now.Month() < t.Month() || (now.Month() == t.Month() && now.Day() < t.Day()) {
		years--
	}
	if years < 0 {
		return 0, false
	}
	return years, true
}

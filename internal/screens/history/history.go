package history

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/egotutor/internal/profile"
	"github.com/abhisek/egotutor/internal/router"
	"github.com/abhisek/egotutor/internal/screen"
	"github.com/abhisek/egotutor/internal/tutor"
	"github.com/abhisek/egotutor/internal/ui/components"
	"github.com/abhisek/egotutor/internal/ui/layout"
	"github.com/abhisek/egotutor/internal/ui/theme"
)

// HistoryScreen browses a learner's saved lessons, newest first, with
// drill-down into a single transcript.
type HistoryScreen struct {
	prof     profile.Profile
	selected int

	viewing bool // a transcript is open
	chat    components.ChatLog
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a HistoryScreen over the learner's lessons.
func New(prof profile.Profile) *HistoryScreen {
	return &HistoryScreen{
		prof: prof,
		chat: components.NewChatLog(tutor.DisplayName(prof.Gender)),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return nil
}

func (s *HistoryScreen) Title() string {
	if s.viewing {
		return s.prof.Lessons[s.selected].Title
	}
	return "Lesson history"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	if s.viewing {
		return []layout.KeyHint{
			{Key: "↑/↓", Description: "Scroll"},
			{Key: "Esc", Description: "Back to list"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Open"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	if s.viewing {
		switch kmsg.String() {
		case "esc":
			s.viewing = false
		default:
			var cmd tea.Cmd
			s.chat, cmd = s.chat.Update(msg)
			return s, cmd
		}
		return s, nil
	}

	switch kmsg.String() {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.prof.Lessons)-1 {
			s.selected++
		}
	case "enter":
		if len(s.prof.Lessons) > 0 {
			s.viewing = true
			s.chat.SetMessages(s.prof.Lessons[s.selected].Messages)
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.viewing {
		return s.chat.View(width-4, height)
	}

	if len(s.prof.Lessons) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render(fmt.Sprintf("\n\n  No lessons yet. Start learning with %s!",
				tutor.DisplayName(s.prof.Gender)))
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, lesson := range s.prof.Lessons {
		dateStr := time.UnixMilli(lesson.Timestamp).Format("Jan 02, 2006 3:04 PM")

		count := fmt.Sprintf("%d messages", len(lesson.Messages))
		if len(lesson.Messages) == 1 {
			count = "1 message"
		}

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%-43s  %s  %s", prefix, lesson.Title, dateStr, count)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}

	return b.String()
}

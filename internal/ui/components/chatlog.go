package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/egotutor/internal/profile"
	"github.com/abhisek/egotutor/internal/ui/theme"
)

// ChatLog renders a lesson transcript as a scrollable column of speech
// bubbles. Tutor messages hang left, learner messages hang right.
type ChatLog struct {
	Messages  []profile.Message
	TutorName string

	offset int // lines scrolled up from the bottom
	follow bool
}

// NewChatLog creates an empty chat log pinned to the newest message.
func NewChatLog(tutorName string) ChatLog {
	return ChatLog{
		TutorName: tutorName,
		follow:    true,
	}
}

// SetMessages replaces the transcript and re-pins to the bottom.
func (c *ChatLog) SetMessages(msgs []profile.Message) {
	c.Messages = msgs
	c.offset = 0
	c.follow = true
}

// Append adds a message and re-pins to the bottom.
func (c *ChatLog) Append(msg profile.Message) {
	c.Messages = append(c.Messages, msg)
	c.offset = 0
	c.follow = true
}

// Update handles scroll keys.
func (c ChatLog) Update(msg tea.Msg) (ChatLog, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch kmsg.String() {
	case "up":
		c.offset++
		c.follow = false
	case "down":
		if c.offset > 0 {
			c.offset--
		}
		if c.offset == 0 {
			c.follow = true
		}
	case "pgup":
		c.offset += 5
		c.follow = false
	case "pgdown":
		c.offset -= 5
		if c.offset <= 0 {
			c.offset = 0
			c.follow = true
		}
	}
	return c, nil
}

// View renders the visible window of the transcript.
func (c ChatLog) View(width, height int) string {
	if width < 10 {
		width = 10
	}
	lines := c.lines(width)

	if len(lines) <= height {
		return strings.Join(lines, "\n")
	}

	maxOffset := len(lines) - height
	offset := c.offset
	if c.follow {
		offset = 0
	}
	if offset > maxOffset {
		offset = maxOffset
	}

	start := len(lines) - height - offset
	return strings.Join(lines[start:start+height], "\n")
}

func (c ChatLog) lines(width int) []string {
	bubbleWidth := width * 2 / 3
	if bubbleWidth < 8 {
		bubbleWidth = 8
	}

	var out []string
	for _, m := range c.Messages {
		var bubble string
		if m.Role == profile.RoleUser {
			b := wrapBubble(theme.LearnerBubble, m.Text, bubbleWidth)
			bubble = lipgloss.NewStyle().
				Width(width).
				Align(lipgloss.Right).
				Render(b)
		} else {
			name := theme.Hint.Render(c.TutorName)
			bubble = name + "\n" + wrapBubble(theme.TutorBubble, m.Text, bubbleWidth)
		}
		out = append(out, strings.Split(bubble, "\n")...)
		out = append(out, "")
	}
	return out
}

// wrapBubble renders text in a bubble, wrapping only when the line is
// wider than the bubble limit so short messages keep a snug border.
func wrapBubble(style lipgloss.Style, text string, limit int) string {
	if lipgloss.Width(text) > limit {
		style = style.Width(limit)
	}
	return style.Render(text)
}

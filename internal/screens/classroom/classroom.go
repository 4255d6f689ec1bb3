package classroom

import (
	"context"
	"log/slog"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/egotutor/internal/mascot"
	"github.com/abhisek/egotutor/internal/profile"
	"github.com/abhisek/egotutor/internal/screen"
	"github.com/abhisek/egotutor/internal/tutor"
	"github.com/abhisek/egotutor/internal/ui/components"
	"github.com/abhisek/egotutor/internal/ui/layout"
	"github.com/abhisek/egotutor/internal/ui/theme"
)

// Speaker voices a tutor line. Implementations block until playback
// finishes, so the screen always calls it from a background command.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// ExitedMsg returns the finished transcript to the shell for
// reconciliation into a Lesson.
type ExitedMsg struct {
	Transcript []profile.Message
}

// replyMsg delivers the async tutor response for the single in-flight
// turn.
type replyMsg struct {
	text string
	err  error
}

// spokenMsg reports a finished (or failed) speech playback. Failures are
// logged and otherwise ignored.
type spokenMsg struct {
	err error
}

// ClassroomScreen runs one live tutoring conversation. The transcript
// lives in memory only; the shell persists it on exit.
type ClassroomScreen struct {
	svc     *tutor.Service
	speaker Speaker
	prof    profile.Profile
	log     *slog.Logger

	chat    components.ChatLog
	input   components.TextInput
	busy    bool // one outstanding text request at a time
	voiceOn bool
}

var _ screen.Screen = (*ClassroomScreen)(nil)
var _ screen.KeyHintProvider = (*ClassroomScreen)(nil)

// New creates a classroom for the given learner. speaker may be nil, in
// which case the session runs silently.
func New(svc *tutor.Service, speaker Speaker, prof profile.Profile, log *slog.Logger) *ClassroomScreen {
	c := &ClassroomScreen{
		svc:     svc,
		speaker: speaker,
		prof:    prof,
		log:     log,
		chat:    components.NewChatLog(tutor.DisplayName(prof.Gender)),
		input:   components.NewTextInput("Ask me anything!", 200),
		voiceOn: speaker != nil,
	}
	return c
}

// Init seeds the transcript with the greeting and speaks it.
func (c *ClassroomScreen) Init() tea.Cmd {
	c.chat.Append(profile.NewMessage(profile.RoleModel, tutor.Greeting))
	return tea.Batch(c.input.Init(), c.speak(tutor.Greeting))
}

func (c *ClassroomScreen) Title() string {
	return "Classroom"
}

func (c *ClassroomScreen) KeyHints() []layout.KeyHint {
	voice := "Voice on"
	if !c.voiceOn {
		voice = "Voice off"
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "Ctrl+V", Description: voice},
		{Key: "↑/↓", Description: "Scroll"},
		{Key: "Esc", Description: "End lesson"},
	}
}

// Transcript returns the messages exchanged so far.
func (c *ClassroomScreen) Transcript() []profile.Message {
	return c.chat.Messages
}

func (c *ClassroomScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case replyMsg:
		return c.handleReply(msg)

	case spokenMsg:
		if msg.err != nil {
			c.log.Warn("speech playback failed", "error", msg.err)
		}
		return c, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			transcript := c.Transcript()
			return c, func() tea.Msg { return ExitedMsg{Transcript: transcript} }
		case "ctrl+v":
			if c.speaker != nil {
				c.voiceOn = !c.voiceOn
			}
			return c, nil
		case "enter":
			return c, c.send()
		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			c.chat, cmd = c.chat.Update(msg)
			return c, cmd
		}

		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		return c, cmd
	}

	return c, nil
}

// send starts one chat turn. The user message is appended optimistically
// and the request runs in the background with the history captured
// before the append.
func (c *ClassroomScreen) send() tea.Cmd {
	if c.busy {
		return nil
	}
	text := strings.TrimSpace(c.input.Value())
	if text == "" {
		return nil
	}

	history := append([]profile.Message(nil), c.chat.Messages...)

	c.chat.Append(profile.NewMessage(profile.RoleUser, text))
	c.input.Reset()
	c.busy = true

	svc, prof := c.svc, c.prof
	return func() tea.Msg {
		reply, err := svc.Respond(context.Background(), prof, history, text)
		return replyMsg{text: reply, err: err}
	}
}

// handleReply appends the tutor's answer, or the fallback line when the
// call failed, and voices it. The session stays usable either way.
func (c *ClassroomScreen) handleReply(msg replyMsg) (screen.Screen, tea.Cmd) {
	c.busy = false

	text := msg.text
	if msg.err != nil {
		c.log.Warn("tutor turn failed", "error", msg.err)
		text = tutor.Fallback
	}

	c.chat.Append(profile.NewMessage(profile.RoleModel, text))
	return c, c.speak(text)
}

// speak voices a tutor line in the background. Fire and forget: the
// conversation never waits on audio.
func (c *ClassroomScreen) speak(text string) tea.Cmd {
	if !c.voiceOn || c.speaker == nil || text == "" {
		return nil
	}
	speaker := c.speaker
	return func() tea.Msg {
		return spokenMsg{err: speaker.Speak(context.Background(), text)}
	}
}

func (c *ClassroomScreen) View(width, height int) string {
	art := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Render(mascot.Art(c.prof.Gender))

	status := ""
	if c.busy {
		status = theme.Hint.Render(tutor.DisplayName(c.prof.Gender) + " is thinking...")
	}

	inputBox := theme.Card.Width(width - 4).Render(c.input.View())

	chrome := lipgloss.Height(art) + lipgloss.Height(inputBox) + 2
	chatHeight := height - chrome
	if chatHeight < 3 {
		chatHeight = 3
	}

	var b strings.Builder
	b.WriteString(art)
	b.WriteString("\n")
	b.WriteString(c.chat.View(width-4, chatHeight))
	b.WriteString("\n")
	if status != "" {
		b.WriteString(status)
	}
	b.WriteString("\n")
	b.WriteString(inputBox)

	return b.String()
}

package app

import (
	"fmt"
	"log/slog"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/egotutor/internal/profile"
	"github.com/abhisek/egotutor/internal/router"
	"github.com/abhisek/egotutor/internal/screen"
	"github.com/abhisek/egotutor/internal/screens/classroom"
	"github.com/abhisek/egotutor/internal/screens/history"
	"github.com/abhisek/egotutor/internal/screens/onboarding"
	"github.com/abhisek/egotutor/internal/screens/selection"
	"github.com/abhisek/egotutor/internal/store"
	"github.com/abhisek/egotutor/internal/tutor"
	"github.com/abhisek/egotutor/internal/ui/layout"
)

// Options carries the application dependencies built in cmd.
type Options struct {
	Store *store.Store
	Tutor *tutor.Service

	// SpeakerFor builds a speech pipeline bound to the persona voice of
	// the given learner. May be nil, or may return nil: the classroom
	// then runs without voice.
	SpeakerFor func(g profile.Gender) classroom.Speaker

	Logger *slog.Logger
}

// AppModel is the root Bubble Tea model. It owns the loaded profile
// collection and the active-profile reference, and reconciles finished
// classroom sessions into persisted lessons.
type AppModel struct {
	opts     Options
	router   *router.Router
	profiles []profile.Profile
	activeID string
	width    int
	height   int
}

// newAppModel loads the profile collection and picks the landing
// screen: onboarding when the collection is empty, selection otherwise.
func newAppModel(opts Options) AppModel {
	profiles := opts.Store.Load()

	m := AppModel{
		opts:     opts,
		profiles: profiles,
	}
	if len(profiles) == 0 {
		m.router = router.New(onboarding.New(false))
	} else {
		m.router = router.New(selection.New(profiles))
	}
	return m
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case selection.StartMsg:
		return m.enterClassroom(msg.ProfileID)

	case selection.HistoryMsg:
		if prof, ok := m.findProfile(msg.ProfileID); ok {
			m.activeID = msg.ProfileID
			return m, m.router.Push(history.New(prof))
		}
		return m, nil

	case selection.NewProfileMsg:
		return m, m.router.Replace(onboarding.New(true))

	case selection.DeleteMsg:
		return m.deleteProfile(msg.ProfileID)

	case onboarding.CompletedMsg:
		return m.addProfile(msg.Profile)

	case onboarding.CancelledMsg:
		return m, m.router.Replace(selection.New(m.profiles))

	case classroom.ExitedMsg:
		return m.reconcile(msg.Transcript)
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// enterClassroom makes the profile active and replaces the shell screen
// with a live classroom.
func (m AppModel) enterClassroom(profileID string) (tea.Model, tea.Cmd) {
	prof, ok := m.findProfile(profileID)
	if !ok {
		return m, nil
	}
	m.activeID = profileID

	var speaker classroom.Speaker
	if m.opts.SpeakerFor != nil {
		speaker = m.opts.SpeakerFor(prof.Gender)
	}

	cls := classroom.New(m.opts.Tutor, speaker, prof, m.opts.Logger)
	return m, m.router.Replace(cls)
}

// addProfile persists a newly onboarded learner and drops straight into
// their first classroom session.
func (m AppModel) addProfile(p profile.Profile) (tea.Model, tea.Cmd) {
	m.profiles = append(m.profiles, p)
	if err := m.opts.Store.SaveAll(m.profiles); err != nil {
		m.opts.Logger.Error("save profiles", "error", err)
	}
	return m.enterClassroom(p.ID)
}

// deleteProfile removes a learner and their lessons. Deleting the
// active profile clears the active reference.
func (m AppModel) deleteProfile(profileID string) (tea.Model, tea.Cmd) {
	if err := m.opts.Store.Delete(profileID); err != nil {
		m.opts.Logger.Error("delete profile", "error", err)
	}

	kept := m.profiles[:0:0]
	for _, p := range m.profiles {
		if p.ID != profileID {
			kept = append(kept, p)
		}
	}
	m.profiles = kept

	if m.activeID == profileID {
		m.activeID = ""
	}

	if len(m.profiles) == 0 {
		return m, m.router.Replace(onboarding.New(false))
	}
	return m, m.router.Replace(selection.New(m.profiles))
}

// reconcile converts a finished classroom transcript into a persisted
// Lesson and returns to selection. A transcript with only the greeting
// is discarded.
func (m AppModel) reconcile(transcript []profile.Message) (tea.Model, tea.Cmd) {
	if len(transcript) > 1 && m.activeID != "" {
		lesson := profile.NewLesson(transcript)
		if err := m.opts.Store.Append(m.activeID, lesson); err != nil {
			m.opts.Logger.Error("append lesson", "error", err)
		}
		for i := range m.profiles {
			if m.profiles[i].ID == m.activeID {
				m.profiles[i].Lessons = append([]profile.Lesson{lesson}, m.profiles[i].Lessons...)
				break
			}
		}
	}
	return m, m.router.Replace(selection.New(m.profiles))
}

func (m AppModel) findProfile(id string) (profile.Profile, bool) {
	for _, p := range m.profiles {
		if p.ID == id {
			return p, true
		}
	}
	return profile.Profile{}, false
}

func (m AppModel) activeName() string {
	if prof, ok := m.findProfile(m.activeID); ok {
		return prof.Name
	}
	return ""
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.activeName(), m.width)

	footerHints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
	if hp, ok := active.(screen.KeyHintProvider); ok {
		if hints := hp.KeyHints(); len(hints) > 0 {
			footerHints = hints
		}
	}
	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}

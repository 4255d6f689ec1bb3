package onboarding

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/google/uuid"

	"github.com/abhisek/egotutor/internal/profile"
	"github.com/abhisek/egotutor/internal/screen"
	"github.com/abhisek/egotutor/internal/ui/components"
	"github.com/abhisek/egotutor/internal/ui/layout"
	"github.com/abhisek/egotutor/internal/ui/theme"
)

// CompletedMsg carries the fully-built profile out of the wizard.
type CompletedMsg struct {
	Profile profile.Profile
}

// CancelledMsg signals the wizard was abandoned. Only emitted when
// cancellation was allowed in the first place.
type CancelledMsg struct{}

type stage int

const (
	stageName stage = iota
	stageBirthday
	stagePersona
	stageInterests
)

// interestOptions are the tags a learner can toggle in the final step.
var interestOptions = []string{
	"Math", "Science", "Art", "Music", "History", "Reading", "Animals", "Space",
}

var genderOptions = []struct {
	label string
	value profile.Gender
}{
	{"Boy — learn with Mr. Ego (the Dog)", profile.GenderBoy},
	{"Girl — learn with Miss Ego (the Cat)", profile.GenderGirl},
	{"Other", profile.GenderOther},
}

// builder accumulates the wizard's partial answers. Validation happens
// once, at completion, not per field as the answers trickle in.
type builder struct {
	name      string
	dob       string
	gender    profile.Gender
	interests []string
}

func (b builder) complete() (profile.Profile, error) {
	if strings.TrimSpace(b.name) == "" {
		return profile.Profile{}, errors.New("name is required")
	}
	if strings.TrimSpace(b.dob) == "" {
		return profile.Profile{}, errors.New("date of birth is required")
	}
	gender := b.gender
	if gender == "" {
		gender = profile.GenderBoy
	}
	return profile.Profile{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(b.name),
		DOB:       strings.TrimSpace(b.dob),
		Gender:    gender,
		Interests: b.interests,
	}, nil
}

func (b *builder) toggleInterest(tag string) {
	for i, t := range b.interests {
		if t == tag {
			b.interests = append(b.interests[:i], b.interests[i+1:]...)
			return
		}
	}
	b.interests = append(b.interests, tag)
}

func (b builder) hasInterest(tag string) bool {
	for _, t := range b.interests {
		if t == tag {
			return true
		}
	}
	return false
}

// OnboardingScreen walks a new learner through the 4-step profile
// wizard: name, birthday, tutor, interests.
type OnboardingScreen struct {
	stage     stage
	b         builder
	input     components.TextInput
	tutorMenu components.Menu
	cursor    int // interests list cursor
	canCancel bool
	errText   string
}

var _ screen.Screen = (*OnboardingScreen)(nil)
var _ screen.KeyHintProvider = (*OnboardingScreen)(nil)

// New creates the wizard. canCancel permits backing out entirely, which
// is only offered when at least one profile already exists.
func New(canCancel bool) *OnboardingScreen {
	labels := make([]string, len(genderOptions))
	for i, opt := range genderOptions {
		labels[i] = opt.label
	}
	return &OnboardingScreen{
		input:     components.NewTextInput("What's your name?", 30),
		tutorMenu: components.NewMenu(labels...),
		canCancel: canCancel,
	}
}

func (o *OnboardingScreen) Init() tea.Cmd {
	return o.input.Init()
}

func (o *OnboardingScreen) Title() string {
	return "New learner"
}

func (o *OnboardingScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{}
	switch o.stage {
	case stageInterests:
		hints = append(hints,
			layout.KeyHint{Key: "Space", Description: "Toggle"},
			layout.KeyHint{Key: "Enter", Description: "Finish"},
		)
	case stagePersona:
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Next"})
	default:
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Next"})
	}
	if o.stage > stageName {
		hints = append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
	} else if o.canCancel {
		hints = append(hints, layout.KeyHint{Key: "Esc", Description: "Cancel"})
	}
	return hints
}

func (o *OnboardingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return o, nil
	}

	switch kmsg.String() {
	case "enter":
		return o, o.advance()
	case "esc":
		return o, o.back()
	}

	o.errText = ""

	switch o.stage {
	case stageName, stageBirthday:
		var cmd tea.Cmd
		o.input, cmd = o.input.Update(msg)
		return o, cmd

	case stagePersona:
		o.tutorMenu, _ = o.tutorMenu.Update(msg)

	case stageInterests:
		switch kmsg.String() {
		case "up", "k":
			if o.cursor > 0 {
				o.cursor--
			}
		case "down", "j":
			if o.cursor < len(interestOptions)-1 {
				o.cursor++
			}
		case "space", " ":
			o.b.toggleInterest(interestOptions[o.cursor])
		}
	}

	return o, nil
}

// advance applies the current stage's gate and moves forward. The final
// stage completes the wizard.
func (o *OnboardingScreen) advance() tea.Cmd {
	switch o.stage {
	case stageName:
		if strings.TrimSpace(o.input.Value()) == "" {
			o.errText = "Please tell me your name first!"
			o.input.Submit(false)
			return nil
		}
		o.b.name = o.input.Value()
		o.stage = stageBirthday
		o.input = components.NewTextInput("yyyy-mm-dd", 10)
		o.input.SetValue(o.b.dob)
		return o.input.Init()

	case stageBirthday:
		v := strings.TrimSpace(o.input.Value())
		if v == "" {
			o.errText = "When's your birthday?"
			o.input.Submit(false)
			return nil
		}
		if _, err := time.Parse("2006-01-02", v); err != nil {
			o.errText = "Please write it like 2017-03-09 (year-month-day)."
			o.input.Submit(false)
			return nil
		}
		o.b.dob = v
		o.stage = stagePersona
		return nil

	case stagePersona:
		o.b.gender = genderOptions[o.tutorMenu.Selected].value
		o.stage = stageInterests
		return nil

	case stageInterests:
		p, err := o.b.complete()
		if err != nil {
			o.errText = err.Error()
			return nil
		}
		return func() tea.Msg { return CompletedMsg{Profile: p} }
	}
	return nil
}

// back walks one stage backward, keeping every answer entered so far.
// From the first stage it cancels the wizard if cancellation is allowed.
func (o *OnboardingScreen) back() tea.Cmd {
	switch o.stage {
	case stageName:
		if o.canCancel {
			return func() tea.Msg { return CancelledMsg{} }
		}
		return nil

	case stageBirthday:
		o.b.dob = o.input.Value()
		o.stage = stageName
		o.input = components.NewTextInput("What's your name?", 30)
		o.input.SetValue(o.b.name)
		return o.input.Init()

	case stagePersona:
		o.stage = stageBirthday
		o.input = components.NewTextInput("yyyy-mm-dd", 10)
		o.input.SetValue(o.b.dob)
		return o.input.Init()

	case stageInterests:
		o.stage = stagePersona
		return nil
	}
	return nil
}

func (o *OnboardingScreen) View(width, height int) string {
	var sections []string

	sections = append(sections,
		theme.Subtitle.Render(fmt.Sprintf("Step %d of 4", int(o.stage)+1)),
		"")

	switch o.stage {
	case stageName:
		sections = append(sections,
			theme.Title.Render("Hi there! What's your name?"),
			"",
			o.input.View())

	case stageBirthday:
		sections = append(sections,
			theme.Title.Render(fmt.Sprintf("Nice to meet you, %s! When were you born?", strings.TrimSpace(o.b.name))),
			"",
			o.input.View())

	case stagePersona:
		sections = append(sections,
			theme.Title.Render("Who will be your tutor?"),
			"",
			o.tutorMenu.View())

	case stageInterests:
		sections = append(sections, theme.Title.Render("What do you love learning about?"), "")
		for i, tag := range interestOptions {
			box := "[ ]"
			style := theme.Unselected
			if o.b.hasInterest(tag) {
				box = "[✓]"
				style = theme.Checked
			}
			line := fmt.Sprintf("  %s %s", box, tag)
			if i == o.cursor {
				line = theme.Selected.Render("▸" + line[1:])
			} else {
				line = style.Render(line)
			}
			sections = append(sections, line)
		}
	}

	if o.errText != "" {
		sections = append(sections, "",
			lipgloss.NewStyle().Foreground(theme.Error).Render(o.errText))
	}

	content := strings.Join(sections, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

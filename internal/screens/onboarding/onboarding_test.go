package onboarding

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/egotutor/internal/profile"
)

func enter() tea.Msg  { return tea.KeyPressMsg{Code: tea.KeyEnter} }
func escape() tea.Msg { return tea.KeyPressMsg{Code: tea.KeyEscape} }
func space() tea.Msg  { return tea.KeyPressMsg{Code: tea.KeySpace, Text: " "} }

func typeText(o *OnboardingScreen, s string) {
	for _, r := range s {
		o.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func press(o *OnboardingScreen, msg tea.Msg) tea.Msg {
	_, cmd := o.Update(msg)
	if cmd == nil {
		return nil
	}
	return cmd()
}

func TestHappyPathBuildsProfile(t *testing.T) {
	o := New(false)
	o.Init()

	typeText(o, "Ava")
	press(o, enter())

	typeText(o, "2017-03-09")
	press(o, enter())

	// Pick the second tutor option (girl).
	o.Update(tea.KeyPressMsg{Code: 'j', Text: "j"})
	press(o, enter())

	// Toggle the first two interests.
	press(o, space())
	o.Update(tea.KeyPressMsg{Code: 'j', Text: "j"})
	press(o, space())

	got := press(o, enter())
	done, ok := got.(CompletedMsg)
	if !ok {
		t.Fatalf("got %T, want CompletedMsg", got)
	}

	p := done.Profile
	if p.ID == "" {
		t.Error("profile ID not generated")
	}
	if p.Name != "Ava" {
		t.Errorf("Name = %q, want Ava", p.Name)
	}
	if p.DOB != "2017-03-09" {
		t.Errorf("DOB = %q", p.DOB)
	}
	if p.Gender != profile.GenderGirl {
		t.Errorf("Gender = %q, want girl", p.Gender)
	}
	if len(p.Interests) != 2 || p.Interests[0] != "Math" || p.Interests[1] != "Science" {
		t.Errorf("Interests = %v, want [Math Science]", p.Interests)
	}
	if len(p.Lessons) != 0 {
		t.Errorf("new profile should have no lessons, got %d", len(p.Lessons))
	}
}

func TestEmptyNameDoesNotAdvance(t *testing.T) {
	o := New(false)

	press(o, enter())
	if o.stage != stageName {
		t.Fatalf("stage = %d, want stageName", o.stage)
	}
	if o.errText == "" {
		t.Error("expected a validation message")
	}
}

func TestEmptyBirthdayDoesNotAdvance(t *testing.T) {
	o := New(false)
	typeText(o, "Ben")
	press(o, enter())

	press(o, enter())
	if o.stage != stageBirthday {
		t.Fatalf("stage = %d, want stageBirthday", o.stage)
	}
}

func TestMalformedBirthdayDoesNotAdvance(t *testing.T) {
	o := New(false)
	typeText(o, "Ben")
	press(o, enter())

	typeText(o, "yesterday")
	press(o, enter())
	if o.stage != stageBirthday {
		t.Fatalf("stage = %d, want stageBirthday", o.stage)
	}
	if o.errText == "" {
		t.Error("expected a format hint")
	}
}

func TestFailedGateMarksInput(t *testing.T) {
	o := New(false)

	press(o, enter())
	if !strings.Contains(o.input.View(), "✗") {
		t.Error("expected a rejection mark on the empty name input")
	}

	typeText(o, "B")
	if strings.Contains(o.input.View(), "✗") {
		t.Error("typing should clear the rejection mark")
	}
}

func TestTutorMenuStopsAtEnds(t *testing.T) {
	o := New(false)
	typeText(o, "Ben")
	press(o, enter())
	typeText(o, "2015-11-20")
	press(o, enter())

	// Walk past the last option and back above the first.
	for range 5 {
		o.Update(tea.KeyPressMsg{Code: 'j', Text: "j"})
	}
	if o.tutorMenu.Selected != 2 {
		t.Errorf("Selected = %d, want 2", o.tutorMenu.Selected)
	}
	for range 5 {
		o.Update(tea.KeyPressMsg{Code: 'k', Text: "k"})
	}
	if o.tutorMenu.Selected != 0 {
		t.Errorf("Selected = %d, want 0", o.tutorMenu.Selected)
	}
}

func TestDefaultsAreBoyAndNoInterests(t *testing.T) {
	o := New(false)
	typeText(o, "Ben")
	press(o, enter())
	typeText(o, "2015-11-20")
	press(o, enter())
	press(o, enter()) // accept first tutor option

	got := press(o, enter()) // finish with nothing toggled
	done, ok := got.(CompletedMsg)
	if !ok {
		t.Fatalf("got %T, want CompletedMsg", got)
	}
	if done.Profile.Gender != profile.GenderBoy {
		t.Errorf("Gender = %q, want boy", done.Profile.Gender)
	}
	if len(done.Profile.Interests) != 0 {
		t.Errorf("Interests = %v, want empty", done.Profile.Interests)
	}
}

func TestToggleTwiceRestoresInterests(t *testing.T) {
	o := New(false)
	typeText(o, "Ben")
	press(o, enter())
	typeText(o, "2015-11-20")
	press(o, enter())
	press(o, enter())

	press(o, space())
	press(o, space())
	if len(o.b.interests) != 0 {
		t.Errorf("interests = %v, want empty after double toggle", o.b.interests)
	}
}

func TestBackKeepsAnswers(t *testing.T) {
	o := New(false)
	typeText(o, "Ava")
	press(o, enter())
	typeText(o, "2017-03-09")

	press(o, escape())
	if o.stage != stageName {
		t.Fatalf("stage = %d, want stageName", o.stage)
	}
	if o.input.Value() != "Ava" {
		t.Errorf("name input = %q, want Ava preserved", o.input.Value())
	}

	press(o, enter())
	if o.input.Value() != "2017-03-09" {
		t.Errorf("dob input = %q, want 2017-03-09 preserved", o.input.Value())
	}
}

func TestCancelOnlyWhenAllowed(t *testing.T) {
	o := New(false)
	if got := press(o, escape()); got != nil {
		t.Fatalf("cancel should be unavailable, got %#v", got)
	}

	o = New(true)
	got := press(o, escape())
	if _, ok := got.(CancelledMsg); !ok {
		t.Fatalf("got %T, want CancelledMsg", got)
	}
}

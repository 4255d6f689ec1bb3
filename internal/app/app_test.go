package app

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/egotutor/internal/llm"
	"github.com/abhisek/egotutor/internal/profile"
	"github.com/abhisek/egotutor/internal/screens/classroom"
	"github.com/abhisek/egotutor/internal/screens/history"
	"github.com/abhisek/egotutor/internal/screens/onboarding"
	"github.com/abhisek/egotutor/internal/screens/selection"
	"github.com/abhisek/egotutor/internal/store"
	"github.com/abhisek/egotutor/internal/tutor"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestApp(t *testing.T, profiles []profile.Profile) (AppModel, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"), testLogger())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	if len(profiles) > 0 {
		if err := st.SaveAll(profiles); err != nil {
			t.Fatalf("seed profiles: %v", err)
		}
	}

	m := newAppModel(Options{
		Store:  st,
		Tutor:  tutor.NewService(llm.NewMockProvider()),
		Logger: testLogger(),
	})
	return m, st
}

func update(t *testing.T, m AppModel, msg tea.Msg) AppModel {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(AppModel)
}

func seedProfiles() []profile.Profile {
	return []profile.Profile{
		{ID: "p1", Name: "Ava", DOB: "2017-03-09", Gender: profile.GenderGirl, Interests: []string{"Space"}},
		{ID: "p2", Name: "Ben", DOB: "2015-11-20", Gender: profile.GenderBoy},
	}
}

func TestStartupEmptyStoreBeginsOnboarding(t *testing.T) {
	m, _ := newTestApp(t, nil)
	if _, ok := m.router.Active().(*onboarding.OnboardingScreen); !ok {
		t.Fatalf("landing screen = %T, want onboarding", m.router.Active())
	}
}

func TestStartupWithProfilesBeginsSelection(t *testing.T) {
	m, _ := newTestApp(t, seedProfiles())
	if _, ok := m.router.Active().(*selection.SelectionScreen); !ok {
		t.Fatalf("landing screen = %T, want selection", m.router.Active())
	}
}

func TestStartEntersClassroom(t *testing.T) {
	m, _ := newTestApp(t, seedProfiles())

	m = update(t, m, selection.StartMsg{ProfileID: "p1"})
	if _, ok := m.router.Active().(*classroom.ClassroomScreen); !ok {
		t.Fatalf("active screen = %T, want classroom", m.router.Active())
	}
	if m.activeID != "p1" {
		t.Fatalf("activeID = %q, want p1", m.activeID)
	}
}

func TestHistoryPushesAndSetsActive(t *testing.T) {
	m, _ := newTestApp(t, seedProfiles())

	m = update(t, m, selection.HistoryMsg{ProfileID: "p2"})
	if _, ok := m.router.Active().(*history.HistoryScreen); !ok {
		t.Fatalf("active screen = %T, want history", m.router.Active())
	}
	if m.activeID != "p2" {
		t.Fatalf("activeID = %q, want p2", m.activeID)
	}
	if m.router.Depth() != 2 {
		t.Fatalf("Depth() = %d, want history stacked on selection", m.router.Depth())
	}
}

func TestClassroomExitPersistsLesson(t *testing.T) {
	m, st := newTestApp(t, seedProfiles())
	m = update(t, m, selection.StartMsg{ProfileID: "p1"})

	transcript := []profile.Message{
		profile.NewMessage(profile.RoleModel, tutor.Greeting),
		profile.NewMessage(profile.RoleUser, "What is gravity?"),
		profile.NewMessage(profile.RoleModel, "Gravity pulls things down! 🌍"),
	}
	m = update(t, m, classroom.ExitedMsg{Transcript: transcript})

	if _, ok := m.router.Active().(*selection.SelectionScreen); !ok {
		t.Fatalf("active screen = %T, want selection after exit", m.router.Active())
	}

	saved := st.Load()
	var ava profile.Profile
	for _, p := range saved {
		if p.ID == "p1" {
			ava = p
		}
	}
	if len(ava.Lessons) != 1 {
		t.Fatalf("lessons = %d, want 1", len(ava.Lessons))
	}
	lesson := ava.Lessons[0]
	if lesson.Title != "What is gravity?" {
		t.Errorf("lesson title = %q", lesson.Title)
	}
	if len(lesson.Messages) != 3 {
		t.Errorf("lesson messages = %d, want 3", len(lesson.Messages))
	}
}

func TestGreetingOnlyTranscriptDiscarded(t *testing.T) {
	m, st := newTestApp(t, seedProfiles())
	m = update(t, m, selection.StartMsg{ProfileID: "p1"})

	transcript := []profile.Message{
		profile.NewMessage(profile.RoleModel, tutor.Greeting),
	}
	m = update(t, m, classroom.ExitedMsg{Transcript: transcript})

	for _, p := range st.Load() {
		if len(p.Lessons) != 0 {
			t.Fatalf("profile %s gained a lesson from a greeting-only session", p.Name)
		}
	}
}

func TestOnboardingCompletionPersistsAndEntersClassroom(t *testing.T) {
	m, st := newTestApp(t, nil)

	newProf := profile.Profile{
		ID: "p9", Name: "Cleo", DOB: "2018-07-01", Gender: profile.GenderGirl,
	}
	m = update(t, m, onboarding.CompletedMsg{Profile: newProf})

	if _, ok := m.router.Active().(*classroom.ClassroomScreen); !ok {
		t.Fatalf("active screen = %T, want classroom", m.router.Active())
	}
	if m.activeID != "p9" {
		t.Fatalf("activeID = %q, want p9", m.activeID)
	}

	saved := st.Load()
	if len(saved) != 1 || saved[0].Name != "Cleo" {
		t.Fatalf("saved = %+v, want Cleo persisted", saved)
	}
}

func TestOnboardingCancelReturnsToSelection(t *testing.T) {
	m, _ := newTestApp(t, seedProfiles())
	m = update(t, m, selection.NewProfileMsg{})
	if _, ok := m.router.Active().(*onboarding.OnboardingScreen); !ok {
		t.Fatalf("active screen = %T, want onboarding", m.router.Active())
	}

	m = update(t, m, onboarding.CancelledMsg{})
	if _, ok := m.router.Active().(*selection.SelectionScreen); !ok {
		t.Fatalf("active screen = %T, want selection", m.router.Active())
	}
}

func TestDeleteActiveProfileClearsReference(t *testing.T) {
	m, st := newTestApp(t, seedProfiles())
	m = update(t, m, selection.HistoryMsg{ProfileID: "p1"})

	m = update(t, m, selection.DeleteMsg{ProfileID: "p1"})
	if m.activeID != "" {
		t.Fatalf("activeID = %q, want cleared", m.activeID)
	}

	saved := st.Load()
	if len(saved) != 1 || saved[0].ID != "p2" {
		t.Fatalf("saved = %+v, want only p2", saved)
	}
}

func TestDeleteOtherProfileKeepsReference(t *testing.T) {
	m, _ := newTestApp(t, seedProfiles())
	m = update(t, m, selection.HistoryMsg{ProfileID: "p1"})

	m = update(t, m, selection.DeleteMsg{ProfileID: "p2"})
	if m.activeID != "p1" {
		t.Fatalf("activeID = %q, want p1 untouched", m.activeID)
	}
}

func TestDeletingLastProfileReturnsToOnboarding(t *testing.T) {
	m, _ := newTestApp(t, seedProfiles()[:1])

	m = update(t, m, selection.DeleteMsg{ProfileID: "p1"})
	if _, ok := m.router.Active().(*onboarding.OnboardingScreen); !ok {
		t.Fatalf("active screen = %T, want onboarding when no profiles remain", m.router.Active())
	}
}

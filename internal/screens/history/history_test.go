package history

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/egotutor/internal/profile"
	"github.com/abhisek/egotutor/internal/router"
)

func enter() tea.Msg  { return tea.KeyPressMsg{Code: tea.KeyEnter} }
func escape() tea.Msg { return tea.KeyPressMsg{Code: tea.KeyEscape} }
func down() tea.Msg   { return tea.KeyPressMsg{Code: 'j', Text: "j"} }

func testProfileWithLessons() profile.Profile {
	return profile.Profile{
		ID: "p1", Name: "Ava", Gender: profile.GenderGirl,
		Lessons: []profile.Lesson{
			{
				ID: "l2", Title: "What is gravity?", Timestamp: 1756200000000,
				Messages: []profile.Message{
					{Role: profile.RoleModel, Text: "Hello!"},
					{Role: profile.RoleUser, Text: "What is gravity?"},
					{Role: profile.RoleModel, Text: "Gravity pulls things down! 🌍"},
				},
			},
			{
				ID: "l1", Title: "Quick Lesson", Timestamp: 1756100000000,
				Messages: []profile.Message{
					{Role: profile.RoleModel, Text: "Hello!"},
					{Role: profile.RoleUser, Text: "hi"},
				},
			},
		},
	}
}

func TestListShowsLessonsInStoredOrder(t *testing.T) {
	s := New(testProfileWithLessons())

	view := s.View(120, 24)
	first := strings.Index(view, "What is gravity?")
	second := strings.Index(view, "Quick Lesson")
	if first == -1 || second == -1 {
		t.Fatalf("lesson titles missing from view:\n%s", view)
	}
	if first > second {
		t.Error("newest lesson should render first")
	}
	if !strings.Contains(view, "3 messages") {
		t.Error("message count missing")
	}
}

func TestDrillDownAndBack(t *testing.T) {
	s := New(testProfileWithLessons())

	s.Update(enter())
	if !s.viewing {
		t.Fatal("enter should open the transcript")
	}
	view := s.View(120, 24)
	if !strings.Contains(view, "Gravity pulls things down!") {
		t.Fatalf("transcript text missing:\n%s", view)
	}

	s.Update(escape())
	if s.viewing {
		t.Fatal("esc should return to the list")
	}
}

func TestEscFromListPopsScreen(t *testing.T) {
	s := New(testProfileWithLessons())

	_, cmd := s.Update(escape())
	if cmd == nil {
		t.Fatal("esc should emit a command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Fatal("esc from the list should pop the screen")
	}
}

func TestNavigationSelectsSecondLesson(t *testing.T) {
	s := New(testProfileWithLessons())

	s.Update(down())
	s.Update(enter())
	if got := s.Title(); got != "Quick Lesson" {
		t.Fatalf("Title() = %q, want Quick Lesson", got)
	}
}

func TestEmptyHistory(t *testing.T) {
	s := New(profile.Profile{ID: "p1", Name: "Ben", Gender: profile.GenderBoy})

	view := s.View(120, 24)
	if !strings.Contains(view, "No lessons yet") {
		t.Fatalf("empty state missing:\n%s", view)
	}

	s.Update(enter())
	if s.viewing {
		t.Fatal("enter with no lessons should not open a transcript")
	}
}

package classroom

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/egotutor/internal/llm"
	"github.com/abhisek/egotutor/internal/profile"
	"github.com/abhisek/egotutor/internal/tutor"
)

type recordingSpeaker struct {
	mu    sync.Mutex
	lines []string
	err   error
}

func (r *recordingSpeaker) Speak(ctx context.Context, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, text)
	return r.err
}

func (r *recordingSpeaker) spoken() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testProfile() profile.Profile {
	return profile.Profile{ID: "p1", Name: "Ava", DOB: "2017-03-09", Gender: profile.GenderGirl}
}

func newClassroom(mock *llm.MockProvider, speaker Speaker) *ClassroomScreen {
	return New(tutor.NewService(mock), speaker, testProfile(), testLogger())
}

// runCmds drains a command tree, feeding resulting messages back into
// the screen, until no commands remain.
func runCmds(t *testing.T, c *ClassroomScreen, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg := next()
		if msg == nil {
			continue
		}
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		_, cmd := c.Update(msg)
		queue = append(queue, cmd)
	}
}

func typeText(c *ClassroomScreen, s string) {
	for _, r := range s {
		c.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func enter() tea.Msg  { return tea.KeyPressMsg{Code: tea.KeyEnter} }
func escape() tea.Msg { return tea.KeyPressMsg{Code: tea.KeyEscape} }

func TestGreetingOpensSession(t *testing.T) {
	speaker := &recordingSpeaker{}
	c := newClassroom(llm.NewMockProvider(), speaker)

	runCmds(t, c, c.Init())

	got := c.Transcript()
	if len(got) != 1 {
		t.Fatalf("transcript length = %d, want 1", len(got))
	}
	if got[0].Role != profile.RoleModel || got[0].Text != tutor.Greeting {
		t.Fatalf("first message = %+v, want model greeting", got[0])
	}
	if lines := speaker.spoken(); len(lines) != 1 || lines[0] != tutor.Greeting {
		t.Fatalf("spoken = %v, want the greeting", lines)
	}
}

func TestChatTurnAppendsBothMessages(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddResponse(llm.MockResponse{Text: "Gravity pulls things down! 🌍"})
	speaker := &recordingSpeaker{}
	c := newClassroom(mock, speaker)
	runCmds(t, c, c.Init())

	typeText(c, "What is gravity?")
	_, cmd := c.Update(enter())
	runCmds(t, c, cmd)

	got := c.Transcript()
	if len(got) != 3 {
		t.Fatalf("transcript length = %d, want 3", len(got))
	}
	if got[1].Role != profile.RoleUser || got[1].Text != "What is gravity?" {
		t.Errorf("user turn = %+v", got[1])
	}
	if got[2].Role != profile.RoleModel || got[2].Text != "Gravity pulls things down! 🌍" {
		t.Errorf("model turn = %+v", got[2])
	}

	// The request history excludes the user message just sent.
	calls := mock.Calls
	if len(calls) != 1 {
		t.Fatalf("provider calls = %d, want 1", len(calls))
	}
	if n := len(calls[0].Messages); n != 2 {
		t.Fatalf("request turns = %d, want greeting + new input", n)
	}

	// Reply is voiced.
	lines := speaker.spoken()
	if len(lines) != 2 || lines[1] != "Gravity pulls things down! 🌍" {
		t.Fatalf("spoken = %v", lines)
	}
}

func TestFailedTurnFallsBack(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddResponse(llm.MockResponse{Err: errors.New("boom")})
	mock.AddResponse(llm.MockResponse{Text: "Better now!"})
	c := newClassroom(mock, nil)
	runCmds(t, c, c.Init())

	typeText(c, "hello?")
	_, cmd := c.Update(enter())
	runCmds(t, c, cmd)

	got := c.Transcript()
	if got[len(got)-1].Text != tutor.Fallback {
		t.Fatalf("last message = %q, want fallback", got[len(got)-1].Text)
	}
	if c.busy {
		t.Fatal("busy flag stuck after failed turn")
	}

	// Chat stays usable.
	typeText(c, "try again")
	_, cmd = c.Update(enter())
	runCmds(t, c, cmd)
	got = c.Transcript()
	if got[len(got)-1].Text != "Better now!" {
		t.Fatalf("last message = %q, want the retried reply", got[len(got)-1].Text)
	}
}

func TestBusyBlocksSecondSend(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddResponse(llm.MockResponse{Text: "reply"})
	c := newClassroom(mock, nil)
	runCmds(t, c, c.Init())

	typeText(c, "first")
	_, pending := c.Update(enter())
	if pending == nil {
		t.Fatal("first send should start a request")
	}

	// Second send while the first is still in flight is dropped.
	typeText(c, "second")
	_, cmd := c.Update(enter())
	if cmd != nil {
		t.Fatal("second send should be blocked by the busy flag")
	}

	runCmds(t, c, pending)
	if n := mock.CallCount(); n != 1 {
		t.Fatalf("provider calls = %d, want 1", n)
	}
}

func TestEmptyInputIgnored(t *testing.T) {
	c := newClassroom(llm.NewMockProvider(), nil)
	runCmds(t, c, c.Init())

	typeText(c, "   ")
	_, cmd := c.Update(enter())
	if cmd != nil {
		t.Fatal("blank input should not start a turn")
	}
}

func TestVoiceToggleSilencesReplies(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddResponse(llm.MockResponse{Text: "quiet reply"})
	speaker := &recordingSpeaker{}
	c := newClassroom(mock, speaker)
	runCmds(t, c, c.Init())

	c.Update(tea.KeyPressMsg{Code: 'v', Mod: tea.ModCtrl})
	if c.voiceOn {
		t.Fatal("ctrl+v should disable voice")
	}

	typeText(c, "shh")
	_, cmd := c.Update(enter())
	runCmds(t, c, cmd)

	if lines := speaker.spoken(); len(lines) != 1 {
		t.Fatalf("spoken = %v, want greeting only", lines)
	}
}

func TestSpeechFailureDoesNotBreakChat(t *testing.T) {
	speaker := &recordingSpeaker{err: errors.New("no audio device")}
	c := newClassroom(llm.NewMockProvider(), speaker)

	runCmds(t, c, c.Init())
	if len(c.Transcript()) != 1 {
		t.Fatal("greeting should survive a playback failure")
	}
}

func TestEscReturnsTranscript(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddResponse(llm.MockResponse{Text: "answer"})
	c := newClassroom(mock, nil)
	runCmds(t, c, c.Init())

	typeText(c, "question")
	_, cmd := c.Update(enter())
	runCmds(t, c, cmd)

	_, exitCmd := c.Update(escape())
	if exitCmd == nil {
		t.Fatal("esc should emit an exit command")
	}
	msg := exitCmd()
	exited, ok := msg.(ExitedMsg)
	if !ok {
		t.Fatalf("got %T, want ExitedMsg", msg)
	}
	if len(exited.Transcript) != 3 {
		t.Fatalf("transcript length = %d, want 3", len(exited.Transcript))
	}
}

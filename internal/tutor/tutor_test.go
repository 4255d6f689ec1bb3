package tutor

import (
	"context"
	"strings"
	"testing"

	"github.com/abhisek/egotutor/internal/llm"
	"github.com/abhisek/egotutor/internal/profile"
)

func testProfile(g profile.Gender) profile.Profile {
	return profile.Profile{
		ID:     "p1",
		Name:   "Ava",
		DOB:    "2016-03-14",
		Gender: g,
	}
}

func TestRespondSendsHistoryAndInput(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "Gravity pulls things down! 🌍"})
	svc := NewService(mock)

	history := []profile.Message{
		{Role: profile.RoleModel, Text: Greeting},
	}

	got, err := svc.Respond(context.Background(), testProfile(profile.GenderBoy), history, "What is gravity?")
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if got != "Gravity pulls things down! 🌍" {
		t.Errorf("reply = %q", got)
	}

	if len(mock.Calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(mock.Calls))
	}
	req := mock.Calls[0]

	if req.Temperature != 0.7 {
		t.Errorf("Temperature = %v, want 0.7", req.Temperature)
	}
	if len(req.Messages) != 2 {
		t.Fatalf("turns = %d, want 2 (greeting + new input)", len(req.Messages))
	}
	if req.Messages[0].Role != llm.RoleAssistant || req.Messages[0].Content != Greeting {
		t.Errorf("first turn = %+v", req.Messages[0])
	}
	last := req.Messages[len(req.Messages)-1]
	if last.Role != llm.RoleUser || last.Content != "What is gravity?" {
		t.Errorf("final turn = %+v", last)
	}
}

func TestRespondEmptyReplyIsValid(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: ""})
	svc := NewService(mock)

	got, err := svc.Respond(context.Background(), testProfile(profile.GenderGirl), nil, "hi")
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if got != "" {
		t.Errorf("reply = %q, want empty", got)
	}
}

func TestRespondPropagatesError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})
	svc := NewService(mock)

	if _, err := svc.Respond(context.Background(), testProfile(profile.GenderBoy), nil, "hi"); err == nil {
		t.Error("expected error from failing provider")
	}
}

func TestSystemInstruction(t *testing.T) {
	tests := []struct {
		gender     profile.Gender
		wantName   string
		wantAnimal string
	}{
		{profile.GenderBoy, "Mr. Ego (the Dog)", "golden retriever"},
		{profile.GenderGirl, "Miss Ego (the Cat)", "calico cat"},
		{profile.GenderOther, "Mr. Ego (the Dog)", "golden retriever"},
	}

	for _, tt := range tests {
		got := SystemInstruction(testProfile(tt.gender))
		if !strings.Contains(got, tt.wantName) {
			t.Errorf("gender %s: instruction missing %q:\n%s", tt.gender, tt.wantName, got)
		}
		if !strings.Contains(got, tt.wantAnimal) {
			t.Errorf("gender %s: instruction missing %q", tt.gender, tt.wantAnimal)
		}
		if !strings.Contains(got, "Ava") {
			t.Errorf("gender %s: instruction missing learner name", tt.gender)
		}
	}
}

func TestPersonaFor(t *testing.T) {
	if PersonaFor(profile.GenderBoy).Voice != "Kore" {
		t.Error("boy persona should use the Kore voice")
	}
	if PersonaFor(profile.GenderGirl).Voice != "Puck" {
		t.Error("girl persona should use the Puck voice")
	}
	if PersonaFor(profile.GenderOther) != PersonaFor(profile.GenderBoy) {
		t.Error("other should fall back to the default persona")
	}
}

func TestDisplayName(t *testing.T) {
	if DisplayName(profile.GenderBoy) != "Mr. Ego" {
		t.Error("boy display name")
	}
	if DisplayName(profile.GenderGirl) != "Miss Ego" {
		t.Error("girl display name")
	}
	if DisplayName(profile.GenderOther) != "Mr. Ego" {
		t.Error("other display name should default to Mr. Ego")
	}
}

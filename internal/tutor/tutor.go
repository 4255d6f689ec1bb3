// Package tutor runs one chat turn against the AI text collaborator,
// framing the conversation with the learner's tutor persona.
package tutor

import (
	"context"
	"fmt"

	"github.com/abhisek/egotutor/internal/llm"
	"github.com/abhisek/egotutor/internal/profile"
)

const (
	// Greeting opens every classroom session as the first model message.
	Greeting = "Hello! I'm so excited to learn with you today! What should we explore first? 🚀"

	// Fallback is substituted for the model reply when the text
	// generation call fails. The conversation is never left hanging.
	Fallback = "Oops, my circuits are tangled! Let's try again."

	// temperature keeps replies lively without going off the rails.
	temperature = 0.7
)

// Service answers learner messages in persona.
type Service struct {
	provider llm.Provider
}

// NewService creates a tutor service on top of the given provider.
func NewService(provider llm.Provider) *Service {
	return &Service{provider: provider}
}

// Respond sends one chat turn: the prior transcript as history, the new
// input as the final user message, and a persona system instruction
// derived from the learner's name and tutor preference. An empty reply is
// valid and returned as-is.
func (s *Service) Respond(ctx context.Context, p profile.Profile, history []profile.Message, input string) (string, error) {
	req := llm.Request{
		System:      SystemInstruction(p),
		Messages:    buildTurns(history, input),
		Temperature: temperature,
	}

	resp, err := s.provider.Generate(llm.WithPurpose(ctx, "tutor-chat"), req)
	if err != nil {
		return "", fmt.Errorf("tutor response: %w", err)
	}
	return resp.Text, nil
}

// SystemInstruction builds the persona prompt for a learner.
func SystemInstruction(p profile.Profile) string {
	persona := PersonaFor(p.Gender)
	return fmt.Sprintf(`You are %s, %s.
You are teaching %s.
Explain educational concepts simply and funly.
Always use emojis. Keep text concise and encouraging.
If the student is young, use very simple words.`,
		persona.Name, persona.Personality, p.Name)
}

func buildTurns(history []profile.Message, input string) []llm.Message {
	turns := make([]llm.Message, 0, len(history)+1)
	for _, m := range history {
		role := llm.RoleUser
		if m.Role == profile.RoleModel {
			role = llm.RoleAssistant
		}
		turns = append(turns, llm.Message{Role: role, Content: m.Text})
	}
	turns = append(turns, llm.Message{Role: llm.RoleUser, Content: input})
	return turns
}

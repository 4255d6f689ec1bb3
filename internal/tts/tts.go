// Package tts abstracts the external AI speech collaborator. Synthesizers
// return raw 16-bit signed little-endian PCM, mono, at 24kHz.
package tts

import (
	"context"
	"fmt"

	"github.com/abhisek/egotutor/internal/llm"
	"github.com/abhisek/egotutor/internal/profile"
)

// SampleRate is the sample rate of all synthesized audio.
const SampleRate = 24000

// Synthesizer converts text to speech audio.
type Synthesizer interface {
	// Synthesize converts text to raw s16le mono PCM at 24kHz.
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// New builds a Synthesizer for the configured provider, bound to the
// voice of the learner's tutor persona. Only Gemini and OpenAI offer
// speech synthesis; other providers report an error and the caller runs
// without voice.
func New(ctx context.Context, cfg llm.Config, gender profile.Gender) (Synthesizer, error) {
	switch cfg.Provider {
	case "gemini":
		return NewGemini(ctx, cfg.Gemini, gender)
	case "openai":
		return NewOpenAI(cfg.OpenAI, gender)
	default:
		return nil, fmt.Errorf("provider %q has no speech support", cfg.Provider)
	}
}

package tts

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/abhisek/egotutor/internal/llm"
	"github.com/abhisek/egotutor/internal/profile"
	"github.com/abhisek/egotutor/internal/tutor"
)

// geminiTTSModel is the Gemini speech synthesis model.
const geminiTTSModel = "gemini-2.5-flash-preview-tts"

// Gemini synthesizes speech through the Gemini TTS model with a prebuilt
// voice keyed by the tutor persona.
type Gemini struct {
	client *genai.Client
	voice  string
}

// NewGemini creates a Gemini synthesizer for the given persona gender.
func NewGemini(ctx context.Context, cfg llm.GeminiConfig, gender profile.Gender) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	return &Gemini{
		client: client,
		voice:  tutor.PersonaFor(gender).Voice,
	}, nil
}

func (g *Gemini) Synthesize(ctx context.Context, text string) ([]byte, error) {
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{
					VoiceName: g.voice,
				},
			},
		},
	}

	contents := []*genai.Content{
		{Parts: []*genai.Part{{Text: text}}},
	}

	result, err := g.client.Models.GenerateContent(ctx, geminiTTSModel, contents, config)
	if err != nil {
		return nil, fmt.Errorf("synthesize speech: %w", err)
	}

	data := extractAudio(result)
	if len(data) == 0 {
		return nil, fmt.Errorf("no audio data in speech response")
	}
	return data, nil
}

// extractAudio pulls the inline PCM bytes out of a speech response.
// The SDK has already base64-decoded the inline data.
func extractAudio(result *genai.GenerateContentResponse) []byte {
	for _, cand := range result.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data
			}
		}
	}
	return nil
}

package tts

import (
	"context"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"

	"github.com/abhisek/egotutor/internal/llm"
	"github.com/abhisek/egotutor/internal/profile"
)

// OpenAI synthesizes speech through the OpenAI speech endpoint. The PCM
// response format matches Gemini's: s16le mono at 24kHz.
type OpenAI struct {
	client *openai.Client
	voice  openai.SpeechVoice
}

// NewOpenAI creates an OpenAI synthesizer for the given persona gender.
func NewOpenAI(cfg llm.OpenAIConfig, gender profile.Gender) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	voice := openai.VoiceOnyx
	if gender == profile.GenderGirl {
		voice = openai.VoiceNova
	}

	return &OpenAI{
		client: openai.NewClientWithConfig(config),
		voice:  voice,
	}, nil
}

func (o *OpenAI) Synthesize(ctx context.Context, text string) ([]byte, error) {
	res, err := o.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.TTSModel1,
		Input:          text,
		Voice:          o.voice,
		ResponseFormat: openai.SpeechResponseFormatPcm,
	})
	if err != nil {
		return nil, fmt.Errorf("synthesize speech: %w", err)
	}
	defer res.Close()

	data, err := io.ReadAll(res)
	if err != nil {
		return nil, fmt.Errorf("read speech response: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("no audio data in speech response")
	}
	return data, nil
}

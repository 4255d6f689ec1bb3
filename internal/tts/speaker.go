package tts

import (
	"context"

	"github.com/abhisek/egotutor/internal/audio"
)

// Speaker synthesizes a line of text and plays it through the audio
// device, end to end. Playback blocks, so callers run Speak from a
// background command.
type Speaker struct {
	synth  Synthesizer
	player *audio.Player
}

// NewSpeaker wires a synthesizer to a player.
func NewSpeaker(synth Synthesizer, player *audio.Player) *Speaker {
	return &Speaker{synth: synth, player: player}
}

// Speak converts text to speech and plays it.
func (s *Speaker) Speak(ctx context.Context, text string) error {
	pcm, err := s.synth.Synthesize(ctx, text)
	if err != nil {
		return err
	}
	return s.player.Play(audio.DecodePCM(pcm))
}

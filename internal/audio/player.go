package audio

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Player plays decoded speech buffers once through the system audio
// device. The device context is created lazily on first playback and
// shared for the life of the process.
type Player struct {
	sampleRate int

	mu  sync.Mutex
	ctx *oto.Context
}

// NewPlayer creates a Player for mono audio at the given sample rate.
func NewPlayer(sampleRate int) *Player {
	return &Player{sampleRate: sampleRate}
}

// Play blocks until the samples have finished playing. Callers run it
// from a background command so a slow device never stalls the UI.
func (p *Player) Play(samples []float32) error {
	if len(samples) == 0 {
		return nil
	}

	ctx, err := p.context()
	if err != nil {
		return err
	}

	player := ctx.NewPlayer(bytes.NewReader(EncodeFloat32LE(samples)))
	defer player.Close()

	player.Play()
	for player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}
	return nil
}

func (p *Player) context() (*oto.Context, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ctx != nil {
		return p.ctx, nil
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   p.sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}
	<-ready

	p.ctx = ctx
	return p.ctx, nil
}

//go:build !headless

// Package audio plays a rendered sample stream on the host sound device.
// Build with -tags headless to replace it with a silent twin.
package audio

import (
	"fmt"
	"io"
	"sync"

	"github.com/ebitengine/oto/v3"
)

// Player pulls float32 little-endian mono samples from a source.
type Player struct {
	ctx    *oto.Context
	player *oto.Player

	mu      sync.Mutex
	started bool
}

// NewPlayer opens the default output device at sampleRate.
func NewPlayer(sampleRate int) (*Player, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}
	<-ready

	return &Player{ctx: ctx}, nil
}

// Start begins pulling from src. Calling Start twice is a no-op.
func (p *Player) Start(src io.Reader) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return
	}
	p.player = p.ctx.NewPlayer(src)
	p.player.Play()
	p.started = true
}

// IsStarted reports whether the player is pulling samples.
func (p *Player) IsStarted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.started
}

// Close stops playback and reports any error the player hit while pulling.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.player == nil {
		return nil
	}
	p.player.Pause()
	err := p.player.Err()
	p.player = nil
	p.started = false
	if err != nil {
		return fmt.Errorf("audio player: %w", err)
	}
	return nil
}

//go:build headless

package audio

import (
	"errors"
	"io"
)

// ErrHeadless is returned by NewPlayer in headless builds.
var ErrHeadless = errors.New("audio: headless build")

// Player is the silent twin used in headless builds.
type Player struct{}

// NewPlayer always fails so callers fall back to driving the source themselves.
func NewPlayer(sampleRate int) (*Player, error) {
	return nil, ErrHeadless
}

func (p *Player) Start(src io.Reader) {}

func (p *Player) IsStarted() bool { return false }

func (p *Player) Close() error { return nil }

package main

import (
	"context"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sweeney/buzzer-sweep/internal/audio"
	"github.com/sweeney/buzzer-sweep/internal/config"
	"github.com/sweeney/buzzer-sweep/internal/sim"
	"github.com/sweeney/buzzer-sweep/internal/ui"
)

// pumpPeriod is the render chunk used when no sound device pulls samples.
const pumpPeriod = 10 * time.Millisecond

type simOptions struct {
	sampleRate int
	settle     time.Duration
	seed       uint16
	audio      bool
}

func runSim(opts simOptions) error {
	m := sim.New(sim.Config{
		SampleRate: opts.sampleRate,
		Settle:     opts.settle,
		Seed:       opts.seed,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	audioState := "off"
	if opts.audio {
		player, err := audio.NewPlayer(m.SampleRate())
		if err != nil {
			log.Printf("audio unavailable, running silent: %v", err)
		} else {
			player.Start(m)
			defer player.Close()
			audioState = "on"
		}
	}
	if audioState == "off" {
		go m.Run(ctx, pumpPeriod)
	}

	p := tea.NewProgram(
		ui.New(m, audioState),
		tea.WithAltScreen(),
		tea.WithFPS(config.TargetFPS),
	)
	_, err := p.Run()
	return err
}

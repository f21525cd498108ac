// Package config collects the defaults shared by the buzzer-sweep commands.
package config

import (
	"time"

	"github.com/sweeney/buzzer-sweep/internal/logic"
	"github.com/sweeney/buzzer-sweep/internal/tick"
)

const (
	// Hardware
	Chip   = "gpiochip0"
	Settle = logic.DefaultSettle // debounce settle interval
	Tick   = tick.DefaultPeriod  // status blink tick

	// Telemetry
	Broker    = "tcp://192.168.1.200:1883"
	Heartbeat = 15 * time.Minute
	HTTPAddr  = ":80"

	// Control loop
	EventQueue    = 64   // transitions buffered between the loop and the reporter
	ProgressEvery = 4096 // iterations between tracker progress samples
	ReadErrorLog  = 5 * time.Second

	// Simulator
	SampleRate   = 44100
	Amplitude    = 0.25
	KeyRelease   = 150 * time.Millisecond // virtual button hold time
	TargetFPS    = 30
	RecentEvents = 6

	// Analyzer
	AnalyzeSeconds = 2.0

	// App
	AppName    = "BUZZER-SWEEP"
	AppVersion = "1.0"
)

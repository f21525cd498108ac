package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sweeney/buzzer-sweep/internal/config"
	"github.com/sweeney/buzzer-sweep/internal/logic"
	"github.com/sweeney/buzzer-sweep/internal/sim"
)

// Panel is the simulated device behind the model.
type Panel interface {
	Press(btn logic.Button, hold time.Duration)
	Snapshot() sim.Snapshot
	SampleRate() int
}

// FrameMsg triggers a redraw from a fresh snapshot.
type FrameMsg time.Time

// Model is the Bubble Tea model of the front panel. Keys press the virtual
// buttons; the panel itself keeps running between frames.
type Model struct {
	width  int
	height int

	panel Panel
	audio string
	snap  sim.Snapshot
}

// New creates a model over panel. audio describes the audio output for the
// status bar.
func New(panel Panel, audio string) Model {
	return Model{
		panel: panel,
		audio: audio,
		snap:  panel.Snapshot(),
	}
}

func (m Model) Init() tea.Cmd {
	return frameCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case FrameMsg:
		m.snap = m.panel.Snapshot()
		return m, frameCmd()
	}

	return m, nil
}

var keyButtons = map[string]logic.Button{
	"p": logic.ButtonPower,
	"n": logic.ButtonPattern,
	"s": logic.ButtonSpeed,
	"r": logic.ButtonRange,
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "q", "Q", "ctrl+c":
		return m, tea.Quit

	case "p", "n", "s", "r", "P", "N", "S", "R":
		m.panel.Press(keyButtons[strings.ToLower(key)], config.KeyRelease)
	}
	return m, nil
}

func (m Model) View() string {
	if m.width == 0 {
		return "Starting buzzer simulator..."
	}

	return ComposeLayout(
		RenderMenuBar(m.width, m.snap.State.Active),
		RenderIndicators(m.snap.Indicators, m.snap.Status),
		RenderState(m.snap, m.panel.SampleRate()),
		RenderEvents(m.snap.Recent),
		RenderStatusBar(m.width, m.snap, m.audio),
	)
}

func frameCmd() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(config.TargetFPS), func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}

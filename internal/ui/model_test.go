package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sweeney/buzzer-sweep/internal/config"
	"github.com/sweeney/buzzer-sweep/internal/logic"
	"github.com/sweeney/buzzer-sweep/internal/sim"
	"github.com/sweeney/buzzer-sweep/internal/sweep"
)

type press struct {
	btn  logic.Button
	hold time.Duration
}

type fakePanel struct {
	presses   []press
	snap      sim.Snapshot
	snapshots int
}

func (f *fakePanel) Press(btn logic.Button, hold time.Duration) {
	f.presses = append(f.presses, press{btn, hold})
}

func (f *fakePanel) Snapshot() sim.Snapshot {
	f.snapshots++
	return f.snap
}

func (f *fakePanel) SampleRate() int { return 44100 }

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestKeysPressButtons(t *testing.T) {
	tests := []struct {
		key  rune
		want logic.Button
	}{
		{'p', logic.ButtonPower},
		{'n', logic.ButtonPattern},
		{'s', logic.ButtonSpeed},
		{'r', logic.ButtonRange},
		{'R', logic.ButtonRange},
	}
	for _, tt := range tests {
		p := &fakePanel{}
		m := New(p, "off")
		_, cmd := m.Update(runeKey(tt.key))
		if cmd != nil {
			t.Errorf("key %q: expected no command", tt.key)
		}
		if len(p.presses) != 1 {
			t.Fatalf("key %q: expected 1 press, got %d", tt.key, len(p.presses))
		}
		if p.presses[0].btn != tt.want {
			t.Errorf("key %q: pressed %s, want %s", tt.key, p.presses[0].btn, tt.want)
		}
		if p.presses[0].hold != config.KeyRelease {
			t.Errorf("key %q: hold %v, want %v", tt.key, p.presses[0].hold, config.KeyRelease)
		}
	}
}

func TestUnboundKeyIgnored(t *testing.T) {
	p := &fakePanel{}
	m := New(p, "off")
	m.Update(runeKey('x'))
	if len(p.presses) != 0 {
		t.Errorf("expected no press, got %+v", p.presses)
	}
}

func TestQuitKeys(t *testing.T) {
	for _, msg := range []tea.KeyMsg{runeKey('q'), {Type: tea.KeyCtrlC}} {
		m := New(&fakePanel{}, "off")
		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Fatalf("%s: expected quit command", msg)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: expected tea.QuitMsg", msg)
		}
	}
}

func TestFrameRefreshesSnapshot(t *testing.T) {
	p := &fakePanel{}
	m := New(p, "off")
	p.snap.Delay = 42

	next, cmd := m.Update(FrameMsg(time.Now()))
	if cmd == nil {
		t.Error("expected the next frame to be scheduled")
	}
	if next.(Model).snap.Delay != 42 {
		t.Errorf("expected refreshed snapshot, got delay %d", next.(Model).snap.Delay)
	}
	if p.snapshots != 2 {
		t.Errorf("expected 2 snapshots, got %d", p.snapshots)
	}
}

func TestViewBeforeSize(t *testing.T) {
	m := New(&fakePanel{}, "off")
	if !strings.Contains(m.View(), "Starting") {
		t.Errorf("unexpected view: %q", m.View())
	}
}

func TestViewShowsState(t *testing.T) {
	p := &fakePanel{snap: sim.Snapshot{
		State:      logic.State{Active: true, Pattern: sweep.Siren},
		Delay:      25,
		Indicators: logic.Refresh(logic.State{Pattern: sweep.Siren}),
		Recent:     []logic.Event{{Timestamp: time.Date(2026, 1, 1, 9, 30, 0, 0, time.UTC), Type: logic.EventPattern}},
	}}
	m := New(p, "oto")
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	view := next.View()
	for _, want := range []string{"SIREN", "882 Hz", "LOW (25-50)", "ON", "09:30:00 PATTERN", "Audio: oto"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestRenderIndicatorsOneLit(t *testing.T) {
	ind := logic.Refresh(logic.State{Pattern: sweep.Triangle})
	out := RenderIndicators(ind, false)
	if n := strings.Count(out, glyphOn); n != 1 {
		t.Errorf("expected 1 lit indicator, got %d", n)
	}
	if n := strings.Count(out, glyphOff); n != sweep.PatternCount+1 {
		t.Errorf("expected %d dark indicators, got %d", sweep.PatternCount+1, n)
	}

	ind.RangeHigh = true
	out = RenderIndicators(ind, true)
	if n := strings.Count(out, glyphOn); n != 3 {
		t.Errorf("expected status, range and pattern lit, got %d", n)
	}
}

func TestRenderStateInactiveHasNoPitch(t *testing.T) {
	out := RenderState(sim.Snapshot{Delay: 37}, 44100)
	if strings.Contains(out, "Hz") {
		t.Error("pitch should not be shown while off")
	}
	if !strings.Contains(out, "OFF") {
		t.Error("expected power OFF")
	}
}

func TestRenderEventsEmpty(t *testing.T) {
	if !strings.Contains(RenderEvents(nil), "none") {
		t.Error("expected placeholder for no events")
	}
}

func TestRenderStatusBarErrors(t *testing.T) {
	out := RenderStatusBar(80, sim.Snapshot{Iterations: 10, Errors: 2}, "off")
	if !strings.Contains(out, "Errors: 2") {
		t.Errorf("expected error count, got %q", out)
	}
	if strings.Contains(RenderStatusBar(80, sim.Snapshot{}, "off"), "Errors") {
		t.Error("errors should be hidden when zero")
	}
}

func TestViewWithMachine(t *testing.T) {
	mach := sim.New(sim.Config{})
	if err := mach.Select(sweep.UpSweep, sweep.High, 0); err != nil {
		t.Fatalf("select: %v", err)
	}
	m := New(mach, "off")
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	view := next.View()
	if !strings.Contains(view, "HIGH (9-18)") {
		t.Errorf("expected HIGH range in view")
	}
}

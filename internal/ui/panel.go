// Package ui renders the simulated front panel in the terminal.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sweeney/buzzer-sweep/internal/config"
	"github.com/sweeney/buzzer-sweep/internal/logic"
	"github.com/sweeney/buzzer-sweep/internal/sim"
	"github.com/sweeney/buzzer-sweep/internal/sweep"
)

// RenderMenuBar renders the top bar with the key bindings and power state.
func RenderMenuBar(width int, active bool) string {
	title := fmt.Sprintf(" %s v%s ", config.AppName, config.AppVersion)

	keys := []struct{ key, label string }{
		{"P", "ower"},
		{"N", "ext pattern"},
		{"S", "peed"},
		{"R", "ange"},
		{"Q", "uit"},
	}

	menu := ""
	for _, k := range keys {
		menu += "  " + StyleMenuKey.Render("["+k.key+"]") + StyleMenuLabel.Render(k.label)
	}

	power := StylePowerOff.Render("OFF")
	if active {
		power = StylePowerOn.Render("ON")
	}

	left := StyleMenuLabel.Render(title) + menu
	right := power + " "

	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right)-2, 0)
	return StyleMenuBar.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

func led(on bool, lit lipgloss.Style) string {
	if on {
		return lit.Render(glyphOn)
	}
	return StyleLEDOff.Render(glyphOff)
}

// RenderIndicators renders the pattern indicator column, the range indicator
// and the blinking status indicator.
func RenderIndicators(ind logic.Indicators, status bool) string {
	lines := []string{
		StylePanelTitle.Render("INDICATORS"),
		"",
		led(status, StyleLEDStatus) + " " + StyleLabel.Render("STATUS"),
		led(ind.RangeHigh, StyleLEDRange) + " " + StyleLabel.Render("HIGH RANGE"),
		"",
	}
	for i, on := range ind.Pattern {
		name := StyleLabel.Render(sweep.Pattern(i).String())
		if on {
			name = StyleValue.Render(sweep.Pattern(i).String())
		}
		lines = append(lines, fmt.Sprintf("%s %2d %s", led(on, StyleLEDLit), i, name))
	}
	return StylePanel.Render(strings.Join(lines, "\n"))
}

// RenderState renders the selection and the live tone.
func RenderState(snap sim.Snapshot, sampleRate int) string {
	lim := sweep.Ranges[snap.State.Range]

	power := "OFF"
	pitch := "-"
	if snap.State.Active {
		power = "ON"
		pitch = fmt.Sprintf("%.0f Hz", sim.Pitch(sampleRate, snap.Delay))
	}

	fields := []struct{ label, value string }{
		{"Power", power},
		{"Pattern", snap.State.Pattern.String()},
		{"Range", fmt.Sprintf("%s (%d-%d)", snap.State.Range, lim.Min, lim.Max)},
		{"Speed", fmt.Sprintf("%d (step %d)", snap.State.Speed, sweep.Step(snap.State.Speed))},
		{"Delay", fmt.Sprintf("%d", snap.Delay)},
		{"Pitch", pitch},
	}

	lines := []string{StylePanelTitle.Render("STATE"), ""}
	for _, f := range fields {
		lines = append(lines, StyleLabel.Render(fmt.Sprintf("%-9s", f.label))+StyleValue.Render(f.value))
	}
	return StylePanel.Render(strings.Join(lines, "\n"))
}

// RenderEvents renders the most recent transitions, newest last.
func RenderEvents(events []logic.Event) string {
	lines := []string{StylePanelTitle.Render("EVENTS"), ""}
	if len(events) == 0 {
		lines = append(lines, StyleLabel.Render("none"))
	}
	for _, e := range events {
		lines = append(lines, StyleLabel.Render(e.Timestamp.Format("15:04:05")+" ")+StyleValue.Render(string(e.Type)))
	}
	return StylePanel.Render(strings.Join(lines, "\n"))
}

// RenderStatusBar renders the bottom bar with loop counters.
func RenderStatusBar(width int, snap sim.Snapshot, audio string) string {
	info := fmt.Sprintf("Iterations: %d  Ticks: %d  Audio: %s", snap.Iterations, snap.Ticks, audio)
	content := info
	if snap.Errors > 0 {
		content += StyleError.Render(fmt.Sprintf("  Errors: %d", snap.Errors))
	}
	gap := max(width-lipgloss.Width(content)-2, 0)
	return StyleStatusBar.Width(width).Render(content + strings.Repeat(" ", gap))
}

// ComposeLayout places the indicator column beside the state and events
// panels, with the menu bar on top and the status bar at the bottom.
func ComposeLayout(menuBar, indicators, state, events, statusBar string) string {
	right := lipgloss.JoinVertical(lipgloss.Left, state, events)
	middle := lipgloss.JoinHorizontal(lipgloss.Top, indicators, right)
	return lipgloss.JoinVertical(lipgloss.Left, menuBar, middle, statusBar)
}

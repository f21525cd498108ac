package ui

import "github.com/charmbracelet/lipgloss"

// Front panel palette
var (
	ColorLEDRed    = lipgloss.Color("#FF3B30")
	ColorLEDAmber  = lipgloss.Color("#FFAA00")
	ColorLEDGreen  = lipgloss.Color("#00FF41")
	ColorLEDOff    = lipgloss.Color("#3A3A3A")
	ColorText      = lipgloss.Color("#D0D0D0")
	ColorDim       = lipgloss.Color("#707070")
	ColorBar       = lipgloss.Color("#1C1C1C")
	ColorBorder    = lipgloss.Color("#5F5F5F")
	ColorHighlight = lipgloss.Color("#FFFFFF")
)

// Pre-built styles
var (
	StyleMenuBar = lipgloss.NewStyle().
			Background(ColorBar).
			Foreground(ColorText).
			Bold(true).
			Padding(0, 1)

	StyleMenuKey = lipgloss.NewStyle().
			Foreground(ColorLEDAmber).
			Bold(true)

	StyleMenuLabel = lipgloss.NewStyle().
			Foreground(ColorText)

	StyleStatusBar = lipgloss.NewStyle().
			Background(ColorBar).
			Foreground(ColorDim).
			Padding(0, 1)

	StylePowerOn = lipgloss.NewStyle().
			Foreground(ColorLEDGreen).
			Bold(true)

	StylePowerOff = lipgloss.NewStyle().
			Foreground(ColorDim).
			Bold(true)

	StylePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	StylePanelTitle = lipgloss.NewStyle().
			Foreground(ColorHighlight).
			Bold(true)

	StyleLEDLit = lipgloss.NewStyle().
			Foreground(ColorLEDRed).
			Bold(true)

	StyleLEDRange = lipgloss.NewStyle().
			Foreground(ColorLEDAmber).
			Bold(true)

	StyleLEDStatus = lipgloss.NewStyle().
			Foreground(ColorLEDGreen).
			Bold(true)

	StyleLEDOff = lipgloss.NewStyle().
			Foreground(ColorLEDOff)

	StyleLabel = lipgloss.NewStyle().
			Foreground(ColorDim)

	StyleValue = lipgloss.NewStyle().
			Foreground(ColorHighlight).
			Bold(true)

	StyleError = lipgloss.NewStyle().
			Foreground(ColorLEDRed)
)

// LED glyphs
const (
	glyphOn  = "●"
	glyphOff = "○"
)

package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(42)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)

	statusRunning   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
	statusPaused    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00"))
	statusRecording = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff4444"))

	spinUpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	spinDownStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("61"))
)

// MagnetBar renders the magnetization per spin as a centered bar, with
// negative values filling left of the midpoint and positive values right.
func MagnetBar(m float64, width int) string {
	if m > 1 {
		m = 1
	}
	if m < -1 {
		m = -1
	}
	// Odd widths give the extra cell to the right half.
	left := width / 2
	right := width - left
	filled := int(m * float64(left))

	var b strings.Builder
	if filled >= 0 {
		b.WriteString(strings.Repeat("░", left))
		b.WriteString(strings.Repeat("█", filled))
		b.WriteString(strings.Repeat("░", right-filled))
	} else {
		b.WriteString(strings.Repeat("░", left+filled))
		b.WriteString(strings.Repeat("█", -filled))
		b.WriteString(strings.Repeat("░", right))
	}
	return b.String()
}

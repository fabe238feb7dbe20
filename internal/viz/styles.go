package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const statsWidth = 42

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(statsWidth)
	headerStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// canvas cell offset inside the rendered view, from canvasStyle's padding
const (
	canvasOffsetX = 2
	canvasOffsetY = 1
)

func (t Theme) canvas() lipgloss.Style { return lipgloss.NewStyle().Foreground(t.Canvas) }
func (t Theme) header() lipgloss.Style { return headerStyle.Foreground(t.Accent) }

func (t Theme) status(ok bool) lipgloss.Style {
	if ok {
		return lipgloss.NewStyle().Bold(true).Foreground(t.Good)
	}
	return lipgloss.NewStyle().Bold(true).Foreground(t.Bad)
}

func (t Theme) muted() lipgloss.Style { return lipgloss.NewStyle().Foreground(t.Muted) }

// Separator draws a muted rule with a diamond in the middle.
func Separator(t Theme, width int) string {
	if width < 8 {
		return strings.Repeat("─", max(width, 0))
	}
	mid := width / 2
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", width-mid-3)
	return t.muted().Render(left + " ◆ " + right)
}

// keyHints renders "key action" pairs with the key highlighted.
func keyHints(t Theme, pairs ...string) string {
	key := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	desc := t.muted()
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(key.Render(pairs[i]) + desc.Render(" "+pairs[i+1]))
	}
	return b.String()
}

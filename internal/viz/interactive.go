package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/gondola/internal/config"
)

const emptyTrack = "(empty)"

const (
	stateMenu = iota
	stateEditor
)

// App starts on a track picker and switches to the editor once a track is
// chosen.
type App struct {
	state   int
	cursor  int
	choices []string
	cfg     *config.Config
	editor  Model
	width   int
	height  int
}

// NewApp builds the picker. cfg supplies timing and viewport; its track is
// replaced by the chosen preset.
func NewApp(cfg *config.Config) *App {
	choices := append([]string{emptyTrack}, config.ListPresets()...)
	return &App{state: stateMenu, choices: choices, cfg: cfg}
}

func (a App) Init() tea.Cmd { return nil }

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		a.width, a.height = ws.Width, ws.Height
	}
	if a.state == stateEditor {
		next, cmd := a.editor.Update(msg)
		a.editor = next.(Model)
		return a, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.choices)-1 {
			a.cursor++
		}
	case "enter", " ":
		return a.open(a.choices[a.cursor])
	}
	return a, nil
}

func (a App) open(choice string) (tea.Model, tea.Cmd) {
	cfg := *a.cfg
	if choice == emptyTrack {
		cfg.Track = config.TrackConfig{Name: "custom"}
	} else {
		preset, err := config.GetPreset(choice)
		if err != nil {
			return a, nil
		}
		cfg.Track = preset.Track
	}

	a.editor = NewModel(cfg.BuildTrack(), cfg.Camera(), cfg.Dt, cfg.FPS)
	if a.width > 0 {
		next, _ := a.editor.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
		a.editor = next.(Model)
	}
	a.state = stateEditor
	return a, a.editor.Init()
}

func (a App) View() string {
	if a.state == stateEditor {
		return a.editor.View()
	}

	var b strings.Builder
	h := lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	sub := lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	b.WriteString("\n\n    " + h.Render("GONDOLA") + "\n    " + sub.Render("spline track rider") + "\n    " + sub.Render("─────────────────────────") + "\n\n")
	for i, name := range a.choices {
		desc := fmt.Sprintf("%d points", len(config.Presets[name]))
		if name == emptyTrack {
			desc = "draw your own"
		}
		if i == a.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true).Render("▸"), lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true).Render(fmt.Sprintf("%-10s", name)), lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff")).Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", lipgloss.NewStyle().Foreground(lipgloss.Color("#555566")).Render(fmt.Sprintf("  %-10s", name)), lipgloss.NewStyle().Foreground(lipgloss.Color("#444455")).Render(desc)))
		}
	}
	b.WriteString("\n    " + keyHints(ThemeClassic, "j/k", "navigate", "enter", "select", "q", "quit") + "\n")
	return b.String()
}

// RunInteractive shows the track picker, then the editor.
func RunInteractive(cfg *config.Config) error {
	_, err := tea.NewProgram(NewApp(cfg), tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}

// RunEditor opens the editor directly on the configured track.
func RunEditor(cfg *config.Config) error {
	m := NewModel(cfg.BuildTrack(), cfg.Camera(), cfg.Dt, cfg.FPS)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}

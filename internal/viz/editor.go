package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gondola/internal/camera"
	"github.com/san-kum/gondola/internal/dynamo"
	"github.com/san-kum/gondola/internal/gondola"
	"github.com/san-kum/gondola/internal/metrics"
	"github.com/san-kum/gondola/internal/sim"
	"github.com/san-kum/gondola/internal/track"
)

const (
	defaultCols     = 60
	defaultRows     = 30
	minCols         = 20
	minRows         = 10
	historyCapacity = 300
	spokes          = 4
)

type TickMsg time.Time

// Model is the terminal track editor: the left pane is a braille canvas
// showing the viewport, the right pane the ride statistics.
type Model struct {
	sim          *sim.Simulator
	maxSpeed     *metrics.MaxSpeed
	pathLength   *metrics.PathLength
	view         *camera.Camera
	cam          *camera.Camera
	canvas       *Canvas
	dt           float64
	frame        float64
	clock        float64
	speedHistory []float64
	theme        Theme
	message      string
	showHelp     bool
}

// NewModel creates an editor on tr. view is the world viewport; the canvas
// widens it to its own aspect ratio. fps sets the frame interval.
func NewModel(tr *track.Track, view *camera.Camera, dt float64, fps int) Model {
	if fps <= 0 {
		fps = 60
	}
	m := Model{
		view:         view,
		dt:           dt,
		frame:        1 / float64(fps),
		speedHistory: make([]float64, 0, historyCapacity),
		theme:        ThemeClassic,
	}
	m.attach(tr)
	m.resize(defaultCols, defaultRows)
	return m
}

func (m *Model) attach(tr *track.Track) {
	m.sim = sim.New(tr, m.dt)
	m.maxSpeed = metrics.NewMaxSpeed()
	m.pathLength = metrics.NewPathLength()
	m.sim.AddMetric(m.maxSpeed)
	m.sim.AddMetric(m.pathLength)
	m.clock = 0
	m.speedHistory = m.speedHistory[:0]
}

func (m *Model) resize(cols, rows int) {
	m.canvas = NewCanvas(max(cols, minCols), max(rows, minRows))
	px := m.canvas.Pixels()
	m.cam = m.view.WithAspect(px.X / px.Y)
}

// Simulator exposes the editor's simulator.
func (m Model) Simulator() *sim.Simulator { return m.sim }

func (m Model) Camera() *camera.Camera { return m.cam }

func (m Model) Canvas() *Canvas { return m.canvas }

func (m Model) Message() string { return m.message }

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Duration(m.frame*float64(time.Second)), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.click(msg.X, msg.Y)
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width-statsWidth-2*canvasOffsetX-1, msg.Height-2*canvasOffsetY)
	case TickMsg:
		m.advance()
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.start()
	case "r":
		m.sim.Reset()
		m.clock = 0
		m.speedHistory = m.speedHistory[:0]
		m.message = "reset"
	case "c":
		m.attach(track.New(m.sim.Track().Name()))
		m.message = "new track"
	case "t":
		m.theme = NextTheme(m.theme)
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *Model) start() {
	if err := m.sim.Start(); err != nil {
		m.message = err.Error()
		return
	}
	if m.sim.Body().Phase() != gondola.Running {
		m.message = "cannot start here"
		return
	}
	m.message = ""
}

// click adds a control point under the terminal cell (x, y). Clicks outside
// the canvas are ignored.
func (m *Model) click(x, y int) {
	col, row := x-canvasOffsetX, y-canvasOffsetY
	if col < 0 || row < 0 || col >= m.canvas.Width || row >= m.canvas.Height {
		return
	}
	// centre of the cell in sub-pixels
	pixel := dynamo.V(float64(col*2)+1, float64(row*4)+2)
	world := m.cam.PixelToWorld(pixel, m.canvas.Pixels())
	m.sim.AddControlPoint(world)
	m.message = fmt.Sprintf("point %d at %s", m.sim.Track().Len(), world)
}

// advance moves the ride forward by one frame interval.
func (m *Model) advance() {
	body := m.sim.Body()
	if body.Phase() != gondola.Running {
		return
	}
	m.sim.Advance(m.clock, m.clock+m.frame)
	m.clock += m.frame

	m.speedHistory = append(m.speedHistory, body.Speed())
	if len(m.speedHistory) > historyCapacity {
		m.speedHistory = m.speedHistory[1:]
	}
}

func (m *Model) draw() {
	m.canvas.Clear()
	window := m.canvas.Pixels()
	tr := m.sim.Track()

	samples := tr.Samples()
	for i, p := range samples {
		samples[i] = m.cam.WorldToPixel(p, window)
	}
	m.canvas.DrawPolyline(samples)

	for _, p := range tr.ControlPoints() {
		px := m.cam.WorldToPixel(p, window)
		m.canvas.DrawCircle(round(px.X), round(px.Y), 1)
	}

	body := m.sim.Body()
	if body.Phase() == gondola.Idle || !body.Position().IsValid() {
		return
	}
	center := body.Position()
	c := m.cam.WorldToPixel(center, window)
	r := gondola.Radius / m.cam.Size.X * window.X
	m.canvas.DrawCircle(round(c.X), round(c.Y), r)
	for i := 0; i < spokes; i++ {
		end := m.cam.WorldToPixel(dynamo.DefaultTrigTable.Rim(center, gondola.Radius, body.Heading()+float64(i)*2*math.Pi/spokes), window)
		m.canvas.DrawLine(round(c.X), round(c.Y), round(end.X), round(end.Y))
	}
}

func (m Model) View() string {
	m.draw()
	t := m.theme
	canvasView := canvasStyle.Render(t.canvas().Render(strings.TrimSuffix(m.canvas.String(), "\n")))

	body := m.sim.Body()
	tr := m.sim.Track()

	var s strings.Builder
	s.WriteString(t.header().Render(strings.ToUpper(tr.Name())) + "\n")
	s.WriteString(m.statusLine() + "\n\n")

	if len(m.speedHistory) > 1 {
		chart := asciigraph.Plot(m.speedHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Speed"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Points", fmt.Sprintf("%d", tr.Len()))
	row("Time", fmt.Sprintf("%.2fs", m.clock))
	row("Param", fmt.Sprintf("%.3f", body.Param()))
	row("Speed", fmt.Sprintf("%.2f", body.Speed()))
	row("Force", fmt.Sprintf("%.2f", body.RadialForce()))
	row("Max speed", fmt.Sprintf("%.2f", m.maxSpeed.Value()))
	row("Distance", fmt.Sprintf("%.2f", m.pathLength.Value()))

	if m.message != "" {
		s.WriteString("\n" + t.muted().Render(m.message) + "\n")
	}

	s.WriteString(helpStyle.Render(Separator(t, statsWidth-6)) + "\n")
	s.WriteString(keyHints(t, "click", "add", "space", "start", "r", "reset") + "\n")
	s.WriteString(keyHints(t, "c", "clear", "t", "theme", "?", "help", "q", "quit"))

	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Click    - Add a control point      ║
║  Space    - Start the ride           ║
║  R        - Put the body back        ║
║  C        - Start a new empty track  ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

func (m Model) statusLine() string {
	body := m.sim.Body()
	switch body.Phase() {
	case gondola.Running:
		return m.theme.status(true).Render("RUNNING")
	case gondola.Fallen:
		return m.theme.status(false).Render("FALLEN") + m.theme.muted().Render(" ("+body.Cause().String()+")")
	default:
		if m.sim.Track().Len() < 2 {
			return m.theme.muted().Render("IDLE · click to add points")
		}
		return m.theme.muted().Render("IDLE · space to start")
	}
}

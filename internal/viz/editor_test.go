package viz

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/san-kum/gondola/internal/camera"
	"github.com/san-kum/gondola/internal/config"
	"github.com/san-kum/gondola/internal/dynamo"
	"github.com/san-kum/gondola/internal/gondola"
	"github.com/san-kum/gondola/internal/track"
)

func newEditor(pts ...dynamo.Vec2) Model {
	tr := track.FromPoints("test", pts)
	return NewModel(tr, camera.New(dynamo.V(0, 0), dynamo.V(20, 20)), 0.01, 60)
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	em, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return em, cmd
}

func TestClickAddsPoint(t *testing.T) {
	m := newEditor()

	m, _ = update(t, m, tea.MouseMsg{X: canvasOffsetX + 30, Y: canvasOffsetY + 15, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})

	got := m.Simulator().Track().ControlPoints()
	want := []dynamo.Vec2{{X: 1.0 / 6, Y: -1.0 / 3}}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("control points mismatch (-want +got):\n%s", diff)
	}
}

func TestClickIgnored(t *testing.T) {
	m := newEditor()

	tests := []struct {
		name string
		msg  tea.MouseMsg
	}{
		{"right button", tea.MouseMsg{X: 10, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonRight}},
		{"release", tea.MouseMsg{X: 10, Y: 10, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}},
		{"padding", tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}},
		{"stats pane", tea.MouseMsg{X: canvasOffsetX + defaultCols + 5, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ = update(t, m, tt.msg)
			if n := m.Simulator().Track().Len(); n != 0 {
				t.Errorf("expected no points, got %d", n)
			}
		})
	}
}

func TestClickRoundTripsThroughCamera(t *testing.T) {
	m := newEditor()
	m, _ = update(t, m, tea.MouseMsg{X: canvasOffsetX + 7, Y: canvasOffsetY + 22, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})

	p := m.Simulator().Track().ControlPoints()[0]
	px := m.Camera().WorldToPixel(p, m.Canvas().Pixels())
	if col, row := int(px.X)/2, int(px.Y)/4; col != 7 || row != 22 {
		t.Errorf("point maps back to cell (%d, %d), want (7, 22)", col, row)
	}
}

func TestStartNeedsTwoPoints(t *testing.T) {
	m := newEditor(dynamo.V(0, 0))

	m, _ = update(t, m, key(" "))

	if m.Simulator().Body().Phase() != gondola.Idle {
		t.Error("body should stay idle")
	}
	if !strings.Contains(m.Message(), dynamo.ErrTrackTooShort.Error()) {
		t.Errorf("unexpected message %q", m.Message())
	}
}

func TestStartWithoutTangent(t *testing.T) {
	m := newEditor(dynamo.V(1, 1), dynamo.V(1, 1))

	m, _ = update(t, m, key(" "))

	if m.Simulator().Body().Phase() != gondola.Idle {
		t.Error("body should stay idle")
	}
	if !strings.Contains(m.Message(), dynamo.ErrNoTangent.Error()) {
		t.Errorf("unexpected message %q", m.Message())
	}
}

func TestRideToTheEnd(t *testing.T) {
	m := newEditor(dynamo.V(0, 0), dynamo.V(1, -1), dynamo.V(2, -2), dynamo.V(3, -3))

	m, _ = update(t, m, key(" "))
	if m.Simulator().Body().Phase() != gondola.Running {
		t.Fatal("body should be running after space")
	}

	var cmd tea.Cmd
	for i := 0; i < 300 && m.Simulator().Body().Phase() == gondola.Running; i++ {
		m, cmd = update(t, m, TickMsg{})
		if cmd == nil {
			t.Fatal("tick should schedule the next tick")
		}
	}

	body := m.Simulator().Body()
	if body.Phase() != gondola.Fallen || body.Cause() != gondola.RanOut {
		t.Errorf("expected to run out of track, got %s / %s", body.Phase(), body.Cause())
	}
	if len(m.speedHistory) == 0 {
		t.Error("speed history should be recorded")
	}
	if m.maxSpeed.Value() <= 0 {
		t.Error("max speed should be positive")
	}
	if !strings.Contains(m.View(), "FALLEN") {
		t.Error("view should report the fall")
	}
}

func TestResetAndClear(t *testing.T) {
	m := newEditor(dynamo.V(0, 0), dynamo.V(1, -1), dynamo.V(2, -2))

	m, _ = update(t, m, key(" "))
	for i := 0; i < 5; i++ {
		m, _ = update(t, m, TickMsg{})
	}

	m, _ = update(t, m, key("r"))
	if m.Simulator().Body().Phase() != gondola.Idle {
		t.Error("reset should leave an idle body")
	}
	if m.Simulator().Track().Len() != 3 {
		t.Error("reset should keep the track")
	}
	if len(m.speedHistory) != 0 {
		t.Error("reset should clear the speed history")
	}

	m, _ = update(t, m, key("c"))
	if n := m.Simulator().Track().Len(); n != 0 {
		t.Errorf("clear should start an empty track, got %d points", n)
	}
	if m.Simulator().Track().Name() != "test" {
		t.Error("clear should keep the track name")
	}
}

func TestIdleTickDoesNothing(t *testing.T) {
	m := newEditor(dynamo.V(0, 0), dynamo.V(1, -1))

	m, _ = update(t, m, TickMsg{})
	if m.clock != 0 {
		t.Errorf("clock advanced to %f while idle", m.clock)
	}
}

func TestQuit(t *testing.T) {
	m := newEditor()

	_, cmd := update(t, m, key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestThemeCycle(t *testing.T) {
	m := newEditor()
	for range Themes {
		m, _ = update(t, m, key("t"))
	}
	if m.theme.Name != ThemeClassic.Name {
		t.Errorf("cycling through all themes should wrap, got %s", m.theme.Name)
	}
	if GetTheme("nope").Name != ThemeClassic.Name {
		t.Error("unknown theme should fall back to classic")
	}
}

func TestResizeKeepsAspect(t *testing.T) {
	m := newEditor()
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 140, Height: 40})

	px := m.Canvas().Pixels()
	cam := m.Camera()
	if got, want := cam.Size.X/cam.Size.Y, px.X/px.Y; got-want > 1e-9 || want-got > 1e-9 {
		t.Errorf("camera aspect %f, canvas aspect %f", got, want)
	}
	if cam.Size.Y < 20 || cam.Size.X < 20 {
		t.Errorf("viewport shrank to %v", cam.Size)
	}
}

func TestViewShowsTrack(t *testing.T) {
	m := newEditor(dynamo.V(-5, 0), dynamo.V(0, -5), dynamo.V(5, 0))
	view := m.View()

	if !strings.Contains(view, "TEST") {
		t.Error("view should include the track name")
	}
	if !strings.Contains(view, "IDLE") {
		t.Error("view should show the idle status")
	}
	drawn := false
	for _, row := range m.Canvas().Grid {
		for _, r := range row {
			if r != blank {
				drawn = true
			}
		}
	}
	if !drawn {
		t.Error("track was not drawn on the canvas")
	}
}

func TestAppOpensPreset(t *testing.T) {
	app := NewApp(config.DefaultConfig())
	if app.choices[0] != emptyTrack {
		t.Fatalf("first choice should be the empty track, got %s", app.choices[0])
	}

	var next tea.Model = *app
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, cmd := next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Error("opening the editor should start the tick")
	}

	a := next.(App)
	if a.state != stateEditor {
		t.Fatal("expected the editor to be open")
	}
	want, err := config.GetPreset(config.ListPresets()[0])
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want.Points(), a.editor.Simulator().Track().ControlPoints()); diff != "" {
		t.Errorf("preset points mismatch (-want +got):\n%s", diff)
	}
}

func TestAppUnknownChoice(t *testing.T) {
	app := NewApp(config.DefaultConfig())
	next, _ := app.open("loop")
	if next.(App).state != stateMenu {
		t.Error("unknown preset should stay on the menu")
	}
	if _, err := config.GetPreset("loop"); !errors.Is(err, dynamo.ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
}

//go:build gui

package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/gondola/internal/config"
	"github.com/san-kum/gondola/internal/dynamo"
	"github.com/san-kum/gondola/internal/gondola"
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColCurve   = rl.Yellow
	ColPoint   = rl.Red
	ColBody    = rl.NewColor(180, 180, 180, 255)
	ColSpoke   = rl.NewColor(60, 60, 60, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
)

type App struct {
	session *Session
	message string
}

func initWindow(cfg *config.Config) {
	rl.InitWindow(int32(cfg.Window.Width), int32(cfg.Window.Height), "gondola")
	rl.SetTargetFPS(int32(cfg.FPS))
	rl.SetExitKey(rl.KeyQ)
}

// Run opens the window and blocks until it is closed.
func Run(cfg *config.Config) error {
	initWindow(cfg)
	defer rl.CloseWindow()

	app := &App{session: NewSession(cfg)}
	app.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		a.Update()
		a.Draw()
	}
}

func (a *App) Update() {
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		m := rl.GetMousePosition()
		p := a.session.Click(float64(m.X), float64(m.Y))
		a.message = fmt.Sprintf("point %d at %s", a.session.Simulator().Track().Len(), p)
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		if err := a.session.Start(); err != nil {
			a.message = err.Error()
		}
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.session.Reset()
		a.message = ""
	}

	a.session.Frame(float64(rl.GetFrameTime()))
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	a.drawTrack()
	a.drawWheel()
	a.DrawHUD()
	a.DrawTelemetry()

	rl.EndDrawing()
}

func (a *App) drawTrack() {
	curve := a.session.CurvePixels()
	if len(curve) >= 2 {
		rl.DrawLineStrip(vectors(curve), ColCurve)
	}
	for _, p := range a.session.PointPixels() {
		rl.DrawCircleV(vector(p), 4, ColPoint)
	}
}

func (a *App) drawWheel() {
	center, radius, rim, ok := a.session.Wheel()
	if !ok {
		return
	}
	c := vector(center)
	rl.DrawCircleV(c, float32(radius), ColBody)
	for _, r := range rim {
		rl.DrawLineV(c, vector(r), ColSpoke)
	}
}

func (a *App) DrawHUD() {
	body := a.session.Simulator().Body()
	status := body.Phase().String()
	if body.Phase() == gondola.Fallen {
		status += " (" + body.Cause().String() + ")"
	}

	h := int32(a.session.Window().Y)
	rl.DrawText("gondola", 10, 10, 20, ColText)
	rl.DrawText(status, 10, 34, 14, ColText)
	rl.DrawText(fmt.Sprintf("speed %.2f  u %.3f", body.Speed(), body.Param()), 10, 52, 14, ColText)
	if a.message != "" {
		rl.DrawText(a.message, 10, 70, 14, ColTextDim)
	}
	rl.DrawText("[CLICK] ADD  [SPACE] START  [R] RESET  [Q] QUIT", 10, h-20, 12, ColTextDim)
}

func (a *App) DrawTelemetry() {
	data := a.session.Telemetry()
	if len(data) < 2 {
		return
	}

	w := a.session.Window()
	rectX, rectY := float32(w.X)-170, float32(10)
	width, height := float32(160), float32(40)

	maxVal := data[0]
	for _, v := range data {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal <= 0 {
		maxVal = 1
	}

	points := make([]rl.Vector2, len(data))
	for i, val := range data {
		px := rectX + float32(i)/float32(len(data))*width
		py := rectY + height - float32(val/maxVal)*height
		points[i] = rl.NewVector2(px, py)
	}
	rl.DrawLineStrip(points, ColBody)
}

func vector(p dynamo.Vec2) rl.Vector2 {
	return rl.NewVector2(float32(p.X), float32(p.Y))
}

func vectors(pts []dynamo.Vec2) []rl.Vector2 {
	out := make([]rl.Vector2, len(pts))
	for i, p := range pts {
		out[i] = vector(p)
	}
	return out
}

// Package gui is the raylib front end: an orbiting 3D view of the
// particle field with a small raygui panel for live solver tweaks.
package gui

import (
	"fmt"
	"math"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/pbdsim/internal/config"
	"github.com/san-kum/pbdsim/internal/particles"
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColGrid    = rl.NewColor(30, 30, 30, 255)
)

type App struct {
	Sys      *particles.System
	Cfg      *config.Config
	Scenario string
	Time     float64

	Camera   rl.Camera3D
	orbitYaw float32
	orbitPit float32
	orbitRad float32

	Running   bool
	Paused    bool
	InMenu    bool
	Presets   []string
	Selected  int
	ShowPanel bool

	// live solver tweaks, pushed to the system when they change
	gravityY   float32
	iterations float32

	loadErr error
}

func initWindow() {
	rl.InitWindow(1280, 720, "pbdsim")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

func NewApp(startPreset string, interactive bool) *App {
	app := &App{
		Presets:   config.ListPresets(),
		InMenu:    interactive,
		ShowPanel: true,
		orbitYaw:  0.8,
		orbitPit:  0.4,
	}
	if !interactive {
		app.loadPreset(startPreset)
	}
	return app
}

// RunInteractive opens the window in the preset menu and blocks until
// it is closed.
func RunInteractive() {
	initWindow()
	defer rl.CloseWindow()
	app := NewApp("", true)
	app.RunLoop()
}

// Run opens the window directly into one preset.
func Run(preset string) {
	initWindow()
	defer rl.CloseWindow()
	app := NewApp(preset, false)
	app.RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		a.Update()
		a.Draw()
	}
	a.teardown()
}

func (a *App) loadPreset(name string) {
	a.teardown()

	cfg := config.GetPreset(name)
	if cfg == nil {
		a.loadErr = fmt.Errorf("unknown preset %q", name)
		return
	}
	sys, err := cfg.Build()
	if err != nil {
		a.loadErr = err
		return
	}

	a.Sys = sys
	a.Cfg = cfg
	a.Scenario = name
	a.Time = 0
	a.loadErr = nil
	a.Running = true
	a.Paused = false
	a.InMenu = false

	a.gravityY = sys.Gravity().Y
	a.iterations = float32(sys.SolverIterations())

	lo, hi := sys.Bounds()
	span := hi.Sub(lo)
	a.orbitRad = 1.6 * span.Length()
	a.Camera = rl.NewCamera3D(
		rl.NewVector3(0, 0, a.orbitRad),
		rl.NewVector3((lo.X+hi.X)/2, (lo.Y+hi.Y)/2, (lo.Z+hi.Z)/2),
		rl.NewVector3(0, 1, 0),
		45.0,
		rl.CameraPerspective,
	)
	a.placeCamera()
}

func (a *App) teardown() {
	if a.Sys != nil {
		a.Sys.Destroy()
		a.Sys = nil
	}
	a.Running = false
}

func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeyQ) && a.InMenu {
		a.teardown()
		rl.CloseWindow()
		os.Exit(0)
	}

	if a.InMenu {
		a.updateMenu()
		return
	}

	if rl.IsKeyPressed(rl.KeyEscape) {
		a.teardown()
		a.InMenu = true
		return
	}
	if rl.IsKeyPressed(rl.KeySpace) || rl.IsKeyPressed(rl.KeyP) {
		a.Paused = !a.Paused
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.loadPreset(a.Scenario)
		return
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		a.ShowPanel = !a.ShowPanel
	}

	a.updateCamera()

	if a.Running && !a.Paused && a.Sys != nil && a.loadErr == nil {
		if err := a.Sys.Step(float32(a.Cfg.Run.Dt)); err != nil {
			a.loadErr = err
			a.Paused = true
			return
		}
		a.Time += a.Cfg.Run.Dt
	}
}

func (a *App) updateMenu() {
	if rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ) {
		a.Selected++
	}
	if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK) {
		a.Selected--
	}
	if a.Selected >= len(a.Presets) {
		a.Selected = 0
	}
	if a.Selected < 0 {
		a.Selected = len(a.Presets) - 1
	}
	if rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeySpace) {
		a.loadPreset(a.Presets[a.Selected])
	}
}

func (a *App) updateCamera() {
	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		delta := rl.GetMouseDelta()
		a.orbitYaw += delta.X * 0.005
		a.orbitPit += delta.Y * 0.005
		if a.orbitPit > 1.5 {
			a.orbitPit = 1.5
		}
		if a.orbitPit < -1.5 {
			a.orbitPit = -1.5
		}
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		a.orbitRad *= 1 - wheel*0.1
		if a.orbitRad < 2 {
			a.orbitRad = 2
		}
	}
	a.placeCamera()
}

func (a *App) placeCamera() {
	cy := float32(math.Cos(float64(a.orbitYaw)))
	sy := float32(math.Sin(float64(a.orbitYaw)))
	cp := float32(math.Cos(float64(a.orbitPit)))
	sp := float32(math.Sin(float64(a.orbitPit)))

	t := a.Camera.Target
	a.Camera.Position = rl.NewVector3(
		t.X+a.orbitRad*cp*sy,
		t.Y+a.orbitRad*sp,
		t.Z+a.orbitRad*cp*cy,
	)
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	if a.InMenu {
		a.drawMenu()
		rl.EndDrawing()
		return
	}

	if a.loadErr != nil {
		rl.DrawText("error: "+a.loadErr.Error(), 40, 40, 20, rl.Red)
		rl.DrawText("esc back to menu", 40, 70, 16, ColTextDim)
		rl.EndDrawing()
		return
	}

	rl.BeginMode3D(a.Camera)
	a.drawWorld()
	a.drawParticles()
	rl.EndMode3D()

	a.drawHUD()
	if a.ShowPanel {
		a.drawPanel()
	}

	rl.EndDrawing()
}

func (a *App) drawMenu() {
	rl.DrawText("p b d s i m", 80, 60, 32, ColSelect)
	rl.DrawText("particle dynamics", 80, 100, 16, ColTextDim)

	y := int32(160)
	for i, name := range a.Presets {
		color := ColText
		prefix := "  "
		if i == a.Selected {
			color = ColSelect
			prefix = "> "
		}
		rl.DrawText(prefix+name, 80, y, 20, color)
		y += 30
	}

	rl.DrawText("up/down select   enter start   q quit", 80, y+30, 16, ColTextDim)
}

func (a *App) drawHUD() {
	status := "running"
	if a.Paused {
		status = "paused"
	}
	rl.DrawText(fmt.Sprintf("%s  %s  t=%.1fs", a.Scenario, status, a.Time), 20, 20, 20, ColAccent)
	rl.DrawText(fmt.Sprintf("particles %d/%d  dropped %d  %d fps",
		a.Sys.NumParticles(), a.Sys.MaxParticles(), a.Sys.Dropped(), rl.GetFPS()), 20, 46, 16, ColText)
	rl.DrawText("space pause  r reset  tab panel  esc menu", 20, int32(rl.GetScreenHeight())-30, 16, ColTextDim)
}

// drawPanel is the raygui tweak panel. Slider changes apply to the
// live system immediately.
func (a *App) drawPanel() {
	panelX := float32(rl.GetScreenWidth() - 280)
	panelY := float32(20)
	w := float32(200)

	rl.DrawText("solver", int32(panelX), int32(panelY), 18, ColAccent)
	panelY += 30

	rl.DrawText("gravity y", int32(panelX), int32(panelY), 14, ColText)
	panelY += 18
	newG := gui.SliderBar(
		rl.Rectangle{X: panelX, Y: panelY, Width: w, Height: 20},
		"-30", "0",
		a.gravityY, -30, 0,
	)
	rl.DrawText(fmt.Sprintf("%.1f", a.gravityY), int32(panelX+w+10), int32(panelY+2), 16, ColText)
	if newG != a.gravityY {
		a.gravityY = newG
		g := a.Sys.Gravity()
		g.Y = newG
		a.Sys.SetGravity(g)
	}
	panelY += 35

	rl.DrawText("iterations", int32(panelX), int32(panelY), 14, ColText)
	panelY += 18
	newIt := gui.SliderBar(
		rl.Rectangle{X: panelX, Y: panelY, Width: w, Height: 20},
		"1", "10",
		a.iterations, 1, 10,
	)
	rl.DrawText(fmt.Sprintf("%d", int(a.iterations)), int32(panelX+w+10), int32(panelY+2), 16, ColText)
	if int(newIt) != int(a.iterations) {
		a.iterations = newIt
		a.Sys.SetSolverIterations(int(newIt))
	}
	panelY += 35

	if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 95, Height: 28}, pauseLabel(a.Paused)) {
		a.Paused = !a.Paused
	}
	if gui.Button(rl.Rectangle{X: panelX + 105, Y: panelY, Width: 95, Height: 28}, "Reset") {
		a.loadPreset(a.Scenario)
	}
}

func pauseLabel(paused bool) string {
	if paused {
		return "Resume"
	}
	return "Pause"
}

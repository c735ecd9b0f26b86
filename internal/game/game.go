package game

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
)

const (
	screenW = 1280
	screenH = 800

	// Overhead view scale at zoom 1.
	pixelsPerMetre = 18.0
)

// Game is the ebiten front end: it polls input into the player's
// InputState, advances the world at a controllable speed, and draws the
// overhead debug view plus the HUD.
type Game struct {
	world    *World
	input    *InputState
	hud      *HUDState
	reporter *Reporter

	// Camera pan + zoom over the overhead view.
	camX, camY float64 // world-space XZ of the camera centre
	camZoom    float64

	// Simulation speed control: 0 = paused, up to 4x.
	simSpeed  float64
	tickAccum float64

	followPlayer bool
	showPaths    bool
	prevKeys     map[ebiten.Key]bool

	// One-frame toast, e.g. after a clipboard copy.
	toast      string
	toastUntil time.Time

	audio AudioSink

	cfgUpdates <-chan *Config
	cfgErrors  <-chan error
}

// NewGame assembles a playable match on the default arena.
func NewGame(cfg *Config, audio AudioSink) *Game {
	world := NewWorld(cfg, BuildArena(), time.Now().UnixNano())
	g := &Game{
		world:        world,
		input:        &InputState{},
		simSpeed:     1.0,
		camZoom:      1.0,
		followPlayer: true,
		showPaths:    true,
		prevKeys:     make(map[ebiten.Key]bool),
		audio:        nopAudio{},
	}
	g.hud = NewHUDState(world.Tick)
	g.reporter = NewReporter(world)
	world.SetHUD(g.hud)
	if audio != nil {
		g.audio = audio
		world.SetAudio(audio)
	}
	player := world.SpawnPlayer(g.input, 0)
	world.SpawnBots()
	g.hud.HealthChanged(player.Health, player.MaxHealth)
	g.hud.AmmoChanged(player.Weapon().Mag, player.Weapon().Reserve)
	return g
}

// World exposes the match, for the headless runner's wrapper.
func (g *Game) World() *World { return g.world }

func (g *Game) keyPressed(k ebiten.Key) bool { return ebiten.IsKeyPressed(k) }

// keyJustPressed is edge detection over ebiten's level-triggered key state.
func (g *Game) keyJustPressed(k ebiten.Key) bool {
	down := ebiten.IsKeyPressed(k)
	was := g.prevKeys[k]
	g.prevKeys[k] = down
	return down && !was
}

// SetConfigUpdates wires a hot-reload source; new configs are applied at
// the top of the next frame.
func (g *Game) SetConfigUpdates(updates <-chan *Config, errors <-chan error) {
	g.cfgUpdates = updates
	g.cfgErrors = errors
}

func (g *Game) pollConfig() {
	select {
	case cfg := <-g.cfgUpdates:
		g.world.ApplyConfig(cfg)
		g.setToast("config reloaded")
	case err := <-g.cfgErrors:
		g.setToast("config error: " + err.Error())
	default:
	}
}

func (g *Game) Update() error {
	if g.cfgUpdates != nil {
		g.pollConfig()
	}
	g.pollControls()
	g.pollPlayerInput()

	// Fractional accumulator so sub-1x speeds tick evenly.
	g.tickAccum += g.simSpeed
	for g.tickAccum >= 1 {
		g.tickAccum--
		if !g.world.Mode().Over() {
			g.world.Step()
		}
	}

	if p := g.world.Player(); p != nil {
		if g.followPlayer {
			g.camX, g.camY = p.Pos.X, p.Pos.Z
		}
		if m, ok := g.audio.(interface{ SetListener(Vec3) }); ok {
			m.SetListener(p.Pos)
		}
	}
	return nil
}

// pollControls handles the debug-view keys: camera, speed, toggles.
func (g *Game) pollControls() {
	switch {
	case g.keyJustPressed(ebiten.KeyDigit0):
		g.simSpeed = 0
	case g.keyJustPressed(ebiten.KeyDigit1):
		g.simSpeed = 1
	case g.keyJustPressed(ebiten.KeyDigit2):
		g.simSpeed = 2
	case g.keyJustPressed(ebiten.KeyDigit3):
		g.simSpeed = 4
	}
	if g.keyJustPressed(ebiten.KeyF) {
		g.followPlayer = !g.followPlayer
	}
	if g.keyJustPressed(ebiten.KeyP) {
		g.showPaths = !g.showPaths
	}
	if g.keyJustPressed(ebiten.KeyC) {
		g.copyReport()
	}

	// Manual camera pan (arrow keys) drops follow mode.
	panSpeed := 0.35 / g.camZoom
	if g.keyPressed(ebiten.KeyArrowLeft) {
		g.camX -= panSpeed
		g.followPlayer = false
	}
	if g.keyPressed(ebiten.KeyArrowRight) {
		g.camX += panSpeed
		g.followPlayer = false
	}
	if g.keyPressed(ebiten.KeyArrowUp) {
		g.camY -= panSpeed
		g.followPlayer = false
	}
	if g.keyPressed(ebiten.KeyArrowDown) {
		g.camY += panSpeed
		g.followPlayer = false
	}
	if _, wy := ebiten.Wheel(); wy != 0 {
		g.camZoom *= 1 + wy*0.1
		g.camZoom = clamp(g.camZoom, 0.3, 4)
	}
}

// pollPlayerInput fills the shared InputState the player controller reads
// on its next tick. Aim yaw points from the player at the cursor.
func (g *Game) pollPlayerInput() {
	in := g.input
	in.Forward = ebiten.IsKeyPressed(ebiten.KeyW)
	in.Back = ebiten.IsKeyPressed(ebiten.KeyS)
	in.Left = ebiten.IsKeyPressed(ebiten.KeyA)
	in.Right = ebiten.IsKeyPressed(ebiten.KeyD)
	in.Sprint = ebiten.IsKeyPressed(ebiten.KeyShift)
	in.Jump = ebiten.IsKeyPressed(ebiten.KeySpace)
	in.Crouch = ebiten.IsKeyPressed(ebiten.KeyControl)
	in.Reload = ebiten.IsKeyPressed(ebiten.KeyR)
	in.Fire = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)

	if p := g.world.Player(); p != nil {
		mx, my := ebiten.CursorPosition()
		wx, wz := g.screenToWorld(float64(mx), float64(my))
		in.Yaw = HeadingTo(p.Pos.X, p.Pos.Z, wx, wz)
		in.Pitch = 0
	}
}

// copyReport puts the current match report on the system clipboard.
func (g *Game) copyReport() {
	text := g.reporter.Report()
	if err := clipboard.WriteAll(text); err != nil {
		g.setToast("clipboard copy failed: " + err.Error())
		return
	}
	g.setToast("report copied to clipboard")
}

func (g *Game) setToast(msg string) {
	g.toast = msg
	g.toastUntil = time.Now().Add(2 * time.Second)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenW, screenH
}

// Run opens the window and blocks until it closes.
func (g *Game) Run() error {
	ebiten.SetWindowSize(screenW, screenH)
	ebiten.SetWindowTitle(fmt.Sprintf("rift arena [%s]", g.world.Mode().Name()))
	return ebiten.RunGame(g)
}

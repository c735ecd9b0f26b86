package game

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	floorColor    = color.RGBA{R: 44, G: 48, B: 56, A: 255}
	floorHiColor  = color.RGBA{R: 58, G: 64, B: 76, A: 255} // raised ground
	edgeColor     = color.RGBA{R: 90, G: 96, B: 110, A: 255}
	obstacleColor = color.RGBA{R: 28, G: 30, B: 36, A: 255}
	playerColor   = color.RGBA{R: 80, G: 200, B: 255, A: 255}
	redTeamColor  = color.RGBA{R: 235, G: 90, B: 80, A: 255}
	blueTeamColor = color.RGBA{R: 90, G: 140, B: 235, A: 255}
	dyingColor    = color.RGBA{R: 120, G: 70, B: 70, A: 255}
	tracerColor   = color.RGBA{R: 255, G: 230, B: 140, A: 200}
	tracerHitCol  = color.RGBA{R: 255, G: 120, B: 90, A: 230}
	pathColor     = color.RGBA{R: 70, G: 160, B: 110, A: 160}
	healthColor   = color.RGBA{R: 110, G: 220, B: 120, A: 255}
	ammoColor     = color.RGBA{R: 230, G: 190, B: 90, A: 255}
)

func (g *Game) worldToScreen(x, z float64) (float32, float32) {
	s := pixelsPerMetre * g.camZoom
	return float32((x-g.camX)*s + screenW/2), float32((z-g.camY)*s + screenH/2)
}

func (g *Game) screenToWorld(sx, sy float64) (float64, float64) {
	s := pixelsPerMetre * g.camZoom
	return (sx-screenW/2)/s + g.camX, (sy-screenH/2)/s + g.camY
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.drawMesh(screen)
	g.drawObstacles(screen)
	g.drawItems(screen)
	if g.showPaths {
		g.drawPaths(screen)
	}
	g.drawTracers(screen)
	g.drawEntities(screen)
	g.drawHUD(screen)
}

// drawMesh fills each walkable region, shading raised ground lighter, and
// strokes outer wall edges.
func (g *Game) drawMesh(screen *ebiten.Image) {
	for _, r := range g.world.Mesh().Regions {
		fill := floorColor
		if r.Centroid.Y > 0.5 {
			fill = floorHiColor
		}
		var path vector.Path
		sx, sy := g.worldToScreen(r.Verts[0][0], r.Verts[0][1])
		path.MoveTo(sx, sy)
		for _, v := range r.Verts[1:] {
			sx, sy = g.worldToScreen(v[0], v[1])
			path.LineTo(sx, sy)
		}
		path.Close()
		vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
		for i := range vs {
			vs[i].ColorR = float32(fill.R) / 255
			vs[i].ColorG = float32(fill.G) / 255
			vs[i].ColorB = float32(fill.B) / 255
			vs[i].ColorA = 1
		}
		screen.DrawTriangles(vs, is, whiteSubImage(), nil)

		n := len(r.Verts)
		for i := 0; i < n; i++ {
			if r.Neighbor(i) >= 0 {
				continue // portal, not a wall
			}
			a, b := r.Verts[i], r.Verts[(i+1)%n]
			ax, ay := g.worldToScreen(a[0], a[1])
			bx, by := g.worldToScreen(b[0], b[1])
			vector.StrokeLine(screen, ax, ay, bx, by, 2, edgeColor, false)
		}
	}
}

func (g *Game) drawObstacles(screen *ebiten.Image) {
	for _, ob := range g.world.Combat().Obstacles() {
		ax, ay := g.worldToScreen(ob.Min.X, ob.Min.Z)
		bx, by := g.worldToScreen(ob.Max.X, ob.Max.Z)
		vector.DrawFilledRect(screen, ax, ay, bx-ax, by-ay, obstacleColor, false)
	}
}

func (g *Game) drawItems(screen *ebiten.Image) {
	for _, it := range g.world.Items() {
		if !it.Available() {
			continue
		}
		col := healthColor
		if it.Kind == ItemAmmo {
			col = ammoColor
		}
		sx, sy := g.worldToScreen(it.Pos.X, it.Pos.Z)
		vector.DrawFilledCircle(screen, sx, sy, 4*float32(g.camZoom), col, true)
	}
}

func (g *Game) drawPaths(screen *ebiten.Image) {
	for _, e := range g.world.Enemies() {
		if e.Status != StatusAlive || len(e.path) == 0 {
			continue
		}
		px, py := g.worldToScreen(e.Pos.X, e.Pos.Z)
		for _, wp := range e.path {
			nx, ny := g.worldToScreen(wp.X, wp.Z)
			vector.StrokeLine(screen, px, py, nx, ny, 1, pathColor, false)
			px, py = nx, ny
		}
	}
}

func (g *Game) drawTracers(screen *ebiten.Image) {
	for _, tr := range g.world.Combat().Tracers() {
		col := tracerColor
		if tr.HitBody {
			col = tracerHitCol
		}
		ax, ay := g.worldToScreen(tr.From.X, tr.From.Z)
		bx, by := g.worldToScreen(tr.To.X, tr.To.Z)
		vector.StrokeLine(screen, ax, ay, bx, by, 1, col, false)
	}
}

// drawEntities renders each combatant as a circle with a facing tick, a
// health arc, and its label. The player additionally shows sprint/slide
// state by outline.
func (g *Game) drawEntities(screen *ebiten.Image) {
	zoom := float32(g.camZoom)
	for _, ent := range g.world.Combatants() {
		k := ent.Kin()
		life := ent.Life()
		sx, sy := g.worldToScreen(k.Pos.X, k.Pos.Z)
		radius := float32(k.Radius) * pixelsPerMetre * zoom

		col := redTeamColor
		if ent.Team() == 1 {
			col = blueTeamColor
		}
		if _, isPlayer := ent.(*Player); isPlayer {
			col = playerColor
		}
		switch life.Status {
		case StatusDying:
			col = dyingColor
		case StatusDead:
			continue
		}

		vector.DrawFilledCircle(screen, sx, sy, radius, col, true)

		// Facing tick.
		fx := sx + float32(math.Cos(k.Yaw))*radius*1.6
		fy := sy + float32(math.Sin(k.Yaw))*radius*1.6
		vector.StrokeLine(screen, sx, sy, fx, fy, 2, color.White, true)

		// Health bar above the body.
		if life.Status == StatusAlive {
			w := radius * 2.4
			vector.DrawFilledRect(screen, sx-w/2, sy-radius-8, w, 3, color.RGBA{A: 160}, false)
			vector.DrawFilledRect(screen, sx-w/2, sy-radius-8, w*float32(life.HealthFrac()), 3, healthColor, false)
		}

		ebitenutil.DebugPrintAt(screen, ent.Label(), int(sx)-6, int(sy)+int(radius)+2)
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	p := g.world.Player()
	y := 8
	line := func(s string) {
		ebitenutil.DebugPrintAt(screen, s, 8, y)
		y += 14
	}

	line(fmt.Sprintf("%s  tick %d  speed %gx", g.world.Mode().Summary(), g.world.Tick(), g.simSpeed))
	if p != nil {
		w := p.Weapon()
		state := ""
		if p.Sprinting() {
			state = " SPRINT"
		}
		if p.Sliding() {
			state = " SLIDE"
		}
		if w.Reloading() {
			state += " RELOADING"
		}
		line(fmt.Sprintf("hp %3.0f/%3.0f  stamina %3.0f  %s %d/%d%s",
			p.Health, p.MaxHealth, p.Stamina(), w.Spec.Name, w.Mag, w.Reserve, state))
	}
	for _, fe := range g.hud.Feed() {
		line(fe.Text)
	}
	if g.hud.HitMarkerActive() {
		vector.StrokeLine(screen, screenW/2-6, screenH/2-6, screenW/2+6, screenH/2+6, 2, tracerHitCol, false)
		vector.StrokeLine(screen, screenW/2-6, screenH/2+6, screenW/2+6, screenH/2-6, 2, tracerHitCol, false)
	}
	if g.toast != "" && time.Now().Before(g.toastUntil) {
		ebitenutil.DebugPrintAt(screen, g.toast, 8, screenH-20)
	}

	line("keys: 0-3 speed  F follow  P paths  C copy report  arrows pan  wheel zoom")
}

var whiteImage *ebiten.Image

// whiteSubImage returns the 1x1 white texture DrawTriangles needs.
func whiteSubImage() *ebiten.Image {
	if whiteImage == nil {
		whiteImage = ebiten.NewImage(3, 3)
		whiteImage.Fill(color.White)
	}
	return whiteImage.SubImage(whiteImage.Bounds().Inset(1)).(*ebiten.Image)
}

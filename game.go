package main

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/sirupsen/logrus"
	"golang.design/x/clipboard"
	"golang.org/x/image/colornames"

	"github.com/milk9111/skirmish/arena"
	"github.com/milk9111/skirmish/combat"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
	"github.com/milk9111/skirmish/ecs/system"
	"github.com/milk9111/skirmish/logger"
	"github.com/milk9111/skirmish/prefabs"
	"github.com/milk9111/skirmish/session"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	// recentEffects is how many of the latest effects are drawn.
	recentEffects = 24
)

type Game struct {
	frames int
	dt     float64

	arena   *arena.Arena
	input   *Input
	camera  *Camera
	pause   *pauseUI
	watcher *prefabs.Watcher

	paused      bool
	quit        bool
	showPhysics bool
	clipboardOK bool

	log *logrus.Entry
}

// NewGame wires a viewer around a loaded arena. watcher may be nil.
func NewGame(a *arena.Arena, tps int, debug bool, watcher *prefabs.Watcher) *Game {
	camera := NewCamera(baseWidth, baseHeight)
	camera.Frame(a.Bounds())
	input := NewInput(camera)
	a.SetInput(input)

	g := &Game{
		dt:          1 / float64(tps),
		arena:       a,
		input:       input,
		camera:      camera,
		watcher:     watcher,
		showPhysics: debug,
		log:         logger.For("viewer"),
	}
	g.pause = NewPauseUI(g)

	if err := clipboard.Init(); err != nil {
		g.log.WithError(err).Warn("clipboard unavailable")
	} else {
		g.clipboardOK = true
	}
	return g
}

func (g *Game) Update() error {
	g.frames++
	if g.quit {
		return ebiten.Termination
	}

	g.input.Update()
	if g.input.QuitPressed {
		return ebiten.Termination
	}
	g.drainWatcher()

	if g.input.DebugPressed {
		g.showPhysics = !g.showPhysics
	}
	if g.input.RestartPressed {
		g.restart()
	}
	if g.input.CopyPressed {
		g.copySummary()
	}
	ended := g.arena.Tracker.Ended()
	if g.input.PausePressed && !ended {
		g.paused = !g.paused
	}

	if g.paused || ended {
		g.pause.SetStatus(g.heading(), g.arena.Summary())
		g.pause.ui.Update()
		return nil
	}

	g.arena.Step(g.dt)
	return nil
}

// drainWatcher applies every pending prefab edit without blocking.
func (g *Game) drainWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case c, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			if err := g.arena.Reload(c); err != nil {
				g.log.WithError(err).WithField("file", c.Name).Warn("reload rejected")
			}
			g.camera.Frame(g.arena.Bounds())
		case err, ok := <-g.watcher.Errors:
			if ok {
				g.log.WithError(err).Warn("watcher")
			}
		default:
			return
		}
	}
}

func (g *Game) heading() string {
	switch g.arena.Tracker.Outcome() {
	case session.OutcomeVictory:
		return "VICTORY"
	case session.OutcomeDefeat:
		return "DEFEAT"
	}
	return "Paused"
}

func (g *Game) resume() {
	if g.arena.Tracker.Ended() {
		return
	}
	g.paused = false
}

func (g *Game) restart() {
	if err := g.arena.Restart(); err != nil {
		g.log.WithError(err).Error("restart failed")
		return
	}
	g.camera.Frame(g.arena.Bounds())
	g.paused = false
}

func (g *Game) copySummary() {
	if !g.clipboardOK {
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(g.arena.Summary()))
	g.log.Info("summary copied")
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 0x18, G: 0x1a, B: 0x20, A: 0xff})
	w := g.arena.World

	g.strokeBB(screen, g.arena.Bounds(), colornames.Dimgray)
	ecs.ForEach(w, component.ObstacleComponent.Kind(), func(_ ecs.Entity, o *component.Obstacle) {
		g.fillBB(screen, o.Bounds, colornames.Slategray)
	})

	for _, e := range g.arena.Agents() {
		g.drawAgent(screen, w, e)
	}
	g.drawPlayer(screen, w)

	ecs.ForEach2(w, component.ProjectileComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, p *component.Projectile, t *component.Transform) {
		x, y := g.camera.ToScreen(t.Position)
		vector.FillCircle(screen, x, y, max(g.camera.Scale(p.Radius), 2), colornames.Gold, true)
	})

	g.drawEffects(screen)

	if g.showPhysics {
		drawSpace(screen, g.arena.Physics.Space(), g.camera)
	}

	st := g.arena.Stats()
	ebitenutil.DebugPrint(screen, fmt.Sprintf("%s\nkills %d  dealt %.0f  taken %.0f\nFPS: %.1f  [P] pause  [R] restart  [F3] physics  [C] copy",
		g.arena.Summary(), st.Kills, st.DamageDealt, st.DamageTaken, ebiten.ActualFPS()))

	if g.paused || g.arena.Tracker.Ended() {
		g.pause.ui.Draw(screen)
	}
}

func stateColor(s component.BehaviorState) color.Color {
	switch s {
	case component.StateWander:
		return colornames.Khaki
	case component.StateChase:
		return colornames.Orange
	case component.StateAttack:
		return colornames.Crimson
	}
	return colornames.Lightgray
}

func bandColor(b combat.Band) color.Color {
	switch b {
	case combat.BandHealthy:
		return colornames.Limegreen
	case combat.BandWounded:
		return colornames.Gold
	}
	return colornames.Red
}

func (g *Game) drawAgent(screen *ebiten.Image, w *ecs.World, e ecs.Entity) {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return
	}
	radius := 0.5
	if c, ok := ecs.Get(w, e, component.ColliderComponent.Kind()); ok {
		radius = c.Radius
	}
	h, _ := ecs.Get(w, e, component.HealthComponent.Kind())
	x, y := g.camera.ToScreen(t.Position)
	r := g.camera.Scale(radius)

	if h != nil && h.Dead {
		vector.StrokeCircle(screen, x, y, r, 1, colornames.Dimgray, true)
		return
	}

	var fill color.Color = colornames.Lightgray
	if brain, ok := ecs.Get(w, e, component.BrainComponent.Kind()); ok {
		fill = stateColor(brain.State)
	}
	vector.FillCircle(screen, x, y, r, fill, true)

	// view cone
	if a, ok := ecs.Get(w, e, component.AgentComponent.Kind()); ok && a.SightRange > 0 {
		half := a.FOV / 2 * math.Pi / 180
		for _, side := range []float64{-half, half} {
			edge := t.Position.Add(cp.ForAngle(t.Facing + side).Mult(a.SightRange))
			ex, ey := g.camera.ToScreen(edge)
			vector.StrokeLine(screen, x, y, ex, ey, 1, color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0x60}, true)
		}
	}
	fx, fy := g.camera.ToScreen(t.Position.Add(t.Forward().Mult(radius)))
	vector.StrokeLine(screen, x, y, fx, fy, 2, colornames.Black, true)

	if h != nil {
		g.healthBar(screen, x, y-r-6, 2*r, h)
	}
}

func (g *Game) drawPlayer(screen *ebiten.Image, w *ecs.World) {
	p := g.arena.Player()
	t, ok := ecs.Get(w, p, component.TransformComponent.Kind())
	if !ok {
		return
	}
	radius := 0.5
	if c, ok := ecs.Get(w, p, component.ColliderComponent.Kind()); ok {
		radius = c.Radius
	}
	x, y := g.camera.ToScreen(t.Position)
	r := g.camera.Scale(radius)
	vector.FillCircle(screen, x, y, r, colornames.Deepskyblue, true)

	ax, ay := g.camera.ToScreen(g.input.AimPoint())
	vector.StrokeLine(screen, x, y, ax, ay, 1, color.RGBA{R: 0x00, G: 0xbf, B: 0xff, A: 0x50}, true)
	vector.StrokeCircle(screen, ax, ay, 5, 1, colornames.White, true)

	if h, ok := ecs.Get(w, p, component.HealthComponent.Kind()); ok {
		g.healthBar(screen, x, y-r-6, 2*r, h)
	}
}

func (g *Game) healthBar(screen *ebiten.Image, cx, top, width float32, h *combat.Health) {
	width = max(width, 16)
	left := cx - width/2
	vector.FillRect(screen, left, top, width, 3, colornames.Black, false)
	vector.FillRect(screen, left, top, width*float32(h.Ratio()), 3, bandColor(h.Band()), false)
}

func (g *Game) drawEffects(screen *ebiten.Image) {
	effects := g.arena.Effects.Recent()
	if len(effects) > recentEffects {
		effects = effects[len(effects)-recentEffects:]
	}
	for i, fx := range effects {
		alpha := uint8(255 * (i + 1) / len(effects))
		x, y := g.camera.ToScreen(fx.Pos)
		switch fx.Kind {
		case system.EffectHit:
			vector.StrokeCircle(screen, x, y, 4, 1, color.RGBA{R: 0xff, G: 0x40, B: 0x40, A: alpha}, true)
		case system.EffectDeath:
			vector.StrokeCircle(screen, x, y, 10, 2, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: alpha}, true)
		default:
			vector.FillCircle(screen, x, y, 2, color.RGBA{R: 0xff, G: 0xd7, B: 0x00, A: alpha}, true)
		}
	}
}

func (g *Game) strokeBB(screen *ebiten.Image, bb cp.BB, c color.Color) {
	x, y := g.camera.ToScreen(cp.Vector{X: bb.L, Y: bb.T})
	vector.StrokeRect(screen, x, y, g.camera.Scale(bb.R-bb.L), g.camera.Scale(bb.T-bb.B), 1, c, false)
}

func (g *Game) fillBB(screen *ebiten.Image, bb cp.BB, c color.Color) {
	x, y := g.camera.ToScreen(cp.Vector{X: bb.L, Y: bb.T})
	vector.FillRect(screen, x, y, g.camera.Scale(bb.R-bb.L), g.camera.Scale(bb.T-bb.B), c, false)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"

	"github.com/milk9111/skirmish/ecs/system"
)

// Input polls keyboard, mouse and the first gamepad once per frame and
// serves the result to the simulation as its input provider.
type Input struct {
	move        cp.Vector
	aim         cp.Vector
	firePressed bool
	fireHeld    bool

	// Viewer commands, true on the frame the key went down.
	PausePressed   bool
	RestartPressed bool
	DebugPressed   bool
	CopyPressed    bool
	QuitPressed    bool

	camera *Camera
}

var _ system.InputProvider = (*Input)(nil)

func NewInput(camera *Camera) *Input {
	return &Input{camera: camera}
}

func (i *Input) Update() {
	i.QuitPressed = inpututil.IsKeyJustPressed(ebiten.KeyF12)
	i.PausePressed = inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyP)
	i.RestartPressed = inpututil.IsKeyJustPressed(ebiten.KeyR)
	i.DebugPressed = inpututil.IsKeyJustPressed(ebiten.KeyF3)
	i.CopyPressed = inpututil.IsKeyJustPressed(ebiten.KeyC)

	mx, my := ebiten.CursorPosition()
	i.aim = i.camera.ToWorld(mx, my)

	var move cp.Vector
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyLeft) {
		move.X--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyRight) {
		move.X++
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyUp) {
		move.Y++
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyDown) {
		move.Y--
	}

	i.firePressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	i.fireHeld = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)

	// Gamepad: left stick moves, right stick aims around the player's aim
	// point, right trigger fires.
	if ids := ebiten.AppendGamepadIDs(nil); len(ids) > 0 {
		gid := ids[0]
		lx := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickHorizontal)
		ly := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickVertical)
		if lx*lx+ly*ly > 0.09 {
			move = cp.Vector{X: lx, Y: -ly}
		}
		rx := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisRightStickHorizontal)
		ry := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisRightStickVertical)
		if rx*rx+ry*ry > 0.01 {
			i.aim = i.aim.Add(cp.Vector{X: rx, Y: -ry}.Mult(5))
		}
		if inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonFrontBottomRight) {
			i.firePressed = true
		}
		if ebiten.IsStandardGamepadButtonPressed(gid, ebiten.StandardGamepadButtonFrontBottomRight) {
			i.fireHeld = true
		}
		if inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonCenterRight) {
			i.PausePressed = true
		}
	}
	i.move = move
}

func (i *Input) IsFirePressed() bool { return i.firePressed }
func (i *Input) IsFireHeld() bool    { return i.fireHeld }
func (i *Input) MoveAxis() cp.Vector { return i.move }
func (i *Input) AimPoint() cp.Vector { return i.aim }

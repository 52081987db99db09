package game

import (
	"math"

	"starduel/internal/physics"
)

// Key is a game control.
type Key int

const (
	KeyNone Key = iota
	KeyLeft
	KeyRight
	KeyThrust
)

// InputState is the set of controls currently held by the local player.
type InputState struct {
	Left   bool
	Right  bool
	Thrust bool

	lastTurn Key
}

// Apply records a key press or release. When both turn keys are held the
// one pressed last wins.
func (in *InputState) Apply(ev KeyEvent) {
	switch ev.Key {
	case KeyLeft:
		in.Left = ev.Down
	case KeyRight:
		in.Right = ev.Down
	case KeyThrust:
		in.Thrust = ev.Down
		return
	default:
		return
	}
	if ev.Down {
		in.lastTurn = ev.Key
	}
}

// Turn returns -1 for left, +1 for right and 0 when not turning.
func (in InputState) Turn() int {
	switch {
	case in.Left && in.Right:
		if in.lastTurn == KeyRight {
			return 1
		}
		return -1
	case in.Left:
		return -1
	case in.Right:
		return 1
	}
	return 0
}

// newShipDef places the ship at the arena centre with no damping.
func newShipDef(t Tuning) physics.BodyDef {
	return physics.BodyDef{
		Position: physics.Vec2{X: math.Round(t.Width / 2), Y: math.Round(t.Height / 2)},
		Shape:    physics.ShapeRect,
		Width:    ShipWidth,
		Height:   ShipHeight,
		Mass:     ShipMass,
	}
}

// Heading returns the unit vector the ship's nose points at for a body
// angle. At angle 0 the nose points up the screen (negative y).
func Heading(angle float64) physics.Vec2 {
	a := angle + math.Pi/2
	return physics.Vec2{X: -math.Cos(a), Y: -math.Sin(a)}
}

// ApplyInput translates held controls into the ship's angular velocity and
// thrust for the coming step. Speed is never clamped.
func ApplyInput(world *physics.World, ship physics.BodyID, in InputState, t Tuning) {
	world.SetAngularVelocity(ship, float64(in.Turn())*t.TurnSpeed)

	if in.Thrust {
		angle, ok := world.Angle(ship)
		if !ok {
			return
		}
		world.ApplyForce(ship, Heading(angle).Scale(t.Speed))
	}
}

// wrapPosition teleports a point leaving the arena to the opposite edge.
func wrapPosition(p physics.Vec2, width, height float64) (physics.Vec2, bool) {
	wrapped := false
	if p.X > width {
		p.X = 0
		wrapped = true
	} else if p.X < 0 {
		p.X = width
		wrapped = true
	}
	if p.Y > height {
		p.Y = 0
		wrapped = true
	} else if p.Y < 0 {
		p.Y = height
		wrapped = true
	}
	return p, wrapped
}

// wrapShip keeps the ship inside the arena by wrapping it around.
func (s *Session) wrapShip() {
	p, ok := s.world.Position(s.ship)
	if !ok {
		return
	}
	if np, wrapped := wrapPosition(p, s.tuning.Width, s.tuning.Height); wrapped {
		s.world.SetPosition(s.ship, np)
	}
}

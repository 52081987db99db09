package physics

import (
	"github.com/ByteArena/box2d"
)

// UnitsPerMeter converts arena units to box2d metres. A power of two keeps
// the conversion exact in both directions.
const UnitsPerMeter = 64.0

// Solver iteration counts passed to box2d on every step.
const (
	VelocityIterations = 8
	PositionIterations = 3
)

// World owns every rigid body of a session and advances them together.
// It is not safe for concurrent use.
type World struct {
	b2       *box2d.B2World
	bodies   map[BodyID]*box2d.B2Body
	nextID   BodyID
	listener *contactListener

	stepping bool
	deferred map[BodyID]*box2d.B2Body
}

// NewWorld creates an empty zero-gravity world.
func NewWorld() *World {
	b2 := box2d.MakeB2World(box2d.MakeB2Vec2(0, 0))
	w := &World{
		b2:       &b2,
		bodies:   make(map[BodyID]*box2d.B2Body),
		nextID:   1,
		deferred: make(map[BodyID]*box2d.B2Body),
	}
	w.listener = &contactListener{world: w}
	w.b2.SetContactListener(w.listener)
	w.b2.SetContactFilter(&contactFilter{world: w})
	return w
}

// AddBody registers a new body and returns its id. Malformed definitions
// panic.
func (w *World) AddBody(def BodyDef) BodyID {
	def.validate()

	id := w.nextID
	w.nextID++

	bodydef := box2d.MakeB2BodyDef()
	bodydef.Type = box2d.B2BodyType.B2_dynamicBody
	bodydef.AllowSleep = false
	bodydef.Position = toMeters(def.Position)
	bodydef.LinearVelocity = toMeters(def.Velocity)
	bodydef.Angle = def.Angle
	bodydef.AngularVelocity = def.AngularVelocity
	bodydef.LinearDamping = def.LinearDamping
	bodydef.AngularDamping = def.AngularDamping

	body := w.b2.CreateBody(&bodydef)

	// Density is chosen so the fixture mass equals the requested mass.
	areaMeters := def.area() / (UnitsPerMeter * UnitsPerMeter)

	fixturedef := box2d.MakeB2FixtureDef()
	fixturedef.Density = def.Mass / areaMeters
	fixturedef.IsSensor = def.Sensor
	fixturedef.Friction = 0
	fixturedef.Restitution = 0

	switch def.Shape {
	case ShapeCircle:
		shape := box2d.MakeB2CircleShape()
		shape.SetRadius(def.Radius / UnitsPerMeter)
		fixturedef.Shape = &shape
		body.CreateFixtureFromDef(&fixturedef)
	default:
		shape := box2d.MakeB2PolygonShape()
		shape.SetAsBox(def.Width/2/UnitsPerMeter, def.Height/2/UnitsPerMeter)
		fixturedef.Shape = &shape
		body.CreateFixtureFromDef(&fixturedef)
	}

	body.SetUserData(id)
	w.bodies[id] = body
	return id
}

// RemoveBody deregisters a body. It reports false for ids that are unknown
// or already removed. Removal requested during a step takes effect once
// the step has finished; the body stops reporting contacts immediately.
func (w *World) RemoveBody(id BodyID) bool {
	body, ok := w.bodies[id]
	if !ok {
		return false
	}
	delete(w.bodies, id)

	if w.stepping {
		w.deferred[id] = body
		return true
	}
	w.b2.DestroyBody(body)
	return true
}

// Step advances the simulation by dt seconds and returns the pairs that
// began touching. Forces accumulated since the last step are consumed.
func (w *World) Step(dt float64) []Contact {
	w.stepping = true
	w.b2.Step(dt, VelocityIterations, PositionIterations)
	w.stepping = false

	for id, body := range w.deferred {
		w.b2.DestroyBody(body)
		delete(w.deferred, id)
	}
	return w.listener.pop()
}

// Has reports whether id is a live body.
func (w *World) Has(id BodyID) bool {
	_, ok := w.bodies[id]
	return ok
}

// Len returns the number of live bodies.
func (w *World) Len() int {
	return len(w.bodies)
}

// Position returns the body's centre in arena units.
func (w *World) Position(id BodyID) (Vec2, bool) {
	body, ok := w.bodies[id]
	if !ok {
		return Vec2{}, false
	}
	return fromMeters(body.GetPosition()), true
}

// SetPosition teleports the body, keeping its angle and velocities.
func (w *World) SetPosition(id BodyID, p Vec2) bool {
	body, ok := w.bodies[id]
	if !ok {
		return false
	}
	body.SetTransform(toMeters(p), body.GetAngle())
	return true
}

// Velocity returns the linear velocity in arena units per second.
func (w *World) Velocity(id BodyID) (Vec2, bool) {
	body, ok := w.bodies[id]
	if !ok {
		return Vec2{}, false
	}
	return fromMeters(body.GetLinearVelocity()), true
}

// SetVelocity overwrites the linear velocity (arena units per second).
func (w *World) SetVelocity(id BodyID, v Vec2) bool {
	body, ok := w.bodies[id]
	if !ok {
		return false
	}
	body.SetLinearVelocity(toMeters(v))
	return true
}

// Angle returns the body's rotation in radians.
func (w *World) Angle(id BodyID) (float64, bool) {
	body, ok := w.bodies[id]
	if !ok {
		return 0, false
	}
	return body.GetAngle(), true
}

// AngularVelocity returns the body's angular velocity in radians per second.
func (w *World) AngularVelocity(id BodyID) (float64, bool) {
	body, ok := w.bodies[id]
	if !ok {
		return 0, false
	}
	return body.GetAngularVelocity(), true
}

// SetAngularVelocity overwrites the body's angular velocity.
func (w *World) SetAngularVelocity(id BodyID, omega float64) bool {
	body, ok := w.bodies[id]
	if !ok {
		return false
	}
	body.SetAngularVelocity(omega)
	return true
}

// ApplyForce adds f (arena units) to the force accumulated for the next
// step.
func (w *World) ApplyForce(id BodyID, f Vec2) bool {
	body, ok := w.bodies[id]
	if !ok {
		return false
	}
	body.ApplyForceToCenter(toMeters(f), true)
	return true
}

func toMeters(v Vec2) box2d.B2Vec2 {
	return box2d.MakeB2Vec2(v.X/UnitsPerMeter, v.Y/UnitsPerMeter)
}

func fromMeters(v box2d.B2Vec2) Vec2 {
	return Vec2{X: v.X * UnitsPerMeter, Y: v.Y * UnitsPerMeter}
}

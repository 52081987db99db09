package physics

import (
	"fmt"
	"math"
)

// BodyID identifies a body inside one World. IDs are never reused.
type BodyID uint32

// Vec2 is a 2D vector in arena units.
type Vec2 struct {
	X float64
	Y float64
}

// Add returns v+o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Scale returns v*s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Shape selects the collision geometry of a body.
type Shape int

const (
	ShapeRect Shape = iota
	ShapeCircle
)

func (s Shape) String() string {
	switch s {
	case ShapeRect:
		return "rect"
	case ShapeCircle:
		return "circle"
	}
	return fmt.Sprintf("shape(%d)", int(s))
}

// BodyDef describes a body to add to the World. Lengths are arena units,
// angles radians.
type BodyDef struct {
	Position        Vec2
	Velocity        Vec2
	Angle           float64
	AngularVelocity float64

	Shape  Shape
	Width  float64 // ShapeRect
	Height float64 // ShapeRect
	Radius float64 // ShapeCircle
	Sensor bool

	Mass           float64
	LinearDamping  float64
	AngularDamping float64
}

// area returns the shape area in square arena units.
func (d BodyDef) area() float64 {
	if d.Shape == ShapeCircle {
		return math.Pi * d.Radius * d.Radius
	}
	return d.Width * d.Height
}

// validate panics on malformed definitions; these are programmer errors.
func (d BodyDef) validate() {
	finite := func(name string, vs ...float64) {
		for _, v := range vs {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				panic(fmt.Sprintf("physics: %s is not finite: %v", name, v))
			}
		}
	}
	finite("position", d.Position.X, d.Position.Y)
	finite("velocity", d.Velocity.X, d.Velocity.Y)
	finite("angle", d.Angle, d.AngularVelocity)
	finite("damping", d.LinearDamping, d.AngularDamping)

	switch d.Shape {
	case ShapeRect:
		if d.Width <= 0 || d.Height <= 0 {
			panic(fmt.Sprintf("physics: rect needs a positive size, got %vx%v", d.Width, d.Height))
		}
	case ShapeCircle:
		if d.Radius <= 0 {
			panic(fmt.Sprintf("physics: circle needs a positive radius, got %v", d.Radius))
		}
	default:
		panic(fmt.Sprintf("physics: unknown %s", d.Shape))
	}
	if !(d.Mass > 0) {
		panic(fmt.Sprintf("physics: mass must be positive, got %v", d.Mass))
	}
	if d.LinearDamping < 0 || d.AngularDamping < 0 {
		panic("physics: damping must not be negative")
	}
}

// Contact is a pair of bodies that began touching during a step.
type Contact struct {
	A BodyID
	B BodyID
}

// Other returns the body paired with id, if id takes part in the contact.
func (c Contact) Other(id BodyID) (BodyID, bool) {
	switch id {
	case c.A:
		return c.B, true
	case c.B:
		return c.A, true
	}
	return 0, false
}

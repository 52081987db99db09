package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dt = 1.0 / 60

func shipDef(p Vec2) BodyDef {
	return BodyDef{Position: p, Shape: ShapeRect, Width: 52, Height: 69, Mass: 1}
}

func enemyDef(p, v Vec2) BodyDef {
	return BodyDef{Position: p, Velocity: v, Shape: ShapeCircle, Radius: 20, Sensor: true, Mass: 1}
}

func TestAddBodyAssignsUniqueIDs(t *testing.T) {
	w := NewWorld()
	a := w.AddBody(shipDef(Vec2{100, 100}))
	b := w.AddBody(enemyDef(Vec2{500, 500}, Vec2{}))
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, w.Len())

	p, ok := w.Position(a)
	require.True(t, ok)
	assert.InDelta(t, 100, p.X, 1e-9)
	assert.InDelta(t, 100, p.Y, 1e-9)
}

func TestAddBodyPanicsOnMalformedDef(t *testing.T) {
	w := NewWorld()
	assert.Panics(t, func() { w.AddBody(BodyDef{Shape: ShapeCircle, Radius: 0, Mass: 1}) })
	assert.Panics(t, func() { w.AddBody(BodyDef{Shape: ShapeRect, Width: 10, Height: 10, Mass: 0}) })
	assert.Panics(t, func() {
		w.AddBody(BodyDef{Shape: ShapeRect, Width: 10, Height: 10, Mass: 1, Position: Vec2{math.NaN(), 0}})
	})
	assert.Panics(t, func() { w.AddBody(BodyDef{Shape: Shape(9), Mass: 1}) })
	assert.Equal(t, 0, w.Len())
}

func TestStepIntegratesVelocity(t *testing.T) {
	w := NewWorld()
	id := w.AddBody(enemyDef(Vec2{500, 500}, Vec2{60, -120}))

	for i := 0; i < 60; i++ {
		w.Step(dt)
	}

	p, _ := w.Position(id)
	assert.InDelta(t, 560, p.X, 1e-6)
	assert.InDelta(t, 380, p.Y, 1e-6)
}

func TestForceIsConsumedByOneStep(t *testing.T) {
	w := NewWorld()
	id := w.AddBody(shipDef(Vec2{960, 540}))

	require.True(t, w.ApplyForce(id, Vec2{0, -300}))
	require.True(t, w.ApplyForce(id, Vec2{0, -200}))
	w.Step(dt)

	v, _ := w.Velocity(id)
	assert.InDelta(t, 0, v.X, 1e-9)
	assert.InDelta(t, -500*dt, v.Y, 1e-6, "forces accumulate additively on a unit mass")

	w.Step(dt)
	v2, _ := w.Velocity(id)
	assert.InDelta(t, v.Y, v2.Y, 1e-9, "no force is left over for the next step")
}

func TestAngularVelocityRotatesBody(t *testing.T) {
	w := NewWorld()
	id := w.AddBody(shipDef(Vec2{960, 540}))

	require.True(t, w.SetAngularVelocity(id, 3))
	w.Step(dt)

	omega, _ := w.AngularVelocity(id)
	angle, _ := w.Angle(id)
	assert.InDelta(t, 3, omega, 1e-9)
	assert.InDelta(t, 3*dt, angle, 1e-9)
}

func TestSensorContactIsReportedOnce(t *testing.T) {
	w := NewWorld()
	ship := w.AddBody(shipDef(Vec2{960, 540}))
	enemy := w.AddBody(enemyDef(Vec2{970, 545}, Vec2{}))

	contacts := w.Step(dt)
	require.Len(t, contacts, 1)
	other, ok := contacts[0].Other(ship)
	require.True(t, ok)
	assert.Equal(t, enemy, other)

	assert.Empty(t, w.Step(dt), "a persisting contact is not reported again")

	v, _ := w.Velocity(ship)
	assert.Zero(t, v.Len(), "sensor contacts do not change momentum")
}

func TestDistantBodiesDoNotTouch(t *testing.T) {
	w := NewWorld()
	w.AddBody(shipDef(Vec2{100, 100}))
	w.AddBody(enemyDef(Vec2{1000, 1000}, Vec2{}))
	assert.Empty(t, w.Step(dt))
}

func TestRemoveBody(t *testing.T) {
	w := NewWorld()
	id := w.AddBody(enemyDef(Vec2{10, 10}, Vec2{}))

	assert.True(t, w.RemoveBody(id))
	assert.False(t, w.Has(id))
	assert.False(t, w.RemoveBody(id), "second removal is a no-op")
	assert.False(t, w.RemoveBody(BodyID(999)))

	_, ok := w.Position(id)
	assert.False(t, ok)
	assert.False(t, w.ApplyForce(id, Vec2{1, 1}))
	assert.Empty(t, w.Step(dt))
}

func TestRemovedBodyDropsPendingContact(t *testing.T) {
	w := NewWorld()
	w.AddBody(shipDef(Vec2{960, 540}))
	enemy := w.AddBody(enemyDef(Vec2{960, 540}, Vec2{}))
	w.RemoveBody(enemy)

	assert.Empty(t, w.Step(dt))
}

func TestSetPositionTeleports(t *testing.T) {
	w := NewWorld()
	id := w.AddBody(shipDef(Vec2{1930, 540}))
	w.SetAngularVelocity(id, 0)

	require.True(t, w.SetPosition(id, Vec2{0, 540}))
	p, _ := w.Position(id)
	assert.Equal(t, 0.0, p.X)
	assert.Equal(t, 540.0, p.Y)
}

func TestContactOther(t *testing.T) {
	c := Contact{A: 1, B: 2}
	o, ok := c.Other(1)
	assert.True(t, ok)
	assert.Equal(t, BodyID(2), o)
	o, ok = c.Other(2)
	assert.True(t, ok)
	assert.Equal(t, BodyID(1), o)
	_, ok = c.Other(3)
	assert.False(t, ok)
}

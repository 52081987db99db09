package physics

import (
	"github.com/ByteArena/box2d"
)

type contactFilter struct { /* implements box2d.B2ContactFilterInterface */
	world *World
}

// ShouldCollide only lets live bodies of this world touch.
func (filter *contactFilter) ShouldCollide(fixtureA *box2d.B2Fixture, fixtureB *box2d.B2Fixture) bool {
	_, okA := filter.world.idOf(fixtureA)
	_, okB := filter.world.idOf(fixtureB)
	return okA && okB
}

type contactListener struct { /* implements box2d.B2ContactListenerInterface */
	world *World
	begun []Contact
}

// BeginContact is called by box2d when two fixtures begin to touch. The
// pair is resolved to ids right away; box2d reuses contact objects.
func (listener *contactListener) BeginContact(contact box2d.B2ContactInterface) { // contact has to be backed by a pointer
	a, okA := listener.world.idOf(contact.GetFixtureA())
	b, okB := listener.world.idOf(contact.GetFixtureB())
	if !okA || !okB {
		return
	}
	listener.begun = append(listener.begun, Contact{A: a, B: b})
}

func (listener *contactListener) EndContact(contact box2d.B2ContactInterface) {}

func (listener *contactListener) PreSolve(contact box2d.B2ContactInterface, oldManifold box2d.B2Manifold) {
}

func (listener *contactListener) PostSolve(contact box2d.B2ContactInterface, impulse *box2d.B2ContactImpulse) {
}

// pop returns the contacts begun during the last step and empties the
// buffer. Pairs with a body removed in the meantime are dropped.
func (listener *contactListener) pop() []Contact {
	if len(listener.begun) == 0 {
		return nil
	}
	contacts := make([]Contact, 0, len(listener.begun))
	for _, c := range listener.begun {
		if listener.world.Has(c.A) && listener.world.Has(c.B) {
			contacts = append(contacts, c)
		}
	}
	listener.begun = listener.begun[:0]
	return contacts
}

// idOf maps a fixture back to the id of its live body.
func (w *World) idOf(fixture *box2d.B2Fixture) (BodyID, bool) {
	if fixture == nil {
		return 0, false
	}
	body := fixture.GetBody()
	if body == nil {
		return 0, false
	}
	id, ok := body.GetUserData().(BodyID)
	if !ok || !w.Has(id) {
		return 0, false
	}
	return id, true
}

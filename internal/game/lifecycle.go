package game

import (
	"math"

	"starduel/internal/physics"
)

type removal struct {
	id    physics.BodyID
	sound bool
}

// Lifecycle spawns enemies and retires them when they leave the arena or
// hit the ship.
type Lifecycle struct {
	session *Session

	enemies []physics.BodyID // live enemies in spawn order
	queue   []removal
	marked  map[physics.BodyID]int // queue index by id, for this tick only
	spawned int
}

// NewLifecycle creates a lifecycle manager for a session.
func NewLifecycle(session *Session) *Lifecycle {
	return &Lifecycle{
		session: session,
		marked:  make(map[physics.BodyID]int),
	}
}

// Spawn creates one enemy at a random arena position with a random
// velocity and spin scaled by the ship speed.
func (l *Lifecycle) Spawn() physics.BodyID {
	s := l.session
	rng := s.rng
	t := s.tuning

	def := physics.BodyDef{
		Position: physics.Vec2{
			X: math.Round(rng.Float64() * t.Width),
			Y: math.Round(rng.Float64() * t.Height),
		},
		Velocity: physics.Vec2{
			X: (rng.Float64() - 0.5) * t.Speed,
			Y: (rng.Float64() - 0.5) * t.Speed,
		},
		AngularVelocity: (rng.Float64() - 0.5) * t.Speed,
		Shape:           physics.ShapeCircle,
		Radius:          EnemyRadius,
		Sensor:          true,
		Mass:            EnemyMass,
	}

	id := s.world.AddBody(def)
	l.enemies = append(l.enemies, id)
	l.spawned++
	s.renderer.AddHandle(Handle{ID: id, Kind: HandleEnemy, Player: s.player})
	s.renderer.UpdateHandle(id, def.Position, 0)
	return id
}

// Enqueue marks a body for removal at the end of the tick. Marking the
// same body twice keeps a single entry; a sound request is never lost.
func (l *Lifecycle) Enqueue(id physics.BodyID, sound bool) {
	if i, ok := l.marked[id]; ok {
		l.queue[i].sound = l.queue[i].sound || sound
		return
	}
	l.marked[id] = len(l.queue)
	l.queue = append(l.queue, removal{id: id, sound: sound})
}

// Pending returns the ids queued for removal, in order.
func (l *Lifecycle) Pending() []physics.BodyID {
	ids := make([]physics.BodyID, len(l.queue))
	for i, r := range l.queue {
		ids[i] = r.id
	}
	return ids
}

// CheckBounds queues every enemy outside [0,width]×[0,height]. Enemies do
// not wrap.
func (l *Lifecycle) CheckBounds() {
	t := l.session.tuning
	for _, id := range l.enemies {
		p, ok := l.session.world.Position(id)
		if !ok {
			continue
		}
		if p.X < 0 || p.Y < 0 || p.X > t.Width || p.Y > t.Height {
			l.Enqueue(id, false)
		}
	}
}

// HandleContacts scores every live enemy touching the ship. An enemy
// scores at most once; contacts that do not involve the ship are ignored.
// It returns the number of points awarded.
func (l *Lifecycle) HandleContacts(contacts []physics.Contact) int {
	awarded := 0
	for _, c := range contacts {
		other, ok := c.Other(l.session.ship)
		if !ok {
			continue
		}
		if _, found := indexOf(l.enemies, other); !found {
			continue
		}
		if i, queued := l.marked[other]; queued && l.queue[i].sound {
			continue
		}
		l.Enqueue(other, true)
		l.session.awardPoint()
		awarded++
	}
	return awarded
}

// Flush removes every queued body from the world, the renderer and the
// enemy registry. Stale entries are skipped. The queue is always emptied.
func (l *Lifecycle) Flush() int {
	s := l.session
	removed := 0
	for _, r := range l.queue {
		i, found := indexOf(l.enemies, r.id)
		if !found {
			continue
		}
		s.world.RemoveBody(r.id)
		s.renderer.RemoveHandle(r.id)
		l.enemies = append(l.enemies[:i], l.enemies[i+1:]...)
		removed++

		if r.sound {
			s.sound.Play(boomEffects[s.rng.Intn(len(boomEffects))])
		}
	}

	l.queue = l.queue[:0]
	clear(l.marked)
	return removed
}

// Enemies returns the live enemy ids in spawn order.
func (l *Lifecycle) Enemies() []physics.BodyID {
	return append([]physics.BodyID(nil), l.enemies...)
}

// Spawned returns how many enemies have been spawned so far.
func (l *Lifecycle) Spawned() int {
	return l.spawned
}

// indexOf finds id in ids. The found flag is separate from the index so
// that position 0 is a hit like any other.
func indexOf(ids []physics.BodyID, id physics.BodyID) (int, bool) {
	for i, v := range ids {
		if v == id {
			return i, true
		}
	}
	return -1, false
}

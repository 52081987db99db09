package game

import (
	"math/rand"

	"starduel/internal/physics"
	"starduel/internal/protocol"
)

type fakeRenderer struct {
	handles map[physics.BodyID]Handle
	pos     map[physics.BodyID]physics.Vec2
	removed []physics.BodyID
	scores  [PlayerCount]int
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{
		handles: make(map[physics.BodyID]Handle),
		pos:     make(map[physics.BodyID]physics.Vec2),
	}
}

func (r *fakeRenderer) AddHandle(h Handle) { r.handles[h.ID] = h }

func (r *fakeRenderer) RemoveHandle(id physics.BodyID) {
	delete(r.handles, id)
	r.removed = append(r.removed, id)
}

func (r *fakeRenderer) UpdateHandle(id physics.BodyID, pos physics.Vec2, rotation float64) {
	r.pos[id] = pos
}

func (r *fakeRenderer) SetScore(slot, score int) { r.scores[slot] = score }

type fakeSound struct {
	played []string
}

func (s *fakeSound) Play(effect string) { s.played = append(s.played, effect) }

type fakeSender struct {
	sent []protocol.ScoreUpdate
}

func (s *fakeSender) Emit(u protocol.ScoreUpdate) { s.sent = append(s.sent, u) }

type fixture struct {
	session  *Session
	renderer *fakeRenderer
	sound    *fakeSound
	sender   *fakeSender
}

func newFixture(player int) *fixture {
	f := &fixture{
		renderer: newFakeRenderer(),
		sound:    &fakeSound{},
		sender:   &fakeSender{},
	}
	f.session = NewSession(SessionOptions{
		Tuning:   DefaultTuning(),
		Player:   player,
		Renderer: f.renderer,
		Sound:    f.sound,
		Sender:   f.sender,
		Rand:     rand.New(rand.NewSource(42)),
	})
	return f
}

// placeEnemy spawns an enemy and pins it at p with the given velocity.
func (f *fixture) placeEnemy(p, v physics.Vec2) physics.BodyID {
	id := f.session.SpawnEnemy()
	f.session.World().SetPosition(id, p)
	f.session.World().SetVelocity(id, v)
	f.session.World().SetAngularVelocity(id, 0)
	return id
}

func (f *fixture) shipPosition() physics.Vec2 {
	p, _ := f.session.World().Position(f.session.Ship())
	return p
}

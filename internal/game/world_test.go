package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"starduel/internal/physics"
	"starduel/internal/protocol"
)

func TestNewSessionPlacesShipAtCentre(t *testing.T) {
	f := newFixture(1)

	assert.Equal(t, physics.Vec2{X: ArenaWidth / 2, Y: ArenaHeight / 2}, f.shipPosition())
	h, ok := f.renderer.handles[f.session.Ship()]
	assert.True(t, ok)
	assert.Equal(t, Handle{ID: f.session.Ship(), Kind: HandleShip, Player: 1}, h)
	assert.Equal(t, 1, f.session.World().Len())
	assert.Equal(t, ScoreState{}, f.session.Scores())
}

func TestNewSessionRejectsBadSlot(t *testing.T) {
	assert.Panics(t, func() { NewSession(SessionOptions{Player: 2}) })
	assert.Panics(t, func() { NewSession(SessionOptions{Player: -1}) })
}

func TestNewSessionDefaults(t *testing.T) {
	s := NewSession(SessionOptions{})
	assert.Equal(t, DefaultTuning(), s.Tuning())
	s.Tick()
	assert.Equal(t, uint64(1), s.Ticks())
}

func TestDispatch(t *testing.T) {
	f := newFixture(0)

	f.session.Dispatch(KeyEvent{Key: KeyLeft, Down: true})
	assert.True(t, f.session.Input().Left)

	f.session.Dispatch(SpawnEvent{})
	assert.Len(t, f.session.Lifecycle().Enemies(), 1)

	f.session.Dispatch(RemoteScoreEvent{Update: protocol.ScoreUpdate{Player: 1, Score: 2}})
	assert.Equal(t, ScoreState{0, 2}, f.session.Scores())

	f.session.Dispatch(FrameEvent{})
	assert.Equal(t, uint64(1), f.session.Ticks())
}

func TestTickSyncsRenderer(t *testing.T) {
	f := newFixture(0)
	id := f.placeEnemy(physics.Vec2{X: 100, Y: 100}, physics.Vec2{X: 60})

	f.session.Tick()

	p, _ := f.session.World().Position(id)
	assert.Equal(t, p, f.renderer.pos[id])
	assert.InDelta(t, 101, p.X, 1e-6)
}

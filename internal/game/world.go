package game

import (
	"log"
	"math/rand"
	"time"

	"starduel/internal/physics"
)

// SessionOptions wires a session to its collaborators. Nil collaborators
// are replaced by no-op implementations.
type SessionOptions struct {
	Tuning   Tuning
	Player   int
	Renderer Renderer
	Sound    Sound
	Sender   ScoreSender
	Rand     *rand.Rand
}

// Session is the complete state of one local game: the physics world,
// the ship, the enemies, held controls and both scores. A Session is
// driven from a single goroutine and is not safe for concurrent use.
type Session struct {
	tuning Tuning
	player int

	world *physics.World
	ship  physics.BodyID
	life  *Lifecycle

	input  InputState
	scores ScoreState
	ticks  uint64

	renderer Renderer
	sound    Sound
	sender   ScoreSender
	rng      *rand.Rand
}

// NewSession builds the world and places the local ship.
func NewSession(opts SessionOptions) *Session {
	if opts.Player < 0 || opts.Player >= PlayerCount {
		panic("game: player slot out of range")
	}
	if opts.Tuning == (Tuning{}) {
		opts.Tuning = DefaultTuning()
	}
	if opts.Renderer == nil {
		opts.Renderer = NopRenderer{}
	}
	if opts.Sound == nil {
		opts.Sound = NopSound{}
	}
	if opts.Sender == nil {
		opts.Sender = NopSender{}
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s := &Session{
		tuning:   opts.Tuning,
		player:   opts.Player,
		world:    physics.NewWorld(),
		renderer: opts.Renderer,
		sound:    opts.Sound,
		sender:   opts.Sender,
		rng:      opts.Rand,
	}
	s.life = NewLifecycle(s)

	def := newShipDef(s.tuning)
	s.ship = s.world.AddBody(def)
	s.renderer.AddHandle(Handle{ID: s.ship, Kind: HandleShip, Player: s.player})
	s.renderer.UpdateHandle(s.ship, def.Position, def.Angle)
	for slot := range s.scores {
		s.renderer.SetScore(slot, s.scores[slot])
	}

	log.Printf("Session started for player %d in a %vx%v arena", s.player, s.tuning.Width, s.tuning.Height)
	return s
}

// Tick runs one simulation iteration: controls, fixed physics step,
// contacts and bounds, removals, ship wrap, presentation sync.
func (s *Session) Tick() {
	s.ticks++

	ApplyInput(s.world, s.ship, s.input, s.tuning)

	contacts := s.world.Step(FixedStep)

	s.life.HandleContacts(contacts)
	s.life.CheckBounds()
	s.life.Flush()

	s.wrapShip()

	s.syncPresentation()
}

// syncPresentation pushes body transforms to the renderer.
func (s *Session) syncPresentation() {
	if p, ok := s.world.Position(s.ship); ok {
		angle, _ := s.world.Angle(s.ship)
		s.renderer.UpdateHandle(s.ship, p, angle)
	}
	for _, id := range s.life.enemies {
		p, ok := s.world.Position(id)
		if !ok {
			continue
		}
		angle, _ := s.world.Angle(id)
		s.renderer.UpdateHandle(id, p, angle)
	}
}

// HandleKey updates the held controls.
func (s *Session) HandleKey(ev KeyEvent) {
	s.input.Apply(ev)
}

// SpawnEnemy adds one enemy to the arena.
func (s *Session) SpawnEnemy() physics.BodyID {
	return s.life.Spawn()
}

// Player returns the local player slot.
func (s *Session) Player() int { return s.player }

// Ship returns the id of the local ship body.
func (s *Session) Ship() physics.BodyID { return s.ship }

// World exposes the physics world.
func (s *Session) World() *physics.World { return s.world }

// Lifecycle exposes the enemy lifecycle manager.
func (s *Session) Lifecycle() *Lifecycle { return s.life }

// Input returns the held controls.
func (s *Session) Input() InputState { return s.input }

// Scores returns a copy of both scores.
func (s *Session) Scores() ScoreState { return s.scores }

// Ticks returns the number of ticks run.
func (s *Session) Ticks() uint64 { return s.ticks }

// Tuning returns the session parameters.
func (s *Session) Tuning() Tuning { return s.tuning }

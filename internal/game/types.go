package game

import (
	"time"

	"starduel/internal/physics"
	"starduel/internal/protocol"
)

// Tuning holds the per-session gameplay parameters.
type Tuning struct {
	Width         float64
	Height        float64
	Speed         float64
	TurnSpeed     float64
	SpawnInterval time.Duration
	FrameInterval time.Duration
}

// DefaultTuning returns the original arena size and ship handling.
func DefaultTuning() Tuning {
	return Tuning{
		Width:         ArenaWidth,
		Height:        ArenaHeight,
		Speed:         ShipSpeed,
		TurnSpeed:     ShipTurnSpeed,
		SpawnInterval: EnemySpawnInterval,
		FrameInterval: FrameInterval,
	}
}

// HandleKind tells the renderer what a presentation handle depicts.
type HandleKind int

const (
	HandleShip HandleKind = iota
	HandleEnemy
)

// Handle is the presentation counterpart of a physics body. It shares the
// body's id.
type Handle struct {
	ID     physics.BodyID
	Kind   HandleKind
	Player int
}

// Renderer draws handles and score text. Implementations must not call
// back into the session.
type Renderer interface {
	AddHandle(h Handle)
	RemoveHandle(id physics.BodyID)
	UpdateHandle(id physics.BodyID, pos physics.Vec2, rotation float64)
	SetScore(slot, score int)
}

// Sound plays a named effect.
type Sound interface {
	Play(effect string)
}

// ScoreSender publishes local score changes. Emit must not block.
type ScoreSender interface {
	Emit(u protocol.ScoreUpdate)
}

// NopRenderer discards everything.
type NopRenderer struct{}

func (NopRenderer) AddHandle(Handle)                                   {}
func (NopRenderer) RemoveHandle(physics.BodyID)                        {}
func (NopRenderer) UpdateHandle(physics.BodyID, physics.Vec2, float64) {}
func (NopRenderer) SetScore(int, int)                                  {}

// NopSound is a silent Sound.
type NopSound struct{}

func (NopSound) Play(string) {}

// NopSender drops score updates; used when playing offline.
type NopSender struct{}

func (NopSender) Emit(protocol.ScoreUpdate) {}

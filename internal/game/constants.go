package game

import "time"

// Arena constants
const (
	ArenaWidth  = 1920.0
	ArenaHeight = 1080.0
	TickRate    = 60 // Simulation steps per second
	PlayerCount = 2
)

// FixedStep is the simulated time advanced by every tick, regardless of
// how much wall-clock time passed since the previous frame.
const FixedStep = 1.0 / TickRate

// Ship constants
const (
	ShipSpeed     = 500.0 // Thrust force; also scales enemy velocities
	ShipTurnSpeed = 3.0   // Radians per second while a turn key is held
	ShipWidth     = 52.0
	ShipHeight    = 69.0
	ShipMass      = 1.0
)

// Enemy constants
const (
	EnemyRadius        = 20.0
	EnemyMass          = 1.0
	EnemySpawnInterval = 1000 * time.Millisecond
)

// Frame cadence of the loop driver.
const FrameInterval = time.Second / TickRate

// Sound effects played on removal of a collided enemy.
const (
	EffectBoom1 = "boom1"
	EffectBoom2 = "boom2"
	EffectBoom3 = "boom3"
)

var boomEffects = []string{EffectBoom1, EffectBoom2, EffectBoom3}

package game

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// State of the loop driver.
type State int32

const (
	StateStopped State = iota
	StateRunning
)

func (s State) String() string {
	if s == StateRunning {
		return "running"
	}
	return "stopped"
}

// DriverOptions configures a Driver. Zero intervals fall back to the
// session tuning.
type DriverOptions struct {
	FrameInterval time.Duration
	SpawnInterval time.Duration

	// Inbox delivers key and network events. A closed inbox is ignored
	// from then on.
	Inbox <-chan Event

	// AfterFrame runs after every tick, on the loop goroutine.
	AfterFrame func(*Session)
}

// Driver runs a session: a frame ticker drives ticks, a spawn ticker adds
// enemies, and inbox events are applied in between. Everything happens on
// the goroutine calling Run, so the session never sees concurrent access.
type Driver struct {
	session *Session
	opts    DriverOptions

	state    atomic.Int32
	stop     chan struct{}
	stopOnce sync.Once
}

// NewDriver creates a stopped driver for session.
func NewDriver(session *Session, opts DriverOptions) *Driver {
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = session.tuning.FrameInterval
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = FrameInterval
	}
	if opts.SpawnInterval <= 0 {
		opts.SpawnInterval = session.tuning.SpawnInterval
	}
	if opts.SpawnInterval <= 0 {
		opts.SpawnInterval = EnemySpawnInterval
	}
	return &Driver{
		session: session,
		opts:    opts,
		stop:    make(chan struct{}),
	}
}

// Run enters the running state and blocks until ctx is done or Stop is
// called. Both tickers are cancelled before it returns.
func (d *Driver) Run(ctx context.Context) error {
	select {
	case <-d.stop:
		return nil
	default:
	}

	frameTicker := time.NewTicker(d.opts.FrameInterval)
	defer frameTicker.Stop()
	spawnTicker := time.NewTicker(d.opts.SpawnInterval)
	defer spawnTicker.Stop()

	d.state.Store(int32(StateRunning))
	defer d.state.Store(int32(StateStopped))

	log.Printf("Game loop started (frame %v, spawn every %v)", d.opts.FrameInterval, d.opts.SpawnInterval)

	inbox := d.opts.Inbox
	for {
		select {
		case <-ctx.Done():
			log.Println("Game loop stopped")
			return ctx.Err()

		case <-d.stop:
			log.Println("Game loop stopped")
			return nil

		case <-frameTicker.C:
			d.session.Dispatch(FrameEvent{})
			if d.opts.AfterFrame != nil {
				d.opts.AfterFrame(d.session)
			}

		case <-spawnTicker.C:
			d.session.Dispatch(SpawnEvent{})

		case ev, ok := <-inbox:
			if !ok {
				inbox = nil
				continue
			}
			d.session.Dispatch(ev)
		}
	}
}

// Stop ends Run. It is safe to call more than once and from any goroutine.
func (d *Driver) Stop() {
	d.stopOnce.Do(func() { close(d.stop) })
}

// State reports whether the loop is running.
func (d *Driver) State() State {
	return State(d.state.Load())
}

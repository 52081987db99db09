package game

import "starduel/internal/protocol"

// Event is anything the loop driver dispatches to a session.
type Event interface {
	event()
}

// KeyEvent is a control being pressed or released.
type KeyEvent struct {
	Key  Key
	Down bool
}

// RemoteScoreEvent carries a score update received from the relay.
type RemoteScoreEvent struct {
	Update protocol.ScoreUpdate
}

// SpawnEvent fires on every enemy spawn interval.
type SpawnEvent struct{}

// FrameEvent fires once per frame and runs a tick.
type FrameEvent struct{}

func (KeyEvent) event()         {}
func (RemoteScoreEvent) event() {}
func (SpawnEvent) event()       {}
func (FrameEvent) event()       {}

// Dispatch applies one event to the session.
func (s *Session) Dispatch(ev Event) {
	switch e := ev.(type) {
	case KeyEvent:
		s.HandleKey(e)
	case RemoteScoreEvent:
		s.ApplyRemoteScore(e.Update)
	case SpawnEvent:
		s.SpawnEnemy()
	case FrameEvent:
		s.Tick()
	}
}

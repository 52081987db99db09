package term

import (
	"context"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"starduel/internal/game"
)

// HoldWindow is how long a control stays down after its last key press.
// Terminals report presses and repeats but never releases.
const HoldWindow = 150 * time.Millisecond

// EventSource is the part of tcell.Screen the keyboard reads from.
type EventSource interface {
	PollEvent() tcell.Event
}

type heldKey struct {
	timer *time.Timer
}

// Keyboard turns terminal key presses into held controls. A control is
// released when no repeat arrives within the hold window.
type Keyboard struct {
	source EventSource
	events chan game.Event
	quit   chan struct{}
	hold   time.Duration

	mu       sync.Mutex
	held     map[game.Key]*heldKey
	quitOnce sync.Once
}

// NewKeyboard creates a keyboard reading from source.
func NewKeyboard(source EventSource, hold time.Duration) *Keyboard {
	if hold <= 0 {
		hold = HoldWindow
	}
	return &Keyboard{
		source: source,
		events: make(chan game.Event, 64),
		quit:   make(chan struct{}),
		hold:   hold,
		held:   make(map[game.Key]*heldKey),
	}
}

// Events delivers key events for the game loop.
func (k *Keyboard) Events() <-chan game.Event {
	return k.events
}

// Quit is closed when the player asks to leave or the screen goes away.
func (k *Keyboard) Quit() <-chan struct{} {
	return k.quit
}

// Run polls the event source until ctx ends, the player quits or the
// screen is finalized.
func (k *Keyboard) Run(ctx context.Context) {
	defer k.stop()

	for {
		ev := k.source.PollEvent()
		if ev == nil {
			return
		}
		key, ok := ev.(*tcell.EventKey)
		if !ok {
			continue
		}
		if IsQuit(key.Key(), key.Rune()) {
			return
		}
		if control, ok := MapKey(key.Key(), key.Rune()); ok {
			k.press(ctx, control)
		}

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

// press marks control as held and restarts its release timer.
func (k *Keyboard) press(ctx context.Context, control game.Key) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if h, ok := k.held[control]; ok && h.timer.Stop() {
		h.timer.Reset(k.hold)
		return
	}

	h := &heldKey{}
	k.held[control] = h
	k.emit(ctx, game.KeyEvent{Key: control, Down: true})
	h.timer = time.AfterFunc(k.hold, func() { k.release(ctx, control, h) })
}

// release lifts control unless it was pressed again in the meantime.
func (k *Keyboard) release(ctx context.Context, control game.Key, h *heldKey) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.held[control] != h {
		return
	}
	delete(k.held, control)
	k.emit(ctx, game.KeyEvent{Key: control, Down: false})
}

func (k *Keyboard) emit(ctx context.Context, ev game.Event) {
	select {
	case k.events <- ev:
	case <-ctx.Done():
	case <-k.quit:
	}
}

func (k *Keyboard) stop() {
	k.quitOnce.Do(func() { close(k.quit) })

	k.mu.Lock()
	defer k.mu.Unlock()
	for control, h := range k.held {
		h.timer.Stop()
		delete(k.held, control)
	}
}

// MapKey translates a terminal key to a ship control: A, D and W or the
// arrow keys.
func MapKey(key tcell.Key, r rune) (game.Key, bool) {
	switch key {
	case tcell.KeyLeft:
		return game.KeyLeft, true
	case tcell.KeyRight:
		return game.KeyRight, true
	case tcell.KeyUp:
		return game.KeyThrust, true
	case tcell.KeyRune:
		switch r {
		case 'a', 'A':
			return game.KeyLeft, true
		case 'd', 'D':
			return game.KeyRight, true
		case 'w', 'W':
			return game.KeyThrust, true
		}
	}
	return game.KeyNone, false
}

// IsQuit reports whether a key ends the game: q, Esc or Ctrl-C.
func IsQuit(key tcell.Key, r rune) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return r == 'q' || r == 'Q'
	}
	return false
}

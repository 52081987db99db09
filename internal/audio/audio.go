package audio

import (
	"log"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/pkg/errors"

	"starduel/internal/game"
)

const sampleRate = beep.SampleRate(44100)

// boom describes one explosion effect: a noise burst over a falling tone.
type boom struct {
	duration time.Duration
	startHz  float64
	endHz    float64
	noise    float64
}

// The durations follow the lengths of the original explosion samples.
var booms = map[string]boom{
	game.EffectBoom1: {duration: 640 * time.Millisecond, startHz: 180, endHz: 60, noise: 0.6},
	game.EffectBoom2: {duration: 2140 * time.Millisecond, startHz: 120, endHz: 35, noise: 0.5},
	game.EffectBoom3: {duration: 2180 * time.Millisecond, startHz: 90, endHz: 30, noise: 0.7},
}

// Player plays synthesized sound effects through the default audio device.
// A Player that failed to open the device stays silent.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	rng         *rand.Rand
	initialized bool
}

// NewPlayer creates a silent player. Call Initialize to open the device.
func NewPlayer() *Player {
	return &Player{
		mixer: &beep.Mixer{},
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Initialize opens the speaker and starts the mixer.
func (p *Player) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return errors.Wrap(err, "opening audio device")
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Play starts an effect. Unknown effects are logged and ignored.
func (p *Player) Play(effect string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	s, ok := p.effect(effect)
	if !ok {
		log.Printf("Unknown sound effect %q", effect)
		return
	}

	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// Close stops every playing effect and releases the device.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	p.initialized = false
}

func (p *Player) effect(name string) (beep.Streamer, bool) {
	b, ok := booms[name]
	if !ok {
		return nil, false
	}
	return newBoomStreamer(b, sampleRate, p.rng.Int63()), true
}

type boomStreamer struct {
	b     boom
	rate  beep.SampleRate
	rng   *rand.Rand
	total int
	pos   int
	phase float64
}

func newBoomStreamer(b boom, rate beep.SampleRate, seed int64) *boomStreamer {
	return &boomStreamer{
		b:     b,
		rate:  rate,
		rng:   rand.New(rand.NewSource(seed)),
		total: rate.N(b.duration),
	}
}

func (s *boomStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	if s.pos >= s.total {
		return 0, false
	}
	for i := range samples {
		if s.pos >= s.total {
			return i, true
		}
		progress := float64(s.pos) / float64(s.total)
		freq := s.b.startHz + (s.b.endHz-s.b.startHz)*progress
		envelope := math.Exp(-5 * progress)

		tone := math.Sin(2 * math.Pi * s.phase)
		noise := s.rng.Float64()*2 - 1
		val := envelope * ((1-s.b.noise)*tone + s.b.noise*noise) * 0.5

		samples[i][0] = val
		samples[i][1] = val

		s.phase += freq / float64(s.rate)
		s.phase -= math.Floor(s.phase)
		s.pos++
	}
	return len(samples), true
}

func (s *boomStreamer) Err() error { return nil }

// Package audio synthesizes short sound cues for game events. Everything
// is generated; there are no sample assets. A failed speaker init leaves
// the manager silent rather than failing the game.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"rift-arena/internal/game"
)

const (
	sampleRate = beep.SampleRate(48000)

	// Cues fade with distance from the listener and go silent past this.
	audibleRange = 40.0
)

// cueSpec shapes one synthesized cue.
type cueSpec struct {
	freq   float64 // base sine frequency
	sweep  float64 // frequency change over the cue's life
	noise  float64 // white-noise mix, 0..1
	decay  float64 // envelope decay rate, higher = shorter
	length time.Duration
	gain   float64
}

var cues = map[string]cueSpec{
	"fire":  {freq: 180, sweep: -120, noise: 0.6, decay: 30, length: 90 * time.Millisecond, gain: 0.5},
	"hit":   {freq: 900, sweep: -300, noise: 0.1, decay: 40, length: 60 * time.Millisecond, gain: 0.4},
	"pain":  {freq: 220, sweep: -80, noise: 0.3, decay: 18, length: 150 * time.Millisecond, gain: 0.5},
	"death": {freq: 160, sweep: -110, noise: 0.4, decay: 6, length: 400 * time.Millisecond, gain: 0.6},
	"jump":  {freq: 300, sweep: 180, noise: 0, decay: 25, length: 100 * time.Millisecond, gain: 0.3},
	"land":  {freq: 90, sweep: -30, noise: 0.5, decay: 35, length: 80 * time.Millisecond, gain: 0.4},
	"slide": {freq: 70, sweep: 0, noise: 0.8, decay: 10, length: 250 * time.Millisecond, gain: 0.3},
	"pickup": {freq: 520, sweep: 260, noise: 0, decay: 15, length: 140 * time.Millisecond, gain: 0.4},
}

// Manager synthesizes and mixes cues. It satisfies the game's AudioSink;
// the zero value (or a failed Init) is a silent sink.
type Manager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	listener    game.Vec3
	initialized bool
}

// NewManager creates an uninitialized manager.
func NewManager() *Manager {
	return &Manager{mixer: &beep.Mixer{}}
}

// Init opens the speaker. Safe to call more than once.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*50)); err != nil {
		return err
	}
	speaker.Play(m.mixer)
	m.initialized = true
	return nil
}

// Shutdown silences everything.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.initialized {
		return
	}
	speaker.Lock()
	m.mixer.Clear()
	speaker.Unlock()
	m.initialized = false
}

// SetListener moves the attenuation reference point, normally the camera
// or player position, once per frame.
func (m *Manager) SetListener(pos game.Vec3) {
	m.mu.Lock()
	m.listener = pos
	m.mu.Unlock()
}

// Play queues one cue by name at a world position. Unknown names and an
// uninitialized speaker are both silently ignored.
func (m *Manager) Play(name string, pos game.Vec3) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.initialized {
		return
	}
	spec, ok := cues[name]
	if !ok {
		return
	}
	vol := 1 - m.listener.DistTo(pos)/audibleRange
	if vol <= 0 {
		return
	}
	gen := &cueGenerator{spec: spec, gain: spec.gain * vol}
	speaker.Lock()
	m.mixer.Add(beep.Take(sampleRate.N(spec.length), gen))
	speaker.Unlock()
}

// cueGenerator streams one synthesized cue: a swept sine with optional
// noise under an exponential decay envelope.
type cueGenerator struct {
	spec cueSpec
	gain float64
	pos  int
	seed int64
}

func (g *cueGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	total := float64(sampleRate.N(g.spec.length))
	for i := range samples {
		t := float64(g.pos) / float64(sampleRate)
		life := float64(g.pos) / total

		freq := g.spec.freq + g.spec.sweep*life
		tone := math.Sin(2 * math.Pi * freq * t)

		g.seed = (g.seed*1103515245 + 12345) & 0x7fffffff
		noise := float64(g.seed)/float64(0x7fffffff)*2 - 1

		env := math.Exp(-t * g.spec.decay)
		s := g.gain * env * ((1-g.spec.noise)*tone + g.spec.noise*noise)

		samples[i][0] = s
		samples[i][1] = s
		g.pos++
	}
	return len(samples), true
}

func (g *cueGenerator) Err() error { return nil }

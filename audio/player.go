// Package audio plays short synthesized cues for simulation events
package audio

import (
	"fmt"
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/heartfall/config"
	"github.com/lixenwraith/heartfall/engine"
	"github.com/lixenwraith/heartfall/parameter"
)

const sampleRate = beep.SampleRate(parameter.AudioSampleRate)

// Cue is a sound the player can start for a tick
type Cue uint8

const (
	CueThump Cue = iota // a heart hit the floor hard enough
	CueChime            // one or more hearts activated
	cueCount
)

func (c Cue) String() string {
	switch c {
	case CueThump:
		return "thump"
	case CueChime:
		return "chime"
	default:
		return "unknown"
	}
}

// Player turns per-tick simulation stats into sounds
// All methods are safe to call whether or not a device is available
type Player struct {
	mu sync.Mutex

	enabled   bool
	volume    float64
	threshold float64
	maxVoices int

	mixer       *beep.Mixer
	initialized bool
	withSpeaker bool

	lastActivated int
	played        [cueCount]uint64
}

// NewPlayer creates a player, nothing is opened until Initialize
func NewPlayer(cfg config.AudioConfig) *Player {
	return &Player{
		enabled:   cfg.Enabled,
		volume:    cfg.Volume,
		threshold: cfg.ImpactThreshold,
		maxVoices: parameter.AudioMaxVoicesPerTick,
		mixer:     &beep.Mixer{},
	}
}

// Initialize opens the speaker, a disabled player stays silent and returns nil
// A failure leaves the player silent, callers may log and continue
func (p *Player) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.enabled || p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(parameter.AudioBufferDuration)); err != nil {
		return fmt.Errorf("audio init: %w", err)
	}
	speaker.Play(p.mixer)
	p.initialized = true
	p.withSpeaker = true
	return nil
}

// StartOffline enables playback into the mixer without a device
// The caller drains Mixer itself, used for rendering cues to a buffer
func (p *Player) StartOffline() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = true
	p.initialized = true
}

// Active reports whether cues currently produce sound
func (p *Player) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.initialized
}

// Mixer is the stream every cue is added to
func (p *Player) Mixer() beep.Streamer {
	return p.mixer
}

// Cleanup stops all sounds and releases the device
func (p *Player) Cleanup() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	if p.withSpeaker {
		speaker.Clear()
		speaker.Close()
	}
	p.mixer.Clear()
	p.initialized = false
	p.withSpeaker = false
}

// Cues decides which sounds a tick warrants, at most maxVoices of them
func (p *Player) Cues(s engine.Stats) []Cue {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cuesLocked(s)
}

func (p *Player) cuesLocked(s engine.Stats) []Cue {
	var cues []Cue
	if s.Events.FloorImpact >= p.threshold && p.threshold > 0 {
		cues = append(cues, CueThump)
	}
	if s.Activated > p.lastActivated {
		cues = append(cues, CueChime)
	}
	// A reset starts counting again
	p.lastActivated = s.Activated

	if len(cues) > p.maxVoices {
		cues = cues[:p.maxVoices]
	}
	return cues
}

// Feed plays the cues for one tick and returns them
func (p *Player) Feed(s engine.Stats) []Cue {
	p.mu.Lock()
	defer p.mu.Unlock()

	cues := p.cuesLocked(s)
	if !p.initialized || len(cues) == 0 {
		return cues
	}

	streams := make([]beep.Streamer, 0, len(cues))
	for _, c := range cues {
		switch c {
		case CueThump:
			streams = append(streams, CreateThump(s.Events.FloorImpact, p.volume, sampleRate))
		case CueChime:
			streams = append(streams, CreateChime(p.volume, sampleRate))
		}
		p.played[c]++
	}

	if p.withSpeaker {
		speaker.Lock()
		defer speaker.Unlock()
	}
	p.mixer.Add(streams...)
	return cues
}

// Played returns how many times c was started
func (p *Player) Played(c Cue) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if c >= cueCount {
		return 0
	}
	return p.played[c]
}

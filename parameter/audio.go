package parameter

import "time"

// Audio hardware settings
const (
	AudioSampleRate = 44100
	// AudioBufferDuration is the speaker buffer, latency vs underrun tradeoff
	AudioBufferDuration = 50 * time.Millisecond
)

// Audio cues
const (
	// AudioImpactThreshold is the minimum floor impact speed (px/tick) that plays a thump
	AudioImpactThreshold = 4.0
	// AudioMaxVoicesPerTick bounds one-shot sounds started in a single tick
	AudioMaxVoicesPerTick = 2
	AudioVolume           = 0.6

	// Thump: pitch-dropping sine with a noise click
	AudioThumpStartFreq = 140.0
	AudioThumpEndFreq   = 55.0
	AudioThumpDuration  = 180 * time.Millisecond
	AudioThumpAttack    = 4 * time.Millisecond
	AudioThumpRelease   = 150 * time.Millisecond
	AudioThumpNoiseMix  = 0.15

	// Chime: two rising sine notes
	AudioChimeFreq1    = 880.0
	AudioChimeFreq2    = 1318.5
	AudioChimeNote     = 90 * time.Millisecond
	AudioChimeAttack   = 5 * time.Millisecond
	AudioChimeRelease  = 60 * time.Millisecond
	AudioChimeVolume   = 0.35
	AudioImpactFullAt  = 20.0 // impact speed at which the thump reaches full volume
)

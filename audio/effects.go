package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/lixenwraith/heartfall/parameter"
)

// WaveType selects the tone source
type WaveType int

const (
	WaveSine WaveType = iota
	WaveNoise
)

// sampleFunc yields the value of the k-th sample of a clip n samples long
type sampleFunc func(k, n int) float64

// clip streams f for exactly n samples, mono into both channels
func clip(n int, f sampleFunc) beep.Streamer {
	k := 0
	return beep.StreamerFunc(func(out [][2]float64) (int, bool) {
		i := 0
		for ; i < len(out) && k < n; i, k = i+1, k+1 {
			v := f(k, n)
			out[i] = [2]float64{v, v}
		}
		return i, i > 0
	})
}

// NewOscillator creates a fixed-pitch tone
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return NewSweep(freq, freq, duration, wave, rate)
}

// NewSweep creates a tone whose pitch glides linearly from start to end
func NewSweep(start, end float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	if wave == WaveNoise {
		return clip(rate.N(duration), func(int, int) float64 { return rand.Float64()*2 - 1 })
	}
	step := 1 / float64(rate)
	var cycle float64
	return clip(rate.N(duration), func(k, n int) float64 {
		v := math.Sin(2 * math.Pi * cycle)
		hz := start + (end-start)*float64(k)/float64(n)
		_, cycle = math.Modf(cycle + hz*step)
		return v
	})
}

// ramp is the gain at sample k of an n sample clip with linear fade in and out
func ramp(k, n, in, out int) float64 {
	g := 1.0
	if k < in {
		g = float64(k) / float64(in)
	}
	if out > 0 && k >= n-out {
		g = math.Min(g, float64(n-k)/float64(out))
	}
	return g
}

// NewEnvelope fades s in over attack and out over release, stopping after duration
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total, in, out := rate.N(duration), rate.N(attack), rate.N(release)
	k := 0
	return beep.StreamerFunc(func(buf [][2]float64) (int, bool) {
		if k >= total {
			return 0, false
		}
		if rest := total - k; len(buf) > rest {
			buf = buf[:rest]
		}
		n, ok := s.Stream(buf)
		for i := range buf[:n] {
			g := ramp(k, total, in, out)
			buf[i][0] *= g
			buf[i][1] *= g
			k++
		}
		return n, ok || n > 0
	})
}

// scaled multiplies s by a linear factor, zero silences it
func scaled(s beep.Streamer, factor float64) beep.Streamer {
	return &effects.Gain{Streamer: s, Gain: math.Max(factor, 0) - 1}
}

// ImpactGain maps an impact speed to a gain in (0, 1]
func ImpactGain(speed float64) float64 {
	if speed <= 0 {
		return 0
	}
	return math.Min(1, speed/parameter.AudioImpactFullAt)
}

// CreateThump is a low falling thud under a short noise click, louder for harder landings
func CreateThump(impact, volume float64, rate beep.SampleRate) beep.Streamer {
	d := parameter.AudioThumpDuration
	thud := NewEnvelope(
		NewSweep(parameter.AudioThumpStartFreq, parameter.AudioThumpEndFreq, d, WaveSine, rate),
		d, parameter.AudioThumpAttack, parameter.AudioThumpRelease, rate)
	click := NewEnvelope(NewOscillator(0, d, WaveNoise, rate),
		d, parameter.AudioThumpAttack, 4*parameter.AudioThumpAttack, rate)

	return scaled(beep.Mix(
		scaled(thud, 1-parameter.AudioThumpNoiseMix),
		scaled(click, parameter.AudioThumpNoiseMix),
	), volume*ImpactGain(impact))
}

// CreateChime plays two rising notes for a heart appearing
func CreateChime(volume float64, rate beep.SampleRate) beep.Streamer {
	d := parameter.AudioChimeNote
	note := func(hz float64) beep.Streamer {
		return NewEnvelope(NewOscillator(hz, d, WaveSine, rate),
			d, parameter.AudioChimeAttack, parameter.AudioChimeRelease, rate)
	}
	return scaled(beep.Seq(note(parameter.AudioChimeFreq1), note(parameter.AudioChimeFreq2)),
		volume*parameter.AudioChimeVolume)
}

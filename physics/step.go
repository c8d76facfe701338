package physics

import (
	"github.com/lixenwraith/heartfall/config"
	"github.com/lixenwraith/heartfall/parameter"
	"github.com/lixenwraith/heartfall/projection"
)

// Params is the per-tick physics tuning, pixels per tick
type Params struct {
	Gravity        float64
	Restitution    float64
	RepulsionForce float64
	MaxSpeed       float64
	Damping        float64
	Margin         float64
	LayerGate      float64
	SpinTilt       float64
}

// ParamsFromConfig extracts the physics tuning from the hearts section
func ParamsFromConfig(h *config.HeartsConfig) Params {
	return Params{
		Gravity:        h.Gravity,
		Restitution:    h.Bounce,
		RepulsionForce: h.RepulsionForce,
		MaxSpeed:       h.MaxSpeed,
		Damping:        h.Damping,
		Margin:         h.BoundaryMargin,
		LayerGate:      h.LayerGate,
		SpinTilt:       parameter.HeartSpinTiltRatio,
	}
}

// Events summarizes what one body experienced during a step
type Events struct {
	Contacts    int
	Boundary    BoundaryHit
	FloorImpact float64 // vertical speed at floor contact, 0 when none
}

// Add accumulates another body's events
func (e *Events) Add(o Events) {
	e.Contacts += o.Contacts
	e.Boundary |= o.Boundary
	if o.FloorImpact > e.FloorImpact {
		e.FloorImpact = o.FloorImpact
	}
}

// Step advances one active body by one tick
// neighbors may be nil on frames that skip the collision pass
// Order: gravity, contacts, speed clamp, integrate, bounds, damping, spin
func Step(b *Body, neighbors []*Body, p Params, vp projection.Viewport) Events {
	var ev Events
	if !b.active {
		return ev
	}

	ApplyGravity(b, p.Gravity)

	for _, other := range neighbors {
		if !Interacts(b, other, p.LayerGate) {
			continue
		}
		if _, ok := ResolvePair(b, other, p.Restitution, p.RepulsionForce); ok {
			ev.Contacts++
		}
	}

	CapSpeed(b, p.MaxSpeed)
	Integrate(b)
	ev.Boundary, ev.FloorImpact = ReflectBounds(b, vp, p.Margin, p.Restitution)
	Damp(b, p.Damping)
	Spin(b, p.SpinTilt)

	return ev
}

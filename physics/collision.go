package physics

import (
	"math"

	"github.com/lixenwraith/heartfall/vmath"
)

// MinSeparationSq excludes coincident bodies from contact response
// Below it the normal cannot be normalized reliably
const MinSeparationSq = 1.0

// Contact describes one resolved overlap, impulses are as applied to self
type Contact struct {
	Normal     vmath.Vec2F // unit, other toward self
	Overlap    float64
	Bounce     float64 // velocity-reversal impulse along the normal (0 when separating)
	Separation float64 // penetration-correction impulse along the normal
}

// Interacts reports whether two bodies may collide
// Excludes self, inactive bodies, and bodies on layers further apart than gate
func Interacts(a, b *Body, gate float64) bool {
	if a == b || !a.active || !b.active {
		return false
	}
	return math.Abs(a.layer-b.layer) <= gate
}

// ResolvePair applies soft contact response between overlapping bodies
// Bounce: when closing, both bodies get an equal and opposite impulse of relSpeed*restitution
// Separation: always, (minDist - dist)*repulsion is added to self and removed from other
// Both terms act on velocity; there is no positional projection
func ResolvePair(self, other *Body, restitution, repulsion float64) (Contact, bool) {
	d := vmath.V2FSub(self.Pos, other.Pos)
	distSq := vmath.V2FMagSq(d)
	minDist := self.radius + other.radius

	if distSq >= minDist*minDist || distSq <= MinSeparationSq {
		return Contact{}, false
	}

	dist := math.Sqrt(distSq)
	n := vmath.V2FScale(d, 1/dist)
	relSpeed := vmath.V2FDot(vmath.V2FSub(self.Vel, other.Vel), n)

	c := Contact{
		Normal:  n,
		Overlap: minDist - dist,
	}

	if relSpeed < 0 {
		j := vmath.V2FScale(n, relSpeed*restitution)
		ApplyImpulse(self, vmath.V2FScale(j, -1))
		ApplyImpulse(other, j)
		c.Bounce = -relSpeed * restitution
	}

	sep := c.Overlap * repulsion
	ApplyImpulse(self, vmath.V2FScale(n, sep))
	ApplyImpulse(other, vmath.V2FScale(n, -sep))
	c.Separation = sep

	return c, true
}

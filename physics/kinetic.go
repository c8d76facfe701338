package physics

import (
	"math"

	"github.com/lixenwraith/heartfall/projection"
	"github.com/lixenwraith/heartfall/vmath"
)

// Integrate performs explicit Euler position update: p = p + v
func Integrate(b *Body) {
	b.Pos = vmath.V2FAdd(b.Pos, b.Vel)
}

// ApplyGravity adds the per-tick gravity to vertical velocity
func ApplyGravity(b *Body, gravity float64) {
	b.Vel.Y += gravity
}

// ApplyImpulse adds velocity delta (momentum transfer)
func ApplyImpulse(b *Body, dv vmath.Vec2F) {
	b.Vel = vmath.V2FAdd(b.Vel, dv)
}

// CapSpeed limits velocity magnitude to maxSpeed, returns true if clamped
func CapSpeed(b *Body, maxSpeed float64) bool {
	return vmath.V2FClampMagnitude(&b.Vel, maxSpeed)
}

// Damp scales both velocity components by factor (< 1 removes energy)
func Damp(b *Body, factor float64) {
	b.Vel = vmath.V2FScale(b.Vel, factor)
}

// BoundaryHit reports which edges a body was clamped against
type BoundaryHit uint8

const (
	HitLeft BoundaryHit = 1 << iota
	HitRight
	HitTop
	HitBottom
)

// ReflectBounds clamps position into the viewport expanded by margin
// The offending velocity component is pointed back inward and scaled by restitution
// Returns the edges hit and the vertical speed at a floor hit (0 otherwise)
func ReflectBounds(b *Body, vp projection.Viewport, margin, restitution float64) (BoundaryHit, float64) {
	var hit BoundaryHit
	var floorSpeed float64

	if b.Pos.X < -margin {
		b.Pos.X = -margin
		b.Vel.X = math.Abs(b.Vel.X) * restitution
		hit |= HitLeft
	} else if b.Pos.X > vp.Width+margin {
		b.Pos.X = vp.Width + margin
		b.Vel.X = -math.Abs(b.Vel.X) * restitution
		hit |= HitRight
	}

	if b.Pos.Y < -margin {
		b.Pos.Y = -margin
		b.Vel.Y = math.Abs(b.Vel.Y) * restitution
		hit |= HitTop
	} else if b.Pos.Y > vp.Height+margin {
		b.Pos.Y = vp.Height + margin
		floorSpeed = math.Abs(b.Vel.Y)
		b.Vel.Y = -floorSpeed * restitution
		hit |= HitBottom
	}

	return hit, floorSpeed
}

// Spin advances the cosmetic rotation, independent of velocity and contacts
func Spin(b *Body, tiltRatio float64) {
	b.Rotation.Y += b.rotationSpeed
	b.Rotation.X += b.rotationSpeed * tiltRatio
}

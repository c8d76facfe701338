package physics

import (
	"github.com/lixenwraith/heartfall/projection"
	"github.com/lixenwraith/heartfall/render"
	"github.com/lixenwraith/heartfall/vmath"
)

// Body is one simulated heart in screen-pixel space
type Body struct {
	Index int

	Pos vmath.Vec2F // pixels
	Vel vmath.Vec2F // pixels per tick

	// Layer is the depth plane, fixed at construction
	// Also gates collisions: bodies only interact within LayerGate of each other
	layer float64

	// Radius is the collision radius (visual + padding)
	radius       float64
	visualRadius float64

	rotationSpeed float64
	Rotation      vmath.Vec3F

	active bool

	// Binding is nil until assets load; nil means not visually spawned
	Binding render.Binding
}

// NewBody creates an inactive body
// Radius is clamped to a small positive value so the radius > 0 invariant holds
func NewBody(index int, pos, vel vmath.Vec2F, layer, visualRadius, padding, rotationSpeed float64) *Body {
	r := visualRadius + padding
	if r <= 0 {
		r = vmath.Epsilon
	}
	return &Body{
		Index:         index,
		Pos:           pos,
		Vel:           vel,
		layer:         layer,
		radius:        r,
		visualRadius:  visualRadius,
		rotationSpeed: rotationSpeed,
	}
}

func (b *Body) Layer() float64 { return b.layer }
func (b *Body) Radius() float64 { return b.radius }
func (b *Body) VisualRadius() float64 { return b.visualRadius }
func (b *Body) RotationSpeed() float64 { return b.rotationSpeed }
func (b *Body) Active() bool { return b.active }

// Activate performs the one-way inactive to active transition
// Returns false when the body was already active
func (b *Body) Activate() bool {
	if b.active {
		return false
	}
	b.active = true
	if b.Binding != nil {
		b.Binding.SetVisible(true)
	}
	return true
}

// Transform returns the world placement for the current position and rotation
func (b *Body) Transform(ws projection.WorldSpace, vp projection.Viewport) render.Transform {
	wx, wy := ws.ToWorld(vp, b.Pos.X, b.Pos.Y)
	return render.Transform{
		Position: vmath.Vec3F{X: wx, Y: wy, Z: b.layer},
		Rotation: b.Rotation,
	}
}

// Sync pushes the current transform into the binding, no-op without one
func (b *Body) Sync(ws projection.WorldSpace, vp projection.Viewport) {
	if b.Binding == nil {
		return
	}
	b.Binding.SetTransform(b.Transform(ws, vp))
}

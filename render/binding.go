package render

import (
	"github.com/lixenwraith/heartfall/vmath"
)

// Transform is the world-space placement of one heart
type Transform struct {
	Position vmath.Vec3F // world units, z is the depth layer
	Rotation vmath.Vec3F // Euler angles, radians
}

// Binding is the renderer-side handle for one simulated body
// The core only ever sets its transform and visibility
type Binding interface {
	SetTransform(t Transform)
	SetVisible(visible bool)
}

// BindingFactory creates bindings once the mesh template is available
// scale is the uniform mesh scale that makes the template match the body's visual size
type BindingFactory interface {
	NewBinding(index int, scale float64) Binding
}

// Instance is a flattened transform for consumers without bindings (network, trace)
type Instance struct {
	Index    int     `msgpack:"i" json:"i"`
	X        float64 `msgpack:"x" json:"x"`
	Y        float64 `msgpack:"y" json:"y"`
	Z        float64 `msgpack:"z" json:"z"`
	RotX     float64 `msgpack:"rx" json:"rx"`
	RotY     float64 `msgpack:"ry" json:"ry"`
	RotZ     float64 `msgpack:"rz" json:"rz"`
	Scale    float64 `msgpack:"s" json:"s"`
	PixelX   float64 `msgpack:"px" json:"px"`
	PixelY   float64 `msgpack:"py" json:"py"`
	PixelRad float64 `msgpack:"pr" json:"pr"`
}

// NewInstance flattens a transform
func NewInstance(index int, t Transform, scale float64) Instance {
	return Instance{
		Index: index,
		X:     t.Position.X,
		Y:     t.Position.Y,
		Z:     t.Position.Z,
		RotX:  t.Rotation.X,
		RotY:  t.Rotation.Y,
		RotZ:  t.Rotation.Z,
		Scale: scale,
	}
}

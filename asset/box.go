package asset

import (
	"fmt"

	"github.com/lixenwraith/heartfall/vmath"
)

// boxTriangles winds each face counter-clockwise seen from outside
var boxTriangles = [][3]int32{
	{0, 2, 1}, {0, 3, 2}, // -Z
	{4, 5, 6}, {4, 6, 7}, // +Z
	{0, 1, 5}, {0, 5, 4}, // -Y
	{3, 6, 2}, {3, 7, 6}, // +Y
	{0, 4, 7}, {0, 7, 3}, // -X
	{1, 2, 6}, {1, 6, 5}, // +X
}

// BoxTemplate builds a proxy template spanning min..max
// Renderers that load models natively hand it to the core, which only needs the size
func BoxTemplate(name string, min, max vmath.Vec3F) (*Template, error) {
	size := vmath.V3FSub(max, min)
	if size.X <= 0 && size.Y <= 0 && size.Z <= 0 {
		return nil, fmt.Errorf("%s: empty bounds: %w", name, ErrNoVertices)
	}
	verts := []vmath.Vec3F{
		{X: min.X, Y: min.Y, Z: min.Z},
		{X: max.X, Y: min.Y, Z: min.Z},
		{X: max.X, Y: max.Y, Z: min.Z},
		{X: min.X, Y: max.Y, Z: min.Z},
		{X: min.X, Y: min.Y, Z: max.Z},
		{X: max.X, Y: min.Y, Z: max.Z},
		{X: max.X, Y: max.Y, Z: max.Z},
		{X: min.X, Y: max.Y, Z: max.Z},
	}
	tris := make([][3]int32, len(boxTriangles))
	copy(tris, boxTriangles)
	return NewTemplate(name, verts, tris)
}

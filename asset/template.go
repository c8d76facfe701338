// Package asset loads the heart mesh template the renderers instantiate per body
package asset

import (
	"errors"
	"fmt"
	"math"

	"github.com/lixenwraith/heartfall/vmath"
)

var (
	// ErrNoVertices is returned for a mesh without usable geometry
	ErrNoVertices = errors.New("mesh has no vertices")
	// ErrBadIndex is returned when a face references a missing vertex
	ErrBadIndex = errors.New("face index out of range")
	// ErrPending is returned by Future.Poll while the load is in flight
	ErrPending = errors.New("asset load pending")
)

// Template is an immutable triangle mesh, shared by every heart instance
type Template struct {
	Name      string
	Vertices  []vmath.Vec3F
	Triangles [][3]int32
	// FaceNormals holds one unit normal per triangle, object space
	FaceNormals []vmath.Vec3F

	min, max vmath.Vec3F
}

// NewTemplate validates indices and precomputes bounds and face normals
func NewTemplate(name string, vertices []vmath.Vec3F, triangles [][3]int32) (*Template, error) {
	if len(vertices) == 0 || len(triangles) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrNoVertices)
	}

	n := int32(len(vertices))
	for i, tri := range triangles {
		for _, idx := range tri {
			if idx < 0 || idx >= n {
				return nil, fmt.Errorf("%s: triangle %d index %d: %w", name, i, idx, ErrBadIndex)
			}
		}
	}

	t := &Template{
		Name:        name,
		Vertices:    vertices,
		Triangles:   triangles,
		FaceNormals: make([]vmath.Vec3F, len(triangles)),
	}

	t.min = vmath.Vec3F{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	t.max = vmath.Vec3F{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for _, v := range vertices {
		t.min.X = math.Min(t.min.X, v.X)
		t.min.Y = math.Min(t.min.Y, v.Y)
		t.min.Z = math.Min(t.min.Z, v.Z)
		t.max.X = math.Max(t.max.X, v.X)
		t.max.Y = math.Max(t.max.Y, v.Y)
		t.max.Z = math.Max(t.max.Z, v.Z)
	}

	for i, tri := range triangles {
		a, b, c := vertices[tri[0]], vertices[tri[1]], vertices[tri[2]]
		t.FaceNormals[i] = vmath.V3FNormalize(vmath.V3FCross(vmath.V3FSub(b, a), vmath.V3FSub(c, a)))
	}

	return t, nil
}

// Bounds returns the axis-aligned bounding box corners
func (t *Template) Bounds() (min, max vmath.Vec3F) {
	return t.min, t.max
}

// Size returns the bounding box extent per axis
func (t *Template) Size() vmath.Vec3F {
	return vmath.V3FSub(t.max, t.min)
}

// MaxDimension is the largest bounding box extent, used for mesh scaling
func (t *Template) MaxDimension() float64 {
	return vmath.V3FMaxComponent(t.Size())
}

package asset

import (
	"context"
	"math"

	"github.com/lixenwraith/heartfall/vmath"
)

// Procedural heart defaults
const (
	DefaultHeartSlices = 48
	DefaultHeartRings  = 16
	// DefaultHeartDepth is the front-to-back thickness relative to the half-width
	DefaultHeartDepth = 0.45
)

// HeartLoader builds a puffed heart mesh, the outline extruded into a lens profile
// Needs no files, so it is the fallback when no model path is configured
type HeartLoader struct {
	Slices int // samples around the outline
	Rings  int // samples from the front pole to the back pole
	Depth  float64
}

// NewHeartLoader returns a loader with default tessellation
func NewHeartLoader() *HeartLoader {
	return &HeartLoader{
		Slices: DefaultHeartSlices,
		Rings:  DefaultHeartRings,
		Depth:  DefaultHeartDepth,
	}
}

// heartOutline is the classic parametric heart, t in [0, 2pi), scaled to roughly unit half-width
func heartOutline(t float64) (x, y float64) {
	s := math.Sin(t)
	x = 16 * s * s * s
	y = 13*math.Cos(t) - 5*math.Cos(2*t) - 2*math.Cos(3*t) - math.Cos(4*t)
	return x / 16, y / 16
}

func (h *HeartLoader) Load(ctx context.Context) (*Template, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slices := max(h.Slices, 3)
	rings := max(h.Rings, 2)
	depth := h.Depth
	if depth <= 0 {
		depth = DefaultHeartDepth
	}

	// Front pole, (rings-1) outline rings, back pole
	verts := make([]vmath.Vec3F, 0, 2+(rings-1)*slices)
	verts = append(verts, vmath.Vec3F{Z: depth})
	for r := 1; r < rings; r++ {
		v := math.Pi * float64(r) / float64(rings)
		sv, cv := math.Sincos(v)
		for s := 0; s < slices; s++ {
			x, y := heartOutline(2 * math.Pi * float64(s) / float64(slices))
			verts = append(verts, vmath.Vec3F{X: x * sv, Y: y * sv, Z: depth * cv})
		}
	}
	back := int32(len(verts))
	verts = append(verts, vmath.Vec3F{Z: -depth})

	ring := func(r, s int) int32 {
		return int32(1 + (r-1)*slices + s%slices)
	}

	tris := make([][3]int32, 0, 2*slices*(rings-1))
	for s := 0; s < slices; s++ {
		tris = append(tris, [3]int32{0, ring(1, s), ring(1, s+1)})
		tris = append(tris, [3]int32{back, ring(rings-1, s), ring(rings-1, s+1)})
	}
	for r := 1; r < rings-1; r++ {
		for s := 0; s < slices; s++ {
			a, b := ring(r, s), ring(r, s+1)
			c, d := ring(r+1, s), ring(r+1, s+1)
			tris = append(tris, [3]int32{a, c, b}, [3]int32{b, c, d})
		}
	}

	Recenter(verts)
	orientOutward(verts, tris)
	return NewTemplate("procedural-heart", verts, tris)
}

// Recenter moves the bounding box center to the origin in place
func Recenter(verts []vmath.Vec3F) {
	if len(verts) == 0 {
		return
	}
	lo, hi := verts[0], verts[0]
	for _, v := range verts[1:] {
		lo.X, hi.X = math.Min(lo.X, v.X), math.Max(hi.X, v.X)
		lo.Y, hi.Y = math.Min(lo.Y, v.Y), math.Max(hi.Y, v.Y)
		lo.Z, hi.Z = math.Min(lo.Z, v.Z), math.Max(hi.Z, v.Z)
	}
	c := vmath.V3FScale(vmath.V3FAdd(lo, hi), 0.5)
	for i := range verts {
		verts[i] = vmath.V3FSub(verts[i], c)
	}
}

// orientOutward flips triangles whose winding faces the origin
// Valid for meshes star-shaped around the origin, which the puffed outline is
func orientOutward(verts []vmath.Vec3F, tris [][3]int32) {
	for i, tri := range tris {
		a, b, c := verts[tri[0]], verts[tri[1]], verts[tri[2]]
		n := vmath.V3FCross(vmath.V3FSub(b, a), vmath.V3FSub(c, a))
		centroid := vmath.V3FScale(vmath.V3FAdd(vmath.V3FAdd(a, b), c), 1.0/3)
		if vmath.V3FDot(n, centroid) < 0 {
			tris[i][1], tris[i][2] = tri[2], tri[1]
		}
	}
}

package render

import (
	"math"

	"github.com/lixenwraith/heartfall/asset"
	"github.com/lixenwraith/heartfall/parameter"
	"github.com/lixenwraith/heartfall/projection"
	"github.com/lixenwraith/heartfall/vmath"
)

// Light is a directional light with its Blinn-Phong half vector, view along +Z
type Light struct {
	Dir  vmath.Vec3F
	Half vmath.Vec3F
}

// NewLight normalizes dir (pointing toward the light) and precomputes the half vector
func NewLight(dir vmath.Vec3F) Light {
	d := vmath.V3FNormalize(dir)
	return Light{
		Dir:  d,
		Half: vmath.V3FNormalize(vmath.V3FAdd(d, vmath.Vec3F{Z: 1})),
	}
}

// DefaultLight comes from the upper left, in front of the field
func DefaultLight() Light {
	return NewLight(vmath.Vec3F{X: -0.35, Y: 0.55, Z: 0.75})
}

type screenVert struct {
	x, y  float64 // framebuffer pixels
	depth float64 // distance from the camera plane
	ok    bool
}

// Rasterizer projects mesh instances through the camera into a FrameBuffer
type Rasterizer struct {
	Camera   projection.Camera
	Viewport projection.Viewport // simulation pixels
	// PixelW and PixelH are simulation pixels per framebuffer pixel
	PixelW, PixelH float64

	Light    Light
	Base     RGB
	Ambient  float64
	SpecPow  float64
	SpecGain float64
	// DepthDim is how far a heart fades into the background at DepthSpan world units behind the focus plane
	DepthDim  float64
	DepthSpan float64

	verts []screenVert
}

// NewRasterizer returns a rasterizer with the stock heart material
func NewRasterizer(cam projection.Camera, pixelW, pixelH, depthSpan float64) *Rasterizer {
	return &Rasterizer{
		Camera:    cam,
		PixelW:    pixelW,
		PixelH:    pixelH,
		Light:     DefaultLight(),
		Base:      RGB{parameter.HeartBaseR, parameter.HeartBaseG, parameter.HeartBaseB},
		Ambient:   parameter.HeartAmbient,
		SpecPow:   parameter.HeartSpecularPow,
		SpecGain:  parameter.HeartSpecularGain,
		DepthDim:  parameter.HeartDepthDim,
		DepthSpan: depthSpan,
	}
}

// DrawMesh rasterizes one instance of tpl, returns the number of pixels written
func (r *Rasterizer) DrawMesh(buf *FrameBuffer, tpl *asset.Template, t Transform, scale float64) int {
	if tpl == nil || scale <= 0 || r.PixelW <= 0 || r.PixelH <= 0 {
		return 0
	}

	if cap(r.verts) < len(tpl.Vertices) {
		r.verts = make([]screenVert, len(tpl.Vertices))
	}
	r.verts = r.verts[:len(tpl.Vertices)]

	for i, v := range tpl.Vertices {
		world := vmath.V3FAdd(vmath.V3FRotateXYZ(vmath.V3FScale(v, scale), t.Rotation), t.Position)
		px, py, _, ok := projection.Project(r.Camera, r.Viewport, world)
		r.verts[i] = screenVert{
			x:     px / r.PixelW,
			y:     py / r.PixelH,
			depth: r.Camera.Distance - world.Z,
			ok:    ok,
		}
	}

	dim := 1.0
	if r.DepthSpan > 0 {
		dim -= r.DepthDim * vmath.Clamp(-t.Position.Z/r.DepthSpan, 0, 1)
	}
	eye := vmath.Vec3F{Z: r.Camera.Distance}

	written := 0
	for i, tri := range tpl.Triangles {
		a, b, c := r.verts[tri[0]], r.verts[tri[1]], r.verts[tri[2]]
		if !a.ok || !b.ok || !c.ok {
			continue
		}

		n := vmath.V3FRotateXYZ(tpl.FaceNormals[i], t.Rotation)
		p0 := vmath.V3FAdd(vmath.V3FRotateXYZ(vmath.V3FScale(tpl.Vertices[tri[0]], scale), t.Rotation), t.Position)
		if vmath.V3FDot(n, vmath.V3FSub(eye, p0)) <= 0 {
			continue
		}

		diffuse := math.Max(0, vmath.V3FDot(n, r.Light.Dir))
		spec := math.Pow(math.Max(0, vmath.V3FDot(n, r.Light.Half)), r.SpecPow) * r.SpecGain
		lit := r.Base.Shade(r.Ambient+(1-r.Ambient)*diffuse, spec)
		color := lit.Blend(RGBBackground, 1-dim)

		written += fillTriangle(buf, a, b, c, color)
	}
	return written
}

// fillTriangle scans the clipped bounding box, sampling pixel centers
// Accepts either winding since projection flips Y
func fillTriangle(buf *FrameBuffer, a, b, c screenVert, color RGB) int {
	area := edge(a, b, c.x, c.y)
	if area == 0 {
		return 0
	}
	inv := 1.0 / area

	w, h := buf.Size()
	minX := max(0, int(math.Floor(math.Min(a.x, math.Min(b.x, c.x)))))
	maxX := min(w-1, int(math.Ceil(math.Max(a.x, math.Max(b.x, c.x)))))
	minY := max(0, int(math.Floor(math.Min(a.y, math.Min(b.y, c.y)))))
	maxY := min(h-1, int(math.Ceil(math.Max(a.y, math.Max(b.y, c.y)))))

	written := 0
	for y := minY; y <= maxY; y++ {
		py := float64(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float64(x) + 0.5
			l0 := edge(b, c, px, py) * inv
			l1 := edge(c, a, px, py) * inv
			l2 := 1 - l0 - l1
			if l0 < 0 || l1 < 0 || l2 < 0 {
				continue
			}
			depth := l0*a.depth + l1*b.depth + l2*c.depth
			if buf.Plot(x, y, depth, color) {
				written++
			}
		}
	}
	return written
}

// edge is twice the signed area of (p, q, (x, y))
func edge(p, q screenVert, x, y float64) float64 {
	return (q.x-p.x)*(y-p.y) - (q.y-p.y)*(x-p.x)
}

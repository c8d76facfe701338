// Package projection maps screen-pixel positions to the world space of a perspective camera and back
package projection

import (
	"math"

	"github.com/lixenwraith/heartfall/config"
	"github.com/lixenwraith/heartfall/vmath"
)

// Viewport is the screen size in pixels, updated by the host on resize
type Viewport struct {
	Width, Height float64
}

// NewViewport creates a viewport of the given pixel size
func NewViewport(width, height float64) *Viewport {
	return &Viewport{Width: width, Height: height}
}

// Update replaces the dimensions, the next Compute picks them up
func (v *Viewport) Update(width, height float64) {
	v.Width = width
	v.Height = height
}

// Aspect returns width/height, 0 for a degenerate viewport
func (v Viewport) Aspect() float64 {
	if v.Height <= 0 {
		return 0
	}
	return v.Width / v.Height
}

// Camera is a perspective camera on +Z looking at the origin
type Camera struct {
	FovDeg   float64 // vertical field of view
	Distance float64 // distance to the z=0 plane
	Near     float64
	Far      float64
}

// CameraFromConfig copies the camera settings
func CameraFromConfig(c config.CameraConfig) Camera {
	return Camera{
		FovDeg:   c.FovDeg,
		Distance: c.Distance,
		Near:     c.Near,
		Far:      c.Far,
	}
}

// WorldSpace is the visible extent of the z=0 plane
type WorldSpace struct {
	Width         float64 // visible world width
	Height        float64 // visible world height
	PixelsPerUnit float64
}

// Compute derives the visible world extent for the viewport
// H = 2*d*tan(fov/2), W = H*aspect, P = h/H
func Compute(cam Camera, vp Viewport) WorldSpace {
	if vp.Height <= 0 || vp.Width <= 0 {
		return WorldSpace{}
	}
	visH := visibleHeight(cam, cam.Distance)
	if visH <= 0 {
		return WorldSpace{}
	}
	return WorldSpace{
		Width:         visH * vp.Aspect(),
		Height:        visH,
		PixelsPerUnit: vp.Height / visH,
	}
}

func visibleHeight(cam Camera, dist float64) float64 {
	return 2 * dist * math.Tan(vmath.DegToRad(cam.FovDeg)/2)
}

// ToWorld maps a pixel position to world coordinates centered at the origin, y up
func (ws WorldSpace) ToWorld(vp Viewport, x, y float64) (wx, wy float64) {
	if vp.Width <= 0 || vp.Height <= 0 {
		return 0, 0
	}
	wx = (x/vp.Width - 0.5) * ws.Width
	wy = -(y/vp.Height - 0.5) * ws.Height
	return wx, wy
}

// ToPixel is the inverse of ToWorld on the z=0 plane
func (ws WorldSpace) ToPixel(vp Viewport, wx, wy float64) (x, y float64) {
	if ws.Width == 0 || ws.Height == 0 {
		return 0, 0
	}
	x = (wx/ws.Width + 0.5) * vp.Width
	y = (0.5 - wy/ws.Height) * vp.Height
	return x, y
}

// MeshScale converts a pixel radius into a uniform scale for a mesh whose
// largest bounding-box dimension is maxDimension
func MeshScale(visualRadiusPx, pixelsPerUnit, maxDimension float64) float64 {
	if maxDimension <= 0 || pixelsPerUnit <= 0 {
		return 0
	}
	radius3D := visualRadiusPx / pixelsPerUnit
	return (radius3D * 2) / maxDimension
}

// Project maps a world point at any depth to pixels, with the pixel size of one
// world unit at that depth. ok is false for points at or behind the camera plane
func Project(cam Camera, vp Viewport, p vmath.Vec3F) (x, y, pxPerUnit float64, ok bool) {
	dist := cam.Distance - p.Z
	if dist <= 0 || vp.Height <= 0 {
		return 0, 0, 0, false
	}
	visH := visibleHeight(cam, dist)
	if visH <= 0 {
		return 0, 0, 0, false
	}
	pxPerUnit = vp.Height / visH
	x = vp.Width/2 + p.X*pxPerUnit
	y = vp.Height/2 - p.Y*pxPerUnit
	return x, y, pxPerUnit, true
}

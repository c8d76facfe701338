package vmath

import (
	"math"
)

// Vec2F is a float64 2D vector in screen-pixel space (y grows downward)
type Vec2F struct {
	X, Y float64
}

func V2FAdd(a, b Vec2F) Vec2F {
	return Vec2F{a.X + b.X, a.Y + b.Y}
}

func V2FSub(a, b Vec2F) Vec2F {
	return Vec2F{a.X - b.X, a.Y - b.Y}
}

func V2FScale(v Vec2F, s float64) Vec2F {
	return Vec2F{v.X * s, v.Y * s}
}

func V2FDot(a, b Vec2F) float64 {
	return a.X*b.X + a.Y*b.Y
}

func V2FMagSq(v Vec2F) float64 {
	return v.X*v.X + v.Y*v.Y
}

// V2FClampMagnitude rescales v to exactly maxMag when longer, returns true if clamped
func V2FClampMagnitude(v *Vec2F, maxMag float64) bool {
	magSq := V2FMagSq(*v)
	if magSq <= maxMag*maxMag {
		return false
	}
	scale := maxMag / math.Sqrt(magSq)
	v.X *= scale
	v.Y *= scale
	return true
}

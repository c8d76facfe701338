package vmath

import (
	"math"
)

// Vec3F is a float64 3D vector used for world-space transforms and shading normals
type Vec3F struct {
	X, Y, Z float64
}

func V3FAdd(a, b Vec3F) Vec3F {
	return Vec3F{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

func V3FSub(a, b Vec3F) Vec3F {
	return Vec3F{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

func V3FScale(v Vec3F, s float64) Vec3F {
	return Vec3F{v.X * s, v.Y * s, v.Z * s}
}

func V3FDot(a, b Vec3F) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func V3FMagSq(v Vec3F) float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func V3FMag(v Vec3F) float64 {
	return math.Sqrt(V3FMagSq(v))
}

func V3FNormalize(v Vec3F) Vec3F {
	mag := V3FMag(v)
	if mag == 0 {
		return Vec3F{}
	}
	inv := 1.0 / mag
	return Vec3F{v.X * inv, v.Y * inv, v.Z * inv}
}

func V3FCross(a, b Vec3F) Vec3F {
	return Vec3F{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// V3FMaxComponent returns the largest of X, Y, Z
func V3FMaxComponent(v Vec3F) float64 {
	return math.Max(v.X, math.Max(v.Y, v.Z))
}

// V3FRotateXYZ rotates about the fixed X axis, then Y, then Z
func V3FRotateXYZ(v Vec3F, rot Vec3F) Vec3F {
	sx, cx := math.Sincos(rot.X)
	y := v.Y*cx - v.Z*sx
	z := v.Y*sx + v.Z*cx
	v.Y, v.Z = y, z

	sy, cy := math.Sincos(rot.Y)
	x := v.X*cy + v.Z*sy
	z = -v.X*sy + v.Z*cy
	v.X, v.Z = x, z

	sz, cz := math.Sincos(rot.Z)
	x = v.X*cz - v.Y*sz
	y = v.X*sz + v.Y*cz
	v.X, v.Y = x, y
	return v
}

package projection

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lixenwraith/heartfall/vmath"
)

var testCam = Camera{FovDeg: 25, Distance: 24, Near: 0.1, Far: 1000}

func TestComputeMatchesFormula(t *testing.T) {
	vp := Viewport{Width: 1600, Height: 900}
	ws := Compute(testCam, vp)

	wantH := 2 * 24 * math.Tan(25*math.Pi/180/2)
	assert.InDelta(t, wantH, ws.Height, 1e-12)
	assert.InDelta(t, wantH*1600/900, ws.Width, 1e-12)
	assert.InDelta(t, 900/wantH, ws.PixelsPerUnit, 1e-9)
}

func TestComputeDegenerateViewport(t *testing.T) {
	assert.Equal(t, WorldSpace{}, Compute(testCam, Viewport{Width: 800, Height: 0}))
	assert.Equal(t, WorldSpace{}, Compute(testCam, Viewport{}))
}

func TestToWorldCornersAndCenter(t *testing.T) {
	vp := Viewport{Width: 800, Height: 600}
	ws := Compute(testCam, vp)

	tests := []struct {
		name   string
		x, y   float64
		wx, wy float64
	}{
		{"center", 400, 300, 0, 0},
		{"top-left", 0, 0, -ws.Width / 2, ws.Height / 2},
		{"bottom-right", 800, 600, ws.Width / 2, -ws.Height / 2},
		{"below screen", 400, 900, 0, -ws.Height},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wx, wy := ws.ToWorld(vp, tt.x, tt.y)
			assert.InDelta(t, tt.wx, wx, 1e-9)
			assert.InDelta(t, tt.wy, wy, 1e-9)
		})
	}
}

func TestToPixelInvertsToWorld(t *testing.T) {
	vp := Viewport{Width: 1280, Height: 720}
	ws := Compute(testCam, vp)

	for _, p := range [][2]float64{{0, 0}, {17, 700}, {1280, 360}, {-50, -200}} {
		wx, wy := ws.ToWorld(vp, p[0], p[1])
		x, y := ws.ToPixel(vp, wx, wy)
		assert.InDelta(t, p[0], x, 1e-9)
		assert.InDelta(t, p[1], y, 1e-9)
	}
}

func TestProjectAgreesOnFocusPlane(t *testing.T) {
	vp := Viewport{Width: 1024, Height: 768}
	ws := Compute(testCam, vp)

	wx, wy := ws.ToWorld(vp, 200, 100)
	x, y, ppu, ok := Project(testCam, vp, vmath.Vec3F{X: wx, Y: wy, Z: 0})
	assert.True(t, ok)
	assert.InDelta(t, 200, x, 1e-9)
	assert.InDelta(t, 100, y, 1e-9)
	assert.InDelta(t, ws.PixelsPerUnit, ppu, 1e-9)
}

func TestProjectDeeperLayersShrink(t *testing.T) {
	vp := Viewport{Width: 1024, Height: 768}
	_, _, front, _ := Project(testCam, vp, vmath.Vec3F{Z: 0})
	_, _, back, _ := Project(testCam, vp, vmath.Vec3F{Z: -6})
	assert.Less(t, back, front)
	assert.InDelta(t, front*24/30, back, 1e-9)

	_, _, _, ok := Project(testCam, vp, vmath.Vec3F{Z: 24})
	assert.False(t, ok, "point on camera plane")
}

func TestMeshScale(t *testing.T) {
	// 200px radius at 10 px/unit is 20 units radius, 40 diameter, over a 2-unit mesh
	assert.InDelta(t, 20.0, MeshScale(200, 10, 2), 1e-12)
	assert.Equal(t, 0.0, MeshScale(200, 10, 0))
	assert.Equal(t, 0.0, MeshScale(200, 0, 2))
}

func TestViewportUpdate(t *testing.T) {
	vp := NewViewport(800, 600)
	before := Compute(testCam, *vp)

	vp.Update(1600, 600)
	after := Compute(testCam, *vp)

	assert.InDelta(t, before.Height, after.Height, 1e-12, "height depends only on camera")
	assert.InDelta(t, before.Width*2, after.Width, 1e-9)
	assert.InDelta(t, 1600.0/600, vp.Aspect(), 1e-12)
}

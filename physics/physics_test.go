package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/heartfall/config"
	"github.com/lixenwraith/heartfall/projection"
	"github.com/lixenwraith/heartfall/render"
	"github.com/lixenwraith/heartfall/vmath"
)

const floatTol = 1e-9

func defaultParams() Params {
	return ParamsFromConfig(&config.Default().Hearts)
}

func activeBody(index int, x, y, layer, visual float64) *Body {
	b := NewBody(index, vmath.Vec2F{X: x, Y: y}, vmath.Vec2F{}, layer, visual, 0, 0)
	b.Activate()
	return b
}

type recordingBinding struct {
	visible   bool
	shows     int
	last      render.Transform
	transform int
}

func (r *recordingBinding) SetTransform(t render.Transform) {
	r.last = t
	r.transform++
}

func (r *recordingBinding) SetVisible(v bool) {
	r.visible = v
	r.shows++
}

func TestNewBodyClampsRadius(t *testing.T) {
	b := NewBody(0, vmath.Vec2F{}, vmath.Vec2F{}, 0, 0, 0, 0)
	assert.Greater(t, b.Radius(), 0.0)

	b = NewBody(0, vmath.Vec2F{}, vmath.Vec2F{}, -3, 200, 20, 0.001)
	assert.Equal(t, 220.0, b.Radius())
	assert.Equal(t, 200.0, b.VisualRadius())
	assert.Equal(t, -3.0, b.Layer())
	assert.False(t, b.Active())
}

func TestActivateIsOneWay(t *testing.T) {
	rb := &recordingBinding{}
	b := NewBody(0, vmath.Vec2F{}, vmath.Vec2F{}, 0, 10, 0, 0)
	b.Binding = rb

	assert.True(t, b.Activate())
	assert.False(t, b.Activate())
	assert.True(t, b.Active())
	assert.True(t, rb.visible)
	assert.Equal(t, 1, rb.shows)
}

func TestInactiveBodyDoesNotMove(t *testing.T) {
	b := NewBody(0, vmath.Vec2F{X: 10, Y: 10}, vmath.Vec2F{X: 3, Y: 3}, 0, 10, 0, 0.1)
	vp := *projection.NewViewport(800, 600)

	ev := Step(b, nil, defaultParams(), vp)
	assert.Equal(t, Events{}, ev)
	assert.Equal(t, vmath.Vec2F{X: 10, Y: 10}, b.Pos)
	assert.Equal(t, vmath.Vec2F{X: 3, Y: 3}, b.Vel)
	assert.Equal(t, vmath.Vec3F{}, b.Rotation)
}

func TestSpeedNeverExceedsMax(t *testing.T) {
	p := defaultParams()
	vp := *projection.NewViewport(4000, 4000)

	b := activeBody(0, 2000, 2000, 0, 10)
	b.Vel = vmath.Vec2F{X: 300, Y: -400}
	Step(b, nil, p, vp)

	assert.LessOrEqual(t, math.Sqrt(vmath.V2FMagSq(b.Vel)), p.MaxSpeed*p.Damping+floatTol)
}

func TestPositionStaysInsideMargin(t *testing.T) {
	p := defaultParams()
	vp := *projection.NewViewport(800, 600)
	rng := vmath.NewFastRand(7)

	for i := 0; i < 200; i++ {
		b := activeBody(i, rng.Float64()*1600-400, rng.Float64()*1200-300, 0, 50)
		b.Vel = vmath.Vec2F{X: rng.Spread(200), Y: rng.Spread(200)}
		for n := 0; n < 20; n++ {
			Step(b, nil, p, vp)
			require.GreaterOrEqual(t, b.Pos.X, -p.Margin)
			require.LessOrEqual(t, b.Pos.X, vp.Width+p.Margin)
			require.GreaterOrEqual(t, b.Pos.Y, -p.Margin)
			require.LessOrEqual(t, b.Pos.Y, vp.Height+p.Margin)
		}
	}
}

func TestReflectBoundsPointsInward(t *testing.T) {
	vp := *projection.NewViewport(800, 600)

	b := activeBody(0, -50, 300, 0, 10)
	b.Vel = vmath.Vec2F{X: -5}
	hit, floor := ReflectBounds(b, vp, 20, 0.9)
	assert.Equal(t, HitLeft, hit)
	assert.Zero(t, floor)
	assert.Equal(t, -20.0, b.Pos.X)
	assert.InDelta(t, 4.5, b.Vel.X, floatTol)

	// Already moving inward: still inward after reflection
	b = activeBody(0, 900, 300, 0, 10)
	b.Vel = vmath.Vec2F{X: -2}
	hit, _ = ReflectBounds(b, vp, 20, 0.9)
	assert.Equal(t, HitRight, hit)
	assert.Less(t, b.Vel.X, 0.0)

	b = activeBody(0, 400, 700, 0, 10)
	b.Vel = vmath.Vec2F{Y: 10}
	hit, floor = ReflectBounds(b, vp, 20, 0.9)
	assert.Equal(t, HitBottom, hit)
	assert.Equal(t, 10.0, floor)
	assert.Equal(t, 620.0, b.Pos.Y)
	assert.InDelta(t, -9.0, b.Vel.Y, floatTol)
}

func TestDampingDecaysGeometrically(t *testing.T) {
	p := defaultParams()
	p.Gravity = 0
	vp := *projection.NewViewport(10000, 10000)

	b := activeBody(0, 5000, 5000, 0, 10)
	b.Vel = vmath.Vec2F{X: 1}

	const n = 25
	for i := 0; i < n; i++ {
		Step(b, nil, p, vp)
	}
	assert.InDelta(t, math.Pow(p.Damping, n), b.Vel.X, floatTol)
	assert.Zero(t, b.Vel.Y)
}

func TestResolvePairHeadOnSeparation(t *testing.T) {
	a := activeBody(0, 100, 300, 0, 80)
	b := activeBody(1, 180, 300, 0, 80)

	c, ok := ResolvePair(a, b, 0.9, 2.0)
	require.True(t, ok)
	assert.InDelta(t, 80.0, c.Overlap, floatTol)
	assert.InDelta(t, 160.0, c.Separation, floatTol)
	assert.Zero(t, c.Bounce)
	assert.InDelta(t, -1.0, c.Normal.X, floatTol)

	assert.InDelta(t, -160.0, a.Vel.X, floatTol)
	assert.InDelta(t, 160.0, b.Vel.X, floatTol)
}

func TestResolvePairConservesMomentum(t *testing.T) {
	rng := vmath.NewFastRand(3)
	for i := 0; i < 100; i++ {
		a := activeBody(0, 0, 0, 0, 50)
		b := activeBody(1, rng.Spread(150), rng.Spread(150), 0, 50)
		a.Vel = vmath.Vec2F{X: rng.Spread(20), Y: rng.Spread(20)}
		b.Vel = vmath.Vec2F{X: rng.Spread(20), Y: rng.Spread(20)}
		before := vmath.V2FAdd(a.Vel, b.Vel)

		ResolvePair(a, b, 0.9, 2.0)

		after := vmath.V2FAdd(a.Vel, b.Vel)
		assert.InDelta(t, before.X, after.X, 1e-6)
		assert.InDelta(t, before.Y, after.Y, 1e-6)
	}
}

func TestResolvePairBouncesOnlyWhenClosing(t *testing.T) {
	a := activeBody(0, 0, 0, 0, 50)
	b := activeBody(1, 90, 0, 0, 50)

	// Closing: a moves toward b
	a.Vel = vmath.Vec2F{X: 10}
	c, ok := ResolvePair(a, b, 0.5, 0)
	require.True(t, ok)
	assert.InDelta(t, 5.0, c.Bounce, floatTol)
	assert.InDelta(t, 5.0, a.Vel.X, floatTol)
	assert.InDelta(t, 5.0, b.Vel.X, floatTol)

	// Separating: no bounce term
	a.Vel = vmath.Vec2F{X: -10}
	b.Vel = vmath.Vec2F{}
	c, ok = ResolvePair(a, b, 0.5, 0)
	require.True(t, ok)
	assert.Zero(t, c.Bounce)
	assert.Equal(t, -10.0, a.Vel.X)
}

func TestResolvePairSkipsCoincidentAndDistant(t *testing.T) {
	a := activeBody(0, 100, 100, 0, 50)
	b := activeBody(1, 100.5, 100, 0, 50)
	_, ok := ResolvePair(a, b, 0.9, 2)
	assert.False(t, ok)
	assert.Equal(t, vmath.Vec2F{}, a.Vel)

	c := activeBody(2, 300, 100, 0, 50)
	_, ok = ResolvePair(a, c, 0.9, 2)
	assert.False(t, ok)
}

func TestLayerGateIsolatesPlanes(t *testing.T) {
	p := defaultParams()
	p.Gravity = 0
	vp := *projection.NewViewport(2000, 2000)

	a := activeBody(0, 1000, 1000, 0, 100)
	b := activeBody(1, 1050, 1000, -3, 100)
	c := activeBody(2, 950, 1000, -0.5, 100)

	assert.False(t, Interacts(a, b, p.LayerGate))
	assert.True(t, Interacts(a, c, p.LayerGate))
	assert.False(t, Interacts(a, a, p.LayerGate))

	ev := Step(a, []*Body{a, b}, p, vp)
	assert.Zero(t, ev.Contacts)
	assert.Equal(t, vmath.Vec2F{}, a.Vel)
}

func TestInactiveNeighborIgnored(t *testing.T) {
	a := activeBody(0, 100, 100, 0, 50)
	b := NewBody(1, vmath.Vec2F{X: 120, Y: 100}, vmath.Vec2F{}, 0, 50, 0, 0)
	assert.False(t, Interacts(a, b, 1))
}

func TestSingleBodySettlesOnFloor(t *testing.T) {
	p := defaultParams()
	vp := *projection.NewViewport(800, 600)

	b := activeBody(0, 400, -300, 0, 200)
	var impacts int
	for i := 0; i < 3000; i++ {
		ev := Step(b, nil, p, vp)
		if ev.Boundary&HitBottom != 0 {
			impacts++
		}
	}

	assert.Greater(t, impacts, 0)
	assert.InDelta(t, vp.Height+p.Margin, b.Pos.Y, 1.0)
	assert.Less(t, math.Abs(b.Vel.Y), 1.0)
	assert.InDelta(t, 400.0, b.Pos.X, floatTol)
}

func TestSpinIgnoresContacts(t *testing.T) {
	p := defaultParams()
	vp := *projection.NewViewport(2000, 2000)

	a := NewBody(0, vmath.Vec2F{X: 1000, Y: 1000}, vmath.Vec2F{}, 0, 100, 0, 0.01)
	a.Activate()
	b := activeBody(1, 1050, 1000, 0, 100)

	for i := 0; i < 10; i++ {
		Step(a, []*Body{b}, p, vp)
	}
	assert.InDelta(t, 0.1, a.Rotation.Y, floatTol)
	assert.InDelta(t, 0.1*p.SpinTilt, a.Rotation.X, floatTol)
	assert.Zero(t, a.Rotation.Z)
}

func TestSyncPushesWorldTransform(t *testing.T) {
	vp := *projection.NewViewport(800, 600)
	ws := projection.Compute(projection.CameraFromConfig(config.Default().Camera), vp)

	b := activeBody(0, 400, 300, -3, 10)
	b.Rotation = vmath.Vec3F{X: 0.1, Y: 0.2, Z: 0.3}
	b.Sync(ws, vp) // no binding, no panic

	rb := &recordingBinding{}
	b.Binding = rb
	b.Sync(ws, vp)

	assert.Equal(t, 1, rb.transform)
	assert.InDelta(t, 0, rb.last.Position.X, floatTol)
	assert.InDelta(t, 0, rb.last.Position.Y, floatTol)
	assert.Equal(t, -3.0, rb.last.Position.Z)
	assert.Equal(t, b.Rotation, rb.last.Rotation)
}

func TestEventsAdd(t *testing.T) {
	var total Events
	total.Add(Events{Contacts: 2, Boundary: HitLeft, FloorImpact: 3})
	total.Add(Events{Contacts: 1, Boundary: HitBottom, FloorImpact: 7})
	total.Add(Events{FloorImpact: 5})

	assert.Equal(t, 3, total.Contacts)
	assert.Equal(t, HitLeft|HitBottom, total.Boundary)
	assert.Equal(t, 7.0, total.FloorImpact)
}

package rigid

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/heartfall/asset"
	"github.com/lixenwraith/heartfall/config"
	"github.com/lixenwraith/heartfall/engine"
	"github.com/lixenwraith/heartfall/physics"
	"github.com/lixenwraith/heartfall/projection"
	"github.com/lixenwraith/heartfall/render"
	"github.com/lixenwraith/heartfall/vmath"
)

var testViewport = projection.Viewport{Width: 1000, Height: 800}

type recordBinding struct {
	visible bool
	last    render.Transform
}

func (b *recordBinding) SetTransform(t render.Transform) { b.last = t }
func (b *recordBinding) SetVisible(v bool) { b.visible = v }

type recordFactory struct {
	bindings []*recordBinding
	scale    float64
}

func (f *recordFactory) NewBinding(index int, scale float64) render.Binding {
	b := &recordBinding{}
	f.bindings = append(f.bindings, b)
	f.scale = scale
	return b
}

func newWorld(t *testing.T, perLayer int, layers ...float64) *World {
	t.Helper()
	cfg := config.Default()
	cfg.Rigid.CountPerLayer = perLayer
	if len(layers) > 0 {
		cfg.Hearts.Layers = layers
	}
	w, err := NewWorld(cfg, testViewport, vmath.NewFastRand(7))
	require.NoError(t, err)
	return w
}

func groundTop(w *World, height float64) float64 {
	r := w.cfg.Rigid
	return height + r.GroundOffset - r.GroundThickness/2
}

func TestNewWorldValidates(t *testing.T) {
	cfg := config.Default()
	cfg.Rigid.Iterations = 0
	_, err := NewWorld(cfg, testViewport, nil)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestSpawnAboveViewport(t *testing.T) {
	w := newWorld(t, 20)
	require.Equal(t, 60, w.Count())
	require.Equal(t, 3, w.Layers())

	r := w.cfg.Rigid
	for i := 0; i < w.Count(); i++ {
		x, y, a := w.Position(i)
		assert.GreaterOrEqual(t, x, 0.0)
		assert.LessOrEqual(t, x, testViewport.Width)
		assert.LessOrEqual(t, y, r.SpawnOffsetY)
		assert.GreaterOrEqual(t, y, r.SpawnOffsetY-testViewport.Height*r.SpawnRangeY)
		assert.GreaterOrEqual(t, a, 0.0)
		assert.Less(t, a, 2*math.Pi)
	}
}

func TestHeartsLandOnGround(t *testing.T) {
	w := newWorld(t, 3, 0)
	radius := w.cfg.Rigid.VisualRadius + w.cfg.Rigid.Padding
	floor := groundTop(w, testViewport.Height)

	var events physics.Events
	for i := 0; i < 600; i++ {
		st := w.Tick()
		events.Add(st.Events)
		assert.Equal(t, 3, st.Active)
	}

	assert.NotZero(t, events.Boundary&physics.HitBottom)
	assert.Greater(t, events.FloorImpact, 4.0)
	for i := 0; i < w.Count(); i++ {
		x, y, _ := w.Position(i)
		assert.LessOrEqual(t, y, floor-radius+2, "heart %d below the ground", i)
		assert.Greater(t, y, testViewport.Height/2, "heart %d still falling", i)
		assert.Greater(t, x, -w.cfg.Rigid.WallOffset)
		assert.Less(t, x, testViewport.Width+w.cfg.Rigid.WallOffset)
	}
}

func TestLayersDoNotInteract(t *testing.T) {
	w := newWorld(t, 1, 0, -3)
	// Stack both hearts on the same column; with one space per layer they never touch
	for i, h := range w.hearts {
		h.body.SetPosition(cp.Vector{X: 500, Y: -300 - float64(i)*200})
		h.body.SetAngularVelocity(0)
	}
	var contacts int
	for i := 0; i < 300; i++ {
		contacts += w.Tick().Events.Contacts
	}
	assert.Zero(t, contacts)
	_, y0, _ := w.Position(0)
	_, y1, _ := w.Position(1)
	assert.InDelta(t, y0, y1, 1, "both rest on their own ground")
}

func TestResizeMovesWalls(t *testing.T) {
	w := newWorld(t, 3, 0)
	for i := 0; i < 600; i++ {
		w.Tick()
	}

	w.Resize(1000, 1600)
	for i := 0; i < 300; i++ {
		w.Tick()
	}
	radius := w.cfg.Rigid.VisualRadius + w.cfg.Rigid.Padding
	floor := groundTop(w, 1600)
	for i := 0; i < w.Count(); i++ {
		_, y, _ := w.Position(i)
		assert.Greater(t, y, 1000.0, "heart %d followed the ground down", i)
		assert.LessOrEqual(t, y, floor-radius+2)
	}
	for _, l := range w.layers {
		assert.Len(t, l.walls, 3)
	}
}

func TestAssetsLoadedBindsVisible(t *testing.T) {
	w := newWorld(t, 2)
	tpl, err := asset.NewHeartLoader().Load(context.Background())
	require.NoError(t, err)

	f := &recordFactory{}
	require.NoError(t, w.AssetsLoaded(tpl, f))
	assert.Equal(t, engine.StateRunning, w.State())
	assert.ErrorIs(t, w.AssetsLoaded(tpl, f), engine.ErrAlreadyLoaded)
	require.Len(t, f.bindings, 6)

	ws := projection.Compute(w.cam, testViewport)
	assert.InDelta(t, projection.MeshScale(w.cfg.Rigid.VisualRadius, ws.PixelsPerUnit, tpl.MaxDimension()), f.scale, 1e-12)
	for _, b := range f.bindings {
		assert.True(t, b.visible)
	}

	st := w.Tick()
	assert.Equal(t, 6, st.Activated)
	assert.Zero(t, w.Tick().Activated)

	// Orientation follows the body angle
	_, _, a := w.Position(0)
	rot := f.bindings[0].last.Rotation
	assert.InDelta(t, -a, rot.Z, 1e-12)
	assert.InDelta(t, math.Sin(a)*tiltX, rot.X, 1e-12)
	assert.InDelta(t, math.Cos(a)*tiltY, rot.Y, 1e-12)
	assert.Equal(t, w.cfg.Hearts.Layers[0], f.bindings[0].last.Position.Z)
}

func TestAssetsFailedRunsHeadless(t *testing.T) {
	w := newWorld(t, 1)
	loadErr := errors.New("no model")
	w.AssetsFailed(loadErr)
	assert.Equal(t, loadErr, w.LoadErr())
	assert.Equal(t, engine.StateRunning, w.State())
	assert.Equal(t, 3, w.Tick().Activated)

	assert.Error(t, w.AssetsLoaded(nil, nil))
}

func TestInstances(t *testing.T) {
	w := newWorld(t, 2)
	w.Tick()
	inst := w.Instances(nil)
	require.Len(t, inst, 6)
	for i, in := range inst {
		x, y, _ := w.Position(i)
		assert.Equal(t, i, in.Index)
		assert.Equal(t, x, in.PixelX)
		assert.Equal(t, y, in.PixelY)
		assert.Equal(t, w.cfg.Rigid.VisualRadius, in.PixelRad)
	}
}

// Package engine owns the heart field: bodies, spatial grid, staged activation and the per-frame tick
package engine

import (
	"fmt"
	"log"

	"github.com/lixenwraith/heartfall/asset"
	"github.com/lixenwraith/heartfall/config"
	"github.com/lixenwraith/heartfall/parameter"
	"github.com/lixenwraith/heartfall/physics"
	"github.com/lixenwraith/heartfall/projection"
	"github.com/lixenwraith/heartfall/render"
	"github.com/lixenwraith/heartfall/spatial"
	"github.com/lixenwraith/heartfall/vmath"
)

// Manager runs the bespoke heart simulation
// Not safe for concurrent use; the host loop owns it
type Manager struct {
	cfg    *config.Config
	params physics.Params
	cam    projection.Camera
	vp     projection.Viewport
	ws     projection.WorldSpace
	rng    *vmath.FastRand

	bodies []*physics.Body
	grid   *spatial.Grid

	// Per-tick scratch, reused across frames
	ids       []int
	neighbors []*physics.Body
	due       []int

	state    State
	schedule *SpawnSchedule
	frame    uint64
	scale    float64
	loadErr  error
}

// NewManager validates cfg and creates every body, all inactive
// Initial positions depend on vp, so it should be the real screen size
func NewManager(cfg *config.Config, vp projection.Viewport, rng *vmath.FastRand) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = vmath.NewFastRand(uint64(cfg.Hearts.Seed))
	}

	h := &cfg.Hearts
	m := &Manager{
		cfg:    cfg,
		params: physics.ParamsFromConfig(h),
		cam:    projection.CameraFromConfig(cfg.Camera),
		vp:     vp,
		rng:    rng,
		bodies: make([]*physics.Body, h.Count),
		grid:   spatial.NewGrid(h.CellSize()),
	}
	m.ws = projection.Compute(m.cam, m.vp)

	for i := range m.bodies {
		m.bodies[i] = m.spawnBody(i)
	}
	return m, nil
}

// spawnBody places body i in the band above the viewport with a small sideways drift
func (m *Manager) spawnBody(i int) *physics.Body {
	h := &m.cfg.Hearts
	layer := h.Layers[m.rng.Intn(len(h.Layers))]
	pos := vmath.Vec2F{
		X: m.rng.Float64() * m.vp.Width,
		Y: h.SpawnOffsetY - m.rng.Float64()*m.vp.Height*h.SpawnRangeY,
	}
	vel := vmath.Vec2F{X: m.rng.Spread(h.InitialVelocityX)}
	return physics.NewBody(i, pos, vel, layer, h.VisualRadius, h.Padding, m.rng.Spread(h.RotationSpread))
}

// AssetsLoaded creates one binding per body and starts the spawn schedule
// factory may be nil for headless hosts
func (m *Manager) AssetsLoaded(tpl *asset.Template, factory render.BindingFactory) error {
	if m.state != StateUnloaded {
		return ErrAlreadyLoaded
	}
	if tpl == nil {
		return fmt.Errorf("assets loaded: %w", asset.ErrNoVertices)
	}

	m.ws = projection.Compute(m.cam, m.vp)
	m.scale = projection.MeshScale(m.cfg.Hearts.VisualRadius, m.ws.PixelsPerUnit, tpl.MaxDimension())
	if m.cfg.Hearts.DebugScaleReport {
		logScaleReport(m.cfg.Hearts.VisualRadius, m.ws.PixelsPerUnit, tpl.MaxDimension(), m.scale)
	}

	for _, b := range m.bodies {
		b.Rotation = m.randomTilt()
		if factory == nil {
			continue
		}
		b.Binding = factory.NewBinding(b.Index, m.scale)
		b.Binding.SetVisible(false)
		b.Sync(m.ws, m.vp)
	}

	m.startSchedule()
	return nil
}

// AssetsFailed records the load error and keeps the simulation running without bindings
func (m *Manager) AssetsFailed(err error) {
	if m.state != StateUnloaded {
		return
	}
	m.loadErr = err
	log.Printf("engine: asset load failed, running headless: %v", err)

	for _, b := range m.bodies {
		b.Rotation = m.randomTilt()
	}
	m.startSchedule()
}

func (m *Manager) randomTilt() vmath.Vec3F {
	return vmath.Vec3F{
		X: m.rng.Spread(parameter.HeartTiltSpreadX),
		Y: m.rng.Spread(parameter.HeartTiltSpreadY),
		Z: m.rng.Spread(parameter.HeartTiltSpreadZ),
	}
}

func (m *Manager) startSchedule() {
	h := &m.cfg.Hearts
	m.schedule = NewSpawnSchedule(m.frame, h.MsToTicks(h.StartDelayMs), h.MsToTicks(h.SpawnIntervalMs), len(m.bodies))
	m.state = StateLoaded
}

func logScaleReport(radiusPx, pxPerUnit, maxDim, scale float64) {
	log.Printf("engine: scale report: visual radius %.1f px, %.3f px/unit, model max dimension %.3f, world radius %.3f, scale %.4f",
		radiusPx, pxPerUnit, maxDim, radiusPx/pxPerUnit, scale)
}

// Tick advances the simulation one frame
func (m *Manager) Tick() Stats {
	m.frame++
	st := Stats{Frame: m.frame}

	st.Activated = m.advanceSchedule()

	collide := m.frame%uint64(m.cfg.Hearts.CollisionInterval) == 0
	st.CollisionPass = collide
	if collide {
		m.rebuildGrid()
	}

	for _, b := range m.bodies {
		if !b.Active() {
			continue
		}
		var neighbors []*physics.Body
		if collide {
			neighbors = m.gather(b)
		}
		st.Events.Add(physics.Step(b, neighbors, m.params, m.vp))
	}

	m.ws = projection.Compute(m.cam, m.vp)
	for _, b := range m.bodies {
		if !b.Active() {
			continue
		}
		// Contacts resolved after b stepped push it again without a cap
		physics.CapSpeed(b, m.params.MaxSpeed)
		b.Sync(m.ws, m.vp)
		st.Active++
		st.KineticEnergy += 0.5 * vmath.V2FMagSq(b.Vel)
	}

	st.State = m.state
	return st
}

// advanceSchedule fires due activations and moves the lifecycle forward
func (m *Manager) advanceSchedule() int {
	if m.schedule == nil {
		return 0
	}

	activated := 0
	m.due = m.schedule.Due(m.frame, m.due[:0])
	for _, idx := range m.due {
		if m.bodies[idx].Activate() {
			activated++
		}
	}

	if m.state == StateLoaded && m.schedule.Started() {
		m.state = StateSpawning
	}
	if m.state == StateSpawning && m.schedule.Done() {
		m.state = StateRunning
	}
	return activated
}

func (m *Manager) rebuildGrid() {
	m.grid.Clear()
	for i, b := range m.bodies {
		if b.Active() {
			m.grid.Insert(i, b.Pos.X, b.Pos.Y)
		}
	}
}

// gather returns the candidate neighbors of b, b itself included
func (m *Manager) gather(b *physics.Body) []*physics.Body {
	m.ids = m.grid.Nearby(b.Pos.X, b.Pos.Y, m.ids[:0])
	m.neighbors = m.neighbors[:0]
	for _, id := range m.ids {
		m.neighbors = append(m.neighbors, m.bodies[id])
	}
	return m.neighbors
}

// Resize updates the viewport; the world mapping is recomputed on the next tick
// Mesh scale is fixed at load time
func (m *Manager) Resize(width, height float64) {
	m.vp.Update(width, height)
}

// Instances appends the world transform of every active body
func (m *Manager) Instances(dst []render.Instance) []render.Instance {
	for _, b := range m.bodies {
		if !b.Active() {
			continue
		}
		inst := render.NewInstance(b.Index, b.Transform(m.ws, m.vp), m.scale)
		inst.PixelX, inst.PixelY = b.Pos.X, b.Pos.Y
		inst.PixelRad = b.VisualRadius()
		dst = append(dst, inst)
	}
	return dst
}

func (m *Manager) Bodies() []*physics.Body { return m.bodies }
func (m *Manager) State() State { return m.state }
func (m *Manager) Frame() uint64 { return m.frame }
func (m *Manager) LoadErr() error { return m.loadErr }
func (m *Manager) Scale() float64 { return m.scale }
func (m *Manager) Viewport() projection.Viewport { return m.vp }
func (m *Manager) WorldSpace() projection.WorldSpace { return m.ws }
func (m *Manager) Camera() projection.Camera { return m.cam }
func (m *Manager) Params() physics.Params { return m.params }

// Schedule reports activations still pending and whether the first has fired
func (m *Manager) Schedule() (pending int, started bool) {
	if m.schedule == nil {
		return len(m.bodies), false
	}
	return m.schedule.Remaining(), m.schedule.Started()
}

var _ Simulation = (*Manager)(nil)

// Package rigid runs the heart field on a rigid-body solver instead of the bespoke integrator
// Each depth layer is an independent space, hearts only collide within their layer
package rigid

import (
	"fmt"
	"log"
	"math"

	"github.com/jakecoffman/cp"

	"github.com/lixenwraith/heartfall/asset"
	"github.com/lixenwraith/heartfall/config"
	"github.com/lixenwraith/heartfall/engine"
	"github.com/lixenwraith/heartfall/physics"
	"github.com/lixenwraith/heartfall/projection"
	"github.com/lixenwraith/heartfall/render"
	"github.com/lixenwraith/heartfall/vmath"
)

const (
	collisionHeart cp.CollisionType = iota + 1
	collisionGround
	collisionWall
)

// Orientation coupling from body angle to mesh tilt
const (
	tiltX = 0.3
	tiltY = 0.4
)

// heart is one circle body and its optional render binding
type heart struct {
	index        int
	body         *cp.Body
	visualRadius float64
	z            float64
	binding      render.Binding
}

// layer is one space holding the hearts of a single depth plane
type layer struct {
	z      float64
	space  *cp.Space
	hearts []*heart
	walls  []*cp.Shape

	// Written by collision callbacks during Step
	events physics.Events
}

// World implements engine.Simulation on top of cp
// Not safe for concurrent use; the host loop owns it
type World struct {
	cfg *config.Config
	cam projection.Camera
	vp  projection.Viewport
	ws  projection.WorldSpace
	rng *vmath.FastRand
	dt  float64

	layers []*layer
	hearts []*heart

	// Lifecycle skips the staged spawn, Unloaded goes straight to Running
	state      engine.State
	frame      uint64
	scale      float64
	loadErr    error
	justLoaded bool
}

// NewWorld validates cfg and builds one space per layer
// Hearts are live immediately and fall from above the viewport
func NewWorld(cfg *config.Config, vp projection.Viewport, rng *vmath.FastRand) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = vmath.NewFastRand(uint64(cfg.Hearts.Seed))
	}

	w := &World{
		cfg: cfg,
		cam: projection.CameraFromConfig(cfg.Camera),
		vp:  vp,
		rng: rng,
		dt:  1.0 / float64(cfg.Hearts.TickRate),
	}
	w.ws = projection.Compute(w.cam, w.vp)

	index := 0
	for _, z := range cfg.Hearts.Layers {
		l := w.newLayer(z)
		for i := 0; i < cfg.Rigid.CountPerLayer; i++ {
			h := w.spawnHeart(l, index)
			l.hearts = append(l.hearts, h)
			w.hearts = append(w.hearts, h)
			index++
		}
		w.layers = append(w.layers, l)
	}
	return w, nil
}

func (w *World) newLayer(z float64) *layer {
	r := &w.cfg.Rigid
	l := &layer{z: z, space: cp.NewSpace()}
	l.space.Iterations = uint(r.Iterations)
	l.space.SetGravity(cp.Vector{X: 0, Y: r.Gravity})

	contacts := l.space.NewCollisionHandler(collisionHeart, collisionHeart)
	contacts.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, data interface{}) bool {
		l.events.Contacts++
		return true
	}

	floor := l.space.NewCollisionHandler(collisionHeart, collisionGround)
	floor.PostSolveFunc = func(arb *cp.Arbiter, space *cp.Space, data interface{}) {
		if !arb.IsFirstContact() {
			return
		}
		// Impulse over unit mass is the velocity change, reported per tick like the bespoke engine
		speed := arb.TotalImpulse().Length() * w.dt
		l.events.Boundary |= physics.HitBottom
		l.events.FloorImpact = math.Max(l.events.FloorImpact, speed)
	}

	w.placeWalls(l)
	return l
}

// placeWalls (re)creates the ground and side walls for the current viewport
// They sit outside the visible area so hearts pile up just below the bottom edge
func (w *World) placeWalls(l *layer) {
	for _, s := range l.walls {
		l.space.RemoveShape(s)
	}
	l.walls = l.walls[:0]

	r := &w.cfg.Rigid
	width, height := w.vp.Width, w.vp.Height
	wallH := height * r.WallHeightFactor

	add := func(cx, cy, bw, bh float64, kind cp.CollisionType) {
		bb := cp.BB{L: cx - bw/2, B: cy - bh/2, R: cx + bw/2, T: cy + bh/2}
		shape := cp.NewBox2(l.space.StaticBody, bb, 0)
		shape.SetElasticity(r.Elasticity)
		shape.SetFriction(r.Friction)
		shape.SetCollisionType(kind)
		l.walls = append(l.walls, l.space.AddShape(shape))
	}
	add(width/2, height+r.GroundOffset, r.WallWidth, r.GroundThickness, collisionGround)
	add(-r.WallOffset, height/2, r.WallThickness, wallH, collisionWall)
	add(width+r.WallOffset, height/2, r.WallThickness, wallH, collisionWall)
}

func (w *World) spawnHeart(l *layer, index int) *heart {
	r := &w.cfg.Rigid
	radius := r.VisualRadius + r.Padding

	body := l.space.AddBody(cp.NewBody(1, cp.MomentForCircle(1, 0, radius, cp.Vector{})))
	body.SetPosition(cp.Vector{
		X: w.rng.Float64() * w.vp.Width,
		Y: r.SpawnOffsetY - w.rng.Float64()*w.vp.Height*r.SpawnRangeY,
	})
	body.SetAngle(w.rng.Float64() * 2 * math.Pi)
	body.SetAngularVelocity(w.rng.Spread(r.AngularSpread))

	shape := l.space.AddShape(cp.NewCircle(body, radius, cp.Vector{}))
	shape.SetElasticity(r.Elasticity)
	shape.SetFriction(r.Friction)
	shape.SetCollisionType(collisionHeart)

	return &heart{index: index, body: body, visualRadius: r.VisualRadius, z: l.z}
}

// AssetsLoaded creates a visible binding per heart
func (w *World) AssetsLoaded(tpl *asset.Template, factory render.BindingFactory) error {
	if w.state != engine.StateUnloaded {
		return engine.ErrAlreadyLoaded
	}
	if tpl == nil {
		return fmt.Errorf("assets loaded: %w", asset.ErrNoVertices)
	}

	w.ws = projection.Compute(w.cam, w.vp)
	w.scale = projection.MeshScale(w.cfg.Rigid.VisualRadius, w.ws.PixelsPerUnit, tpl.MaxDimension())
	if factory != nil {
		for _, h := range w.hearts {
			h.binding = factory.NewBinding(h.index, w.scale)
			h.binding.SetTransform(w.transform(h))
			h.binding.SetVisible(true)
		}
	}
	w.state = engine.StateRunning
	w.justLoaded = true
	return nil
}

// AssetsFailed keeps the solver running without bindings
func (w *World) AssetsFailed(err error) {
	if w.state != engine.StateUnloaded {
		return
	}
	w.loadErr = err
	log.Printf("rigid: asset load failed, running headless: %v", err)
	w.state = engine.StateRunning
	w.justLoaded = true
}

// Tick steps every layer by one fixed timestep
func (w *World) Tick() engine.Stats {
	w.frame++
	st := engine.Stats{Frame: w.frame, CollisionPass: true}
	if w.justLoaded {
		st.Activated = len(w.hearts)
		w.justLoaded = false
	}

	for _, l := range w.layers {
		l.events = physics.Events{}
		l.space.Step(w.dt)
		st.Events.Add(l.events)
	}

	w.ws = projection.Compute(w.cam, w.vp)
	for _, h := range w.hearts {
		if h.binding != nil {
			h.binding.SetTransform(w.transform(h))
		}
		v := h.body.Velocity().Mult(w.dt)
		st.KineticEnergy += 0.5 * v.LengthSq()
	}
	st.Active = len(w.hearts)
	st.State = w.state
	return st
}

// transform maps body position and angle into the heart's world transform
func (w *World) transform(h *heart) render.Transform {
	p := h.body.Position()
	a := h.body.Angle()
	wx, wy := w.ws.ToWorld(w.vp, p.X, p.Y)
	return render.Transform{
		Position: vmath.Vec3F{X: wx, Y: wy, Z: h.z},
		Rotation: vmath.Vec3F{X: math.Sin(a) * tiltX, Y: math.Cos(a) * tiltY, Z: -a},
	}
}

// Resize moves the walls to the new viewport edges
func (w *World) Resize(width, height float64) {
	w.vp.Update(width, height)
	for _, l := range w.layers {
		w.placeWalls(l)
	}
}

// Instances appends the world transform of every heart
func (w *World) Instances(dst []render.Instance) []render.Instance {
	for _, h := range w.hearts {
		inst := render.NewInstance(h.index, w.transform(h), w.scale)
		p := h.body.Position()
		inst.PixelX, inst.PixelY = p.X, p.Y
		inst.PixelRad = h.visualRadius
		dst = append(dst, inst)
	}
	return dst
}

func (w *World) State() engine.State { return w.state }
func (w *World) LoadErr() error { return w.loadErr }
func (w *World) Frame() uint64 { return w.frame }
func (w *World) Scale() float64 { return w.scale }
func (w *World) Count() int { return len(w.hearts) }
func (w *World) Layers() int { return len(w.layers) }

// Position returns the pixel position and angle of heart i
func (w *World) Position(i int) (x, y, angle float64) {
	p := w.hearts[i].body.Position()
	return p.X, p.Y, w.hearts[i].body.Angle()
}

var _ engine.Simulation = (*World)(nil)

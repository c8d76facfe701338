// Package host wires a simulation to its asset load, sound and viewer stream
// The command line hosts own a Session and drive it from their frame loop
package host

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/lixenwraith/heartfall/asset"
	"github.com/lixenwraith/heartfall/audio"
	"github.com/lixenwraith/heartfall/config"
	"github.com/lixenwraith/heartfall/engine"
	"github.com/lixenwraith/heartfall/network"
	"github.com/lixenwraith/heartfall/projection"
	"github.com/lixenwraith/heartfall/render"
	"github.com/lixenwraith/heartfall/rigid"
)

// ErrUnknownEngine is returned for an engine name no simulation answers to
var ErrUnknownEngine = errors.New("unknown engine")

// Engine names accepted by NewSimulation
const (
	EngineBespoke = "bespoke"
	EngineRigid   = "rigid"
)

// NewSimulation builds the named simulation for viewport vp
func NewSimulation(name string, cfg *config.Config, vp projection.Viewport) (engine.Simulation, error) {
	switch name {
	case EngineBespoke, "":
		m, err := engine.NewManager(cfg, vp, nil)
		if err != nil {
			return nil, err
		}
		return m, nil
	case EngineRigid:
		w, err := rigid.NewWorld(cfg, vp, nil)
		if err != nil {
			return nil, err
		}
		return w, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, name)
	}
}

// BodyCount is how many hearts the named engine creates
func BodyCount(name string, cfg *config.Config) int {
	if name == EngineRigid {
		return cfg.Rigid.CountPerLayer * len(cfg.Hearts.Layers)
	}
	return cfg.Hearts.Count
}

// Options selects what a Session wires around the simulation
type Options struct {
	Engine string
	Model  string
	Sound  bool
	Serve  bool
	// Address overrides the configured stream address when set
	Address string
}

// View is the renderer side of a session, nil for headless hosts
type View interface {
	render.BindingFactory
	SetTemplate(tpl *asset.Template)
	Reset()
}

// Session owns one simulation and everything fed by its ticks
// Not safe for concurrent use; the host loop owns it
type Session struct {
	cfg  *config.Config
	opts Options
	view View

	sim    engine.Simulation
	vp     projection.Viewport
	future *asset.Future
	tpl    *asset.Template
	cancel context.CancelFunc

	player *audio.Player
	hub    *network.Hub
	server *network.Server

	last      engine.Stats
	instances []render.Instance
}

// NewSession builds the simulation, starts the asset load and, when asked, the sound and stream
// Sound failures are logged and the session continues silent
func NewSession(cfg *config.Config, opts Options, vp projection.Viewport, view View) (*Session, error) {
	ctx, cancel := context.WithCancel(context.Background())
	s, err := newSession(cfg, opts, vp, view, asset.Start(ctx, asset.ForPath(opts.Model)), cancel)
	if err != nil {
		cancel()
		return nil, err
	}
	return s, nil
}

// NewSessionWithFuture is NewSession for a load already started elsewhere, such as on a GL thread
func NewSessionWithFuture(cfg *config.Config, opts Options, vp projection.Viewport, view View, future *asset.Future) (*Session, error) {
	return newSession(cfg, opts, vp, view, future, func() {})
}

func newSession(cfg *config.Config, opts Options, vp projection.Viewport, view View, future *asset.Future, cancel context.CancelFunc) (*Session, error) {
	sim, err := NewSimulation(opts.Engine, cfg, vp)
	if err != nil {
		return nil, err
	}
	if opts.Engine == "" {
		opts.Engine = EngineBespoke
	}

	s := &Session{
		cfg:    cfg,
		opts:   opts,
		view:   view,
		sim:    sim,
		vp:     vp,
		future: future,
		cancel: cancel,
	}

	if opts.Sound {
		acfg := cfg.Audio
		acfg.Enabled = true
		s.player = audio.NewPlayer(acfg)
		if err := s.player.Initialize(); err != nil {
			log.Printf("host: %v, continuing without sound", err)
		}
	}

	if opts.Serve {
		if err := s.startStream(); err != nil {
			s.Close(context.Background())
			return nil, err
		}
	}
	return s, nil
}

func (s *Session) startStream() error {
	ncfg := network.FromStream(s.cfg.Stream)
	if s.opts.Address != "" {
		ncfg.Address = s.opts.Address
	}
	s.hub = network.NewHub(ncfg, network.Hello{
		Type:         network.MsgHello,
		Engine:       s.opts.Engine,
		Count:        BodyCount(s.opts.Engine, s.cfg),
		VisualRadius: s.cfg.Hearts.VisualRadius,
		TickRate:     s.cfg.Hearts.TickRate,
	})
	s.server = network.NewServer(s.hub)
	if err := s.server.Start(); err != nil {
		return fmt.Errorf("stream: %w", err)
	}
	log.Printf("host: streaming on %s", s.server.Addr())
	return nil
}

// PollAssets delivers a finished load to the simulation exactly once
// Returns true on the call that delivered it
func (s *Session) PollAssets() bool {
	if s.future == nil || s.sim.State() != engine.StateUnloaded {
		return false
	}
	tpl, err := s.future.Poll()
	if errors.Is(err, asset.ErrPending) {
		return false
	}
	if err != nil {
		s.sim.AssetsFailed(err)
		return true
	}
	return s.deliver(tpl)
}

func (s *Session) deliver(tpl *asset.Template) bool {
	s.tpl = tpl
	var factory render.BindingFactory
	if s.view != nil {
		s.view.SetTemplate(tpl)
		factory = s.view
	}
	if err := s.sim.AssetsLoaded(tpl, factory); err != nil {
		log.Printf("host: assets rejected: %v", err)
		s.sim.AssetsFailed(err)
	}
	return true
}

// Tick advances the simulation once, feeds sound and publishes to viewers
func (s *Session) Tick() engine.Stats {
	st := s.sim.Tick()
	s.last = st

	if s.player != nil {
		s.player.Feed(st)
	}
	if s.hub != nil && s.hub.ShouldSend(st.Frame) {
		s.instances = s.sim.Instances(s.instances[:0])
		s.hub.Publish(&network.Frame{
			Type:      network.MsgFrame,
			Frame:     st.Frame,
			State:     st.State.String(),
			Width:     s.vp.Width,
			Height:    s.vp.Height,
			Instances: s.instances,
		})
	}
	return st
}

// Resize forwards a new viewport to the simulation
func (s *Session) Resize(vp projection.Viewport) {
	s.vp = vp
	s.sim.Resize(vp.Width, vp.Height)
}

// Reset replaces the simulation with a fresh one, reusing the loaded template
func (s *Session) Reset() error {
	sim, err := NewSimulation(s.opts.Engine, s.cfg, s.vp)
	if err != nil {
		return err
	}
	if s.view != nil {
		s.view.Reset()
	}
	s.sim = sim
	s.last = engine.Stats{}

	if s.tpl != nil {
		s.deliver(s.tpl)
		return nil
	}
	// A failed or pending load is picked up again by PollAssets
	if s.future == nil {
		return nil
	}
	if _, err := s.future.Poll(); err != nil && !errors.Is(err, asset.ErrPending) {
		s.sim.AssetsFailed(err)
	}
	return nil
}

// HUD fills the status line from the last tick
func (s *Session) HUD(tps float64) render.HUD {
	return render.HUD{
		Engine:  s.opts.Engine,
		State:   s.sim.State().String(),
		Active:  s.last.Active,
		Total:   BodyCount(s.opts.Engine, s.cfg),
		Frame:   s.last.Frame,
		TPS:     tps,
		Energy:  s.last.KineticEnergy,
		Clients: s.Clients(),
		Sound:   s.player != nil && s.player.Active(),
		Loading: s.last.Active == 0,
		LoadErr: s.sim.LoadErr(),
	}
}

// Clients is the number of connected viewers
func (s *Session) Clients() int {
	if s.hub == nil {
		return 0
	}
	return s.hub.ClientCount()
}

// StreamAddr is the bound stream address, empty when not serving
func (s *Session) StreamAddr() string {
	if s.server == nil {
		return ""
	}
	return s.server.Addr()
}

func (s *Session) Simulation() engine.Simulation { return s.sim }
func (s *Session) Last() engine.Stats { return s.last }
func (s *Session) Engine() string { return s.opts.Engine }

// Close stops the load, the stream and the sound device
func (s *Session) Close(ctx context.Context) {
	s.cancel()
	if s.server != nil {
		if err := s.server.Stop(ctx); err != nil {
			log.Printf("host: stream stop: %v", err)
		}
	}
	if s.player != nil {
		s.player.Cleanup()
	}
}

// Pacer converts elapsed wall time into whole ticks, bounded after a stall
type Pacer struct {
	interval time.Duration
	maxTicks int
	acc      time.Duration
}

// NewPacer creates a pacer for the tick interval, at most maxTicks per call
func NewPacer(interval time.Duration, maxTicks int) *Pacer {
	return &Pacer{interval: interval, maxTicks: max(maxTicks, 1)}
}

// Due adds elapsed and returns how many ticks to run now
// Time beyond maxTicks is dropped rather than carried
func (p *Pacer) Due(elapsed time.Duration) int {
	if p.interval <= 0 {
		return 0
	}
	p.acc += elapsed
	n := int(p.acc / p.interval)
	p.acc -= time.Duration(n) * p.interval
	if n > p.maxTicks {
		n = p.maxTicks
		p.acc = 0
	}
	return n
}

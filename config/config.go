// Package config holds the immutable heart-field configuration and its gcfg file loader
package config

import (
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"gopkg.in/gcfg.v1"

	"github.com/lixenwraith/heartfall/parameter"
)

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid config")

// Config is built once at startup and shared read-only by every component
type Config struct {
	Camera   CameraConfig
	Hearts   HeartsConfig
	Rigid    RigidConfig
	Terminal TerminalConfig
	Stream   StreamConfig
	Audio    AudioConfig
}

// CameraConfig describes the perspective camera the field is projected through
type CameraConfig struct {
	FovDeg   float64 `gcfg:"fov"`
	Distance float64 `gcfg:"distance"`
	Near     float64 `gcfg:"near"`
	Far      float64 `gcfg:"far"`
}

// HeartsConfig is the bespoke simulation surface
type HeartsConfig struct {
	Count              int       `gcfg:"count"`
	VisualRadius       float64   `gcfg:"visual-radius"`
	Padding            float64   `gcfg:"padding"`
	RepulsionForce     float64   `gcfg:"repulsion-force"`
	Damping            float64   `gcfg:"damping"`
	MaxSpeed           float64   `gcfg:"max-speed"`
	Gravity            float64   `gcfg:"gravity"`
	Layers             []float64 `gcfg:"layer"`
	LayerGate          float64   `gcfg:"layer-gate"`
	Bounce             float64   `gcfg:"bounce"`
	BoundaryMargin     float64   `gcfg:"boundary-margin"`
	CollisionInterval  int       `gcfg:"collision-interval"`
	StartDelayMs       int       `gcfg:"start-delay-ms"`
	SpawnIntervalMs    int       `gcfg:"spawn-interval-ms"`
	SpawnOffsetY       float64   `gcfg:"spawn-offset-y"`
	SpawnRangeY        float64   `gcfg:"spawn-range-y"`
	InitialVelocityX   float64   `gcfg:"initial-velocity-x"`
	RotationSpread     float64   `gcfg:"rotation-spread"`
	TickRate           int       `gcfg:"tick-rate"`
	Seed               int64     `gcfg:"seed"`
	DebugScaleReport   bool      `gcfg:"debug-scale-report"`
}

// RigidConfig configures the cp-backed variant, units are pixels and seconds
type RigidConfig struct {
	CountPerLayer    int     `gcfg:"count-per-layer"`
	VisualRadius     float64 `gcfg:"visual-radius"`
	Padding          float64 `gcfg:"padding"`
	Gravity          float64 `gcfg:"gravity"`
	Elasticity       float64 `gcfg:"elasticity"`
	Friction         float64 `gcfg:"friction"`
	Iterations       int     `gcfg:"iterations"`
	GroundOffset     float64 `gcfg:"ground-offset"`
	WallOffset       float64 `gcfg:"wall-offset"`
	GroundThickness  float64 `gcfg:"ground-thickness"`
	WallThickness    float64 `gcfg:"wall-thickness"`
	WallWidth        float64 `gcfg:"wall-width"`
	WallHeightFactor float64 `gcfg:"wall-height-factor"`
	AngularSpread    float64 `gcfg:"angular-spread"`
	SpawnOffsetY     float64 `gcfg:"spawn-offset-y"`
	SpawnRangeY      float64 `gcfg:"spawn-range-y"`
}

// TerminalConfig maps terminal cells to simulated pixels
type TerminalConfig struct {
	CellWidth  float64 `gcfg:"cell-width"`
	CellHeight float64 `gcfg:"cell-height"`
	ShowHUD    bool    `gcfg:"hud"`
}

// StreamConfig configures the websocket frame hub
type StreamConfig struct {
	Address    string `gcfg:"address"`
	Format     string `gcfg:"format"`
	SendEveryN int    `gcfg:"send-every"`
	MaxClients int    `gcfg:"max-clients"`
}

// AudioConfig configures impact sounds
type AudioConfig struct {
	Enabled         bool    `gcfg:"enabled"`
	Volume          float64 `gcfg:"volume"`
	ImpactThreshold float64 `gcfg:"impact-threshold"`
}

// Default returns the stock configuration
func Default() *Config {
	layers := make([]float64, len(parameter.HeartLayers))
	copy(layers, parameter.HeartLayers)

	return &Config{
		Camera: CameraConfig{
			FovDeg:   parameter.CameraFovDeg,
			Distance: parameter.CameraDistance,
			Near:     parameter.CameraNear,
			Far:      parameter.CameraFar,
		},
		Hearts: HeartsConfig{
			Count:             parameter.HeartCount,
			VisualRadius:      parameter.HeartVisualRadius,
			Padding:           parameter.HeartPadding,
			RepulsionForce:    parameter.HeartRepulsionForce,
			Damping:           parameter.HeartDamping,
			MaxSpeed:          parameter.HeartMaxSpeed,
			Gravity:           parameter.HeartGravity,
			Layers:            layers,
			LayerGate:         parameter.HeartLayerGate,
			Bounce:            parameter.HeartBounce,
			BoundaryMargin:    parameter.HeartMargin,
			CollisionInterval: parameter.HeartCollisionInterval,
			StartDelayMs:      parameter.HeartStartDelayMs,
			SpawnIntervalMs:   parameter.HeartSpawnIntervalMs,
			SpawnOffsetY:      parameter.HeartSpawnOffsetY,
			SpawnRangeY:       parameter.HeartSpawnRangeY,
			InitialVelocityX:  parameter.HeartInitialVelocityX,
			RotationSpread:    parameter.HeartRotationSpread,
			TickRate:          parameter.TickRate,
		},
		Rigid: RigidConfig{
			CountPerLayer:    parameter.RigidCountPerLayer,
			VisualRadius:     parameter.RigidVisualRadius,
			Padding:          parameter.RigidPadding,
			Gravity:          parameter.RigidGravity,
			Elasticity:       parameter.RigidElasticity,
			Friction:         parameter.RigidFriction,
			Iterations:       parameter.RigidIterations,
			GroundOffset:     parameter.RigidGroundOffset,
			WallOffset:       parameter.RigidWallOffset,
			GroundThickness:  parameter.RigidGroundThickness,
			WallThickness:    parameter.RigidWallThickness,
			WallWidth:        parameter.RigidWallWidth,
			WallHeightFactor: parameter.RigidWallHeightFactor,
			AngularSpread:    parameter.RigidAngularSpread,
			SpawnOffsetY:     parameter.RigidSpawnOffsetY,
			SpawnRangeY:      parameter.RigidSpawnRangeY,
		},
		Terminal: TerminalConfig{
			CellWidth:  parameter.TerminalCellWidth,
			CellHeight: parameter.TerminalCellHeight,
			ShowHUD:    true,
		},
		Stream: StreamConfig{
			Address:    parameter.StreamAddress,
			Format:     parameter.StreamDefaultFormat,
			SendEveryN: parameter.StreamSendEveryN,
			MaxClients: parameter.StreamMaxClients,
		},
		Audio: AudioConfig{
			Volume:          parameter.AudioVolume,
			ImpactThreshold: parameter.AudioImpactThreshold,
		},
	}
}

// Load reads a gcfg file over the defaults and validates the result
// Unknown variables are logged and ignored
func Load(path string) (*Config, error) {
	cfg := Default()
	cfg.Hearts.Layers = nil // multi-valued vars append, start empty

	if err := gcfg.FatalOnly(readFileInto(cfg, path)); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return finish(cfg)
}

// Parse is Load for in-memory content
func Parse(content string) (*Config, error) {
	cfg := Default()
	cfg.Hearts.Layers = nil

	if err := gcfg.FatalOnly(readStringInto(cfg, content)); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return finish(cfg)
}

func readFileInto(cfg *Config, path string) error {
	err := gcfg.ReadFileInto(cfg, path)
	logWarnings(err)
	return err
}

func readStringInto(cfg *Config, content string) error {
	err := gcfg.ReadStringInto(cfg, content)
	logWarnings(err)
	return err
}

func logWarnings(err error) {
	if err != nil && gcfg.FatalOnly(err) == nil {
		log.Printf("config: %v", err)
	}
}

func finish(cfg *Config) (*Config, error) {
	if len(cfg.Hearts.Layers) == 0 {
		cfg.Hearts.Layers = append(cfg.Hearts.Layers, parameter.HeartLayers...)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every out-of-range value, joined into one error
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	cam := c.Camera
	check(cam.FovDeg > 0 && cam.FovDeg < 180, "camera fov must be in (0, 180), got %g", cam.FovDeg)
	check(cam.Distance > 0, "camera distance must be positive, got %g", cam.Distance)
	check(cam.Near > 0 && cam.Near < cam.Far, "camera clip planes must satisfy 0 < near < far, got %g/%g", cam.Near, cam.Far)

	h := c.Hearts
	check(h.Count >= 1, "hearts count must be at least 1, got %d", h.Count)
	check(h.VisualRadius > 0, "hearts visual-radius must be positive, got %g", h.VisualRadius)
	check(h.Padding >= 0, "hearts padding must not be negative, got %g", h.Padding)
	check(h.RepulsionForce >= 0, "hearts repulsion-force must not be negative, got %g", h.RepulsionForce)
	check(h.Damping > 0 && h.Damping < 1, "hearts damping must be in (0, 1), got %g (values >= 1 add energy every tick)", h.Damping)
	check(h.MaxSpeed > 0, "hearts max-speed must be positive, got %g", h.MaxSpeed)
	check(!math.IsNaN(h.Gravity) && !math.IsInf(h.Gravity, 0), "hearts gravity must be finite")
	check(len(h.Layers) > 0, "hearts needs at least one layer")
	check(h.LayerGate >= 0, "hearts layer-gate must not be negative, got %g", h.LayerGate)
	check(h.Bounce >= 0 && h.Bounce <= 1, "hearts bounce must be in [0, 1], got %g", h.Bounce)
	check(h.BoundaryMargin >= 0, "hearts boundary-margin must not be negative, got %g", h.BoundaryMargin)
	check(h.CollisionInterval >= 1, "hearts collision-interval must be at least 1, got %d", h.CollisionInterval)
	check(h.StartDelayMs >= 0, "hearts start-delay-ms must not be negative, got %d", h.StartDelayMs)
	check(h.SpawnIntervalMs >= 0, "hearts spawn-interval-ms must not be negative, got %d", h.SpawnIntervalMs)
	check(h.SpawnRangeY >= 0, "hearts spawn-range-y must not be negative, got %g", h.SpawnRangeY)
	check(h.TickRate > 0, "hearts tick-rate must be positive, got %d", h.TickRate)

	r := c.Rigid
	check(r.CountPerLayer >= 0, "rigid count-per-layer must not be negative, got %d", r.CountPerLayer)
	check(r.VisualRadius > 0, "rigid visual-radius must be positive, got %g", r.VisualRadius)
	check(r.Iterations >= 1, "rigid iterations must be at least 1, got %d", r.Iterations)

	t := c.Terminal
	check(t.CellWidth > 0 && t.CellHeight > 0, "terminal cell size must be positive, got %gx%g", t.CellWidth, t.CellHeight)

	s := c.Stream
	check(s.Format == "msgpack" || s.Format == "json", "stream format must be msgpack or json, got %q", s.Format)
	check(s.SendEveryN >= 1, "stream send-every must be at least 1, got %d", s.SendEveryN)
	check(s.MaxClients >= 1, "stream max-clients must be at least 1, got %d", s.MaxClients)

	a := c.Audio
	check(a.Volume >= 0 && a.Volume <= 1, "audio volume must be in [0, 1], got %g", a.Volume)

	return errors.Join(errs...)
}

// Radius is the collision radius, visual size plus padding
func (h *HeartsConfig) Radius() float64 {
	return h.VisualRadius + h.Padding
}

// CellSize is the spatial grid cell, the maximum interaction diameter
func (h *HeartsConfig) CellSize() float64 {
	return 2 * h.Radius()
}

// TickDuration is the wall time of one simulation tick
func (h *HeartsConfig) TickDuration() time.Duration {
	return time.Second / time.Duration(h.TickRate)
}

// MsToTicks converts a millisecond delay to whole ticks, rounding to nearest
func (h *HeartsConfig) MsToTicks(ms int) uint64 {
	if ms <= 0 {
		return 0
	}
	return uint64(math.Round(float64(ms) * float64(h.TickRate) / 1000))
}

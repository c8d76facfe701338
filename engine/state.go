package engine

import (
	"errors"

	"github.com/lixenwraith/heartfall/asset"
	"github.com/lixenwraith/heartfall/physics"
	"github.com/lixenwraith/heartfall/render"
)

// ErrAlreadyLoaded is returned when assets are delivered twice
var ErrAlreadyLoaded = errors.New("assets already delivered")

// State is the load/spawn lifecycle, strictly forward
type State uint8

const (
	// StateUnloaded: bodies exist, assets pending, nothing is active
	StateUnloaded State = iota
	// StateLoaded: assets delivered (or failed), waiting for the start delay
	StateLoaded
	// StateSpawning: bodies are being activated on the schedule
	StateSpawning
	// StateRunning: every body is active
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoaded:
		return "loaded"
	case StateSpawning:
		return "spawning"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}

// Stats summarizes one tick
type Stats struct {
	Frame         uint64
	State         State
	Active        int
	Activated     int // bodies activated this tick
	CollisionPass bool
	Events        physics.Events
	// KineticEnergy is sum(|v|^2)/2 over active bodies, unit mass
	KineticEnergy float64
}

// Simulation is what a host loop drives, implemented by Manager and the rigid-body world
type Simulation interface {
	Tick() Stats
	AssetsLoaded(tpl *asset.Template, factory render.BindingFactory) error
	AssetsFailed(err error)
	Resize(width, height float64)
	Instances(dst []render.Instance) []render.Instance
	State() State
	LoadErr() error
}

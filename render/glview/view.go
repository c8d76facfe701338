// Package glview draws the heart field with raylib, a real perspective camera and native model loading
// Every call must happen on the thread that owns the window
package glview

import (
	"fmt"
	"log"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/lixenwraith/heartfall/asset"
	"github.com/lixenwraith/heartfall/config"
	"github.com/lixenwraith/heartfall/parameter"
	"github.com/lixenwraith/heartfall/render"
	"github.com/lixenwraith/heartfall/vmath"
)

// ModelBinding is the raylib view's handle for one body
type ModelBinding struct {
	index     int
	scale     float32
	visible   bool
	transform render.Transform
}

func (b *ModelBinding) SetTransform(t render.Transform) { b.transform = t }
func (b *ModelBinding) SetVisible(v bool) { b.visible = v }

// View owns the camera, the shared model and every binding
type View struct {
	camera   rl.Camera3D
	model    rl.Model
	loaded   bool
	tint     rl.Color
	bindings []*ModelBinding
}

// NewView sets up the camera to match the simulation's projection
func NewView(cfg *config.Config) *View {
	c := cfg.Camera
	return &View{
		camera: rl.Camera3D{
			Position:   rl.NewVector3(0, 0, float32(c.Distance)),
			Target:     rl.NewVector3(0, 0, 0),
			Up:         rl.NewVector3(0, 1, 0),
			Fovy:       float32(c.FovDeg),
			Projection: rl.CameraPerspective,
		},
		tint: rl.NewColor(parameter.HeartBaseR, parameter.HeartBaseG, parameter.HeartBaseB, 255),
	}
}

// Load reads the model at path, falling back to a sphere when path is empty or unreadable
// Returns a bounds template for the core and the load error, if any, so the host can report it
func (v *View) Load(path string) (*asset.Template, error) {
	var loadErr error
	if path != "" {
		v.model = rl.LoadModel(path)
		if !rl.IsModelValid(v.model) || v.model.MeshCount == 0 {
			loadErr = fmt.Errorf("load model %s: %w", path, asset.ErrNoVertices)
			log.Printf("glview: %v, using sphere", loadErr)
		} else {
			v.loaded = true
		}
	}
	if !v.loaded {
		v.model = rl.LoadModelFromMesh(rl.GenMeshSphere(0.5, 16, 24))
		v.loaded = true
	}

	box := rl.GetModelBoundingBox(v.model)
	tpl, err := asset.BoxTemplate(path, fromVector3(box.Min), fromVector3(box.Max))
	if err != nil {
		return nil, err
	}
	return tpl, loadErr
}

// Unload releases the GPU model
func (v *View) Unload() {
	if v.loaded {
		rl.UnloadModel(v.model)
		v.loaded = false
	}
}

// NewBinding implements render.BindingFactory
func (v *View) NewBinding(index int, scale float64) render.Binding {
	b := &ModelBinding{index: index, scale: float32(scale)}
	v.bindings = append(v.bindings, b)
	return b
}

// SetTemplate is a no-op, the GPU model was fixed by Load
func (v *View) SetTemplate(*asset.Template) {}

// Reset drops every binding, the model stays loaded
func (v *View) Reset() {
	v.bindings = v.bindings[:0]
}

// Draw renders every visible binding, caller wraps it in BeginDrawing/EndDrawing
func (v *View) Draw() int {
	if !v.loaded {
		return 0
	}
	drawn := 0
	rl.BeginMode3D(v.camera)
	for _, b := range v.bindings {
		if !b.visible {
			continue
		}
		t := b.transform
		v.model.Transform = rl.MatrixRotateXYZ(toVector3(t.Rotation))
		rl.DrawModel(v.model, toVector3(t.Position), b.scale, v.tint)
		drawn++
	}
	rl.EndMode3D()
	return drawn
}

func toVector3(v vmath.Vec3F) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}

func fromVector3(v rl.Vector3) vmath.Vec3F {
	return vmath.Vec3F{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)}
}

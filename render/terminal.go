package render

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/heartfall/asset"
	"github.com/lixenwraith/heartfall/config"
	"github.com/lixenwraith/heartfall/parameter"
	"github.com/lixenwraith/heartfall/projection"
)

// MeshBinding is the terminal view's handle for one body
type MeshBinding struct {
	index     int
	scale     float64
	visible   bool
	transform Transform
}

func (b *MeshBinding) SetTransform(t Transform) { b.transform = t }
func (b *MeshBinding) SetVisible(v bool) { b.visible = v }

func (b *MeshBinding) Index() int { return b.index }
func (b *MeshBinding) Visible() bool { return b.visible }
func (b *MeshBinding) Transform() Transform { return b.transform }

// TerminalView draws heart meshes into a tcell screen, two sub-pixels per cell
// Cells map to a fixed number of simulated pixels so physics tuning stays in screen-pixel units
type TerminalView struct {
	cellW, cellH float64
	showHUD      bool

	raster   *Rasterizer
	buf      *FrameBuffer
	tpl      *asset.Template
	bindings []*MeshBinding

	cols, rows int
	vp         projection.Viewport
}

// NewTerminalView creates a view for the configured camera and cell size
func NewTerminalView(cfg *config.Config) *TerminalView {
	depthSpan := 0.0
	for _, l := range cfg.Hearts.Layers {
		depthSpan = math.Max(depthSpan, -l)
	}
	t := cfg.Terminal
	return &TerminalView{
		cellW:   t.CellWidth,
		cellH:   t.CellHeight,
		showHUD: t.ShowHUD,
		raster:  NewRasterizer(projection.CameraFromConfig(cfg.Camera), t.CellWidth, t.CellHeight/2, depthSpan),
		buf:     NewFrameBuffer(0, 0),
	}
}

// SetTemplate installs the mesh every binding draws
func (v *TerminalView) SetTemplate(tpl *asset.Template) {
	v.tpl = tpl
}

// NewBinding implements BindingFactory
func (v *TerminalView) NewBinding(index int, scale float64) Binding {
	b := &MeshBinding{index: index, scale: scale}
	v.bindings = append(v.bindings, b)
	return b
}

// Reset drops every binding, the template stays installed
func (v *TerminalView) Reset() {
	v.bindings = v.bindings[:0]
}

// Bindings returns every binding handed out, in creation order
func (v *TerminalView) Bindings() []*MeshBinding {
	return v.bindings
}

// Resize adapts to a new terminal size and returns the simulated viewport
func (v *TerminalView) Resize(cols, rows int) projection.Viewport {
	v.cols, v.rows = cols, rows
	viewRows := max(rows-v.hudRows(), 0)
	v.buf.Resize(cols, viewRows)
	v.vp = projection.Viewport{
		Width:  float64(cols) * v.cellW,
		Height: float64(viewRows) * v.cellH,
	}
	v.raster.Viewport = v.vp
	return v.vp
}

func (v *TerminalView) hudRows() int {
	if v.showHUD {
		return parameter.TerminalHUDRows
	}
	return 0
}

// Viewport is the simulated pixel size of the drawable area
func (v *TerminalView) Viewport() projection.Viewport {
	return v.vp
}

// Buffer exposes the frame buffer of the last Draw
func (v *TerminalView) Buffer() *FrameBuffer {
	return v.buf
}

// Draw rasterizes every visible binding, returns pixels written
// Depth testing resolves overlap between layers
func (v *TerminalView) Draw() int {
	v.buf.Clear()
	if v.tpl == nil {
		return 0
	}
	written := 0
	for _, b := range v.bindings {
		if !b.visible {
			continue
		}
		written += v.raster.DrawMesh(v.buf, v.tpl, b.transform, b.scale)
	}
	return written
}

// Show flushes the frame and HUD to the screen
func (v *TerminalView) Show(s tcell.Screen, hud HUD) {
	v.buf.Flush(s)

	if hud.Loading {
		msg := hud.LoadingText()
		_, h := v.buf.Size()
		writeStr(s, (v.cols-len([]rune(msg)))/2, h/4, msg, RGBHUD, RGBBackground)
	}

	if v.showHUD && v.rows > 0 {
		row := v.rows - 1
		blank := tcell.StyleDefault.Background(RGBBlack.Tcell())
		for x := 0; x < v.cols; x++ {
			s.SetContent(x, row, ' ', nil, blank)
		}
		writeStr(s, 1, row, hud.Status(), RGBHUD, RGBBlack)
		if warn := hud.Warning(); warn != "" {
			writeStr(s, v.cols-len([]rune(warn))-1, row, warn, RGBWarn, RGBBlack)
		}
	}
	s.Show()
}

func writeStr(s tcell.Screen, x, y int, str string, fg, bg RGB) {
	style := tcell.StyleDefault.Foreground(fg.Tcell()).Background(bg.Tcell())
	for _, r := range str {
		if x >= 0 {
			s.SetContent(x, y, r, nil, style)
		}
		x++
	}
}

package render

import (
	"math"

	"github.com/gdamore/tcell/v2"
)

// upperHalf packs two vertical sub-pixels into one cell: fg is the top, bg the bottom
const upperHalf = '▀'

// FrameBuffer is a depth-tested pixel grid with two sub-pixels per terminal cell vertically
type FrameBuffer struct {
	color []RGB
	depth []float64
	// touched marks pixels written this frame, untouched ones flush as background
	touched []bool
	width   int
	height  int
}

// NewFrameBuffer creates a buffer for a terminal area of cols x rows cells
func NewFrameBuffer(cols, rows int) *FrameBuffer {
	b := &FrameBuffer{}
	b.Resize(cols, rows)
	return b
}

// Resize adjusts buffer dimensions, reallocates only if capacity insufficient
func (b *FrameBuffer) Resize(cols, rows int) {
	cols, rows = max(cols, 0), max(rows, 0)
	size := cols * rows * 2
	if cap(b.color) < size {
		b.color = make([]RGB, size)
		b.depth = make([]float64, size)
		b.touched = make([]bool, size)
	} else {
		b.color = b.color[:size]
		b.depth = b.depth[:size]
		b.touched = b.touched[:size]
	}
	b.width = cols
	b.height = rows * 2
	b.Clear()
}

// Clear resets all pixels to empty using exponential copy
func (b *FrameBuffer) Clear() {
	if len(b.color) == 0 {
		return
	}
	b.color[0] = RGBBackground
	b.depth[0] = math.Inf(1)
	b.touched[0] = false
	for filled := 1; filled < len(b.color); filled *= 2 {
		copy(b.color[filled:], b.color[:filled])
		copy(b.depth[filled:], b.depth[:filled])
		copy(b.touched[filled:], b.touched[:filled])
	}
}

// Size returns the pixel dimensions (height is twice the cell rows)
func (b *FrameBuffer) Size() (width, height int) {
	return b.width, b.height
}

func (b *FrameBuffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Plot writes c at (x, y) if depth is nearer than what is stored
func (b *FrameBuffer) Plot(x, y int, depth float64, c RGB) bool {
	if !b.inBounds(x, y) {
		return false
	}
	idx := y*b.width + x
	if depth >= b.depth[idx] {
		return false
	}
	b.depth[idx] = depth
	b.color[idx] = c
	b.touched[idx] = true
	return true
}

// At returns the pixel color and whether anything was drawn there
func (b *FrameBuffer) At(x, y int) (RGB, bool) {
	if !b.inBounds(x, y) {
		return RGBBackground, false
	}
	idx := y*b.width + x
	return b.color[idx], b.touched[idx]
}

// Touched counts pixels drawn since the last Clear
func (b *FrameBuffer) Touched() int {
	n := 0
	for _, t := range b.touched {
		if t {
			n++
		}
	}
	return n
}

// Flush writes the buffer into the screen starting at row 0
func (b *FrameBuffer) Flush(s tcell.Screen) {
	bg := tcell.StyleDefault.Background(RGBBackground.Tcell())
	for row := 0; row*2 < b.height; row++ {
		for x := 0; x < b.width; x++ {
			top, topSet := b.At(x, row*2)
			bottom, bottomSet := b.At(x, row*2+1)
			if !topSet && !bottomSet {
				s.SetContent(x, row, ' ', nil, bg)
				continue
			}
			style := tcell.StyleDefault.Foreground(top.Tcell()).Background(bottom.Tcell())
			s.SetContent(x, row, upperHalf, nil, style)
		}
	}
}

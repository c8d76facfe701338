package parameter

// Terminal view
const (
	// TerminalCellWidth and TerminalCellHeight map one terminal cell to simulated pixels
	// Cells are roughly 1:2, so the height is double the width
	TerminalCellWidth  = 12.0
	TerminalCellHeight = 24.0

	// TerminalHUDRows is reserved at the bottom of the screen
	TerminalHUDRows = 1
)

// Heart shading
const (
	HeartBaseR = 236
	HeartBaseG = 72
	HeartBaseB = 120

	HeartAmbient      = 0.25
	HeartSpecularPow  = 24.0
	HeartSpecularGain = 0.6
	// HeartDepthDim is how far the back layer fades toward the background color
	HeartDepthDim = 0.45
)

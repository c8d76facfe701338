package render

import (
	"fmt"
	"strings"
)

// HUD is the status line content, filled by the host loop each frame
type HUD struct {
	Engine  string
	State   string
	Active  int
	Total   int
	Frame   uint64
	TPS     float64
	Energy  float64
	Clients int
	Sound   bool
	Loading bool
	LoadErr error
}

// Status renders the left-aligned status text
func (h HUD) Status() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s  hearts %d/%d  frame %d  %.0f tps  ke %.1f",
		h.Engine, h.State, h.Active, h.Total, h.Frame, h.TPS, h.Energy)
	if h.Clients > 0 {
		fmt.Fprintf(&sb, "  viewers %d", h.Clients)
	}
	if h.Sound {
		sb.WriteString("  [snd]")
	}
	sb.WriteString("  q:quit r:reset")
	return sb.String()
}

// Warning is shown right-aligned when the model failed to load
func (h HUD) Warning() string {
	if h.LoadErr == nil {
		return ""
	}
	return "no model, headless"
}

// LoadingText is the overlay shown until the first heart spawns
func (h HUD) LoadingText() string {
	if h.LoadErr != nil {
		return "model unavailable, hearts running headless"
	}
	return "loading hearts..."
}

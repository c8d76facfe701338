package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/lixenwraith/heartfall/audio"
	"github.com/lixenwraith/heartfall/engine"
	"github.com/lixenwraith/heartfall/host"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 2)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("204")).Padding(1, 0)
)

// summary aggregates a headless run
type summary struct {
	Engine      string
	Ticks       int
	FinalState  engine.State
	Active      int
	Total       int
	FirstSpawn  uint64 // frame of the first activation, 0 if none
	RunningAt   uint64 // frame the field reached running, 0 if never
	Contacts    int
	FloorHits   int
	PeakImpact  float64
	FinalEnergy float64
	Thumps      int
	Chimes      int
	LoadFailed  bool
	Energy      []float64
}

// trace ticks the session n times, recording energy and what the sound cues would be
func trace(s *host.Session, cues *audio.Player, n int) summary {
	sum := summary{
		Engine: s.Engine(),
		Ticks:  n,
		Energy: make([]float64, 0, n),
	}
	for i := 0; i < n; i++ {
		st := s.Tick()
		if st.Activated > 0 && sum.FirstSpawn == 0 {
			sum.FirstSpawn = st.Frame
		}
		if st.State == engine.StateRunning && sum.RunningAt == 0 {
			sum.RunningAt = st.Frame
		}
		sum.Contacts += st.Events.Contacts
		if st.Events.FloorImpact > 0 {
			sum.FloorHits++
			sum.PeakImpact = max(sum.PeakImpact, st.Events.FloorImpact)
		}
		sum.Energy = append(sum.Energy, st.KineticEnergy)

		for _, c := range cues.Cues(st) {
			switch c {
			case audio.CueThump:
				sum.Thumps++
			case audio.CueChime:
				sum.Chimes++
			}
		}
	}

	last := s.Last()
	sum.FinalState = s.Simulation().State()
	sum.Active = last.Active
	sum.FinalEnergy = last.KineticEnergy
	sum.LoadFailed = s.Simulation().LoadErr() != nil
	return sum
}

// report renders the summary table beside an energy plot
func report(sum summary, width, height int) string {
	rows := [][2]string{
		{"engine", sum.Engine},
		{"ticks", fmt.Sprint(sum.Ticks)},
		{"state", sum.FinalState.String()},
		{"active", fmt.Sprintf("%d/%d", sum.Active, sum.Total)},
		{"first spawn", frameOrDash(sum.FirstSpawn)},
		{"running at", frameOrDash(sum.RunningAt)},
		{"contacts", fmt.Sprint(sum.Contacts)},
		{"floor hits", fmt.Sprint(sum.FloorHits)},
		{"peak impact", fmt.Sprintf("%.2f", sum.PeakImpact)},
		{"final energy", fmt.Sprintf("%.2f", sum.FinalEnergy)},
		{"thump cues", fmt.Sprint(sum.Thumps)},
		{"chime cues", fmt.Sprint(sum.Chimes)},
	}
	if sum.LoadFailed {
		rows = append(rows, [2]string{"model", "failed, headless"})
	}

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("heartfall trace"))
	sb.WriteString("\n")
	for _, r := range rows {
		sb.WriteString(labelStyle.Render(r[0]))
		sb.WriteString(valueStyle.Render(r[1]))
		sb.WriteString("\n")
	}
	stats := statsStyle.Render(strings.TrimSuffix(sb.String(), "\n"))

	if len(sum.Energy) == 0 {
		return stats
	}
	chart := asciigraph.Plot(sum.Energy,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("kinetic energy per tick"))
	return lipgloss.JoinVertical(lipgloss.Left, stats, graphStyle.Render(chart))
}

func frameOrDash(f uint64) string {
	if f == 0 {
		return "-"
	}
	return fmt.Sprint(f)
}

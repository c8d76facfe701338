package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/heartfall/config"
	"github.com/lixenwraith/heartfall/host"
	"github.com/lixenwraith/heartfall/parameter"
	"github.com/lixenwraith/heartfall/render"
)

var (
	configFlag = flag.String("config", "", "gcfg configuration file, defaults when empty")
	debugFlag  = flag.Bool("debug", false, "write logs to logs/heartfall.log")
	soundFlag  = flag.Bool("sound", false, "play impact sounds")
	serveFlag  = flag.String("serve", "", "stream frames to websocket viewers on this address (e.g. :8080)")
	engineFlag = flag.String("engine", host.EngineBespoke, "simulation engine: bespoke, rigid")
	modelFlag  = flag.String("model", "", "OBJ heart model, procedural heart when empty")
)

// crash restores the terminal and prints the panic, \r\n keeps raw mode output readable
func crash(s tcell.Screen, what string, r any) {
	if s != nil {
		s.Fini()
	}
	fmt.Fprintf(os.Stderr, "\r\n\x1b[31m%s CRASHED: %v\x1b[0m\r\n", what, r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
	os.Exit(1)
}

func main() {
	flag.Parse()

	if f := setupLogging(*debugFlag); f != nil {
		defer f.Close()
	}

	cfg := config.Default()
	if *configFlag != "" {
		loaded, err := config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		os.Exit(1)
	}

	// Panic recovery: restore the terminal even if the loop crashes
	defer func() {
		if r := recover(); r != nil {
			crash(screen, "HEARTFALL", r)
		}
	}()
	defer screen.Fini()

	screen.HideCursor()
	screen.SetStyle(tcell.StyleDefault.Background(render.RGBBackground.Tcell()))

	view := render.NewTerminalView(cfg)
	vp := view.Resize(screen.Size())

	session, err := host.NewSession(cfg, host.Options{
		Engine:  *engineFlag,
		Model:   *modelFlag,
		Sound:   *soundFlag,
		Serve:   *serveFlag != "",
		Address: *serveFlag,
	}, vp, view)
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		session.Close(ctx)
	}()

	eventChan := make(chan tcell.Event, 64)
	// Input polling runs on a raw goroutine since it blocks on the terminal
	go func() {
		defer func() {
			if r := recover(); r != nil {
				crash(screen, "EVENT POLLER", r)
			}
		}()
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	interval := cfg.Hearts.TickDuration()
	pacer := host.NewPacer(interval, parameter.MaxCatchUpTicks)
	frameTicker := time.NewTicker(interval)
	defer frameTicker.Stop()

	last := time.Now()
	tps := newRateMeter()

	for {
		select {
		case ev := <-eventChan:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				vp := view.Resize(ev.Size())
				session.Resize(vp)
				screen.Sync()
			case *tcell.EventKey:
				if quit(ev) {
					return
				}
				if ev.Key() == tcell.KeyRune && ev.Rune() == 'r' {
					if err := session.Reset(); err != nil {
						log.Printf("heartfall: reset: %v", err)
					}
				}
			}

		case now := <-frameTicker.C:
			session.PollAssets()

			ticks := pacer.Due(now.Sub(last))
			last = now
			for i := 0; i < ticks; i++ {
				session.Tick()
			}
			tps.Add(now, ticks)

			view.Draw()
			view.Show(screen, session.HUD(tps.Rate()))
		}
	}
}

func quit(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q'
	}
	return false
}

// rateMeter reports ticks per second over a one second window
type rateMeter struct {
	start time.Time
	count int
	rate  float64
}

func newRateMeter() *rateMeter {
	return &rateMeter{start: time.Now()}
}

func (m *rateMeter) Add(now time.Time, n int) {
	m.count += n
	if elapsed := now.Sub(m.start); elapsed >= time.Second {
		m.rate = float64(m.count) / elapsed.Seconds()
		m.start = now
		m.count = 0
	}
}

func (m *rateMeter) Rate() float64 { return m.rate }

// Command heartfall-gl draws the heart field in a raylib window
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/lixenwraith/heartfall/asset"
	"github.com/lixenwraith/heartfall/config"
	"github.com/lixenwraith/heartfall/host"
	"github.com/lixenwraith/heartfall/parameter"
	"github.com/lixenwraith/heartfall/projection"
	"github.com/lixenwraith/heartfall/render"
	"github.com/lixenwraith/heartfall/render/glview"
)

var (
	configFlag = flag.String("config", "", "gcfg configuration file, defaults when empty")
	engineFlag = flag.String("engine", host.EngineBespoke, "simulation engine: bespoke, rigid")
	modelFlag  = flag.String("model", "", "model file raylib can load (obj, gltf, iqm), sphere when empty")
	serveFlag  = flag.String("serve", "", "stream frames to websocket viewers on this address")
	soundFlag  = flag.Bool("sound", false, "play impact sounds")
	widthFlag  = flag.Int("width", 1280, "initial window width")
	heightFlag = flag.Int("height", 720, "initial window height")
)

func init() {
	// raylib and GL calls must stay on the main thread
	runtime.LockOSThread()
}

func main() {
	flag.Parse()

	cfg := config.Default()
	if *configFlag != "" {
		loaded, err := config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	rl.SetTraceLogLevel(rl.LogWarning)
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(*widthFlag), int32(*heightFlag), "heartfall")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Hearts.TickRate))

	view := glview.NewView(cfg)
	defer view.Unload()

	// Model upload needs the GL context, so the load runs here and the result is handed over resolved
	tpl, loadErr := view.Load(*modelFlag)
	if loadErr != nil {
		log.Printf("heartfall-gl: %v", loadErr)
	}

	vp := windowViewport()
	session, err := host.NewSessionWithFuture(cfg, host.Options{
		Engine:  *engineFlag,
		Model:   *modelFlag,
		Sound:   *soundFlag,
		Serve:   *serveFlag != "",
		Address: *serveFlag,
	}, vp, view, asset.Resolved(tpl, nil))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer session.Close(context.Background())

	pacer := host.NewPacer(cfg.Hearts.TickDuration(), parameter.MaxCatchUpTicks)
	bg := toColor(render.RGBBackground)
	text := toColor(render.RGBHUD)
	warn := toColor(render.RGBWarn)

	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyQ) {
			break
		}
		if rl.IsKeyPressed(rl.KeyR) {
			if err := session.Reset(); err != nil {
				log.Printf("heartfall-gl: reset: %v", err)
			}
		}
		if rl.IsWindowResized() {
			session.Resize(windowViewport())
		}

		session.PollAssets()
		elapsed := time.Duration(float64(rl.GetFrameTime()) * float64(time.Second))
		for n := pacer.Due(elapsed); n > 0; n-- {
			session.Tick()
		}

		rl.BeginDrawing()
		rl.ClearBackground(bg)
		view.Draw()
		hud := session.HUD(float64(rl.GetFPS()))
		rl.DrawText(hud.Status(), 10, int32(rl.GetScreenHeight())-24, 16, text)
		if loadErr != nil {
			rl.DrawText("model unavailable, drawing spheres", 10, 10, 16, warn)
		}
		rl.EndDrawing()
	}
}

func toColor(c render.RGB) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, 255)
}

func windowViewport() projection.Viewport {
	return projection.Viewport{
		Width:  float64(rl.GetScreenWidth()),
		Height: float64(rl.GetScreenHeight()),
	}
}

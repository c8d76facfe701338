// Command heartfall-trace runs the heart field without a screen and prints a summary
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/lixenwraith/heartfall/asset"
	"github.com/lixenwraith/heartfall/audio"
	"github.com/lixenwraith/heartfall/config"
	"github.com/lixenwraith/heartfall/host"
	"github.com/lixenwraith/heartfall/projection"
)

var (
	configFlag = flag.String("config", "", "gcfg configuration file, defaults when empty")
	engineFlag = flag.String("engine", host.EngineBespoke, "simulation engine: bespoke, rigid")
	modelFlag  = flag.String("model", "", "OBJ heart model, procedural heart when empty")
	ticksFlag  = flag.Int("ticks", 600, "ticks to simulate")
	widthFlag  = flag.Float64("width", 960, "viewport width, simulated pixels")
	heightFlag = flag.Float64("height", 960, "viewport height, simulated pixels")
	seedFlag   = flag.Int64("seed", 0, "random seed, config value when 0")
	verbose    = flag.Bool("v", false, "log to stderr")
)

func main() {
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
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
	if *seedFlag != 0 {
		cfg.Hearts.Seed = *seedFlag
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	tpl, err := asset.ForPath(*modelFlag).Load(ctx)

	vp := projection.Viewport{Width: *widthFlag, Height: *heightFlag}
	s, err := host.NewSessionWithFuture(cfg, host.Options{Engine: *engineFlag}, vp, nil, asset.Resolved(tpl, err))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer s.Close(context.Background())
	s.PollAssets()

	// Cues are decided but never played, there is no device here
	cues := audio.NewPlayer(cfg.Audio)

	sum := trace(s, cues, *ticksFlag)
	sum.Total = host.BodyCount(s.Engine(), cfg)
	fmt.Println(report(sum, 60, 10))
}

package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/heartfall/asset"
	"github.com/lixenwraith/heartfall/audio"
	"github.com/lixenwraith/heartfall/config"
	"github.com/lixenwraith/heartfall/engine"
	"github.com/lixenwraith/heartfall/host"
	"github.com/lixenwraith/heartfall/projection"
)

func traceSession(t *testing.T, engineName string, future *asset.Future) (*host.Session, *config.Config) {
	t.Helper()
	cfg := config.Default()
	s, err := host.NewSessionWithFuture(cfg, host.Options{Engine: engineName},
		projection.Viewport{Width: 960, Height: 960}, nil, future)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close(context.Background()) })
	require.True(t, s.PollAssets())
	return s, cfg
}

func TestTraceBespokeReachesRunning(t *testing.T) {
	tpl, err := asset.NewHeartLoader().Load(context.Background())
	require.NoError(t, err)
	s, cfg := traceSession(t, host.EngineBespoke, asset.Resolved(tpl, nil))

	sum := trace(s, audio.NewPlayer(cfg.Audio), 600)
	assert.Equal(t, 600, sum.Ticks)
	assert.Len(t, sum.Energy, 600)
	assert.Equal(t, engine.StateRunning, sum.FinalState)
	assert.Equal(t, cfg.Hearts.Count, sum.Active)
	assert.Equal(t, cfg.Hearts.MsToTicks(cfg.Hearts.StartDelayMs), sum.FirstSpawn)
	assert.Greater(t, sum.RunningAt, sum.FirstSpawn)
	assert.Greater(t, sum.Chimes, 0)
	assert.False(t, sum.LoadFailed)
}

func TestTraceRigidHeadless(t *testing.T) {
	s, cfg := traceSession(t, host.EngineRigid, asset.Resolved(nil, errors.New("no model")))

	sum := trace(s, audio.NewPlayer(cfg.Audio), 600)
	assert.True(t, sum.LoadFailed)
	assert.Equal(t, engine.StateRunning, sum.FinalState)
	assert.Equal(t, uint64(1), sum.FirstSpawn, "rigid hearts are live on the first tick")
	assert.Greater(t, sum.FloorHits, 0)
	assert.Greater(t, sum.PeakImpact, 0.0)
}

func TestReport(t *testing.T) {
	sum := summary{
		Engine:     "bespoke",
		Ticks:      3,
		FinalState: engine.StateSpawning,
		Active:     2,
		Total:      20,
		FirstSpawn: 2,
		LoadFailed: true,
		Energy:     []float64{0, 1, 4},
	}
	out := report(sum, 20, 4)
	assert.Contains(t, out, "heartfall trace")
	assert.Contains(t, out, "spawning")
	assert.Contains(t, out, "2/20")
	assert.Contains(t, out, "failed, headless")
	assert.Contains(t, out, "kinetic energy per tick")

	sum.Energy = nil
	assert.NotContains(t, report(sum, 20, 4), "kinetic energy")
}

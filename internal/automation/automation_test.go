package automation

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/cosmos/internal/config"
	"github.com/san-kum/cosmos/internal/host/headless"
	"github.com/san-kum/cosmos/internal/storage"
	"github.com/san-kum/cosmos/internal/surface"
)

const scenarioYAML = `
name: resize-walk
preset: minimal
seed: 7
width: 64
height: 48
steps:
  - frames: 3
  - resize: {width: 120, height: 60, pixel_ratio: 1}
  - frames: 2
  - snapshot: svg
  - snapshot: png
  - unmount: true
  - frames: 4
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	require.NoError(t, err)
	assert.Equal(t, "resize-walk", sc.Name)
	assert.Equal(t, int64(7), sc.Seed)
	require.Len(t, sc.Steps, 7)
	require.NotNil(t, sc.Steps[1].Resize)
	assert.Equal(t, 120, sc.Steps[1].Resize.Width)
	assert.Equal(t, "svg", sc.Steps[3].Snapshot)
}

func TestLoadScenarioMissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		sc   Scenario
		ok   bool
	}{
		{"no steps", Scenario{Name: "empty"}, false},
		{"empty step", Scenario{Steps: []ScenarioStep{{}}}, false},
		{"two actions", Scenario{Steps: []ScenarioStep{{Frames: 1, Unmount: true}}}, false},
		{"frames", Scenario{Steps: []ScenarioStep{{Frames: 2}}}, true},
		{"resize", Scenario{Steps: []ScenarioStep{{Resize: &ResizeStep{Width: 1, Height: 1}}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sc.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestScenarioConfig(t *testing.T) {
	sc := &Scenario{Preset: "minimal", Seed: 11}
	cfg, err := sc.Config(nil)
	require.NoError(t, err)
	assert.Equal(t, 0.5, cfg.Stars.Opacity)
	assert.Equal(t, config.DefaultStarCount, cfg.Stars.Count)
	assert.Equal(t, int64(11), cfg.Seed)

	base := config.DefaultConfig()
	cfg, err = (&Scenario{Seed: 3}).Config(base)
	require.NoError(t, err)
	assert.Equal(t, int64(3), cfg.Seed)
	assert.NotEqual(t, int64(3), base.Seed, "base must not be modified")

	_, err = (&Scenario{Preset: "nope"}).Config(nil)
	assert.Error(t, err)
}

func TestRunScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	require.NoError(t, err)
	store := storage.New(t.TempDir())

	results, err := RunScenario(context.Background(), sc, nil, store, nil)
	require.NoError(t, err)
	require.Len(t, results, 7)

	frames := []uint64{3, 3, 5, 5, 5, 5, 5}
	for i, res := range results {
		assert.Equal(t, frames[i], res.Frames, "step %d", i+1)
	}
	assert.InDelta(t, 64.0/48.0, results[0].Aspect, 1e-9)
	assert.InDelta(t, 2.0, results[1].Aspect, 1e-9)
	assert.Equal(t, 120, results[1].Viewport.Width)

	svgMeta, err := store.Load(results[3].SnapshotID)
	require.NoError(t, err)
	assert.Equal(t, "svg", svgMeta.Format)
	assert.Equal(t, 120, svgMeta.Width)
	assert.Equal(t, 5, svgMeta.Frames)

	pngPath, err := store.FramePath(results[4].SnapshotID)
	require.NoError(t, err)
	data, err := os.ReadFile(pngPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestRunScenarioSnapshotWithoutStore(t *testing.T) {
	sc := &Scenario{Width: 32, Height: 32, Steps: []ScenarioStep{{Snapshot: "png"}}}
	_, err := RunScenario(context.Background(), sc, config.GetPreset("minimal"), nil, nil)
	assert.Error(t, err)
}

func TestRunScenarioCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sc := &Scenario{Width: 32, Height: 32, Steps: []ScenarioStep{{Frames: 10}}}
	results, err := RunScenario(ctx, sc, config.GetPreset("minimal"), nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}

func TestWriteFrame(t *testing.T) {
	host := headless.New(40, 30, 1, nil)
	surf, err := surface.Mount(host, surface.WithConfig(config.GetPreset("minimal")))
	require.NoError(t, err)
	host.Run(2)

	var live bytes.Buffer
	require.NoError(t, WriteFrame(&live, surf, "png"))
	assert.True(t, bytes.HasPrefix(live.Bytes(), []byte("\x89PNG")))

	var svg bytes.Buffer
	require.NoError(t, WriteFrame(&svg, surf, "svg"))
	assert.Contains(t, svg.String(), "<svg")

	assert.Error(t, WriteFrame(&bytes.Buffer{}, surf, "gif"))

	require.NoError(t, surf.Unmount())
	var after bytes.Buffer
	require.NoError(t, WriteFrame(&after, surf, "png"))
	assert.True(t, bytes.HasPrefix(after.Bytes(), []byte("\x89PNG")))
}

func TestEnsemble(t *testing.T) {
	sc := &Scenario{
		Width:  48,
		Height: 32,
		Seed:   5,
		Steps:  []ScenarioStep{{Frames: 2}, {Resize: &ResizeStep{Width: 32, Height: 32, PixelRatio: 1}}},
	}
	e := NewEnsemble(sc, 3, 0)
	assert.Equal(t, []int64{5, 6, 7}, e.Seeds())

	runs, err := e.Run(context.Background(), config.GetPreset("minimal"), nil, nil)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	for _, results := range runs {
		require.Len(t, results, 2)
		assert.Equal(t, uint64(2), results[1].Frames)
		assert.InDelta(t, 1.0, results[1].Aspect, 1e-9)
	}
	assert.Equal(t, int64(5), sc.Seed)

	_, err = NewEnsemble(sc, 0, 1).Run(context.Background(), nil, nil, nil)
	assert.Error(t, err)
}

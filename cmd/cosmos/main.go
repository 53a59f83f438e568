package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/cosmos/internal/automation"
	"github.com/san-kum/cosmos/internal/config"
	"github.com/san-kum/cosmos/internal/host/headless"
	"github.com/san-kum/cosmos/internal/host/term"
	"github.com/san-kum/cosmos/internal/host/window"
	"github.com/san-kum/cosmos/internal/logx"
	"github.com/san-kum/cosmos/internal/metrics"
	"github.com/san-kum/cosmos/internal/storage"
	"github.com/san-kum/cosmos/internal/surface"
)

var (
	dataDir    string
	configFile string
	preset     string
	seed       int64
	logLevel   string
	width      int
	height     int
	pixelRatio float64
	frames     int
	format     string
	themeName  string
	runs       int
)

// main registers the cosmos commands and runs the window by default.
// It exits with status 1 if the command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:          "cosmos",
		Short:        "animated starfield and wireframe solids",
		SilenceUsage: true,
		RunE:         runWindow,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logx.New(logLevel, os.Stderr)
			if err != nil {
				return err
			}
			logx.SetLogger(logger)
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".cosmos", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml or toml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	pf.StringVar(&logLevel, "log-level", "warn", "debug, info, warn or error")

	windowCmd := &cobra.Command{
		Use:   "window",
		Short: "open the desktop window",
		RunE:  runWindow,
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "render in the terminal",
		RunE:  runTUI,
	}
	tuiCmd.Flags().StringVar(&themeName, "theme", "nebula", "color theme")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "render offscreen frames and store the last one",
		RunE:  runSnapshot,
	}
	addHeadlessFlags(snapshotCmd, 60)
	snapshotCmd.Flags().StringVar(&format, "format", "png", "png or svg")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure offscreen frame times",
		RunE:  runBench,
	}
	addHeadlessFlags(benchCmd, 300)

	runCmd := &cobra.Command{
		Use:   "run [scenario.yaml]",
		Short: "run a scripted headless scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	runCmd.Flags().IntVar(&runs, "runs", 1, "parallel runs with consecutive seeds")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored snapshots and benches",
		RunE:  listEntries,
	}

	exportCmd := &cobra.Command{
		Use:   "export [id]",
		Short: "print entry metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportEntry,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [id]",
		Short: "plot the frame times of a bench",
		Args:  cobra.ExactArgs(1),
		RunE:  plotEntry,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration as yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(cfg)
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("presets:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
		},
	}

	rootCmd.AddCommand(windowCmd, tuiCmd, snapshotCmd, benchCmd, runCmd, listCmd, exportCmd, plotCmd, configCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addHeadlessFlags(cmd *cobra.Command, defFrames int) {
	cmd.Flags().IntVar(&width, "width", config.DefaultWidth, "viewport width")
	cmd.Flags().IntVar(&height, "height", config.DefaultHeight, "viewport height")
	cmd.Flags().Float64Var(&pixelRatio, "ratio", 1, "device pixel ratio")
	cmd.Flags().IntVar(&frames, "frames", defFrames, "frames to render")
}

// loadConfig resolves preset, then config file, then flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	return cfg, cfg.Validate()
}

func surfaceOptions(cfg *config.Config) []surface.Option {
	return []surface.Option{surface.WithConfig(cfg), surface.WithLogger(logx.Logger())}
}

func runWindow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return window.Run(window.Options{
		Title:  cfg.Window.Title,
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		TPS:    cfg.Window.TPS,
	}, surfaceOptions(cfg)...)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	theme, ok := term.GetTheme(themeName)
	if !ok {
		return fmt.Errorf("unknown theme: %s (available: %v)", themeName, term.ThemeNames())
	}
	return term.Run(cfg.Window.TPS, theme, surfaceOptions(cfg)...)
}

func mountHeadless(cmd *cobra.Command) (*headless.Host, *surface.Surface, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	host := headless.New(width, height, pixelRatio, nil)
	surf, err := surface.Mount(host, surfaceOptions(cfg)...)
	if err != nil {
		return nil, nil, err
	}
	return host, surf, nil
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	host, surf, err := mountHeadless(cmd)
	if err != nil {
		return err
	}
	defer surf.Unmount()

	fmt.Printf("rendering %d frames at %dx%d...\n", frames, width, height)
	host.Run(frames)

	st := storage.New(dataDir)
	id, err := automation.SaveSnapshot(st, surf, format, preset, int(surf.Scheduler().Frames()))
	if err != nil {
		return err
	}
	path, err := st.FramePath(id)
	if err != nil {
		return err
	}
	fmt.Printf("snapshot id: %s\n", id)
	fmt.Printf("file: %s\n", path)
	return nil
}

func runBench(cmd *cobra.Command, args []string) error {
	host, surf, err := mountHeadless(cmd)
	if err != nil {
		return err
	}
	defer surf.Unmount()

	cfg := surf.Config()
	rec := &metrics.Recorder{}
	set := metrics.Set{metrics.NewFrameRate(), metrics.NewBudget(cfg.Window.TPS), metrics.NewJitter(), rec}

	fmt.Printf("benchmarking %d frames at %dx%d@%gx\n\n", frames, width, height, pixelRatio)
	start := time.Now()
	for i := 0; i < frames; i++ {
		t0 := time.Now()
		host.Step()
		set.Observe(time.Since(t0))
	}
	elapsed := time.Since(start)
	values := set.Values()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FRAMES\tTIME\tFPS\tOVER BUDGET\tJITTER\tWORST")
	fmt.Fprintf(w, "%d\t%v\t%.1f\t%.1f%%\t%.3fms\t%.3fms\n",
		frames, elapsed.Round(time.Millisecond), values["fps"], values["over_budget"]*100,
		values["jitter_ms"], values["frames"])
	if err := w.Flush(); err != nil {
		return err
	}

	if len(rec.Samples()) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(rec.Samples(),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("frame time (ms)"),
		))
	}

	st := storage.New(dataDir)
	r := surf.Renderer()
	bw, bh := r.Size()
	id, err := st.Save(storage.SnapshotMetadata{
		Kind:       "bench",
		Preset:     preset,
		Seed:       cfg.Seed,
		Width:      bw,
		Height:     bh,
		PixelRatio: r.PixelRatio(),
		Frames:     frames,
		Metrics:    values,
	}, nil)
	if err != nil {
		return err
	}
	if err := st.SaveFrameTimes(id, rec.Samples()); err != nil {
		return err
	}
	fmt.Printf("\nbench id: %s\n", id)
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	st := storage.New(dataDir)
	if runs > 1 {
		fmt.Printf("running scenario %s x%d...\n", sc.Name, runs)
		ens := automation.NewEnsemble(sc, runs, 0)
		all, err := ens.Run(ctx, cfg, st, logx.Logger())
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "RUN\tSEED\tFRAMES\tVIEWPORT\tSNAPSHOTS")
		for i, results := range all {
			last := results[len(results)-1]
			shots := 0
			for _, r := range results {
				if r.SnapshotID != "" {
					shots++
				}
			}
			fmt.Fprintf(w, "%d\t%d\t%d\t%s\t%d\n", i, ens.Seeds()[i], last.Frames, last.Viewport, shots)
		}
		return w.Flush()
	}

	fmt.Printf("running scenario %s (%d steps)...\n", sc.Name, len(sc.Steps))
	results, err := automation.RunScenario(ctx, sc, cfg, st, logx.Logger())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tACTION\tFRAMES\tVIEWPORT\tASPECT\tSNAPSHOT")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%.4f\t%s\n",
			r.Index+1, r.Action, r.Frames, r.Viewport, r.Aspect, r.SnapshotID)
	}
	return w.Flush()
}

func listEntries(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	entries, err := st.List()
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("no entries found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tTIME\tPRESET\tSIZE\tFRAMES\tFILE")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%dx%d\t%d\t%s\n",
			e.ID,
			e.Kind,
			e.Timestamp.Format("2006-01-02 15:04:05"),
			e.Preset,
			e.Width, e.Height,
			e.Frames,
			e.File,
		)
	}
	return w.Flush()
}

func exportEntry(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func plotEntry(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	samples, err := st.LoadFrameTimes(meta.ID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no frame times to plot")
	}

	fmt.Printf("entry: %s\n", meta.ID)
	fmt.Printf("frames: %d\n\n", len(samples))
	fmt.Println(asciigraph.Plot(samples,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("frame time (ms)"),
	))
	return nil
}

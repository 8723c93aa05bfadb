package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/solitons/internal/analysis"
	"github.com/san-kum/solitons/internal/config"
	"github.com/san-kum/solitons/internal/integrators"
	"github.com/san-kum/solitons/internal/physics"
	"github.com/san-kum/solitons/internal/sim"
	"github.com/san-kum/solitons/internal/viz"
)

var (
	configFile string
	preset     string
	verbose    bool
	profileDir string
	// Rendering
	view   string
	width  int
	height int
	theme  string
	every  int
	// Sweeps
	nuValues    []float64
	speedValues []float64
	workers     int
)

// main registers the commands and exits with status 1 when one fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "solitons",
		Short:         "spectral solver for KdV and Burgers waves",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging()
			return startProfiling()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			stopProfiling()
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&profileDir, "cpuprofile", "", "write a cpu profile into this directory")

	runV := newViper()
	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "integrate a model and render the result",
		Long: "Integrates kdv or burgers (alias kp). Parameters come from --preset or\n" +
			"--config, then flags, then SOLITONS_* environment variables such as\n" +
			"SOLITONS_POINTS or SOLITONS_MAX_STEPS.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(cmd.Context(), runV, args)
		},
	}
	addRunFlags(runCmd, runV)
	runCmd.Flags().StringVar(&view, "view", "heatmap", "heatmap, waterfall, profile or none")
	runCmd.Flags().IntVar(&width, "width", 80, "plot width in columns")
	runCmd.Flags().IntVar(&height, "height", 30, "plot height in rows")
	runCmd.Flags().StringVar(&theme, "theme", "", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	runCmd.Flags().IntVar(&every, "every", 0, "waterfall row stride")

	spectrumV := newViper()
	spectrumCmd := &cobra.Command{
		Use:   "spectrum [model]",
		Short: "power spectrum and resolution check of the final profile",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSpectrum(cmd.Context(), spectrumV, args)
		},
	}
	addRunFlags(spectrumCmd, spectrumV)

	sweepV := newViper()
	sweepCmd := &cobra.Command{
		Use:   "sweep [model]",
		Short: "run one model over several nu values or soliton speeds",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(cmd.Context(), sweepV, args)
		},
	}
	addRunFlags(sweepCmd, sweepV)
	sweepCmd.Flags().Float64SliceVar(&nuValues, "nus", nil, "diffusion constants to compare")
	sweepCmd.Flags().Float64SliceVar(&speedValues, "speeds", nil, "single-soliton speeds to compare")
	sweepCmd.Flags().IntVar(&workers, "workers", 2, "concurrent runs")

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	initV := newViper()
	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the resolved configuration as yaml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var model []string
			if m, _ := cmd.Flags().GetString("model"); m != "" {
				model = []string{m}
			}
			cfg, err := resolveConfig(initV, model)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}
	addRunFlags(initCmd, initV)
	initCmd.Flags().String("model", "", "kdv or burgers")

	integratorsCmd := &cobra.Command{
		Use:   "integrators",
		Short: "list time integrators",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range integrators.Names() {
				fmt.Println(name)
			}
		},
	}

	rootCmd.AddCommand(runCmd, spectrumCmd, sweepCmd, presetsCmd, initCmd, integratorsCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, viz.ErrorText.Render("error: "+err.Error()))
		stopProfiling()
		stop()
		os.Exit(1)
	}
}

var profiler interface{ Stop() }

func startProfiling() error {
	if profileDir == "" {
		return nil
	}
	dir, err := homedir.Expand(profileDir)
	if err != nil {
		return err
	}
	profiler = profile.Start(profile.CPUProfile, profile.ProfilePath(dir), profile.NoShutdownHook)
	return nil
}

func stopProfiling() {
	if profiler != nil {
		profiler.Stop()
		profiler = nil
	}
}

func setupLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func runSimulation(ctx context.Context, v *viper.Viper, args []string) error {
	cfg, err := resolveConfig(v, args)
	if err != nil {
		return err
	}

	fmt.Printf("running %s on %d points, L=%g, T=%g with %s...\n",
		cfg.Model, cfg.Points, cfg.Length, cfg.Duration, cfg.Integrator)
	start := time.Now()
	res, err := sim.New(slog.Default()).Run(ctx, cfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	m, n := res.Dims()
	fmt.Printf("completed in %v\n", elapsed.Round(time.Millisecond))
	fmt.Printf("result: %d x %d\n", m, n)
	fmt.Printf("steps: %d (rejected %d), rhs evals: %d, lu: %d\n\n",
		res.Stats.Steps, res.Stats.Rejected, res.Stats.RHSEvals, res.Stats.LUDecomps)

	if err := render(res); err != nil {
		return err
	}
	fmt.Println(viz.Separator(width))
	fmt.Println(viz.MetricsPanel("metrics", res.Metrics))
	return nil
}

func render(res *sim.Result) error {
	g, times, u := res.Grid, res.Times, res.U
	var th *viz.Theme
	if theme != "" {
		t := viz.GetTheme(theme)
		th = &t
	}
	tEnd := times[len(times)-1]
	title := fmt.Sprintf("%s: x in [%g, %g), t in [0, %g]", res.Model, g.Origin, g.Origin+g.L, tEnd)

	var (
		out string
		err error
	)
	switch view {
	case "heatmap":
		out, err = viz.Heatmap(u, viz.HeatmapOptions{Width: width, Height: height, Theme: th})
		title += ", time upwards"
	case "waterfall":
		out, err = viz.Waterfall(u, viz.WaterfallOptions{Width: width, Height: height, Every: every})
	case "profile":
		m, _ := u.Dims()
		out, err = viz.Profiles([][]float64{mat.Row(nil, 0, u), mat.Row(nil, m-1, u)}, width, height/2,
			fmt.Sprintf("u(x) at t=0 and t=%g", tEnd))
	case "none":
		return nil
	default:
		return fmt.Errorf("unknown view: %s", view)
	}
	if err != nil {
		return err
	}
	fmt.Println(viz.Title.Render(title))
	fmt.Print(out)
	return nil
}

func runSpectrum(ctx context.Context, v *viper.Viper, args []string) error {
	cfg, err := resolveConfig(v, args)
	if err != nil {
		return err
	}
	res, err := sim.New(slog.Default()).Run(ctx, cfg)
	if err != nil {
		return err
	}

	final := res.Final()
	ps, err := analysis.PowerSpectrum(final)
	if err != nil {
		return err
	}
	logPower := make([]float64, len(ps))
	for k, p := range ps {
		logPower[k] = log10Power(p)
	}
	graph, err := viz.Profile(logPower, 80, 15, "log10 power of the final profile vs mode")
	if err != nil {
		return err
	}
	fmt.Println(graph)
	fmt.Println()

	sg, err := analysis.Spectrogram(res.U)
	if err != nil {
		return err
	}
	sg.Apply(func(_, _ int, p float64) float64 { return log10Power(p) }, sg)
	hm, err := viz.Heatmap(sg, viz.HeatmapOptions{Width: 80, Height: 20})
	if err != nil {
		return err
	}
	fmt.Println(viz.Title.Render("log10 power, mode across, time upwards"))
	fmt.Print(hm)
	fmt.Println(viz.Separator(80))

	tail, err := analysis.SpectralTail(final, 0.25)
	if err != nil {
		return err
	}
	fmt.Printf("power in top quarter of modes: %.3e\n", tail)
	if tail > 1e-6 {
		fmt.Println(viz.ErrorText.Render("profile is under-resolved; increase points"))
	}

	if res.Model == physics.ModelKdV {
		tr, err := analysis.TrackPeak(res.Grid, res.Times, res.U, 0.05)
		if err != nil {
			return err
		}
		fmt.Printf("tallest crest speed: %.4f (fastest soliton c=%.4f)\n", tr.Speed, fastest(cfg.Solitons))
	}
	return nil
}

// log10Power floors p so empty modes stay on the plot scale.
func log10Power(p float64) float64 {
	return math.Log10(math.Max(p, 1e-32))
}

func fastest(solitons []physics.Soliton) float64 {
	c := 0.0
	for _, s := range solitons {
		c = math.Max(c, s.C)
	}
	return c
}

func runSweep(ctx context.Context, v *viper.Viper, args []string) error {
	base, err := resolveConfig(v, args)
	if err != nil {
		return err
	}

	var (
		cfgs   []*config.Config
		labels []string
	)
	switch {
	case len(nuValues) > 0:
		for _, nu := range nuValues {
			c := base.Clone()
			c.Nu = nu
			cfgs = append(cfgs, c)
			labels = append(labels, fmt.Sprintf("nu=%g", nu))
		}
	case len(speedValues) > 0:
		if len(base.Solitons) == 0 {
			return fmt.Errorf("speed sweep needs a soliton position")
		}
		for _, c0 := range speedValues {
			c := base.Clone()
			c.Solitons = []physics.Soliton{{C: c0, Shift: base.Solitons[0].Shift}}
			cfgs = append(cfgs, c)
			labels = append(labels, fmt.Sprintf("c=%g", c0))
		}
	default:
		return fmt.Errorf("give --nus or --speeds")
	}

	start := time.Now()
	results, err := sim.New(slog.Default()).Sweep(ctx, cfgs, workers)
	if err != nil {
		return err
	}
	fmt.Printf("%d runs in %v\n\n", len(results), time.Since(start).Round(time.Millisecond))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSTEPS\tREJECTED\tPEAK\tMIN GRADIENT\tMASS DRIFT\tFINAL PROFILE")
	for i, r := range results {
		fmt.Fprintf(w, "%s\t%d\t%d\t%.4f\t%.4f\t%.2e\t%s\n",
			labels[i],
			r.Stats.Steps,
			r.Stats.Rejected,
			r.Metrics["peak"],
			r.Metrics["min_gradient"],
			r.Metrics["mass_drift"],
			viz.Sparkline(r.Final(), 32),
		)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	models := config.Models()
	if len(args) > 0 {
		m, err := physics.ParseModel(args[0])
		if err != nil {
			return err
		}
		models = []string{m.String()}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODEL\tPRESET\tPOINTS\tLENGTH\tDURATION\tNU")
	for _, model := range models {
		for _, name := range config.ListPresets(model) {
			p := config.GetPreset(model, name)
			fmt.Fprintf(w, "%s\t%s\t%d\t%g\t%g\t%g\n", model, name, p.Points, p.Length, p.Duration, p.Nu)
		}
	}
	return w.Flush()
}

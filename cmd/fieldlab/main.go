package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/fieldlab/internal/analysis"
	"github.com/san-kum/fieldlab/internal/config"
	"github.com/san-kum/fieldlab/internal/engine"
	"github.com/san-kum/fieldlab/internal/experiment"
	"github.com/san-kum/fieldlab/internal/storage"
	"github.com/san-kum/fieldlab/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	gridSize   int
	length     float64
	dt         float64
	steps      int
	sampleRate int
	// plot
	plotCol string
	// field display
	fieldName  string
	noColor    bool
	showDamage bool
	// export
	outFile string
	// live
	stepsPerFrame int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fieldlab",
		Short: "coupled field simulation lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".fieldlab", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run simulation and store the result",
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&preset, "preset", "baseline", "preset configuration")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().IntVar(&gridSize, "n", 0, "grid size override")
	runCmd.Flags().Float64Var(&length, "length", 0, "domain length override")
	runCmd.Flags().Float64Var(&dt, "dt", 0, "timestep override")
	runCmd.Flags().IntVar(&steps, "steps", 0, "step count override")
	runCmd.Flags().IntVar(&sampleRate, "sample", 10, "record stats every N steps")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotCol, "col", "", "series column (default: all)")

	fieldCmd := &cobra.Command{
		Use:   "field",
		Short: "run simulation and print the final field as a heatmap",
		RunE:  showField,
	}
	fieldCmd.Flags().StringVar(&preset, "preset", "baseline", "preset configuration")
	fieldCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	fieldCmd.Flags().IntVar(&steps, "steps", 0, "step count override")
	fieldCmd.Flags().StringVar(&fieldName, "field", "rho", "field to show (rho, excit, reg)")
	fieldCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	fieldCmd.Flags().BoolVar(&showDamage, "damage", false, "show broken-cell mask instead")

	spectrumCmd := &cobra.Command{
		Use:   "spectrum [run_id]",
		Short: "frequency analysis of a run series",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	spectrumCmd.Flags().StringVar(&plotCol, "col", "rho_rms", "series column to analyze")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVar(&outFile, "out", "", "output file (default: stdout)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run simulation with live visualization",
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&preset, "preset", "baseline", "preset configuration")
	liveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	liveCmd.Flags().IntVar(&stepsPerFrame, "steps-per-frame", 5, "simulation steps per frame")

	compareCmd := &cobra.Command{
		Use:   "compare [preset1] [preset2] ...",
		Short: "run presets and compare their metrics",
		Args:  cobra.MinimumNArgs(2),
		RunE:  comparePresets,
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a default config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Save(args[0], config.DefaultConfig())
		},
	}

	rootCmd.AddCommand(runCmd, presetsCmd, listCmd, plotCmd, fieldCmd, spectrumCmd, exportJSONCmd, liveCmd, compareCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves preset, config file, and flag overrides in that
// order. Flags win when explicitly set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("n") {
		cfg.GridSize = gridSize
	}
	if cmd.Flags().Changed("length") {
		cfg.Length = length
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("steps") {
		cfg.Steps = steps
	}

	return cfg, nil
}

func buildEngine(cfg *config.Config) (*engine.Engine, error) {
	eng, err := engine.New(cfg.GridSize, cfg.Length, cfg.Dt, cfg.EngineParams())
	if err != nil {
		return nil, err
	}
	eng.SeedGaussian(cfg.Seed.Amplitude, cfg.Seed.Sigma)
	return eng, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := experiment.New(cfg, sampleRate)
	if err != nil {
		return err
	}
	exp.DefaultMetrics()

	fmt.Printf("running %s (%dx%d grid, %d steps)...\n", preset, cfg.GridSize, cfg.GridSize, cfg.Steps)
	start := time.Now()

	result, err := exp.Run(context.Background())
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunMetadata{
		Preset:   preset,
		GridSize: cfg.GridSize,
		Length:   cfg.Length,
		Dt:       cfg.Dt,
		Steps:    cfg.Steps,
		Metrics:  result.Metrics,
	}, result.Series)
	if err != nil {
		return err
	}

	final := result.FinalStats
	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("final dt: %.6f (warnings: %d)\n", final.Dt, final.StabilityWarnings)
	if final.BrokenCells > 0 {
		fmt.Printf("broken cells: %d\n", final.BrokenCells)
	}
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
}

func comparePresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tSTEPS\tFINAL_DT\tMASS_DRIFT\tBOUNDEDNESS\tWARN_RATE\tTIME")

	for _, name := range args {
		cfg := config.GetPreset(name)
		if cfg == nil {
			fmt.Fprintf(w, "%s\terror: unknown preset\n", name)
			continue
		}

		exp, err := experiment.New(cfg, cfg.Steps)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", name, err)
			continue
		}
		exp.DefaultMetrics()

		start := time.Now()
		result, err := exp.Run(context.Background())
		elapsed := time.Since(start)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", name, err)
			continue
		}

		fmt.Fprintf(w, "%s\t%d\t%.6f\t%.2e\t%.3f\t%.3f\t%v\n",
			name,
			cfg.Steps,
			result.FinalStats.Dt,
			result.Metrics["mass_drift"],
			result.Metrics["boundedness"],
			result.Metrics["warning_rate"],
			elapsed.Round(time.Millisecond),
		)
	}

	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tGRID\tDT\tSTEPS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\t%.5f\t%d\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.GridSize,
			run.GridSize,
			run.Dt,
			run.Steps,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(series) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("samples: %d\n\n", len(series))

	if plotCol != "" {
		fmt.Println(viz.Trace(series, viz.SeriesColumn(plotCol), 80, 10))
		return nil
	}

	fmt.Println(viz.TraceAll(series, 80, 8))
	return nil
}

func showField(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	eng, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	eng.Advance(cfg.Steps)
	snap := eng.Snapshot()

	if showDamage {
		broken := eng.Broken()
		if broken == nil {
			return fmt.Errorf("stress tracking is not enabled in this configuration")
		}
		fmt.Print(viz.DamageOverlay(broken, cfg.GridSize, 48))
		return nil
	}

	var field = snap.Rho
	switch fieldName {
	case "rho":
	case "excit":
		field = snap.Excit
	case "reg":
		field = snap.Reg
	default:
		return fmt.Errorf("unknown field: %s (use rho, excit, or reg)", fieldName)
	}

	fmt.Print(viz.Heatmap(field, cfg.GridSize, 48, !noColor))

	stats := eng.Stats()
	fmt.Printf("\nstep %d  dt %.6f  mass %.4f  warnings %d\n",
		stats.Step, stats.Dt, stats.TotalMass, stats.StabilityWarnings)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(series) < 4 {
		return fmt.Errorf("not enough samples for analysis")
	}

	data := make([]float64, len(series))
	for i, s := range series {
		switch viz.SeriesColumn(plotCol) {
		case viz.ColRhoMax:
			data[i] = s.RhoMax
		case viz.ColExcitRMS:
			data[i] = s.ExcitRMS
		case viz.ColRegRMS:
			data[i] = s.RegRMS
		case viz.ColTotalMass:
			data[i] = s.TotalMass
		default:
			data[i] = s.RhoRMS
		}
	}

	ps := analysis.PowerSpectrum(data)
	plotData := ps
	if len(ps) > 64 {
		plotData = ps[:64]
	}

	fmt.Printf("frequency analysis: %s (%s)\n\n", meta.ID, plotCol)
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum"),
	)
	fmt.Println(graph)
	fmt.Println()

	idx, power := analysis.DominantFrequency(ps)
	sampleDt := series[1].Time - series[0].Time
	if sampleDt > 0 && idx > 0 {
		span := sampleDt * float64(len(series))
		fmt.Printf("dominant frequency: %.4f hz (bin %d, power %.3g)\n", float64(idx)/span, idx, power)
	} else {
		fmt.Println("no dominant oscillation found")
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if outFile != "" {
		return st.ExportJSONFile(args[0], outFile)
	}
	return st.ExportJSON(args[0], os.Stdout)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	return viz.Run(viz.LiveConfig{
		GridSize:      cfg.GridSize,
		Length:        cfg.Length,
		Dt:            cfg.Dt,
		Params:        cfg.EngineParams(),
		SeedAmplitude: cfg.Seed.Amplitude,
		SeedWidth:     cfg.Seed.Sigma,
		StepsPerFrame: stepsPerFrame,
	})
}

package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/isinglab/internal/analysis"
	"github.com/san-kum/isinglab/internal/config"
	"github.com/san-kum/isinglab/internal/ensemble"
	"github.com/san-kum/isinglab/internal/ising"
	"github.com/san-kum/isinglab/internal/lattice"
	"github.com/san-kum/isinglab/internal/render"
	"github.com/san-kum/isinglab/internal/storage"
	"github.com/san-kum/isinglab/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir   string
	rows      int
	cols      int
	temp      float64
	coupling  []float64
	field     float64
	initState string
	sweeps    int
	seed      int64
	dt        float64
	// Schedule selection
	scheduleKind string
	finalTemp    float64
	coolingRate  float64
	tempStep     float64
	stepEvery    float64
	fieldAmp     float64
	fieldFreq    float64
	// Config file and preset
	configFile string
	preset     string
	// Ensemble sweep parameters
	numModels  int
	startTemp  float64
	endTemp    float64
	sweepStep  float64
	plateau    int
	tailLength int
	// GIF output
	gifOut   string
	gifScale int
	gifDelay int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "isinglab",
		Short: "2d ising model monte carlo lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".isinglab", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run simulation and save the result",
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run simulation with live visualization",
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().StringVar(&gifOut, "gif", "ising.gif", "output path for recorded gif")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "temperature sweep over an ensemble of replicas",
		RunE:  runSweep,
	}
	sweepCmd.Flags().IntVar(&rows, "rows", 32, "lattice rows")
	sweepCmd.Flags().IntVar(&cols, "cols", 32, "lattice cols")
	sweepCmd.Flags().Float64SliceVarP(&coupling, "coupling", "j", []float64{1.0}, "coupling strength (one value, or row,col)")
	sweepCmd.Flags().Float64Var(&field, "field", 0.0, "external field")
	sweepCmd.Flags().Int64Var(&seed, "seed", 1, "base random seed")
	sweepCmd.Flags().IntVar(&numModels, "models", 8, "replicas per temperature")
	sweepCmd.Flags().Float64Var(&startTemp, "start", 1.0, "start temperature")
	sweepCmd.Flags().Float64Var(&endTemp, "end", 4.0, "end temperature")
	sweepCmd.Flags().Float64Var(&sweepStep, "step", 0.1, "temperature step")
	sweepCmd.Flags().IntVar(&plateau, "plateau", 60, "sweeps per temperature")
	sweepCmd.Flags().IntVar(&tailLength, "tail", 10, "trailing sweeps averaged per point")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "run simulation and record spins to a gif",
		RunE:  renderGIF,
	}
	addSimFlags(renderCmd)
	renderCmd.Flags().StringVar(&gifOut, "out", "ising.gif", "output gif path")
	renderCmd.Flags().IntVar(&gifScale, "scale", 4, "pixels per spin")
	renderCmd.Flags().IntVar(&gifDelay, "delay", 50, "frame delay in milliseconds")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot observable histories of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "spectral and autocorrelation analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and history to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run history to CSV on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSIZE\tTEMP\tSCHEDULE")
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				kind := cfg.Schedule.Kind
				if kind == "" {
					kind = "-"
				}
				fmt.Fprintf(w, "%s\t%dx%d\t%.3f\t%s\n", name, cfg.Rows, cfg.Cols, cfg.Temp, kind)
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, sweepCmd, renderCmd, listCmd, plotCmd, analyzeCmd, exportJSONCmd, exportCSVCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&rows, "rows", config.DefaultSize, "lattice rows")
	cmd.Flags().IntVar(&cols, "cols", config.DefaultSize, "lattice cols")
	cmd.Flags().Float64Var(&temp, "temp", config.DefaultTemp, "temperature")
	cmd.Flags().Float64SliceVarP(&coupling, "coupling", "j", []float64{config.DefaultJ}, "coupling strength (one value, or row,col)")
	cmd.Flags().Float64Var(&field, "field", 0.0, "external field")
	cmd.Flags().StringVar(&initState, "init", "random", "initial state (up, down, random)")
	cmd.Flags().IntVar(&sweeps, "sweeps", config.DefaultSweeps, "number of sweeps")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time-based)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "schedule time per sweep")
	cmd.Flags().StringVar(&scheduleKind, "schedule", "", "schedule kind (constant, cooling, heating, sine-field)")
	cmd.Flags().Float64Var(&finalTemp, "final-temp", 0.5, "cooling target temperature")
	cmd.Flags().Float64Var(&coolingRate, "cooling-rate", 0.5, "cooling rate")
	cmd.Flags().Float64Var(&tempStep, "temp-step", 0.1, "heating temperature increment")
	cmd.Flags().Float64Var(&stepEvery, "step-every", 6.0, "heating plateau length in schedule time")
	cmd.Flags().Float64Var(&fieldAmp, "field-amp", 0.5, "sine field amplitude")
	cmd.Flags().Float64Var(&fieldFreq, "field-freq", 1.0, "sine field angular frequency")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// buildConfig resolves the run configuration. Precedence from lowest to
// highest: defaults, preset, config file, explicitly set flags.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("rows") {
		cfg.Rows = rows
	}
	if cmd.Flags().Changed("cols") {
		cfg.Cols = cols
	}
	if cmd.Flags().Changed("temp") {
		cfg.Temp = temp
	}
	if cmd.Flags().Changed("coupling") {
		switch len(coupling) {
		case 1:
			cfg.JRow, cfg.JCol = coupling[0], coupling[0]
		case 2:
			cfg.JRow, cfg.JCol = coupling[0], coupling[1]
		default:
			return nil, fmt.Errorf("coupling takes one value or row,col, got %d values", len(coupling))
		}
	}
	if cmd.Flags().Changed("field") {
		cfg.Field = field
	}
	if cmd.Flags().Changed("init") {
		cfg.InitState = initState
	}
	if cmd.Flags().Changed("sweeps") {
		cfg.Sweeps = sweeps
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("schedule") {
		cfg.Schedule = config.ScheduleConfig{
			Kind:        scheduleKind,
			FinalTemp:   finalTemp,
			CoolingRate: coolingRate,
			TempStep:    tempStep,
			StepEvery:   stepEvery,
			FieldAmp:    fieldAmp,
			FieldFreq:   fieldFreq,
		}
	}

	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildRunner(cfg *config.Config) (*ising.Runner, error) {
	model, err := ising.New(cfg.LatticeConfig())
	if err != nil {
		return nil, err
	}
	return ising.NewRunner(model, cfg.BuildSchedule(), cfg.Dt), nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	runner, err := buildRunner(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("running %dx%d lattice at T=%.3f...\n", cfg.Rows, cfg.Cols, cfg.Temp)
	start := time.Now()

	if err := runner.Run(context.Background(), cfg.Sweeps); err != nil {
		return err
	}

	elapsed := time.Since(start)

	meta := storage.RunMetadata{
		Rows:      cfg.Rows,
		Cols:      cfg.Cols,
		Temp:      cfg.Temp,
		Field:     cfg.Field,
		JRow:      cfg.JRow,
		JCol:      cfg.JCol,
		InitState: cfg.InitState,
		Seed:      cfg.Seed,
		Schedule:  cfg.Schedule.Kind,
	}
	runID, err := st.Save("ising", meta, runner)
	if err != nil {
		return err
	}

	energy, magnet, heat, chi := runner.Model().Last()
	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("sweeps: %d\n", runner.Model().Generation())
	fmt.Println("\nfinal observables:")
	fmt.Printf("  mean energy:    %.6f\n", energy)
	fmt.Printf("  magnetization:  %.6f\n", magnet)
	fmt.Printf("  specific heat:  %.6f\n", heat)
	fmt.Printf("  susceptibility: %.6f\n", chi)

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	runner, err := buildRunner(cfg)
	if err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewModel(runner, gifOut))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	jRow, jCol := coupling[0], coupling[0]
	if len(coupling) == 2 {
		jRow, jCol = coupling[0], coupling[1]
	} else if len(coupling) > 2 {
		return fmt.Errorf("coupling takes one value or row,col, got %d values", len(coupling))
	}

	sw := ensemble.Sweep{
		Models:    numModels,
		SeedBase:  seed,
		StartTemp: startTemp,
		EndTemp:   endTemp,
		TempStep:  sweepStep,
		Plateau:   plateau,
		Tail:      tailLength,
	}

	base := lattice.Config{
		Rows:        rows,
		Cols:        cols,
		Temperature: startTemp,
		Coupling:    lattice.Coupling{Row: jRow, Col: jCol},
		Field:       field,
		Init:        lattice.InitRandom,
		Seed:        seed,
	}

	fmt.Printf("sweeping T=%.2f..%.2f step %.2f, %d replicas of %dx%d...\n",
		sw.StartTemp, sw.EndTemp, sw.TempStep, sw.Models, base.Rows, base.Cols)
	start := time.Now()

	points, err := sw.Run(context.Background(), base)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n\n", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TEMP\tENERGY\tMAGNET\tSPEC_HEAT\tSUSCEPT")
	for _, p := range points {
		fmt.Fprintf(w, "%.3f\t%.4f\t%.4f\t%.4f\t%.4f\n",
			p.Temperature, p.MeanEnergy, p.Magnetization, p.SpecificHeat, p.Susceptibility)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	magnet := make([]float64, len(points))
	heat := make([]float64, len(points))
	for i, p := range points {
		magnet[i] = p.Magnetization
		heat[i] = p.SpecificHeat
	}
	fmt.Println()
	fmt.Println(asciigraph.Plot(magnet, asciigraph.Height(10), asciigraph.Width(70), asciigraph.Caption("magnetization vs temperature")))
	fmt.Println()
	fmt.Println(asciigraph.Plot(heat, asciigraph.Height(10), asciigraph.Width(70), asciigraph.Caption("specific heat vs temperature")))

	return nil
}

func renderGIF(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	runner, err := buildRunner(cfg)
	if err != nil {
		return err
	}

	rec := render.NewRecorder(gifScale, gifDelay)
	rec.Capture(runner.Model().Lattice())
	for i := 0; i < cfg.Sweeps; i++ {
		runner.Step()
		rec.Capture(runner.Model().Lattice())
	}

	if err := rec.Save(gifOut); err != nil {
		return err
	}
	fmt.Printf("wrote %d frames to %s\n", rec.Frames(), gifOut)
	return nil
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
	fmt.Fprintln(w, "ID\tTIME\tSIZE\tTEMP\tFIELD\tSWEEPS\tMAGNET")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%dx%d\t%.3f\t%.3f\t%d\t%.4f\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Rows,
			run.Cols,
			run.Temp,
			run.Field,
			run.Sweeps,
			run.Magnetization,
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

	h, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}
	if len(h.Generations) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("lattice: %dx%d at T=%.3f\n", meta.Rows, meta.Cols, meta.Temp)
	fmt.Printf("samples: %d\n\n", len(h.Generations))

	series := []struct {
		data    []float64
		caption string
	}{
		{h.MeanEnergy, "mean energy per sweep"},
		{h.Magnetization, "magnetization per spin"},
		{h.SpecificHeat, "specific heat"},
		{h.Susceptibility, "susceptibility"},
	}
	if meta.Schedule != "" {
		series = append(series,
			struct {
				data    []float64
				caption string
			}{h.Temps, "temperature schedule"})
	}

	for _, s := range series {
		graph := asciigraph.Plot(s.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	h, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}
	if len(h.Magnetization) == 0 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("analysis: %s\n", meta.ID)
	fmt.Printf("lattice: %dx%d at T=%.3f\n\n", meta.Rows, meta.Cols, meta.Temp)

	ps := analysis.PowerSpectrum(h.Magnetization)
	if len(ps) > 1 {
		plotData := ps
		if len(plotData) > 4 {
			plotData = plotData[:len(plotData)/4]
		}
		graph := asciigraph.Plot(plotData,
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption("magnetization power spectrum"),
		)
		fmt.Println(graph)
		fmt.Println()

		duration := h.Times[len(h.Times)-1]
		if duration > 0 {
			freq := analysis.DominantFrequency(ps, duration)
			fmt.Printf("dominant frequency: %.4f per unit time\n", freq)
			if freq > 0 {
				fmt.Printf("period: %.4f\n", 1.0/freq)
			}
		}
	}

	tau := analysis.IntegratedAutocorrTime(h.Magnetization)
	ess := analysis.EffectiveSampleSize(h.Magnetization)
	fmt.Printf("integrated autocorrelation time: %.3f sweeps\n", tau)
	fmt.Printf("effective sample size: %.0f of %d\n", ess, len(h.Magnetization))

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	h, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}

	out := struct {
		Meta           *storage.RunMetadata `json:"meta"`
		Times          []float64            `json:"times"`
		Temps          []float64            `json:"temps"`
		Fields         []float64            `json:"fields"`
		MeanEnergy     []float64            `json:"mean_energy"`
		Magnetization  []float64            `json:"magnetization"`
		SpecificHeat   []float64            `json:"specific_heat"`
		Susceptibility []float64            `json:"susceptibility"`
	}{meta, h.Times, h.Temps, h.Fields, h.MeanEnergy, h.Magnetization, h.SpecificHeat, h.Susceptibility}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	h, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}
	if len(h.Generations) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"gen", "time", "temp", "field", "mean_energy", "magnetization", "specific_heat", "susceptibility"}); err != nil {
		return err
	}

	ff := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	for i := range h.Generations {
		row := []string{
			strconv.Itoa(h.Generations[i]),
			ff(h.Times[i]), ff(h.Temps[i]), ff(h.Fields[i]),
			ff(h.MeanEnergy[i]), ff(h.Magnetization[i]),
			ff(h.SpecificHeat[i]), ff(h.Susceptibility[i]),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

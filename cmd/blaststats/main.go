// Command blaststats runs every reactor stage headless and prints a
// summary table.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/milk9111/reactorsim/logger"
	"github.com/milk9111/reactorsim/presets"
	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"
)

func main() {
	frames := flag.Int("frames", 180, "frames to simulate per stage")
	dt := flag.Float64("dt", 1.0/60, "seconds per frame")
	seed := flag.Int64("seed", 1986, "random seed")
	presetsPath := flag.String("presets", "", "stage preset YAML file")
	noise := flag.String("noise", "trig", "turbulence field: trig or simplex")
	energy := flag.Float64("energy", 1, "energy scale override")
	drag := flag.Float64("drag", 0, "drag offset override")
	logLevel := flag.String("log-level", "warn", "log level")
	flag.Parse()

	log, err := logger.New(logger.Config{Level: *logLevel, Development: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	table, err := presets.LoadTable(*presetsPath)
	if err != nil {
		log.Error("load presets", zap.String("path", *presetsPath), zap.Error(err))
		os.Exit(1)
	}

	if *frames < 1 || *dt <= 0 {
		log.Error("frames and dt must be positive", zap.Int("frames", *frames), zap.Float64("dt", *dt))
		os.Exit(2)
	}

	cfg := RunConfig{
		Frames:    *frames,
		DT:        *dt,
		Seed:      *seed,
		Noise:     *noise,
		Overrides: presets.Overrides{EnergyScale: *energy, DragOffset: *drag}.Clamped(),
	}
	stats := Run(table, cfg, log)

	color.New(color.FgHiYellow, color.Bold, color.Underline).Printf(
		"Reactor stages after %d frames (%v simulated, seed %d)\n", cfg.Frames, SimulatedTime(cfg), cfg.Seed)
	if err := WriteTable(os.Stdout, stats); err != nil {
		log.Error("render table", zap.Error(err))
		os.Exit(1)
	}

	for _, st := range stats {
		if !st.Finite {
			color.New(color.FgHiRed, color.Bold).Printf("stage %d produced non-finite particles\n", st.Stage+1)
			os.Exit(1)
		}
	}
}

// WriteTable renders stats as a table on w.
func WriteTable(w io.Writer, stats []StageStats) error {
	table := tablewriter.NewWriter(w)
	if err := table.Append([]string{"#", "Stage", "Energy", "Particles", "Respawns", "Mean Y", "Max Y", "Speed", "Temp", "Grounded", "Debris", "Debris R", "Shock R", "Scorch R"}); err != nil {
		return fmt.Errorf("append header: %w", err)
	}

	for _, st := range stats {
		title := energyColor(st.Energy).Sprint(st.Title)
		row := []string{
			fmt.Sprintf("%d", st.Stage+1),
			title,
			fmt.Sprintf("%.1f", st.Energy),
			fmt.Sprintf("%d", st.Particles),
			fmt.Sprintf("%d", st.Respawns),
			fmt.Sprintf("%.2f", st.MeanY),
			fmt.Sprintf("%.2f", st.MaxY),
			fmt.Sprintf("%.2f", st.MeanSpeed),
			fmt.Sprintf("%.2f", st.MeanTemp),
			fmt.Sprintf("%.0f%%", 100*st.Grounded),
			fmt.Sprintf("%d", st.Debris),
			fmt.Sprintf("%.1f", st.DebrisMax),
			fmt.Sprintf("%.1f", st.Shock),
			fmt.Sprintf("%.1f", st.Scorch),
		}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("append stage %d: %w", st.Stage+1, err)
		}
	}
	return table.Render()
}

func energyColor(energy float64) *color.Color {
	switch {
	case energy >= 7:
		return color.New(color.FgHiRed, color.Bold)
	case energy >= 3:
		return color.New(color.FgHiYellow, color.Bold)
	case energy >= 1:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgHiBlue)
	}
}

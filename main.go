package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/reactorsim/common"
	"github.com/milk9111/reactorsim/logger"
	"github.com/milk9111/reactorsim/playback"
	"github.com/milk9111/reactorsim/presets"
	"github.com/milk9111/reactorsim/scene"
	"github.com/milk9111/reactorsim/sound"
	"go.uber.org/zap"
)

func main() {
	stage := flag.Int("stage", 0, "initial stage index (0-based, clamped)")
	composite := flag.Bool("composite", false, "start with every stage shown side by side")
	seed := flag.Int64("seed", 1986, "random seed for every particle system")
	noise := flag.String("noise", "trig", "turbulence field: trig or simplex")
	presetsPath := flag.String("presets", "", "stage preset YAML file (default: presets/stages.yaml, then embedded)")
	watch := flag.Bool("watch", false, "reload presets and sequence script when they change on disk")
	mute := flag.Bool("mute", false, "disable the blast sound")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	scriptPath := flag.String("script", "", "tengo sequence script (default: presets/scripts/sequence.tengo)")
	dev := flag.Bool("dev", true, "human readable console logs")
	flag.Parse()

	log, err := logger.New(logger.Config{Level: *logLevel, Development: *dev})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(log, *stage, *composite, *seed, *noise, *presetsPath, *scriptPath, *watch, *mute); err != nil {
		log.Error("reactorsim exited", zap.Error(err))
		if errors.Is(err, scene.ErrRendererUnavailable) {
			fmt.Fprintln(os.Stderr, "reactorsim: 3D rendering is not available here; try `go run ./cmd/blaststats` for a text summary.")
		}
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.Logger, stage int, composite bool, seed int64, noise, presetsPath, scriptPath string, watch, mute bool) error {
	table, err := presets.LoadTable(presetsPath)
	if err != nil {
		return fmt.Errorf("load presets: %w", err)
	}
	log.Info("presets loaded", zap.String("path", presetsPath), zap.Int("stages", table.Len()))

	script := scriptPath
	if script == "" {
		script = playback.DefaultScript
	}
	durations, err := playback.LoadDurations(script, table.Len())
	if err != nil {
		log.Warn("sequence script failed, using canonical durations", zap.String("path", script), zap.Error(err))
	}

	var watcher *presets.Watcher
	if watch {
		dirs := []string{"presets", filepath.Join("presets", "scripts")}
		if presetsPath != "" {
			dirs = append(dirs, filepath.Dir(presetsPath))
		}
		if scriptPath != "" {
			dirs = append(dirs, filepath.Dir(scriptPath))
		}
		watcher, err = presets.NewWatcher(dirs...)
		if err != nil {
			log.Warn("preset watcher disabled", zap.Error(err))
			watcher = nil
		}
	}

	game := NewGame(table, durations, GameOptions{
		Stage:       stage,
		Composite:   composite,
		Seed:        seed,
		Noise:       noise,
		PresetsPath: presetsPath,
		ScriptPath:  scriptPath,
	}, sound.NewPlayer(mute, seed, log), watcher, log)
	defer game.Close()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(common.BaseWidth, common.BaseHeight)
	ebiten.SetWindowTitle("reactorsim")

	if err := ebiten.RunGame(game); err != nil {
		return fmt.Errorf("%w: %v", scene.ErrRendererUnavailable, err)
	}
	return nil
}

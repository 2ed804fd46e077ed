package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/reactorsim/common"
	"github.com/milk9111/reactorsim/effects"
	"github.com/milk9111/reactorsim/playback"
	"github.com/milk9111/reactorsim/presets"
	"github.com/milk9111/reactorsim/render"
	"github.com/milk9111/reactorsim/scene"
	"github.com/milk9111/reactorsim/sim"
	"github.com/milk9111/reactorsim/sound"
	"go.uber.org/zap"
	"golang.org/x/image/colornames"
)

const (
	energyStep = 0.1
	dragStep   = 0.01
	orbitSpeed = 0.9
)

var stageKeys = []ebiten.Key{
	ebiten.Key1, ebiten.Key2, ebiten.Key3,
	ebiten.Key4, ebiten.Key5, ebiten.Key6,
	ebiten.Key7, ebiten.Key8, ebiten.Key9,
}

type GameOptions struct {
	Stage       int
	Composite   bool
	Seed        int64
	Noise       string
	PresetsPath string
	ScriptPath  string
}

type Game struct {
	log  *zap.Logger
	opts GameOptions

	table      *presets.Table
	clock      *sim.Clock
	controller *playback.Controller
	composer   *scene.Composer
	effects    effects.Set
	overrides  presets.Overrides

	probe       scene.Probe
	newRenderer func() (*render.Renderer, error)
	renderer    *render.Renderer
	sound       *sound.Player
	watcher     *presets.Watcher
	clip        func(*zap.Logger, []byte) bool
	ui          *ebitenui.UI
	controls    *Controls

	built    bool
	dirty    bool
	showHUD  bool
	fallback string
}

func NewGame(table *presets.Table, durations []time.Duration, opts GameOptions, snd *sound.Player, watcher *presets.Watcher, log *zap.Logger) *Game {
	if log == nil {
		log = zap.NewNop()
	}
	g := &Game{
		log:        log,
		opts:       opts,
		table:      table,
		clock:      sim.NewClock(),
		controller: playback.NewController(table.Len(), durations),
		overrides:  presets.DefaultOverrides(),
		probe:      render.Probe,
		newRenderer: func() (*render.Renderer, error) {
			return render.New(common.BaseWidth, common.BaseHeight)
		},
		sound:   snd,
		watcher: watcher,
		clip:    copyToClipboard,
		showHUD: true,
	}
	g.controller.Select(opts.Stage)
	g.controller.SetComposite(opts.Composite)
	g.controller.OnChange = func(stage int) {
		g.log.Info("stage changed", zap.Int("stage", stage), zap.String("title", g.table.At(stage).Title))
	}
	return g
}

// build creates the scene, renderer and panel on the first frame. Failure
// leaves the game in fallback mode for good.
func (g *Game) build() {
	g.built = true

	composer, err := scene.Build(g.probe, g.table, scene.Options{
		Seed:   g.opts.Seed,
		Field:  g.opts.Noise,
		Logger: g.log,
	})
	if err != nil {
		g.enterFallback(err)
		return
	}
	if g.newRenderer != nil {
		r, err := g.newRenderer()
		if err != nil {
			g.enterFallback(fmt.Errorf("%w: %v", scene.ErrRendererUnavailable, err))
			return
		}
		g.renderer = r
		g.controls = NewControls(g)
		g.ui = g.controls.UI
	}
	g.composer = composer
	g.dirty = true
}

func (g *Game) enterFallback(err error) {
	g.log.Error("renderer unavailable", zap.Error(err))
	g.fallback = fallbackMessage(err)
}

func fallbackMessage(err error) string {
	msg := "This display cannot render the reactor scene."
	if errors.Is(err, scene.ErrRendererUnavailable) {
		msg = "3D rendering is not available on this system."
	}
	return msg + "\n\n" + err.Error() + "\n\nRun blaststats for a text-only summary."
}

func (g *Game) Update() error {
	if !g.built {
		g.build()
	}
	if g.fallback != "" {
		return nil
	}

	g.pollWatcher()
	g.handleInput()
	if g.ui != nil {
		g.ui.Update()
	}
	g.step(1 / float64(ebiten.TPS()))
	if g.controls != nil {
		g.controls.Refresh()
	}
	return nil
}

// step advances time, playback and every live system by one frame.
func (g *Game) step(dt float64) {
	g.clock.Tick(dt)
	g.controller.Tick(g.clock.Now())
	g.sync()
	g.composer.Advance(g.clock.Delta(), g.clock.Elapsed())
}

// sync rebuilds the scene when the stage, mode or overrides changed, and
// re-arms the transient effects for the new selection.
func (g *Game) sync() {
	want := scene.NewSelection(g.table, g.controller.Stage(), g.controller.Composite(), g.overrides)
	if !g.dirty && g.composer.Selection() == want {
		return
	}
	g.dirty = false
	g.composer.Select(want.Stage, want.Composite, want.Overrides)
	g.frameCamera()

	key, energy := g.composer.EffectKey()
	if g.effects.Update(key, energy, g.clock.Now()) {
		g.log.Info("blast",
			zap.Int("stage", key.Stage),
			zap.Bool("composite", key.Composite),
			zap.Float64("energy", energy),
		)
		if g.sound != nil {
			g.sound.Blast(energy)
		}
	}
}

func (g *Game) frameCamera() {
	if g.renderer == nil {
		return
	}
	cam := g.renderer.Camera()
	if g.controller.Composite() {
		cam.Frame(float64(g.table.Len()) * scene.CompositeSpacing)
	} else {
		cam.Frame(0)
	}
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		err := g.watcher.PollError()
		if err == nil {
			break
		}
		g.log.Warn("preset watcher", zap.Error(err))
	}
	for {
		name, ok := g.watcher.Poll()
		if !ok {
			return
		}
		switch {
		case presets.IsPresetFile(name):
			g.reloadPresets(name)
		case presets.IsScriptFile(name):
			g.reloadScript(name)
		}
	}
}

// reloadPresets swaps in a new preset table. A broken file keeps the
// current one.
func (g *Game) reloadPresets(changed string) {
	if g.opts.PresetsPath != "" && filepath.Base(changed) != filepath.Base(g.opts.PresetsPath) {
		return
	}
	table, err := presets.LoadTable(g.opts.PresetsPath)
	if err != nil {
		g.log.Warn("preset reload failed, keeping current table", zap.String("path", changed), zap.Error(err))
		return
	}
	g.table = table
	if g.composer != nil {
		g.composer.SetTable(table)
	}
	g.dirty = true
	g.log.Info("presets reloaded", zap.String("path", changed), zap.Int("stages", table.Len()))
}

func (g *Game) reloadScript(changed string) {
	name := g.opts.ScriptPath
	if name == "" {
		name = playback.DefaultScript
	}
	if filepath.Base(changed) != filepath.Base(name) {
		return
	}
	durations, err := playback.LoadDurations(name, g.table.Len())
	if err != nil {
		g.log.Warn("sequence reload failed, keeping current durations", zap.String("path", changed), zap.Error(err))
		return
	}
	g.controller.SetDurations(durations)
	g.log.Info("sequence reloaded", zap.String("path", changed), zap.Int("stages", len(durations)))
}

func (g *Game) handleInput() {
	for i, key := range stageKeys {
		if i >= g.table.Len() {
			break
		}
		if inpututil.IsKeyJustPressed(key) {
			g.SelectStage(i)
		}
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace), inpututil.IsKeyJustPressed(ebiten.KeyP):
		g.Play()
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		g.ToggleComposite()
	case inpututil.IsKeyJustPressed(ebiten.KeyUp):
		g.AdjustEnergy(energyStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyDown):
		g.AdjustEnergy(-energyStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketRight):
		g.AdjustDrag(dragStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft):
		g.AdjustDrag(-dragStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.ResetOverrides()
	case inpututil.IsKeyJustPressed(ebiten.KeyH):
		g.showHUD = !g.showHUD
	case inpututil.IsKeyJustPressed(ebiten.KeyY):
		g.CopyPreset()
	}

	if g.renderer != nil {
		cam := g.renderer.Camera()
		turn := orbitSpeed / float64(ebiten.TPS())
		if ebiten.IsKeyPressed(ebiten.KeyLeft) {
			cam.Yaw -= turn
		}
		if ebiten.IsKeyPressed(ebiten.KeyRight) {
			cam.Yaw += turn
		}
		if _, wy := ebiten.Wheel(); wy != 0 {
			cam.Zoom(1 - 0.1*wy)
		}
	}
}

func (g *Game) SelectStage(i int) {
	g.controller.Select(i)
}

// Play starts the timed sequence from stage 0, leaving composite mode.
func (g *Game) Play() {
	g.controller.Play(g.clock.Now())
	g.dirty = true
	g.log.Info("auto-play started", zap.Int("stages", g.table.Len()))
}

func (g *Game) ToggleComposite() {
	g.controller.SetComposite(!g.controller.Composite())
}

func (g *Game) AdjustEnergy(delta float64) {
	g.overrides.EnergyScale += delta
	g.overrides = g.overrides.Clamped()
}

func (g *Game) AdjustDrag(delta float64) {
	g.overrides.DragOffset += delta
	g.overrides = g.overrides.Clamped()
}

func (g *Game) ResetOverrides() {
	g.overrides = presets.DefaultOverrides()
}

// CopyPreset puts the active stage, overrides applied, on the clipboard
// as YAML.
func (g *Game) CopyPreset() {
	stage := g.table.ClampIndex(g.controller.Stage())
	data, err := presets.MarshalStage(g.overrides.Apply(g.table.At(stage)))
	if err != nil {
		g.log.Warn("marshal preset", zap.Int("stage", stage), zap.Error(err))
		return
	}
	if g.clip(g.log, data) {
		g.log.Info("preset copied", zap.Int("stage", stage), zap.Int("bytes", len(data)))
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.fallback != "" {
		render.DrawFallback(screen, g.fallback)
		return
	}
	if g.composer == nil || g.renderer == nil {
		return
	}

	frame := render.Frame{
		Groups:    g.composer.Groups(),
		Effects:   g.effects.State(g.clock.Now()),
		Composite: g.controller.Composite(),
		Heat:      g.composer.Heat(),
	}
	if err := render.Guard(func() { g.renderer.Draw(screen, frame) }); err != nil {
		g.enterFallback(fmt.Errorf("%w: %v", scene.ErrRendererUnavailable, err))
		return
	}

	if g.ui != nil {
		g.ui.Draw(screen)
	}
	if g.showHUD {
		render.DrawLines(screen, g.hudLines(), common.BaseWidth-360, 12, colornames.Lightgray)
	}
}

func (g *Game) hudLines() []string {
	sel := g.composer.Selection()
	p := g.table.At(sel.Stage)
	if sel.Composite {
		p = g.table.At(g.table.Len() - 1)
	}

	particles := 0
	debris := 0
	for _, grp := range g.composer.Groups() {
		particles += grp.Particles()
		debris += grp.Debris.Len()
	}

	mode := fmt.Sprintf("Stage %d/%d", sel.Stage+1, g.table.Len())
	if sel.Composite {
		mode = "Composite (all stages)"
	}
	return []string{
		fmt.Sprintf("%s  %s", p.Time, p.Title),
		mode + "  " + g.controller.State().String(),
		fmt.Sprintf("Energy x%.1f  Drag %+.2f", sel.Overrides.EnergyScale, sel.Overrides.DragOffset),
		fmt.Sprintf("Particles %d  Debris %d", particles, debris),
		fmt.Sprintf("FPS %.1f", ebiten.ActualFPS()),
		"1-6 stage  Space play  C composite",
		"Up/Down energy  [ ] drag  R reset  H hud",
		"Left/Right orbit  wheel zoom  Y copy preset",
	}
}

func (g *Game) Close() {
	if g.watcher != nil {
		if err := g.watcher.Close(); err != nil {
			g.log.Warn("close watcher", zap.Error(err))
		}
	}
	if g.sound != nil {
		g.sound.Close()
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

package sound

import (
	"github.com/hajimehoshi/ebiten/v2/audio"
	"go.uber.org/zap"
)

// Player plays the blast rumble. A muted Player does nothing.
type Player struct {
	ctx    *audio.Context
	player *audio.Player
	seed   int64
	mute   bool
	volume float64
	log    *zap.Logger
}

func NewPlayer(mute bool, seed int64, log *zap.Logger) *Player {
	if log == nil {
		log = zap.NewNop()
	}
	p := &Player{mute: mute, seed: seed, volume: 0.6, log: log}
	if mute {
		return p
	}
	p.ctx = audio.CurrentContext()
	if p.ctx == nil {
		p.ctx = audio.NewContext(SampleRate)
	}
	return p
}

func (p *Player) Muted() bool {
	return p.mute || p.ctx == nil
}

// Blast starts a rumble for energy, cutting off any previous one.
func (p *Player) Blast(energy float64) {
	if p.Muted() {
		return
	}
	p.stop()
	p.player = p.ctx.NewPlayerFromBytes(Rumble(energy, p.ctx.SampleRate(), p.seed))
	p.player.SetVolume(p.volume)
	p.player.Play()
	p.log.Debug("blast rumble", zap.Float64("energy", energy), zap.Float64("seconds", RumbleDuration(energy)))
}

func (p *Player) stop() {
	if p.player == nil {
		return
	}
	if err := p.player.Close(); err != nil {
		p.log.Warn("close rumble player", zap.Error(err))
	}
	p.player = nil
}

// Close stops playback.
func (p *Player) Close() {
	p.stop()
}

package render

import (
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"
)

const lineHeight = 16

var face ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)

// Face is the UI font shared with the control panel.
func Face() *ebtext.Face {
	return &face
}

// DrawLines prints lines top-down starting at (x, y).
func DrawLines(screen *ebiten.Image, lines []string, x, y float64, clr color.Color) {
	for i, line := range lines {
		op := &ebtext.DrawOptions{}
		op.GeoM.Translate(x, y+float64(i*lineHeight))
		op.ColorScale.ScaleWithColor(clr)
		ebtext.Draw(screen, line, face, op)
	}
}

// DrawFallback replaces the scene with a plain message.
func DrawFallback(screen *ebiten.Image, msg string) {
	screen.Fill(colornames.Darkslategray)
	lines := strings.Split(msg, "\n")
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	y := float64(h)/2 - float64(len(lines)*lineHeight)/2
	DrawLines(screen, lines, float64(w)/8, y, colornames.White)
}

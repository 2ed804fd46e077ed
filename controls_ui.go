package main

import (
	"fmt"
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/milk9111/reactorsim/render"
)

// Controls is the on-screen panel: one button per stage, playback, the
// composite toggle and the override steppers.
type Controls struct {
	UI *ebitenui.UI

	g         *Game
	status    *widget.Text
	composite *widget.Button
}

func NewControls(g *Game) *Controls {
	c := &Controls{g: g}

	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 170})
	btnImg := &widget.ButtonImage{
		Idle:    imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255}),
		Hover:   imageui.NewNineSliceColor(color.NRGBA{R: 0x4a, G: 0x4a, B: 0x4a, A: 255}),
		Pressed: imageui.NewNineSliceColor(color.NRGBA{R: 0x80, G: 0x3a, B: 0x10, A: 255}),
	}
	face := render.Face()
	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	btnTextColor := &widget.ButtonTextColor{Idle: white}

	button := func(label string, onClick func()) *widget.Button {
		return widget.NewButton(
			widget.ButtonOpts.Image(btnImg),
			widget.ButtonOpts.Text(label, face, btnTextColor),
			widget.ButtonOpts.WidgetOpts(
				widget.WidgetOpts.MinSize(0, 24),
				widget.WidgetOpts.LayoutData(widget.RowLayoutData{Stretch: true}),
			),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				onClick()
			}),
		)
	}
	row := func(children ...*widget.Button) *widget.Container {
		r := widget.NewContainer(
			widget.ContainerOpts.Layout(widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
				widget.RowLayoutOpts.Spacing(6),
			)),
			widget.ContainerOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Stretch: true})),
		)
		for _, child := range children {
			r.AddChild(child)
		}
		return r
	}

	title := widget.NewText(
		widget.TextOpts.Text("Reactor timeline", face, white),
	)
	c.status = widget.NewText(
		widget.TextOpts.Text("", face, color.NRGBA{R: 0xff, G: 0xc8, B: 0x80, A: 0xff}),
	)

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(6),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 12, Bottom: 12, Left: 12, Right: 12}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(240, 0),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionStart, VerticalPosition: widget.AnchorLayoutPositionStart}),
		),
	)
	panel.AddChild(title)

	for i, p := range g.table.All() {
		stage := i
		panel.AddChild(button(fmt.Sprintf("%d  %s", i+1, p.Time), func() { g.SelectStage(stage) }))
	}

	c.composite = button("Composite: off", g.ToggleComposite)
	panel.AddChild(row(button("Play", g.Play), c.composite))
	panel.AddChild(row(
		button("Energy -", func() { g.AdjustEnergy(-energyStep) }),
		button("Energy +", func() { g.AdjustEnergy(energyStep) }),
	))
	panel.AddChild(row(
		button("Drag -", func() { g.AdjustDrag(-dragStep) }),
		button("Drag +", func() { g.AdjustDrag(dragStep) }),
	))
	panel.AddChild(row(
		button("Reset", g.ResetOverrides),
		button("Copy YAML", g.CopyPreset),
	))
	panel.AddChild(c.status)

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(panel)

	c.UI = &ebitenui.UI{Container: root}
	return c
}

// Refresh updates the labels that mirror game state.
func (c *Controls) Refresh() {
	g := c.g
	mode := "off"
	if g.controller.Composite() {
		mode = "on"
	}
	if txt := c.composite.Text(); txt != nil {
		txt.Label = "Composite: " + mode
	}
	c.status.Label = fmt.Sprintf("x%.1f energy  %+.2f drag\n%s", g.overrides.EnergyScale, g.overrides.DragOffset, g.controller.State())
}

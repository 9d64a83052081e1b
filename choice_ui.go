package main

import (
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/commojun/adventure/common"
)

// choiceMenu is a centered column of buttons, one per choice in source
// order. Clicks are recorded and picked up by the game after ui.Update so the
// menu is never rebuilt from inside its own click handler.
type choiceMenu struct {
	ui      *ebitenui.UI
	panel   *widget.Container
	face    ebtext.Face
	visible bool
	clicked int
}

func newChoiceMenu(face ebtext.Face) *choiceMenu {
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 160})

	m := &choiceMenu{face: face, clicked: -1}
	m.panel = widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(14),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 24, Bottom: 24, Left: 30, Right: 30}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(common.BaseWidth/2, 0),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: widget.AnchorLayoutPositionCenter}),
		),
	)

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(m.panel)
	m.ui = &ebitenui.UI{Container: root}
	return m
}

// Set replaces the buttons. No labels hides the menu.
func (m *choiceMenu) Set(labels []string) {
	m.panel.RemoveChildren()
	m.clicked = -1
	m.visible = len(labels) > 0

	idle := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x44, A: 235})
	hover := imageui.NewNineSliceColor(color.NRGBA{R: 0x4a, G: 0x4a, B: 0x66, A: 245})
	pressed := imageui.NewNineSliceColor(color.NRGBA{R: 0x22, G: 0x22, B: 0x2e, A: 255})
	textColor := &widget.ButtonTextColor{Idle: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}}

	for k, label := range labels {
		btn := widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: idle, Hover: hover, Pressed: pressed}),
			widget.ButtonOpts.Text(label, &m.face, textColor),
			widget.ButtonOpts.WidgetOpts(
				widget.WidgetOpts.MinSize(0, 48),
				widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter, Stretch: true}),
			),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				m.clicked = k
			}),
		)
		m.panel.AddChild(btn)
	}
}

func (m *choiceMenu) Visible() bool {
	return m.visible
}

// Update runs the ui and returns the clicked button index, or -1.
func (m *choiceMenu) Update() int {
	if !m.visible {
		return -1
	}
	m.ui.Update()
	k := m.clicked
	m.clicked = -1
	return k
}

func (m *choiceMenu) Draw(screen *ebiten.Image) {
	if m.visible {
		m.ui.Draw(screen)
	}
}

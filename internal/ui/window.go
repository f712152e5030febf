//go:build !headless

package ui

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/cwbudde/algo-ambient/interact"
)

const mousePointer = 0

var (
	colorBackground = color.RGBA{0x12, 0x14, 0x18, 0xff}
	colorRing       = color.RGBA{0x5a, 0x60, 0x6c, 0xff}
	colorIndicator  = color.RGBA{0xe8, 0xc5, 0x6a, 0xff}
	colorButtonOff  = color.RGBA{0x2a, 0x2e, 0x36, 0xff}
	colorButtonOn   = color.RGBA{0x3d, 0x8b, 0x5a, 0xff}
)

// knob sweep: 270 degrees starting at 7:30.
const (
	sweepStart = 0.75 * math.Pi
	sweepRange = 1.5 * math.Pi
)

type window struct {
	panel   *Panel
	touches []ebiten.TouchID
}

// Run opens a window showing p and blocks until it is closed.
func Run(p *Panel, title string) error {
	w, h := p.Size()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle(title)
	ebiten.SetRunnableOnUnfocused(true)

	return ebiten.RunGame(&window{panel: p})
}

func (w *window) Update() error {
	x, y := ebiten.CursorPosition()
	fx, fy := float64(x), float64(y)

	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		w.panel.Down(interact.SourceMouse, mousePointer, fx, fy)
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		w.panel.Move(interact.SourceMouse, mousePointer, fx, fy)
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		w.panel.Up(interact.SourceMouse, mousePointer)
	}

	w.touches = inpututil.AppendJustPressedTouchIDs(w.touches[:0])
	for _, id := range w.touches {
		tx, ty := ebiten.TouchPosition(id)
		w.panel.Down(interact.SourceTouch, int(id), float64(tx), float64(ty))
	}

	w.touches = ebiten.AppendTouchIDs(w.touches[:0])
	for _, id := range w.touches {
		tx, ty := ebiten.TouchPosition(id)
		w.panel.Move(interact.SourceTouch, int(id), float64(tx), float64(ty))
	}

	w.touches = inpututil.AppendJustReleasedTouchIDs(w.touches[:0])
	for _, id := range w.touches {
		w.panel.Up(interact.SourceTouch, int(id))
	}

	return nil
}

func (w *window) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	for _, k := range w.panel.Knobs() {
		drawKnob(screen, k)
	}

	for _, b := range w.panel.Buttons() {
		fill := colorButtonOff
		if b.Lit() {
			fill = colorButtonOn
		}

		vector.DrawFilledRect(screen, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), fill, false)
		ebitenutil.DebugPrintAt(screen, b.Label, int(b.X)+6, int(b.Y+b.H/2)-8)
	}
}

func (w *window) Layout(_, _ int) (int, int) {
	return w.panel.Size()
}

func drawKnob(screen *ebiten.Image, k *Knob) {
	vector.StrokeCircle(screen, float32(k.X), float32(k.Y), float32(k.R), 2, colorRing, true)

	v := 0.0
	if k.Control != nil {
		v = k.Control.Value()
	}

	angle := sweepStart + v*sweepRange
	ix := k.X + math.Cos(angle)*k.R*0.8
	iy := k.Y + math.Sin(angle)*k.R*0.8
	vector.StrokeLine(screen, float32(k.X), float32(k.Y), float32(ix), float32(iy), 3, colorIndicator, true)

	ebitenutil.DebugPrintAt(screen, k.Label, int(k.X-k.R), int(k.Y+k.R)+4)

	if k.Display != nil {
		ebitenutil.DebugPrintAt(screen, k.Display(v), int(k.X-k.R), int(k.Y+k.R)+20)
	}
}

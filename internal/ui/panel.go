package ui

import (
	"errors"
	"math"

	"github.com/cwbudde/algo-ambient/interact"
)

// ErrHeadless is returned by Run in builds without a window backend.
var ErrHeadless = errors.New("ui: built without a window backend")

// Knob is a round control bound to an interact.Control.
type Knob struct {
	Label   string
	X, Y, R float64
	Control *interact.Control
	// Display renders the value under the knob. Nil shows nothing.
	Display func(v float64) string
}

// Contains reports whether (x, y) lies on the knob.
func (k *Knob) Contains(x, y float64) bool {
	return math.Hypot(x-k.X, y-k.Y) <= k.R
}

// Button is a rectangular toggle.
type Button struct {
	Label      string
	X, Y, W, H float64
	Press      func()
	// On reports the lit state. Nil means never lit.
	On func() bool
}

// Contains reports whether (x, y) lies on the button.
func (b *Button) Contains(x, y float64) bool {
	return x >= b.X && x < b.X+b.W && y >= b.Y && y < b.Y+b.H
}

// Lit reports whether the button shows as on.
func (b *Button) Lit() bool {
	return b.On != nil && b.On()
}

type pointer struct {
	src interact.Source
	id  int
}

// Panel routes pointers to the knob they went down on. Every control call is
// handed to post, which runs it on the scheduler goroutine. Panel methods must
// be called from a single goroutine.
type Panel struct {
	width, height int
	post          func(func()) bool

	knobs    []*Knob
	buttons  []*Button
	captured map[pointer]*Knob
}

// NewPanel creates an empty panel of the given size. A nil post runs calls
// inline.
func NewPanel(width, height int, post func(func()) bool) *Panel {
	if post == nil {
		post = func(fn func()) bool {
			fn()
			return true
		}
	}

	return &Panel{
		width:    width,
		height:   height,
		post:     post,
		captured: make(map[pointer]*Knob),
	}
}

// Size returns the logical panel size in pixels.
func (p *Panel) Size() (int, int) { return p.width, p.height }

// AddKnob appends k.
func (p *Panel) AddKnob(k *Knob) { p.knobs = append(p.knobs, k) }

// AddButton appends b.
func (p *Panel) AddButton(b *Button) { p.buttons = append(p.buttons, b) }

// Knobs returns the knobs in insertion order.
func (p *Panel) Knobs() []*Knob { return p.knobs }

// Buttons returns the buttons in insertion order.
func (p *Panel) Buttons() []*Button { return p.buttons }

// KnobAt returns the topmost knob under (x, y), or nil.
func (p *Panel) KnobAt(x, y float64) *Knob {
	for i := len(p.knobs) - 1; i >= 0; i-- {
		if p.knobs[i].Contains(x, y) {
			return p.knobs[i]
		}
	}

	return nil
}

// Down presses a pointer. On a knob it starts a drag; on a button it fires
// the button.
func (p *Panel) Down(src interact.Source, id int, x, y float64) {
	key := pointer{src, id}
	if _, busy := p.captured[key]; busy {
		return
	}

	if k := p.KnobAt(x, y); k != nil && k.Control != nil {
		p.captured[key] = k
		ctl := k.Control
		p.post(func() { ctl.PointerDown(src, id, y) })

		return
	}

	for _, b := range p.buttons {
		if b.Contains(x, y) && b.Press != nil {
			p.post(b.Press)
			return
		}
	}
}

// Move follows a captured pointer. Only the vertical position matters.
func (p *Panel) Move(src interact.Source, id int, _, y float64) {
	k, ok := p.captured[pointer{src, id}]
	if !ok {
		return
	}

	ctl := k.Control
	p.post(func() { ctl.PointerMove(src, id, y) })
}

// Up releases a pointer.
func (p *Panel) Up(src interact.Source, id int) {
	key := pointer{src, id}

	k, ok := p.captured[key]
	if !ok {
		return
	}

	delete(p.captured, key)

	ctl := k.Control
	p.post(func() { ctl.PointerUp(src, id) })
}

// Dragging reports how many pointers hold a knob.
func (p *Panel) Dragging() int { return len(p.captured) }

// Grid places knobs in rows of cols, cell pixels apart, starting at origin.
type Grid struct {
	OriginX, OriginY float64
	Cell             float64
	Cols             int
}

// At returns the centre of cell i.
func (g Grid) At(i int) (x, y float64) {
	cols := g.Cols
	if cols < 1 {
		cols = 1
	}

	col := i % cols
	row := i / cols

	return g.OriginX + (float64(col)+0.5)*g.Cell, g.OriginY + (float64(row)+0.5)*g.Cell
}

package graph

import "github.com/cwbudde/algo-ambient/dsp/core"

// Destination sums everything connected to it into the rendered output.
type Destination struct {
	node

	last []float64
	pos  int
}

func newDestination(ctx *Context) *Destination {
	d := &Destination{}
	d.init(ctx, d)

	return d
}

func (d *Destination) process(in, out []float64) {
	copy(out, in)
}

// Inputs returns the number of nodes connected to the destination.
func (d *Destination) Inputs() int {
	d.ctx.mu.Lock()
	defer d.ctx.mu.Unlock()

	return len(d.inputs)
}

// RenderFloat64 fills dst with mixed output, rendering quanta as needed.
func (d *Destination) RenderFloat64(dst []float64) {
	d.ctx.mu.Lock()
	defer d.ctx.mu.Unlock()

	for written := 0; written < len(dst); {
		if d.pos >= len(d.last) {
			d.last = d.ctx.renderQuantum()
			d.pos = 0
		}

		n := copy(dst[written:], d.last[d.pos:])
		d.pos += n
		written += n
	}
}

// Render fills dst with output clamped to [-1, 1] for a device buffer.
func (d *Destination) Render(dst []float32) {
	d.ctx.mu.Lock()
	defer d.ctx.mu.Unlock()

	for i := range dst {
		if d.pos >= len(d.last) {
			d.last = d.ctx.renderQuantum()
			d.pos = 0
		}

		dst[i] = float32(core.Clamp(d.last[d.pos], -1, 1))
		d.pos++
	}
}

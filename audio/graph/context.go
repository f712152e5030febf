package graph

import (
	"errors"
	"sync"

	"github.com/cwbudde/algo-ambient/dsp/core"
)

var (
	// ErrReleased is returned when operating on a node that was released.
	ErrReleased = errors.New("graph: node released")
	// ErrForeignContext is returned when connecting nodes of different contexts.
	ErrForeignContext = errors.New("graph: nodes belong to different contexts")
	// ErrNilNode is returned when connecting to a nil node.
	ErrNilNode = errors.New("graph: nil node")
)

// Context owns a render graph and its clock.
type Context struct {
	mu sync.Mutex

	sampleRate float64
	quantum    int

	frames uint64
	tick   uint64

	dest *Destination
}

// NewContext creates a context with its Destination.
func NewContext(opts ...core.ProcessorOption) *Context {
	cfg := core.ApplyProcessorOptions(opts...)
	c := &Context{
		sampleRate: cfg.SampleRate,
		quantum:    cfg.Quantum,
	}
	c.dest = newDestination(c)

	return c
}

// SampleRate returns the render sample rate in Hz.
func (c *Context) SampleRate() float64 {
	return c.sampleRate
}

// Quantum returns the number of frames pulled per render step.
func (c *Context) Quantum() int {
	return c.quantum
}

// CurrentTime returns the amount of audio rendered so far, in seconds.
func (c *Context) CurrentTime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return float64(c.frames) / c.sampleRate
}

// Destination returns the context's final output node.
func (c *Context) Destination() *Destination {
	return c.dest
}

// renderQuantum pulls one quantum through the graph. Caller holds c.mu.
func (c *Context) renderQuantum() []float64 {
	c.tick++
	out := pull(c.dest, c.quantum)
	c.frames += uint64(c.quantum)

	return out
}

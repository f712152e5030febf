package graph

import (
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-ambient/dsp/core"
)

// Node is a processing unit in a Context's graph.
type Node interface {
	// Context returns the owning context.
	Context() *Context
	// Connect routes this node's output into dst.
	Connect(dst Node) error
	// Disconnect removes every outgoing connection.
	Disconnect() error
	// Release detaches the node from the graph and frees its buffers.
	Release() error
	// Released reports whether Release has been called.
	Released() bool

	base() *node
	process(in, out []float64)
}

// node carries the graph bookkeeping shared by every concrete node.
type node struct {
	ctx  *Context
	self Node

	inputs  []Node
	outputs []Node

	released bool
	visiting bool

	renderedAt uint64
	mix        []float64
	out        []float64
}

func (n *node) init(ctx *Context, self Node) {
	n.ctx = ctx
	n.self = self
	n.mix = make([]float64, ctx.quantum)
	n.out = make([]float64, ctx.quantum)
}

func (n *node) base() *node {
	return n
}

// Context implements Node.
func (n *node) Context() *Context {
	return n.ctx
}

// Connect implements Node. Connecting twice to the same destination is a no-op.
func (n *node) Connect(dst Node) error {
	if dst == nil {
		return ErrNilNode
	}

	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()

	d := dst.base()
	if n.released || d.released {
		return ErrReleased
	}

	if d.ctx != n.ctx {
		return ErrForeignContext
	}

	for _, o := range n.outputs {
		if o == dst {
			return nil
		}
	}

	n.outputs = append(n.outputs, dst)
	d.inputs = append(d.inputs, n.self)

	return nil
}

// Disconnect implements Node.
func (n *node) Disconnect() error {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()

	if n.released {
		return ErrReleased
	}

	n.disconnectOutputs()

	return nil
}

// Release implements Node.
func (n *node) Release() error {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()

	return n.release()
}

func (n *node) release() error {
	if n.released {
		return ErrReleased
	}

	n.disconnectOutputs()

	for _, in := range n.inputs {
		src := in.base()
		src.outputs = removeNode(src.outputs, n.self)
	}

	n.inputs = nil
	n.released = true
	n.mix = nil
	n.out = nil

	return nil
}

// Released implements Node.
func (n *node) Released() bool {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()

	return n.released
}

func (n *node) disconnectOutputs() {
	for _, o := range n.outputs {
		d := o.base()
		d.inputs = removeNode(d.inputs, n.self)
	}

	n.outputs = nil
}

func removeNode(list []Node, target Node) []Node {
	out := list[:0]
	for _, x := range list {
		if x != target {
			out = append(out, x)
		}
	}

	for i := len(out); i < len(list); i++ {
		list[i] = nil
	}

	return out
}

// pull renders one quantum of n, reusing the result within the same tick.
// Caller holds the context mutex.
func pull(n Node, frames int) []float64 {
	b := n.base()
	if b.released {
		return nil
	}

	if b.renderedAt == b.ctx.tick {
		return b.out
	}

	b.mix = core.EnsureLen(b.mix, frames)
	b.out = core.EnsureLen(b.out, frames)
	core.Zero(b.mix)

	if b.visiting {
		return b.mix
	}

	b.visiting = true
	for _, in := range b.inputs {
		block := pull(in, frames)
		if len(block) == frames {
			vecmath.AddBlockInPlace(b.mix, block)
		}
	}
	b.visiting = false

	n.process(b.mix, b.out)
	b.renderedAt = b.ctx.tick

	return b.out
}

//go:build !headless

package output

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/cwbudde/algo-ambient/audio/graph"
)

type otoBackend struct {
	ctx    *oto.Context
	player *oto.Player
}

func openBackend(dest *graph.Destination, sampleRate int, buffer time.Duration) (backend, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   buffer,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	player := ctx.NewPlayer(&renderReader{dest: dest})
	player.Play()

	return &otoBackend{ctx: ctx, player: player}, nil
}

func (b *otoBackend) Close() error {
	return b.player.Close()
}

// renderReader adapts a Destination to the io.Reader oto pulls from.
type renderReader struct {
	dest    *graph.Destination
	samples []float32
}

func (r *renderReader) Read(p []byte) (int, error) {
	n := len(p) / 4
	if cap(r.samples) < n {
		r.samples = make([]float32, n)
	}
	samples := r.samples[:n]

	r.dest.Render(samples)

	for i, s := range samples {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(s))
	}

	return n * 4, nil
}

//go:build headless

package output

import (
	"time"

	"github.com/cwbudde/algo-ambient/audio/graph"
)

type silentBackend struct{}

func openBackend(*graph.Destination, int, time.Duration) (backend, error) {
	return silentBackend{}, nil
}

func (silentBackend) Close() error {
	return nil
}

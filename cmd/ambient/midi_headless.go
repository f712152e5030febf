//go:build headless

package main

import (
	"errors"

	"gitlab.com/gomidi/midi/v2"
)

func openMIDI(_ string, _ func(midi.Message)) (func(), error) {
	return nil, errors.New("midi input unavailable in headless builds")
}

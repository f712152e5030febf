//go:build !headless

package main

import (
	"fmt"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// openMIDI listens on the first input whose name contains name, ignoring
// case. handle runs on the driver's goroutine.
func openMIDI(name string, handle func(midi.Message)) (stop func(), err error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("midi driver: %w", err)
	}

	ins, err := drv.Ins()
	if err != nil {
		drv.Close()
		return nil, fmt.Errorf("list midi inputs: %w", err)
	}

	var found drivers.In
	for _, in := range ins {
		logger.Debug("midi input", "device", in.String())

		if strings.Contains(strings.ToLower(in.String()), strings.ToLower(name)) {
			found = in
			break
		}
	}

	if found == nil {
		drv.Close()
		return nil, fmt.Errorf("midi input %q not found", name)
	}

	if err := found.Open(); err != nil {
		drv.Close()
		return nil, fmt.Errorf("open midi input %q: %w", found.String(), err)
	}

	device := found.String()

	stopListen, err := midi.ListenTo(found, func(msg midi.Message, _ int32) {
		handle(msg)
	}, midi.HandleError(func(listenErr error) {
		logger.Warn("midi listener error", "device", device, "err", listenErr)
	}))
	if err != nil {
		_ = found.Close()
		drv.Close()

		return nil, fmt.Errorf("listen on %q: %w", device, err)
	}

	logger.Info("midi input opened", "device", device)

	return func() {
		stopListen()
		_ = found.Close()
		drv.Close()
		logger.Info("midi input closed", "device", device)
	}, nil
}

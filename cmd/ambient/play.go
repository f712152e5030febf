package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2"

	"github.com/cwbudde/algo-ambient/audio/graph"
	"github.com/cwbudde/algo-ambient/audio/output"
	"github.com/cwbudde/algo-ambient/dsp/core"
	"github.com/cwbudde/algo-ambient/interact/midicc"
	"github.com/cwbudde/algo-ambient/internal/ui"
	"github.com/cwbudde/algo-ambient/module"
	"github.com/cwbudde/algo-ambient/sched"
)

// shutdownGrace bounds how long play waits for fades after the window closes.
const shutdownGrace = 2 * time.Second

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Open the audio device and play the rack live.",
	Long: "`play` builds the rack (restoring --state when it exists), opens the " +
		"audio device and shows a knob panel. Knobs respond to mouse and touch " +
		"drags and, with --midi-in, to MIDI control changes.",
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	flags := playCmd.Flags()
	flags.StringSlice("modules", []string{"drone", "texture"}, "module types for a new rack")
	flags.String("state", "", "rack state file, restored on start and saved on exit")
	flags.Bool("no-window", false, "run without the knob panel until interrupted")
	flags.String("midi-in", "", "MIDI input name substring (overrides AMBIENT_MIDI_IN)")
	flags.Int("midi-channel", 0, "MIDI channel 0-15 for the knob mapping")
	flags.Int("midi-cc", 20, "first controller number of the knob mapping")
	flags.Duration("device-buffer", output.DefaultBufferDuration, "audio device buffer length")

	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	names, _ := flags.GetStringSlice("modules")
	statePath, _ := flags.GetString("state")
	noWindow, _ := flags.GetBool("no-window")
	channel, _ := flags.GetInt("midi-channel")
	firstCC, _ := flags.GetInt("midi-cc")
	deviceBuffer, _ := flags.GetDuration("device-buffer")

	midiIn := cfg.MIDIIn
	if flags.Changed("midi-in") {
		midiIn, _ = flags.GetString("midi-in")
	}

	if channel < 0 || channel > 15 {
		return fmt.Errorf("midi channel out of range: %d", channel)
	}

	if firstCC < 0 || firstCC > 127 {
		return fmt.Errorf("midi controller out of range: %d", firstCC)
	}

	types, err := parseTypes(names)
	if err != nil {
		return err
	}

	store, err := loadStore(statePath)
	if err != nil {
		return err
	}

	loop := sched.NewLoop(sched.WithLogger(logger))
	audio := graph.NewContext(core.WithSampleRate(cfg.SampleRate), core.WithQuantum(cfg.Quantum))

	dev, err := output.New(audio, output.WithLogger(logger), output.WithBufferDuration(deviceBuffer))
	if err != nil {
		return err
	}
	defer dev.Close()

	if err := dev.Init(); err != nil {
		return err
	}

	dest, err := dev.Destination()
	if err != nil {
		return err
	}

	sess, err := newSession(audio, dest, loop)
	if err != nil {
		return err
	}

	// The loop is not running yet, so building the rack here is still
	// single-threaded.
	mods, err := populate(sess, store, types)
	if err != nil {
		sess.Close()
		return err
	}

	router, err := midicc.NewRouter(loop, midicc.WithLogger(logger))
	if err != nil {
		sess.Close()
		return err
	}

	panel, err := bindRack(loop, loop.Post, mods, store, &midiMap{router: router, channel: uint8(channel), next: firstCC})
	if err != nil {
		sess.Close()
		return err
	}

	runCtx, cancelRun := context.WithCancel(context.Background())
	defer cancelRun()

	loopDone := make(chan error, 1)
	go func() { loopDone <- loop.Run(runCtx) }()

	if midiIn != "" {
		stopMIDI, err := openMIDI(midiIn, func(msg midi.Message) {
			msg = append(midi.Message(nil), msg...)
			loop.Post(func() { router.Handle(msg) })
		})
		if err != nil {
			logger.Warn("midi disabled", "err", err)
		} else {
			defer stopMIDI()
		}
	}

	sigCtx, stopSignals := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	if !noWindow {
		err := ui.Run(panel, "ambient")
		switch {
		case errors.Is(err, ui.ErrHeadless):
			logger.Info("no window backend, playing until interrupted")
			noWindow = true
		case err != nil:
			logger.Error("window closed with error", "err", err)
		}
	}

	if noWindow {
		logger.Info("playing", "modules", len(mods), "sampleRate", cfg.SampleRate)
		<-sigCtx.Done()
	}

	shutdown(loop, sess.Close, router.Flush)
	cancelRun()
	defer loop.Close()

	if err := <-loopDone; err != nil && !errors.Is(err, context.Canceled) {
		logger.Debug("scheduler loop stopped", "err", err)
	}

	return saveStore(store, statePath)
}

// shutdown flushes pending MIDI commits, closes the session and waits for the
// module fades to settle on the loop.
func shutdown(loop *sched.Loop, closeSession, flush func()) {
	done := make(chan struct{})

	ok := loop.Post(func() {
		flush()
		closeSession()
		loop.AfterFunc(module.SettleTime, func() { close(done) })
	})
	if !ok {
		return
	}

	select {
	case <-done:
	case <-time.After(shutdownGrace):
		logger.Warn("fade did not settle before shutdown")
	}
}

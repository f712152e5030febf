package main

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-ambient/audio/graph"
	"github.com/cwbudde/algo-ambient/dsp/analysis"
	"github.com/cwbudde/algo-ambient/dsp/core"
	"github.com/cwbudde/algo-ambient/dsp/dither"
	"github.com/cwbudde/algo-ambient/module"
	"github.com/cwbudde/algo-ambient/sched"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the rack offline and report its spectrum peak and level.",
	Long: "`render` builds the rack on a virtual clock, renders --seconds of audio " +
		"and prints the parameter displays, peak frequency and RMS level. --out " +
		"writes raw mono little-endian samples in --format f32, s16 or s24; the " +
		"integer formats are TPDF dithered.",
	Args: cobra.NoArgs,
	RunE: runRender,
}

func init() {
	flags := renderCmd.Flags()
	flags.StringSlice("modules", []string{"drone"}, "module types for a new rack")
	flags.String("state", "", "rack state file to render from")
	flags.StringArray("set", nil, "parameter assignment type.param=value (normalized), repeatable")
	flags.Float64("seconds", 4, "length to render")
	flags.String("out", "", "raw sample output file")
	flags.String("format", "f32", "raw sample format: f32, s16 or s24")
	flags.String("save-state", "", "write the rendered rack state to this file")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	names, _ := flags.GetStringSlice("modules")
	statePath, _ := flags.GetString("state")
	rawSettings, _ := flags.GetStringArray("set")
	seconds, _ := flags.GetFloat64("seconds")
	outPath, _ := flags.GetString("out")
	format, _ := flags.GetString("format")
	savePath, _ := flags.GetString("save-state")

	if !(seconds > 0) || math.IsInf(seconds, 0) {
		return fmt.Errorf("seconds must be > 0: %f", seconds)
	}

	enc, err := newEncoder(format)
	if err != nil {
		return err
	}

	types, err := parseTypes(names)
	if err != nil {
		return err
	}

	settings, err := parseSettings(rawSettings)
	if err != nil {
		return err
	}

	store, err := loadStore(statePath)
	if err != nil {
		return err
	}

	clock := sched.NewManual(time.Unix(0, 0))
	audio := graph.NewContext(core.WithSampleRate(cfg.SampleRate), core.WithQuantum(cfg.Quantum))

	sess, err := newSession(audio, audio.Destination(), clock)
	if err != nil {
		return err
	}

	mods, err := populate(sess, store, types)
	if err != nil {
		sess.Close()
		return err
	}

	if err := applySettings(mods, settings, store); err != nil {
		sess.Close()
		return err
	}

	samples := renderOffline(audio, clock, int(seconds*audio.SampleRate()))

	sess.Close()
	clock.Advance(module.SettleTime)

	if err := report(cmd.OutOrStdout(), mods, samples, audio.SampleRate()); err != nil {
		return err
	}

	if outPath != "" {
		if err := writeSamples(outPath, samples, enc); err != nil {
			return err
		}

		logger.Info("wrote samples", "path", outPath, "format", format, "frames", len(samples))
	}

	return saveStore(store, savePath)
}

// renderOffline pulls frames from the destination, advancing the virtual
// clock one quantum at a time so timers and drift follow the audio.
func renderOffline(audio *graph.Context, clock *sched.Manual, frames int) []float64 {
	quantum := audio.Quantum()
	step := time.Duration(float64(time.Second) * float64(quantum) / audio.SampleRate())

	out := make([]float64, frames)
	for pos := 0; pos < frames; pos += quantum {
		end := min(pos+quantum, frames)
		audio.Destination().RenderFloat64(out[pos:end])
		clock.Advance(step)
	}

	return out
}

func report(w io.Writer, mods []module.Module, samples []float64, sampleRate float64) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	for _, m := range mods {
		fmt.Fprintf(tw, "%s\t%s\n", m.Type(), m.ID())

		for _, def := range m.Params() {
			v, _ := m.Param(def.Name)
			fmt.Fprintf(tw, "  %s\t%.3f\t%s\n", def.Label, v, def.Format(v))
		}
	}

	// Skip the fade-in when looking for the spectral peak.
	tail := samples[len(samples)/2:]

	peak, err := analysis.PeakFrequency(tail, sampleRate)
	if err != nil {
		fmt.Fprintf(tw, "peak\t-\t%v\n", err)
	} else {
		fmt.Fprintf(tw, "peak\t%.2f Hz\t\n", peak)
	}

	rms := analysis.RMS(samples)
	fmt.Fprintf(tw, "rms\t%.4f\t%.1f dB\n", rms, core.LinearToDB(rms))
	fmt.Fprintf(tw, "max\t%.4f\t\n", analysis.Peak(samples))

	return tw.Flush()
}

// encoder appends one sample in a raw output format.
type encoder func(dst []byte, s float64) []byte

func newEncoder(format string) (encoder, error) {
	switch format {
	case "f32":
		return func(dst []byte, s float64) []byte {
			return binary.LittleEndian.AppendUint32(dst, math.Float32bits(float32(s)))
		}, nil
	case "s16", "s24":
		bits := 16
		if format == "s24" {
			bits = 24
		}

		q, err := dither.NewQuantizer(dither.WithBitDepth(bits))
		if err != nil {
			return nil, err
		}

		return func(dst []byte, s float64) []byte {
			v := uint32(q.ProcessInteger(s))
			for b := 0; b < bits; b += 8 {
				dst = append(dst, byte(v>>b))
			}

			return dst
		}, nil
	default:
		return nil, fmt.Errorf("unknown sample format %q", format)
	}
}

func writeSamples(path string, samples []float64, enc encoder) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)

	var buf []byte
	for _, s := range samples {
		buf = enc(buf[:0], s)

		if _, err := w.Write(buf); err != nil {
			f.Close()
			return err
		}
	}

	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvSampleRate  = "AMBIENT_SAMPLE_RATE"
	EnvBuffer      = "AMBIENT_BUFFER"
	EnvFrameHz     = "AMBIENT_FRAME_HZ"
	EnvDriftHz     = "AMBIENT_DRIFT_HZ"
	EnvLogLevel    = "AMBIENT_LOG_LEVEL"
	EnvMIDIIn      = "AMBIENT_MIDI_IN"
	EnvSensitivity = "AMBIENT_SENSITIVITY"
)

// Config holds the runtime settings.
type Config struct {
	SampleRate float64
	// Quantum is the render block size in frames.
	Quantum int
	// FrameHz is the interaction frame rate.
	FrameHz float64
	// DriftHz is the drift refresh rate.
	DriftHz  float64
	LogLevel slog.Level
	// MIDIIn selects the first MIDI input whose name contains it. Empty
	// disables MIDI.
	MIDIIn      string
	Sensitivity float64
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		SampleRate:  48000,
		Quantum:     128,
		FrameHz:     60,
		DriftHz:     10,
		LogLevel:    slog.LevelInfo,
		Sensitivity: 0.005,
	}
}

// Load reads files (default ".env") and then the process environment, which
// takes precedence. Missing files are ignored.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}

	fromFiles := map[string]string{}
	for _, f := range files {
		vals, err := godotenv.Read(f)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}

		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", f, err)
		}

		for k, v := range vals {
			fromFiles[k] = v
		}
	}

	return FromLookup(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}

		v, ok := fromFiles[key]

		return v, ok
	})
}

// FromLookup builds a Config from Default and the values lookup returns.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	var err error
	if cfg.SampleRate, err = floatVar(lookup, EnvSampleRate, cfg.SampleRate); err != nil {
		return Config{}, err
	}

	if cfg.Quantum, err = intVar(lookup, EnvBuffer, cfg.Quantum); err != nil {
		return Config{}, err
	}

	if cfg.FrameHz, err = floatVar(lookup, EnvFrameHz, cfg.FrameHz); err != nil {
		return Config{}, err
	}

	if cfg.DriftHz, err = floatVar(lookup, EnvDriftHz, cfg.DriftHz); err != nil {
		return Config{}, err
	}

	if cfg.Sensitivity, err = floatVar(lookup, EnvSensitivity, cfg.Sensitivity); err != nil {
		return Config{}, err
	}

	if v, ok := lookup(EnvLogLevel); ok && strings.TrimSpace(v) != "" {
		if cfg.LogLevel, err = ParseLevel(v); err != nil {
			return Config{}, err
		}
	}

	if v, ok := lookup(EnvMIDIIn); ok {
		cfg.MIDIIn = strings.TrimSpace(v)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks ranges.
func (c Config) Validate() error {
	switch {
	case !(c.SampleRate >= 8000 && c.SampleRate <= 384000):
		return fmt.Errorf("config: sample rate out of range: %f", c.SampleRate)
	case c.Quantum < 16 || c.Quantum > 8192:
		return fmt.Errorf("config: buffer out of range: %d", c.Quantum)
	case !(c.FrameHz > 0 && c.FrameHz <= 1000):
		return fmt.Errorf("config: frame rate out of range: %f", c.FrameHz)
	case !(c.DriftHz > 0 && c.DriftHz <= 1000):
		return fmt.Errorf("config: drift rate out of range: %f", c.DriftHz)
	case !(c.Sensitivity > 0) || math.IsInf(c.Sensitivity, 0):
		return fmt.Errorf("config: sensitivity must be > 0: %f", c.Sensitivity)
	}

	return nil
}

// ParseLevel parses a slog level name such as "debug" or "warn".
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("config: %w", err)
	}

	return level, nil
}

func floatVar(lookup func(string) (string, bool), key string, def float64) (float64, error) {
	v, ok := lookup(key)
	if !ok || strings.TrimSpace(v) == "" {
		return def, nil
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}

	return f, nil
}

func intVar(lookup func(string) (string, bool), key string, def int) (int, error) {
	v, ok := lookup(key)
	if !ok || strings.TrimSpace(v) == "" {
		return def, nil
	}

	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}

	return n, nil
}

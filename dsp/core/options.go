package core

// Default render settings.
const (
	DefaultSampleRate = 48000
	DefaultQuantum    = 128
)

// ProcessorConfig holds the settings an audio graph renders with.
type ProcessorConfig struct {
	SampleRate float64
	// Quantum is the number of frames rendered per graph pull.
	Quantum int
}

// ProcessorOption adjusts a ProcessorConfig. Out-of-range values leave the
// setting untouched.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns 48 kHz with a 128 frame quantum.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{SampleRate: DefaultSampleRate, Quantum: DefaultQuantum}
}

// WithSampleRate sets the sample rate in Hz.
func WithSampleRate(hz float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if hz > 0 {
			cfg.SampleRate = hz
		}
	}
}

// WithQuantum sets the render quantum in frames.
func WithQuantum(frames int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if frames > 0 {
			cfg.Quantum = frames
		}
	}
}

// ApplyProcessorOptions returns the defaults with opts applied in order.
// Nil options are skipped.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		opt(&cfg)
	}

	return cfg
}

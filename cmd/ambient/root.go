package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-ambient/internal/config"
)

var (
	cfg    = config.Default()
	logger = slog.Default()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ambient",
	Short: "Ambient is a tactile drone and texture instrument.",
	Long: `Ambient drives drifting sound modules from draggable knobs and MIDI ` +
		`controllers. Use "play" for the live instrument and "render" for offline ` +
		`rendering and analysis.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("env-file", ".env", "optional dotenv file")
	flags.Float64("sample-rate", 0, "render sample rate in Hz (overrides "+config.EnvSampleRate+")")
	flags.Int("buffer", 0, "render quantum in frames (overrides "+config.EnvBuffer+")")
	flags.Float64("drift-hz", 0, "drift refresh rate (overrides "+config.EnvDriftHz+")")
	flags.String("log-level", "", "debug, info, warn or error (overrides "+config.EnvLogLevel+")")
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, _ []string) error {
	envFile, _ := cmd.Flags().GetString("env-file")

	loaded, err := config.Load(envFile)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("sample-rate") {
		loaded.SampleRate, _ = cmd.Flags().GetFloat64("sample-rate")
	}

	if cmd.Flags().Changed("buffer") {
		loaded.Quantum, _ = cmd.Flags().GetInt("buffer")
	}

	if cmd.Flags().Changed("drift-hz") {
		loaded.DriftHz, _ = cmd.Flags().GetFloat64("drift-hz")
	}

	if cmd.Flags().Changed("log-level") {
		name, _ := cmd.Flags().GetString("log-level")
		if loaded.LogLevel, err = config.ParseLevel(name); err != nil {
			return err
		}
	}

	if err := loaded.Validate(); err != nil {
		return err
	}

	cfg = loaded
	initLogger(cfg.LogLevel)

	return nil
}

// initLogger installs a text handler on stderr as the default logger.
func initLogger(level slog.Level) {
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
	})
	logger = slog.New(h)
	slog.SetDefault(logger)
}

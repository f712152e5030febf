package module

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cwbudde/algo-ambient/audio/graph"
	"github.com/cwbudde/algo-ambient/dsp/drift"
	"github.com/cwbudde/algo-ambient/dsp/mapping"
	"github.com/cwbudde/algo-ambient/sched"
)

const (
	// SmoothingTau is the time constant for parameter writes.
	SmoothingTau = 20 * time.Millisecond
	// PowerTau is the time constant of the default power gate ramp.
	PowerTau = 15 * time.Millisecond
	// SettleTime is how long Dispose waits for the gate fade before releasing nodes.
	SettleTime = 500 * time.Millisecond
	// DriftRefresh is the interval of the drift refresh loop.
	DriftRefresh = 100 * time.Millisecond
)

var (
	// ErrAlreadyInitialized is returned by a second Initialize call.
	ErrAlreadyInitialized = errors.New("module: already initialized")
	// ErrInvalidEnv is returned when a required collaborator is missing.
	ErrInvalidEnv = errors.New("module: invalid environment")
	// ErrUnknownType is returned when parsing an unknown type name.
	ErrUnknownType = errors.New("module: unknown type")
)

// Type tags a module variant.
type Type int

const (
	TypeDrone Type = iota + 1
	TypeTexture
)

var typeNames = map[Type]string{
	TypeDrone:   "drone",
	TypeTexture: "texture",
}

// Types lists every module type.
func Types() []Type {
	return []Type{TypeDrone, TypeTexture}
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}

	return fmt.Sprintf("type(%d)", int(t))
}

// ParseType resolves a type name case-insensitively.
func ParseType(s string) (Type, error) {
	for t, name := range typeNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return t, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// ParamDef declares one normalized parameter.
type ParamDef struct {
	Name    string
	Label   string
	Default float64
	// Format renders a normalized value for display.
	Format mapping.Formatter
	// Map converts a normalized value into engineering units.
	Map mapping.Func
}

// Module is the contract every sound module implements.
type Module interface {
	ID() string
	Type() Type
	Params() []ParamDef

	// Initialize allocates and wires the processing nodes. It must be called
	// exactly once; it is a no-op on a disposed module.
	Initialize() error
	Input() (graph.Node, bool)
	Output() graph.Node

	SetParamImmediate(name string, value float64)
	Param(name string) (float64, bool)
	AllParams() map[string]float64
	RestoreParams(values map[string]float64)

	SetPower(on bool)
	Powered() bool

	Dispose()
	Disposed() bool
}

// Env bundles the collaborators a module is constructed with.
type Env struct {
	Audio       *graph.Context
	Destination graph.Node
	// Drift is optional; modules without it simply do not drift.
	Drift     *drift.Engine
	Scheduler sched.Scheduler
	Logger    *slog.Logger
	// DriftRefresh overrides the drift refresh interval when positive.
	DriftRefresh time.Duration
}

// RefreshInterval returns the drift refresh interval: DriftRefresh when
// positive, the package default otherwise.
func (e Env) RefreshInterval() time.Duration {
	if e.DriftRefresh > 0 {
		return e.DriftRefresh
	}

	return DriftRefresh
}

// Validate reports a missing required collaborator.
func (e Env) Validate() error {
	switch {
	case e.Audio == nil:
		return fmt.Errorf("%w: nil audio context", ErrInvalidEnv)
	case e.Destination == nil:
		return fmt.Errorf("%w: nil destination", ErrInvalidEnv)
	case e.Scheduler == nil:
		return fmt.Errorf("%w: nil scheduler", ErrInvalidEnv)
	}

	return nil
}

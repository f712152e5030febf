package rack

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-ambient/interact"
	"github.com/cwbudde/algo-ambient/interact/midicc"
	"github.com/cwbudde/algo-ambient/module"
	"github.com/cwbudde/algo-ambient/persist"
	"github.com/cwbudde/algo-ambient/sched"
)

// ErrUnknownParam is returned when binding a parameter the module lacks.
var ErrUnknownParam = errors.New("rack: unknown parameter")

func paramDef(m module.Module, name string) (module.ParamDef, error) {
	for _, def := range m.Params() {
		if def.Name == name {
			return def, nil
		}
	}

	return module.ParamDef{}, fmt.Errorf("%w: %s.%s", ErrUnknownParam, m.ID(), name)
}

// BindParam creates a control for one module parameter. Every drag update
// reaches the module immediately; the committer only sees the terminal value
// with its display string. committer may be nil.
func BindParam(s sched.Scheduler, m module.Module, name string, committer persist.Committer, opts ...interact.Option) (*interact.Control, error) {
	def, err := paramDef(m, name)
	if err != nil {
		return nil, err
	}

	initial, _ := m.Param(name)

	return interact.New(s, initial, interact.Callbacks{
		OnImmediate: func(v float64) {
			m.SetParamImmediate(name, v)
		},
		OnCommitted: func(v float64) {
			if committer != nil {
				committer.Commit(m.ID(), name, v, def.Format(v))
			}
		},
	}, opts...)
}

// ParamTarget routes a MIDI CC mapping to one module parameter. ctl, if not
// nil, follows the knob so a later drag starts from its value.
func ParamTarget(m module.Module, name string, committer persist.Committer, ctl *interact.Control) (midicc.Target, error) {
	def, err := paramDef(m, name)
	if err != nil {
		return midicc.Target{}, err
	}

	return midicc.Target{
		Immediate: func(v float64) {
			m.SetParamImmediate(name, v)
			if ctl != nil {
				ctl.SetValue(v)
			}
		},
		Commit: func(v float64) {
			if committer != nil {
				committer.Commit(m.ID(), name, v, def.Format(v))
			}
		},
	}, nil
}

// SetPower switches m and commits the new state. It does nothing on a
// disposed module.
func SetPower(m module.Module, on bool, committer persist.Committer) {
	if m.Disposed() {
		return
	}

	m.SetPower(on)

	if committer != nil {
		committer.CommitPower(m.ID(), on)
	}
}

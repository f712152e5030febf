package main

import (
	"github.com/cwbudde/algo-ambient/interact"
	"github.com/cwbudde/algo-ambient/interact/midicc"
	"github.com/cwbudde/algo-ambient/internal/ui"
	"github.com/cwbudde/algo-ambient/module"
	"github.com/cwbudde/algo-ambient/persist"
	"github.com/cwbudde/algo-ambient/rack"
	"github.com/cwbudde/algo-ambient/sched"
)

// Panel geometry in pixels.
const (
	panelMargin = 20.0
	rowHeight   = 150.0
	knobCell    = 110.0
	knobRadius  = 30.0
	buttonW     = 90.0
	buttonH     = 22.0
)

// midiMap places consecutive controllers starting at base on one channel.
type midiMap struct {
	router  *midicc.Router
	channel uint8
	next    int
}

func (mm *midiMap) add(t midicc.Target) (cc int, ok bool) {
	if mm == nil || mm.router == nil || mm.next > 127 {
		return 0, false
	}

	cc = mm.next
	mm.router.Map(mm.channel, uint8(cc), t)
	mm.next++

	return cc, true
}

// bindRack lays out one row per module: a power button and a knob per
// parameter. Every knob is also reachable through mm when it is not nil.
func bindRack(s sched.Scheduler, post func(func()) bool, mods []module.Module, store persist.Committer, mm *midiMap) (*ui.Panel, error) {
	cols := 1
	for _, m := range mods {
		cols = max(cols, len(m.Params()))
	}

	width := int(2*panelMargin + float64(cols)*knobCell)
	height := int(2*panelMargin + float64(max(len(mods), 1))*rowHeight)
	panel := ui.NewPanel(width, height, post)

	for row, m := range mods {
		top := panelMargin + float64(row)*rowHeight

		panel.AddButton(&ui.Button{
			Label: m.Type().String(),
			X:     panelMargin,
			Y:     top,
			W:     buttonW,
			H:     buttonH,
			Press: func() { rack.SetPower(m, !m.Powered(), store) },
			On:    m.Powered,
		})

		grid := ui.Grid{OriginX: panelMargin, OriginY: top + buttonH, Cell: knobCell, Cols: cols}

		for i, def := range m.Params() {
			ctl, err := rack.BindParam(s, m, def.Name, store, interact.WithSensitivity(cfg.Sensitivity))
			if err != nil {
				return nil, err
			}

			x, y := grid.At(i)
			panel.AddKnob(&ui.Knob{
				Label:   def.Label,
				X:       x,
				Y:       y,
				R:       knobRadius,
				Control: ctl,
				Display: def.Format,
			})

			target, err := rack.ParamTarget(m, def.Name, store, ctl)
			if err != nil {
				return nil, err
			}

			if cc, ok := mm.add(target); ok {
				logger.Debug("midi mapping", "module", m.ID(), "param", def.Name, "channel", mm.channel, "cc", cc)
			}
		}
	}

	return panel, nil
}

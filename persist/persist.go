package persist

import (
	"github.com/cwbudde/algo-ambient/module"
)

// Committer receives terminal values from the interaction path. It is never
// called while a drag is in progress.
type Committer interface {
	Commit(moduleID, param string, value float64, display string)
	CommitPower(moduleID string, on bool)
}

// ParamRecord is one stored parameter.
type ParamRecord struct {
	Value   float64 `json:"value"`
	Display string  `json:"display,omitempty"`
}

// Record is the stored state of one module.
type Record struct {
	Type      string                 `json:"type,omitempty"`
	Params    map[string]ParamRecord `json:"params"`
	IsPowered bool                   `json:"isPowered"`
}

// Hydrate replays rec onto m: every stored parameter through
// SetParamImmediate, then power once. It reports whether rec existed.
func Hydrate(m module.Module, rec *Record) bool {
	if rec == nil {
		return false
	}

	for _, def := range m.Params() {
		if p, ok := rec.Params[def.Name]; ok {
			m.SetParamImmediate(def.Name, p.Value)
		}
	}

	m.SetPower(rec.IsPowered)

	return true
}

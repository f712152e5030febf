package rack

import (
	"fmt"

	"github.com/cwbudde/algo-ambient/module"
	"github.com/cwbudde/algo-ambient/module/drone"
	"github.com/cwbudde/algo-ambient/module/texture"
)

// ErrUnknownType is returned for a module type outside the closed set.
var ErrUnknownType = module.ErrUnknownType

// New constructs and initializes a module of type t.
func New(t module.Type, id string, env module.Env) (module.Module, error) {
	var (
		m   module.Module
		err error
	)

	switch t {
	case module.TypeDrone:
		m, err = drone.New(id, env)
	case module.TypeTexture:
		m, err = texture.New(id, env)
	default:
		return nil, fmt.Errorf("rack: %w: %s", ErrUnknownType, t)
	}

	if err != nil {
		return nil, fmt.Errorf("rack: create %s: %w", t, err)
	}

	if err := m.Initialize(); err != nil {
		m.Dispose()
		return nil, fmt.Errorf("rack: initialize %s %s: %w", t, id, err)
	}

	return m, nil
}

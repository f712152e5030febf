package texture

import (
	"fmt"
	"hash/fnv"

	"github.com/cwbudde/algo-ambient/audio/graph"
	"github.com/cwbudde/algo-ambient/dsp/mapping"
	"github.com/cwbudde/algo-ambient/module"
)

// Parameter names.
const (
	ParamColor     = "color"
	ParamResonance = "resonance"
	ParamLevel     = "level"
)

var (
	colorMap     = mapping.MustExponential(300, 12000)
	resonanceMap = mapping.Linear(0.5, 8)
	levelMap     = mapping.Power(0, 1, 2)
)

// Params returns the texture's parameter definitions.
func Params() []module.ParamDef {
	return []module.ParamDef{
		{Name: ParamColor, Label: "Color", Default: 0.5, Map: colorMap, Format: mapping.FormatHz(colorMap)},
		{Name: ParamResonance, Label: "Resonance", Default: 0.2, Map: resonanceMap, Format: mapping.FormatFixed(resonanceMap, 1, "Q")},
		{Name: ParamLevel, Label: "Level", Default: 0.5, Map: levelMap, Format: mapping.FormatGainDB(levelMap)},
	}
}

// Texture is a noise source through a resonant lowpass.
type Texture struct {
	*module.Base

	seed int64
}

var _ module.Module = (*Texture)(nil)

// New constructs an uninitialized texture. The noise seed is derived from id
// so that a restored rack sounds the same.
func New(id string, env module.Env) (*Texture, error) {
	base, err := module.NewBase(id, module.TypeTexture, Params(), env)
	if err != nil {
		return nil, fmt.Errorf("texture: %w", err)
	}

	t := &Texture{Base: base, seed: seedFor(id)}
	base.SetBuilder(t.build)

	return t, nil
}

func (t *Texture) build() (graph.Node, graph.Node, error) {
	audio := t.Env().Audio

	noise := graph.NewNoise(audio, t.seed)
	t.Track(noise)

	filter, err := graph.NewLowpass(audio, colorMap(0.5), resonanceMap(0.2))
	if err != nil {
		return nil, nil, err
	}
	t.Track(filter)

	level := graph.NewGain(audio, levelMap(0.5))
	t.Track(level)

	if err := noise.Connect(filter); err != nil {
		return nil, nil, err
	}

	if err := filter.Connect(level); err != nil {
		return nil, nil, err
	}

	t.BindParam(ParamColor, filter.Frequency)
	t.BindParam(ParamResonance, filter.Q)
	t.BindParam(ParamLevel, level.Gain)

	return nil, level, nil
}

func seedFor(id string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))

	return int64(h.Sum64() >> 1)
}

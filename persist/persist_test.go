package persist

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-ambient/audio/graph"
	"github.com/cwbudde/algo-ambient/module"
	"github.com/cwbudde/algo-ambient/sched"
)

func newModule(t *testing.T) *module.Base {
	t.Helper()

	audio := graph.NewContext()
	m, err := module.NewBase("m1", module.TypeTexture, []module.ParamDef{
		{Name: "a", Default: 0.5},
		{Name: "b", Default: 0.1},
	}, module.Env{
		Audio:       audio,
		Destination: audio.Destination(),
		Scheduler:   sched.NewManual(time.Unix(0, 0)),
	})
	require.NoError(t, err)
	require.NoError(t, m.Initialize())

	return m
}

func TestHydrateNilRecord(t *testing.T) {
	m := newModule(t)

	require.False(t, Hydrate(m, nil))
	require.True(t, m.Powered())
	require.Equal(t, map[string]float64{"a": 0.5, "b": 0.1}, m.AllParams())
}

func TestHydrateAppliesRecord(t *testing.T) {
	m := newModule(t)

	ok := Hydrate(m, &Record{
		Params: map[string]ParamRecord{
			"a":       {Value: 0.9},
			"b":       {Value: 4},
			"removed": {Value: 0.3},
		},
		IsPowered: false,
	})

	require.True(t, ok)
	require.False(t, m.Powered())
	require.Equal(t, map[string]float64{"a": 0.9, "b": 1}, m.AllParams())
}

func TestHydrateEmptyRecordStillSetsPower(t *testing.T) {
	m := newModule(t)

	require.True(t, Hydrate(m, &Record{}))
	require.False(t, m.Powered())
	require.Equal(t, map[string]float64{"a": 0.5, "b": 0.1}, m.AllParams())
}

func TestMemoryStoreCommits(t *testing.T) {
	s := NewMemoryStore()
	require.Nil(t, s.Lookup("m1"))

	s.Commit("m1", "a", 0.25, "25%")
	s.Commit("m1", "a", 0.75, "75%")
	s.CommitPower("m2", false)

	rec := s.Lookup("m1")
	require.NotNil(t, rec)
	require.True(t, rec.IsPowered)
	require.Equal(t, ParamRecord{Value: 0.75, Display: "75%"}, rec.Params["a"])

	rec.Params["a"] = ParamRecord{Value: 0}
	require.Equal(t, 0.75, s.Lookup("m1").Params["a"].Value)

	require.False(t, s.Lookup("m2").IsPowered)
	require.Equal(t, []string{"m1", "m2"}, s.IDs())

	s.Delete("m1")
	require.Equal(t, []string{"m2"}, s.IDs())
}

func TestMemoryStoreSaveLoad(t *testing.T) {
	s := NewMemoryStore()
	s.SetType("m1", "drone")
	s.Commit("m1", "pitch", 0.5, "A2 +0")
	s.CommitPower("m1", false)

	var buf bytes.Buffer
	require.NoError(t, s.Save(&buf))
	require.Contains(t, buf.String(), `"isPowered": false`)
	require.Contains(t, buf.String(), `"params"`)

	loaded := NewMemoryStore()
	require.NoError(t, loaded.Load(&buf))
	require.Equal(t, s.Lookup("m1"), loaded.Lookup("m1"))
}

func TestMemoryStoreLoadRejectsGarbage(t *testing.T) {
	s := NewMemoryStore()
	require.Error(t, s.Load(strings.NewReader("{not json")))
}

func TestMemoryStoreLoadFillsParams(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Load(strings.NewReader(`{"m1":{"isPowered":true},"m2":null}`)))

	require.Equal(t, []string{"m1"}, s.IDs())
	require.NotNil(t, s.Lookup("m1").Params)
}

package main

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-ambient/audio/graph"
	"github.com/cwbudde/algo-ambient/module"
	"github.com/cwbudde/algo-ambient/persist"
	"github.com/cwbudde/algo-ambient/rack"
	"github.com/cwbudde/algo-ambient/sched"
)

func newSession(audio *graph.Context, dest graph.Node, s sched.Scheduler) (*rack.Session, error) {
	return rack.NewSession(audio, dest, s,
		rack.WithLogger(logger),
		rack.WithDriftRefresh(sched.Hz(cfg.DriftHz)),
	)
}

func parseTypes(names []string) ([]module.Type, error) {
	types := make([]module.Type, 0, len(names))
	for _, name := range names {
		t, err := module.ParseType(name)
		if err != nil {
			return nil, err
		}

		types = append(types, t)
	}

	return types, nil
}

// loadStore reads a saved rack. A missing file or empty path yields an empty
// store.
func loadStore(path string) (*persist.MemoryStore, error) {
	store := persist.NewMemoryStore()
	if path == "" {
		return store, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return store, nil
	}

	if err != nil {
		return nil, err
	}

	if err := store.Load(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	return store, nil
}

func saveStore(store *persist.MemoryStore, path string) error {
	if path == "" {
		return nil
	}

	var buf bytes.Buffer
	if err := store.Save(&buf); err != nil {
		return err
	}

	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// populate rebuilds the rack saved in store, or creates one module per type
// when the store is empty.
func populate(sess *rack.Session, store *persist.MemoryStore, types []module.Type) ([]module.Module, error) {
	ids := store.IDs()
	if len(ids) == 0 {
		mods := make([]module.Module, 0, len(types))
		for _, t := range types {
			m, err := sess.Create(t)
			if err != nil {
				return nil, err
			}

			store.SetType(m.ID(), t.String())
			mods = append(mods, m)
		}

		return mods, nil
	}

	mods := make([]module.Module, 0, len(ids))
	for _, id := range ids {
		rec := store.Lookup(id)

		t, err := module.ParseType(rec.Type)
		if err != nil {
			logger.Warn("skipping stored module", "module", id, "err", err)
			continue
		}

		m, _, err := sess.Restore(id, t, rec)
		if err != nil {
			return nil, err
		}

		mods = append(mods, m)
	}

	return mods, nil
}

// paramSetting is one --set type.param=value assignment.
type paramSetting struct {
	typ   module.Type
	name  string
	value float64
}

func parseSettings(raw []string) ([]paramSetting, error) {
	out := make([]paramSetting, 0, len(raw))
	for _, s := range raw {
		lhs, rhs, ok := strings.Cut(s, "=")
		if !ok {
			return nil, fmt.Errorf("setting %q: want type.param=value", s)
		}

		typName, name, ok := strings.Cut(lhs, ".")
		if !ok {
			return nil, fmt.Errorf("setting %q: want type.param=value", s)
		}

		t, err := module.ParseType(typName)
		if err != nil {
			return nil, fmt.Errorf("setting %q: %w", s, err)
		}

		v, err := strconv.ParseFloat(rhs, 64)
		if err != nil {
			return nil, fmt.Errorf("setting %q: %w", s, err)
		}

		out = append(out, paramSetting{typ: t, name: name, value: v})
	}

	return out, nil
}

// applySettings writes each setting to every module of its type and records
// the clamped result as committed.
func applySettings(mods []module.Module, settings []paramSetting, committer persist.Committer) error {
	for _, st := range settings {
		for _, m := range mods {
			if m.Type() != st.typ {
				continue
			}

			if _, ok := m.Param(st.name); !ok {
				return fmt.Errorf("%w: %s.%s", rack.ErrUnknownParam, st.typ, st.name)
			}

			m.SetParamImmediate(st.name, st.value)

			v, _ := m.Param(st.name)
			for _, def := range m.Params() {
				if def.Name == st.name {
					committer.Commit(m.ID(), st.name, v, def.Format(v))
				}
			}
		}
	}

	return nil
}

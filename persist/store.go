package persist

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"sync"
)

// MemoryStore keeps records in memory and can be saved to and loaded from
// JSON.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*Record
}

var _ Committer = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Record)}
}

// Commit implements Committer.
func (s *MemoryStore) Commit(moduleID, param string, value float64, display string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.record(moduleID)
	rec.Params[param] = ParamRecord{Value: value, Display: display}
}

// CommitPower implements Committer.
func (s *MemoryStore) CommitPower(moduleID string, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.record(moduleID).IsPowered = on
}

// SetType records the module type for id so a saved rack can be rebuilt.
func (s *MemoryStore) SetType(moduleID, typ string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.record(moduleID).Type = typ
}

// Lookup returns a copy of the record for id, or nil.
func (s *MemoryStore) Lookup(moduleID string) *Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[moduleID]
	if !ok {
		return nil
	}

	return rec.clone()
}

// Delete drops the record for id.
func (s *MemoryStore) Delete(moduleID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, moduleID)
}

// IDs returns the stored module ids in sorted order.
func (s *MemoryStore) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}

// Save writes all records as JSON.
func (s *MemoryStore) Save(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(s.records); err != nil {
		return fmt.Errorf("persist: encode: %w", err)
	}

	return nil
}

// Load replaces all records with the JSON read from r.
func (s *MemoryStore) Load(r io.Reader) error {
	records := make(map[string]*Record)
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return fmt.Errorf("persist: decode: %w", err)
	}

	for id, rec := range records {
		if rec == nil {
			delete(records, id)
			continue
		}

		if rec.Params == nil {
			rec.Params = make(map[string]ParamRecord)
		}
	}

	s.mu.Lock()
	s.records = records
	s.mu.Unlock()

	return nil
}

// record returns the record for id, creating a powered one. Caller holds s.mu.
func (s *MemoryStore) record(moduleID string) *Record {
	rec, ok := s.records[moduleID]
	if !ok {
		rec = &Record{Params: make(map[string]ParamRecord), IsPowered: true}
		s.records[moduleID] = rec
	}

	return rec
}

func (r *Record) clone() *Record {
	out := &Record{
		Type:      r.Type,
		Params:    make(map[string]ParamRecord, len(r.Params)),
		IsPowered: r.IsPowered,
	}
	for k, v := range r.Params {
		out.Params[k] = v
	}

	return out
}

package repo

import (
	"encoding/json"

	"github.com/VegeTB/N-League/model"
)

// Memory stores data in a non persistent way, used by tests and the cli.
// Save/Load run through the wire codec so callers get their own copy.
type Memory struct {
	raw map[string]map[string]json.RawMessage

	// SaveErr, when set, is returned by every Save. Lets tests exercise
	// the best-effort persistence path.
	SaveErr error
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load() (map[string]*model.ContextState, error) {
	if m.raw == nil {
		return make(map[string]*model.ContextState), nil
	}
	return decode(m.raw)
}

func (m *Memory) Save(data map[string]*model.ContextState) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	raw, err := encode(data)
	if err != nil {
		return err
	}
	m.raw = raw
	return nil
}

func (m *Memory) Close() error { return nil }

package repo

import (
	"github.com/VegeTB/N-League/model"
)

// Store persists the per-context player records. Load returns an empty
// map when nothing has been stored yet. Save replaces the stored data
// with the given set as a whole; callers fully materialize the new state
// before writing it back.
//
// Match sessions are deliberately outside this contract, they live only
// in process memory and are lost on restart.
type Store interface {
	Load() (map[string]*model.ContextState, error)
	Save(data map[string]*model.ContextState) error
	Close() error
}

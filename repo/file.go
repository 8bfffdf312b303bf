package repo

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/VegeTB/N-League/model"
)

// File stores everything in a single JSON file, the layout the original
// deployments already have on disk. This is the default store.
type File struct {
	path string
}

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Load() (map[string]*model.ContextState, error) {
	defer loadTimer.UpdateSince(time.Now())

	b, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return make(map[string]*model.ContextState), nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %q", f.path)
	}

	var raw map[string]map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %q", f.path)
	}

	return decode(raw)
}

func (f *File) Save(data map[string]*model.ContextState) error {
	defer saveTimer.UpdateSince(time.Now())

	raw, err := encode(data)
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode data")
	}

	// write to a temp file first so a crash never truncates the store
	tmp := f.path + ".tmp"
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "failed to create %q", dir)
		}
	}
	if err := os.WriteFile(tmp, b, 0600); err != nil {
		return errors.Wrapf(err, "failed to write %q", tmp)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return errors.Wrapf(err, "failed to replace %q", f.path)
	}

	return nil
}

func (f *File) Close() error { return nil }

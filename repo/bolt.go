package repo

import (
	"encoding/json"
	"time"

	"github.com/boltdb/bolt"
	"github.com/pkg/errors"

	"github.com/VegeTB/N-League/model"
)

var contextBucket = []byte("contexts")

// Bolt keeps each context as one JSON blob in a boltdb file.
type Bolt struct {
	db *bolt.DB
}

func NewBolt(dbPath string) (*Bolt, error) {
	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %q", dbPath)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(contextBucket)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "create bucket")
	}

	return &Bolt{db: db}, nil
}

func (b *Bolt) Load() (map[string]*model.ContextState, error) {
	defer loadTimer.UpdateSince(time.Now())

	data := make(map[string]*model.ContextState)
	err := b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(contextBucket).ForEach(func(k, v []byte) error {
			var raw map[string]json.RawMessage
			if err := json.Unmarshal(v, &raw); err != nil {
				return errors.Wrapf(err, "failed to parse context %q", k)
			}
			cs, err := decodeContext(raw)
			if err != nil {
				return err
			}
			data[string(k)] = cs
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return data, nil
}

func (b *Bolt) Save(data map[string]*model.ContextState) error {
	defer saveTimer.UpdateSince(time.Now())

	return b.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(contextBucket); err != nil {
			return errors.Wrap(err, "delete bucket")
		}
		bk, err := tx.CreateBucket(contextBucket)
		if err != nil {
			return errors.Wrap(err, "create bucket")
		}
		for id, cs := range data {
			raw, err := encodeContext(cs)
			if err != nil {
				return err
			}
			blob, err := json.Marshal(raw)
			if err != nil {
				return errors.Wrapf(err, "failed to encode context %q", id)
			}
			if err := bk.Put([]byte(id), blob); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *Bolt) Close() error {
	return b.db.Close()
}

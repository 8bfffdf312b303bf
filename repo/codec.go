package repo

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/VegeTB/N-League/model"
)

// playoffsField is stored inside the same per-context mapping as the
// player records. The data files predate the typed model, so the layout
// keeps the flag alongside player ids.
const playoffsField = "is_playoffs"

func encodeContext(cs *model.ContextState) (map[string]json.RawMessage, error) {
	raw := make(map[string]json.RawMessage, len(cs.Players)+1)
	for id, rec := range cs.Players {
		b, err := json.Marshal(rec)
		if err != nil {
			return nil, errors.Wrapf(err, "failed encoding record of player %q", id)
		}
		raw[string(id)] = b
	}
	if cs.IsPlayoffs {
		raw[playoffsField] = json.RawMessage("true")
	}
	return raw, nil
}

func decodeContext(raw map[string]json.RawMessage) (*model.ContextState, error) {
	cs := model.NewContextState()
	for key, blob := range raw {
		if key == playoffsField {
			if err := json.Unmarshal(blob, &cs.IsPlayoffs); err != nil {
				return nil, errors.Wrap(err, "failed decoding playoffs flag")
			}
			continue
		}
		rec := new(model.PlayerRecord)
		if err := json.Unmarshal(blob, rec); err != nil {
			return nil, errors.Wrapf(err, "failed decoding record of player %q", key)
		}
		cs.Players[model.PlayerID(key)] = rec
	}
	return cs, nil
}

func encode(data map[string]*model.ContextState) (map[string]map[string]json.RawMessage, error) {
	raw := make(map[string]map[string]json.RawMessage, len(data))
	for id, cs := range data {
		ctx, err := encodeContext(cs)
		if err != nil {
			return nil, errors.Wrapf(err, "context %q", id)
		}
		raw[id] = ctx
	}
	return raw, nil
}

func decode(raw map[string]map[string]json.RawMessage) (map[string]*model.ContextState, error) {
	data := make(map[string]*model.ContextState, len(raw))
	for id, ctx := range raw {
		cs, err := decodeContext(ctx)
		if err != nil {
			return nil, errors.Wrapf(err, "context %q", id)
		}
		data[id] = cs
	}
	return data, nil
}

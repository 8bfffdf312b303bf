package repo

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/garyburd/redigo/redis"
	"github.com/pkg/errors"
	"github.com/rcrowley/go-metrics"

	"github.com/VegeTB/N-League/model"
)

// Redis stores one hash per context. Player record JSON blobs are hash
// fields keyed by player id, with the reserved is_playoffs field kept in
// the same hash. A set tracks the known context ids.
type Redis struct {
	pool   *redis.Pool
	prefix string
}

func NewRedis(addr, prefix string) (*Redis, error) {
	if prefix == "" {
		prefix = "nleague"
	}
	r := &Redis{prefix: prefix}
	r.pool = &redis.Pool{
		MaxIdle:     3,
		IdleTimeout: 240 * time.Second,
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", addr)
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			_, err := c.Do("PING")
			return err
		},
	}
	if _, err := r.pool.Get().Do("PING"); err != nil {
		return nil, errors.Wrapf(err, "failed to ping redis at %q", addr)
	}

	go func() {
		redisConnCount := metrics.NewRegisteredGauge("redis.pool.count", metrics.DefaultRegistry)
		tick := time.Tick(5 * time.Second)
		for range tick {
			redisConnCount.Update(int64(r.pool.ActiveCount()))
		}
	}()

	return r, nil
}

func (r *Redis) contextsKey() string {
	return fmt.Sprintf("%s_contexts", r.prefix)
}

func (r *Redis) contextKey(id string) string {
	return fmt.Sprintf("%s_ctx_%s", r.prefix, id)
}

func (r *Redis) Load() (map[string]*model.ContextState, error) {
	defer loadTimer.UpdateSince(time.Now())

	conn := r.pool.Get()
	defer conn.Close()

	ids, err := redis.Strings(conn.Do("SMEMBERS", r.contextsKey()))
	if err != nil {
		return nil, errors.Wrap(err, "failed to list contexts")
	}

	data := make(map[string]*model.ContextState, len(ids))
	for _, id := range ids {
		fields, err := redis.StringMap(conn.Do("HGETALL", r.contextKey(id)))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read context %q", id)
		}
		raw := make(map[string]json.RawMessage, len(fields))
		for k, v := range fields {
			raw[k] = json.RawMessage(v)
		}
		cs, err := decodeContext(raw)
		if err != nil {
			return nil, err
		}
		data[id] = cs
	}

	return data, nil
}

func (r *Redis) Save(data map[string]*model.ContextState) error {
	defer saveTimer.UpdateSince(time.Now())

	conn := r.pool.Get()
	defer conn.Close()

	existing, err := redis.Strings(conn.Do("SMEMBERS", r.contextsKey()))
	if err != nil {
		return errors.Wrap(err, "failed to list contexts")
	}

	for _, id := range existing {
		conn.Send("DEL", r.contextKey(id))
	}
	conn.Send("DEL", r.contextsKey())

	for id, cs := range data {
		raw, err := encodeContext(cs)
		if err != nil {
			return err
		}
		key := r.contextKey(id)
		for field, blob := range raw {
			conn.Send("HSET", key, field, []byte(blob))
		}
		conn.Send("SADD", r.contextsKey(), id)
	}

	return conn.Flush()
}

func (r *Redis) Close() error {
	return r.pool.Close()
}

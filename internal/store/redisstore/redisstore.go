// Package redisstore is a store.Backend on Redis. Every record is a hash
// and each table keeps a lexicographically sorted set as its index.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/redis/go-redis/v9"

	"libranexus/internal/library"
	"libranexus/internal/store"
)

const (
	fieldVersion = "version"
	fieldMember  = "member"
	fieldData    = "data"

	sep = "\x00"
	// top sorts after every UTF-8 byte sequence.
	top = "\xff"
)

// Store implements store.Backend on a go-redis client.
type Store struct {
	client redis.UniversalClient
	prefix string
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix namespaces every key, letting tests share one database.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New wraps a client. The client's lifecycle stays with the caller.
func New(client redis.UniversalClient, opts ...Option) *Store {
	s := &Store{client: client, prefix: "libranexus"}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Connect parses a redis:// URL and verifies the server answers.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, classify(err, "redis ping failed")
	}
	return client, nil
}

func (s *Store) itemKey(t store.Table, id string) string {
	return s.prefix + ":" + t.Name + ":item:" + id
}

func (s *Store) indexKey(t store.Table) string {
	return s.prefix + ":" + t.Name + ":ndx"
}

func member(k store.Key) string {
	return k.Partition + sep + k.Sort + sep + k.ID
}

func idOf(m string) string {
	return m[strings.LastIndex(m, sep)+1:]
}

func (s *Store) Put(ctx context.Context, t store.Table, item store.Item) error {
	key, err := t.KeyOf(item)
	if err != nil {
		return err
	}
	data, err := store.Marshal(item)
	if err != nil {
		return err
	}
	itemKey := s.itemKey(t, key.ID)

	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, itemKey).Result()
		if err != nil {
			return err
		}
		if n > 0 {
			return library.DuplicateKey("%s %s already exists", t.Name, key.ID)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, itemKey, fieldVersion, store.Version(item), fieldMember, member(key), fieldData, data)
			pipe.ZAdd(ctx, s.indexKey(t), redis.Z{Member: member(key)})
			return nil
		})
		return err
	}, itemKey)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, redis.TxFailedErr):
		// Someone wrote the id between our check and commit.
		return library.DuplicateKey("%s %s already exists", t.Name, key.ID)
	}
	return classify(err, "failed to insert %s %s", t.Name, key.ID)
}

func (s *Store) Replace(ctx context.Context, t store.Table, item store.Item, expected int64) error {
	key, err := t.KeyOf(item)
	if err != nil {
		return err
	}
	data, err := store.Marshal(item)
	if err != nil {
		return err
	}
	itemKey := s.itemKey(t, key.ID)

	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.HMGet(ctx, itemKey, fieldVersion, fieldMember).Result()
		if err != nil {
			return err
		}
		if current[0] == nil || store.Stringify(current[0]) != fmt.Sprint(expected) {
			return library.VersionConflict(t.Name, key.ID, expected)
		}
		old := store.Stringify(current[1])
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, itemKey, fieldVersion, store.Version(item), fieldMember, member(key), fieldData, data)
			if old != member(key) {
				pipe.ZRem(ctx, s.indexKey(t), old)
				pipe.ZAdd(ctx, s.indexKey(t), redis.Z{Member: member(key)})
			}
			return nil
		})
		return err
	}, itemKey)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, redis.TxFailedErr):
		return library.VersionConflict(t.Name, key.ID, expected)
	}
	return classify(err, "failed to update %s %s", t.Name, key.ID)
}

func (s *Store) Lookup(ctx context.Context, t store.Table, id string, _ int) ([]store.Item, error) {
	data, err := s.client.HGet(ctx, s.itemKey(t, id), fieldData).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, classify(err, "failed to get %s %s", t.Name, id)
	}
	item, err := store.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return []store.Item{item}, nil
}

func (s *Store) Delete(ctx context.Context, t store.Table, id string) error {
	itemKey := s.itemKey(t, id)
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		m, err := tx.HGet(ctx, itemKey, fieldMember).Result()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, itemKey)
			pipe.ZRem(ctx, s.indexKey(t), m)
			return nil
		})
		return err
	}, itemKey)
	if err != nil {
		return classify(err, "failed to delete %s %s", t.Name, id)
	}
	return nil
}

// bounds computes the ZRANGEBYLEX interval for a scan.
func bounds(scan store.IndexScan) (string, string) {
	lo, hi := "-", "+"
	var prefix string
	if scan.Partition != nil {
		prefix = *scan.Partition + sep
		if scan.Sort != nil {
			prefix += *scan.Sort + sep
		}
		lo, hi = "["+prefix, "["+prefix+top
	}
	if scan.After != nil {
		after := member(*scan.After)
		if scan.Partition == nil || after >= prefix {
			lo = "(" + after
		}
	}
	return lo, hi
}

// Scan keeps reading the index until Limit records are loaded or the range
// is exhausted, so members whose records were deleted after the range read
// never shorten a batch.
func (s *Store) Scan(ctx context.Context, t store.Table, scan store.IndexScan) ([]store.Item, error) {
	lo, hi := bounds(scan)
	var items []store.Item
	for len(items) < scan.Limit {
		want := scan.Limit - len(items)
		members, err := s.client.ZRangeByLex(ctx, s.indexKey(t), &redis.ZRangeBy{
			Min:   lo,
			Max:   hi,
			Count: int64(want),
		}).Result()
		if err != nil {
			return nil, classify(err, "failed to scan %s", t.Name)
		}
		if len(members) == 0 {
			break
		}

		loaded, err := s.load(ctx, t, members)
		if err != nil {
			return nil, err
		}
		items = append(items, loaded...)
		if len(members) < want {
			break
		}
		lo = "(" + members[len(members)-1]
	}
	return items, nil
}

// load fetches the records behind index members, skipping members whose
// record is gone.
func (s *Store) load(ctx context.Context, t store.Table, members []string) ([]store.Item, error) {
	pipe := s.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(members))
	for i, m := range members {
		cmds[i] = pipe.HGet(ctx, s.itemKey(t, idOf(m)), fieldData)
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, classify(err, "failed to load %s records", t.Name)
	}

	items := make([]store.Item, 0, len(members))
	for _, cmd := range cmds {
		data, err := cmd.Bytes()
		if errors.Is(err, redis.Nil) {
			// deleted after the range read
			continue
		}
		if err != nil {
			return nil, classify(err, "failed to load %s record", t.Name)
		}
		item, err := store.Unmarshal(data)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func classify(err error, format string, args ...any) error {
	var lerr *library.Error
	if errors.As(err, &lerr) {
		return err
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.As(err, &netErr) || errors.Is(err, redis.ErrClosed) {
		return library.Database(err, true, format, args...)
	}
	return library.Database(err, false, format, args...)
}

var _ store.Backend = (*Store)(nil)

// Package store is the versioned persistence contract shared by every
// service: conditional create, version-checked update, idempotent delete
// and cursor-paginated index queries over pluggable backends.
package store

import (
	"context"
	"strings"

	"libranexus/internal/library"
)

const (
	AttrVersion   = "version"
	AttrUpdatedAt = "updated_at"

	MaxPageSize     = 500
	DefaultPageSize = 100
)

// Entity is anything persisted through a Repository.
type Entity interface {
	GetID() string
	GetVersion() int64
}

// Item is the attribute map a backend stores.
type Item map[string]any

// Table describes a record family and its single secondary index.
// Index order is (partition, sort, id), compared bytewise.
type Table struct {
	Name          string
	IDAttr        string
	PartitionAttr string
	SortAttr      string
	// DefaultPartition is used when a query does not name a partition.
	DefaultPartition string
}

// Key locates a record within a table's index.
type Key struct {
	ID        string
	Partition string
	Sort      string
}

// Less orders keys the way every backend scans them.
func (k Key) Less(o Key) bool {
	if c := strings.Compare(k.Partition, o.Partition); c != 0 {
		return c < 0
	}
	if c := strings.Compare(k.Sort, o.Sort); c != 0 {
		return c < 0
	}
	return k.ID < o.ID
}

// KeyOf extracts the index key of an item.
func (t Table) KeyOf(item Item) (Key, error) {
	id := Stringify(item[t.IDAttr])
	if id == "" {
		return Key{}, library.Validation("", "%s record is missing %s", t.Name, t.IDAttr)
	}
	return Key{
		ID:        id,
		Partition: Stringify(item[t.PartitionAttr]),
		Sort:      Stringify(item[t.SortAttr]),
	}, nil
}

// IndexScan asks a backend for up to Limit items in index order, strictly
// after After, optionally pinned to one partition and sort value.
type IndexScan struct {
	Partition *string
	Sort      *string
	After     *Key
	Limit     int
}

// Matches reports whether key falls inside the scan's bounds, ignoring
// Limit.
func (s IndexScan) Matches(key Key) bool {
	if s.Partition != nil && key.Partition != *s.Partition {
		return false
	}
	if s.Sort != nil && key.Sort != *s.Sort {
		return false
	}
	return s.After == nil || s.After.Less(key)
}

// Backend is the storage primitive a Repository drives. Implementations
// must make Put and Replace atomic with respect to their condition.
type Backend interface {
	// Put stores item only if no record with its id exists, otherwise it
	// returns a DuplicateKey error.
	Put(ctx context.Context, table Table, item Item) error
	// Replace overwrites the record only if its stored version equals
	// expected, otherwise it returns a version conflict.
	Replace(ctx context.Context, table Table, item Item, expected int64) error
	// Lookup returns at most limit records stored under id.
	Lookup(ctx context.Context, table Table, id string, limit int) ([]Item, error)
	// Delete removes the record if present.
	Delete(ctx context.Context, table Table, id string) error
	// Scan returns up to scan.Limit items in index order. Returning fewer
	// than Limit means the range is exhausted.
	Scan(ctx context.Context, table Table, scan IndexScan) ([]Item, error)
}

// ClampPageSize bounds a requested page size to (0, MaxPageSize].
func ClampPageSize(size int) int {
	switch {
	case size <= 0:
		return DefaultPageSize
	case size > MaxPageSize:
		return MaxPageSize
	}
	return size
}

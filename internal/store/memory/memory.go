// Package memory is an in-process store.Backend.
package memory

import (
	"context"
	"sort"
	"sync"

	"libranexus/internal/library"
	"libranexus/internal/store"
)

type record struct {
	key     store.Key
	version int64
	data    []byte
}

// Backend keeps records as encoded bytes so callers never share maps with
// the store.
type Backend struct {
	mu     sync.RWMutex
	tables map[string]map[string]record
}

func New() *Backend {
	return &Backend{tables: make(map[string]map[string]record)}
}

func (b *Backend) rows(table string) map[string]record {
	rows, ok := b.tables[table]
	if !ok {
		rows = make(map[string]record)
		b.tables[table] = rows
	}
	return rows
}

func encode(t store.Table, item store.Item) (record, error) {
	key, err := t.KeyOf(item)
	if err != nil {
		return record{}, err
	}
	data, err := store.Marshal(item)
	if err != nil {
		return record{}, err
	}
	return record{key: key, version: store.Version(item), data: data}, nil
}

func (b *Backend) Put(_ context.Context, t store.Table, item store.Item) error {
	rec, err := encode(t, item)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	rows := b.rows(t.Name)
	if _, exists := rows[rec.key.ID]; exists {
		return library.DuplicateKey("%s %s already exists", t.Name, rec.key.ID)
	}
	rows[rec.key.ID] = rec
	return nil
}

func (b *Backend) Replace(_ context.Context, t store.Table, item store.Item, expected int64) error {
	rec, err := encode(t, item)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	rows := b.rows(t.Name)
	current, exists := rows[rec.key.ID]
	if !exists || current.version != expected {
		return library.VersionConflict(t.Name, rec.key.ID, expected)
	}
	rows[rec.key.ID] = rec
	return nil
}

func (b *Backend) Lookup(_ context.Context, t store.Table, id string, _ int) ([]store.Item, error) {
	b.mu.RLock()
	rec, exists := b.tables[t.Name][id]
	b.mu.RUnlock()

	if !exists {
		return nil, nil
	}
	item, err := store.Unmarshal(rec.data)
	if err != nil {
		return nil, err
	}
	return []store.Item{item}, nil
}

func (b *Backend) Delete(_ context.Context, t store.Table, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.tables[t.Name], id)
	return nil
}

func (b *Backend) Scan(_ context.Context, t store.Table, scan store.IndexScan) ([]store.Item, error) {
	b.mu.RLock()
	var matched []record
	for _, rec := range b.tables[t.Name] {
		if scan.Matches(rec.key) {
			matched = append(matched, rec)
		}
	}
	b.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].key.Less(matched[j].key) })
	if scan.Limit > 0 && len(matched) > scan.Limit {
		matched = matched[:scan.Limit]
	}

	items := make([]store.Item, 0, len(matched))
	for _, rec := range matched {
		item, err := store.Unmarshal(rec.data)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Len reports how many records table holds.
func (b *Backend) Len(table string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.tables[table])
}

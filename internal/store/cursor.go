package store

import (
	"encoding/base64"

	"libranexus/internal/library"
)

// EncodeCursor serializes the index key of the last record of a page.
func (t Table) EncodeCursor(key Key) (string, error) {
	last := map[string]string{t.IDAttr: key.ID}
	if t.PartitionAttr != "" {
		last[t.PartitionAttr] = key.Partition
	}
	if t.SortAttr != "" {
		last[t.SortAttr] = key.Sort
	}
	data, err := codec.Marshal(last)
	if err != nil {
		return "", library.Serialization(err, "failed to encode page cursor")
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// DecodeCursor restores the resume key. Equality values for the index
// attributes in predicate override the serialized ones.
func (t Table) DecodeCursor(cursor string, predicate map[string]string) (*Key, error) {
	if cursor == "" {
		return nil, nil
	}
	data, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, library.Validation("400", "malformed page cursor")
	}
	last := map[string]string{}
	if err := codec.Unmarshal(data, &last); err != nil {
		return nil, library.Validation("400", "malformed page cursor")
	}
	for k, v := range predicate {
		field, op, err := ParseKey(k)
		if err != nil || op != OpEq {
			continue
		}
		if field == t.PartitionAttr || field == t.SortAttr {
			last[field] = v
		}
	}
	if last[t.IDAttr] == "" {
		return nil, library.Validation("400", "page cursor has no %s", t.IDAttr)
	}
	return &Key{ID: last[t.IDAttr], Partition: last[t.PartitionAttr], Sort: last[t.SortAttr]}, nil
}

package store

import (
	"encoding/json"
	"fmt"
	"strconv"

	jsoniter "github.com/json-iterator/go"

	"libranexus/internal/library"
)

var codec = jsoniter.Config{
	EscapeHTML:             false,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()

// Encode flattens an entity into its stored attribute map.
func Encode(v any) (Item, error) {
	data, err := codec.Marshal(v)
	if err != nil {
		return nil, library.Serialization(err, "failed to encode %T", v)
	}
	return Unmarshal(data)
}

// Decode rebuilds an entity from a stored attribute map.
func Decode[T any](item Item) (T, error) {
	var out T
	data, err := codec.Marshal(item)
	if err != nil {
		return out, library.Serialization(err, "failed to re-encode record")
	}
	if err := codec.Unmarshal(data, &out); err != nil {
		return out, library.Serialization(err, "failed to decode %T", out)
	}
	return out, nil
}

func Marshal(item Item) ([]byte, error) {
	data, err := codec.Marshal(item)
	if err != nil {
		return nil, library.Serialization(err, "failed to encode record")
	}
	return data, nil
}

func Unmarshal(data []byte) (Item, error) {
	item := Item{}
	if err := codec.Unmarshal(data, &item); err != nil {
		return nil, library.Serialization(err, "failed to decode record")
	}
	return item, nil
}

// Version reads the version attribute of an item.
func Version(item Item) int64 {
	switch v := item[AttrVersion].(type) {
	case json.Number:
		n, _ := v.Int64()
		return n
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

// Stringify renders an attribute the way predicates compare it. Missing
// and null attributes render as the empty string.
func Stringify(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(v)
}

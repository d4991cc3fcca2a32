package store

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libranexus/internal/library"
)

var checkoutTable = Table{
	Name:             "checkout",
	IDAttr:           "checkout_id",
	PartitionAttr:    "checkout_status",
	SortAttr:         "patron_id",
	DefaultPartition: "CheckedOut",
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		key   string
		field string
		op    Op
	}{
		{"due_at", "due_at", OpEq},
		{"due_at:<=", "due_at", OpLe},
		{"due_at:>=", "due_at", OpGe},
		{"due_at:<", "due_at", OpLt},
		{"due_at:>", "due_at", OpGt},
		{"due_at:<>", "due_at", OpNe},
		{"due_at:=", "due_at", OpEq},
	}
	for _, tt := range tests {
		field, op, err := ParseKey(tt.key)
		require.NoError(t, err, tt.key)
		assert.Equal(t, tt.field, field)
		assert.Equal(t, tt.op, op)
	}

	_, _, err := ParseKey("due_at:like")
	assert.True(t, library.IsKind(err, library.KindValidation))
}

func TestPlan(t *testing.T) {
	t.Run("default partition with sort key", func(t *testing.T) {
		plan, err := checkoutTable.Plan(map[string]string{"patron_id": "p1", "book_id": "b1"})
		require.NoError(t, err)
		require.NotNil(t, plan.Partition)
		assert.Equal(t, "CheckedOut", *plan.Partition)
		require.NotNil(t, plan.Sort)
		assert.Equal(t, "p1", *plan.Sort)
		assert.Equal(t, []Filter{{Field: "book_id", Op: OpEq, Value: "b1"}}, plan.Filters)
	})

	t.Run("explicit partition", func(t *testing.T) {
		plan, err := checkoutTable.Plan(map[string]string{"checkout_status": "Returned", "due_at:<=": "2023-01-01T00:00:00"})
		require.NoError(t, err)
		assert.Equal(t, "Returned", *plan.Partition)
		assert.Nil(t, plan.Sort)
		assert.Equal(t, []Filter{{Field: "due_at", Op: OpLe, Value: "2023-01-01T00:00:00"}}, plan.Filters)
	})

	t.Run("operator on index attribute filters", func(t *testing.T) {
		plan, err := checkoutTable.Plan(map[string]string{"patron_id:>=": "p"})
		require.NoError(t, err)
		assert.Nil(t, plan.Sort)
		assert.Equal(t, []Filter{{Field: "patron_id", Op: OpGe, Value: "p"}}, plan.Filters)
	})

	t.Run("sort without partition filters", func(t *testing.T) {
		books := Table{Name: "books", IDAttr: "book_id", PartitionAttr: "book_status", SortAttr: "isbn"}
		plan, err := books.Plan(map[string]string{"isbn": "123"})
		require.NoError(t, err)
		assert.Nil(t, plan.Partition)
		assert.Nil(t, plan.Sort)
		assert.Equal(t, []Filter{{Field: "isbn", Op: OpEq, Value: "123"}}, plan.Filters)
	})
}

func TestFilterMatch(t *testing.T) {
	item := Item{
		"due_at":      "2023-04-11T11:11:11",
		"returned_at": nil,
		"version":     json.Number("10"),
		"restricted":  true,
	}

	assert.True(t, Filter{"due_at", OpLe, "2023-04-11T11:11:11"}.Match(item))
	assert.True(t, Filter{"due_at", OpLt, "2023-04-11T11:11:11.5"}.Match(item))
	assert.False(t, Filter{"due_at", OpGt, "2023-05-01T00:00:00"}.Match(item))
	assert.True(t, Filter{"version", OpGt, "9"}.Match(item), "numbers compare numerically")
	assert.True(t, Filter{"restricted", OpEq, "true"}.Match(item))
	assert.True(t, Filter{"returned_at", OpEq, ""}.Match(item))
	assert.False(t, Filter{"missing", OpNe, "x"}.Match(item))
}

func TestFilterMatchDigitStrings(t *testing.T) {
	item := Item{
		"isbn":  "0306406152",
		"long":  "12345678901234567",
		"count": json.Number("12345678901234567"),
		"ratio": json.Number("0.5"),
	}

	assert.False(t, Filter{"isbn", OpEq, "306406152"}.Match(item), "leading zeros are significant")
	assert.True(t, Filter{"isbn", OpEq, "0306406152"}.Match(item))
	assert.True(t, Filter{"isbn", OpLt, "1"}.Match(item))
	assert.False(t, Filter{"long", OpEq, "12345678901234568"}.Match(item))
	assert.True(t, Filter{"long", OpLt, "12345678901234568"}.Match(item))
	assert.False(t, Filter{"long", OpGt, "9"}.Match(item), "strings do not order numerically")

	assert.False(t, Filter{"count", OpEq, "12345678901234568"}.Match(item), "integers compare exactly")
	assert.True(t, Filter{"count", OpGt, "9"}.Match(item))
	assert.True(t, Filter{"ratio", OpLt, "1"}.Match(item))
	assert.True(t, Filter{"ratio", OpEq, "0.50"}.Match(item))
	assert.True(t, Filter{"count", OpNe, "many"}.Match(item))
}

func TestCursorRoundTrip(t *testing.T) {
	key := Key{ID: "c1", Partition: "CheckedOut", Sort: "p1"}
	cursor, err := checkoutTable.EncodeCursor(key)
	require.NoError(t, err)

	got, err := checkoutTable.DecodeCursor(cursor, nil)
	require.NoError(t, err)
	assert.Equal(t, key, *got)

	got, err = checkoutTable.DecodeCursor(cursor, map[string]string{"checkout_status": "Returned", "checkout_id": "zzz"})
	require.NoError(t, err)
	assert.Equal(t, Key{ID: "c1", Partition: "Returned", Sort: "p1"}, *got)

	got, err = checkoutTable.DecodeCursor("", nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestClampPageSize(t *testing.T) {
	assert.Equal(t, DefaultPageSize, ClampPageSize(0))
	assert.Equal(t, DefaultPageSize, ClampPageSize(-3))
	assert.Equal(t, 7, ClampPageSize(7))
	assert.Equal(t, MaxPageSize, ClampPageSize(501))
}

func TestKeyOrder(t *testing.T) {
	keys := []Key{
		{ID: "a", Partition: "A", Sort: "x"},
		{ID: "b", Partition: "A", Sort: "x"},
		{ID: "a", Partition: "A", Sort: "xy"},
		{ID: "a", Partition: "B", Sort: ""},
	}
	for i := 1; i < len(keys); i++ {
		assert.True(t, keys[i-1].Less(keys[i]), "%v < %v", keys[i-1], keys[i])
		assert.False(t, keys[i].Less(keys[i-1]))
	}
}

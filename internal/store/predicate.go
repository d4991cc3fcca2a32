package store

import (
	"cmp"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"libranexus/internal/library"
)

// Op is a comparison operator carried as a key suffix, e.g. "due_at:<=".
type Op string

const (
	OpEq Op = "="
	OpNe Op = "<>"
	OpLt Op = "<"
	OpLe Op = "<="
	OpGt Op = ">"
	OpGe Op = ">="
)

// Filter is one conjunct evaluated against every scanned record.
type Filter struct {
	Field string
	Op    Op
	Value string
}

// ParseKey splits a predicate key into its field and operator.
func ParseKey(key string) (string, Op, error) {
	field, suffix, found := strings.Cut(key, ":")
	if !found {
		return key, OpEq, nil
	}
	switch op := Op(suffix); op {
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe:
		return field, op, nil
	}
	return "", "", library.Validation("400", "unsupported operator %q in %q", suffix, key)
}

// Match applies the filter to an item. Absent attributes never match.
// Number attributes compare numerically, everything else bytewise.
func (f Filter) Match(item Item) bool {
	raw, ok := item[f.Field]
	if !ok {
		return false
	}
	c := compare(raw, f.Value)
	switch f.Op {
	case OpEq:
		return c == 0
	case OpNe:
		return c != 0
	case OpLt:
		return c < 0
	case OpLe:
		return c <= 0
	case OpGt:
		return c > 0
	case OpGe:
		return c >= 0
	}
	return false
}

func compare(raw any, value string) int {
	switch v := raw.(type) {
	case json.Number:
		if x, err := v.Int64(); err == nil {
			if y, err := strconv.ParseInt(value, 10, 64); err == nil {
				return cmp.Compare(x, y)
			}
		}
		if x, err := v.Float64(); err == nil {
			return compareFloat(x, value, v.String())
		}
	case int:
		return compareInt(int64(v), value)
	case int64:
		return compareInt(v, value)
	case float64:
		return compareFloat(v, value, Stringify(v))
	}
	return strings.Compare(Stringify(raw), value)
}

func compareInt(x int64, value string) int {
	if y, err := strconv.ParseInt(value, 10, 64); err == nil {
		return cmp.Compare(x, y)
	}
	return compareFloat(float64(x), value, strconv.FormatInt(x, 10))
}

// compareFloat falls back to the attribute's text when value is not a
// number.
func compareFloat(x float64, value, text string) int {
	y, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return strings.Compare(text, value)
	}
	return cmp.Compare(x, y)
}

// Plan is a predicate resolved against a table's index.
type Plan struct {
	Partition *string
	Sort      *string
	Filters   []Filter
}

// Plan resolves predicate into index bounds and residual filters.
// Equality on the partition attribute selects the partition, falling back
// to the table default. Equality on the sort attribute narrows within a
// chosen partition. Everything else filters.
func (t Table) Plan(predicate map[string]string) (Plan, error) {
	var plan Plan
	var sortEq *string
	for key, value := range predicate {
		field, op, err := ParseKey(key)
		if err != nil {
			return Plan{}, err
		}
		v := value
		switch {
		case op == OpEq && field == t.PartitionAttr && t.PartitionAttr != "":
			plan.Partition = &v
		case op == OpEq && field == t.SortAttr && t.SortAttr != "":
			sortEq = &v
		default:
			plan.Filters = append(plan.Filters, Filter{Field: field, Op: op, Value: v})
		}
	}
	if plan.Partition == nil && t.DefaultPartition != "" {
		def := t.DefaultPartition
		plan.Partition = &def
	}
	if sortEq != nil {
		if plan.Partition != nil {
			plan.Sort = sortEq
		} else {
			plan.Filters = append(plan.Filters, Filter{Field: t.SortAttr, Op: OpEq, Value: *sortEq})
		}
	}
	sort.Slice(plan.Filters, func(i, j int) bool {
		if plan.Filters[i].Field != plan.Filters[j].Field {
			return plan.Filters[i].Field < plan.Filters[j].Field
		}
		return plan.Filters[i].Op < plan.Filters[j].Op
	})
	return plan, nil
}

func (p Plan) Match(item Item) bool {
	for _, f := range p.Filters {
		if !f.Match(item) {
			return false
		}
	}
	return true
}

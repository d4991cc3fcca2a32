package library

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestTimestampFormat(t *testing.T) {
	ts := At(time.Date(2023, 4, 11, 11, 11, 11, 0, time.UTC))
	assert.Equal(t, "2023-04-11T11:11:11", ts.String())

	ts = At(time.Date(2023, 4, 11, 11, 11, 11, 123456789, time.UTC))
	assert.Equal(t, "2023-04-11T11:11:11.123456", ts.String())
}

func TestTimestampJSON(t *testing.T) {
	type record struct {
		At       Timestamp  `json:"at"`
		Returned *Timestamp `json:"returned"`
	}

	var r record
	require.NoError(t, json.Unmarshal([]byte(`{"at":"2023-07-17T17:17:17","returned":null}`), &r))
	assert.Equal(t, "2023-07-17T17:17:17", r.At.String())
	assert.Nil(t, r.Returned)

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"at":"2023-07-17T17:17:17","returned":null}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"at":"yesterday"}`), &r))
}

func TestTimestampRoundTripAndOrder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := At(time.Unix(rapid.Int64Range(0, 4102444800).Draw(t, "a"), rapid.Int64Range(0, 999999999).Draw(t, "an")))
		b := At(time.Unix(rapid.Int64Range(0, 4102444800).Draw(t, "b"), rapid.Int64Range(0, 999999999).Draw(t, "bn")))

		parsed, err := ParseTimestamp(a.String())
		if err != nil {
			t.Fatalf("parse %q: %v", a.String(), err)
		}
		if !parsed.Equal(a.Time) {
			t.Fatalf("round trip %v != %v", parsed, a)
		}
		if a.Before(b.Time) != (a.String() < b.String()) {
			t.Fatalf("ordering differs for %s and %s", a, b)
		}
	})
}

package library

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the UTC-naive wire format used for every persisted
// instant. The fraction is dropped when zero so values still order
// lexicographically.
const TimestampLayout = "2006-01-02T15:04:05.999999"

// Timestamp is a UTC instant with microsecond precision.
type Timestamp struct {
	time.Time
}

func Now() Timestamp {
	return At(time.Now())
}

// At normalizes t to UTC and microsecond precision.
func At(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC().Truncate(time.Microsecond)}
}

func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSuffix(s, "Z")
	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return Timestamp{}, Serialization(err, "invalid timestamp %q", s)
	}
	return At(t), nil
}

func (t Timestamp) String() string {
	return t.UTC().Format(TimestampLayout)
}

func (t Timestamp) AddDays(days int) Timestamp {
	return At(t.AddDate(0, 0, days))
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		*t = Timestamp{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("timestamp must be a JSON string, got %s", s)
	}
	parsed, err := ParseTimestamp(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

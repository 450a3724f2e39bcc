package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// DisplayLayout is the short date format used by list screens.
const DisplayLayout = "02 Jan 2006"

var errUnsupportedShape = errors.New("timestamp: unsupported shape")

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp decodes the two date shapes the OrderFlow API emits: an ISO-8601
// string, or a numeric tuple [year, month, day, hour, minute, second, nanos]
// where everything after day is optional. The zero value means absent.
//
// A value in neither shape decodes as absent and keeps its raw text for logging.
type Timestamp struct {
	time.Time
	raw string
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	ts.raw = ""
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		ts.Time = time.Time{}
		return nil
	}

	var err error
	switch data[0] {
	case '"':
		var raw string
		if err = json.Unmarshal(data, &raw); err == nil {
			err = ts.parseString(raw)
		}
	case '[':
		var parts []int
		if err = json.Unmarshal(data, &parts); err == nil {
			err = ts.parseTuple(parts)
		}
	default:
		err = errUnsupportedShape
	}
	if err != nil {
		ts.Time = time.Time{}
		ts.raw = string(data)
	}
	return nil
}

// Unreadable returns the raw JSON of a value that could not be decoded, or ""
// when the timestamp was read (or was absent).
func (ts Timestamp) Unreadable() string {
	return ts.raw
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.Time.Format(time.RFC3339Nano))
}

// Display renders the date for tables; absent dates render as N/A.
func (ts Timestamp) Display() string {
	if ts.IsZero() {
		return "N/A"
	}
	return ts.Time.Format(DisplayLayout)
}

func (ts *Timestamp) parseString(raw string) error {
	if raw == "" {
		ts.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			ts.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("timestamp: cannot parse %q", raw)
}

func (ts *Timestamp) parseTuple(parts []int) error {
	if len(parts) == 0 {
		ts.Time = time.Time{}
		return nil
	}
	if len(parts) < 3 || len(parts) > 7 {
		return fmt.Errorf("timestamp tuple: expected 3 to 7 elements, got %d", len(parts))
	}

	fields := [7]int{}
	copy(fields[:], parts)
	year, month, day := fields[0], fields[1], fields[2]
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return fmt.Errorf("timestamp tuple: invalid date %v", parts)
	}

	ts.Time = time.Date(year, time.Month(month), day, fields[3], fields[4], fields[5], fields[6], time.UTC)
	return nil
}

// DateField pairs a JSON field name with its decoded value.
type DateField struct {
	Name  string
	Value Timestamp
}

// UnreadableDates maps field names to raw values that failed to decode. It
// returns nil when every date was read.
func UnreadableDates(fields ...DateField) map[string]string {
	var out map[string]string
	for _, f := range fields {
		if f.Value.raw == "" {
			continue
		}
		if out == nil {
			out = make(map[string]string, len(fields))
		}
		out[f.Name] = f.Value.raw
	}
	return out
}

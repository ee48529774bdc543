package domain

import (
	"bytes"
	"database/sql/driver"
	"fmt"

	"github.com/goccy/go-json"
)

// DateTime is the submitted dateTime kept as compact raw JSON. It is never
// parsed: a string, a number or any other JSON value is stored and echoed
// unchanged.
type DateTime struct {
	raw string
}

// DateTimeFromString wraps a textual value such as a form field.
func DateTimeFromString(s string) DateTime {
	b, err := json.MarshalWithOption(s, json.DisableHTMLEscape())
	if err != nil {
		return DateTime{}
	}
	return DateTime{raw: string(b)}
}

func (d *DateTime) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*d = DateTime{}
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, b); err != nil {
		return fmt.Errorf("datetime: %w", err)
	}
	d.raw = buf.String()
	return nil
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	if len(d.raw) == 0 {
		return []byte("null"), nil
	}
	return []byte(d.raw), nil
}

// Text is the value as text: the decoded string for JSON strings, the raw
// JSON otherwise. Empty when absent, null or "".
func (d DateTime) Text() string {
	if len(d.raw) == 0 {
		return ""
	}
	if d.raw[0] == '"' {
		var s string
		if err := json.Unmarshal([]byte(d.raw), &s); err == nil {
			return s
		}
	}
	return d.raw
}

// String returns the raw JSON.
func (d DateTime) String() string {
	return d.raw
}

// Value stores the raw JSON so the value type survives a round trip.
func (d DateTime) Value() (driver.Value, error) {
	if len(d.raw) == 0 {
		return nil, nil
	}
	return d.raw, nil
}

func (d *DateTime) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = DateTime{}
	case string:
		return d.UnmarshalJSON([]byte(v))
	case []byte:
		return d.UnmarshalJSON(v)
	default:
		return fmt.Errorf("datetime: cannot scan %T", src)
	}
	return nil
}
